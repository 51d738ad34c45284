package service_test

import (
	"testing"
	"time"

	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/model"
	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/service"
	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/testutil"
)

// TestClassifyRiskTolerance tests the rule-based risk classifier.
//
// WHY: The classifier's three rules have a strict precedence and inclusive
// boundaries. A boundary off by one silently shifts users into the wrong
// allocation, so every threshold is pinned here.
func TestClassifyRiskTolerance(t *testing.T) {
	tests := []struct {
		name            string
		age             int
		income          float64
		retirementYears int
		obligations     float64
		expected        string
	}{
		{
			name:            "young high earner with low obligations is aggressive",
			age:             30,
			income:          120000,
			retirementYears: 35,
			obligations:     500,
			expected:        model.RiskAggressive,
		},
		{
			name:            "mid profile is moderate",
			age:             40,
			income:          90000,
			retirementYears: 20,
			obligations:     1500,
			expected:        model.RiskModerate,
		},
		{
			name:            "near retirement is conservative",
			age:             50,
			income:          150000,
			retirementYears: 8,
			obligations:     500,
			expected:        model.RiskConservative,
		},
		{
			name:            "age 55 boundary is conservative",
			age:             55,
			income:          200000,
			retirementYears: 30,
			obligations:     0,
			expected:        model.RiskConservative,
		},
		{
			name:            "age 54 with short timeline is still conservative via retirement rule",
			age:             54,
			income:          200000,
			retirementYears: 10,
			obligations:     0,
			expected:        model.RiskConservative,
		},
		{
			name:            "retirement years 11 escapes conservative",
			age:             40,
			income:          50000,
			retirementYears: 11,
			obligations:     1000,
			expected:        model.RiskModerate,
		},
		{
			name:            "obligations 2500 boundary is conservative",
			age:             30,
			income:          120000,
			retirementYears: 35,
			obligations:     2500,
			expected:        model.RiskConservative,
		},
		{
			name:            "conservative rule wins over aggressive profile",
			age:             58,
			income:          300000,
			retirementYears: 40,
			obligations:     0,
			expected:        model.RiskConservative,
		},
		{
			name:            "aggressive boundaries are inclusive",
			age:             35,
			income:          100000,
			retirementYears: 25,
			obligations:     1000,
			expected:        model.RiskAggressive,
		},
		{
			name:            "income below aggressive threshold is moderate",
			age:             35,
			income:          99999,
			retirementYears: 25,
			obligations:     1000,
			expected:        model.RiskModerate,
		},
		{
			name:            "obligations above aggressive threshold is moderate",
			age:             35,
			income:          100000,
			retirementYears: 25,
			obligations:     1001,
			expected:        model.RiskModerate,
		},
		{
			name:            "retirement years below aggressive threshold is moderate",
			age:             35,
			income:          100000,
			retirementYears: 24,
			obligations:     1000,
			expected:        model.RiskModerate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := service.ClassifyRiskTolerance(tt.age, tt.income, tt.retirementYears, tt.obligations)
			if got != tt.expected {
				t.Errorf("ClassifyRiskTolerance(%d, %.0f, %d, %.0f) = %q, want %q",
					tt.age, tt.income, tt.retirementYears, tt.obligations, got, tt.expected)
			}
		})
	}
}

// TestClassifyRiskTolerance_Deterministic tests that classification is pure.
//
// WHY: The classify endpoint promises the same inputs always produce the
// same category; nothing may be stored or randomized.
func TestClassifyRiskTolerance_Deterministic(t *testing.T) {
	first := service.ClassifyRiskTolerance(42, 85000, 18, 1200)
	for i := 0; i < 10; i++ {
		if got := service.ClassifyRiskTolerance(42, 85000, 18, 1200); got != first {
			t.Fatalf("classification changed between calls: %q then %q", first, got)
		}
	}
}

// TestProfileService_CreateUser tests user creation with profile seeding.
//
// WHY: Creation must honor the assessment mode (manual keeps the submitted
// tolerance, ai stores the classifier output) and seed the profile cache
// with allocation commentary.
func TestProfileService_CreateUser(t *testing.T) {
	t.Run("manual mode keeps submitted tolerance", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestProfileService(t, db)

		// Execute
		user, err := svc.CreateUser(service.ProfileInput{
			Age:                30,
			Income:             120000,
			RiskTolerance:      model.RiskConservative,
			RiskAssessmentMode: model.AssessmentManual,
			RetirementYears:    35,
			ObligationsAmount:  500,
		}, time.Now())

		// Assert
		if err != nil {
			t.Fatalf("CreateUser() returned unexpected error: %v", err)
		}
		if user.RiskTolerance != model.RiskConservative {
			t.Errorf("Expected submitted tolerance to be kept, got %q", user.RiskTolerance)
		}
		if user.ID == "" {
			t.Error("Expected a generated user ID")
		}
	})

	t.Run("ai mode stores classifier output", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestProfileService(t, db)

		// Execute: submitted tolerance disagrees with the classifier
		user, err := svc.CreateUser(service.ProfileInput{
			Age:                30,
			Income:             120000,
			RiskTolerance:      model.RiskConservative,
			RiskAssessmentMode: model.AssessmentAI,
			RetirementYears:    35,
			ObligationsAmount:  500,
		}, time.Now())

		// Assert
		if err != nil {
			t.Fatalf("CreateUser() returned unexpected error: %v", err)
		}
		if user.RiskTolerance != model.RiskAggressive {
			t.Errorf("Expected classifier output %q, got %q", model.RiskAggressive, user.RiskTolerance)
		}
	})

	t.Run("seeds profile commentary", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestProfileService(t, db)

		// Execute
		user, err := svc.CreateUser(service.ProfileInput{
			Age:                40,
			Income:             90000,
			RiskTolerance:      model.RiskModerate,
			RiskAssessmentMode: model.AssessmentManual,
			RetirementYears:    20,
			ObligationsAmount:  1500,
		}, time.Now())
		if err != nil {
			t.Fatalf("CreateUser() returned unexpected error: %v", err)
		}

		// Assert
		var commentary string
		err = db.QueryRow("SELECT profile_commentary FROM user_profiles WHERE user_id = ?", user.ID).Scan(&commentary)
		if err != nil {
			t.Fatalf("Failed to read seeded profile: %v", err)
		}
		if commentary == "" {
			t.Error("Expected non-empty profile commentary")
		}
	})
}

// TestProfileService_UpdateProfile tests profile replacement.
//
// WHY: Classification is one-shot: an ai-mode update stores the classifier
// output for the submitted fields at update time, and a later manual update
// must not silently reclassify.
func TestProfileService_UpdateProfile(t *testing.T) {
	t.Run("ai mode reclassifies from submitted fields", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestProfileService(t, db)
		user := testutil.NewUser().WithRiskTolerance(model.RiskModerate).Build(t, db)

		// Execute
		updated, err := svc.UpdateProfile(user.ID, service.ProfileInput{
			Age:                58,
			Income:             90000,
			RiskTolerance:      model.RiskAggressive,
			RiskAssessmentMode: model.AssessmentAI,
			RetirementYears:    7,
			ObligationsAmount:  3000,
		})

		// Assert
		if err != nil {
			t.Fatalf("UpdateProfile() returned unexpected error: %v", err)
		}
		if updated.RiskTolerance != model.RiskConservative {
			t.Errorf("Expected reclassified tolerance %q, got %q", model.RiskConservative, updated.RiskTolerance)
		}
	})

	t.Run("unknown assessment mode falls back to manual", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestProfileService(t, db)
		user := testutil.NewUser().Build(t, db)

		// Execute
		updated, err := svc.UpdateProfile(user.ID, service.ProfileInput{
			Age:                40,
			Income:             90000,
			RiskTolerance:      model.RiskAggressive,
			RiskAssessmentMode: "oracle",
			RetirementYears:    20,
			ObligationsAmount:  1500,
		})

		// Assert
		if err != nil {
			t.Fatalf("UpdateProfile() returned unexpected error: %v", err)
		}
		if updated.RiskAssessmentMode != model.AssessmentManual {
			t.Errorf("Expected mode normalized to manual, got %q", updated.RiskAssessmentMode)
		}
		if updated.RiskTolerance != model.RiskAggressive {
			t.Errorf("Expected submitted tolerance kept in manual mode, got %q", updated.RiskTolerance)
		}
	})

	t.Run("returns not found for missing user", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestProfileService(t, db)

		// Execute
		_, err := svc.UpdateProfile(testutil.MakeID(), service.ProfileInput{Age: 40})

		// Assert
		if err == nil {
			t.Error("Expected error for missing user, got nil")
		}
	})
}
