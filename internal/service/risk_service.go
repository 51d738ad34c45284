package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/model"
	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/repository"
)

// ClassifyRiskTolerance derives a risk category from a user's financial
// inputs. It is deterministic and total: every input lands in exactly one
// category, with rules evaluated in order and the first match winning.
//
//  1. A short runway to retirement, age 55 or above, or obligations of 2500
//     or more force conservative regardless of the other inputs.
//  2. A long runway, high income, and low obligations together allow
//     aggressive.
//  3. Everything else is moderate.
//
// All boundaries are inclusive as written: retirementYears of exactly 10 is
// conservative, obligations of exactly 2500 is conservative, and obligations
// of exactly 1000 still satisfies the aggressive gate. Obligations strictly
// between 1000 and 2500 only remove aggressive eligibility.
func ClassifyRiskTolerance(age int, income float64, retirementYears int, obligations float64) string {
	if retirementYears <= 10 || age >= 55 || obligations >= 2500 {
		return model.RiskConservative
	}
	if retirementYears >= 25 && income >= 100000 && obligations <= 1000 {
		return model.RiskAggressive
	}
	return model.RiskModerate
}

// ProfileInput carries the risk profile fields for create and update
// operations. RiskTolerance is only honored in manual assessment mode; in ai
// mode the classifier output is stored instead.
type ProfileInput struct {
	Age                int
	Income             float64
	RiskTolerance      string
	RiskAssessmentMode string
	RetirementYears    int
	ObligationsAmount  float64
}

// ProfileService handles user and risk-profile business logic.
type ProfileService struct {
	userRepo    *repository.UserRepository
	profileRepo *repository.ProfileRepository
}

// NewProfileService creates a new ProfileService with the provided repository dependencies.
func NewProfileService(userRepo *repository.UserRepository, profileRepo *repository.ProfileRepository) *ProfileService {
	return &ProfileService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
	}
}

// CreateUser creates a user with their risk profile and seeds the profile
// cache with template commentary for the chosen allocation.
func (s *ProfileService) CreateUser(input ProfileInput, now time.Time) (model.User, error) {
	user := model.User{
		ID:                 uuid.NewString(),
		Age:                input.Age,
		Income:             input.Income,
		RiskTolerance:      resolveTolerance(input),
		RiskAssessmentMode: normalizeAssessmentMode(input.RiskAssessmentMode),
		RetirementYears:    input.RetirementYears,
		ObligationsAmount:  input.ObligationsAmount,
		CreatedAt:          now.UTC(),
	}

	created, err := s.userRepo.Create(user)
	if err != nil {
		return model.User{}, err
	}

	commentary := BuildProfileCommentary(created)
	profile := model.ProfileRecord{
		UserID:            created.ID,
		ProfileCommentary: &commentary,
	}
	if err := s.profileRepo.Save(profile); err != nil {
		return model.User{}, fmt.Errorf("failed to seed profile cache: %w", err)
	}

	return created, nil
}

// GetUser retrieves a user and their risk profile.
func (s *ProfileService) GetUser(userID string) (model.User, error) {
	return s.userRepo.GetByID(userID)
}

// UpdateProfile replaces a user's risk profile fields.
//
// Classification is a one-shot action: in ai mode the stored tolerance is
// the classifier output for the submitted fields at update time, and it is
// not re-verified if the fields drift later.
func (s *ProfileService) UpdateProfile(userID string, input ProfileInput) (model.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return model.User{}, err
	}

	user.Age = input.Age
	user.Income = input.Income
	user.RetirementYears = input.RetirementYears
	user.ObligationsAmount = input.ObligationsAmount
	user.RiskAssessmentMode = normalizeAssessmentMode(input.RiskAssessmentMode)
	user.RiskTolerance = resolveTolerance(input)

	return s.userRepo.Update(user)
}

// resolveTolerance picks the stored tolerance for an input: the classifier
// output in ai mode, the submitted value otherwise.
func resolveTolerance(input ProfileInput) string {
	if normalizeAssessmentMode(input.RiskAssessmentMode) == model.AssessmentAI {
		return ClassifyRiskTolerance(input.Age, input.Income, input.RetirementYears, input.ObligationsAmount)
	}
	return input.RiskTolerance
}

func normalizeAssessmentMode(mode string) string {
	if mode == model.AssessmentAI {
		return model.AssessmentAI
	}
	return model.AssessmentManual
}
