package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/model"
	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/service"
)

func commentaryUser() model.User {
	return model.User{
		RiskTolerance:      "moderate",
		RiskAssessmentMode: "manual",
		RetirementYears:    30,
		ObligationsAmount:  1500,
	}
}

// TestTemplateCommentary_TechConcentration verifies that the template
// provider flags a portfolio where more than 60% of positions are large-cap
// technology names, and stays neutral below that line.
func TestTemplateCommentary_TechConcentration(t *testing.T) {
	provider := service.TemplateCommentaryProvider{}

	t.Run("concentrated", func(t *testing.T) {
		// Setup
		req := service.CommentaryRequest{
			User: commentaryUser(),
			Holdings: []model.PricedHolding{
				{Holding: model.Holding{Ticker: "AAPL"}},
				{Holding: model.Holding{Ticker: "MSFT"}},
				{Holding: model.Holding{Ticker: "NVDA"}},
				{Holding: model.Holding{Ticker: "JNJ"}},
			},
		}

		// Execute
		text, err := provider.GenerateCommentary(context.Background(), req)

		// Assert
		if err != nil {
			t.Fatalf("GenerateCommentary failed: %v", err)
		}
		if !strings.Contains(text, "heavily concentrated in technology") {
			t.Error("expected the concentration warning for a tech-heavy portfolio")
		}
	})

	t.Run("diversified", func(t *testing.T) {
		// Setup
		req := service.CommentaryRequest{
			User: commentaryUser(),
			Holdings: []model.PricedHolding{
				{Holding: model.Holding{Ticker: "AAPL"}},
				{Holding: model.Holding{Ticker: "JNJ"}},
				{Holding: model.Holding{Ticker: "XOM"}},
				{Holding: model.Holding{Ticker: "PG"}},
			},
		}

		// Execute
		text, err := provider.GenerateCommentary(context.Background(), req)

		// Assert
		if err != nil {
			t.Fatalf("GenerateCommentary failed: %v", err)
		}
		if !strings.Contains(text, "good sector diversification") {
			t.Error("expected the diversification note for a mixed portfolio")
		}
	})
}

// TestTemplateCommentary_ContentsAndTimeline verifies that the rendered text
// lists every position with its value and frames the risk assessment by the
// user's retirement timeline.
func TestTemplateCommentary_ContentsAndTimeline(t *testing.T) {
	// Setup
	provider := service.TemplateCommentaryProvider{}
	user := commentaryUser()
	user.RetirementYears = 30

	req := service.CommentaryRequest{
		User: user,
		Holdings: []model.PricedHolding{
			{Holding: model.Holding{Ticker: "JNJ"}, CurrentValue: 1500, GainLossPct: 12.5},
		},
	}

	// Execute
	text, err := provider.GenerateCommentary(context.Background(), req)

	// Assert
	if err != nil {
		t.Fatalf("GenerateCommentary failed: %v", err)
	}
	if !strings.Contains(text, "JNJ: $1500.00 (+12.5%)") {
		t.Errorf("expected the holding breakdown line, got:\n%s", text)
	}
	if !strings.Contains(text, "30 years until retirement") {
		t.Error("expected the retirement timeline in the recommendations")
	}
	if !strings.Contains(text, "well-suited") {
		t.Error("expected a long timeline to be called well-suited")
	}
	if !strings.Contains(text, "moderate risk tolerance (manual assessment)") {
		t.Error("expected the risk assessment line to name tolerance and mode")
	}
}

// TestTemplateCommentary_ShortTimeline verifies that a short retirement
// horizon is framed as slightly aggressive instead of well-suited.
func TestTemplateCommentary_ShortTimeline(t *testing.T) {
	// Setup
	provider := service.TemplateCommentaryProvider{}
	user := commentaryUser()
	user.RetirementYears = 10

	// Execute
	text, err := provider.GenerateCommentary(context.Background(), service.CommentaryRequest{User: user})

	// Assert
	if err != nil {
		t.Fatalf("GenerateCommentary failed: %v", err)
	}
	if !strings.Contains(text, "slightly aggressive") {
		t.Error("expected a short timeline to be called slightly aggressive")
	}
}
