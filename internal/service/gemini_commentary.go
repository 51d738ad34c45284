package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/gemini"
)

// GeminiCommentaryProvider generates portfolio commentary with the Gemini
// API. Generation failures fall back to the template provider so an analysis
// run never fails because the model was unavailable.
type GeminiCommentaryProvider struct {
	client   *gemini.Client
	fallback TemplateCommentaryProvider
}

// NewGeminiCommentaryProvider creates a provider backed by the given client.
func NewGeminiCommentaryProvider(client *gemini.Client) *GeminiCommentaryProvider {
	return &GeminiCommentaryProvider{client: client}
}

// GenerateCommentary prompts the model with the priced portfolio and the
// user's risk profile.
func (p *GeminiCommentaryProvider) GenerateCommentary(ctx context.Context, req CommentaryRequest) (string, error) {
	text, err := p.client.GenerateContent(ctx, buildCommentaryPrompt(req))
	if err != nil {
		log.Printf("gemini commentary failed, using template: %v", err)
		return p.fallback.GenerateCommentary(ctx, req)
	}
	return text, nil
}

func buildCommentaryPrompt(req CommentaryRequest) string {
	var sb strings.Builder
	sb.WriteString("You are a portfolio analyst. Write a concise portfolio analysis with an overall assessment, a holdings breakdown, and three recommendations.\n\n")
	fmt.Fprintf(&sb, "Investor: age %d, %d years to retirement, %s risk tolerance (%s assessment), monthly obligations $%.0f.\n\nHoldings:\n",
		req.User.Age,
		req.User.RetirementYears,
		req.User.RiskTolerance,
		req.User.RiskAssessmentMode,
		req.User.ObligationsAmount,
	)
	for _, h := range req.Holdings {
		fmt.Fprintf(&sb, "- %s: %.4f shares, value $%.2f, gain/loss %+.1f%%, sector %s\n",
			h.Ticker, h.Shares, h.CurrentValue, h.GainLossPct, h.Sector)
	}
	fmt.Fprintf(&sb, "\nTop-3 concentration: %.1f%%. Diversification score: %.0f/100.\n",
		req.Metrics.ConcentrationTop3Pct, req.Metrics.DiversificationScore)
	return sb.String()
}
