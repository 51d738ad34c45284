package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/model"
)

// CommentaryRequest carries everything a commentary provider may use to
// describe a priced portfolio.
type CommentaryRequest struct {
	User     model.User
	Holdings []model.PricedHolding
	Metrics  model.PortfolioMetrics
}

// CommentaryProvider generates the portfolio commentary text of an analysis
// run. The engine treats the text as opaque.
type CommentaryProvider interface {
	GenerateCommentary(ctx context.Context, req CommentaryRequest) (string, error)
}

// techTickers are treated as technology positions by the template provider's
// concentration note.
var techTickers = map[string]bool{
	"AAPL": true, "MSFT": true, "GOOGL": true, "NVDA": true,
	"TSLA": true, "META": true, "AMZN": true,
}

// TemplateCommentaryProvider builds commentary from a fixed template. It is
// the default provider and also serves as the fallback when no Gemini key is
// configured.
type TemplateCommentaryProvider struct{}

// GenerateCommentary renders the portfolio summary template.
func (TemplateCommentaryProvider) GenerateCommentary(_ context.Context, req CommentaryRequest) (string, error) {
	techCount := 0
	for _, h := range req.Holdings {
		if techTickers[h.Ticker] {
			techCount++
		}
	}

	diversificationNote := "Your portfolio shows good sector diversification."
	if len(req.Holdings) > 0 && float64(techCount)/float64(len(req.Holdings)) > 0.6 {
		diversificationNote = "Your portfolio is heavily concentrated in technology. Consider diversifying into healthcare or utilities."
	}

	breakdown := make([]string, len(req.Holdings))
	for i, h := range req.Holdings {
		breakdown[i] = fmt.Sprintf("• %s: $%.2f (%+.1f%%)", h.Ticker, h.CurrentValue, h.GainLossPct)
	}

	timelineFit := "slightly aggressive"
	if req.User.RetirementYears > 20 {
		timelineFit = "well-suited"
	}

	return fmt.Sprintf(`Portfolio Analysis Summary:

Overall Assessment:
%s

Holdings Breakdown:
%s

Key Recommendations:
1. Review your positions regularly to maintain target allocation.
2. Consider tax-loss harvesting on underperforming positions.
3. Keep your long-term perspective with %d years until retirement and %s.

Risk Assessment: Your %s risk tolerance (%s assessment) is %s for your timeline.`,
		diversificationNote,
		strings.Join(breakdown, "\n"),
		req.User.RetirementYears,
		obligationsText(req.User.ObligationsAmount),
		req.User.RiskTolerance,
		req.User.RiskAssessmentMode,
		timelineFit,
	), nil
}

// BuildProfileCommentary renders the allocation text shown after a risk
// profile is created or updated.
func BuildProfileCommentary(user model.User) string {
	return fmt.Sprintf(`Based on your profile (age %d, %d years to retirement, %s risk tolerance, %s):

Recommended Allocation:
- Equities: 80%%
- Bonds: 15%%
- Cash: 5%%

Key Recommendations:
1. With %d years until retirement, you have time to ride out market volatility
2. Your %s risk tolerance aligns with your timeline and obligations
3. Consider diversifying across large-cap, mid-cap, and international stocks
4. Begin gradually increasing bond allocation as you approach retirement

Focus sectors: Technology, Healthcare, Consumer Discretionary, Financials`,
		user.Age,
		user.RetirementYears,
		user.RiskTolerance,
		obligationsText(user.ObligationsAmount),
		user.RetirementYears,
		user.RiskTolerance,
	)
}

func obligationsText(amount float64) string {
	if amount > 0 {
		return fmt.Sprintf("monthly obligations around $%.0f", amount)
	}
	return "no major obligations reported"
}
