package model

import "time"

// ProfileRecord is the per-user persisted cache backing the analysis and
// transcript features. One row exists per user; all fields except UserID are
// nullable because the row is created lazily on first cache write.
type ProfileRecord struct {
	UserID              string
	ProfileCommentary   *string
	PortfolioCommentary *string
	PortfolioMetrics    *PortfolioMetrics
	PortfolioAnalyzedAt *time.Time
	NextAnalysisAt      *time.Time
	Transcripts         map[string]string
	TranscriptsQuarter  *string
	HoldingsChangedAt   *time.Time
}

// Stale reports whether the holding set changed after the cached portfolio
// analysis was produced. It is a display signal only; a stale record stays
// cached and the cooldown keeps running.
func (p *ProfileRecord) Stale() bool {
	if p == nil || p.PortfolioAnalyzedAt == nil || p.HoldingsChangedAt == nil {
		return false
	}
	return p.HoldingsChangedAt.After(*p.PortfolioAnalyzedAt)
}
