package service

import (
	"regexp"
	"sort"
	"strings"

	"github.com/avandelft/Portfolio-Analyzer-Backend/internal/alphavantage"
)

// summaryKeywords score sentences that discuss the financial substance of a
// call.
var summaryKeywords = []string{
	"revenue", "guidance", "outlook", "forecast", "margin", "gross margin",
	"operating margin", "eps", "earnings", "profit", "cash flow",
	"free cash flow", "capex", "debt", "buyback", "dividend", "growth",
	"headwind", "tailwind", "subscriber", "pricing", "demand", "pipeline",
	"backlog", "bookings", "quarter", "year",
}

// boilerplateMarkers identify operator chatter and safe-harbor language that
// never belongs in a summary.
var boilerplateMarkers = []string{
	"welcome to", "conference call", "forward-looking", "safe harbor",
	"risks and uncertainties", "sec", "form 10-", "earnings release",
	"investor relations", "reconciliation of these measures",
	"prepared remarks", "turn the call over", "operator",
}

var (
	numericPattern    = regexp.MustCompile(`\$\d|\b\d+(\.\d+)?%|\b\d+(\.\d+)?\b`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

const (
	summaryMaxPoints   = 6
	summaryMinPoints   = 3
	summaryMaxLineLen  = 240
	summaryMinSentence = 20
)

// flattenTranscript joins the per-speaker segments of a call into one text.
func flattenTranscript(segments []alphavantage.TranscriptSegment) string {
	parts := make([]string, 0, len(segments))
	for _, segment := range segments {
		content := strings.TrimSpace(segment.Content)
		if content != "" {
			parts = append(parts, content)
		}
	}
	return strings.Join(parts, " ")
}

// SummarizeTranscript reduces a transcript to a short bullet list of its
// most substantive sentences.
func SummarizeTranscript(text string) string {
	points := extractKeyPoints(text)
	bullets := make([]string, 0, len(points))
	for _, point := range points {
		if len(point) > summaryMaxLineLen {
			point = strings.TrimRight(point[:summaryMaxLineLen], " ") + "..."
		}
		bullets = append(bullets, "- "+point)
	}
	return strings.TrimSpace(strings.Join(bullets, "\n"))
}

// extractKeyPoints picks the highest-scoring sentences: keyword hits plus a
// bonus for concrete figures, with boilerplate and near-duplicates dropped.
// When fewer than three sentences score, the earliest usable sentences fill
// the gap so every non-empty transcript yields something.
func extractKeyPoints(text string) []string {
	sentences := splitSentences(text)

	type scored struct {
		score      int
		sentence   string
		normalized string
	}

	seen := map[string]bool{}
	candidates := []scored{}
	for _, sentence := range sentences {
		clean := strings.TrimSpace(sentence)
		if len(clean) < summaryMinSentence {
			continue
		}
		lowered := strings.ToLower(clean)
		if containsAny(lowered, boilerplateMarkers) {
			continue
		}
		normalized := whitespacePattern.ReplaceAllString(lowered, " ")
		if seen[normalized] {
			continue
		}
		seen[normalized] = true

		score := 0
		for _, keyword := range summaryKeywords {
			if strings.Contains(lowered, keyword) {
				score++
			}
		}
		if numericPattern.MatchString(clean) {
			score += 2
		}
		if score > 0 {
			candidates = append(candidates, scored{score: score, sentence: clean, normalized: normalized})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	used := map[string]bool{}
	points := []string{}
	for _, c := range candidates {
		if len(points) >= summaryMaxPoints {
			break
		}
		used[c.normalized] = true
		points = append(points, c.sentence)
	}

	if len(points) < summaryMinPoints {
		for _, sentence := range sentences {
			clean := strings.TrimSpace(sentence)
			if len(clean) < summaryMinSentence {
				continue
			}
			lowered := strings.ToLower(clean)
			if containsAny(lowered, boilerplateMarkers) {
				continue
			}
			normalized := whitespacePattern.ReplaceAllString(lowered, " ")
			if used[normalized] {
				continue
			}
			used[normalized] = true
			points = append(points, clean)
			if len(points) >= summaryMinPoints {
				break
			}
		}
	}

	return points
}

// splitSentences breaks text on sentence-ending punctuation followed by
// whitespace.
func splitSentences(text string) []string {
	sentences := []string{}
	var current strings.Builder
	runes := []rune(strings.TrimSpace(text))

	for i, r := range runes {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			atEnd := i == len(runes)-1
			if atEnd || runes[i+1] == ' ' || runes[i+1] == '\n' || runes[i+1] == '\t' {
				sentences = append(sentences, strings.TrimSpace(current.String()))
				current.Reset()
			}
		}
	}
	if rest := strings.TrimSpace(current.String()); rest != "" {
		sentences = append(sentences, rest)
	}

	return sentences
}

func containsAny(text string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}
