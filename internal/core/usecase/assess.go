package usecase

import (
	"strings"

	"github.com/kirillkom/contract-risk-analyzer/internal/core/domain"
)

// Keyword weights and tier thresholds below are uncalibrated heuristics
// carried over from the shipped product; Thresholds keeps them injectable
// rather than frozen.

var highRiskKeywords = []string{
	"unlimited liability", "termination without cause", "penalty",
	"non-refundable", "forfeited", "binding arbitration", "no liability",
	"auto-renew", "cross-border restriction", "entire liability",
	"non-compete", "no refund", "over speed fine", "security forfeited",
}

var mediumRiskKeywords = []string{
	"termination", "limited liability", "intellectual property",
	"payment terms", "governing law", "late return", "fees", "restrictions",
}

type Thresholds struct {
	Medium float64
	High   float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{Medium: 2, High: 4}
}

type RiskAssessor struct {
	high       []string
	medium     []string
	thresholds Thresholds
}

func NewRiskAssessor(high, medium []string, thresholds Thresholds) *RiskAssessor {
	if len(high) == 0 {
		high = highRiskKeywords
	}
	if len(medium) == 0 {
		medium = mediumRiskKeywords
	}
	if thresholds.High <= 0 {
		thresholds.High = DefaultThresholds().High
	}
	if thresholds.Medium <= 0 {
		thresholds.Medium = DefaultThresholds().Medium
	}
	return &RiskAssessor{high: high, medium: medium, thresholds: thresholds}
}

// Assess scores a clause and its explanation against the keyword tables and
// an urgency weight. focus is a comma-delimited list of reviewer focus areas;
// each one found in the combined text adds 1.5 to the raw score. The returned
// explanation has " ." artifacts normalized and surrounding space trimmed.
// Pure and deterministic.
func (a *RiskAssessor) Assess(clause, explanation string, urgency domain.Urgency, focus string) (domain.RiskLevel, string) {
	combined := strings.ToLower(clause) + " " + strings.ToLower(explanation)

	var focusAreas []string
	for _, part := range strings.Split(focus, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			focusAreas = append(focusAreas, part)
		}
	}

	var highHits, medHits, focusHits int
	for _, kw := range a.high {
		if strings.Contains(combined, kw) {
			highHits++
		}
	}
	for _, kw := range a.medium {
		if strings.Contains(combined, kw) {
			medHits++
		}
	}
	for _, fa := range focusAreas {
		if strings.Contains(combined, fa) {
			focusHits++
		}
	}

	weight := 1.0
	switch urgency {
	case domain.UrgencyLow:
		weight = 0.8
	case domain.UrgencyHigh:
		weight = 1.2
	}

	score := (2*float64(highHits) + float64(medHits) + 1.5*float64(focusHits)) * weight

	level := domain.RiskLow
	switch {
	case score >= a.thresholds.High:
		level = domain.RiskHigh
	case score >= a.thresholds.Medium:
		level = domain.RiskMedium
	}

	return level, normalizeExplanation(explanation)
}

func normalizeExplanation(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), " .", ".")
}
