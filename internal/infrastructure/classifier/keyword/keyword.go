// Package keyword implements the deterministic risk-classification strategy.
// It is the guaranteed fallback: no I/O, no external calls, fixed confidence.
package keyword

import (
	"sort"
	"strings"

	"github.com/kirillkom/contract-risk-analyzer/internal/core/domain"
)

const fallbackConfidence = 0.9

type Scanner struct {
	table    map[string]string
	keywords []string
}

func NewScanner(table map[string]string) *Scanner {
	if len(table) == 0 {
		table = map[string]string{
			"termination":    "High",
			"arbitration":    "Medium",
			"liability":      "High",
			"indemnify":      "High",
			"non-disclosure": "Low",
			"non-compete":    "Medium",
		}
	}
	// Sorted scan order keeps output deterministic for a given table.
	keywords := make([]string, 0, len(table))
	for k := range table {
		keywords = append(keywords, strings.ToLower(k))
	}
	sort.Strings(keywords)
	lowered := make(map[string]string, len(table))
	for k, v := range table {
		lowered[strings.ToLower(k)] = v
	}
	return &Scanner{table: lowered, keywords: keywords}
}

// Scan splits text into sentences and emits one assessment per keyword match.
// A sentence matching several keywords yields several assessments, matching
// the severity table entry for each.
func (s *Scanner) Scan(text string) []domain.RiskAssessment {
	var out []domain.RiskAssessment
	for _, sentence := range strings.Split(text, ".") {
		trimmed := strings.TrimSpace(sentence)
		if trimmed == "" {
			continue
		}
		lower := strings.ToLower(trimmed)
		for _, keyword := range s.keywords {
			if !strings.Contains(lower, keyword) {
				continue
			}
			severity := s.table[keyword]
			out = append(out, domain.RiskAssessment{
				Clause: domain.Clause{
					Index: len(out),
					Text:  trimmed,
				},
				Label:      severity,
				Confidence: fallbackConfidence,
			})
		}
	}
	return out
}
