package segment

import (
	"regexp"
	"strings"

	"github.com/kirillkom/contract-risk-analyzer/internal/core/domain"
)

// Clause boundaries: a blank-line run, or a sentence-ending period followed
// by whitespace. This is structural splitting, not sentence-boundary NLP;
// abbreviations and decimal numbers will occasionally split wrong.
var boundaryRe = regexp.MustCompile(`\n{2,}|\.\s+`)

type Segmenter struct {
	minLen int
}

func NewSegmenter(minLen int) *Segmenter {
	if minLen <= 0 {
		minLen = 20
	}
	return &Segmenter{minLen: minLen}
}

// Segment splits text into candidate clauses in source order. Candidates
// shorter than the minimum length are dropped as noise (stray headers,
// page numbers). Empty input yields an empty result, never an error.
func (s *Segmenter) Segment(text string) []domain.Clause {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var clauses []domain.Clause
	for _, raw := range boundaryRe.Split(text, -1) {
		candidate := strings.TrimSpace(raw)
		if len(candidate) < s.minLen {
			continue
		}
		clauses = append(clauses, domain.Clause{
			Index: len(clauses),
			Text:  candidate,
		})
	}
	return clauses
}
