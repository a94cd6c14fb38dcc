package segment

import (
	"strings"
	"testing"
)

func TestSegmentPreservesSourceOrder(t *testing.T) {
	s := NewSegmenter(10)
	text := "First clause about termination rights.\n\nSecond clause about payment terms.\n\nThird clause about data usage policy."

	clauses := s.Segment(text)
	if len(clauses) != 3 {
		t.Fatalf("expected 3 clauses, got %d: %+v", len(clauses), clauses)
	}
	if !strings.HasPrefix(clauses[0].Text, "First") || !strings.HasPrefix(clauses[1].Text, "Second") || !strings.HasPrefix(clauses[2].Text, "Third") {
		t.Fatalf("clauses out of source order: %+v", clauses)
	}
	for i, c := range clauses {
		if c.Index != i {
			t.Fatalf("clause %d has index %d", i, c.Index)
		}
		if strings.TrimSpace(c.Text) == "" {
			t.Fatalf("clause %d is empty after trimming", i)
		}
	}
}

func TestSegmentSplitsOnSentenceBoundary(t *testing.T) {
	s := NewSegmenter(10)
	text := "The contract renews automatically each year. The supplier may terminate without cause at any time."

	clauses := s.Segment(text)
	if len(clauses) != 2 {
		t.Fatalf("expected 2 clauses, got %d: %+v", len(clauses), clauses)
	}
}

func TestSegmentEmptyInput(t *testing.T) {
	s := NewSegmenter(20)
	for _, input := range []string{"", "   ", "\n\n\t\n"} {
		if got := s.Segment(input); len(got) != 0 {
			t.Fatalf("Segment(%q) = %+v, want empty", input, got)
		}
	}
}

func TestSegmentDropsShortFragments(t *testing.T) {
	s := NewSegmenter(20)
	text := "1.\n\nHEADER\n\nThis clause is long enough to survive the minimum length filter."

	clauses := s.Segment(text)
	if len(clauses) != 1 {
		t.Fatalf("expected 1 clause, got %d: %+v", len(clauses), clauses)
	}
	for _, c := range clauses {
		if len(c.Text) < 20 {
			t.Fatalf("clause below minimum length survived: %q", c.Text)
		}
	}
}
