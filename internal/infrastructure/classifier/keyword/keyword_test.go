package keyword

import "testing"

func TestScanFindsKnownKeywords(t *testing.T) {
	s := NewScanner(nil)
	text := "The supplier assumes no liability for damages. Either party may request termination with notice."

	got := s.Scan(text)
	if len(got) < 2 {
		t.Fatalf("expected at least 2 assessments, got %d: %+v", len(got), got)
	}
	labels := map[string]bool{}
	for _, a := range got {
		labels[a.Label] = true
		if a.Confidence != 0.9 {
			t.Fatalf("expected fixed confidence 0.9, got %v", a.Confidence)
		}
		if a.Clause.Text == "" {
			t.Fatalf("assessment carries empty clause: %+v", a)
		}
	}
	if !labels["High"] {
		t.Fatalf("liability/termination sentences should yield High, got %+v", got)
	}
}

func TestScanNoMatches(t *testing.T) {
	s := NewScanner(nil)
	if got := s.Scan("The parties agree to cooperate in good faith."); len(got) != 0 {
		t.Fatalf("expected no assessments, got %+v", got)
	}
}

func TestScanMultipleKeywordsInOneSentence(t *testing.T) {
	s := NewScanner(nil)
	got := s.Scan("Disputes go to arbitration and the buyer must indemnify the seller.")
	if len(got) != 2 {
		t.Fatalf("expected 2 assessments for 2 keywords, got %d: %+v", len(got), got)
	}
}

func TestScanDeterministic(t *testing.T) {
	s := NewScanner(nil)
	text := "Termination and liability and arbitration all appear here."
	first := s.Scan(text)
	for i := 0; i < 10; i++ {
		again := s.Scan(text)
		if len(again) != len(first) {
			t.Fatalf("scan is not deterministic: %d vs %d", len(again), len(first))
		}
		for j := range again {
			if again[j].Label != first[j].Label || again[j].Clause.Text != first[j].Clause.Text {
				t.Fatalf("scan order changed between runs: %+v vs %+v", again[j], first[j])
			}
		}
	}
}
