package usecase

import (
	"testing"

	"github.com/kirillkom/contract-risk-analyzer/internal/core/domain"
)

func TestAssessHighRiskWithUrgencyBoost(t *testing.T) {
	a := NewRiskAssessor(nil, nil, DefaultThresholds())

	// Two high-risk hits (2*2=4), high urgency multiplier 1.2 -> 4.8.
	level, _ := a.Assess("This contract has unlimited liability and auto-renew.", "", domain.UrgencyHigh, "")
	if level != domain.RiskHigh {
		t.Fatalf("expected High, got %s", level)
	}
}

func TestAssessLowRiskWithLowUrgency(t *testing.T) {
	a := NewRiskAssessor(nil, nil, DefaultThresholds())

	// One medium hit, low urgency -> 0.8, below the Medium threshold.
	level, _ := a.Assess("This involves standard fees.", "", domain.UrgencyLow, "")
	if level != domain.RiskLow {
		t.Fatalf("expected Low, got %s", level)
	}
}

func TestAssessMediumTier(t *testing.T) {
	a := NewRiskAssessor(nil, nil, DefaultThresholds())

	// Two medium hits at neutral urgency -> score 2, lands on the Medium boundary.
	level, _ := a.Assess("Payment terms and governing law apply.", "", domain.UrgencyMedium, "")
	if level != domain.RiskMedium {
		t.Fatalf("expected Medium, got %s", level)
	}
}

func TestAssessFocusAreasCountAsHits(t *testing.T) {
	a := NewRiskAssessor(nil, nil, DefaultThresholds())

	// One medium hit (1) + two focus hits (3) = 4 at neutral urgency.
	level, _ := a.Assess("Late return triggers a deposit review.", "The deposit may be withheld.", domain.UrgencyMedium, "deposit, late return")
	if level != domain.RiskHigh {
		t.Fatalf("expected High, got %s", level)
	}
}

func TestAssessUnknownUrgencyDefaultsToNeutral(t *testing.T) {
	a := NewRiskAssessor(nil, nil, DefaultThresholds())

	levelNeutral, _ := a.Assess("Payment terms and governing law apply.", "", domain.UrgencyMedium, "")
	levelUnknown, _ := a.Assess("Payment terms and governing law apply.", "", domain.ParseUrgency("whenever"), "")
	if levelNeutral != levelUnknown {
		t.Fatalf("unknown urgency should behave as medium: %s vs %s", levelUnknown, levelNeutral)
	}
}

func TestAssessNormalizesExplanation(t *testing.T) {
	a := NewRiskAssessor(nil, nil, DefaultThresholds())

	_, explanation := a.Assess("clause", "  Fees may apply . Extra charges follow .  ", domain.UrgencyMedium, "")
	if explanation != "Fees may apply. Extra charges follow." {
		t.Fatalf("explanation not normalized: %q", explanation)
	}
}

func TestAssessDeterministic(t *testing.T) {
	a := NewRiskAssessor(nil, nil, DefaultThresholds())

	firstLevel, firstExpl := a.Assess("Binding arbitration and fees.", "Costs are non-refundable.", domain.UrgencyHigh, "fees")
	for i := 0; i < 20; i++ {
		level, expl := a.Assess("Binding arbitration and fees.", "Costs are non-refundable.", domain.UrgencyHigh, "fees")
		if level != firstLevel || expl != firstExpl {
			t.Fatalf("assessment not deterministic: (%s,%q) vs (%s,%q)", level, expl, firstLevel, firstExpl)
		}
	}
}
