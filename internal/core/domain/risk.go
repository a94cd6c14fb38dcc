package domain

import "strings"

// Clause is a contiguous span of extracted contract text, trimmed, in
// source order.
type Clause struct {
	Index int
	Text  string
}

// RiskLevel is the severity tier assigned to a clause.
type RiskLevel string

const (
	RiskHigh   RiskLevel = "High"
	RiskMedium RiskLevel = "Medium"
	RiskLow    RiskLevel = "Low"
)

// Urgency weights the heuristic risk score.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// RiskAssessment ties a clause to a risk label. Label is either a topic from
// the classifier vocabulary ("automatic renewal", ...) or a severity tier
// from the keyword fallback. Confidence is in [0,1] on the model path and a
// fixed 0.9 on the keyword path.
type RiskAssessment struct {
	Clause     Clause
	Label      string
	Confidence float64
}

// ReportRow is one rendered line of the final report.
type ReportRow struct {
	Clause      string
	RiskLabel   string
	Explanation string
}

// Report is the assembled analysis artifact, immutable after assembly.
// ClassifierFallback records whether the keyword strategy substituted for
// the model path, for observability only.
type Report struct {
	Filename           string
	ContentType        string
	Data               []byte
	Rows               []ReportRow
	SourceFormat       Format
	ClassifierFallback bool
}

// ParseUrgency normalizes an urgency string; unrecognized values map to
// medium so the score multiplier defaults to 1.0.
func ParseUrgency(s string) Urgency {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return UrgencyLow
	case "high":
		return UrgencyHigh
	default:
		return UrgencyMedium
	}
}
