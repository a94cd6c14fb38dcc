package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RiskRules carries the classifier vocabulary and the keyword tables used by
// the deterministic strategies. The built-in defaults reflect the shipped
// product behavior; an operator can override them with a YAML file because
// the thresholds and lists are uncalibrated and expected to be tuned.
type RiskRules struct {
	Topics []string `yaml:"topics"`

	SentenceKeywords map[string]string `yaml:"sentence_keywords"`

	HighRiskKeywords   []string `yaml:"high_risk_keywords"`
	MediumRiskKeywords []string `yaml:"medium_risk_keywords"`
}

func DefaultRiskRules() RiskRules {
	return RiskRules{
		Topics: []string{
			"automatic renewal",
			"unlimited liability",
			"termination",
			"data usage",
		},
		SentenceKeywords: map[string]string{
			"termination":    "High",
			"arbitration":    "Medium",
			"liability":      "High",
			"indemnify":      "High",
			"non-disclosure": "Low",
			"non-compete":    "Medium",
		},
		HighRiskKeywords: []string{
			"unlimited liability", "termination without cause", "penalty",
			"non-refundable", "forfeited", "binding arbitration", "no liability",
			"auto-renew", "cross-border restriction", "entire liability",
			"non-compete", "no refund", "over speed fine", "security forfeited",
		},
		MediumRiskKeywords: []string{
			"termination", "limited liability", "intellectual property",
			"payment terms", "governing law", "late return", "fees", "restrictions",
		},
	}
}

// LoadRiskRules returns the defaults merged with the optional YAML override
// at path. An empty path is not an error.
func LoadRiskRules(path string) (RiskRules, error) {
	rules := DefaultRiskRules()
	if path == "" {
		return rules, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return rules, fmt.Errorf("read risk rules: %w", err)
	}

	var override RiskRules
	if err := yaml.Unmarshal(raw, &override); err != nil {
		return rules, fmt.Errorf("parse risk rules: %w", err)
	}

	if len(override.Topics) > 0 {
		rules.Topics = override.Topics
	}
	if len(override.SentenceKeywords) > 0 {
		rules.SentenceKeywords = override.SentenceKeywords
	}
	if len(override.HighRiskKeywords) > 0 {
		rules.HighRiskKeywords = override.HighRiskKeywords
	}
	if len(override.MediumRiskKeywords) > 0 {
		rules.MediumRiskKeywords = override.MediumRiskKeywords
	}
	return rules, nil
}
