package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	APIPort  string
	LogLevel string

	StoragePath string
	ReportsDir  string

	ReportFormat string

	HFAPIToken      string
	HFZeroShotModel string
	HFOCRModel      string

	OpenAIAPIKey string
	OpenAIModel  string

	TavilyAPIKey string

	RiskRulesPath string

	MinClauseLen        int
	AcceptThreshold     float64
	MediumThreshold     float64
	HighThreshold       float64
	ExternalCallTimeout time.Duration

	RateLimitRPS   float64
	RateLimitBurst int
}

func Load() Config {
	return Config{
		APIPort:  mustEnv("API_PORT", "8080"),
		LogLevel: mustEnv("LOG_LEVEL", "info"),

		StoragePath: mustEnv("STORAGE_PATH", "./data/tmp"),
		ReportsDir:  mustEnv("REPORTS_DIR", "./reports"),

		ReportFormat: mustEnv("REPORT_FORMAT", "pdf"),

		HFAPIToken:      mustEnv("HF_API_TOKEN", ""),
		HFZeroShotModel: mustEnv("HF_ZEROSHOT_MODEL", "nlpaueb/legal-bert-base-uncased"),
		HFOCRModel:      mustEnv("HF_OCR_MODEL", "microsoft/trocr-base-printed"),

		OpenAIAPIKey: mustEnv("OPENAI_API_KEY", ""),
		OpenAIModel:  mustEnv("OPENAI_MODEL", "gpt-4o-mini"),

		TavilyAPIKey: mustEnv("TAVILY_API_KEY", ""),

		RiskRulesPath: mustEnv("RISK_RULES_PATH", ""),

		MinClauseLen:        mustEnvInt("MIN_CLAUSE_LEN", 20),
		AcceptThreshold:     mustEnvFloat("CLASSIFIER_ACCEPT_THRESHOLD", 0.6),
		MediumThreshold:     mustEnvFloat("RISK_MEDIUM_THRESHOLD", 2),
		HighThreshold:       mustEnvFloat("RISK_HIGH_THRESHOLD", 4),
		ExternalCallTimeout: mustEnvDuration("EXTERNAL_CALL_TIMEOUT", 30*time.Second),

		RateLimitRPS:   mustEnvFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst: mustEnvInt("RATE_LIMIT_BURST", 10),
	}
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func mustEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
