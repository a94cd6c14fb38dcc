// Package bootstrap is the composition root: it builds the dependency graph
// from configuration, keeping constructors out of main.
package bootstrap

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kirillkom/contract-risk-analyzer/internal/config"
	"github.com/kirillkom/contract-risk-analyzer/internal/core/ports"
	"github.com/kirillkom/contract-risk-analyzer/internal/core/usecase"
	"github.com/kirillkom/contract-risk-analyzer/internal/infrastructure/classifier/keyword"
	"github.com/kirillkom/contract-risk-analyzer/internal/infrastructure/classifier/zeroshot"
	"github.com/kirillkom/contract-risk-analyzer/internal/infrastructure/extractor"
	"github.com/kirillkom/contract-risk-analyzer/internal/infrastructure/report/pdfreport"
	"github.com/kirillkom/contract-risk-analyzer/internal/infrastructure/report/xlsxreport"
	"github.com/kirillkom/contract-risk-analyzer/internal/infrastructure/resilience"
	"github.com/kirillkom/contract-risk-analyzer/internal/infrastructure/search"
	"github.com/kirillkom/contract-risk-analyzer/internal/infrastructure/segment"
	openaiclient "github.com/kirillkom/contract-risk-analyzer/internal/infrastructure/simplifier/openai"
	"github.com/kirillkom/contract-risk-analyzer/internal/infrastructure/storage/localfs"
	"github.com/kirillkom/contract-risk-analyzer/internal/observability/metrics"
)

type App struct {
	Config config.Config
	Rules  config.RiskRules
	Logger *slog.Logger

	Analyzer   ports.ContractAnalyzer
	Simplifier ports.ClauseSimplifyService
	Searcher   ports.WebSearcher

	Extractor  ports.TextExtractor
	Scanner    ports.DocumentScanner
	Assessor   *usecase.RiskAssessor
	Translator ports.Translator

	HTTPMetrics  *metrics.HTTPServerMetrics
	AgentMetrics *metrics.AgentMetrics
}

func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	rules, err := config.LoadRiskRules(cfg.RiskRulesPath)
	if err != nil {
		return nil, fmt.Errorf("load risk rules: %w", err)
	}

	store, err := localfs.New(cfg.StoragePath, cfg.ReportsDir, logger)
	if err != nil {
		return nil, fmt.Errorf("init file storage: %w", err)
	}

	// One retry with a short backoff for the hosted inference call; the
	// keyword fallback absorbs anything the retry cannot.
	executor := resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts:    2,
		RetryInitialBackoff: 200 * time.Millisecond,
		RetryMaxBackoff:     time.Second,
		BreakerEnabled:      true,
	})

	classifier := zeroshot.New(
		cfg.HFAPIToken,
		cfg.HFZeroShotModel,
		rules.Topics,
		cfg.AcceptThreshold,
		cfg.ExternalCallTimeout,
		executor,
	)
	scanner := keyword.NewScanner(rules.SentenceKeywords)

	var ocr *extractor.OCRClient
	if cfg.HFAPIToken != "" {
		ocr = extractor.NewOCRClient(cfg.HFAPIToken, cfg.HFOCRModel, cfg.ExternalCallTimeout)
	}
	textExtractor := extractor.New(store, ocr)

	httpMetrics := metrics.NewHTTPServerMetrics("api")

	llm := openaiclient.New(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.ExternalCallTimeout)
	simplifier := usecase.NewGuardedSimplifier(llm, logger)
	simplifier.SetFallbackHook(func() { httpMetrics.RecordSimplifierFallback("api") })

	var renderer ports.ReportRenderer
	switch strings.ToLower(cfg.ReportFormat) {
	case "xlsx":
		renderer = xlsxreport.New()
	default:
		renderer = pdfreport.New()
	}

	analyzer := usecase.NewAnalyzeContractUseCase(
		store,
		textExtractor,
		segment.NewSegmenter(cfg.MinClauseLen),
		classifier,
		scanner,
		simplifier,
		renderer,
		logger,
	)

	var searcher ports.WebSearcher
	if cfg.TavilyAPIKey != "" {
		searcher = search.NewTavily(cfg.TavilyAPIKey, cfg.ExternalCallTimeout)
	} else {
		searcher = search.NewDuckDuckGo(cfg.ExternalCallTimeout)
	}

	assessor := usecase.NewRiskAssessor(
		rules.HighRiskKeywords,
		rules.MediumRiskKeywords,
		usecase.Thresholds{Medium: cfg.MediumThreshold, High: cfg.HighThreshold},
	)

	return &App{
		Config: cfg,
		Rules:  rules,
		Logger: logger,

		Analyzer:   analyzer,
		Simplifier: simplifier,
		Searcher:   searcher,

		Extractor:  textExtractor,
		Scanner:    scanner,
		Assessor:   assessor,
		Translator: llm,

		HTTPMetrics:  httpMetrics,
		AgentMetrics: metrics.NewAgentMetrics("agent"),
	}, nil
}
