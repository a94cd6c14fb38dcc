// Package mcpserver exposes the analysis capabilities as MCP tools over
// stdio, so agent hosts can drive contract review interactively.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kirillkom/contract-risk-analyzer/internal/core/domain"
	"github.com/kirillkom/contract-risk-analyzer/internal/core/ports"
	"github.com/kirillkom/contract-risk-analyzer/internal/core/usecase"
	"github.com/kirillkom/contract-risk-analyzer/internal/observability/metrics"
)

const serviceName = "agent"

type Server struct {
	mcpServer *server.MCPServer

	extractor  ports.TextExtractor
	scanner    ports.DocumentScanner
	simplifier ports.ClauseSimplifyService
	assessor   *usecase.RiskAssessor
	translator ports.Translator
	searcher   ports.WebSearcher
	metrics    *metrics.AgentMetrics
	logger     *slog.Logger
}

func New(
	extractor ports.TextExtractor,
	scanner ports.DocumentScanner,
	simplifier ports.ClauseSimplifyService,
	assessor *usecase.RiskAssessor,
	translator ports.Translator,
	searcher ports.WebSearcher,
	m *metrics.AgentMetrics,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		mcpServer: server.NewMCPServer(
			"contract-risk-analyzer",
			"1.0.0",
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
		extractor:  extractor,
		scanner:    scanner,
		simplifier: simplifier,
		assessor:   assessor,
		translator: translator,
		searcher:   searcher,
		metrics:    m,
		logger:     logger,
	}
	s.registerTools()
	return s
}

// ServeStdio blocks until stdin closes or the context is canceled.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	s.addReadTool("read_text_file", "Read a plain-text contract file and return its contents.", domain.FormatText)
	s.addReadTool("read_pdf", "Extract the text layer of a PDF contract.", domain.FormatPDF)
	s.addReadTool("read_docx", "Extract paragraph text from a DOCX contract.", domain.FormatDocx)

	s.addTool(mcp.NewTool("detect_risks",
		mcp.WithDescription("Scan contract text for risky clauses using the deterministic keyword tables."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Contract text to scan.")),
	), s.detectRisks)

	s.addTool(mcp.NewTool("simplify_clause",
		mcp.WithDescription("Rewrite a legal clause in plain English. Falls back to rule-based wording when the language model is unavailable."),
		mcp.WithString("clause", mcp.Required(), mcp.Description("The clause to simplify.")),
	), s.simplifyClause)

	s.addTool(mcp.NewTool("assess_risk",
		mcp.WithDescription("Score a clause against the keyword heuristics and return its severity tier."),
		mcp.WithString("clause", mcp.Required(), mcp.Description("The clause under review.")),
		mcp.WithString("explanation", mcp.Description("Optional plain-language explanation to include in scoring.")),
		mcp.WithString("urgency", mcp.Description("Review urgency: low, medium or high. Defaults to medium.")),
		mcp.WithString("focus_areas", mcp.Description("Comma-separated reviewer focus areas, each match raises the score.")),
	), s.assessRisk)

	s.addTool(mcp.NewTool("translate_text",
		mcp.WithDescription("Translate text into the given language."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Text to translate.")),
		mcp.WithString("language", mcp.Required(), mcp.Description("Target language, e.g. \"German\".")),
	), s.translateText)

	s.addTool(mcp.NewTool("legal_search",
		mcp.WithDescription("Look up legal context for a query on the web."),
		mcp.WithString("query", mcp.Required(), mcp.Description("The legal question or term.")),
	), s.legalSearch)
}

type toolHandler func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// addTool wraps every handler with tool-call metrics and logging.
func (s *Server) addTool(tool mcp.Tool, handler toolHandler) {
	s.mcpServer.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		if s.metrics != nil {
			s.metrics.StartToolCall()
		}

		result, err := handler(ctx, request)

		if s.metrics != nil {
			s.metrics.FinishToolCall(serviceName, tool.Name, time.Since(start), err)
		}
		if err != nil {
			s.logger.Warn("tool call failed", "tool", tool.Name, "error", err)
		}
		return result, err
	})
}

func (s *Server) addReadTool(name, description string, format domain.Format) {
	s.addTool(mcp.NewTool(name,
		mcp.WithDescription(description),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the file on the local filesystem.")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := request.RequireString("path")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		text, err := s.extractor.Extract(ctx, &domain.Document{
			Filename: path,
			Format:   format,
			TempPath: path,
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("extraction failed: %v", err)), nil
		}
		if text == "" {
			return mcp.NewToolResultError("the document contains no extractable text"), nil
		}
		return mcp.NewToolResultText(text), nil
	})
}

func (s *Server) detectRisks(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	assessments := s.scanner.Scan(text)
	if len(assessments) == 0 {
		return mcp.NewToolResultText("No risky clauses detected."), nil
	}

	type finding struct {
		Clause     string  `json:"clause"`
		RiskLabel  string  `json:"risk_label"`
		Confidence float64 `json:"confidence"`
	}
	findings := make([]finding, 0, len(assessments))
	for _, a := range assessments {
		findings = append(findings, finding{
			Clause:     a.Clause.Text,
			RiskLabel:  a.Label,
			Confidence: a.Confidence,
		})
	}

	payload, err := json.MarshalIndent(findings, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode findings: %v", err)), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}

func (s *Server) simplifyClause(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clause, err := request.RequireString("clause")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(s.simplifier.Simplify(ctx, clause)), nil
}

func (s *Server) assessRisk(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clause, err := request.RequireString("clause")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	explanation := request.GetString("explanation", "")
	urgency := domain.ParseUrgency(request.GetString("urgency", "medium"))
	focus := request.GetString("focus_areas", "")

	level, normalized := s.assessor.Assess(clause, explanation, urgency, focus)

	payload, err := json.Marshal(map[string]string{
		"risk_level":  string(level),
		"explanation": normalized,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode assessment: %v", err)), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}

func (s *Server) translateText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	language, err := request.RequireString("language")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	translated, err := s.translator.Translate(ctx, text, language)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("translation failed: %v", err)), nil
	}
	return mcp.NewToolResultText(translated), nil
}

func (s *Server) legalSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	answer, err := s.searcher.Search(ctx, query)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	return mcp.NewToolResultText(answer), nil
}
