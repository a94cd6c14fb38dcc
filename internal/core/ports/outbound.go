package ports

import (
	"context"
	"io"

	"github.com/kirillkom/contract-risk-analyzer/internal/core/domain"
)

// TextExtractor extracts plain text from a stored document.
type TextExtractor interface {
	Extract(ctx context.Context, doc *domain.Document) (string, error)
}

// ClauseSegmenter splits extracted text into candidate clauses in source order.
type ClauseSegmenter interface {
	Segment(text string) []domain.Clause
}

// RiskClassifier assigns risk labels to clauses. Available reports whether
// the strategy can serve at all (e.g. an API token is configured); the
// orchestrator falls back to the deterministic strategy otherwise.
type RiskClassifier interface {
	Classify(ctx context.Context, clause domain.Clause) (domain.RiskAssessment, bool, error)
	Available() bool
}

// DocumentScanner is the whole-document fallback classification strategy.
// It never fails and never returns an assessment with an empty clause.
type DocumentScanner interface {
	Scan(text string) []domain.RiskAssessment
}

// ClauseRewriter is the external text-generation capability behind the
// plain-language rewriter.
type ClauseRewriter interface {
	Rewrite(ctx context.Context, clause string) (string, error)
}

// Translator renders text into another language.
type Translator interface {
	Translate(ctx context.Context, text, language string) (string, error)
}

// ReportRenderer lays out report rows into a tabular document and returns
// the document bytes plus their content type.
type ReportRenderer interface {
	Render(rows []domain.ReportRow) ([]byte, string, error)
	Extension() string
}

// FileStore owns request-scoped temp files and generated report artifacts.
type FileStore interface {
	SaveTemp(ctx context.Context, filename string, body io.Reader) (path string, cleanup func(), err error)
	SaveReport(ctx context.Context, extension string, data []byte) (filename string, err error)
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// WebSearcher looks up legal context for a query. Implementations degrade to
// a "no results" answer rather than failing when unconfigured.
type WebSearcher interface {
	Search(ctx context.Context, query string) (string, error)
}
