package ports

import (
	"context"
	"io"

	"github.com/kirillkom/contract-risk-analyzer/internal/core/domain"
)

// ContractAnalyzer is the inbound contract for end-to-end document analysis.
type ContractAnalyzer interface {
	Analyze(ctx context.Context, filename string, body io.Reader) (*domain.Report, error)
}

// ClauseSimplifyService is the inbound contract for single-clause rewriting
// with guard and fallback applied.
type ClauseSimplifyService interface {
	Simplify(ctx context.Context, clause string) string
}
