package extractor

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kirillkom/contract-risk-analyzer/internal/core/domain"
)

func (e *Extractor) extractText(ctx context.Context, doc *domain.Document) (string, error) {
	raw, err := e.readAll(ctx, doc)
	if err != nil {
		return "", err
	}

	if !utf8.Valid(raw) {
		return "", domain.WrapError(domain.ErrInvalidInput, "extract text",
			fmt.Errorf("%s is not valid UTF-8", doc.Filename))
	}
	return strings.TrimSpace(string(raw)), nil
}
