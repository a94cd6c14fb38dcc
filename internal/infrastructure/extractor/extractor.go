// Package extractor turns stored uploads into plain text, dispatching on the
// declared document format.
package extractor

import (
	"context"
	"fmt"
	"io"

	"github.com/kirillkom/contract-risk-analyzer/internal/core/domain"
	"github.com/kirillkom/contract-risk-analyzer/internal/core/ports"
)

type Extractor struct {
	store ports.FileStore
	ocr   *OCRClient
}

// New builds the dispatching extractor. ocr may be nil, in which case image
// uploads are rejected as unsupported.
func New(store ports.FileStore, ocr *OCRClient) *Extractor {
	return &Extractor{store: store, ocr: ocr}
}

func (e *Extractor) Extract(ctx context.Context, doc *domain.Document) (string, error) {
	switch doc.Format {
	case domain.FormatText:
		return e.extractText(ctx, doc)
	case domain.FormatPDF:
		return extractPDF(doc.TempPath)
	case domain.FormatDocx:
		return extractDocx(doc.TempPath)
	case domain.FormatHTML:
		return e.extractHTML(ctx, doc)
	case domain.FormatImage:
		return e.extractImage(ctx, doc)
	default:
		return "", domain.WrapError(domain.ErrUnsupportedFormat, "extract", fmt.Errorf("format %q", doc.Format))
	}
}

func (e *Extractor) readAll(ctx context.Context, doc *domain.Document) ([]byte, error) {
	reader, err := e.store.Open(ctx, doc.TempPath)
	if err != nil {
		return nil, fmt.Errorf("open source document: %w", err)
	}
	defer reader.Close()

	raw, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read source document: %w", err)
	}
	return raw, nil
}
