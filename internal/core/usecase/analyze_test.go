package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/kirillkom/contract-risk-analyzer/internal/core/domain"
)

type storeFake struct {
	cleanupCalls int
	saveTempErr  error
	reportName   string
}

func (s *storeFake) SaveTemp(_ context.Context, filename string, _ io.Reader) (string, func(), error) {
	if s.saveTempErr != nil {
		return "", func() {}, s.saveTempErr
	}
	return "/tmp/" + filename, func() { s.cleanupCalls++ }, nil
}

func (s *storeFake) SaveReport(_ context.Context, extension string, _ []byte) (string, error) {
	if s.reportName == "" {
		return "report_test." + extension, nil
	}
	return s.reportName, nil
}

func (s *storeFake) Open(_ context.Context, _ string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("")), nil
}

type extractorFake struct {
	text string
	err  error
}

func (e *extractorFake) Extract(_ context.Context, _ *domain.Document) (string, error) {
	return e.text, e.err
}

type segmenterFake struct{}

func (segmenterFake) Segment(text string) []domain.Clause {
	var out []domain.Clause
	for i, part := range strings.Split(text, "\n\n") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, domain.Clause{Index: i, Text: part})
	}
	return out
}

type classifierFake struct {
	available bool
	err       error
	accept    func(clause domain.Clause) (string, bool)
}

func (c *classifierFake) Available() bool { return c.available }

func (c *classifierFake) Classify(_ context.Context, clause domain.Clause) (domain.RiskAssessment, bool, error) {
	if c.err != nil {
		return domain.RiskAssessment{}, false, c.err
	}
	if c.accept == nil {
		return domain.RiskAssessment{}, false, nil
	}
	label, ok := c.accept(clause)
	if !ok {
		return domain.RiskAssessment{}, false, nil
	}
	return domain.RiskAssessment{Clause: clause, Label: label, Confidence: 0.75}, true, nil
}

type scannerFake struct {
	calls int
	out   []domain.RiskAssessment
}

func (s *scannerFake) Scan(_ string) []domain.RiskAssessment {
	s.calls++
	return s.out
}

type simplifierFake struct{}

func (simplifierFake) Simplify(_ context.Context, clause string) string {
	return "plain: " + clause
}

type rendererFake struct {
	err  error
	rows []domain.ReportRow
}

func (r *rendererFake) Render(rows []domain.ReportRow) ([]byte, string, error) {
	if r.err != nil {
		return nil, "", r.err
	}
	r.rows = rows
	return []byte("rendered"), "application/pdf", nil
}

func (rendererFake) Extension() string { return "pdf" }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newUC(store *storeFake, ex *extractorFake, cl *classifierFake, sc *scannerFake, re *rendererFake) *AnalyzeContractUseCase {
	return NewAnalyzeContractUseCase(store, ex, segmenterFake{}, cl, sc, simplifierFake{}, re, discardLogger())
}

func TestAnalyzeModelPath(t *testing.T) {
	store := &storeFake{}
	extractor := &extractorFake{text: "The Client shall assume unlimited liability for damages.\n\nThis agreement renews automatically each year."}
	classifier := &classifierFake{
		available: true,
		accept: func(clause domain.Clause) (string, bool) {
			if strings.Contains(clause.Text, "liability") {
				return "unlimited liability", true
			}
			return "automatic renewal", true
		},
	}
	scanner := &scannerFake{}
	renderer := &rendererFake{}

	report, err := newUC(store, extractor, classifier, scanner, renderer).Analyze(context.Background(), "contract.docx", strings.NewReader("raw"))
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if len(report.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(report.Rows))
	}
	if report.ClassifierFallback {
		t.Fatalf("model path must not be flagged as fallback")
	}
	if report.SourceFormat != domain.FormatDocx {
		t.Fatalf("SourceFormat = %s, want docx", report.SourceFormat)
	}
	if scanner.calls != 0 {
		t.Fatalf("keyword scanner must not run when the model path succeeds")
	}
	if report.Rows[0].RiskLabel != "unlimited liability" {
		t.Fatalf("rows out of source order: %+v", report.Rows)
	}
	if !strings.HasPrefix(report.Rows[0].Explanation, "plain: ") {
		t.Fatalf("explanation not produced by the simplifier: %q", report.Rows[0].Explanation)
	}
	if store.cleanupCalls != 1 {
		t.Fatalf("temp file cleanup ran %d times, want 1", store.cleanupCalls)
	}
	if report.ContentType != "application/pdf" || string(report.Data) != "rendered" {
		t.Fatalf("renderer output not propagated")
	}
}

func TestAnalyzeModelFailureFallsBackToScanner(t *testing.T) {
	store := &storeFake{}
	extractor := &extractorFake{text: "The Supplier's liability is unlimited. Termination requires 30 days notice."}
	classifier := &classifierFake{available: true, err: errors.New("inference endpoint down")}
	scanner := &scannerFake{out: []domain.RiskAssessment{
		{Clause: domain.Clause{Index: 0, Text: "The Supplier's liability is unlimited"}, Label: "High", Confidence: 0.9},
		{Clause: domain.Clause{Index: 1, Text: " Termination requires 30 days notice"}, Label: "High", Confidence: 0.9},
	}}
	renderer := &rendererFake{}

	report, err := newUC(store, extractor, classifier, scanner, renderer).Analyze(context.Background(), "contract.txt", strings.NewReader("raw"))
	if err != nil {
		t.Fatalf("model failure must not fail the request: %v", err)
	}
	if !report.ClassifierFallback {
		t.Fatalf("fallback flag not set")
	}
	if scanner.calls != 1 {
		t.Fatalf("scanner ran %d times, want 1", scanner.calls)
	}
	if len(report.Rows) != 2 {
		t.Fatalf("expected assessments from the keyword fallback, got %d", len(report.Rows))
	}
}

func TestAnalyzeUnavailableModelUsesScanner(t *testing.T) {
	store := &storeFake{}
	extractor := &extractorFake{text: "Plain terms with an arbitration clause."}
	classifier := &classifierFake{available: false}
	scanner := &scannerFake{out: []domain.RiskAssessment{
		{Clause: domain.Clause{Index: 0, Text: "Plain terms with an arbitration clause"}, Label: "Medium", Confidence: 0.9},
	}}
	renderer := &rendererFake{}

	report, err := newUC(store, extractor, classifier, scanner, renderer).Analyze(context.Background(), "contract.txt", strings.NewReader("raw"))
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if !report.ClassifierFallback {
		t.Fatalf("unavailable model must be reported as fallback")
	}
}

func TestAnalyzeModelAcceptsNothingFallsBack(t *testing.T) {
	store := &storeFake{}
	extractor := &extractorFake{text: "Neutral text with no confident labels anywhere in this paragraph."}
	classifier := &classifierFake{available: true} // accept == nil -> rejects all
	scanner := &scannerFake{}
	renderer := &rendererFake{}

	report, err := newUC(store, extractor, classifier, scanner, renderer).Analyze(context.Background(), "contract.txt", strings.NewReader("raw"))
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if !report.ClassifierFallback || scanner.calls != 1 {
		t.Fatalf("zero accepted clauses must route to the keyword fallback")
	}
}

func TestAnalyzeUnsupportedExtension(t *testing.T) {
	store := &storeFake{}
	uc := newUC(store, &extractorFake{}, &classifierFake{}, &scannerFake{}, &rendererFake{})

	_, err := uc.Analyze(context.Background(), "contract.exe", strings.NewReader("raw"))
	if !domain.IsKind(err, domain.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestAnalyzeEmptyDocument(t *testing.T) {
	store := &storeFake{}
	uc := newUC(store, &extractorFake{text: "  \n\t "}, &classifierFake{}, &scannerFake{}, &rendererFake{})

	_, err := uc.Analyze(context.Background(), "contract.txt", strings.NewReader("raw"))
	if !domain.IsKind(err, domain.ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
	if store.cleanupCalls != 1 {
		t.Fatalf("temp file must be cleaned up on the error path, cleanup ran %d times", store.cleanupCalls)
	}
}

func TestAnalyzeRenderFailureCleansUp(t *testing.T) {
	store := &storeFake{}
	extractor := &extractorFake{text: "Some liability text."}
	scanner := &scannerFake{out: []domain.RiskAssessment{
		{Clause: domain.Clause{Text: "Some liability text"}, Label: "High", Confidence: 0.9},
	}}
	renderer := &rendererFake{err: errors.New("layout failed")}

	_, err := newUC(store, extractor, &classifierFake{}, scanner, renderer).Analyze(context.Background(), "contract.txt", strings.NewReader("raw"))
	if err == nil {
		t.Fatalf("render failure must surface")
	}
	if store.cleanupCalls != 1 {
		t.Fatalf("temp cleanup ran %d times, want 1", store.cleanupCalls)
	}
}
