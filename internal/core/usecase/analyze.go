package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/kirillkom/contract-risk-analyzer/internal/core/domain"
	"github.com/kirillkom/contract-risk-analyzer/internal/core/ports"
)

type AnalyzeContractUseCase struct {
	store      ports.FileStore
	extractor  ports.TextExtractor
	segmenter  ports.ClauseSegmenter
	classifier ports.RiskClassifier
	scanner    ports.DocumentScanner
	simplifier ports.ClauseSimplifyService
	renderer   ports.ReportRenderer
	logger     *slog.Logger
}

func NewAnalyzeContractUseCase(
	store ports.FileStore,
	extractor ports.TextExtractor,
	segmenter ports.ClauseSegmenter,
	classifier ports.RiskClassifier,
	scanner ports.DocumentScanner,
	simplifier ports.ClauseSimplifyService,
	renderer ports.ReportRenderer,
	logger *slog.Logger,
) *AnalyzeContractUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyzeContractUseCase{
		store:      store,
		extractor:  extractor,
		segmenter:  segmenter,
		classifier: classifier,
		scanner:    scanner,
		simplifier: simplifier,
		renderer:   renderer,
		logger:     logger,
	}
}

// Analyze runs the full pipeline for one uploaded document: temp storage,
// extraction, classification with fallback, per-clause rewriting, report
// assembly. The request-scoped temp file is removed on every exit path.
func (uc *AnalyzeContractUseCase) Analyze(ctx context.Context, filename string, body io.Reader) (*domain.Report, error) {
	format, ok := domain.DetectFormat(filename)
	if !ok {
		return nil, domain.WrapError(domain.ErrUnsupportedFormat, "analyze", fmt.Errorf("file %q", filename))
	}

	tempPath, cleanup, err := uc.store.SaveTemp(ctx, filename, body)
	if err != nil {
		return nil, fmt.Errorf("save uploaded document: %w", err)
	}
	defer cleanup()

	doc := &domain.Document{
		Filename: filename,
		Format:   format,
		TempPath: tempPath,
	}

	text, err := uc.extractText(ctx, doc)
	if err != nil {
		return nil, err
	}

	assessments, usedFallback := uc.classify(ctx, text)

	rows := uc.simplifyAll(ctx, assessments)

	report, err := uc.assemble(ctx, rows)
	if err != nil {
		return nil, err
	}
	report.SourceFormat = format
	report.ClassifierFallback = usedFallback
	return report, nil
}

func (uc *AnalyzeContractUseCase) extractText(ctx context.Context, doc *domain.Document) (string, error) {
	text, err := uc.extractor.Extract(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("extract text: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", domain.WrapError(domain.ErrEmptyDocument, "extract text", errors.New("no extractable text"))
	}
	return text, nil
}

// classify runs the model-backed strategy clause by clause and falls back to
// the whole-document keyword scan when the model path errors out or accepts
// nothing. A request never ends with zero assessments solely because the
// model failed.
func (uc *AnalyzeContractUseCase) classify(ctx context.Context, text string) ([]domain.RiskAssessment, bool) {
	if uc.classifier.Available() {
		assessments, err := uc.classifyByModel(ctx, text)
		if err != nil {
			uc.logger.Warn("model classification failed, using keyword fallback", "error", err)
		} else if len(assessments) > 0 {
			return assessments, false
		} else {
			uc.logger.Info("model accepted no clauses, using keyword fallback")
		}
	}
	return uc.scanner.Scan(text), true
}

func (uc *AnalyzeContractUseCase) classifyByModel(ctx context.Context, text string) ([]domain.RiskAssessment, error) {
	clauses := uc.segmenter.Segment(text)
	var out []domain.RiskAssessment
	for _, clause := range clauses {
		assessment, accepted, err := uc.classifier.Classify(ctx, clause)
		if err != nil {
			return nil, fmt.Errorf("classify clause %d: %w", clause.Index, err)
		}
		if accepted {
			out = append(out, assessment)
		}
	}
	return out, nil
}

// simplifyAll rewrites each assessed clause. A failing rewrite is isolated
// to its row: the guarded simplifier turns failures into marker sentinels
// the renderer launders, so one bad call never aborts the report.
func (uc *AnalyzeContractUseCase) simplifyAll(ctx context.Context, assessments []domain.RiskAssessment) []domain.ReportRow {
	rows := make([]domain.ReportRow, 0, len(assessments))
	for _, a := range assessments {
		rows = append(rows, domain.ReportRow{
			Clause:      a.Clause.Text,
			RiskLabel:   a.Label,
			Explanation: uc.simplifier.Simplify(ctx, a.Clause.Text),
		})
	}
	return rows
}

func (uc *AnalyzeContractUseCase) assemble(ctx context.Context, rows []domain.ReportRow) (*domain.Report, error) {
	data, contentType, err := uc.renderer.Render(rows)
	if err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}

	filename, err := uc.store.SaveReport(ctx, uc.renderer.Extension(), data)
	if err != nil {
		return nil, fmt.Errorf("save report: %w", err)
	}

	return &domain.Report{
		Filename:    filename,
		ContentType: contentType,
		Data:        data,
		Rows:        rows,
	}, nil
}
