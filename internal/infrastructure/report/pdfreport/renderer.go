// Package pdfreport lays out analysis rows as a tabular PDF.
package pdfreport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/kirillkom/contract-risk-analyzer/internal/core/domain"
	"github.com/kirillkom/contract-risk-analyzer/internal/infrastructure/report"
)

const (
	// launderedExplanation replaces any explanation still carrying the
	// internal error marker, so sentinels never reach the reader.
	launderedExplanation = "Unable to simplify this clause due to a processing error."

	errorMarker = "[!]"

	contentType = "application/pdf"
)

// risk label colors, hex RGB.
const (
	colorHigh    = "#C62828"
	colorMedium  = "#EF6C00"
	colorLow     = "#2E7D32"
	colorNeutral = "#212121"
	colorHeader  = "#263238"
)

// A4 layout in points. Courier is fixed-width, so column wrapping is exact.
const (
	pageHeight   = 842.0
	topMargin    = 60.0
	bottomMargin = 50.0
	lineHeight   = 11.0
	rowGap       = 8.0

	clauseX     = 40.0
	riskX       = 265.0
	explanation = 330.0

	clauseCols      = 44
	explanationCols = 45
)

type Renderer struct {
	conf *model.Configuration
}

func New() *Renderer {
	return &Renderer{conf: model.NewDefaultConfiguration()}
}

func (r *Renderer) Extension() string { return "pdf" }

// Render produces the report PDF from the page description JSON.
func (r *Renderer) Render(rows []domain.ReportRow) ([]byte, string, error) {
	desc, err := buildPageJSON(rows)
	if err != nil {
		return nil, "", fmt.Errorf("build report layout: %w", err)
	}

	var buf bytes.Buffer
	if err := api.Create(nil, bytes.NewReader(desc), &buf, r.conf); err != nil {
		return nil, "", fmt.Errorf("create report pdf: %w", err)
	}
	return buf.Bytes(), contentType, nil
}

type textElement struct {
	Value string         `json:"value"`
	Pos   map[string]any `json:"pos"`
	Font  map[string]any `json:"font"`
}

func element(value string, x, y float64, font string, size int, color string) textElement {
	return textElement{
		Value: value,
		Pos:   map[string]any{"x": x, "y": y},
		Font:  map[string]any{"name": font, "size": size, "col": color},
	}
}

// buildPageJSON assembles the pdfcpu page description: a three-column layout
// with a repeated header and a color-coded risk cell per row, breaking onto
// new pages as rows run past the bottom margin.
func buildPageJSON(rows []domain.ReportRow) ([]byte, error) {
	pages := map[string]any{}
	pageNum := 1
	var elements []textElement

	y := pageHeight - topMargin
	elements = append(elements, titleElements(y)...)
	y -= 3 * lineHeight

	flush := func() {
		pages[strconv.Itoa(pageNum)] = map[string]any{
			"paper":   "A4",
			"content": map[string]any{"text": elements},
		}
		pageNum++
		elements = nil
	}

	for _, row := range rows {
		clauseLines := wrap(report.ToASCII(row.Clause), clauseCols)
		explLines := wrap(report.ToASCII(launder(row.Explanation)), explanationCols)
		height := float64(max(len(clauseLines), len(explLines), 1)) * lineHeight

		if y-height < bottomMargin {
			flush()
			y = pageHeight - topMargin
			elements = append(elements, headerElements(y)...)
			y -= 2 * lineHeight
		}

		for i, line := range clauseLines {
			elements = append(elements, element(line, clauseX, y-float64(i)*lineHeight, "Courier", 8, colorNeutral))
		}
		elements = append(elements, element(report.ToASCII(row.RiskLabel), riskX, y, "Courier-Bold", 8, labelColor(row.RiskLabel)))
		for i, line := range explLines {
			elements = append(elements, element(line, explanation, y-float64(i)*lineHeight, "Courier", 8, colorNeutral))
		}
		y -= height + rowGap
	}
	flush()

	return json.Marshal(map[string]any{"pages": pages})
}

func titleElements(y float64) []textElement {
	out := []textElement{
		element("Contract Risk Analysis", clauseX, y, "Helvetica-Bold", 16, colorHeader),
	}
	return append(out, headerElements(y-2*lineHeight)...)
}

func headerElements(y float64) []textElement {
	return []textElement{
		element("Clause", clauseX, y, "Helvetica-Bold", 9, colorHeader),
		element("Risk Level", riskX, y, "Helvetica-Bold", 9, colorHeader),
		element("Explanation", explanation, y, "Helvetica-Bold", 9, colorHeader),
	}
}

// launder replaces marker-carrying explanations with reader-safe wording.
func launder(explanation string) string {
	if strings.HasPrefix(strings.TrimSpace(explanation), errorMarker) {
		return launderedExplanation
	}
	return explanation
}

// labelColor maps a risk label onto its display color. Topic labels from the
// model path render in the neutral color.
func labelColor(label string) string {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "high":
		return colorHigh
	case "medium":
		return colorMedium
	case "low":
		return colorLow
	default:
		return colorNeutral
	}
}

// wrap breaks text into lines of at most width characters on word
// boundaries; a single overlong word is split hard.
func wrap(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	var current string
	for _, word := range words {
		for len(word) > width {
			if current != "" {
				lines = append(lines, current)
				current = ""
			}
			lines = append(lines, word[:width])
			word = word[width:]
		}
		switch {
		case current == "":
			current = word
		case len(current)+1+len(word) <= width:
			current += " " + word
		default:
			lines = append(lines, current)
			current = word
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}
