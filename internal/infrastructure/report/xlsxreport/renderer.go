// Package xlsxreport lays out analysis rows as a spreadsheet, one clause per
// row with a color-filled risk cell.
package xlsxreport

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/contract-risk-analyzer/internal/core/domain"
	"github.com/kirillkom/contract-risk-analyzer/internal/infrastructure/report"
)

const (
	sheetName   = "Risk Analysis"
	contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	launderedExplanation = "Unable to simplify this clause due to a processing error."
	errorMarker          = "[!]"
)

// fill colors per severity tier, ARGB without alpha.
var riskFills = map[string]string{
	"high":   "FFC7CE",
	"medium": "FFEB9C",
	"low":    "C6EFCE",
}

type Renderer struct{}

func New() *Renderer { return &Renderer{} }

func (r *Renderer) Extension() string { return "xlsx" }

func (r *Renderer) Render(rows []domain.ReportRow) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, "", fmt.Errorf("drop default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"263238"}, Pattern: 1},
	})
	if err != nil {
		return nil, "", fmt.Errorf("build header style: %w", err)
	}

	for col, title := range []string{"Clause", "Risk Level", "Explanation"} {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheetName, cell, title)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}
	f.SetColWidth(sheetName, "A", "A", 60)
	f.SetColWidth(sheetName, "B", "B", 16)
	f.SetColWidth(sheetName, "C", "C", 60)

	riskStyles := map[string]int{}
	for tier, fill := range riskFills {
		style, err := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Bold: true},
			Fill: excelize.Fill{Type: "pattern", Color: []string{fill}, Pattern: 1},
		})
		if err != nil {
			return nil, "", fmt.Errorf("build %s style: %w", tier, err)
		}
		riskStyles[tier] = style
	}

	for i, row := range rows {
		rowNum := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", rowNum), report.ToASCII(row.Clause))
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", rowNum), report.ToASCII(row.RiskLabel))
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", rowNum), report.ToASCII(launder(row.Explanation)))

		if style, ok := riskStyles[strings.ToLower(strings.TrimSpace(row.RiskLabel))]; ok {
			cell := fmt.Sprintf("B%d", rowNum)
			f.SetCellStyle(sheetName, cell, cell, style)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), contentType, nil
}

func launder(explanation string) string {
	if strings.HasPrefix(strings.TrimSpace(explanation), errorMarker) {
		return launderedExplanation
	}
	return explanation
}
