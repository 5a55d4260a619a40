// Package excel exports reports as xlsx workbooks.
package excel

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// DefaultSheet is used when the caller does not name a worksheet.
const DefaultSheet = "Report"

// Column width bounds applied when sizing columns to their content.
const (
	minColumnWidth = 10
	maxColumnWidth = 50
)

// Table is the projection of a report the exporter consumes.
type Table interface {
	Columns() []string
	Records() []map[string]any
}

// Export writes the report to an xlsx workbook at path with a bold,
// frozen header row and columns sized to their content.
func Export(path, sheet string, report Table) error {
	if sheet == "" {
		sheet = DefaultSheet
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating export directory: %w", err)
		}
	}

	file := excelize.NewFile()
	defer file.Close() //nolint:errcheck

	if err := file.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("naming worksheet: %w", err)
	}

	columns := report.Columns()
	records := report.Records()

	headerStyle, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	widths := make([]float64, len(columns))
	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("locating header cell: %w", err)
		}
		if err := file.SetCellValue(sheet, cell, col); err != nil {
			return fmt.Errorf("writing header cell: %w", err)
		}
		if err := file.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("styling header cell: %w", err)
		}
		widths[i] = cellWidth(col)
	}

	for rowIdx, record := range records {
		for colIdx, name := range columns {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return fmt.Errorf("locating cell: %w", err)
			}
			value := record[name]
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("writing cell %s: %w", cell, err)
			}
			if w := cellWidth(value); w > widths[colIdx] {
				widths[colIdx] = w
			}
		}
	}

	if len(columns) > 0 {
		if err := file.SetPanes(sheet, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		}); err != nil {
			return fmt.Errorf("freezing header row: %w", err)
		}

		if len(records) > 0 {
			lastCell, err := excelize.CoordinatesToCellName(len(columns), len(records)+1)
			if err != nil {
				return fmt.Errorf("locating filter range: %w", err)
			}
			if err := file.AutoFilter(sheet, "A1:"+lastCell, nil); err != nil {
				return fmt.Errorf("applying auto filter: %w", err)
			}
		}

		for i, width := range widths {
			colName, err := excelize.ColumnNumberToName(i + 1)
			if err != nil {
				return fmt.Errorf("locating column: %w", err)
			}
			if width < minColumnWidth {
				width = minColumnWidth
			}
			if width > maxColumnWidth {
				width = maxColumnWidth
			}
			if err := file.SetColWidth(sheet, colName, colName, width); err != nil {
				return fmt.Errorf("sizing column %s: %w", colName, err)
			}
		}
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}

	return nil
}

// cellWidth estimates the rendered width of a value, with a little
// padding so content does not touch the column border.
func cellWidth(value any) float64 {
	var text string
	switch v := value.(type) {
	case string:
		text = v
	case float64:
		text = strconv.FormatFloat(v, 'f', -1, 64)
	default:
		text = fmt.Sprint(v)
	}

	return float64(len(text)) + 2
}
