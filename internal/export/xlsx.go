// Package export renders generated test suites as spreadsheets.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/BerylCAtieno/requirements-testgen/internal/generator"
)

const (
	SheetName       = "Test Cases"
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// TestCasesXLSX writes the table as a workbook with a bold header row.
func TestCasesXLSX(table generator.Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// NewFile starts with "Sheet1"; rename it instead of adding a second sheet.
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("xlsx rename sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx header style: %w", err)
	}

	for i, col := range table.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(SheetName, cell, col)
		_ = f.SetCellStyle(SheetName, cell, cell, header)

		name, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(SheetName, name, name, columnWidth(col))
	}

	for r, row := range table.Rows {
		for c, value := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			_ = f.SetCellValue(SheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	return buf.Bytes(), nil
}

func columnWidth(column string) float64 {
	switch column {
	case "id":
		return 10
	case "steps", "expected_result", "precondition":
		return 48
	default:
		return 28
	}
}
