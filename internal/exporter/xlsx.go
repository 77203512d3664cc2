package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"agrodash/pkg/contracts/domain"
)

// XLSXSheet is the sheet name of exported workbooks.
const XLSXSheet = "Dados"

// WriteXLSX writes the table into a single-sheet workbook. Numbers keep
// full precision and display with DecimalPlaces digits; dates are real
// date cells shown as DD/MM/YYYY; absent cells are left blank.
func WriteXLSX(w io.Writer, t domain.Table) error {
	if t.Empty() {
		return fmt.Errorf("xlsx export: %w", domain.ErrEmptyInput)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", XLSXSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#E6E6E6"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	numberFormat := "0.00"
	numberStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numberFormat})
	if err != nil {
		return fmt.Errorf("failed to create number style: %w", err)
	}
	dateFormat := "dd/mm/yyyy"
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFormat})
	if err != nil {
		return fmt.Errorf("failed to create date style: %w", err)
	}

	for i, name := range t.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellStr(XLSXSheet, cell, name); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(t.Columns), 1)
	if err := f.SetCellStyle(XLSXSheet, "A1", last, headerStyle); err != nil {
		return err
	}

	for r, row := range t.Rows {
		for c := range t.Columns {
			if c >= len(row) {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := setTableCell(f, cell, row[c], numberStyle, dateStyle); err != nil {
				return fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}
	}

	if err := f.SetColWidth(XLSXSheet, "A", columnName(len(t.Columns)), 16); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func setTableCell(f *excelize.File, cell string, c domain.Cell, numberStyle, dateStyle int) error {
	switch c.Kind {
	case domain.CellText:
		return f.SetCellStr(XLSXSheet, cell, c.Text)
	case domain.CellNumber:
		if err := f.SetCellFloat(XLSXSheet, cell, c.Number, -1, 64); err != nil {
			return err
		}
		return f.SetCellStyle(XLSXSheet, cell, cell, numberStyle)
	case domain.CellDate:
		if err := f.SetCellValue(XLSXSheet, cell, c.Date); err != nil {
			return err
		}
		return f.SetCellStyle(XLSXSheet, cell, cell, dateStyle)
	}
	return nil
}

func columnName(n int) string {
	name, err := excelize.ColumnNumberToName(n)
	if err != nil {
		return "A"
	}
	return name
}
