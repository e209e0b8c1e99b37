// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/book-selection/pkg/types"
)

const defaultSheet = "Sheet1"

// columnWidths sets wider columns for free-text values.
var columnWidths = map[ColumnKey]float64{
	ColTitle:     40,
	ColAuthors:   24,
	ColPublisher: 18,
	ColISBN:      16,
	ColURL:       32,
}

// WriteXLSX renders doc as a single-sheet workbook, sizing the free-text
// columns of layout.
func WriteXLSX(w io.Writer, doc Document, layout Layout) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := doc.SheetName
	if sheet == "" {
		sheet = defaultSheet
	}
	if sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheet); err != nil {
			return fmt.Errorf("naming sheet: %w", err)
		}
	}

	for i, row := range doc.Rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	if err := styleHeader(f, sheet, doc); err != nil {
		return err
	}
	for i, c := range layout.Columns {
		width, ok := columnWidths[c.Key]
		if !ok {
			continue
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("setting width of column %s: %w", col, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// styleHeader bolds the column header row and wraps its text so labels
// with line breaks render on two lines.
func styleHeader(f *excelize.File, sheet string, doc Document) error {
	if doc.Width == 0 {
		return nil
	}
	style, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	start, err := excelize.CoordinatesToCellName(1, doc.HeaderRow+1)
	if err != nil {
		return err
	}
	end, err := excelize.CoordinatesToCellName(doc.Width, doc.HeaderRow+1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, start, end, style)
}

// Write checks the layout's precondition, builds the document, and renders
// it to w.
func Write(w io.Writer, layout Layout, student types.StudentInfo, books []types.BookRecord, total int, recommendation string) error {
	if err := Ready(layout, student, books); err != nil {
		return err
	}
	return WriteXLSX(w, Build(layout, student, books, total, recommendation), layout)
}
