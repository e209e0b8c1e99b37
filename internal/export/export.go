// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export flattens a selection list into a fixed tabular layout and
// writes it as a single-sheet XLSX workbook.
package export

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/book-selection/pkg/types"
)

// ErrPreconditionUnmet is returned when the list or student data is not
// complete enough to export under the chosen layout.
var ErrPreconditionUnmet = errors.New("export requires student information and at least one book")

const unsetFileKey = "未入力"

// Document is a write-once grid of cell values ready to be rendered.
type Document struct {
	SheetName string
	Rows      [][]any

	// HeaderRow and TotalRow are 0-based indexes into Rows.
	HeaderRow int
	TotalRow  int

	// Width is the number of table columns.
	Width int
}

// Ready reports whether books and student satisfy the layout's export
// precondition. The returned error wraps ErrPreconditionUnmet.
func Ready(layout Layout, student types.StudentInfo, books []types.BookRecord) error {
	var missing []string
	if layout.RequireStudent {
		if strings.TrimSpace(student.StudentID) == "" {
			missing = append(missing, "student ID")
		}
		if strings.TrimSpace(student.Name) == "" {
			missing = append(missing, "name")
		}
	}
	if len(books) == 0 {
		missing = append(missing, "at least one book")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrPreconditionUnmet, strings.Join(missing, ", "))
	}
	return nil
}

// Build lays out the student, books, total, and recommendation according to
// layout. Books appear in list order.
func Build(layout Layout, student types.StudentInfo, books []types.BookRecord, total int, recommendation string) Document {
	doc := Document{SheetName: layout.SheetName, Width: len(layout.Columns)}
	add := func(cells ...any) { doc.Rows = append(doc.Rows, cells) }

	if layout.StudentHeader {
		add(studentHeaderRow(doc.Width, layout.Title, layout.StudentIDLabel, student.StudentID)...)
		add(studentHeaderRow(doc.Width, "", layout.NameLabel, student.Name)...)
	} else if layout.Title != "" {
		add(layout.Title)
	}
	if layout.InstructionsHeading != "" {
		add(layout.InstructionsHeading)
	}
	for _, line := range layout.Instructions {
		add(line)
	}
	if len(doc.Rows) > 0 {
		add()
	}

	header := make([]any, doc.Width)
	for i, c := range layout.Columns {
		header[i] = c.Label
	}
	doc.HeaderRow = len(doc.Rows)
	add(header...)

	for _, b := range books {
		add(bookRow(layout, b)...)
	}

	switch layout.Trailer {
	case TrailerInline:
		row := make([]any, doc.Width)
		for i := range row {
			row[i] = ""
		}
		if p := layout.columnIndex(ColPrice); p >= 0 {
			if p > 0 {
				row[p-1] = layout.TotalLabel
			}
			row[p] = total
		}
		doc.TotalRow = len(doc.Rows)
		add(row...)
		if recommendation != "" {
			add()
			add(layout.RecommendationLabel)
			if layout.RecommendationNote != "" {
				add(layout.RecommendationNote)
			}
			add(recommendation)
		}
	case TrailerSummary:
		add()
		add(layout.StudentIDLabel, student.StudentID)
		add(layout.NameLabel, student.Name)
		if recommendation != "" {
			add(layout.RecommendationLabel, recommendation)
		}
		doc.TotalRow = len(doc.Rows)
		add(layout.TotalLabel, total)
	}
	return doc
}

// studentHeaderRow returns a row of width cells with first in column A and
// label/value in the last two columns.
func studentHeaderRow(width int, first, label, value string) []any {
	row := make([]any, max(width, 3))
	for i := range row {
		row[i] = ""
	}
	row[0] = first
	row[len(row)-2] = label
	row[len(row)-1] = value
	return row
}

func bookRow(layout Layout, b types.BookRecord) []any {
	row := make([]any, len(layout.Columns))
	for i, c := range layout.Columns {
		row[i] = cellValue(layout, c.Key, b)
	}
	return row
}

func cellValue(layout Layout, key ColumnKey, b types.BookRecord) any {
	switch key {
	case ColNo:
		return b.No
	case ColTitle:
		return b.Title
	case ColSeriesName:
		return b.SeriesName
	case ColVolume:
		return b.Volume
	case ColEdition:
		return b.Edition
	case ColAuthors:
		return strings.Join(b.Authors, layout.AuthorDelimiter)
	case ColPublisher:
		return b.Publisher
	case ColYear:
		return b.PublicationYear
	case ColPublishedDate:
		return b.PublishedDate
	case ColISBN:
		return b.ISBN
	case ColCategory:
		return b.Category.Label()
	case ColPrice:
		return b.Price
	case ColURL:
		return b.URL
	}
	return ""
}

// Filename returns the download name for student's export on date now, e.g.
// "図書選定リスト_S1234_2026-10-16.xlsx". The date is taken in UTC.
func Filename(layout Layout, student types.StudentInfo, now time.Time) string {
	key := student.StudentID
	if layout.FileKey == FileKeyName {
		key = student.Name
	}
	key = strings.TrimSpace(key)
	if key == "" {
		key = unsetFileKey
	}
	key = strings.NewReplacer("/", "_", `\`, "_", ":", "_").Replace(key)
	return fmt.Sprintf("%s_%s_%s.xlsx", layout.FilePrefix, key, now.UTC().Format("2006-01-02"))
}
