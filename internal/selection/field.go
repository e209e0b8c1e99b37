// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package selection

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pdiddy/book-selection/internal/isbn"
	"github.com/pdiddy/book-selection/pkg/types"
)

// Field names an editable BookRecord field.
type Field string

const (
	FieldTitle         Field = "title"
	FieldSeriesName    Field = "series_name"
	FieldVolume        Field = "volume"
	FieldEdition       Field = "edition"
	FieldAuthors       Field = "authors"
	FieldPublisher     Field = "publisher"
	FieldPublishedDate Field = "published_date"
	FieldYear          Field = "publication_year"
	FieldISBN          Field = "isbn"
	FieldCategory      Field = "category"
	FieldPrice         Field = "price"
	FieldURL           Field = "url"
)

// Fields lists every editable field in form order.
var Fields = []Field{
	FieldTitle, FieldSeriesName, FieldVolume, FieldEdition, FieldAuthors, FieldPublisher,
	FieldPublishedDate, FieldYear, FieldISBN, FieldCategory, FieldPrice, FieldURL,
}

var fieldAliases = map[string]Field{
	"series": FieldSeriesName,
	"author": FieldAuthors,
	"date":   FieldPublishedDate,
	"year":   FieldYear,
}

// ParseField accepts a field name or one of its short aliases.
func ParseField(s string) (Field, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if f, ok := fieldAliases[s]; ok {
		return f, nil
	}
	for _, f := range Fields {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown field %q", s)
}

// apply writes value into the field. Numeric fields that fail to parse are
// set to 0, the way a cleared number input behaves. Price never goes below 0.
func (f Field) apply(b *types.BookRecord, value string) error {
	switch f {
	case FieldTitle:
		b.Title = value
	case FieldSeriesName:
		b.SeriesName = value
	case FieldVolume:
		b.Volume = value
	case FieldEdition:
		b.Edition = value
	case FieldAuthors:
		b.Authors = splitAuthors(value)
	case FieldPublisher:
		b.Publisher = value
	case FieldPublishedDate:
		b.PublishedDate = value
	case FieldYear:
		b.PublicationYear = atoiOrZero(value)
	case FieldISBN:
		b.ISBN = isbn.Clean(value)
	case FieldCategory:
		c, err := types.ParseCategory(value)
		if err != nil {
			return err
		}
		b.Category = c
	case FieldPrice:
		b.Price = max(atoiOrZero(value), 0)
	case FieldURL:
		b.URL = value
	default:
		return fmt.Errorf("unknown field %q", f)
	}
	return nil
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// splitAuthors splits a comma-separated author list, accepting the
// ideographic and full-width commas as well.
func splitAuthors(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '、' || r == '，'
	})
	authors := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			authors = append(authors, p)
		}
	}
	return authors
}
