// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
)

// Category distinguishes domestic (Japanese) books from foreign ones.
type Category string

const (
	CategoryDomestic Category = "domestic"
	CategoryForeign  Category = "foreign"
)

// Label returns the form label printed in the exported spreadsheet.
func (c Category) Label() string {
	if c == CategoryForeign {
		return "洋書"
	}
	return "和書"
}

// ParseCategory accepts either the English name or the form label.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "domestic", "和書":
		return CategoryDomestic, nil
	case "foreign", "洋書":
		return CategoryForeign, nil
	}
	return "", fmt.Errorf("unknown category %q: use domestic (和書) or foreign (洋書)", s)
}

// BookRecord is one entry of the selection list.
type BookRecord struct {
	// ID is generated on insertion and never changes.
	ID string `json:"id" yaml:"id"`

	// No is the 1-based position in the list, renumbered after every removal.
	No int `json:"no" yaml:"no"`

	Title      string `json:"title" yaml:"title"`
	SeriesName string `json:"series_name,omitempty" yaml:"series_name,omitempty"`
	Volume     string `json:"volume,omitempty" yaml:"volume,omitempty"`
	Edition    string `json:"edition,omitempty" yaml:"edition,omitempty"`

	Authors   []string `json:"authors" yaml:"authors"`
	Publisher string   `json:"publisher" yaml:"publisher"`

	// PublishedDate is carried over from the candidate; the simple layout prints it.
	PublishedDate   string `json:"published_date,omitempty" yaml:"published_date,omitempty"`
	PublicationYear int    `json:"publication_year" yaml:"publication_year"`

	ISBN     string   `json:"isbn" yaml:"isbn"`
	Category Category `json:"category" yaml:"category"`

	// Price is the pre-tax price in yen; never negative.
	Price int `json:"price" yaml:"price"`

	URL string `json:"url,omitempty" yaml:"url,omitempty"`
}
