// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the book-selection tool:
// the student filling in the form, catalog candidates, selected book records,
// and the configuration of each stage.
package types

// UnknownValue is the placeholder used when the catalog omits an author or
// publisher.
const UnknownValue = "不明"

// StudentInfo identifies the student submitting a selection list.
type StudentInfo struct {
	StudentID string `json:"student_id" yaml:"student_id"`
	Name      string `json:"name" yaml:"name"`
}

// Complete reports whether both student fields are filled in.
func (s StudentInfo) Complete() bool {
	return s.StudentID != "" && s.Name != ""
}

// Candidate is a normalized catalog search result that has not yet been
// added to the selection list.
type Candidate struct {
	// ID is the catalog's volume identifier.
	ID string `json:"id" yaml:"id"`

	Title string `json:"title" yaml:"title"`

	// Authors is never empty; it holds UnknownValue when the catalog has no authors.
	Authors []string `json:"authors" yaml:"authors"`

	Publisher string `json:"publisher" yaml:"publisher"`

	// PublishedDate is the catalog date string ("2025", "2025-04", "2025-04-18") or empty.
	PublishedDate string `json:"published_date" yaml:"published_date"`

	// ISBN holds the cleaned ISBN-13 (or ISBN-10 when no ISBN-13 exists), or empty.
	ISBN string `json:"isbn" yaml:"isbn"`

	Thumbnail string `json:"thumbnail,omitempty" yaml:"thumbnail,omitempty"`
}
