// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/pdiddy/book-selection/internal/isbn"
	"github.com/pdiddy/book-selection/pkg/types"
)

var (
	// ErrNoResults means the catalog returned no entries at all.
	ErrNoResults = errors.New("no matching books were found")

	// ErrNoRecentResults means entries came back but all of them were
	// published before the recency cutoff.
	ErrNoRecentResults = errors.New("no matching books published within the last year were found")
)

const (
	identifierISBN13 = "ISBN_13"
	identifierISBN10 = "ISBN_10"
)

// dateLayouts lists the publishedDate forms the catalog uses, most specific first.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01",
	"2006",
}

// Recent searches for keyword and returns the normalized candidates that
// pass the recency filter. It returns ErrNoResults when the catalog returned
// nothing and ErrNoRecentResults when everything was filtered out. A blank
// keyword returns nil, nil without a request.
func Recent(ctx context.Context, s Searcher, keyword string, now time.Time) ([]types.Candidate, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, nil
	}
	raw, err := s.Search(ctx, keyword)
	if err != nil {
		return nil, err
	}
	candidates := Normalize(raw, now)
	return candidates, Outcome(len(raw), len(candidates))
}

// Outcome classifies a search by how many raw entries came back and how
// many survived the recency filter.
func Outcome(raw, kept int) error {
	switch {
	case raw == 0:
		return ErrNoResults
	case kept == 0:
		return ErrNoRecentResults
	}
	return nil
}

// Cutoff returns the recency cutoff for now: the same month and day one year
// earlier, at midnight UTC. February 29 rolls over to March 1.
func Cutoff(now time.Time) time.Time {
	return time.Date(now.Year()-1, now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// Normalize maps raw entries to candidates, dropping entries whose
// publishedDate parses to a date strictly before Cutoff(now). Entries with an
// absent or unparseable date are kept. Input order is preserved.
func Normalize(entries []Volume, now time.Time) []types.Candidate {
	cutoff := Cutoff(now)
	candidates := make([]types.Candidate, 0, len(entries))
	for _, e := range entries {
		info := e.VolumeInfo
		if d, ok := ParseDate(info.PublishedDate); ok && d.Before(cutoff) {
			continue
		}
		candidates = append(candidates, toCandidate(e))
	}
	return candidates
}

func toCandidate(e Volume) types.Candidate {
	info := e.VolumeInfo
	c := types.Candidate{
		ID:            e.ID,
		Title:         info.Title,
		Authors:       info.Authors,
		Publisher:     info.Publisher,
		PublishedDate: info.PublishedDate,
		ISBN:          ExtractISBN(info.IndustryIdentifiers),
	}
	if len(c.Authors) == 0 {
		c.Authors = []string{types.UnknownValue}
	}
	if c.Publisher == "" {
		c.Publisher = types.UnknownValue
	}
	if info.ImageLinks != nil {
		c.Thumbnail = info.ImageLinks.Thumbnail
	}
	return c
}

// ParseDate parses a catalog publishedDate. Year-only and year-month values
// resolve to the first day of the period. Timestamps keep the calendar date
// written in their own offset.
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// ExtractISBN returns the first ISBN-13 identifier in source order, falling
// back to the first ISBN-10, cleaned of hyphens and whitespace. It returns ""
// when neither is present.
func ExtractISBN(ids []IndustryIdentifier) string {
	var isbn10 string
	for _, id := range ids {
		switch id.Type {
		case identifierISBN13:
			return isbn.Clean(id.Identifier)
		case identifierISBN10:
			if isbn10 == "" {
				isbn10 = id.Identifier
			}
		}
	}
	return isbn.Clean(isbn10)
}
