// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/book-selection/pkg/types"
)

// FormatTable writes candidates as a human-readable table to w.
func FormatTable(candidates []types.Candidate, w io.Writer) {
	if len(candidates) == 0 {
		fmt.Fprintln(w, "No candidates.")
		return
	}

	fmt.Fprintf(w, "%-3s  %-40s  %-20s  %-16s  %-10s  %s\n",
		"No", "Title", "Authors", "Publisher", "Date", "ISBN")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for i, c := range candidates {
		date := c.PublishedDate
		if date == "" {
			date = types.UnknownValue
		}
		fmt.Fprintf(w, "%-3d  %-40s  %-20s  %-16s  %-10s  %s\n",
			i+1, truncate(c.Title, 40), formatAuthors(c.Authors),
			truncate(c.Publisher, 16), date, c.ISBN)
	}
}

// FormatJSON writes candidates as indented JSON to w.
func FormatJSON(candidates []types.Candidate, w io.Writer) error {
	if candidates == nil {
		candidates = []types.Candidate{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(candidates)
}

func formatAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return truncate(authors[0], 20)
	default:
		return truncate(authors[0], 14) + " et al."
	}
}

// truncate shortens s to max runes, marking the cut with "...".
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
