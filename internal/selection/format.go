// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package selection

import (
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/book-selection/pkg/types"
)

// FormatTable writes books as a human-readable table to w, followed by the
// total price. Rows whose number is in flagged are marked with "!" next to
// the ISBN.
func FormatTable(books []types.BookRecord, flagged []int, w io.Writer) {
	if len(books) == 0 {
		fmt.Fprintln(w, "The selection list is empty.")
		return
	}

	marked := make(map[int]bool, len(flagged))
	for _, no := range flagged {
		marked[no] = true
	}

	fmt.Fprintf(w, "%-3s  %-36s  %-18s  %-14s  %-4s  %-14s  %-4s  %8s\n",
		"No", "Title", "Authors", "Publisher", "Year", "ISBN", "Cat", "Price")
	fmt.Fprintln(w, strings.Repeat("-", 116))

	for _, b := range books {
		isbn := b.ISBN
		if marked[b.No] {
			isbn += " !"
		}
		fmt.Fprintf(w, "%-3d  %-36s  %-18s  %-14s  %-4d  %-14s  %-4s  %8d\n",
			b.No, truncate(b.Title, 36), truncate(strings.Join(b.Authors, ", "), 18),
			truncate(b.Publisher, 14), b.PublicationYear, isbn, b.Category.Label(), b.Price)
	}
	fmt.Fprintln(w, strings.Repeat("-", 116))
	fmt.Fprintf(w, "Total: %d yen\n", TotalPrice(books))
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
