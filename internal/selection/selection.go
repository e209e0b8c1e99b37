// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package selection holds the ordered, editable list of books a student has
// chosen. Records keep a stable generated ID; their No field is always the
// contiguous 1..N position in the list.
package selection

import (
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/book-selection/pkg/types"
)

// ErrNotFound is returned when an operation names an ID that is not in the list.
var ErrNotFound = errors.New("book record not found")

// List is the selection list. The zero value is an empty list ready to use.
// List is not safe for concurrent use.
type List struct {
	books []types.BookRecord

	// NewID generates record IDs. Nil means uuid.NewString.
	NewID func() string

	// Now supplies the current year for candidates without a date. Nil means time.Now.
	Now func() time.Time
}

// AddFromCandidates promotes every candidate whose ID is in ids, in candidate
// order, and appends the new records to the end of the list. It returns
// exactly the records it created so the caller can clear its selection and
// candidate pool.
func (l *List) AddFromCandidates(ids map[string]bool, candidates []types.Candidate) []types.BookRecord {
	var added []types.BookRecord
	for _, c := range candidates {
		if !ids[c.ID] {
			continue
		}
		rec := types.BookRecord{
			ID:              l.newID(),
			No:              len(l.books) + 1,
			Title:           c.Title,
			Authors:         append([]string(nil), c.Authors...),
			Publisher:       c.Publisher,
			PublishedDate:   c.PublishedDate,
			PublicationYear: l.publicationYear(c.PublishedDate),
			ISBN:            c.ISBN,
			Category:        types.CategoryDomestic,
		}
		l.books = append(l.books, rec)
		added = append(added, rec)
	}
	return added
}

// Append adds a hand-entered record to the end of the list. The ID and No
// fields are assigned here; an empty category defaults to domestic and a
// negative price is clamped to zero.
func (l *List) Append(rec types.BookRecord) types.BookRecord {
	rec.ID = l.newID()
	rec.No = len(l.books) + 1
	if rec.Category == "" {
		rec.Category = types.CategoryDomestic
	}
	if rec.Price < 0 {
		rec.Price = 0
	}
	rec.Authors = append([]string(nil), rec.Authors...)
	l.books = append(l.books, rec)
	return rec
}

// Update sets one field of the record with the given ID.
func (l *List) Update(id string, field Field, value string) error {
	i := l.index(id)
	if i < 0 {
		return ErrNotFound
	}
	return field.apply(&l.books[i], value)
}

// Remove deletes the record with the given ID and renumbers the rest 1..N.
func (l *List) Remove(id string) error {
	i := l.index(id)
	if i < 0 {
		return ErrNotFound
	}
	l.books = append(l.books[:i], l.books[i+1:]...)
	for j := range l.books {
		l.books[j].No = j + 1
	}
	return nil
}

// Get returns a copy of the record with the given ID.
func (l *List) Get(id string) (types.BookRecord, bool) {
	i := l.index(id)
	if i < 0 {
		return types.BookRecord{}, false
	}
	return l.books[i], true
}

// ByNo returns the record at 1-based position no.
func (l *List) ByNo(no int) (types.BookRecord, bool) {
	if no < 1 || no > len(l.books) {
		return types.BookRecord{}, false
	}
	return l.books[no-1], true
}

// Books returns a copy of the list in display order.
func (l *List) Books() []types.BookRecord {
	out := make([]types.BookRecord, len(l.books))
	copy(out, l.books)
	return out
}

// Len returns the number of records.
func (l *List) Len() int { return len(l.books) }

// TotalPrice sums the price of every record. It is recomputed on each call.
func (l *List) TotalPrice() int {
	return TotalPrice(l.books)
}

// TotalPrice sums the price of books.
func TotalPrice(books []types.BookRecord) int {
	total := 0
	for _, b := range books {
		total += b.Price
	}
	return total
}

func (l *List) index(id string) int {
	for i := range l.books {
		if l.books[i].ID == id {
			return i
		}
	}
	return -1
}

func (l *List) newID() string {
	if l.NewID != nil {
		return l.NewID()
	}
	return uuid.NewString()
}

// publicationYear reads the year from the first four characters of a
// catalog date, falling back to the current year.
func (l *List) publicationYear(date string) int {
	if len(date) >= 4 {
		if y, err := strconv.Atoi(date[:4]); err == nil {
			return y
		}
	}
	now := time.Now
	if l.Now != nil {
		now = l.Now
	}
	return now().Year()
}
