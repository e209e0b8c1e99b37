// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session holds everything one student edits during a visit: their
// details, the current search results and selection, the selection list,
// and the recommendation text. Nothing outlives the Session value.
package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pdiddy/book-selection/internal/catalog"
	"github.com/pdiddy/book-selection/internal/export"
	"github.com/pdiddy/book-selection/internal/isbn"
	"github.com/pdiddy/book-selection/internal/selection"
	"github.com/pdiddy/book-selection/pkg/types"
)

// ErrSearchInFlight is returned when a search is requested while another is
// still waiting for the catalog. The new request is dropped.
var ErrSearchInFlight = errors.New("a search is already in progress")

// Status messages shown to the user after a search.
const (
	StatusSearchFailed    = "An error occurred while searching."
	StatusNoResults       = "No matching books were found."
	StatusNoRecentResults = "No matching books published within the last year were found."
)

// Session is safe for concurrent use. The lock is not held while the catalog
// request is outstanding.
type Session struct {
	searcher catalog.Searcher
	logger   *slog.Logger
	now      func() time.Time

	mu             sync.Mutex
	student        types.StudentInfo
	recommendation string
	keyword        string
	candidates     []types.Candidate
	selected       map[string]bool
	list           selection.List
	status         string
	searching      bool
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithClock replaces time.Now, for the recency cutoff and default years.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithIDGenerator replaces the record ID generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *Session) { s.list.NewID = newID }
}

// New returns an empty session that searches through searcher.
func New(searcher catalog.Searcher, opts ...Option) *Session {
	s := &Session{
		searcher: searcher,
		logger:   slog.Default(),
		now:      time.Now,
		selected: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.list.Now = s.now
	return s
}

// Snapshot is a read-only copy of the session state.
type Snapshot struct {
	Student        types.StudentInfo  `json:"student"`
	Recommendation string             `json:"recommendation"`
	Keyword        string             `json:"keyword"`
	Candidates     []types.Candidate  `json:"candidates"`
	Selected       []string           `json:"selected"`
	Books          []types.BookRecord `json:"books"`
	TotalPrice     int                `json:"total_price"`
	Status         string             `json:"status"`
	Searching      bool               `json:"searching"`
}

// Snapshot copies the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	selected := make([]string, 0, len(s.selected))
	for id := range s.selected {
		selected = append(selected, id)
	}
	sort.Strings(selected)

	return Snapshot{
		Student:        s.student,
		Recommendation: s.recommendation,
		Keyword:        s.keyword,
		Candidates:     append([]types.Candidate(nil), s.candidates...),
		Selected:       selected,
		Books:          s.list.Books(),
		TotalPrice:     s.list.TotalPrice(),
		Status:         s.status,
		Searching:      s.searching,
	}
}

// SetStudent replaces the student details.
func (s *Session) SetStudent(info types.StudentInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.student = types.StudentInfo{
		StudentID: strings.TrimSpace(info.StudentID),
		Name:      strings.TrimSpace(info.Name),
	}
}

// SetRecommendation replaces the free-text recommendation.
func (s *Session) SetRecommendation(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recommendation = text
}

// Search runs one catalog search and replaces the candidate pool with the
// recent results. A blank keyword does nothing. A search requested while one
// is outstanding returns ErrSearchInFlight and leaves the state alone.
//
// Catalog failures are not returned: they become the status message, which
// Status reports. The returned candidates are the new pool.
func (s *Session) Search(ctx context.Context, keyword string) ([]types.Candidate, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, nil
	}

	s.mu.Lock()
	if s.searching {
		s.mu.Unlock()
		return nil, ErrSearchInFlight
	}
	s.searching = true
	s.keyword = keyword
	s.status = ""
	s.candidates = nil
	s.mu.Unlock()

	candidates, err := catalog.Recent(ctx, s.searcher, keyword, s.now())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.searching = false
	s.candidates = candidates
	s.selected = make(map[string]bool)
	switch {
	case err == nil:
	case errors.Is(err, catalog.ErrNoResults):
		s.status = StatusNoResults
	case errors.Is(err, catalog.ErrNoRecentResults):
		s.status = StatusNoRecentResults
	default:
		s.logger.Debug("catalog search failed", "keyword", keyword, "error", err)
		s.status = StatusSearchFailed
	}
	return append([]types.Candidate(nil), candidates...), nil
}

// Toggle flips the selection state of a candidate and reports whether it is
// now selected. IDs that are not in the candidate pool are ignored.
func (s *Session) Toggle(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasCandidate(id) {
		return false
	}
	if s.selected[id] {
		delete(s.selected, id)
		return false
	}
	s.selected[id] = true
	return true
}

// AddSelected promotes the selected candidates into the list, then clears
// the selection, the candidate pool, and the keyword, even when nothing was
// selected. It returns the new records.
func (s *Session) AddSelected() []types.BookRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	added := s.list.AddFromCandidates(s.selected, s.candidates)
	s.selected = make(map[string]bool)
	s.candidates = nil
	s.keyword = ""
	return added
}

// AddManual appends a hand-entered record.
func (s *Session) AddManual(rec types.BookRecord) types.BookRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.ISBN = isbn.Clean(rec.ISBN)
	return s.list.Append(rec)
}

// Update edits one field of a record. Unknown IDs return selection.ErrNotFound
// and are logged at warn level; the list is unchanged.
func (s *Session) Update(id string, field selection.Field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.list.Update(id, field, value)
	if errors.Is(err, selection.ErrNotFound) {
		s.logger.Warn("update of unknown book record", "id", id, "field", field)
	}
	return err
}

// Remove deletes a record and renumbers the list.
func (s *Session) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.list.Remove(id)
	if errors.Is(err, selection.ErrNotFound) {
		s.logger.Warn("removal of unknown book record", "id", id)
	}
	return err
}

// BookByNo returns the record at 1-based list position no.
func (s *Session) BookByNo(no int) (types.BookRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list.ByNo(no)
}

// TotalPrice sums the prices in the list.
func (s *Session) TotalPrice() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list.TotalPrice()
}

// Status returns the last search status message, or "" after a successful search.
func (s *Session) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// InvalidISBNs returns the list numbers of records whose non-empty ISBN
// fails checksum validation. Such records still export.
func (s *Session) InvalidISBNs() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var bad []int
	for _, b := range s.list.Books() {
		if b.ISBN != "" && !isbn.Valid(b.ISBN) {
			bad = append(bad, b.No)
		}
	}
	return bad
}

// CanExport reports whether the layout's export precondition holds. The
// error wraps export.ErrPreconditionUnmet.
func (s *Session) CanExport(layout export.Layout) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return export.Ready(layout, s.student, s.list.Books())
}

// Export writes the spreadsheet for the current state to w and returns the
// suggested file name.
func (s *Session) Export(w io.Writer, layout export.Layout) (string, error) {
	s.mu.Lock()
	student := s.student
	books := s.list.Books()
	recommendation := s.recommendation
	now := s.now()
	s.mu.Unlock()

	total := selection.TotalPrice(books)
	if err := export.Write(w, layout, student, books, total, recommendation); err != nil {
		return "", err
	}
	return export.Filename(layout, student, now), nil
}

func (s *Session) hasCandidate(id string) bool {
	for _, c := range s.candidates {
		if c.ID == id {
			return true
		}
	}
	return false
}
