// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/book-selection/internal/catalog"
	"github.com/pdiddy/book-selection/internal/export"
	"github.com/pdiddy/book-selection/internal/session"
	"github.com/pdiddy/book-selection/pkg/types"
)

var testNow = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

type stubSearcher struct {
	items []catalog.Volume
	err   error
}

func (s *stubSearcher) Search(_ context.Context, _ string) ([]catalog.Volume, error) {
	return s.items, s.err
}

func volume(id, date string) catalog.Volume {
	return catalog.Volume{ID: id, VolumeInfo: catalog.VolumeInfo{
		Title:         "Book " + id,
		Authors:       []string{"Author " + id},
		Publisher:     "Pub",
		PublishedDate: date,
		IndustryIdentifiers: []catalog.IndustryIdentifier{
			{Type: "ISBN_13", Identifier: "9780306406157"},
		},
	}}
}

func newTestRouter(t *testing.T, s catalog.Searcher) (*gin.Engine, *session.Session) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	n := 0
	sess := session.New(s,
		session.WithClock(func() time.Time { return testNow }),
		session.WithIDGenerator(func() string { n++; return fmt.Sprintf("rec-%d", n) }),
		session.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	srv := New(sess, export.LayoutForm, "", slog.New(slog.NewTextHandler(io.Discard, nil)))
	return srv.Router([]string{"http://localhost:5173"}), sess
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t, &stubSearcher{})
	rec := do(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestSearchAndAddFlow(t *testing.T) {
	r, sess := newTestRouter(t, &stubSearcher{items: []catalog.Volume{
		volume("a", "2026-05-01"),
		volume("old", "2020-01-01"),
		volume("b", "2026-09"),
	}})

	rec := do(r, http.MethodPost, "/api/search", `{"keyword":"golang"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var searched struct {
		Candidates []types.Candidate `json:"candidates"`
		Status     string            `json:"status"`
	}
	decode(t, rec, &searched)
	require.Len(t, searched.Candidates, 2)
	assert.Empty(t, searched.Status)

	rec = do(r, http.MethodPost, "/api/selection/toggle", `{"id":"b"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"b","selected":true}`, rec.Body.String())

	rec = do(r, http.MethodPost, "/api/books", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	var added struct {
		Added []types.BookRecord `json:"added"`
	}
	decode(t, rec, &added)
	require.Len(t, added.Added, 1)
	assert.Equal(t, "Book b", added.Added[0].Title)
	assert.Equal(t, 1, added.Added[0].No)
	assert.Equal(t, 2026, added.Added[0].PublicationYear)

	snap := sess.Snapshot()
	assert.Empty(t, snap.Candidates)
	assert.Empty(t, snap.Keyword)
}

func TestSearchFailureReportsStatus(t *testing.T) {
	r, _ := newTestRouter(t, &stubSearcher{err: &catalog.SearchError{Err: fmt.Errorf("boom")}})
	rec := do(r, http.MethodPost, "/api/search", `{"keyword":"x"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Candidates []types.Candidate `json:"candidates"`
		Status     string            `json:"status"`
	}
	decode(t, rec, &body)
	assert.Empty(t, body.Candidates)
	assert.Equal(t, session.StatusSearchFailed, body.Status)
}

func TestToggleRequiresID(t *testing.T) {
	r, _ := newTestRouter(t, &stubSearcher{})
	rec := do(r, http.MethodPost, "/api/selection/toggle", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestManualUpdateRemove(t *testing.T) {
	r, _ := newTestRouter(t, &stubSearcher{})

	rec := do(r, http.MethodPost, "/api/books/manual", `{"title":"手入力の本","price":1200,"category":"洋書"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var book types.BookRecord
	decode(t, rec, &book)
	assert.Equal(t, "rec-1", book.ID)
	assert.Equal(t, types.CategoryForeign, book.Category)

	rec = do(r, http.MethodPatch, "/api/books/rec-1", `{"field":"price","value":"-50"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &book)
	assert.Equal(t, 0, book.Price)

	rec = do(r, http.MethodPatch, "/api/books/rec-1", `{"field":"isbn","value":"978-0-306-40615-7"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &book)
	assert.Equal(t, "9780306406157", book.ISBN)

	rec = do(r, http.MethodPatch, "/api/books/rec-1", `{"field":"nope","value":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(r, http.MethodPatch, "/api/books/missing", `{"field":"title","value":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(r, http.MethodGet, "/api/books", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Books        []types.BookRecord `json:"books"`
		TotalPrice   int                `json:"total_price"`
		InvalidISBNs []int              `json:"invalid_isbns"`
	}
	decode(t, rec, &list)
	assert.Len(t, list.Books, 1)
	assert.Equal(t, 0, list.TotalPrice)
	assert.Empty(t, list.InvalidISBNs)

	rec = do(r, http.MethodDelete, "/api/books/rec-1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(r, http.MethodDelete, "/api/books/rec-1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestManualRejectsUnknownCategory(t *testing.T) {
	r, _ := newTestRouter(t, &stubSearcher{})
	rec := do(r, http.MethodPost, "/api/books/manual", `{"title":"x","category":"magazine"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportPreconditions(t *testing.T) {
	r, _ := newTestRouter(t, &stubSearcher{})

	rec := do(r, http.MethodGet, "/api/export", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(r, http.MethodPost, "/api/books/manual", `{"title":"本","price":500}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(r, http.MethodGet, "/api/export", "")
	assert.Equal(t, http.StatusConflict, rec.Code, "form layout needs student details")

	rec = do(r, http.MethodGet, "/api/export?layout=bogus", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportForm(t *testing.T) {
	r, _ := newTestRouter(t, &stubSearcher{})

	rec := do(r, http.MethodPut, "/api/student", `{"student_id":" S123 ","name":"山田 太郎"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"student_id":"S123","name":"山田 太郎"}`, rec.Body.String())

	rec = do(r, http.MethodPost, "/api/books/manual", `{"title":"本","price":500}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(r, http.MethodGet, "/api/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	disposition := rec.Header().Get("Content-Disposition")
	assert.Contains(t, disposition, "attachment")
	assert.Contains(t, disposition, "S123_2026-10-16.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(export.LayoutForm.SheetName)
	require.NoError(t, err)
	assert.NotEmpty(t, rows)
}

func TestExportSimpleWithoutStudent(t *testing.T) {
	r, _ := newTestRouter(t, &stubSearcher{})

	rec := do(r, http.MethodPut, "/api/recommendation", `{"text":"授業で使うため"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(r, http.MethodPost, "/api/books/manual", `{"title":"本","price":500}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(r, http.MethodGet, "/api/export?layout=simple", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "filename*=UTF-8''")
}

func TestStatusSnapshot(t *testing.T) {
	r, _ := newTestRouter(t, &stubSearcher{})
	do(r, http.MethodPut, "/api/student", `{"student_id":"S1","name":"A"}`)

	rec := do(r, http.MethodGet, "/api/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var snap session.Snapshot
	decode(t, rec, &snap)
	assert.Equal(t, "S1", snap.Student.StudentID)
	assert.False(t, snap.Searching)
}

func TestCORSPreflight(t *testing.T) {
	r, _ := newTestRouter(t, &stubSearcher{})
	req := httptest.NewRequest(http.MethodOptions, "/api/books", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}
