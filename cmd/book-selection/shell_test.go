// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/book-selection/internal/catalog"
	"github.com/pdiddy/book-selection/internal/export"
	"github.com/pdiddy/book-selection/internal/manifest"
	"github.com/pdiddy/book-selection/internal/session"
)

type stubSearcher struct {
	items []catalog.Volume
}

func (s *stubSearcher) Search(_ context.Context, _ string) ([]catalog.Volume, error) {
	return s.items, nil
}

func newTestShell(t *testing.T, items ...catalog.Volume) (*shell, *bytes.Buffer) {
	t.Helper()
	n := 0
	out := &bytes.Buffer{}
	sess := session.New(&stubSearcher{items: items},
		session.WithClock(func() time.Time { return time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC) }),
		session.WithIDGenerator(func() string { n++; return fmt.Sprintf("rec-%d", n) }),
	)
	return &shell{session: sess, layout: export.LayoutForm, outDir: t.TempDir(), out: out}, out
}

func runLines(t *testing.T, sh *shell, lines ...string) {
	t.Helper()
	require.NoError(t, sh.run(context.Background(), strings.NewReader(strings.Join(lines, "\n"))))
}

func TestShellSearchToggleAdd(t *testing.T) {
	sh, out := newTestShell(t,
		catalog.Volume{ID: "v1", VolumeInfo: catalog.VolumeInfo{Title: "Recent Book", PublishedDate: "2026-03-01"}},
		catalog.Volume{ID: "v2", VolumeInfo: catalog.VolumeInfo{Title: "Old Book", PublishedDate: "2001-03-01"}},
		catalog.Volume{ID: "v3", VolumeInfo: catalog.VolumeInfo{Title: "Undated Book"}},
	)

	runLines(t, sh, "search go", "toggle 2", "results", "add", "list")

	text := out.String()
	assert.Contains(t, text, "Recent Book")
	assert.NotContains(t, text, "Old Book")
	assert.Contains(t, text, "2 selected")
	assert.Contains(t, text, "* selected: 2")
	assert.Contains(t, text, "Added 1 book(s).")

	books := sh.session.Snapshot().Books
	require.Len(t, books, 1)
	assert.Equal(t, "Undated Book", books[0].Title)
	assert.Equal(t, 2026, books[0].PublicationYear)
}

func TestShellNoRecentResults(t *testing.T) {
	sh, out := newTestShell(t,
		catalog.Volume{ID: "v1", VolumeInfo: catalog.VolumeInfo{Title: "Old", PublishedDate: "2000"}},
	)
	runLines(t, sh, "search go")
	assert.Contains(t, out.String(), session.StatusNoRecentResults)
}

func TestShellManualSetRemove(t *testing.T) {
	sh, out := newTestShell(t)

	runLines(t, sh,
		"manual 手入力の本 | 著者A、著者B | 出版社 | 2025 | ９７８-０３０６４０６１５７ | 1500",
		"set 1 price -20",
		"set 1 category 洋書",
		"manual 二冊目",
		"remove 1",
		"set 9 title x",
		"total",
	)

	books := sh.session.Snapshot().Books
	require.Len(t, books, 1)
	assert.Equal(t, "二冊目", books[0].Title)
	assert.Equal(t, 1, books[0].No)
	assert.Contains(t, out.String(), "no list entry 9")
	assert.Contains(t, out.String(), "Total: 0 yen")
}

func TestShellManualFields(t *testing.T) {
	sh, _ := newTestShell(t)
	runLines(t, sh, "manual 本 | 著者A、著者B | 出版社 | 2025 | ９７８-０３０６４０６１５７ | 1500")

	books := sh.session.Snapshot().Books
	require.Len(t, books, 1)
	b := books[0]
	assert.Equal(t, []string{"著者A", "著者B"}, b.Authors)
	assert.Equal(t, "出版社", b.Publisher)
	assert.Equal(t, 2025, b.PublicationYear)
	assert.Equal(t, "9780306406157", b.ISBN)
	assert.Equal(t, 1500, b.Price)
}

func TestShellExportNeedsStudent(t *testing.T) {
	sh, out := newTestShell(t)
	runLines(t, sh, "manual 本 | | | | | 500", "export")
	assert.Contains(t, out.String(), "error:")

	entries, err := os.ReadDir(sh.outDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestShellExportAndSave(t *testing.T) {
	sh, out := newTestShell(t)
	manifestPath := filepath.Join(t.TempDir(), "selection.yaml")

	runLines(t, sh,
		"student S001 山田 太郎",
		"manual 本 | | | | | 500",
		"recommend 授業で使います",
		"export",
		"save "+manifestPath,
	)

	assert.FileExists(t, filepath.Join(sh.outDir, "図書選定リスト_S001_2026-10-16.xlsx"))
	assert.Contains(t, out.String(), "Saved 1 book(s)")

	m, err := manifest.Load(manifestPath)
	require.NoError(t, err)
	assert.Equal(t, "山田 太郎", m.Student.Name)
	assert.Equal(t, "授業で使います", m.Recommendation)
	require.Len(t, m.Books, 1)
	assert.Equal(t, 500, m.Books[0].Price)
}

func TestShellBlankSearchIsIgnored(t *testing.T) {
	sh, out := newTestShell(t)
	runLines(t, sh, "search", "search    ")
	assert.NotContains(t, out.String(), "error:")
	assert.Empty(t, sh.session.Snapshot().Keyword)
}

func TestShellUnknownCommandAndQuit(t *testing.T) {
	sh, out := newTestShell(t)
	runLines(t, sh, "frobnicate", "quit", "manual never")
	assert.Contains(t, out.String(), `unknown command "frobnicate"`)
	assert.Empty(t, sh.session.Snapshot().Books)
}
