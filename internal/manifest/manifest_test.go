// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/book-selection/pkg/types"
)

const sampleManifest = `student:
  student_id: S2026001
  name: 山田太郎
recommendation: |
  授業で紹介されたため。
books:
  - id: stale
    no: 7
    title: 機械学習入門
    authors: [山田, 佐藤]
    publisher: 技術評論社
    publication_year: 2026
    isbn: "9784065199812"
    price: 2800
  - title: Programming Go
    authors: [Pike]
    publisher: AW
    publication_year: 2025
    category: foreign
    isbn: 978-0-13-419044-0
    price: 4200
    url: https://example.com/go
`

func TestParse(t *testing.T) {
	m, err := Parse([]byte(sampleManifest))
	require.NoError(t, err)

	assert.Equal(t, types.StudentInfo{StudentID: "S2026001", Name: "山田太郎"}, m.Student)
	assert.Equal(t, "授業で紹介されたため。\n", m.Recommendation)
	require.Len(t, m.Books, 2)
	assert.Equal(t, "9784065199812", m.Books[0].ISBN)
	assert.Equal(t, types.CategoryForeign, m.Books[1].Category)
	assert.Equal(t, 4200, m.Books[1].Price)
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte("books: [unterminated"))
	assert.Error(t, err)
}

func TestList(t *testing.T) {
	m, err := Parse([]byte(sampleManifest))
	require.NoError(t, err)

	n := 0
	l := m.List(func() string { n++; return fmt.Sprintf("id-%d", n) })
	books := l.Books()
	require.Len(t, books, 2)

	assert.Equal(t, "id-1", books[0].ID)
	assert.Equal(t, 1, books[0].No)
	assert.Equal(t, types.CategoryDomestic, books[0].Category)
	assert.Equal(t, 2, books[1].No)
	assert.Equal(t, "9780134190440", books[1].ISBN)
	assert.Equal(t, 7000, l.TotalPrice())
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "selection.yaml")
	m := Manifest{
		Student: types.StudentInfo{StudentID: "S1", Name: "Hanako"},
		Books:   []types.BookRecord{{ID: "x", No: 1, Title: "T", Authors: []string{"A"}, Category: types.CategoryDomestic, Price: 100}},
	}
	require.NoError(t, Save(path, m))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "reading manifest")
}
