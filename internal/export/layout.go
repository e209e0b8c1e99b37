// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"strings"
)

// ColumnKey identifies the BookRecord value printed in a column.
type ColumnKey string

const (
	ColNo            ColumnKey = "no"
	ColTitle         ColumnKey = "title"
	ColSeriesName    ColumnKey = "series_name"
	ColVolume        ColumnKey = "volume"
	ColEdition       ColumnKey = "edition"
	ColAuthors       ColumnKey = "authors"
	ColPublisher     ColumnKey = "publisher"
	ColYear          ColumnKey = "publication_year"
	ColPublishedDate ColumnKey = "published_date"
	ColISBN          ColumnKey = "isbn"
	ColCategory      ColumnKey = "category"
	ColPrice         ColumnKey = "price"
	ColURL           ColumnKey = "url"
)

// Column is one table column: which value it holds and its header label.
type Column struct {
	Key   ColumnKey
	Label string
}

// FileKey selects which student field goes into the file name.
type FileKey int

const (
	FileKeyStudentID FileKey = iota
	FileKeyName
)

// TrailerStyle selects how the total (and student metadata) follow the table.
type TrailerStyle int

const (
	// TrailerInline puts the total label in the column before the price column
	// and the total under the price column, directly below the last book.
	TrailerInline TrailerStyle = iota

	// TrailerSummary appends a blank row, then labeled student rows, the
	// recommendation, and the total.
	TrailerSummary
)

// Layout describes one spreadsheet schema. The two presets, LayoutForm and
// LayoutSimple, cover the submission form and the compact list.
type Layout struct {
	Name       string
	SheetName  string
	FilePrefix string
	FileKey    FileKey

	// Title is printed in A1; with StudentHeader the student ID and name
	// occupy the last two columns of the first two rows.
	Title         string
	StudentHeader bool

	// InstructionsHeading and Instructions are printed above the table.
	InstructionsHeading string
	Instructions        []string

	Columns []Column

	Trailer    TrailerStyle
	TotalLabel string

	StudentIDLabel string
	NameLabel      string

	RecommendationLabel string
	RecommendationNote  string

	AuthorDelimiter string

	// RequireStudent blocks export until both student fields are filled in.
	RequireStudent bool
}

// LayoutForm is the library's submission form: student block in the top
// right, instructions, twelve columns, inline total, and an optional
// recommendation block.
var LayoutForm = Layout{
	Name:                "form",
	SheetName:           "選定リスト",
	FilePrefix:          "図書選定リスト",
	FileKey:             FileKeyStudentID,
	Title:               "選定リスト",
	StudentHeader:       true,
	InstructionsHeading: "【選定方法・記入時の注意点について】",
	Instructions: []string{
		"★ 学術情報センターに所蔵がない資料を選定してください。",
		"★ １冊から受け付けます。複数回提出していただいても構いません。",
		"★ 行数が足りない場合は、適宜、追加してください。",
		"★ 図書の情報は、「図書のタイトル」「著者名」「出版者」「刊行年」「ISBN」等の必要事項を入力してください。",
		"★ 参考にしたWebページがあれば、URLも併せて記入してください。",
		"★ お申込みいただいた資料の内容や出版状況等により、購入できない場合もあります。",
	},
	Columns: []Column{
		{ColNo, "No"},
		{ColTitle, "書名・タイトル"},
		{ColSeriesName, "シリーズ名"},
		{ColVolume, "巻"},
		{ColEdition, "版"},
		{ColAuthors, "著者名"},
		{ColPublisher, "出版者"},
		{ColYear, "刊行年"},
		{ColISBN, "ISBN\nハイフン不要"},
		{ColCategory, "和書・洋書の別"},
		{ColPrice, "価格(税抜)"},
		{ColURL, "URL"},
	},
	Trailer:             TrailerInline,
	TotalLabel:          "価格合計",
	StudentIDLabel:      "学籍番号",
	NameLabel:           "氏名",
	RecommendationLabel: "お薦めの理由（任意）",
	RecommendationNote:  "（後日展示等に掲載する場合があります）",
	AuthorDelimiter:     ", ",
	RequireStudent:      true,
}

// LayoutSimple is the compact list: seven columns followed by a summary of
// the student, the recommendation, and the total.
var LayoutSimple = Layout{
	Name:       "simple",
	SheetName:  "図書選定リスト",
	FilePrefix: "図書選定リスト",
	FileKey:    FileKeyName,
	Columns: []Column{
		{ColNo, "No."},
		{ColTitle, "タイトル"},
		{ColAuthors, "著者"},
		{ColPublisher, "出版社"},
		{ColPublishedDate, "発売日"},
		{ColISBN, "ISBN"},
		{ColPrice, "価格"},
	},
	Trailer:             TrailerSummary,
	TotalLabel:          "合計金額",
	StudentIDLabel:      "学籍番号",
	NameLabel:           "氏名",
	RecommendationLabel: "推薦理由",
	AuthorDelimiter:     ", ",
}

// Layouts lists the presets by name.
var Layouts = map[string]Layout{
	LayoutForm.Name:   LayoutForm,
	LayoutSimple.Name: LayoutSimple,
}

// LayoutByName returns the preset with the given name.
func LayoutByName(name string) (Layout, error) {
	l, ok := Layouts[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Layout{}, fmt.Errorf("unknown layout %q: use form or simple", name)
	}
	return l, nil
}

// WithDeadline returns a copy of l whose instructions end with a submission
// deadline line. An empty deadline, or a layout without instructions, returns
// l unchanged so its header stays on the first row.
func (l Layout) WithDeadline(deadline string) Layout {
	if deadline == "" || len(l.Instructions) == 0 {
		return l
	}
	instr := make([]string, 0, len(l.Instructions)+1)
	instr = append(instr, l.Instructions...)
	l.Instructions = append(instr, "★ 受付期限は"+deadline+"です。")
	return l
}

func (l Layout) columnIndex(key ColumnKey) int {
	for i, c := range l.Columns {
		if c.Key == key {
			return i
		}
	}
	return -1
}
