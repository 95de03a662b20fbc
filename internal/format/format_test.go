// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package format

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/refsys/pkg/types"
)

func lazarus() *types.CSLItem {
	return &types.CSLItem{
		ID:             "lazarus1984",
		Type:           "article-journal",
		Title:          "On the relationship between emotion and cognition",
		Author:         []types.CSLName{{Family: "Lazarus", Given: "Richard S."}},
		Issued:         &types.CSLDate{DateParts: [][]int{{1984}}},
		ContainerTitle: "American Psychologist",
		Volume:         "39",
		Issue:          "2",
		Page:           "124-129",
		DOI:            "10.1037/0003-066X.39.2.124",
	}
}

func TestParseStyle(t *testing.T) {
	got, err := ParseStyle("APA")
	require.NoError(t, err)
	assert.Equal(t, StyleAPA, got)

	got, err = ParseStyle("ieee")
	require.NoError(t, err)
	assert.Equal(t, StyleIEEE, got)

	_, err = ParseStyle("chicago")
	assert.Error(t, err)
}

func TestFormatAuthorsAPA(t *testing.T) {
	tests := []struct {
		name    string
		authors []types.CSLName
		want    string
	}{
		{
			name:    "single author with initials",
			authors: []types.CSLName{{Family: "Lazarus", Given: "Richard S."}},
			want:    "Lazarus, R.S.",
		},
		{
			name: "two authors joined with ampersand",
			authors: []types.CSLName{
				{Family: "Kahneman", Given: "Daniel"},
				{Family: "Tversky", Given: "Amos"},
			},
			want: "Kahneman, D., & Tversky, A.",
		},
		{
			name: "three authors comma list with ampersand",
			authors: []types.CSLName{
				{Family: "Aaa", Given: "A"},
				{Family: "Bbb", Given: "B"},
				{Family: "Ccc", Given: "C"},
			},
			want: "Aaa, A., Bbb, B., & Ccc, C.",
		},
		{
			name:    "institutional author uses literal",
			authors: []types.CSLName{{Literal: "World Health Organization"}},
			want:    "World Health Organization",
		},
		{
			name:    "family only",
			authors: []types.CSLName{{Family: "Plato"}},
			want:    "Plato",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAuthors(StyleAPA, tt.authors))
		})
	}
}

func TestFormatAuthorsAPAElision(t *testing.T) {
	authors := make([]types.CSLName, 25)
	for i := range authors {
		authors[i] = types.CSLName{Family: "Author" + string(rune('A'+i)), Given: "X"}
	}
	got := FormatAuthors(StyleAPA, authors)
	assert.Contains(t, got, "... AuthorY, X.", "last author follows the ellipsis")
	assert.NotContains(t, got, "AuthorV", "authors past 20 are elided")
}

func TestFormatAuthorsIEEE(t *testing.T) {
	got := FormatAuthors(StyleIEEE, []types.CSLName{{Family: "Lazarus", Given: "Richard S."}})
	assert.Equal(t, "R. S. Lazarus", got)

	many := make([]types.CSLName, 8)
	for i := range many {
		many[i] = types.CSLName{Family: "F" + string(rune('a'+i)), Given: "G"}
	}
	got = FormatAuthors(StyleIEEE, many)
	assert.True(t, strings.HasSuffix(got, "et al."))
	assert.NotContains(t, got, "Fg")
}

func TestReferenceAPA(t *testing.T) {
	got := Reference(StyleAPA, lazarus())
	want := "Lazarus, R.S.. (1984). On the relationship between emotion and cognition. " +
		"*American Psychologist*, *39*(2), 124-129. https://doi.org/10.1037/0003-066X.39.2.124."
	assert.Equal(t, want, got)
}

func TestReferenceAPAUndated(t *testing.T) {
	item := &types.CSLItem{
		Type:   "webpage",
		Title:  "Some page",
		Author: []types.CSLName{{Family: "Doe", Given: "Jane"}},
		URL:    "https://example.org/page",
	}
	got := Reference(StyleAPA, item)
	assert.Contains(t, got, "(n.d.)")
	assert.Contains(t, got, "https://example.org/page")
}

func TestReferenceAPABookItalicizesTitle(t *testing.T) {
	item := &types.CSLItem{
		Type:   "book",
		Title:  "Thinking, Fast and Slow",
		Author: []types.CSLName{{Family: "Kahneman", Given: "Daniel"}},
		Issued: &types.CSLDate{DateParts: [][]int{{2011}}},
	}
	assert.Contains(t, Reference(StyleAPA, item), "*Thinking, Fast and Slow*")
}

func TestReferenceIEEE(t *testing.T) {
	got := Reference(StyleIEEE, lazarus())
	want := `R. S. Lazarus, "On the relationship between emotion and cognition," ` +
		"*American Psychologist*, vol. 39, no. 2, pp. 124-129, 1984. doi: 10.1037/0003-066X.39.2.124"
	assert.Equal(t, want, got)
}

func TestReferenceIEEEURLOnly(t *testing.T) {
	item := &types.CSLItem{
		Type:  "webpage",
		Title: "Docs",
		URL:   "https://example.org/docs",
	}
	assert.Contains(t, Reference(StyleIEEE, item), "[Online]. Available: https://example.org/docs")
}

func TestBibliographyAPASorted(t *testing.T) {
	items := []*types.CSLItem{
		{Type: "article-journal", Title: "Zeta", Author: []types.CSLName{{Family: "Zimmer", Given: "Z"}}, Issued: &types.CSLDate{DateParts: [][]int{{2001}}}},
		{Type: "article-journal", Title: "Alpha", Author: []types.CSLName{{Family: "Abel", Given: "A"}}, Issued: &types.CSLDate{DateParts: [][]int{{2005}}}},
		{Type: "article-journal", Title: "Earlier Abel", Author: []types.CSLName{{Family: "Abel", Given: "A"}}, Issued: &types.CSLDate{DateParts: [][]int{{1999}}}},
	}

	out := Bibliography(StyleAPA, items)
	lines := strings.Split(out, "\n\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Earlier Abel")
	assert.Contains(t, lines[1], "Alpha")
	assert.Contains(t, lines[2], "Zeta")

	// The caller's slice must not be reordered.
	assert.Equal(t, "Zeta", items[0].Title)
}

func TestBibliographyIEEENumbered(t *testing.T) {
	items := []*types.CSLItem{
		{Type: "article-journal", Title: "First cited", Author: []types.CSLName{{Family: "Zimmer", Given: "Z"}}},
		{Type: "article-journal", Title: "Second cited", Author: []types.CSLName{{Family: "Abel", Given: "A"}}},
	}

	out := Bibliography(StyleIEEE, items)
	lines := strings.Split(out, "\n\n")
	require.Len(t, lines, 2)

	// IEEE keeps citation order, not alphabetical order.
	assert.True(t, strings.HasPrefix(lines[0], "[1] "))
	assert.Contains(t, lines[0], "First cited")
	assert.True(t, strings.HasPrefix(lines[1], "[2] "))
}

func TestCiteAPA(t *testing.T) {
	tests := []struct {
		name string
		item *types.CSLItem
		page string
		want string
	}{
		{name: "single author with page", item: lazarus(), page: "125", want: "(Lazarus, 1984, p. 125)"},
		{name: "single author", item: lazarus(), want: "(Lazarus, 1984)"},
		{
			name: "two authors",
			item: &types.CSLItem{
				Author: []types.CSLName{{Family: "Kahneman"}, {Family: "Tversky"}},
				Issued: &types.CSLDate{DateParts: [][]int{{1979}}},
			},
			want: "(Kahneman & Tversky, 1979)",
		},
		{
			name: "three or more authors",
			item: &types.CSLItem{
				Author: []types.CSLName{{Family: "Aaa"}, {Family: "Bbb"}, {Family: "Ccc"}},
				Issued: &types.CSLDate{DateParts: [][]int{{2020}}},
			},
			want: "(Aaa et al., 2020)",
		},
		{
			name: "no author no date",
			item: &types.CSLItem{Title: "Anon"},
			want: "(Unknown, n.d.)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CiteAPA(tt.item, tt.page))
		})
	}
}

func TestCiteIEEE(t *testing.T) {
	assert.Equal(t, "[3]", CiteIEEE(3))
	assert.Equal(t, "[?]", CiteIEEE(0))
}

func TestExportBibTeX(t *testing.T) {
	out := ExportBibTeX([]*types.CSLItem{lazarus()})

	assert.True(t, strings.HasPrefix(out, "@article{lazarus1984,"))
	assert.Contains(t, out, "  author = {Lazarus, Richard S.}")
	assert.Contains(t, out, "  title = {On the relationship between emotion and cognition}")
	assert.Contains(t, out, "  journal = {American Psychologist}")
	assert.Contains(t, out, "  year = {1984}")
	assert.Contains(t, out, "  volume = {39}")
	assert.Contains(t, out, "  number = {2}")
	assert.Contains(t, out, "  pages = {124-129}")
	assert.Contains(t, out, "  doi = {10.1037/0003-066X.39.2.124}")
	assert.True(t, strings.HasSuffix(out, "}"))
}

func TestExportBibTeXTypeMapping(t *testing.T) {
	tests := []struct {
		cslType string
		want    string
	}{
		{"article-journal", "@article"},
		{"paper-conference", "@inproceedings"},
		{"book", "@book"},
		{"report", "@techreport"},
		{"thesis", "@phdthesis"},
		{"webpage", "@misc"},
		{"", "@misc"},
	}
	for _, tt := range tests {
		out := ExportBibTeX([]*types.CSLItem{{ID: "x", Type: tt.cslType, Title: "T"}})
		assert.True(t, strings.HasPrefix(out, tt.want+"{"), "type %q: got %s", tt.cslType, out)
	}
}

func TestExportBibTeXMultipleEntries(t *testing.T) {
	items := []*types.CSLItem{
		lazarus(),
		{ID: "misc1", Type: "webpage", Title: "Docs", URL: "https://example.org"},
	}
	out := ExportBibTeX(items)
	assert.Equal(t, 2, strings.Count(out, "@"))
	assert.Contains(t, out, "\n\n@misc{misc1,")
}
