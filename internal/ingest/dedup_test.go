// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/refsys/pkg/types"
)

func item(title, family string, year int) *types.CSLItem {
	it := &types.CSLItem{Title: title}
	if family != "" {
		it.Author = []types.CSLName{{Family: family}}
	}
	if year != 0 {
		it.Issued = &types.CSLDate{DateParts: [][]int{{year}}}
	}
	return it
}

func TestDetectDuplicatesByDOI(t *testing.T) {
	items := []*types.CSLItem{
		{DOI: "10.1000/182", Title: "First copy"},
		{DOI: "10.9999/other", Title: "Unrelated"},
		{DOI: "10.1000/182", Title: "Second copy"},
		{DOI: "https://doi.org/10.1000/182", Title: "Third copy, URL form"},
	}

	groups := DetectDuplicates(items)
	require.Len(t, groups, 1)
	assert.Equal(t, []int{0, 2, 3}, groups[0].Indices)
}

func TestDetectDuplicatesDOICaseInsensitive(t *testing.T) {
	items := []*types.CSLItem{
		{DOI: "10.1037/0003-066X.39.2.124"},
		{DOI: "10.1037/0003-066x.39.2.124"},
	}
	groups := DetectDuplicates(items)
	require.Len(t, groups, 1)
	assert.Equal(t, []int{0, 1}, groups[0].Indices)
}

func TestDetectDuplicatesByMetadataSignature(t *testing.T) {
	items := []*types.CSLItem{
		item("Deep Learning Basics", "Lee", 2020),
		item("Something Else Entirely", "Park", 2019),
		item("Deep Learning Basics!", "Lee", 2020), // punctuation-only difference
	}

	groups := DetectDuplicates(items)
	require.Len(t, groups, 1)
	assert.Equal(t, []int{0, 2}, groups[0].Indices)
}

func TestDetectDuplicatesSignatureSkipsDOIRecords(t *testing.T) {
	// A record with a DOI never participates in signature matching, even
	// when its metadata matches a DOI-less record.
	withDOI := item("Deep Learning Basics", "Lee", 2020)
	withDOI.DOI = "10.1000/182"
	items := []*types.CSLItem{
		withDOI,
		item("Deep Learning Basics", "Lee", 2020),
	}
	assert.Empty(t, DetectDuplicates(items))
}

func TestDetectDuplicatesDifferentYearsDistinct(t *testing.T) {
	items := []*types.CSLItem{
		item("Deep Learning Basics", "Lee", 2020),
		item("Deep Learning Basics", "Lee", 2021),
	}
	assert.Empty(t, DetectDuplicates(items))
}

func TestDeduplicateFirstWins(t *testing.T) {
	items := []*types.CSLItem{
		{DOI: "10.1000/182", Title: "Survivor"},
		item("Standalone Work", "Kim", 2018),
		{DOI: "10.1000/182", Title: "Dropped"},
	}

	survivors, groups := Deduplicate(items)
	require.Len(t, survivors, 2)
	assert.Equal(t, "Survivor", survivors[0].Title)
	assert.Equal(t, "Standalone Work", survivors[1].Title)
	require.Len(t, groups, 1)
}

func TestDeduplicateNoDuplicates(t *testing.T) {
	items := []*types.CSLItem{
		{DOI: "10.1000/182"},
		{DOI: "10.9999/other"},
	}
	survivors, groups := Deduplicate(items)
	assert.Len(t, survivors, 2)
	assert.Empty(t, groups)
}

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Deep Learning Basics", "deep learning basics"},
		{"Deep   Learning:  Basics!", "deep learning basics"},
		{"", ""},
		{"---", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeTitle(tt.in))
	}
}
