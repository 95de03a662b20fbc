// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/pdiddy/refsys/pkg/types"
)

// DuplicateGroup maps a signature to the record positions sharing it,
// in input order. The first index is the designated survivor. Groups
// are built once per ingestion batch and discarded after use.
type DuplicateGroup struct {
	Signature string
	Indices   []int
}

// DetectDuplicates finds duplicate records in two passes: first by
// exact normalized DOI (case-insensitive), then, over DOI-less records
// only, by a signature of normalized title, first author family, and
// year. Only groups with two or more members are returned. Tie-break is
// strictly input order; there is no quality-based selection.
func DetectDuplicates(items []*types.CSLItem) []DuplicateGroup {
	var groups []DuplicateGroup
	order := make(map[string]int) // signature → index into groups
	first := make(map[string]int) // signature → first record index

	add := func(sig string, idx int) {
		if gi, ok := order[sig]; ok {
			groups[gi].Indices = append(groups[gi].Indices, idx)
			return
		}
		if fi, ok := first[sig]; ok {
			order[sig] = len(groups)
			groups = append(groups, DuplicateGroup{Signature: sig, Indices: []int{fi, idx}})
			return
		}
		first[sig] = idx
	}

	for idx, item := range items {
		if doi := NormalizeDOI(item.DOI); doi != "" {
			add("doi_"+strings.ToLower(doi), idx)
		}
	}

	for idx, item := range items {
		if NormalizeDOI(item.DOI) != "" {
			continue
		}
		if sig := signature(item); sig != "" {
			add("sig_"+sig, idx)
		}
	}

	return groups
}

// Deduplicate removes all non-survivor records, preserving the input
// order among survivors, and returns the duplicate groups it acted on.
func Deduplicate(items []*types.CSLItem) ([]*types.CSLItem, []DuplicateGroup) {
	groups := DetectDuplicates(items)

	remove := make(map[int]bool)
	for _, g := range groups {
		for _, idx := range g.Indices[1:] {
			remove[idx] = true
		}
	}

	survivors := make([]*types.CSLItem, 0, len(items)-len(remove))
	for idx, item := range items {
		if !remove[idx] {
			survivors = append(survivors, item)
		}
	}
	return survivors, groups
}

// signature hashes (punctuation-stripped lowercased title, lowercased
// first author family, year) for DOI-less duplicate detection. Returns
// "" when the record has none of those parts.
func signature(item *types.CSLItem) string {
	var parts []string
	if t := normalizeTitle(item.Title); t != "" {
		parts = append(parts, t)
	}
	if family := item.FirstAuthorFamily(); family != "" {
		parts = append(parts, strings.ToLower(family))
	}
	if year := item.Year(); year != 0 {
		parts = append(parts, strconv.Itoa(year))
	}
	if len(parts) == 0 {
		return ""
	}
	return shortHash(strings.Join(parts, "_"))
}

// normalizeTitle lowercases the title, strips punctuation, and
// collapses whitespace.
func normalizeTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
