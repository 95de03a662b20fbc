// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/refsys/pkg/types"
)

func TestWorkIDDOIStable(t *testing.T) {
	a := &types.CSLItem{DOI: "10.1037/0003-066X.39.2.124", Title: "One title"}
	b := &types.CSLItem{DOI: "10.1037/0003-066x.39.2.124", Title: "A completely different title"}

	// DOI case must not change the identity, and metadata must not
	// participate when a DOI is present.
	assert.Equal(t, WorkID(a), WorkID(b))
	assert.True(t, strings.HasPrefix(WorkID(a), "doi_"))
	assert.Len(t, WorkID(a), len("doi_")+12)
}

func TestWorkIDDOIURLFormsAgree(t *testing.T) {
	bare := &types.CSLItem{DOI: "10.1000/182"}
	url := &types.CSLItem{DOI: "https://doi.org/10.1000/182"}
	assert.Equal(t, WorkID(bare), WorkID(url))
}

func TestWorkIDMetadataFallback(t *testing.T) {
	item := &types.CSLItem{
		Title:  "Deep Learning Basics",
		Author: []types.CSLName{{Family: "Lee", Given: "Kyung"}},
		Issued: &types.CSLDate{DateParts: [][]int{{2020}}},
	}
	id := WorkID(item)
	assert.True(t, strings.HasPrefix(id, "work_"))

	// Same metadata, different capitalization: same identity.
	upper := &types.CSLItem{
		Title:  "DEEP LEARNING BASICS",
		Author: []types.CSLName{{Family: "LEE", Given: "Kyung"}},
		Issued: &types.CSLDate{DateParts: [][]int{{2020}}},
	}
	assert.Equal(t, id, WorkID(upper))

	// A different year is a different work.
	later := &types.CSLItem{
		Title:  "Deep Learning Basics",
		Author: []types.CSLName{{Family: "Lee", Given: "Kyung"}},
		Issued: &types.CSLDate{DateParts: [][]int{{2021}}},
	}
	assert.NotEqual(t, id, WorkID(later))
}

func TestWorkIDEmptyRecordGetsRandomIdentity(t *testing.T) {
	a := WorkID(&types.CSLItem{})
	b := WorkID(&types.CSLItem{})
	assert.True(t, strings.HasPrefix(a, "work_"))
	assert.NotEqual(t, a, b)
}

func TestCanonicalize(t *testing.T) {
	item := &types.CSLItem{
		DOI:      "https://doi.org/10.1000/182",
		ArxivID:  "arXiv:2301.00001",
		PubMedID: "PMID:12345678",
		ISBN:     "978-0-306-40615-7",
	}
	ids := Canonicalize(item)
	require.Equal(t, "10.1000/182", ids.DOI)
	assert.Equal(t, "2301.00001", ids.ArxivID)
	assert.Equal(t, "12345678", ids.PubMedID)
	assert.Equal(t, "9780306406157", ids.ISBN)
}

func TestCanonicalizeClearsInvalid(t *testing.T) {
	ids := Canonicalize(&types.CSLItem{
		DOI:      "not-a-doi",
		ArxivID:  "not-an-id",
		PubMedID: "PMC123",
		ISBN:     "12345",
	})
	assert.Equal(t, CanonicalIdentifiers{}, ids)
}
