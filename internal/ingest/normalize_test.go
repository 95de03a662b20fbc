// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDOI(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "bare DOI passes through", in: "10.1037/0003-066X.39.2.124", want: "10.1037/0003-066X.39.2.124"},
		{name: "strips https doi.org prefix", in: "https://doi.org/10.1037/0003-066X.39.2.124", want: "10.1037/0003-066X.39.2.124"},
		{name: "strips http dx.doi.org prefix", in: "http://dx.doi.org/10.1000/182", want: "10.1000/182"},
		{name: "trims surrounding whitespace", in: "  10.1000/182  ", want: "10.1000/182"},
		{name: "nested slashes allowed", in: "10.1093/ref:odnb/12345", want: "10.1093/ref:odnb/12345"},
		{name: "missing prefix digits rejected", in: "10.12/abc", want: ""},
		{name: "not a DOI", in: "not-a-doi", want: ""},
		{name: "empty", in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDOI(tt.in))
		})
	}
}

func TestNormalizeDOIIdempotent(t *testing.T) {
	once := NormalizeDOI("https://doi.org/10.1037/0003-066X.39.2.124")
	assert.Equal(t, once, NormalizeDOI(once))
}

func TestNormalizeArxiv(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "modern form", in: "2301.00001", want: "2301.00001"},
		{name: "modern form with version", in: "2301.00001v2", want: "2301.00001v2"},
		{name: "strips arXiv prefix", in: "arXiv:2301.00001v2", want: "2301.00001v2"},
		{name: "prefix with space", in: "arXiv: 2301.00001", want: "2301.00001"},
		{name: "legacy archive form", in: "hep-th/9901001", want: "hep-th/9901001"},
		{name: "four digit suffix", in: "1234.5678", want: "1234.5678"},
		{name: "rejects junk", in: "not-an-id", want: ""},
		{name: "rejects short suffix", in: "2301.001", want: ""},
		{name: "empty", in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeArxiv(tt.in))
		})
	}
}

func TestNormalizePubMed(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "bare digits", in: "12345678", want: "12345678"},
		{name: "strips PMID prefix", in: "PMID:12345678", want: "12345678"},
		{name: "prefix with space", in: "pmid: 42", want: "42"},
		{name: "rejects non-digits", in: "PMC1234567", want: ""},
		{name: "empty", in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePubMed(tt.in))
		})
	}
}

func TestNormalizeISBN(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "isbn-13 with hyphens", in: "978-0-306-40615-7", want: "9780306406157"},
		{name: "isbn-10", in: "0306406152", want: "0306406152"},
		{name: "isbn-10 with X check digit", in: "097522980x", want: "097522980X"},
		{name: "spaces as separators", in: "978 0 306 40615 7", want: "9780306406157"},
		{name: "wrong length rejected", in: "12345", want: ""},
		{name: "letters rejected", in: "97803064061ab", want: ""},
		{name: "empty", in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeISBN(tt.in))
		})
	}
}
