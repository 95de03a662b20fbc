// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest parses bibliographic records, normalizes their
// identifiers, derives stable work identities, and removes duplicates
// within a batch.
package ingest

import (
	"regexp"
	"strings"
)

// Identifier grammars. Normalizers return "" for anything that does not
// match; callers treat an empty identifier as "do not attempt this
// check kind", never as an error.
var (
	doiURLPrefix = regexp.MustCompile(`(?i)^https?://(dx\.)?doi\.org/`)
	doiPattern   = regexp.MustCompile(`(?i)^10\.\d{4,9}/[-._;()/:A-Za-z0-9]+$`)

	arxivPrefix     = regexp.MustCompile(`(?i)^arxiv:\s*`)
	arxivNewPattern = regexp.MustCompile(`^\d{4}\.\d{4,5}(v\d+)?$`)
	arxivOldPattern = regexp.MustCompile(`(?i)^[a-z-]+/\d{7}$`)

	pubmedPrefix  = regexp.MustCompile(`(?i)^pmid:\s*`)
	pubmedPattern = regexp.MustCompile(`^\d+$`)

	isbnSeparators = regexp.MustCompile(`[-\s]`)
	isbn10Pattern  = regexp.MustCompile(`(?i)^\d{9}[\dX]$`)
	isbn13Pattern  = regexp.MustCompile(`^\d{13}$`)
)

// NormalizeDOI strips a doi.org URL prefix and validates the DOI
// grammar (10.NNNN/suffix). Returns "" for invalid input.
func NormalizeDOI(doi string) string {
	doi = doiURLPrefix.ReplaceAllString(doi, "")
	doi = strings.TrimSpace(doi)
	if doiPattern.MatchString(doi) {
		return doi
	}
	return ""
}

// NormalizeArxiv strips an "arXiv:" prefix and accepts either the
// modern form (YYMM.NNNNN with optional version) or the legacy
// archive/YYMMNNN form. Returns "" for invalid input.
func NormalizeArxiv(arxivID string) string {
	arxivID = arxivPrefix.ReplaceAllString(arxivID, "")
	arxivID = strings.TrimSpace(arxivID)
	if arxivNewPattern.MatchString(arxivID) || arxivOldPattern.MatchString(arxivID) {
		return arxivID
	}
	return ""
}

// NormalizePubMed strips a "PMID:" prefix and requires an all-digit ID.
// Returns "" for invalid input.
func NormalizePubMed(pubmedID string) string {
	pubmedID = pubmedPrefix.ReplaceAllString(pubmedID, "")
	pubmedID = strings.TrimSpace(pubmedID)
	if pubmedPattern.MatchString(pubmedID) {
		return pubmedID
	}
	return ""
}

// NormalizeISBN strips hyphens and spaces and accepts ISBN-10 (with a
// possible X check digit, upper-cased) or ISBN-13. Returns "" for
// invalid input.
func NormalizeISBN(isbn string) string {
	isbn = isbnSeparators.ReplaceAllString(isbn, "")
	if isbn10Pattern.MatchString(isbn) {
		return strings.ToUpper(isbn)
	}
	if isbn13Pattern.MatchString(isbn) {
		return isbn
	}
	return ""
}
