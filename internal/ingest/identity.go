// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"strconv"
	"strings"

	"github.com/pdiddy/refsys/pkg/types"
)

// CanonicalIdentifiers holds the validated identifier set for one
// record. A non-empty field always satisfies its registry's grammar.
type CanonicalIdentifiers struct {
	DOI      string
	ArxivID  string
	PubMedID string
	ISBN     string
}

// Canonicalize normalizes every identifier on the record. Invalid
// identifiers come back empty.
func Canonicalize(item *types.CSLItem) CanonicalIdentifiers {
	return CanonicalIdentifiers{
		DOI:      NormalizeDOI(item.DOI),
		ArxivID:  NormalizeArxiv(item.ArxivID),
		PubMedID: NormalizePubMed(item.PubMedID),
		ISBN:     NormalizeISBN(item.ISBN),
	}
}

// WorkID derives the stable identity for a record. A normalized DOI is
// content-addressed directly, so identical DOIs always yield identical
// keys. Without a DOI the identity hashes whichever of title, first
// author family, and year are present. Records with none of those get a
// random token and can never dedupe against each other; that is
// documented behavior, not a bug.
func WorkID(item *types.CSLItem) string {
	if doi := NormalizeDOI(item.DOI); doi != "" {
		return "doi_" + shortHash("doi:"+strings.ToLower(doi))
	}

	var parts []string
	if item.Title != "" {
		parts = append(parts, strings.ToLower(strings.TrimSpace(item.Title)))
	}
	if family := item.FirstAuthorFamily(); family != "" {
		parts = append(parts, strings.ToLower(strings.TrimSpace(family)))
	}
	if year := item.Year(); year != 0 {
		parts = append(parts, strconv.Itoa(year))
	}

	if len(parts) > 0 {
		return "work_" + shortHash(strings.Join(parts, "_"))
	}

	return "work_" + randomToken()
}

// shortHash returns the first 12 hex characters of the SHA-256 of s.
func shortHash(s string) string {
	h := sha256.Sum256([]byte(s))
	return fmt.Sprintf("%x", h[:6])
}

func randomToken() string {
	var b [6]byte
	rand.Read(b[:])
	return fmt.Sprintf("%x", b)
}
