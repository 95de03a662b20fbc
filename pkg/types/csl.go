// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the refsys pipeline:
// CSL bibliographic records, verification results, position metadata,
// and per-stage configuration.
package types

// CSLItem represents one bibliographic entry in CSL (Citation Style
// Language) format. The field names and tags follow the CSL-JSON schema
// so that reference-manager exports parse directly; the same structs
// round-trip through CSL-YAML.
type CSLItem struct {
	ID             string    `json:"id" yaml:"id"`
	Type           string    `json:"type" yaml:"type"`
	Title          string    `json:"title,omitempty" yaml:"title,omitempty"`
	Author         []CSLName `json:"author,omitempty" yaml:"author,omitempty"`
	Editor         []CSLName `json:"editor,omitempty" yaml:"editor,omitempty"`
	Issued         *CSLDate  `json:"issued,omitempty" yaml:"issued,omitempty"`
	ContainerTitle string    `json:"container-title,omitempty" yaml:"container-title,omitempty"`
	Volume         string    `json:"volume,omitempty" yaml:"volume,omitempty"`
	Issue          string    `json:"issue,omitempty" yaml:"issue,omitempty"`
	Page           string    `json:"page,omitempty" yaml:"page,omitempty"`
	Publisher      string    `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	Abstract       string    `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	DOI  string `json:"DOI,omitempty" yaml:"DOI,omitempty"`
	URL  string `json:"URL,omitempty" yaml:"URL,omitempty"`
	ISBN string `json:"ISBN,omitempty" yaml:"ISBN,omitempty"`
	ISSN string `json:"ISSN,omitempty" yaml:"ISSN,omitempty"`

	// Extended identifiers beyond core CSL.
	ArxivID  string `json:"arxiv_id,omitempty" yaml:"arxiv_id,omitempty"`
	PubMedID string `json:"pubmed_id,omitempty" yaml:"pubmed_id,omitempty"`

	// Verification state carried alongside the record.
	PeerReviewed   *bool `json:"peer_reviewed,omitempty" yaml:"peer_reviewed,omitempty"`
	Retracted      bool  `json:"retracted,omitempty" yaml:"retracted,omitempty"`
	ConsensusScore *int  `json:"consensus_score,omitempty" yaml:"consensus_score,omitempty"`
}

// Year returns the publication year, or 0 if the record carries no date.
func (c *CSLItem) Year() int {
	if c.Issued == nil {
		return 0
	}
	return c.Issued.Year()
}

// FirstAuthorFamily returns the family name of the first author, or "".
func (c *CSLItem) FirstAuthorFamily() string {
	if len(c.Author) == 0 {
		return ""
	}
	return c.Author[0].Family
}

// CSLName represents a person's name in CSL format. Institutional
// authors use the literal field.
type CSLName struct {
	Family  string `json:"family,omitempty" yaml:"family,omitempty"`
	Given   string `json:"given,omitempty" yaml:"given,omitempty"`
	Literal string `json:"literal,omitempty" yaml:"literal,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts, with an
// optional raw string fallback.
type CSLDate struct {
	DateParts [][]int `json:"date-parts,omitempty" yaml:"date-parts,omitempty"`
	Raw       string  `json:"raw,omitempty" yaml:"raw,omitempty"`
}

// Year extracts the year from date-parts, falling back to the first four
// characters of the raw string. Returns 0 when no year is available.
func (d *CSLDate) Year() int {
	if d == nil {
		return 0
	}
	if len(d.DateParts) > 0 && len(d.DateParts[0]) > 0 {
		return d.DateParts[0][0]
	}
	if len(d.Raw) >= 4 {
		year := 0
		for _, r := range d.Raw[:4] {
			if r < '0' || r > '9' {
				return 0
			}
			year = year*10 + int(r-'0')
		}
		return year
	}
	return 0
}
