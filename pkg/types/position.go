// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// PublicationType classifies where a work was published.
type PublicationType string

const (
	PubJournal         PublicationType = "journal"
	PubConference      PublicationType = "conference"
	PubBook            PublicationType = "book"
	PubPreprint        PublicationType = "preprint"
	PubNonPeerReviewed PublicationType = "non-peer-reviewed"
	PubUnknown         PublicationType = "unknown"
)

// PositionMetadata bundles the classification signals and the derived
// consensus score for one work. It is computed fresh on each scoring
// invocation; only the citation-count input is cache-eligible.
type PositionMetadata struct {
	// PeerReviewed is nil when the publication type gives no signal
	// either way.
	PeerReviewed *bool `json:"peer_reviewed" yaml:"peer_reviewed"`

	CitationCount   int             `json:"citation_count" yaml:"citation_count"`
	IsReview        bool            `json:"is_review" yaml:"is_review"`
	IsMetaAnalysis  bool            `json:"is_meta_analysis" yaml:"is_meta_analysis"`
	PublicationType PublicationType `json:"publication_type" yaml:"publication_type"`

	// Year is the publication year, 0 when unknown.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	// ConsensusScore is a heuristic 0-100 trust indicator, not a
	// bibliometric measurement.
	ConsensusScore int `json:"consensus_score" yaml:"consensus_score"`
}
