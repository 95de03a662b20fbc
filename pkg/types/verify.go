// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// CheckKind identifies one verification check.
type CheckKind string

const (
	CheckDOI        CheckKind = "doi"
	CheckURL        CheckKind = "url"
	CheckArxiv      CheckKind = "arxiv"
	CheckPubMed     CheckKind = "pubmed"
	CheckRetraction CheckKind = "retraction"
)

// CheckStatus is the tri-state outcome of a verification check.
//
// Fail is reserved for definitive negative determinations (malformed
// identifier, confirmed 404/410, confirmed retraction). Warn covers
// indeterminate outcomes (timeout, unexpected status, API error);
// callers must not treat Warn as Fail.
type CheckStatus string

const (
	StatusOK   CheckStatus = "ok"
	StatusWarn CheckStatus = "warn"
	StatusFail CheckStatus = "fail"
)

// VerificationResult records the outcome of one (work, check-kind)
// verification. Results are immutable once created; the caller that
// persists them owns them.
type VerificationResult struct {
	Kind   CheckKind   `json:"kind" yaml:"kind"`
	Status CheckStatus `json:"status" yaml:"status"`

	// Detail is a human-readable explanation of the outcome.
	Detail string `json:"detail" yaml:"detail"`

	// HTTPCode is the registry's HTTP status, 0 when no response arrived.
	HTTPCode int `json:"http_code,omitempty" yaml:"http_code,omitempty"`

	// AlternativeURLs lists replacement locations discovered for this
	// work, in preference order. For the URL check it holds redirect
	// targets and open-access fallback locations.
	AlternativeURLs []string `json:"alternative_urls" yaml:"alternative_urls"`

	CheckedAt time.Time `json:"checked_at" yaml:"checked_at"`
}

// VerificationReport holds the per-kind results for one work. A nil
// field means the corresponding identifier was absent and the check was
// not attempted; that is not a failure.
type VerificationReport struct {
	DOI        *VerificationResult `json:"doi,omitempty" yaml:"doi,omitempty"`
	URL        *VerificationResult `json:"url,omitempty" yaml:"url,omitempty"`
	Arxiv      *VerificationResult `json:"arxiv,omitempty" yaml:"arxiv,omitempty"`
	PubMed     *VerificationResult `json:"pubmed,omitempty" yaml:"pubmed,omitempty"`
	Retraction *VerificationResult `json:"retraction,omitempty" yaml:"retraction,omitempty"`
}

// Results returns the checks that ran, in the fixed kind order.
func (r *VerificationReport) Results() []*VerificationResult {
	var out []*VerificationResult
	for _, res := range []*VerificationResult{r.DOI, r.URL, r.Arxiv, r.PubMed, r.Retraction} {
		if res != nil {
			out = append(out, res)
		}
	}
	return out
}

// Count returns how many checks ended with the given status.
func (r *VerificationReport) Count(status CheckStatus) int {
	n := 0
	for _, res := range r.Results() {
		if res.Status == status {
			n++
		}
	}
	return n
}

// HasFailures reports whether any check found a definitive problem.
func (r *VerificationReport) HasFailures() bool {
	return r.Count(StatusFail) > 0
}
