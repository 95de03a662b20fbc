// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package position classifies a work (peer review, publication type,
// review/meta-analysis) and derives its consensus score. The engine
// never fails: every missing signal has a defined default.
package position

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/refsys/internal/cache"
	"github.com/pdiddy/refsys/internal/httputil"
	"github.com/pdiddy/refsys/pkg/types"
)

// reviewKeywords mark review-style articles in titles and venue names.
var reviewKeywords = []string{
	"review", "survey", "systematic review", "literature review",
	"meta-analysis", "meta analysis", "scoping review",
}

// CSL record types that imply peer review, and those that imply its
// absence.
var (
	peerReviewedTypes    = map[string]bool{"article-journal": true, "paper-conference": true, "chapter": true}
	nonPeerReviewedTypes = map[string]bool{"report": true, "post": true, "webpage": true, "manuscript": true}
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "refsys/0.1"
)

// Analyzer computes position metadata for works. The cache store is
// used only for the citation-count fetch; classification itself is pure.
type Analyzer struct {
	client *http.Client
	cache  cache.Store
	log    *zap.Logger
	cfg    types.PositionConfig
	now    func() time.Time
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithHTTPClient replaces the HTTP client (for tests).
func WithHTTPClient(c *http.Client) Option {
	return func(a *Analyzer) { a.client = c }
}

// WithLogger sets the structured logger.
func WithLogger(log *zap.Logger) Option {
	return func(a *Analyzer) { a.log = log }
}

// NewAnalyzer returns an Analyzer using the given cache store.
func NewAnalyzer(store cache.Store, cfg types.PositionConfig, opts ...Option) *Analyzer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}

	a := &Analyzer{
		client: httputil.NewPooledClient(cfg.Timeout),
		cache:  store,
		log:    zap.NewNop(),
		cfg:    cfg,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ClassifyPublicationType maps a CSL record type plus its container
// title onto a publication type. Preprint detection keys off well-known
// preprint server names in the container title.
func ClassifyPublicationType(cslType, containerTitle string) types.PublicationType {
	container := strings.ToLower(containerTitle)

	if peerReviewedTypes[cslType] {
		if strings.Contains(cslType, "conference") || strings.Contains(container, "conference") {
			return types.PubConference
		}
		return types.PubJournal
	}

	if cslType == "book" {
		return types.PubBook
	}

	if nonPeerReviewedTypes[cslType] {
		return types.PubNonPeerReviewed
	}

	for _, server := range []string{"arxiv", "biorxiv", "medrxiv"} {
		if strings.Contains(container, server) {
			return types.PubPreprint
		}
	}

	return types.PubUnknown
}

// IsPeerReviewed maps a publication type onto a tri-state peer-review
// signal: true for journal/conference, false for preprints and
// non-peer-reviewed material, nil when the type gives no signal.
func IsPeerReviewed(pubType types.PublicationType) *bool {
	switch pubType {
	case types.PubJournal, types.PubConference:
		t := true
		return &t
	case types.PubPreprint, types.PubNonPeerReviewed:
		f := false
		return &f
	default:
		return nil
	}
}

// IsReviewArticle reports whether the title (or venue name) marks the
// work as a review-style article.
func IsReviewArticle(title, containerTitle string) bool {
	if title == "" {
		return false
	}
	lower := strings.ToLower(title)
	for _, kw := range reviewKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(containerTitle), "review")
}

// IsMetaAnalysis reports whether the title or abstract marks the work
// as a meta-analysis.
func IsMetaAnalysis(title, abstract string) bool {
	if title == "" {
		return false
	}
	text := strings.ToLower(title)
	if abstract != "" {
		text += " " + strings.ToLower(abstract)
	}
	return strings.Contains(text, "meta-analysis") ||
		strings.Contains(text, "meta analysis") ||
		strings.Contains(text, "metaanalysis")
}

// AnalyzeWork computes the full position metadata for one record. The
// citation count is the only network-backed signal; everything else is
// derived from the record itself.
func (a *Analyzer) AnalyzeWork(ctx context.Context, item *types.CSLItem) types.PositionMetadata {
	pubType := ClassifyPublicationType(item.Type, item.ContainerTitle)
	peerReviewed := IsPeerReviewed(pubType)
	isReview := IsReviewArticle(item.Title, item.ContainerTitle)
	isMeta := IsMetaAnalysis(item.Title, item.Abstract)
	year := item.Year()

	citations := a.CitationCount(ctx, item.DOI, item.Title)

	refYear := a.cfg.ReferenceYear
	if refYear == 0 {
		refYear = a.now().Year()
	}

	score := ComputeScore(ScoreInputs{
		CitationCount:  citations,
		PeerReviewed:   peerReviewed,
		IsReview:       isReview,
		IsMetaAnalysis: isMeta,
		Year:           year,
		ReferenceYear:  refYear,
		Retracted:      item.Retracted,
	})

	return types.PositionMetadata{
		PeerReviewed:    peerReviewed,
		CitationCount:   citations,
		IsReview:        isReview,
		IsMetaAnalysis:  isMeta,
		PublicationType: pubType,
		Year:            year,
		ConsensusScore:  score,
	}
}
