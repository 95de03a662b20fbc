// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package verify checks that cited works exist, are reachable, and are
// not retracted. Each check maps registry outcomes onto a tri-state
// result: ok for confirmed existence, fail for a definitive negative
// determination, warn for anything indeterminate. A warn is never
// cached and never treated as a failure.
package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pdiddy/refsys/internal/cache"
	"github.com/pdiddy/refsys/internal/httputil"
	"github.com/pdiddy/refsys/internal/ingest"
	"github.com/pdiddy/refsys/pkg/types"
)

// Registry base URLs. Declared as vars so tests can substitute
// httptest servers.
var (
	doiBase          = "https://doi.org/"
	arxivAPIBase     = "https://export.arxiv.org/api/query"
	pubmedAPIBase    = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esummary.fcgi"
	crossrefAPIBase  = "https://api.crossref.org/works/"
	unpaywallAPIBase = "https://api.unpaywall.org/v2/"
)

// Cache lifetimes. Registry answers about identifier existence are
// stable for a week; raw URL reachability is rechecked daily.
const (
	registryTTL = 168 * time.Hour
	urlTTL      = 24 * time.Hour
)

const (
	defaultTimeout      = 30 * time.Second
	defaultCheckTimeout = 10 * time.Second
	defaultConcurrency  = 5
	defaultRate         = 10.0
	defaultUserAgent    = "refsys/0.1"
)

// Verifier runs existence, reachability, and retraction checks against
// external registries, consulting and populating the shared cache.
type Verifier struct {
	client  *http.Client // API calls, follows redirects
	probe   *http.Client // HEAD probes, reports 3xx as-is
	cache   cache.Store
	limiter *rate.Limiter
	log     *zap.Logger
	cfg     types.VerifyConfig
	now     func() time.Time
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithHTTPClient replaces both the API and probe clients (for tests).
func WithHTTPClient(c *http.Client) Option {
	return func(v *Verifier) {
		v.client = c
		probe := *c
		probe.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
		v.probe = &probe
	}
}

// WithLogger sets the structured logger.
func WithLogger(log *zap.Logger) Option {
	return func(v *Verifier) { v.log = log }
}

// WithClock replaces the time source used for result timestamps.
func WithClock(now func() time.Time) Option {
	return func(v *Verifier) { v.now = now }
}

// New returns a Verifier using the given cache store. The store is a
// required collaborator; pass cache.NewMemory() for uncached runs.
func New(store cache.Store, cfg types.VerifyConfig, opts ...Option) *Verifier {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.CheckTimeout <= 0 {
		cfg.CheckTimeout = defaultCheckTimeout
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = defaultRate
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}

	v := &Verifier{
		client:  httputil.NewPooledClient(cfg.Timeout),
		probe:   httputil.NewProbeClient(cfg.Timeout),
		cache:   store,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		log:     zap.NewNop(),
		cfg:     cfg,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// VerifyWork runs every applicable check for one record. Checks whose
// identifier is absent are omitted from the report rather than reported
// as failures. Independent checks run concurrently; the open-access
// fallback runs strictly after the URL check because it is conditioned
// on that result.
func (v *Verifier) VerifyWork(ctx context.Context, item *types.CSLItem) *types.VerificationReport {
	rep := &types.VerificationReport{}

	var wg sync.WaitGroup
	run := func(f func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f()
		}()
	}

	if item.DOI != "" {
		run(func() { rep.DOI = v.VerifyDOI(ctx, item.DOI) })
	}
	if item.URL != "" {
		run(func() { rep.URL = v.VerifyURL(ctx, item.URL) })
	}
	if item.ArxivID != "" {
		run(func() { rep.Arxiv = v.VerifyArxiv(ctx, item.ArxivID) })
	}
	if item.PubMedID != "" {
		run(func() { rep.PubMed = v.VerifyPubMed(ctx, item.PubMedID) })
	}
	// Retraction depends only on the DOI string, so it can run alongside
	// the other checks.
	run(func() { rep.Retraction = v.CheckRetraction(ctx, item.DOI) })

	wg.Wait()

	// Dead primary URL with a DOI on hand: look for open-access copies.
	if rep.URL != nil && rep.URL.Status == types.StatusFail && item.DOI != "" {
		if rep.URL.AlternativeURLs == nil {
			rep.URL.AlternativeURLs = []string{}
		}
		rep.URL.AlternativeURLs = append(rep.URL.AlternativeURLs, v.AlternativeURLs(ctx, item.DOI)...)
	}

	return rep
}

// VerifyDOI checks that a DOI resolves at the DOI resolution endpoint.
func (v *Verifier) VerifyDOI(ctx context.Context, doi string) *types.VerificationResult {
	if ingest.NormalizeDOI(doi) == "" {
		return v.result(types.CheckDOI, types.StatusFail, fmt.Sprintf("invalid DOI format: %s", doi), 0)
	}

	key := cache.Key("doi", doi)
	if res, ok := v.cachedResult(key); ok {
		return res
	}

	target := doiBase + doi
	resp, err := v.head(ctx, target)
	if err != nil {
		return v.result(types.CheckDOI, types.StatusWarn, fmt.Sprintf("request failed: %v", err), 0)
	}

	var res *types.VerificationResult
	switch {
	case resp.code == http.StatusOK || resp.code == http.StatusMovedPermanently ||
		resp.code == http.StatusFound || resp.code == http.StatusSeeOther:
		location := resp.location
		if location == "" {
			location = target
		}
		res = v.result(types.CheckDOI, types.StatusOK, "DOI resolves to "+location, resp.code)
	case resp.code == http.StatusNotFound:
		res = v.result(types.CheckDOI, types.StatusFail, "DOI not found (404)", resp.code)
	default:
		res = v.result(types.CheckDOI, types.StatusWarn, fmt.Sprintf("unexpected status code: %d", resp.code), resp.code)
	}

	v.store(key, res, registryTTL)
	return res
}

// VerifyURL probes a URL for reachability. Redirects count as reachable
// and record the target as an alternative location.
func (v *Verifier) VerifyURL(ctx context.Context, rawURL string) *types.VerificationResult {
	key := cache.Key("url", rawURL)
	if res, ok := v.cachedResult(key); ok {
		return res
	}

	resp, err := v.head(ctx, rawURL)
	if err != nil {
		return v.result(types.CheckURL, types.StatusWarn, fmt.Sprintf("request failed: %v", err), 0)
	}

	var res *types.VerificationResult
	switch resp.code {
	case http.StatusOK:
		res = v.result(types.CheckURL, types.StatusOK, "URL is reachable", resp.code)
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		res = v.result(types.CheckURL, types.StatusOK, "redirects to "+resp.location, resp.code)
		if resp.location != "" {
			res.AlternativeURLs = []string{resp.location}
		}
	case http.StatusNotFound, http.StatusGone:
		res = v.result(types.CheckURL, types.StatusFail, fmt.Sprintf("URL not found (%d)", resp.code), resp.code)
	default:
		res = v.result(types.CheckURL, types.StatusWarn, fmt.Sprintf("unexpected status: %d", resp.code), resp.code)
	}

	v.store(key, res, urlTTL)
	return res
}

// result builds a timestamped VerificationResult.
func (v *Verifier) result(kind types.CheckKind, status types.CheckStatus, detail string, code int) *types.VerificationResult {
	return &types.VerificationResult{
		Kind:      kind,
		Status:    status,
		Detail:    detail,
		HTTPCode:  code,
		CheckedAt: v.now().UTC(),
	}
}

// cachedResult returns a previously cached result for key. A malformed
// cache entry is logged and treated as a miss rather than silently
// swallowed: corrupt entries are programming errors, not registry noise.
func (v *Verifier) cachedResult(key string) (*types.VerificationResult, bool) {
	data, ok := v.cache.Get(key)
	if !ok {
		return nil, false
	}
	var res types.VerificationResult
	if err := json.Unmarshal(data, &res); err != nil {
		v.log.Warn("malformed cache entry", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	v.log.Debug("cache hit", zap.String("key", key), zap.String("status", string(res.Status)))
	return &res, true
}

// store caches a definitive result. Warn results are indeterminate and
// must never be cached.
func (v *Verifier) store(key string, res *types.VerificationResult, ttl time.Duration) {
	if res.Status == types.StatusWarn {
		return
	}
	data, err := json.Marshal(res)
	if err != nil {
		v.log.Warn("marshaling result for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := v.cache.Set(key, data, ttl); err != nil {
		v.log.Warn("writing cache entry", zap.String("key", key), zap.Error(err))
	}
}

type probeResponse struct {
	code     int
	location string
}

// head issues a lightweight HEAD probe with the per-check timeout and
// the outbound rate limit applied. Redirect statuses are returned
// as-is, not followed.
func (v *Verifier) head(ctx context.Context, url string) (probeResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, v.cfg.CheckTimeout)
	defer cancel()

	if err := v.limiter.Wait(ctx); err != nil {
		return probeResponse{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return probeResponse{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", v.cfg.UserAgent)

	resp, err := v.probe.Do(req)
	if err != nil {
		return probeResponse{}, err
	}
	resp.Body.Close()

	return probeResponse{code: resp.StatusCode, location: resp.Header.Get("Location")}, nil
}

// get issues a rate-limited GET with the per-check timeout, retrying on
// 429. The caller owns the response body.
func (v *Verifier) get(ctx context.Context, url string) (*http.Response, context.CancelFunc, error) {
	ctx, cancel := context.WithTimeout(ctx, v.cfg.CheckTimeout)

	if err := v.limiter.Wait(ctx); err != nil {
		cancel()
		return nil, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", v.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, v.client, req, 1)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	return resp, cancel, nil
}

// joinKinds renders relation kinds for a retraction detail string.
func joinKinds(kinds []string) string {
	return strings.Join(kinds, ", ")
}
