// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package position

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/refsys/internal/cache"
)

// openAlexWorksBase is the OpenAlex Works endpoint. Declared as a var
// so tests can substitute an httptest server.
var openAlexWorksBase = "https://api.openalex.org/works"

// citationTTL bounds how long a fetched citation count is reused.
// Counts drift daily, so this matches the URL-check freshness class.
const citationTTL = 24 * time.Hour

// OpenAlex API JSON structures.
type openAlexWork struct {
	CitedByCount int `json:"cited_by_count"`
}

type openAlexSearchResponse struct {
	Results []openAlexWork `json:"results"`
}

// CitationCount fetches the citation count from the bibliometric
// registry, by DOI first and title second. Transport failures and
// misses yield 0; this signal is advisory and must never abort scoring.
func (a *Analyzer) CitationCount(ctx context.Context, doi, title string) int {
	if doi != "" {
		if count, ok := a.citationsByDOI(ctx, doi); ok {
			return count
		}
	}
	if title != "" {
		if count, ok := a.citationsByTitle(ctx, title); ok {
			return count
		}
	}
	return 0
}

func (a *Analyzer) citationsByDOI(ctx context.Context, doi string) (int, bool) {
	key := cache.Key("citations", "doi:"+doi)
	if count, ok := a.cachedCount(key); ok {
		return count, true
	}

	var work openAlexWork
	if !a.fetchJSON(ctx, openAlexWorksBase+"/doi:"+doi, &work) {
		return 0, false
	}

	a.storeCount(key, work.CitedByCount)
	return work.CitedByCount, true
}

func (a *Analyzer) citationsByTitle(ctx context.Context, title string) (int, bool) {
	key := cache.Key("citations", "title:"+title)
	if count, ok := a.cachedCount(key); ok {
		return count, true
	}

	params := url.Values{"filter": {"title.search:" + title}}
	var resp openAlexSearchResponse
	if !a.fetchJSON(ctx, openAlexWorksBase+"?"+params.Encode(), &resp) {
		return 0, false
	}
	if len(resp.Results) == 0 {
		return 0, false
	}

	count := resp.Results[0].CitedByCount
	a.storeCount(key, count)
	return count, true
}

// fetchJSON issues a GET and decodes the body into out, reporting
// success. All failures are logged and absorbed.
func (a *Analyzer) fetchJSON(ctx context.Context, rawURL string, out any) bool {
	if a.cfg.OpenAlexEmail != "" {
		sep := "?"
		if u, err := url.Parse(rawURL); err == nil && u.RawQuery != "" {
			sep = "&"
		}
		rawURL += sep + "mailto=" + url.QueryEscape(a.cfg.OpenAlexEmail)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		a.log.Debug("creating OpenAlex request", zap.Error(err))
		return false
	}
	req.Header.Set("User-Agent", a.cfg.UserAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		a.log.Debug("OpenAlex request failed", zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		a.log.Debug("OpenAlex returned non-200", zap.Int("status", resp.StatusCode))
		return false
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		a.log.Debug("parsing OpenAlex response", zap.Error(err))
		return false
	}
	return true
}

func (a *Analyzer) cachedCount(key string) (int, bool) {
	data, ok := a.cache.Get(key)
	if !ok {
		return 0, false
	}
	count, err := strconv.Atoi(string(data))
	if err != nil {
		a.log.Warn("malformed cached citation count", zap.String("key", key), zap.Error(err))
		return 0, false
	}
	return count, true
}

func (a *Analyzer) storeCount(key string, count int) {
	if err := a.cache.Set(key, []byte(strconv.Itoa(count)), citationTTL); err != nil {
		a.log.Warn("caching citation count", zap.String("key", key), zap.Error(err))
	}
}
