// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package verify

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pdiddy/refsys/internal/cache"
	"github.com/pdiddy/refsys/internal/ingest"
	"github.com/pdiddy/refsys/pkg/types"
)

// arXiv Atom feed XML structures. Presence of an entry is the
// existence signal; the entry contents are not used.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID    string `xml:"id"`
	Title string `xml:"title"`
}

// VerifyArxiv checks that an arXiv ID exists in the arXiv registry.
func (v *Verifier) VerifyArxiv(ctx context.Context, arxivID string) *types.VerificationResult {
	if ingest.NormalizeArxiv(arxivID) == "" {
		return v.result(types.CheckArxiv, types.StatusFail, fmt.Sprintf("invalid arXiv ID format: %s", arxivID), 0)
	}

	key := cache.Key("arxiv", arxivID)
	if res, ok := v.cachedResult(key); ok {
		return res
	}

	apiURL := arxivAPIBase + "?id_list=" + url.QueryEscape(arxivID)
	resp, cancel, err := v.get(ctx, apiURL)
	if err != nil {
		return v.result(types.CheckArxiv, types.StatusWarn, fmt.Sprintf("arXiv API request: %v", err), 0)
	}
	defer cancel()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return v.result(types.CheckArxiv, types.StatusWarn, fmt.Sprintf("arXiv API returned HTTP %d", resp.StatusCode), resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return v.result(types.CheckArxiv, types.StatusWarn, fmt.Sprintf("parsing arXiv response: %v", err), resp.StatusCode)
	}

	var res *types.VerificationResult
	if len(feed.Entries) > 0 {
		res = v.result(types.CheckArxiv, types.StatusOK, "arXiv ID verified", resp.StatusCode)
	} else {
		res = v.result(types.CheckArxiv, types.StatusFail, "arXiv ID not found", resp.StatusCode)
	}

	v.store(key, res, registryTTL)
	return res
}
