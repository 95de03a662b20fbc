// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pdiddy/refsys/internal/cache"
	"github.com/pdiddy/refsys/internal/ingest"
	"github.com/pdiddy/refsys/pkg/types"
)

// esummaryResponse is the PubMed E-utilities summary envelope. The
// result object maps each requested ID to its summary; an unknown ID is
// simply absent from the map.
type esummaryResponse struct {
	Result map[string]json.RawMessage `json:"result"`
}

// VerifyPubMed checks that a PubMed ID exists via the esummary endpoint.
func (v *Verifier) VerifyPubMed(ctx context.Context, pubmedID string) *types.VerificationResult {
	if ingest.NormalizePubMed(pubmedID) == "" {
		return v.result(types.CheckPubMed, types.StatusFail, fmt.Sprintf("invalid PubMed ID format: %s", pubmedID), 0)
	}

	key := cache.Key("pubmed", pubmedID)
	if res, ok := v.cachedResult(key); ok {
		return res
	}

	params := url.Values{
		"db":      {"pubmed"},
		"id":      {pubmedID},
		"retmode": {"json"},
	}
	resp, cancel, err := v.get(ctx, pubmedAPIBase+"?"+params.Encode())
	if err != nil {
		return v.result(types.CheckPubMed, types.StatusWarn, fmt.Sprintf("PubMed API request: %v", err), 0)
	}
	defer cancel()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return v.result(types.CheckPubMed, types.StatusWarn, fmt.Sprintf("PubMed API returned HTTP %d", resp.StatusCode), resp.StatusCode)
	}

	var summary esummaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		return v.result(types.CheckPubMed, types.StatusWarn, fmt.Sprintf("parsing PubMed response: %v", err), resp.StatusCode)
	}

	var res *types.VerificationResult
	if _, ok := summary.Result[pubmedID]; ok {
		res = v.result(types.CheckPubMed, types.StatusOK, "PubMed ID verified", resp.StatusCode)
	} else {
		res = v.result(types.CheckPubMed, types.StatusFail, "PubMed ID not found", resp.StatusCode)
	}

	v.store(key, res, registryTTL)
	return res
}
