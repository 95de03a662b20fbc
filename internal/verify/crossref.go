// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pdiddy/refsys/internal/cache"
	"github.com/pdiddy/refsys/pkg/types"
)

// retractionRelations are the Crossref relation types that mark a work
// as corrected or withdrawn.
var retractionRelations = []string{"is-correction-of", "is-retracted-by", "has-correction"}

// Crossref works API JSON structures. Only the relation map matters here.
type crossrefResponse struct {
	Message crossrefWork `json:"message"`
}

type crossrefWork struct {
	Relation map[string]json.RawMessage `json:"relation"`
}

// CheckRetraction queries the scholarly-metadata registry for
// correction/retraction relations on the work's DOI. Without a DOI the
// check is skipped and reports ok, since no registry can be consulted.
func (v *Verifier) CheckRetraction(ctx context.Context, doi string) *types.VerificationResult {
	if doi == "" {
		return v.result(types.CheckRetraction, types.StatusOK, "no DOI provided, skipping retraction check", 0)
	}

	key := cache.Key("retraction", doi)
	if res, ok := v.cachedResult(key); ok {
		return res
	}

	resp, cancel, err := v.get(ctx, crossrefAPIBase+doi)
	if err != nil {
		return v.result(types.CheckRetraction, types.StatusWarn, fmt.Sprintf("Crossref API request: %v", err), 0)
	}
	defer cancel()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return v.result(types.CheckRetraction, types.StatusWarn,
			fmt.Sprintf("could not check retraction status (HTTP %d)", resp.StatusCode), resp.StatusCode)
	}

	var cr crossrefResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return v.result(types.CheckRetraction, types.StatusWarn, fmt.Sprintf("parsing Crossref response: %v", err), resp.StatusCode)
	}

	var found []string
	for _, rel := range retractionRelations {
		if _, ok := cr.Message.Relation[rel]; ok {
			found = append(found, rel)
		}
	}

	var res *types.VerificationResult
	if len(found) > 0 {
		res = v.result(types.CheckRetraction, types.StatusFail, "retracted or corrected: "+joinKinds(found), resp.StatusCode)
	} else {
		res = v.result(types.CheckRetraction, types.StatusOK, "no retraction found", resp.StatusCode)
	}

	v.store(key, res, registryTTL)
	return res
}
