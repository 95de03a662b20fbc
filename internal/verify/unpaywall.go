// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package verify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

// Unpaywall API JSON structures.
type unpaywallResponse struct {
	IsOA           bool               `json:"is_oa"`
	DOIURL         string             `json:"doi_url"`
	BestOALocation *unpaywallLocation `json:"best_oa_location"`
}

type unpaywallLocation struct {
	URL string `json:"url"`
}

// defaultUnpaywallEmail is used when no contact address is configured;
// the registry rejects requests without one.
const defaultUnpaywallEmail = "refsys@localhost"

// AlternativeURLs asks the open-access location registry for
// replacement URLs: the best open-access copy first, then the
// publisher's DOI-resolution URL. This is best-effort recovery for a
// dead primary link; every failure is swallowed and yields an empty
// list, never a check failure.
func (v *Verifier) AlternativeURLs(ctx context.Context, doi string) []string {
	email := v.cfg.UnpaywallEmail
	if email == "" {
		email = defaultUnpaywallEmail
	}

	apiURL := unpaywallAPIBase + doi + "?email=" + url.QueryEscape(email)
	resp, cancel, err := v.get(ctx, apiURL)
	if err != nil {
		v.log.Debug("open-access lookup failed", zap.String("doi", doi), zap.Error(err))
		return nil
	}
	defer cancel()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		v.log.Debug("open-access lookup failed",
			zap.String("doi", doi), zap.Int("status", resp.StatusCode))
		return nil
	}

	var up unpaywallResponse
	if err := json.NewDecoder(resp.Body).Decode(&up); err != nil {
		v.log.Debug("parsing open-access response", zap.String("doi", doi), zap.Error(err))
		return nil
	}

	var alternatives []string
	if up.IsOA && up.BestOALocation != nil && up.BestOALocation.URL != "" {
		alternatives = append(alternatives, up.BestOALocation.URL)
	}
	if up.DOIURL != "" {
		alternatives = append(alternatives, up.DOIURL)
	}
	return alternatives
}
