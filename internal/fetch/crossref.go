// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/refdex/refdex/internal/httputil"
	"github.com/refdex/refdex/pkg/types"
)

// cslTransform is CrossRef's content-negotiation suffix that returns a
// work as CSL-JSON, saving us a field-by-field mapping.
const cslTransform = "/transform/application/vnd.citationstyles.csl+json"

// FetchDOI retrieves CSL metadata for a DOI from the CrossRef REST API.
func FetchDOI(ctx context.Context, client *http.Client, doi string, cfg types.FetchConfig) (*types.Record, error) {
	apiURL := crossrefAPIBase + doi + cslTransform
	if cfg.MailTo != "" {
		apiURL += "?mailto=" + url.QueryEscape(cfg.MailTo)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("CrossRef API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("DOI %s not found", doi)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("CrossRef API returned HTTP %d", resp.StatusCode)
	}

	var rec types.Record
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return nil, fmt.Errorf("parsing CrossRef response: %w", err)
	}

	if rec.DOI == "" {
		rec.DOI = doi
	}
	return &rec, nil
}
