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

// FetchPubMed retrieves CSL metadata from the NCBI Literature Citation
// Exporter. idType selects the pubmed (PMID) or pmc (PMCID) endpoint.
// An API key raises NCBI's per-IP rate limit and is passed through when
// configured.
func FetchPubMed(ctx context.Context, client *http.Client, idType IdentifierType, id string, cfg types.FetchConfig) (*types.Record, error) {
	var endpoint string
	switch idType {
	case TypePMID:
		endpoint = "pubmed/"
	case TypePMCID:
		endpoint = "pmc/"
	default:
		return nil, fmt.Errorf("identifier type %s has no PubMed endpoint", idType)
	}

	params := url.Values{}
	params.Set("format", "csl")
	params.Set("id", id)
	if cfg.NCBIAPIKey != "" {
		params.Set("api_key", cfg.NCBIAPIKey)
	}
	apiURL := ncbiAPIBase + endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("NCBI API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s %s not found", idType, id)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("NCBI API returned HTTP %d", resp.StatusCode)
	}

	var rec types.Record
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return nil, fmt.Errorf("parsing NCBI response: %w", err)
	}

	switch idType {
	case TypePMID:
		if rec.PMID == "" {
			rec.PMID = id
		}
	case TypePMCID:
		if rec.PMCID == "" {
			rec.PMCID = id
		}
	}
	return &rec, nil
}
