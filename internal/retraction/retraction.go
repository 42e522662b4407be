// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package retraction checks library records against OpenAlex's
// is_retracted flag so withdrawn papers do not linger in a library
// unnoticed.
// Implements: prd004-retraction (R1-R3);
//
//	docs/ARCHITECTURE § Retraction Check.
package retraction

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/refdex/refdex/internal/httputil"
	"github.com/refdex/refdex/pkg/types"
)

// openAlexAPIBase is the OpenAlex works endpoint. Declared as a var so
// tests can substitute an httptest server.
var openAlexAPIBase = "https://api.openalex.org/works/"

// Status classifies the outcome of a retraction check for one record.
type Status string

const (
	StatusRetracted Status = "retracted"
	StatusClear     Status = "clear"
	StatusSkipped   Status = "skipped"
	StatusError     Status = "error"
)

// Result pairs a record with its check outcome. Reason explains skipped
// and error outcomes.
type Result struct {
	Record *types.Record
	Status Status
	Reason string
}

// openAlexWork captures the fields we need from an OpenAlex work record.
type openAlexWork struct {
	IsRetracted bool `json:"is_retracted"`
}

// CheckRecord queries OpenAlex for a record's DOI and reports whether
// the work is flagged as retracted. OpenAlex lookups key on DOI, so
// records without one are skipped, as are DOIs OpenAlex does not know.
func CheckRecord(ctx context.Context, client *http.Client, rec *types.Record, cfg types.RetractionConfig) Result {
	if rec.DOI == "" {
		return Result{Record: rec, Status: StatusSkipped, Reason: "no DOI"}
	}

	apiURL := openAlexAPIBase + "https://doi.org/" + rec.DOI
	if cfg.MailTo != "" {
		apiURL += "?mailto=" + url.QueryEscape(cfg.MailTo)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return Result{Record: rec, Status: StatusError, Reason: fmt.Sprintf("creating request: %v", err)}
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return Result{Record: rec, Status: StatusError, Reason: fmt.Sprintf("OpenAlex API request: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return Result{Record: rec, Status: StatusSkipped, Reason: "not in OpenAlex"}
	}
	if resp.StatusCode != http.StatusOK {
		return Result{Record: rec, Status: StatusError, Reason: fmt.Sprintf("OpenAlex API returned HTTP %d", resp.StatusCode)}
	}

	var work openAlexWork
	if err := json.NewDecoder(resp.Body).Decode(&work); err != nil {
		return Result{Record: rec, Status: StatusError, Reason: fmt.Sprintf("parsing OpenAlex response: %v", err)}
	}

	if work.IsRetracted {
		return Result{Record: rec, Status: StatusRetracted}
	}
	return Result{Record: rec, Status: StatusClear}
}

// Summary holds counts from a retraction sweep.
type Summary struct {
	Retracted int
	Clear     int
	Skipped   int
	Errors    int
}

// Total returns the number of records checked.
func (s Summary) Total() int {
	return s.Retracted + s.Clear + s.Skipped + s.Errors
}

// CheckAll sweeps records in order, printing one line per record and a
// closing summary to w. The inter-request delay keeps refdex inside
// OpenAlex's politeness guidelines (R2.2).
func CheckAll(ctx context.Context, client *http.Client, records []*types.Record, cfg types.RetractionConfig, w io.Writer) ([]Result, Summary, error) {
	var (
		results []Result
		summary Summary
	)

	for i, rec := range records {
		if i > 0 && cfg.RequestDelay > 0 {
			select {
			case <-ctx.Done():
				return results, summary, ctx.Err()
			case <-time.After(cfg.RequestDelay):
			}
		}

		res := CheckRecord(ctx, client, rec, cfg)
		results = append(results, res)

		switch res.Status {
		case StatusRetracted:
			fmt.Fprintf(w, "RETRACTED %s (%s)\n", rec.ID, rec.DOI)
			summary.Retracted++
		case StatusClear:
			fmt.Fprintf(w, "clear     %s\n", rec.ID)
			summary.Clear++
		case StatusSkipped:
			fmt.Fprintf(w, "skipped   %s (%s)\n", rec.ID, res.Reason)
			summary.Skipped++
		case StatusError:
			fmt.Fprintf(w, "error     %s (%s)\n", rec.ID, res.Reason)
			summary.Errors++
		}
	}

	fmt.Fprintf(w, "\nChecked %d records: %d retracted, %d clear, %d skipped, %d errors\n",
		summary.Total(), summary.Retracted, summary.Clear, summary.Skipped, summary.Errors)

	return results, summary, nil
}
