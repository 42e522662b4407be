// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/refdex/refdex/pkg/types"
)

const sampleCrossRefCSL = `{
  "type": "article-journal",
  "title": "Machine Learning in Medicine",
  "DOI": "10.1234/jmi.2023.0045",
  "author": [
    {"given": "Jane", "family": "Smith", "sequence": "first"}
  ],
  "container-title": "Journal of Medical Informatics",
  "publisher": "Medical Informatics Press",
  "issued": {"date-parts": [[2023, 5, 12]]}
}`

const samplePubMedCSL = `{
  "id": "37012345",
  "type": "article-journal",
  "title": "mRNA sequencing advances",
  "author": [
    {"given": "Li", "family": "Chen"}
  ],
  "container-title": "Nature Methods",
  "issued": {"date-parts": [[2021]]},
  "PMID": "37012345"
}`

func testFetchConfig() types.FetchConfig {
	return types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   10 * time.Second,
			UserAgent: "refdex-test/0.1",
		},
	}
}

// --- CrossRef tests ---

func TestFetchDOI(t *testing.T) {
	var gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, sampleCrossRefCSL)
	}))
	defer ts.Close()

	origBase := crossrefAPIBase
	crossrefAPIBase = ts.URL + "/"
	defer func() { crossrefAPIBase = origBase }()

	rec, err := FetchDOI(context.Background(), ts.Client(), "10.1234/jmi.2023.0045", testFetchConfig())
	if err != nil {
		t.Fatalf("FetchDOI: %v", err)
	}

	wantPath := "/10.1234/jmi.2023.0045/transform/application/vnd.citationstyles.csl+json"
	if gotPath != wantPath {
		t.Errorf("request path = %q, want %q", gotPath, wantPath)
	}
	if rec.Title != "Machine Learning in Medicine" {
		t.Errorf("Title = %q", rec.Title)
	}
	if rec.DOI != "10.1234/jmi.2023.0045" {
		t.Errorf("DOI = %q", rec.DOI)
	}
	if len(rec.Author) != 1 || rec.Author[0].Family != "Smith" {
		t.Errorf("Author = %v", rec.Author)
	}
	if rec.Issued.Year() != 2023 {
		t.Errorf("Year = %d, want 2023", rec.Issued.Year())
	}
}

func TestFetchDOISendsMailTo(t *testing.T) {
	var gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, sampleCrossRefCSL)
	}))
	defer ts.Close()

	origBase := crossrefAPIBase
	crossrefAPIBase = ts.URL + "/"
	defer func() { crossrefAPIBase = origBase }()

	cfg := testFetchConfig()
	cfg.MailTo = "librarian@example.org"
	if _, err := FetchDOI(context.Background(), ts.Client(), "10.1234/x", cfg); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(gotQuery, "mailto=librarian%40example.org") {
		t.Errorf("query = %q, want mailto parameter", gotQuery)
	}
}

func TestFetchDOIFillsMissingDOI(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"type": "article-journal", "title": "No DOI In Body"}`)
	}))
	defer ts.Close()

	origBase := crossrefAPIBase
	crossrefAPIBase = ts.URL + "/"
	defer func() { crossrefAPIBase = origBase }()

	rec, err := FetchDOI(context.Background(), ts.Client(), "10.9999/filled", testFetchConfig())
	if err != nil {
		t.Fatal(err)
	}
	if rec.DOI != "10.9999/filled" {
		t.Errorf("DOI = %q, want requested DOI filled in", rec.DOI)
	}
}

func TestFetchDOINotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	origBase := crossrefAPIBase
	crossrefAPIBase = ts.URL + "/"
	defer func() { crossrefAPIBase = origBase }()

	_, err := FetchDOI(context.Background(), ts.Client(), "10.9999/nonexistent", testFetchConfig())
	if err == nil {
		t.Fatal("expected error for unknown DOI")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("error = %q, want 'not found'", err.Error())
	}
}

// --- NCBI tests ---

func TestFetchPubMed(t *testing.T) {
	tests := []struct {
		name     string
		idType   IdentifierType
		id       string
		wantPath string
	}{
		{"PMID uses pubmed endpoint", TypePMID, "37012345", "/pubmed/"},
		{"PMCID uses pmc endpoint", TypePMCID, "PMC8012345", "/pmc/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath, gotID, gotFormat string
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotID = r.URL.Query().Get("id")
				gotFormat = r.URL.Query().Get("format")
				fmt.Fprint(w, samplePubMedCSL)
			}))
			defer ts.Close()

			origBase := ncbiAPIBase
			ncbiAPIBase = ts.URL + "/"
			defer func() { ncbiAPIBase = origBase }()

			rec, err := FetchPubMed(context.Background(), ts.Client(), tt.idType, tt.id, testFetchConfig())
			if err != nil {
				t.Fatalf("FetchPubMed: %v", err)
			}
			if gotPath != tt.wantPath {
				t.Errorf("request path = %q, want %q", gotPath, tt.wantPath)
			}
			if gotID != tt.id {
				t.Errorf("id param = %q, want %q", gotID, tt.id)
			}
			if gotFormat != "csl" {
				t.Errorf("format param = %q, want csl", gotFormat)
			}
			if rec.Title != "mRNA sequencing advances" {
				t.Errorf("Title = %q", rec.Title)
			}
		})
	}
}

func TestFetchPubMedSendsAPIKey(t *testing.T) {
	var gotKey string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("api_key")
		fmt.Fprint(w, samplePubMedCSL)
	}))
	defer ts.Close()

	origBase := ncbiAPIBase
	ncbiAPIBase = ts.URL + "/"
	defer func() { ncbiAPIBase = origBase }()

	cfg := testFetchConfig()
	cfg.NCBIAPIKey = "test-key-123"
	if _, err := FetchPubMed(context.Background(), ts.Client(), TypePMID, "37012345", cfg); err != nil {
		t.Fatal(err)
	}
	if gotKey != "test-key-123" {
		t.Errorf("api_key param = %q, want test-key-123", gotKey)
	}
}

func TestFetchPubMedFillsIdentifier(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"type": "article-journal", "title": "Bare Response"}`)
	}))
	defer ts.Close()

	origBase := ncbiAPIBase
	ncbiAPIBase = ts.URL + "/"
	defer func() { ncbiAPIBase = origBase }()

	rec, err := FetchPubMed(context.Background(), ts.Client(), TypePMCID, "PMC8012345", testFetchConfig())
	if err != nil {
		t.Fatal(err)
	}
	if rec.PMCID != "PMC8012345" {
		t.Errorf("PMCID = %q, want requested ID filled in", rec.PMCID)
	}
}

func TestFetchPubMedRejectsNonPubMedType(t *testing.T) {
	_, err := FetchPubMed(context.Background(), http.DefaultClient, TypeDOI, "10.1/x", testFetchConfig())
	if err == nil {
		t.Fatal("expected error for non-PubMed identifier type")
	}
}

// --- dispatcher tests ---

func TestFetchClearsID(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, samplePubMedCSL)
	}))
	defer ts.Close()

	origBase := ncbiAPIBase
	ncbiAPIBase = ts.URL + "/"
	defer func() { ncbiAPIBase = origBase }()

	rec, err := Fetch(context.Background(), ts.Client(), "pmid:37012345", testFetchConfig())
	if err != nil {
		t.Fatal(err)
	}
	if rec.ID != "" {
		t.Errorf("ID = %q, want empty so the library assigns a citekey", rec.ID)
	}
	if rec.PMID != "37012345" {
		t.Errorf("PMID = %q", rec.PMID)
	}
}

func TestFetchUnsupportedTypes(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
	}{
		{"isbn", "978-3-16-148410-0"},
		{"url", "https://example.org/paper"},
		{"unknown", "not-an-identifier"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Fetch(context.Background(), http.DefaultClient, tt.identifier, testFetchConfig())
			if err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

// --- batch tests ---

func TestFetchBatch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, sampleCrossRefCSL)
	}))
	defer ts.Close()

	origBase := crossrefAPIBase
	crossrefAPIBase = ts.URL + "/"
	defer func() { crossrefAPIBase = origBase }()

	var buf strings.Builder
	result := FetchBatch(context.Background(), ts.Client(),
		[]string{"10.1234/jmi.2023.0045", "not-an-identifier"},
		testFetchConfig(), &buf)

	if result.Fetched != 1 {
		t.Errorf("Fetched = %d, want 1", result.Fetched)
	}
	if result.Failed != 1 {
		t.Errorf("Failed = %d, want 1", result.Failed)
	}
	if len(result.Records) != 1 {
		t.Fatalf("got %d records, want 1", len(result.Records))
	}
	if !result.HasFailures() {
		t.Error("HasFailures() = false, want true")
	}

	output := buf.String()
	if !strings.Contains(output, "fetched: 10.1234/jmi.2023.0045") {
		t.Errorf("output missing fetched line: %s", output)
	}
	if !strings.Contains(output, "failed:  not-an-identifier") {
		t.Errorf("output missing failed line: %s", output)
	}
	if !strings.Contains(output, "Batch summary: 1 fetched, 1 failed (total: 2)") {
		t.Errorf("output missing summary: %s", output)
	}
}
