package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "refdex/0.1"). Per prd003-import-export R4.2, prd004-retraction R3.1.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// LibraryConfig holds settings for the record library.
// Per prd001-library R2.1.
type LibraryConfig struct {
	// Path is the SQLite database file holding the library
	// (default "refdex.db" under the config directory).
	Path string `json:"path" yaml:"path"`
}

// SearchConfig holds settings for query evaluation and result display.
// Per prd002-query R6.2.
type SearchConfig struct {
	// MaxResults caps the number of results shown (0 = unlimited).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// FetchConfig holds settings for metadata lookup by identifier.
// Per prd003-import-export R4.1-R4.4.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MailTo is an optional contact address sent to CrossRef for its
	// polite-pool rate tier.
	MailTo string `json:"mailto,omitempty" yaml:"mailto,omitempty"`

	// NCBIAPIKey is an optional API key for the NCBI citation exporter.
	NCBIAPIKey string `json:"ncbi_api_key,omitempty" yaml:"ncbi_api_key,omitempty"`
}

// RetractionConfig holds settings for the retraction check stage.
// Per prd004-retraction R2.1-R2.3.
type RetractionConfig struct {
	HTTPConfig `yaml:",inline"`

	// RequestDelay is the delay between consecutive API calls (default 500ms).
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay"`

	// MailTo is an optional contact address sent to OpenAlex for its
	// polite-pool rate tier.
	MailTo string `json:"mailto,omitempty" yaml:"mailto,omitempty"`
}

// Config groups all stage configurations.
type Config struct {
	Library    LibraryConfig    `json:"library" yaml:"library"`
	Search     SearchConfig     `json:"search" yaml:"search"`
	Fetch      FetchConfig      `json:"fetch" yaml:"fetch"`
	Retraction RetractionConfig `json:"retraction" yaml:"retraction"`
}
