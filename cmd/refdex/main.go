// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the refdex CLI.
// Implements: prd001-library, prd002-query, prd003-import-export,
//             prd004-retraction, prd005-picker (CLI surface).
// See docs/ARCHITECTURE § Command Surface, § Project Structure.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/refdex/refdex/internal/library"
	"github.com/refdex/refdex/internal/secrets"
	"github.com/refdex/refdex/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// Defaults applied when neither flags, config file, nor environment set a value.
const (
	defaultTimeout    = 30 * time.Second
	defaultDelay      = 500 * time.Millisecond
	defaultUserAgent  = "refdex/0.1 (https://github.com/refdex/refdex)"
	defaultMaxResults = 50
)

// loadedSecrets holds API keys loaded from the secrets directory at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the refdex CLI.
var rootCmd = &cobra.Command{
	Use:   "refdex",
	Short: "Personal bibliographic reference manager",
	Long: `refdex keeps a personal library of bibliographic references in SQLite and
searches it with a small field-aware query language (author:smith, title:"deep
learning", doi:10.1234/x). Records are CSL-JSON; import and export cover
CSL-JSON, CSL-YAML, BibTeX, and RIS. Metadata can be fetched by DOI, PMID, or
PMCID, and library entries can be checked against OpenAlex for retractions.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(secretsDir())
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./config.yaml or ~/.refdex/config.yaml)")
	rootCmd.PersistentFlags().String("library", "", "library database file (default: ~/.refdex/library.db)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".refdex"))
		}
	}

	viper.SetEnvPrefix("REFDEX")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// secretsDir is ~/.refdex/secrets, one plain-text file per key.
func secretsDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".secrets"
	}
	return filepath.Join(home, ".refdex", "secrets")
}

// libraryPath resolves the database location: --library flag, then the
// library.path config key, then ~/.refdex/library.db.
func libraryPath() string {
	if p, _ := rootCmd.PersistentFlags().GetString("library"); p != "" {
		return p
	}
	if p := viper.GetString("library.path"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "refdex.db"
	}
	return filepath.Join(home, ".refdex", "library.db")
}

func openLibrary() (*library.Store, error) {
	return library.Open(libraryPath())
}

func httpConfig() types.HTTPConfig {
	timeout := viper.GetDuration("http.timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	userAgent := viper.GetString("http.user_agent")
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return types.HTTPConfig{Timeout: timeout, UserAgent: userAgent}
}

func fetchConfig() types.FetchConfig {
	return types.FetchConfig{
		HTTPConfig: httpConfig(),
		MailTo:     secrets.Resolve(loadedSecrets, secrets.KeyCrossRefMailTo, viper.GetString("fetch.mailto")),
		NCBIAPIKey: secrets.Resolve(loadedSecrets, secrets.KeyNCBIAPIKey, viper.GetString("fetch.ncbi_api_key")),
	}
}

func retractionConfig() types.RetractionConfig {
	delay := viper.GetDuration("retraction.request_delay")
	if delay == 0 {
		delay = defaultDelay
	}
	return types.RetractionConfig{
		HTTPConfig:   httpConfig(),
		RequestDelay: delay,
		MailTo:       secrets.Resolve(loadedSecrets, secrets.KeyOpenAlexMailTo, viper.GetString("retraction.mailto")),
	}
}

// maxResults is the display cap for search output.
func maxResults() int {
	if n := viper.GetInt("search.max_results"); n > 0 {
		return n
	}
	return defaultMaxResults
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
