package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/refdex/refdex/internal/convert"
	"github.com/refdex/refdex/internal/fetch"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [identifiers...]",
	Short: "Fetch record metadata by DOI, PMID, or PMCID",
	Long: `Fetch resolves identifiers to full CSL records using public metadata
APIs: DOIs through CrossRef, PMIDs and PMCIDs through the NCBI citation
exporter. Fetched records are imported into the library with generated
citekeys; --json prints them to stdout instead.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().Bool("json", false, "print fetched records as CSL-JSON instead of importing")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more identifiers (DOIs, PMIDs, or PMCIDs)")
	}

	cfg := fetchConfig()
	client := &http.Client{Timeout: cfg.Timeout}

	result := fetch.FetchBatch(context.Background(), client, args, cfg, os.Stderr)

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		if err := convert.EncodeRecords(os.Stdout, result.Records, convert.FormatCSLJSON); err != nil {
			return err
		}
	} else if len(result.Records) > 0 {
		store, err := openLibrary()
		if err != nil {
			return err
		}
		defer store.Close()

		summary, err := store.Import(context.Background(), result.Records, os.Stdout)
		if err != nil {
			return err
		}
		if summary.HasFailures() {
			return fmt.Errorf("%d record(s) failed import", summary.Failed)
		}
	}

	if result.HasFailures() {
		return fmt.Errorf("%d identifier(s) failed", result.Failed)
	}
	return nil
}
