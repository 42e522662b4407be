package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/refdex/refdex/internal/retraction"
)

var retractionsCmd = &cobra.Command{
	Use:   "retractions",
	Short: "Check library records against OpenAlex for retractions",
	Long: `Retractions looks up every record with a DOI in OpenAlex and reports
which have been retracted. Records without a DOI are skipped. The exit
status is non-zero when any record is retracted, so the command can run
from cron or CI.`,
	RunE: runRetractions,
}

func init() {
	retractionsCmd.Flags().Duration("delay", 0, "delay between API requests (default 500ms)")

	rootCmd.AddCommand(retractionsCmd)
}

func runRetractions(cmd *cobra.Command, args []string) error {
	store, err := openLibrary()
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List(context.Background())
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("Library is empty.")
		return nil
	}

	cfg := retractionConfig()
	if delay, _ := cmd.Flags().GetDuration("delay"); delay > 0 {
		cfg.RequestDelay = delay
	}

	client := &http.Client{Timeout: cfg.Timeout}
	_, summary, err := retraction.CheckAll(context.Background(), client, records, cfg, os.Stdout)
	if err != nil {
		return err
	}

	if summary.Errors > 0 {
		return fmt.Errorf("%d record(s) could not be checked", summary.Errors)
	}
	if summary.Retracted > 0 {
		return fmt.Errorf("%d record(s) are retracted", summary.Retracted)
	}
	return nil
}
