package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/refdex/refdex/internal/convert"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every record in the library",
	Long: `List prints the whole library in insertion order: one line per record
with its citekey, year, authors, and title. Use --json for the full
CSL-JSON records.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().Bool("json", false, "output records as a CSL-JSON array")

	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	store, err := openLibrary()
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List(context.Background())
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return convert.EncodeRecords(os.Stdout, records, convert.FormatCSLJSON)
	}

	if len(records) == 0 {
		fmt.Println("Library is empty.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-24s  %-4s  %-20s  %s\n", "ID", "Year", "Authors", "Title")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))

	for _, rec := range records {
		id := rec.ID
		if len(id) > 24 {
			id = id[:21] + "..."
		}
		authors := recordAuthors(rec)
		if len(authors) > 20 {
			authors = authors[:17] + "..."
		}
		title := rec.Title
		if len(title) > 46 {
			title = title[:43] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-24s  %-4s  %-20s  %s\n", id, recordYear(rec), authors, title)
	}

	fmt.Fprintf(os.Stdout, "\n%d records\n", len(records))
	return nil
}
