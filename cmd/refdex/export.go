package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/refdex/refdex/internal/convert"
	"github.com/refdex/refdex/internal/query"
	"github.com/refdex/refdex/pkg/types"
)

var exportCmd = &cobra.Command{
	Use:   "export [query...]",
	Short: "Export the library to CSL-JSON, CSL-YAML, BibTeX, or RIS",
	Long: `Export writes the library to stdout or --output in the chosen format.
With query arguments, only records matching the query are exported; the
query language is the same as for search.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("format", "csl-json", "output format: csl-json, csl-yaml, bibtex, or ris")
	exportCmd.Flags().String("output", "", "output file (default: stdout)")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	formatName, _ := cmd.Flags().GetString("format")
	format, err := convert.ParseFormat(formatName)
	if err != nil {
		return err
	}

	store, err := openLibrary()
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List(context.Background())
	if err != nil {
		return err
	}

	if len(args) > 0 {
		records, err = filterByQuery(records, strings.Join(args, " "))
		if err != nil {
			return err
		}
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		return convert.EncodeRecords(os.Stdout, records, format)
	}

	if err := convert.WriteFile(output, records, format); err != nil {
		return err
	}
	fmt.Printf("Exported %d record(s) to %s\n", len(records), output)
	return nil
}

func filterByQuery(records []*types.Record, rawQuery string) ([]*types.Record, error) {
	parsed := query.Tokenize(rawQuery)
	if len(parsed.Tokens) == 0 {
		return nil, fmt.Errorf("query %q contains no usable terms", parsed.Original)
	}

	results := query.Search(records, parsed.Tokens)
	matched := make([]*types.Record, 0, len(results))
	for i := range results {
		matched = append(matched, results[i].Record)
	}
	return matched, nil
}
