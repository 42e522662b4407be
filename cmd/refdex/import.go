package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/refdex/refdex/internal/convert"
	"github.com/refdex/refdex/pkg/types"
)

var importCmd = &cobra.Command{
	Use:     "import [files...]",
	Aliases: []string{"add"},
	Short:   "Import records from CSL-JSON, CSL-YAML, BibTeX, or RIS files",
	Long: `Import decodes bibliographic records from files and stores them in the
library. The format is taken from the file extension (.json, .yaml, .bib,
.ris) unless --format overrides it; - reads CSL-JSON from stdin. Records
without an id get a generated citekey; records whose id already exists are
updated in place, and byte-identical records are skipped.`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().String("format", "", "input format: csl-json or csl-yaml (default: by extension)")

	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more files to import, or - for stdin")
	}

	formatName, _ := cmd.Flags().GetString("format")
	var format convert.Format
	if formatName != "" {
		var err error
		format, err = convert.ParseFormat(formatName)
		if err != nil {
			return err
		}
	}

	var records []*types.Record
	for _, path := range args {
		recs, err := readRecords(path, format)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		records = append(records, recs...)
	}

	store, err := openLibrary()
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Import(context.Background(), records, os.Stdout)
	if err != nil {
		return err
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d record(s) failed import", summary.Failed)
	}
	return nil
}

func readRecords(path string, format convert.Format) ([]*types.Record, error) {
	if path == "-" {
		if format == "" {
			format = convert.FormatCSLJSON
		}
		return convert.DecodeRecords(os.Stdin, format)
	}
	return convert.ReadFile(path, format)
}
