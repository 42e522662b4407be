package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/refdex/refdex/internal/query"
	"github.com/refdex/refdex/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Search the library with the field query language",
	Long: `Search tokenizes the query and matches it against every record in the
library. Terms combine with AND; field filters narrow a term to one field
(author:smith, title:"deep learning", year:2023, doi:10.1234/x). Quoted
phrases match as a unit. A run of two or more capital letters makes a term
case-sensitive (DNA will not match dna).`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Int("limit", 0, "maximum results to display (0 = config default)")
	searchCmd.Flags().Bool("json", false, "output results as JSON with match details")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide a query, e.g.: refdex search author:smith 2023")
	}

	parsed := query.Tokenize(strings.Join(args, " "))
	if len(parsed.Tokens) == 0 {
		return fmt.Errorf("query %q contains no usable terms", parsed.Original)
	}

	store, err := openLibrary()
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := store.Search(context.Background(), parsed.Tokens)
	if err != nil {
		return err
	}

	// The engine reports library order; display order is score-descending.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		limit = maxResults()
	}
	if len(results) > limit {
		results = results[:limit]
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSearchOutput(results, jsonOutput)
}

func formatSearchOutput(results []query.SearchResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-24s  %-4s  %-7s  %-20s  %s\n",
		"ID", "Year", "Match", "Authors", "Title")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))

	for _, r := range results {
		id := r.Record.ID
		if len(id) > 24 {
			id = id[:21] + "..."
		}
		authors := recordAuthors(r.Record)
		if len(authors) > 20 {
			authors = authors[:17] + "..."
		}
		title := r.Record.Title
		if len(title) > 42 {
			title = title[:39] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-24s  %-4s  %-7s  %-20s  %s\n",
			id, recordYear(r.Record), r.OverallStrength, authors, title)
	}

	fmt.Fprintf(os.Stdout, "\n%d records\n", len(results))
	return nil
}

// --- shared record display helpers ---

func recordYear(rec *types.Record) string {
	if y := rec.Issued.Year(); y > 0 {
		return strconv.Itoa(y)
	}
	return ""
}

func recordAuthors(rec *types.Record) string {
	if len(rec.Author) == 0 {
		return ""
	}
	first := rec.Author[0].Family
	if first == "" {
		first = rec.Author[0].Literal
	}
	if len(rec.Author) > 1 {
		return first + " et al."
	}
	return first
}
