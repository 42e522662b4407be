package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/refdex/refdex/internal/picker"
)

var pickCmd = &cobra.Command{
	Use:   "pick [query...]",
	Short: "Interactively pick records from the library",
	Long: `Pick opens an interactive prompt over the library. Typing filters with
the same query language as search; up/down move, tab toggles selection,
enter accepts, esc cancels. Accepted citekeys are printed one per line,
so pick composes with show, export, and xargs. With --remove the accepted
records are deleted instead. Query arguments pre-fill the prompt.`,
	RunE: runPick,
}

func init() {
	pickCmd.Flags().Bool("remove", false, "delete the accepted records instead of printing them")

	rootCmd.AddCommand(pickCmd)
}

func runPick(cmd *cobra.Command, args []string) error {
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
		return fmt.Errorf("library is empty")
	}

	selected, err := picker.Run(records, strings.Join(args, " "))
	if err != nil {
		return err
	}
	if len(selected) == 0 {
		fmt.Fprintln(os.Stderr, "nothing selected")
		return nil
	}

	if removeSelected, _ := cmd.Flags().GetBool("remove"); removeSelected {
		for _, rec := range selected {
			if err := store.Delete(context.Background(), rec.ID); err != nil {
				return err
			}
			fmt.Printf("removed %s\n", rec.ID)
		}
		return nil
	}

	for _, rec := range selected {
		fmt.Println(rec.ID)
	}
	return nil
}
