package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:     "remove <id...>",
	Aliases: []string{"rm"},
	Short:   "Remove records from the library",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	store, err := openLibrary()
	if err != nil {
		return err
	}
	defer store.Close()

	for _, id := range args {
		if err := store.Delete(context.Background(), id); err != nil {
			return err
		}
		fmt.Printf("removed %s\n", id)
	}
	return nil
}
