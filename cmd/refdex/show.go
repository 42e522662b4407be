package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one record in full",
	Long: `Show prints the complete stored record for a citekey as CSL-JSON,
or CSL-YAML with --format yaml.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().String("format", "json", "output format: json or yaml")

	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	store, err := openLibrary()
	if err != nil {
		return err
	}
	defer store.Close()

	rec, err := store.Get(context.Background(), args[0])
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "json", "":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	case "yaml":
		data, err := yaml.Marshal(rec)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	default:
		return fmt.Errorf("unsupported format %q: use json or yaml", format)
	}
}
