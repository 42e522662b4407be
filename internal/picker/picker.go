// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package picker provides an interactive terminal picker over library
// records: a live query prompt backed by the search engine, with
// multi-select. Implements: prd005-picker (R1-R3).
package picker

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/refdex/refdex/pkg/types"
)

// Run opens the picker over records and blocks until the user accepts or
// cancels. It returns the accepted records, or nil when the user cancelled.
// initialQuery pre-fills the prompt.
func Run(records []*types.Record, initialQuery string) ([]*types.Record, error) {
	if !isTTY(os.Stdout) {
		return nil, fmt.Errorf("stdout is not a terminal; use 'refdex search' for scripted queries")
	}

	styles := DefaultStyles()
	if noColor() {
		styles = NoColorStyles()
	}

	final, err := tea.NewProgram(newModel(records, initialQuery, styles)).Run()
	if err != nil {
		return nil, fmt.Errorf("running picker: %w", err)
	}

	m := final.(*model)
	if !m.accepted {
		return nil, nil
	}
	return m.selection(), nil
}

// isTTY reports whether w is an interactive terminal.
func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// noColor honors the NO_COLOR convention.
func noColor() bool {
	_, set := os.LookupEnv("NO_COLOR")
	return set
}
