// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package picker

import "github.com/charmbracelet/lipgloss"

// 256-color palette.
const (
	colorAccent = "39"  // cursor row, prompt
	colorGreen  = "42"  // selection markers
	colorGray   = "245" // match annotations, secondary text
	colorDark   = "238" // hints
)

// Styles holds the lipgloss styles for the picker view.
type Styles struct {
	Prompt     lipgloss.Style
	CursorRow  lipgloss.Style
	Row        lipgloss.Style
	Marker     lipgloss.Style
	Citekey    lipgloss.Style
	Annotation lipgloss.Style
	Hint       lipgloss.Style
}

// DefaultStyles returns the colored styles used on capable terminals.
func DefaultStyles() Styles {
	return Styles{
		Prompt:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorAccent)),
		CursorRow:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorAccent)),
		Row:        lipgloss.NewStyle(),
		Marker:     lipgloss.NewStyle().Foreground(lipgloss.Color(colorGreen)),
		Citekey:    lipgloss.NewStyle().Foreground(lipgloss.Color(colorGreen)),
		Annotation: lipgloss.NewStyle().Foreground(lipgloss.Color(colorGray)),
		Hint:       lipgloss.NewStyle().Foreground(lipgloss.Color(colorDark)),
	}
}

// NoColorStyles returns unstyled components for NO_COLOR terminals.
func NoColorStyles() Styles {
	return Styles{
		Prompt:     lipgloss.NewStyle(),
		CursorRow:  lipgloss.NewStyle(),
		Row:        lipgloss.NewStyle(),
		Marker:     lipgloss.NewStyle(),
		Citekey:    lipgloss.NewStyle(),
		Annotation: lipgloss.NewStyle(),
		Hint:       lipgloss.NewStyle(),
	}
}
