// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package picker

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/refdex/refdex/internal/query"
	"github.com/refdex/refdex/pkg/types"
)

// maxVisible caps the result rows drawn below the input.
const maxVisible = 10

// row is one display line: a record plus the token matches that put it
// there. matches is nil when the list shows the whole library.
type row struct {
	record  *types.Record
	matches []query.TokenMatch
}

// model drives the interactive picker. The text input keeps focus for the
// whole session; every keystroke that changes the query re-runs the search
// engine over the in-memory records.
type model struct {
	input    textinput.Model
	records  []*types.Record
	rows     []row
	cursor   int
	offset   int
	selected map[string]bool
	styles   Styles
	accepted bool
}

func newModel(records []*types.Record, initialQuery string, styles Styles) *model {
	ti := textinput.New()
	ti.Prompt = "search> "
	ti.PromptStyle = styles.Prompt
	ti.SetValue(initialQuery)
	ti.Focus()

	m := &model{
		input:    ti,
		records:  records,
		selected: make(map[string]bool),
		styles:   styles,
	}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m *model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model. Tab toggles selection rather than space:
// space is a legitimate query character separating tokens.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			m.accepted = true
			return m, tea.Quit
		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			m.clampOffset()
			return m, nil
		case "down", "ctrl+n":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}
			m.clampOffset()
			return m, nil
		case "tab":
			m.toggle()
			return m, nil
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.refresh()
	}
	return m, cmd
}

// refresh recomputes the visible rows from the current query. A blank query
// lists the whole library; the engine itself matches nothing for an empty
// token list, so that case never reaches it.
func (m *model) refresh() {
	parsed := query.Tokenize(m.input.Value())
	if len(parsed.Tokens) == 0 {
		m.rows = make([]row, len(m.records))
		for i, rec := range m.records {
			m.rows[i] = row{record: rec}
		}
	} else {
		results := query.Search(m.records, parsed.Tokens)
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Score > results[j].Score
		})
		m.rows = make([]row, len(results))
		for i := range results {
			m.rows[i] = row{record: results[i].Record, matches: results[i].TokenMatches}
		}
	}

	if m.cursor > len(m.rows)-1 {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.clampOffset()
}

// clampOffset keeps the cursor inside the visible window.
func (m *model) clampOffset() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+maxVisible {
		m.offset = m.cursor - maxVisible + 1
	}
}

func (m *model) toggle() {
	if len(m.rows) == 0 {
		return
	}
	id := m.rows[m.cursor].record.ID
	if m.selected[id] {
		delete(m.selected, id)
	} else {
		m.selected[id] = true
	}
}

// selection returns the accepted records: the toggled set in library order,
// or the record under the cursor when nothing was toggled.
func (m *model) selection() []*types.Record {
	if len(m.selected) == 0 {
		if len(m.rows) == 0 {
			return nil
		}
		return []*types.Record{m.rows[m.cursor].record}
	}

	var out []*types.Record
	for _, rec := range m.records {
		if m.selected[rec.ID] {
			out = append(out, rec)
		}
	}
	return out
}

// View implements tea.Model.
func (m *model) View() string {
	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(m.styles.Annotation.Render("no matches"))
		b.WriteString("\n")
	}

	end := m.offset + maxVisible
	if end > len(m.rows) {
		end = len(m.rows)
	}
	for i := m.offset; i < end; i++ {
		b.WriteString(m.renderRow(i))
		b.WriteString("\n")

		// Matched-field annotations under the cursor row only.
		if i == m.cursor && len(m.rows[i].matches) > 0 {
			b.WriteString(m.styles.Annotation.Render("        " + annotate(m.rows[i].matches)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Hint.Render(m.statusLine()))
	b.WriteString("\n")
	return b.String()
}

func (m *model) renderRow(i int) string {
	r := m.rows[i]

	marker := "[ ]"
	if m.selected[r.record.ID] {
		marker = "[x]"
	}

	title := r.record.Title
	if y := r.record.Issued.Year(); y > 0 {
		title = fmt.Sprintf("%s (%d)", title, y)
	}
	entry := fmt.Sprintf("%s  %s", r.record.ID, title)

	var line strings.Builder
	if i == m.cursor {
		line.WriteString(m.styles.CursorRow.Render("> "))
	} else {
		line.WriteString("  ")
	}
	line.WriteString(m.styles.Marker.Render(marker))
	line.WriteString(" ")
	if i == m.cursor {
		line.WriteString(m.styles.CursorRow.Render(entry))
	} else {
		line.WriteString(m.styles.Row.Render(entry))
	}
	return line.String()
}

func (m *model) statusLine() string {
	return fmt.Sprintf("%d/%d records  •  %d selected  •  tab select, enter accept, esc cancel",
		len(m.rows), len(m.records), len(m.selected))
}

// annotate summarizes which fields satisfied each token, in token order,
// e.g. "author: Smith Jane (exact); year: 2023 (exact)".
func annotate(matches []query.TokenMatch) string {
	var parts []string
	for _, tm := range matches {
		if len(tm.Matches) == 0 {
			continue
		}
		fm := tm.Matches[0]
		parts = append(parts, fmt.Sprintf("%s: %s (%s)", fm.Field, fm.Value, fm.Strength))
	}
	return strings.Join(parts, "; ")
}
