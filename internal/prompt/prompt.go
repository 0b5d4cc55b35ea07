// Package prompt implements the terminal prompt collaborator the manual
// resolution policy talks to. It owns all rendering and input parsing; the
// policy owns the rules.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/adigandhi/BitVault-Pass-cleaner/internal/dedupe"
	"github.com/adigandhi/BitVault-Pass-cleaner/internal/vault"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	warnStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

// Terminal prompts on a line-oriented terminal, one duplicate group at a
// time.
type Terminal struct {
	In            *bufio.Reader
	Out           io.Writer
	Schema        *vault.Schema
	ShowPasswords bool
}

// New builds a terminal prompter reading from in and writing to out.
func New(in io.Reader, out io.Writer, schema *vault.Schema, showPasswords bool) *Terminal {
	return &Terminal{In: bufio.NewReader(in), Out: out, Schema: schema, ShowPasswords: showPasswords}
}

// Select presents every row of the group and reads a deletion choice:
// comma-separated row numbers to delete, "none"/"k" to keep all, "s" to skip
// the group, "q" to abandon the remaining groups.
func (t *Terminal) Select(g dedupe.Group, attempt int) (dedupe.Selection, error) {
	if attempt == 1 {
		t.present(g)
	}

	for {
		fmt.Fprintf(t.Out, "Rows to delete (1-%d, comma-separated), 'none' to keep all, 's' to skip, 'q' to quit: ", len(g.Rows))
		line, err := t.In.ReadString('\n')
		if err != nil && line == "" {
			if err == io.EOF {
				return dedupe.Selection{Abort: true}, nil
			}
			return dedupe.Selection{}, fmt.Errorf("read selection: %w", err)
		}
		input := strings.ToLower(strings.TrimSpace(line))

		switch input {
		case "":
			fmt.Fprintln(t.Out, "Please enter row numbers, 'none', 's' or 'q'.")
			continue
		case "none", "k":
			return dedupe.Selection{KeepAll: true}, nil
		case "s":
			return dedupe.Selection{Skip: true}, nil
		case "q":
			return dedupe.Selection{Abort: true}, nil
		}

		indices, ok := t.parseSelection(input, g)
		if !ok {
			continue
		}
		return dedupe.Selection{Delete: indices}, nil
	}
}

// Reject reports a refused selection before the group is asked again.
func (t *Terminal) Reject(g dedupe.Group, reason string) {
	fmt.Fprintln(t.Out, warnStyle.Render("Selection refused: "+reason))
	fmt.Fprintln(t.Out, "At least one entry must be kept. Enter 'none' to keep the whole group.")
}

// parseSelection maps 1-based row numbers to original dataset indices.
func (t *Terminal) parseSelection(input string, g dedupe.Group) ([]int, bool) {
	parts := strings.Split(input, ",")
	indices := make([]int, 0, len(parts))
	for _, part := range parts {
		num, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || num < 1 || num > len(g.Rows) {
			fmt.Fprintf(t.Out, "Invalid selection %q: enter numbers between 1 and %d.\n", strings.TrimSpace(part), len(g.Rows))
			return nil, false
		}
		indices = append(indices, g.Rows[num-1].Index)
	}
	return indices, true
}

func (t *Terminal) present(g dedupe.Group) {
	fmt.Fprintln(t.Out)
	fmt.Fprintln(t.Out, headerStyle.Render(fmt.Sprintf("Duplicate group (%d entries)", len(g.Rows))))
	for i, r := range g.Rows {
		fmt.Fprintf(t.Out, "\nRow %d:\n", i+1)
		for _, f := range RenderFields(t.Schema, r, t.ShowPasswords) {
			fmt.Fprintf(t.Out, "  %s %s\n", labelStyle.Render(f.Column+":"), f.Value)
		}
	}
	fmt.Fprintln(t.Out)
}

// Field is one display-ready column value.
type Field struct {
	Column string
	Value  string
}

// RenderFields returns display values for one row in schema order, masking
// the password unless the run asked for clear text. Shared with the
// auto-mode preview.
func RenderFields(schema *vault.Schema, r *vault.Row, showPasswords bool) []Field {
	out := make([]Field, 0, len(schema.Columns))
	for i, col := range schema.Columns {
		val := ""
		if i < len(r.Fields) {
			val = r.Fields[i]
		}
		if !showPasswords && strings.EqualFold(col, vault.ColumnPassword) {
			val = MaskSecret(val)
		}
		out = append(out, Field{Column: col, Value: val})
	}
	return out
}

// MaskSecret hides a secret while keeping its length visible.
func MaskSecret(s string) string {
	return strings.Repeat("*", len(s))
}
