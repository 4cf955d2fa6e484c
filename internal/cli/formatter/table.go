package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const colGap = 2

// Column describes one table column. Numeric columns (counts, completion)
// are right-aligned so their digits line up.
type Column struct {
	Title   string
	Numeric bool
}

// Col is a left-aligned column.
func Col(title string) Column { return Column{Title: title} }

// NumCol is a right-aligned column.
func NumCol(title string) Column { return Column{Title: title, Numeric: true} }

// RenderTable renders rows under a styled header and a dim rule. Widths are
// measured on visible text, so styled cells align too. Missing cells render
// empty and extra cells are dropped.
func RenderTable(cols []Column, rows [][]string) string {
	if len(cols) == 0 {
		return ""
	}

	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = lipgloss.Width(c.Title)
	}
	for _, row := range rows {
		for i := 0; i < len(cols) && i < len(row); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	var b strings.Builder
	writeRow := func(cells []string, style func(string) string) {
		for i, c := range cols {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			last := i == len(cols)-1
			b.WriteString(alignCell(style(cell), lipgloss.Width(cell), widths[i], c.Numeric, last))
			if !last {
				b.WriteString(strings.Repeat(" ", colGap))
			}
		}
		b.WriteString("\n")
	}

	titles := make([]string, len(cols))
	for i, c := range cols {
		titles[i] = c.Title
	}
	writeRow(titles, func(s string) string { return StyleHeader.Render(s) })

	rules := make([]string, len(cols))
	for i, w := range widths {
		rules[i] = strings.Repeat("─", w)
	}
	writeRow(rules, Dim)

	for _, row := range rows {
		writeRow(row, func(s string) string { return s })
	}
	return b.String()
}

// alignCell pads an already styled cell to width. A trailing left-aligned
// cell is not padded.
func alignCell(styled string, visible, width int, right, last bool) string {
	pad := max(width-visible, 0)
	if right {
		return strings.Repeat(" ", pad) + styled
	}
	if last {
		return styled
	}
	return styled + strings.Repeat(" ", pad)
}
