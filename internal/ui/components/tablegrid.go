package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// GridColumn is one column of a Grid. Width is the content width without
// separators; the last column absorbs whatever space is left.
type GridColumn struct {
	Header string
	Width  int
	Align  lipgloss.Position
}

const gridLeftOffset = 2

var (
	gridLineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#273540"))

	gridActiveRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#d7d9da")).
				Background(lipgloss.Color("#1f2530")).
				Bold(true)

	gridActiveSepStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#273540")).
				Background(lipgloss.Color("#1f2530"))
)

// Grid renders rows under a header with the rounded border glyphs the boxes
// use. active highlights one row by index, -1 for none. Every line is
// exactly width cells wide.
func Grid(columns []GridColumn, rows [][]string, width, active int) string {
	if width <= 0 {
		return ""
	}
	if len(columns) == 0 {
		return padRight("", width)
	}

	border := lipgloss.RoundedBorder()
	cols := fitGridColumns(columns, width)

	out := make([]string, 0, len(rows)+2)
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = SanitizeOneLine(c.Header)
	}
	out = append(out, gridRow(cols, header, border.Left, width, gridHeader))
	out = append(out, gridRule(cols, border.Middle, border.Top, width))
	for i, row := range rows {
		kind := gridPlain
		if i == active {
			kind = gridActive
		}
		out = append(out, gridRow(cols, row, border.Left, width, kind))
	}
	return strings.Join(out, "\n")
}

type gridRowKind int

const (
	gridPlain gridRowKind = iota
	gridHeader
	gridActive
)

// fitGridColumns stretches or shrinks the last column so the row fills width.
func fitGridColumns(columns []GridColumn, width int) []GridColumn {
	fitted := make([]GridColumn, len(columns))
	copy(fitted, columns)

	content := max(width-gridLeftOffset, len(fitted))
	used := len(fitted) - 1 // separators
	for i := range fitted {
		fitted[i].Width = max(fitted[i].Width, 1)
		used += fitted[i].Width
	}
	last := &fitted[len(fitted)-1]
	last.Width = max(last.Width+content-used, 1)
	return fitted
}

func gridRow(columns []GridColumn, cells []string, sep string, width int, kind gridRowKind) string {
	sepStyle := gridLineStyle
	if kind == gridActive {
		sepStyle = gridActiveSepStyle
	}
	sepStyled := sepStyle.Inline(true).Render(sep)

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", gridLeftOffset))
	for i, col := range columns {
		if i > 0 {
			b.WriteString(sepStyled)
		}
		text := ""
		if i < len(cells) {
			text = SanitizeOneLine(cells[i])
		}
		cell := gridCell(text, col.Width, col.Align)
		switch kind {
		case gridHeader:
			cell = boxLabelStyle.Bold(true).Inline(true).Render(cell)
		case gridActive:
			cell = gridActiveRowStyle.Inline(true).Render(cell)
		}
		b.WriteString(cell)
	}
	return padRight(b.String(), width)
}

func gridRule(columns []GridColumn, cross, horiz string, width int) string {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", gridLeftOffset))
	for i, col := range columns {
		if i > 0 {
			b.WriteString(cross)
		}
		b.WriteString(strings.Repeat(horiz, col.Width))
	}
	return gridLineStyle.Inline(true).Render(padRight(b.String(), width))
}

func gridCell(text string, width int, align lipgloss.Position) string {
	clamped := ClampTextWidth(text, width)
	if lipgloss.Width(clamped) >= width {
		return truncateRunes(clamped, width)
	}
	pad := width - lipgloss.Width(clamped)
	switch align {
	case lipgloss.Right:
		return strings.Repeat(" ", pad) + clamped
	case lipgloss.Center:
		left := pad / 2
		return strings.Repeat(" ", left) + clamped + strings.Repeat(" ", pad-left)
	}
	return clamped + strings.Repeat(" ", pad)
}
