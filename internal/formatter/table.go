package formatter

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Align controls cell padding within a column.
type Align int

// Column alignments.
const (
	AlignLeft Align = iota
	AlignRight
)

// Column describes one rendered column.
type Column struct {
	Title string
	Align Align
	// MaxWidth truncates wider cells with an ellipsis; 0 means unlimited.
	MaxWidth int
}

// RenderTable renders a markdown-style pipe table whose columns are padded to
// the widest cell by display width, so CJK and emoji cells stay aligned.
func RenderTable(cols []Column, rows [][]string) string {
	if len(cols) == 0 {
		return ""
	}

	cells := make([][]string, 0, len(rows)+1)

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.Title
	}

	cells = append(cells, header)

	for _, row := range rows {
		out := make([]string, len(cols))

		for i := range cols {
			if i < len(row) {
				out[i] = strings.TrimSpace(row[i])
			}

			if cols[i].MaxWidth > 0 {
				out[i] = runewidth.Truncate(out[i], cols[i].MaxWidth, "…")
			}
		}

		cells = append(cells, out)
	}

	widths := make([]int, len(cols))
	for _, row := range cells {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	// Separator needs at least "---".
	for i := range widths {
		if widths[i] < 3 {
			widths[i] = 3
		}
	}

	var sb strings.Builder

	writeRow := func(row []string) {
		sb.WriteString("|")

		for i, cell := range row {
			sb.WriteString(" ")

			padding := strings.Repeat(" ", widths[i]-runewidth.StringWidth(cell))
			if cols[i].Align == AlignRight {
				sb.WriteString(padding + cell)
			} else {
				sb.WriteString(cell + padding)
			}

			sb.WriteString(" |")
		}

		sb.WriteString("\n")
	}

	writeRow(cells[0])

	sb.WriteString("|")

	for i, w := range widths {
		if cols[i].Align == AlignRight {
			sb.WriteString(" " + strings.Repeat("-", w-1) + ": |")
		} else {
			sb.WriteString(" " + strings.Repeat("-", w) + " |")
		}
	}

	sb.WriteString("\n")

	for _, row := range cells[1:] {
		writeRow(row)
	}

	return sb.String()
}
