package engine

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"tableDB/internal/sql"
)

// minColumnWidth keeps narrow columns readable.
const minColumnWidth = 8

// Render formats a result for display: the status message for writes, one
// grid per table for reads.
func (r *Result) Render() string {
	if len(r.Tables) == 0 {
		return r.Message
	}

	var b strings.Builder
	for i, t := range r.Tables {
		if i > 0 {
			b.WriteString("\n\n")
		}
		t.render(&b)
	}
	return b.String()
}

// render writes:
//
//	id       | name
//	-----------------
//	1        | Alice
//
//	Total rows: 1
func (t TableResult) render(b *strings.Builder) {
	if t.Heading {
		fmt.Fprintf(b, "Table %s:\n", t.Name)
	}

	widths := make([]int, len(t.Columns))
	for i, c := range t.Columns {
		widths[i] = max(minColumnWidth, utf8.RuneCountInString(c))
	}
	for _, row := range t.Rows {
		for i, v := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], utf8.RuneCountInString(v.String()))
			}
		}
	}

	header := formatLine(t.Columns, widths)
	b.WriteString(header)
	b.WriteByte('\n')
	b.WriteString(strings.Repeat("-", max(utf8.RuneCountInString(header), 1)))
	b.WriteByte('\n')

	cells := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i := range cells {
			cells[i] = cellText(row, i)
		}
		b.WriteString(formatLine(cells, widths))
		b.WriteByte('\n')
	}

	fmt.Fprintf(b, "\nTotal rows: %d", len(t.Rows))
}

func cellText(row sql.Row, i int) string {
	if i >= len(row) {
		return sql.Null().String()
	}
	return row[i].String()
}

// formatLine pads every cell to its column width and joins them with " | ".
// Trailing padding on the last cell is dropped.
func formatLine(cells []string, widths []int) string {
	var b strings.Builder
	for i, c := range cells {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(c)
		if i < len(cells)-1 {
			b.WriteString(strings.Repeat(" ", widths[i]-utf8.RuneCountInString(c)))
		}
	}
	return b.String()
}
