package engine

import (
	"fmt"
	"strings"
)

// RenderPreview formats up to maxRows of the result as an aligned text table.
// maxRows <= 0 renders every row. A truncated preview reports the hidden row
// count on a trailing line.
func RenderPreview(result Result, maxRows int) string {
	rows := result.Rows
	truncated := 0
	if maxRows > 0 && len(rows) > maxRows {
		truncated = len(rows) - maxRows
		rows = rows[:maxRows]
	}

	widths := make([]int, len(result.Columns))
	for i, column := range result.Columns {
		widths[i] = len(column)
	}
	cells := make([][]string, len(rows))
	for r, row := range rows {
		cells[r] = make([]string, len(result.Columns))
		for c := range result.Columns {
			text := "NULL"
			if c < len(row) && row[c] != nil {
				text = fmt.Sprintf("%v", row[c])
			}
			cells[r][c] = text
			if len(text) > widths[c] {
				widths[c] = len(text)
			}
		}
	}

	var b strings.Builder
	writeRow := func(values []string) {
		for i, value := range values {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(value)
			b.WriteString(strings.Repeat(" ", widths[i]-len(value)))
		}
		b.WriteString("\n")
	}

	writeRow(result.Columns)
	separators := make([]string, len(result.Columns))
	for i, width := range widths {
		separators[i] = strings.Repeat("-", width)
	}
	writeRow(separators)
	for _, row := range cells {
		writeRow(row)
	}
	if truncated > 0 {
		fmt.Fprintf(&b, "... %d more rows\n", truncated)
	}
	return b.String()
}
