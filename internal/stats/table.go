package stats

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// column is one aligned output column.
type column struct {
	title string
	right bool
	width int
}

var frequencyColumns = []column{
	{title: "Symbol"},
	{title: "Count", right: true},
	{title: "Share", right: true},
}

// RenderTable prints the top entries of t as aligned Symbol/Count/Share columns.
func RenderTable(w io.Writer, t *Table, topN int) error {
	total := t.Total()
	entries := t.Top(topN)
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No data to display.")
		return err
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.Symbol,
			fmt.Sprintf("%d", e.Count),
			fmt.Sprintf("%.2f%%", percent(e.Count, total)),
		})
	}
	for _, line := range layoutColumns(frequencyColumns, rows) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func percent(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) * 100 / float64(total)
}

// layoutColumns renders a header line plus one line per row. Missing
// cells render empty; cells beyond the declared columns are dropped.
func layoutColumns(cols []column, rows [][]string) []string {
	if len(cols) == 0 {
		return nil
	}
	cols = append([]column(nil), cols...)
	for i := range cols {
		cols[i].width = runewidth.StringWidth(cols[i].title)
		for _, row := range rows {
			if i < len(row) {
				cols[i].width = max(cols[i].width, runewidth.StringWidth(row[i]))
			}
		}
	}

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.title
	}
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, joinCells(cols, header))
	for _, row := range rows {
		lines = append(lines, joinCells(cols, row))
	}
	return lines
}

func joinCells(cols []column, row []string) string {
	cells := make([]string, len(cols))
	for i, c := range cols {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		gap := strings.Repeat(" ", max(0, c.width-runewidth.StringWidth(cell)))
		if c.right {
			cells[i] = gap + cell
		} else {
			cells[i] = cell + gap
		}
	}
	return strings.Join(cells, " ")
}
