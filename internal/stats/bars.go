package stats

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

const (
	barWidth            = 40
	barLabelWidth       = 32
	barChar             = "#"
	ruleLine            = "----------------------------------------------------------"
	terminalWidthBackup = 80
)

// barColor is forced on; renderBars decides whether to use it.
var barColor = func() *color.Color {
	c := color.New(color.FgCyan)
	c.EnableColor()
	return c
}()

// RenderBars prints a frequency bar chart of the top entries of t.
// Bars are scaled against the largest count.
func RenderBars(w io.Writer, title string, t *Table, topN int) error {
	return renderBars(w, title, t, topN, barsWidthFor(w), shouldUseColor(w))
}

func renderBars(w io.Writer, title string, t *Table, topN, width int, useColor bool) error {
	entries := t.Top(topN)
	total := t.Total()
	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Total items counted: %d\n", total); err != nil {
		return err
	}
	if total == 0 {
		_, err := fmt.Fprintln(w, "No data to display.")
		return err
	}
	if _, err := fmt.Fprintln(w, ruleLine); err != nil {
		return err
	}
	maxCount := 0
	if len(entries) > 0 {
		maxCount = entries[0].Count
	}
	for _, e := range entries {
		barLen := 0
		if maxCount > 0 {
			barLen = e.Count * width / maxCount
		}
		bar := strings.Repeat(barChar, barLen)
		if useColor && bar != "" {
			bar = barColor.Sprint(bar)
		}
		if _, err := fmt.Fprintf(w, "%-8s: %8d (%6.2f%%) | %s\n", "'"+e.Symbol+"'", e.Count, percent(e.Count, total), bar); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, ruleLine)
	return err
}

// BarsWidthFor returns the bar width that fits a total line width.
func BarsWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return barWidth
	}
	width := totalWidth - barLabelWidth
	if width > barWidth {
		width = barWidth
	}
	if width < 1 {
		width = 1
	}
	return width
}

func barsWidthFor(w io.Writer) int {
	file, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return barWidth
	}
	return BarsWidthFor(terminalWidth(file))
}

func terminalWidth(file *os.File) int {
	width, _, err := term.GetSize(int(file.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
