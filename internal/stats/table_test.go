package stats

import (
	"bytes"
	"strings"
	"testing"
)

func TestLayoutColumnsAligns(t *testing.T) {
	rows := [][]string{
		{"e", "120", "12.50%"},
		{"th", "7"},
	}

	lines := layoutColumns(frequencyColumns, rows)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Symbol Count  Share" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "e        120 12.50%" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "th         7       " {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestRenderTableSortsEntries(t *testing.T) {
	table := NewTable()
	table.Add("a", 1)
	table.Add("b", 3)
	var buf bytes.Buffer
	if err := RenderTable(&buf, table, 1); err != nil {
		t.Fatalf("RenderTable failed: %v", err)
	}
	want := "Symbol Count  Share\nb          3 75.00%\n"
	if buf.String() != want {
		t.Fatalf("expected %q, got %q", want, buf.String())
	}
}

func TestRenderTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderTable(&buf, NewTable(), 10); err != nil {
		t.Fatalf("RenderTable failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No data to display.") {
		t.Fatalf("expected empty notice, got %q", buf.String())
	}
}

func TestRenderBars(t *testing.T) {
	table := NewTable()
	table.Add("a", 4)
	table.Add("b", 2)
	table.Add("c", 0)

	var buf bytes.Buffer
	if err := renderBars(&buf, "Letters", table, 2, 40, false); err != nil {
		t.Fatalf("renderBars failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Letters\n",
		"Total items counted: 6\n",
		"'a'     :        4 ( 66.67%) | " + strings.Repeat("#", 40) + "\n",
		"'b'     :        2 ( 33.33%) | " + strings.Repeat("#", 20) + "\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "'c'") {
		t.Fatalf("expected top-2 truncation, got:\n%s", out)
	}
}

func TestRenderBarsColor(t *testing.T) {
	table := NewTable()
	table.Add("a", 2)
	table.Add("b", 1)

	var buf bytes.Buffer
	if err := renderBars(&buf, "", table, 2, 10, true); err != nil {
		t.Fatalf("renderBars failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"| \x1b[36m" + strings.Repeat("#", 10) + "\x1b[0m\n",
		"| \x1b[36m" + strings.Repeat("#", 5) + "\x1b[0m\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected colored bar %q in output:\n%q", want, out)
		}
	}
}

func TestRenderBarsNoData(t *testing.T) {
	var buf bytes.Buffer
	if err := renderBars(&buf, "", CountUnigrams(""), 26, 40, false); err != nil {
		t.Fatalf("renderBars failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No data to display.") {
		t.Fatalf("expected empty notice, got %q", buf.String())
	}
}

func TestBarsWidthFor(t *testing.T) {
	if got := BarsWidthFor(0); got != barWidth {
		t.Fatalf("expected default width %d, got %d", barWidth, got)
	}
	if got := BarsWidthFor(200); got != barWidth {
		t.Fatalf("expected capped width %d, got %d", barWidth, got)
	}
	if got := BarsWidthFor(50); got != 50-barLabelWidth {
		t.Fatalf("expected width %d, got %d", 50-barLabelWidth, got)
	}
}
