package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/cipherlab/internal/attack"
	"github.com/verte-zerg/cipherlab/internal/guess"
	"github.com/verte-zerg/cipherlab/internal/wordlist"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

func styleFor(r rune) lipgloss.Style {
	switch r {
	case attack.MaskChar:
		return maskStyle
	case guess.Unknown:
		return unknownStyle
	default:
		return knownStyle
	}
}

// buildStyledRunes styles a block view. Block separators become wrap points.
func buildStyledRunes(text string) []styledRune {
	out := make([]styledRune, 0, len(text))
	for _, r := range text {
		if r == wordlist.BlockSeparator {
			out = append(out, blockSpace)
			continue
		}
		out = append(out, styledRune{
			s:     styleFor(r).Render(string(r)),
			width: runewidth.RuneWidth(r),
		})
	}
	return out
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyledRunes fills lines greedily with whole blocks. A block wider
// than width is hard broken.
func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var lines []string
	line := make([]styledRune, 0, width)
	lineWidth := 0
	flush := func() {
		lines = append(lines, renderStyledRunes(line))
		line = line[:0]
		lineWidth = 0
	}

	for _, block := range splitBlocks(runes) {
		if lineWidth > 0 && lineWidth+1+lineWidthOf(block) > width {
			flush()
		}
		if lineWidth > 0 {
			line = append(line, blockSpace)
			lineWidth += blockSpace.width
		}
		for _, item := range block {
			if lineWidth > 0 && lineWidth+item.width > width {
				flush()
			}
			line = append(line, item)
			lineWidth += item.width
		}
	}
	if len(line) > 0 || len(lines) == 0 {
		flush()
	}
	return strings.Join(lines, "\n")
}

var blockSpace = styledRune{s: " ", width: 1, isSpace: true}

// splitBlocks drops separators and returns the non-empty blocks between them.
func splitBlocks(runes []styledRune) [][]styledRune {
	var blocks [][]styledRune
	start := 0
	for i, item := range runes {
		if item.isSpace {
			if i > start {
				blocks = append(blocks, runes[start:i])
			}
			start = i + 1
		}
	}
	if start < len(runes) {
		blocks = append(blocks, runes[start:])
	}
	return blocks
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}
