// Package stats contains frequency calculations and reporting.
package stats

import (
	"fmt"
	"strings"
)

// Kind selects the n-gram size of a frequency table.
type Kind int

const (
	Unigram Kind = 1
	Digram  Kind = 2
	Trigram Kind = 3
)

// N returns the window size of k.
func (k Kind) N() int {
	return int(k)
}

func (k Kind) String() string {
	switch k {
	case Unigram:
		return "unigram"
	case Digram:
		return "digram"
	case Trigram:
		return "trigram"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind accepts "1", "unigram", "uni" and the digram/trigram equivalents.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "unigram", "uni", "letter", "letters":
		return Unigram, nil
	case "2", "digram", "bigram", "bi":
		return Digram, nil
	case "3", "trigram", "tri":
		return Trigram, nil
	default:
		return 0, fmt.Errorf("unknown frequency kind %q (use unigram, digram or trigram)", s)
	}
}

// Entry is one symbol and its count.
type Entry struct {
	Symbol string
	Count  int
}

// Table counts symbols and remembers the order they were first added.
type Table struct {
	order  []string
	counts map[string]int
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{counts: map[string]int{}}
}

// newLetterTable returns a table with every letter present at count 0.
func newLetterTable(letters string) *Table {
	t := &Table{
		order:  make([]string, 0, len(letters)),
		counts: make(map[string]int, len(letters)),
	}
	for i := 0; i < len(letters); i++ {
		t.Add(letters[i:i+1], 0)
	}
	return t
}

// Add increases the count of sym by n, registering sym if new.
func (t *Table) Add(sym string, n int) {
	if _, ok := t.counts[sym]; !ok {
		t.order = append(t.order, sym)
	}
	t.counts[sym] += n
}

// Count returns the count of sym.
func (t *Table) Count(sym string) int {
	return t.counts[sym]
}

// Len returns the number of distinct symbols.
func (t *Table) Len() int {
	return len(t.order)
}

// Total returns the sum of all counts.
func (t *Table) Total() int {
	total := 0
	for _, c := range t.counts {
		total += c
	}
	return total
}

// Entries returns all symbols in insertion order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.order))
	for i, sym := range t.order {
		out[i] = Entry{Symbol: sym, Count: t.counts[sym]}
	}
	return out
}

// Merge adds every count of other into t. Symbols new to t keep other's order.
func (t *Table) Merge(other *Table) {
	for _, sym := range other.order {
		t.Add(sym, other.counts[sym])
	}
}
