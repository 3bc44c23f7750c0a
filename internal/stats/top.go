package stats

import "sort"

// Sorted returns entries by descending count; ties keep insertion order.
func (t *Table) Sorted() []Entry {
	entries := t.Entries()
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	return entries
}

// Top returns the first n entries of Sorted. n <= 0 returns all of them.
func (t *Table) Top(n int) []Entry {
	entries := t.Sorted()
	if n <= 0 || n > len(entries) {
		return entries
	}
	return entries[:n]
}
