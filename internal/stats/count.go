package stats

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/cipherlab/internal/alphabet"
)

// Segment is a positional window [Start, Start+Length) inside every
// BlockSize-sized block.
type Segment struct {
	BlockSize int
	Start     int
	Length    int
}

// Named segments of the reference block layout.
var (
	CaesarSegment       = Segment{BlockSize: 9, Start: 0, Length: 3}
	SubstitutionSegment = Segment{BlockSize: 9, Start: 3, Length: 6}
)

// ParseSegment accepts "caesar", "substitution" or "blockSize,start,length".
func ParseSegment(s string) (Segment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "caesar", "c3":
		return CaesarSegment, nil
	case "substitution", "subst", "s6":
		return SubstitutionSegment, nil
	}
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	if len(fields) != 3 {
		return Segment{}, fmt.Errorf("invalid segment %q (use caesar, substitution or blockSize,start,length)", s)
	}
	var vals [3]int
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return Segment{}, fmt.Errorf("invalid segment %q: %w", s, err)
		}
		vals[i] = v
	}
	seg := Segment{BlockSize: vals[0], Start: vals[1], Length: vals[2]}
	if !seg.valid() {
		return Segment{}, fmt.Errorf("invalid segment %q: block size and length must be positive, start inside the block", s)
	}
	return seg, nil
}

func (s Segment) String() string {
	return fmt.Sprintf("%d,%d,%d", s.BlockSize, s.Start, s.Length)
}

// valid requires the window to start inside the block. A longer Length is
// clipped to the block end when counting.
func (s Segment) valid() bool {
	return s.BlockSize > 0 && s.Start >= 0 && s.Start < s.BlockSize && s.Length > 0
}

// Analyzer counts n-grams. The zero value counts sequentially over a..z.
type Analyzer struct {
	// Letters seeds unigram tables; alphabet.Latin when empty.
	Letters string
	// ParallelThreshold is the text length from which counting is split
	// across goroutines. Zero disables parallel counting.
	ParallelThreshold int
	// Workers caps the number of ranges; runtime.NumCPU when zero.
	Workers int
}

// CountUnigrams counts single letters over the whole text.
func CountUnigrams(text string) *Table {
	return Analyzer{}.Count(text, Unigram)
}

// CountDigrams counts overlapping letter pairs.
func CountDigrams(text string) *Table {
	return Analyzer{}.Count(text, Digram)
}

// CountTrigrams counts overlapping letter triples.
func CountTrigrams(text string) *Table {
	return Analyzer{}.Count(text, Trigram)
}

// CountSegmented counts n-grams that lie entirely inside the
// [start, start+length) window of every blockSize block.
func CountSegmented(text string, blockSize, start, length, n int) *Table {
	return Analyzer{}.CountSegmented(text, Segment{BlockSize: blockSize, Start: start, Length: length}, Kind(n))
}

// Count counts n-grams of kind k over the whole text.
func (a Analyzer) Count(text string, k Kind) *Table {
	t, _ := a.CountContext(context.Background(), text, k, nil)
	return t
}

// CountSegmented counts n-grams of kind k restricted to seg.
func (a Analyzer) CountSegmented(text string, seg Segment, k Kind) *Table {
	t, _ := a.CountContext(context.Background(), text, k, &seg)
	return t
}

// CountContext counts n-grams, optionally restricted to seg. Long texts are
// split into block-aligned ranges whose tables are merged by addition.
func (a Analyzer) CountContext(ctx context.Context, text string, k Kind, seg *Segment) (*Table, error) {
	n := k.N()
	base := NewTable()
	if k == Unigram {
		letters := a.Letters
		if letters == "" {
			letters = alphabet.Latin
		}
		base = newLetterTable(letters)
	}
	if n <= 0 || len(text) < n || (seg != nil && !seg.valid()) {
		return base, nil
	}

	ranges := a.split(len(text), seg)
	if len(ranges) == 1 {
		countRange(base, text, 0, len(text), n, seg)
		return base, nil
	}

	parts := make([]*Table, len(ranges))
	g, gctx := errgroup.WithContext(ctx)
	for i, r := range ranges {
		i, r := i, r
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			part := NewTable()
			countRange(part, text, r[0], r[1], n, seg)
			parts[i] = part
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, part := range parts {
		base.Merge(part)
	}
	return base, nil
}

// split returns [lo, hi) ranges of n-gram start positions.
func (a Analyzer) split(length int, seg *Segment) [][2]int {
	if a.ParallelThreshold <= 0 || length < a.ParallelThreshold {
		return [][2]int{{0, length}}
	}
	workers := a.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers < 2 {
		return [][2]int{{0, length}}
	}
	align := 9
	if seg != nil {
		align = seg.BlockSize
	}
	if align >= length {
		return [][2]int{{0, length}}
	}
	chunk := (length + workers - 1) / workers
	chunk = ((chunk + align - 1) / align) * align
	var ranges [][2]int
	for lo := 0; lo < length; lo += chunk {
		hi := lo + chunk
		if hi > length {
			hi = length
		}
		ranges = append(ranges, [2]int{lo, hi})
	}
	return ranges
}

// countRange counts n-grams starting in [lo, hi) into t.
func countRange(t *Table, text string, lo, hi, n int, seg *Segment) {
	if seg == nil {
		last := len(text) - n
		if hi-1 < last {
			last = hi - 1
		}
		for p := lo; p <= last; p++ {
			t.Add(text[p:p+n], 1)
		}
		return
	}
	bs := seg.BlockSize
	length := min(seg.Length, bs-seg.Start)
	for blockStart := (lo / bs) * bs; blockStart < hi; blockStart += bs {
		winStart := blockStart + seg.Start
		winEnd := winStart + length
		if winEnd > len(text) {
			winEnd = len(text)
		}
		for p := winStart; p+n <= winEnd; p++ {
			if p < lo || p >= hi {
				continue
			}
			t.Add(text[p:p+n], 1)
		}
	}
}
