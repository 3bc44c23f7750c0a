package stats

import (
	"math"
	"math/rand"
	"strings"
	"testing"
	"time"
)

func TestCountUnigramsReportsAbsentLetters(t *testing.T) {
	table := CountUnigrams("abca")
	if table.Len() != 26 {
		t.Fatalf("expected 26 letters, got %d", table.Len())
	}
	if table.Count("a") != 2 || table.Count("z") != 0 {
		t.Fatalf("unexpected counts: a=%d z=%d", table.Count("a"), table.Count("z"))
	}
	if table.Total() != 4 {
		t.Fatalf("expected total 4, got %d", table.Total())
	}
}

func TestCountNGramsOverlap(t *testing.T) {
	di := CountDigrams("aaab")
	if di.Count("aa") != 2 || di.Count("ab") != 1 || di.Len() != 2 {
		t.Fatalf("unexpected digrams: %+v", di.Entries())
	}
	tri := CountTrigrams("abcab")
	if tri.Total() != 3 {
		t.Fatalf("expected 3 trigrams, got %d", tri.Total())
	}
	if CountTrigrams("ab").Total() != 0 || CountDigrams("a").Total() != 0 {
		t.Fatalf("expected no n-grams for short text")
	}
}

func TestSegmentsPartitionUnigrams(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	text := randomText(rnd, 9*40)
	all := CountUnigrams(text)
	caesar := CountSegmented(text, 9, 0, 3, 1)
	subst := CountSegmented(text, 9, 3, 6, 1)
	for _, e := range all.Entries() {
		if got := caesar.Count(e.Symbol) + subst.Count(e.Symbol); got != e.Count {
			t.Fatalf("letter %s: segments sum %d, overall %d", e.Symbol, got, e.Count)
		}
	}
	if caesar.Total() != 120 || subst.Total() != 240 {
		t.Fatalf("unexpected segment totals %d/%d", caesar.Total(), subst.Total())
	}
}

func TestCountSegmentedClipsAtTextEnd(t *testing.T) {
	// second block holds only "jk" inside the substitution window
	text := "abcdefghi" + "xyzjk"
	table := CountSegmented(text, 9, 3, 6, 1)
	if table.Total() != 8 {
		t.Fatalf("expected 8 letters, got %d", table.Total())
	}
	if table.Count("x") != 0 || table.Count("j") != 1 {
		t.Fatalf("unexpected counts x=%d j=%d", table.Count("x"), table.Count("j"))
	}
}

func TestCountSegmentedNGramsStayInsideWindow(t *testing.T) {
	text := "abcdefghi" + "jklmnopqr"
	table := CountSegmented(text, 9, 0, 3, 2)
	want := map[string]int{"ab": 1, "bc": 1, "jk": 1, "kl": 1}
	if table.Len() != len(want) {
		t.Fatalf("expected %d digrams, got %+v", len(want), table.Entries())
	}
	for sym, c := range want {
		if table.Count(sym) != c {
			t.Fatalf("digram %s: expected %d, got %d", sym, c, table.Count(sym))
		}
	}
	// window longer than the block is clipped at the block boundary
	clipped := CountSegmented(text, 9, 6, 10, 1)
	if clipped.Total() != 6 {
		t.Fatalf("expected 6 letters, got %d", clipped.Total())
	}
}

func TestParallelCountMatchesSequential(t *testing.T) {
	rnd := rand.New(rand.NewSource(5))
	text := randomText(rnd, 9*500+4)
	par := Analyzer{ParallelThreshold: 100, Workers: 7}
	for _, k := range []Kind{Unigram, Digram, Trigram} {
		assertSameTable(t, Analyzer{}.Count(text, k), par.Count(text, k))
		assertSameTable(t, Analyzer{}.CountSegmented(text, SubstitutionSegment, k), par.CountSegmented(text, SubstitutionSegment, k))
		assertSameTable(t, Analyzer{}.CountSegmented(text, CaesarSegment, k), par.CountSegmented(text, CaesarSegment, k))
	}
}

func TestSortedBreaksTiesByInsertion(t *testing.T) {
	table := CountDigrams("zzabab")
	top := table.Top(2)
	if top[0].Symbol != "ab" || top[1].Symbol != "zz" {
		t.Fatalf("unexpected order: %+v", table.Sorted())
	}
	if len(table.Top(0)) != table.Len() {
		t.Fatalf("expected Top(0) to return all entries")
	}
	uni := CountUnigrams("")
	if uni.Top(3)[0].Symbol != "a" || uni.Top(3)[2].Symbol != "c" {
		t.Fatalf("expected alphabet order for ties, got %+v", uni.Top(3))
	}
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{"1": Unigram, "Digram": Digram, "tri": Trigram} {
		got, err := ParseKind(in)
		if err != nil || got != want {
			t.Fatalf("ParseKind(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseKind("quad"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestSuggestMapping(t *testing.T) {
	table := CountUnigrams("qqqqwwwe")
	got := SuggestMapping(table, 0)
	if len(got) != 3 {
		t.Fatalf("expected 3 suggestions, got %d", len(got))
	}
	if got[0].Cipher != "q" || got[0].Plain != 'e' || got[1].Plain != 't' || got[2].Plain != 'a' {
		t.Fatalf("unexpected suggestions: %+v", got)
	}
	if len(SuggestMapping(table, 1)) != 1 {
		t.Fatalf("expected limit to apply")
	}
}

func TestFlatnessMeasures(t *testing.T) {
	flat := CountUnigrams(strings.Repeat("abcdefghijklmnopqrstuvwxyz", 4))
	skewed := CountUnigrams(strings.Repeat("eeeeetta", 13))
	if ChiSquaredUniform(flat) != 0 {
		t.Fatalf("expected zero chi-squared for flat table, got %f", ChiSquaredUniform(flat))
	}
	if ChiSquaredUniform(skewed) <= ChiSquaredUniform(flat) {
		t.Fatalf("expected skewed table to score higher")
	}
	if IndexOfCoincidence(skewed) <= IndexOfCoincidence(flat) {
		t.Fatalf("expected skewed table to have higher index of coincidence")
	}
	if IndexOfCoincidence(NewTable()) != 0 {
		t.Fatalf("expected zero for empty table")
	}
}

func TestEnglishOrderMatchesFrequencies(t *testing.T) {
	for i := 1; i < len(EnglishOrder); i++ {
		prev := EnglishFrequencies[EnglishOrder[i-1]-'a']
		cur := EnglishFrequencies[EnglishOrder[i]-'a']
		if cur > prev {
			t.Fatalf("EnglishOrder out of order at %c", EnglishOrder[i])
		}
	}
}

func assertSameTable(t *testing.T, want, got *Table) {
	t.Helper()
	we, ge := want.Entries(), got.Entries()
	if len(we) != len(ge) {
		t.Fatalf("expected %d entries, got %d", len(we), len(ge))
	}
	for i := range we {
		if we[i] != ge[i] {
			t.Fatalf("entry %d: expected %+v, got %+v", i, we[i], ge[i])
		}
	}
}

func randomText(rnd *rand.Rand, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('a' + rnd.Intn(26))
	}
	return string(b)
}

func TestParseSegment(t *testing.T) {
	cases := map[string]Segment{
		"caesar":       CaesarSegment,
		"Substitution": SubstitutionSegment,
		"9,3,6":        SubstitutionSegment,
		"4 1 2":        {BlockSize: 4, Start: 1, Length: 2},
	}
	for in, want := range cases {
		got, err := ParseSegment(in)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", in, err)
		}
		if got != want {
			t.Fatalf("expected %v for %q, got %v", want, in, got)
		}
	}
	for _, in := range []string{"", "9,3", "a,b,c", "0,0,3", "9,-1,3", "9,9,1",
		"9,9223372036854775807,9223372036854775807"} {
		if _, err := ParseSegment(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestCountSegmentedHandlesOversizedWindows(t *testing.T) {
	cases := []struct {
		seg  Segment
		want int
	}{
		{Segment{BlockSize: 9, Start: math.MaxInt, Length: math.MaxInt}, 0},
		{Segment{BlockSize: 9, Start: 3, Length: math.MaxInt}, 12},
		{Segment{BlockSize: math.MaxInt, Start: 0, Length: math.MaxInt}, 18},
	}
	analyzers := []Analyzer{{}, {ParallelThreshold: 1, Workers: 4}}
	for _, a := range analyzers {
		for _, tc := range cases {
			done := make(chan *Table, 1)
			go func() { done <- a.CountSegmented("attackatdawnxyzxyz", tc.seg, Unigram) }()
			select {
			case got := <-done:
				if got.Total() != tc.want {
					t.Fatalf("expected total %d for %v, got %d", tc.want, tc.seg, got.Total())
				}
			case <-time.After(5 * time.Second):
				t.Fatalf("counting %v did not finish", tc.seg)
			}
		}
	}
}
