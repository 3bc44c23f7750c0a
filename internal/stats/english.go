package stats

// EnglishOrder lists English letters from most to least frequent.
const EnglishOrder = "etaoinshrdlcumwfgypbvkjxqz"

// EnglishFrequencies holds relative frequencies of a..z in English text.
var EnglishFrequencies = [26]float64{
	0.08167, 0.01492, 0.02782, 0.04253, 0.12702, 0.02228, 0.02015, // a-g
	0.06094, 0.06966, 0.00153, 0.00772, 0.04025, 0.02406, 0.06749, // h-n
	0.07507, 0.01929, 0.00095, 0.05987, 0.06327, 0.09056, 0.02758, // o-u
	0.00978, 0.02360, 0.00150, 0.01974, 0.00074, // v-z
}

// Suggestion pairs a cipher symbol with the English letter of the same rank.
type Suggestion struct {
	Cipher string
	Count  int
	Plain  byte
}

// SuggestMapping ranks the single-letter symbols of t by count and pairs
// them with EnglishOrder. Letters that never occur are skipped.
func SuggestMapping(t *Table, n int) []Suggestion {
	var out []Suggestion
	for _, e := range t.Sorted() {
		if len(e.Symbol) != 1 || e.Count == 0 {
			continue
		}
		if len(out) == len(EnglishOrder) || (n > 0 && len(out) == n) {
			break
		}
		out = append(out, Suggestion{Cipher: e.Symbol, Count: e.Count, Plain: EnglishOrder[len(out)]})
	}
	return out
}

// ChiSquaredUniform measures how far t is from a flat distribution over
// its symbols. Low values mean the counts are nearly flat.
func ChiSquaredUniform(t *Table) float64 {
	total := t.Total()
	if total == 0 || t.Len() == 0 {
		return 0
	}
	expected := float64(total) / float64(t.Len())
	var chi float64
	for _, e := range t.Entries() {
		d := float64(e.Count) - expected
		chi += d * d / expected
	}
	return chi
}

// IndexOfCoincidence returns the chance that two symbols drawn from t are
// equal. English text is near 0.066, uniform letters near 0.038.
func IndexOfCoincidence(t *Table) float64 {
	total := t.Total()
	if total < 2 {
		return 0
	}
	var sum float64
	for _, e := range t.Entries() {
		sum += float64(e.Count) * float64(e.Count-1)
	}
	return sum / (float64(total) * float64(total-1))
}
