package matching

import (
	"math"
	"sort"
	"strings"
)

// PreprocessText lowercases s, replaces anything outside [a-z0-9] and
// whitespace with a space and collapses runs of whitespace.
func PreprocessText(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToLower(s)

	b := strings.Builder{}
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			continue
		}
		b.WriteByte(' ')
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func joinPreprocessed(items []string) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, PreprocessText(it))
	}
	return strings.Join(parts, " ")
}

// analyze splits preprocessed text into unigrams and bigrams. Tokens shorter
// than two characters and English stop words are dropped before bigrams are
// formed.
func analyze(text string) []string {
	tokens := make([]string, 0)
	for _, f := range strings.Fields(text) {
		if len(f) < 2 {
			continue
		}
		if _, stop := englishStopWords[f]; stop {
			continue
		}
		tokens = append(tokens, f)
	}

	terms := make([]string, 0, len(tokens)*2)
	terms = append(terms, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		terms = append(terms, tokens[i]+" "+tokens[i+1])
	}
	return terms
}

func termCounts(terms []string) map[string]float64 {
	out := make(map[string]float64, len(terms))
	for _, t := range terms {
		out[t]++
	}
	return out
}

// tfidfVectors fits a smooth-idf, l2-normalised TF-IDF model over docs and
// returns one sparse vector per document. ok is false when the vocabulary
// is empty.
func tfidfVectors(docs []string) (vecs []map[string]float64, ok bool) {
	counts := make([]map[string]float64, len(docs))
	df := map[string]float64{}
	total := map[string]float64{}
	for i, d := range docs {
		counts[i] = termCounts(analyze(d))
		for t, c := range counts[i] {
			df[t]++
			total[t] += c
		}
	}
	if len(df) == 0 {
		return nil, false
	}

	vocab := make(map[string]struct{}, len(df))
	if len(df) > maxTextFeatures {
		terms := make([]string, 0, len(df))
		for t := range df {
			terms = append(terms, t)
		}
		sort.Slice(terms, func(i, j int) bool {
			if total[terms[i]] != total[terms[j]] {
				return total[terms[i]] > total[terms[j]]
			}
			return terms[i] < terms[j]
		})
		for _, t := range terms[:maxTextFeatures] {
			vocab[t] = struct{}{}
		}
	} else {
		for t := range df {
			vocab[t] = struct{}{}
		}
	}

	n := float64(len(docs))
	vecs = make([]map[string]float64, len(docs))
	for i, c := range counts {
		v := make(map[string]float64, len(c))
		var norm float64
		for t, tf := range c {
			if _, keep := vocab[t]; !keep {
				continue
			}
			idf := math.Log((1+n)/(1+df[t])) + 1
			w := tf * idf
			v[t] = w
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for t := range v {
				v[t] /= norm
			}
		}
		vecs[i] = v
	}
	return vecs, true
}

func cosine(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot, na, nb float64
	for t, w := range a {
		dot += w * b[t]
		na += w * w
	}
	for _, w := range b {
		nb += w * w
	}
	if na == 0 || nb == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(na) * math.Sqrt(nb))
	if math.IsNaN(sim) {
		return 0
	}
	return clampFloat(sim, 0, 1)
}
