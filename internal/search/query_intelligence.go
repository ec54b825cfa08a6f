package search

import (
	"sort"
	"strings"
	"unicode"
)

const maxVariants = 10

type QueryContext struct {
	Original   string
	Normalized string
	Variants   []string
}

func NormalizeQuery(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}
	input = strings.ToLower(input)

	b := strings.Builder{}
	b.Grow(len(input))
	for _, r := range input {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-' || r == '/':
			b.WriteByte(' ')
		case r == '+' || r == '#' || r == '.':
			// c++, c#, node.js
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// ExpandQuery returns the normalized query followed by synonym variants, at
// most maxVariants entries.
func ExpandQuery(normalized string) []string {
	normalized = strings.TrimSpace(normalized)
	if normalized == "" {
		return []string{}
	}

	out := make([]string, 0, maxVariants)
	seen := make(map[string]struct{}, maxVariants)
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	add(normalized)
	for _, syn := range GetSynonyms(normalized) {
		add(syn)
	}

	words := strings.Fields(normalized)

	// "fullstack" typed as one word matches the spaced key "full stack"
	// and the other way round.
	compact := strings.ReplaceAll(normalized, " ", "")
	for _, k := range sortedKeys() {
		if k == normalized {
			continue
		}
		if strings.ReplaceAll(k, " ", "") != compact {
			continue
		}
		add(k)
		for _, syn := range Synonyms[k] {
			add(syn)
		}
	}

	// Replace a leading one or two word phrase that has synonyms.
	tryPrefix := func(n int) {
		if len(words) <= n {
			return
		}
		phrase := strings.Join(words[:n], " ")
		rest := strings.Join(words[n:], " ")
		for _, syn := range GetSynonyms(phrase) {
			add(syn + " " + rest)
		}
	}
	tryPrefix(1)
	tryPrefix(2)

	if len(out) > maxVariants {
		out = out[:maxVariants]
	}
	return out
}

func sortedKeys() []string {
	keys := make([]string, 0, len(Synonyms))
	for k := range Synonyms {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func ProcessQuery(input string) QueryContext {
	ctx := QueryContext{Original: input}
	ctx.Normalized = NormalizeQuery(input)
	if ctx.Normalized == "" {
		ctx.Variants = []string{}
		return ctx
	}
	ctx.Variants = ExpandQuery(ctx.Normalized)
	return ctx
}
