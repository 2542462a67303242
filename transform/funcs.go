package transform

import (
	"math/rand/v2"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	xtransform "golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// substitute replaces every rune found in table with the string chosen by
// pick. Runes without an entry pass through.
func substitute(token string, table map[rune][]string, pick func(opts []string) string) string {
	var sb strings.Builder
	sb.Grow(len(token))
	for _, r := range token {
		if opts, ok := table[unicode.ToLower(r)]; ok && len(opts) > 0 {
			sb.WriteString(pick(opts))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// expand writes each rune followed by every variant from table. When
// keepOriginal is false the rune itself is dropped if it has variants.
func expand(token string, table map[rune][]string, keepOriginal bool) string {
	var sb strings.Builder
	for _, r := range token {
		opts, ok := table[unicode.ToLower(r)]
		if !ok || keepOriginal {
			sb.WriteRune(r)
		}
		for _, o := range opts {
			sb.WriteString(o)
		}
	}
	return sb.String()
}

func first(opts []string) string { return opts[0] }

func randomPick(rng *rand.Rand) func([]string) string {
	return func(opts []string) string { return opts[rng.IntN(len(opts))] }
}

func toggleCase(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsUpper(r) {
			return unicode.ToLower(r)
		}
		return unicode.ToUpper(r)
	}, s)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

func reverse(s string) string {
	rs := []rune(s)
	for i, j := 0, len(rs)-1; i < j; i, j = i+1, j-1 {
		rs[i], rs[j] = rs[j], rs[i]
	}
	return string(rs)
}

func reverseWords(s string) string {
	words := strings.Fields(s)
	for i, j := 0, len(words)-1; i < j; i, j = i+1, j-1 {
		words[i], words[j] = words[j], words[i]
	}
	return strings.Join(words, " ")
}

func repeatLast(s string, times int) string {
	rs := []rune(s)
	if len(rs) == 0 {
		return s
	}
	return s + strings.Repeat(string(rs[len(rs)-1]), times)
}

func interleave(s, sep string) string {
	rs := []rune(s)
	parts := make([]string, len(rs))
	for i, r := range rs {
		parts[i] = string(r)
	}
	return strings.Join(parts, sep)
}

func randomSpaces(s string, rng *rand.Rand) string {
	rs := []rune(s)
	var sb strings.Builder
	for i, r := range rs {
		sb.WriteRune(r)
		if i < len(rs)-1 && rng.Float64() < randomSpaceProbability {
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}

func randomDigits(n int, rng *rand.Rand) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('0' + rng.IntN(10))
	}
	return string(b)
}

func randomSymbols(n int, rng *rand.Rand) string {
	out := make([]rune, n)
	for i := range out {
		out[i] = symbolRunes[rng.IntN(len(symbolRunes))]
	}
	return string(out)
}

func pluralize(s string) string {
	switch {
	case strings.HasSuffix(s, "y"):
		return s[:len(s)-1] + "ies"
	case strings.HasSuffix(s, "s"), strings.HasSuffix(s, "x"), strings.HasSuffix(s, "z"):
		return s + "es"
	default:
		return s + "s"
	}
}

func singularize(s string) string {
	switch {
	case strings.HasSuffix(s, "ies") && len(s) > 3:
		return s[:len(s)-3] + "y"
	case strings.HasSuffix(s, "s") && len(s) > 1:
		return s[:len(s)-1]
	default:
		return s
	}
}

func phonetic(s string) string {
	for _, rule := range phoneticRules {
		s = strings.ReplaceAll(s, rule[0], rule[1])
	}
	return s
}

// stripDiacritics decomposes s and drops nonspacing marks. The result
// stays decomposed.
func stripDiacritics(s string) string {
	t := xtransform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := xtransform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func transliterate(s string) string {
	return unidecode.Unidecode(s)
}

// insertAtMiddle places insert between the two rune halves of s.
func insertAtMiddle(s, insert string) string {
	rs := []rune(s)
	mid := len(rs) / 2
	return string(rs[:mid]) + insert + string(rs[mid:])
}

// customReplace applies a "find:replace" rule. A rule without a colon or
// with an empty find part leaves the token unchanged.
func customReplace(s, rule string) string {
	find, replace, ok := strings.Cut(rule, ":")
	if !ok || find == "" {
		return s
	}
	return strings.ReplaceAll(s, find, replace)
}
