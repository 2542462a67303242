package filter

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agext/levenshtein"
)

// Entropy returns the Shannon entropy of s in bits per character, computed
// over rune frequencies. The empty string has entropy 0.
func Entropy(s string) float64 {
	n := utf8.RuneCountInString(s)
	if n == 0 {
		return 0
	}
	freq := make(map[rune]int, n)
	for _, r := range s {
		freq[r]++
	}
	var h float64
	for _, c := range freq {
		p := float64(c) / float64(n)
		h -= p * math.Log2(p)
	}
	return h
}

// MaxRun returns the length of the longest run of identical adjacent runes.
func MaxRun(s string) int {
	var longest, run int
	var prev rune = -1
	for _, r := range s {
		if r == prev {
			run++
		} else {
			run = 1
			prev = r
		}
		longest = max(longest, run)
	}
	return longest
}

const (
	vowels     = "aeiouAEIOU"
	consonants = "bcdfghjklmnpqrstvwxyzBCDFGHJKLMNPQRSTVWXYZ"
)

// IsPronounceable reports whether s has at least one vowel and one consonant.
func IsPronounceable(s string) bool {
	return strings.ContainsAny(s, vowels) && strings.ContainsAny(s, consonants)
}

// MatchesCommonPattern reports whether s contains a well known weak password.
func MatchesCommonPattern(s string) bool {
	lower := strings.ToLower(s)
	for _, p := range weakPasswords {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// QualityScore rates a token between 0 and 1. Length, entropy and
// pronounceability raise the score; weak password fragments lower it.
func QualityScore(token string) float64 {
	score := 0.5
	if utf8.RuneCountInString(token) >= 8 {
		score += 0.2
	}
	score += math.Min(Entropy(token)/5, 0.3)
	if IsPronounceable(token) {
		score += 0.1
	}
	if MatchesCommonPattern(token) {
		score -= 0.3
	}
	return math.Max(0, math.Min(1, score))
}

// VisualSimilarity scores how many confusable character pairs (0/o, 1/l,
// 1/i, 5/s, 7/t, 8/b) appear together in s, 0.1 per pair, capped at 1.
func VisualSimilarity(s string) float64 {
	var score float64
	for _, pair := range confusablePairs {
		if strings.Contains(s, pair[0]) && strings.Contains(s, pair[1]) {
			score += 0.1
		}
	}
	return math.Min(score, 1)
}

// DetectLanguage guesses the language of s from its script and accents.
// It returns "english", "russian", "german", "french", "spanish" or
// "unknown".
func DetectLanguage(s string) string {
	n := utf8.RuneCountInString(s)
	if n == 0 {
		return "unknown"
	}
	lower := strings.ToLower(s)
	ascii := 0
	for _, r := range lower {
		if r <= unicode.MaxASCII {
			ascii++
		}
	}
	switch {
	case float64(ascii)/float64(n) > 0.8:
		return "english"
	case strings.ContainsAny(lower, "ьыъэ"):
		return "russian"
	case strings.ContainsAny(lower, "üäöß"):
		return "german"
	case strings.ContainsAny(lower, "éêçèà"):
		return "french"
	case strings.ContainsAny(lower, "ñá¿¡"):
		return "spanish"
	default:
		return "unknown"
	}
}

// Levenshtein returns the edit distance between a and b in runes.
func Levenshtein(a, b string) int {
	return levenshtein.Distance(a, b, nil)
}
