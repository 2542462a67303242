// Package filter decides which generated tokens are kept. A Chain holds
// named predicates and accepts a token only when every predicate does.
package filter

import (
	"iter"
	"slices"
	"strings"
	"unicode/utf8"

	regexp "github.com/wasilibs/go-re2"

	"github.com/regginator/omniwordlist/config"
	"github.com/regginator/omniwordlist/errors"
)

// Predicate reports whether a token is kept.
type Predicate func(token string) bool

// Chain is an ordered AND of predicates. Predicates are pure, so order
// only affects running time.
type Chain struct {
	names []string
	preds []Predicate
}

// New returns an empty chain that accepts everything.
func New() *Chain {
	return &Chain{}
}

// Add appends a named predicate.
func (c *Chain) Add(name string, p Predicate) *Chain {
	c.names = append(c.names, name)
	c.preds = append(c.preds, p)
	return c
}

// Accept reports whether every predicate accepts token.
func (c *Chain) Accept(token string) bool {
	for _, p := range c.preds {
		if !p(token) {
			return false
		}
	}
	return true
}

// Len returns the number of predicates.
func (c *Chain) Len() int { return len(c.preds) }

// Names returns the predicate names in order.
func (c *Chain) Names() []string { return c.names }

// Seq yields the tokens of seq that the chain accepts.
func (c *Chain) Seq(seq iter.Seq[string]) iter.Seq[string] {
	if c.Len() == 0 {
		return seq
	}
	return func(yield func(string) bool) {
		for token := range seq {
			if c.Accept(token) && !yield(token) {
				return
			}
		}
	}
}

// Length keeps tokens whose rune count is within [min, max]. A max of 0
// leaves the upper bound open.
func Length(min, max int) Predicate {
	return func(s string) bool {
		n := utf8.RuneCountInString(s)
		return n >= min && (max == 0 || n <= max)
	}
}

// Allowed keeps tokens made only of runes from chars.
func Allowed(chars string) Predicate {
	set := runeSet(chars)
	return func(s string) bool {
		for _, r := range s {
			if _, ok := set[r]; !ok {
				return false
			}
		}
		return true
	}
}

// Forbidden drops tokens containing any rune from chars.
func Forbidden(chars string) Predicate {
	return func(s string) bool { return !strings.ContainsAny(s, chars) }
}

// Regex keeps tokens matching pattern.
func Regex(pattern string) (Predicate, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.WrapKindf(err, errors.ErrFilter, "invalid regex %q", pattern)
	}
	return re.MatchString, nil
}

// EntropyMin keeps tokens with Entropy >= min.
func EntropyMin(min float64) Predicate {
	return func(s string) bool { return Entropy(s) >= min }
}

// EntropyMax keeps tokens with Entropy <= max.
func EntropyMax(max float64) Predicate {
	return func(s string) bool { return Entropy(s) <= max }
}

// MaxRepeats drops tokens with a run of identical adjacent runes longer than n.
func MaxRepeats(n int) Predicate {
	return func(s string) bool { return MaxRun(s) <= n }
}

// Denylist drops tokens equal to any word, ignoring case.
func Denylist(words []string) Predicate {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return func(s string) bool {
		_, bad := set[strings.ToLower(s)]
		return !bad
	}
}

// Blocklist drops tokens containing any of subs, ignoring case.
func Blocklist(subs []string) Predicate {
	lowered := make([]string, 0, len(subs))
	for _, s := range subs {
		if s != "" {
			lowered = append(lowered, strings.ToLower(s))
		}
	}
	return func(s string) bool {
		lower := strings.ToLower(s)
		return !slices.ContainsFunc(lowered, func(sub string) bool {
			return strings.Contains(lower, sub)
		})
	}
}

// MinQuality keeps tokens whose QualityScore is at least q.
func MinQuality(q float64) Predicate {
	return func(s string) bool { return QualityScore(s) >= q }
}

// Pronounceable keeps tokens for which IsPronounceable holds.
func Pronounceable() Predicate {
	return IsPronounceable
}

// Language keeps tokens DetectLanguage assigns to lang.
func Language(lang string) Predicate {
	lang = strings.ToLower(lang)
	return func(s string) bool { return DetectLanguage(s) == lang }
}

func runeSet(chars string) map[rune]struct{} {
	set := make(map[rune]struct{}, len(chars))
	for _, r := range chars {
		set[r] = struct{}{}
	}
	return set
}

// Build assembles the chain described by a filter config. The fixed
// predicates come first in declaration order, followed by rules.
func Build(spec config.FilterConfig) (*Chain, error) {
	c := New()
	if spec.MinLen > 0 || spec.MaxLen > 0 {
		c.Add("length", Length(spec.MinLen, spec.MaxLen))
	}
	if spec.CharsetFilter != "" {
		c.Add("charset", Allowed(spec.CharsetFilter))
	}
	if spec.ExcludeCharset != "" {
		c.Add("exclude_charset", Forbidden(spec.ExcludeCharset))
	}
	if spec.RegexPattern != "" {
		p, err := Regex(spec.RegexPattern)
		if err != nil {
			return nil, err
		}
		c.Add("regex", p)
	}
	if spec.EntropyMin != nil {
		c.Add("entropy_min", EntropyMin(*spec.EntropyMin))
	}
	if spec.EntropyMax != nil {
		c.Add("entropy_max", EntropyMax(*spec.EntropyMax))
	}
	if spec.MaxRepeats > 0 {
		c.Add("max_repeats", MaxRepeats(spec.MaxRepeats))
	}
	if spec.NoProfanity {
		c.Add("no_profanity", Denylist(profanity))
	}
	if spec.NoCommonPatterns {
		c.Add("no_common_patterns", Denylist(commonPasswords))
	}
	if len(spec.Blocklist) > 0 {
		c.Add("blocklist", Blocklist(spec.Blocklist))
	}
	if spec.MinQuality != nil {
		c.Add("min_quality", MinQuality(*spec.MinQuality))
	}
	if spec.Pronounceable {
		c.Add("pronounceable", Pronounceable())
	}
	if spec.Language != "" {
		c.Add("language", Language(spec.Language))
	}
	for _, rule := range spec.Rules {
		p, err := ParseRule(rule)
		if err != nil {
			return nil, err
		}
		c.Add(rule, p)
	}
	return c, nil
}
