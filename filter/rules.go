package filter

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/regginator/omniwordlist/errors"
)

// RuleFactory builds a predicate from the argument of a "name:arg" rule.
type RuleFactory func(arg string) (Predicate, error)

var (
	rulesMu sync.RWMutex
	rules   = map[string]RuleFactory{
		"min_len": intRule(func(n int) Predicate { return Length(n, 0) }),
		"max_len": intRule(func(n int) Predicate { return Length(0, n) }),
		"charset": textRule(Allowed),
		"exclude": textRule(Forbidden),
		"regex":   Regex,
		"not_regex": func(arg string) (Predicate, error) {
			p, err := Regex(arg)
			if err != nil {
				return nil, err
			}
			return func(s string) bool { return !p(s) }, nil
		},
		"entropy_min": floatRule(EntropyMin),
		"entropy_max": floatRule(EntropyMax),
		"max_repeats": intRule(MaxRepeats),
		"deny":        textRule(func(arg string) Predicate { return Denylist(strings.Split(arg, ",")) }),
		"block":       textRule(func(arg string) Predicate { return Blocklist(strings.Split(arg, ",")) }),
		"min_quality": floatRule(MinQuality),
		"max_similarity": floatRule(func(v float64) Predicate {
			return func(s string) bool { return VisualSimilarity(s) <= v }
		}),
		"language": textRule(Language),
		"pronounceable": func(string) (Predicate, error) {
			return Pronounceable(), nil
		},
		"no_profanity": func(string) (Predicate, error) {
			return Denylist(profanity), nil
		},
		"no_common_patterns": func(string) (Predicate, error) {
			return Denylist(commonPasswords), nil
		},
		// min_distance:word:n drops tokens within n edits of word
		"min_distance": func(arg string) (Predicate, error) {
			word, nStr, ok := strings.Cut(arg, ":")
			if !ok {
				return nil, errors.Filterf("min_distance expects word:n, got %q", arg)
			}
			n, err := strconv.Atoi(nStr)
			if err != nil {
				return nil, errors.WrapKindf(err, errors.ErrFilter, "min_distance count %q", nStr)
			}
			return func(s string) bool { return Levenshtein(s, word) >= n }, nil
		},
	}
)

func intRule(fn func(int) Predicate) RuleFactory {
	return func(arg string) (Predicate, error) {
		n, err := strconv.Atoi(arg)
		if err != nil || n < 0 {
			return nil, errors.Filterf("expected a non-negative integer, got %q", arg)
		}
		return fn(n), nil
	}
}

func floatRule(fn func(float64) Predicate) RuleFactory {
	return func(arg string) (Predicate, error) {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return nil, errors.Filterf("expected a number, got %q", arg)
		}
		return fn(v), nil
	}
}

func textRule(fn func(string) Predicate) RuleFactory {
	return func(arg string) (Predicate, error) {
		if arg == "" {
			return nil, errors.Filterf("rule requires an argument")
		}
		return fn(arg), nil
	}
}

// RegisterRule adds a rule factory under name.
func RegisterRule(name string, f RuleFactory) error {
	rulesMu.Lock()
	defer rulesMu.Unlock()
	if _, ok := rules[name]; ok {
		return errors.Filterf("filter rule %q already registered", name)
	}
	rules[name] = f
	return nil
}

// RuleNames lists the registered rule names.
func RuleNames() []string {
	rulesMu.RLock()
	defer rulesMu.RUnlock()
	out := make([]string, 0, len(rules))
	for name := range rules {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ParseRule resolves a "name" or "name:arg" rule.
func ParseRule(rule string) (Predicate, error) {
	name, arg, _ := strings.Cut(strings.TrimSpace(rule), ":")
	rulesMu.RLock()
	f, ok := rules[name]
	rulesMu.RUnlock()
	if !ok {
		return nil, errors.WithHint(
			errors.Filterf("unknown filter rule: %s", name),
			"available rules: "+strings.Join(RuleNames(), ", "),
		)
	}
	p, err := f(arg)
	if err != nil {
		return nil, errors.WithMessagef(err, "filter rule %s", name)
	}
	return p, nil
}
