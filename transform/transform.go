// Package transform applies an ordered chain of named string rewrites to
// generated tokens.
//
// Transforms are looked up by name in a fixed registry. Parameterised
// transforms take a count suffix (append_numbers_3) or a colon argument
// (interleave:-, custom:find:replace). Transforms that draw randomness
// share the *rand.Rand handed to Parse, so a seeded run is reproducible.
package transform

import (
	"iter"
	"math/rand/v2"
	"sort"
	"strconv"
	"strings"
	"sync"

	regexp "github.com/wasilibs/go-re2"

	"github.com/regginator/omniwordlist/errors"
)

// Func rewrites one token.
type Func func(token string) string

// argKind says what a registry entry accepts after its name.
type argKind int

const (
	argNone  argKind = iota
	argCount         // optional _N suffix, default 1
	argText          // required :<text> suffix
)

// maxCount bounds the _N suffix of counted transforms.
const maxCount = 64

type entry struct {
	arg   argKind
	build func(arg string, n int, rng *rand.Rand) Func
}

var (
	registryMu sync.RWMutex
	registry   = map[string]entry{
		"upper":       plain(strings.ToUpper),
		"lower":       plain(strings.ToLower),
		"toggle_case": plain(toggleCase),
		"capitalize":  plain(capitalize),
		"title_case":  plain(titleCase),

		"leet_basic": plain(func(s string) string { return substitute(s, leetMap, first) }),
		"leet_full":  plain(func(s string) string { return expand(s, leetMap, false) }),
		"leet_random": random(func(s string, rng *rand.Rand) string {
			return substitute(s, leetMap, randomPick(rng))
		}),

		"homoglyph":      plain(func(s string) string { return substitute(s, homoglyphMap, first) }),
		"homoglyph_full": plain(func(s string) string { return expand(s, homoglyphMap, true) }),
		"homoglyph_random": random(func(s string, rng *rand.Rand) string {
			return substitute(s, homoglyphMap, randomPick(rng))
		}),

		"diacritic_expand": plain(func(s string) string { return expand(s, diacriticMap, true) }),
		"diacritic_strip":  plain(stripDiacritics),
		"transliterate":    plain(transliterate),

		"keyboard_shift": random(func(s string, rng *rand.Rand) string {
			return substitute(s, keyboardMap, randomPick(rng))
		}),
		"phonetic": plain(phonetic),

		"reverse":           plain(reverse),
		"reverse_words":     plain(reverseWords),
		"double_last":       plain(func(s string) string { return repeatLast(s, 1) }),
		"triple_last":       plain(func(s string) string { return repeatLast(s, 2) }),
		"interleave_spaces": plain(func(s string) string { return interleave(s, " ") }),
		"random_spaces":     random(randomSpaces),
		"pluralize":         plain(pluralize),
		"singularize":       plain(singularize),
		"emoji":             plain(func(s string) string { return insertAtMiddle(s, fixedEmoji+"_") }),
		"emoji_random": random(func(s string, rng *rand.Rand) string {
			return insertAtMiddle(s, randomEmojis[rng.IntN(len(randomEmojis))])
		}),

		"append_numbers":  counted(func(s string, n int, rng *rand.Rand) string { return s + randomDigits(n, rng) }),
		"prepend_numbers": counted(func(s string, n int, rng *rand.Rand) string { return randomDigits(n, rng) + s }),
		"append_symbols":  counted(func(s string, n int, rng *rand.Rand) string { return s + randomSymbols(n, rng) }),
		"prepend_symbols": counted(func(s string, n int, rng *rand.Rand) string { return randomSymbols(n, rng) + s }),

		"interleave": {arg: argText, build: func(arg string, _ int, _ *rand.Rand) Func {
			return func(s string) string { return interleave(s, arg) }
		}},
		"custom": {arg: argText, build: func(arg string, _ int, _ *rand.Rand) Func {
			return func(s string) string { return customReplace(s, arg) }
		}},
	}
)

func plain(fn Func) entry {
	return entry{build: func(string, int, *rand.Rand) Func { return fn }}
}

func random(fn func(string, *rand.Rand) string) entry {
	return entry{build: func(_ string, _ int, rng *rand.Rand) Func {
		return func(s string) string { return fn(s, rng) }
	}}
}

func counted(fn func(string, int, *rand.Rand) string) entry {
	return entry{arg: argCount, build: func(_ string, n int, rng *rand.Rand) Func {
		return func(s string) string { return fn(s, n, rng) }
	}}
}

// Register adds a plain transform under name. Registering a taken name
// is an error.
func Register(name string, fn Func) error {
	if name == "" || strings.ContainsAny(name, ": ") {
		return errors.Transformf("invalid transform name %q", name)
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, ok := registry[name]; ok {
		return errors.Transformf("transform %q already registered", name)
	}
	registry[name] = plain(fn)
	return nil
}

// Names lists the registered transform names. Parameterised entries are
// shown with their argument form.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for name, e := range registry {
		switch e.arg {
		case argCount:
			out = append(out, name+"_N")
		case argText:
			out = append(out, name+":<arg>")
		default:
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

var countSuffix = regexp.MustCompile(`^(.+)_(\d+)$`)

// lookup resolves a transform name to its registry entry and argument.
func lookup(name string) (entry, string, int, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	if base, arg, ok := strings.Cut(name, ":"); ok {
		e, found := registry[base]
		if !found || e.arg != argText {
			return entry{}, "", 0, unknown(name)
		}
		return e, arg, 0, nil
	}

	if e, ok := registry[name]; ok {
		if e.arg == argText {
			return entry{}, "", 0, errors.WithHintf(
				errors.Transformf("transform %q requires an argument", name),
				"use %s:<arg>", name)
		}
		return e, "", 1, nil
	}

	if m := countSuffix.FindStringSubmatch(name); m != nil {
		e, ok := registry[m[1]]
		if ok && e.arg == argCount {
			n, err := strconv.Atoi(m[2])
			if err != nil || n > maxCount {
				return entry{}, "", 0, errors.Transformf("transform %q: count must be between 0 and %d", name, maxCount)
			}
			return e, "", n, nil
		}
	}

	return entry{}, "", 0, unknown(name)
}

func unknown(name string) error {
	return errors.WithHint(
		errors.Transformf("unknown transform: %s", name),
		"run `omni info` for the list of transforms",
	)
}

// Pipeline applies its steps in order. A pipeline holding randomised
// steps shares one *rand.Rand and must not be used concurrently.
type Pipeline struct {
	names []string
	steps []Func
}

// Parse resolves names into a pipeline. Any unknown or malformed name
// fails the whole parse. A nil rng is replaced by a randomly seeded one.
func Parse(names []string, rng *rand.Rand) (*Pipeline, error) {
	if rng == nil {
		rng = NewRand(nil)
	}
	p := &Pipeline{names: make([]string, 0, len(names))}
	for _, name := range names {
		name = strings.TrimSpace(name)
		e, arg, n, err := lookup(name)
		if err != nil {
			return nil, err
		}
		p.names = append(p.names, name)
		p.steps = append(p.steps, e.build(arg, n, rng))
	}
	return p, nil
}

// NewRand returns the generator a pipeline draws from. A nil seed picks a
// random one.
func NewRand(seed *int64) *rand.Rand {
	if seed == nil {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(uint64(*seed), uint64(*seed)))
}

// Apply runs token through every step.
func (p *Pipeline) Apply(token string) string {
	for _, step := range p.steps {
		token = step(token)
	}
	return token
}

// Len returns the number of steps.
func (p *Pipeline) Len() int { return len(p.steps) }

// Names returns the step names in order.
func (p *Pipeline) Names() []string { return p.names }

// Seq maps Apply over seq.
func (p *Pipeline) Seq(seq iter.Seq[string]) iter.Seq[string] {
	if p.Len() == 0 {
		return seq
	}
	return func(yield func(string) bool) {
		for token := range seq {
			if !yield(p.Apply(token)) {
				return
			}
		}
	}
}
