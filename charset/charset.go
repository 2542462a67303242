// Package charset resolves named presets, literal character sets and
// marker patterns into the ordered alphabet used for enumeration.
package charset

import (
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/regginator/omniwordlist/config"
	"github.com/regginator/omniwordlist/errors"
)

// Named presets. Values are immutable after package init.
var presets = map[string]string{
	"lower":     "abcdefghijklmnopqrstuvwxyz",
	"upper":     "ABCDEFGHIJKLMNOPQRSTUVWXYZ",
	"digit":     "0123456789",
	"symbol":    "!@#$%^&*()_+-=[]{}|;:,.<>?",
	"alpha":     "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ",
	"alnum":     "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789",
	"space":     "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 ",
	"hex":       "0123456789abcdef",
	"hex_upper": "0123456789ABCDEF",
	"printable": "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*()_+-=[]{}|;:,.<>? ",
}

// Markers maps pattern marker runes to preset names.
var markers = map[rune]string{
	'@': "lower",
	'%': "digit",
	'^': "symbol",
	',': "upper",
	'?': "alnum",
	'!': "printable",
}

// DefaultPreset is used when a config names neither charset nor pattern.
const DefaultPreset = "lower"

// Charset is an ordered set of unique runes. The order defines token order.
type Charset []rune

// String returns the characters as a string.
func (c Charset) String() string { return string(c) }

// Len returns the number of characters.
func (c Charset) Len() int { return len(c) }

// Contains reports whether r is in the set.
func (c Charset) Contains(r rune) bool { return slices.Contains(c, r) }

// Preset returns the characters of a named preset.
func Preset(name string) (string, bool) {
	chars, ok := presets[name]
	return chars, ok
}

// PresetNames lists the preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MarkerPreset returns the preset a pattern marker expands to.
func MarkerPreset(marker rune) (string, bool) {
	name, ok := markers[marker]
	return name, ok
}

// Builder accumulates characters from presets and literals.
type Builder struct {
	chars []rune
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// AddPreset appends a named preset. Unknown names are an invalid-charset error.
func (b *Builder) AddPreset(name string) error {
	chars, ok := presets[name]
	if !ok {
		return errors.WithHintf(
			errors.Charsetf("unknown charset: %s", name),
			"available charsets: %s", strings.Join(PresetNames(), ", "),
		)
	}
	b.chars = append(b.chars, []rune(chars)...)
	return nil
}

// AddCustom appends literal characters.
func (b *Builder) AddCustom(chars string) *Builder {
	b.chars = append(b.chars, []rune(chars)...)
	return b
}

// Build removes duplicates keeping the first occurrence of each rune.
func (b *Builder) Build() Charset {
	return dedupe(b.chars)
}

// BuildSorted removes duplicates and sorts by code point.
func (b *Builder) BuildSorted() Charset {
	out := slices.Clone(b.chars)
	slices.Sort(out)
	return Charset(slices.Compact(out))
}

func dedupe(chars []rune) Charset {
	seen := make(map[rune]struct{}, len(chars))
	out := make(Charset, 0, len(chars))
	for _, r := range chars {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

// ExpandPattern turns a marker pattern into a charset. Runes in literals
// are kept verbatim, marker runes expand to their preset, and any other
// rune is a literal.
func ExpandPattern(pattern, literals string) Charset {
	literalSet := make(map[rune]struct{})
	for _, r := range literals {
		literalSet[r] = struct{}{}
	}

	b := NewBuilder()
	for _, r := range pattern {
		if _, ok := literalSet[r]; ok {
			b.chars = append(b.chars, r)
			continue
		}
		if name, ok := markers[r]; ok {
			b.chars = append(b.chars, []rune(presets[name])...)
			continue
		}
		b.chars = append(b.chars, r)
	}
	return b.Build()
}

// Parse resolves a charset spec: a preset name, a "+"-joined union of
// preset names, or a literal character set.
func Parse(spec string) (Charset, error) {
	if spec == "" {
		return nil, errors.Charsetf("empty charset")
	}
	if _, ok := presets[spec]; ok {
		b := NewBuilder()
		_ = b.AddPreset(spec)
		return b.Build(), nil
	}

	if strings.Contains(spec, "+") && !strings.HasPrefix(spec, "+") && !strings.HasSuffix(spec, "+") {
		parts := strings.Split(spec, "+")
		if looksLikeNames(parts) {
			b := NewBuilder()
			for _, part := range parts {
				if err := b.AddPreset(part); err != nil {
					return nil, err
				}
			}
			return b.Build(), nil
		}
	}

	return NewBuilder().AddCustom(spec).Build(), nil
}

// looksLikeNames reports whether every part reads like an identifier, so
// "lower+digit" is a union while "a+b" stays a three character literal set.
func looksLikeNames(parts []string) bool {
	for _, part := range parts {
		if len(part) < 3 {
			return false
		}
		for _, r := range part {
			if !(r >= 'a' && r <= 'z' || r == '_') {
				return false
			}
		}
	}
	return true
}

// Resolve returns the charset a config enumerates over. A pattern takes
// precedence over a charset; with neither the default preset is used.
func Resolve(cfg config.Config) (Charset, error) {
	switch {
	case cfg.Pattern != "":
		cs := ExpandPattern(cfg.Pattern, cfg.LiteralChars)
		if cs.Len() == 0 {
			return nil, errors.Generatorf("pattern %q expands to an empty charset", cfg.Pattern)
		}
		return cs, nil
	case cfg.Charset != "":
		return Parse(cfg.Charset)
	default:
		return Parse(DefaultPreset)
	}
}

// LoadFile reads a charset from a file, trimming surrounding whitespace.
func LoadFile(path string) (Charset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapKindf(err, errors.ErrInvalidCharset, "failed to read charset file %s", path)
	}
	content := strings.TrimSpace(string(data))
	if content == "" {
		return nil, errors.Charsetf("charset file %s is empty", path)
	}
	return NewBuilder().AddCustom(content).Build(), nil
}
