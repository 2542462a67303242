package generator

import (
	"slices"

	"github.com/regginator/omniwordlist/filter"
)

// ParseDuplicateLimit reads the leading decimal digits of a duplicate
// limit specifier such as "2@". Missing or unparsable digits mean 1. An
// empty specifier disables the check and returns 0.
func ParseDuplicateLimit(spec string) int {
	if spec == "" {
		return 0
	}
	n, digits := 0, 0
	for _, r := range spec {
		if r < '0' || r > '9' {
			break
		}
		if n > 1<<20 {
			// longer than any token can be
			break
		}
		n = n*10 + int(r-'0')
		digits++
	}
	if digits == 0 || n < 1 {
		return 1
	}
	return n
}

// ExceedsRun reports whether token holds more than limit identical
// adjacent characters.
func ExceedsRun(token string, limit int) bool {
	return filter.MaxRun(token) > limit
}

// Decorator applies duplicate suppression to a raw token and then wraps
// it in the prefix and suffix.
type Decorator struct {
	Prefix string
	Suffix string
	// DupLimit of 0 disables duplicate suppression.
	DupLimit int
}

// Accept reports whether a raw token survives duplicate suppression.
func (d Decorator) Accept(raw string) bool {
	return d.DupLimit == 0 || !ExceedsRun(raw, d.DupLimit)
}

// Decorate adds the prefix and suffix.
func (d Decorator) Decorate(raw string) string {
	if d.Prefix == "" && d.Suffix == "" {
		return raw
	}
	return d.Prefix + raw + d.Suffix
}

// Invert returns the batch in reverse emission order.
func Invert(batch []string) []string {
	out := slices.Clone(batch)
	slices.Reverse(out)
	return out
}
