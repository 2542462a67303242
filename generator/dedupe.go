package generator

import (
	"iter"

	"github.com/zeebo/blake3"
)

// digestSize is the prefix of the BLAKE3 digest kept per token. Two
// distinct tokens sharing it would be treated as duplicates; at 128 bits
// that is not expected to happen for any list that fits on a disk.
const digestSize = 16

// Deduper remembers the digests of tokens it has seen.
type Deduper struct {
	seen map[[digestSize]byte]struct{}
}

// NewDeduper returns an empty Deduper.
func NewDeduper() *Deduper {
	return &Deduper{seen: make(map[[digestSize]byte]struct{})}
}

func digest(token string) [digestSize]byte {
	sum := blake3.Sum256([]byte(token))
	var out [digestSize]byte
	copy(out[:], sum[:digestSize])
	return out
}

// Seen records token and reports whether it was already recorded.
func (d *Deduper) Seen(token string) bool {
	key := digest(token)
	if _, ok := d.seen[key]; ok {
		return true
	}
	d.seen[key] = struct{}{}
	return false
}

// Len returns the number of distinct tokens recorded.
func (d *Deduper) Len() int { return len(d.seen) }

// Dedupe drops repeats from seq, keeping first occurrences in order.
func Dedupe(seq iter.Seq[string]) iter.Seq[string] {
	return func(yield func(string) bool) {
		d := NewDeduper()
		for tok := range seq {
			if d.Seen(tok) {
				continue
			}
			if !yield(tok) {
				return
			}
		}
	}
}
