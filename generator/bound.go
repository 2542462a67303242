package generator

import (
	"slices"
	"unicode/utf8"

	"github.com/regginator/omniwordlist/charset"
)

// Bounds trims each length's token stream: tokens are skipped until the
// first one not below Start, and the stream ends at the first one above
// End. Empty strings leave that side open. Comparison is plain string
// comparison on the undecorated token, so over an unsorted charset a
// token below Start can still follow the first one that passed.
type Bounds struct {
	Start string
	End   string
}

// Before reports whether token sorts below Start.
func (b Bounds) Before(token string) bool {
	return b.Start != "" && token < b.Start
}

// After reports whether token sorts above End, ending the batch.
func (b Bounds) After(token string) bool {
	return b.End != "" && token > b.End
}

// seekRank returns the combination rank at which enumeration of length L
// may begin without skipping past anything >= Start. Seeking is only
// possible when the charset is in ascending code point order, so that
// rank order and string order agree, and Start is itself a token of
// that length; otherwise enumeration begins at 0 and Before does the
// skipping.
func (b Bounds) seekRank(cs charset.Charset, length int, mode Mode) uint64 {
	if b.Start == "" || mode != Combination || utf8.RuneCountInString(b.Start) != length {
		return 0
	}
	if !slices.IsSorted(cs) {
		return 0
	}
	rank, ok := CombinationRank(cs, b.Start)
	if !ok {
		return 0
	}
	return rank
}
