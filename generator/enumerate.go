// Package generator enumerates candidate tokens and drives them through
// bounding, decoration, deduplication, transforms and filters into a sink,
// checkpointing progress so that an interrupted run can seek back to where
// it stopped.
package generator

import (
	"iter"
	"math"
	"math/big"
	"math/bits"

	"github.com/regginator/omniwordlist/charset"
	"github.com/regginator/omniwordlist/errors"
)

// Mode selects how characters may repeat within a token.
type Mode uint8

const (
	// Combination allows repeated characters (k^L tokens).
	Combination Mode = iota
	// Permutation forbids repeated characters (k!/(k-L)! tokens).
	Permutation
)

func (m Mode) String() string {
	if m == Permutation {
		return "permutation"
	}
	return "combination"
}

func mulSat(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return math.MaxUint64
	}
	return lo
}

func addSat(a, b uint64) uint64 {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return math.MaxUint64
	}
	return sum
}

// Count returns the number of tokens of length L over k characters,
// saturating at math.MaxUint64.
func Count(k, length int, mode Mode) uint64 {
	if k < 0 || length < 0 {
		return 0
	}
	if mode == Permutation {
		return fallingFactorial(uint64(k), uint64(length))
	}
	n := uint64(1)
	for range length {
		n = mulSat(n, uint64(k))
		if n == 0 || n == math.MaxUint64 {
			break
		}
	}
	return n
}

// fallingFactorial returns n*(n-1)*...*(n-r+1), zero when r > n.
func fallingFactorial(n, r uint64) uint64 {
	if r > n {
		return 0
	}
	out := uint64(1)
	for i := range r {
		out = mulSat(out, n-i)
		if out == math.MaxUint64 {
			break
		}
	}
	return out
}

// CountBig is the exact form of Count.
func CountBig(k, length int, mode Mode) *big.Int {
	if k < 0 || length < 0 {
		return new(big.Int)
	}
	if mode == Combination {
		return new(big.Int).Exp(big.NewInt(int64(k)), big.NewInt(int64(length)), nil)
	}
	if length > k {
		return new(big.Int)
	}
	return new(big.Int).MulRange(int64(k-length+1), int64(k))
}

// CombinationAt returns the token at rank index in combination order:
// index written in base k, most significant digit first.
func CombinationAt(cs charset.Charset, length int, index uint64) (string, error) {
	idx, err := combinationDigits(len(cs), length, index)
	if err != nil {
		return "", err
	}
	return render(cs, idx), nil
}

func combinationDigits(k, length int, index uint64) ([]int, error) {
	if index >= Count(k, length, Combination) {
		return nil, errors.Generatorf("index %d out of range for %d characters at length %d", index, k, length)
	}
	idx := make([]int, length)
	for i := length - 1; i >= 0 && index > 0; i-- {
		idx[i] = int(index % uint64(k))
		index /= uint64(k)
	}
	return idx, nil
}

// CombinationRank is the inverse of CombinationAt. It reports false when
// token is not a combination over cs.
func CombinationRank(cs charset.Charset, token string) (uint64, bool) {
	pos := make(map[rune]uint64, len(cs))
	for i, r := range cs {
		pos[r] = uint64(i)
	}
	var rank uint64
	k := uint64(len(cs))
	for _, r := range token {
		p, ok := pos[r]
		if !ok {
			return 0, false
		}
		hi, lo := bits.Mul64(rank, k)
		sum, carry := bits.Add64(lo, p, 0)
		if hi != 0 || carry != 0 {
			return 0, false
		}
		rank = sum
	}
	return rank, true
}

// PermutationAt returns the token at rank index in permutation order.
// Each position's digit is the quotient of the remaining index by the
// number of arrangements of the positions after it.
func PermutationAt(cs charset.Charset, length int, index uint64) (string, error) {
	idx, err := permutationDigits(len(cs), length, index)
	if err != nil {
		return "", err
	}
	return render(cs, idx), nil
}

func permutationDigits(k, length int, index uint64) ([]int, error) {
	if index >= Count(k, length, Permutation) {
		return nil, errors.Generatorf("index %d out of range for %d characters at length %d", index, k, length)
	}
	used := make([]bool, k)
	idx := make([]int, length)
	for i := range length {
		block := fallingFactorial(uint64(k-i-1), uint64(length-i-1))
		digit := 0
		if block != math.MaxUint64 {
			digit = int(index / block)
			index %= block
		}
		// digit-th unused character
		for c := 0; c < k; c++ {
			if used[c] {
				continue
			}
			if digit == 0 {
				idx[i] = c
				used[c] = true
				break
			}
			digit--
		}
	}
	return idx, nil
}

func render(cs charset.Charset, idx []int) string {
	out := make([]rune, len(idx))
	for i, c := range idx {
		out[i] = cs[c]
	}
	return string(out)
}

// Combinations yields every length-L token over cs in lexicographic
// charset order.
func Combinations(cs charset.Charset, length int) iter.Seq[string] {
	return tokens(Enumerate(cs, length, Combination, 0))
}

// Permutations yields every length-L token over cs without a repeated
// character. It is empty when length exceeds the charset.
func Permutations(cs charset.Charset, length int) iter.Seq[string] {
	return tokens(Enumerate(cs, length, Permutation, 0))
}

func tokens(seq iter.Seq2[uint64, string]) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, tok := range seq {
			if !yield(tok) {
				return
			}
		}
	}
}

// Enumerate yields (rank, token) pairs of length L starting at rank
// start. A start past the end yields nothing.
func Enumerate(cs charset.Charset, length int, mode Mode, start uint64) iter.Seq2[uint64, string] {
	if mode == Permutation {
		return permutationsFrom(cs, length, start)
	}
	return combinationsFrom(cs, length, start)
}

// combinationsFrom increments a base-k counter of width L.
func combinationsFrom(cs charset.Charset, length int, start uint64) iter.Seq2[uint64, string] {
	return func(yield func(uint64, string) bool) {
		k := len(cs)
		idx, err := combinationDigits(k, length, start)
		if err != nil {
			return
		}
		buf := make([]rune, length)
		for i, c := range idx {
			buf[i] = cs[c]
		}

		for rank := start; ; rank++ {
			if !yield(rank, string(buf)) {
				return
			}

			i := length - 1
			for i >= 0 && idx[i] == k-1 {
				i--
			}
			if i < 0 {
				return
			}

			idx[i]++
			buf[i] = cs[idx[i]]
			for j := i + 1; j < length; j++ {
				idx[j] = 0
				buf[j] = cs[0]
			}
		}
	}
}

// permutationsFrom walks L-permutations in order with an index array and
// used flags: the rightmost position that can take a larger unused
// character is advanced and the positions after it are refilled with the
// smallest unused characters.
func permutationsFrom(cs charset.Charset, length int, start uint64) iter.Seq2[uint64, string] {
	return func(yield func(uint64, string) bool) {
		k := len(cs)
		idx, err := permutationDigits(k, length, start)
		if err != nil {
			return
		}
		used := make([]bool, k)
		for _, c := range idx {
			used[c] = true
		}

		for rank := start; ; rank++ {
			if !yield(rank, render(cs, idx)) {
				return
			}

			i := length - 1
			for ; i >= 0; i-- {
				used[idx[i]] = false
				next := -1
				for c := idx[i] + 1; c < k; c++ {
					if !used[c] {
						next = c
						break
					}
				}
				if next < 0 {
					continue
				}
				idx[i] = next
				used[next] = true
				c := 0
				for j := i + 1; j < length; j++ {
					for used[c] {
						c++
					}
					idx[j] = c
					used[c] = true
				}
				break
			}
			if i < 0 {
				return
			}
		}
	}
}
