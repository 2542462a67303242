package generator

import (
	"math"
	"math/big"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regginator/omniwordlist/charset"
	"github.com/regginator/omniwordlist/errors"
)

func cs(s string) charset.Charset { return charset.Charset([]rune(s)) }

func TestCombinations(t *testing.T) {
	got := slices.Collect(Combinations(cs("ab"), 2))
	assert.Equal(t, []string{"aa", "ab", "ba", "bb"}, got)

	got = slices.Collect(Combinations(cs("ba"), 2))
	assert.Equal(t, []string{"bb", "ba", "ab", "aa"}, got, "charset order defines token order")
}

func TestPermutations(t *testing.T) {
	got := slices.Collect(Permutations(cs("abc"), 2))
	assert.Equal(t, []string{"ab", "ac", "ba", "bc", "ca", "cb"}, got)
	for _, tok := range got {
		assert.NotEqual(t, tok[0], tok[1])
	}

	assert.Empty(t, slices.Collect(Permutations(cs("ab"), 3)))

	full := slices.Collect(Permutations(cs("abcd"), 4))
	assert.Len(t, full, 24)
	assert.True(t, slices.IsSorted(full))
	assert.Equal(t, "abcd", full[0])
	assert.Equal(t, "dcba", full[23])
}

func TestEarlyStop(t *testing.T) {
	var got []string
	for tok := range Combinations(cs("abc"), 3) {
		got = append(got, tok)
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"aaa", "aab"}, got)
}

func TestCount(t *testing.T) {
	tests := []struct {
		k, length int
		mode      Mode
		want      uint64
	}{
		{2, 2, Combination, 4},
		{26, 3, Combination, 17576},
		{3, 2, Permutation, 6},
		{5, 5, Permutation, 120},
		{2, 3, Permutation, 0},
		{10, 0, Combination, 1},
		{0, 3, Combination, 0},
		{95, 20, Combination, math.MaxUint64},
		{95, 30, Permutation, math.MaxUint64},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Count(tt.k, tt.length, tt.mode), "k=%d L=%d %s", tt.k, tt.length, tt.mode)
	}
}

func TestCountMatchesEnumeration(t *testing.T) {
	for k := 1; k <= 4; k++ {
		for length := 1; length <= 4; length++ {
			charset := cs("wxyz"[:k])
			assert.Equal(t, Count(k, length, Combination), uint64(len(slices.Collect(Combinations(charset, length)))))
			assert.Equal(t, Count(k, length, Permutation), uint64(len(slices.Collect(Permutations(charset, length)))))
		}
	}
}

func TestCountBig(t *testing.T) {
	want, _ := new(big.Int).SetString("3584859224085422343574104404449462890625", 10)
	assert.Equal(t, 0, want.Cmp(CountBig(95, 20, Combination)))
	assert.Equal(t, int64(60), CountBig(5, 3, Permutation).Int64())
	assert.Equal(t, int64(0), CountBig(2, 3, Permutation).Int64())
}

func TestUnranking(t *testing.T) {
	charset := cs("abcd")
	for _, mode := range []Mode{Combination, Permutation} {
		var i uint64
		for rank, tok := range Enumerate(charset, 3, mode, 0) {
			require.Equal(t, i, rank)
			var at string
			var err error
			if mode == Combination {
				at, err = CombinationAt(charset, 3, rank)
			} else {
				at, err = PermutationAt(charset, 3, rank)
			}
			require.NoError(t, err)
			assert.Equal(t, tok, at, "%s rank %d", mode, rank)
			i++
		}
	}

	_, err := CombinationAt(charset, 2, 16)
	assert.True(t, errors.Is(err, errors.ErrGenerator))
	_, err = PermutationAt(charset, 2, 12)
	assert.True(t, errors.Is(err, errors.ErrGenerator))
}

func TestUnrankingLargeSpace(t *testing.T) {
	lower, err := charset.Parse("lower")
	require.NoError(t, err)

	tok, err := CombinationAt(lower, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, "aaaaaaaaaaaaaaaaaaaa", tok)

	tok, err = CombinationAt(lower, 20, 27)
	require.NoError(t, err)
	assert.Equal(t, "aaaaaaaaaaaaaaaaaabb", tok)

	tok, err = PermutationAt(lower, 26, 1)
	require.NoError(t, err)
	assert.Equal(t, "abcdefghijklmnopqrstuvwxzy", tok)
}

func TestCombinationRank(t *testing.T) {
	charset := cs("abc")
	for rank, tok := range Enumerate(charset, 3, Combination, 0) {
		got, ok := CombinationRank(charset, tok)
		require.True(t, ok)
		assert.Equal(t, rank, got)
	}
	_, ok := CombinationRank(charset, "abz")
	assert.False(t, ok)
}

func TestEnumerateFrom(t *testing.T) {
	charset := cs("abc")
	for _, mode := range []Mode{Combination, Permutation} {
		all := slices.Collect(tokens(Enumerate(charset, 2, mode, 0)))
		for start := range len(all) + 1 {
			got := slices.Collect(tokens(Enumerate(charset, 2, mode, uint64(start))))
			if start == len(all) {
				assert.Empty(t, got)
				continue
			}
			assert.Equal(t, all[start:], got, "%s from %d", mode, start)
		}
	}
}
