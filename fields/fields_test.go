package fields

import (
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regginator/omniwordlist/errors"
)

func TestCatalogIDsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, f := range All() {
		assert.False(t, seen[f.ID], "duplicate id %s", f.ID)
		seen[f.ID] = true
		assert.NotEmpty(t, f.Examples, f.ID)
	}
	assert.Equal(t, Len(), len(seen))
}

func TestDependenciesReferToCatalog(t *testing.T) {
	for _, f := range All() {
		for _, id := range append(slices.Clone(f.Dependencies), f.Conflicts...) {
			_, ok := Get(id)
			assert.True(t, ok, "%s references unknown field %s", f.ID, id)
		}
	}
}

func TestGet(t *testing.T) {
	f, ok := Get("first_name_male_0")
	require.True(t, ok)
	assert.Equal(t, []string{"Aaryan"}, f.Examples)
	assert.Equal(t, "personal", f.Category)

	_, ok = Get("nope")
	assert.False(t, ok)
}

func TestQueries(t *testing.T) {
	assert.Len(t, ByGroup("months"), 12)
	for _, f := range ByCategory("personal") {
		assert.Equal(t, "personal", f.Category)
	}
	cats := Categories()
	assert.Contains(t, cats, "personal")
	assert.IsIncreasing(t, cats)

	for _, f := range DefaultEnabled() {
		assert.True(t, f.DefaultEnabled)
	}

	hits := Search("PIKACHU")
	require.Len(t, hits, 1)
	assert.Equal(t, "meme_format_3", hits[0].ID)
	assert.Nil(t, Search("  "))
}

func TestEstimateCardinality(t *testing.T) {
	assert.Equal(t, uint64(12*5000), EstimateCardinality([]string{"birth_month_name_0", "first_name_male_0", "ghost"}))
	assert.Equal(t, uint64(1), EstimateCardinality(nil))

	many := slices.Repeat([]string{"company_name_0"}, 8)
	assert.Equal(t, uint64(math.MaxUint64), EstimateCardinality(many))
}

func TestValidateDependencies(t *testing.T) {
	assert.NoError(t, ValidateDependencies([]string{"company_name_1", "company_domain_1"}))

	err := ValidateDependencies([]string{"company_domain_1"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrField))
	assert.Contains(t, err.Error(), "requires")

	err = ValidateDependencies([]string{"birth_year_1990", "birth_year_short_90"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "conflict")

	err = ValidateDependencies([]string{"ghost"})
	assert.True(t, errors.Is(err, errors.ErrField))
}

func TestTokensProduct(t *testing.T) {
	fs, err := Resolve([]string{"first_name_male_0", "emoji_smile_0", "birth_year_short_99"})
	require.NoError(t, err)

	got := slices.Collect(Tokens(fs))
	assert.Equal(t, uint64(5), Count(fs))
	assert.Equal(t, []string{
		"Aaryan😀99", "Aaryan😃99", "Aaryan😄99", "Aaryan😁99", "Aaryan😆99",
	}, got)
}

func TestTokensOrder(t *testing.T) {
	fs := []Field{
		{ID: "a", Examples: []string{"x", "y"}},
		{ID: "b", Examples: []string{"1", "2", "3"}},
	}
	assert.Equal(t, []string{"x1", "x2", "x3", "y1", "y2", "y3"}, slices.Collect(Tokens(fs)))
	assert.Empty(t, slices.Collect(Tokens(nil)))
	assert.Empty(t, slices.Collect(Tokens([]Field{{ID: "e"}})))
}
