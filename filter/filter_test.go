package filter

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regginator/omniwordlist/config"
	"github.com/regginator/omniwordlist/errors"
)

func ptr[T any](v T) *T { return &v }

func TestEntropy(t *testing.T) {
	assert.Equal(t, 0.0, Entropy(""))
	assert.Equal(t, 0.0, Entropy("aaaa"))
	assert.InDelta(t, 2.0, Entropy("abcd"), 1e-9)
	assert.InDelta(t, 1.0, Entropy("abab"), 1e-9)
	assert.InDelta(t, 2.0, Entropy("äöüß"), 1e-9, "counts runes, not bytes")
	assert.Greater(t, Entropy("xkcd"), Entropy("aaab"))
}

func TestMaxRun(t *testing.T) {
	assert.Equal(t, 0, MaxRun(""))
	assert.Equal(t, 1, MaxRun("abc"))
	assert.Equal(t, 3, MaxRun("abbbc"))
	assert.Equal(t, 2, MaxRun("  x"))
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name   string
		pred   Predicate
		accept []string
		reject []string
	}{
		{"length", Length(5, 10), []string{"hello", "ñññññ"}, []string{"hi", "verylongword"}},
		{"length open", Length(2, 0), []string{"ab", "abcdefghijklmnop"}, []string{"a"}},
		{"allowed", Allowed("abc"), []string{"abc", "cab", ""}, []string{"abd"}},
		{"forbidden", Forbidden("xyz"), []string{"abc"}, []string{"abx"}},
		{"entropy min", EntropyMin(1.5), []string{"abcd"}, []string{"aaaa"}},
		{"entropy max", EntropyMax(1.0), []string{"aaaa", "abab"}, []string{"abcd"}},
		{"max repeats", MaxRepeats(2), []string{"aabb"}, []string{"aaab"}},
		{"denylist", Denylist([]string{"Password"}), []string{"password1"}, []string{"PASSWORD", "password"}},
		{"blocklist", Blocklist([]string{"Admin", ""}), []string{"user"}, []string{"superADMIN1"}},
		{"pronounceable", Pronounceable(), []string{"hello"}, []string{"xy", "aaa", "123"}},
		{"language", Language("English"), []string{"hello"}, []string{"привет"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, s := range tt.accept {
				assert.True(t, tt.pred(s), "should accept %q", s)
			}
			for _, s := range tt.reject {
				assert.False(t, tt.pred(s), "should reject %q", s)
			}
		})
	}
}

func TestRegex(t *testing.T) {
	p, err := Regex(`^[a-z]+\d$`)
	require.NoError(t, err)
	assert.True(t, p("abc1"))
	assert.False(t, p("abc"))

	_, err = Regex(`(unclosed`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrFilter))
}

func TestQualityScore(t *testing.T) {
	assert.Less(t, QualityScore("password"), QualityScore("xB7k!mQz"))
	assert.Greater(t, QualityScore("xB7k!mQ"), 0.5)
	for _, s := range []string{"", "a", "password123456admin", "Zq9!Zq9!Zq9!Zq9!"} {
		q := QualityScore(s)
		assert.GreaterOrEqual(t, q, 0.0)
		assert.LessOrEqual(t, q, 1.0)
	}
}

func TestVisualSimilarity(t *testing.T) {
	assert.Equal(t, 0.0, VisualSimilarity("abc"))
	assert.InDelta(t, 0.1, VisualSimilarity("o0"), 1e-9)
	assert.InDelta(t, 0.3, VisualSimilarity("0o1l5s"), 1e-9)
}

func TestDetectLanguage(t *testing.T) {
	tests := map[string]string{
		"":         "unknown",
		"hello":    "english",
		"объявить": "russian",
		"äöü":      "german",
		"çé":       "french",
		"ñá":       "spanish",
		"日本語":      "unknown",
	}
	for in, want := range tests {
		assert.Equal(t, want, DetectLanguage(in), in)
	}
}

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 0, Levenshtein("abc", "abc"))
	assert.Equal(t, 3, Levenshtein("kitten", "sitting"))
	assert.Equal(t, 3, Levenshtein("", "abc"))
	assert.Equal(t, 1, Levenshtein("café", "cafe"))
}

func TestBuild(t *testing.T) {
	chain, err := Build(config.FilterConfig{
		MinLen:           3,
		MaxLen:           8,
		ExcludeCharset:   "!",
		EntropyMin:       ptr(1.0),
		NoCommonPatterns: true,
		Blocklist:        []string{"root"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"length", "exclude_charset", "entropy_min", "no_common_patterns", "blocklist"}, chain.Names())

	in := []string{"ab", "abd", "abc", "abd!", "aaaa", "qwerty", "qwerty1", "groot", "toolongtoken"}
	got := slices.Collect(chain.Seq(slices.Values(in)))
	assert.Equal(t, []string{"abd", "qwerty1"}, got)
}

func TestBuildEmptyAcceptsAll(t *testing.T) {
	chain, err := Build(config.FilterConfig{})
	require.NoError(t, err)
	assert.Equal(t, 0, chain.Len())
	assert.True(t, chain.Accept("anything"))
}

func TestBuildRejectsBadRegex(t *testing.T) {
	_, err := Build(config.FilterConfig{RegexPattern: "["})
	assert.True(t, errors.Is(err, errors.ErrFilter))
}

func TestRules(t *testing.T) {
	chain, err := Build(config.FilterConfig{Rules: []string{
		"min_len:4",
		"not_regex:^admin",
		"min_distance:password:3",
	}})
	require.NoError(t, err)

	assert.True(t, chain.Accept("hunter2"))
	assert.False(t, chain.Accept("abc"))
	assert.False(t, chain.Accept("admin1"))
	assert.False(t, chain.Accept("passw0rd"))
}

func TestRuleErrors(t *testing.T) {
	for _, rule := range []string{"nope", "min_len:x", "min_len:-1", "entropy_min:high", "charset", "min_distance:word"} {
		t.Run(rule, func(t *testing.T) {
			_, err := ParseRule(rule)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrFilter))
		})
	}
}

func TestRegisterRule(t *testing.T) {
	require.NoError(t, RegisterRule("test_even", func(string) (Predicate, error) {
		return func(s string) bool { return len(s)%2 == 0 }, nil
	}))
	p, err := ParseRule("test_even")
	require.NoError(t, err)
	assert.True(t, p("ab"))
	assert.False(t, p("abc"))

	assert.Error(t, RegisterRule("regex", Regex))
	assert.Contains(t, RuleNames(), "test_even")
}
