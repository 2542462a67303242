package generator

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regginator/omniwordlist/config"
	"github.com/regginator/omniwordlist/errors"
	"github.com/regginator/omniwordlist/storage"
)

// memorySink collects written tokens.
type memorySink struct {
	tokens  []string
	flushed int
}

func (m *memorySink) Write(token string) error {
	m.tokens = append(m.tokens, token)
	return nil
}

func (m *memorySink) Flush() error {
	m.flushed = len(m.tokens)
	return nil
}

func (m *memorySink) Close() error { return nil }

func (m *memorySink) Stats() storage.SinkStats {
	return storage.SinkStats{Lines: uint64(len(m.tokens)), Parts: 1}
}

func testConfig(charset string, min, max int) config.Config {
	cfg := config.Default()
	cfg.Charset = charset
	cfg.MinLength = min
	cfg.MaxLength = max
	return cfg
}

func run(t *testing.T, cfg config.Config, opts Options) ([]string, Stats) {
	t.Helper()
	g, err := New(cfg, opts)
	require.NoError(t, err)
	sink := &memorySink{}
	stats, err := g.Run(context.Background(), sink)
	require.NoError(t, err)
	return sink.tokens, stats
}

func TestRunCharset(t *testing.T) {
	got, stats := run(t, testConfig("ab", 1, 2), Options{})
	assert.Equal(t, []string{"a", "b", "aa", "ab", "ba", "bb"}, got)
	assert.Equal(t, uint64(6), stats.Generated)
	assert.Equal(t, uint64(6), stats.Written)
	assert.False(t, stats.LimitReached)
}

func TestRunPermutations(t *testing.T) {
	cfg := testConfig("abc", 2, 4)
	cfg.PermutationsOnly = true
	got, _ := run(t, cfg, Options{})
	assert.Len(t, got, 6+6)
	assert.Equal(t, "ab", got[0])
	assert.Equal(t, "cba", got[len(got)-1])
}

func TestRunPattern(t *testing.T) {
	cfg := config.Default()
	cfg.Pattern = "%"
	cfg.MinLength, cfg.MaxLength = 1, 1
	got, _ := run(t, cfg, Options{})
	assert.Equal(t, strings.Split("0123456789", ""), got)
}

func TestRunBounds(t *testing.T) {
	cfg := testConfig("ab", 2, 2)
	cfg.StartString, cfg.EndString = "ba", "bb"
	got, _ := run(t, cfg, Options{})
	assert.Equal(t, []string{"ba", "bb"}, got)

	// unsorted charset cannot seek; skipping stops at the first token
	// not below start, later smaller tokens are kept
	cfg = testConfig("ba", 2, 2)
	cfg.StartString = "b"
	got, _ = run(t, cfg, Options{})
	assert.Equal(t, []string{"bb", "ba", "ab", "aa"}, got)

	cfg = testConfig("ba", 2, 2)
	cfg.StartString = "bb"
	got, _ = run(t, cfg, Options{})
	assert.Equal(t, []string{"bb", "ba", "ab", "aa"}, got)

	cfg = testConfig("bca", 2, 2)
	cfg.StartString = "c"
	cfg.Invert = true
	got, _ = run(t, cfg, Options{})
	assert.Equal(t, []string{"aa", "ac", "ab", "ca", "cc", "cb"}, got)

	cfg = testConfig("ab", 2, 2)
	cfg.StartString, cfg.EndString = "x", "y"
	got, _ = run(t, cfg, Options{})
	assert.Empty(t, got)
}

func TestRunDecoration(t *testing.T) {
	cfg := testConfig("ab", 2, 3)
	cfg.Prefix, cfg.Suffix = "<", ">"
	cfg.DuplicateLimit = "1"
	cfg.StartString = "ab"
	got, _ := run(t, cfg, Options{})
	// bounds and duplicate suppression see the undecorated token
	assert.Equal(t, []string{"<ab>", "<ba>", "<aba>", "<bab>"}, got)
}

func TestRunInvert(t *testing.T) {
	plain, _ := run(t, testConfig("abc", 2, 2), Options{})

	cfg := testConfig("abc", 2, 2)
	cfg.Invert = true
	inverted, _ := run(t, cfg, Options{})

	want := slices.Clone(plain)
	slices.Reverse(want)
	assert.Equal(t, want, inverted)
}

func TestRunMaxLines(t *testing.T) {
	cfg := testConfig("ab", 1, 3)
	cfg.MaxLines = 4
	got, stats := run(t, cfg, Options{})
	assert.Equal(t, []string{"a", "b", "aa", "ab"}, got)
	assert.True(t, stats.LimitReached)
}

func TestRunMaxBytes(t *testing.T) {
	var buf bytes.Buffer
	sink, err := storage.NewStreamSink(&buf, storage.SinkOptions{MaxBytes: 7})
	require.NoError(t, err)

	g, err := New(testConfig("ab", 2, 2), Options{})
	require.NoError(t, err)
	stats, err := g.Run(context.Background(), sink)
	require.NoError(t, err)
	assert.True(t, stats.LimitReached)
	assert.Equal(t, "aa\nab\n", buf.String())
}

func TestRunTransformsAndFilters(t *testing.T) {
	cfg := testConfig("ab", 2, 2)
	cfg.Transforms = []string{"upper", "reverse"}
	cfg.Filters.RegexPattern = "^B"
	got, stats := run(t, cfg, Options{})
	assert.Equal(t, []string{"BA", "BB"}, got)
	assert.Equal(t, uint64(2), stats.Filtered)
}

func TestRunDedupe(t *testing.T) {
	cfg := testConfig("aA", 1, 1)
	cfg.Transforms = []string{"lower"}
	got, stats := run(t, cfg, Options{})
	assert.Equal(t, []string{"a", "a"}, got, "dedupe runs before transforms")
	assert.Zero(t, stats.Duplicates)

	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte("x\ny\nx\n"), 0644))
	cfg = config.Default()
	cfg.Wordlist = path
	got, stats = run(t, cfg, Options{})
	assert.Equal(t, []string{"x", "y"}, got)
	assert.Equal(t, uint64(1), stats.Duplicates)

	cfg.Dedupe = false
	got, _ = run(t, cfg, Options{})
	assert.Equal(t, []string{"x", "y", "x"}, got)
}

func TestRunSeededTransformsReproducible(t *testing.T) {
	seed := int64(42)
	cfg := testConfig("abc", 3, 3)
	cfg.Seed = &seed
	cfg.Transforms = []string{"leet_random", "append_numbers_2"}

	first, _ := run(t, cfg, Options{})
	second, _ := run(t, cfg, Options{})
	assert.Equal(t, first, second)
}

func TestNewFailsFast(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		kind   error
	}{
		{"unknown transform", func(c *config.Config) { c.Transforms = []string{"upper", "nope"} }, errors.ErrTransform},
		{"unknown charset", func(c *config.Config) { c.Charset = "lower+klingon" }, errors.ErrInvalidCharset},
		{"bad lengths", func(c *config.Config) { c.MinLength = 0 }, errors.ErrConfig},
		{"bad regex", func(c *config.Config) { c.Filters.RegexPattern = "(" }, errors.ErrFilter},
		{"bad compression", func(c *config.Config) { c.Compression = "rar" }, errors.ErrStorage},
		{"unknown field", func(c *config.Config) { c.EnabledFields = []string{"no_such_field"} }, errors.ErrField},
		{"missing dependency", func(c *config.Config) { c.EnabledFields = []string{"company_domain_0"} }, errors.ErrField},
		{"missing wordlist", func(c *config.Config) { c.Wordlist = "/nonexistent/words.txt" }, errors.ErrGenerator},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig("ab", 1, 2)
			tt.mutate(&cfg)
			_, err := New(cfg, Options{})
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.kind), "got %v", err)
		})
	}

	store, err := storage.NewCheckpointStore(t.TempDir())
	require.NoError(t, err)
	_, err = New(testConfig("ab", 1, 2), Options{Checkpoints: store})
	assert.True(t, errors.Is(err, errors.ErrGenerator))
}

func TestRunWorkers(t *testing.T) {
	for _, invert := range []bool{false, true} {
		cfg := testConfig("abc", 1, 5)
		cfg.Invert = invert
		sequential, _ := run(t, cfg, Options{})

		cfg.Workers = 3
		parallel, _ := run(t, cfg, Options{})
		assert.Equal(t, sequential, parallel, "invert=%v", invert)

		cfg.MaxLines = 50
		limited, _ := run(t, cfg, Options{})
		assert.Equal(t, sequential[:50], limited)
	}
}

func TestRunCancelled(t *testing.T) {
	store, err := storage.NewCheckpointStore(t.TempDir())
	require.NoError(t, err)
	g, err := New(testConfig("abcdefghij", 1, 6), Options{JobID: "cancel", Checkpoints: store})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = g.Run(ctx, &memorySink{})
	assert.ErrorIs(t, err, context.Canceled)

	state, err := store.Load("cancel")
	require.NoError(t, err)
	require.NotNil(t, state)
}

// resumeCase runs cfg to completion, then again stopping after stop
// tokens, resumes from the saved checkpoint and checks that the two
// halves make up the full output.
func resumeCase(t *testing.T, cfg config.Config, stop uint64) {
	t.Helper()
	full, _ := run(t, cfg, Options{})
	require.Greater(t, uint64(len(full)), stop)

	store, err := storage.NewCheckpointStore(t.TempDir())
	require.NoError(t, err)

	first := cfg.Clone()
	first.MaxLines = stop
	first.CheckpointEvery = 2
	head, stats := run(t, first, Options{JobID: "job", Checkpoints: store})
	require.True(t, stats.LimitReached)
	assert.Positive(t, stats.Checkpoints)

	state, err := store.Load("job")
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, stop, state.TokensGenerated)
	require.NotNil(t, state.LastToken)
	require.NotNil(t, state.Output, "checkpoint records the sink position")
	assert.Equal(t, uint64(len(head)), state.Output.Lines)

	tail, stats := run(t, cfg, Options{JobID: "job", Checkpoints: store, Resume: state})
	assert.Equal(t, uint64(len(full)), stats.Generated)
	assert.Equal(t, full, append(head, tail...))
}

func TestResume(t *testing.T) {
	t.Run("combination", func(t *testing.T) {
		resumeCase(t, testConfig("abc", 1, 3), 7)
	})
	t.Run("length boundary", func(t *testing.T) {
		resumeCase(t, testConfig("abc", 1, 3), 3)
	})
	t.Run("permutation", func(t *testing.T) {
		cfg := testConfig("abcd", 2, 3)
		cfg.PermutationsOnly = true
		resumeCase(t, cfg, 15)
	})
	t.Run("invert", func(t *testing.T) {
		cfg := testConfig("abc", 1, 3)
		cfg.Invert = true
		resumeCase(t, cfg, 8)
	})
	t.Run("bounds and suppression", func(t *testing.T) {
		cfg := testConfig("abc", 2, 3)
		cfg.StartString = "b"
		cfg.DuplicateLimit = "1"
		resumeCase(t, cfg, 5)
	})
	t.Run("workers", func(t *testing.T) {
		cfg := testConfig("abc", 1, 4)
		cfg.Workers = 2
		resumeCase(t, cfg, 20)
	})
	t.Run("fields", func(t *testing.T) {
		cfg := config.Default()
		cfg.EnabledFields = []string{"emoji_smile_0", "first_name_male_1", "emoji_fire_2"}
		resumeCase(t, cfg, 11)
	})
	t.Run("wordlist", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "words.txt.gz")
		sink, err := storage.NewFileSink(path, storage.SinkOptions{Compression: storage.CompressionGzip})
		require.NoError(t, err)
		for _, w := range []string{"alpha", "beta", "gamma", "delta", "epsilon"} {
			require.NoError(t, sink.Write(w))
		}
		require.NoError(t, sink.Close())

		cfg := config.Default()
		cfg.Wordlist = path
		resumeCase(t, cfg, 2)
	})
}

func TestRunFields(t *testing.T) {
	cfg := config.Default()
	cfg.EnabledFields = []string{"first_name_male_1", "birth_year_1990"}
	got, _ := run(t, cfg, Options{})
	assert.Equal(t, []string{"Arjun1990"}, got)

	cfg.EnabledFields = []string{"first_name_male_1", "emoji_smile_0"}
	got, _ = run(t, cfg, Options{})
	assert.Len(t, got, 5)
	assert.Equal(t, "Arjun😀", got[0])
}

func TestRunWordlist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	sink, err := storage.NewFileSink(path, storage.SinkOptions{})
	require.NoError(t, err)
	for _, w := range []string{"Admin", "  ", "root", "admin", "passsword"} {
		require.NoError(t, sink.Write(w))
	}
	require.NoError(t, sink.Close())

	cfg := config.Default()
	cfg.Wordlist = path
	cfg.DuplicateLimit = "2"
	cfg.Transforms = []string{"lower"}
	got, _ := run(t, cfg, Options{})
	assert.Equal(t, []string{"admin", "root", "admin"}, got)

	g, err := New(cfg, Options{})
	require.NoError(t, err)
	n, err := g.Source().Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(4), n)
}

func TestPreview(t *testing.T) {
	g, err := New(testConfig("ab", 4, 4), Options{})
	require.NoError(t, err)

	entries, err := g.Preview(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "aaaa", entries[0].Token)
	assert.Equal(t, 0.0, entries[0].Entropy)
	assert.Equal(t, "aaab", entries[1].Token)

	entries, err = g.Preview(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestEstimateConfig(t *testing.T) {
	est, err := EstimateConfig(testConfig("ab", 1, 2))
	require.NoError(t, err)
	assert.Equal(t, "charset", est.Source)
	assert.Equal(t, int64(6), est.Total.Int64())
	// 2*1 + 4*2 bytes of tokens plus 6 newlines
	assert.Equal(t, int64(16), est.Bytes.Int64())

	cfg := testConfig("abc", 2, 2)
	cfg.PermutationsOnly = true
	cfg.Prefix = "--"
	est, err = EstimateConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, Permutation, est.Mode)
	assert.Equal(t, int64(6), est.Total.Int64())
	assert.Equal(t, int64(6*2+6*3), est.Bytes.Int64())

	cfg = config.Default()
	cfg.EnabledFields = []string{"first_name_male_1", "birth_year_1990"}
	est, err = EstimateConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, int64(1), est.Total.Int64())
	assert.Equal(t, int64(len("Arjun1990\n")), est.Bytes.Int64())
}
