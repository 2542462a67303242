package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regginator/omniwordlist/errors"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default is valid", func(c *Config) {}, false},
		{"min zero", func(c *Config) { c.MinLength = 0 }, true},
		{"min greater than max", func(c *Config) { c.MinLength = 5; c.MaxLength = 3 }, true},
		{"max over limit", func(c *Config) { c.MaxLength = 1001 }, true},
		{"max at limit", func(c *Config) { c.MaxLength = 1000 }, false},
		{"negative workers", func(c *Config) { c.Workers = -1 }, true},
		{"bad format", func(c *Config) { c.Format = "xml" }, true},
		{"csv with compression", func(c *Config) { c.Format = FormatCSV; c.Compression = "gzip" }, true},
		{"filter bounds inverted", func(c *Config) { c.Filters.MinLen = 9; c.Filters.MaxLen = 2 }, true},
		{"entropy bounds inverted", func(c *Config) {
			lo, hi := 3.0, 1.0
			c.Filters.EntropyMin = &lo
			c.Filters.EntropyMax = &hi
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errors.ErrConfig))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMode(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "charset", cfg.Mode())

	cfg.EnabledFields = []string{"last_name_0"}
	assert.Equal(t, "fields", cfg.Mode())

	cfg.Pattern = "@@%"
	assert.Equal(t, "pattern", cfg.Mode())

	cfg.Wordlist = "rockyou.txt"
	assert.Equal(t, "wordlist", cfg.Mode())
}

func TestCloneIsDeep(t *testing.T) {
	seed := int64(7)
	cfg := Default()
	cfg.Transforms = []string{"upper"}
	cfg.Seed = &seed

	clone := cfg.Clone()
	clone.Transforms[0] = "lower"
	*clone.Seed = 9

	assert.Equal(t, "upper", cfg.Transforms[0])
	assert.Equal(t, int64(7), *cfg.Seed)
}

func TestLoadJSONWithComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.json")
	body := `{
		// crunch style
		"min_length": 2,
		"max_length": 4,
		"pattern": "@@%",
		"transforms": ["upper", "reverse"],
		"filters": {"min_len": 2, "entropy_min": 1.5},
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.MinLength)
	assert.Equal(t, 4, cfg.MaxLength)
	assert.Equal(t, "@@%", cfg.Pattern)
	assert.Equal(t, []string{"upper", "reverse"}, cfg.Transforms)
	assert.Equal(t, 2, cfg.Filters.MinLen)
	require.NotNil(t, cfg.Filters.EntropyMin)
	assert.InDelta(t, 1.5, *cfg.Filters.EntropyMin, 1e-9)
	assert.True(t, cfg.Dedupe, "defaults apply to missing keys")
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.toml")
	body := `
min_length = 3
max_length = 3
charset = "abc"
permutations_only = true
compression = "zstd"

[filters]
max_repeats = 1
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "abc", cfg.Charset)
	assert.True(t, cfg.PermutationsOnly)
	assert.Equal(t, "zstd", cfg.Compression)
	assert.Equal(t, 1, cfg.Filters.MaxRepeats)
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.ini")
	require.NoError(t, os.WriteFile(path, []byte("min_length=1"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConfig))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConfig))
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("min_length = = 2"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConfig))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	seed := int64(42)
	cfg := Default()
	cfg.MinLength = 2
	cfg.MaxLength = 5
	cfg.Charset = "lower+digit"
	cfg.Prefix = "x-"
	cfg.Transforms = []string{"leet_basic"}
	cfg.Seed = &seed

	for _, ext := range []string{".json", ".toml", ".yaml"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cfg"+ext)
			require.NoError(t, Save(cfg, path))

			loaded, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, cfg.MinLength, loaded.MinLength)
			assert.Equal(t, cfg.MaxLength, loaded.MaxLength)
			assert.Equal(t, cfg.Charset, loaded.Charset)
			assert.Equal(t, cfg.Prefix, loaded.Prefix)
			assert.Equal(t, cfg.Transforms, loaded.Transforms)
			require.NotNil(t, loaded.Seed)
			assert.Equal(t, seed, *loaded.Seed)
		})
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("OMNI_MAX_LENGTH", "6")

	cfg, err := Parse([]byte(`{"min_length": 2, "max_length": 3}`), "json")
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.MaxLength)
}

func TestWatchReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watch.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"min_length": 1, "max_length": 2}`), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(cfg Config, err error) {
			if err == nil {
				got <- cfg
			}
		})
	}()

	// Give the watcher a moment to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(`{"min_length": 1, "max_length": 7}`), 0644))

	select {
	case cfg := <-got:
		assert.Equal(t, 7, cfg.MaxLength)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}

	cancel()
	assert.NoError(t, <-done)
}
