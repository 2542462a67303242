// Package config holds the generation Config value, its validation and the
// file formats it is loaded from and saved to.
package config

import (
	"slices"

	"github.com/regginator/omniwordlist/errors"
)

// MaxLengthLimit is the largest max_length a config may request.
const MaxLengthLimit = 1000

// Output formats
const (
	FormatText  = "txt"
	FormatJSONL = "jsonl"
	FormatCSV   = "csv"
)

// Config describes one generation run. It is treated as immutable once
// validated; stages receive it by value.
type Config struct {
	MinLength int `mapstructure:"min_length" json:"min_length" toml:"min_length" yaml:"min_length"`
	MaxLength int `mapstructure:"max_length" json:"max_length" toml:"max_length" yaml:"max_length"`

	// Charset is a preset name, a "+"-joined union of preset names, or a
	// literal set of characters.
	Charset string `mapstructure:"charset" json:"charset,omitempty" toml:"charset,omitempty" yaml:"charset,omitempty"`
	// Pattern is a marker pattern (@ lower, % digit, ^ symbol, , upper,
	// ? alnum, ! printable).
	Pattern      string `mapstructure:"pattern" json:"pattern,omitempty" toml:"pattern,omitempty" yaml:"pattern,omitempty"`
	LiteralChars string `mapstructure:"literal_chars" json:"literal_chars,omitempty" toml:"literal_chars,omitempty" yaml:"literal_chars,omitempty"`

	StartString string `mapstructure:"start_string" json:"start_string,omitempty" toml:"start_string,omitempty" yaml:"start_string,omitempty"`
	EndString   string `mapstructure:"end_string" json:"end_string,omitempty" toml:"end_string,omitempty" yaml:"end_string,omitempty"`

	Prefix string `mapstructure:"prefix" json:"prefix,omitempty" toml:"prefix,omitempty" yaml:"prefix,omitempty"`
	Suffix string `mapstructure:"suffix" json:"suffix,omitempty" toml:"suffix,omitempty" yaml:"suffix,omitempty"`

	// DuplicateLimit caps runs of identical adjacent characters, e.g. "2@".
	DuplicateLimit   string `mapstructure:"duplicate_limit" json:"duplicate_limit,omitempty" toml:"duplicate_limit,omitempty" yaml:"duplicate_limit,omitempty"`
	PermutationsOnly bool   `mapstructure:"permutations_only" json:"permutations_only" toml:"permutations_only" yaml:"permutations_only"`
	Invert           bool   `mapstructure:"invert" json:"invert" toml:"invert" yaml:"invert"`

	EnabledFields []string     `mapstructure:"enabled_fields" json:"enabled_fields,omitempty" toml:"enabled_fields,omitempty" yaml:"enabled_fields,omitempty"`
	Wordlist      string       `mapstructure:"wordlist" json:"wordlist,omitempty" toml:"wordlist,omitempty" yaml:"wordlist,omitempty"`
	Transforms    []string     `mapstructure:"transforms" json:"transforms,omitempty" toml:"transforms,omitempty" yaml:"transforms,omitempty"`
	Filters       FilterConfig `mapstructure:"filters" json:"filters" toml:"filters" yaml:"filters"`
	Dedupe        bool         `mapstructure:"dedupe" json:"dedupe" toml:"dedupe" yaml:"dedupe"`

	OutputFile  string `mapstructure:"output_file" json:"output_file,omitempty" toml:"output_file,omitempty" yaml:"output_file,omitempty"`
	Compression string `mapstructure:"compression" json:"compression,omitempty" toml:"compression,omitempty" yaml:"compression,omitempty"`
	Format      string `mapstructure:"format" json:"format,omitempty" toml:"format,omitempty" yaml:"format,omitempty"`
	MaxLines    uint64 `mapstructure:"max_lines" json:"max_lines,omitempty" toml:"max_lines,omitempty" yaml:"max_lines,omitempty"`
	MaxBytes    uint64 `mapstructure:"max_bytes" json:"max_bytes,omitempty" toml:"max_bytes,omitempty" yaml:"max_bytes,omitempty"`
	SplitLines  uint64 `mapstructure:"split_lines" json:"split_lines,omitempty" toml:"split_lines,omitempty" yaml:"split_lines,omitempty"`
	SplitBytes  uint64 `mapstructure:"split_bytes" json:"split_bytes,omitempty" toml:"split_bytes,omitempty" yaml:"split_bytes,omitempty"`

	// ProxyFile and RateLimit only apply to tcp:// and ws:// outputs.
	ProxyFile string  `mapstructure:"proxy_file" json:"proxy_file,omitempty" toml:"proxy_file,omitempty" yaml:"proxy_file,omitempty"`
	RateLimit float64 `mapstructure:"rate_limit" json:"rate_limit,omitempty" toml:"rate_limit,omitempty" yaml:"rate_limit,omitempty"`

	CheckpointDir   string `mapstructure:"checkpoint_dir" json:"checkpoint_dir,omitempty" toml:"checkpoint_dir,omitempty" yaml:"checkpoint_dir,omitempty"`
	CheckpointEvery uint64 `mapstructure:"checkpoint_every" json:"checkpoint_every,omitempty" toml:"checkpoint_every,omitempty" yaml:"checkpoint_every,omitempty"`

	Workers int    `mapstructure:"workers" json:"workers" toml:"workers" yaml:"workers"`
	Seed    *int64 `mapstructure:"seed" json:"seed,omitempty" toml:"seed,omitempty" yaml:"seed,omitempty"`
}

// FilterConfig selects the predicates of the filter chain. Zero values
// disable a predicate. Rules are extra "name:arg" predicates applied in
// order after the fixed ones.
type FilterConfig struct {
	MinLen           int      `mapstructure:"min_len" json:"min_len,omitempty" toml:"min_len,omitempty" yaml:"min_len,omitempty"`
	MaxLen           int      `mapstructure:"max_len" json:"max_len,omitempty" toml:"max_len,omitempty" yaml:"max_len,omitempty"`
	CharsetFilter    string   `mapstructure:"charset_filter" json:"charset_filter,omitempty" toml:"charset_filter,omitempty" yaml:"charset_filter,omitempty"`
	ExcludeCharset   string   `mapstructure:"exclude_charset" json:"exclude_charset,omitempty" toml:"exclude_charset,omitempty" yaml:"exclude_charset,omitempty"`
	RegexPattern     string   `mapstructure:"regex_pattern" json:"regex_pattern,omitempty" toml:"regex_pattern,omitempty" yaml:"regex_pattern,omitempty"`
	EntropyMin       *float64 `mapstructure:"entropy_min" json:"entropy_min,omitempty" toml:"entropy_min,omitempty" yaml:"entropy_min,omitempty"`
	EntropyMax       *float64 `mapstructure:"entropy_max" json:"entropy_max,omitempty" toml:"entropy_max,omitempty" yaml:"entropy_max,omitempty"`
	MaxRepeats       int      `mapstructure:"max_repeats" json:"max_repeats,omitempty" toml:"max_repeats,omitempty" yaml:"max_repeats,omitempty"`
	NoProfanity      bool     `mapstructure:"no_profanity" json:"no_profanity,omitempty" toml:"no_profanity,omitempty" yaml:"no_profanity,omitempty"`
	NoCommonPatterns bool     `mapstructure:"no_common_patterns" json:"no_common_patterns,omitempty" toml:"no_common_patterns,omitempty" yaml:"no_common_patterns,omitempty"`
	Blocklist        []string `mapstructure:"blocklist" json:"blocklist,omitempty" toml:"blocklist,omitempty" yaml:"blocklist,omitempty"`
	MinQuality       *float64 `mapstructure:"min_quality" json:"min_quality,omitempty" toml:"min_quality,omitempty" yaml:"min_quality,omitempty"`
	Pronounceable    bool     `mapstructure:"pronounceable" json:"pronounceable,omitempty" toml:"pronounceable,omitempty" yaml:"pronounceable,omitempty"`
	Language         string   `mapstructure:"language_filter" json:"language_filter,omitempty" toml:"language_filter,omitempty" yaml:"language_filter,omitempty"`
	Rules            []string `mapstructure:"rules" json:"rules,omitempty" toml:"rules,omitempty" yaml:"rules,omitempty"`
}

// Default returns the config used when no file or preset is given.
func Default() Config {
	return Config{
		MinLength:       1,
		MaxLength:       10,
		Dedupe:          true,
		Format:          FormatText,
		CheckpointEvery: 100_000,
		Workers:         1,
	}
}

// Validate rejects configs that must not reach the generator.
func (c Config) Validate() error {
	if c.MinLength == 0 {
		return errors.Configf("min_length must be > 0")
	}
	if c.MinLength < 0 || c.MaxLength < 0 {
		return errors.Configf("lengths must be positive (min_length=%d, max_length=%d)", c.MinLength, c.MaxLength)
	}
	if c.MinLength > c.MaxLength {
		return errors.Configf("min_length (%d) must be <= max_length (%d)", c.MinLength, c.MaxLength)
	}
	if c.MaxLength > MaxLengthLimit {
		return errors.WithHint(
			errors.Configf("max_length %d exceeds limit of %d", c.MaxLength, MaxLengthLimit),
			"lower max_length or use a pattern with fixed length",
		)
	}
	if c.Workers < 0 {
		return errors.Configf("workers must be >= 0, got %d", c.Workers)
	}
	if c.Format != "" && !slices.Contains([]string{FormatText, FormatJSONL, FormatCSV}, c.Format) {
		return errors.Configf("unsupported output format %q (expected txt, jsonl or csv)", c.Format)
	}
	if c.Format != "" && c.Format != FormatText && c.Compression != "" && c.Compression != "none" {
		return errors.Configf("compression is only supported for the txt format")
	}
	if c.RateLimit < 0 {
		return errors.Configf("rate_limit must be >= 0")
	}
	f := c.Filters
	if f.MinLen < 0 || f.MaxLen < 0 {
		return errors.Configf("filter lengths must be >= 0")
	}
	if f.MaxLen > 0 && f.MinLen > f.MaxLen {
		return errors.Configf("filters.min_len (%d) must be <= filters.max_len (%d)", f.MinLen, f.MaxLen)
	}
	if f.EntropyMin != nil && f.EntropyMax != nil && *f.EntropyMin > *f.EntropyMax {
		return errors.Configf("filters.entropy_min must be <= filters.entropy_max")
	}
	return nil
}

// OutputFormat returns the effective output format.
func (c Config) OutputFormat() string {
	if c.Format == "" {
		return FormatText
	}
	return c.Format
}

// Mode names the generation source selected by the config.
func (c Config) Mode() string {
	switch {
	case c.Wordlist != "":
		return "wordlist"
	case c.Pattern != "":
		return "pattern"
	case len(c.EnabledFields) > 0:
		return "fields"
	default:
		return "charset"
	}
}

// Clone returns a deep copy.
func (c Config) Clone() Config {
	out := c
	out.EnabledFields = slices.Clone(c.EnabledFields)
	out.Transforms = slices.Clone(c.Transforms)
	out.Filters.Blocklist = slices.Clone(c.Filters.Blocklist)
	out.Filters.Rules = slices.Clone(c.Filters.Rules)
	if c.Seed != nil {
		seed := *c.Seed
		out.Seed = &seed
	}
	if c.Filters.EntropyMin != nil {
		v := *c.Filters.EntropyMin
		out.Filters.EntropyMin = &v
	}
	if c.Filters.EntropyMax != nil {
		v := *c.Filters.EntropyMax
		out.Filters.EntropyMax = &v
	}
	if c.Filters.MinQuality != nil {
		v := *c.Filters.MinQuality
		out.Filters.MinQuality = &v
	}
	return out
}
