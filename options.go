package main

import (
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/regginator/omniwordlist/config"
	"github.com/regginator/omniwordlist/errors"
	"github.com/regginator/omniwordlist/presets"
	"github.com/regginator/omniwordlist/util"
)

// genFlags are the generation flags shared by run, preview and status.
// A flag only overrides the config file or preset when it was set.
type genFlags struct {
	configPath string
	preset     string

	length       string
	charset      string
	pattern      string
	literals     string
	start        string
	end          string
	prefix       string
	suffix       string
	dupLimit     string
	permutations bool
	invert       bool
	fields       []string
	wordlist     string
	transforms   []string
	dedupe       bool

	regex       string
	entropyMin  float64
	minQuality  float64
	noProfanity bool
	noCommon    bool
	rules       []string

	output      string
	compression string
	format      string
	maxLines    uint64
	maxBytes    uint64
	splitLines  uint64
	splitBytes  uint64
	proxyFile   string
	rateLimit   float64
	every       uint64
	workers     int
	seed        int64
}

func (f *genFlags) register(fs *pflag.FlagSet, output bool) {
	fs.StringVar(&f.configPath, "config", "", "Load the config from a .json, .toml or .yaml file")
	fs.StringVar(&f.preset, "preset", "", "Start from a named preset")

	fs.StringVarP(&f.length, "length", "l", "", "Token length range, either a single number or 2 numbers in the format \"1-6\"")
	fs.StringVarP(&f.charset, "charset", "c", "", "Charset preset name, \"+\"-joined preset names, or literal characters")
	fs.StringVarP(&f.pattern, "pattern", "p", "", "Marker pattern (@ lower, % digit, ^ symbol, , upper, ? alnum, ! printable)")
	fs.StringVar(&f.literals, "literal", "", "Extra literal characters to add to a pattern's charset")
	fs.StringVar(&f.start, "start", "", "Skip tokens before this one")
	fs.StringVar(&f.end, "end", "", "Stop after this token")
	fs.StringVar(&f.prefix, "prefix", "", "Text prepended to every token")
	fs.StringVar(&f.suffix, "suffix", "", "Text appended to every token")
	fs.StringVarP(&f.dupLimit, "dup-limit", "d", "", "Maximum run of identical adjacent characters, e.g. \"2@\"")
	fs.BoolVar(&f.permutations, "permutations", false, "Never repeat a character within a token")
	fs.BoolVar(&f.invert, "invert", false, "Emit each length in reverse order")
	fs.StringSliceVar(&f.fields, "fields", nil, "Generate the product of these catalog field ids")
	fs.StringVarP(&f.wordlist, "wordlist", "w", "", "Refine an existing wordlist file (may be compressed)")
	fs.StringSliceVarP(&f.transforms, "transform", "T", nil, "Transforms applied in order (repeatable)")
	fs.BoolVar(&f.dedupe, "dedupe", true, "Drop repeated tokens")

	fs.StringVar(&f.regex, "regex", "", "Keep only tokens matching this RE2 pattern")
	fs.Float64Var(&f.entropyMin, "entropy-min", 0, "Minimum Shannon entropy in bits per character")
	fs.Float64Var(&f.minQuality, "min-quality", 0, "Minimum password quality score (0-1)")
	fs.BoolVar(&f.noProfanity, "no-profanity", false, "Drop tokens containing profanity")
	fs.BoolVar(&f.noCommon, "no-common", false, "Drop well-known weak passwords")
	fs.StringSliceVar(&f.rules, "filter", nil, "Extra filter rules as \"name:arg\" (repeatable)")

	fs.IntVarP(&f.workers, "threads", "t", 1, "Number of lengths generated in parallel")
	fs.Int64Var(&f.seed, "seed", 0, "Seed for randomised transforms")

	if !output {
		return
	}
	fs.StringVarP(&f.output, "output", "o", "", "Output file, \"-\" for stdout, or a tcp:// / ws:// consumer")
	fs.StringVarP(&f.compression, "compression", "z", "", "Compression codec [none, gzip, bzip2, lz4, zstd]")
	fs.StringVarP(&f.format, "format", "f", "", "Output format [txt, jsonl, csv]")
	fs.Uint64Var(&f.maxLines, "max-lines", 0, "Stop after this many tokens")
	fs.Uint64Var(&f.maxBytes, "max-bytes", 0, "Stop once this many bytes are written")
	fs.Uint64Var(&f.splitLines, "split-lines", 0, "Start a new part file every n tokens")
	fs.Uint64Var(&f.splitBytes, "split-bytes", 0, "Start a new part file every n bytes")
	fs.StringVar(&f.proxyFile, "proxies", "", "Path to list of SOCKS(4/5) proxies for remote outputs, in the format \"scheme://[username:pass@]host[:port]\"")
	fs.Float64Var(&f.rateLimit, "rate", 0, "Maximum tokens per second sent to a remote output")
	fs.Uint64Var(&f.every, "checkpoint-every", 0, "Save a checkpoint every n tokens")
}

// base returns the config the flags are applied on top of.
func (f *genFlags) base() (config.Config, error) {
	switch {
	case f.configPath != "" && f.preset != "":
		return config.Config{}, errors.Configf("--config and --preset are mutually exclusive")
	case f.configPath != "":
		return config.Load(f.configPath)
	case f.preset != "":
		store, err := presets.NewStore(filepath.Join(stateDir, "presets"))
		if err != nil {
			return config.Config{}, err
		}
		p, err := store.Get(f.preset)
		if err != nil {
			return config.Config{}, err
		}
		return p.Config, nil
	default:
		return config.Default(), nil
	}
}

// resolve builds the config for cmd.
func (f *genFlags) resolve(cmd *cobra.Command) (config.Config, error) {
	cfg, err := f.base()
	if err != nil {
		return config.Config{}, err
	}
	changed := cmd.Flags().Changed

	if changed("length") {
		cfg.MinLength, cfg.MaxLength, err = util.ParseLengthRange(f.length)
		if err != nil {
			return config.Config{}, err
		}
	}
	setString := func(name string, dst *string, v string) {
		if changed(name) {
			*dst = v
		}
	}
	setString("charset", &cfg.Charset, f.charset)
	setString("pattern", &cfg.Pattern, f.pattern)
	setString("literal", &cfg.LiteralChars, f.literals)
	setString("start", &cfg.StartString, f.start)
	setString("end", &cfg.EndString, f.end)
	setString("prefix", &cfg.Prefix, f.prefix)
	setString("suffix", &cfg.Suffix, f.suffix)
	setString("dup-limit", &cfg.DuplicateLimit, f.dupLimit)
	setString("wordlist", &cfg.Wordlist, f.wordlist)
	setString("regex", &cfg.Filters.RegexPattern, f.regex)

	if changed("permutations") {
		cfg.PermutationsOnly = f.permutations
	}
	if changed("invert") {
		cfg.Invert = f.invert
	}
	if changed("dedupe") {
		cfg.Dedupe = f.dedupe
	}
	if changed("fields") {
		cfg.EnabledFields = f.fields
	}
	if changed("transform") {
		cfg.Transforms = f.transforms
	}
	if changed("entropy-min") {
		v := f.entropyMin
		cfg.Filters.EntropyMin = &v
	}
	if changed("min-quality") {
		v := f.minQuality
		cfg.Filters.MinQuality = &v
	}
	if changed("no-profanity") {
		cfg.Filters.NoProfanity = f.noProfanity
	}
	if changed("no-common") {
		cfg.Filters.NoCommonPatterns = f.noCommon
	}
	if changed("filter") {
		cfg.Filters.Rules = append(cfg.Filters.Rules, f.rules...)
	}
	if changed("threads") {
		cfg.Workers = f.workers
	}
	if changed("seed") {
		seed := f.seed
		cfg.Seed = &seed
	}

	if cmd.Flags().Lookup("output") == nil {
		return cfg, nil
	}
	setString("output", &cfg.OutputFile, f.output)
	setString("compression", &cfg.Compression, f.compression)
	setString("format", &cfg.Format, f.format)
	setString("proxies", &cfg.ProxyFile, f.proxyFile)
	setUint := func(name string, dst *uint64, v uint64) {
		if changed(name) {
			*dst = v
		}
	}
	setUint("max-lines", &cfg.MaxLines, f.maxLines)
	setUint("max-bytes", &cfg.MaxBytes, f.maxBytes)
	setUint("split-lines", &cfg.SplitLines, f.splitLines)
	setUint("split-bytes", &cfg.SplitBytes, f.splitBytes)
	setUint("checkpoint-every", &cfg.CheckpointEvery, f.every)
	if changed("rate") {
		cfg.RateLimit = f.rateLimit
	}
	return cfg, nil
}
