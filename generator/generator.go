package generator

import (
	"context"
	"iter"
	"math/rand/v2"
	"os"
	"time"

	"github.com/regginator/omniwordlist/charset"
	"github.com/regginator/omniwordlist/config"
	"github.com/regginator/omniwordlist/errors"
	"github.com/regginator/omniwordlist/fields"
	"github.com/regginator/omniwordlist/filter"
	"github.com/regginator/omniwordlist/logger"
	"github.com/regginator/omniwordlist/storage"
	"github.com/regginator/omniwordlist/transform"
)

const (
	// checkEvery is how many tokens pass between cancellation checks.
	checkEvery = 1024

	progressEvery = 4096
)

// Options configure a Generator beyond its Config.
type Options struct {
	// JobID keys checkpoints. Required when Checkpoints is set.
	JobID string
	// Checkpoints receives a snapshot every Config.CheckpointEvery tokens
	// and when the run ends. Nil disables checkpointing.
	Checkpoints *storage.CheckpointStore
	// Resume continues from a saved snapshot.
	Resume *storage.CheckpointState
	// Rand drives randomised transforms. Defaults to one seeded from
	// Config.Seed.
	Rand *rand.Rand
	// Progress, when set, is called periodically from the run loop.
	Progress func(Stats)
}

// Stats describe a run. Generated counts decorated tokens taken from the
// source, including those of the run being resumed; max_lines caps it.
type Stats struct {
	Generated    uint64
	Duplicates   uint64
	Filtered     uint64
	Written      uint64
	LastToken    *string
	Position     Position
	LimitReached bool
	Checkpoints  int
	Duration     time.Duration
}

// Generator runs the full pipeline for one config.
type Generator struct {
	cfg      config.Config
	source   Source
	pipeline *transform.Pipeline
	filters  *filter.Chain
	opts     Options
}

// NewSource builds the token source a config selects: a wordlist, the
// field product, or a charset (possibly from a pattern).
func NewSource(cfg config.Config) (Source, error) {
	dec := Decorator{Prefix: cfg.Prefix, Suffix: cfg.Suffix, DupLimit: ParseDuplicateLimit(cfg.DuplicateLimit)}

	switch cfg.Mode() {
	case "wordlist":
		info, err := os.Stat(cfg.Wordlist)
		if err != nil {
			return nil, errors.WrapKindf(err, errors.ErrGenerator, "wordlist %s", cfg.Wordlist)
		}
		if info.IsDir() {
			return nil, errors.Generatorf("wordlist %s is a directory", cfg.Wordlist)
		}
		return &wordlistSource{path: cfg.Wordlist, dec: dec}, nil
	case "fields":
		if err := fields.ValidateDependencies(cfg.EnabledFields); err != nil {
			return nil, err
		}
		fs, err := fields.Resolve(cfg.EnabledFields)
		if err != nil {
			return nil, err
		}
		return &fieldsSource{fs: fs, dec: dec}, nil
	default:
		cs, err := charset.Resolve(cfg)
		if err != nil {
			return nil, err
		}
		if cs.Len() == 0 {
			return nil, errors.Generatorf("charset is empty")
		}
		return newCharsetSource(cfg, cs), nil
	}
}

// New validates cfg and resolves everything a run needs, so naming and
// configuration mistakes surface before any token is produced.
func New(cfg config.Config, opts Options) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if _, err := storage.ParseCompression(cfg.Compression); err != nil {
		return nil, err
	}
	if opts.Checkpoints != nil && opts.JobID == "" {
		return nil, errors.Generatorf("checkpointing requires a job id")
	}

	source, err := NewSource(cfg)
	if err != nil {
		return nil, err
	}

	rng := opts.Rand
	if rng == nil {
		rng = transform.NewRand(cfg.Seed)
	}
	pipeline, err := transform.Parse(cfg.Transforms, rng)
	if err != nil {
		return nil, err
	}
	filters, err := filter.Build(cfg.Filters)
	if err != nil {
		return nil, err
	}

	return &Generator{
		cfg:      cfg,
		source:   source,
		pipeline: pipeline,
		filters:  filters,
		opts:     opts,
	}, nil
}

// Source returns the token source.
func (g *Generator) Source() Source { return g.source }

// Config returns the config the generator was built from.
func (g *Generator) Config() config.Config { return g.cfg }

// start returns the position and counters a run begins with.
func (g *Generator) start() Stats {
	var stats Stats
	if r := g.opts.Resume; r != nil {
		stats.Generated = r.TokensGenerated
		stats.LastToken = r.LastToken
		stats.Position = Position{Length: r.CurrentLength, Index: r.StartIndex}
	}
	return stats
}

func (g *Generator) limitHit(stats Stats) bool {
	return g.cfg.MaxLines > 0 && stats.Generated >= g.cfg.MaxLines
}

// refine runs one decorated token through dedupe, transforms and
// filters. It reports false when the token is dropped.
func (g *Generator) refine(dd *Deduper, token string, stats *Stats) (string, bool) {
	if dd != nil && dd.Seen(token) {
		stats.Duplicates++
		return "", false
	}
	out := g.pipeline.Apply(token)
	if !g.filters.Accept(out) {
		stats.Filtered++
		return "", false
	}
	return out, true
}

func (g *Generator) newDeduper() *Deduper {
	if !g.cfg.Dedupe {
		return nil
	}
	return NewDeduper()
}

// Tokens yields the final token stream without writing or checkpointing.
func (g *Generator) Tokens(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		stats := g.start()
		if g.limitHit(stats) {
			return
		}
		dd := g.newDeduper()
		for item, err := range g.source.Items(ctx, stats.Position) {
			if err != nil {
				yield("", err)
				return
			}
			stats.Generated++
			if out, ok := g.refine(dd, item.Token, &stats); ok {
				if !yield(out, nil) {
					return
				}
			}
			if g.limitHit(stats) {
				return
			}
		}
	}
}

// Run writes the final token stream to sink. Progress is checkpointed on
// the configured cadence, always after flushing the sink, so a snapshot
// never points past output that has not reached it. A cancelled context
// ends the run with a final checkpoint and the context's error.
func (g *Generator) Run(ctx context.Context, sink storage.Sink) (Stats, error) {
	began := time.Now()
	stats := g.start()
	total, _ := g.source.Count()

	logger.Infow("Generation started",
		logger.FieldJobID, g.opts.JobID,
		logger.FieldMode, g.source.Name(),
		logger.FieldTotalCount, total,
		logger.FieldIndex, stats.Generated,
	)

	finish := func(runErr error) (Stats, error) {
		stats.Duration = time.Since(began)
		if err := g.checkpoint(sink, &stats); err != nil && runErr == nil {
			runErr = err
		}
		if runErr != nil {
			logger.Warnw("Generation stopped",
				logger.FieldJobID, g.opts.JobID,
				logger.FieldCount, stats.Written,
				logger.FieldError, runErr.Error(),
				logger.FieldErrorType, errors.Kind(runErr),
			)
			return stats, runErr
		}
		logger.Infow("Generation finished",
			logger.FieldJobID, g.opts.JobID,
			logger.FieldCount, stats.Written,
			logger.FieldTotalCount, stats.Generated,
			logger.FieldDurationMS, stats.Duration.Milliseconds(),
		)
		return stats, nil
	}

	if g.limitHit(stats) {
		stats.LimitReached = true
		return finish(nil)
	}

	dd := g.newDeduper()
	var sinceCheckpoint uint64
	for item, err := range g.source.Items(ctx, stats.Position) {
		if err != nil {
			return finish(err)
		}

		out, ok := g.refine(dd, item.Token, &stats)
		if ok {
			if err := sink.Write(out); err != nil {
				if errors.Is(err, storage.ErrLimitReached) {
					stats.LimitReached = true
					return finish(nil)
				}
				return finish(err)
			}
			stats.Written++
		}
		stats.Generated++
		token := item.Token
		stats.LastToken = &token
		stats.Position = item.Next

		if g.limitHit(stats) {
			stats.LimitReached = true
			return finish(nil)
		}
		if every := g.cfg.CheckpointEvery; g.opts.Checkpoints != nil && every > 0 {
			if sinceCheckpoint++; sinceCheckpoint >= every {
				if err := g.checkpoint(sink, &stats); err != nil {
					return finish(err)
				}
				sinceCheckpoint = 0
			}
		}
		if g.opts.Progress != nil && stats.Generated%progressEvery == 0 {
			g.opts.Progress(stats)
		}
		if stats.Generated%checkEvery == 0 && ctx.Err() != nil {
			return finish(ctx.Err())
		}
	}
	return finish(nil)
}

// checkpoint flushes the sink and saves the current position.
func (g *Generator) checkpoint(sink storage.Sink, stats *Stats) error {
	if err := sink.Flush(); err != nil {
		return err
	}
	if g.opts.Checkpoints == nil {
		return nil
	}
	state := storage.NewCheckpointState(g.opts.JobID, g.cfg)
	state.Update(stats.LastToken, stats.Position.Length, stats.Position.Index, stats.Generated)
	out := sink.Stats()
	state.Output = &out
	if err := g.opts.Checkpoints.Save(state); err != nil {
		return err
	}
	stats.Checkpoints++
	logger.Debugw("Checkpoint saved",
		logger.FieldJobID, g.opts.JobID,
		logger.FieldLength, state.CurrentLength,
		logger.FieldIndex, state.StartIndex,
		logger.FieldCount, state.TokensGenerated,
	)
	return nil
}

// PreviewEntry is one token of a preview with its scores.
type PreviewEntry struct {
	Token   string  `json:"token"`
	Entropy float64 `json:"entropy"`
	Quality float64 `json:"quality"`
}

// Preview returns the first n tokens of the final stream.
func (g *Generator) Preview(ctx context.Context, n int) ([]PreviewEntry, error) {
	out := make([]PreviewEntry, 0, n)
	if n <= 0 {
		return out, nil
	}
	for tok, err := range g.Tokens(ctx) {
		if err != nil {
			return nil, err
		}
		out = append(out, PreviewEntry{
			Token:   tok,
			Entropy: filter.Entropy(tok),
			Quality: filter.QualityScore(tok),
		})
		if len(out) == n {
			break
		}
	}
	return out, nil
}
