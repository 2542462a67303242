package generator

import (
	"context"
	"iter"
	"math/big"
	"strings"
	"sync"

	"github.com/regginator/omniwordlist/charset"
	"github.com/regginator/omniwordlist/config"
	"github.com/regginator/omniwordlist/fields"
	"github.com/regginator/omniwordlist/storage"
)

// Position is where enumeration resumes. For charset sources Length is
// the token length being enumerated and Index the rank of the next token
// within it; under invert Index counts the tokens of the reversed batch
// already emitted. Fields and wordlist sources ignore Length and count
// tokens from the start.
type Position struct {
	Length int
	Index  uint64
}

// Item is one decorated token with the position that follows it.
type Item struct {
	Token string
	Next  Position
}

// Source produces the decorated token stream of a run.
type Source interface {
	// Name identifies the source kind for logs.
	Name() string
	// Count returns the raw number of tokens before bounding and
	// suppression, saturating at math.MaxUint64.
	Count() (uint64, error)
	// Items yields tokens starting at from.
	Items(ctx context.Context, from Position) iter.Seq2[Item, error]
}

// charsetSource enumerates every length in [min, max] over a charset.
type charsetSource struct {
	cs      charset.Charset
	mode    Mode
	minLen  int
	maxLen  int
	bounds  Bounds
	dec     Decorator
	invert  bool
	workers int
}

func newCharsetSource(cfg config.Config, cs charset.Charset) *charsetSource {
	mode := Combination
	if cfg.PermutationsOnly {
		mode = Permutation
	}
	return &charsetSource{
		cs:      cs,
		mode:    mode,
		minLen:  cfg.MinLength,
		maxLen:  cfg.MaxLength,
		bounds:  Bounds{Start: cfg.StartString, End: cfg.EndString},
		dec:     Decorator{Prefix: cfg.Prefix, Suffix: cfg.Suffix, DupLimit: ParseDuplicateLimit(cfg.DuplicateLimit)},
		invert:  cfg.Invert,
		workers: max(1, cfg.Workers),
	}
}

func (s *charsetSource) Name() string { return "charset" }

func (s *charsetSource) Count() (uint64, error) {
	var total uint64
	for length := s.minLen; length <= s.maxLen; length++ {
		total = addSat(total, Count(len(s.cs), length, s.mode))
	}
	return total, nil
}

// CountBig is the exact total over all lengths.
func (s *charsetSource) CountBig() *big.Int {
	total := new(big.Int)
	for length := s.minLen; length <= s.maxLen; length++ {
		total.Add(total, CountBig(len(s.cs), length, s.mode))
	}
	return total
}

// start normalizes a resume position to the first length to enumerate.
func (s *charsetSource) start(from Position) Position {
	if from.Length < s.minLen {
		return Position{Length: s.minLen}
	}
	return from
}

func (s *charsetSource) Items(ctx context.Context, from Position) iter.Seq2[Item, error] {
	from = s.start(from)
	if s.workers > 1 && s.maxLen > from.Length {
		return s.parallelItems(ctx, from)
	}
	return func(yield func(Item, error) bool) {
		for length := from.Length; length <= s.maxLen; length++ {
			var skip uint64
			if length == from.Length {
				skip = from.Index
			}
			for item := range s.batch(ctx, length, skip) {
				if !yield(item, nil) {
					return
				}
			}
			if err := ctx.Err(); err != nil {
				yield(Item{}, err)
				return
			}
		}
	}
}

// batch yields the decorated tokens of one length. skip is a rank, or
// under invert the number of reversed tokens already emitted.
// A cancelled ctx ends the batch early; callers check ctx afterwards.
func (s *charsetSource) batch(ctx context.Context, length int, skip uint64) iter.Seq[Item] {
	if s.invert {
		return s.invertedBatch(ctx, length, skip)
	}
	return func(yield func(Item) bool) {
		start := max(skip, s.bounds.seekRank(s.cs, length, s.mode))
		// a resumed batch has already passed Start
		started := skip > 0
		for rank, raw := range Enumerate(s.cs, length, s.mode, start) {
			if rank%checkEvery == 0 && ctx.Err() != nil {
				return
			}
			if !started {
				if s.bounds.Before(raw) {
					continue
				}
				started = true
			}
			if s.bounds.After(raw) {
				return
			}
			if !s.dec.Accept(raw) {
				continue
			}
			next := Position{Length: length, Index: rank + 1}
			if !yield(Item{Token: s.dec.Decorate(raw), Next: next}) {
				return
			}
		}
	}
}

func (s *charsetSource) invertedBatch(ctx context.Context, length int, skip uint64) iter.Seq[Item] {
	return func(yield func(Item) bool) {
		var buf []string
		start := s.bounds.seekRank(s.cs, length, s.mode)
		started := false
		for rank, raw := range Enumerate(s.cs, length, s.mode, start) {
			if rank%checkEvery == 0 && ctx.Err() != nil {
				return
			}
			if !started {
				if s.bounds.Before(raw) {
					continue
				}
				started = true
			}
			if s.bounds.After(raw) {
				break
			}
			if s.dec.Accept(raw) {
				buf = append(buf, raw)
			}
		}
		for i := len(buf) - 1; i >= 0; i-- {
			n := uint64(len(buf) - i)
			if n <= skip {
				continue
			}
			next := Position{Length: length, Index: n}
			if !yield(Item{Token: s.dec.Decorate(buf[i]), Next: next}) {
				return
			}
		}
	}
}

// fieldsSource is the cartesian product of field examples.
type fieldsSource struct {
	fs  []fields.Field
	dec Decorator
}

func (s *fieldsSource) Name() string { return "fields" }

func (s *fieldsSource) Count() (uint64, error) { return fields.Count(s.fs), nil }

func (s *fieldsSource) Items(ctx context.Context, from Position) iter.Seq2[Item, error] {
	return func(yield func(Item, error) bool) {
		var n uint64
		for raw := range fields.Tokens(s.fs) {
			n++
			if n <= from.Index {
				continue
			}
			if n%checkEvery == 0 && ctx.Err() != nil {
				yield(Item{}, ctx.Err())
				return
			}
			if !s.dec.Accept(raw) {
				continue
			}
			if !yield(Item{Token: s.dec.Decorate(raw), Next: Position{Index: n}}, nil) {
				return
			}
		}
	}
}

// wordlistSource refines the non-blank lines of an existing wordlist,
// compressed or not.
type wordlistSource struct {
	path string
	dec  Decorator

	countOnce sync.Once
	count     uint64
	countErr  error
}

func (s *wordlistSource) Name() string { return "wordlist" }

func (s *wordlistSource) lines() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		r, err := storage.OpenReader(s.path, storage.DetectCompression(s.path))
		if err != nil {
			yield("", err)
			return
		}
		defer r.Close()
		for line, err := range storage.Lines(r) {
			if !yield(line, err) || err != nil {
				return
			}
		}
	}
}

func lineIsWord(line string) bool {
	return strings.TrimSpace(line) != ""
}

// Count reads the file once; later calls reuse the result.
func (s *wordlistSource) Count() (uint64, error) {
	s.countOnce.Do(func() {
		for line, err := range s.lines() {
			if err != nil {
				s.countErr = err
				return
			}
			if lineIsWord(line) {
				s.count++
			}
		}
	})
	return s.count, s.countErr
}

func (s *wordlistSource) Items(ctx context.Context, from Position) iter.Seq2[Item, error] {
	return func(yield func(Item, error) bool) {
		var n uint64
		for line, err := range s.lines() {
			if err != nil {
				yield(Item{}, err)
				return
			}
			if !lineIsWord(line) {
				continue
			}
			n++
			if n <= from.Index {
				continue
			}
			if n%checkEvery == 0 && ctx.Err() != nil {
				yield(Item{}, ctx.Err())
				return
			}
			raw := strings.TrimSpace(line)
			if !s.dec.Accept(raw) {
				continue
			}
			if !yield(Item{Token: s.dec.Decorate(raw), Next: Position{Index: n}}, nil) {
				return
			}
		}
	}
}
