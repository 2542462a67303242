package generator

import (
	"context"
	"iter"

	"golang.org/x/sync/errgroup"

	"github.com/regginator/omniwordlist/logger"
)

// shardBuffer is how many items a length shard may run ahead of the
// consumer.
const shardBuffer = 4096

// parallelItems enumerates each length in its own goroutine, at most
// workers at a time, and yields the shards back in ascending length
// order. The merged stream is identical to the sequential one, so
// deduplication downstream stays global.
func (s *charsetSource) parallelItems(ctx context.Context, from Position) iter.Seq2[Item, error] {
	return func(yield func(Item, error) bool) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.workers)

		n := s.maxLen - from.Length + 1
		shards := make([]chan Item, n)
		for i := range shards {
			shards[i] = make(chan Item, shardBuffer)
		}

		// Shards are launched in the order they are consumed, so the shard
		// being drained has always been started.
		launched := make(chan struct{})
		go func() {
			defer close(launched)
			for i := range shards {
				length := from.Length + i
				var skip uint64
				if i == 0 {
					skip = from.Index
				}
				out := shards[i]
				if gctx.Err() != nil {
					close(out)
					continue
				}
				g.Go(func() error {
					defer close(out)
					logger.Debugw("Shard started",
						logger.FieldShard, i,
						logger.FieldLength, length,
					)
					for item := range s.batch(gctx, length, skip) {
						select {
						case out <- item:
						case <-gctx.Done():
							return gctx.Err()
						}
					}
					return nil
				})
			}
		}()

		// shards only fail on cancellation, which ctx.Err() already reports
		wait := func() {
			cancel()
			<-launched
			g.Wait()
		}

		for _, ch := range shards {
			for item := range ch {
				if !yield(item, nil) {
					wait()
					return
				}
			}
			if err := ctx.Err(); err != nil {
				wait()
				yield(Item{}, err)
				return
			}
		}

		wait()
	}
}
