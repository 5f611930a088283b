// Package parallel consumes listkit split cursors on several goroutines.
//
// The container behind the cursor must not be changed structurally while a
// traversal runs; such a change is detected on a best-effort basis and
// returned as listkit.ErrConcurrentModification.
package parallel

import (
	"context"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/phroun/listkit"
)

// ctxCheckEvery is how many elements a worker consumes between checks of
// its context.
const ctxCheckEvery = 256

// Options configures a parallel traversal.
type Options struct {
	// Workers bounds the number of pieces, and so of goroutines. Zero means
	// runtime.GOMAXPROCS(0).
	Workers int

	// Logger receives a debug event describing the split. Nil means no logging.
	Logger *slog.Logger
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// Split divides sc into at most n pieces by repeated TrySplit, in
// encounter order: every element of pieces[i] comes before every element of
// pieces[i+1]. It stops early when no piece can be split further.
func Split[T any](sc listkit.SplitCursor[T], n int) []listkit.SplitCursor[T] {
	pieces := []listkit.SplitCursor[T]{sc}
	for len(pieces) < n {
		next := make([]listkit.SplitCursor[T], 0, 2*len(pieces))
		split := false
		for i, p := range pieces {
			if len(next)+len(pieces)-i < n {
				if prefix := p.TrySplit(); prefix != nil {
					next = append(next, prefix)
					split = true
				}
			}
			next = append(next, p)
		}
		pieces = next
		if !split {
			break
		}
	}
	return pieces
}

// ForEach calls fn for every element of sc. fn runs concurrently on up to
// opts.Workers goroutines and must be safe for that. The first error from
// any piece, or the context's error, is returned.
func ForEach[T any](ctx context.Context, sc listkit.SplitCursor[T], opts Options, fn func(T)) error {
	pieces := Split(sc, opts.workers())
	opts.logger().Debug("parallel foreach",
		slog.Int("pieces", len(pieces)),
		slog.Int("workers", opts.workers()))

	g, ctx := errgroup.WithContext(ctx)
	for _, p := range pieces {
		g.Go(func() error {
			return drain(ctx, p, fn)
		})
	}
	return g.Wait()
}

// Reduce folds each piece of sc into its own accumulator, starting from
// zero(), and merges the partial results in encounter order.
func Reduce[T, A any](
	ctx context.Context,
	sc listkit.SplitCursor[T],
	opts Options,
	zero func() A,
	fold func(A, T) A,
	merge func(A, A) A,
) (A, error) {
	pieces := Split(sc, opts.workers())
	opts.logger().Debug("parallel reduce", slog.Int("pieces", len(pieces)))

	partial := make([]A, len(pieces))
	g, ctx := errgroup.WithContext(ctx)
	for i, p := range pieces {
		g.Go(func() error {
			acc := zero()
			err := drain(ctx, p, func(v T) { acc = fold(acc, v) })
			partial[i] = acc
			return err
		})
	}
	if err := g.Wait(); err != nil {
		var none A
		return none, err
	}

	result := zero()
	for _, a := range partial {
		result = merge(result, a)
	}
	return result, nil
}

func drain[T any](ctx context.Context, p listkit.SplitCursor[T], fn func(T)) error {
	for n := 0; ; n++ {
		if n%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		ok, err := p.TryAdvance(fn)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
}
