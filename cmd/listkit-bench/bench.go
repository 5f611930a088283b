package main

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/phroun/listkit"
	"github.com/phroun/listkit/parallel"
)

type BenchResult struct {
	Name      string
	Container string
	Duration  time.Duration
	Ops       int
	Extra     string
	Err       error
}

func (r BenchResult) String() string {
	name := r.Name + " [" + r.Container + "]"
	if r.Err != nil {
		return fmt.Sprintf("%-40s %12v  ERROR: %v", name, r.Duration.Round(time.Microsecond), r.Err)
	}
	if r.Ops > 0 {
		opsPerSec := float64(r.Ops) / r.Duration.Seconds()
		if r.Extra != "" {
			return fmt.Sprintf("%-40s %12v  (%d ops, %.2f ops/sec) %s", name, r.Duration.Round(time.Microsecond), r.Ops, opsPerSec, r.Extra)
		}
		return fmt.Sprintf("%-40s %12v  (%d ops, %.2f ops/sec)", name, r.Duration.Round(time.Microsecond), r.Ops, opsPerSec)
	}
	if r.Extra != "" {
		return fmt.Sprintf("%-40s %12v  %s", name, r.Duration.Round(time.Microsecond), r.Extra)
	}
	return fmt.Sprintf("%-40s %12v", name, r.Duration.Round(time.Microsecond))
}

// newList returns an empty list of the named container kind.
func newList(container string, log *slog.Logger) listkit.List[int] {
	if container == ContainerLinked {
		return listkit.NewLinkedList[int](listkit.WithLogger(log))
	}
	return listkit.NewArrayList[int](listkit.WithLogger(log))
}

// filled returns a list holding 0..n-1.
func filled(container string, n int, log *slog.Logger) (listkit.List[int], error) {
	l := newList(container, log)
	vs := make([]int, n)
	for i := range vs {
		vs[i] = i
	}
	if _, err := l.AddAll(listkit.Of(vs...)); err != nil {
		return nil, err
	}
	return l, nil
}

// runWorkload times one workload against one container. Setup is not timed.
func runWorkload(ctx context.Context, w Workload, container string, rng *rand.Rand, log *slog.Logger) BenchResult {
	res := BenchResult{Name: w.Name, Container: container}
	l, err := filled(container, w.Size, log)
	if err != nil {
		res.Err = err
		return res
	}

	start := time.Now()
	switch w.Kind {
	case KindAppend:
		res.Ops, res.Err = benchAppend(l, w.Ops)
	case KindInsertMiddle:
		res.Ops, res.Err = benchInsertMiddle(l, w.Ops)
	case KindRemoveMiddle:
		res.Ops, res.Err = benchRemoveMiddle(l, w.Ops)
	case KindRandomGet:
		res.Ops, res.Extra, res.Err = benchRandomGet(l, w.Ops, rng)
	case KindCursorSweep:
		res.Ops, res.Extra, res.Err = benchCursorSweep(l)
	case KindSplitSweep:
		res.Ops, res.Extra, res.Err = benchSplitSweep(ctx, l, w.Workers)
	case KindRemoveIf:
		res.Ops, res.Err = benchRemoveIf(l)
	case KindSort:
		res.Ops, res.Err = benchSort(l, rng)
	case KindDeque:
		d, ok := l.(listkit.Deque[int])
		if !ok {
			res.Err = fmt.Errorf("%s container is not a deque", container)
			break
		}
		res.Ops, res.Err = benchDeque(d, w.Ops)
	default:
		res.Err = fmt.Errorf("unknown kind %q", w.Kind)
	}
	res.Duration = time.Since(start)
	return res
}

func benchAppend(l listkit.List[int], ops int) (int, error) {
	for i := 0; i < ops; i++ {
		if err := l.Add(i); err != nil {
			return i, err
		}
	}
	return ops, nil
}

func benchInsertMiddle(l listkit.List[int], ops int) (int, error) {
	for i := 0; i < ops; i++ {
		if err := l.Insert(l.Size()/2, i); err != nil {
			return i, err
		}
	}
	return ops, nil
}

func benchRemoveMiddle(l listkit.List[int], ops int) (int, error) {
	for i := 0; i < ops && !l.Empty(); i++ {
		if _, err := l.RemoveAt(l.Size() / 2); err != nil {
			return i, err
		}
	}
	return ops, nil
}

func benchRandomGet(l listkit.List[int], ops int, rng *rand.Rand) (int, string, error) {
	if l.Empty() {
		return 0, "", nil
	}
	sum := 0
	for i := 0; i < ops; i++ {
		v, err := l.Get(rng.Intn(l.Size()))
		if err != nil {
			return i, "", err
		}
		sum += v
	}
	return ops, fmt.Sprintf("sum %d", sum), nil
}

func benchCursorSweep(l listkit.List[int]) (int, string, error) {
	c := l.Cursor()
	n, sum := 0, 0
	for c.HasNext() {
		v, err := c.Next()
		if err != nil {
			return n, "", err
		}
		sum += v
		n++
	}
	return n, fmt.Sprintf("sum %d", sum), nil
}

func benchSplitSweep(ctx context.Context, l listkit.List[int], workers int) (int, string, error) {
	var sum atomic.Int64
	var n atomic.Int64
	err := parallel.ForEach(ctx, l.SplitCursor(), parallel.Options{Workers: workers}, func(v int) {
		sum.Add(int64(v))
		n.Add(1)
	})
	return int(n.Load()), fmt.Sprintf("sum %d", sum.Load()), err
}

func benchRemoveIf(l listkit.List[int]) (int, error) {
	n := l.Size()
	_, err := l.RemoveIf(func(v int) bool { return v%2 == 0 })
	return n, err
}

func benchSort(l listkit.List[int], rng *rand.Rand) (int, error) {
	if err := l.ReplaceAll(func(int) int { return rng.Int() }); err != nil {
		return 0, err
	}
	return l.Size(), l.Sort(cmp.Compare[int])
}

func benchDeque(d listkit.Deque[int], ops int) (int, error) {
	for i := 0; i < ops; i++ {
		d.OfferLast(i)
		if i%2 == 1 {
			if _, ok := d.Poll(); !ok {
				return i, fmt.Errorf("poll on %d: empty", i)
			}
		}
	}
	return ops, nil
}
