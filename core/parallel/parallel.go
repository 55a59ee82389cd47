// Package parallel runs independent work items on a bounded pool of
// goroutines.
package parallel

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/lciaqsar/qsarstats/pkg/errors"
)

// Workers returns n when positive, the number of CPU cores otherwise, and
// never more than items.
func Workers(n, items int) int {
	if n <= 0 {
		n = runtime.NumCPU()
	}
	if n > items {
		n = items
	}
	if n < 1 {
		n = 1
	}
	return n
}

// ForEach calls fn for every index in [0, items) with at most workers calls
// in flight. Items are isolated: an error or panic in one is recorded in its
// slot of the returned slice and never stops the others. Items not started
// before ctx is done record ctx.Err().
func ForEach(ctx context.Context, items, workers int, fn func(ctx context.Context, i int) error) []error {
	errs := make([]error, items)
	if items == 0 {
		return errs
	}

	g := new(errgroup.Group)
	g.SetLimit(Workers(workers, items))

	for i := 0; i < items; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			errs[i] = errors.SafeExecute(fmt.Sprintf("item %d", i), func() error {
				return fn(ctx, i)
			})
			return nil
		})
	}
	_ = g.Wait()
	return errs
}

// Parallelize splits [0, items) into one contiguous range per worker and runs
// fn on each range concurrently.
func Parallelize(items, workers int, fn func(start, end int)) {
	if items == 0 {
		return
	}
	n := Workers(workers, items)
	chunkSize := (items + n - 1) / n

	var g errgroup.Group
	for start := 0; start < items; start += chunkSize {
		end := start + chunkSize
		if end > items {
			end = items
		}
		s, e := start, end
		g.Go(func() error {
			fn(s, e)
			return nil
		})
	}
	_ = g.Wait()
}
