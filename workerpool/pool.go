/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package workerpool

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Work computes job i's result. Implementations must not share mutable
// state across calls; the pool hands out one call per goroutine slot, so a
// caller that needs per-worker scratch space should close over a
// sync.Pool or index-keyed buffer.
type Work func(ctx context.Context, i int) ([]byte, error)

// Write receives job i's result in strictly ascending index order, once
// every job before it has also been written. Called from a single
// goroutine, so it never needs its own locking.
type Write func(i int, v []byte) error

// Progress is called after each job completes, with the number of jobs
// finished so far (not necessarily written yet). May be nil.
type Progress func(done, total int)

// Run executes work(0..n) across at most concurrency goroutines and flushes
// results through write in index order. It returns the first error from
// either a worker or the writer; on error, in-flight workers are canceled
// via ctx but already-queued results are discarded rather than written out
// of order.
func Run(ctx context.Context, n, concurrency int, work Work, write Write, progress Progress) error {
	if n <= 0 {
		return nil
	}
	if concurrency <= 0 {
		concurrency = 1
	}

	results := make([][]byte, n)
	ready := make([]bool, n)
	var mu sync.Mutex
	next := 0
	var done int64

	// flush must run with mu held for its whole body: write is documented
	// as single-writer, so two job goroutines racing to flush adjacent
	// indices must never call it concurrently.
	var writeErr error
	flush := func() error {
		if writeErr != nil {
			return writeErr
		}
		for next < n && ready[next] {
			v := results[next]
			results[next] = nil
			idx := next
			next++
			if err := write(idx, v); err != nil {
				writeErr = err
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			v, err := work(gctx, i)
			if err != nil {
				return err
			}

			mu.Lock()
			results[i] = v
			ready[i] = true
			if progress != nil {
				d := atomic.AddInt64(&done, 1)
				progress(int(d), n)
			}
			err = flush()
			mu.Unlock()
			return err
		})
	}

	return g.Wait()
}
