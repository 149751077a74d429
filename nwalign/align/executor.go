// Copyright © 2023-2024 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package align

import (
	"context"
	"fmt"
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Executor runs n independent units of work and returns after all of them
// complete. A unit is identified by its index in [0, n).
type Executor interface {
	Run(ctx context.Context, n int, unit func(i int) error) error

	// Workers returns the number of units that may run at the same time.
	Workers() int
}

// SerialExecutor runs all units in the calling goroutine.
type SerialExecutor struct{}

// Run runs units one by one.
func (SerialExecutor) Run(ctx context.Context, n int, unit func(i int) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return runUnits(0, n, unit)
}

// Workers returns 1.
func (SerialExecutor) Workers() int { return 1 }

// DefaultMinBatch is the minimum number of units handed to one goroutine.
const DefaultMinBatch = 256

// PoolExecutor spreads units over a group of goroutines.
// Units are cut into contiguous batches, one batch per goroutine.
type PoolExecutor struct {
	// The maximum number of goroutines, 0 for the number of CPUs.
	NumWorkers int
	// The minimum size of a batch, 0 for DefaultMinBatch.
	MinBatch int
}

// NewPoolExecutor returns a PoolExecutor with the given number of workers.
func NewPoolExecutor(workers int) *PoolExecutor {
	return &PoolExecutor{NumWorkers: workers}
}

// Workers returns the maximum number of goroutines.
func (e *PoolExecutor) Workers() int {
	if e.NumWorkers <= 0 {
		return runtime.NumCPU()
	}
	return e.NumWorkers
}

// Run runs units concurrently and waits for all of them.
// The first failed unit makes Run return an error wrapping ErrExecutorFailure.
func (e *PoolExecutor) Run(ctx context.Context, n int, unit func(i int) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if n <= 0 {
		return nil
	}

	workers := e.Workers()
	minBatch := e.MinBatch
	if minBatch <= 0 {
		minBatch = DefaultMinBatch
	}

	size := (n + workers - 1) / workers
	if size < minBatch {
		size = minBatch
	}
	if size >= n || workers == 1 {
		return runUnits(0, n, unit)
	}

	var g errgroup.Group
	g.SetLimit(workers)
	var end int
	for begin := 0; begin < n; begin += size {
		end = begin + size
		if end > n {
			end = n
		}
		begin, end := begin, end
		g.Go(func() error {
			return runUnits(begin, end, unit)
		})
	}
	return g.Wait()
}

// runUnits runs units in [begin, end), a panic is turned into an error.
func runUnits(begin, end int, unit func(i int) error) (err error) {
	i := begin
	defer func() {
		if r := recover(); r != nil {
			err = errors.Wrapf(ErrExecutorFailure, "work unit %d panicked: %v", i, r)
		}
	}()
	for ; i < end; i++ {
		if e := unit(i); e != nil {
			return errors.Wrap(ErrExecutorFailure, fmt.Sprintf("work unit %d: %s", i, e))
		}
	}
	return nil
}
