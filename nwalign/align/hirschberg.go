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
	"math/bits"

	"golang.org/x/sync/errgroup"
)

// sub-problems smaller than this are never split into goroutines.
const minParallelCells = 1 << 16

// GlobalLinearSpace aligns two sequences with global alignment with
// Hirschberg's algorithm, which only keeps score vectors instead of
// the full matrices. The score is the same as that of Global.
func (alg *Aligner) GlobalLinearSpace(ctx context.Context, a, b []byte) (*AlignResult, error) {
	if err := alg.Options.CheckSeqs(a, b); err != nil {
		return nil, err
	}
	return alg.linearSpace(ctx, a, b)
}

type hirschberg struct {
	o         *AlignOptions
	threshold int
	maxDepth  int // the deepest level running halves in parallel
}

func (alg *Aligner) linearSpace(ctx context.Context, a, b []byte) (*AlignResult, error) {
	o := alg.Options
	h := &hirschberg{o: o, threshold: o.threshold()}
	if workers := alg.executor().Workers(); workers > 1 {
		h.maxDepth = bits.Len(uint(workers))
	}

	// score vectors are sized by the second sequence, keep it the shorter one
	swapped := len(b) > len(a) && len(b) > h.threshold
	if swapped {
		a, b = b, a
	}

	alignA := make([]byte, 0, len(a)+len(b))
	alignB := make([]byte, 0, len(a)+len(b))
	alignA, alignB, err := h.align(ctx, a, b, alignA, alignB, 0)
	if err != nil {
		return nil, err
	}
	if swapped {
		alignA, alignB = alignB, alignA
	}

	r := newResult(ModeLinearSpace, alignA, alignB)
	r.Score, err = Rescore(alignA, alignB, o, false)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// align appends the alignment of a and b to dstA and dstB.
// a and b are views into the input sequences, nothing is copied.
func (h *hirschberg) align(ctx context.Context, a, b, dstA, dstB []byte, depth int) ([]byte, []byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	m, n := len(a), len(b)
	switch {
	case m == 0:
		for _, c := range b {
			dstA = append(dstA, GapChar)
			dstB = append(dstB, c)
		}
		return dstA, dstB, nil
	case n == 0:
		for _, c := range a {
			dstA = append(dstA, c)
			dstB = append(dstB, GapChar)
		}
		return dstA, dstB, nil
	case (m <= h.threshold && n <= h.threshold) || m == 1 || n == 1:
		// a single row or column of the matrix costs linear memory too
		return h.full(a, b, dstA, dstB)
	}

	mid := m / 2
	split := h.split(a, b, mid)

	if depth < h.maxDepth && m*n >= minParallelCells {
		var rightA, rightB []byte
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			dstA, dstB, err = h.align(gctx, a[:mid], b[:split], dstA, dstB, depth+1)
			return err
		})
		g.Go(func() (err error) {
			rightA, rightB, err = h.align(gctx, a[mid:], b[split:], nil, nil, depth+1)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, nil, err
		}
		return append(dstA, rightA...), append(dstB, rightB...), nil
	}

	var err error
	dstA, dstB, err = h.align(ctx, a[:mid], b[:split], dstA, dstB, depth+1)
	if err != nil {
		return nil, nil, err
	}
	return h.align(ctx, a[mid:], b[split:], dstA, dstB, depth+1)
}

// split returns the column j where an optimal path crosses the row mid,
// i.e., the first j maximizing forward[j] + backward[n-j].
// The score vectors are released before returning.
func (h *hirschberg) split(a, b []byte, mid int) int {
	n := len(b)
	buf := make([]int, 4*(n+1))
	forward := lastRow(h.o, a[:mid], b, false, buf[:n+1], buf[n+1:2*(n+1)])
	backward := lastRow(h.o, a[mid:], b, true, buf[2*(n+1):3*(n+1)], buf[3*(n+1):])

	split := 0
	best := forward[0] + backward[n]
	var s int
	for j := 1; j <= n; j++ {
		s = forward[j] + backward[n-j]
		if s > best {
			best = s
			split = j
		}
	}
	return split
}

// full aligns a small sub-problem with the full matrices.
func (h *hirschberg) full(a, b, dstA, dstB []byte) ([]byte, []byte, error) {
	o := h.o
	g := newGrid(len(a), len(b))
	g.initBorders(o.GapScore)
	var i, j int
	for i = 1; i < g.h; i++ {
		for j = 1; j < g.w; j++ {
			g.fillCell(a, b, i, j, o.MatchScore, o.MisMatchScore, o.GapScore)
		}
	}

	alignA, alignB, err := traceLinear(g, a, b)
	if err != nil {
		return nil, nil, err
	}
	return append(dstA, alignA...), append(dstB, alignB...), nil
}
