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

import "context"

// DiagonalRange returns the rows of the interior cells on the anti-diagonal k,
// i.e., cells (i, k-i) with 1 <= i <= m and 1 <= k-i <= n.
// The range is empty if end < begin.
func DiagonalRange(k, m, n int) (begin, end int) {
	begin = 1
	if k > n {
		begin = k - n
	}
	end = k - 1
	if k > m {
		end = m
	}
	return begin, end
}

// GlobalWavefront aligns two sequences with global alignment, filling the
// full matrices one anti-diagonal after another. Cells of an anti-diagonal
// depend only on earlier anti-diagonals, so they are handed to the
// Executor as independent units, and every unit owns the only cell it writes.
// The result is identical to Global.
func (alg *Aligner) GlobalWavefront(ctx context.Context, a, b []byte) (*AlignResult, error) {
	o := alg.Options
	if err := o.CheckSeqs(a, b); err != nil {
		return nil, err
	}
	if err := o.checkMatrixSize(ModeWavefront, len(a), len(b)); err != nil {
		if !o.Fallback {
			return nil, err
		}
		return alg.linearSpace(ctx, a, b)
	}

	g := newGrid(len(a), len(b))
	g.initBorders(o.GapScore)

	if err := alg.fillWavefront(ctx, g, a, b); err != nil {
		return nil, err
	}

	return alg.finishLinear(ModeWavefront, g, a, b)
}

func (alg *Aligner) fillWavefront(ctx context.Context, g *grid, a, b []byte) error {
	o := alg.Options
	exec := alg.executor()
	m, n := len(a), len(b)
	match, mismatch, gap := o.MatchScore, o.MisMatchScore, o.GapScore

	var begin, end int
	var err error
	for k := 1; k <= m+n; k++ {
		begin, end = DiagonalRange(k, m, n)
		if end < begin {
			continue
		}
		if err = ctx.Err(); err != nil {
			return err
		}

		// Run returns only after all units of diagonal k are done,
		// which is the barrier before diagonal k+1.
		_k, _begin := k, begin
		err = exec.Run(ctx, end-begin+1, func(t int) error {
			i := _begin + t
			g.fillCell(a, b, i, _k-i, match, mismatch, gap)
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}
