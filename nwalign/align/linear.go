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
	"bytes"
	"context"
	"fmt"
)

// Aligner implements the Needleman-Wunsch algorithm in several ways.
// All buffers are owned by a single call, so an Aligner can be shared by goroutines.
type Aligner struct {
	Options *AlignOptions

	// Executor runs the cells of an anti-diagonal in the wavefront mode,
	// and decides whether the linear-space mode recurses in parallel.
	// nil means SerialExecutor.
	Executor Executor
}

// NewAligner returns an aligner.
func NewAligner(options *AlignOptions) *Aligner {
	return &Aligner{
		Options:  options,
		Executor: SerialExecutor{},
	}
}

func (alg *Aligner) executor() Executor {
	if alg.Executor == nil {
		return SerialExecutor{}
	}
	return alg.Executor
}

// Global aligns two sequences with global alignment,
// filling the full matrices row by row.
func (alg *Aligner) Global(ctx context.Context, a, b []byte) (*AlignResult, error) {
	o := alg.Options
	if err := o.CheckSeqs(a, b); err != nil {
		return nil, err
	}
	if err := o.checkMatrixSize(ModeLinear, len(a), len(b)); err != nil {
		if !o.Fallback {
			return nil, err
		}
		return alg.linearSpace(ctx, a, b)
	}

	g := newGrid(len(a), len(b))
	g.initBorders(o.GapScore)

	match, mismatch, gap := o.MatchScore, o.MisMatchScore, o.GapScore
	var i, j int
	h, w := g.h, g.w
	for i = 1; i < h; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for j = 1; j < w; j++ {
			g.fillCell(a, b, i, j, match, mismatch, gap)
		}
	}

	return alg.finishLinear(ModeLinear, g, a, b)
}

// fillCell computes the score and pointer of the cell (i, j), i, j >= 1.
// It only reads the cells (i-1, j-1), (i-1, j) and (i, j-1).
// Ties are broken in the order of Diagonal, Up and Left.
func (g *grid) fillCell(a, b []byte, i, j, match, mismatch, gap int) {
	w := g.w
	k := idx(i, j, w)

	var max, s int
	if a[i-1] == b[j-1] {
		max = g.scores[k-w-1] + match
	} else {
		max = g.scores[k-w-1] + mismatch
	}
	p := Diagonal

	s = g.scores[k-w] + gap
	if s > max {
		max = s
		p = Up
	}
	s = g.scores[k-1] + gap
	if s > max {
		max = s
		p = Left
	}

	g.scores[k] = max
	g.pointers[k] = p
}

func (alg *Aligner) finishLinear(mode Mode, g *grid, a, b []byte) (*AlignResult, error) {
	alignA, alignB, err := traceLinear(g, a, b)
	if err != nil {
		return nil, err
	}

	r := newResult(mode, alignA, alignB)
	r.Score = g.scores[len(g.scores)-1]
	if alg.Options.SaveMatrix {
		r.Matrix = printMatrix(a, b, g)
	}
	return r, nil
}

// ScoreVector returns the last row of the score matrix of a against b,
// i.e., the scores of aligning the whole a against every prefix of b.
// Only two rows are kept in memory.
func (alg *Aligner) ScoreVector(a, b []byte) []int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	return lastRow(alg.Options, a, b, false, prev, cur)
}

// lastRow fills the score matrix of a against b with two rolling rows
// and returns the one holding the last row. With rev, both sequences are
// read from the end, as if they were reversed.
func lastRow(o *AlignOptions, a, b []byte, rev bool, prev, cur []int) []int {
	m, n := len(a), len(b)
	match, mismatch, gap := o.MatchScore, o.MisMatchScore, o.GapScore

	var i, j, max, s int
	var ca byte
	for j = 0; j <= n; j++ {
		prev[j] = j * gap
	}
	for i = 1; i <= m; i++ {
		cur[0] = i * gap
		if rev {
			ca = a[m-i]
		} else {
			ca = a[i-1]
		}
		for j = 1; j <= n; j++ {
			if (rev && ca == b[n-j]) || (!rev && ca == b[j-1]) {
				max = prev[j-1] + match
			} else {
				max = prev[j-1] + mismatch
			}
			s = prev[j] + gap
			if s > max {
				max = s
			}
			s = cur[j-1] + gap
			if s > max {
				max = s
			}
			cur[j] = max
		}
		prev, cur = cur, prev
	}
	return prev
}

func printMatrix(a, b []byte, g *grid) []byte {
	h, w := g.h, g.w
	var i, j, k int
	var buf bytes.Buffer

	// b
	buf.WriteString(fmt.Sprintf("%c  %s%-3s", ' ', " ", " "))
	for j = 0; j < len(b); j++ {
		buf.WriteString(fmt.Sprintf("  %s%3c", " ", b[j]))
	}
	buf.WriteByte('\n')

	for i = 0; i < h; i++ {
		if i == 0 {
			buf.WriteString(fmt.Sprintf("%c", ' '))
		} else {
			buf.WriteString(fmt.Sprintf("%c", a[i-1]))
		}

		for j = 0; j < w; j++ {
			k = idx(i, j, w)
			buf.WriteString(fmt.Sprintf("  %s%3d", g.pointers[k], g.scores[k]))
		}
		buf.WriteByte('\n')
	}

	return buf.Bytes()
}
