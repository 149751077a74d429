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

	"github.com/pkg/errors"
)

// affineGrid holds the three coupled matrices of the affine-gap mode
// and where each cell comes from.
//
//	M: the best score of the cell, last op being a substitution or a gap.
//	X: last op is a gap consuming a symbol of A, coming from (i-1, j).
//	Y: last op is a gap consuming a symbol of B, coming from (i, j-1).
type affineGrid struct {
	h, w int

	M, X, Y    []int
	tM, tX, tY []State
}

func newAffineGrid(m, n int) *affineGrid {
	h, w := m+1, n+1
	size := h * w
	g := &affineGrid{
		h: h,
		w: w,
		M: make([]int, size),
		X: make([]int, size),
		Y: make([]int, size),

		tM: make([]State, size),
		tX: make([]State, size),
		tY: make([]State, size),
	}
	for k := 0; k < size; k++ {
		g.M[k] = negInf
		g.X[k] = negInf
		g.Y[k] = negInf
	}
	return g
}

// initBorders sets the only reachable openings on the first row and column.
// A gap of L symbols costs open + L*extend wherever it is.
func (g *affineGrid) initBorders(open, extend int) {
	var i, j, k int
	w := g.w

	g.M[0] = 0
	// a border gap of length i costs open + i*extend like any inner gap,
	// so that open == 0 scores the same as the linear modes.
	for i = 1; i < g.h; i++ {
		k = idx(i, 0, w)
		g.X[k] = open + i*extend
		g.M[k] = g.X[k]
		g.tM[k] = StateX
		if i == 1 {
			g.tX[k] = StateM
		} else {
			g.tX[k] = StateX
		}
	}
	for j = 1; j < w; j++ {
		k = idx(0, j, w)
		g.Y[k] = open + j*extend
		g.M[k] = g.Y[k]
		g.tM[k] = StateY
		if j == 1 {
			g.tY[k] = StateM
		} else {
			g.tY[k] = StateY
		}
	}
}

// GlobalAffine aligns two sequences with global alignment and affine gap
// scores. Sequences are filled row by row.
func (alg *Aligner) GlobalAffine(ctx context.Context, a, b []byte) (*AlignResult, error) {
	o := alg.Options
	if err := o.CheckSeqs(a, b); err != nil {
		return nil, err
	}
	if err := o.checkMatrixSize(ModeAffine, len(a), len(b)); err != nil {
		return nil, err
	}

	g := newAffineGrid(len(a), len(b))
	open, extend := o.GapOpenScore, o.GapExtendScore
	g.initBorders(open, extend)

	openExtend := open + extend
	match, mismatch := o.MatchScore, o.MisMatchScore

	var i, j, k, kUp, kLeft int
	var ext, opn, s int
	h, w := g.h, g.w
	for i = 1; i < h; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for j = 1; j < w; j++ {
			k = idx(i, j, w)
			kUp = k - w
			kLeft = k - 1

			// X, extension wins ties
			ext = g.X[kUp] + extend
			opn = g.M[kUp] + openExtend
			if ext >= opn {
				g.X[k] = ext
				g.tX[k] = StateX
			} else {
				g.X[k] = opn
				g.tX[k] = StateM
			}

			// Y
			ext = g.Y[kLeft] + extend
			opn = g.M[kLeft] + openExtend
			if ext >= opn {
				g.Y[k] = ext
				g.tY[k] = StateY
			} else {
				g.Y[k] = opn
				g.tY[k] = StateM
			}

			// M, in the order of M, X and Y
			if a[i-1] == b[j-1] {
				s = g.M[kUp-1] + match
			} else {
				s = g.M[kUp-1] + mismatch
			}
			if s >= g.X[k] && s >= g.Y[k] {
				g.M[k] = s
				g.tM[k] = StateM
			} else if g.X[k] >= g.Y[k] {
				g.M[k] = g.X[k]
				g.tM[k] = StateX
			} else {
				g.M[k] = g.Y[k]
				g.tM[k] = StateY
			}
		}
	}

	alignA, alignB, err := traceAffine(g, a, b)
	if err != nil {
		return nil, err
	}

	r := newResult(ModeAffine, alignA, alignB)
	r.Score = g.M[len(g.M)-1]
	if r.Score <= negInf>>1 {
		return nil, errors.Wrap(ErrInternalConsistency, "the last cell is unreachable")
	}
	return r, nil
}
