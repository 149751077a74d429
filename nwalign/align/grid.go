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
	"math"
	"math/bits"

	"github.com/pkg/errors"
)

// Pointer is for saving where the maximum score of current position comes from.
type Pointer uint8

const (
	None     Pointer = iota // No data, the topleft corner.
	Diagonal                // match or mismatch, from (i-1, j-1)
	Up                      // gap in the second sequence, from (i-1, j)
	Left                    // gap in the first sequence, from (i, j-1)
)

func (p Pointer) String() string {
	switch p {
	case Diagonal:
		return "↘︎"
	case Up:
		return "↓"
	case Left:
		return "→"
	case None:
		return "×"
	}
	return "■"
}

// State is one of the three states of the affine-gap automaton.
type State uint8

const (
	StateNone State = iota
	StateM          // substitution, or the best of the three
	StateX          // gap consuming a symbol of A
	StateY          // gap consuming a symbol of B
)

func (s State) String() string {
	switch s {
	case StateM:
		return "M"
	case StateX:
		return "X"
	case StateY:
		return "Y"
	}
	return "-"
}

// grid is the arena of one alignment call: one flat buffer per matrix,
// the cell (i, j) lives at i*w+j.
type grid struct {
	h, w     int
	scores   []int
	pointers []Pointer
}

func newGrid(m, n int) *grid {
	h, w := m+1, n+1
	return &grid{
		h:        h,
		w:        w,
		scores:   make([]int, h*w),
		pointers: make([]Pointer, h*w),
	}
}

// initBorders fills the first row and column with cumulative gap scores.
func (g *grid) initBorders(gap int) {
	var i, j, k int
	w := g.w

	// topleft most cell
	g.scores[0] = 0
	g.pointers[0] = None
	// the first column
	for i = 1; i < g.h; i++ {
		k = idx(i, 0, w)
		g.scores[k] = gap * i
		g.pointers[k] = Up
	}
	// the first row
	for j = 1; j < w; j++ {
		k = idx(0, j, w)
		g.scores[k] = gap * j
		g.pointers[k] = Left
	}
}

func idx(i, j, w int) int {
	return (i * w) + j
}

// CellBytes returns the number of bytes one grid cell costs in a mode.
// The linear-space mode keeps no grid and returns 0.
func CellBytes(mode Mode) int64 {
	const intSize = bits.UintSize / 8
	switch mode {
	case ModeLinear, ModeWavefront:
		return intSize + 1
	case ModeAffine:
		return 3*intSize + 3
	}
	return 0
}

// MatrixBytes estimates the memory of the full matrices for sequences
// of m and n symbols. It returns math.MaxInt64 on overflow.
func MatrixBytes(mode Mode, m, n int) int64 {
	per := CellBytes(mode)
	if per == 0 {
		return 0
	}
	h, w := uint64(m+1), uint64(n+1)
	hi, cells := bits.Mul64(h, w)
	if hi != 0 || cells > uint64(math.MaxInt) || cells > math.MaxInt64/uint64(per) {
		return math.MaxInt64
	}
	return int64(cells) * per
}

func (o *AlignOptions) checkMatrixSize(mode Mode, m, n int) error {
	need := MatrixBytes(mode, m, n)
	if need == math.MaxInt64 || (o.MaxMatrixBytes > 0 && need > o.MaxMatrixBytes) {
		return errors.Wrapf(ErrResourceExhausted, "%s mode needs %d bytes for %dx%d matrices, limit: %d",
			mode, need, m+1, n+1, o.MaxMatrixBytes)
	}
	return nil
}
