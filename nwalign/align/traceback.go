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

import "github.com/pkg/errors"

// traceLinear walks the pointer matrix from the bottom-right corner to the
// origin. A pointer that leads out of the matrix is a fatal error.
func traceLinear(g *grid, a, b []byte) ([]byte, []byte, error) {
	i, j := len(a), len(b)
	w := g.w
	alignA := make([]byte, 0, i+j)
	alignB := make([]byte, 0, i+j)

	var p Pointer
	for i > 0 || j > 0 {
		p = g.pointers[idx(i, j, w)]
		switch p {
		case Diagonal:
			if i == 0 || j == 0 {
				return nil, nil, inconsistent(p.String(), i, j)
			}
			alignA = append(alignA, a[i-1])
			alignB = append(alignB, b[j-1])
			i--
			j--
		case Up:
			if i == 0 {
				return nil, nil, inconsistent(p.String(), i, j)
			}
			alignA = append(alignA, a[i-1])
			alignB = append(alignB, GapChar)
			i--
		case Left:
			if j == 0 {
				return nil, nil, inconsistent(p.String(), i, j)
			}
			alignA = append(alignA, GapChar)
			alignB = append(alignB, b[j-1])
			j--
		default:
			return nil, nil, inconsistent(p.String(), i, j)
		}
	}

	reverse(alignA)
	reverse(alignB)
	return alignA, alignB, nil
}

// traceAffine walks the three state matrices, starting from state M
// of the bottom-right corner.
func traceAffine(g *affineGrid, a, b []byte) ([]byte, []byte, error) {
	i, j := len(a), len(b)
	w := g.w
	alignA := make([]byte, 0, i+j)
	alignB := make([]byte, 0, i+j)

	state := StateM
	var k int
	var prev State
	for i > 0 || j > 0 {
		k = idx(i, j, w)
		switch state {
		case StateM:
			prev = g.tM[k]
			switch prev {
			case StateM:
				if i == 0 || j == 0 {
					return nil, nil, inconsistent("M->M", i, j)
				}
				alignA = append(alignA, a[i-1])
				alignB = append(alignB, b[j-1])
				i--
				j--
			case StateX, StateY:
				state = prev // no symbol consumed
			default:
				return nil, nil, inconsistent("M->"+prev.String(), i, j)
			}
		case StateX:
			prev = g.tX[k]
			if i == 0 || (prev != StateX && prev != StateM) {
				return nil, nil, inconsistent("X->"+prev.String(), i, j)
			}
			alignA = append(alignA, a[i-1])
			alignB = append(alignB, GapChar)
			i--
			state = prev
		case StateY:
			prev = g.tY[k]
			if j == 0 || (prev != StateY && prev != StateM) {
				return nil, nil, inconsistent("Y->"+prev.String(), i, j)
			}
			alignA = append(alignA, GapChar)
			alignB = append(alignB, b[j-1])
			j--
			state = prev
		default:
			return nil, nil, inconsistent(state.String(), i, j)
		}
	}

	reverse(alignA)
	reverse(alignB)
	return alignA, alignB, nil
}

func inconsistent(tag string, i, j int) error {
	return errors.Wrapf(ErrInternalConsistency, "traceback tag %s at cell (%d, %d)", tag, i, j)
}

func reverse(s []byte) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
