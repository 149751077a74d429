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

// Rescore computes the score of two aligned sequences column by column.
// In the affine mode, a gap open score is added whenever a gap run starts,
// or switches from one sequence to the other.
// A column with gaps on both sides is invalid.
func Rescore(alignA, alignB []byte, o *AlignOptions, affine bool) (int, error) {
	if len(alignA) != len(alignB) {
		return 0, errors.Wrapf(ErrInvalidInput, "aligned sequences have different lengths: %d != %d", len(alignA), len(alignB))
	}

	var score int
	var gapA, gapB bool
	var a, b byte
	for k := range alignA {
		a, b = alignA[k], alignB[k]
		switch {
		case a == GapChar && b == GapChar:
			return 0, errors.Wrapf(ErrInvalidInput, "gaps on both sequences at column %d", k+1)
		case a == GapChar:
			if !affine {
				score += o.GapScore
			} else if gapA {
				score += o.GapExtendScore
			} else {
				score += o.GapOpenScore + o.GapExtendScore
			}
			gapA, gapB = true, false
		case b == GapChar:
			if !affine {
				score += o.GapScore
			} else if gapB {
				score += o.GapExtendScore
			} else {
				score += o.GapOpenScore + o.GapExtendScore
			}
			gapA, gapB = false, true
		default:
			score += o.Substitution(a, b)
			gapA, gapB = false, false
		}
	}
	return score, nil
}

// Ungap removes gap symbols from an aligned sequence.
func Ungap(s []byte) []byte {
	t := make([]byte, 0, len(s))
	for _, c := range s {
		if c != GapChar {
			t = append(t, c)
		}
	}
	return t
}
