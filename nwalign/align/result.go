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

// Summary holds the statistics of an alignment.
type Summary struct {
	Len        int     // length of alignment
	Matches    int     // number of matches
	Mismatches int     // number of mismatches
	Gaps       int     // number of columns with a gap
	Similarity float64 // percentage of matches in all columns, 0 for an empty alignment
}

// Summarize classifies every column of two aligned sequences as a match,
// a mismatch, or a gap.
func Summarize(alignA, alignB []byte) (Summary, error) {
	var s Summary
	if len(alignA) != len(alignB) {
		return s, errors.Wrapf(ErrInvalidInput, "aligned sequences have different lengths: %d != %d", len(alignA), len(alignB))
	}

	var a, b byte
	for k := range alignA {
		a, b = alignA[k], alignB[k]
		switch {
		case a == GapChar || b == GapChar:
			s.Gaps++
		case a == b:
			s.Matches++
		default:
			s.Mismatches++
		}
	}
	s.Len = len(alignA)

	if total := s.Matches + s.Mismatches + s.Gaps; total > 0 {
		s.Similarity = float64(s.Matches) / float64(total) * 100
	}
	return s, nil
}

// AlignResult holds the details of the alignment.
type AlignResult struct {
	Mode  Mode // the mode that actually produced the alignment
	Score int  // simply the score

	Summary

	// AT_GTTAT
	// || | ||
	// ATCG_TAC
	AlignA []byte // Alignment string for seq A
	AlignM []byte // Matching symbols, "|" for match, " " for mismatch or gap
	AlignB []byte // Alignment string for seq B

	Matrix []byte // Matrix text, only for debugging.
}

// newResult builds a result from two aligned sequences of the same length.
func newResult(mode Mode, alignA, alignB []byte) *AlignResult {
	r := &AlignResult{
		Mode:   mode,
		AlignA: alignA,
		AlignB: alignB,
		AlignM: make([]byte, len(alignA)),
	}
	for k, c := range alignA {
		if c != GapChar && c == alignB[k] {
			r.AlignM[k] = '|'
		} else {
			r.AlignM[k] = ' '
		}
	}
	r.Summary, _ = Summarize(alignA, alignB)
	return r
}
