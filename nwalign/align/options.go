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
	"fmt"

	"github.com/pkg/errors"
)

// GapChar is the symbol placed where one sequence has no corresponding symbol.
const GapChar byte = '_'

// DefaultAlphabet contains IUPAC nucleotide codes, including U for RNA.
const DefaultAlphabet = "ACGTUNRYSWKMBDHV"

// DefaultThreshold is the sequence length at or below which
// the linear-space mode switches to the full matrix.
const DefaultThreshold = 10

// negInf is smaller than any achievable score and can still be added
// to a penalty without overflow.
const negInf = -(1 << 60)

// AlignOptions contains all alignment options.
type AlignOptions struct {
	MatchScore    int // score for a match
	MisMatchScore int // score for a mismatch
	GapScore      int // score for a gap in linear modes

	GapOpenScore   int // one-time score for opening a gap, affine mode
	GapExtendScore int // score for every gap symbol, affine mode

	// Symbols allowed in input sequences. Empty means DefaultAlphabet.
	Alphabet string

	// Upper limit of memory for the full matrices, 0 for no limit.
	MaxMatrixBytes int64
	// Switch linear modes to linear-space when MaxMatrixBytes is exceeded.
	Fallback bool

	// Base case size of the linear-space mode. 0 means DefaultThreshold.
	Threshold int

	// save matrix text in the result, only for debugging small inputs.
	SaveMatrix bool
}

// DefaultMaxMatrixBytes is the default memory limit of the full matrices.
// Larger matrices make the runtime abort instead of returning an error.
const DefaultMaxMatrixBytes int64 = 4 << 30

// DefaultAlignOptions is the default AlignOptions.
var DefaultAlignOptions = AlignOptions{
	MatchScore:    1,
	MisMatchScore: -1,
	GapScore:      -1,

	GapOpenScore:   -10,
	GapExtendScore: -1,

	Alphabet: DefaultAlphabet,

	MaxMatrixBytes: DefaultMaxMatrixBytes,
	Fallback:       true,

	Threshold: DefaultThreshold,

	SaveMatrix: false,
}

// Substitution returns the score of aligning symbol a against b.
func (o *AlignOptions) Substitution(a, b byte) int {
	if a == b {
		return o.MatchScore
	}
	return o.MisMatchScore
}

func (o *AlignOptions) threshold() int {
	if o.Threshold <= 0 {
		return DefaultThreshold
	}
	return o.Threshold
}

func (o *AlignOptions) alphabetTable() *[256]bool {
	alphabet := o.Alphabet
	if alphabet == "" {
		alphabet = DefaultAlphabet
	}
	var t [256]bool
	for i := 0; i < len(alphabet); i++ {
		t[alphabet[i]] = true
	}
	return &t
}

// Validate checks the options themselves.
func (o *AlignOptions) Validate() error {
	for i := 0; i < len(o.Alphabet); i++ {
		if o.Alphabet[i] == GapChar {
			return errors.Wrapf(ErrInvalidInput, "the alphabet should not contain the gap symbol %q", GapChar)
		}
	}
	if o.MaxMatrixBytes < 0 {
		return errors.Wrapf(ErrInvalidInput, "negative memory limit: %d", o.MaxMatrixBytes)
	}
	if o.Threshold < 0 {
		return errors.Wrapf(ErrInvalidInput, "negative threshold: %d", o.Threshold)
	}
	return nil
}

// CheckSeqs checks if the two sequences only contain symbols of the alphabet
// and all scores stay far away from the unreachable sentinel.
func (o *AlignOptions) CheckSeqs(a, b []byte) error {
	if err := o.Validate(); err != nil {
		return err
	}
	t := o.alphabetTable()
	for _, s := range [2][]byte{a, b} {
		for i, c := range s {
			if !t[c] {
				return errors.Wrapf(ErrInvalidInput, "symbol %q at position %d is not in the alphabet", c, i+1)
			}
		}
	}

	var max int
	for _, v := range [...]int{o.MatchScore, o.MisMatchScore, o.GapScore, o.GapOpenScore, o.GapExtendScore} {
		if v < 0 {
			v = -v
		}
		if v > max {
			max = v
		}
	}
	// the worst path has at most len(a)+len(b) steps, each with at most
	// one open and one extension.
	steps := len(a) + len(b) + 2
	if max > 0 && max > (-negInf>>2)/(2*steps) {
		return errors.Wrapf(ErrInvalidInput, "scores are too large (max absolute value: %d) for sequences of %d and %d symbols", max, len(a), len(b))
	}
	return nil
}

// String returns the scoring scheme in a short form.
func (o *AlignOptions) String() string {
	return fmt.Sprintf("match: %d, mismatch: %d, gap: %d, gap-open: %d, gap-extend: %d",
		o.MatchScore, o.MisMatchScore, o.GapScore, o.GapOpenScore, o.GapExtendScore)
}
