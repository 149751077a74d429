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
	"strings"

	"github.com/pkg/errors"
)

// Mode is one way of computing the global alignment.
type Mode uint8

const (
	ModeLinear      Mode = iota + 1 // full matrices filled row by row
	ModeWavefront                   // full matrices filled by anti-diagonals
	ModeAffine                      // three matrices with affine gap scores
	ModeLinearSpace                 // Hirschberg's divide and conquer
)

func (m Mode) String() string {
	switch m {
	case ModeLinear:
		return "linear"
	case ModeWavefront:
		return "wavefront"
	case ModeAffine:
		return "affine"
	case ModeLinearSpace:
		return "linear-space"
	}
	return "unknown"
}

// Modes lists all supported modes.
var Modes = []Mode{ModeLinear, ModeWavefront, ModeAffine, ModeLinearSpace}

// ParseMode returns the mode of a name, case-insensitive.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linear", "sequential":
		return ModeLinear, nil
	case "wavefront", "parallel":
		return ModeWavefront, nil
	case "affine":
		return ModeAffine, nil
	case "linear-space", "linearspace", "hirschberg":
		return ModeLinearSpace, nil
	}
	return 0, errors.Wrapf(ErrInvalidInput, "unknown alignment mode: %s", s)
}

// Align aligns a and b in the given mode.
func (alg *Aligner) Align(ctx context.Context, mode Mode, a, b []byte) (*AlignResult, error) {
	switch mode {
	case ModeLinear:
		return alg.Global(ctx, a, b)
	case ModeWavefront:
		return alg.GlobalWavefront(ctx, a, b)
	case ModeAffine:
		return alg.GlobalAffine(ctx, a, b)
	case ModeLinearSpace:
		return alg.GlobalLinearSpace(ctx, a, b)
	}
	return nil, errors.Wrapf(ErrInvalidInput, "unknown alignment mode: %d", mode)
}
