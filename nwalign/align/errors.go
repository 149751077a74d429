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

// ErrInvalidInput means a sequence contains symbols outside the alphabet,
// or the scoring scheme leaves no cell reachable.
var ErrInvalidInput = errors.New("align: invalid input")

// ErrResourceExhausted means the full matrices do not fit in the memory limit.
var ErrResourceExhausted = errors.New("align: matrix too large")

// ErrExecutorFailure means a parallel work unit did not complete.
var ErrExecutorFailure = errors.New("align: executor failure")

// ErrInternalConsistency means the traceback met a state
// the boundary conditions do not allow. It signals a bug.
var ErrInternalConsistency = errors.New("align: internal consistency failure")
