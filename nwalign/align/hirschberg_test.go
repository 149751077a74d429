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
	"math/rand"
	"testing"
)

func TestGlobalLinearSpace(t *testing.T) {
	for _, threshold := range []int{1, 2, 3, 10} {
		o := DefaultAlignOptions
		o.Threshold = threshold
		alg := NewAligner(&o)

		for i, c := range linearCases {
			r, err := alg.GlobalLinearSpace(context.Background(), []byte(c.a), []byte(c.b))
			if err != nil {
				t.Errorf("[#%d] %s", i, err)
				continue
			}
			if r.Mode != ModeLinearSpace {
				t.Errorf("[#%d] unexpected mode: %s", i, r.Mode)
			}
			if r.Score != c.score {
				t.Errorf("[threshold %d, #%d] %s vs %s, expected score: %d, returned: %d",
					threshold, i, c.a, c.b, c.score, r.Score)
			}
			checkAlignment(t, r, []byte(c.a), []byte(c.b), &o, false)
		}
	}
}

func TestLinearSpaceSmallInputs(t *testing.T) {
	// both sequences fit the base case, so the alignment is the same as the full matrix
	alg := newTestAligner()
	r, err := alg.GlobalLinearSpace(context.Background(), []byte("GATTACA"), []byte("GCATGCU"))
	if err != nil {
		t.Error(err)
		return
	}
	if string(r.AlignA) != "G_ATTACA" || string(r.AlignB) != "GCA_TGCU" {
		t.Errorf("unexpected alignment:\n%s\n%s", r.AlignA, r.AlignB)
	}
}

func TestLinearSpaceEqualsGlobal(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	full := newTestAligner()

	for _, workers := range []int{1, 4} {
		o := DefaultAlignOptions
		o.Threshold = 4
		alg := NewAligner(&o)
		alg.Executor = NewPoolExecutor(workers)

		for n := 0; n < 30; n++ {
			a, b := randSeq(r, r.Intn(300)), randSeq(r, r.Intn(300))
			r1, err := full.Global(context.Background(), a, b)
			if err != nil {
				t.Error(err)
				return
			}
			r2, err := alg.GlobalLinearSpace(context.Background(), a, b)
			if err != nil {
				t.Error(err)
				return
			}
			if r1.Score != r2.Score {
				t.Errorf("%s vs %s: expected score %d, returned %d", a, b, r1.Score, r2.Score)
			}
			checkAlignment(t, r2, a, b, &o, false)
		}
	}
}

func TestLinearSpaceLongerB(t *testing.T) {
	r := rand.New(rand.NewSource(21))
	full := newTestAligner()
	alg := newTestAligner()

	for _, lens := range [][2]int{{50, 400}, {1, 30}, {11, 12}, {0, 25}} {
		a, b := randSeq(r, lens[0]), randSeq(r, lens[1])
		r1, err := full.Global(context.Background(), a, b)
		if err != nil {
			t.Error(err)
			return
		}
		r2, err := alg.GlobalLinearSpace(context.Background(), a, b)
		if err != nil {
			t.Error(err)
			return
		}
		if r1.Score != r2.Score {
			t.Errorf("%d vs %d: expected score %d, returned %d", lens[0], lens[1], r1.Score, r2.Score)
		}
		checkAlignment(t, r2, a, b, alg.Options, false)
	}
}

func TestLinearSpaceParallelDeterministic(t *testing.T) {
	r := rand.New(rand.NewSource(9))
	a, b := randSeq(r, 1500), randSeq(r, 1200)

	serial := newTestAligner()
	r1, err := serial.GlobalLinearSpace(context.Background(), a, b)
	if err != nil {
		t.Error(err)
		return
	}

	alg := newTestAligner()
	alg.Executor = NewPoolExecutor(8)
	r2, err := alg.GlobalLinearSpace(context.Background(), a, b)
	if err != nil {
		t.Error(err)
		return
	}
	if r1.Score != r2.Score || !bytes.Equal(r1.AlignA, r2.AlignA) || !bytes.Equal(r1.AlignB, r2.AlignB) {
		t.Errorf("parallel recursion changes the alignment")
	}
}

func TestLinearSpaceLongIdentical(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping a long alignment in short mode")
	}
	r := rand.New(rand.NewSource(13))
	s := randSeq(r, 10000)

	// the full matrices are not affordable in tests, linear modes fall back
	o := DefaultAlignOptions
	o.MaxMatrixBytes = 256 << 20
	alg := NewAligner(&o)
	alg.Executor = NewPoolExecutor(0)
	for _, mode := range []Mode{ModeLinearSpace, ModeLinear, ModeWavefront} {
		res, err := alg.Align(context.Background(), mode, s, s)
		if err != nil {
			t.Errorf("%s: %s", mode, err)
			continue
		}
		if res.Score != len(s) || res.Gaps != 0 || res.Similarity != 100 {
			t.Errorf("%s: unexpected result: score %d, %+v", mode, res.Score, res.Summary)
		}
		if !bytes.Equal(res.AlignA, s) || !bytes.Equal(res.AlignB, s) {
			t.Errorf("%s: alignment of identical sequences should have no gaps", mode)
		}
	}
}
