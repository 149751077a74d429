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
	"math/rand"
	"testing"

	"github.com/pkg/errors"
)

func TestGlobalAffine(t *testing.T) {
	type scheme struct {
		match, mismatch, open, extend int
		cases                         []alignCase
	}
	schemes := []scheme{
		{1, -1, -10, -1, []alignCase{
			{"GATTACA", "GCATGCU", -1, "GATTACA", "GCATGCU"},
			{"AGTACGCA", "TATGC", -14, "AGTACGCA", "TATGC___"},
			{"ACGT", "", -14, "ACGT", "____"},
			{"", "ACG", -13, "___", "ACG"},
			{"", "", 0, "", ""},
			{"AAAGGGTTT", "AAATTT", -7, "AAAGGGTTT", "AAA___TTT"},
			{"GATTACA", "GATCA", -7, "GATTACA", "GAT__CA"},
		}},
		{2, -1, -3, -1, []alignCase{
			{"GATTACA", "GCATGCU", 2, "GATTACA", "GCATGCU"},
			{"AGTACGCA", "TATGC", -2, "AGTACGCA", "__TATGC_"},
			{"ACGT", "", -7, "ACGT", "____"},
			{"", "ACG", -6, "___", "ACG"},
			{"AAAGGGTTT", "AAATTT", 6, "AAAGGGTTT", "AAA___TTT"},
			{"GATTACA", "GATCA", 5, "GATTACA", "GAT__CA"},
			{"ACGT", "ACGT", 8, "ACGT", "ACGT"},
		}},
	}

	for _, s := range schemes {
		o := DefaultAlignOptions
		o.MatchScore, o.MisMatchScore = s.match, s.mismatch
		o.GapOpenScore, o.GapExtendScore = s.open, s.extend
		alg := NewAligner(&o)

		for i, c := range s.cases {
			r, err := alg.GlobalAffine(context.Background(), []byte(c.a), []byte(c.b))
			if err != nil {
				t.Errorf("[%s #%d] %s", o.String(), i, err)
				continue
			}
			if r.Mode != ModeAffine {
				t.Errorf("[#%d] unexpected mode: %s", i, r.Mode)
			}
			if r.Score != c.score || string(r.AlignA) != c.alignA || string(r.AlignB) != c.alignB {
				t.Errorf("[%s #%d] expected: %d\n%s\n%s\nreturned: %d\n%s\n%s", o.String(), i,
					c.score, c.alignA, c.alignB, r.Score, r.AlignA, r.AlignB)
			}
			checkAlignment(t, r, []byte(c.a), []byte(c.b), &o, true)
		}
	}
}

func TestAffineWithoutGapOpen(t *testing.T) {
	o := DefaultAlignOptions
	o.GapOpenScore = 0
	o.GapExtendScore = o.GapScore
	alg := NewAligner(&o)

	for i, c := range linearCases {
		r, err := alg.GlobalAffine(context.Background(), []byte(c.a), []byte(c.b))
		if err != nil {
			t.Errorf("[#%d] %s", i, err)
			continue
		}
		if r.Score != c.score {
			t.Errorf("[#%d] %s vs %s, expected score: %d, returned: %d", i, c.a, c.b, c.score, r.Score)
		}
	}

	r := rand.New(rand.NewSource(7))
	lin := NewAligner(&o)
	for n := 0; n < 50; n++ {
		a, b := randSeq(r, r.Intn(100)), randSeq(r, r.Intn(100))
		r1, err := lin.Global(context.Background(), a, b)
		if err != nil {
			t.Error(err)
			return
		}
		r2, err := alg.GlobalAffine(context.Background(), a, b)
		if err != nil {
			t.Error(err)
			return
		}
		if r1.Score != r2.Score {
			t.Errorf("%s vs %s: linear score %d, affine score %d", a, b, r1.Score, r2.Score)
		}
		checkAlignment(t, r2, a, b, &o, true)
	}
}

func TestAffineRandom(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	alg := newTestAligner()
	for n := 0; n < 50; n++ {
		a, b := randSeq(r, r.Intn(120)), randSeq(r, r.Intn(120))
		res, err := alg.GlobalAffine(context.Background(), a, b)
		if err != nil {
			t.Error(err)
			return
		}
		checkAlignment(t, res, a, b, alg.Options, true)
	}
}

func TestAffineLongUnderLimit(t *testing.T) {
	r := rand.New(rand.NewSource(17))
	s := randSeq(r, 10000)

	o := DefaultAlignOptions
	o.MaxMatrixBytes = 1 << 30
	alg := NewAligner(&o)
	res, err := alg.GlobalAffine(context.Background(), s, s)
	if !errors.Is(err, ErrResourceExhausted) {
		t.Errorf("expected ErrResourceExhausted, returned: %v", err)
	}
	if res != nil {
		t.Errorf("no result is expected when the matrices do not fit")
	}
}

func TestCorruptedStates(t *testing.T) {
	a, b := []byte("GATT"), []byte("GCAT")
	g := newAffineGrid(len(a), len(b))
	g.initBorders(-10, -1)
	// walking left along the last row runs past the first column
	g.tM[idx(len(a), len(b), g.w)] = StateY
	for j := 0; j <= len(b); j++ {
		g.tY[idx(len(a), j, g.w)] = StateY
	}
	if _, _, err := traceAffine(g, a, b); !errors.Is(err, ErrInternalConsistency) {
		t.Errorf("expected ErrInternalConsistency, returned: %v", err)
	}
}
