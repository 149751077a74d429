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
	"testing"

	"github.com/pkg/errors"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		a, b string
		s    Summary
	}{
		{"", "", Summary{}},
		{"ACGT", "ACGT", Summary{Len: 4, Matches: 4, Similarity: 100}},
		{"G_ATTACA", "GCA_TGCU", Summary{Len: 8, Matches: 4, Mismatches: 2, Gaps: 2, Similarity: 50}},
		{"AC__", "__GT", Summary{Len: 4, Gaps: 4}},
		{"AAAA", "CCCC", Summary{Len: 4, Mismatches: 4}},
	}
	for i, test := range tests {
		s, err := Summarize([]byte(test.a), []byte(test.b))
		if err != nil {
			t.Errorf("[#%d] %s", i, err)
			continue
		}
		if s != test.s {
			t.Errorf("[#%d] expected: %+v, returned: %+v", i, test.s, s)
		}

		// reversing both aligned sequences gives the same summary
		ra, rb := []byte(test.a), []byte(test.b)
		reverse(ra)
		reverse(rb)
		s3, _ := Summarize(ra, rb)
		if s3 != s {
			t.Errorf("[#%d] summary changes after reversing: %+v vs %+v", i, s, s3)
		}

		// swapping the sequences gives the same summary
		s2, _ := Summarize([]byte(test.b), []byte(test.a))
		if s2 != s {
			t.Errorf("[#%d] summary changes after swapping: %+v vs %+v", i, s, s2)
		}
	}

	if _, err := Summarize([]byte("ACG"), []byte("AC")); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, returned: %v", err)
	}
}

func TestRescore(t *testing.T) {
	o := DefaultAlignOptions
	tests := []struct {
		a, b           string
		linear, affine int
	}{
		{"", "", 0, 0},
		{"G_ATTACA", "GCA_TGCU", 0, -20},
		{"AAA___TTT", "AAAGGGTTT", 3, -7},

		// a gap run switching sides opens a new gap
		{"AC__", "__GT", -4, -24},
		{"A__C", "AGG_", -2, -22},
	}
	for i, test := range tests {
		s, err := Rescore([]byte(test.a), []byte(test.b), &o, false)
		if err != nil {
			t.Errorf("[#%d] %s", i, err)
			continue
		}
		if s != test.linear {
			t.Errorf("[#%d] linear: expected %d, returned %d", i, test.linear, s)
		}
		s, _ = Rescore([]byte(test.a), []byte(test.b), &o, true)
		if s != test.affine {
			t.Errorf("[#%d] affine: expected %d, returned %d", i, test.affine, s)
		}
	}

	if _, err := Rescore([]byte("A_C"), []byte("A_C"), &o, false); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, returned: %v", err)
	}
	if _, err := Rescore([]byte("AC"), []byte("A"), &o, false); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, returned: %v", err)
	}
}

func TestUngap(t *testing.T) {
	if s := string(Ungap([]byte("_A_CG__T_"))); s != "ACGT" {
		t.Errorf("expected ACGT, returned %s", s)
	}
}
