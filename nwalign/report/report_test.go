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

package report

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/pgzip"
	"github.com/pkg/errors"
	"github.com/shenwei356/nwalign/nwalign/align"
)

func testRecord(t *testing.T, mode align.Mode, a, b string) *Record {
	t.Helper()
	o := align.DefaultAlignOptions
	alg := align.NewAligner(&o)
	r, err := alg.Align(context.Background(), mode, []byte(a), []byte(b))
	if err != nil {
		t.Fatal(err)
	}
	return NewRecord("seqA", "seqB", r, 1500*time.Millisecond)
}

func TestWriteRead(t *testing.T) {
	for _, mode := range align.Modes {
		rec := testRecord(t, mode, "GATTACA", "GCATGCU")

		var buf bytes.Buffer
		if err := Write(&buf, rec); err != nil {
			t.Error(err)
			return
		}
		t.Logf("\n%s", buf.String())

		if !strings.HasPrefix(buf.String(), "seqA vs seqB - ") {
			t.Errorf("unexpected header: %s", buf.String())
		}
		if !strings.Contains(buf.String(), "Execution Time: 1.5000 seconds\n") {
			t.Errorf("unexpected execution time")
		}

		rec2, err := Read(&buf)
		if err != nil {
			t.Errorf("%s: %s", mode, err)
			continue
		}
		if rec2.NameA != "seqA" || rec2.NameB != "seqB" || rec2.Mode != mode {
			t.Errorf("%s: unexpected header: %s, %s, %s", mode, rec2.NameA, rec2.NameB, rec2.Mode)
		}
		if rec2.Score != rec.Score || rec2.Summary != rec.Summary {
			t.Errorf("%s: expected %d %+v, returned %d %+v", mode, rec.Score, rec.Summary, rec2.Score, rec2.Summary)
		}
		if !bytes.Equal(rec2.AlignA, rec.AlignA) || !bytes.Equal(rec2.AlignB, rec.AlignB) {
			t.Errorf("%s: aligned sequences differ", mode)
		}
		if rec2.Digest != rec.Digest || rec2.Digest != Digest(rec2.AlignA, rec2.AlignB) {
			t.Errorf("%s: unexpected digest: %016x", mode, rec2.Digest)
		}
		if rec2.Elapsed != rec.Elapsed {
			t.Errorf("%s: unexpected elapsed time: %s", mode, rec2.Elapsed)
		}
	}
}

func TestWriteFormat(t *testing.T) {
	rec := testRecord(t, align.ModeLinear, "GATTACA", "GCATGCU")
	var buf bytes.Buffer
	if err := Write(&buf, rec); err != nil {
		t.Error(err)
		return
	}
	lines := strings.Split(buf.String(), "\n")
	expected := []string{
		"seqA vs seqB - Linear Alignment",
		"Execution Time: 1.5000 seconds",
		"Alignment Score: 0",
		"Aligned Length: 8",
		"Matches: 4, Mismatches: 2, Gaps: 2",
		"Similarity: 50.00%",
	}
	for i, e := range expected {
		if lines[i] != e {
			t.Errorf("line %d: expected %q, returned %q", i+1, e, lines[i])
		}
	}
	if lines[8] != "Aligned seqA:" || lines[9] != "G_ATTACA" || lines[11] != "Aligned seqB:" || lines[12] != "GCA_TGCU" {
		t.Errorf("unexpected aligned blocks:\n%s", buf.String())
	}
}

func TestReadTolerant(t *testing.T) {
	data := `some tool output
Alignment Score: 3

Aligned human:
GATTACA

Aligned mouse:
GA_T_CA
`
	r, err := Read(strings.NewReader(data))
	if err != nil {
		t.Error(err)
		return
	}
	if r.Score != 3 || string(r.AlignA) != "GATTACA" || string(r.AlignB) != "GA_T_CA" {
		t.Errorf("unexpected record: %d %s %s", r.Score, r.AlignA, r.AlignB)
	}
	if r.Gaps != 2 || r.Matches != 5 {
		t.Errorf("unexpected summary: %+v", r.Summary)
	}

	for _, bad := range []string{
		"Aligned a:\nACGT\n\nAligned b:\nACGT\n",
		"Alignment Score: 1\nAligned a:\nACGT\n",
		"Alignment Score: x\nAligned a:\nACGT\nAligned b:\nACGT\n",
		"Alignment Score: 1\n\nAligned a:\nACGT\n\nAligned b:\nAC\n",
	} {
		if _, err = Read(strings.NewReader(bad)); !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("expected ErrInvalidFormat, returned %v for:\n%s", err, bad)
		}
	}
}

func TestReadFile(t *testing.T) {
	rec := testRecord(t, align.ModeAffine, "AGTACGCA", "TATGC")
	file := filepath.Join(t.TempDir(), FileName("a", "b", rec.Mode)+".gz")

	fh, err := os.Create(file)
	if err != nil {
		t.Fatal(err)
	}
	gw := pgzip.NewWriter(fh)
	if err = Write(gw, rec); err != nil {
		t.Fatal(err)
	}
	gw.Close()
	fh.Close()

	rec2, err := ReadFile(file)
	if err != nil {
		t.Error(err)
		return
	}
	if rec2.Score != -14 || string(rec2.AlignB) != "TATGC___" {
		t.Errorf("unexpected record: %d %s", rec2.Score, rec2.AlignB)
	}
}

func TestFileName(t *testing.T) {
	if f := FileName("human", "mouse", align.ModeLinearSpace); f != "human_vs_mouse_linear-space_alignment.txt" {
		t.Errorf("unexpected file name: %s", f)
	}
}

func TestDigest(t *testing.T) {
	if Digest([]byte("AC_GT"), []byte("ACTGT")) == Digest([]byte("ACTGT"), []byte("AC_GT")) {
		t.Errorf("digest should depend on the order of sequences")
	}
	if Digest([]byte("ACGT"), []byte("ACGT")) != Digest([]byte("ACGT"), []byte("ACGT")) {
		t.Errorf("digest should be deterministic")
	}
}
