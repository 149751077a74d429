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

package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shenwei356/nwalign/nwalign/align"
	"github.com/shenwei356/nwalign/nwalign/report"
)

func TestFilepathTrimExtension(t *testing.T) {
	tests := [][4]string{
		{"a.fasta", "a", ".fasta", ""},
		{"a.fasta.gz", "a", ".fasta", ".gz"},
		{"dir/human.fa.XZ", "dir/human", ".fa", ".XZ"},
		{"mouse", "mouse", "", ""},
		{"reads.FQ.Gz", "reads", ".FQ", ".Gz"},
	}
	for _, test := range tests {
		name, e1, e2 := filepathTrimExtension(test[0], nil)
		if name != test[1] || e1 != test[2] || e2 != test[3] {
			t.Errorf("%s: expected %s %s %s, returned %s %s %s", test[0], test[1], test[2], test[3], name, e1, e2)
		}
	}

	if n := seqName("data/human.fasta.gz"); n != "human" {
		t.Errorf("unexpected name: %s", n)
	}
	if n := seqName("-"); n != "stdin" {
		t.Errorf("unexpected name: %s", n)
	}
}

func TestWrapText(t *testing.T) {
	s := wrapText("aaa bbb ccc ddd", 7)
	if s != "aaa bbb\nccc ddd" {
		t.Errorf("unexpected wrapped text: %q", s)
	}
}

func TestCheckReport(t *testing.T) {
	dir := t.TempDir()
	o := align.DefaultAlignOptions
	alg := align.NewAligner(&o)

	for _, mode := range align.Modes {
		r, err := alg.Align(context.Background(), mode, []byte("GATTACAGATTACA"), []byte("GCATGCUGATCA"))
		if err != nil {
			t.Error(err)
			return
		}
		file := filepath.Join(dir, report.FileName("a", "b", mode))
		if err = writeReport(file, report.NewRecord("a", "b", r, time.Second)); err != nil {
			t.Error(err)
			return
		}

		c, err := checkReport(context.Background(), alg, file, true)
		if err != nil {
			t.Error(err)
			continue
		}
		if !c.pass || c.rescored != r.Score || c.optimal == nil || *c.optimal != r.Score {
			t.Errorf("%s: unexpected check: %s", mode, c)
		}
	}

	// a tampered score
	file := filepath.Join(dir, "tampered.txt")
	data := "Alignment Score: 5\n\nAligned a:\nACGT\n\nAligned b:\nAC_T\n"
	if err := os.WriteFile(file, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := checkReport(context.Background(), alg, file, false)
	if err != nil {
		t.Error(err)
		return
	}
	if c.pass || c.rescored != 2 || c.optimal != nil {
		t.Errorf("unexpected check: %s", c)
	}

	// gaps on both sequences of a column
	file = filepath.Join(dir, "double-gap.txt")
	data = "Alignment Score: 1\n\nAligned a:\nA_GT\n\nAligned b:\nA_CT\n"
	if err = os.WriteFile(file, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	_, err = checkReport(context.Background(), alg, file, false)
	if !errors.Is(err, align.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, returned: %v", err)
	}
	if err != nil && !strings.Contains(err.Error(), file) {
		t.Errorf("error should name the file: %s", err)
	}
}

func TestBatchResultsOrder(t *testing.T) {
	results := batchResults{
		{query: "b", record: &report.Record{Score: 3}},
		{query: "c", record: &report.Record{Score: 10}},
		{query: "a", record: &report.Record{Score: 3}},
	}
	for i := 1; i < len(results); i++ {
		for j := i; j > 0 && results.Less(j, j-1); j-- {
			results.Swap(j, j-1)
		}
	}
	if results[0].query != "c" || results[1].query != "a" || results[2].query != "b" {
		t.Errorf("unexpected order: %s %s %s", results[0].query, results[1].query, results[2].query)
	}
}

func TestBenchStat(t *testing.T) {
	s := &benchStat{mode: align.ModeLinear, seconds: []float64{1, 2, 3}}
	s.compute()
	if s.mean != 2 || s.stdev != 1 || s.min != 1 || s.max != 3 {
		t.Errorf("unexpected statistics: %+v", s)
	}

	one := &benchStat{seconds: []float64{1.5}}
	one.compute()
	if one.stdev != 0 {
		t.Errorf("unexpected stdev of one run: %f", one.stdev)
	}

	stats := []*benchStat{
		{mode: align.ModeLinear, score: 3},
		{mode: align.ModeAffine, score: -7},
		{mode: align.ModeLinearSpace, score: 3},
	}
	if err := checkBenchScores(stats); err != nil {
		t.Error(err)
	}
	stats[2].score = 2
	if err := checkBenchScores(stats); err == nil {
		t.Errorf("different scores should be reported")
	}
}

func TestPlotBench(t *testing.T) {
	file := filepath.Join(t.TempDir(), "bench.svg")
	stats := []*benchStat{
		{mode: align.ModeLinear, mean: 0.5},
		{mode: align.ModeWavefront, mean: 0.2},
	}
	if err := plotBench(stats, 2000, file); err != nil {
		t.Error(err)
		return
	}
	if fi, err := os.Stat(file); err != nil || fi.Size() == 0 {
		t.Errorf("plot not saved: %v", err)
	}
}
