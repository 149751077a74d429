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

// Package report writes and parses alignment report files.
package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shenwei356/nwalign/nwalign/align"
	"github.com/shenwei356/xopen"
	"github.com/zeebo/wyhash"
)

// ErrInvalidFormat means a report file misses the score or an aligned sequence.
var ErrInvalidFormat = errors.New("report: invalid format")

// DigestSeed is the seed of Digest.
const DigestSeed uint64 = 1

// Record is the content of a report file.
type Record struct {
	NameA, NameB string
	Mode         align.Mode
	Elapsed      time.Duration

	Score int
	align.Summary

	AlignA []byte
	AlignB []byte

	Digest uint64
}

// NewRecord creates a record from an alignment result.
func NewRecord(nameA, nameB string, r *align.AlignResult, elapsed time.Duration) *Record {
	return &Record{
		NameA:   nameA,
		NameB:   nameB,
		Mode:    r.Mode,
		Elapsed: elapsed,
		Score:   r.Score,
		Summary: r.Summary,
		AlignA:  r.AlignA,
		AlignB:  r.AlignB,
		Digest:  Digest(r.AlignA, r.AlignB),
	}
}

// Digest returns a hash value of two aligned sequences,
// for comparing alignments of different runs or modes.
func Digest(alignA, alignB []byte) uint64 {
	h := wyhash.Hash(alignA, DigestSeed)
	return wyhash.Hash(alignB, h)
}

// FileName returns the file name of a report,
// e.g., human_vs_mouse_linear_alignment.txt.
func FileName(nameA, nameB string, mode align.Mode) string {
	return fmt.Sprintf("%s_vs_%s_%s_alignment.txt", nameA, nameB, mode)
}

func title(mode align.Mode) string {
	s := mode.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

// Write writes a record in the text format.
func Write(w io.Writer, r *Record) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "%s vs %s - %s Alignment\n", r.NameA, r.NameB, title(r.Mode))
	fmt.Fprintf(bw, "Execution Time: %.4f seconds\n", r.Elapsed.Seconds())
	fmt.Fprintf(bw, "Alignment Score: %d\n", r.Score)
	fmt.Fprintf(bw, "Aligned Length: %d\n", r.Len)
	fmt.Fprintf(bw, "Matches: %d, Mismatches: %d, Gaps: %d\n", r.Matches, r.Mismatches, r.Gaps)
	fmt.Fprintf(bw, "Similarity: %.2f%%\n", r.Similarity)
	fmt.Fprintf(bw, "Alignment Digest: %016x\n", r.Digest)
	fmt.Fprintf(bw, "\nAligned %s:\n%s\n", r.NameA, r.AlignA)
	fmt.Fprintf(bw, "\nAligned %s:\n%s\n", r.NameB, r.AlignB)

	return bw.Flush()
}

// Read parses a report. Only the score and the two aligned sequences
// are required, unknown lines are ignored.
func Read(rd io.Reader) (*Record, error) {
	r := &Record{}
	var hasScore bool
	var block int    // the number of "Aligned ...:" lines met
	var inBlock bool // inside an aligned block
	var err error

	scanner := bufio.NewScanner(rd)
	scanner.Buffer(make([]byte, 0, 1<<20), 1<<30)
	var line, value string
	var ok bool
	for scanner.Scan() {
		line = strings.TrimRight(scanner.Text(), "\r\n ")

		if inBlock {
			if line == "" {
				inBlock = false
				continue
			}
			if block == 1 {
				r.AlignA = append(r.AlignA, line...)
			} else {
				r.AlignB = append(r.AlignB, line...)
			}
			continue
		}

		if strings.HasPrefix(line, "Aligned ") && strings.HasSuffix(line, ":") {
			block++
			inBlock = block <= 2
			continue
		}

		if value, ok = strings.CutPrefix(line, "Alignment Score:"); ok {
			r.Score, err = strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return nil, errors.Wrapf(ErrInvalidFormat, "score: %s", value)
			}
			hasScore = true
			continue
		}

		if value, ok = strings.CutPrefix(line, "Execution Time:"); ok {
			value = strings.TrimSpace(strings.TrimSuffix(value, "seconds"))
			if sec, err := strconv.ParseFloat(value, 64); err == nil {
				r.Elapsed = time.Duration(sec * float64(time.Second))
			}
			continue
		}

		if value, ok = strings.CutPrefix(line, "Alignment Digest:"); ok {
			r.Digest, _ = strconv.ParseUint(strings.TrimSpace(value), 16, 64)
			continue
		}

		if r.NameA == "" && strings.HasSuffix(line, " Alignment") {
			parseHeader(r, line)
		}
	}
	if err = scanner.Err(); err != nil {
		return nil, err
	}

	if !hasScore {
		return nil, errors.Wrap(ErrInvalidFormat, "alignment score not found")
	}
	if block < 2 {
		return nil, errors.Wrap(ErrInvalidFormat, "aligned sequences not found")
	}
	if r.Summary, err = align.Summarize(r.AlignA, r.AlignB); err != nil {
		return nil, errors.Wrap(ErrInvalidFormat, err.Error())
	}
	return r, nil
}

// parseHeader parses "<a> vs <b> - <mode> Alignment".
func parseHeader(r *Record, line string) {
	line = strings.TrimSuffix(line, " Alignment")
	i := strings.LastIndex(line, " - ")
	if i < 0 {
		return
	}
	if mode, err := align.ParseMode(line[i+3:]); err == nil {
		r.Mode = mode
	}
	if a, b, ok := strings.Cut(line[:i], " vs "); ok {
		r.NameA, r.NameB = a, b
	}
}

// ReadFile parses a report file, which can be compressed.
func ReadFile(file string) (*Record, error) {
	fh, err := xopen.Ropen(file)
	if err != nil {
		return nil, errors.Wrapf(err, "open report file: %s", file)
	}
	defer fh.Close()

	r, err := Read(fh)
	if err != nil {
		return nil, errors.Wrap(err, file)
	}
	return r, nil
}
