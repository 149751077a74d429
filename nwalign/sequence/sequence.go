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

// Package sequence reads and generates sequences to align.
package sequence

import (
	"io"
	"math/rand"

	"github.com/pkg/errors"
	"github.com/shenwei356/bio/seqio/fastx"
)

// ErrNoSequence means the input contains no record.
var ErrNoSequence = errors.New("sequence: no sequence found")

// Sequence is a named sequence.
type Sequence struct {
	ID  string
	Seq []byte
}

// Clean upper-cases letters and removes everything else,
// including whitespace, digits, and gap symbols.
func Clean(s []byte) []byte {
	t := make([]byte, 0, len(s))
	for _, c := range s {
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		if c >= 'A' && c <= 'Z' {
			t = append(t, c)
		}
	}
	return t
}

// ReadFirst returns the first record of a FASTA/FASTQ file.
// The file can be plain or compressed, "-" for stdin.
func ReadFirst(file string) (*Sequence, error) {
	fastxReader, err := fastx.NewReader(nil, file, "")
	if err != nil {
		return nil, errors.Wrapf(err, "read sequence file: %s", file)
	}
	defer fastxReader.Close()

	record, err := fastxReader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, errors.Wrap(ErrNoSequence, file)
		}
		return nil, errors.Wrapf(err, "read sequence file: %s", file)
	}

	return &Sequence{
		ID:  string(record.ID),
		Seq: Clean(record.Seq.Seq),
	}, nil
}

// ReadConcat concatenates all records of a file into one sequence,
// named after the first record.
func ReadConcat(file string) (*Sequence, error) {
	fastxReader, err := fastx.NewReader(nil, file, "")
	if err != nil {
		return nil, errors.Wrapf(err, "read sequence file: %s", file)
	}
	defer fastxReader.Close()

	var s *Sequence
	var record *fastx.Record
	for {
		record, err = fastxReader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.Wrapf(err, "read sequence file: %s", file)
		}

		if s == nil {
			s = &Sequence{ID: string(record.ID), Seq: make([]byte, 0, len(record.Seq.Seq))}
		}
		s.Seq = append(s.Seq, Clean(record.Seq.Seq)...)
	}
	if s == nil {
		return nil, errors.Wrap(ErrNoSequence, file)
	}
	return s, nil
}

// Random returns a sequence of n symbols drawn uniformly from the alphabet.
func Random(r *rand.Rand, n int, alphabet string) []byte {
	if alphabet == "" {
		alphabet = "ACGT"
	}
	s := make([]byte, n)
	k := len(alphabet)
	for i := range s {
		s[i] = alphabet[r.Intn(k)]
	}
	return s
}
