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
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/nwalign/nwalign/align"
	"github.com/shenwei356/nwalign/nwalign/report"
	"github.com/shenwei356/nwalign/nwalign/sequence"
	"github.com/spf13/cobra"
)

var alignCmd = &cobra.Command{
	Use:   "align [flags] <seqA.fasta> <seqB.fasta>",
	Short: "Align two sequences and write the alignment report",
	Long: `Align two sequences and write the alignment report

Input:
  1. FASTA/Q files, plain or compressed, "-" for stdin (only one of them).
  2. Only the first record of each file is used, use -c/--concat
     to concatenate all records of a file instead.
  3. Letters are upper-cased and all other characters are removed.

Modes:
  linear        full matrices filled row by row
  wavefront     full matrices filled by anti-diagonals, using -j/--threads
  affine        three matrices with affine gap scores
  linear-space  Hirschberg's divide and conquer, aka hirschberg

Attentions:
  1. The full matrices of two sequences with m and n bases cost
     about (m+1)*(n+1)*9 bytes, and three times of that in the affine mode.
     They are limited by --max-mem (4G by default), beyond which linear
     modes switch to the linear-space mode unless --no-fallback is given,
     and the affine mode fails.
  2. --print-matrix is only for debugging short sequences.

`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)
		seq.ValidateSeq = false

		var fhLog *os.File
		if opt.Log2File {
			fhLog = addLog(opt.LogFile, opt.Verbose)
		}
		timeStart := time.Now()
		defer func() {
			if opt.Verbose || opt.Log2File {
				log.Info()
				log.Infof("elapsed time: %s", time.Since(timeStart))
				log.Info()
			}
			if opt.Log2File {
				fhLog.Close()
			}
		}()

		// ---------------------------------------------------------------
		// flags

		if len(args) != 2 {
			checkError(fmt.Errorf("two sequence files needed"))
		}
		if isStdin(args[0]) && isStdin(args[1]) {
			checkError(fmt.Errorf("only one of the sequence files can be stdin"))
		}

		mode, err := align.ParseMode(getFlagString(cmd, "mode"))
		checkError(err)

		alnOpt := getAlignOptions(cmd)
		alnOpt.SaveMatrix = getFlagBool(cmd, "print-matrix")
		concat := getFlagBool(cmd, "concat")
		minBatch := getFlagPositiveInt(cmd, "min-batch")

		outFile := getFlagString(cmd, "out-file")
		outDir := getFlagString(cmd, "out-dir")
		nameA := getFlagString(cmd, "name-a")
		nameB := getFlagString(cmd, "name-b")
		if nameA == "" {
			nameA = seqName(args[0])
		}
		if nameB == "" {
			nameB = seqName(args[1])
		}
		if outDir != "" {
			outFile = filepath.Join(outDir, report.FileName(nameA, nameB, mode))
		}

		// ---------------------------------------------------------------
		// sequences

		read := sequence.ReadFirst
		if concat {
			read = sequence.ReadConcat
		}
		seqA, err := read(args[0])
		checkError(err)
		seqB, err := read(args[1])
		checkError(err)

		if opt.Verbose || opt.Log2File {
			log.Infof("nwalign v%s", VERSION)
			log.Info()
			log.Infof("sequence A: %s (%s bp) from %s", seqA.ID, humanize.Comma(int64(len(seqA.Seq))), args[0])
			log.Infof("sequence B: %s (%s bp) from %s", seqB.ID, humanize.Comma(int64(len(seqB.Seq))), args[1])
			log.Infof("mode: %s, %s", mode, alnOpt)
			if need := align.MatrixBytes(mode, len(seqA.Seq), len(seqB.Seq)); need > 0 {
				log.Infof("memory of matrices: %s", humanize.Bytes(uint64(need)))
			}
			log.Info()
		}

		// ---------------------------------------------------------------
		// align

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		alg := align.NewAligner(alnOpt)
		alg.Executor = newExecutor(opt.NumCPUs, minBatch)

		t := time.Now()
		r, err := alg.Align(ctx, mode, seqA.Seq, seqB.Seq)
		checkError(err)
		elapsed := time.Since(t)

		if r.Mode != mode && (opt.Verbose || opt.Log2File) {
			log.Warningf("matrices exceed --max-mem, switched to the %s mode", r.Mode)
		}

		// ---------------------------------------------------------------
		// output

		outfh, gw, w, err := outStream(outFile, strings.HasSuffix(outFile, ".gz"), opt.CompressionLevel)
		checkError(err)
		defer func() {
			outfh.Flush()
			if gw != nil {
				gw.Close()
			}
			w.Close()
		}()

		checkError(report.Write(outfh, report.NewRecord(nameA, nameB, r, elapsed)))

		if alnOpt.SaveMatrix && r.Matrix != nil {
			fmt.Fprintf(os.Stderr, "%s\n", r.Matrix)
		}

		if opt.Verbose || opt.Log2File {
			log.Infof("alignment score: %d, similarity: %.2f%%, computed in %s", r.Score, r.Similarity, elapsed)
			if outFile != "-" {
				log.Infof("report saved to %s", outFile)
			}
		}
	},
}

func init() {
	RootCmd.AddCommand(alignCmd)

	alignCmd.Flags().StringP("mode", "m", "linear",
		formatFlagUsage(`Alignment mode, available values: linear, wavefront, affine, linear-space.`))

	alignCmd.Flags().BoolP("concat", "c", false,
		formatFlagUsage(`Concatenate all records of a file, instead of using the first one.`))

	alignCmd.Flags().StringP("name-a", "a", "",
		formatFlagUsage(`Name of sequence A in the report. By default, the file name without extensions.`))

	alignCmd.Flags().StringP("name-b", "b", "",
		formatFlagUsage(`Name of sequence B in the report. By default, the file name without extensions.`))

	alignCmd.Flags().StringP("out-file", "o", "-",
		formatFlagUsage(`Out file, supports a ".gz" suffix ("-" for stdout).`))

	alignCmd.Flags().StringP("out-dir", "O", "",
		formatFlagUsage(`Output directory, the report is saved as <nameA>_vs_<nameB>_<mode>_alignment.txt. It overrides -o/--out-file.`))

	alignCmd.Flags().BoolP("print-matrix", "", false,
		formatFlagUsage(`Print the score matrix to stderr, only for linear modes and short sequences.`))

	alignCmd.Flags().IntP("min-batch", "", align.DefaultMinBatch,
		formatFlagUsage(`Minimum number of cells handed to a thread in the wavefront mode.`))

	addScoringFlags(alignCmd)

	alignCmd.SetUsageTemplate(usageTemplate("<seqA.fasta> <seqB.fasta>"))
}
