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
	"strings"

	"github.com/shenwei356/nwalign/nwalign/align"
	"github.com/pkg/errors"
	"github.com/shenwei356/nwalign/nwalign/report"
	"github.com/spf13/cobra"
)

var rescoreCmd = &cobra.Command{
	Use:   "rescore [flags] <report.txt> [report.txt ...]",
	Short: "Check the scores of alignment report files",
	Long: `Check the scores of alignment report files

The two aligned sequences of a report are scored column by column
with the scoring scheme, in the affine way for reports of the affine mode.
With --realign, the gap-free sequences are aligned again, in the
linear-space mode for linear modes, to check the recorded score is optimal.

Output (tab-delimited):
  file, mode, recorded score, rescored score, optimal score ("NA" without --realign),
  status (PASS or FAIL).

`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)

		alnOpt := getAlignOptions(cmd)
		realign := getFlagBool(cmd, "realign")
		outFile := getFlagString(cmd, "out-file")

		files := getFileListFromArgsAndFile(cmd, args, true, "infile-list", true)

		outfh, gw, w, err := outStream(outFile, strings.HasSuffix(outFile, ".gz"), opt.CompressionLevel)
		checkError(err)
		defer func() {
			outfh.Flush()
			if gw != nil {
				gw.Close()
			}
			w.Close()
		}()

		alg := align.NewAligner(alnOpt)
		alg.Executor = newExecutor(opt.NumCPUs, align.DefaultMinBatch)

		fmt.Fprintf(outfh, "file\tmode\trecorded\trescored\toptimal\tstatus\n")
		var nFail int
		for _, file := range files {
			c, err := checkReport(context.Background(), alg, file, realign)
			checkError(err)
			if !c.pass {
				nFail++
			}
			fmt.Fprintln(outfh, c)
		}

		if opt.Verbose {
			if nFail > 0 {
				log.Warningf("%d of %d report(s) failed", nFail, len(files))
			} else {
				log.Infof("all %d report(s) passed", len(files))
			}
		}
		if nFail > 0 {
			outfh.Flush()
			if gw != nil {
				gw.Close()
			}
			w.Close()
			os.Exit(1)
		}
	},
}

type reportCheck struct {
	file     string
	mode     align.Mode
	recorded int
	rescored int
	optimal  *int
	pass     bool
}

func (c *reportCheck) String() string {
	status := "PASS"
	if !c.pass {
		status = "FAIL"
	}
	optimal := "NA"
	if c.optimal != nil {
		optimal = fmt.Sprintf("%d", *c.optimal)
	}
	return fmt.Sprintf("%s\t%s\t%d\t%d\t%s\t%s", c.file, c.mode, c.recorded, c.rescored, optimal, status)
}

// checkReport rescores a report, and aligns the sequences again with realign.
func checkReport(ctx context.Context, alg *align.Aligner, file string, realign bool) (*reportCheck, error) {
	rec, err := report.ReadFile(file)
	if err != nil {
		return nil, err
	}

	affine := rec.Mode == align.ModeAffine
	c := &reportCheck{file: file, mode: rec.Mode, recorded: rec.Score}
	c.rescored, err = align.Rescore(rec.AlignA, rec.AlignB, alg.Options, affine)
	if err != nil {
		return nil, errors.Wrap(err, file)
	}
	c.pass = c.rescored == c.recorded

	if realign {
		mode := align.ModeLinearSpace
		if affine {
			mode = align.ModeAffine
		}
		r, err := alg.Align(ctx, mode, align.Ungap(rec.AlignA), align.Ungap(rec.AlignB))
		if err != nil {
			return nil, errors.Wrap(err, file)
		}
		c.optimal = &r.Score
		c.pass = c.pass && r.Score == c.recorded
	}
	return c, nil
}

func init() {
	RootCmd.AddCommand(rescoreCmd)

	rescoreCmd.Flags().BoolP("realign", "r", false,
		formatFlagUsage(`Align the gap-free sequences again to check the score is optimal.`))

	rescoreCmd.Flags().StringP("infile-list", "X", "",
		formatFlagUsage(`File of report file paths, one file per line.`))

	rescoreCmd.Flags().StringP("out-file", "o", "-",
		formatFlagUsage(`Out file, supports a ".gz" suffix ("-" for stdout).`))

	addScoringFlags(rescoreCmd)

	rescoreCmd.SetUsageTemplate(usageTemplate("<report.txt> [report.txt ...]"))
}
