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
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shenwei356/nwalign/nwalign/align"
	"github.com/shenwei356/nwalign/nwalign/sequence"
	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Benchmark alignment modes with random sequences",
	Long: `Benchmark alignment modes with random sequences

Two random sequences are generated with a fixed seed and aligned
repeatedly in every mode. Scores of linear modes must be the same.

Output (tab-delimited):
  mode, length of sequences, runs, mean/stdev/min/max seconds, score.

`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)

		alnOpt := getAlignOptions(cmd)
		length := getFlagPositiveInt(cmd, "length")
		runs := getFlagPositiveInt(cmd, "runs")
		seed := getFlagInt64(cmd, "seed")
		minBatch := getFlagPositiveInt(cmd, "min-batch")
		outFile := getFlagString(cmd, "out-file")
		plotFile := getFlagString(cmd, "plot")

		var modes []align.Mode
		for _, s := range getFlagStringSlice(cmd, "modes") {
			mode, err := align.ParseMode(s)
			checkError(err)
			modes = append(modes, mode)
		}
		if len(modes) == 0 {
			checkError(fmt.Errorf("flag -m/--modes needed"))
		}

		r := rand.New(rand.NewSource(seed))
		a := sequence.Random(r, length, "ACGT")
		b := sequence.Random(r, length, "ACGT")

		if opt.Verbose {
			log.Infof("aligning two random sequences of %s bp, %s cells, %d run(s) per mode",
				humanize.Comma(int64(length)), humanize.Comma(int64(length)*int64(length)), runs)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		alg := align.NewAligner(alnOpt)
		alg.Executor = newExecutor(opt.NumCPUs, minBatch)

		var pbs *mpb.Progress
		var bar *mpb.Bar
		if opt.Verbose {
			pbs = mpb.New(mpb.WithWidth(40), mpb.WithOutput(os.Stderr))
			bar = pbs.AddBar(int64(len(modes)*runs),
				mpb.PrependDecorators(
					decor.Name("runs: ", decor.WC{W: len("runs: "), C: decor.DindentRight}),
					decor.Name("", decor.WCSyncSpaceR),
					decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
				),
				mpb.AppendDecorators(
					decor.Name("ETA: ", decor.WC{W: len("ETA: ")}),
					decor.EwmaETA(decor.ET_STYLE_GO, 20),
					decor.OnComplete(decor.Name(""), ". done"),
				),
			)
		}

		stats := make([]*benchStat, 0, len(modes))
		for _, mode := range modes {
			s := &benchStat{mode: mode, seconds: make([]float64, 0, runs)}
			for i := 0; i < runs; i++ {
				t := time.Now()
				res, err := alg.Align(ctx, mode, a, b)
				checkError(err)
				elapsed := time.Since(t)

				s.seconds = append(s.seconds, elapsed.Seconds())
				s.score = res.Score
				s.actual = res.Mode
				if bar != nil {
					bar.EwmaIncrBy(1, elapsed)
				}
			}
			s.compute()
			stats = append(stats, s)
		}
		if pbs != nil {
			pbs.Wait()
		}

		checkError(checkBenchScores(stats))

		outfh, gw, w, err := outStream(outFile, strings.HasSuffix(outFile, ".gz"), opt.CompressionLevel)
		checkError(err)
		defer func() {
			outfh.Flush()
			if gw != nil {
				gw.Close()
			}
			w.Close()
		}()

		fmt.Fprintf(outfh, "mode\tlength\truns\tmean\tstdev\tmin\tmax\tscore\n")
		for _, s := range stats {
			fmt.Fprintf(outfh, "%s\t%d\t%d\t%.4f\t%.4f\t%.4f\t%.4f\t%d\n",
				s.actual, length, runs, s.mean, s.stdev, s.min, s.max, s.score)
		}

		if plotFile != "" {
			checkError(plotBench(stats, length, plotFile))
			if opt.Verbose {
				log.Infof("plot saved to %s", plotFile)
			}
		}
	},
}

type benchStat struct {
	mode    align.Mode // the mode asked for
	actual  align.Mode // the mode that ran, might be a fallback
	seconds []float64
	score   int

	mean, stdev, min, max float64
}

func (s *benchStat) compute() {
	if len(s.seconds) == 0 {
		return
	}
	s.mean, s.stdev = stat.MeanStdDev(s.seconds, nil)
	if len(s.seconds) == 1 {
		s.stdev = 0
	}
	s.min = floats.Min(s.seconds)
	s.max = floats.Max(s.seconds)
}

// checkBenchScores checks all linear modes give the same score.
func checkBenchScores(stats []*benchStat) error {
	var ref *benchStat
	for _, s := range stats {
		if s.mode == align.ModeAffine {
			continue
		}
		if ref == nil {
			ref = s
			continue
		}
		if s.score != ref.score {
			return fmt.Errorf("scores differ: %d in %s mode, %d in %s mode", ref.score, ref.mode, s.score, s.mode)
		}
	}
	return nil
}

// plotBench draws mean seconds of modes, the format is decided by the file extension.
func plotBench(stats []*benchStat, length int, file string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Alignments of two %s bp sequences", humanize.Comma(int64(length)))
	p.Y.Label.Text = "Seconds"

	values := make(plotter.Values, len(stats))
	names := make([]string, len(stats))
	for i, s := range stats {
		values[i] = s.mean
		names[i] = s.mode.String()
	}

	bars, err := plotter.NewBarChart(values, vg.Points(30))
	if err != nil {
		return err
	}
	bars.LineStyle.Width = vg.Length(0)
	bars.Color = plotter.DefaultLineStyle.Color
	p.Add(bars)
	p.NominalX(names...)

	return p.Save(vg.Length(len(stats)+2)*vg.Inch, 4*vg.Inch, file)
}

func init() {
	RootCmd.AddCommand(benchCmd)

	benchCmd.Flags().IntP("length", "l", 2000,
		formatFlagUsage(`Length of the random sequences.`))

	benchCmd.Flags().IntP("runs", "n", 5,
		formatFlagUsage(`Number of runs for every mode.`))

	benchCmd.Flags().StringSliceP("modes", "m", []string{"linear", "wavefront", "affine", "linear-space"},
		formatFlagUsage(`Alignment modes to benchmark.`))

	benchCmd.Flags().Int64P("seed", "s", 1,
		formatFlagUsage(`Seed of the random sequences.`))

	benchCmd.Flags().IntP("min-batch", "", align.DefaultMinBatch,
		formatFlagUsage(`Minimum number of cells handed to a thread in the wavefront mode.`))

	benchCmd.Flags().StringP("out-file", "o", "-",
		formatFlagUsage(`Out file, supports a ".gz" suffix ("-" for stdout).`))

	benchCmd.Flags().StringP("plot", "p", "",
		formatFlagUsage(`Bar chart of mean seconds, in the format of the file extension: .png, .svg, .pdf.`))

	addScoringFlags(benchCmd)

	benchCmd.SetUsageTemplate(usageTemplate(""))
}
