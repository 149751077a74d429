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
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/nwalign/nwalign/align"
	"github.com/shenwei356/nwalign/nwalign/report"
	"github.com/shenwei356/nwalign/nwalign/sequence"
	"github.com/shenwei356/util/pathutil"
	"github.com/spf13/cobra"
	"github.com/twotwotwo/sorts"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Align one reference sequence against many query sequences",
	Long: `Align one reference sequence against many query sequences

Input:
  1. A reference file (-r/--ref), the first record is used (or all
     records concatenated with -c/--concat).
  2. Query files from positional arguments, a list file (-X/--infile-list),
     or a directory (-I/--in-dir) with files matching -N/--file-regexp.

Output:
  1. One report file for every query in the output directory (-O/--out-dir),
     named as <ref>_vs_<query>_<mode>_alignment.txt.
  2. A tab-delimited summary (-o/--out-file), sorted by score in descending order.

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

		refFile := getFlagNonEmptyString(cmd, "ref")
		mode, err := align.ParseMode(getFlagString(cmd, "mode"))
		checkError(err)
		alnOpt := getAlignOptions(cmd)
		concat := getFlagBool(cmd, "concat")
		maxConc := getFlagPositiveInt(cmd, "max-conc")
		minBatch := getFlagPositiveInt(cmd, "min-batch")

		outDir := getFlagString(cmd, "out-dir")
		if outDir == "" {
			checkError(fmt.Errorf("flag -O/--out-dir is needed"))
		}
		outDir = filepath.Clean(outDir)
		force := getFlagBool(cmd, "force")
		outFile := getFlagString(cmd, "out-file")

		inDir := getFlagString(cmd, "in-dir")
		readFromDir := inDir != ""
		if readFromDir {
			if filepath.Clean(inDir) == outDir {
				checkError(fmt.Errorf("intput and output paths should not be the same: %s", outDir))
			}
			isDir, err := pathutil.IsDir(inDir)
			if err != nil {
				checkError(errors.Wrapf(err, "checking -I/--in-dir"))
			}
			if !isDir {
				checkError(fmt.Errorf("value of -I/--in-dir should be a directory: %s", inDir))
			}
		}

		reFileStr := getFlagString(cmd, "file-regexp")
		reFile, err := regexp.Compile(reFileStr)
		if err != nil {
			checkError(errors.Wrapf(err, "failed to parse regular expression for matching file: %s", reFileStr))
		}

		// ---------------------------------------------------------------
		// input files

		if opt.Verbose || opt.Log2File {
			log.Infof("nwalign v%s", VERSION)
			log.Info()
			log.Info("checking input files ...")
		}

		var files []string
		if readFromDir {
			files, err = getFileListFromDir(inDir, reFile, opt.NumCPUs)
			if err != nil {
				checkError(errors.Wrapf(err, "walking dir: %s", inDir))
			}
			if len(files) == 0 {
				log.Warningf("  no files matching regular expression: %s", reFileStr)
			}
		} else {
			files = getFileListFromArgsAndFile(cmd, args, true, "infile-list", true)
			if len(files) == 1 && isStdin(files[0]) {
				if isStdin(refFile) {
					checkError(fmt.Errorf("the reference and queries can not be both from stdin"))
				}
				if opt.Verbose || opt.Log2File {
					log.Info("  no files given, reading from stdin")
				}
			}
		}
		if len(files) < 1 {
			checkError(fmt.Errorf("FASTA/Q files of queries needed"))
		} else if opt.Verbose || opt.Log2File {
			log.Infof("  %d query file(s) given", len(files))
		}

		read := sequence.ReadFirst
		if concat {
			read = sequence.ReadConcat
		}
		ref, err := read(refFile)
		checkError(err)
		refName := seqName(refFile)

		if opt.Verbose || opt.Log2File {
			log.Infof("  reference: %s (%s bp)", ref.ID, humanize.Comma(int64(len(ref.Seq))))
			log.Infof("  mode: %s, %s", mode, alnOpt)
			log.Infof("  concurrent alignments: %d", maxConc)
			log.Info()
		}

		makeOutDir(outDir, force, "output directory", opt.Verbose)

		// ---------------------------------------------------------------
		// align

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		// threads are shared by concurrent alignments
		threadsPerPair := opt.NumCPUs / maxConc
		if threadsPerPair < 1 {
			threadsPerPair = 1
		}
		alg := align.NewAligner(alnOpt)
		alg.Executor = newExecutor(threadsPerPair, minBatch)

		showProgressBar := len(files) > 1 && opt.Verbose

		var pbs *mpb.Progress
		var bar *mpb.Bar
		var chDuration chan time.Duration
		var doneDuration chan int
		if showProgressBar {
			pbs = mpb.New(mpb.WithWidth(40), mpb.WithOutput(os.Stderr))
			bar = pbs.AddBar(int64(len(files)),
				mpb.PrependDecorators(
					decor.Name("aligned queries: ", decor.WC{W: len("aligned queries: "), C: decor.DindentRight}),
					decor.Name("", decor.WCSyncSpaceR),
					decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
				),
				mpb.AppendDecorators(
					decor.Name("ETA: ", decor.WC{W: len("ETA: ")}),
					decor.EwmaETA(decor.ET_STYLE_GO, 20),
					decor.OnComplete(decor.Name(""), ". done"),
				),
			)

			chDuration = make(chan time.Duration, opt.NumCPUs)
			doneDuration = make(chan int)
			go func() {
				for t := range chDuration {
					bar.EwmaIncrBy(1, t)
				}
				doneDuration <- 1
			}()
		}

		var wg sync.WaitGroup
		ch := make(chan *batchResult, maxConc)
		tokens := make(chan int, maxConc)
		done := make(chan int)

		// 2. collect
		results := make(batchResults, 0, len(files))
		go func() {
			for r := range ch {
				results = append(results, r)
				if showProgressBar {
					chDuration <- r.elapsed
				}
			}
			done <- 1
		}()

		// 1. align
		for _, file := range files {
			tokens <- 1
			wg.Add(1)

			go func(file string) {
				defer func() {
					wg.Done()
					<-tokens
				}()
				t := time.Now()

				query, err := read(file)
				if err != nil {
					checkError(err)
				}

				name := seqName(file)
				r, err := alg.Align(ctx, mode, ref.Seq, query.Seq)
				if err != nil {
					checkError(errors.Wrapf(err, "align %s", file))
				}
				elapsed := time.Since(t)

				rec := report.NewRecord(refName, name, r, elapsed)
				fileReport := filepath.Join(outDir, report.FileName(refName, name, mode))
				checkError(writeReport(fileReport, rec))

				ch <- &batchResult{
					query:   name,
					record:  rec,
					file:    fileReport,
					elapsed: elapsed,
				}
			}(file)
		}

		wg.Wait()
		close(ch)
		<-done

		if showProgressBar {
			close(chDuration)
			<-doneDuration
			pbs.Wait()
		}

		// ---------------------------------------------------------------
		// summary

		sorts.Quicksort(results)

		outfh, gw, w, err := outStream(outFile, strings.HasSuffix(outFile, ".gz"), opt.CompressionLevel)
		checkError(err)
		defer func() {
			outfh.Flush()
			if gw != nil {
				gw.Close()
			}
			w.Close()
		}()

		fmt.Fprintf(outfh, "ref\tquery\tmode\tscore\tlength\tmatches\tmismatches\tgaps\tsimilarity\tseconds\treport\n")
		var rec *report.Record
		for _, r := range results {
			rec = r.record
			fmt.Fprintf(outfh, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\t%.2f\t%.4f\t%s\n",
				refName, r.query, rec.Mode, rec.Score, rec.Len, rec.Matches, rec.Mismatches, rec.Gaps,
				rec.Similarity, rec.Elapsed.Seconds(), r.file)
		}

		if opt.Verbose || opt.Log2File {
			log.Infof("%d alignment(s) saved to %s", len(results), outDir)
		}
	},
}

type batchResult struct {
	query   string
	record  *report.Record
	file    string
	elapsed time.Duration
}

// batchResults is sorted by score in descending order, then by query name.
type batchResults []*batchResult

func (r batchResults) Len() int      { return len(r) }
func (r batchResults) Swap(i, j int) { r[i], r[j] = r[j], r[i] }
func (r batchResults) Less(i, j int) bool {
	if r[i].record.Score == r[j].record.Score {
		return r[i].query < r[j].query
	}
	return r[i].record.Score > r[j].record.Score
}

func writeReport(file string, rec *report.Record) error {
	outfh, gw, w, err := outStream(file, strings.HasSuffix(file, ".gz"), -1)
	if err != nil {
		return err
	}
	if err = report.Write(outfh, rec); err != nil {
		return err
	}
	if err = outfh.Flush(); err != nil {
		return err
	}
	if gw != nil {
		if err = gw.Close(); err != nil {
			return err
		}
	}
	return w.Close()
}

func init() {
	RootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringP("ref", "r", "",
		formatFlagUsage(`Reference sequence file.`))

	batchCmd.Flags().StringP("infile-list", "X", "",
		formatFlagUsage(`File of query file paths, one file per line.`))

	batchCmd.Flags().StringP("in-dir", "I", "",
		formatFlagUsage(`Directory containing query files. Directory symlinks are followed.`))

	batchCmd.Flags().StringP("file-regexp", "N", `(?i)\.(f[aq](st[aq])?|fna)(\.gz|\.xz|\.zst|\.bz2)?$`,
		formatFlagUsage(`Regular expression for matching query files in -I/--in-dir, case ignored.`))

	batchCmd.Flags().StringP("mode", "m", "linear-space",
		formatFlagUsage(`Alignment mode, available values: linear, wavefront, affine, linear-space.`))

	batchCmd.Flags().BoolP("concat", "c", false,
		formatFlagUsage(`Concatenate all records of a file, instead of using the first one.`))

	batchCmd.Flags().IntP("max-conc", "J", 4,
		formatFlagUsage(`Maximum number of alignments running at the same time, sharing -j/--threads.`))

	batchCmd.Flags().IntP("min-batch", "", align.DefaultMinBatch,
		formatFlagUsage(`Minimum number of cells handed to a thread in the wavefront mode.`))

	batchCmd.Flags().StringP("out-dir", "O", "",
		formatFlagUsage(`Output directory for report files.`))

	batchCmd.Flags().BoolP("force", "", false,
		formatFlagUsage(`Overwrite existing output directory.`))

	batchCmd.Flags().StringP("out-file", "o", "-",
		formatFlagUsage(`Out file of the summary, supports a ".gz" suffix ("-" for stdout).`))

	addScoringFlags(batchCmd)

	batchCmd.SetUsageTemplate(usageTemplate("[query.fasta ...]"))
}
