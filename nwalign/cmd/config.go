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
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/shenwei356/nwalign/nwalign/align"
	"github.com/shenwei356/util/bytesize"
	"github.com/spf13/cobra"
)

const defaultConfigFile = "~/.nwalign.toml"

// Profile is a named scoring scheme in the config file.
// Missing fields keep the values of align.DefaultAlignOptions.
//
//	[profile.default]
//	match = 1
//	mismatch = -1
//	gap = -1
//
//	[profile.mito]
//	match = 2
//	gap-open = -5
//	gap-extend = -1
//	max-mem = "4G"
type Profile struct {
	Match     *int    `toml:"match"`
	Mismatch  *int    `toml:"mismatch"`
	Gap       *int    `toml:"gap"`
	GapOpen   *int    `toml:"gap-open"`
	GapExtend *int    `toml:"gap-extend"`
	Alphabet  *string `toml:"alphabet"`
	Threshold *int    `toml:"threshold"`
	MaxMem    *string `toml:"max-mem"`
	Fallback  *bool   `toml:"fallback"`
}

// Config is the content of the config file.
type Config struct {
	Profiles map[string]*Profile `toml:"profile"`
}

func readConfig(file string) (*Config, error) {
	file, err := homedir.Expand(file)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err = toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config file: %s", file)
	}
	return cfg, nil
}

// loadProfile returns the profile of the name in a config file.
// With required being false, a missing file or profile gives nil and no error.
func loadProfile(file, name string, required bool) (*Profile, error) {
	cfg, err := readConfig(file)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	p, ok := cfg.Profiles[name]
	if !ok {
		if !required {
			return nil, nil
		}
		names := make([]string, 0, len(cfg.Profiles))
		for n := range cfg.Profiles {
			names = append(names, n)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("profile %q not found in %s, available: %s", name, file, strings.Join(names, ", "))
	}
	return p, nil
}

func parseMaxMem(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return 0, nil
	}
	size, err := bytesize.Parse([]byte(s))
	if err != nil {
		return 0, errors.Wrapf(err, "invalid memory size: %s", s)
	}
	return int64(size), nil
}

func (p *Profile) apply(o *align.AlignOptions) error {
	if p == nil {
		return nil
	}
	if p.Match != nil {
		o.MatchScore = *p.Match
	}
	if p.Mismatch != nil {
		o.MisMatchScore = *p.Mismatch
	}
	if p.Gap != nil {
		o.GapScore = *p.Gap
	}
	if p.GapOpen != nil {
		o.GapOpenScore = *p.GapOpen
	}
	if p.GapExtend != nil {
		o.GapExtendScore = *p.GapExtend
	}
	if p.Alphabet != nil {
		o.Alphabet = strings.ToUpper(*p.Alphabet)
	}
	if p.Threshold != nil {
		o.Threshold = *p.Threshold
	}
	if p.Fallback != nil {
		o.Fallback = *p.Fallback
	}
	if p.MaxMem != nil {
		n, err := parseMaxMem(*p.MaxMem)
		if err != nil {
			return err
		}
		o.MaxMatrixBytes = n
	}
	return nil
}

func addScoringFlags(cmd *cobra.Command) {
	o := align.DefaultAlignOptions

	cmd.Flags().IntP("match", "", o.MatchScore,
		formatFlagUsage(`Score for a match.`))
	cmd.Flags().IntP("mismatch", "", o.MisMatchScore,
		formatFlagUsage(`Score for a mismatch.`))
	cmd.Flags().IntP("gap", "", o.GapScore,
		formatFlagUsage(`Score for a gap symbol in linear modes.`))
	cmd.Flags().IntP("gap-open", "", o.GapOpenScore,
		formatFlagUsage(`Score for opening a gap in the affine mode.`))
	cmd.Flags().IntP("gap-extend", "", o.GapExtendScore,
		formatFlagUsage(`Score for every gap symbol in the affine mode.`))
	cmd.Flags().StringP("alphabet", "", o.Alphabet,
		formatFlagUsage(`Symbols allowed in sequences.`))
	cmd.Flags().IntP("threshold", "", o.Threshold,
		formatFlagUsage(`Sequence length at or below which the linear-space mode uses the full matrices.`))
	cmd.Flags().StringP("max-mem", "", "4G",
		formatFlagUsage(`Memory limit of the full matrices, e.g., 4G, 512M. 0 for no limit, `+
			`where matrices larger than the available memory abort the program.`))
	cmd.Flags().BoolP("no-fallback", "", false,
		formatFlagUsage(`Do not switch linear modes to the linear-space mode when --max-mem is exceeded.`))
}

// getAlignOptions returns the alignment options from the default values,
// then the scoring profile, then the flags given explicitly.
func getAlignOptions(cmd *cobra.Command) *align.AlignOptions {
	o := align.DefaultAlignOptions

	file := getFlagString(cmd, "config")
	name := getFlagString(cmd, "profile")
	required := cmd.Flags().Changed("config") || cmd.Flags().Changed("profile")
	p, err := loadProfile(file, name, required)
	checkError(err)
	checkError(p.apply(&o))

	flags := cmd.Flags()
	if flags.Changed("match") {
		o.MatchScore = getFlagInt(cmd, "match")
	}
	if flags.Changed("mismatch") {
		o.MisMatchScore = getFlagInt(cmd, "mismatch")
	}
	if flags.Changed("gap") {
		o.GapScore = getFlagInt(cmd, "gap")
	}
	if flags.Changed("gap-open") {
		o.GapOpenScore = getFlagInt(cmd, "gap-open")
	}
	if flags.Changed("gap-extend") {
		o.GapExtendScore = getFlagInt(cmd, "gap-extend")
	}
	if flags.Changed("alphabet") {
		o.Alphabet = strings.ToUpper(getFlagNonEmptyString(cmd, "alphabet"))
	}
	if flags.Changed("threshold") {
		o.Threshold = getFlagPositiveInt(cmd, "threshold")
	}
	if flags.Changed("max-mem") {
		o.MaxMatrixBytes, err = parseMaxMem(getFlagString(cmd, "max-mem"))
		checkError(err)
	}
	if flags.Changed("no-fallback") {
		o.Fallback = !getFlagBool(cmd, "no-fallback")
	}

	checkError(o.Validate())
	return &o
}
