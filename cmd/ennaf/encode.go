// Copyright © 2018 Wei Shen <shenwei356@gmail.com>
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

package main

import (
	"fmt"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/shenwei356/naf"
	"github.com/shenwei356/naf/internal/cliutil"
	"github.com/shenwei356/util/pathutil"
	"github.com/spf13/cobra"
)

func parseInFormat(s string) (naf.InFormat, error) {
	switch s {
	case "auto", "":
		return naf.FormatAuto, nil
	case "fasta":
		return naf.FormatFASTA, nil
	case "fastq":
		return naf.FormatFASTQ, nil
	default:
		return 0, fmt.Errorf("unknown --format: %s", s)
	}
}

func parseSeqType(s string) (naf.SeqType, error) {
	switch s {
	case "dna":
		return naf.SeqTypeDNA, nil
	case "rna":
		return naf.SeqTypeRNA, nil
	case "protein":
		return naf.SeqTypeProtein, nil
	case "text":
		return naf.SeqTypeText, nil
	default:
		return 0, fmt.Errorf("unknown --sequence-type: %s", s)
	}
}

func runEncode(cmd *cobra.Command, args []string) {
	cliutil.InitLogging()
	verbose := cliutil.GetFlagBool(cmd, "verbose")

	if len(args) > 1 {
		cliutil.CheckError(fmt.Errorf("ennaf accepts at most one input file, got %d", len(args)))
	}
	inFile := "-"
	if len(args) == 1 {
		inFile = args[0]
	}

	outFile := cliutil.GetFlagString(cmd, "out")
	if cliutil.GetFlagBool(cmd, "stdout") {
		outFile = "-"
	}

	format, err := parseInFormat(cliutil.GetFlagString(cmd, "format"))
	cliutil.CheckError(err)
	seqType, err := parseSeqType(cliutil.GetFlagString(cmd, "sequence-type"))
	cliutil.CheckError(err)

	sep := cliutil.GetFlagString(cmd, "name-separator")
	if len(sep) != 1 {
		cliutil.CheckError(fmt.Errorf("--name-separator must be exactly one byte, got %q", sep))
	}

	tempDir, err := homedir.Expand(cliutil.GetFlagString(cmd, "temp-dir"))
	cliutil.CheckError(err)
	if ok, err := pathutil.Exists(tempDir); err != nil {
		cliutil.CheckError(errors.Wrap(err, tempDir))
	} else if !ok {
		cliutil.CheckError(fmt.Errorf("--temp-dir does not exist: %s", tempDir))
	}

	opt := naf.NewOptions()
	opt.InFormat = format
	opt.SeqType = seqType
	opt.CompressionLevel = cliutil.GetFlagInt(cmd, "level")
	opt.WindowLog = cliutil.GetFlagInt(cmd, "window-log")
	opt.LineLengthOverride = cliutil.GetFlagUint64(cmd, "line-length")
	if title := cliutil.GetFlagString(cmd, "title"); title != "" {
		opt.Title = []byte(title)
	}
	opt.DatasetName = cliutil.GetFlagString(cmd, "name")
	opt.StoreMask = cliutil.GetFlagBool(cmd, "mask")
	opt.Strict = cliutil.GetFlagBool(cmd, "strict")
	opt.AssumeWellFormed = cliutil.GetFlagBool(cmd, "well-formed")
	opt.KeepTempFiles = cliutil.GetFlagBool(cmd, "keep-temp")
	opt.TempDir = tempDir
	opt.NameSeparator = sep[0]

	if err := opt.Validate(); err != nil {
		cliutil.CheckError(errors.Wrap(err, "invalid configuration"))
	}

	if verbose {
		if cliutil.IsStdin(inFile) {
			cliutil.Log.Info("reading from stdin")
		} else {
			cliutil.Log.Infof("reading %s", inFile)
		}
	}

	br, rf, err := cliutil.InStream(inFile)
	cliutil.CheckError(errors.Wrap(err, inFile))
	if rf != nil {
		defer rf.Close()
	}

	bw, wf, err := cliutil.OutStream(outFile)
	cliutil.CheckError(errors.Wrap(err, outFile))

	inputName := inFile
	if cliutil.IsStdin(inFile) {
		inputName = ""
	}

	stats, err := naf.Encode(bw, br, opt, inputName)
	if err != nil {
		cliutil.CheckError(errors.Wrap(err, inFile))
	}
	cliutil.CheckError(bw.Flush())
	if wf != nil {
		cliutil.CheckError(wf.Close())
	}

	if verbose {
		cliutil.Log.Infof("%d sequence(s) encoded, longest line %d", stats.NumSequences, stats.LongestLine)
		for c, n := range stats.UnexpectedSeq {
			cliutil.Log.Warningf("replaced %d occurrence(s) of unexpected sequence character %q", n, c)
		}
	}
}
