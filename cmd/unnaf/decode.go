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

	"github.com/pkg/errors"
	"github.com/shenwei356/naf"
	"github.com/shenwei356/naf/internal/cliutil"
	"github.com/spf13/cobra"
)

// projectionFlags lists every boolean output-mode flag in the order they
// are checked; exactly one may be set.
var projectionFlags = []struct {
	flag       string
	projection naf.Projection
}{
	{"format", naf.ProjectionFormat},
	{"part-list", naf.ProjectionPartList},
	{"sizes", naf.ProjectionSizes},
	{"number", naf.ProjectionNumber},
	{"title", naf.ProjectionTitle},
	{"ids", naf.ProjectionIDs},
	{"names", naf.ProjectionNames},
	{"lengths", naf.ProjectionLengths},
	{"total-length", naf.ProjectionTotalLength},
	{"mask", naf.ProjectionMask},
	{"total-mask-length", naf.ProjectionTotalMaskLength},
	{"4bit", naf.Projection4Bit},
	{"sequence", naf.ProjectionSequence},
	{"fasta", naf.ProjectionFASTA},
	{"fastq", naf.ProjectionFASTQ},
}

func runDecode(cmd *cobra.Command, args []string) {
	cliutil.InitLogging()
	verbose := cliutil.GetFlagBool(cmd, "verbose")

	if len(args) > 1 {
		cliutil.CheckError(fmt.Errorf("unnaf accepts at most one input file, got %d", len(args)))
	}
	inFile := "-"
	if len(args) == 1 {
		inFile = args[0]
	}

	var selected *naf.Projection
	var selectedFlag string
	for _, pf := range projectionFlags {
		if cliutil.GetFlagBool(cmd, pf.flag) {
			if selected != nil {
				cliutil.CheckError(fmt.Errorf("--%s and --%s are mutually exclusive", selectedFlag, pf.flag))
			}
			p := pf.projection
			selected = &p
			selectedFlag = pf.flag
		}
	}
	if selected == nil {
		cliutil.CheckError(fmt.Errorf("choose exactly one output mode, e.g. --fasta"))
	}

	opt := naf.DecodeOptions{
		Projection:         *selected,
		LineLengthOverride: cliutil.GetFlagUint64(cmd, "line-length"),
		UseMask:            !cliutil.GetFlagBool(cmd, "no-mask"),
	}

	outFile := cliutil.GetFlagString(cmd, "out")

	if verbose {
		if cliutil.IsStdin(inFile) {
			cliutil.Log.Infof("reading from stdin, projection --%s", selectedFlag)
		} else {
			cliutil.Log.Infof("reading %s, projection --%s", inFile, selectedFlag)
		}
	}

	f, r, err := cliutil.InStream(inFile)
	cliutil.CheckError(errors.Wrap(err, inFile))
	if r != nil {
		defer r.Close()
	}

	dec, err := naf.NewDecoder(f)
	cliutil.CheckError(errors.Wrap(err, inFile))

	bw, wf, err := cliutil.OutStream(outFile)
	cliutil.CheckError(errors.Wrap(err, outFile))

	if err := dec.Decode(bw, opt); err != nil {
		cliutil.CheckError(errors.Wrap(err, inFile))
	}
	cliutil.CheckError(bw.Flush())
	if wf != nil {
		cliutil.CheckError(wf.Close())
	}
}
