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
	"os"

	"github.com/spf13/cobra"
)

// version is the release number shown in the --help banner.
const version = "0.1.0"

// RootCmd is ennaf: it reads one FASTA/FASTQ stream and writes one NAF
// archive. Every knob maps one-to-one onto an naf.Options field.
var RootCmd = &cobra.Command{
	Use:   "ennaf",
	Short: "Encode FASTA/FASTQ into a NAF archive",
	Long: fmt.Sprintf(`ennaf - Nucleotide Archive Format encoder

Reads one FASTA or FASTQ file (or stdin, gzip-transparent either way) and
writes a single NAF archive: six independently zstd-compressed sub-streams
for identifiers, comments, sequence lengths, soft-mask runs, 4-bit-packed
sequence data, and quality scores.

Version: %s

`, version),
	Run: runEncode,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	RootCmd.Flags().StringP("out", "o", "-", `output file ("-" for stdout)`)
	RootCmd.Flags().BoolP("stdout", "c", false, "write to stdout (equivalent to -o -)")

	RootCmd.Flags().StringP("format", "", "auto", "input format: auto, fasta, fastq")
	RootCmd.Flags().StringP("sequence-type", "", "dna", "sequence type: dna, rna, protein, text")
	RootCmd.Flags().IntP("level", "l", 19, "zstd compression level, 1-22")
	RootCmd.Flags().IntP("window-log", "", 0, "zstd window log, only honored at level 22 (0: let zstd choose)")
	RootCmd.Flags().Uint64P("line-length", "", 0, "line length to record in the header (0: use the longest observed line)")
	RootCmd.Flags().StringP("title", "", "", "free-form title stored in the header")
	RootCmd.Flags().StringP("name", "", "", "dataset name, also used as the temp-file prefix")
	RootCmd.Flags().BoolP("mask", "", true, "store soft-mask (lowercase) runs for DNA/RNA")
	RootCmd.Flags().BoolP("strict", "", false, "fail on any out-of-alphabet character instead of replacing it")
	RootCmd.Flags().BoolP("well-formed", "", false, "assume well-formed input (one line per field, no blank lines) for faster parsing")
	RootCmd.Flags().BoolP("keep-temp", "", false, "keep the per-sub-stream temp files instead of deleting them")
	RootCmd.Flags().StringP("temp-dir", "", ".", "directory for the per-sub-stream temp files")
	RootCmd.Flags().StringP("name-separator", "", " ", "single byte written between an ID and its comment when both are present")
	RootCmd.Flags().BoolP("verbose", "v", false, "print progress and warnings")
}
