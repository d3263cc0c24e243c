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

const version = "0.1.0"

// RootCmd is unnaf: it reads one NAF archive and renders exactly one of its
// output projections to stdout (or -o). Each --flag below is a boolean
// output-mode switch, mutually exclusive with the others.
var RootCmd = &cobra.Command{
	Use:   "unnaf",
	Short: "Decode a NAF archive to one of its output projections",
	Long: fmt.Sprintf(`unnaf - Nucleotide Archive Format decoder

Reads a NAF archive and renders one projection of it: the reconstructed
FASTA/FASTQ text, raw sequence, identifiers, lengths, mask runs, or
archive metadata, selected by exactly one of the flags below.

Version: %s

`, version),
	Run: runDecode,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	RootCmd.Flags().StringP("out", "o", "-", `output file ("-" for stdout)`)

	RootCmd.Flags().BoolP("format", "", false, "print the declared format: fasta or fastq")
	RootCmd.Flags().BoolP("part-list", "", false, "list the sub-streams present in the archive")
	RootCmd.Flags().BoolP("sizes", "", false, "print each sub-stream's compressed/uncompressed size")
	RootCmd.Flags().BoolP("number", "", false, "print the number of sequences")
	RootCmd.Flags().BoolP("title", "", false, "print the archive title")
	RootCmd.Flags().BoolP("ids", "", false, "print one identifier per line")
	RootCmd.Flags().BoolP("names", "", false, "print one full name (id + separator + comment) per line")
	RootCmd.Flags().BoolP("lengths", "", false, "print one sequence length per line")
	RootCmd.Flags().BoolP("total-length", "", false, "print the sum of all sequence lengths")
	RootCmd.Flags().BoolP("mask", "", false, "print one soft-mask run length per line")
	RootCmd.Flags().BoolP("total-mask-length", "", false, "print the total length of the masked (lowercase) runs")
	RootCmd.Flags().BoolP("4bit", "", false, "print the raw 4-bit-packed sequence sub-stream")
	RootCmd.Flags().BoolP("sequence", "", false, "print the concatenated, unpacked sequence with no record separation")
	RootCmd.Flags().BoolP("fasta", "", false, "reconstruct and print FASTA text")
	RootCmd.Flags().BoolP("fastq", "", false, "reconstruct and print FASTQ text")

	RootCmd.Flags().Uint64P("line-length", "", 0, "override the line length used to re-wrap --fasta output (0: use the archive's)")
	RootCmd.Flags().BoolP("no-mask", "", false, "do not re-apply soft-mask runs to --sequence/--fasta output")
	RootCmd.Flags().BoolP("verbose", "v", false, "print progress")
}
