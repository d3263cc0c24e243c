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

package naf

import (
	"bytes"
	"strings"
	"testing"
)

func mustEncode(t *testing.T, input string, configure func(*Options)) []byte {
	t.Helper()
	opt := NewOptions()
	opt.CompressionLevel = 1
	if configure != nil {
		configure(&opt)
	}
	var out bytes.Buffer
	if _, err := Encode(&out, strings.NewReader(input), opt, ""); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return out.Bytes()
}

func mustDecode(t *testing.T, archive []byte, opt DecodeOptions) string {
	t.Helper()
	dec, err := NewDecoder(bytes.NewReader(archive))
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	var out bytes.Buffer
	if err := dec.Decode(&out, opt); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return out.String()
}

func TestDecodeFASTARoundTrip(t *testing.T) {
	input := ">seq1 comment one\nACGTACGTAC\nGT\n>seq2\nTTTT\n"
	archive := mustEncode(t, input, nil)
	got := mustDecode(t, archive, DecodeOptions{Projection: ProjectionFASTA, UseMask: true})
	// line_length defaults to the longest observed input line (10, from
	// seq1's first line), so the re-wrapped output splits at 10 again.
	want := ">seq1 comment one\nACGTACGTAC\nGT\n>seq2\nTTTT\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDecodeFASTAEmptySequenceHasNoBlankLine(t *testing.T) {
	input := ">seq1\n\n>seq2\nAC\n"
	archive := mustEncode(t, input, nil)
	got := mustDecode(t, archive, DecodeOptions{Projection: ProjectionFASTA, UseMask: true})
	want := ">seq1\n>seq2\nAC\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDecodeFASTAPreservesSoftMask(t *testing.T) {
	input := ">seq1\nACGTacgtACGT\n"
	archive := mustEncode(t, input, nil)
	got := mustDecode(t, archive, DecodeOptions{Projection: ProjectionFASTA, UseMask: true})
	want := ">seq1\nACGTacgtACGT\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDecodeFASTADropsMaskWhenNotRequested(t *testing.T) {
	input := ">seq1\nACGTacgtACGT\n"
	archive := mustEncode(t, input, nil)
	got := mustDecode(t, archive, DecodeOptions{Projection: ProjectionFASTA, UseMask: false})
	want := ">seq1\nACGTACGTACGT\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDecodeFASTQInterleaving(t *testing.T) {
	input := "@r1 desc\nACGT\n+\nIIII\n@r2\nTTTTTT\n+\nJJJJJJ\n"
	archive := mustEncode(t, input, nil)
	got := mustDecode(t, archive, DecodeOptions{Projection: ProjectionFASTQ, UseMask: true})
	want := "@r1 desc\nACGT\n+\nIIII\n@r2\nTTTTTT\n+\nJJJJJJ\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDecodeIDs(t *testing.T) {
	archive := mustEncode(t, ">a\nAC\n>b\nGT\n", nil)
	got := mustDecode(t, archive, DecodeOptions{Projection: ProjectionIDs})
	if got != "a\nb\n" {
		t.Errorf("got %q", got)
	}
}

func TestDecodeNamesHonorsSeparator(t *testing.T) {
	archive := mustEncode(t, ">a some comment\nAC\n", func(o *Options) {
		o.NameSeparator = '|'
	})
	got := mustDecode(t, archive, DecodeOptions{Projection: ProjectionNames})
	if got != "a|some comment\n" {
		t.Errorf("got %q", got)
	}
}

func TestDecodeLengths(t *testing.T) {
	archive := mustEncode(t, ">a\nACGT\n>b\nAC\n", nil)
	got := mustDecode(t, archive, DecodeOptions{Projection: ProjectionLengths})
	if got != "4\n2\n" {
		t.Errorf("got %q", got)
	}
}

func TestDecodeTotalLength(t *testing.T) {
	archive := mustEncode(t, ">a\nACGT\n>b\nAC\n", nil)
	got := mustDecode(t, archive, DecodeOptions{Projection: ProjectionTotalLength})
	if got != "6\n" {
		t.Errorf("got %q", got)
	}
}

func TestDecodeNumber(t *testing.T) {
	archive := mustEncode(t, ">a\nAC\n>b\nGT\n>c\nTT\n", nil)
	got := mustDecode(t, archive, DecodeOptions{Projection: ProjectionNumber})
	if got != "3\n" {
		t.Errorf("got %q", got)
	}
}

func TestDecodeFormat(t *testing.T) {
	fastaArchive := mustEncode(t, ">a\nAC\n", nil)
	if got := mustDecode(t, fastaArchive, DecodeOptions{Projection: ProjectionFormat}); got != "fasta\n" {
		t.Errorf("fasta: got %q", got)
	}
	fastqArchive := mustEncode(t, "@a\nAC\n+\nII\n", nil)
	if got := mustDecode(t, fastqArchive, DecodeOptions{Projection: ProjectionFormat}); got != "fastq\n" {
		t.Errorf("fastq: got %q", got)
	}
}

func TestDecodeMaskAndTotalMaskLength(t *testing.T) {
	archive := mustEncode(t, ">a\nACGTacgtACGT\n", nil)
	got := mustDecode(t, archive, DecodeOptions{Projection: ProjectionTotalMaskLength})
	if got != "4\n" {
		t.Errorf("got %q", got)
	}
	runs := mustDecode(t, archive, DecodeOptions{Projection: ProjectionMask})
	if runs != "4\n4\n4\n" {
		t.Errorf("mask runs: got %q", runs)
	}
}

func TestDecodeSizesDoesNotError(t *testing.T) {
	archive := mustEncode(t, ">a\nACGTACGTACGT\n", nil)
	got := mustDecode(t, archive, DecodeOptions{Projection: ProjectionSizes})
	if !strings.Contains(got, "Data:") {
		t.Errorf("expected a Data: line, got %q", got)
	}
}

func TestDecodeSequenceSkipsUnneededSubstreams(t *testing.T) {
	archive := mustEncode(t, ">a comment\nACGTACGT\n>b\nTTTT\n", nil)
	got := mustDecode(t, archive, DecodeOptions{Projection: ProjectionSequence, UseMask: true})
	if got != "ACGTACGTTTTT" {
		t.Errorf("got %q", got)
	}
}

func TestDecodeFASTALineWrapOverride(t *testing.T) {
	archive := mustEncode(t, ">a\nACGTACGTACGT\n", nil)
	got := mustDecode(t, archive, DecodeOptions{Projection: ProjectionFASTA, UseMask: true, LineLengthOverride: 4})
	want := ">a\nACGT\nACGT\nACGT\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDecodeProteinSequenceHasNoMaskHandling(t *testing.T) {
	archive := mustEncode(t, ">p\nMKVL\n", func(o *Options) {
		o.SeqType = SeqTypeProtein
	})
	got := mustDecode(t, archive, DecodeOptions{Projection: ProjectionFASTA, UseMask: true})
	if got != ">p\nMKVL\n" {
		t.Errorf("got %q", got)
	}
}
