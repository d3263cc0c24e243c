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

// S1 — empty FASTA: one record, zero length, a single NUL-terminated
// empty id.
func TestScenarioEmptyFASTA(t *testing.T) {
	opt := NewOptions()
	opt.CompressionLevel = 1
	var out bytes.Buffer
	stats, err := Encode(&out, strings.NewReader(">\n"), opt, "")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if stats.NumSequences != 1 {
		t.Fatalf("expected 1 sequence, got %d", stats.NumSequences)
	}

	dec, err := NewDecoder(bytes.NewReader(out.Bytes()))
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	if dec.Header().NumSequences != 1 {
		t.Errorf("header NumSequences: got %d", dec.Header().NumSequences)
	}

	var lengths bytes.Buffer
	dec2, _ := NewDecoder(bytes.NewReader(out.Bytes()))
	if err := dec2.Decode(&lengths, DecodeOptions{Projection: ProjectionLengths}); err != nil {
		t.Fatalf("decode lengths: %v", err)
	}
	if lengths.String() != "0\n" {
		t.Errorf("lengths: got %q, want %q", lengths.String(), "0\n")
	}

	var ids bytes.Buffer
	dec3, _ := NewDecoder(bytes.NewReader(out.Bytes()))
	if err := dec3.Decode(&ids, DecodeOptions{Projection: ProjectionIDs}); err != nil {
		t.Fatalf("decode ids: %v", err)
	}
	if ids.String() != "\n" {
		t.Errorf("ids: got %q, want a single blank line", ids.String())
	}
}

// S2 — two-record DNA FASTA: mask runs cross the record boundary, and the
// full FASTA decode must reproduce the original text exactly (names,
// case, and line wrapping all survive the round trip).
func TestScenarioTwoRecordDNAFASTA(t *testing.T) {
	input := ">chr1 human\nACgt\nN\n>chr2\nTT\n"
	opt := NewOptions()
	opt.CompressionLevel = 1
	var out bytes.Buffer
	stats, err := Encode(&out, strings.NewReader(input), opt, "")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if stats.NumSequences != 2 {
		t.Fatalf("expected 2 sequences, got %d", stats.NumSequences)
	}
	if stats.LongestLine != 4 {
		t.Fatalf("expected longest_line_length 4, got %d", stats.LongestLine)
	}

	dec, err := NewDecoder(bytes.NewReader(out.Bytes()))
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	if dec.Header().LineLength != 4 {
		t.Errorf("header LineLength: got %d", dec.Header().LineLength)
	}

	var names bytes.Buffer
	dec2, _ := NewDecoder(bytes.NewReader(out.Bytes()))
	if err := dec2.Decode(&names, DecodeOptions{Projection: ProjectionNames}); err != nil {
		t.Fatalf("decode names: %v", err)
	}
	if names.String() != "chr1 human\nchr2\n" {
		t.Errorf("names: got %q", names.String())
	}

	var lengths bytes.Buffer
	dec3, _ := NewDecoder(bytes.NewReader(out.Bytes()))
	if err := dec3.Decode(&lengths, DecodeOptions{Projection: ProjectionLengths}); err != nil {
		t.Fatalf("decode lengths: %v", err)
	}
	if lengths.String() != "5\n2\n" {
		t.Errorf("lengths: got %q", lengths.String())
	}

	var mask bytes.Buffer
	dec4, _ := NewDecoder(bytes.NewReader(out.Bytes()))
	if err := dec4.Decode(&mask, DecodeOptions{Projection: ProjectionMask}); err != nil {
		t.Fatalf("decode mask: %v", err)
	}
	if mask.String() != "2\n2\n3\n" {
		t.Errorf("mask runs: got %q, want %q (cross-record run of 3)", mask.String(), "2\n2\n3\n")
	}

	var fasta bytes.Buffer
	dec5, _ := NewDecoder(bytes.NewReader(out.Bytes()))
	if err := dec5.Decode(&fasta, DecodeOptions{Projection: ProjectionFASTA, UseMask: true}); err != nil {
		t.Fatalf("decode fasta: %v", err)
	}
	if fasta.String() != input {
		t.Errorf("round trip: got %q, want %q", fasta.String(), input)
	}
}

// S3 — a FASTQ input truncated right after the "+" separator line must
// fail encoding with Truncated, and no archive bytes should be considered
// valid (the destination buffer may hold a partial write, but Encode
// itself must report the failure).
func TestScenarioTruncatedFASTQ(t *testing.T) {
	input := "@r1\nACGT\n+\n"
	opt := NewOptions()
	opt.CompressionLevel = 1
	var out bytes.Buffer
	_, err := Encode(&out, strings.NewReader(input), opt, "")
	if err != ErrTruncated {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

// S4 — strict mode rejects an unknown base; lenient mode replaces it with
// N and records the occurrence in the warning stats.
func TestScenarioStrictModeRejectsUnknownBase(t *testing.T) {
	opt := NewOptions()
	opt.CompressionLevel = 1
	opt.Strict = true
	var out bytes.Buffer
	_, err := Encode(&out, strings.NewReader(">x\nACQT\n"), opt, "")
	uce, ok := err.(*UnexpectedCharError)
	if !ok {
		t.Fatalf("expected *UnexpectedCharError, got %T: %v", err, err)
	}
	if uce.Char != 'Q' {
		t.Errorf("expected offending char 'Q', got %q", uce.Char)
	}
}

func TestScenarioLenientModeReplacesUnknownBase(t *testing.T) {
	opt := NewOptions()
	opt.CompressionLevel = 1
	var out bytes.Buffer
	stats, err := Encode(&out, strings.NewReader(">x\nACQT\n"), opt, "")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if got := stats.UnexpectedSeq['Q']; got != 1 {
		t.Errorf("expected UnexpectedSeq['Q']=1, got %d", got)
	}

	var seq bytes.Buffer
	dec, _ := NewDecoder(bytes.NewReader(out.Bytes()))
	if err := dec.Decode(&seq, DecodeOptions{Projection: ProjectionSequence}); err != nil {
		t.Fatalf("decode sequence: %v", err)
	}
	if seq.String() != "ACNT" {
		t.Errorf("sequence: got %q, want %q", seq.String(), "ACNT")
	}
}

// S5 — a version-2 protein archive carries no mask sub-stream; decoding
// to FASTA without mask uppercases, and is an identity transform when the
// source was already uppercase.
func TestScenarioVersion2ProteinArchive(t *testing.T) {
	opt := NewOptions()
	opt.CompressionLevel = 1
	opt.SeqType = SeqTypeProtein
	input := ">p1\nMKVLA\n"
	var out bytes.Buffer
	if _, err := Encode(&out, strings.NewReader(input), opt, ""); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	dec, err := NewDecoder(bytes.NewReader(out.Bytes()))
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	h := dec.Header()
	if h.FormatVersion != FormatVersion2 {
		t.Errorf("expected format_version 2, got %d", h.FormatVersion)
	}
	if h.HasMask {
		t.Error("protein archive must not declare a mask sub-stream")
	}

	var fasta bytes.Buffer
	if err := dec.Decode(&fasta, DecodeOptions{Projection: ProjectionFASTA, UseMask: true}); err != nil {
		t.Fatalf("decode fasta: %v", err)
	}
	if fasta.String() != input {
		t.Errorf("got %q, want %q", fasta.String(), input)
	}
}

// S6 — FASTQ decode interleaving: two records of length 5 and 3 must
// reassemble with their own names, sequence, and quality, record by
// record, even though sequence and quality live in independent zstd
// frames.
func TestScenarioFASTQDecodeInterleaving(t *testing.T) {
	input := "@N1\nAAAAA\n+\n!!!!!\n@N2\nCCC\n+\n~~~\n"
	opt := NewOptions()
	opt.CompressionLevel = 1
	var out bytes.Buffer
	if _, err := Encode(&out, strings.NewReader(input), opt, ""); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	dec, err := NewDecoder(bytes.NewReader(out.Bytes()))
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	var fastq bytes.Buffer
	if err := dec.Decode(&fastq, DecodeOptions{Projection: ProjectionFASTQ, UseMask: true}); err != nil {
		t.Fatalf("decode fastq: %v", err)
	}
	want := "@N1\nAAAAA\n+\n!!!!!\n@N2\nCCC\n+\n~~~\n"
	if fastq.String() != want {
		t.Errorf("got %q, want %q", fastq.String(), want)
	}
}

// Property 3: the length table always sums to the total sequence size
// actually written, across DNA and protein inputs alike.
func TestPropertyLengthTableExactness(t *testing.T) {
	cases := []struct {
		input   string
		seqType SeqType
	}{
		{">a\nACGT\n>b\nAC\n>c\n\n", SeqTypeDNA},
		{">p\nMKVLA\nKK\n", SeqTypeProtein},
	}
	for _, tc := range cases {
		input := tc.input
		opt := NewOptions()
		opt.CompressionLevel = 1
		opt.SeqType = tc.seqType
		var out bytes.Buffer
		if _, err := Encode(&out, strings.NewReader(input), opt, ""); err != nil {
			t.Fatalf("input %q: Encode: %v", input, err)
		}
		dec, _ := NewDecoder(bytes.NewReader(out.Bytes()))
		var total bytes.Buffer
		if err := dec.Decode(&total, DecodeOptions{Projection: ProjectionTotalLength}); err != nil {
			t.Fatalf("decode total length: %v", err)
		}

		dec2, _ := NewDecoder(bytes.NewReader(out.Bytes()))
		var seq bytes.Buffer
		if err := dec2.Decode(&seq, DecodeOptions{Projection: ProjectionSequence}); err != nil {
			t.Fatalf("decode sequence: %v", err)
		}

		wantTotal := fmtUint(uint64(seq.Len())) + "\n"
		if total.String() != wantTotal {
			t.Errorf("input %q: total_length %q != sum of sequence bytes %q", input, total.String(), wantTotal)
		}
	}
}

func fmtUint(n uint64) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// Property 5: packing then unpacking a sequence recovers its uppercase
// form, including an odd total base count (exercising the zero-padded
// trailing nibble).
func TestPropertyPack4BitRoundTripOddLength(t *testing.T) {
	input := ">a\nACGTA\n" // 5 bases: odd
	opt := NewOptions()
	opt.CompressionLevel = 1
	var out bytes.Buffer
	if _, err := Encode(&out, strings.NewReader(input), opt, ""); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	dec, _ := NewDecoder(bytes.NewReader(out.Bytes()))
	var seq bytes.Buffer
	if err := dec.Decode(&seq, DecodeOptions{Projection: ProjectionSequence}); err != nil {
		t.Fatalf("decode sequence: %v", err)
	}
	if seq.String() != "ACGTA" {
		t.Errorf("got %q, want %q", seq.String(), "ACGTA")
	}
}
