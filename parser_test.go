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

type parsedRecords struct {
	names     []string
	comments  []string
	sequences []string
	qualities []string
	lengths   []uint64
}

// collect splits the parser's buffered field output back into records. The
// field writers are called with chunks that may span several records, so
// names and comments are split on their NUL terminators, and sequence and
// quality bytes are split by the lengths reported through Length.
func collect(dest *parsedRecords) RecordWriters {
	var name, comment, seq, qual bytes.Buffer
	var seqLens, qualLens []uint64
	splitNUL := func(buf *bytes.Buffer, out *[]string) {
		for {
			i := bytes.IndexByte(buf.Bytes(), 0)
			if i < 0 {
				return
			}
			*out = append(*out, string(buf.Next(i + 1)[:i]))
		}
	}
	splitLens := func(buf *bytes.Buffer, lens *[]uint64, out *[]string) {
		for len(*lens) > 0 && uint64(buf.Len()) >= (*lens)[0] {
			*out = append(*out, string(buf.Next(int((*lens)[0]))))
			*lens = (*lens)[1:]
		}
	}
	return RecordWriters{
		Name: func(b []byte) {
			name.Write(b)
			splitNUL(&name, &dest.names)
		},
		Comment: func(b []byte) {
			comment.Write(b)
			splitNUL(&comment, &dest.comments)
		},
		Sequence: func(b []byte) {
			seq.Write(b)
			splitLens(&seq, &seqLens, &dest.sequences)
		},
		Quality: func(b []byte) {
			qual.Write(b)
			splitLens(&qual, &qualLens, &dest.qualities)
		},
		Length: func(n uint64) {
			dest.lengths = append(dest.lengths, n)
			seqLens = append(seqLens, n)
			qualLens = append(qualLens, n)
			splitLens(&seq, &seqLens, &dest.sequences)
		},
	}
}

func TestDetectFormat(t *testing.T) {
	cases := []struct {
		in   string
		want InFormat
	}{
		{">seq1\nACGT\n", FormatFASTA},
		{"@seq1\nACGT\n+\nIIII\n", FormatFASTQ},
		{"", FormatAuto},
		{"   \n\t \n", FormatAuto},
	}
	for _, c := range cases {
		p := NewParser(strings.NewReader(c.in), NewOptions())
		got, err := p.DetectFormat()
		if err != nil {
			t.Fatalf("input %q: unexpected error %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("input %q: got %v, want %v", c.in, got, c.want)
		}
	}
}

func TestDetectFormatUnknown(t *testing.T) {
	p := NewParser(strings.NewReader("not a record\n"), NewOptions())
	if _, err := p.DetectFormat(); err != ErrUnknownFormat {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestParseFASTAWellFormed(t *testing.T) {
	input := ">seq1 first comment\nACGTACGT\nACGT\n>seq2\n\n>seq3\nTTTT\n"
	opt := NewOptions()
	opt.AssumeWellFormed = true
	p := NewParser(strings.NewReader(input), opt)

	var dest parsedRecords
	if err := p.Parse(FormatFASTA, collect(&dest)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got, want := dest.names, []string{"seq1", "seq2", "seq3"}; !equalStrings(got, want) {
		t.Errorf("names: got %v, want %v", got, want)
	}
	if got, want := dest.comments[0], "first comment"; got != want {
		t.Errorf("comment: got %q, want %q", got, want)
	}
	if got, want := dest.sequences, []string{"ACGTACGTACGT", "", "TTTT"}; !equalStrings(got, want) {
		t.Errorf("sequences: got %v, want %v", got, want)
	}
	if got, want := dest.lengths, []uint64{12, 0, 4}; !equalUint64s(got, want) {
		t.Errorf("lengths: got %v, want %v", got, want)
	}
	if p.Stats().NumSequences != 3 {
		t.Errorf("NumSequences: got %d", p.Stats().NumSequences)
	}
	if p.Stats().LongestLine != 8 {
		t.Errorf("LongestLine: got %d", p.Stats().LongestLine)
	}
}

func TestParseFASTALenientReplacesUnexpectedBases(t *testing.T) {
	input := ">seq1\nACGTNRWacgtQ\n"
	opt := NewOptions()
	p := NewParser(strings.NewReader(input), opt)

	var dest parsedRecords
	if err := p.Parse(FormatFASTA, collect(&dest)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dest.sequences) != 1 {
		t.Fatalf("expected 1 sequence, got %d", len(dest.sequences))
	}
	if got, want := dest.sequences[0], "ACGTNRWacgtN"; got != want {
		t.Errorf("sequence: got %q, want %q", got, want)
	}
	if p.Stats().UnexpectedSeq == nil {
		t.Fatalf("expected UnexpectedSeq stats map to be initialized")
	}
}

func TestParseFASTALenientStrictRejectsUnexpectedBase(t *testing.T) {
	input := ">seq1\nACGT1ACGT\n"
	opt := NewOptions()
	opt.Strict = true
	p := NewParser(strings.NewReader(input), opt)

	var dest parsedRecords
	err := p.Parse(FormatFASTA, collect(&dest))
	if err == nil {
		t.Fatal("expected an error in strict mode for unexpected base")
	}
	if _, ok := err.(*UnexpectedCharError); !ok {
		t.Errorf("expected *UnexpectedCharError, got %T: %v", err, err)
	}
}

func TestParseFASTQWellFormed(t *testing.T) {
	input := "@seq1 desc\nACGT\n+\nIIII\n@seq2\nTTTT\n+\nJJJJ\n"
	opt := NewOptions()
	opt.AssumeWellFormed = true
	p := NewParser(strings.NewReader(input), opt)

	var dest parsedRecords
	if err := p.Parse(FormatFASTQ, collect(&dest)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := dest.names, []string{"seq1", "seq2"}; !equalStrings(got, want) {
		t.Errorf("names: got %v, want %v", got, want)
	}
	if got, want := dest.sequences, []string{"ACGT", "TTTT"}; !equalStrings(got, want) {
		t.Errorf("sequences: got %v, want %v", got, want)
	}
	if got, want := dest.qualities, []string{"IIII", "JJJJ"}; !equalStrings(got, want) {
		t.Errorf("qualities: got %v, want %v", got, want)
	}
	if p.Stats().NumSequences != 2 {
		t.Errorf("NumSequences: got %d", p.Stats().NumSequences)
	}
}

func TestParseFASTQQualityLengthMismatch(t *testing.T) {
	input := "@seq1\nACGT\n+\nIII\n"
	opt := NewOptions()
	opt.AssumeWellFormed = true
	p := NewParser(strings.NewReader(input), opt)

	var dest parsedRecords
	if err := p.Parse(FormatFASTQ, collect(&dest)); err != ErrQualityLengthMismatch {
		t.Errorf("expected ErrQualityLengthMismatch, got %v", err)
	}
}

func TestParseFASTQTruncatedAfterSequence(t *testing.T) {
	input := "@seq1\nACGT\n"
	opt := NewOptions()
	opt.AssumeWellFormed = true
	p := NewParser(strings.NewReader(input), opt)

	var dest parsedRecords
	if err := p.Parse(FormatFASTQ, collect(&dest)); err != ErrTruncated {
		t.Errorf("expected ErrTruncated, got %v", err)
	}
}

func TestParseFASTQTruncatedAfterPlusLine(t *testing.T) {
	input := "@seq1\nACGT\n+\n"
	opt := NewOptions()
	opt.AssumeWellFormed = true
	p := NewParser(strings.NewReader(input), opt)

	var dest parsedRecords
	if err := p.Parse(FormatFASTQ, collect(&dest)); err != ErrTruncated {
		t.Errorf("expected ErrTruncated, got %v", err)
	}
}

func TestParseFASTQLenientCountsUnexpectedQualityChar(t *testing.T) {
	input := "@seq1\nACGT\n+\nII\x01I\n"
	opt := NewOptions()
	p := NewParser(strings.NewReader(input), opt)

	var dest parsedRecords
	if err := p.Parse(FormatFASTQ, collect(&dest)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Stats().UnexpectedQual == nil || len(p.Stats().UnexpectedQual) == 0 {
		t.Errorf("expected at least one unexpected quality char recorded")
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalUint64s(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
