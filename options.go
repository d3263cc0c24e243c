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

// InFormat is the caller's declared input format, or Auto to have the
// parser detect it from the first non-space byte (§4.9).
type InFormat uint8

const (
	FormatAuto InFormat = iota
	FormatFASTA
	FormatFASTQ
)

func (f InFormat) String() string {
	switch f {
	case FormatFASTA:
		return "fasta"
	case FormatFASTQ:
		return "fastq"
	default:
		return "auto"
	}
}

// Options is the encoder's external contract (§6.2): everything a caller
// may configure about one encode run. The zero value is not valid (its
// CompressionLevel and NameSeparator are 0); start from NewOptions.
type Options struct {
	InFormat  InFormat
	SeqType   SeqType

	CompressionLevel int // zstd level, 1-22
	WindowLog        int // only honored at CompressionLevel 22

	LineLengthOverride uint64 // 0 means "use the longest observed line"
	Title              []byte
	DatasetName        string

	StoreMask         bool
	Strict            bool
	AssumeWellFormed  bool
	KeepTempFiles     bool
	TempDir           string

	NameSeparator byte
}

// NewOptions returns Options with the defaults unikmer-style commands fill
// in before applying flag overrides: DNA, auto-detected format, zstd level
// 19, mask storage on, lenient parsing, space as the name separator.
func NewOptions() Options {
	return Options{
		InFormat:         FormatAuto,
		SeqType:          SeqTypeDNA,
		CompressionLevel: 19,
		StoreMask:        true,
		NameSeparator:    DefaultNameSeparator,
		TempDir:          ".",
	}
}

// Validate rejects mutually exclusive or out-of-range combinations (§7,
// InvalidConfig): well-formed plus strict makes strict a no-op the caller
// probably didn't intend, a level outside zstd's range can't be honored,
// and no-mask only makes sense for sequence types that carry no mask to
// begin with is left to the caller (text/protein simply never produce
// mask runs, see isDNALike).
func (o Options) Validate() error {
	if o.AssumeWellFormed && o.Strict {
		return ErrInvalidConfig
	}
	if o.CompressionLevel < 1 || o.CompressionLevel > 22 {
		return ErrInvalidConfig
	}
	if o.NameSeparator < 0x20 || o.NameSeparator > 0x7e {
		return ErrInvalidSeparator
	}
	return nil
}

// DecodeOptions is the decoder's external contract (§6.3): the projection
// selector plus its two knobs.
type DecodeOptions struct {
	Projection         Projection
	LineLengthOverride uint64 // 0 means "use the archive's line_length"
	UseMask            bool
}

// Projection identifies one of the output kinds of §4.11, consolidated
// from the source enumeration's seventeen named kinds to fifteen: the
// four sequence-shaped kinds (seq/sequences/dna/masked-dna) differ only
// in the reader's UseMask and LineLengthOverride knobs, so they collapse
// into ProjectionSequence here.
type Projection uint8

const (
	ProjectionFormat Projection = iota
	ProjectionPartList
	ProjectionSizes
	ProjectionNumber
	ProjectionTitle
	ProjectionIDs
	ProjectionNames
	ProjectionLengths
	ProjectionTotalLength
	ProjectionMask
	ProjectionTotalMaskLength
	Projection4Bit
	ProjectionSequence
	ProjectionFASTA
	ProjectionFASTQ
)
