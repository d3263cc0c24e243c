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

// SeqType identifies the declared alphabet of an archive's sequences.
type SeqType uint8

// Sequence types, matching the header's sequence_type byte (v2, §3.1).
const (
	SeqTypeDNA SeqType = iota
	SeqTypeRNA
	SeqTypeProtein
	SeqTypeText
)

func (t SeqType) String() string {
	switch t {
	case SeqTypeDNA:
		return "dna"
	case SeqTypeRNA:
		return "rna"
	case SeqTypeProtein:
		return "protein"
	case SeqTypeText:
		return "text"
	default:
		return "unknown"
	}
}

// isDNALike reports whether a sequence type stores 4-bit-packed nucleotide
// codes and supports soft-masking.
func (t SeqType) isDNALike() bool {
	return t == SeqTypeDNA || t == SeqTypeRNA
}

// unexpectedCharReplacement maps each sequence type to the byte substituted
// for an out-of-alphabet character when Strict is not set.
func unexpectedCharReplacement(t SeqType) byte {
	switch t {
	case SeqTypeDNA, SeqTypeRNA:
		return 'N'
	case SeqTypeProtein:
		return 'X'
	default:
		return '?'
	}
}

// nucleotideCode is the fixed 4-bit code map of §4.2, indexed by uppercased
// IUPAC letter.
var nucleotideCode = map[byte]byte{
	'-': 0,
	'T': 1, 'U': 1,
	'G': 2,
	'K': 3,
	'C': 4,
	'Y': 5,
	'S': 6,
	'B': 7,
	'A': 8,
	'W': 9,
	'R': 10,
	'D': 11,
	'M': 12,
	'H': 13,
	'V': 14,
	'N': 15,
}

// nucleotideFromCode is the inverse of nucleotideCode, indexed by the 4-bit
// value (only entries 0-15 are meaningful).
var nucleotideFromCode = [16]byte{
	'-', 'T', 'G', 'K', 'C', 'Y', 'S', 'B', 'A', 'W', 'R', 'D', 'M', 'H', 'V', 'N',
}

// packedPairLUT expands one packed byte (two 4-bit codes, low nibble first)
// into the two ASCII characters it represents, in one table lookup, built
// from nucleotideFromCode at init time rather than hand-transcribed.
var packedPairLUT [256][2]byte

func init() {
	for b := 0; b < 256; b++ {
		lo := byte(b) & 0x0f
		hi := byte(b) >> 4
		packedPairLUT[b] = [2]byte{nucleotideFromCode[lo], nucleotideFromCode[hi]}
	}
}

// codeForBase folds case and looks up the 4-bit nucleotide code for c. ok is
// false if c (after folding) is not in the fixed map above.
func codeForBase(c byte) (code byte, ok bool) {
	if c >= 'a' && c <= 'z' {
		c -= 32
	}
	code, ok = nucleotideCode[c]
	return
}

// dnaAlphabet is the set of bytes accepted by DNA/RNA input, both cases,
// plus '-'. U and T are both accepted regardless of declared type (RNA is
// treated as DNA-like throughout).
var dnaAlphabet = buildAlphabet("ACGTURYSWKMBDHVN-acgturyswkmbdhvn")

// proteinAlphabet is the set of bytes accepted by protein input: the 20
// canonical amino acids plus X, * and -, both cases.
var proteinAlphabet = buildAlphabet(
	"ACDEFGHIKLMNPQRSTVWYX*-acdefghiklmnpqrstvwyx")

func buildAlphabet(chars string) [256]bool {
	var set [256]bool
	for i := 0; i < len(chars); i++ {
		set[chars[i]] = true
	}
	return set
}

// isExpected reports whether c is in the acceptance set for seqType. For
// FASTA text-mode input '>' is never accepted (it marks a record
// boundary); parseFASTALenient, not this function, enforces that since this
// function has no notion of "mid-line".
func isExpected(seqType SeqType, c byte) bool {
	switch seqType {
	case SeqTypeDNA, SeqTypeRNA:
		return dnaAlphabet[c]
	case SeqTypeProtein:
		return proteinAlphabet[c]
	default: // SeqTypeText
		return c >= 0x20 && c <= 0x7e
	}
}

func isLowercase(c byte) bool {
	return c >= 'a' && c <= 'z'
}

func toUpper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 32
	}
	return c
}
