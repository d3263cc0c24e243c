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

import "errors"

// Sentinel errors for the NAF codec. Every error kind except
// UnexpectedCharacter (which is merely counted unless Strict is set) has a
// sentinel here; UnexpectedCharacter itself is carried as *UnexpectedCharError
// so the offending byte can be reported.

// ErrCorruptVarInt means a VarInt overflowed 64 bits or began with an orphan
// continuation byte (a first byte of 0x80, which carries no value bits).
var ErrCorruptVarInt = errors.New("naf: corrupt varint")

// ErrTruncated means the input or a sub-stream ended before the declared
// number of bytes was read.
var ErrTruncated = errors.New("naf: truncated stream")

// ErrCorruptMask means a mask-run sub-stream did not expand to the declared
// sequence length.
var ErrCorruptMask = errors.New("naf: corrupt mask sub-stream")

// ErrCorruptLengths means the length-table sub-stream did not contain one
// terminating (non-continuation) entry per sequence.
var ErrCorruptLengths = errors.New("naf: corrupt length table")

// ErrCorruptIDs means the ids sub-stream was missing a NUL terminator for
// some record.
var ErrCorruptIDs = errors.New("naf: corrupt ids sub-stream")

// ErrCorruptNames means the comments sub-stream was missing a NUL
// terminator for some record.
var ErrCorruptNames = errors.New("naf: corrupt comments sub-stream")

// ErrUnknownFormat means the first non-space byte of the input was neither
// '>' nor '@', or a record marker was not found at the start of a line.
var ErrUnknownFormat = errors.New("naf: unrecognized input format")

// ErrFormatMismatch means a caller-declared format disagreed with the
// format actually detected in the input.
var ErrFormatMismatch = errors.New("naf: declared format does not match input")

// ErrQualityLengthMismatch means a FASTQ record's quality string length
// differed from its sequence length.
var ErrQualityLengthMismatch = errors.New("naf: quality length does not match sequence length")

// ErrCompressionFailure wraps a failure of the zstd encoder.
var ErrCompressionFailure = errors.New("naf: compression failure")

// ErrDecompressionFailure wraps a failure of the zstd decoder.
var ErrDecompressionFailure = errors.New("naf: decompression failure")

// ErrOversizedWindow means a compressed sub-stream declares a zstd window
// larger than the decoder is configured to tolerate.
var ErrOversizedWindow = errors.New("naf: zstd window exceeds configured maximum")

// ErrUnsupportedVersion means the header's format_version byte was outside
// {1, 2}.
var ErrUnsupportedVersion = errors.New("naf: unsupported archive version")

// ErrInvalidSeparator means the header's name_separator byte was outside
// printable ASCII (0x20-0x7E).
var ErrInvalidSeparator = errors.New("naf: invalid name separator byte")

// ErrInvalidConfig means two or more options were given that are mutually
// exclusive, or a required option was missing for the chosen mode.
var ErrInvalidConfig = errors.New("naf: invalid configuration")

// ErrInvalidMagic means the header's 3-byte magic did not match 01 F9 EC.
var ErrInvalidMagic = errors.New("naf: not a NAF archive (bad magic)")

// UnexpectedCharError is raised only when Strict is set; otherwise the
// byte is replaced by the sequence type's default and counted in
// the Stats.UnexpectedSeq/UnexpectedID/UnexpectedComment/UnexpectedQual
// counters.
type UnexpectedCharError struct {
	Char byte
}

func (e *UnexpectedCharError) Error() string {
	return "naf: unexpected character '" + string(rune(e.Char)) + "'"
}
