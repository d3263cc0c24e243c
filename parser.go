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
	"bufio"
	"io"
)

// fieldBufferSize is the capacity of each accumulating field buffer before
// its writer callback drains it (§4.9's "≈1 MiB" Name/Comment/Sequence/
// Quality buffers).
const fieldBufferSize = 1 << 20

// fieldBuffer accumulates bytes for one field across record boundaries,
// invoking writer whenever it fills, matching the C encoder's str_append_*
// family: a field is only ever flushed because it is full, or because the
// whole parse is finished, never once per record.
type fieldBuffer struct {
	buf    []byte
	writer func([]byte)
}

func newFieldBuffer(writer func([]byte)) *fieldBuffer {
	return &fieldBuffer{buf: make([]byte, 0, fieldBufferSize), writer: writer}
}

func (b *fieldBuffer) appendByte(c byte) {
	b.buf = append(b.buf, c)
	if len(b.buf) >= fieldBufferSize {
		b.writer(b.buf)
		b.buf = b.buf[:0]
	}
}

func (b *fieldBuffer) append(p []byte) {
	for len(p) > 0 {
		space := fieldBufferSize - len(b.buf)
		if space <= 0 {
			b.writer(b.buf)
			b.buf = b.buf[:0]
			space = fieldBufferSize
		}
		n := space
		if n > len(p) {
			n = len(p)
		}
		b.buf = append(b.buf, p[:n]...)
		p = p[n:]
	}
}

func (b *fieldBuffer) flush() {
	if len(b.buf) > 0 {
		b.writer(b.buf)
		b.buf = b.buf[:0]
	}
}

// Stats accumulates per-byte-value counters of characters that fell outside
// the declared alphabet and were replaced rather than rejected (§7,
// UnexpectedCharacter counted unless Strict).
type Stats struct {
	UnexpectedID      map[byte]uint64
	UnexpectedComment map[byte]uint64
	UnexpectedSeq     map[byte]uint64
	UnexpectedQual    map[byte]uint64

	LongestLine  uint64
	NumSequences uint64
}

func newStats() *Stats {
	return &Stats{
		UnexpectedID:      make(map[byte]uint64),
		UnexpectedComment: make(map[byte]uint64),
		UnexpectedSeq:     make(map[byte]uint64),
		UnexpectedQual:    make(map[byte]uint64),
	}
}

// RecordWriters are the four per-field sinks the encoder pipeline (C10)
// wires to its compressors. Sequence receives the input's sequence bytes
// with their case unchanged (uppercasing, masking and 4-bit packing are the
// caller's job, since those vary by sequence type); in lenient mode an
// unexpected byte arrives already replaced. Name and Comment receive field
// bytes with each record's NUL terminator already appended by the parser.
// Quality is FASTQ-only and nil for FASTA input. Name, Comment, Sequence
// and Quality are called with buffered chunks that may span several
// records or part of one, whenever a field buffer fills and once more when
// Parse finishes.
type RecordWriters struct {
	Name     func([]byte)
	Comment  func([]byte)
	Sequence func([]byte)
	Quality  func([]byte)
	// Length is invoked once per record, as soon as the record is parsed,
	// with the sequence's total length. The record's sequence bytes may
	// still be sitting in the field buffer at that point.
	Length func(uint64)
}

// Parser drives a pull-style byte source through the FASTA/FASTQ state
// machine of §4.9, dispatching field bytes to a RecordWriters as it goes.
// It never materializes a whole record in memory: the four field buffers
// flush independently whenever they fill, which is what lets the encoder
// handle inputs far larger than physical memory.
type Parser struct {
	br  *bufio.Reader
	opt Options

	stats *Stats

	replacement byte
}

// NewParser wraps r with the options that govern character validation and
// strictness. r is not assumed to be a *bufio.Reader already; NewParser
// wraps it if needed.
func NewParser(r io.Reader, opt Options) *Parser {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReaderSize(r, 16<<10)
	}
	return &Parser{
		br:          br,
		opt:         opt,
		stats:       newStats(),
		replacement: unexpectedCharReplacement(opt.SeqType),
	}
}

// Stats returns the accumulated unexpected-character counters and derived
// line-length/record-count statistics. Valid only after Parse returns.
func (p *Parser) Stats() *Stats { return p.stats }

const ineof = -1

// peekNonSpace skips leading whitespace (space, tab, CR, LF) and returns the
// first non-space byte without consuming it, or ineof at end of input. It
// is used only by DetectFormat, which must not consume the byte it detects.
func (p *Parser) peekNonSpace() (int, error) {
	for {
		b, err := p.br.Peek(1)
		if err != nil {
			if err == io.EOF {
				return ineof, nil
			}
			return 0, err
		}
		c := b[0]
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' {
			p.br.Discard(1)
			continue
		}
		return int(c), nil
	}
}

// DetectFormat implements confirm_input_format (§4.9): it peeks past
// leading whitespace and classifies the input by its first non-space byte.
// It returns ErrUnknownFormat if that byte is neither '>' nor '@'. It does
// not reconcile the result against a caller-declared format; callers that
// set Options.InFormat do that themselves (a mismatch there is
// ErrFormatMismatch, fatal, unlike an extension mismatch, which is only
// ever a warning and is entirely the CLI layer's concern).
func (p *Parser) DetectFormat() (InFormat, error) {
	c, err := p.peekNonSpace()
	if err != nil {
		return FormatAuto, err
	}
	switch c {
	case ineof:
		return FormatAuto, nil
	case '>':
		return FormatFASTA, nil
	case '@':
		return FormatFASTQ, nil
	default:
		return FormatAuto, ErrUnknownFormat
	}
}

// Parse runs the whole input through the state machine matching format
// (resolved by the caller via DetectFormat beforehand; a FormatAuto here is
// a programming error) and Options.AssumeWellFormed,
// dispatching to rw as it goes. It returns nil once the input is
// exhausted, or the first fatal error (Truncated, UnknownFormat,
// QualityLengthMismatch, or *UnexpectedCharError in Strict mode).
func (p *Parser) Parse(format InFormat, rw RecordWriters) error {
	name := newFieldBuffer(rw.Name)
	comment := newFieldBuffer(rw.Comment)
	seq := newFieldBuffer(rw.Sequence)

	defer func() {
		name.flush()
		comment.flush()
		seq.flush()
	}()

	switch format {
	case FormatFASTA:
		if p.opt.AssumeWellFormed {
			return p.parseFASTAWellFormed(name, comment, seq, rw.Length)
		}
		return p.parseFASTALenient(name, comment, seq, rw.Length)
	case FormatFASTQ:
		qual := newFieldBuffer(rw.Quality)
		defer qual.flush()
		if p.opt.AssumeWellFormed {
			return p.parseFASTQWellFormed(name, comment, seq, qual, rw.Length)
		}
		return p.parseFASTQLenient(name, comment, seq, qual, rw.Length)
	default:
		panic("naf: Parse called with FormatAuto")
	}
}

// readByte reads one byte, returning ineof (not io.EOF) at end of input, so
// callers can use plain comparisons the way the original C state machine
// compares against INEOF.
func (p *Parser) readByte() (int, error) {
	c, err := p.br.ReadByte()
	if err != nil {
		if err == io.EOF {
			return ineof, nil
		}
		return 0, err
	}
	return int(c), nil
}

func isEOL(c int) bool { return c == '\n' || c == '\r' }

// ---- well-formed FASTA --------------------------------------------------

// parseFASTAWellFormed assumes every header line starts with '>', name ends
// at the first space or newline, and sequence lines are clean. It tracks
// the longest line for the default line_length.
func (p *Parser) parseFASTAWellFormed(name, comment, seq *fieldBuffer, setLength func(uint64)) error {
	c, err := p.readByte()
	if err != nil {
		return err
	}
	if c == ineof {
		return nil
	}
	if c != '>' {
		return ErrUnknownFormat
	}

	for {
		var recLen uint64

		// Name: until space or EOL.
		for {
			c, err = p.readByte()
			if err != nil {
				return err
			}
			if c == ineof || c == ' ' || isEOL(c) {
				break
			}
			name.appendByte(byte(c))
		}
		name.appendByte(0)

		if c == ' ' {
			for {
				c, err = p.readByte()
				if err != nil {
					return err
				}
				if c == ineof || isEOL(c) {
					break
				}
				comment.appendByte(byte(c))
			}
		}
		comment.appendByte(0)

		if c != ineof {
			// Consume the rest of the header line's EOL run.
			for isEOL(c) {
				c, err = p.readByte()
				if err != nil {
					return err
				}
				if c == ineof {
					break
				}
				if c != '\n' && c != '\r' {
					break
				}
			}

			if c == '>' {
				// Empty sequence; c is already the next record's marker.
			} else if c != ineof {
				var lineLen uint64
				for {
					if c == ineof {
						break
					}
					if isEOL(c) {
						if lineLen > p.stats.LongestLine {
							p.stats.LongestLine = lineLen
						}
						lineLen = 0
						for isEOL(c) {
							c, err = p.readByte()
							if err != nil {
								return err
							}
							if c == ineof {
								break
							}
						}
						if c == '>' || c == ineof {
							break
						}
						continue
					}
					seq.appendByte(byte(c))
					recLen++
					lineLen++
					c, err = p.readByte()
					if err != nil {
						return err
					}
				}
				if lineLen > p.stats.LongestLine {
					p.stats.LongestLine = lineLen
				}
			}
		}

		setLength(recLen)
		p.stats.NumSequences++

		if c == ineof {
			return nil
		}
		// c == '>': loop continues into the next record's name.
	}
}

// ---- lenient FASTA -------------------------------------------------------

// parseFASTALenient validates every sequence byte against the declared
// alphabet, replacing or failing (Strict) on anything unexpected, and
// tolerates embedded blank lines and missing trailing newlines.
func (p *Parser) parseFASTALenient(name, comment, seq *fieldBuffer, setLength func(uint64)) error {
	c, err := p.readByte()
	if err != nil {
		return err
	}
	if c == ineof {
		return nil
	}
	if c != '>' {
		return ErrUnknownFormat
	}

	for {
		var recLen uint64

		for {
			c, err = p.readByte()
			if err != nil {
				return err
			}
			if c == ineof || c == ' ' || c == '\t' || isEOL(c) {
				break
			}
			if isNameChar(c) {
				name.appendByte(byte(c))
			} else {
				if p.opt.Strict {
					return &UnexpectedCharError{Char: byte(c)}
				}
				p.stats.UnexpectedID[byte(c)]++
				name.appendByte(p.replacement)
			}
		}
		name.appendByte(0)

		if c != ineof && !isEOL(c) {
			for {
				c, err = p.readByte()
				if err != nil {
					return err
				}
				if c == ineof || isEOL(c) {
					break
				}
				if c >= 0x20 && c <= 0x7e {
					comment.appendByte(byte(c))
				} else {
					if p.opt.Strict {
						return &UnexpectedCharError{Char: byte(c)}
					}
					p.stats.UnexpectedComment[byte(c)]++
					comment.appendByte(p.replacement)
				}
			}
		}
		comment.appendByte(0)

		if c != ineof {
			for isEOL(c) {
				c, err = p.readByte()
				if err != nil {
					return err
				}
				if c == ineof {
					break
				}
			}

			if c == '>' {
				// Empty sequence.
			} else if c != ineof {
				var lineLen uint64
				for c != ineof && c != '>' {
					if isEOL(c) {
						if lineLen > p.stats.LongestLine {
							p.stats.LongestLine = lineLen
						}
						lineLen = 0
						for isEOL(c) {
							c, err = p.readByte()
							if err != nil {
								return err
							}
							if c == ineof {
								break
							}
						}
						continue
					}
					if c == ' ' || c == '\t' {
						c, err = p.readByte()
						if err != nil {
							return err
						}
						continue
					}
					if isExpected(p.opt.SeqType, byte(c)) {
						seq.appendByte(byte(c))
						recLen++
						lineLen++
					} else if c == '>' && p.opt.SeqType == SeqTypeText {
						seq.appendByte(byte(c))
						recLen++
						lineLen++
					} else {
						if p.opt.Strict {
							return &UnexpectedCharError{Char: byte(c)}
						}
						p.stats.UnexpectedSeq[byte(c)]++
						seq.appendByte(p.replacement)
						recLen++
						lineLen++
					}
					c, err = p.readByte()
					if err != nil {
						return err
					}
				}
				if lineLen > p.stats.LongestLine {
					p.stats.LongestLine = lineLen
				}
			}
		}

		setLength(recLen)
		p.stats.NumSequences++

		if c == ineof {
			return nil
		}
	}
}

// isNameChar rejects the bytes the C encoder treats as unexpected in an id:
// any whitespace or control byte ends the name (handled by the caller's
// delimiter check); everything else not printable ASCII is unexpected.
func isNameChar(c int) bool {
	return c > 0x20 && c < 0x7f
}

// ---- FASTQ ----------------------------------------------------------------

// parseFASTQWellFormed assumes the canonical four-line-per-record layout
// with no embedded blank lines and no unexpected bytes.
func (p *Parser) parseFASTQWellFormed(name, comment, seq, qual *fieldBuffer, setLength func(uint64)) error {
	c, err := p.readByte()
	if err != nil {
		return err
	}
	if c == ineof {
		return nil
	}
	if c != '@' {
		return ErrUnknownFormat
	}

	for {
		for {
			c, err = p.readByte()
			if err != nil {
				return err
			}
			if c == ineof || c == ' ' || isEOL(c) {
				break
			}
			name.appendByte(byte(c))
		}
		name.appendByte(0)

		if c == ' ' {
			for {
				c, err = p.readByte()
				if err != nil {
					return err
				}
				if c == ineof || isEOL(c) {
					break
				}
				comment.appendByte(byte(c))
			}
		}
		comment.appendByte(0)

		if c == ineof {
			return ErrTruncated
		}

		var recLen uint64
		for {
			c, err = p.readByte()
			if err != nil {
				return err
			}
			if c == ineof || isEOL(c) {
				break
			}
			seq.appendByte(byte(c))
			recLen++
		}
		if recLen > p.stats.LongestLine {
			p.stats.LongestLine = recLen
		}

		if c == ineof {
			return ErrTruncated
		}
		c, err = p.readByte()
		if err != nil {
			return err
		}
		if c != '+' {
			if c == ineof {
				return ErrTruncated
			}
			return ErrUnknownFormat
		}
		for {
			c, err = p.readByte()
			if err != nil {
				return err
			}
			if c == ineof || isEOL(c) {
				break
			}
		}
		if c == ineof {
			return ErrTruncated
		}

		var qualLen uint64
		for {
			c, err = p.readByte()
			if err != nil {
				return err
			}
			if c == ineof && qualLen == 0 {
				// Input ends right after the '+' line.
				return ErrTruncated
			}
			if c == ineof || isEOL(c) {
				break
			}
			qual.appendByte(byte(c))
			qualLen++
		}
		if qualLen != recLen {
			return ErrQualityLengthMismatch
		}

		setLength(recLen)
		p.stats.NumSequences++

		if c == ineof {
			return nil
		}
		c, err = p.readByte()
		if err != nil {
			return err
		}
		if c == ineof {
			return nil
		}
		if c != '@' {
			return ErrUnknownFormat
		}
	}
}

// parseFASTQLenient tolerates blank lines between records and validates
// every sequence/quality byte, replacing or failing (Strict) as directed.
func (p *Parser) parseFASTQLenient(name, comment, seq, qual *fieldBuffer, setLength func(uint64)) error {
	c, err := p.readByte()
	if err != nil {
		return err
	}
	if c == ineof {
		return nil
	}
	if c != '@' {
		return ErrUnknownFormat
	}

	for {
		for {
			c, err = p.readByte()
			if err != nil {
				return err
			}
			if c == ineof || c == ' ' || c == '\t' || isEOL(c) {
				break
			}
			if isNameChar(c) {
				name.appendByte(byte(c))
			} else {
				if p.opt.Strict {
					return &UnexpectedCharError{Char: byte(c)}
				}
				p.stats.UnexpectedID[byte(c)]++
				name.appendByte(p.replacement)
			}
		}
		name.appendByte(0)

		if c != ineof && !isEOL(c) {
			for {
				c, err = p.readByte()
				if err != nil {
					return err
				}
				if c == ineof || isEOL(c) {
					break
				}
				if c >= 0x20 && c <= 0x7e {
					comment.appendByte(byte(c))
				} else {
					if p.opt.Strict {
						return &UnexpectedCharError{Char: byte(c)}
					}
					p.stats.UnexpectedComment[byte(c)]++
					comment.appendByte(p.replacement)
				}
			}
		}
		comment.appendByte(0)

		if c == ineof {
			return ErrTruncated
		}

		var recLen uint64
		for {
			c, err = p.readByte()
			if err != nil {
				return err
			}
			if c == ineof || isEOL(c) {
				break
			}
			if c == ' ' || c == '\t' {
				continue
			}
			if isExpected(p.opt.SeqType, byte(c)) {
				seq.appendByte(byte(c))
				recLen++
			} else {
				if p.opt.Strict {
					return &UnexpectedCharError{Char: byte(c)}
				}
				p.stats.UnexpectedSeq[byte(c)]++
				seq.appendByte(p.replacement)
				recLen++
			}
		}
		if recLen > p.stats.LongestLine {
			p.stats.LongestLine = recLen
		}
		if c == ineof {
			return ErrTruncated
		}

		for isEOL(c) {
			c, err = p.readByte()
			if err != nil {
				return err
			}
			if c == ineof {
				return ErrTruncated
			}
		}
		if c != '+' {
			return ErrUnknownFormat
		}
		for {
			c, err = p.readByte()
			if err != nil {
				return err
			}
			if c == ineof || isEOL(c) {
				break
			}
		}
		if c == ineof {
			return ErrTruncated
		}
		for isEOL(c) {
			c, err = p.readByte()
			if err != nil {
				return err
			}
			if c == ineof {
				return ErrTruncated
			}
		}

		var qualLen uint64
		for {
			if isEOL(c) || c == ineof {
				break
			}
			if c == ' ' || c == '\t' {
				c, err = p.readByte()
				if err != nil {
					return err
				}
				continue
			}
			if c >= '!' && c <= '~' {
				qual.appendByte(byte(c))
				qualLen++
			} else {
				if p.opt.Strict {
					return &UnexpectedCharError{Char: byte(c)}
				}
				p.stats.UnexpectedQual[byte(c)]++
				qual.appendByte(p.replacement)
				qualLen++
			}
			c, err = p.readByte()
			if err != nil {
				return err
			}
		}
		if qualLen != recLen {
			return ErrQualityLengthMismatch
		}

		setLength(recLen)
		p.stats.NumSequences++

		for isEOL(c) {
			c, err = p.readByte()
			if err != nil {
				return err
			}
			if c == ineof {
				break
			}
		}
		if c == ineof {
			return nil
		}
		if c != '@' {
			return ErrUnknownFormat
		}
	}
}
