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

	"github.com/klauspost/compress/zstd"
)

// ContainerReader parses the header then lets a caller selectively skip or
// load each enabled sub-stream, in the fixed order of §3.1 (C8). Its
// bufio.Reader may read ahead of the record being consumed, but a skipped
// record's payload is only discarded, never decompressed or handed to the
// caller, which is what makes the flag-gated skipping property (§8,
// property 7) hold.
type ContainerReader struct {
	br     *bufio.Reader
	Header Header

	enabledOrder []substreamKind
	pos          int
}

// NewContainerReader parses the header from r and returns a ContainerReader
// positioned at the first enabled sub-stream.
func NewContainerReader(r io.Reader) (*ContainerReader, error) {
	cr := &ContainerReader{br: bufio.NewReaderSize(r, 16<<10)}
	if err := cr.readHeader(); err != nil {
		return nil, err
	}
	for _, k := range substreamOrder {
		if cr.Header.enabled(k) {
			cr.enabledOrder = append(cr.enabledOrder, k)
		}
	}
	return cr, nil
}

func (cr *ContainerReader) readHeader() error {
	var magic [3]byte
	if _, err := io.ReadFull(cr.br, magic[:]); err != nil {
		return err
	}
	if magic != Magic {
		return ErrInvalidMagic
	}

	version, err := cr.br.ReadByte()
	if err != nil {
		return err
	}
	if version != FormatVersion1 && version != FormatVersion2 {
		return ErrUnsupportedVersion
	}
	cr.Header.FormatVersion = version

	if version == FormatVersion2 {
		t, err := cr.br.ReadByte()
		if err != nil {
			return err
		}
		cr.Header.SeqType = SeqType(t)
	} else {
		cr.Header.SeqType = SeqTypeDNA
	}

	flags, err := cr.br.ReadByte()
	if err != nil {
		return err
	}
	cr.Header.setFlags(flags)

	sep, err := cr.br.ReadByte()
	if err != nil {
		return err
	}
	// §9: older v1 writers may not have meant this byte as a separator at
	// all, but a reader must still accept it as one; only reject values
	// truly outside printable ASCII.
	if sep < 0x20 || sep > 0x7e {
		return ErrInvalidSeparator
	}
	cr.Header.NameSeparator = sep

	lineLength, err := readVarint(cr.br)
	if err != nil {
		return err
	}
	cr.Header.LineLength = lineLength

	n, err := readVarint(cr.br)
	if err != nil {
		return err
	}
	cr.Header.NumSequences = n

	if cr.Header.HasTitle {
		titleLen, err := readVarint(cr.br)
		if err != nil {
			return err
		}
		title := make([]byte, titleLen)
		if _, err := io.ReadFull(cr.br, title); err != nil {
			return ErrTruncated
		}
		cr.Header.Title = title
	}

	return nil
}

// NextKind returns the next enabled sub-stream not yet consumed, without
// consuming any bytes.
func (cr *ContainerReader) NextKind() (substreamKind, bool) {
	if cr.pos >= len(cr.enabledOrder) {
		return 0, false
	}
	return cr.enabledOrder[cr.pos], true
}

// readRecordSizes reads a sub-stream record's two leading VarInts.
func (cr *ContainerReader) readRecordSizes() (uncompressed, compressed uint64, err error) {
	uncompressed, err = readVarint(cr.br)
	if err != nil {
		return 0, 0, err
	}
	compressed, err = readVarint(cr.br)
	if err != nil {
		return 0, 0, err
	}
	return uncompressed, compressed, nil
}

// Skip advances past the next enabled sub-stream's record without ever
// reading its compressed payload into a buffer the caller can observe
// (§4.8, §8 property 7). It is implemented as a forward discard-read
// rather than a seek even when the underlying source is a regular file:
// bufio.Reader's internal look-ahead makes a raw Seek on the underlying
// file unsafe to mix with buffered reads, so NAF always uses the "pipe"
// strategy from §4.8, which is correct (if not maximally fast) for both
// kinds of source.
func (cr *ContainerReader) Skip() error {
	_, _, err := cr.SkipWithSizes()
	return err
}

// SkipWithSizes behaves like Skip but also returns the record's declared
// sizes, for the sizes projection (§4.11) which reports them without
// holding the payload.
func (cr *ContainerReader) SkipWithSizes() (uncompressed, compressed uint64, err error) {
	if _, ok := cr.NextKind(); !ok {
		panic("naf: Skip called with no sub-stream remaining")
	}
	uncompressed, compressed, err = cr.readRecordSizes()
	if err != nil {
		return 0, 0, err
	}
	n, err := io.CopyN(io.Discard, cr.br, int64(compressed))
	if err != nil {
		return 0, 0, ErrTruncated
	}
	if uint64(n) != compressed {
		return 0, 0, ErrTruncated
	}
	cr.pos++
	return uncompressed, compressed, nil
}

// Load reads the next enabled sub-stream's record fully into memory and
// returns the decompressed bytes (memory mode, §4.6). The record's declared
// uncompressed size is passed to DecompressAll as its expected size.
func (cr *ContainerReader) Load() ([]byte, error) {
	if _, ok := cr.NextKind(); !ok {
		panic("naf: Load called with no sub-stream remaining")
	}
	uncompressed, compressed, err := cr.readRecordSizes()
	if err != nil {
		return nil, err
	}
	data, err := DecompressAll(cr.br, int64(compressed), int64(uncompressed))
	if err != nil {
		return nil, err
	}
	cr.pos++
	return data, nil
}

// OpenStream reads the next enabled sub-stream's record sizes and returns
// a zstd.Decoder that pulls its payload directly from the container in
// file mode (§4.6), without ever holding the whole sub-stream in memory.
// The caller must read the decoder to completion (or at least to EOF)
// before making any further ContainerReader calls, since both share the
// same underlying *bufio.Reader.
func (cr *ContainerReader) OpenStream() (*zstd.Decoder, uint64, error) {
	if _, ok := cr.NextKind(); !ok {
		panic("naf: OpenStream called with no sub-stream remaining")
	}
	uncompressed, compressed, err := cr.readRecordSizes()
	if err != nil {
		return nil, 0, err
	}
	dec, err := NewStreamDecompressor(cr.br, int64(compressed))
	if err != nil {
		return nil, 0, err
	}
	cr.pos++
	return dec, uncompressed, nil
}
