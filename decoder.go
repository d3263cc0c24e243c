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
	"bytes"
	"fmt"
	"io"

	humanize "github.com/dustin/go-humanize"
)

// Decoder renders one of the output projections (C11) from a NAF
// archive by composing the container reader (C8), the sub-stream
// decompressor (C6), the mask-run and length-table codecs (C3, C4), and
// the alphabet tables (C2). Each projection reads only the sub-streams it
// needs; everything else is skipped unread (§8, property 7).
type Decoder struct {
	cr *ContainerReader
}

// NewDecoder parses r's header and returns a Decoder ready to render any
// projection exactly once (a Decoder is single-use, like ContainerReader).
func NewDecoder(r io.Reader) (*Decoder, error) {
	cr, err := NewContainerReader(r)
	if err != nil {
		return nil, err
	}
	return &Decoder{cr: cr}, nil
}

// Header exposes the parsed archive header.
func (d *Decoder) Header() Header { return d.cr.Header }

func (d *Decoder) skip(kind substreamKind) error {
	k, ok := d.cr.NextKind()
	if !ok || k != kind {
		return nil
	}
	return d.cr.Skip()
}

func (d *Decoder) load(kind substreamKind) ([]byte, error) {
	k, ok := d.cr.NextKind()
	if !ok || k != kind {
		return nil, nil
	}
	return d.cr.Load()
}

// splitNULTerminated expects n consecutive NUL-terminated records in buf
// (§3.2: ids and comments sub-streams are both exactly n such records).
func splitNULTerminated(buf []byte, n uint64, corrupt error) ([][]byte, error) {
	records := make([][]byte, 0, n)
	start := 0
	for i := 0; i < len(buf) && uint64(len(records)) < n; i++ {
		if buf[i] == 0 {
			records = append(records, buf[start:i])
			start = i + 1
		}
	}
	if uint64(len(records)) != n {
		return nil, corrupt
	}
	return records, nil
}

// loadMaskRuns loads and decodes the mask sub-stream, or returns nil if the
// archive has none.
func (d *Decoder) loadMaskRuns() ([]maskRun, error) {
	buf, err := d.load(substreamMask)
	if err != nil {
		return nil, err
	}
	if buf == nil {
		return nil, nil
	}
	return decodeMaskRuns(buf)
}

// loadLengths loads and fully expands the length table into one entry per
// sequence.
func (d *Decoder) loadLengths() ([]uint64, error) {
	buf, err := d.load(substreamLengths)
	if err != nil {
		return nil, err
	}
	lengths := make([]uint64, 0, d.cr.Header.NumSequences)
	lr := newLengthTableReader(bytes.NewReader(buf))
	for {
		n, err := lr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		lengths = append(lengths, n)
	}
	return lengths, nil
}

// Decode renders the projection selected by opt to w.
func (d *Decoder) Decode(w io.Writer, opt DecodeOptions) error {
	switch opt.Projection {
	case ProjectionFormat:
		return d.decodeFormat(w)
	case ProjectionPartList:
		return d.decodePartList(w)
	case ProjectionSizes:
		return d.decodeSizes(w)
	case ProjectionNumber:
		return d.decodeNumber(w)
	case ProjectionTitle:
		return d.decodeTitle(w)
	case ProjectionIDs:
		return d.decodeIDs(w)
	case ProjectionNames:
		return d.decodeNames(w)
	case ProjectionLengths:
		return d.decodeLengths(w)
	case ProjectionTotalLength:
		return d.decodeTotalLength(w)
	case ProjectionMask:
		return d.decodeMask(w)
	case ProjectionTotalMaskLength:
		return d.decodeTotalMaskLength(w)
	case Projection4Bit:
		return d.decode4Bit(w)
	case ProjectionSequence:
		return d.decodeSequence(w, opt)
	case ProjectionFASTA:
		return d.decodeFASTA(w, opt)
	case ProjectionFASTQ:
		return d.decodeFASTQ(w, opt)
	default:
		return ErrInvalidConfig
	}
}

func (d *Decoder) decodeFormat(w io.Writer) error {
	name := "fasta"
	if d.cr.Header.HasQuality {
		name = "fastq"
	}
	_, err := fmt.Fprintln(w, name)
	return err
}

func (d *Decoder) decodePartList(w io.Writer) error {
	h := d.cr.Header
	var parts []string
	if h.HasTitle {
		parts = append(parts, "Title")
	}
	if h.HasIDs {
		parts = append(parts, "IDs")
	}
	if h.HasComments {
		parts = append(parts, "Comments")
	}
	if h.HasLengths {
		parts = append(parts, "Lengths")
	}
	if h.HasMask {
		parts = append(parts, "Mask")
	}
	if h.HasSequence {
		parts = append(parts, "Data")
	}
	if h.HasQuality {
		parts = append(parts, "Quality")
	}
	for i, p := range parts {
		if i > 0 {
			if _, err := io.WriteString(w, ", "); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, p); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// decodeSizes mirrors print_part_sizes: read and skip every enabled
// sub-stream, reporting each one's compressed and uncompressed size.
func (d *Decoder) decodeSizes(w io.Writer) error {
	h := d.cr.Header
	if h.HasTitle {
		if _, err := fmt.Fprintf(w, "Title: %d\n", len(h.Title)); err != nil {
			return err
		}
	}
	labels := []struct {
		kind  substreamKind
		label string
	}{
		{substreamIDs, "IDs"},
		{substreamComments, "Comments"},
		{substreamLengths, "Lengths"},
		{substreamMask, "Mask"},
		{substreamSequence, "Data"},
		{substreamQuality, "Quality"},
	}
	for _, l := range labels {
		k, ok := d.cr.NextKind()
		if !ok || k != l.kind {
			continue
		}
		uncompressed, compressed, err := d.cr.SkipWithSizes()
		if err != nil {
			return err
		}
		pct := 0.0
		if uncompressed > 0 {
			pct = float64(compressed) / float64(uncompressed) * 100
		}
		if _, err := fmt.Fprintf(w, "%s: %s / %s (%.3f%%)\n", l.label,
			humanize.IBytes(compressed), humanize.IBytes(uncompressed), pct); err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder) decodeNumber(w io.Writer) error {
	_, err := fmt.Fprintln(w, d.cr.Header.NumSequences)
	return err
}

func (d *Decoder) decodeTitle(w io.Writer) error {
	if d.cr.Header.HasTitle {
		if _, err := w.Write(d.cr.Header.Title); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func (d *Decoder) decodeIDs(w io.Writer) error {
	buf, err := d.load(substreamIDs)
	if err != nil {
		return err
	}
	if buf == nil {
		return nil
	}
	ids, err := splitNULTerminated(buf, d.cr.Header.NumSequences, ErrCorruptIDs)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if _, err := w.Write(id); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder) decodeNames(w io.Writer) error {
	h := d.cr.Header
	var ids, comments [][]byte
	var err error
	if h.HasIDs {
		buf, err2 := d.load(substreamIDs)
		if err2 != nil {
			return err2
		}
		if ids, err = splitNULTerminated(buf, h.NumSequences, ErrCorruptIDs); err != nil {
			return err
		}
	} else if err := d.skip(substreamIDs); err != nil {
		return err
	}
	if h.HasComments {
		buf, err2 := d.load(substreamComments)
		if err2 != nil {
			return err2
		}
		if comments, err = splitNULTerminated(buf, h.NumSequences, ErrCorruptNames); err != nil {
			return err
		}
	}
	for i := uint64(0); i < h.NumSequences; i++ {
		switch {
		case h.HasIDs && !h.HasComments:
			w.Write(ids[i])
		case !h.HasIDs && h.HasComments:
			w.Write(comments[i])
		case h.HasIDs && h.HasComments:
			w.Write(ids[i])
			if len(comments[i]) > 0 {
				w.Write([]byte{d.cr.Header.NameSeparator})
				w.Write(comments[i])
			}
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder) decodeLengths(w io.Writer) error {
	if err := d.skip(substreamIDs); err != nil {
		return err
	}
	if err := d.skip(substreamComments); err != nil {
		return err
	}
	lengths, err := d.loadLengths()
	if err != nil {
		return err
	}
	for _, n := range lengths {
		if _, err := fmt.Fprintln(w, n); err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder) decodeTotalLength(w io.Writer) error {
	if !d.cr.Header.HasSequence {
		_, err := fmt.Fprintln(w, 0)
		return err
	}
	if err := d.skip(substreamIDs); err != nil {
		return err
	}
	if err := d.skip(substreamComments); err != nil {
		return err
	}
	if d.cr.Header.SeqType.isDNALike() {
		// The sequence sub-stream's declared size counts 4-bit-packed
		// bytes, not bases, so DNA/RNA totals come from the length table.
		lengths, err := d.loadLengths()
		if err != nil {
			return err
		}
		var total uint64
		for _, n := range lengths {
			total += n
		}
		_, err = fmt.Fprintln(w, total)
		return err
	}
	if err := d.skip(substreamLengths); err != nil {
		return err
	}
	if err := d.skip(substreamMask); err != nil {
		return err
	}
	k, ok := d.cr.NextKind()
	if !ok || k != substreamSequence {
		_, err := fmt.Fprintln(w, 0)
		return err
	}
	total, _, err := d.cr.readRecordSizes()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, total)
	return err
}

func (d *Decoder) decodeMask(w io.Writer) error {
	if err := d.skip(substreamIDs); err != nil {
		return err
	}
	if err := d.skip(substreamComments); err != nil {
		return err
	}
	if err := d.skip(substreamLengths); err != nil {
		return err
	}
	runs, err := d.loadMaskRuns()
	if err != nil {
		return err
	}
	for _, r := range runs {
		if _, err := fmt.Fprintln(w, r.Length); err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder) decodeTotalMaskLength(w io.Writer) error {
	if !d.cr.Header.HasMask {
		_, err := fmt.Fprintln(w, 0)
		return err
	}
	if err := d.skip(substreamIDs); err != nil {
		return err
	}
	if err := d.skip(substreamComments); err != nil {
		return err
	}
	if err := d.skip(substreamLengths); err != nil {
		return err
	}
	runs, err := d.loadMaskRuns()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, totalMaskLength(runs))
	return err
}

func (d *Decoder) decode4Bit(w io.Writer) error {
	if err := d.skip(substreamIDs); err != nil {
		return err
	}
	if err := d.skip(substreamComments); err != nil {
		return err
	}
	if err := d.skip(substreamLengths); err != nil {
		return err
	}
	if err := d.skip(substreamMask); err != nil {
		return err
	}
	k, ok := d.cr.NextKind()
	if !ok || k != substreamSequence {
		return nil
	}
	dec, uncompressed, err := d.cr.OpenStream()
	if err != nil {
		return err
	}
	defer dec.Close()
	_, err = io.CopyN(w, dec, int64(uncompressed))
	if err == io.EOF {
		return ErrTruncated
	}
	return err
}

// unpacker turns a stream of 4-bit-packed nucleotide bytes into ASCII base
// characters, stopping at exactly total bases (dropping the zero-padded
// high nibble of a final odd byte automatically, by never reading past
// total), matching write_4bit_as_dna/write_4bit_as_fasta.
type unpacker struct {
	src      io.Reader
	dnaLike  bool
	total    uint64
	produced uint64
	raw      [4096]byte
	pending  []byte
}

func newUnpacker(src io.Reader, dnaLike bool, total uint64) *unpacker {
	return &unpacker{src: src, dnaLike: dnaLike, total: total}
}

func (u *unpacker) Read(p []byte) ([]byte, error) {
	for len(u.pending) == 0 {
		if u.produced >= u.total {
			return nil, io.EOF
		}
		n, err := u.src.Read(u.raw[:])
		if n > 0 {
			if u.dnaLike {
				out := make([]byte, 0, n*2)
				for _, b := range u.raw[:n] {
					pair := packedPairLUT[b]
					out = append(out, pair[0], pair[1])
				}
				u.pending = out
			} else {
				u.pending = append([]byte(nil), u.raw[:n]...)
			}
		}
		if n == 0 {
			if err == nil {
				continue
			}
			if err == io.EOF {
				return nil, ErrTruncated
			}
			return nil, err
		}
	}
	remaining := u.total - u.produced
	if uint64(len(u.pending)) > remaining {
		u.pending = u.pending[:remaining]
	}
	n := copy(p, u.pending)
	u.pending = u.pending[n:]
	u.produced += uint64(n)
	return p[:n], nil
}

// maskingReader lowercases bytes covered by masked runs as they pass
// through, consuming one run's worth of position at a time, matching
// mask_dna_buffer.
type maskingReader struct {
	src       io.Reader
	runs      []maskRun
	idx       int
	remaining uint64
	masked    bool
}

func newMaskingReader(src io.Reader, runs []maskRun) *maskingReader {
	return &maskingReader{src: src, runs: runs}
}

func (m *maskingReader) Read(p []byte) (int, error) {
	n, err := m.src.Read(p)
	pos := 0
	for pos < n {
		for m.remaining == 0 {
			if m.idx >= len(m.runs) {
				return n, err
			}
			m.masked = m.runs[m.idx].Masked
			m.remaining = m.runs[m.idx].Length
			m.idx++
		}
		adv := n - pos
		if uint64(adv) > m.remaining {
			adv = int(m.remaining)
		}
		if m.masked {
			for i := pos; i < pos+adv; i++ {
				if p[i] >= 'A' && p[i] <= 'Z' {
					p[i] += 32
				}
			}
		}
		m.remaining -= uint64(adv)
		pos += adv
	}
	return n, err
}

// seqReaderFor opens the sequence sub-stream (must be next) and wraps it
// with unpacking and, if requested and available, masking, returning a
// plain io.Reader of ASCII sequence bytes honoring opt.UseMask. totalBases
// is the true base count (sum of the length table) — required for
// DNA/RNA, whose sub-stream's declared uncompressed size is the
// 4-bit-packed byte count, roughly half that many bytes, not the base
// count the unpacker must stop at. For non-DNA-like sequence types the
// sub-stream holds one byte per base already, so the declared size is
// used directly and totalBases is ignored.
func (d *Decoder) seqReaderFor(opt DecodeOptions, runs []maskRun, totalBases uint64) (io.Reader, uint64, error) {
	k, ok := d.cr.NextKind()
	if !ok || k != substreamSequence {
		return bytes.NewReader(nil), 0, nil
	}
	dec, uncompressed, err := d.cr.OpenStream()
	if err != nil {
		return nil, 0, err
	}
	seqType := d.cr.Header.SeqType
	total := uncompressed
	if seqType.isDNALike() {
		total = totalBases
	}
	var r io.Reader = newReadFunc(newUnpacker(dec, seqType.isDNALike(), total))
	if !seqType.isDNALike() && !opt.UseMask {
		r = &uppercasingReader{src: r}
	}
	if seqType.isDNALike() && opt.UseMask && len(runs) > 0 {
		r = newMaskingReader(r, runs)
	}
	return r, total, nil
}

// readFunc adapts an unpacker (whose Read returns a slice of its own
// pending output instead of filling p) to io.Reader by copying into p.
type readFunc struct {
	u *unpacker
}

func newReadFunc(u *unpacker) *readFunc { return &readFunc{u: u} }

func (f *readFunc) Read(p []byte) (int, error) {
	out, err := f.u.Read(p)
	if len(out) > 0 {
		n := copy(p, out)
		return n, nil
	}
	return 0, err
}

type uppercasingReader struct {
	src io.Reader
}

func (u *uppercasingReader) Read(p []byte) (int, error) {
	n, err := u.src.Read(p)
	for i := 0; i < n; i++ {
		p[i] = toUpper(p[i])
	}
	return n, err
}

// decodeSequence streams the unpacked (and optionally masked) sequence
// bytes with no record separation at all (the "seq"/"dna" family of
// projections, merged here since they differ only in formatting a caller
// composing on top of naf can apply itself).
func (d *Decoder) decodeSequence(w io.Writer, opt DecodeOptions) error {
	if err := d.skip(substreamIDs); err != nil {
		return err
	}
	if err := d.skip(substreamComments); err != nil {
		return err
	}
	lengths, err := d.loadLengths()
	if err != nil {
		return err
	}
	var totalBases uint64
	for _, n := range lengths {
		totalBases += n
	}
	var runs []maskRun
	if opt.UseMask {
		runs, err = d.loadMaskRuns()
		if err != nil {
			return err
		}
	} else if err := d.skip(substreamMask); err != nil {
		return err
	}
	r, total, err := d.seqReaderFor(opt, runs, totalBases)
	if err != nil {
		return err
	}
	_, err = io.CopyN(w, r, int64(total))
	if err == io.EOF {
		return nil
	}
	return err
}

// decodeFASTA reconstructs FASTA text: names, then sequence re-wrapped to
// line_length (or the caller's override), skipping the newline for records
// of declared length zero (print_dna_buffer_as_fasta's "empty sequences
// without empty lines").
func (d *Decoder) decodeFASTA(w io.Writer, opt DecodeOptions) error {
	h := d.cr.Header
	if !h.HasSequence {
		return nil
	}

	idBuf, err := d.load(substreamIDs)
	if err != nil {
		return err
	}
	var ids [][]byte
	if idBuf != nil {
		if ids, err = splitNULTerminated(idBuf, h.NumSequences, ErrCorruptIDs); err != nil {
			return err
		}
	}
	commentBuf, err := d.load(substreamComments)
	if err != nil {
		return err
	}
	var comments [][]byte
	if commentBuf != nil {
		if comments, err = splitNULTerminated(commentBuf, h.NumSequences, ErrCorruptNames); err != nil {
			return err
		}
	}
	lengths, err := d.loadLengths()
	if err != nil {
		return err
	}

	var runs []maskRun
	if opt.UseMask {
		runs, err = d.loadMaskRuns()
		if err != nil {
			return err
		}
	} else if err := d.skip(substreamMask); err != nil {
		return err
	}

	var totalBases uint64
	for _, n := range lengths {
		totalBases += n
	}
	r, _, err := d.seqReaderFor(opt, runs, totalBases)
	if err != nil {
		return err
	}
	br := bufio.NewReaderSize(r, 1<<16)

	lineLength := opt.LineLengthOverride
	if lineLength == 0 {
		lineLength = h.LineLength
	}

	bw := bufio.NewWriterSize(w, 1<<16)
	writeName := func(i uint64) error {
		if err := bw.WriteByte('>'); err != nil {
			return err
		}
		if ids != nil {
			if _, err := bw.Write(ids[i]); err != nil {
				return err
			}
		}
		if comments != nil && len(comments[i]) > 0 {
			if err := bw.WriteByte(h.NameSeparator); err != nil {
				return err
			}
			if _, err := bw.Write(comments[i]); err != nil {
				return err
			}
		}
		return bw.WriteByte('\n')
	}

	for i := uint64(0); i < h.NumSequences; i++ {
		if err := writeName(i); err != nil {
			return err
		}
		length := lengths[i]
		if length == 0 {
			continue
		}
		lineRemaining := lineLength
		for remaining := length; remaining > 0; remaining-- {
			c, err := br.ReadByte()
			if err != nil {
				return ErrTruncated
			}
			if err := bw.WriteByte(c); err != nil {
				return err
			}
			if lineLength > 0 {
				lineRemaining--
				if lineRemaining == 0 && remaining > 1 {
					if err := bw.WriteByte('\n'); err != nil {
						return err
					}
					lineRemaining = lineLength
				}
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// decodeFASTQ interleaves the fully-memory-loaded sequence with the
// file-streamed quality sub-stream record by record (§4.11's "FASTQ
// interleaving": sequence loaded whole because both must print together
// but come from independent zstd frames).
func (d *Decoder) decodeFASTQ(w io.Writer, opt DecodeOptions) error {
	h := d.cr.Header
	if !h.HasSequence {
		return nil
	}

	idBuf, err := d.load(substreamIDs)
	if err != nil {
		return err
	}
	var ids [][]byte
	if idBuf != nil {
		if ids, err = splitNULTerminated(idBuf, h.NumSequences, ErrCorruptIDs); err != nil {
			return err
		}
	}
	commentBuf, err := d.load(substreamComments)
	if err != nil {
		return err
	}
	var comments [][]byte
	if commentBuf != nil {
		if comments, err = splitNULTerminated(commentBuf, h.NumSequences, ErrCorruptNames); err != nil {
			return err
		}
	}
	lengths, err := d.loadLengths()
	if err != nil {
		return err
	}
	if err := d.skip(substreamMask); err != nil {
		return err
	}

	seqBuf, err := d.load(substreamSequence)
	if err != nil {
		return err
	}
	seqType := h.SeqType
	seqR := io.Reader(bytes.NewReader(seqBuf))
	if seqType.isDNALike() {
		var totalBases uint64
		for _, n := range lengths {
			totalBases += n
		}
		seqR = newReadFunc(newUnpacker(bytes.NewReader(seqBuf), true, totalBases))
	}

	k, ok := d.cr.NextKind()
	if !ok || k != substreamQuality {
		return ErrInvalidConfig
	}
	qualDec, qualSize, err := d.cr.OpenStream()
	if err != nil {
		return err
	}
	defer qualDec.Close()
	qualR := bufio.NewReaderSize(qualDec, 1<<16)
	seqBR := bufio.NewReaderSize(seqR, 1<<16)

	bw := bufio.NewWriterSize(w, 1<<16)
	var qualRead uint64
	for i := uint64(0); i < h.NumSequences; i++ {
		if err := bw.WriteByte('@'); err != nil {
			return err
		}
		if ids != nil {
			bw.Write(ids[i])
		}
		if comments != nil && len(comments[i]) > 0 {
			bw.WriteByte(h.NameSeparator)
			bw.Write(comments[i])
		}
		bw.WriteByte('\n')

		if _, err := io.CopyN(bw, seqBR, int64(lengths[i])); err != nil {
			return ErrTruncated
		}
		bw.WriteString("\n+\n")

		if _, err := io.CopyN(bw, qualR, int64(lengths[i])); err != nil {
			return ErrTruncated
		}
		qualRead += lengths[i]
		bw.WriteByte('\n')
	}
	if qualRead != qualSize && qualSize != 0 {
		// A mismatch here means the quality sub-stream's declared size
		// disagreed with the sum of record lengths; corrupt archive.
		return ErrCorruptLengths
	}
	return bw.Flush()
}
