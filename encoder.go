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

import "io"

// encoder wires a Parser's four field writers to the six Compressors (C10):
// bulk passthrough for ids/comments/quality, C4 for lengths, and for
// sequence either mask-extraction + 4-bit packing (DNA/RNA) or a
// case-normalizing passthrough (protein/text).
type encoder struct {
	opt Options

	comp [6]*Compressor // indexed by substreamKind; nil if not enabled

	maskEnc *maskRunEncoder

	packerParity  bool
	packerPartial byte

	hasMask    bool
	hasQuality bool
}

func (e *encoder) writeName(p []byte) {
	e.comp[substreamIDs].Compress(p)
}

func (e *encoder) writeComment(p []byte) {
	e.comp[substreamComments].Compress(p)
}

func (e *encoder) writeLength(n uint64) {
	buf := encodeLength(nil, n)
	e.comp[substreamLengths].Compress(buf)
}

func (e *encoder) writeQuality(p []byte) {
	e.comp[substreamQuality].Compress(p)
}

func (e *encoder) writeSequence(p []byte) {
	if e.opt.SeqType.isDNALike() {
		if e.hasMask {
			e.maskEnc.Feed(p)
		}
		if packed := e.pack4bit(p); len(packed) > 0 {
			e.comp[substreamSequence].Compress(packed)
		}
		return
	}

	if e.opt.StoreMask {
		e.comp[substreamSequence].Compress(p)
		return
	}
	upper := make([]byte, len(p))
	for i, c := range p {
		upper[i] = toUpper(c)
	}
	e.comp[substreamSequence].Compress(upper)
}

// pack4bit packs p's nucleotide codes two-per-byte, low nibble first,
// threading the odd-length parity bit across calls the way encode_dna
// threads it across buffer flushes.
func (e *encoder) pack4bit(p []byte) []byte {
	out := make([]byte, 0, (len(p)+1)/2)
	i := 0
	if e.packerParity && i < len(p) {
		code, _ := codeForBase(p[i])
		e.packerPartial |= code << 4
		out = append(out, e.packerPartial)
		e.packerParity = false
		e.packerPartial = 0
		i++
	}
	for i+1 < len(p) {
		c0, _ := codeForBase(p[i])
		c1, _ := codeForBase(p[i+1])
		out = append(out, c0|(c1<<4))
		i += 2
	}
	if i < len(p) {
		c0, _ := codeForBase(p[i])
		e.packerPartial = c0
		e.packerParity = true
	}
	return out
}

// flushPacker emits the final half-filled byte, zero-padded in the high
// nibble, if the total number of packed bases was odd (§6.1, §4.10).
func (e *encoder) flushPacker() []byte {
	if !e.packerParity {
		return nil
	}
	b := e.packerPartial
	e.packerParity = false
	e.packerPartial = 0
	return []byte{b}
}

// Encode runs the full pipeline (C9 through C7): it parses r according to
// opt, feeds every field to the appropriate Compressor, and writes the
// finished container to w. inputName is used only to derive the default
// temp-file prefix (§6.4) when opt.DatasetName is empty; pass "" for
// stdin. The returned Stats carries the unexpected-character counters and
// the longest observed line; when err is non-nil it covers everything
// parsed before the failure, except that an Options.Validate failure
// returns nil Stats.
func Encode(w io.Writer, r io.Reader, opt Options, inputName string) (*Stats, error) {
	if err := opt.Validate(); err != nil {
		return nil, err
	}

	parser := NewParser(r, opt)

	format := opt.InFormat
	detected, err := parser.DetectFormat()
	if err != nil {
		return parser.Stats(), err
	}
	switch {
	case format == FormatAuto:
		if detected == FormatAuto {
			format = FormatFASTA // empty input: nothing to disagree about
		} else {
			format = detected
		}
	case detected != FormatAuto && detected != format:
		return parser.Stats(), ErrFormatMismatch
	}

	prefix, err := tempPrefix(opt.DatasetName, inputName)
	if err != nil {
		return parser.Stats(), err
	}

	hasMask := opt.StoreMask && opt.SeqType.isDNALike()
	hasQuality := format == FormatFASTQ

	e := &encoder{opt: opt, hasMask: hasMask, hasQuality: hasQuality}
	if hasMask {
		e.maskEnc = newMaskRunEncoder()
	}

	enabled := map[substreamKind]bool{
		substreamIDs:      true,
		substreamComments: true,
		substreamLengths:  true,
		substreamMask:     hasMask,
		substreamSequence: true,
		substreamQuality:  hasQuality,
	}

	succeeded := false
	defer func() {
		if succeeded {
			return
		}
		for _, c := range e.comp {
			if c != nil {
				c.Abort(opt.KeepTempFiles)
			}
		}
	}()

	for _, k := range substreamOrder {
		if !enabled[k] {
			continue
		}
		c, err := NewCompressor(tempPath(opt.TempDir, prefix, k), opt.CompressionLevel, opt.WindowLog)
		if err != nil {
			return parser.Stats(), err
		}
		e.comp[k] = c
	}

	rw := RecordWriters{
		Name:     e.writeName,
		Comment:  e.writeComment,
		Sequence: e.writeSequence,
		Length:   e.writeLength,
	}
	if hasQuality {
		rw.Quality = e.writeQuality
	}

	if err := parser.Parse(format, rw); err != nil {
		return parser.Stats(), err
	}

	if e.opt.SeqType.isDNALike() {
		if tail := e.flushPacker(); len(tail) > 0 {
			e.comp[substreamSequence].Compress(tail)
		}
	}
	if hasMask {
		if tail := e.maskEnc.Finish(); len(tail) > 0 {
			e.comp[substreamMask].Compress(tail)
		}
	}

	for _, c := range e.comp {
		if c != nil {
			if err := c.Finish(); err != nil {
				return parser.Stats(), err
			}
		}
	}

	stats := parser.Stats()

	version := FormatVersion2
	if opt.SeqType == SeqTypeDNA {
		version = FormatVersion1
	}

	lineLength := opt.LineLengthOverride
	if lineLength == 0 {
		lineLength = stats.LongestLine
	}

	header := Header{
		FormatVersion: version,
		SeqType:       opt.SeqType,
		HasTitle:      len(opt.Title) > 0,
		HasIDs:        true,
		HasComments:   true,
		HasLengths:    true,
		HasMask:       hasMask,
		HasSequence:   true,
		HasQuality:    hasQuality,
		NameSeparator: opt.NameSeparator,
		LineLength:    lineLength,
		NumSequences:  stats.NumSequences,
		Title:         opt.Title,
	}

	cw := NewContainerWriter(w)
	if err := cw.WriteHeader(header); err != nil {
		return stats, err
	}
	for _, k := range substreamOrder {
		if e.comp[k] == nil {
			continue
		}
		if err := cw.WriteSubstream(e.comp[k], opt.KeepTempFiles); err != nil {
			return stats, err
		}
	}

	succeeded = true
	return stats, nil
}
