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

// ContainerWriter assembles the archive bytes of §4.7 (C7): the fixed
// header, counts, optional title, then one record per enabled sub-stream
// in the order {ids, comments, lengths, mask, sequence, quality}. All
// Compressors must already be Finished before WriteSubstream is called,
// since the compressed size must be known up front (§9).
type ContainerWriter struct {
	w io.Writer
}

// NewContainerWriter wraps w.
func NewContainerWriter(w io.Writer) *ContainerWriter {
	return &ContainerWriter{w: w}
}

// WriteHeader emits the fixed prefix, counts, and optional title (§4.7,
// steps 1-7).
func (cw *ContainerWriter) WriteHeader(h Header) error {
	if h.NameSeparator < 0x20 || h.NameSeparator > 0x7e {
		return ErrInvalidSeparator
	}
	if h.FormatVersion != FormatVersion1 && h.FormatVersion != FormatVersion2 {
		return ErrUnsupportedVersion
	}

	if _, err := cw.w.Write(Magic[:]); err != nil {
		return err
	}
	if _, err := cw.w.Write([]byte{h.FormatVersion}); err != nil {
		return err
	}
	if h.FormatVersion == FormatVersion2 {
		if _, err := cw.w.Write([]byte{byte(h.SeqType)}); err != nil {
			return err
		}
	}
	if _, err := cw.w.Write([]byte{h.flags()}); err != nil {
		return err
	}
	if _, err := cw.w.Write([]byte{h.NameSeparator}); err != nil {
		return err
	}
	if err := writeVarint(cw.w, h.LineLength); err != nil {
		return err
	}
	if err := writeVarint(cw.w, h.NumSequences); err != nil {
		return err
	}

	if h.HasTitle {
		if err := writeVarint(cw.w, uint64(len(h.Title))); err != nil {
			return err
		}
		if _, err := cw.w.Write(h.Title); err != nil {
			return err
		}
	}
	return nil
}

// WriteSubstream emits one sub-stream record (§4.7, step 8) by delegating
// to the Compressor, which already knows its own sizes.
func (cw *ContainerWriter) WriteSubstream(c *Compressor, keepTempFile bool) error {
	return c.Emit(cw.w, keepTempFile)
}
