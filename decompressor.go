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
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// zstdMagic is the 4-byte zstd frame magic a NAF writer strips and a NAF
// reader must re-prepend before handing bytes to the decompressor (§6.1,
// §9).
var zstdMagic = [zstdMagicLen]byte{0x28, 0xb5, 0x2f, 0xfd}

// decoderMaxWindowLog tolerates the largest window a level-22 encoder can
// produce (§4.6's "OversizedWindow is prevented by setting
// d_windowLogMax = ZSTD_WINDOWLOG_MAX").
const decoderMaxWindowLog = 31

// truncationGuard wraps a reader limited to exactly n remaining bytes and
// turns a premature upstream EOF into ErrTruncated instead of a bare io.EOF,
// so C6's two modes can distinguish "sub-stream ended early" from "sub-
// stream ended exactly on schedule".
type truncationGuard struct {
	r         io.Reader
	remaining int64
}

func (g *truncationGuard) Read(p []byte) (int, error) {
	if g.remaining <= 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > g.remaining {
		p = p[:g.remaining]
	}
	n, err := g.r.Read(p)
	g.remaining -= int64(n)
	if err == io.EOF && g.remaining > 0 {
		return n, ErrTruncated
	}
	return n, err
}

// magicPrependingSource builds the input a zstd.Decoder reads from: the
// fixed 4-byte magic, then exactly compressedSize bytes of frame payload
// pulled from r starting at its current position (file mode, §4.6).
func magicPrependingSource(r io.Reader, compressedSize int64) io.Reader {
	return io.MultiReader(
		bytes.NewReader(zstdMagic[:]),
		&truncationGuard{r: r, remaining: compressedSize},
	)
}

// NewStreamDecompressor opens sub-stream decompression in file mode: zstd
// runs in pull mode directly over r, one zstd-recommended-size chunk at a
// time, without ever materializing the whole sub-stream in memory. This is
// the mode used for bulk streaming projections (sequence/fasta/4bit) and
// for the quality sub-stream during FASTQ output (§4.6).
func NewStreamDecompressor(r io.Reader, compressedSize int64) (*zstd.Decoder, error) {
	dec, err := zstd.NewReader(magicPrependingSource(r, compressedSize),
		zstd.WithDecoderMaxWindow(1<<decoderMaxWindowLog))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecompressionFailure, err)
	}
	return dec, nil
}

// DecompressAll runs sub-stream decompression in memory mode: the whole
// compressed payload is read into an owned buffer, the magic is
// re-prepended, and the frame is decoded in full before returning. This is
// used when the entire decompressed sequence must be held at once, e.g. to
// interleave with an independently-streamed quality sub-stream for FASTQ
// output (§4.6, §4.11).
func DecompressAll(r io.Reader, compressedSize int64, expectedSize int64) ([]byte, error) {
	compressed := make([]byte, compressedSize)
	if _, err := io.ReadFull(r, compressed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
	}

	dec, err := zstd.NewReader(bytes.NewReader(append(zstdMagic[:], compressed...)),
		zstd.WithDecoderMaxWindow(1<<decoderMaxWindowLog))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecompressionFailure, err)
	}
	defer dec.Close()

	out := make([]byte, 0, expectedSize)
	buf := bytes.NewBuffer(out)
	if _, err := io.Copy(buf, dec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecompressionFailure, err)
	}
	return buf.Bytes(), nil
}

// memoryUnpackChunk is a 64 KiB step size for unpacking a fully in-memory
// 4-bit-packed sub-stream (§4.6); no code in this package refers to it.
const memoryUnpackChunk = 64 << 10
