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
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// compressedBufferSize is the tail buffer's fixed capacity (§4.5,
// COMPRESSED_BUFFER_SIZE), sized so a final ZSTD_endStream-equivalent flush
// always has room without growing the buffer.
const compressedBufferSize = 2 << 20

// flushThreshold approximates "zstd_recommended_out_size": once the tail
// buffer's headroom drops below this, it is spilled to the temp file.
const flushThreshold = 128 << 10

// zstdMagicLen is the length of the zstd frame magic number that the wire
// format strips (§6.1, §9).
const zstdMagicLen = 4

type compressorState uint8

const (
	stateUnallocated compressorState = iota
	stateActive
	stateFinished
	stateDrained
)

// Compressor wraps a streaming zstd encoder with an in-memory tail buffer
// and optional temp-file spill, so that the compressed size of a sub-stream
// is known before any of its bytes reach the container (§4.5, C5).
type Compressor struct {
	state compressorState

	enc *zstd.Encoder

	tail []byte // fixed-capacity tail buffer, length == fill
	spilledBytes int64

	tempPath string
	tempFile *os.File

	magicSkipped int // 0..zstdMagicLen bytes of leading zstd magic dropped

	uncompressedSize int64
}

// NewCompressor creates a Compressor for one sub-stream. tempPath is the
// full path it will spill to on first overflow (§6.4); it is never created
// unless a spill actually occurs. level is a zstd compression level in
// [1,22]; windowLog, if non-zero, is only honored at level 22 (§4.5); other
// levels use the library's default window. No long-distance-matching
// parameter is set at any level.
func NewCompressor(tempPath string, level, windowLog int) (*Compressor, error) {
	c := &Compressor{
		state:    stateActive,
		tail:     make([]byte, 0, compressedBufferSize),
		tempPath: tempPath,
	}

	opts := encoderOptions(level, windowLog)
	enc, err := zstd.NewWriter(c, opts...)
	if err != nil {
		return nil, fmt.Errorf("naf: create zstd encoder: %w", err)
	}
	c.enc = enc
	return c, nil
}

// encoderOptions maps a zstd level in [1,22] onto klauspost/compress/zstd's
// four speed tiers (the library does not expose raw numeric levels), and
// only at level 22 additionally applies the caller's window log (§4.5).
// Long-distance matching is not requested at any level.
func encoderOptions(level, windowLog int) []zstd.EOption {
	var speed zstd.EncoderLevel
	switch {
	case level >= 20:
		speed = zstd.SpeedBestCompression
	case level >= 10:
		speed = zstd.SpeedBetterCompression
	case level >= 2:
		speed = zstd.SpeedDefault
	default:
		speed = zstd.SpeedFastest
	}

	opts := []zstd.EOption{
		zstd.WithEncoderLevel(speed),
		zstd.WithEncoderConcurrency(1), // §5: single-threaded cooperative core
	}
	if level >= 22 && windowLog > 0 {
		opts = append(opts, zstd.WithWindowSize(1<<uint(windowLog)))
	}
	return opts
}

// Compress feeds size bytes of data (beginning at data[0]) into the zstd
// stream. It corresponds to compress(w, data, size) in §4.5.
func (c *Compressor) Compress(data []byte) error {
	if c.state != stateActive {
		panic("naf: Compress called on a non-Active Compressor")
	}
	c.uncompressedSize += int64(len(data))
	_, err := c.enc.Write(data)
	return err
}

// Write implements io.Writer; it is the sink the zstd encoder writes its
// compressed output into. The first zstdMagicLen bytes ever written (the
// zstd frame magic, §9) are silently dropped rather than stored, since a
// NAF reader always re-prepends the fixed magic itself.
func (c *Compressor) Write(p []byte) (int, error) {
	orig := len(p)

	if c.magicSkipped < zstdMagicLen {
		skip := zstdMagicLen - c.magicSkipped
		if skip > len(p) {
			skip = len(p)
		}
		c.magicSkipped += skip
		p = p[skip:]
	}

	for len(p) > 0 {
		space := cap(c.tail) - len(c.tail)
		if space == 0 {
			if err := c.spill(); err != nil {
				return 0, err
			}
			space = cap(c.tail)
		}
		n := space
		if n > len(p) {
			n = len(p)
		}
		c.tail = append(c.tail, p[:n]...)
		p = p[n:]

		if cap(c.tail)-len(c.tail) < flushThreshold {
			if err := c.spill(); err != nil {
				return 0, err
			}
		}
	}
	return orig, nil
}

// spill flushes the tail buffer to the temp file, creating it lazily.
func (c *Compressor) spill() error {
	if len(c.tail) == 0 {
		return nil
	}
	if c.tempFile == nil {
		if err := os.MkdirAll(filepath.Dir(c.tempPath), 0o755); err != nil {
			return fmt.Errorf("naf: create temp dir for %s: %w", c.tempPath, err)
		}
		f, err := os.OpenFile(c.tempPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
		if err != nil {
			return fmt.Errorf("naf: create temp file %s: %w", c.tempPath, err)
		}
		c.tempFile = f
	}
	if _, err := c.tempFile.Write(c.tail); err != nil {
		return fmt.Errorf("naf: spill to %s: %w", c.tempPath, err)
	}
	c.spilledBytes += int64(len(c.tail))
	c.tail = c.tail[:0]
	return nil
}

// Finish finalizes the zstd stream (Active -> Finished, §4.5's compressor
// state machine). A Compressor is Active from NewCompressor on, so Finish
// may be called without any prior Compress call.
func (c *Compressor) Finish() error {
	if c.state != stateActive {
		panic("naf: Finish called on a non-Active Compressor")
	}
	if err := c.enc.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrCompressionFailure, err)
	}
	c.state = stateFinished
	if c.spilledBytes+int64(len(c.tail)) < zstdMagicLen {
		return ErrCompressionFailure
	}
	return nil
}

// CompressedSize is spilledBytes+fill, i.e. the zstd frame's size with its
// magic already stripped (§4.5).
func (c *Compressor) CompressedSize() int64 {
	return c.spilledBytes + int64(len(c.tail))
}

// UncompressedSize is the total number of bytes fed to Compress.
func (c *Compressor) UncompressedSize() int64 {
	return c.uncompressedSize
}

// Emit writes this sub-stream's record (§4.7, step 8) to w: the two
// VarInts, then the spilled file content (if any) followed by the tail
// buffer. It transitions Finished -> Drained; a Compressor must not be
// reused afterward. keepTempFile controls whether the spill file (if any)
// is removed once drained, per Options.KeepTempFiles (§6.2, §7).
func (c *Compressor) Emit(w io.Writer, keepTempFile bool) error {
	if c.state != stateFinished {
		panic("naf: Emit called before Finish or after Drained")
	}
	defer c.cleanup(keepTempFile)

	if err := writeVarint(w, uint64(c.uncompressedSize)); err != nil {
		return err
	}
	if err := writeVarint(w, uint64(c.CompressedSize())); err != nil {
		return err
	}

	if c.tempFile != nil {
		if _, err := c.tempFile.Seek(0, io.SeekStart); err != nil {
			return fmt.Errorf("naf: seek temp file %s: %w", c.tempPath, err)
		}
		if _, err := io.Copy(w, c.tempFile); err != nil {
			return fmt.Errorf("naf: read back temp file %s: %w", c.tempPath, err)
		}
	}
	if _, err := w.Write(c.tail); err != nil {
		return err
	}
	return nil
}

// cleanup closes the temp file and, unless keepTempFile is set, removes it,
// then marks the Compressor Drained.
func (c *Compressor) cleanup(keepTempFile bool) {
	if c.tempFile != nil {
		c.tempFile.Close()
		if !keepTempFile {
			os.Remove(c.tempPath)
		}
	}
	c.state = stateDrained
}

// Abort releases resources (the temp file, if any) without finishing the
// zstd stream, for use by the cleanup hook (§7) when an encode fails
// midway.
func (c *Compressor) Abort(keepTempFile bool) {
	if c.tempFile != nil {
		c.tempFile.Close()
		if !keepTempFile {
			os.Remove(c.tempPath)
		}
	}
	c.state = stateDrained
}
