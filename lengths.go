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
	"encoding/binary"
	"io"
)

// lengthContinuation is the sentinel u32 that means "add 0xFFFFFFFF and keep
// reading", per §4.4 (C4).
const lengthContinuation uint32 = 0xffffffff

// encodeLength appends the big-endian u32 chunks encoding one sequence
// length, per §4.4: one 0xFFFFFFFF per full chunk, then the (possibly zero)
// remainder.
func encodeLength(buf []byte, length uint64) []byte {
	for length >= uint64(lengthContinuation) {
		buf = binary.BigEndian.AppendUint32(buf, lengthContinuation)
		length -= uint64(lengthContinuation)
	}
	buf = binary.BigEndian.AppendUint32(buf, uint32(length))
	return buf
}

// lengthTableReader decodes the length-table sub-stream one sequence at a
// time (§4.4).
type lengthTableReader struct {
	r io.Reader
}

func newLengthTableReader(r io.Reader) *lengthTableReader {
	return &lengthTableReader{r: r}
}

// Next reads one sequence's length, accumulating 0xFFFFFFFF continuations.
// It returns io.EOF once the table is exhausted.
func (lr *lengthTableReader) Next() (uint64, error) {
	var total uint64
	var tmp [4]byte
	for {
		if _, err := io.ReadFull(lr.r, tmp[:]); err != nil {
			if err == io.ErrUnexpectedEOF {
				return 0, ErrCorruptLengths
			}
			return 0, err
		}
		v := binary.BigEndian.Uint32(tmp[:])
		total += uint64(v)
		if v != lengthContinuation {
			return total, nil
		}
	}
}
