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

// putVarint writes x as a base-128 continuation-coded integer, most
// significant 7-bit group first. Every byte but the last has its high bit
// set. A zero value is a single 0x00 byte.
func putVarint(buf []byte, x uint64) int {
	// find how many 7-bit groups are needed, MSB group first.
	var groups [10]byte
	n := 0
	groups[0] = byte(x & 0x7f)
	x >>= 7
	n = 1
	for x > 0 {
		groups[n] = byte(x & 0x7f)
		x >>= 7
		n++
	}

	i := 0
	for j := n - 1; j > 0; j-- {
		buf[i] = groups[j] | 0x80
		i++
	}
	buf[i] = groups[0]
	return i + 1
}

// appendVarint appends the varint encoding of x to buf.
func appendVarint(buf []byte, x uint64) []byte {
	var tmp [10]byte
	n := putVarint(tmp[:], x)
	return append(buf, tmp[:n]...)
}

// writeVarint writes x to w in the wire format of §4.1.
func writeVarint(w io.Writer, x uint64) error {
	var tmp [10]byte
	n := putVarint(tmp[:], x)
	_, err := w.Write(tmp[:n])
	return err
}

// byteReader is the minimal pull interface readVarint needs; bufio.Reader
// satisfies it.
type byteReader interface {
	ReadByte() (byte, error)
}

// readVarint decodes a varint from r per §4.1. It fails with
// ErrCorruptVarInt on overflow (top 7 of 64 bits already occupied before a
// continuation) or on an orphan 0x80 first byte.
func readVarint(r byteReader) (uint64, error) {
	var acc uint64
	first := true
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		if first && b == 0x80 {
			return 0, ErrCorruptVarInt
		}
		first = false

		if acc > (uint64(1)<<57)-1 {
			return 0, ErrCorruptVarInt
		}
		acc = (acc << 7) | uint64(b&0x7f)

		if b&0x80 == 0 {
			return acc, nil
		}
	}
}
