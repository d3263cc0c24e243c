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

// maskRunEncoder accumulates the alternating masked/unmasked run lengths of
// a DNA/RNA sequence and emits them 255-terminated, per §4.3 (C3).
type maskRunEncoder struct {
	started   bool
	polarity  bool // false = unmasked
	run       uint64
	out       []byte
}

// newMaskRunEncoder returns an encoder with no output buffered yet.
func newMaskRunEncoder() *maskRunEncoder {
	return &maskRunEncoder{}
}

// Feed extends the run state by scanning seq for soft-mask transitions.
// A byte value >= 96 (per §4.3; this covers 'a'-'z') means masked.
func (e *maskRunEncoder) Feed(seq []byte) {
	for _, c := range seq {
		p := c >= 96
		if !e.started {
			e.started = true
			e.polarity = p
			if p {
				// Sequence starts masked: emit the synthetic zero-length
				// unmasked run that signals this (§4.3, §9).
				e.out = append(e.out, 0)
			}
		} else if p != e.polarity {
			e.flushRun()
			e.polarity = p
		}
		e.run++
	}
}

// flushRun emits the accumulated run length using 255-continuation bytes
// and resets the counter.
func (e *maskRunEncoder) flushRun() {
	run := e.run
	for run >= 255 {
		e.out = append(e.out, 0xff)
		run -= 255
	}
	e.out = append(e.out, byte(run))
	e.run = 0
}

// Finish flushes the final (possibly zero-length) run and returns the
// encoded byte sequence.
func (e *maskRunEncoder) Finish() []byte {
	if e.started {
		e.flushRun()
	}
	return e.out
}

// maskRun is one run of the decoded mask-run table: Length bytes of the
// given polarity (true = masked), in sequence order.
type maskRun struct {
	Length   uint64
	Masked   bool
}

// decodeMaskRuns expands an encoded mask-run byte sequence (§4.3) into its
// list of alternating runs. Runs start unmasked unless the stream begins
// with a 0x00 byte, which signals "starts masked" and is itself consumed
// without producing a zero-length run in the output (besides the
// information it carries) -- matching §4.3's decode rule exactly.
func decodeMaskRuns(buf []byte) ([]maskRun, error) {
	var runs []maskRun
	polarity := false
	i := 0

	if i < len(buf) && buf[i] == 0x00 {
		polarity = true
		i++
	}

	for i < len(buf) {
		var run uint64
		for i < len(buf) && buf[i] == 0xff {
			run += 255
			i++
		}
		if i >= len(buf) {
			return nil, ErrCorruptMask
		}
		run += uint64(buf[i])
		i++

		runs = append(runs, maskRun{Length: run, Masked: polarity})
		polarity = !polarity
	}

	return runs, nil
}

// applyMask lowercases the positions of seq covered by masked runs, in
// place, matching §3.1's invariant and §8's property 4. len(seq) must equal
// the sum of all run lengths or ErrCorruptMask is returned.
func applyMask(seq []byte, runs []maskRun) error {
	var pos uint64
	for _, r := range runs {
		end := pos + r.Length
		if end > uint64(len(seq)) {
			return ErrCorruptMask
		}
		if r.Masked {
			for i := pos; i < end; i++ {
				if seq[i] >= 'A' && seq[i] <= 'Z' {
					seq[i] += 32
				}
			}
		}
		pos = end
	}
	if pos != uint64(len(seq)) {
		return ErrCorruptMask
	}
	return nil
}

// totalMaskLength sums the lengths of the masked runs only, for the
// total-mask-length projection (§4.11).
func totalMaskLength(runs []maskRun) uint64 {
	var total uint64
	for _, r := range runs {
		if r.Masked {
			total += r.Length
		}
	}
	return total
}
