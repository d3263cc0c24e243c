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

import "fmt"

// Magic is the 3-byte magic number every NAF archive begins with (§3.1,
// §6.1).
var Magic = [3]byte{0x01, 0xf9, 0xec}

// Format versions this codec understands (§3.1).
const (
	FormatVersion1 uint8 = 1
	FormatVersion2 uint8 = 2
)

// DefaultNameSeparator is the name_separator byte written when the caller
// does not override it (§3.1).
const DefaultNameSeparator byte = ' '

// Flag bits, MSB first, matching §3.1/§6.1's
// "extended | title | ids | comments | lengths | mask | sequence | quality".
const (
	flagQuality = 1 << iota
	flagSequence
	flagMask
	flagLengths
	flagComments
	flagIDs
	flagTitle
	flagExtended
)

// Header is the archive-level metadata common to both the writer and the
// reader (§3.1).
type Header struct {
	FormatVersion uint8
	SeqType       SeqType

	Extended    bool
	HasTitle    bool
	HasIDs      bool
	HasComments bool
	HasLengths  bool
	HasMask     bool
	HasSequence bool
	HasQuality  bool

	NameSeparator byte

	LineLength   uint64
	NumSequences uint64

	Title []byte
}

func (h Header) String() string {
	return fmt.Sprintf("NAF v%d archive, type=%s, %d sequence(s)",
		h.FormatVersion, h.SeqType, h.NumSequences)
}

func (h Header) flags() byte {
	var f byte
	if h.Extended {
		f |= flagExtended
	}
	if h.HasTitle {
		f |= flagTitle
	}
	if h.HasIDs {
		f |= flagIDs
	}
	if h.HasComments {
		f |= flagComments
	}
	if h.HasLengths {
		f |= flagLengths
	}
	if h.HasMask {
		f |= flagMask
	}
	if h.HasSequence {
		f |= flagSequence
	}
	if h.HasQuality {
		f |= flagQuality
	}
	return f
}

func (h *Header) setFlags(f byte) {
	h.Extended = f&flagExtended != 0
	h.HasTitle = f&flagTitle != 0
	h.HasIDs = f&flagIDs != 0
	h.HasComments = f&flagComments != 0
	h.HasLengths = f&flagLengths != 0
	h.HasMask = f&flagMask != 0
	h.HasSequence = f&flagSequence != 0
	h.HasQuality = f&flagQuality != 0
}

// substreamKind identifies one of the six sub-streams, in the fixed
// container order of §3.1/§4.7.
type substreamKind uint8

const (
	substreamIDs substreamKind = iota
	substreamComments
	substreamLengths
	substreamMask
	substreamSequence
	substreamQuality
)

func (k substreamKind) String() string {
	switch k {
	case substreamIDs:
		return "ids"
	case substreamComments:
		return "comments"
	case substreamLengths:
		return "lengths"
	case substreamMask:
		return "mask"
	case substreamSequence:
		return "sequence"
	case substreamQuality:
		return "quality"
	default:
		return "unknown"
	}
}

// substreamOrder is the fixed emission/parse order of §3.1.
var substreamOrder = [6]substreamKind{
	substreamIDs, substreamComments, substreamLengths,
	substreamMask, substreamSequence, substreamQuality,
}

// enabled reports whether the header's flags say this sub-stream is
// present.
func (h Header) enabled(k substreamKind) bool {
	switch k {
	case substreamIDs:
		return h.HasIDs
	case substreamComments:
		return h.HasComments
	case substreamLengths:
		return h.HasLengths
	case substreamMask:
		return h.HasMask
	case substreamSequence:
		return h.HasSequence
	case substreamQuality:
		return h.HasQuality
	default:
		return false
	}
}
