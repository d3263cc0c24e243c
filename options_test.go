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

import "testing"

func TestNewOptionsDefaults(t *testing.T) {
	opt := NewOptions()
	if err := opt.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if opt.InFormat != FormatAuto {
		t.Errorf("expected FormatAuto, got %v", opt.InFormat)
	}
	if opt.SeqType != SeqTypeDNA {
		t.Errorf("expected SeqTypeDNA, got %v", opt.SeqType)
	}
	if !opt.StoreMask {
		t.Error("expected StoreMask true by default")
	}
	if opt.NameSeparator != DefaultNameSeparator {
		t.Errorf("expected default name separator, got %q", opt.NameSeparator)
	}
}

func TestOptionsValidateRejectsWellFormedAndStrict(t *testing.T) {
	opt := NewOptions()
	opt.AssumeWellFormed = true
	opt.Strict = true
	if err := opt.Validate(); err != ErrInvalidConfig {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestOptionsValidateRejectsOutOfRangeLevel(t *testing.T) {
	for _, level := range []int{0, -1, 23, 100} {
		opt := NewOptions()
		opt.CompressionLevel = level
		if err := opt.Validate(); err != ErrInvalidConfig {
			t.Errorf("level=%d: expected ErrInvalidConfig, got %v", level, err)
		}
	}
}

func TestOptionsValidateRejectsBadSeparator(t *testing.T) {
	opt := NewOptions()
	opt.NameSeparator = 0x01
	if err := opt.Validate(); err != ErrInvalidSeparator {
		t.Errorf("expected ErrInvalidSeparator, got %v", err)
	}
}

func TestInFormatString(t *testing.T) {
	cases := map[InFormat]string{
		FormatAuto:  "auto",
		FormatFASTA: "fasta",
		FormatFASTQ: "fastq",
	}
	for f, want := range cases {
		if got := f.String(); got != want {
			t.Errorf("%v: got %q, want %q", f, got, want)
		}
	}
}
