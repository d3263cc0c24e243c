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

func TestTempPrefixPrefersDatasetName(t *testing.T) {
	prefix, err := tempPrefix("myset", "input.fasta")
	if err != nil {
		t.Fatal(err)
	}
	if prefix != "myset" {
		t.Errorf("got %q", prefix)
	}
}

func TestTempPrefixFallsBackToInputBasename(t *testing.T) {
	prefix, err := tempPrefix("", "/path/to/input.fasta")
	if err != nil {
		t.Fatal(err)
	}
	if prefix != "input.fasta" {
		t.Errorf("got %q", prefix)
	}
}

func TestTempPrefixFallsBackToPidRand(t *testing.T) {
	prefix, err := tempPrefix("", "")
	if err != nil {
		t.Fatal(err)
	}
	if prefix == "" {
		t.Errorf("expected a non-empty generated prefix")
	}
}

func TestTempPrefixRejectsUnsafeBytes(t *testing.T) {
	for _, bad := range []string{"a/b", "a\\b", "a:b", "a*b", "a?b", `a"b`, "a<b", "a>b", "a|b", "a\x01b"} {
		if _, err := tempPrefix(bad, ""); err != ErrInvalidConfig {
			t.Errorf("prefix %q: expected ErrInvalidConfig, got %v", bad, err)
		}
	}
}

func TestTempPath(t *testing.T) {
	got := tempPath("/tmp", "myset", substreamSequence)
	want := "/tmp/myset." + substreamSequence.String()
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
