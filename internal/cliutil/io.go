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

// Package cliutil holds the small pieces of ambient plumbing shared by the
// ennaf and unnaf command trees: flag getters, stdin/stdout detection, and
// gzip-transparent input opening, built the way unikmer/cmd builds them.
package cliutil

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	gzip "github.com/klauspost/pgzip"
)

// IsStdin reports whether file names stdin ("-").
func IsStdin(file string) bool { return file == "-" }

// IsStdout reports whether file names stdout ("-").
func IsStdout(file string) bool { return file == "-" }

// InStream opens file (or stdin) for reading, transparently decompressing
// it if it starts with a gzip magic header, regardless of its name.
func InStream(file string) (*bufio.Reader, *os.File, error) {
	var err error
	var r *os.File
	if IsStdin(file) {
		if !DetectStdin() {
			return nil, nil, errors.New("stdin not detected")
		}
		r = os.Stdin
	} else {
		r, err = os.Open(file)
		if err != nil {
			return nil, nil, fmt.Errorf("fail to read %s: %s", file, err)
		}
	}

	br := bufio.NewReaderSize(r, os.Getpagesize())

	gzipped, err := isGzip(br)
	if err != nil {
		return nil, nil, fmt.Errorf("fail to check is file (%s) gzipped: %s", file, err)
	}
	if gzipped {
		gr, err := gzip.NewReader(br)
		if err != nil {
			return nil, r, fmt.Errorf("fail to create gzip reader for %s: %s", file, err)
		}
		br = bufio.NewReaderSize(gr, os.Getpagesize())
	}

	return br, r, nil
}

// OutStream opens file (or stdout) for writing.
func OutStream(file string) (*bufio.Writer, *os.File, error) {
	var err error
	var w *os.File
	if IsStdout(file) {
		w = os.Stdout
	} else {
		w, err = os.Create(file)
		if err != nil {
			return nil, nil, fmt.Errorf("fail to write %s: %s", file, err)
		}
	}
	return bufio.NewWriterSize(w, os.Getpagesize()), w, nil
}

func isGzip(b *bufio.Reader) (bool, error) {
	return checkBytes(b, []byte{0x1f, 0x8b})
}

func checkBytes(b *bufio.Reader, buf []byte) (bool, error) {
	m, err := b.Peek(len(buf))
	if err != nil {
		// shorter than the magic, e.g. an empty file: not gzip, not an error
		return false, nil
	}
	for i := range buf {
		if m[i] != buf[i] {
			return false, nil
		}
	}
	return true, nil
}

// DetectStdin reports whether stdin looks like a pipe or redirected file
// rather than an interactive terminal.
func DetectStdin() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
