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
	"math/rand"
	"os"
	"path/filepath"
)

// unsafeInFileName mirrors the byte set a temp-file prefix must not contain
// (§6.4): the usual filesystem-reserved characters plus any control byte.
func unsafeInFileName(c byte) bool {
	if c < 0x20 {
		return true
	}
	switch c {
	case '\\', '/', ':', '*', '?', '"', '<', '>', '|':
		return true
	}
	return false
}

// validateTempPrefix rejects a prefix containing any byte unsafe in a file
// name, per §6.4.
func validateTempPrefix(prefix string) error {
	for i := 0; i < len(prefix); i++ {
		if unsafeInFileName(prefix[i]) {
			return ErrInvalidConfig
		}
	}
	return nil
}

// tempPrefix resolves the base name shared by every sub-stream's temp file
// (§6.4): dataset_name if the caller set one, else the input file's
// basename, else a "<pid>-<rand31>" fallback with no stable relationship to
// either. inputName is empty when reading from a pipe.
func tempPrefix(datasetName, inputName string) (string, error) {
	var prefix string
	switch {
	case datasetName != "":
		prefix = datasetName
	case inputName != "":
		prefix = filepath.Base(inputName)
	default:
		prefix = fmt.Sprintf("%d-%d", os.Getpid(), rand.Int31())
	}
	if err := validateTempPrefix(prefix); err != nil {
		return "", err
	}
	return prefix, nil
}

// tempPath builds the full path for one sub-stream's spill file: §6.4's
// "<prefix>.<kind>" under dir.
func tempPath(dir, prefix string, k substreamKind) string {
	return filepath.Join(dir, prefix+"."+k.String())
}
