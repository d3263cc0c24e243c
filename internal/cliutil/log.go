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

package cliutil

import (
	"io"
	"os"
	"runtime"

	colorable "github.com/mattn/go-colorable"
	isatty "github.com/mattn/go-isatty"
	logging "github.com/shenwei356/go-logging"
)

// Log is the package-level logger both cmd trees write -v/--verbose
// progress and warnings to, backed the same way unikmer/main.go backs its.
var Log = logging.MustGetLogger("naf")

var colorLogFormat = logging.MustStringFormatter(
	`%{time:15:04:05.000} %{color}[%{level:.4s}]%{color:reset} %{message}`,
)

var plainLogFormat = logging.MustStringFormatter(
	`%{time:15:04:05.000} [%{level:.4s}] %{message}`,
)

// IsTerminal reports whether f is attached to an interactive terminal,
// via go-isatty; the core naf package never makes this call itself.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// InitLogging wires Log to a stderr backend, colorized only when stderr is
// a terminal.
func InitLogging() {
	var stderr io.Writer = os.Stderr
	format := plainLogFormat
	if IsTerminal(os.Stderr) {
		format = colorLogFormat
		if runtime.GOOS == "windows" {
			stderr = colorable.NewColorableStderr()
		}
	}
	backend := logging.NewLogBackend(stderr, "", 0)
	backendFormatter := logging.NewBackendFormatter(backend, format)
	logging.SetBackend(backendFormatter)
}
