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
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// CheckError logs a fatal error and exits 1 via os.Exit, so deferred
// functions in the calling goroutine do not run.
func CheckError(err error) {
	if err == nil {
		return
	}
	if err == errors.Cause(err) {
		Log.Error(err)
	} else {
		Log.Errorf("%s", err)
	}
	os.Exit(1)
}

func GetFlagString(cmd *cobra.Command, flag string) string {
	value, err := cmd.Flags().GetString(flag)
	CheckError(errors.Wrapf(err, "flag: --%s", flag))
	return value
}

func GetFlagBool(cmd *cobra.Command, flag string) bool {
	value, err := cmd.Flags().GetBool(flag)
	CheckError(errors.Wrapf(err, "flag: --%s", flag))
	return value
}

func GetFlagInt(cmd *cobra.Command, flag string) int {
	value, err := cmd.Flags().GetInt(flag)
	CheckError(errors.Wrapf(err, "flag: --%s", flag))
	return value
}

func GetFlagUint64(cmd *cobra.Command, flag string) uint64 {
	value, err := cmd.Flags().GetUint64(flag)
	CheckError(errors.Wrapf(err, "flag: --%s", flag))
	return value
}

func GetFlagPositiveInt(cmd *cobra.Command, flag string) int {
	value := GetFlagInt(cmd, flag)
	if value <= 0 {
		CheckError(fmt.Errorf("value of --%s should be positive", flag))
	}
	return value
}

func GetFlagNonNegativeInt(cmd *cobra.Command, flag string) int {
	value := GetFlagInt(cmd, flag)
	if value < 0 {
		CheckError(fmt.Errorf("value of --%s should not be negative", flag))
	}
	return value
}
