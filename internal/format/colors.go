// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package format renders diagnostic output for the command-line front end,
// colorizing it when standard output is a terminal.
package format

import (
	"fmt"

	"golang.org/x/term"
)

// forceColor overrides the terminal auto-detection when non-nil: true always
// colorizes, false never does. Set by SetColorOverride (cmd/aster-dfa's
// -color flag).
var forceColor *bool

// SetColorOverride pins Color's terminal detection to on or off, regardless
// of whether standard output is actually a terminal.
func SetColorOverride(enabled bool) {
	forceColor = &enabled
}

var (
	Bold    = Color("\033[1m%s\033[0m")
	Faint   = Color("\033[2m%s\033[0m")
	Italic  = Color("\033[3m%s\033[0m")
	Red     = Color("\033[1;31m%s\033[0m")
	Green   = Color("\033[1;32m%s\033[0m")
	Yellow  = Color("\033[1;33m%s\033[0m")
	Purple  = Color("\033[1;34m%s\033[0m")
	Magenta = Color("\033[1;35m%s\033[0m")
	Cyan    = Color("\033[1;36m%s\033[0m")
	White   = Color("\033[1;37m%s\033[0m")
)

// Color returns a formatter that wraps its arguments in colorString when
// standard output is a terminal, and prints them plainly otherwise.
func Color(colorString string) func(...interface{}) string {
	result := func(args ...interface{}) string {
		colorize := term.IsTerminal(1)
		if forceColor != nil {
			colorize = *forceColor
		}
		if colorize {
			return fmt.Sprintf(colorString, fmt.Sprint(args...))
		}
		return fmt.Sprint(args...)
	}
	return result
}

// Sanitize removes escape sequences from s by round-tripping it through %q.
func Sanitize(s string) string {
	r := fmt.Sprintf("%q", s)
	if len(r) >= 2 {
		return r[1 : len(r)-1]
	}
	return r
}

// SanitizeRepr sanitizes the string representation of s.
func SanitizeRepr(s fmt.Stringer) string {
	return Sanitize(s.String())
}
