/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package uaterr

// Code is a small closed classification of failure modes, analogous to an
// HTTP status family but scoped to the five kinds the archive distinguishes
// at its boundaries (spec §7).
type Code uint16

const (
	// Unknown is the zero value; never returned by this package directly.
	Unknown Code = iota

	// NotFound: message, word or archive does not exist.
	NotFound
	// Malformed: input fails a structural check (bad Message-ID, truncated
	// package file). Read tools treat it as "missing"; build tools surface it.
	Malformed
	// Unavailable: a galaxy archive reference is not present on disk.
	// Always local-recoverable.
	Unavailable
	// IOError: mapping or reading a file failed at the OS level.
	IOError
	// VersionMismatch: package version is newer than this reader supports.
	// Fatal at Open.
	VersionMismatch
)

var codeMessage = map[Code]string{
	Unknown:         "unknown error",
	NotFound:        "not found",
	Malformed:       "malformed input",
	Unavailable:     "archive unavailable",
	IOError:         "i/o error",
	VersionMismatch: "package version unsupported by this reader",
}

// String returns the registered message for the code, or "unknown error".
func (c Code) String() string {
	if m, ok := codeMessage[c]; ok {
		return m
	}
	return codeMessage[Unknown]
}

// Is reports whether the error chain e contains a *uatError with this code.
func (c Code) Is(e error) bool {
	var u *uatError
	for e != nil {
		if x, ok := e.(*uatError); ok {
			u = x
			break
		}
		e = unwrap(e)
	}
	return u != nil && u.code == c
}
