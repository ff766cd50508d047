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

import (
	"fmt"
)

// uatError is the concrete error type returned by this package. It carries a
// Code, a formatted message and an optional parent for chained causes.
type uatError struct {
	code   Code
	msg    string
	parent error
	where  string
}

// Error implements the error interface.
func (e *uatError) Error() string {
	if e == nil {
		return ""
	}
	if e.parent != nil {
		return fmt.Sprintf("%s: %s: %s", e.where, e.msg, e.parent.Error())
	}
	return fmt.Sprintf("%s: %s", e.where, e.msg)
}

// Unwrap makes uatError compatible with errors.Is / errors.As chains.
func (e *uatError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.parent
}

// Code returns the classification of this error.
func (e *uatError) Code() Code {
	if e == nil {
		return Unknown
	}
	return e.code
}

func unwrap(e error) error {
	type unwrapper interface{ Unwrap() error }
	if u, ok := e.(unwrapper); ok {
		return u.Unwrap()
	}
	return nil
}

// New builds an error of the given code, attributed to "where" (typically the
// package/function reporting it), with the code's registered message.
func New(where string, code Code, parent error) error {
	return &uatError{code: code, msg: code.String(), parent: parent, where: where}
}

// Newf is New with a printf-formatted message instead of the registered one.
func Newf(where string, code Code, parent error, format string, args ...interface{}) error {
	return &uatError{code: code, msg: fmt.Sprintf(format, args...), parent: parent, where: where}
}

// NotFoundf is a convenience constructor for the most common case: a lookup miss.
func NotFoundf(where string, format string, args ...interface{}) error {
	return Newf(where, NotFound, nil, format, args...)
}

// Malformedf is a convenience constructor for structural validation failures.
func Malformedf(where string, format string, args ...interface{}) error {
	return Newf(where, Malformed, nil, format, args...)
}

// IOErrorWrap wraps an OS-level error without losing it from the chain.
func IOErrorWrap(where string, parent error) error {
	if parent == nil {
		return nil
	}
	return New(where, IOError, parent)
}

// VersionMismatchf reports a package version newer than this reader supports.
func VersionMismatchf(where string, format string, args ...interface{}) error {
	return Newf(where, VersionMismatch, nil, format, args...)
}

// CodeOf extracts the Code from an error produced by this package, or Unknown
// if err is nil or not one of ours.
func CodeOf(err error) Code {
	for err != nil {
		if u, ok := err.(*uatError); ok {
			return u.code
		}
		err = unwrap(err)
	}
	return Unknown
}
