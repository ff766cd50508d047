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

// Package uat holds the dense types every other package indexes messages
// with, and re-exports uaterr so callers outside the leaf packages only need
// one import for "what index is this" and "what went wrong".
package uat

import "github.com/wolfpld/usenetarchive-sub001/uaterr"

// MsgIndex is a dense, archive-local message position: the same uint32 every
// leaf package (connectivity, midtable, strtab, lexicon, search) already
// indexes by, named so call sites stop re-deriving what a bare uint32 means.
type MsgIndex = uint32

// GlobalIndex is a dense position in a galaxy's merged Message-ID catalog,
// distinct from MsgIndex only so a caller can't mix up "local to an archive"
// and "global to a galaxy" without the compiler noticing a parameter name.
type GlobalIndex = uint32

// Code re-exports uaterr.Code so callers that only need to classify an error
// (not construct one) don't need a second import.
type Code = uaterr.Code

const (
	Unknown         = uaterr.Unknown
	NotFound        = uaterr.NotFound
	Malformed       = uaterr.Malformed
	Unavailable     = uaterr.Unavailable
	IOError         = uaterr.IOError
	VersionMismatch = uaterr.VersionMismatch
)

var (
	New              = uaterr.New
	Newf             = uaterr.Newf
	NotFoundf        = uaterr.NotFoundf
	Malformedf       = uaterr.Malformedf
	IOErrorWrap      = uaterr.IOErrorWrap
	VersionMismatchf = uaterr.VersionMismatchf
	CodeOf           = uaterr.CodeOf
)
