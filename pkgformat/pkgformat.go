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

package pkgformat

import (
	"encoding/binary"
	"io"

	"github.com/wolfpld/usenetarchive-sub001/filemap"
	"github.com/wolfpld/usenetarchive-sub001/uaterr"
)

// BaselineVersion is the only package version this reader understands.
// §6.1 allows higher versions to append trailing slots; this reader has no
// trailing slots defined yet, so anything above BaselineVersion is a
// VersionMismatch rather than silently truncated.
const BaselineVersion uint8 = 0

// Slots is the fixed, canonical slot order (§6.2: "subset; exact list is the
// builder's canonical output"). All but the two desc_* slots are required to
// be non-empty by a complete archive; readers treat an absent slot as a
// zero-length body either way. midcodec is this builder's addition beyond
// the named subset: the archive's StringCompress host table (Codec.Save),
// without which middata/midhash could not be decoded or searched.
var Slots = []string{
	"desc_short", "desc_long",
	"conndata", "connmeta",
	"lexdata", "lexmeta", "lexhash", "lexhashdata", "lexhit", "lexstr",
	"middata", "midmeta", "midhash", "midhashdata", "midcodec",
	"strings", "strmeta",
	"toplevel",
	"zdata", "zmeta", "zdict",
}

var magic = [7]byte{0x00, 'U', 's', 'e', 'n', 'e', 't'}

func padLen(n int) int {
	return (8 - n%8) % 8
}

// Write serializes bodies (keyed by slot name; a missing key means an empty
// slot) into the package container format and writes it to w.
func Write(w io.Writer, version uint8, bodies map[string][]byte) error {
	var header [8]byte
	copy(header[:7], magic[:])
	header[7] = version
	if _, err := w.Write(header[:]); err != nil {
		return uaterr.IOErrorWrap("pkgformat.Write", err)
	}

	var sizeBuf [8]byte
	for _, name := range Slots {
		binary.LittleEndian.PutUint64(sizeBuf[:], uint64(len(bodies[name])))
		if _, err := w.Write(sizeBuf[:]); err != nil {
			return uaterr.IOErrorWrap("pkgformat.Write", err)
		}
	}

	pad := make([]byte, 8)
	for _, name := range Slots {
		body := bodies[name]
		if len(body) > 0 {
			if _, err := w.Write(body); err != nil {
				return uaterr.IOErrorWrap("pkgformat.Write", err)
			}
		}
		if n := padLen(len(body)); n > 0 {
			if _, err := w.Write(pad[:n]); err != nil {
				return uaterr.IOErrorWrap("pkgformat.Write", err)
			}
		}
	}
	return nil
}

// Package is a parsed, in-memory view over one package file's byte layout:
// slot name to the sub-slice of the mapping that holds its body.
type Package struct {
	raw     *filemap.FileMap[byte]
	version uint8
	slots   map[string][]byte
}

// Open maps fn and parses its header and slot table.
func Open(fn string) (*Package, error) {
	fm, err := filemap.Open[byte](fn, false)
	if err != nil {
		return nil, err
	}
	pkg, err := Parse(fm.View())
	if err != nil {
		return nil, err
	}
	pkg.raw = fm
	return pkg, nil
}

// Parse interprets an already-read (or already-mapped) byte slice as a
// package body, without taking ownership of any file descriptor. Used for
// package bodies assembled in memory (tests, and any future in-process
// builder path).
func Parse(b []byte) (*Package, error) {
	if len(b) < 8 {
		return nil, uaterr.Malformedf("pkgformat.Parse", "header truncated: %d bytes", len(b))
	}
	var gotMagic [7]byte
	copy(gotMagic[:], b[:7])
	if gotMagic != magic {
		return nil, uaterr.Malformedf("pkgformat.Parse", "bad magic %x", gotMagic)
	}
	version := b[7]
	if version > BaselineVersion {
		return nil, uaterr.VersionMismatchf("pkgformat.Parse", "package version %d newer than supported %d", version, BaselineVersion)
	}

	off := 8
	n := len(Slots)
	if off+n*8 > len(b) {
		return nil, uaterr.Malformedf("pkgformat.Parse", "size table truncated")
	}
	sizes := make([]int, n)
	for i := 0; i < n; i++ {
		sizes[i] = int(binary.LittleEndian.Uint64(b[off+i*8 : off+i*8+8]))
	}
	off += n * 8

	slots := make(map[string][]byte, n)
	for i, name := range Slots {
		sz := sizes[i]
		if sz == 0 {
			continue
		}
		if off+sz > len(b) {
			return nil, uaterr.Malformedf("pkgformat.Parse", "slot %q body truncated", name)
		}
		slots[name] = b[off : off+sz]
		off += sz + padLen(sz)
	}
	return &Package{version: version, slots: slots}, nil
}

// Slot returns the named slot's body, or nil if it is absent or empty.
func (p *Package) Slot(name string) []byte {
	return p.slots[name]
}

// Version reports the package's format version.
func (p *Package) Version() uint8 {
	return p.version
}

// Close releases the underlying mapping, if Open (rather than Parse)
// produced this Package.
func (p *Package) Close() error {
	if p == nil || p.raw == nil {
		return nil
	}
	return p.raw.Close()
}
