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

package strtab

import (
	"bytes"
	"encoding/binary"

	"github.com/wolfpld/usenetarchive-sub001/filemap"
	"github.com/wolfpld/usenetarchive-sub001/metaview"
	"github.com/wolfpld/usenetarchive-sub001/uaterr"
)

// Table is the read-side author/subject string table.
type Table struct {
	view *metaview.MetaView[uint32, byte]
}

// Open maps the strmeta/strings file pair.
func Open(metaFn, dataFn string) (*Table, error) {
	v, err := metaview.Open[uint32, byte](metaFn, dataFn)
	if err != nil {
		return nil, err
	}
	return &Table{view: v}, nil
}

// New wraps a MetaView already composed from in-memory or package-sliced
// FileMaps (see metaview.New), used by the archive façade when it opens from
// a single package body instead of loose files.
func New(meta *filemap.FileMap[uint32], data *filemap.FileMap[byte]) *Table {
	return &Table{view: metaview.New(meta, data)}
}

// Len returns the number of messages covered (strmeta has 2 entries/message).
func (t *Table) Len() int {
	n := t.view.Size()
	return n / 2
}

func (t *Table) stringAt(slot int) string {
	if slot >= t.view.Size() {
		return ""
	}
	raw := t.view.Get(slot)
	end := bytes.IndexByte(raw, 0)
	if end < 0 {
		end = len(raw)
	}
	return string(raw[:end])
}

// GetFrom returns message i's interned author string.
func (t *Table) GetFrom(i int) string { return t.stringAt(i * 2) }

// GetSubject returns message i's interned subject string.
func (t *Table) GetSubject(i int) string { return t.stringAt(i*2 + 1) }

// Close releases the underlying mapping.
func (t *Table) Close() error { return t.view.Close() }

// Builder interns From/Subject pairs in message-index order and serializes
// the strmeta+strings byte pair build tools write to disk.
type Builder struct {
	blob []byte
	meta []uint32
}

// Add interns message i's From and Subject strings, in order; callers must
// call Add once per message index, in ascending order, matching the final
// archive layout.
func (b *Builder) Add(from, subject string) {
	b.meta = append(b.meta, uint32(len(b.blob)))
	b.blob = append(b.blob, from...)
	b.blob = append(b.blob, 0)
	b.meta = append(b.meta, uint32(len(b.blob)))
	b.blob = append(b.blob, subject...)
	b.blob = append(b.blob, 0)
}

// Build serializes the accumulated table into the on-disk meta+data pair.
func (b *Builder) Build() (meta, data []byte) {
	meta = make([]byte, len(b.meta)*4)
	for i, v := range b.meta {
		binary.LittleEndian.PutUint32(meta[i*4:i*4+4], v)
	}
	return meta, b.blob
}

// ErrTruncated describes a strmeta array with an odd entry count. Nothing in
// this package returns it: Open does not check the count, and Len rounds an
// odd count down.
var ErrTruncated = uaterr.Malformedf("strtab.Open", "strmeta entry count is not a multiple of 2")
