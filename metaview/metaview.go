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

package metaview

import (
	"unsafe"

	"github.com/wolfpld/usenetarchive-sub001/filemap"
)

// Offset is the set of integer widths the meta array may use to store byte
// offsets into the data blob (u32 everywhere in this format, per §4.2).
type Offset interface {
	~uint32 | ~int32
}

// MetaView composes meta (an array of byte offsets) with data (the blob those
// offsets index into). meta[i] is a byte offset; Get divides it by sizeof(Data)
// to land on the right element, matching the C++ MetaView<MetaT,DataT>.
type MetaView[M Offset, D any] struct {
	meta *filemap.FileMap[M]
	data *filemap.FileMap[D]
}

// Open maps metaFn and dataFn and pairs them into a MetaView.
func Open[M Offset, D any](metaFn, dataFn string) (*MetaView[M, D], error) {
	m, err := filemap.Open[M](metaFn, false)
	if err != nil {
		return nil, err
	}
	d, err := filemap.Open[D](dataFn, false)
	if err != nil {
		return nil, err
	}
	return &MetaView[M, D]{meta: m, data: d}, nil
}

// New pairs two already-opened FileMaps, for callers slicing a package body
// (§6.1) with filemap.FromBytes instead of opening separate files.
func New[M Offset, D any](meta *filemap.FileMap[M], data *filemap.FileMap[D]) *MetaView[M, D] {
	return &MetaView[M, D]{meta: meta, data: data}
}

// Size returns the number of records (length of the meta array).
func (v *MetaView[M, D]) Size() int {
	if v == nil || v.meta == nil {
		return 0
	}
	return v.meta.Len()
}

// Get returns a zero-copy slice into data starting at record idx's offset and
// running to the end of the blob; callers that know a record's length slice
// it down further (see lexicon and connectivity, which self-describe length).
func (v *MetaView[M, D]) Get(idx int) []D {
	var zero D
	elemSize := M(unsafe.Sizeof(zero))
	off := v.meta.At(idx) / elemSize
	return v.data.View()[off:]
}

// Data exposes the underlying blob directly, equivalent to the original's
// `operator const Data*()` fallthrough used by callers that index it raw.
func (v *MetaView[M, D]) Data() []D {
	if v == nil || v.data == nil {
		return nil
	}
	return v.data.View()
}

// Close releases both underlying mappings.
func (v *MetaView[M, D]) Close() error {
	if v == nil {
		return nil
	}
	if err := v.meta.Close(); err != nil {
		return err
	}
	return v.data.Close()
}
