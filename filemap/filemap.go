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

package filemap

import (
	"os"
	"unsafe"

	"github.com/xujiajun/mmap-go"

	"github.com/wolfpld/usenetarchive-sub001/uaterr"
)

// FileMap memory-maps a file read-only and exposes it as a slice of T of
// length file_size / sizeof(T). The zero value is not usable; build one with
// Open.
type FileMap[T any] struct {
	raw  mmap.MMap
	view []T
}

// Open maps fn read-only. If mayFail is true and the file does not exist, Open
// returns a zero-length, usable FileMap instead of an error — mirroring the
// original FileMap<T>(fn, mayFail) constructor for optional package slots.
func Open[T any](fn string, mayFail bool) (*FileMap[T], error) {
	f, err := os.Open(fn)
	if err != nil {
		if mayFail && os.IsNotExist(err) {
			return &FileMap[T]{}, nil
		}
		return nil, uaterr.IOErrorWrap("filemap.Open", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, uaterr.IOErrorWrap("filemap.Open", err)
	}
	if st.Size() == 0 {
		return &FileMap[T]{}, nil
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, uaterr.IOErrorWrap("filemap.Open", err)
	}

	var zero T
	elemSize := int(unsafe.Sizeof(zero))
	n := len(m) / elemSize
	var view []T
	if n > 0 {
		view = unsafe.Slice((*T)(unsafe.Pointer(&m[0])), n)
	}
	return &FileMap[T]{raw: m, view: view}, nil
}

// FromBytes builds a FileMap over an already-read byte slice (used to slice a
// package body, §6.1, into a typed view without a second file descriptor).
func FromBytes[T any](b []byte) *FileMap[T] {
	if len(b) == 0 {
		return &FileMap[T]{}
	}
	var zero T
	elemSize := int(unsafe.Sizeof(zero))
	n := len(b) / elemSize
	var view []T
	if n > 0 {
		view = unsafe.Slice((*T)(unsafe.Pointer(&b[0])), n)
	}
	return &FileMap[T]{view: view}
}

// Close releases the mapping, if any. Safe to call on a mayFail-empty map.
func (f *FileMap[T]) Close() error {
	if f == nil || f.raw == nil {
		return nil
	}
	return f.raw.Unmap()
}

// Len returns the number of elements of type T in the mapping.
func (f *FileMap[T]) Len() int {
	if f == nil {
		return 0
	}
	return len(f.view)
}

// At returns element i. Callers must check bounds via Len; this mirrors the
// original's raw pointer-arithmetic contract rather than adding panics on a
// read path that is expected to be already index-checked by its caller.
func (f *FileMap[T]) At(i int) T {
	return f.view[i]
}

// Slice returns a zero-copy sub-slice [i:j) of the mapping.
func (f *FileMap[T]) Slice(i, j int) []T {
	return f.view[i:j]
}

// View returns the whole mapping as a slice, equivalent to the original's
// `operator const T*()` implicit pointer conversion.
func (f *FileMap[T]) View() []T {
	if f == nil {
		return nil
	}
	return f.view
}
