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

package msgstore

import (
	"encoding/binary"

	"github.com/wolfpld/usenetarchive-sub001/filemap"
	"github.com/wolfpld/usenetarchive-sub001/uaterr"
)

// Record is the per-message metadata entry: offset, size, compressedSize
// (spec §3.4). 16 bytes, matching the original {u64,u32,u32} layout.
type Record struct {
	Offset         uint64
	Size           uint32
	CompressedSize uint32
}

// Store is the common contract both codecs implement (spec §4.3 / §9).
type Store interface {
	// Len returns the number of messages in the store.
	Len() int
	// Raw returns a zero-copy view of message i's compressed bytes, without
	// decompressing, plus its uncompressed size.
	Raw(i int) (compressed []byte, size uint32, err error)
	// GetMessage decompresses message i into buf (grown if needed) and
	// returns the decompressed bytes. buf is caller-owned so concurrent
	// readers each bring their own scratch space (spec §5).
	GetMessage(i int, buf []byte) ([]byte, error)
	// Close releases the underlying mappings.
	Close() error
}

func loadMeta(meta *filemap.FileMap[byte]) []Record {
	raw := meta.View()
	n := len(raw) / 16
	out := make([]Record, n)
	for i := 0; i < n; i++ {
		b := raw[i*16 : i*16+16]
		out[i] = Record{
			Offset:         binary.LittleEndian.Uint64(b[0:8]),
			Size:           binary.LittleEndian.Uint32(b[8:12]),
			CompressedSize: binary.LittleEndian.Uint32(b[12:16]),
		}
	}
	return out
}

// EncodeMeta serializes a Record slice into the on-disk meta/zmeta layout,
// for build tools assembling a package (spec §6.1).
func EncodeMeta(records []Record) []byte {
	out := make([]byte, len(records)*16)
	for i, r := range records {
		b := out[i*16 : i*16+16]
		binary.LittleEndian.PutUint64(b[0:8], r.Offset)
		binary.LittleEndian.PutUint32(b[8:12], r.Size)
		binary.LittleEndian.PutUint32(b[12:16], r.CompressedSize)
	}
	return out
}

func rawAt(data []byte, records []Record, i int) ([]byte, uint32, error) {
	if i < 0 || i >= len(records) {
		return nil, 0, uaterr.NotFoundf("msgstore.Raw", "message index %d out of range [0,%d)", i, len(records))
	}
	r := records[i]
	end := r.Offset + uint64(r.CompressedSize)
	if end > uint64(len(data)) {
		return nil, 0, uaterr.Malformedf("msgstore.Raw", "message %d compressed span exceeds blob", i)
	}
	return data[r.Offset:end], r.Size, nil
}

func growBuf(buf []byte, need int) []byte {
	if cap(buf) >= need {
		return buf[:need]
	}
	return make([]byte, need)
}
