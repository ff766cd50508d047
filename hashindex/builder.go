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

package hashindex

import (
	"encoding/binary"
)

// Builder accumulates (key, valueIndex) pairs during an archive build and
// emits the three byte blobs (data, hash, hashdata) that Open later maps.
type Builder struct {
	hashSize int
	buckets  [][]builderEntry
	blob     []byte
	offsets  map[string]uint32
}

type builderEntry struct {
	strOffset  uint32
	valueIndex uint32
}

// NewBuilder starts a builder with hashSize buckets (must be a power of two).
func NewBuilder(hashSize int) *Builder {
	return &Builder{
		hashSize: hashSize,
		buckets:  make([][]builderEntry, hashSize),
		offsets:  make(map[string]uint32),
	}
}

// Add interns key into the string blob (deduplicated) and records valueIndex
// in the bucket key hashes to.
func (b *Builder) Add(key string, valueIndex uint32) {
	off, ok := b.offsets[key]
	if !ok {
		off = uint32(len(b.blob))
		b.blob = append(b.blob, key...)
		b.blob = append(b.blob, 0)
		b.offsets[key] = off
	}
	h := Bucket(key, b.hashSize)
	b.buckets[h] = append(b.buckets[h], builderEntry{strOffset: off, valueIndex: valueIndex})
}

// Build serializes the accumulated entries into (data, hash, hashdata), ready
// to be written to the three named package slots.
func (b *Builder) Build() (data, hash, hashdata []byte) {
	hash = make([]byte, b.hashSize*4)
	for i, bucket := range b.buckets {
		off := uint32(len(hashdata))
		binary.LittleEndian.PutUint32(hash[i*4:], off)

		var countBuf [4]byte
		binary.LittleEndian.PutUint32(countBuf[:], uint32(len(bucket)))
		hashdata = append(hashdata, countBuf[:]...)

		for _, e := range bucket {
			var entry [8]byte
			binary.LittleEndian.PutUint32(entry[0:4], e.strOffset)
			binary.LittleEndian.PutUint32(entry[4:8], e.valueIndex)
			hashdata = append(hashdata, entry[:]...)
		}
	}
	return b.blob, hash, hashdata
}
