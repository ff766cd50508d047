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

package midtable

import (
	"encoding/binary"

	"github.com/wolfpld/usenetarchive-sub001/hashindex"
	"github.com/wolfpld/usenetarchive-sub001/stringcompress"
)

type bucketEntry struct {
	strOffset  uint32
	valueIndex uint32
}

// Builder accumulates one archive's Message-IDs, in message-index order, and
// serializes midmeta/middata/midhash/midhashdata in one pass. Only the first
// occurrence of a well-formed Message-ID is hashed, so a repeated id resolves
// back to the message that introduced it (spec's build-scenario note on
// duplicate ids).
type Builder struct {
	hashSize  int
	packed    [][]byte
	indexable []bool
	firstSeen map[string]bool
}

// NewBuilder starts a table builder whose hash has hashSize buckets (a power
// of two).
func NewBuilder(hashSize int) *Builder {
	return &Builder{hashSize: hashSize, firstSeen: make(map[string]bool)}
}

// Add packs msgid with codec and records it as message index len(Add calls).
func (b *Builder) Add(msgid string, codec *stringcompress.Codec) error {
	packed, err := codec.PackString(msgid)
	if err != nil {
		return err
	}
	b.packed = append(b.packed, packed)

	key := string(packed[:len(packed)-1])
	indexable := stringcompress.IsMsgId(msgid) && !b.firstSeen[key]
	if indexable {
		b.firstSeen[key] = true
	}
	b.indexable = append(b.indexable, indexable)
	return nil
}

// Build serializes the accumulated ids into the four on-disk byte blobs.
func (b *Builder) Build() (midmeta, middata, midhash, midhashdata []byte) {
	meta := make([]byte, len(b.packed)*4)
	var data []byte
	buckets := make([][]bucketEntry, b.hashSize)

	for i, p := range b.packed {
		off := uint32(len(data))
		binary.LittleEndian.PutUint32(meta[i*4:i*4+4], off)
		data = append(data, p...)

		if b.indexable[i] {
			key := string(p[:len(p)-1])
			h := hashindex.Bucket(key, b.hashSize)
			buckets[h] = append(buckets[h], bucketEntry{strOffset: off, valueIndex: uint32(i)})
		}
	}

	hash := make([]byte, b.hashSize*4)
	var hashdata []byte
	for i, bucket := range buckets {
		hoff := uint32(len(hashdata))
		binary.LittleEndian.PutUint32(hash[i*4:i*4+4], hoff)

		var countBuf [4]byte
		binary.LittleEndian.PutUint32(countBuf[:], uint32(len(bucket)))
		hashdata = append(hashdata, countBuf[:]...)

		for _, e := range bucket {
			var rec [8]byte
			binary.LittleEndian.PutUint32(rec[0:4], e.strOffset)
			binary.LittleEndian.PutUint32(rec[4:8], e.valueIndex)
			hashdata = append(hashdata, rec[:]...)
		}
	}

	return meta, data, hash, hashdata
}
