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

	"github.com/cespare/xxhash/v2"

	"github.com/wolfpld/usenetarchive-sub001/filemap"
)

// Index is the read-side of the fixed open hash. Build it with Open for a
// mapped (data, hash, hashdata) triple, or with FromBytes for an in-memory
// package-body slice (§6.1).
type Index struct {
	data     *filemap.FileMap[byte]
	hash     *filemap.FileMap[uint32]
	hashdata *filemap.FileMap[byte]
	mask     uint32
}

// Open maps the three named files and derives the bucket mask from the size
// of the hash table (a power of two, §4.2).
func Open(dataFn, hashFn, hashdataFn string) (*Index, error) {
	data, err := filemap.Open[byte](dataFn, false)
	if err != nil {
		return nil, err
	}
	hash, err := filemap.Open[uint32](hashFn, false)
	if err != nil {
		return nil, err
	}
	hashdata, err := filemap.Open[byte](hashdataFn, false)
	if err != nil {
		return nil, err
	}
	return New(data, hash, hashdata), nil
}

// New wraps three already-opened maps (used by archive.Open, which shares one
// package-file mapping across several leaves instead of opening each by path).
func New(data *filemap.FileMap[byte], hash *filemap.FileMap[uint32], hashdata *filemap.FileMap[byte]) *Index {
	return &Index{data: data, hash: hash, hashdata: hashdata, mask: uint32(hash.Len() - 1)}
}

// Search hashes key with xxhash, masks into the bucket table, and
// linear-scans the bucket's entries comparing key against the string blob.
// Returns -1 on a miss, matching the original HashSearch::Search contract.
func (idx *Index) Search(key string) int32 {
	if idx == nil || idx.hash.Len() == 0 {
		return -1
	}
	h := uint32(xxhash.Sum64String(key)) & idx.mask
	bucket := idx.hash.At(int(h))

	hd := idx.hashdata.View()
	if int(bucket)+4 > len(hd) {
		return -1
	}
	count := binary.LittleEndian.Uint32(hd[bucket : bucket+4])
	pos := bucket + 4

	blob := idx.data.View()
	for i := uint32(0); i < count; i++ {
		strOffset := binary.LittleEndian.Uint32(hd[pos : pos+4])
		valueIndex := binary.LittleEndian.Uint32(hd[pos+4 : pos+8])
		pos += 8

		if matchesAt(blob, strOffset, key) {
			return int32(valueIndex)
		}
	}
	return -1
}

// matchesAt reports whether the NUL-terminated C string starting at offset
// equals key.
func matchesAt(blob []byte, offset uint32, key string) bool {
	if int(offset)+len(key) > len(blob) {
		return false
	}
	for i := 0; i < len(key); i++ {
		if blob[int(offset)+i] != key[i] {
			return false
		}
	}
	end := int(offset) + len(key)
	return end == len(blob) || blob[end] == 0
}

// Data exposes the raw string blob backing this index, for callers that need
// to enumerate every interned key (e.g. search's fuzzy-match sweep over the
// lexicon's word dictionary) rather than look one up.
func (idx *Index) Data() []byte {
	if idx == nil {
		return nil
	}
	return idx.data.View()
}

// Close releases all three underlying mappings.
func (idx *Index) Close() error {
	if idx == nil {
		return nil
	}
	if err := idx.data.Close(); err != nil {
		return err
	}
	if err := idx.hash.Close(); err != nil {
		return err
	}
	return idx.hashdata.Close()
}

// Bucket computes the bucket index a key would hash into, exposed for
// builders that need to place entries deterministically (§5: single-writer
// output stage).
func Bucket(key string, hashSize int) uint32 {
	return uint32(xxhash.Sum64String(key)) & uint32(hashSize-1)
}
