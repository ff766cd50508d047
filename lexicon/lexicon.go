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

package lexicon

import (
	"encoding/binary"

	"github.com/wolfpld/usenetarchive-sub001/filemap"
	"github.com/wolfpld/usenetarchive-sub001/hashindex"
	"github.com/wolfpld/usenetarchive-sub001/textutil"
	"github.com/wolfpld/usenetarchive-sub001/uaterr"
)

// Hit is one occurrence of a word within a message: its position class and
// in-class ordinal.
type Hit struct {
	Class   textutil.PositionClass
	Ordinal int
}

// Posting is one (word, message) occurrence: the message index, the
// top-of-message weight, and the decoded hit list.
type Posting struct {
	MsgIndex     uint32
	TopOfMessage uint8
	Hits         []Hit
}

// wordMeta mirrors one lexmeta entry: {dataOffset, dataSize} into lexdata.
type wordMeta struct {
	dataOffset uint32
	dataSize   uint32
}

// Lexicon is the read-side inverted index.
type Lexicon struct {
	hash *hashindex.Index // over lexstr/lexhash/lexhashdata
	meta *filemap.FileMap[byte] // lexmeta, 8 bytes/entry
	data *filemap.FileMap[byte] // lexdata, 8 bytes/posting (postid u32 + hitoffset u32)
	hit  *filemap.FileMap[byte] // lexhit
}

// Open maps the lexicon's six files.
func Open(lexstrFn, lexhashFn, lexhashdataFn, lexmetaFn, lexdataFn, lexhitFn string) (*Lexicon, error) {
	idx, err := hashindex.Open(lexstrFn, lexhashFn, lexhashdataFn)
	if err != nil {
		return nil, err
	}
	meta, err := filemap.Open[byte](lexmetaFn, false)
	if err != nil {
		return nil, err
	}
	data, err := filemap.Open[byte](lexdataFn, false)
	if err != nil {
		return nil, err
	}
	hit, err := filemap.Open[byte](lexhitFn, false)
	if err != nil {
		return nil, err
	}
	return New(idx, meta, data, hit), nil
}

// New composes an already-built hashindex.Index with the meta/data/hit maps,
// for archive.Open's shared-mapping bookkeeping.
func New(hash *hashindex.Index, meta, data, hit *filemap.FileMap[byte]) *Lexicon {
	return &Lexicon{hash: hash, meta: meta, data: data, hit: hit}
}

func (l *Lexicon) wordMetaAt(wordIndex int) (wordMeta, bool) {
	b := l.meta.View()
	off := wordIndex * 8
	if off+8 > len(b) {
		return wordMeta{}, false
	}
	return wordMeta{
		dataOffset: binary.LittleEndian.Uint32(b[off : off+4]),
		dataSize:   binary.LittleEndian.Uint32(b[off+4 : off+8]),
	}, true
}

// Lookup resolves a normalized word to its posting list, sorted by
// ascending message index (spec §3.5 invariant).
func (l *Lexicon) Lookup(word string) ([]Posting, error) {
	wordIndex := l.hash.Search(word)
	if wordIndex < 0 {
		return nil, nil
	}
	wm, ok := l.wordMetaAt(int(wordIndex))
	if !ok {
		return nil, uaterr.Malformedf("lexicon.Lookup", "word index %d has no lexmeta entry", wordIndex)
	}

	data := l.data.View()
	start := int(wm.dataOffset)
	n := int(wm.dataSize)
	if start+n*8 > len(data) {
		return nil, uaterr.Malformedf("lexicon.Lookup", "word %q postings exceed lexdata", word)
	}

	out := make([]Posting, n)
	hitBlob := l.hit.View()
	for i := 0; i < n; i++ {
		rec := data[start+i*8 : start+i*8+8]
		postid := binary.LittleEndian.Uint32(rec[0:4])
		hitOffset := binary.LittleEndian.Uint32(rec[4:8])
		msgIndex, top := UnpackPostID(postid)

		hits, err := decodeHits(hitBlob, hitOffset)
		if err != nil {
			return nil, err
		}
		out[i] = Posting{MsgIndex: msgIndex, TopOfMessage: top, Hits: hits}
	}
	return out, nil
}

func decodeHits(blob []byte, offset uint32) ([]Hit, error) {
	if int(offset) >= len(blob) {
		return nil, uaterr.Malformedf("lexicon.decodeHits", "hit offset %d out of range", offset)
	}
	count := int(blob[offset])
	start := int(offset) + 1
	if start+count > len(blob) {
		return nil, uaterr.Malformedf("lexicon.decodeHits", "hit list at %d truncated", offset)
	}
	hits := make([]Hit, count)
	for i := 0; i < count; i++ {
		class, ordinal := UnpackHit(blob[start+i])
		hits[i] = Hit{Class: class, Ordinal: ordinal}
	}
	return hits, nil
}

// Words returns every indexed word in ascending lexicographic order, by
// splitting the hash index's string blob on its NUL terminators. The order
// matches lexmeta's word-index order because Builder.Build adds words to the
// hash index in the same sorted pass that assigns those indices. Callers use
// this for fuzzy/prefix sweeps that a hash lookup alone cannot do.
func (l *Lexicon) Words() []string {
	blob := l.hash.Data()
	var words []string
	start := 0
	for i, b := range blob {
		if b == 0 {
			words = append(words, string(blob[start:i]))
			start = i + 1
		}
	}
	return words
}

// Close releases all underlying mappings.
func (l *Lexicon) Close() error {
	if err := l.hash.Close(); err != nil {
		return err
	}
	if err := l.meta.Close(); err != nil {
		return err
	}
	if err := l.data.Close(); err != nil {
		return err
	}
	return l.hit.Close()
}
