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
	"sort"

	"github.com/wolfpld/usenetarchive-sub001/hashindex"
	"github.com/wolfpld/usenetarchive-sub001/textutil"
)

// wordEntry accumulates one word's postings during a build, indexed by
// message so repeated occurrences within one message merge into one
// posting's hit list instead of duplicating it.
type wordEntry struct {
	order    []uint32 // message indices, in first-seen order
	postings map[uint32]*postingBuild
}

type postingBuild struct {
	topOfMessage uint8
	hits         []Hit
}

// Builder accumulates word occurrences message-by-message during an archive
// build and serializes the six lexicon files in one pass (spec §5:
// single-writer output stage; word postings must end up sorted by ascending
// message index per word, spec §3.5).
type Builder struct {
	hashSize int
	words    map[string]*wordEntry
	order    []string // words, in first-seen order; re-sorted at Build time
}

// NewBuilder starts a lexicon builder whose word hash table has hashSize
// buckets (a power of two).
func NewBuilder(hashSize int) *Builder {
	return &Builder{hashSize: hashSize, words: make(map[string]*wordEntry)}
}

// AddHit records one occurrence of word in message msgIndex at the given
// position class and ordinal. topOfMessage is the per-message "first few
// body tokens" weight (spec §4.5), recorded once per (word, message) pair.
func (b *Builder) AddHit(word string, msgIndex uint32, class textutil.PositionClass, ordinal int, topOfMessage uint8) {
	we, ok := b.words[word]
	if !ok {
		we = &wordEntry{postings: make(map[uint32]*postingBuild)}
		b.words[word] = we
		b.order = append(b.order, word)
	}
	pb, ok := we.postings[msgIndex]
	if !ok {
		pb = &postingBuild{topOfMessage: topOfMessage}
		we.postings[msgIndex] = pb
		we.order = append(we.order, msgIndex)
	}
	if len(pb.hits) < 255 {
		pb.hits = append(pb.hits, Hit{Class: class, Ordinal: ordinal})
	}
}

// Build serializes the accumulated words into the six on-disk byte blobs:
// lexstr, lexhash, lexhashdata (the word hash index), lexmeta, lexdata and
// lexhit.
func (b *Builder) Build() (lexstr, lexhash, lexhashdata, lexmeta, lexdata, lexhit []byte) {
	words := append([]string(nil), b.order...)
	sort.Strings(words)

	hb := hashindex.NewBuilder(b.hashSize)
	var meta []byte
	var data []byte
	var hit []byte

	for wordIndex, word := range words {
		hb.Add(word, uint32(wordIndex))

		we := b.words[word]
		msgIndices := append([]uint32(nil), we.order...)
		sort.Slice(msgIndices, func(i, j int) bool { return msgIndices[i] < msgIndices[j] })

		dataOffset := uint32(len(data))
		for _, msgIndex := range msgIndices {
			pb := we.postings[msgIndex]
			postid := PackPostID(msgIndex, pb.topOfMessage)
			hitOffset := uint32(len(hit))

			hit = append(hit, byte(len(pb.hits)))
			for _, h := range pb.hits {
				hit = append(hit, PackHit(h.Class, h.Ordinal))
			}

			var rec [8]byte
			binary.LittleEndian.PutUint32(rec[0:4], postid)
			binary.LittleEndian.PutUint32(rec[4:8], hitOffset)
			data = append(data, rec[:]...)
		}

		var metaRec [8]byte
		binary.LittleEndian.PutUint32(metaRec[0:4], dataOffset)
		binary.LittleEndian.PutUint32(metaRec[4:8], uint32(len(msgIndices)))
		meta = append(meta, metaRec[:]...)
	}

	lexstr, lexhash, lexhashdata = hb.Build()
	return lexstr, lexhash, lexhashdata, meta, data, hit
}
