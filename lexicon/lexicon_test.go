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

package lexicon_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/wolfpld/usenetarchive-sub001/filemap"
	"github.com/wolfpld/usenetarchive-sub001/hashindex"
	"github.com/wolfpld/usenetarchive-sub001/lexicon"
	"github.com/wolfpld/usenetarchive-sub001/textutil"
)

func TestLexicon(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "lexicon suite")
}

var _ = Describe("PackPostID / UnpackPostID", func() {
	It("round-trips a message index and top-of-message weight", func() {
		v := lexicon.PackPostID(12345, 3)
		idx, top := lexicon.UnpackPostID(v)
		Expect(idx).To(Equal(uint32(12345)))
		Expect(top).To(Equal(uint8(3)))
	})

	It("caps top-of-message at 7", func() {
		v := lexicon.PackPostID(1, 200)
		_, top := lexicon.UnpackPostID(v)
		Expect(top).To(Equal(uint8(7)))
	})
})

var _ = Describe("PackHit / UnpackHit", func() {
	It("round-trips a position class and ordinal", func() {
		b := lexicon.PackHit(textutil.PosSubject, 4)
		class, ord := lexicon.UnpackHit(b)
		Expect(class).To(Equal(textutil.PosSubject))
		Expect(ord).To(Equal(4))
	})

	It("saturates the ordinal at 31", func() {
		b := lexicon.PackHit(textutil.PosBodyUnquoted, 999)
		_, ord := lexicon.UnpackHit(b)
		Expect(ord).To(Equal(31))
	})
})

var _ = Describe("Builder / Lookup", func() {
	It("resolves a word to postings sorted by ascending message index", func() {
		b := lexicon.NewBuilder(64)
		b.AddHit("usenet", 5, textutil.PosSubject, 0, 1)
		b.AddHit("usenet", 2, textutil.PosBodyUnquoted, 1, 0)
		b.AddHit("archive", 2, textutil.PosBodyUnquoted, 2, 0)

		lexstr, lexhash, lexhashdata, lexmeta, lexdata, lexhit := b.Build()

		idx := hashindex.New(
			filemap.FromBytes[byte](lexstr),
			filemap.FromBytes[uint32](lexhash),
			filemap.FromBytes[byte](lexhashdata),
		)
		lex := lexicon.New(idx,
			filemap.FromBytes[byte](lexmeta),
			filemap.FromBytes[byte](lexdata),
			filemap.FromBytes[byte](lexhit),
		)

		postings, err := lex.Lookup("usenet")
		Expect(err).ToNot(HaveOccurred())
		Expect(postings).To(HaveLen(2))
		Expect(postings[0].MsgIndex).To(Equal(uint32(2)))
		Expect(postings[1].MsgIndex).To(Equal(uint32(5)))
		Expect(postings[1].TopOfMessage).To(Equal(uint8(1)))
		Expect(postings[1].Hits).To(Equal([]lexicon.Hit{{Class: textutil.PosSubject, Ordinal: 0}}))

		postings, err = lex.Lookup("archive")
		Expect(err).ToNot(HaveOccurred())
		Expect(postings).To(HaveLen(1))
		Expect(postings[0].MsgIndex).To(Equal(uint32(2)))
	})

	It("returns nil for a word that was never indexed", func() {
		b := lexicon.NewBuilder(64)
		b.AddHit("usenet", 0, textutil.PosSubject, 0, 0)
		lexstr, lexhash, lexhashdata, lexmeta, lexdata, lexhit := b.Build()

		idx := hashindex.New(
			filemap.FromBytes[byte](lexstr),
			filemap.FromBytes[uint32](lexhash),
			filemap.FromBytes[byte](lexhashdata),
		)
		lex := lexicon.New(idx,
			filemap.FromBytes[byte](lexmeta),
			filemap.FromBytes[byte](lexdata),
			filemap.FromBytes[byte](lexhit),
		)

		postings, err := lex.Lookup("missing")
		Expect(err).ToNot(HaveOccurred())
		Expect(postings).To(BeEmpty())
	})
})
