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

package search_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/wolfpld/usenetarchive-sub001/filemap"
	"github.com/wolfpld/usenetarchive-sub001/hashindex"
	"github.com/wolfpld/usenetarchive-sub001/lexicon"
	"github.com/wolfpld/usenetarchive-sub001/search"
	"github.com/wolfpld/usenetarchive-sub001/textutil"
)

func TestSearch(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "search suite")
}

var _ = Describe("Tokenize", func() {
	It("lowercases and splits on non-alphanumeric, keeping intra-word hyphens", func() {
		Expect(search.Tokenize("Usenet Archive, ready-to-read!")).To(Equal(
			[]string{"usenet", "archive", "ready-to-read"}))
	})

	It("discards tokens shorter than three or longer than thirteen characters", func() {
		Expect(search.Tokenize("ab usenet to clarification andthenonemorewordtoolong")).To(Equal(
			[]string{"usenet", "clarification"}))
	})
})

func buildLexicon(hits func(b *lexicon.Builder)) *lexicon.Lexicon {
	b := lexicon.NewBuilder(64)
	hits(b)
	lexstr, lexhash, lexhashdata, lexmeta, lexdata, lexhit := b.Build()
	idx := hashindex.New(
		filemap.FromBytes[byte](lexstr),
		filemap.FromBytes[uint32](lexhash),
		filemap.FromBytes[byte](lexhashdata),
	)
	return lexicon.New(idx,
		filemap.FromBytes[byte](lexmeta),
		filemap.FromBytes[byte](lexdata),
		filemap.FromBytes[byte](lexhit),
	)
}

var _ = Describe("Search", func() {
	It("ranks a subject hit above a quoted-body hit", func() {
		lex := buildLexicon(func(b *lexicon.Builder) {
			b.AddHit("usenet", 1, textutil.PosSubject, 0, 1)
			b.AddHit("usenet", 2, textutil.PosBodyQuotedLow, 3, 0)
		})

		res, err := search.Search(lex, "usenet", 0)
		Expect(err).ToNot(HaveOccurred())
		Expect(res.Total).To(Equal(2))
		Expect(res.Entries[0].MsgIndex).To(Equal(uint32(1)))
		Expect(res.Entries[1].MsgIndex).To(Equal(uint32(2)))
		Expect(res.Entries[0].Rank).To(BeNumerically(">", res.Entries[1].Rank))
	})

	It("rewards adjacent matched words under AdjacentWords", func() {
		lex := buildLexicon(func(b *lexicon.Builder) {
			b.AddHit("usenet", 1, textutil.PosBodyUnquoted, 5, 0)
			b.AddHit("archive", 1, textutil.PosBodyUnquoted, 6, 0)
			b.AddHit("usenet", 2, textutil.PosBodyUnquoted, 0, 0)
			b.AddHit("archive", 2, textutil.PosBodyUnquoted, 20, 0)
		})

		res, err := search.Search(lex, "usenet archive", search.AdjacentWords)
		Expect(err).ToNot(HaveOccurred())
		Expect(res.MatchedTerms).To(Equal(2))
		Expect(res.Entries[0].MsgIndex).To(Equal(uint32(1)))
		Expect(res.Entries[0].Rank).To(BeNumerically(">", res.Entries[1].Rank))
	})

	It("excludes postings missing a required term under SetLogic", func() {
		lex := buildLexicon(func(b *lexicon.Builder) {
			b.AddHit("usenet", 1, textutil.PosSubject, 0, 1)
			b.AddHit("archive", 1, textutil.PosSubject, 1, 1)
			b.AddHit("usenet", 2, textutil.PosSubject, 0, 1)
		})

		res, err := search.Search(lex, "usenet archive", search.SetLogic)
		Expect(err).ToNot(HaveOccurred())
		Expect(res.Total).To(Equal(1))
		Expect(res.Entries[0].MsgIndex).To(Equal(uint32(1)))
	})

	It("matches a fuzzy neighbor at half weight", func() {
		lex := buildLexicon(func(b *lexicon.Builder) {
			b.AddHit("archives", 7, textutil.PosSubject, 0, 1)
		})

		res, err := search.Search(lex, "archive", search.FuzzySearch)
		Expect(err).ToNot(HaveOccurred())
		Expect(res.Total).To(Equal(1))
		Expect(res.Entries[0].MatchedWords).To(ConsistOf("archive"))
		Expect(res.Entries[0].Rank).To(Equal(2.5))
	})

	It("returns an empty result when no query term is indexed", func() {
		lex := buildLexicon(func(b *lexicon.Builder) {
			b.AddHit("usenet", 1, textutil.PosSubject, 0, 1)
		})

		res, err := search.Search(lex, "missing", 0)
		Expect(err).ToNot(HaveOccurred())
		Expect(res.Total).To(Equal(0))
		Expect(res.MatchedTerms).To(Equal(0))
		Expect(res.TotalTerms).To(Equal(1))
	})
})
