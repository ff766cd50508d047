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

package textutil_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/wolfpld/usenetarchive-sub001/textutil"
)

func TestTextutil(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "textutil suite")
}

var _ = Describe("KillRe", func() {
	It("strips repeated, possibly-stacked reply prefixes", func() {
		Expect(textutil.KillRe("Re: Re: Odp: hello world")).To(Equal("hello world"))
	})

	It("leaves a subject with no reply prefix untouched", func() {
		Expect(textutil.KillRe("hello world")).To(Equal("hello world"))
	})
})

var _ = Describe("QuotationLevel", func() {
	It("is zero for plain text", func() {
		Expect(textutil.QuotationLevel("just some text")).To(Equal(0))
	})

	It("counts leading '>' markers", func() {
		Expect(textutil.QuotationLevel(">> quoted twice")).To(Equal(2))
	})

	It("counts leading '|' markers", func() {
		Expect(textutil.QuotationLevel("| quoted once")).To(Equal(1))
	})

	It("stops at a smiley and does not count its colon", func() {
		Expect(textutil.QuotationLevel(":) hi")).To(Equal(0))
	})

	It("treats a letter-coded quote prefix like jd> as a quote marker", func() {
		Expect(textutil.QuotationLevel("jd> quoted by initials")).To(Equal(1))
	})
})

var _ = Describe("DetectWrote", func() {
	It("recognizes an unquoted attribution line followed by a quoted line", func() {
		body := "replying inline\nAlice wrote:\n> original text\nmy reply\n"
		Expect(textutil.DetectWrote(body)).To(Equal(2))
	})

	It("recognizes an unquoted line directly followed by a quoted line", func() {
		body := "my reply text\n> quoted original\n"
		Expect(textutil.DetectWrote(body)).To(Equal(1))
	})

	It("returns zero when the very first line is already quoted", func() {
		body := "> someone else's text\nmy reply\n"
		Expect(textutil.DetectWrote(body)).To(Equal(0))
	})

	It("returns zero for plain unquoted text", func() {
		Expect(textutil.DetectWrote("just a message\nwith no quotes\n")).To(Equal(0))
	})
})

var _ = Describe("FindURL", func() {
	It("finds an http URL", func() {
		text := "see http://example.com/path for details"
		start, end, ok := textutil.FindURL(text, 0)
		Expect(ok).To(BeTrue())
		Expect(start).To(Equal(4))
		Expect(text[start:end]).To(Equal("http://example.com/path"))
	})

	It("trims trailing punctuation", func() {
		_, e, ok := textutil.FindURL("visit http://example.com.", 0)
		Expect(ok).To(BeTrue())
		Expect(e).To(BeNumerically("<", len("visit http://example.com.")))
	})

	It("reports no match when there is no URL", func() {
		_, _, ok := textutil.FindURL("no links here", 0)
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("ClassifyBody", func() {
	It("tags the opening paragraph as body-top and a later paragraph as unquoted", func() {
		body := "first reply paragraph\nstill talking\n\n> quoted stuff\n\nsecond unquoted paragraph\n"
		classes := textutil.ClassifyBody(body)
		Expect(classes[0]).To(Equal(textutil.PosBodyTop))
		Expect(classes[3]).To(Equal(textutil.PosBodyQuotedLow))
		Expect(classes[5]).To(Equal(textutil.PosBodyUnquoted))
	})

	It("tags everything from a '-- ' line onward as signature", func() {
		body := "body text\n-- \nAlice\nhttp://example.com\n"
		classes := textutil.ClassifyBody(body)
		Expect(classes[1]).To(Equal(textutil.PosSignature))
		Expect(classes[2]).To(Equal(textutil.PosSignature))
		Expect(classes[3]).To(Equal(textutil.PosSignature))
	})
})
