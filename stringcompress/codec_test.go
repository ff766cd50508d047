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

package stringcompress_test

import (
	"testing"

	"github.com/wolfpld/usenetarchive-sub001/stringcompress"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestStringCompress(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "stringcompress suite")
}

var _ = Describe("Pack/Unpack", func() {
	It("round-trips a Message-ID after the host is registered (spec scenario 2)", func() {
		c, err := stringcompress.New([]string{"example.com"})
		Expect(err).ToNot(HaveOccurred())

		const msg = "abc$1@example.com"
		packed, err := c.PackString(msg)
		Expect(err).ToNot(HaveOccurred())
		Expect(c.Unpack(packed)).To(Equal(msg))
	})

	It("round-trips a broad set of well-formed Message-IDs", func() {
		hosts := []string{"example.com", "news.example.org", "x", "slrnpull.host"}
		c, err := stringcompress.New(hosts)
		Expect(err).ToNot(HaveOccurred())

		ids := []string{
			"a@x",
			"unique.id.123@example.com",
			"msg$1$2@news.example.org",
			"12345.67890@slrnpull.host",
			"plain-ascii-id@unseen-host.invalid",
		}
		for _, id := range ids {
			packed, err := c.PackString(id)
			Expect(err).ToNot(HaveOccurred())
			Expect(c.Unpack(packed)).To(Equal(id))
		}
	})

	It("falls back to a literal host when the host is unregistered", func() {
		c, err := stringcompress.New([]string{"known.example"})
		Expect(err).ToNot(HaveOccurred())

		const msg = "a@unknown.example"
		packed, err := c.PackString(msg)
		Expect(err).ToNot(HaveOccurred())
		Expect(c.Unpack(packed)).To(Equal(msg))
	})

	It("rejects out-of-range literal bytes on Pack", func() {
		c, err := stringcompress.New(nil)
		Expect(err).ToNot(HaveOccurred())
		buf := make([]byte, 16)
		_, err = c.Pack("bad\x01id@host", buf)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Repack across codecs", func() {
	It("is lossless when moving a Message-ID between two archive codecs", func() {
		src, err := stringcompress.New([]string{"src-host.example"})
		Expect(err).ToNot(HaveOccurred())
		dst, err := stringcompress.New([]string{"dst-host.example", "src-host.example"})
		Expect(err).ToNot(HaveOccurred())

		const msg = "thread-id$7@src-host.example"
		packedSrc, err := src.PackString(msg)
		Expect(err).ToNot(HaveOccurred())

		packedDst, err := dst.Repack(packedSrc, src)
		Expect(err).ToNot(HaveOccurred())
		Expect(dst.Unpack(packedDst)).To(Equal(msg))
	})
})

var _ = Describe("IsMsgId", func() {
	It("accepts a well-formed unique@host id", func() {
		Expect(stringcompress.IsMsgId("thread-id$7@example.com")).To(BeTrue())
	})

	It("rejects ids with no @, more than one @, or angle brackets", func() {
		Expect(stringcompress.IsMsgId("nohost")).To(BeFalse())
		Expect(stringcompress.IsMsgId("a@b@c")).To(BeFalse())
		Expect(stringcompress.IsMsgId("<id@host>")).To(BeFalse())
		Expect(stringcompress.IsMsgId("@host")).To(BeFalse())
		Expect(stringcompress.IsMsgId("id@")).To(BeFalse())
	})
})

var _ = Describe("Save/Load", func() {
	It("preserves host resolution across a serialize round-trip", func() {
		c, err := stringcompress.New([]string{"alpha.example", "beta.example", "gamma.example"})
		Expect(err).ToNot(HaveOccurred())

		reloaded, err := stringcompress.Load(c.Save())
		Expect(err).ToNot(HaveOccurred())
		Expect(reloaded.Hosts()).To(Equal(c.Hosts()))

		packed, err := c.PackString("x@beta.example")
		Expect(err).ToNot(HaveOccurred())
		Expect(reloaded.Unpack(packed)).To(Equal("x@beta.example"))
	})
})
