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

package midtable_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/wolfpld/usenetarchive-sub001/filemap"
	"github.com/wolfpld/usenetarchive-sub001/metaview"
	"github.com/wolfpld/usenetarchive-sub001/midtable"
	"github.com/wolfpld/usenetarchive-sub001/stringcompress"
)

func TestMidtable(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "midtable suite")
}

var _ = Describe("Builder / Table", func() {
	It("resolves a Message-ID to the message that first introduced it", func() {
		codec, err := stringcompress.New([]string{"example.com"})
		Expect(err).ToNot(HaveOccurred())

		b := midtable.NewBuilder(64)
		Expect(b.Add("first@example.com", codec)).To(Succeed())
		Expect(b.Add("second@example.com", codec)).To(Succeed())
		Expect(b.Add("first@example.com", codec)).To(Succeed()) // duplicate

		midmeta, middata, midhash, midhashdata := b.Build()

		tbl := midtable.New(
			metaview.New(filemap.FromBytes[uint32](midmeta), filemap.FromBytes[byte](middata)),
			filemap.FromBytes[uint32](midhash),
			filemap.FromBytes[byte](midhashdata),
		)

		Expect(tbl.Len()).To(Equal(3))
		Expect(tbl.GetMessageID(0, codec)).To(Equal("first@example.com"))
		Expect(tbl.GetMessageID(1, codec)).To(Equal("second@example.com"))
		Expect(tbl.GetMessageID(2, codec)).To(Equal("first@example.com"))

		idx, err := tbl.Find("first@example.com", codec)
		Expect(err).ToNot(HaveOccurred())
		Expect(idx).To(Equal(int32(0)))

		idx, err = tbl.Find("second@example.com", codec)
		Expect(err).ToNot(HaveOccurred())
		Expect(idx).To(Equal(int32(1)))
	})

	It("reports a malformed or absent Message-ID as not found", func() {
		codec, err := stringcompress.New(nil)
		Expect(err).ToNot(HaveOccurred())

		b := midtable.NewBuilder(64)
		Expect(b.Add("only@host.example", codec)).To(Succeed())
		midmeta, middata, midhash, midhashdata := b.Build()

		tbl := midtable.New(
			metaview.New(filemap.FromBytes[uint32](midmeta), filemap.FromBytes[byte](middata)),
			filemap.FromBytes[uint32](midhash),
			filemap.FromBytes[byte](midhashdata),
		)

		idx, err := tbl.Find("missing@host.example", codec)
		Expect(err).ToNot(HaveOccurred())
		Expect(idx).To(Equal(int32(-1)))

		idx, err = tbl.Find("not-a-msgid", codec)
		Expect(err).ToNot(HaveOccurred())
		Expect(idx).To(Equal(int32(-1)))
	})
})
