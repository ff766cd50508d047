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

package pkgformat_test

import (
	"bytes"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/wolfpld/usenetarchive-sub001/pkgformat"
)

func TestPkgformat(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "pkgformat suite")
}

var _ = Describe("Write / Parse", func() {
	It("round-trips every populated slot and leaves absent slots empty", func() {
		bodies := map[string][]byte{
			"conndata": []byte("parent-child graph bytes"),
			"lexstr":   []byte("short"),
			"toplevel": bytes.Repeat([]byte{0xAB}, 17), // not a multiple of 8, exercises padding
		}

		var buf bytes.Buffer
		Expect(pkgformat.Write(&buf, pkgformat.BaselineVersion, bodies)).To(Succeed())

		pkg, err := pkgformat.Parse(buf.Bytes())
		Expect(err).ToNot(HaveOccurred())
		Expect(pkg.Version()).To(Equal(pkgformat.BaselineVersion))
		Expect(pkg.Slot("conndata")).To(Equal(bodies["conndata"]))
		Expect(pkg.Slot("lexstr")).To(Equal(bodies["lexstr"]))
		Expect(pkg.Slot("toplevel")).To(Equal(bodies["toplevel"]))
		Expect(pkg.Slot("lexhash")).To(BeEmpty())
		Expect(pkg.Slot("desc_short")).To(BeEmpty())
	})

	It("pads every slot body up to an eight-byte boundary", func() {
		bodies := map[string][]byte{"conndata": []byte("abc")}
		var buf bytes.Buffer
		Expect(pkgformat.Write(&buf, pkgformat.BaselineVersion, bodies)).To(Succeed())

		headerAndSizes := 8 + len(pkgformat.Slots)*8
		Expect((buf.Len() - headerAndSizes) % 8).To(Equal(0))
	})

	It("rejects a truncated header", func() {
		_, err := pkgformat.Parse([]byte{0x00, 'U', 's'})
		Expect(err).To(HaveOccurred())
	})

	It("rejects a bad magic", func() {
		bad := make([]byte, 8+len(pkgformat.Slots)*8)
		copy(bad, "garbage!")
		_, err := pkgformat.Parse(bad)
		Expect(err).To(HaveOccurred())
	})

	It("rejects a version newer than this reader supports", func() {
		header := make([]byte, 8+len(pkgformat.Slots)*8)
		copy(header, []byte{0x00, 'U', 's', 'e', 'n', 'e', 't', 1})
		_, err := pkgformat.Parse(header)
		Expect(err).To(HaveOccurred())
	})
})
