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

package uaterr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/wolfpld/usenetarchive-sub001/uaterr"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestUatErr(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "uaterr suite")
}

var _ = Describe("Code classification", func() {
	It("round-trips through CodeOf", func() {
		err := uaterr.NotFoundf("lexicon", "word %q not indexed", "xyzzy")
		Expect(uaterr.CodeOf(err)).To(Equal(uaterr.NotFound))
	})

	It("matches via Code.Is across a wrapped chain", func() {
		base := uaterr.Malformedf("stringcompress", "bad Message-ID")
		wrapped := errors.New("wrapping: " + base.Error())
		Expect(uaterr.Malformed.Is(base)).To(BeTrue())
		Expect(uaterr.Malformed.Is(fmt.Errorf("wrapping: %w", base))).To(BeTrue())
		Expect(uaterr.Malformed.Is(wrapped)).To(BeFalse())
	})

	It("keeps the parent in the chain", func() {
		parent := errors.New("disk full")
		err := uaterr.IOErrorWrap("filemap", parent)
		Expect(errors.Unwrap(err)).To(Equal(parent))
		Expect(uaterr.CodeOf(err)).To(Equal(uaterr.IOError))
	})

	It("returns Unknown for a nil error", func() {
		Expect(uaterr.CodeOf(nil)).To(Equal(uaterr.Unknown))
	})
})
