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

package connectivity_test

import (
	"testing"

	"github.com/wolfpld/usenetarchive-sub001/connectivity"
	"github.com/wolfpld/usenetarchive-sub001/filemap"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestConnectivity(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "connectivity suite")
}

var _ = Describe("ExtractReferences", func() {
	It("splits a References header into bracket-stripped Message-IDs", func() {
		ids := connectivity.ExtractReferences("<a@x> <b@y>\n <c@z>")
		Expect(ids).To(Equal([]string{"a@x", "b@y", "c@z"}))
	})

	It("strips interior whitespace from a line-wrapped id", func() {
		ids := connectivity.ExtractReferences("<a @x>")
		Expect(ids).To(Equal([]string{"a@x"}))
	})

	It("returns nothing for a header with no brackets", func() {
		Expect(connectivity.ExtractReferences("")).To(BeEmpty())
	})
})

var _ = Describe("ResolveParent", func() {
	It("picks the nearest known ancestor, scanning right to left", func() {
		known := map[string]int32{"grandparent@x": 1, "parent@x": 2}
		refs := []string{"grandparent@x", "missing@x", "parent@x"}
		idx, missing := connectivity.ResolveParent(refs, func(id string) int32 {
			if v, ok := known[id]; ok {
				return v
			}
			return -1
		})
		Expect(idx).To(Equal(int32(2)))
		Expect(missing).To(BeEmpty())
	})

	It("falls through to an earlier ancestor when the nearest one is missing", func() {
		known := map[string]int32{"grandparent@x": 1}
		refs := []string{"grandparent@x", "parent@x"}
		idx, missing := connectivity.ResolveParent(refs, func(id string) int32 {
			if v, ok := known[id]; ok {
				return v
			}
			return -1
		})
		Expect(idx).To(Equal(int32(1)))
		Expect(missing).To(Equal([]string{"parent@x"}))
	})

	It("reports root when no ancestor is known", func() {
		idx, missing := connectivity.ResolveParent([]string{"a@x", "b@x"}, func(string) int32 { return -1 })
		Expect(idx).To(Equal(int32(-1)))
		Expect(missing).To(Equal([]string{"b@x", "a@x"}))
	})
})

var _ = Describe("ComputeTotalSubtree", func() {
	It("counts each node plus all descendants", func() {
		// 0 is root with children 1,2; 1 has child 3.
		recs := []connectivity.Record{
			{Parent: -1, Children: []uint32{1, 2}},
			{Parent: 0, Children: []uint32{3}},
			{Parent: 0},
			{Parent: 1},
		}
		got := connectivity.ComputeTotalSubtree(recs)
		Expect(got).To(Equal([]uint32{4, 2, 1, 1}))
	})
})

var _ = Describe("EncodeRecords / EncodeToplevel", func() {
	It("packs epoch/parent/totalSubtree/children into the on-disk u32 layout", func() {
		recs := []connectivity.Record{
			{Epoch: 100, Parent: -1, Children: []uint32{1, 2}},
			{Epoch: 200, Parent: 0, Children: nil},
			{Epoch: 150, Parent: 0, Children: nil},
		}
		totals := connectivity.ComputeTotalSubtree(recs)
		Expect(totals).To(Equal([]uint32{3, 1, 1}))

		metaBytes, dataBytes := connectivity.EncodeRecords(recs, totals)
		data := filemap.FromBytes[uint32](dataBytes)
		Expect(data.View()[0:4]).To(Equal([]uint32{100, 0xFFFFFFFF, 3, 2}))
		Expect(data.View()[4:6]).To(Equal([]uint32{1, 2}))

		meta := filemap.FromBytes[uint32](metaBytes)
		Expect(meta.Len()).To(Equal(3))

		toplevelBytes := connectivity.EncodeToplevel([]uint32{0})
		tl := filemap.FromBytes[uint32](toplevelBytes)
		Expect(tl.View()).To(Equal([]uint32{0}))
	})
})
