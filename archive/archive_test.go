/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
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

package archive_test

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/wolfpld/usenetarchive-sub001/archive"
	"github.com/wolfpld/usenetarchive-sub001/connectivity"
	"github.com/wolfpld/usenetarchive-sub001/lexicon"
	"github.com/wolfpld/usenetarchive-sub001/midtable"
	"github.com/wolfpld/usenetarchive-sub001/msgstore"
	"github.com/wolfpld/usenetarchive-sub001/pkgformat"
	"github.com/wolfpld/usenetarchive-sub001/search"
	"github.com/wolfpld/usenetarchive-sub001/stringcompress"
	"github.com/wolfpld/usenetarchive-sub001/strtab"
	"github.com/wolfpld/usenetarchive-sub001/textutil"
	"github.com/wolfpld/usenetarchive-sub001/uatlog"
)

func TestArchive(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "archive suite")
}

// buildPackage assembles a two-message, one-thread package file on disk and
// returns its path: a root post and a reply, both mentioning "zstandard" so
// Search has something to find.
func buildPackage(dir string) string {
	codec, err := stringcompress.New([]string{"example.com"})
	Expect(err).ToNot(HaveOccurred())

	root := "root@example.com"
	reply := "reply@example.com"

	mb := midtable.NewBuilder(64)
	Expect(mb.Add(root, codec)).To(Succeed())
	Expect(mb.Add(reply, codec)).To(Succeed())
	midmeta, middata, midhash, midhashdata := mb.Build()

	sb := &strtab.Builder{}
	sb.Add("alice@example.com", "release notes")
	sb.Add("bob@example.com", "Re: release notes")
	strmeta, strings := sb.Build()

	recs := []connectivity.Record{
		{Epoch: 1000, Parent: -1, Children: []uint32{1}},
		{Epoch: 2000, Parent: 0, Children: nil},
	}
	totalSubtree := connectivity.ComputeTotalSubtree(recs)
	connmeta, conndata := connectivity.EncodeRecords(recs, totalSubtree)
	toplevel := connectivity.EncodeToplevel([]uint32{0})

	msg0 := []byte("Subject: release notes\n\nShipped the new zstandard codec today.\n")
	msg1 := []byte("Subject: Re: release notes\n\nNice, zstandard helps a lot.\n")
	frame0, err := msgstore.EncodeZstdFrame(msg0, nil)
	Expect(err).ToNot(HaveOccurred())
	frame1, err := msgstore.EncodeZstdFrame(msg1, nil)
	Expect(err).ToNot(HaveOccurred())
	zdata := append(append([]byte{}, frame0...), frame1...)
	zmeta := msgstore.EncodeMeta([]msgstore.Record{
		{Offset: 0, Size: uint32(len(msg0)), CompressedSize: uint32(len(frame0))},
		{Offset: uint64(len(frame0)), Size: uint32(len(msg1)), CompressedSize: uint32(len(frame1))},
	})

	lb := lexicon.NewBuilder(64)
	lb.AddHit("zstandard", 0, textutil.PosBodyUnquoted, 0, 1)
	lb.AddHit("zstandard", 1, textutil.PosBodyUnquoted, 0, 0)
	lexstr, lexhash, lexhashdata, lexmeta, lexdata, lexhit := lb.Build()

	bodies := map[string][]byte{
		"desc_short":  []byte("comp.test"),
		"desc_long":   []byte("a test newsgroup"),
		"conndata":    conndata,
		"connmeta":    connmeta,
		"toplevel":    toplevel,
		"midmeta":     midmeta,
		"middata":     middata,
		"midhash":     midhash,
		"midhashdata": midhashdata,
		"midcodec":    codec.Save(),
		"strmeta":     strmeta,
		"strings":     strings,
		"zmeta":       zmeta,
		"zdata":       zdata,
		"lexstr":      lexstr,
		"lexhash":     lexhash,
		"lexhashdata": lexhashdata,
		"lexmeta":     lexmeta,
		"lexdata":     lexdata,
		"lexhit":      lexhit,
	}

	path := filepath.Join(dir, "comp.test.uat")
	f, err := os.Create(path)
	Expect(err).ToNot(HaveOccurred())
	defer f.Close()
	Expect(pkgformat.Write(f, pkgformat.BaselineVersion, bodies)).To(Succeed())
	return path
}

var _ = Describe("Open", func() {
	It("bundles every leaf from one mapped package file", func() {
		dir, err := os.MkdirTemp("", "archive-test-*")
		Expect(err).ToNot(HaveOccurred())
		defer os.RemoveAll(dir)
		path := buildPackage(dir)

		a, err := archive.Open(path, uatlog.Std())
		Expect(err).ToNot(HaveOccurred())
		defer a.Close()

		Expect(a.Len()).To(Equal(2))

		short, long := a.Description()
		Expect(short).To(Equal("comp.test"))
		Expect(long).To(Equal("a test newsgroup"))

		Expect(a.GetMessageID(0)).To(Equal("root@example.com"))
		Expect(a.GetMessageID(1)).To(Equal("reply@example.com"))

		idx, err := a.Find("reply@example.com")
		Expect(err).ToNot(HaveOccurred())
		Expect(idx).To(Equal(int32(1)))

		Expect(a.GetFrom(0)).To(Equal("alice@example.com"))
		Expect(a.GetSubject(1)).To(Equal("Re: release notes"))

		Expect(a.GetParent(0)).To(Equal(int32(-1)))
		Expect(a.GetParent(1)).To(Equal(int32(0)))
		Expect(a.GetChildren(0)).To(Equal([]uint32{1}))
		Expect(a.Toplevel()).To(Equal([]uint32{0}))

		msg, err := a.GetMessage(0, nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(msg)).To(ContainSubstring("Shipped the new zstandard codec today."))

		result, err := a.Search("zstandard", search.Flags(0))
		Expect(err).ToNot(HaveOccurred())
		Expect(result.Entries).To(HaveLen(2))
		Expect(result.Entries[0].MsgIndex).To(Equal(uint32(0))) // equal rank, lower message index sorts first
	})

	It("rejects a package missing its message store", func() {
		dir, err := os.MkdirTemp("", "archive-test-*")
		Expect(err).ToNot(HaveOccurred())
		defer os.RemoveAll(dir)
		path := filepath.Join(dir, "empty.uat")
		f, err := os.Create(path)
		Expect(err).ToNot(HaveOccurred())
		Expect(pkgformat.Write(f, pkgformat.BaselineVersion, map[string][]byte{
			"desc_short": []byte("x"),
		})).To(Succeed())
		Expect(f.Close()).To(Succeed())

		_, err = archive.Open(path, uatlog.Std())
		Expect(err).To(HaveOccurred())
	})
})
