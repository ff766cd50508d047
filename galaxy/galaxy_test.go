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

package galaxy_test

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/wolfpld/usenetarchive-sub001/connectivity"
	"github.com/wolfpld/usenetarchive-sub001/galaxy"
	"github.com/wolfpld/usenetarchive-sub001/midtable"
	"github.com/wolfpld/usenetarchive-sub001/msgstore"
	"github.com/wolfpld/usenetarchive-sub001/pkgformat"
	"github.com/wolfpld/usenetarchive-sub001/stringcompress"
	"github.com/wolfpld/usenetarchive-sub001/strtab"
	"github.com/wolfpld/usenetarchive-sub001/uatlog"
)

func TestGalaxy(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "galaxy suite")
}

type msgSpec struct {
	id      string
	from    string
	subject string
	body    string
	parent  int32
}

// buildSimpleArchive writes a one-or-more message package at dir/name with a
// flat thread (no message has more than one child), enough for AreParentsSame
// and Warp to have something to disagree about.
func buildSimpleArchive(dir, name string, msgs []msgSpec) string {
	hosts := []string{"x"}
	codec, err := stringcompress.New(hosts)
	Expect(err).ToNot(HaveOccurred())

	mb := midtable.NewBuilder(64)
	for _, m := range msgs {
		Expect(mb.Add(m.id, codec)).To(Succeed())
	}
	midmeta, middata, midhash, midhashdata := mb.Build()

	sb := &strtab.Builder{}
	for _, m := range msgs {
		sb.Add(m.from, m.subject)
	}
	strmeta, strings := sb.Build()

	children := make(map[int][]uint32)
	for i, m := range msgs {
		if m.parent >= 0 {
			children[int(m.parent)] = append(children[int(m.parent)], uint32(i))
		}
	}
	recs := make([]connectivity.Record, len(msgs))
	var toplevel []uint32
	for i, m := range msgs {
		recs[i] = connectivity.Record{Epoch: uint32(1000 + i), Parent: m.parent, Children: children[i]}
		if m.parent < 0 {
			toplevel = append(toplevel, uint32(i))
		}
	}
	totalSubtree := connectivity.ComputeTotalSubtree(recs)
	connmeta, conndata := connectivity.EncodeRecords(recs, totalSubtree)
	toplevelBytes := connectivity.EncodeToplevel(toplevel)

	var zdata []byte
	var zrecs []msgstore.Record
	for _, m := range msgs {
		frame, err := msgstore.EncodeZstdFrame([]byte(m.body), nil)
		Expect(err).ToNot(HaveOccurred())
		zrecs = append(zrecs, msgstore.Record{
			Offset:         uint64(len(zdata)),
			Size:           uint32(len(m.body)),
			CompressedSize: uint32(len(frame)),
		})
		zdata = append(zdata, frame...)
	}
	zmeta := msgstore.EncodeMeta(zrecs)

	bodies := map[string][]byte{
		"desc_short":  []byte(name),
		"desc_long":   []byte(name + " archive"),
		"conndata":    conndata,
		"connmeta":    connmeta,
		"toplevel":    toplevelBytes,
		"midmeta":     midmeta,
		"middata":     middata,
		"midhash":     midhash,
		"midhashdata": midhashdata,
		"midcodec":    codec.Save(),
		"strmeta":     strmeta,
		"strings":     strings,
		"zmeta":       zmeta,
		"zdata":       zdata,
	}

	path := filepath.Join(dir, name+".uat")
	f, err := os.Create(path)
	Expect(err).ToNot(HaveOccurred())
	defer f.Close()
	Expect(pkgformat.Write(f, pkgformat.BaselineVersion, bodies)).To(Succeed())
	return path
}

func encodeU32(vals []uint32) []byte {
	out := make([]byte, len(vals)*4)
	for i, v := range vals {
		binary.LittleEndian.PutUint32(out[i*4:i*4+4], v)
	}
	return out
}

// buildGalaxyCatalog lays out the flat galaxy files directly in dir:
// two archives, both carrying "a@x", with divergent thread placement.
func buildGalaxyCatalog(dir string) {
	archive0 := buildSimpleArchive(dir, "archive0", []msgSpec{
		{id: "a@x", from: "alice@x", subject: "hello", body: "root post", parent: -1},
	})
	archive1 := buildSimpleArchive(dir, "archive1", []msgSpec{
		{id: "other@x", from: "bob@x", subject: "hello", body: "unrelated root", parent: -1},
		{id: "a@x", from: "alice@x", subject: "Re: hello", body: "reply copy", parent: 0},
	})

	var offs []uint32
	var blob []byte
	for _, p := range []string{archive0, archive1} {
		offs = append(offs, uint32(len(blob)))
		blob = append(blob, p...)
		blob = append(blob, 0)
	}
	Expect(os.WriteFile(filepath.Join(dir, "archives.meta"), encodeU32(offs), 0o644)).To(Succeed())
	Expect(os.WriteFile(filepath.Join(dir, "archives"), blob, 0o644)).To(Succeed())

	sb := &strtab.Builder{}
	sb.Add("archive0", "first archive")
	sb.Add("archive1", "second archive")
	strmeta, strdata := sb.Build()
	Expect(os.WriteFile(filepath.Join(dir, "str.meta"), strmeta, 0o644)).To(Succeed())
	Expect(os.WriteFile(filepath.Join(dir, "str"), strdata, 0o644)).To(Succeed())

	codec, err := stringcompress.New([]string{"x"})
	Expect(err).ToNot(HaveOccurred())
	mb := midtable.NewBuilder(64)
	Expect(mb.Add("a@x", codec)).To(Succeed())
	midmeta, middata, midhash, midhashdata := mb.Build()
	Expect(os.WriteFile(filepath.Join(dir, "msgid.meta"), midmeta, 0o644)).To(Succeed())
	Expect(os.WriteFile(filepath.Join(dir, "msgid"), middata, 0o644)).To(Succeed())
	Expect(os.WriteFile(filepath.Join(dir, "midhash.meta"), midhash, 0o644)).To(Succeed())
	Expect(os.WriteFile(filepath.Join(dir, "midhash"), midhashdata, 0o644)).To(Succeed())
	Expect(os.WriteFile(filepath.Join(dir, "msgid.codebook"), codec.Save(), 0o644)).To(Succeed())

	groupOffs := []uint32{0}
	groupData := []uint32{2, 0, 1} // global id 0: count=2, archives [0,1]
	Expect(os.WriteFile(filepath.Join(dir, "midgr.meta"), encodeU32(groupOffs), 0o644)).To(Succeed())
	Expect(os.WriteFile(filepath.Join(dir, "midgr"), encodeU32(groupData), 0o644)).To(Succeed())

	Expect(os.WriteFile(filepath.Join(dir, "indirect.offset"), nil, 0o644)).To(Succeed())
	Expect(os.WriteFile(filepath.Join(dir, "indirect"), nil, 0o644)).To(Succeed())
	Expect(os.WriteFile(filepath.Join(dir, "indirect.dense"), nil, 0o644)).To(Succeed())
}

var _ = Describe("Open", func() {
	It("opens every referenced archive and exposes the global Message-ID catalog", func() {
		dir, err := os.MkdirTemp("", "galaxy-test-*")
		Expect(err).ToNot(HaveOccurred())
		defer os.RemoveAll(dir)
		buildGalaxyCatalog(dir)

		gx, err := galaxy.Open(dir, uatlog.Std())
		Expect(err).ToNot(HaveOccurred())
		defer gx.Close()

		Expect(gx.Len()).To(Equal(2))
		Expect(gx.IsArchiveAvailable(0)).To(BeTrue())
		Expect(gx.IsArchiveAvailable(1)).To(BeTrue())
		Expect(gx.Name(0)).To(Equal("archive0"))
		Expect(gx.Name(1)).To(Equal("archive1"))

		idx, err := gx.Find("a@x")
		Expect(err).ToNot(HaveOccurred())
		Expect(idx).To(Equal(int32(0)))
		Expect(gx.GetMessageID(0)).To(Equal("a@x"))

		groups := gx.GetGroups(0)
		Expect(groups).To(ConsistOf(uint32(0), uint32(1)))
	})

	It("detects disagreeing parents and reports warp depths for each archive", func() {
		dir, err := os.MkdirTemp("", "galaxy-test-*")
		Expect(err).ToNot(HaveOccurred())
		defer os.RemoveAll(dir)
		buildGalaxyCatalog(dir)

		gx, err := galaxy.Open(dir, uatlog.Std())
		Expect(err).ToNot(HaveOccurred())
		defer gx.Close()

		same, err := gx.AreParentsSame(0)
		Expect(err).ToNot(HaveOccurred())
		Expect(same).To(BeFalse())

		entries, err := gx.Warp(0)
		Expect(err).ToNot(HaveOccurred())
		Expect(entries).To(HaveLen(2))

		byArchive := map[int]galaxy.WarpEntry{}
		for _, e := range entries {
			byArchive[e.Archive] = e
		}
		Expect(byArchive[0].ParentDepth).To(Equal(0))
		Expect(byArchive[1].ParentDepth).To(Equal(1))
	})

	It("rejects a directory missing its catalog files", func() {
		dir, err := os.MkdirTemp("", "galaxy-test-*")
		Expect(err).ToNot(HaveOccurred())
		defer os.RemoveAll(dir)

		_, err = galaxy.Open(dir, uatlog.Std())
		Expect(err).To(HaveOccurred())
	})
})
