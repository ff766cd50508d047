/*
 *  MIT License
 *
 *  Copyright (c) 2020 Nicolas JUHEL
 *
 *  Permission is hereby granted, free of charge, to any person obtaining a copy
 *  of this software and associated documentation files (the "Software"), to deal
 *  in the Software without restriction, including without limitation the rights
 *  to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *  copies of the Software, and to permit persons to whom the Software is
 *  furnished to do so, subject to the following conditions:
 *
 *  The above copyright notice and this permission notice shall be included in all
 *  copies or substantial portions of the Software.
 *
 *  THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *  IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *  FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *  AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *  LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *  OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *  SOFTWARE.
 *
 */

package archive

import (
	"github.com/sirupsen/logrus"

	"github.com/wolfpld/usenetarchive-sub001/connectivity"
	"github.com/wolfpld/usenetarchive-sub001/filemap"
	"github.com/wolfpld/usenetarchive-sub001/hashindex"
	"github.com/wolfpld/usenetarchive-sub001/lexicon"
	"github.com/wolfpld/usenetarchive-sub001/metaview"
	"github.com/wolfpld/usenetarchive-sub001/midtable"
	"github.com/wolfpld/usenetarchive-sub001/msgstore"
	"github.com/wolfpld/usenetarchive-sub001/pkgformat"
	"github.com/wolfpld/usenetarchive-sub001/search"
	"github.com/wolfpld/usenetarchive-sub001/stringcompress"
	"github.com/wolfpld/usenetarchive-sub001/strtab"
	"github.com/wolfpld/usenetarchive-sub001/uaterr"
	"github.com/wolfpld/usenetarchive-sub001/uatlog"
)

// Archive is a single newsgroup's complete, read-only dataset.
type Archive struct {
	pkg   *pkgformat.Package
	store msgstore.Store
	conn  *connectivity.Graph
	mids  *midtable.Table
	codec *stringcompress.Codec
	strs  *strtab.Table
	lex   *lexicon.Lexicon

	descShort string
	descLong  string

	log *logrus.Entry
}

// Open maps path and constructs every leaf view from it. A failure at any
// leaf aggregates into one error and refuses to hand back a partial archive
// (spec §7 propagation policy); the package mapping is released either way.
func Open(path string, logger *logrus.Logger) (*Archive, error) {
	pkg, err := pkgformat.Open(path)
	if err != nil {
		return nil, err
	}
	a, err := fromPackage(pkg, path, logger)
	if err != nil {
		_ = pkg.Close()
		return nil, err
	}
	return a, nil
}

func fromPackage(pkg *pkgformat.Package, path string, logger *logrus.Logger) (*Archive, error) {
	codec, err := stringcompress.Load(pkg.Slot("midcodec"))
	if err != nil {
		return nil, err
	}

	store, err := openStore(pkg)
	if err != nil {
		return nil, err
	}

	conn := connectivity.New(
		metaview.New(
			filemap.FromBytes[uint32](pkg.Slot("connmeta")),
			filemap.FromBytes[uint32](pkg.Slot("conndata")),
		),
		filemap.FromBytes[uint32](pkg.Slot("toplevel")),
	)

	mids := midtable.New(
		metaview.New(
			filemap.FromBytes[uint32](pkg.Slot("midmeta")),
			filemap.FromBytes[byte](pkg.Slot("middata")),
		),
		filemap.FromBytes[uint32](pkg.Slot("midhash")),
		filemap.FromBytes[byte](pkg.Slot("midhashdata")),
	)

	strs := strtab.New(
		filemap.FromBytes[uint32](pkg.Slot("strmeta")),
		filemap.FromBytes[byte](pkg.Slot("strings")),
	)

	lex := lexicon.New(
		hashindex.New(
			filemap.FromBytes[byte](pkg.Slot("lexstr")),
			filemap.FromBytes[uint32](pkg.Slot("lexhash")),
			filemap.FromBytes[byte](pkg.Slot("lexhashdata")),
		),
		filemap.FromBytes[byte](pkg.Slot("lexmeta")),
		filemap.FromBytes[byte](pkg.Slot("lexdata")),
		filemap.FromBytes[byte](pkg.Slot("lexhit")),
	)

	return &Archive{
		pkg:       pkg,
		store:     store,
		conn:      conn,
		mids:      mids,
		codec:     codec,
		strs:      strs,
		lex:       lex,
		descShort: string(pkg.Slot("desc_short")),
		descLong:  string(pkg.Slot("desc_long")),
		log:       uatlog.WithArchive(logger, path),
	}, nil
}

// openStore builds the Zstd message store from the package's zdata/zmeta/
// zdict slots (§6.2's canonical package only names the Zstd trio; the LZ4
// codec in msgstore is for the standalone, non-packaged layout build tools
// can emit instead).
func openStore(pkg *pkgformat.Package) (msgstore.Store, error) {
	zdata := pkg.Slot("zdata")
	if len(zdata) == 0 {
		return nil, uaterr.Malformedf("archive.Open", "package carries no zdata message store")
	}
	return msgstore.NewZstd(
		filemap.FromBytes[byte](pkg.Slot("zmeta")),
		filemap.FromBytes[byte](zdata),
		pkg.Slot("zdict"),
	), nil
}

// Len returns the number of messages in the archive.
func (a *Archive) Len() int { return a.store.Len() }

// GetMessage decompresses message i's full RFC-822-style text into buf.
func (a *Archive) GetMessage(i int, buf []byte) ([]byte, error) {
	return a.store.GetMessage(i, buf)
}

// GetMessageID decodes message i's packed Message-ID.
func (a *Archive) GetMessageID(i int) string {
	return a.mids.GetMessageID(i, a.codec)
}

// Find resolves a raw Message-ID to a message index, or -1 if absent.
func (a *Archive) Find(msgid string) (int32, error) {
	return a.mids.Find(msgid, a.codec)
}

// GetFrom returns message i's interned "from" string.
func (a *Archive) GetFrom(i int) string { return a.strs.GetFrom(i) }

// GetSubject returns message i's interned subject string.
func (a *Archive) GetSubject(i int) string { return a.strs.GetSubject(i) }

// GetEpoch returns message i's UNIX-seconds timestamp (0 if unparseable).
func (a *Archive) GetEpoch(i int) uint32 { return a.conn.GetDate(i) }

// GetParent returns message i's parent index, or -1 if it is a thread root.
func (a *Archive) GetParent(i int) int32 { return a.conn.GetParent(i) }

// GetChildren returns message i's direct children, sorted by ascending
// epoch.
func (a *Archive) GetChildren(i int) []uint32 { return a.conn.GetChildren(i) }

// GetTotalSubtree returns the count of i's descendants, including itself.
func (a *Archive) GetTotalSubtree(i int) uint32 { return a.conn.GetTotalSubtree(i) }

// GetRoot returns the thread root index that eventually contains i.
func (a *Archive) GetRoot(i int) int { return a.conn.GetRoot(i) }

// Toplevel returns every thread root index, in stable display order.
func (a *Archive) Toplevel() []uint32 { return a.conn.Toplevel() }

// Search runs a word/phrase query over this archive's lexicon.
func (a *Archive) Search(query string, flags search.Flags) (search.Result, error) {
	return search.Search(a.lex, query, flags)
}

// Codec exposes the archive's Message-ID codec, e.g. for Galaxy repacking.
func (a *Archive) Codec() *stringcompress.Codec { return a.codec }

// Description returns the archive's short and long descriptions.
func (a *Archive) Description() (short, long string) { return a.descShort, a.descLong }

// Log returns the archive-scoped logger entry.
func (a *Archive) Log() *logrus.Entry { return a.log }

// Close releases the package's single underlying mapping. Every leaf view
// slices that same mapping, so nothing else needs releasing.
func (a *Archive) Close() error { return a.pkg.Close() }
