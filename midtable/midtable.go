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

package midtable

import (
	"github.com/wolfpld/usenetarchive-sub001/filemap"
	"github.com/wolfpld/usenetarchive-sub001/hashindex"
	"github.com/wolfpld/usenetarchive-sub001/metaview"
	"github.com/wolfpld/usenetarchive-sub001/stringcompress"
)

// Table is the read side: a MetaView over the packed-id blob plus a hash
// index addressing the exact same bytes.
type Table struct {
	view *metaview.MetaView[uint32, byte]
	hash *hashindex.Index
}

// Open maps the midmeta/middata/midhash/midhashdata quartet.
func Open(metaFn, dataFn, hashFn, hashdataFn string) (*Table, error) {
	v, err := metaview.Open[uint32, byte](metaFn, dataFn)
	if err != nil {
		return nil, err
	}
	hash, err := filemap.Open[uint32](hashFn, false)
	if err != nil {
		return nil, err
	}
	hashdata, err := filemap.Open[byte](hashdataFn, false)
	if err != nil {
		return nil, err
	}
	return New(v, hash, hashdata), nil
}

// New composes an already-opened view with the hash/hashdata maps. The
// hash index's string blob is the view's own data — FromBytes wraps it
// without a second mapping, matching the original's single-file reuse.
func New(view *metaview.MetaView[uint32, byte], hash *filemap.FileMap[uint32], hashdata *filemap.FileMap[byte]) *Table {
	idx := hashindex.New(filemap.FromBytes[byte](view.Data()), hash, hashdata)
	return &Table{view: view, hash: idx}
}

// Len returns the number of messages in the table.
func (t *Table) Len() int { return t.view.Size() }

// PackedAt returns message i's packed Message-ID bytes, including the
// trailing terminator.
func (t *Table) PackedAt(i int) []byte {
	rest := t.view.Get(i)
	for j, b := range rest {
		if b == 0 {
			return rest[:j+1]
		}
	}
	return rest
}

// GetMessageID decodes message i's packed id with codec.
func (t *Table) GetMessageID(i int, codec *stringcompress.Codec) string {
	return codec.Unpack(t.view.Get(i))
}

// Find resolves a raw Message-ID to its message index, or -1 if absent.
// Malformed Message-IDs (those IsMsgId rejects) are always reported absent,
// since the hash index never stores them (spec §4.8).
func (t *Table) Find(msgid string, codec *stringcompress.Codec) (int32, error) {
	if !stringcompress.IsMsgId(msgid) {
		return -1, nil
	}
	packed, err := codec.PackString(msgid)
	if err != nil {
		return -1, err
	}
	key := packed[:len(packed)-1]
	return t.hash.Search(string(key)), nil
}

// Close releases the underlying mappings.
func (t *Table) Close() error {
	if err := t.view.Close(); err != nil {
		return err
	}
	return t.hash.Close()
}
