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

package connectivity

import (
	"encoding/binary"

	"github.com/wolfpld/usenetarchive-sub001/filemap"
	"github.com/wolfpld/usenetarchive-sub001/metaview"
	"github.com/wolfpld/usenetarchive-sub001/uaterr"
)

// Graph is the read-side view over a built connectivity package: a
// MetaView<u32,u32> whose per-record layout is
// epoch(u32); parent(i32); totalSubtree(u32); childCount(u32); children(u32)[childCount]
// (spec §4.4), plus the toplevel[] root list.
type Graph struct {
	view     *metaview.MetaView[uint32, uint32]
	toplevel *filemap.FileMap[uint32]
}

// Open maps the meta/data/toplevel file triple.
func Open(metaFn, dataFn, toplevelFn string) (*Graph, error) {
	v, err := metaview.Open[uint32, uint32](metaFn, dataFn)
	if err != nil {
		return nil, err
	}
	tl, err := filemap.Open[uint32](toplevelFn, false)
	if err != nil {
		return nil, err
	}
	return &Graph{view: v, toplevel: tl}, nil
}

// New composes an already-opened view and toplevel map, for archive.Open's
// shared-mapping bookkeeping when slicing one package file.
func New(view *metaview.MetaView[uint32, uint32], toplevel *filemap.FileMap[uint32]) *Graph {
	return &Graph{view: view, toplevel: toplevel}
}

// Len returns the number of messages the graph covers.
func (g *Graph) Len() int { return g.view.Size() }

func (g *Graph) record(i int) []uint32 { return g.view.Get(i) }

// GetDate returns message i's epoch (0 if unparseable at build time).
func (g *Graph) GetDate(i int) uint32 { return g.record(i)[0] }

// GetParent returns message i's parent index, or -1 if i is a thread root.
func (g *Graph) GetParent(i int) int32 { return int32(g.record(i)[1]) }

// GetTotalSubtree returns the count of descendants of i including i itself.
func (g *Graph) GetTotalSubtree(i int) uint32 { return g.record(i)[2] }

// GetChildrenCount returns the direct-children count, distinct from
// GetTotalSubtree which also counts grandchildren etc.
func (g *Graph) GetChildrenCount(i int) uint32 { return g.record(i)[3] }

// GetChildren returns the zero-copy list of i's direct children, sorted by
// ascending epoch (spec §3.3).
func (g *Graph) GetChildren(i int) []uint32 {
	r := g.record(i)
	n := r[3]
	return r[4 : 4+n]
}

// GetRoot walks parent links up to the thread root.
func (g *Graph) GetRoot(i int) int {
	for {
		p := g.GetParent(i)
		if p < 0 {
			return i
		}
		i = int(p)
	}
}

// Toplevel returns the stable-ordered list of thread-root message indices.
func (g *Graph) Toplevel() []uint32 { return g.toplevel.View() }

// Close releases all underlying mappings.
func (g *Graph) Close() error {
	if err := g.view.Close(); err != nil {
		return err
	}
	return g.toplevel.Close()
}

// Record is the build-time representation of one message's place in the
// graph, before it is packed into the MetaView layout. Records are packed in
// the order the caller supplies them; nothing in this package reorders them
// into a depth-first thread layout.
type Record struct {
	Epoch    uint32
	Parent   int32
	Children []uint32 // unordered at build time; sorted by epoch before packing
}

// EncodeRecords packs a slice of per-message records, indexed post-layout,
// into the on-disk meta+data byte pair — the inverse of the
// record()/GetChildren() accessors above. The toplevel list is serialized
// separately by EncodeToplevel.
func EncodeRecords(recs []Record, totalSubtree []uint32) (meta, data []byte) {
	metaOut := make([]uint32, len(recs))
	var dataOut []uint32
	for i, r := range recs {
		metaOut[i] = uint32(len(dataOut)) * 4
		dataOut = append(dataOut, r.Epoch, uint32(r.Parent), totalSubtree[i], uint32(len(r.Children)))
		dataOut = append(dataOut, r.Children...)
	}
	meta = make([]byte, len(metaOut)*4)
	for i, v := range metaOut {
		binary.LittleEndian.PutUint32(meta[i*4:i*4+4], v)
	}
	data = make([]byte, len(dataOut)*4)
	for i, v := range dataOut {
		binary.LittleEndian.PutUint32(data[i*4:i*4+4], v)
	}
	return meta, data
}

// EncodeToplevel serializes a toplevel[] list.
func EncodeToplevel(ids []uint32) []byte {
	out := make([]byte, len(ids)*4)
	for i, v := range ids {
		binary.LittleEndian.PutUint32(out[i*4:i*4+4], v)
	}
	return out
}

// ComputeTotalSubtree derives totalSubtree[i] (descendant count including i)
// from a set of Records addressed by dense message index, via a memoized
// post-order walk over each record's Children list.
func ComputeTotalSubtree(recs []Record) []uint32 {
	out := make([]uint32, len(recs))
	var visit func(i int) uint32
	visit = func(i int) uint32 {
		if out[i] != 0 {
			return out[i]
		}
		total := uint32(1)
		for _, c := range recs[i].Children {
			total += visit(int(c))
		}
		out[i] = total
		return total
	}
	for i := range recs {
		visit(i)
	}
	return out
}

// ResolveParent finds the nearest ancestor named in a References header that
// is already known to the hash index, scanning Message-IDs right-to-left
// (closest ancestor first) and falling through to the next one on a miss —
// the same strategy the archive's graph builder uses, since a direct parent
// can be absent from a partial archive while a grandparent is present
// (cross-posted or partially-fetched threads).
//
// lookup returns a non-negative message index for a known Message-ID, or a
// negative value for a miss. refs is the list of bracket-stripped
// Message-IDs extracted from the References header, in header order
// (oldest ancestor first, nearest parent last).
func ResolveParent(refs []string, lookup func(msgid string) int32) (parent int32, missing []string) {
	for i := len(refs) - 1; i >= 0; i-- {
		idx := lookup(refs[i])
		if idx >= 0 {
			return idx, missing
		}
		missing = append(missing, refs[i])
	}
	return -1, missing
}

// ExtractReferences splits a References header body into individual
// Message-IDs, stripping the enclosing '<' '>' and any interior whitespace
// (a malformed-but-common artifact of line-wrapped headers), grounded on the
// original graph builder's bracket/whitespace handling.
func ExtractReferences(header string) []string {
	var out []string
	i := 0
	for i < len(header) {
		for i < len(header) && header[i] != '<' {
			i++
		}
		if i >= len(header) {
			break
		}
		i++
		start := i
		for i < len(header) && header[i] != '>' {
			i++
		}
		if i >= len(header) {
			break
		}
		id := stripWhitespace(header[start:i])
		if id != "" {
			out = append(out, id)
		}
		i++
	}
	return out
}

func stripWhitespace(s string) string {
	out := make([]byte, 0, len(s))
	for j := 0; j < len(s); j++ {
		if s[j] != ' ' && s[j] != '\t' && s[j] != '\r' && s[j] != '\n' {
			out = append(out, s[j])
		}
	}
	return string(out)
}

// ErrReferenceTooLong describes a References entry longer than the 1024-byte
// scratch-buffer bound the original enforced (assert(end-buf<1024)).
// ExtractReferences applies no length limit and never returns it.
var ErrReferenceTooLong = uaterr.Malformedf("connectivity.ExtractReferences", "a References entry exceeds 1024 bytes")
