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

package galaxy

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/wolfpld/usenetarchive-sub001/archive"
	"github.com/wolfpld/usenetarchive-sub001/filemap"
	"github.com/wolfpld/usenetarchive-sub001/metaview"
	"github.com/wolfpld/usenetarchive-sub001/midtable"
	"github.com/wolfpld/usenetarchive-sub001/stringcompress"
	"github.com/wolfpld/usenetarchive-sub001/strtab"
	"github.com/wolfpld/usenetarchive-sub001/uaterr"
	"github.com/wolfpld/usenetarchive-sub001/uatlog"
	"github.com/wolfpld/usenetarchive-sub001/workerpool"
)

// requiredFiles is the on-disk layout a galaxy directory must carry in full
// before Open will accept it (spec §6.3).
var requiredFiles = []string{
	"archives", "archives.meta",
	"midgr", "midgr.meta",
	"midhash", "midhash.meta",
	"msgid", "msgid.meta", "msgid.codebook",
	"str", "str.meta",
	"indirect", "indirect.offset", "indirect.dense",
}

// WarpEntry is one archive's view of a global Message-ID, for the "warp"
// picker the UI shows when archives disagree on local threading.
type WarpEntry struct {
	Archive        int
	ParentDepth    int
	DirectChildren int
	TotalChildren  int
}

// Galaxy bundles the global Message-ID catalog and the set of archives it
// references, all of which Open opens up front.
type Galaxy struct {
	base string

	mids  *midtable.Table
	codec *stringcompress.Codec

	paths  *metaview.MetaView[uint32, byte]
	strs   *strtab.Table
	groups *metaview.MetaView[uint32, uint32]

	indirectDense *filemap.FileMap[uint64]
	indirect      *metaview.MetaView[uint32, uint32]

	archives  []*archive.Archive
	available []bool

	log *logrus.Entry
}

// Open maps dir's galaxy catalog and opens every archive it names,
// concurrently, skipping ones that are absent or fail to open (spec §7: the
// galaxy never fails because some archives are unavailable).
func Open(dir string, logger *logrus.Logger) (*Galaxy, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, uaterr.NotFoundf("galaxy.Open", "%s is not a directory", dir)
	}
	for _, name := range requiredFiles {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			return nil, uaterr.NotFoundf("galaxy.Open", "missing catalog file %q", name)
		}
	}

	codecBytes, err := os.ReadFile(filepath.Join(dir, "msgid.codebook"))
	if err != nil {
		return nil, uaterr.IOErrorWrap("galaxy.Open", err)
	}
	codec, err := stringcompress.Load(codecBytes)
	if err != nil {
		return nil, err
	}

	mids, err := midtable.Open(
		filepath.Join(dir, "msgid.meta"), filepath.Join(dir, "msgid"),
		filepath.Join(dir, "midhash.meta"), filepath.Join(dir, "midhash"),
	)
	if err != nil {
		return nil, err
	}

	paths, err := metaview.Open[uint32, byte](filepath.Join(dir, "archives.meta"), filepath.Join(dir, "archives"))
	if err != nil {
		return nil, err
	}
	strs, err := strtab.Open(filepath.Join(dir, "str.meta"), filepath.Join(dir, "str"))
	if err != nil {
		return nil, err
	}
	groups, err := metaview.Open[uint32, uint32](filepath.Join(dir, "midgr.meta"), filepath.Join(dir, "midgr"))
	if err != nil {
		return nil, err
	}
	indirectDense, err := filemap.Open[uint64](filepath.Join(dir, "indirect.dense"), true)
	if err != nil {
		return nil, err
	}
	indirect, err := metaview.Open[uint32, uint32](filepath.Join(dir, "indirect.offset"), filepath.Join(dir, "indirect"))
	if err != nil {
		return nil, err
	}

	g := &Galaxy{
		base:          dir,
		mids:          mids,
		codec:         codec,
		paths:         paths,
		strs:          strs,
		groups:        groups,
		indirectDense: indirectDense,
		indirect:      indirect,
		log:           uatlog.WithArchive(logger, dir),
	}

	n := paths.Size()
	g.archives = make([]*archive.Archive, n)
	g.available = make([]bool, n)

	concurrency := runtime.NumCPU()
	if concurrency < 1 {
		concurrency = 1
	}
	_ = workerpool.Run(context.Background(), n, concurrency,
		func(ctx context.Context, i int) ([]byte, error) {
			path := g.archivePath(i)
			if _, err := os.Stat(path); err != nil {
				return nil, nil
			}
			a, err := archive.Open(path, logger)
			if err != nil {
				g.log.Warnf("archive %d (%s) failed to open: %v", i, path, err)
				return nil, nil
			}
			g.archives[i] = a
			return nil, nil
		},
		func(i int, v []byte) error {
			g.available[i] = g.archives[i] != nil
			return nil
		}, nil)

	return g, nil
}

func (g *Galaxy) archivePath(i int) string {
	raw := g.paths.Get(i)
	end := bytes.IndexByte(raw, 0)
	if end < 0 {
		end = len(raw)
	}
	p := string(raw[:end])
	if filepath.IsAbs(p) {
		return p
	}
	if _, err := os.Stat(p); err == nil {
		return p
	}
	return filepath.Join(g.base, p)
}

// Len returns the number of archives the catalog names.
func (g *Galaxy) Len() int { return len(g.archives) }

// GetArchive returns archive idx and whether it is currently available.
func (g *Galaxy) GetArchive(idx int) (*archive.Archive, bool) {
	if idx < 0 || idx >= len(g.archives) {
		return nil, false
	}
	return g.archives[idx], g.available[idx]
}

// IsArchiveAvailable reports whether archive idx is open and usable.
func (g *Galaxy) IsArchiveAvailable(idx int) bool {
	return idx >= 0 && idx < len(g.available) && g.available[idx]
}

// Name and Description return archive idx's catalog entry (spec's per-
// archive {name, description} pair in str/str.meta).
func (g *Galaxy) Name(idx int) string        { return g.strs.GetFrom(idx) }
func (g *Galaxy) Description(idx int) string { return g.strs.GetSubject(idx) }

// Find resolves a raw Message-ID to its global index, or -1 if the galaxy
// has never seen it.
func (g *Galaxy) Find(msgid string) (int32, error) {
	return g.mids.Find(msgid, g.codec)
}

// GetMessageID decodes global index idx's Message-ID.
func (g *Galaxy) GetMessageID(idx int) string {
	return g.mids.GetMessageID(idx, g.codec)
}

// GetGroups returns the archive indices that contain global id idx.
func (g *Galaxy) GetGroups(idx uint32) []uint32 {
	rec := g.groups.Get(int(idx))
	if len(rec) == 0 {
		return nil
	}
	count := rec[0]
	if uint32(len(rec)-1) < count {
		return nil
	}
	return rec[1 : 1+count]
}

// AreChildrenSame reports whether every archive containing global id idx
// sees the same set of children for it, comparing by Message-ID equality
// after resolving each archive's children back to strings (spec §4.9).
func (g *Galaxy) AreChildrenSame(idx uint32) (bool, error) {
	archives := g.availableGroup(idx)
	if len(archives) <= 1 {
		return true, nil
	}
	msgid := g.GetMessageID(int(idx))

	a0, _ := g.GetArchive(archives[0])
	i0, err := a0.Find(msgid)
	if err != nil || i0 < 0 {
		return false, uaterr.NotFoundf("galaxy.AreChildrenSame", "message %q missing from archive %d", msgid, archives[0])
	}
	base := a0.GetChildren(int(i0))
	baseSet := make(map[string]bool, len(base))
	for _, c := range base {
		baseSet[a0.GetMessageID(int(c))] = true
	}

	for _, ai := range archives[1:] {
		a, _ := g.GetArchive(ai)
		idxA, err := a.Find(msgid)
		if err != nil || idxA < 0 {
			return false, uaterr.NotFoundf("galaxy.AreChildrenSame", "message %q missing from archive %d", msgid, ai)
		}
		children := a.GetChildren(int(idxA))
		if len(children) != len(base) {
			return false, nil
		}
		for _, c := range children {
			if !baseSet[a.GetMessageID(int(c))] {
				return false, nil
			}
		}
	}
	return true, nil
}

// AreParentsSame reports whether every archive containing global id idx
// agrees on its parent (both absent, or the same Message-ID).
func (g *Galaxy) AreParentsSame(idx uint32) (bool, error) {
	archives := g.availableGroup(idx)
	if len(archives) <= 1 {
		return true, nil
	}
	msgid := g.GetMessageID(int(idx))

	a0, _ := g.GetArchive(archives[0])
	i0, err := a0.Find(msgid)
	if err != nil || i0 < 0 {
		return false, uaterr.NotFoundf("galaxy.AreParentsSame", "message %q missing from archive %d", msgid, archives[0])
	}
	p0 := a0.GetParent(int(i0))
	var parentMsgid string
	if p0 >= 0 {
		parentMsgid = a0.GetMessageID(int(p0))
	}

	for _, ai := range archives[1:] {
		a, _ := g.GetArchive(ai)
		idxA, err := a.Find(msgid)
		if err != nil || idxA < 0 {
			return false, uaterr.NotFoundf("galaxy.AreParentsSame", "message %q missing from archive %d", msgid, ai)
		}
		pA := a.GetParent(int(idxA))
		if (p0 < 0) != (pA < 0) {
			return false, nil
		}
		if p0 >= 0 && a.GetMessageID(int(pA)) != parentMsgid {
			return false, nil
		}
	}
	return true, nil
}

// availableGroup returns GetGroups(idx) filtered to archives currently open.
func (g *Galaxy) availableGroup(idx uint32) []int {
	var out []int
	for _, ai := range g.GetGroups(idx) {
		if g.IsArchiveAvailable(int(ai)) {
			out = append(out, int(ai))
		}
	}
	return out
}

// ParentDepth walks archive ai's parent chain from local message index and
// returns the number of hops to its thread root.
func (g *Galaxy) ParentDepth(ai, localIndex int) int {
	a, ok := g.GetArchive(ai)
	if !ok {
		return 0
	}
	depth := 0
	for {
		p := a.GetParent(localIndex)
		if p < 0 {
			return depth
		}
		depth++
		localIndex = int(p)
	}
}

// Warp computes, for each available archive containing global id idx, the
// parent depth and child counts an archive-switch would land the user on.
func (g *Galaxy) Warp(idx uint32) ([]WarpEntry, error) {
	msgid := g.GetMessageID(int(idx))
	var out []WarpEntry
	for _, ai := range g.availableGroup(idx) {
		a, _ := g.GetArchive(ai)
		localIndex, err := a.Find(msgid)
		if err != nil || localIndex < 0 {
			continue
		}
		out = append(out, WarpEntry{
			Archive:        ai,
			ParentDepth:    g.ParentDepth(ai, int(localIndex)),
			DirectChildren: len(a.GetChildren(int(localIndex))),
			TotalChildren:  int(a.GetTotalSubtree(int(localIndex))) - 1,
		})
	}
	return out, nil
}

// indirectPos binary-searches indirect.dense for global id idx, returning
// its position in the dense array (spec §4.9).
func (g *Galaxy) indirectPos(idx uint32) (int, bool) {
	dense := g.indirectDense.View()
	target := uint64(idx)
	pos := sort.Search(len(dense), func(i int) bool { return dense[i] >= target })
	if pos >= len(dense) || dense[pos] != target {
		return -1, false
	}
	return pos, true
}

// indirectRecord returns {numParents, parents..., numChildren, children...}
// for dense position pos.
func (g *Galaxy) indirectRecord(pos int) []uint32 {
	return g.indirect.Get(pos)
}

// GetIndirectParents returns the extra cross-archive parent global ids
// discovered for idx, or nil if it has no overlay entry.
func (g *Galaxy) GetIndirectParents(idx uint32) []uint32 {
	pos, ok := g.indirectPos(idx)
	if !ok {
		return nil
	}
	rec := g.indirectRecord(pos)
	if len(rec) == 0 {
		return nil
	}
	numParents := rec[0]
	if uint32(len(rec)-1) < numParents {
		return nil
	}
	return rec[1 : 1+numParents]
}

// GetIndirectChildren returns the extra cross-archive child global ids
// discovered for idx, or nil if it has no overlay entry.
func (g *Galaxy) GetIndirectChildren(idx uint32) []uint32 {
	pos, ok := g.indirectPos(idx)
	if !ok {
		return nil
	}
	rec := g.indirectRecord(pos)
	numParents := rec[0]
	rest := rec[1+numParents:]
	if len(rest) == 0 {
		return nil
	}
	numChildren := rest[0]
	if uint32(len(rest)-1) < numChildren {
		return nil
	}
	return rest[1 : 1+numChildren]
}

// Close releases the catalog's own mappings and every archive opened
// alongside it.
func (g *Galaxy) Close() error {
	for _, a := range g.archives {
		if a != nil {
			_ = a.Close()
		}
	}
	if err := g.mids.Close(); err != nil {
		return err
	}
	if err := g.paths.Close(); err != nil {
		return err
	}
	if err := g.strs.Close(); err != nil {
		return err
	}
	if err := g.groups.Close(); err != nil {
		return err
	}
	if err := g.indirectDense.Close(); err != nil {
		return err
	}
	return g.indirect.Close()
}
