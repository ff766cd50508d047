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

// Command galaxy-tool builds a galaxy catalog directory (spec §6.3) out of a
// set of already-built archive packages, merging their per-archive
// Message-ID dictionaries into one global dictionary, and inspects a built
// catalog's warp/indirect-overlay status for a given Message-ID.
package main

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/wolfpld/usenetarchive-sub001/archive"
	"github.com/wolfpld/usenetarchive-sub001/galaxy"
	"github.com/wolfpld/usenetarchive-sub001/midtable"
	"github.com/wolfpld/usenetarchive-sub001/stringcompress"
	"github.com/wolfpld/usenetarchive-sub001/strtab"
	"github.com/wolfpld/usenetarchive-sub001/uat"
	"github.com/wolfpld/usenetarchive-sub001/uaterr"
	"github.com/wolfpld/usenetarchive-sub001/uatlog"
)

func main() {
	root := &cobra.Command{Use: "galaxy-tool", Short: "build and inspect a galaxy catalog"}

	var archivesDir, outDir string
	var hashSize int
	build := &cobra.Command{
		Use:   "build",
		Short: "merge a directory of archive packages into a galaxy catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return buildCatalog(archivesDir, outDir, hashSize)
		},
	}
	build.Flags().StringVar(&archivesDir, "archives", "", "directory of .uat archive package files")
	build.Flags().StringVar(&outDir, "out", "", "directory to write the galaxy catalog into")
	build.Flags().IntVar(&hashSize, "hash-size", 4096, "hash bucket count for the global Message-ID index")
	_ = build.MarkFlagRequired("archives")
	_ = build.MarkFlagRequired("out")

	var catalogDir, msgid string
	inspect := &cobra.Command{
		Use:   "inspect",
		Short: "report warp and indirect-overlay status for a Message-ID",
		RunE: func(cmd *cobra.Command, args []string) error {
			return inspectCatalog(catalogDir, msgid)
		},
	}
	inspect.Flags().StringVar(&catalogDir, "galaxy", "", "path to a built galaxy catalog directory")
	inspect.Flags().StringVar(&msgid, "msgid", "", "Message-ID to inspect")
	_ = inspect.MarkFlagRequired("galaxy")
	_ = inspect.MarkFlagRequired("msgid")

	root.AddCommand(build, inspect)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("galaxy-tool: %v", err))
		os.Exit(1)
	}
}

// archiveHandle pairs an opened archive with the global id each of its local
// message indices was assigned, so parent/child links can be translated into
// the galaxy's global numbering.
type archiveHandle struct {
	path    string
	name    string
	desc    string
	a       *archive.Archive
	globals []uat.GlobalIndex
}

func buildCatalog(archivesDir, outDir string, hashSize int) error {
	log := uatlog.Std()
	entries, err := os.ReadDir(archivesDir)
	if err != nil {
		return uaterr.IOErrorWrap("galaxy-tool.build", err)
	}

	var handles []*archiveHandle
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".uat" {
			continue
		}
		path := filepath.Join(archivesDir, e.Name())
		a, err := archive.Open(path, log)
		if err != nil {
			return err
		}
		short, long := a.Description()
		if short == "" {
			short = e.Name()
		}
		handles = append(handles, &archiveHandle{path: path, name: short, desc: long, a: a})
	}
	if len(handles) == 0 {
		return uaterr.Malformedf("galaxy-tool.build", "%s has no .uat archives", archivesDir)
	}
	defer func() {
		for _, h := range handles {
			_ = h.a.Close()
		}
	}()
	log.Infof("merging %d archives from %s", len(handles), archivesDir)

	globalOf := map[string]uat.GlobalIndex{}
	var globalIDs []string
	groups := map[uat.GlobalIndex][]int{}

	for ai, h := range handles {
		n := h.a.Len()
		h.globals = make([]uat.GlobalIndex, n)
		for i := 0; i < n; i++ {
			msgid := h.a.GetMessageID(i)
			gid, ok := globalOf[msgid]
			if !ok {
				gid = uat.GlobalIndex(len(globalIDs))
				globalOf[msgid] = gid
				globalIDs = append(globalIDs, msgid)
			}
			h.globals[i] = gid
			groups[gid] = appendUnique(groups[gid], ai)
		}
	}

	codec, err := stringcompress.New(hostsOf(globalIDs))
	if err != nil {
		return err
	}
	mb := midtable.NewBuilder(hashSize)
	for _, msgid := range globalIDs {
		if err := mb.Add(msgid, codec); err != nil {
			return err
		}
	}
	midmeta, middata, midhash, midhashdata := mb.Build()

	sb := &strtab.Builder{}
	var pathBlob []byte
	var pathOffs []uint32
	for _, h := range handles {
		pathOffs = append(pathOffs, uint32(len(pathBlob)))
		pathBlob = append(pathBlob, h.path...)
		pathBlob = append(pathBlob, 0)
		sb.Add(h.name, h.desc)
	}
	strmeta, strdata := sb.Build()

	var groupOffs []uint32
	var groupData []uint32
	for gid := 0; gid < len(globalIDs); gid++ {
		groupOffs = append(groupOffs, uint32(len(groupData))*4)
		archives := groups[uat.GlobalIndex(gid)]
		sort.Ints(archives)
		groupData = append(groupData, uint32(len(archives)))
		for _, ai := range archives {
			groupData = append(groupData, uint32(ai))
		}
	}

	indirectOffs, indirectData, indirectDense := buildIndirectOverlay(handles, groups, len(globalIDs))

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return uaterr.IOErrorWrap("galaxy-tool.build", err)
	}
	writes := map[string][]byte{
		"archives.meta":   encodeU32(pathOffs),
		"archives":        pathBlob,
		"str.meta":        strmeta,
		"str":             strdata,
		"msgid.meta":      midmeta,
		"msgid":           middata,
		"midhash.meta":    midhash,
		"midhash":         midhashdata,
		"msgid.codebook":  codec.Save(),
		"midgr.meta":      encodeU32(groupOffs),
		"midgr":           encodeU32(groupData),
		"indirect.offset": encodeU32(indirectOffs),
		"indirect":        encodeU32(indirectData),
		"indirect.dense":  encodeU64(indirectDense),
	}
	for name, body := range writes {
		if err := os.WriteFile(filepath.Join(outDir, name), body, 0o644); err != nil {
			return uaterr.IOErrorWrap("galaxy-tool.build", err)
		}
	}
	fmt.Println(color.GreenString("wrote galaxy catalog for %d archives, %d global messages, %d cross-linked",
		len(handles), len(globalIDs), len(indirectDense)))
	return nil
}

// buildIndirectOverlay records, for every global id carried by 2+ archives,
// the union of parent/child global ids any one of those archives knows about
// - the cross-archive knowledge a single local thread graph can't see on its
// own. Record layout: {numParents, parents..., numChildren, children...}.
func buildIndirectOverlay(handles []*archiveHandle, groups map[uat.GlobalIndex][]int, numGlobal int) (offs, data []uint32, dense []uint64) {
	parents := map[uat.GlobalIndex]map[uat.GlobalIndex]bool{}
	children := map[uat.GlobalIndex]map[uat.GlobalIndex]bool{}

	for _, h := range handles {
		n := h.a.Len()
		for i := 0; i < n; i++ {
			gid := h.globals[i]
			if p := h.a.GetParent(i); p >= 0 {
				pg := h.globals[p]
				if parents[gid] == nil {
					parents[gid] = map[uat.GlobalIndex]bool{}
				}
				parents[gid][pg] = true
			}
			for _, c := range h.a.GetChildren(i) {
				cg := h.globals[c]
				if children[gid] == nil {
					children[gid] = map[uat.GlobalIndex]bool{}
				}
				children[gid][cg] = true
			}
		}
	}

	for gid := uat.GlobalIndex(0); gid < uat.GlobalIndex(numGlobal); gid++ {
		if len(groups[gid]) < 2 {
			continue
		}
		ps := sortedKeys(parents[gid])
		cs := sortedKeys(children[gid])
		if len(ps) == 0 && len(cs) == 0 {
			continue
		}
		offs = append(offs, uint32(len(data))*4)
		data = append(data, uint32(len(ps)))
		data = append(data, ps...)
		data = append(data, uint32(len(cs)))
		data = append(data, cs...)
		dense = append(dense, uint64(gid))
	}
	return offs, data, dense
}

func sortedKeys(m map[uat.GlobalIndex]bool) []uint32 {
	if len(m) == 0 {
		return nil
	}
	out := make([]uint32, 0, len(m))
	for k := range m {
		out = append(out, uint32(k))
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func appendUnique(list []int, v int) []int {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}

func hostsOf(msgids []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, id := range msgids {
		at := -1
		for i := 0; i < len(id); i++ {
			if id[i] == '@' {
				at = i
				break
			}
		}
		if at < 0 {
			continue
		}
		host := id[at+1:]
		if !seen[host] {
			seen[host] = true
			out = append(out, host)
		}
	}
	return out
}

func encodeU32(vals []uint32) []byte {
	out := make([]byte, len(vals)*4)
	for i, v := range vals {
		binary.LittleEndian.PutUint32(out[i*4:i*4+4], v)
	}
	return out
}

func encodeU64(vals []uint64) []byte {
	out := make([]byte, len(vals)*8)
	for i, v := range vals {
		binary.LittleEndian.PutUint64(out[i*8:i*8+8], v)
	}
	return out
}

func inspectCatalog(dir, msgid string) error {
	gx, err := galaxy.Open(dir, uatlog.Std())
	if err != nil {
		return err
	}
	defer gx.Close()

	idx, err := gx.Find(msgid)
	if err != nil {
		return err
	}
	if idx < 0 {
		return fmt.Errorf("message %q not found in galaxy", msgid)
	}

	groups := gx.GetGroups(uint32(idx))
	fmt.Printf("%s: carried by %d archive(s)\n", msgid, len(groups))
	for _, ai := range groups {
		status := color.GreenString("up")
		if !gx.IsArchiveAvailable(int(ai)) {
			status = color.RedString("down")
		}
		fmt.Printf("  [%s] %s\n", status, gx.Name(int(ai)))
	}

	same, err := gx.AreParentsSame(uint32(idx))
	if err != nil {
		return err
	}
	childrenSame, err := gx.AreChildrenSame(uint32(idx))
	if err != nil {
		return err
	}
	fmt.Printf("parents agree: %v, children agree: %v\n", same, childrenSame)

	entries, err := gx.Warp(uint32(idx))
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Printf("  archive %d: parent depth %d, %d direct / %d total children\n",
			e.Archive, e.ParentDepth, e.DirectChildren, e.TotalChildren)
	}

	if parents := gx.GetIndirectParents(uint32(idx)); len(parents) > 0 {
		fmt.Printf("indirect parents: %v\n", parents)
	}
	if children := gx.GetIndirectChildren(uint32(idx)); len(children) > 0 {
		fmt.Printf("indirect children: %v\n", children)
	}
	return nil
}
