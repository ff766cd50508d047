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

// Command uat-build reads a directory of normalized messages (the boundary
// contract left by the out-of-scope raw importers: one JSON file per
// message, already MIME/UTF-8-decoded) and packs them into an archive
// package file per spec §6.1-6.2.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/wolfpld/usenetarchive-sub001/connectivity"
	"github.com/wolfpld/usenetarchive-sub001/lexicon"
	"github.com/wolfpld/usenetarchive-sub001/midtable"
	"github.com/wolfpld/usenetarchive-sub001/msgstore"
	"github.com/wolfpld/usenetarchive-sub001/pkgformat"
	"github.com/wolfpld/usenetarchive-sub001/stringcompress"
	"github.com/wolfpld/usenetarchive-sub001/strtab"
	"github.com/wolfpld/usenetarchive-sub001/textutil"
	"github.com/wolfpld/usenetarchive-sub001/uaterr"
	"github.com/wolfpld/usenetarchive-sub001/uatlog"
	"github.com/wolfpld/usenetarchive-sub001/workerpool"
)

// normalizedMessage is the JSON shape the external importer/normalizer
// writes one file of per message, the boundary contract spec §1 hands off.
type normalizedMessage struct {
	ID         string   `json:"id"`
	References []string `json:"references"`
	From       string   `json:"from"`
	Subject    string   `json:"subject"`
	Date       uint32   `json:"date"`
	Body       string   `json:"body"`
}

func main() {
	var (
		inputDir  string
		outPath   string
		descShort string
		descLong  string
		hashSize  int
		store     string
	)

	cmd := &cobra.Command{
		Use:   "uat-build",
		Short: "pack a directory of normalized messages into an archive package",
		RunE: func(cmd *cobra.Command, args []string) error {
			return build(inputDir, outPath, descShort, descLong, hashSize, store)
		},
	}
	cmd.Flags().StringVar(&inputDir, "input", "", "directory of normalized message JSON files")
	cmd.Flags().StringVar(&outPath, "output", "", "package file to write")
	cmd.Flags().StringVar(&descShort, "short", "", "short newsgroup description")
	cmd.Flags().StringVar(&descLong, "long", "", "long newsgroup description")
	cmd.Flags().IntVar(&hashSize, "hash-size", 4096, "hash bucket count for the Message-ID and lexicon indexes")
	cmd.Flags().StringVar(&store, "store", "zstd", "message body codec: zstd (packaged) or lz4 (standalone meta+data pair)")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("uat-build: %v", err))
		os.Exit(1)
	}
}

func loadMessages(dir string) ([]normalizedMessage, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, uaterr.IOErrorWrap("uat-build", err)
	}
	var msgs []normalizedMessage
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		b, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, uaterr.IOErrorWrap("uat-build", err)
		}
		var m normalizedMessage
		if err := json.Unmarshal(b, &m); err != nil {
			return nil, uaterr.Malformedf("uat-build", "%s: %v", e.Name(), err)
		}
		if !stringcompress.IsMsgId(m.ID) {
			return nil, uaterr.Malformedf("uat-build", "%s: %q is not a well-formed Message-ID", e.Name(), m.ID)
		}
		msgs = append(msgs, m)
	}
	sort.Slice(msgs, func(i, j int) bool { return msgs[i].Date < msgs[j].Date })
	return msgs, nil
}

func hosts(msgs []normalizedMessage) []string {
	seen := map[string]bool{}
	var out []string
	for _, m := range msgs {
		at := -1
		for i := 0; i < len(m.ID); i++ {
			if m.ID[i] == '@' {
				at = i
				break
			}
		}
		if at < 0 {
			continue
		}
		host := m.ID[at+1:]
		if !seen[host] {
			seen[host] = true
			out = append(out, host)
		}
	}
	return out
}

// tokenize lowercases and splits body text on anything that isn't an ASCII
// letter, digit or hyphen, trims edge hyphens and drops words shorter than
// 3 or longer than 13 bytes, matching search.Tokenize's word shape.
func tokenize(line string) []string {
	var words []string
	var cur []byte
	flush := func() {
		if len(cur) > 0 {
			w := string(cur)
			for len(w) > 0 && w[0] == '-' {
				w = w[1:]
			}
			for len(w) > 0 && w[len(w)-1] == '-' {
				w = w[:len(w)-1]
			}
			if len(w) >= 3 && len(w) <= 13 {
				words = append(words, w)
			}
			cur = cur[:0]
		}
	}
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '-':
			cur = append(cur, c)
		case c >= 'A' && c <= 'Z':
			cur = append(cur, c+32)
		default:
			flush()
		}
	}
	flush()
	return words
}

func build(inputDir, outPath, descShort, descLong string, hashSize int, storeKind string) error {
	log := uatlog.Std()
	msgs, err := loadMessages(inputDir)
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		return uaterr.Malformedf("uat-build", "%s has no normalized messages", inputDir)
	}
	log.Infof("packing %d messages from %s", len(msgs), inputDir)

	codec, err := stringcompress.New(hosts(msgs))
	if err != nil {
		return err
	}

	lookup := map[string]int32{}
	mb := midtable.NewBuilder(hashSize)
	sb := &strtab.Builder{}
	parents := make([]int32, len(msgs))
	var missingParents int

	for i, m := range msgs {
		if err := mb.Add(m.ID, codec); err != nil {
			return err
		}
		sb.Add(m.From, m.Subject)

		parent, missing := connectivity.ResolveParent(m.References, func(msgid string) int32 {
			if idx, ok := lookup[msgid]; ok {
				return idx
			}
			return -1
		})
		parents[i] = parent
		missingParents += len(missing)
		lookup[m.ID] = int32(i)
	}
	if missingParents > 0 {
		log.Warnf("%d reference(s) to messages outside this archive", missingParents)
	}

	children := make(map[int32][]int)
	for i, p := range parents {
		if p >= 0 {
			children[p] = append(children[p], i)
		}
	}
	for p := range children {
		sort.Slice(children[p], func(i, j int) bool {
			return msgs[children[p][i]].Date < msgs[children[p][j]].Date
		})
	}

	recs := make([]connectivity.Record, len(msgs))
	var toplevel []uint32
	for i, m := range msgs {
		var kids []uint32
		for _, c := range children[int32(i)] {
			kids = append(kids, uint32(c))
		}
		recs[i] = connectivity.Record{Epoch: m.Date, Parent: parents[i], Children: kids}
		if parents[i] < 0 {
			toplevel = append(toplevel, uint32(i))
		}
	}
	totalSubtree := connectivity.ComputeTotalSubtree(recs)
	connmeta, conndata := connectivity.EncodeRecords(recs, totalSubtree)
	toplevelBytes := connectivity.EncodeToplevel(toplevel)

	lb := lexicon.NewBuilder(hashSize)
	for i, m := range msgs {
		classes := textutil.ClassifyBody(m.Body)
		lines := splitLines(m.Body)
		ordinal := map[string]map[textutil.PositionClass]int{}

		var topOfMessage uint8
		if parents[i] < 0 {
			topOfMessage = 1 // thread root, per Posting.TopOfMessage
		}

		addWords := func(words []string, class textutil.PositionClass) {
			for _, w := range words {
				if ordinal[w] == nil {
					ordinal[w] = map[textutil.PositionClass]int{}
				}
				ord := ordinal[w][class]
				ordinal[w][class] = ord + 1
				lb.AddHit(w, uint32(i), class, ord, topOfMessage)
			}
		}
		addWords(tokenize(m.Subject), textutil.PosSubject)
		for li, line := range lines {
			if li >= len(classes) {
				break
			}
			addWords(tokenize(line), classes[li])
		}
	}
	lexstr, lexhash, lexhashdata, lexmeta, lexdata, lexhit := lb.Build()

	bodies := map[string][]byte{
		"desc_short": []byte(descShort),
		"desc_long":  []byte(descLong),
		"conndata":   conndata,
		"connmeta":   connmeta,
		"toplevel":   toplevelBytes,
	}
	midmeta, middata, midhash, midhashdata := mb.Build()
	bodies["midmeta"] = midmeta
	bodies["middata"] = middata
	bodies["midhash"] = midhash
	bodies["midhashdata"] = midhashdata
	bodies["midcodec"] = codec.Save()
	strmeta, strdata := sb.Build()
	bodies["strmeta"] = strmeta
	bodies["strings"] = strdata
	bodies["lexstr"] = lexstr
	bodies["lexhash"] = lexhash
	bodies["lexhashdata"] = lexhashdata
	bodies["lexmeta"] = lexmeta
	bodies["lexdata"] = lexdata
	bodies["lexhit"] = lexhit

	switch storeKind {
	case "zstd":
		zmeta, zdata, err := compressZstd(msgs)
		if err != nil {
			return err
		}
		bodies["zmeta"] = zmeta
		bodies["zdata"] = zdata
	case "lz4":
		return writeLZ4Standalone(msgs, outPath)
	default:
		return uaterr.Malformedf("uat-build", "unknown --store %q", storeKind)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return uaterr.IOErrorWrap("uat-build", err)
	}
	defer f.Close()
	if err := pkgformat.Write(f, pkgformat.BaselineVersion, bodies); err != nil {
		return err
	}
	fmt.Println(color.GreenString("wrote %s (%d messages)", outPath, len(msgs)))
	return nil
}

// compressZstd frames every message body with a bounded worker pool
// (spec §5) and assembles the zmeta/zdata pair in message-index order.
func compressZstd(msgs []normalizedMessage) (zmeta, zdata []byte, err error) {
	var offset uint64
	recs := make([]msgstore.Record, len(msgs))
	werr := workerpool.Run(context.Background(), len(msgs), 8,
		func(_ context.Context, i int) ([]byte, error) {
			return msgstore.EncodeZstdFrame([]byte(msgs[i].Body), nil)
		},
		func(i int, frame []byte) error {
			recs[i] = msgstore.Record{Offset: offset, Size: uint32(len(msgs[i].Body)), CompressedSize: uint32(len(frame))}
			offset += uint64(len(frame))
			zdata = append(zdata, frame...)
			return nil
		}, nil)
	if werr != nil {
		return nil, nil, werr
	}
	return msgstore.EncodeMeta(recs), zdata, nil
}

func writeLZ4Standalone(msgs []normalizedMessage, outPrefix string) error {
	var zdata []byte
	recs := make([]msgstore.Record, len(msgs))
	for i, m := range msgs {
		frame, err := msgstore.EncodeLZ4Frame([]byte(m.Body))
		if err != nil {
			return err
		}
		recs[i] = msgstore.Record{Offset: uint64(len(zdata)), Size: uint32(len(m.Body)), CompressedSize: uint32(len(frame))}
		zdata = append(zdata, frame...)
	}
	meta := msgstore.EncodeMeta(recs)
	if err := os.WriteFile(outPrefix+".meta", meta, 0o644); err != nil {
		return uaterr.IOErrorWrap("uat-build", err)
	}
	if err := os.WriteFile(outPrefix+".data", zdata, 0o644); err != nil {
		return uaterr.IOErrorWrap("uat-build", err)
	}
	fmt.Println(color.GreenString("wrote %s.meta / %s.data (%d messages, lz4)", outPrefix, outPrefix, len(msgs)))
	return nil
}

func splitLines(body string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(body); i++ {
		if body[i] == '\n' {
			lines = append(lines, body[start:i])
			start = i + 1
		}
	}
	if start < len(body) {
		lines = append(lines, body[start:])
	}
	return lines
}
