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

// Command uat-query is the read-side stand-in for the TUI browser and web
// gateway (spec §6.4): it opens a single archive, or a whole galaxy
// directory, and runs search and thread-navigation operations from the
// command line.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/wolfpld/usenetarchive-sub001/archive"
	"github.com/wolfpld/usenetarchive-sub001/buildcfg"
	"github.com/wolfpld/usenetarchive-sub001/galaxy"
	"github.com/wolfpld/usenetarchive-sub001/search"
	"github.com/wolfpld/usenetarchive-sub001/uat"
	"github.com/wolfpld/usenetarchive-sub001/uatlog"
)

// exitCode maps a returned error's uaterr.Code to a shell-visible exit
// status, so scripted callers can tell "nothing found" apart from a genuine
// failure without scraping stderr text.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	switch uat.CodeOf(err) {
	case uat.NotFound:
		return 2
	case uat.Unavailable:
		return 3
	default:
		return 1
	}
}

func main() {
	var (
		archivePath   string
		galaxyDir     string
		gatewayConfig string
		minClientVers string
		query         string
		msgid         string
		thread        bool
		fuzzy         bool
		setLogic      bool
		adjacentWords bool
	)

	root := &cobra.Command{
		Use:   "uat-query",
		Short: "search and navigate an archive or galaxy from the command line",
		RunE: func(cmd *cobra.Command, args []string) error {
			if gatewayConfig != "" {
				if err := checkGateway(gatewayConfig, minClientVers); err != nil {
					return err
				}
			}
			switch {
			case archivePath != "":
				return runArchive(archivePath, query, msgid, thread, fuzzy, setLogic, adjacentWords)
			case galaxyDir != "":
				return runGalaxy(galaxyDir, msgid)
			default:
				return fmt.Errorf("one of --archive or --galaxy is required")
			}
		},
	}
	root.Flags().StringVar(&archivePath, "archive", "", "path to a single .uat archive package")
	root.Flags().StringVar(&galaxyDir, "galaxy", "", "path to a galaxy catalog directory")
	root.Flags().StringVar(&gatewayConfig, "gateway-config", "", "optional gateway INI file to validate --client-version against")
	root.Flags().StringVar(&minClientVers, "client-version", "", "client version to check against the gateway config's minimum")
	root.Flags().StringVar(&query, "search", "", "word/phrase query to run against --archive's lexicon")
	root.Flags().StringVar(&msgid, "msgid", "", "Message-ID to look up")
	root.Flags().BoolVar(&thread, "thread", false, "print the thread (parent chain and children) for --msgid")
	root.Flags().BoolVar(&fuzzy, "fuzzy", false, "enable fuzzy matching (shared prefix or one differing letter) for --search")
	root.Flags().BoolVar(&setLogic, "all-terms", false, "require every resolved query term to match (AND instead of OR)")
	root.Flags().BoolVar(&adjacentWords, "adjacent", false, "reward postings where query terms land close together")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("uat-query: %v", err))
		os.Exit(exitCode(err))
	}
}

func checkGateway(path, clientVersion string) error {
	cfg, err := buildcfg.Load(path)
	if err != nil {
		return err
	}
	if clientVersion == "" {
		return nil
	}
	ok, err := cfg.CheckClientVersion(clientVersion)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("client version %s is below gateway minimum %s", clientVersion, cfg.MinClientVersion)
	}
	return nil
}

func runArchive(path, query, msgid string, thread, fuzzy, setLogic, adjacentWords bool) error {
	a, err := archive.Open(path, uatlog.Std())
	if err != nil {
		return err
	}
	defer a.Close()

	short, long := a.Description()
	fmt.Printf("%s (%s) - %d messages\n", color.CyanString(short), long, a.Len())

	if query != "" {
		var flags search.Flags
		if fuzzy {
			flags |= search.FuzzySearch
		}
		if setLogic {
			flags |= search.SetLogic
		}
		if adjacentWords {
			flags |= search.AdjacentWords
		}
		res, err := a.Search(query, flags)
		if err != nil {
			return err
		}
		fmt.Printf("%d/%d terms matched, %d results\n", res.MatchedTerms, res.TotalTerms, res.Total)
		for _, e := range res.Entries {
			fmt.Printf("  [%6.2f] %s - %s\n", e.Rank, a.GetMessageID(int(e.MsgIndex)), a.GetSubject(int(e.MsgIndex)))
		}
	}

	if msgid != "" {
		idx, err := a.Find(msgid)
		if err != nil {
			return err
		}
		if idx < 0 {
			return uat.NotFoundf("archive", "message %q not found", msgid)
		}
		printMessage(a, int(idx))
		if thread {
			printThread(a, int(idx))
		}
	}
	return nil
}

func printMessage(a *archive.Archive, idx int) {
	fmt.Printf("from: %s\nsubject: %s\n", a.GetFrom(idx), a.GetSubject(idx))
	buf, err := a.GetMessage(idx, nil)
	if err != nil {
		fmt.Println(color.RedString("body unavailable: %v", err))
		return
	}
	fmt.Println(string(buf))
}

func printThread(a *archive.Archive, idx int) {
	fmt.Println(color.YellowString("-- thread --"))
	var chain []int
	for p := a.GetParent(idx); p >= 0; p = a.GetParent(int(p)) {
		chain = append([]int{int(p)}, chain...)
	}
	for depth, i := range chain {
		fmt.Printf("%s%s - %s\n", indent(depth), a.GetMessageID(i), a.GetSubject(i))
	}
	fmt.Printf("%s* %s - %s\n", indent(len(chain)), a.GetMessageID(idx), a.GetSubject(idx))
	for _, c := range a.GetChildren(idx) {
		fmt.Printf("%s  %s - %s\n", indent(len(chain)), a.GetMessageID(int(c)), a.GetSubject(int(c)))
	}
}

func indent(depth int) string {
	out := make([]byte, depth*2)
	for i := range out {
		out[i] = ' '
	}
	return string(out)
}

func runGalaxy(dir, msgid string) error {
	gx, err := galaxy.Open(dir, uatlog.Std())
	if err != nil {
		return err
	}
	defer gx.Close()

	fmt.Printf("%d archives catalogued\n", gx.Len())
	for i := 0; i < gx.Len(); i++ {
		status := color.GreenString("up")
		if !gx.IsArchiveAvailable(i) {
			status = color.RedString("down")
		}
		fmt.Printf("  [%s] %s - %s\n", status, gx.Name(i), gx.Description(i))
	}

	if msgid == "" {
		return nil
	}
	idx, err := gx.Find(msgid)
	if err != nil {
		return err
	}
	if idx < 0 {
		return uat.NotFoundf("galaxy", "message %q not found", msgid)
	}

	groups := gx.GetGroups(uint32(idx))
	fmt.Printf("%s is carried by %d archive(s): %v\n", msgid, len(groups), groups)

	same, err := gx.AreParentsSame(uint32(idx))
	if err != nil {
		return err
	}
	fmt.Printf("archives agree on parent: %v\n", same)

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
