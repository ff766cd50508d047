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

package search

import (
	"sort"
	"strings"

	"github.com/wolfpld/usenetarchive-sub001/lexicon"
	"github.com/wolfpld/usenetarchive-sub001/textutil"
	"github.com/wolfpld/usenetarchive-sub001/uat"
)

// Flags toggles the optional query behaviours (spec §4.6).
type Flags uint8

const (
	// AdjacentWords rewards postings where matched words land close
	// together within the same position class.
	AdjacentWords Flags = 1 << iota
	// FuzzySearch also matches dictionary words that are a prefix of a
	// query term, have it as a prefix, or differ from it in exactly one
	// byte at equal length, scored at half weight.
	FuzzySearch
	// SetLogic requires every query term that resolved to a dictionary
	// word to be present in a posting, instead of any one of them.
	SetLogic
)

// classWeight fixes the position-class contribution to a posting's score.
// Subject and From carry the most weight, a bare signature line none at all.
var classWeight = map[textutil.PositionClass]float64{
	textutil.PosSubject:        5,
	textutil.PosHeaderFrom:     4,
	textutil.PosBodyTop:        3,
	textutil.PosBodyUnquoted:   2,
	textutil.PosBodyQuotedLow:  1,
	textutil.PosBodyQuotedHigh: 1,
	textutil.PosSignature:      0,
	textutil.PosWroteContext:   1,
}

const (
	fuzzyWeight       = 0.5
	adjacencyWindow   = 3
	adjacencyPerPair  = 1.0
	adjacencyMaxBonus = 5.0
)

// ResultEntry is one matched message, ranked.
type ResultEntry struct {
	MsgIndex     uat.MsgIndex
	Rank         float64
	MatchedWords []string
}

// Result is the outcome of a Search call.
type Result struct {
	Entries      []ResultEntry
	Total        int
	MatchedTerms int // distinct query terms that resolved to an indexed word
	TotalTerms   int // distinct query terms after tokenization
}

type termMatch struct {
	word     string
	weight   float64
	postings map[uint32]lexicon.Posting
}

type termGroup struct {
	term    string
	matches []termMatch
}

// Search tokenizes query, resolves each term against lex, and ranks the
// union (or, under SetLogic, the intersection) of matched messages.
func Search(lex *lexicon.Lexicon, query string, flags Flags) (Result, error) {
	terms := dedupe(Tokenize(query))
	res := Result{TotalTerms: len(terms)}
	if len(terms) == 0 {
		return res, nil
	}

	var groups []termGroup
	var dictionary []string
	if flags&FuzzySearch != 0 {
		dictionary = lex.Words()
	}

	for _, t := range terms {
		g := termGroup{term: t}

		if postings, err := lex.Lookup(t); err != nil {
			return Result{}, err
		} else if len(postings) > 0 {
			g.matches = append(g.matches, termMatch{word: t, weight: 1, postings: toMap(postings)})
		}

		if flags&FuzzySearch != 0 {
			for _, w := range dictionary {
				if w == t || !isFuzzyNeighbor(t, w) {
					continue
				}
				postings, err := lex.Lookup(w)
				if err != nil {
					return Result{}, err
				}
				if len(postings) > 0 {
					g.matches = append(g.matches, termMatch{word: w, weight: fuzzyWeight, postings: toMap(postings)})
				}
			}
		}

		if len(g.matches) > 0 {
			groups = append(groups, g)
			res.MatchedTerms++
		}
	}

	if len(groups) == 0 {
		return res, nil
	}

	candidates := map[uint32]bool{}
	for _, g := range groups {
		for _, m := range g.matches {
			for msgIndex := range m.postings {
				candidates[msgIndex] = true
			}
		}
	}

	entries := make([]ResultEntry, 0, len(candidates))
	for msgIndex := range candidates {
		entry, ok := rank(msgIndex, groups, flags)
		if ok {
			entries = append(entries, entry)
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Rank != entries[j].Rank {
			return entries[i].Rank > entries[j].Rank
		}
		return entries[i].MsgIndex < entries[j].MsgIndex
	})

	res.Entries = entries
	res.Total = len(entries)
	return res, nil
}

// rank scores one candidate message against every term group, returning
// ok=false when SetLogic is set and a required group has no match here.
func rank(msgIndex uint32, groups []termGroup, flags Flags) (ResultEntry, bool) {
	var matchedWords []string
	var hitGroups [][]lexicon.Hit
	score := 1.0
	matched := false

	for _, g := range groups {
		best, bestHits, ok := bestMatch(g, msgIndex)
		if !ok {
			if flags&SetLogic != 0 {
				return ResultEntry{}, false
			}
			continue
		}
		matched = true
		matchedWords = append(matchedWords, g.term)
		score *= best
		hitGroups = append(hitGroups, bestHits)
	}

	if !matched {
		return ResultEntry{}, false
	}
	if flags&AdjacentWords != 0 && len(hitGroups) > 1 {
		score += adjacencyBonus(hitGroups)
	}
	return ResultEntry{MsgIndex: msgIndex, Rank: score, MatchedWords: matchedWords}, true
}

// bestMatch picks the highest-scoring match within a term group for one
// message (an exact hit normally beats a fuzzy neighbor's half-weight hit).
func bestMatch(g termGroup, msgIndex uint32) (float64, []lexicon.Hit, bool) {
	var bestScore float64
	var bestHits []lexicon.Hit
	found := false
	for _, m := range g.matches {
		p, ok := m.postings[msgIndex]
		if !ok {
			continue
		}
		s := baseScore(p.Hits) * m.weight
		if !found || s > bestScore {
			found = true
			bestScore = s
			bestHits = p.Hits
		}
	}
	return bestScore, bestHits, found
}

func baseScore(hits []lexicon.Hit) float64 {
	var s float64
	for _, h := range hits {
		s += classWeight[h.Class]
	}
	return s
}

// adjacencyBonus rewards postings where hits from distinct matched terms
// land within adjacencyWindow ordinals of each other in the same class.
func adjacencyBonus(hitGroups [][]lexicon.Hit) float64 {
	var bonus float64
	for i := 0; i < len(hitGroups); i++ {
		for j := i + 1; j < len(hitGroups); j++ {
			for _, a := range hitGroups[i] {
				for _, b := range hitGroups[j] {
					if a.Class != b.Class {
						continue
					}
					d := a.Ordinal - b.Ordinal
					if d < 0 {
						d = -d
					}
					if d <= adjacencyWindow {
						bonus += adjacencyPerPair
					}
				}
			}
		}
	}
	if bonus > adjacencyMaxBonus {
		bonus = adjacencyMaxBonus
	}
	return bonus
}

func toMap(postings []lexicon.Posting) map[uint32]lexicon.Posting {
	m := make(map[uint32]lexicon.Posting, len(postings))
	for _, p := range postings {
		m[p.MsgIndex] = p
	}
	return m
}

func dedupe(words []string) []string {
	seen := make(map[string]bool, len(words))
	out := words[:0]
	for _, w := range words {
		if seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

// isFuzzyNeighbor reports whether b is a plausible near-match of a: one is a
// prefix of the other, or they're the same length and differ in exactly one
// byte, at any position.
// Cheap stand-in for an edit-distance-1 check, applied only to dictionary
// words the hash index already holds.
func isFuzzyNeighbor(a, b string) bool {
	if strings.HasPrefix(a, b) || strings.HasPrefix(b, a) {
		return true
	}
	if len(a) != len(b) {
		return false
	}
	diff := 0
	for i := 0; i < len(a); i++ {
		if a[i] != b[i] {
			diff++
			if diff > 1 {
				return false
			}
		}
	}
	return diff == 1
}
