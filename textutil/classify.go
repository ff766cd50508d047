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

package textutil

import "strings"

// PositionClass is the coarse position a word occupies within a message,
// matching the top 3 bits of a packed lexicon hit (spec §3 lexhit layout).
type PositionClass uint8

const (
	PosSubject PositionClass = iota
	PosHeaderFrom
	PosBodyTop
	PosBodyUnquoted
	PosBodyQuotedLow  // quote levels 1-3, folded into one class
	PosBodyQuotedHigh // quote levels 4-5 and beyond
	PosSignature
	PosWroteContext
)

// ClassifyBody assigns one PositionClass per line of a message body (the
// text after the header/body blank-line split), for the lexicon builder to
// stamp onto every word token it extracts from that line.
func ClassifyBody(body string) []PositionClass {
	lines := splitLines(body)
	classes := make([]PositionClass, len(lines))

	wroteLines := DetectWrote(body)
	sig := false
	quoteSeen := false

	for i, line := range lines {
		switch {
		case sig:
			classes[i] = PosSignature
		case line == "-- ":
			sig = true
			classes[i] = PosSignature
		case i < wroteLines:
			classes[i] = PosWroteContext
		default:
			trimmed := strings.TrimLeft(line, " \t")
			if trimmed == "" {
				classes[i] = PosBodyUnquoted
				continue
			}
			level := QuotationLevel(trimmed)
			switch {
			case level == 0:
				if quoteSeen {
					classes[i] = PosBodyUnquoted
				} else {
					classes[i] = PosBodyTop
				}
			case level <= 3:
				classes[i] = PosBodyQuotedLow
				quoteSeen = true
			default:
				classes[i] = PosBodyQuotedHigh
				quoteSeen = true
			}
		}
	}
	return classes
}
