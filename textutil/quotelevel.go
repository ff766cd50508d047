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

// QuotationLevel counts the leading '>'/'|' quote markers (and bare-letter
// "ab>" style attribution markers some clients emit) at the start of a
// single line, not counting an emoticon ":)"/":-)" as a quote colon.
func QuotationLevel(line string) int {
	level := 0
	i := 0
	n := len(line)
	for i < n {
		switch line[i] {
		case ':':
			if (i+1 < n && line[i+1] == ')') || (i+2 < n && line[i+1] == '-' && line[i+2] == ')') {
				return level
			}
			level++
			i++
		case '>', '|':
			level++
			i++
		case ' ', '\t':
			i++
		default:
			c := line[i]
			if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') {
				j := i + 1
				for j < n && ((line[j] >= 'A' && line[j] <= 'Z') || (line[j] >= 'a' && line[j] <= 'z')) {
					j++
				}
				if j >= n || line[j] != '>' {
					return level
				}
				i = j
			} else {
				return level
			}
		}
	}
	return level
}

// NextQuotationLevel returns the index, at or after start, of the next quote
// marker character, or len(line) if the line has none from there on.
func NextQuotationLevel(line string, start int) int {
	i := start
	for i < len(line) {
		switch line[i] {
		case ':', '>', '|':
			return i
		}
		i++
	}
	return i
}

func splitLines(text string) []string {
	return strings.Split(text, "\n")
}

// looksLikeWroteMarker recognizes the trailing-line idioms that typically
// introduce a quoted reply: "X wrote:", "[...]", "<...>", or a trailing
// ellipsis.
func looksLikeWroteMarker(line string) bool {
	e := strings.TrimRight(line, " \t")
	if e == "" {
		return false
	}
	if strings.HasSuffix(e, ":") {
		return true
	}
	if len(e) >= 2 {
		if e[0] == '[' && e[len(e)-1] == ']' {
			return true
		}
		if e[0] == '<' && e[len(e)-1] == '>' {
			return true
		}
	}
	return strings.HasSuffix(e, "...")
}

// DetectWrote reports how many leading lines of body form a "so-and-so
// wrote:" attribution block: 0 (none, including when the first non-blank
// line is already quoted), 1 (an unquoted first line directly followed by a
// quoted line), or 2 (an unquoted line, then an unquoted attribution line,
// then a quoted line).
func DetectWrote(body string) int {
	lines := splitLines(body)

	idx := skipBlank(lines, 0)
	if idx >= len(lines) {
		return 0
	}
	line1 := strings.TrimLeft(lines[idx], " \t")
	if QuotationLevel(line1) != 0 {
		return 0
	}

	idx = skipBlank(lines, idx+1)
	if idx >= len(lines) {
		return 0
	}
	line2 := strings.TrimLeft(lines[idx], " \t")
	if QuotationLevel(line2) != 0 {
		return 1
	}
	if !looksLikeWroteMarker(line2) {
		return 0
	}

	idx = skipBlank(lines, idx+1)
	if idx >= len(lines) {
		return 0
	}
	line3 := strings.TrimLeft(lines[idx], " \t")
	if QuotationLevel(line3) != 0 {
		return 2
	}
	return 0
}

func skipBlank(lines []string, from int) int {
	i := from
	for i < len(lines) && strings.TrimLeft(lines[i], " \t") == "" {
		i++
	}
	return i
}
