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

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// FindURL scans s for the first recognizable URL at or after from, returning
// its [start,end) span. A scheme is any run of >=3 letters immediately
// before a ':'; "news:" gets the special slrn-style handling for bracketed
// Message-IDs, everything else requires "://" and a run of non-whitespace,
// non-bracket bytes. Trailing punctuation ('.', ',', ';', ':', '(', ')') is
// trimmed off the match.
func FindURL(s string, from int) (start, end int, ok bool) {
	for from < len(s) {
		colon := strings.IndexByte(s[from:], ':')
		if colon < 0 {
			return 0, 0, false
		}
		colon += from

		p := colon
		for p > from && isAlpha(s[p-1]) {
			p--
		}
		if colon-p < 3 {
			from = colon + 1
			continue
		}

		var tmp int
		if colon-p == 4 && len(s)-colon >= 5 && strings.HasPrefix(s[p:], "news:") {
			tmp = colon + 1
			brackets := false
			if tmp < len(s) && s[tmp] == '<' {
				brackets = true
				tmp++
			}
			for tmp < len(s) && s[tmp] != ' ' && s[tmp] != '\t' && s[tmp] != '<' && s[tmp] != '>' {
				tmp++
			}
			if brackets && tmp < len(s) && s[tmp] == '>' {
				tmp++
			}
		} else if len(s)-colon < 3 || s[colon+1] != '/' || s[colon+2] != '/' {
			from = colon + 1
			continue
		} else {
			tmp = colon + 3
			for tmp < len(s) && s[tmp] != ' ' && s[tmp] != '\t' && s[tmp] != '"' &&
				s[tmp] != '{' && s[tmp] != '}' && s[tmp] != '<' && s[tmp] != '>' {
				tmp++
			}
		}

		for tmp > p && strings.IndexByte(".,;:()", s[tmp-1]) >= 0 {
			tmp--
		}

		if tmp-p < 6 {
			from = colon + 1
			continue
		}
		if tmp-p >= 3 && s[tmp-3] == ':' && s[tmp-2] == '/' && s[tmp-1] == '/' {
			from = colon + 1
			continue
		}
		return p, tmp, true
	}
	return 0, 0, false
}
