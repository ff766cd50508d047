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

import "strings"

const (
	minWordLen = 3
	maxWordLen = 13
)

// Tokenize splits text into the normalized words the lexicon indexes: ASCII
// lowercased, runs of letters/digits/intra-word hyphens, anything shorter
// than minWordLen or longer than maxWordLen discarded. Search calls this,
// and cmd/uat-build's own tokenizer applies the same rules, so a query word
// and its indexed form agree.
func Tokenize(text string) []string {
	var words []string
	var cur strings.Builder

	flush := func() {
		if cur.Len() == 0 {
			return
		}
		w := cur.String()
		cur.Reset()
		w = strings.Trim(w, "-")
		if len(w) >= minWordLen && len(w) <= maxWordLen {
			words = append(words, w)
		}
	}

	for _, r := range text {
		switch {
		case r >= 'A' && r <= 'Z':
			cur.WriteRune(r - 'A' + 'a')
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			cur.WriteRune(r)
		case r == '-':
			cur.WriteRune(r)
		default:
			flush()
		}
	}
	flush()
	return words
}
