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

// defaultReList mirrors the original's ReList: the reply-subject prefixes a
// subject line may repeat, in any combination, before the real subject
// starts. Locale variants (e.g. Polish "Odp:") are kept as found in the
// wild.
var defaultReList = []string{
	"Re:", "RE:", "re:", "Odp:",
	"Re[2]:", "Re[3]:", "Re[4]:", "Re[5]:",
	"Re[6]:", "Re[7]:", "Re[8]:", "Re[9]:",
}

// AddReplyPrefix registers an additional subject prefix KillRe should strip,
// for archives whose source newsreaders use a locale-specific marker.
func AddReplyPrefix(prefix string) {
	defaultReList = append(defaultReList, prefix)
}

// KillRe strips every leading reply-prefix and surrounding space from a
// subject line, repeatedly, so "Re: Re: Odp: hello" reduces to "hello".
func KillRe(subject string) string {
	for {
		subject = strings.TrimLeft(subject, " ")
		matched := false
		for _, prefix := range defaultReList {
			if strings.HasPrefix(subject, prefix) {
				subject = subject[len(prefix):]
				matched = true
				break
			}
		}
		if !matched {
			return subject
		}
	}
}
