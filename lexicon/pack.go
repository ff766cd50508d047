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

package lexicon

import "github.com/wolfpld/usenetarchive-sub001/textutil"

const (
	// msgIndexBits sizes the low part of a packed postid; the remaining 3
	// high bits hold a top-of-message children count capped at 7 (spec
	// §3.5/§4.5 "postid (29 bits) | topOfMessage (3 bits)").
	msgIndexBits = 29
	msgIndexMask = uint32(1)<<msgIndexBits - 1
	maxTopOfMsg  = 7

	// ordinalBits sizes the low part of a packed hit; the 3 high bits hold
	// the position class (spec §3 lexhit layout).
	ordinalBits  = 5
	ordinalMask  = uint8(1)<<ordinalBits - 1
	maxOrdinal   = ordinalMask
	classShift   = ordinalBits
)

// PackPostID packs a message index and a top-of-message weight into the
// 32-bit postid stored in a PostingRecord.
func PackPostID(msgIndex uint32, topOfMessage uint8) uint32 {
	if topOfMessage > maxTopOfMsg {
		topOfMessage = maxTopOfMsg
	}
	return (msgIndex & msgIndexMask) | (uint32(topOfMessage) << msgIndexBits)
}

// UnpackPostID splits a packed postid back into message index and
// top-of-message weight.
func UnpackPostID(v uint32) (msgIndex uint32, topOfMessage uint8) {
	return v & msgIndexMask, uint8(v >> msgIndexBits)
}

// PackHit packs a position class and an in-class ordinal into one lexhit
// byte, saturating the ordinal at 31 rather than wrapping.
func PackHit(class textutil.PositionClass, ordinal int) byte {
	if ordinal < 0 {
		ordinal = 0
	}
	if ordinal > int(maxOrdinal) {
		ordinal = int(maxOrdinal)
	}
	return byte(class)<<classShift | byte(ordinal)
}

// UnpackHit splits a lexhit byte back into position class and ordinal.
func UnpackHit(b byte) (class textutil.PositionClass, ordinal int) {
	return textutil.PositionClass(b >> classShift), int(b & ordinalMask)
}
