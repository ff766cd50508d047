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

package stringcompress

import (
	"bytes"
	"encoding/binary"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/wolfpld/usenetarchive-sub001/uaterr"
)

const (
	endOfString   = 0x00
	hostReference = 0x01

	// hashSize sizes the per-archive host-lookup hash; it need not be a power
	// of two since it is only ever used modulo, not masked.
	hashSize = 256

	// hostReserve offsets real host ids so that 0 can mean "empty bucket" and
	// 1 ("badHashMark") can mean "bucket has a collision, fall back to binary
	// search". The byte emitted after the 0x01 opcode is host-index+hostReserve,
	// so at most 256-hostReserve hosts fit in one archive's table.
	hostReserve  = 2
	badHashMark  = 1
	emptyHashVal = 0

	maxHosts = 256 - hostReserve
)

// Codec is one archive's Message-ID compressor: the fixed codebook plus that
// archive's host dictionary. Build one with New (fresh) or Load (from a
// previously written host table); both are safe for concurrent Pack/Unpack
// calls since neither mutates state after construction.
type Codec struct {
	hostBlob   []byte   // NUL-terminated host strings, concatenated
	hostOffset []uint32 // offset into hostBlob, indexed by host id
	hostHash   [hashSize]uint8
}

// New builds a Codec from a sorted, de-duplicated list of hostnames (as found
// across every Message-ID in one archive, or the galaxy-wide superset).
func New(hosts []string) (*Codec, error) {
	if len(hosts) > maxHosts {
		return nil, uaterr.Malformedf("stringcompress.New", "archive has %d distinct hosts, codec caps at %d", len(hosts), maxHosts)
	}
	sorted := append([]string(nil), hosts...)
	sort.Strings(sorted)

	c := &Codec{
		hostOffset: make([]uint32, len(sorted)),
	}
	for i, h := range sorted {
		c.hostOffset[i] = uint32(len(c.hostBlob))
		c.hostBlob = append(c.hostBlob, h...)
		c.hostBlob = append(c.hostBlob, 0)
	}
	c.buildHostHash(sorted)
	return c, nil
}

func (c *Codec) buildHostHash(sortedHosts []string) {
	for i := range c.hostHash {
		c.hostHash[i] = emptyHashVal
	}
	for i, h := range sortedHosts {
		hb := int(xxhash.Sum64String(h) % hashSize)
		if c.hostHash[hb] == emptyHashVal {
			c.hostHash[hb] = uint8(i + hostReserve)
		} else {
			c.hostHash[hb] = badHashMark
		}
	}
}

func (c *Codec) hostAt(id int) string {
	start := c.hostOffset[id]
	end := uint32(len(c.hostBlob))
	if id+1 < len(c.hostOffset) {
		end = c.hostOffset[id+1]
	}
	return string(bytes.TrimRight(c.hostBlob[start:end], "\x00"))
}

func (c *Codec) lookupHost(host string) (id int, found bool) {
	hb := int(xxhash.Sum64String(host) % hashSize)
	v := c.hostHash[hb]
	switch {
	case v == emptyHashVal:
		return 0, false
	case v == badHashMark:
		lo, hi := 0, len(c.hostOffset)
		for lo < hi {
			mid := (lo + hi) / 2
			if c.hostAt(mid) < host {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		if lo < len(c.hostOffset) && c.hostAt(lo) == host {
			return lo, true
		}
		return 0, false
	default:
		id := int(v) - hostReserve
		if c.hostAt(id) == host {
			return id, true
		}
		return 0, false
	}
}

// isBigramEligible matches the original's restricted class for multi-char
// code units: '$', '.', digits, and lowercase 'a'..'v'.
func isBigramEligible(b byte) bool {
	return b == '$' || b == '.' || (b >= '0' && b <= '9') || (b >= 'a' && b <= 'v')
}

func lookupTrigram(s string) (uint8, bool) {
	if len(s) < 3 {
		return 0, false
	}
	key := s[:3]
	i := sort.SearchStrings(trigramTable[:], key)
	if i < len(trigramTable) && trigramTable[i] == key {
		return trigramOpcode[i], true
	}
	return 0, false
}

func lookupBigram(s string) (uint8, bool) {
	if len(s) < 2 {
		return 0, false
	}
	key := s[:2]
	i := sort.SearchStrings(bigramTable[:], key)
	if i < len(bigramTable) && bigramTable[i] == key {
		return bigramOpcode[i], true
	}
	return 0, false
}

// Pack compresses a well-formed Message-ID (or any 7-bit printable ASCII
// string without an embedded NUL) into out, returning the number of bytes
// written including the terminator. Per spec §4.1, out must have capacity
// for at least 2*len(in)+2 bytes.
func (c *Codec) Pack(in string, out []byte) (int, error) {
	o := 0
	i := 0
	for i < len(in) {
		ch := in[i]
		if ch == '@' {
			host := in[i+1:]
			if id, ok := c.lookupHost(host); ok {
				out[o] = hostReference
				out[o+1] = byte(id + hostReserve)
				o += 2
			} else {
				out[o] = '@'
				o++
				o += copy(out[o:], host)
			}
			i = len(in)
			break
		}

		if isBigramEligible(ch) {
			if op, ok := lookupTrigram(in[i:]); ok {
				out[o] = op
				o++
				i += 3
				continue
			}
			if op, ok := lookupBigram(in[i:]); ok {
				out[o] = op
				o++
				i += 2
				continue
			}
		}

		if ch < 32 || ch > 126 {
			return 0, uaterr.Malformedf("stringcompress.Pack", "byte 0x%02x at position %d is not printable ASCII", ch, i)
		}
		out[o] = ch
		o++
		i++
	}
	out[o] = endOfString
	o++
	return o, nil
}

// PackString is a convenience wrapper that allocates its own output buffer.
func (c *Codec) PackString(in string) ([]byte, error) {
	buf := make([]byte, len(in)*2+2)
	n, err := c.Pack(in, buf)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

// Unpack decodes a packed opcode stream back to the original string. It never
// fails on a well-formed packed stream (spec §4.1). The result is built in a
// growable buffer, so callers supply no output buffer and need no size bound.
func (c *Codec) Unpack(in []byte) string {
	var out bytes.Buffer
	i := 0
	for i < len(in) && in[i] != endOfString {
		op := in[i]
		switch {
		case op == hostReference:
			i++
			id := int(in[i]) - hostReserve
			out.WriteByte('@')
			out.WriteString(c.hostAt(id))
			i++
			return out.String()
		case op >= 32 && op <= 126:
			out.WriteByte(op)
			if op == '@' {
				i++
				out.Write(in[i:])
				return out.String()
			}
			i++
		default:
			out.WriteString(codeBook[op])
			i++
		}
	}
	return out.String()
}

// IsMsgId reports whether s has the well-formed shape required before a
// Message-ID is eligible for the hash index (spec §3.2): 7-bit printable
// ASCII, exactly one '@', non-empty on both sides, and no '<' or '>'.
func IsMsgId(s string) bool {
	at := -1
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 0x20 || c > 0x7E {
			return false
		}
		if c == '<' || c == '>' {
			return false
		}
		if c == '@' {
			if at >= 0 {
				return false
			}
			at = i
		}
	}
	return at > 0 && at < len(s)-1
}

// Repack decodes in with src's codec and re-encodes it with c's codec —
// required whenever a packed Message-ID crosses from one archive's codec (or
// the galaxy's) to another, because host ids are archive-local (spec §4.9).
func (c *Codec) Repack(in []byte, src *Codec) ([]byte, error) {
	return c.PackString(src.Unpack(in))
}

// Hosts returns the sorted host list backing this codec, for serialization.
func (c *Codec) Hosts() []string {
	out := make([]string, len(c.hostOffset))
	for i := range out {
		out[i] = c.hostAt(i)
	}
	return out
}

// Save serializes the host table in the on-disk layout consumed by Load:
// dataLen(u32) + data + maxHost(u32) + hostOffset(u32 x maxHost) + hostHash(u8 x hashSize).
// No separate host-lookup permutation is stored or rebuilt: the table is
// already sorted by host string, which lookupHost's binary search relies on.
func (c *Codec) Save() []byte {
	var buf bytes.Buffer
	var tmp [4]byte

	binary.LittleEndian.PutUint32(tmp[:], uint32(len(c.hostBlob)))
	buf.Write(tmp[:])
	buf.Write(c.hostBlob)

	binary.LittleEndian.PutUint32(tmp[:], uint32(len(c.hostOffset)))
	buf.Write(tmp[:])
	for _, off := range c.hostOffset {
		binary.LittleEndian.PutUint32(tmp[:], off)
		buf.Write(tmp[:])
	}
	buf.Write(c.hostHash[:])
	return buf.Bytes()
}

// Load reconstructs a Codec from the bytes Save produced.
func Load(b []byte) (*Codec, error) {
	if len(b) < 4 {
		return nil, uaterr.Malformedf("stringcompress.Load", "truncated codebook: %d bytes", len(b))
	}
	dataLen := binary.LittleEndian.Uint32(b[0:4])
	p := 4
	if p+int(dataLen) > len(b) {
		return nil, uaterr.Malformedf("stringcompress.Load", "truncated host blob")
	}
	blob := append([]byte(nil), b[p:p+int(dataLen)]...)
	p += int(dataLen)

	if p+4 > len(b) {
		return nil, uaterr.Malformedf("stringcompress.Load", "truncated host count")
	}
	maxHost := binary.LittleEndian.Uint32(b[p : p+4])
	p += 4

	offsets := make([]uint32, maxHost)
	for i := range offsets {
		if p+4 > len(b) {
			return nil, uaterr.Malformedf("stringcompress.Load", "truncated host offsets")
		}
		offsets[i] = binary.LittleEndian.Uint32(b[p : p+4])
		p += 4
	}

	if p+hashSize > len(b) {
		return nil, uaterr.Malformedf("stringcompress.Load", "truncated host hash table")
	}
	c := &Codec{hostBlob: blob, hostOffset: offsets}
	copy(c.hostHash[:], b[p:p+hashSize])
	return c, nil
}
