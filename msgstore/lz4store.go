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

package msgstore

import (
	"bytes"

	"github.com/pierrec/lz4/v4"

	"github.com/wolfpld/usenetarchive-sub001/filemap"
	"github.com/wolfpld/usenetarchive-sub001/uaterr"
)

// LZ4Store implements Store over a concatenation of independent LZ4 frames
// (meta + data, spec §3.4). Independence means GetMessage needs no state
// beyond the single message's compressed span.
type LZ4Store struct {
	meta *filemap.FileMap[byte]
	data *filemap.FileMap[byte]
	recs []Record
}

// OpenLZ4 maps the meta/data file pair.
func OpenLZ4(metaFn, dataFn string) (*LZ4Store, error) {
	meta, err := filemap.Open[byte](metaFn, false)
	if err != nil {
		return nil, err
	}
	data, err := filemap.Open[byte](dataFn, false)
	if err != nil {
		return nil, err
	}
	return NewLZ4(meta, data), nil
}

// NewLZ4 wraps already-opened maps, for archive.Open's shared package mapping.
func NewLZ4(meta, data *filemap.FileMap[byte]) *LZ4Store {
	return &LZ4Store{meta: meta, data: data, recs: loadMeta(meta)}
}

func (s *LZ4Store) Len() int { return len(s.recs) }

func (s *LZ4Store) Raw(i int) ([]byte, uint32, error) {
	return rawAt(s.data.View(), s.recs, i)
}

func (s *LZ4Store) GetMessage(i int, buf []byte) ([]byte, error) {
	compressed, size, err := s.Raw(i)
	if err != nil {
		return nil, err
	}
	if size == 0 {
		return growBuf(buf, 1)[:0], nil
	}
	out := growBuf(buf, int(size))
	n, err := lz4DecodeFrame(compressed, out)
	if err != nil {
		return nil, uaterr.Malformedf("msgstore.LZ4Store.GetMessage", "message %d: %v", i, err)
	}
	if uint32(n) != size {
		return nil, uaterr.Malformedf("msgstore.LZ4Store.GetMessage", "message %d: decompressed %d bytes, expected %d", i, n, size)
	}
	return out[:n], nil
}

func (s *LZ4Store) Close() error {
	if err := s.meta.Close(); err != nil {
		return err
	}
	return s.data.Close()
}

func lz4DecodeFrame(src, dst []byte) (int, error) {
	r := bytes.NewReader(src)
	zr := lz4.NewReader(r)
	return zr.Read(dst)
}

// EncodeLZ4Frame compresses one message into an independent LZ4 frame,
// returning the compressed bytes — used by build tools assembling the data
// blob one message at a time (spec §5: per-worker scratch, single-writer
// output stage).
func EncodeLZ4Frame(msg []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	if _, err := zw.Write(msg); err != nil {
		return nil, uaterr.IOErrorWrap("msgstore.EncodeLZ4Frame", err)
	}
	if err := zw.Close(); err != nil {
		return nil, uaterr.IOErrorWrap("msgstore.EncodeLZ4Frame", err)
	}
	return buf.Bytes(), nil
}
