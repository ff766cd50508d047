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
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/wolfpld/usenetarchive-sub001/filemap"
	"github.com/wolfpld/usenetarchive-sub001/uaterr"
)

// ZstdStore implements Store over Zstd frames that all share one dictionary
// (spec §4.3), so individual messages compress well even when they are a few
// hundred bytes long. The decoder is built lazily on first use and shared by
// every GetMessage call, since a zstd.Decoder is safe for concurrent use.
type ZstdStore struct {
	meta *filemap.FileMap[byte]
	data *filemap.FileMap[byte]
	recs []Record

	dict []byte

	once sync.Once
	dec  *zstd.Decoder
	err  error
}

// OpenZstd maps the meta/data/dict file triple.
func OpenZstd(metaFn, dataFn, dictFn string) (*ZstdStore, error) {
	meta, err := filemap.Open[byte](metaFn, false)
	if err != nil {
		return nil, err
	}
	data, err := filemap.Open[byte](dataFn, false)
	if err != nil {
		return nil, err
	}
	dict, err := filemap.Open[byte](dictFn, true)
	if err != nil {
		return nil, err
	}
	return NewZstd(meta, data, dict.View()), nil
}

// NewZstd wraps already-opened maps plus a (possibly nil/empty) shared
// dictionary, for archive.Open's single-mmap-per-file bookkeeping.
func NewZstd(meta, data *filemap.FileMap[byte], dict []byte) *ZstdStore {
	return &ZstdStore{meta: meta, data: data, recs: loadMeta(meta), dict: dict}
}

func (s *ZstdStore) Len() int { return len(s.recs) }

func (s *ZstdStore) Raw(i int) ([]byte, uint32, error) {
	return rawAt(s.data.View(), s.recs, i)
}

func (s *ZstdStore) decoder() (*zstd.Decoder, error) {
	s.once.Do(func() {
		opts := []zstd.DOption{zstd.WithDecoderConcurrency(1)}
		if len(s.dict) > 0 {
			opts = append(opts, zstd.WithDecoderDicts(s.dict))
		}
		s.dec, s.err = zstd.NewReader(nil, opts...)
	})
	return s.dec, s.err
}

func (s *ZstdStore) GetMessage(i int, buf []byte) ([]byte, error) {
	compressed, size, err := s.Raw(i)
	if err != nil {
		return nil, err
	}
	if size == 0 {
		return growBuf(buf, 1)[:0], nil
	}
	dec, err := s.decoder()
	if err != nil {
		return nil, uaterr.IOErrorWrap("msgstore.ZstdStore.GetMessage", err)
	}
	out, err := dec.DecodeAll(compressed, growBuf(buf, 0)[:0])
	if err != nil {
		return nil, uaterr.Malformedf("msgstore.ZstdStore.GetMessage", "message %d: %v", i, err)
	}
	if uint32(len(out)) != size {
		return nil, uaterr.Malformedf("msgstore.ZstdStore.GetMessage", "message %d: decoded %d bytes, expected %d", i, len(out), size)
	}
	return out, nil
}

// Close releases the decoder and every mapping owned by the store.
func (s *ZstdStore) Close() error {
	if s.dec != nil {
		s.dec.Close()
	}
	if err := s.meta.Close(); err != nil {
		return err
	}
	return s.data.Close()
}

// EncodeZstdFrame compresses one message against the shared dictionary, for
// build tools (spec §6.1). A fresh encoder per call keeps this safe to call
// from multiple worker goroutines without sharing mutable encoder state.
func EncodeZstdFrame(msg, dict []byte) ([]byte, error) {
	opts := []zstd.EOption{zstd.WithEncoderLevel(zstd.SpeedBestCompression)}
	if len(dict) > 0 {
		opts = append(opts, zstd.WithEncoderDict(dict))
	}
	enc, err := zstd.NewWriter(nil, opts...)
	if err != nil {
		return nil, uaterr.IOErrorWrap("msgstore.EncodeZstdFrame", err)
	}
	defer enc.Close()
	return enc.EncodeAll(msg, nil), nil
}
