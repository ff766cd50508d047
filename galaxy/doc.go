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

// Package galaxy is the cross-archive directory: a global Message-ID space
// distinct from any one archive's packed form, a map from global id to the
// set of archive indices that carry it, and a sparse overlay of
// cross-archive thread links ("indirect parents/children"). cmd/galaxy-tool
// builds that overlay as the union of the parent/child links each archive
// records for a Message-ID carried by more than one archive; no
// content-similarity matching is done.
//
// Open maps the catalog once and opens every archive it references
// concurrently, skipping (not failing on) archives that are missing from
// disk — availability is a per-archive flag queried at call time, never a
// fatal condition for the galaxy as a whole.
//
// Archives are opened eagerly, all inside Open; none is opened lazily on
// first use.
//
// Grounded on original_source/libuat/Galaxy.cpp: the same midgr group/indirect
// overlay layout, and the same Parents-same/Children-same/Warp semantics,
// re-expressed with archive's string-based Find/GetMessageID instead of
// operating on raw packed bytes (the Unpack(Pack(m))==m invariant makes the
// two equivalent, and the string form needs no codec plumbing in this
// package).
package galaxy
