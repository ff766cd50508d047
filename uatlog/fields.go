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

// Package uatlog provides the structured logging used by every build tool and
// by Archive/Galaxy open-time diagnostics, built on sirupsen/logrus.
package uatlog

const (
	// FieldArchive names the newsgroup archive a log entry concerns.
	FieldArchive = "archive"
	// FieldGalaxy names the galaxy directory a log entry concerns.
	FieldGalaxy = "galaxy"
	// FieldMessage names the dense message index a log entry concerns.
	FieldMessage = "msgidx"
	// FieldStage names the build stage (thread, pack, compress, lex) emitting a log.
	FieldStage = "stage"
	// FieldCount carries a progress counter (messages processed, words indexed).
	FieldCount = "count"
	// FieldDuration carries an elapsed-time measurement for a stage.
	FieldDuration = "duration"
)
