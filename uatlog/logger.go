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

package uatlog

import (
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// Logger is the subset of logrus's entry API this module relies on. Build
// tools and Archive/Galaxy open paths only ever need leveled, fielded writes.
type Logger interface {
	WithFields(fields logrus.Fields) *logrus.Entry
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	SetOutput(w io.Writer)
	SetLevel(lvl logrus.Level)
}

var (
	std     *logrus.Logger
	stdOnce sync.Once
)

// Std returns the process-wide default logger, writing text-formatted
// entries to stderr at Info level. Build tools bump the level from a CLI
// flag; the read path only ever logs warnings (degraded galaxy archives).
func Std() *logrus.Logger {
	stdOnce.Do(func() {
		std = logrus.New()
		std.SetOutput(os.Stderr)
		std.SetLevel(logrus.InfoLevel)
		std.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	})
	return std
}

// New builds a logger independent from the process-wide default, used by
// tests and by tools that need isolated output (e.g. writing JSON to a file
// hook for machine-readable build reports).
func New(w io.Writer, lvl logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(lvl)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l
}

// WithArchive scopes a logger to a single archive path for the duration of a
// build or open operation.
func WithArchive(l *logrus.Logger, path string) *logrus.Entry {
	return l.WithField(FieldArchive, path)
}

// WithStage scopes a logger entry to a named build stage, following the
// same field-based scoping nabbar-golib/logger uses for request-scoped entries.
func WithStage(l *logrus.Logger, stage string) *logrus.Entry {
	return l.WithField(FieldStage, stage)
}
