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

package workerpool

import (
	"io"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// Bar wraps one mpb progress bar so build tools (cmd/uat-build,
// cmd/galaxy-tool) can report a Run's completion without wiring mpb
// themselves (spec §5: "tools surface progress").
type Bar struct {
	progress *mpb.Progress
	bar      *mpb.Bar
}

// NewBar starts an mpb progress container with one bar tracking total jobs,
// writing to w (typically os.Stderr).
func NewBar(w io.Writer, name string, total int) *Bar {
	p := mpb.New(mpb.WithOutput(w), mpb.WithWidth(48))
	bar := p.AddBar(int64(total),
		mpb.PrependDecorators(decor.Name(name), decor.CountersNoUnit(" %d / %d")),
		mpb.AppendDecorators(decor.Percentage()),
	)
	return &Bar{progress: p, bar: bar}
}

// Progress returns a workerpool.Progress callback that advances the bar to
// done out of total.
func (b *Bar) Progress() Progress {
	var last int
	return func(done, total int) {
		b.bar.IncrBy(done - last)
		last = done
	}
}

// Wait blocks until the bar has finished rendering, once Run has returned.
func (b *Bar) Wait() {
	b.progress.Wait()
}
