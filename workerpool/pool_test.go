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

package workerpool_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/wolfpld/usenetarchive-sub001/workerpool"
)

func TestWorkerpool(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "workerpool suite")
}

var _ = Describe("Run", func() {
	It("writes results in ascending index order despite out-of-order completion", func() {
		n := 50
		var written []int
		work := func(ctx context.Context, i int) ([]byte, error) {
			time.Sleep(time.Duration(rand.Intn(2)) * time.Millisecond)
			return []byte(fmt.Sprintf("%d", i)), nil
		}
		write := func(i int, v []byte) error {
			written = append(written, i)
			Expect(string(v)).To(Equal(fmt.Sprintf("%d", i)))
			return nil
		}

		Expect(workerpool.Run(context.Background(), n, 8, work, write, nil)).To(Succeed())

		Expect(written).To(HaveLen(n))
		for i, idx := range written {
			Expect(idx).To(Equal(i))
		}
	})

	It("reports the first worker error and stops writing further results", func() {
		boom := errors.New("boom")
		work := func(ctx context.Context, i int) ([]byte, error) {
			if i == 3 {
				return nil, boom
			}
			return []byte{byte(i)}, nil
		}
		var writeCount int
		write := func(i int, v []byte) error {
			writeCount++
			return nil
		}

		err := workerpool.Run(context.Background(), 10, 4, work, write, nil)
		Expect(err).To(MatchError(boom))
		Expect(writeCount).To(BeNumerically("<=", 3))
	})

	It("reports progress once per completed job", func() {
		seen := map[int]bool{}
		var last int
		work := func(ctx context.Context, i int) ([]byte, error) { return nil, nil }
		write := func(i int, v []byte) error { return nil }
		progress := func(done, total int) {
			seen[done] = true
			last = done
			Expect(total).To(Equal(20))
		}

		Expect(workerpool.Run(context.Background(), 20, 4, work, write, progress)).To(Succeed())
		Expect(last).To(Equal(20))
		Expect(seen).To(HaveLen(20))
	})
})
