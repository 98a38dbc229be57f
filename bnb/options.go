// Copyright (c) 2026 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package bnb

import (
	"time"

	"go.uber.org/pebbl/incumbent"
)

type options struct {
	interval  time.Duration
	limit     int
	repoOpts  []incumbent.Option
	chunkSize int
}

// Option customizes a Hub or a Worker.
type Option func(*options)

// EarlyOutputInterval makes the hub request an early output of the
// incumbent at the given interval. Zero disables it. Workers ignore this
// option.
func EarlyOutputInterval(d time.Duration) Option {
	return func(o *options) {
		o.interval = d
	}
}

// Enumerate makes workers keep their limit best solutions instead of a
// single incumbent. Once a worker's repository is full it prunes against the
// worst value kept. Zero, the default, searches for one optimal solution.
func Enumerate(limit int, opts ...incumbent.Option) Option {
	return func(o *options) {
		o.limit = limit
		o.repoOpts = append(o.repoOpts, opts...)
	}
}

// PoolChunkSize sets the number of subproblem slots a worker grabs at once
// the first time its pool fills up.
func PoolChunkSize(n int) Option {
	return func(o *options) {
		o.chunkSize = n
	}
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
