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

// Package packbuf implements the fixed-order binary pack buffers that ranks
// use to exchange load reports, subproblems, solutions and protocol signals.
//
// Values are written in the order the caller chooses and must be read back
// in the same order; nothing on the wire describes the layout. All ranks of
// a job run the same binary, so there is no versioning.
//
//  w := packbuf.NewWriter()
//  w.PutDouble(bound)
//  w.PutInt(source)
//  body := w.Finish()
//
//  r := packbuf.NewReader(body)
//  bound, source := r.Double(), r.Int()
//  if err := r.Err(); err != nil {
//  	...
//  }
//
// Integers are encoded as 32-bit big-endian values and doubles as their
// IEEE-754 bits, big-endian.
package packbuf

import (
	"flag"
	"sync"
)

var _pool = NewPool()

// Option configures a writer pool.
type Option func(*Pool)

// Pool is a pool of Writers.
type Pool struct {
	testDetectUseAfterFree bool
	pool                   sync.Pool
}

func init() {
	// Enable use-after-release detection when running under "go test".
	if flag.Lookup("test.v") != nil {
		_pool = NewPool(DetectUseAfterFreeForTests())
	}
}

// NewPool returns a pool that Writers can be taken from.
func NewPool(opts ...Option) *Pool {
	pool := &Pool{}
	for _, opt := range opts {
		opt(pool)
	}
	return pool
}

// DetectUseAfterFreeForTests is an option that allows unit tests to detect
// use of a Writer after it has been released to the pool.
func DetectUseAfterFreeForTests() Option {
	return func(p *Pool) {
		p.testDetectUseAfterFree = true
	}
}

// NewWriter returns an empty Writer from the pool.
func (p *Pool) NewWriter() *Writer {
	w, ok := p.pool.Get().(*Writer)
	if !ok {
		w = newWriter(p)
	} else {
		w.reuse()
	}
	return w
}

func (p *Pool) release(w *Writer) {
	p.pool.Put(w)
}

// NewWriter returns an empty Writer from the default pool.
func NewWriter() *Writer {
	return _pool.NewWriter()
}
