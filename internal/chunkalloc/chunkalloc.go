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

// Package chunkalloc implements a pool allocator for objects of a single
// type, used for the subproblem nodes a worker creates and discards at a
// high rate during the search.
//
// Objects live in chunks that grow geometrically. Slots that are put back go
// onto a stack of free indexes and are handed out again before any new chunk
// is grabbed. Nothing is ever consolidated or returned to the runtime until
// the allocator is wiped.
package chunkalloc

import (
	"go.uber.org/pebbl/pebblerrors"
)

const _defaultMultiple = 64

// Ref identifies an allocated slot.
type Ref int

type options struct {
	name     string
	multiple int
}

// Option customizes an Allocator.
type Option func(*options)

// Name labels the allocator in leak reports.
func Name(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// Multiple sets the number of objects in the first chunk. Every following
// chunk is twice the size of the previous one. Values below 1 are ignored.
func Multiple(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.multiple = n
		}
	}
}

// Allocator hands out slots for objects of type T.
//
// An Allocator is not safe for concurrent use; each rank owns its own.
type Allocator[T any] struct {
	name     string
	multiple int

	chunks [][]T
	// starts[i] is the Ref of the first slot in chunks[i].
	starts []int
	inUse  []bool
	free   []Ref

	outstanding int
}

// New builds an empty Allocator. No memory is grabbed until the first
// Allocate.
func New[T any](opts ...Option) *Allocator[T] {
	o := options{name: "chunkalloc", multiple: _defaultMultiple}
	for _, opt := range opts {
		opt(&o)
	}
	return &Allocator[T]{name: o.name, multiple: o.multiple}
}

// Allocate returns a zeroed slot, grabbing a new chunk if the free stack is
// empty.
func (a *Allocator[T]) Allocate() Ref {
	if len(a.free) == 0 {
		a.grow()
	}
	last := len(a.free) - 1
	ref := a.free[last]
	a.free = a.free[:last]

	a.inUse[ref] = true
	a.outstanding++
	return ref
}

// At returns the object stored in an allocated slot. The pointer is valid
// until the slot is put back.
func (a *Allocator[T]) At(ref Ref) *T {
	a.check(ref, "read")
	chunk, off := a.locate(ref)
	return &a.chunks[chunk][off]
}

// PutBack returns a slot to the free stack. Putting back a slot twice
// panics.
func (a *Allocator[T]) PutBack(ref Ref) {
	a.check(ref, "put back")
	chunk, off := a.locate(ref)

	var zero T
	a.chunks[chunk][off] = zero
	a.inUse[ref] = false
	a.free = append(a.free, ref)
	a.outstanding--
}

// Outstanding returns the number of slots that were allocated and not yet
// put back.
func (a *Allocator[T]) Outstanding() int {
	return a.outstanding
}

// Capacity returns the number of slots across all chunks.
func (a *Allocator[T]) Capacity() int {
	return len(a.inUse)
}

// Wipe drops every chunk. With checkForLeaks set, an allocator that still
// has outstanding objects reports them with a FailedPrecondition error; the
// chunks are dropped either way and the allocator may be reused.
func (a *Allocator[T]) Wipe(checkForLeaks bool) error {
	leaked, total := a.outstanding, len(a.inUse)

	a.chunks = nil
	a.starts = nil
	a.inUse = nil
	a.free = nil
	a.outstanding = 0

	if checkForLeaks && leaked > 0 {
		return pebblerrors.FailedPreconditionErrorf(
			"%s: %d of %d objects were never put back", a.name, leaked, total)
	}
	return nil
}

func (a *Allocator[T]) grow() {
	size := a.multiple
	if n := len(a.chunks); n > 0 {
		size = 2 * len(a.chunks[n-1])
	}

	start := len(a.inUse)
	a.chunks = append(a.chunks, make([]T, size))
	a.starts = append(a.starts, start)
	a.inUse = append(a.inUse, make([]bool, size)...)

	// Push in reverse so that the lowest slot is handed out first.
	for i := start + size - 1; i >= start; i-- {
		a.free = append(a.free, Ref(i))
	}
}

func (a *Allocator[T]) locate(ref Ref) (chunk, off int) {
	for i := len(a.starts) - 1; i >= 0; i-- {
		if int(ref) >= a.starts[i] {
			return i, int(ref) - a.starts[i]
		}
	}
	panic("chunkalloc: slot outside of every chunk")
}

func (a *Allocator[T]) check(ref Ref, op string) {
	if ref < 0 || int(ref) >= len(a.inUse) {
		panic(a.name + ": cannot " + op + " unknown slot")
	}
	if !a.inUse[ref] {
		panic(a.name + ": cannot " + op + " a slot that is not allocated")
	}
}
