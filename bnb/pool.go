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
	"container/heap"

	"go.uber.org/pebbl/api/search"
	"go.uber.org/pebbl/internal/chunkalloc"
)

type slot struct {
	sp    Subproblem
	bound float64
	// seq breaks ties between equal bounds in insertion order.
	seq int
}

// pool holds the live subproblems of a worker, best bound first. Subproblems
// are stored in allocator slots and the heap orders slot references.
type pool struct {
	sense search.Sense
	alloc *chunkalloc.Allocator[slot]
	refs  []chunkalloc.Ref

	// next is an incrementing counter for every push.
	next int
}

func newPool(sense search.Sense, opts ...chunkalloc.Option) *pool {
	return &pool{
		sense: sense,
		alloc: chunkalloc.New[slot](append([]chunkalloc.Option{chunkalloc.Name("subproblem pool")}, opts...)...),
	}
}

// Len implements heap.Interface. Do NOT use the heap methods directly; use
// push and pop instead.
func (p *pool) Len() int {
	return len(p.refs)
}

// Less returns whether the left slot has the better bound. If the bounds are
// equal, it returns the older slot.
func (p *pool) Less(i, j int) bool {
	s1 := p.alloc.At(p.refs[i])
	s2 := p.alloc.At(p.refs[j])
	if s1.bound == s2.bound {
		return s1.seq < s2.seq
	}
	return p.sense.Better(s1.bound, s2.bound)
}

// Swap implements heap.Interface.
func (p *pool) Swap(i, j int) {
	p.refs[i], p.refs[j] = p.refs[j], p.refs[i]
}

// Push implements heap.Interface.
func (p *pool) Push(x interface{}) {
	p.refs = append(p.refs, x.(chunkalloc.Ref))
}

// Pop implements heap.Interface.
func (p *pool) Pop() interface{} {
	lastIndex := len(p.refs) - 1
	last := p.refs[lastIndex]
	p.refs = p.refs[:lastIndex]
	return last
}

func (p *pool) push(sp Subproblem) {
	ref := p.alloc.Allocate()
	s := p.alloc.At(ref)
	p.next++
	s.sp, s.bound, s.seq = sp, sp.Bound(), p.next
	heap.Push(p, ref)
}

// pop removes the subproblem with the best bound and frees its slot.
func (p *pool) pop() (Subproblem, bool) {
	if len(p.refs) == 0 {
		return nil, false
	}
	ref := heap.Pop(p).(chunkalloc.Ref)
	sp := p.alloc.At(ref).sp
	p.alloc.PutBack(ref)
	return sp, true
}

// bestBound returns the best bound in the pool, or the sense's worst value
// when empty.
func (p *pool) bestBound() float64 {
	if len(p.refs) == 0 {
		return p.sense.Worst()
	}
	return p.alloc.At(p.refs[0]).bound
}

// wipe drops every slot. Slots still referenced by the heap are reported as
// leaks.
func (p *pool) wipe() error {
	err := p.alloc.Wipe(true)
	p.refs = nil
	return err
}
