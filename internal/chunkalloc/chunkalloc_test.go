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

package chunkalloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/pebbl/pebblerrors"
)

type node struct {
	bound float64
	depth int
}

func TestAllocateAndDrain(t *testing.T) {
	const n = 300
	a := New[node](Multiple(8))

	refs := make([]Ref, 0, n)
	for i := 0; i < n; i++ {
		ref := a.Allocate()
		a.At(ref).depth = i
		refs = append(refs, ref)
	}
	assert.Equal(t, n, a.Outstanding())

	for i, ref := range refs {
		assert.Equal(t, i, a.At(ref).depth, "slot %v was clobbered", ref)
	}
	for _, ref := range refs {
		a.PutBack(ref)
	}
	assert.Equal(t, 0, a.Outstanding())
	assert.NoError(t, a.Wipe(true))
}

func TestWipeReportsLeaks(t *testing.T) {
	a := New[node](Name("subproblems"), Multiple(4))
	keep := a.Allocate()
	a.PutBack(a.Allocate())
	_ = keep

	err := a.Wipe(true)
	require.Error(t, err)
	assert.Equal(t, pebblerrors.CodeFailedPrecondition, pebblerrors.CodeOf(err))
	assert.Contains(t, err.Error(), "subproblems: 1 of 4 objects were never put back")

	// The allocator was emptied regardless and can be used again.
	assert.Equal(t, 0, a.Outstanding())
	assert.Equal(t, 0, a.Capacity())
	a.PutBack(a.Allocate())
	assert.NoError(t, a.Wipe(true))
}

func TestWipeWithoutLeakCheck(t *testing.T) {
	a := New[node]()
	a.Allocate()
	assert.NoError(t, a.Wipe(false))
}

func TestGeometricGrowth(t *testing.T) {
	a := New[node](Multiple(4))
	assert.Equal(t, 0, a.Capacity())

	for i := 0; i < 4; i++ {
		a.Allocate()
	}
	assert.Equal(t, 4, a.Capacity())

	a.Allocate()
	assert.Equal(t, 12, a.Capacity())

	for i := 0; i < 8; i++ {
		a.Allocate()
	}
	assert.Equal(t, 28, a.Capacity())
	assert.Equal(t, 13, a.Outstanding())
}

func TestFreedSlotsAreReusedFirst(t *testing.T) {
	a := New[node](Multiple(2))
	first := a.Allocate()
	second := a.Allocate()
	assert.Equal(t, Ref(0), first)
	assert.Equal(t, Ref(1), second)

	a.At(first).bound = 12.5
	a.PutBack(first)

	again := a.Allocate()
	assert.Equal(t, first, again)
	assert.Equal(t, node{}, *a.At(again), "reused slot must be zeroed")
	assert.Equal(t, 2, a.Capacity())
}

func TestMisuse(t *testing.T) {
	tests := []struct {
		desc string
		give func(*Allocator[node])
	}{
		{
			desc: "put back twice",
			give: func(a *Allocator[node]) {
				ref := a.Allocate()
				a.PutBack(ref)
				a.PutBack(ref)
			},
		},
		{
			desc: "read after put back",
			give: func(a *Allocator[node]) {
				ref := a.Allocate()
				a.PutBack(ref)
				a.At(ref)
			},
		},
		{
			desc: "unknown slot",
			give: func(a *Allocator[node]) {
				a.At(Ref(100))
			},
		},
		{
			desc: "negative slot",
			give: func(a *Allocator[node]) {
				a.PutBack(Ref(-1))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			a := New[node]()
			assert.Panics(t, func() { tt.give(a) })
		})
	}
}
