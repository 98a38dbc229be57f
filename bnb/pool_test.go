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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/pebbl/api/search"
	"go.uber.org/pebbl/internal/chunkalloc"
	"go.uber.org/pebbl/pebblerrors"
	"go.uber.org/pebbl/pkg/packbuf"
)

type fakeSubproblem struct {
	name  string
	bound float64
	kids  []Subproblem
}

func (f *fakeSubproblem) Bound() float64             { return f.bound }
func (f *fakeSubproblem) Branch() []Subproblem       { return f.kids }
func (f *fakeSubproblem) Solution() (Solution, bool) { return nil, false }
func (f *fakeSubproblem) Pack(w *packbuf.Writer)     { w.PutString(f.name) }

func drain(p *pool) []string {
	var names []string
	for {
		sp, ok := p.pop()
		if !ok {
			return names
		}
		names = append(names, sp.(*fakeSubproblem).name)
	}
}

func TestPoolOrder(t *testing.T) {
	tests := []struct {
		desc  string
		sense search.Sense
		want  []string
	}{
		{desc: "minimize", sense: search.Minimize, want: []string{"c", "a", "d", "b"}},
		{desc: "maximize", sense: search.Maximize, want: []string{"b", "a", "d", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			p := newPool(tt.sense)
			p.push(&fakeSubproblem{name: "a", bound: 2})
			p.push(&fakeSubproblem{name: "b", bound: 3})
			p.push(&fakeSubproblem{name: "c", bound: 1})
			p.push(&fakeSubproblem{name: "d", bound: 2})
			assert.Equal(t, 4, p.Len())
			assert.Equal(t, 4, p.alloc.Outstanding())

			assert.Equal(t, tt.want, drain(p))
			assert.Equal(t, 0, p.alloc.Outstanding())
			assert.NoError(t, p.wipe())
		})
	}
}

func TestPoolBestBound(t *testing.T) {
	p := newPool(search.Maximize)
	assert.Equal(t, search.Maximize.Worst(), p.bestBound())
	p.push(&fakeSubproblem{bound: 4})
	p.push(&fakeSubproblem{bound: 9})
	assert.Equal(t, 9.0, p.bestBound())
}

func TestPoolReusesSlots(t *testing.T) {
	p := newPool(search.Minimize, chunkalloc.Multiple(2))
	for i := 0; i < 100; i++ {
		p.push(&fakeSubproblem{bound: float64(i)})
		p.push(&fakeSubproblem{bound: float64(i)})
		_, ok := p.pop()
		require.True(t, ok)
		_, ok = p.pop()
		require.True(t, ok)
	}
	assert.Equal(t, 2, p.alloc.Capacity())
}

func TestPoolWipeReportsLeaks(t *testing.T) {
	p := newPool(search.Minimize)
	p.push(&fakeSubproblem{bound: 1})
	err := p.wipe()
	assert.Equal(t, pebblerrors.CodeFailedPrecondition, pebblerrors.CodeOf(err))
	assert.Equal(t, 0, p.Len())
}

func TestSplit(t *testing.T) {
	leaf := func(name string) *fakeSubproblem { return &fakeSubproblem{name: name} }
	root := &fakeSubproblem{name: "root", kids: []Subproblem{
		&fakeSubproblem{name: "l", kids: []Subproblem{leaf("ll"), leaf("lr")}},
		leaf("r"),
	}}

	names := func(sps []Subproblem) []string {
		var out []string
		for _, sp := range sps {
			out = append(out, sp.(*fakeSubproblem).name)
		}
		return out
	}

	assert.Equal(t, []string{"root"}, names(split(root, 1)))
	assert.Equal(t, []string{"l", "r"}, names(split(root, 2)))
	assert.Equal(t, []string{"ll", "lr", "r"}, names(split(root, 3)))
	assert.Equal(t, []string{"ll", "lr", "r"}, names(split(root, 8)), "stops when nothing can be branched")
}
