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

package knapsack

import (
	"go.uber.org/pebbl/bnb"
	"go.uber.org/pebbl/pkg/packbuf"
)

// subproblem fixes the items before len(take) and leaves the others open.
type subproblem struct {
	p     *Instance
	take  []bool
	value float64
	used  []float64
	bound float64
}

var _ bnb.Subproblem = (*subproblem)(nil)

func (p *Instance) subproblem(take []bool) (*subproblem, bool) {
	sp := &subproblem{p: p, take: take, used: make([]float64, len(p.capacity))}
	for j, t := range take {
		if t {
			sp.value += p.values[j]
			p.addWeights(sp.used, j)
		}
	}
	if !p.within(sp.used) {
		return nil, false
	}

	// Every open item that fits on its own could still be added.
	sp.bound = sp.value
	for j := len(take); j < len(p.values); j++ {
		if p.fits(sp.used, j) {
			sp.bound += p.values[j]
		}
	}
	return sp, true
}

func (sp *subproblem) Bound() float64 { return sp.bound }

func (sp *subproblem) Branch() []bnb.Subproblem {
	item := len(sp.take)
	if item == len(sp.p.values) {
		return nil
	}

	var children []bnb.Subproblem
	if sp.p.fits(sp.used, item) {
		children = append(children, sp.child(true))
	}
	return append(children, sp.child(false))
}

func (sp *subproblem) child(take bool) *subproblem {
	decisions := make([]bool, len(sp.take)+1)
	copy(decisions, sp.take)
	decisions[len(sp.take)] = take
	c, _ := sp.p.subproblem(decisions)
	return c
}

func (sp *subproblem) Solution() (bnb.Solution, bool) {
	if len(sp.take) < len(sp.p.values) {
		return nil, false
	}
	take := make([]bool, len(sp.take))
	copy(take, sp.take)
	return &Solution{Take: take, Val: sp.value}, true
}

func (sp *subproblem) Pack(w *packbuf.Writer) {
	w.PutInt(len(sp.take))
	for _, t := range sp.take {
		w.PutBool(t)
	}
}
