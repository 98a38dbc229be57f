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

package search

// Context is the search state of one rank. It is owned by the rank's event
// loop and must only be touched from handlers running on that loop.
type Context struct {
	// Rank is this rank's id.
	Rank int
	// FirstHub is the rank that collects early-output confirmations.
	FirstHub int
	// IORank is the rank that owns the solution file.
	IORank int
	// SynchronousPrinting funnels all early output through IORank.
	SynchronousPrinting bool

	Sense Sense

	// IncumbentValue is the best objective value this rank knows of.
	IncumbentValue float64
	// IncumbentSource is the rank believed to hold the incumbent. It may be
	// stale.
	IncumbentSource int
	// Incumbent is the incumbent solution, if this rank holds it.
	Incumbent Solution

	// OutputInProgress is set at the first hub while an early output is
	// being produced.
	OutputInProgress bool
	// LastOutputValue is the value of the last confirmed early output.
	LastOutputValue float64

	Writer         SolutionWriter
	UnpackSolution SolutionUnpacker
}

// NewContext builds the context of a rank with no incumbent. The first hub
// is the initial incumbent source.
func NewContext(rank, firstHub, ioRank int, sense Sense) *Context {
	return &Context{
		Rank:            rank,
		FirstHub:        firstHub,
		IORank:          ioRank,
		Sense:           sense,
		IncumbentValue:  sense.Worst(),
		IncumbentSource: firstHub,
		LastOutputValue: sense.Worst(),
	}
}

// IDoIO reports whether this rank owns the solution file.
func (c *Context) IDoIO() bool {
	return c.Rank == c.IORank
}

// IAmFirstHub reports whether this rank collects early-output
// confirmations.
func (c *Context) IAmFirstHub() bool {
	return c.Rank == c.FirstHub
}

// UpdateIncumbent installs sol, found by this rank, if it improves on the
// incumbent.
func (c *Context) UpdateIncumbent(sol Solution) bool {
	if !c.Sense.Better(sol.Value(), c.IncumbentValue) {
		return false
	}
	c.IncumbentValue = sol.Value()
	c.IncumbentSource = c.Rank
	c.Incumbent = sol
	return true
}

// RecordIncumbent notes that source holds an incumbent with the given
// value. It returns false if the value does not improve on what this rank
// knows.
func (c *Context) RecordIncumbent(value float64, source int) bool {
	if !c.Sense.Better(value, c.IncumbentValue) {
		return false
	}
	c.IncumbentValue = value
	c.IncumbentSource = source
	if source != c.Rank {
		c.Incumbent = nil
	}
	return true
}
