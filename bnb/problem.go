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

// Package bnb runs a branch-and-bound search over a set of ranks: one hub
// that splits the root problem and detects termination, and workers that
// explore subproblems best bound first.
//
// The hub and its workers exchange five kinds of messages. Scatter messages
// carry subproblems from the hub to a worker. Incumbent messages announce a
// new best value to the hub, which rebroadcasts it. Workers report their
// load to the hub when they run out of work, and the hub broadcasts a
// terminate message once the reported loads show that no subproblem is left
// and no counted message is in flight. Early output messages are handled by
// package earlyoutput.
package bnb

import (
	"go.uber.org/pebbl/api/search"
	"go.uber.org/pebbl/api/transport"
	"go.uber.org/pebbl/incumbent"
	"go.uber.org/pebbl/pkg/packbuf"
)

// Message tags used by the search.
const (
	TagScatter   transport.Tag = "scatter"
	TagIncumbent transport.Tag = "incumbent"
	TagLoad      transport.Tag = "load"
	TagTerminate transport.Tag = "terminate"

	// tagTick is only ever delivered by a hub to itself.
	tagTick transport.Tag = "tick"
)

// Problem is an optimization problem searched by branch and bound.
type Problem interface {
	Sense() search.Sense

	// Root returns the subproblem covering the whole search space.
	Root() Subproblem

	// UnpackSubproblem reads a subproblem written by Subproblem.Pack.
	UnpackSubproblem(r *packbuf.Reader) (Subproblem, error)

	// UnpackSolution reads a solution written by Solution.Pack.
	UnpackSolution(r *packbuf.Reader) (search.Solution, error)
}

// Subproblem is a node of the search tree.
type Subproblem interface {
	// Bound is a value no solution of the subproblem improves on.
	Bound() float64

	// Branch splits the subproblem. Leaves return no children.
	Branch() []Subproblem

	// Solution returns the complete solution a leaf stands for.
	Solution() (Solution, bool)

	Pack(w *packbuf.Writer)
}

// Solution is a complete solution that can be kept in an incumbent
// repository.
type Solution interface {
	search.Solution
	incumbent.Point
}
