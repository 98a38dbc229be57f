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

import (
	"io"

	"go.uber.org/pebbl/pebblerrors"
	"go.uber.org/pebbl/pkg/packbuf"
)

//go:generate mockgen -destination=searchtest/writer.go -package=searchtest go.uber.org/pebbl/api/search SolutionWriter

// Solution is a feasible point of the problem being searched.
type Solution interface {
	// Value is the objective value of the solution.
	Value() float64

	// Pack appends the solution to w. The result must be readable by the
	// problem's SolutionUnpacker.
	Pack(w *packbuf.Writer)

	// Print writes a human-readable form of the solution.
	Print(w io.Writer) error
}

// SolutionUnpacker reads a solution written by Solution.Pack.
type SolutionUnpacker func(r *packbuf.Reader) (Solution, error)

// SolutionWriter sends solutions to the solution file. Calls are made in
// the order Open, Direct, Close.
type SolutionWriter interface {
	OpenSolutionFile() error
	DirectSolutionToFile(sol Solution) error
	CloseSolutionFile() error
}

func errUnknownSense(s string) error {
	return pebblerrors.InvalidArgumentErrorf("unknown optimization sense %q", s)
}
