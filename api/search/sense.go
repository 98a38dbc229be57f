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

// Package search holds the per-rank state shared by the branch-and-bound
// protocols: the optimization sense, the incumbent, and the collaborators
// used to print solutions.
package search

import (
	"math"
)

// Sense is the direction of optimization. Multiplying an objective value by
// the sense turns every comparison into a minimization.
type Sense int

const (
	// Minimize searches for the smallest objective value.
	Minimize Sense = 1
	// Maximize searches for the largest objective value.
	Maximize Sense = -1
)

// Better reports whether a is strictly better than b.
func (s Sense) Better(a, b float64) bool {
	return float64(s)*a < float64(s)*b
}

// Worst returns the value every objective value is better than.
func (s Sense) Worst() float64 {
	return float64(s) * math.Inf(1)
}

func (s Sense) String() string {
	switch s {
	case Minimize:
		return "minimize"
	case Maximize:
		return "maximize"
	default:
		return "invalid"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Sense) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Sense) UnmarshalText(text []byte) error {
	switch string(text) {
	case "minimize", "min":
		*s = Minimize
	case "maximize", "max":
		*s = Maximize
	default:
		return errUnknownSense(string(text))
	}
	return nil
}
