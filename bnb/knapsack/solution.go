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
	"fmt"
	"io"
	"strings"

	"go.uber.org/pebbl/bnb"
	"go.uber.org/pebbl/incumbent"
	"go.uber.org/pebbl/pkg/packbuf"
)

// Solution is a selection of items.
type Solution struct {
	Take []bool
	Val  float64
}

var _ bnb.Solution = (*Solution)(nil)

// Value returns the total value of the selected items.
func (s *Solution) Value() float64 { return s.Val }

// Items returns the indexes of the selected items.
func (s *Solution) Items() []int {
	var items []int
	for j, t := range s.Take {
		if t {
			items = append(items, j)
		}
	}
	return items
}

// Pack writes the selection then the value.
func (s *Solution) Pack(w *packbuf.Writer) {
	w.PutInt(len(s.Take))
	for _, t := range s.Take {
		w.PutBool(t)
	}
	w.PutDouble(s.Val)
}

// Print writes the selected items on one line.
func (s *Solution) Print(w io.Writer) error {
	_, err := fmt.Fprintf(w, "items: %v\n", s)
	return err
}

// Equal reports whether other selects the same items.
func (s *Solution) Equal(other incumbent.Point) bool {
	o, ok := other.(*Solution)
	if !ok || len(o.Take) != len(s.Take) {
		return false
	}
	for j := range s.Take {
		if s.Take[j] != o.Take[j] {
			return false
		}
	}
	return true
}

func (s *Solution) String() string {
	items := s.Items()
	parts := make([]string, len(items))
	for i, j := range items {
		parts[i] = fmt.Sprint(j)
	}
	return strings.Join(parts, " ")
}
