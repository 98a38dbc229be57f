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

package searchtest

import (
	"fmt"
	"io"

	"go.uber.org/pebbl/api/search"
	"go.uber.org/pebbl/pkg/packbuf"
)

// Solution is a search.Solution made of an objective value and a label.
type Solution struct {
	V     float64
	Label string
}

var _ search.Solution = Solution{}

// Value returns V.
func (s Solution) Value() float64 { return s.V }

// Pack writes V then Label.
func (s Solution) Pack(w *packbuf.Writer) {
	w.PutDouble(s.V)
	w.PutString(s.Label)
}

// Print writes the label.
func (s Solution) Print(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s\n", s.Label)
	return err
}

// Unpack is the search.SolutionUnpacker for Solution.
func Unpack(r *packbuf.Reader) (search.Solution, error) {
	s := Solution{V: r.Double(), Label: r.String()}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return s, nil
}
