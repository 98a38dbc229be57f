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

package incumbent

import (
	"github.com/petar/GoLLRB/llrb"
	"go.uber.org/pebbl/api/search"
)

// Point is a solution kept by a Repository. Points in one bucket are
// deduplicated with Equal.
type Point interface {
	Equal(other Point) bool
}

// PointList is a bucket of points whose values agree within the
// repository's value tolerance.
type PointList struct {
	// key is the bucket value oriented by the sense, so that smaller keys
	// are better buckets.
	key    float64
	value  float64
	points []Point
}

var _ llrb.Item = (*PointList)(nil)

func newPointList(sense search.Sense, value float64) *PointList {
	return &PointList{key: float64(sense) * value, value: value}
}

// Value returns the objective value of the first point added to the
// bucket.
func (l *PointList) Value() float64 { return l.value }

// Len returns the number of points in the bucket.
func (l *PointList) Len() int { return len(l.points) }

// Points returns the points in the order they were added.
func (l *PointList) Points() []Point {
	return append([]Point(nil), l.points...)
}

// Add appends pt unless an equal point is already in the bucket.
func (l *PointList) Add(pt Point) bool {
	for _, p := range l.points {
		if p.Equal(pt) {
			return false
		}
	}
	l.points = append(l.points, pt)
	return true
}

// Less orders buckets from best to worst.
func (l *PointList) Less(than llrb.Item) bool {
	return l.key < than.(*PointList).key
}
