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

// Package incumbent keeps the best solutions found by a search, for
// enumerating near-optimal alternatives.
//
// Solutions are grouped into buckets of equal value (within a tolerance)
// held in an ordered tree. Admission is filtered by a limit on the number of
// solutions kept and by relative and absolute tolerances to the best value.
package incumbent

import (
	"math"

	"github.com/petar/GoLLRB/llrb"
	"go.uber.org/pebbl/api/search"
	"go.uber.org/zap"
)

const _defaultValueTolerance = 1e-9

// Option configures a Repository.
type Option func(*Repository)

// Limit caps the number of points kept. Zero means no limit.
func Limit(n int) Option {
	return func(r *Repository) { r.limit = n }
}

// RelTolerance rejects points whose oriented value exceeds the oriented
// best value times tol. Non-finite values disable the check.
func RelTolerance(tol float64) Option {
	return func(r *Repository) { r.relTol = tol }
}

// AbsTolerance rejects points whose oriented value exceeds the oriented
// best value plus tol. Non-finite values disable the check.
func AbsTolerance(tol float64) Option {
	return func(r *Repository) { r.absTol = tol }
}

// ValueTolerance sets how close two values must be to share a bucket.
func ValueTolerance(tol float64) Option {
	return func(r *Repository) { r.valTol = tol }
}

// WithRecorder traces every admitted point to rec.
func WithRecorder(rec Recorder) Option {
	return func(r *Repository) { r.recorder = rec }
}

// Logger sets the logger used to report recorder failures.
func Logger(logger *zap.Logger) Option {
	return func(r *Repository) { r.logger = logger }
}

// Repository is an ordered set of solution buckets. It is not safe for
// concurrent use.
type Repository struct {
	sense    search.Sense
	limit    int
	relTol   float64
	absTol   float64
	valTol   float64
	recorder Recorder
	logger   *zap.Logger

	tree     *llrb.LLRB
	num      int
	best     float64
	worst    float64
	worstNum int
}

// New builds an empty Repository.
func New(sense search.Sense, opts ...Option) *Repository {
	r := &Repository{
		sense:  sense,
		relTol: math.Inf(1),
		absTol: math.Inf(1),
		valTol: _defaultValueTolerance,
		logger: zap.NewNop(),
		tree:   llrb.New(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.reset()
	return r
}

func (r *Repository) reset() {
	r.num = 0
	r.best = r.sense.Worst()
	r.worst = r.sense.Worst()
	r.worstNum = 0
}

func (r *Repository) oriented(v float64) float64 {
	return float64(r.sense) * v
}

// Insert offers pt with objective value val. It returns whether pt was
// kept; rejections are normal and leave the repository untouched.
func (r *Repository) Insert(val float64, pt Point) bool {
	if r.limit > 0 && r.num >= r.limit && !r.sense.Better(val, r.worst) {
		return false
	}
	if r.num > 0 && finite(r.relTol) && r.oriented(val) > r.oriented(r.best)*r.relTol {
		return false
	}
	if r.num > 0 && finite(r.absTol) && r.oriented(val) > r.oriented(r.best)+r.absTol {
		return false
	}

	bucket := r.find(val)
	if bucket == nil {
		bucket = newPointList(r.sense, val)
		r.tree.InsertNoReplace(bucket)
	}
	if !bucket.Add(pt) {
		return false
	}
	r.num++

	if r.sense.Better(val, r.best) {
		r.best = val
	}
	r.syncWorst()

	if r.limit > 0 && r.num > r.limit {
		// The whole worst bucket goes, which may leave fewer than limit
		// points behind.
		evicted := r.tree.DeleteMax().(*PointList)
		r.num -= evicted.Len()
		if r.tree.Len() == 0 {
			r.reset()
		} else {
			r.syncWorst()
		}
	}

	// The point may have landed in the evicted bucket.
	if r.find(val) != bucket {
		return false
	}
	if r.recorder != nil {
		if err := r.recorder.Record(val, pt); err != nil {
			r.logger.Warn("failed to record incumbent", zap.Float64("value", val), zap.Error(err))
		}
	}
	return true
}

// find returns the first bucket within the value tolerance of val.
func (r *Repository) find(val float64) *PointList {
	key := r.oriented(val)
	var found *PointList
	r.tree.AscendGreaterOrEqual(&PointList{key: key - r.valTol}, func(i llrb.Item) bool {
		if l := i.(*PointList); l.key <= key+r.valTol {
			found = l
		}
		return false
	})
	return found
}

func (r *Repository) syncWorst() {
	max, ok := r.tree.Max().(*PointList)
	if !ok {
		return
	}
	r.worst = max.value
	r.worstNum = max.Len()
}

// Size returns the number of points kept.
func (r *Repository) Size() int { return r.num }

// BestValue returns the best value kept, or the sense's worst value when
// empty.
func (r *Repository) BestValue() float64 { return r.best }

// WorstValue returns the value of the worst bucket.
func (r *Repository) WorstValue() float64 { return r.worst }

// WorstCount returns the number of points in the worst bucket.
func (r *Repository) WorstCount() int { return r.worstNum }

// Full reports whether a limit is set and reached.
func (r *Repository) Full() bool {
	return r.limit > 0 && r.num >= r.limit
}

// Buckets returns the buckets from best to worst.
func (r *Repository) Buckets() []*PointList {
	buckets := make([]*PointList, 0, r.tree.Len())
	r.tree.AscendGreaterOrEqual(&PointList{key: math.Inf(-1)}, func(i llrb.Item) bool {
		buckets = append(buckets, i.(*PointList))
		return true
	})
	return buckets
}

// Points returns every point kept, best buckets first.
func (r *Repository) Points() []Point {
	points := make([]Point, 0, r.num)
	for _, b := range r.Buckets() {
		points = append(points, b.points...)
	}
	return points
}

// Merge offers every point of other to r, best first. It returns the number
// of points kept.
func (r *Repository) Merge(other *Repository) int {
	var n int
	for _, b := range other.Buckets() {
		for _, pt := range b.points {
			if r.Insert(b.value, pt) {
				n++
			}
		}
	}
	return n
}

// Clear drops every point.
func (r *Repository) Clear() {
	r.tree = llrb.New()
	r.reset()
}

func finite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}
