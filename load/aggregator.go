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

package load

import (
	"sort"

	"go.uber.org/pebbl/api/search"
	"go.uber.org/pebbl/pebblerrors"
)

// Aggregator collects the latest load report of each worker of a hub.
type Aggregator struct {
	sense   search.Sense
	workers map[int]struct{}
	reports map[int]Object

	// Own is the hub's own load.
	Own Object
}

// NewAggregator builds an Aggregator expecting reports from workers.
func NewAggregator(sense search.Sense, workers []int) *Aggregator {
	a := &Aggregator{
		sense:   sense,
		workers: make(map[int]struct{}, len(workers)),
		reports: make(map[int]Object, len(workers)),
		Own:     New(sense),
	}
	for _, w := range workers {
		a.workers[w] = struct{}{}
	}
	return a
}

// Report replaces the load last reported by rank.
func (a *Aggregator) Report(rank int, o Object) error {
	if _, ok := a.workers[rank]; !ok {
		return pebblerrors.DataLossErrorf("load report from rank %d, which is not a worker of this hub", rank)
	}
	o.Sense = a.sense
	a.reports[rank] = o
	return nil
}

// Reported returns the ranks that have reported, in order.
func (a *Aggregator) Reported() []int {
	ranks := make([]int, 0, len(a.reports))
	for r := range a.reports {
		ranks = append(ranks, r)
	}
	sort.Ints(ranks)
	return ranks
}

// Total sums the hub's own load and the latest worker reports.
func (a *Aggregator) Total() Object {
	total := a.Own
	for _, o := range a.reports {
		total.Add(o)
	}
	return total
}

// Quiescent reports whether every worker has reported and the sum of all
// loads seems really done.
func (a *Aggregator) Quiescent() bool {
	if len(a.reports) < len(a.workers) {
		return false
	}
	total := a.Total()
	return total.SeemsReallyDone()
}
