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

// Package knapsack is a multidimensional 0/1 knapsack problem for the
// branch-and-bound search: pick items to maximize their total value while
// every constraint row of weights stays within its capacity.
package knapsack

import (
	"math/rand"

	"go.uber.org/pebbl/api/search"
	"go.uber.org/pebbl/bnb"
	"go.uber.org/pebbl/pebblerrors"
	"go.uber.org/pebbl/pkg/packbuf"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Instance is a knapsack problem with n items and m constraints.
type Instance struct {
	values   []float64
	weights  *mat.Dense // m x n
	capacity []float64
}

var _ bnb.Problem = (*Instance)(nil)

// New builds an instance. weights has one row per constraint and one column
// per item.
func New(values []float64, weights *mat.Dense, capacity []float64) (*Instance, error) {
	m, n := weights.Dims()
	if len(values) != n {
		return nil, pebblerrors.InvalidArgumentErrorf("knapsack: %d values for %d items", len(values), n)
	}
	if len(capacity) != m {
		return nil, pebblerrors.InvalidArgumentErrorf("knapsack: %d capacities for %d constraints", len(capacity), m)
	}
	for i := 0; i < m; i++ {
		if capacity[i] < 0 {
			return nil, pebblerrors.InvalidArgumentErrorf("knapsack: constraint %d has negative capacity %v", i, capacity[i])
		}
		for j := 0; j < n; j++ {
			if weights.At(i, j) < 0 {
				return nil, pebblerrors.InvalidArgumentErrorf("knapsack: item %d has negative weight in constraint %d", j, i)
			}
		}
	}
	return &Instance{values: values, weights: weights, capacity: capacity}, nil
}

// Random builds an instance with n items and m constraints. Values and
// weights are integers and every capacity is half of its row's total
// weight.
func Random(n, m int, seed int64) *Instance {
	rng := rand.New(rand.NewSource(seed))
	values := make([]float64, n)
	for j := range values {
		values[j] = float64(1 + rng.Intn(100))
	}
	data := make([]float64, m*n)
	for k := range data {
		data[k] = float64(1 + rng.Intn(50))
	}
	weights := mat.NewDense(m, n, data)
	capacity := make([]float64, m)
	for i := range capacity {
		capacity[i] = float64(int(floats.Sum(weights.RawRowView(i)) / 2))
	}
	p, _ := New(values, weights, capacity)
	return p
}

// Items returns the number of items.
func (p *Instance) Items() int { return len(p.values) }

// Constraints returns the number of constraints.
func (p *Instance) Constraints() int { return len(p.capacity) }

// Evaluate returns the value of a selection and whether it satisfies every
// constraint.
func (p *Instance) Evaluate(take []bool) (float64, bool) {
	used := make([]float64, len(p.capacity))
	var value float64
	for j, t := range take {
		if t {
			value += p.values[j]
			p.addWeights(used, j)
		}
	}
	return value, p.within(used)
}

// Sense implements bnb.Problem. Knapsacks are maximized.
func (p *Instance) Sense() search.Sense { return search.Maximize }

// Root implements bnb.Problem.
func (p *Instance) Root() bnb.Subproblem {
	sp, _ := p.subproblem(nil)
	return sp
}

// UnpackSubproblem implements bnb.Problem.
func (p *Instance) UnpackSubproblem(r *packbuf.Reader) (bnb.Subproblem, error) {
	take, err := p.unpackTake(r)
	if err != nil {
		return nil, err
	}
	sp, ok := p.subproblem(take)
	if !ok {
		return nil, pebblerrors.DataLossErrorf("knapsack: received an infeasible subproblem")
	}
	return sp, nil
}

// UnpackSolution implements bnb.Problem.
func (p *Instance) UnpackSolution(r *packbuf.Reader) (search.Solution, error) {
	take, err := p.unpackTake(r)
	if err != nil {
		return nil, err
	}
	claimed := r.Double()
	if err := r.Err(); err != nil {
		return nil, err
	}
	if len(take) != len(p.values) {
		return nil, pebblerrors.DataLossErrorf("knapsack: solution decides %d of %d items", len(take), len(p.values))
	}
	value, ok := p.Evaluate(take)
	if !ok || value != claimed {
		return nil, pebblerrors.DataLossErrorf("knapsack: solution claims value %v but evaluates to %v (feasible: %v)", claimed, value, ok)
	}
	return &Solution{Take: take, Val: value}, nil
}

func (p *Instance) unpackTake(r *packbuf.Reader) ([]bool, error) {
	depth := r.Int()
	if err := r.Err(); err != nil {
		return nil, err
	}
	if depth < 0 || depth > len(p.values) {
		return nil, pebblerrors.DataLossErrorf("knapsack: %d decisions for %d items", depth, len(p.values))
	}
	take := make([]bool, depth)
	for j := range take {
		take[j] = r.Bool()
	}
	return take, r.Err()
}

func (p *Instance) addWeights(used []float64, item int) {
	for i := range used {
		used[i] += p.weights.At(i, item)
	}
}

func (p *Instance) within(used []float64) bool {
	for i, u := range used {
		if u > p.capacity[i] {
			return false
		}
	}
	return true
}

// fits reports whether item can be added on top of used.
func (p *Instance) fits(used []float64, item int) bool {
	for i, u := range used {
		if u+p.weights.At(i, item) > p.capacity[i] {
			return false
		}
	}
	return true
}
