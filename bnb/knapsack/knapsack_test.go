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
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/pebbl/api/search"
	"go.uber.org/pebbl/pebblerrors"
	"go.uber.org/pebbl/pkg/packbuf"
	"gonum.org/v1/gonum/mat"
)

func tiny(t *testing.T) *Instance {
	// Two constraints, three items.
	p, err := New(
		[]float64{10, 7, 4},
		mat.NewDense(2, 3, []float64{
			5, 4, 3,
			1, 6, 1,
		}),
		[]float64{8, 6},
	)
	require.NoError(t, err)
	return p
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		desc     string
		values   []float64
		weights  *mat.Dense
		capacity []float64
	}{
		{
			desc:     "values do not match items",
			values:   []float64{1},
			weights:  mat.NewDense(1, 2, []float64{1, 1}),
			capacity: []float64{1},
		},
		{
			desc:     "capacities do not match constraints",
			values:   []float64{1, 2},
			weights:  mat.NewDense(1, 2, []float64{1, 1}),
			capacity: []float64{1, 2},
		},
		{
			desc:     "negative capacity",
			values:   []float64{1, 2},
			weights:  mat.NewDense(1, 2, []float64{1, 1}),
			capacity: []float64{-1},
		},
		{
			desc:     "negative weight",
			values:   []float64{1, 2},
			weights:  mat.NewDense(1, 2, []float64{1, -1}),
			capacity: []float64{1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			_, err := New(tt.values, tt.weights, tt.capacity)
			assert.Equal(t, pebblerrors.CodeInvalidArgument, pebblerrors.CodeOf(err))
		})
	}
}

func TestEvaluate(t *testing.T) {
	p := tiny(t)
	tests := []struct {
		give     []bool
		value    float64
		feasible bool
	}{
		{give: []bool{false, false, false}, value: 0, feasible: true},
		{give: []bool{true, false, true}, value: 14, feasible: true},
		{give: []bool{true, true, false}, value: 17, feasible: false},
		{give: []bool{false, true, true}, value: 11, feasible: false},
	}
	for _, tt := range tests {
		value, ok := p.Evaluate(tt.give)
		assert.Equal(t, tt.value, value, "%v", tt.give)
		assert.Equal(t, tt.feasible, ok, "%v", tt.give)
	}
}

func TestRootBranching(t *testing.T) {
	p := tiny(t)
	root := p.Root()
	assert.Equal(t, 21.0, root.Bound())
	_, ok := root.Solution()
	assert.False(t, ok)

	children := root.Branch()
	require.Len(t, children, 2)
	assert.Equal(t, []bool{true}, children[0].(*subproblem).take)
	assert.Equal(t, []bool{false}, children[1].(*subproblem).take)

	// With item 0 taken only item 2 still fits.
	assert.Equal(t, 14.0, children[0].Bound())
}

// leaves walks every subproblem below sp and checks that no leaf beats the
// bound of any of its ancestors.
func leaves(t *testing.T, sp *subproblem, bound float64, found *[]float64) {
	require.True(t, sp.Bound() <= bound, "child bound %v above parent bound %v", sp.Bound(), bound)
	if sol, ok := sp.Solution(); ok {
		assert.Empty(t, sp.Branch())
		value, feasible := sp.p.Evaluate(sol.(*Solution).Take)
		require.True(t, feasible)
		assert.Equal(t, value, sol.Value())
		assert.Equal(t, sp.Bound(), sol.Value())
		*found = append(*found, value)
		return
	}
	for _, c := range sp.Branch() {
		leaves(t, c.(*subproblem), sp.Bound(), found)
	}
}

func TestBoundsHold(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		p := Random(10, 3, seed)
		root := p.Root().(*subproblem)

		var found []float64
		leaves(t, root, root.Bound(), &found)

		// Every feasible selection is a leaf of the tree.
		var feasible int
		for mask := 0; mask < 1<<10; mask++ {
			take := make([]bool, 10)
			for j := range take {
				take[j] = mask&(1<<j) != 0
			}
			if _, ok := p.Evaluate(take); ok {
				feasible++
			}
		}
		assert.Len(t, found, feasible, "seed %d", seed)
	}
}

func TestRandomIsDeterministic(t *testing.T) {
	a, b := Random(8, 2, 42), Random(8, 2, 42)
	assert.Equal(t, a.values, b.values)
	assert.True(t, mat.Equal(a.weights, b.weights))
	assert.Equal(t, a.capacity, b.capacity)
	assert.Equal(t, 8, a.Items())
	assert.Equal(t, 2, a.Constraints())
	assert.Equal(t, search.Maximize, a.Sense())
}

func TestSubproblemRoundTrip(t *testing.T) {
	p := tiny(t)
	sp := p.Root().Branch()[1].Branch()[0]

	w := packbuf.NewWriter()
	sp.Pack(w)
	got, err := p.UnpackSubproblem(packbuf.NewReader(w.Finish()))
	require.NoError(t, err)
	assert.Equal(t, sp.(*subproblem).take, got.(*subproblem).take)
	assert.Equal(t, sp.Bound(), got.Bound())
}

func TestUnpackSubproblemErrors(t *testing.T) {
	p := tiny(t)
	tests := []struct {
		desc string
		give func(w *packbuf.Writer)
	}{
		{
			desc: "too many decisions",
			give: func(w *packbuf.Writer) { w.PutInt(4) },
		},
		{
			desc: "truncated",
			give: func(w *packbuf.Writer) {
				w.PutInt(2)
				w.PutBool(true)
			},
		},
		{
			desc: "infeasible",
			give: func(w *packbuf.Writer) {
				w.PutInt(2)
				w.PutBool(true)
				w.PutBool(true)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			w := packbuf.NewWriter()
			tt.give(w)
			_, err := p.UnpackSubproblem(packbuf.NewReader(w.Finish()))
			assert.Equal(t, pebblerrors.CodeDataLoss, pebblerrors.CodeOf(err))
		})
	}
}

func TestSolution(t *testing.T) {
	p := tiny(t)
	sol := &Solution{Take: []bool{true, false, true}, Val: 14}

	w := packbuf.NewWriter()
	sol.Pack(w)
	got, err := p.UnpackSolution(packbuf.NewReader(w.Finish()))
	require.NoError(t, err)
	assert.True(t, sol.Equal(got.(*Solution)))
	assert.Equal(t, 14.0, got.Value())

	assert.False(t, sol.Equal(&Solution{Take: []bool{true, false, false}}))
	assert.False(t, sol.Equal(&Solution{Take: []bool{true, false}}))

	var buf bytes.Buffer
	require.NoError(t, sol.Print(&buf))
	assert.Equal(t, "items: 0 2\n", buf.String())
	assert.Equal(t, []int{0, 2}, sol.Items())

	lying := &Solution{Take: []bool{true, false, true}, Val: 15}
	w = packbuf.NewWriter()
	lying.Pack(w)
	_, err = p.UnpackSolution(packbuf.NewReader(w.Finish()))
	assert.Equal(t, pebblerrors.CodeDataLoss, pebblerrors.CodeOf(err))
}
