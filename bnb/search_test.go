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

package bnb_test

import (
	"context"
	"io/ioutil"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally"
	"go.uber.org/goleak"
	"go.uber.org/pebbl"
	"go.uber.org/pebbl/api/search"
	"go.uber.org/pebbl/api/transport"
	"go.uber.org/pebbl/bnb"
	"go.uber.org/pebbl/bnb/knapsack"
	"go.uber.org/pebbl/incumbent"
	"go.uber.org/pebbl/pebblerrors"
	"go.uber.org/pebbl/pkg/packbuf"
	"go.uber.org/pebbl/transport/local"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const testTimeout = 10 * time.Second

// bruteForce returns the values of every feasible selection, best first.
func bruteForce(p *knapsack.Instance) []float64 {
	n := p.Items()
	var values []float64
	for mask := 0; mask < 1<<uint(n); mask++ {
		take := make([]bool, n)
		for j := range take {
			take[j] = mask&(1<<uint(j)) != 0
		}
		if v, ok := p.Evaluate(take); ok {
			values = append(values, v)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(values)))
	return values
}

func newNodes(t *testing.T, size int, sense search.Sense, scope tally.Scope) []*pebbl.Node {
	mesh := local.NewMesh(size)
	nodes := make([]*pebbl.Node, size)
	for r := range nodes {
		nodes[r] = pebbl.NewNode(pebbl.Config{
			Rank:                r,
			Size:                size,
			Sense:               sense,
			SynchronousPrinting: true,
			Inbound:             mesh.Inbound(r),
			Outbound:            mesh.Outbound(r),
			Logging:             pebbl.LoggingConfig{Zap: zaptest.NewLogger(t)},
			Metrics:             pebbl.MetricsConfig{Tally: scope},
		})
	}
	return nodes
}

type searchRun struct {
	nodes   []*pebbl.Node
	hub     *bnb.Hub
	workers []*bnb.Worker
}

func newSearch(t *testing.T, p bnb.Problem, size int, scope tally.Scope, opts ...bnb.Option) *searchRun {
	s := &searchRun{nodes: newNodes(t, size, p.Sense(), scope)}

	hub, err := bnb.NewHub(s.nodes[0], p, opts...)
	require.NoError(t, err)
	s.hub = hub
	for _, n := range s.nodes[1:] {
		w, err := bnb.NewWorker(n, p, opts...)
		require.NoError(t, err)
		s.workers = append(s.workers, w)
	}
	return s
}

func (s *searchRun) run(t *testing.T) {
	for _, n := range s.nodes {
		require.NoError(t, n.Start())
	}
	defer func() {
		for _, n := range s.nodes {
			assert.NoError(t, n.Stop())
		}
	}()

	for _, n := range s.nodes {
		select {
		case <-n.Done():
		case <-time.After(testTimeout):
			t.Fatalf("rank %d did not finish", n.Rank())
		}
		require.NoError(t, n.Err(), "rank %d", n.Rank())
	}
}

func (s *searchRun) merge(limit int) *incumbent.Repository {
	merged := incumbent.New(search.Maximize, incumbent.Limit(limit))
	for _, w := range s.workers {
		merged.Merge(w.Repository())
	}
	return merged
}

func TestSolveMatchesBruteForce(t *testing.T) {
	tests := []struct {
		desc  string
		items int
		seed  int64
		ranks int
	}{
		{desc: "one worker", items: 10, seed: 1, ranks: 2},
		{desc: "three workers", items: 14, seed: 2, ranks: 4},
		{desc: "more workers than items", items: 2, seed: 3, ranks: 6},
		{desc: "tight", items: 16, seed: 4, ranks: 3},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			p := knapsack.Random(tt.items, 2, tt.seed)
			want := bruteForce(p)[0]

			s := newSearch(t, p, tt.ranks, nil)
			s.run(t)

			assert.Equal(t, want, s.merge(1).BestValue())
			assert.Equal(t, want, s.nodes[0].Search().IncumbentValue)
			for _, n := range s.nodes {
				assert.Equal(t, want, n.Search().IncumbentValue, "rank %d", n.Rank())
			}

			total := s.hub.Load()
			assert.Equal(t, 0, total.Count)
			assert.True(t, total.Messages.InBalance())
			assert.True(t, total.SeemsReallyDone())
		})
	}
}

// topValues returns the first n distinct values of a best-first slice,
// and whether each of them is reached by a single selection.
func topValues(values []float64, n int) (top []float64, unique bool) {
	unique = true
	for i, v := range values {
		if i > 0 && v == values[i-1] {
			unique = false
			continue
		}
		if len(top) == n {
			break
		}
		top = append(top, v)
	}
	return top, unique
}

func TestEnumerate(t *testing.T) {
	const limit = 5

	var exact int
	for _, seed := range []int64{3, 5, 7, 9, 11} {
		for _, ranks := range []int{2, 3, 4} {
			t.Run("seed="+strconv.FormatInt(seed, 10)+"/ranks="+strconv.Itoa(ranks), func(t *testing.T) {
				p := knapsack.Random(12, 2, seed)
				all := bruteForce(p)

				s := newSearch(t, p, ranks, nil, bnb.Enumerate(limit, incumbent.ValueTolerance(1e-6)))
				s.run(t)

				merged := s.merge(limit)
				assert.Equal(t, all[0], merged.BestValue())
				assert.True(t, merged.Size() > 0 && merged.Size() <= limit)
				for _, pt := range merged.Points() {
					sol := pt.(*knapsack.Solution)
					v, ok := p.Evaluate(sol.Take)
					assert.True(t, ok, "kept an infeasible selection %v", sol)
					assert.Equal(t, v, sol.Value())
				}
				for _, w := range s.workers {
					assert.True(t, w.Repository().Size() <= limit)
				}

				// Evicting a bucket holding several selections can leave
				// room that worse values fill later. Without such buckets
				// among the best values, the kept ones are exactly the best.
				top, unique := topValues(all, limit)
				if !unique {
					return
				}
				exact++
				var kept []float64
				for _, b := range merged.Buckets() {
					kept = append(kept, b.Value())
				}
				assert.Equal(t, top, kept)
			})
		}
	}
	assert.NotZero(t, exact, "no instance had unique best values")
}

func TestWorkerMetrics(t *testing.T) {
	scope := tally.NewTestScope("", nil)
	p := knapsack.Random(10, 2, 11)
	s := newSearch(t, p, 2, scope)
	s.run(t)

	snapshot := scope.Snapshot()
	_, ok := snapshot.Gauges()["pebbl.pool_size+rank=1"]
	assert.True(t, ok, "worker reports its pool size")
	assert.Equal(t, int64(1), snapshot.Counters()["pebbl.messages_sent+rank=0,tag=terminate"].Value())
	assert.True(t, snapshot.Counters()["pebbl.messages_sent+rank=1,tag=load"].Value() >= 1)
}

func TestPeriodicEarlyOutput(t *testing.T) {
	p := knapsack.Random(18, 3, 5)
	want := bruteForce(p)[0]

	path := filepath.Join(t.TempDir(), "solution.txt")
	s := newSearch(t, p, 3, nil, bnb.EarlyOutputInterval(time.Millisecond))
	s.nodes[0].Search().Writer = search.NewFileSolutionWriter(path, zaptest.NewLogger(t))
	s.run(t)

	assert.Equal(t, want, s.merge(1).BestValue())

	// The search may finish before the first tick.
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return
	}
	first := strings.SplitN(string(b), "\n", 2)[0]
	require.True(t, strings.HasPrefix(first, "value: "), "unexpected solution file %q", b)
	v, err := strconv.ParseFloat(strings.TrimPrefix(first, "value: "), 64)
	require.NoError(t, err)
	assert.True(t, v <= want)
}

func TestNewHubErrors(t *testing.T) {
	p := knapsack.Random(4, 1, 1)
	tests := []struct {
		desc  string
		size  int
		rank  int
		sense search.Sense
	}{
		{desc: "not the first hub", size: 2, rank: 1, sense: search.Maximize},
		{desc: "no workers", size: 1, rank: 0, sense: search.Maximize},
		{desc: "wrong sense", size: 2, rank: 0, sense: search.Minimize},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			nodes := newNodes(t, tt.size, tt.sense, nil)
			_, err := bnb.NewHub(nodes[tt.rank], p)
			assert.Equal(t, pebblerrors.CodeInvalidArgument, pebblerrors.CodeOf(err))
		})
	}

	nodes := newNodes(t, 2, search.Maximize, nil)
	_, err := bnb.NewWorker(nodes[0], p)
	assert.Equal(t, pebblerrors.CodeInvalidArgument, pebblerrors.CodeOf(err))
	nodes = newNodes(t, 2, search.Minimize, nil)
	_, err = bnb.NewWorker(nodes[1], p)
	assert.Equal(t, pebblerrors.CodeInvalidArgument, pebblerrors.CodeOf(err))
}

var ignore = transport.HandlerFunc(func(context.Context, *transport.Message) error { return nil })

// workerUnder builds a worker at rank 1 next to a bare node at rank 0 that
// plays the hub, and a bare node at rank 2.
func workerUnder(t *testing.T, p bnb.Problem) (hub, worker, stranger *pebbl.Node) {
	nodes := newNodes(t, 3, p.Sense(), nil)
	_, err := bnb.NewWorker(nodes[1], p)
	require.NoError(t, err)
	nodes[0].Register(bnb.TagLoad, ignore)
	return nodes[0], nodes[1], nodes[2]
}

func startNodes(t *testing.T, nodes ...*pebbl.Node) {
	for _, n := range nodes {
		require.NoError(t, n.Start())
	}
}

func stopNodes(t *testing.T, nodes ...*pebbl.Node) {
	for _, n := range nodes {
		assert.NoError(t, n.Stop())
	}
}

func packed(sp bnb.Subproblem) []byte {
	w := packbuf.NewWriter()
	sp.Pack(w)
	return w.Finish()
}

func waitHalted(t *testing.T, n *pebbl.Node) {
	select {
	case <-n.Done():
	case <-time.After(testTimeout):
		t.Fatalf("rank %d did not halt", n.Rank())
	}
}

func TestWorkerRejectsForeignMessages(t *testing.T) {
	p := knapsack.Random(6, 1, 3)
	for _, tag := range []transport.Tag{bnb.TagScatter, bnb.TagIncumbent, bnb.TagTerminate} {
		t.Run(string(tag), func(t *testing.T) {
			hub, worker, stranger := workerUnder(t, p)
			startNodes(t, hub, worker, stranger)
			defer stopNodes(t, hub, worker, stranger)

			require.NoError(t, stranger.Send(context.Background(), 1, tag, packed(p.Root())))
			waitHalted(t, worker)
			assert.Equal(t, pebblerrors.CodeDataLoss, pebblerrors.CodeOf(worker.Err()))
		})
	}
}

func TestTerminateWithLiveSubproblems(t *testing.T) {
	p := knapsack.Random(6, 1, 3)
	hub, worker, stranger := workerUnder(t, p)

	// Both are queued before the worker starts, so it branches the root
	// once and still holds the children when told to terminate.
	worker.Receive(&transport.Message{Source: 0, Dest: 1, Tag: bnb.TagScatter, Body: packed(p.Root())})
	worker.Receive(&transport.Message{Source: 0, Dest: 1, Tag: bnb.TagTerminate})

	startNodes(t, hub, worker, stranger)
	defer stopNodes(t, hub, worker, stranger)

	waitHalted(t, worker)
	assert.Equal(t, pebblerrors.CodeFailedPrecondition, pebblerrors.CodeOf(worker.Err()))
}

func TestHubRejectsBadLoad(t *testing.T) {
	p := knapsack.Random(6, 1, 3)
	nodes := newNodes(t, 2, p.Sense(), nil)
	_, err := bnb.NewHub(nodes[0], p)
	require.NoError(t, err)
	nodes[1].Register(bnb.TagScatter, ignore)

	startNodes(t, nodes...)
	defer stopNodes(t, nodes...)

	require.NoError(t, nodes[1].Send(context.Background(), 0, bnb.TagLoad, []byte{1, 2}))
	waitHalted(t, nodes[0])
	assert.Equal(t, pebblerrors.CodeDataLoss, pebblerrors.CodeOf(nodes[0].Err()))
}
