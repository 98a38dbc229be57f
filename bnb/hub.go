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

package bnb

import (
	"context"
	"time"

	"go.uber.org/pebbl"
	"go.uber.org/pebbl/api/search"
	"go.uber.org/pebbl/api/transport"
	"go.uber.org/pebbl/earlyoutput"
	"go.uber.org/pebbl/load"
	"go.uber.org/pebbl/pebblerrors"
	"go.uber.org/pebbl/pkg/packbuf"
	"go.uber.org/zap"
)

// Hub splits the root problem among the workers, relays incumbents and
// detects termination.
type Hub struct {
	node     *pebbl.Node
	problem  Problem
	search   *search.Context
	workers  []int
	interval time.Duration

	agg       *load.Aggregator
	output    *earlyoutput.Handler
	scattered bool

	logger *zap.Logger
}

var _ pebbl.Task = (*Hub)(nil)

// NewHub registers a hub's handlers on node and makes it the node's task.
// The node must be the first hub; every other rank is a worker.
func NewHub(node *pebbl.Node, problem Problem, opts ...Option) (*Hub, error) {
	sctx := node.Search()
	if !sctx.IAmFirstHub() {
		return nil, pebblerrors.InvalidArgumentErrorf("rank %d cannot be the hub, the first hub is %d", sctx.Rank, sctx.FirstHub)
	}
	if node.Size() < 2 {
		return nil, pebblerrors.InvalidArgumentErrorf("a search needs at least one worker besides the hub")
	}
	if sctx.Sense != problem.Sense() {
		return nil, pebblerrors.InvalidArgumentErrorf("node was configured to %v, but the problem is to %v", sctx.Sense, problem.Sense())
	}

	o := newOptions(opts)
	sctx.UnpackSolution = problem.UnpackSolution

	var workers []int
	for r := 0; r < node.Size(); r++ {
		if r != sctx.Rank {
			workers = append(workers, r)
		}
	}

	h := &Hub{
		node:     node,
		problem:  problem,
		search:   sctx,
		workers:  workers,
		interval: o.interval,
		agg:      load.NewAggregator(problem.Sense(), workers),
		output: earlyoutput.NewHandler(sctx, node,
			earlyoutput.Logger(node.Logger()),
			earlyoutput.Metrics(node.Scope())),
		logger: node.Logger(),
	}

	node.Register(TagIncumbent, transport.HandlerFunc(h.handleIncumbent))
	node.Register(TagLoad, transport.HandlerFunc(h.handleLoad))
	node.Register(tagTick, transport.HandlerFunc(h.handleTick))
	node.Register(earlyoutput.Tag, h.output)
	node.SetTask(h)
	return h, nil
}

// Load returns the sum of the hub's own load and the latest worker reports.
func (h *Hub) Load() load.Object {
	return h.agg.Total()
}

// Pending implements pebbl.Task. The hub only has work before the root is
// scattered.
func (h *Hub) Pending() bool {
	return !h.scattered
}

// Step splits the root into at least one subproblem per worker when the
// tree allows it, and scatters them round-robin.
func (h *Hub) Step(ctx context.Context) error {
	frontier := split(h.problem.Root(), len(h.workers))
	for i, sp := range frontier {
		dest := h.workers[i%len(h.workers)]
		pw := packbuf.NewWriter()
		sp.Pack(pw)
		if err := h.node.Send(ctx, dest, TagScatter, pw.Finish()); err != nil {
			return err
		}
		h.agg.Own.Messages.LocalScatter.Sent++
	}
	h.scattered = true
	h.logger.Info("scattered root problem",
		zap.Int("subproblems", len(frontier)),
		zap.Int("workers", len(h.workers)))

	if h.interval > 0 {
		go h.tick()
	}
	return nil
}

// split branches subproblems breadth first until there are at least n of
// them or none can be branched.
func split(root Subproblem, n int) []Subproblem {
	frontier := []Subproblem{root}
	for len(frontier) < n {
		var next []Subproblem
		branched := false
		for _, sp := range frontier {
			children := sp.Branch()
			if len(children) == 0 {
				next = append(next, sp)
				continue
			}
			next = append(next, children...)
			branched = true
		}
		frontier = next
		if !branched {
			break
		}
	}
	return frontier
}

func (h *Hub) tick() {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	rank := h.search.Rank
	for {
		select {
		case <-ticker.C:
			h.node.Receive(&transport.Message{Source: rank, Dest: rank, Tag: tagTick})
		case <-h.node.Done():
			return
		}
	}
}

func (h *Hub) checkSource(msg *transport.Message) error {
	if msg.Source == h.search.Rank || msg.Source < 0 || msg.Source >= h.node.Size() {
		return pebblerrors.DataLossErrorf("%s message from rank %d, which is not a worker", msg.Tag, msg.Source)
	}
	return nil
}

func (h *Hub) handleIncumbent(ctx context.Context, msg *transport.Message) error {
	if err := h.checkSource(msg); err != nil {
		return err
	}
	r := packbuf.NewReader(msg.Body)
	value := r.Double()
	if err := r.Err(); err != nil {
		return err
	}
	h.agg.Own.Messages.General.Received++

	if h.search.RecordIncumbent(value, msg.Source) {
		h.logger.Debug("new incumbent", zap.Float64("value", value), zap.Int("source", msg.Source))
		pw := packbuf.NewWriter()
		pw.PutDouble(value)
		pw.PutInt(msg.Source)
		body := pw.Finish()
		for _, dest := range h.workers {
			if dest == msg.Source {
				continue
			}
			if err := h.node.Send(ctx, dest, TagIncumbent, body); err != nil {
				return err
			}
			h.agg.Own.Messages.General.Sent++
		}
	}
	return h.checkDone(ctx)
}

func (h *Hub) handleLoad(ctx context.Context, msg *transport.Message) error {
	o := load.New(h.problem.Sense())
	if err := o.Unpack(packbuf.NewReader(msg.Body)); err != nil {
		return err
	}
	if err := h.agg.Report(msg.Source, o); err != nil {
		return err
	}
	return h.checkDone(ctx)
}

func (h *Hub) handleTick(ctx context.Context, msg *transport.Message) error {
	if msg.Source != h.search.Rank {
		return pebblerrors.DataLossErrorf("tick from rank %d", msg.Source)
	}
	return h.output.Request(ctx)
}

func (h *Hub) checkDone(ctx context.Context) error {
	if !h.scattered || !h.agg.Quiescent() {
		return nil
	}
	total := h.agg.Total()
	h.logger.Info("search complete",
		zap.Object("load", &total),
		zap.Float64("incumbent", h.search.IncumbentValue),
		zap.Int("incumbentSource", h.search.IncumbentSource))

	if err := h.node.Broadcast(ctx, TagTerminate, nil); err != nil {
		return err
	}
	h.node.Halt(nil)
	return nil
}
