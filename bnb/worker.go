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

	"github.com/uber-go/tally"
	"go.uber.org/pebbl"
	"go.uber.org/pebbl/api/search"
	"go.uber.org/pebbl/api/transport"
	"go.uber.org/pebbl/earlyoutput"
	"go.uber.org/pebbl/incumbent"
	"go.uber.org/pebbl/internal/chunkalloc"
	"go.uber.org/pebbl/load"
	"go.uber.org/pebbl/pebblerrors"
	"go.uber.org/pebbl/pkg/packbuf"
	"go.uber.org/zap"
)

// Worker explores the subproblems scattered to it by the hub.
type Worker struct {
	node    *pebbl.Node
	problem Problem
	search  *search.Context
	hub     int
	limit   int

	pool *pool
	repo *incumbent.Repository
	load load.Object
	// dirty is set whenever the load changed since the last report.
	dirty bool

	logger   *zap.Logger
	poolSize tally.Gauge
	pruned   tally.Counter
}

var _ pebbl.Task = (*Worker)(nil)

// NewWorker registers a worker's handlers on node and makes it the node's
// task. The hub is the node's first hub.
func NewWorker(node *pebbl.Node, problem Problem, opts ...Option) (*Worker, error) {
	sctx := node.Search()
	if sctx.IAmFirstHub() {
		return nil, pebblerrors.InvalidArgumentErrorf("rank %d is the first hub and cannot be a worker", sctx.Rank)
	}
	if sctx.Sense != problem.Sense() {
		return nil, pebblerrors.InvalidArgumentErrorf("node was configured to %v, but the problem is to %v", sctx.Sense, problem.Sense())
	}

	o := newOptions(opts)
	sctx.UnpackSolution = problem.UnpackSolution

	limit := o.limit
	if limit < 1 {
		// Keep the incumbent only.
		limit = 1
	}
	repoOpts := append([]incumbent.Option{incumbent.Logger(node.Logger())}, o.repoOpts...)
	repoOpts = append(repoOpts, incumbent.Limit(limit))

	w := &Worker{
		node:     node,
		problem:  problem,
		search:   sctx,
		hub:      sctx.FirstHub,
		limit:    o.limit,
		pool:     newPool(problem.Sense(), chunkalloc.Multiple(o.chunkSize)),
		repo:     incumbent.New(problem.Sense(), repoOpts...),
		load:     load.New(problem.Sense()),
		dirty:    true,
		logger:   node.Logger(),
		poolSize: node.Scope().Gauge("pool_size"),
		pruned:   node.Scope().Counter("pruned"),
	}

	node.Register(TagScatter, transport.HandlerFunc(w.handleScatter))
	node.Register(TagIncumbent, transport.HandlerFunc(w.handleIncumbent))
	node.Register(TagTerminate, transport.HandlerFunc(w.handleTerminate))
	node.Register(earlyoutput.Tag, earlyoutput.NewHandler(sctx, node,
		earlyoutput.Logger(node.Logger()),
		earlyoutput.Metrics(node.Scope())))
	node.SetTask(w)
	return w, nil
}

// Repository returns the solutions this worker found.
func (w *Worker) Repository() *incumbent.Repository {
	return w.repo
}

// Pending implements pebbl.Task.
func (w *Worker) Pending() bool {
	return w.pool.Len() > 0 || w.dirty
}

// Step processes the best subproblem in the pool, or reports the worker's
// load once the pool is empty.
func (w *Worker) Step(ctx context.Context) error {
	sp, ok := w.pool.pop()
	if !ok {
		return w.report(ctx)
	}
	defer w.poolSize.Update(float64(w.pool.Len()))

	if w.prune(sp.Bound()) {
		w.pruned.Inc(1)
		return nil
	}
	if sol, ok := sp.Solution(); ok {
		if err := w.offer(ctx, sol); err != nil {
			return err
		}
	}
	for _, child := range sp.Branch() {
		if w.prune(child.Bound()) {
			w.pruned.Inc(1)
			continue
		}
		w.pool.push(child)
	}
	return nil
}

// prune reports whether no solution with the given bound can enter the
// result.
func (w *Worker) prune(bound float64) bool {
	if w.limit == 0 {
		return !w.search.Sense.Better(bound, w.search.IncumbentValue)
	}
	return w.repo.Full() && !w.search.Sense.Better(bound, w.repo.WorstValue())
}

func (w *Worker) offer(ctx context.Context, sol Solution) error {
	w.repo.Insert(sol.Value(), sol)
	if !w.search.UpdateIncumbent(sol) {
		return nil
	}

	w.logger.Debug("found incumbent", zap.Float64("value", sol.Value()))
	pw := packbuf.NewWriter()
	pw.PutDouble(sol.Value())
	if err := w.node.Send(ctx, w.hub, TagIncumbent, pw.Finish()); err != nil {
		return err
	}
	w.load.Messages.General.Sent++
	w.dirty = true
	return nil
}

func (w *Worker) report(ctx context.Context) error {
	w.load.Count = w.pool.Len()
	w.load.AggBound = w.pool.bestBound()
	w.load.IncumbentSource = w.search.IncumbentSource

	pw := packbuf.NewWriter()
	w.load.Pack(pw)
	if err := w.node.Send(ctx, w.hub, TagLoad, pw.Finish()); err != nil {
		return err
	}
	w.logger.Debug("reported load", zap.Object("load", &w.load))
	w.dirty = false
	return nil
}

func (w *Worker) checkSource(msg *transport.Message) error {
	if msg.Source != w.hub {
		return pebblerrors.DataLossErrorf("%s message from rank %d, which is not the hub %d", msg.Tag, msg.Source, w.hub)
	}
	return nil
}

func (w *Worker) handleScatter(_ context.Context, msg *transport.Message) error {
	if err := w.checkSource(msg); err != nil {
		return err
	}
	sp, err := w.problem.UnpackSubproblem(packbuf.NewReader(msg.Body))
	if err != nil {
		return err
	}
	w.load.Messages.LocalScatter.Received++
	w.dirty = true
	w.pool.push(sp)
	w.poolSize.Update(float64(w.pool.Len()))
	return nil
}

func (w *Worker) handleIncumbent(_ context.Context, msg *transport.Message) error {
	if err := w.checkSource(msg); err != nil {
		return err
	}
	r := packbuf.NewReader(msg.Body)
	value, source := r.Double(), r.Int()
	if err := r.Err(); err != nil {
		return err
	}
	w.load.Messages.General.Received++
	w.dirty = true
	w.search.RecordIncumbent(value, source)
	return nil
}

func (w *Worker) handleTerminate(_ context.Context, msg *transport.Message) error {
	if err := w.checkSource(msg); err != nil {
		return err
	}
	if err := w.pool.wipe(); err != nil {
		return err
	}
	w.logger.Info("search terminated",
		zap.Int("solutions", w.repo.Size()),
		zap.Float64("best", w.repo.BestValue()))
	w.node.Halt(nil)
	return nil
}
