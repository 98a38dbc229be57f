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

// Package earlyoutput prints the incumbent while a search is still running.
//
// A request is chased to the rank believed to hold the incumbent. That rank
// either writes the solution itself or pushes it to the I/O rank, and the
// writer confirms the printed value to the first hub, which is the only rank
// that tracks whether an output is in progress.
package earlyoutput

import (
	"context"

	"github.com/uber-go/tally"
	"go.uber.org/pebbl/api/search"
	"go.uber.org/pebbl/api/transport"
	"go.uber.org/multierr"
	"go.uber.org/pebbl/pebblerrors"
	"go.uber.org/zap"
)

// Tag is the tag of early output messages.
const Tag transport.Tag = "earlyOutput"

// Option configures a Handler.
type Option func(*Handler)

// Logger sets the handler's logger.
func Logger(logger *zap.Logger) Option {
	return func(h *Handler) { h.logger = logger }
}

// Metrics sets the scope the handler counts outputs in.
func Metrics(scope tally.Scope) Option {
	return func(h *Handler) { h.outputs = scope.Counter("early_outputs") }
}

// Handler runs the early output protocol on one rank.
type Handler struct {
	search *search.Context
	sender transport.Sender
	logger *zap.Logger

	outputs tally.Counter
}

var _ transport.Handler = (*Handler)(nil)

// NewHandler builds a Handler that reads and updates sctx and sends through
// sender.
func NewHandler(sctx *search.Context, sender transport.Sender, opts ...Option) *Handler {
	h := &Handler{
		search:  sctx,
		sender:  sender,
		logger:  zap.NewNop(),
		outputs: tally.NoopScope.Counter("early_outputs"),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.With(zap.Int("rank", sctx.Rank))
	return h
}

// Handle decodes and acts on one early output message.
func (h *Handler) Handle(ctx context.Context, msg *transport.Message) error {
	sig, err := Decode(msg.Body, h.search.UnpackSolution)
	if err != nil {
		h.logger.Error("bad early output message", zap.Int("source", msg.Source), zap.Error(err))
		return err
	}

	switch s := sig.(type) {
	case RequestSignal:
		return h.activate(ctx)
	case DeliverSignal:
		if err := h.writeDirect(s.Solution); err != nil {
			return err
		}
		return h.confirm(ctx, s.Solution.Value())
	case ConfirmSignal:
		if !h.search.IAmFirstHub() {
			return pebblerrors.DataLossErrorf(
				"early output: confirmation from rank %d reached rank %d, which is not the first hub",
				msg.Source, h.search.Rank)
		}
		return h.confirm(ctx, s.Value)
	default:
		return pebblerrors.InternalErrorf("early output: unhandled signal %T", sig)
	}
}

// Request starts an early output from the first hub. It does nothing while
// another output is in progress.
func (h *Handler) Request(ctx context.Context) error {
	if !h.search.IAmFirstHub() {
		return pebblerrors.FailedPreconditionErrorf(
			"early output must be requested at the first hub %d, not at rank %d",
			h.search.FirstHub, h.search.Rank)
	}
	if h.search.OutputInProgress {
		h.logger.Debug("early output already in progress")
		return nil
	}
	h.search.OutputInProgress = true
	return h.activate(ctx)
}

func (h *Handler) activate(ctx context.Context) error {
	owner := h.search.IncumbentSource
	if owner == h.search.Rank {
		return h.write(ctx)
	}
	h.logger.Debug("forwarding early output request", zap.Int("owner", owner))
	return h.send(ctx, owner, RequestSignal{})
}

func (h *Handler) write(ctx context.Context) error {
	sol := h.search.Incumbent
	if sol == nil {
		h.logger.Debug("no incumbent to output")
		return h.confirm(ctx, h.search.IncumbentValue)
	}

	if h.search.IDoIO() || !h.search.SynchronousPrinting {
		if err := h.writeDirect(sol); err != nil {
			return err
		}
		return h.confirm(ctx, h.search.IncumbentValue)
	}

	h.logger.Debug("delivering incumbent to the I/O rank", zap.Int("ioRank", h.search.IORank))
	return h.send(ctx, h.search.IORank, DeliverSignal{Solution: sol})
}

func (h *Handler) writeDirect(sol search.Solution) error {
	w := h.search.Writer
	if w == nil {
		return pebblerrors.FailedPreconditionErrorf("early output: rank %d has no solution writer", h.search.Rank)
	}
	if err := w.OpenSolutionFile(); err != nil {
		return err
	}
	if err := w.DirectSolutionToFile(sol); err != nil {
		return multierr.Append(err, w.CloseSolutionFile())
	}
	if err := w.CloseSolutionFile(); err != nil {
		return err
	}
	h.outputs.Inc(1)
	h.logger.Info("wrote early output", zap.Float64("value", sol.Value()))
	return nil
}

func (h *Handler) confirm(ctx context.Context, value float64) error {
	if h.search.IAmFirstHub() {
		h.search.OutputInProgress = false
		h.search.LastOutputValue = value
		h.logger.Debug("early output confirmed", zap.Float64("value", value))
		return nil
	}
	return h.send(ctx, h.search.FirstHub, ConfirmSignal{Value: value})
}

func (h *Handler) send(ctx context.Context, dest int, sig Signal) error {
	return h.sender.Send(ctx, dest, Tag, Encode(sig))
}
