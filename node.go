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

package pebbl

import (
	"context"
	"sync"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/uber-go/tally"
	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"go.uber.org/pebbl/api/search"
	"go.uber.org/pebbl/api/transport"
	"go.uber.org/pebbl/pebblerrors"
	"go.uber.org/pebbl/pkg/lifecycle"
	"go.uber.org/zap"
)

// Task is background work a Node runs between messages.
type Task interface {
	// Pending reports whether Step has work to do. While it is false the
	// node sleeps until a message arrives.
	Pending() bool

	// Step does a bounded amount of work. It must not block.
	Step(ctx context.Context) error
}

var (
	_ transport.Sender   = (*Node)(nil)
	_ transport.Receiver = (*Node)(nil)
)

// Node is one rank of a search.
type Node struct {
	rank   int
	size   int
	search *search.Context

	router   *MapRouter
	inbound  transport.Inbound
	outbound transport.Outbound
	task     Task

	logger *zap.Logger
	scope  tally.Scope
	tracer opentracing.Tracer

	once     *lifecycle.Once
	mailbox  *mailbox
	stopping chan struct{}
	loopDone chan struct{}

	haltOnce sync.Once
	halted   chan struct{}
	err      atomic.Error

	handlerErrors tally.Counter
}

// NewNode builds a Node. It panics if the rank layout is inconsistent.
func NewNode(cfg Config) *Node {
	if cfg.Size < 1 || cfg.Rank < 0 || cfg.Rank >= cfg.Size {
		panic("pebbl: rank must be in [0, size)")
	}
	if cfg.FirstHub < 0 || cfg.FirstHub >= cfg.Size || cfg.IORank < 0 || cfg.IORank >= cfg.Size {
		panic("pebbl: first hub and I/O rank must be in [0, size)")
	}
	if cfg.Inbound == nil || cfg.Outbound == nil {
		panic("pebbl: an inbound and an outbound are required")
	}

	sense := cfg.Sense
	if sense == 0 {
		sense = search.Minimize
	}
	sctx := search.NewContext(cfg.Rank, cfg.FirstHub, cfg.IORank, sense)
	sctx.SynchronousPrinting = cfg.SynchronousPrinting

	tracer := cfg.Tracer
	if tracer == nil {
		tracer = opentracing.GlobalTracer()
	}

	scope := cfg.Metrics.scope(cfg.Rank)
	return &Node{
		rank:          cfg.Rank,
		size:          cfg.Size,
		search:        sctx,
		router:        NewMapRouter(),
		inbound:       cfg.Inbound,
		outbound:      cfg.Outbound,
		logger:        cfg.Logging.logger(cfg.Rank),
		scope:         scope,
		tracer:        tracer,
		once:          lifecycle.NewOnce(),
		mailbox:       newMailbox(),
		stopping:      make(chan struct{}),
		loopDone:      make(chan struct{}),
		halted:        make(chan struct{}),
		handlerErrors: scope.Counter("handler_errors"),
	}
}

// Rank returns this node's rank.
func (n *Node) Rank() int { return n.rank }

// Size returns the number of ranks in the job.
func (n *Node) Size() int { return n.size }

// Search returns the rank's search state. It must only be touched from
// handlers and the task, or before Start.
func (n *Node) Search() *search.Context { return n.search }

// Logger returns the node's logger.
func (n *Node) Logger() *zap.Logger { return n.logger }

// Scope returns the node's metrics scope.
func (n *Node) Scope() tally.Scope { return n.scope }

// Router returns the node's router.
func (n *Node) Router() transport.Router { return n.router }

// Register routes messages tagged tag to h. It must be called before Start.
func (n *Node) Register(tag transport.Tag, h transport.Handler) {
	n.router.Register(tag, h)
}

// SetTask sets the work run between messages. It must be called before
// Start.
func (n *Node) SetTask(t Task) {
	n.task = t
}

// Start starts the transports and the event loop.
func (n *Node) Start() error {
	return n.once.Start(n.start)
}

func (n *Node) start() error {
	if err := n.outbound.Start(); err != nil {
		return err
	}
	n.inbound.SetReceiver(n)
	if err := n.inbound.Start(); err != nil {
		return multierr.Append(err, n.outbound.Stop())
	}

	go n.loop()
	n.logger.Info("node started",
		zap.Int("size", n.size),
		zap.Strings("tags", tagNames(n.router.Tags())))
	return nil
}

// Stop ends the event loop, if it is still running, and stops the
// transports.
func (n *Node) Stop() error {
	return n.once.Stop(n.stop)
}

func (n *Node) stop() error {
	close(n.stopping)
	<-n.loopDone

	if dropped := n.mailbox.len(); dropped > 0 {
		n.logger.Debug("dropping unhandled messages", zap.Int("count", dropped))
	}
	err := multierr.Combine(n.inbound.Stop(), n.outbound.Stop())
	n.logger.Info("node stopped", zap.Error(n.Err()))
	return err
}

// Halt ends the event loop. A non-nil err is reported by Err. Only the
// first call has an effect.
func (n *Node) Halt(err error) {
	n.haltOnce.Do(func() {
		if err != nil {
			n.err.Store(err)
		}
		close(n.halted)
	})
}

// Done closes once the event loop has exited.
func (n *Node) Done() <-chan struct{} {
	return n.loopDone
}

// Err returns the error that halted the node, if any.
func (n *Node) Err() error {
	return n.err.Load()
}

// Receive queues a message for the event loop. It never blocks.
func (n *Node) Receive(msg *transport.Message) {
	n.mailbox.push(msg)
}

// Send sends body to dest. Messages to this rank go straight to its
// mailbox.
func (n *Node) Send(ctx context.Context, dest int, tag transport.Tag, body []byte) error {
	msg := &transport.Message{Source: n.rank, Dest: dest, Tag: tag, Body: body}
	if err := msg.Validate(); err != nil {
		return err
	}
	if dest >= n.size {
		return pebblerrors.InvalidArgumentErrorf("rank %d cannot send to rank %d of %d", n.rank, dest, n.size)
	}

	if dest == n.rank {
		n.mailbox.push(msg.Clone())
	} else if err := n.outbound.Send(ctx, msg); err != nil {
		return err
	}
	n.scope.Tagged(map[string]string{"tag": string(tag)}).Counter("messages_sent").Inc(1)
	return nil
}

// Broadcast sends body to every rank except this one.
func (n *Node) Broadcast(ctx context.Context, tag transport.Tag, body []byte) error {
	for r := 0; r < n.size; r++ {
		if r == n.rank {
			continue
		}
		if err := n.Send(ctx, r, tag, body); err != nil {
			return err
		}
	}
	return nil
}

func (n *Node) loop() {
	defer close(n.loopDone)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for {
		select {
		case <-n.stopping:
			return
		case <-n.halted:
			return
		default:
		}

		msg, ok := n.mailbox.pop()
		if ok {
			if err := n.dispatch(ctx, msg); err != nil {
				n.handlerErrors.Inc(1)
				n.logger.Error("handler failed, halting",
					zap.Object("message", msg), zap.Error(err))
				n.Halt(err)
				return
			}
		}

		if n.task != nil && n.task.Pending() {
			if err := n.task.Step(ctx); err != nil {
				n.logger.Error("task failed, halting", zap.Error(err))
				n.Halt(err)
				return
			}
			continue
		}
		if ok {
			continue
		}

		select {
		case <-n.mailbox.ready:
		case <-n.stopping:
			return
		case <-n.halted:
			return
		}
	}
}

func (n *Node) dispatch(ctx context.Context, msg *transport.Message) error {
	h, err := n.router.Choose(msg)
	if err != nil {
		return err
	}

	span := n.tracer.StartSpan("pebbl.handle",
		opentracing.Tag{Key: "tag", Value: string(msg.Tag)},
		opentracing.Tag{Key: "source", Value: msg.Source},
		opentracing.Tag{Key: "rank", Value: n.rank},
	)
	defer span.Finish()

	n.scope.Tagged(map[string]string{"tag": string(msg.Tag)}).Counter("messages_received").Inc(1)
	if err := h.Handle(opentracing.ContextWithSpan(ctx, span), msg); err != nil {
		ext.Error.Set(span, true)
		span.LogKV("error", err.Error())
		return err
	}
	return nil
}

func tagNames(tags []transport.Tag) []string {
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = string(t)
	}
	return names
}
