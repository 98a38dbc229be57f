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

// Package local connects the ranks of a job running in one process.
//
// A Mesh hands every sent message, copied, straight to the receiver of the
// destination rank. Messages sent before the destination's inbound starts
// are held and delivered in order when it does.
package local

import (
	"context"
	"sync"

	"go.uber.org/pebbl/api/transport"
	"go.uber.org/pebbl/pebblerrors"
	"go.uber.org/pebbl/pkg/lifecycle"
)

// Mesh is a set of ranks in one process.
type Mesh struct {
	inbounds  []*Inbound
	outbounds []*Outbound
}

// NewMesh builds a mesh of size ranks.
func NewMesh(size int) *Mesh {
	m := &Mesh{
		inbounds:  make([]*Inbound, size),
		outbounds: make([]*Outbound, size),
	}
	for r := 0; r < size; r++ {
		m.inbounds[r] = &Inbound{rank: r, once: lifecycle.NewOnce()}
		m.outbounds[r] = &Outbound{mesh: m, rank: r, once: lifecycle.NewOnce()}
	}
	return m
}

// Size returns the number of ranks.
func (m *Mesh) Size() int { return len(m.inbounds) }

// Inbound returns the inbound of rank.
func (m *Mesh) Inbound(rank int) *Inbound { return m.inbounds[rank] }

// Outbound returns the outbound of rank.
func (m *Mesh) Outbound(rank int) *Outbound { return m.outbounds[rank] }

var (
	_ transport.Inbound  = (*Inbound)(nil)
	_ transport.Outbound = (*Outbound)(nil)
)

// Inbound delivers the messages addressed to one rank of a Mesh.
type Inbound struct {
	rank int
	once *lifecycle.Once

	mu       sync.Mutex
	receiver transport.Receiver
	held     []*transport.Message
	running  bool
	stopped  bool
}

// SetReceiver configures where messages are delivered.
func (i *Inbound) SetReceiver(r transport.Receiver) {
	i.mu.Lock()
	i.receiver = r
	i.mu.Unlock()
}

// Start delivers held messages and lets new ones through.
func (i *Inbound) Start() error {
	return i.once.Start(i.start)
}

func (i *Inbound) start() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.receiver == nil {
		return pebblerrors.FailedPreconditionErrorf("local inbound of rank %d has no receiver", i.rank)
	}
	for _, msg := range i.held {
		i.receiver.Receive(msg)
	}
	i.held = nil
	i.running = true
	return nil
}

// Stop refuses further messages.
func (i *Inbound) Stop() error {
	return i.once.Stop(func() error {
		i.mu.Lock()
		i.stopped = true
		i.running = false
		i.held = nil
		i.mu.Unlock()
		return nil
	})
}

// IsRunning returns whether the inbound is delivering messages.
func (i *Inbound) IsRunning() bool {
	return i.once.IsRunning()
}

func (i *Inbound) deliver(msg *transport.Message) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	switch {
	case i.stopped:
		return pebblerrors.UnavailableErrorf("rank %d is no longer accepting messages", i.rank)
	case !i.running:
		i.held = append(i.held, msg)
	default:
		// Delivering under the lock keeps messages from one sender in
		// order.
		i.receiver.Receive(msg)
	}
	return nil
}

// Outbound sends messages from one rank of a Mesh.
type Outbound struct {
	mesh *Mesh
	rank int
	once *lifecycle.Once
}

// Start allows sends.
func (o *Outbound) Start() error { return o.once.Start(nil) }

// Stop refuses further sends.
func (o *Outbound) Stop() error { return o.once.Stop(nil) }

// IsRunning returns whether the outbound accepts sends.
func (o *Outbound) IsRunning() bool { return o.once.IsRunning() }

// Send copies msg and hands it to the destination rank.
func (o *Outbound) Send(ctx context.Context, msg *transport.Message) error {
	if !o.once.IsRunning() {
		return pebblerrors.UnavailableErrorf("local outbound of rank %d is not running", o.rank)
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	if msg.Dest >= o.mesh.Size() {
		return pebblerrors.InvalidArgumentErrorf("rank %d does not exist in a mesh of %d", msg.Dest, o.mesh.Size())
	}
	if err := ctx.Err(); err != nil {
		return pebblerrors.CancelledErrorf("send from rank %d cancelled: %v", o.rank, err)
	}
	return o.mesh.inbounds[msg.Dest].deliver(msg.Clone())
}
