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

package redis

import (
	"context"

	"go.uber.org/pebbl/api/transport"
	"go.uber.org/pebbl/pebblerrors"
	"go.uber.org/pebbl/pkg/lifecycle"
)

// Outbound pushes messages onto the mailboxes of other ranks.
type Outbound struct {
	client Client
	prefix string

	once *lifecycle.Once
}

var _ transport.Outbound = (*Outbound)(nil)

// NewOutbound creates an Outbound writing to the mailboxes under prefix.
func NewOutbound(client Client, prefix string) *Outbound {
	return &Outbound{
		client: client,
		prefix: prefix,
		once:   lifecycle.NewOnce(),
	}
}

// Start connects to redis.
func (o *Outbound) Start() error {
	return o.once.Start(o.client.Start)
}

// Stop disconnects from redis.
func (o *Outbound) Stop() error {
	return o.once.Stop(o.client.Stop)
}

// IsRunning returns whether the Outbound is running.
func (o *Outbound) IsRunning() bool {
	return o.once.IsRunning()
}

// Send pushes msg onto the mailbox of msg.Dest.
func (o *Outbound) Send(ctx context.Context, msg *transport.Message) error {
	if !o.once.IsRunning() {
		return pebblerrors.UnavailableErrorf("redis outbound is not running")
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return pebblerrors.CancelledErrorf("send to rank %d cancelled: %v", msg.Dest, err)
	}
	return o.client.LPush(QueueKey(o.prefix, msg.Dest), transport.EncodeFrame(msg))
}
