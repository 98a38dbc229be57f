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

package transport

import "context"

//go:generate mockgen -destination=transporttest/transport.go -package=transporttest go.uber.org/pebbl/api/transport Inbound,Outbound

// Lifecycle objects are started before use and stopped when the rank shuts
// down.
type Lifecycle interface {
	// Start must block until the object is ready to be used.
	Start() error

	// Stop must block until the object has released its resources.
	Stop() error

	// IsRunning returns whether the object is started and not yet stopped.
	IsRunning() bool
}

// Inbound delivers the messages addressed to one rank.
type Inbound interface {
	Lifecycle

	// SetReceiver configures where messages are delivered. It is called by
	// the rank before Start.
	SetReceiver(Receiver)
}

// Outbound sends messages from one rank to any other rank.
type Outbound interface {
	Lifecycle

	// Send hands msg to the transport. Send returns once the transport owns
	// the message; it does not wait for delivery. The caller may reuse
	// msg.Body after Send returns.
	//
	// This MUST be safe to call concurrently.
	Send(ctx context.Context, msg *Message) error
}
