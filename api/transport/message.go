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

// Package transport defines the interfaces through which search ranks
// exchange messages.
//
// A rank receives messages through an Inbound, which hands each one to a
// Receiver, and sends them through an Outbound. Messages are routed to a
// Handler by their Tag. Transports only guarantee that messages between a
// fixed pair of ranks arrive in the order they were sent.
package transport

import (
	"go.uber.org/pebbl/pebblerrors"
	"go.uber.org/zap/zapcore"
)

// External is the Source of messages injected from outside of the job, such
// as an operator asking for early output.
const External = -1

// Tag names the protocol a message belongs to.
type Tag string

// Message is a unit of traffic between two ranks.
type Message struct {
	// Source is the rank that sent the message, or External.
	Source int
	// Dest is the rank the message is addressed to.
	Dest int
	Tag  Tag
	// Body is the packed payload. Its layout is owned by the protocol named
	// by Tag.
	Body []byte
}

// Validate checks that a message is addressable.
func (m *Message) Validate() error {
	if m.Source < External {
		return pebblerrors.InvalidArgumentErrorf("message has invalid source rank %d", m.Source)
	}
	if m.Dest < 0 {
		return pebblerrors.InvalidArgumentErrorf("message has invalid destination rank %d", m.Dest)
	}
	if m.Tag == "" {
		return pebblerrors.InvalidArgumentErrorf("message from rank %d has no tag", m.Source)
	}
	return nil
}

// Clone returns a copy of the message that does not share its Body.
func (m *Message) Clone() *Message {
	c := *m
	if m.Body != nil {
		c.Body = make([]byte, len(m.Body))
		copy(c.Body, m.Body)
	}
	return &c
}

// MarshalLogObject implements zap.ObjectMarshaler.
func (m *Message) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt("source", m.Source)
	enc.AddInt("dest", m.Dest)
	enc.AddString("tag", string(m.Tag))
	enc.AddInt("bodyLength", len(m.Body))
	return nil
}
