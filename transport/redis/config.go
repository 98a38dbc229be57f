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
	"time"

	"go.uber.org/pebbl/pebblerrors"
	"go.uber.org/zap"
)

// Config configures the redis transport of one rank.
type Config struct {
	Address     string        `config:"address,interpolate"`
	QueuePrefix string        `config:"queuePrefix"`
	Timeout     time.Duration `config:"timeout"`
}

// Validate checks that the configuration can be built.
func (c Config) Validate() error {
	if c.Address == "" {
		return pebblerrors.InvalidArgumentErrorf("redis transport: address is required")
	}
	if c.Timeout < 0 {
		return pebblerrors.InvalidArgumentErrorf("redis transport: timeout must not be negative")
	}
	return nil
}

// Build creates the inbound and outbound of rank sharing one client.
func (c Config) Build(rank int, logger *zap.Logger) (*Inbound, *Outbound, error) {
	if err := c.Validate(); err != nil {
		return nil, nil, err
	}
	prefix := c.QueuePrefix
	if prefix == "" {
		prefix = "pebbl"
	}
	opts := []InboundOption{Logger(logger)}
	if c.Timeout > 0 {
		opts = append(opts, Timeout(c.Timeout))
	}

	client := NewRedis5Client(c.Address)
	return NewInbound(client, prefix, rank, opts...), NewOutbound(client, prefix), nil
}
