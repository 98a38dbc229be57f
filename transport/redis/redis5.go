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
	"fmt"
	"sync"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/pebbl/pebblerrors"
	redis5 "gopkg.in/redis.v5"
)

type redis5Client struct {
	addr   string
	client *redis5.Client

	started atomic.Bool
	once    sync.Once
}

// NewRedis5Client creates a new Client implementation using gopkg.in/redis.v5
func NewRedis5Client(addr string) Client {
	return &redis5Client{addr: addr}
}

func (c *redis5Client) Start() error {
	c.once.Do(func() {
		c.client = redis5.NewClient(&redis5.Options{Addr: c.addr})
		c.started.Store(true)
	})
	if err := c.client.Ping().Err(); err != nil {
		return pebblerrors.UnavailableErrorf("redis at %s: %v", c.addr, err)
	}
	return nil
}

func (c *redis5Client) Stop() error {
	if c.started.Swap(false) {
		return c.client.Close()
	}
	return nil
}

// IsRunning returns whether the redis client is running.
func (c *redis5Client) IsRunning() bool {
	return c.started.Load()
}

func (c *redis5Client) notStarted() error {
	return pebblerrors.UnavailableErrorf("redis client for %s is not started", c.addr)
}

func (c *redis5Client) LPush(queue string, item []byte) error {
	if !c.started.Load() {
		return c.notStarted()
	}
	if err := c.client.LPush(queue, item).Err(); err != nil {
		return pebblerrors.UnavailableErrorf("could not push onto %q: %v", queue, err)
	}
	return nil
}

func (c *redis5Client) BRPopLPush(from, to string, timeout time.Duration) ([]byte, error) {
	if !c.started.Load() {
		return nil, c.notStarted()
	}

	item, err := c.client.BRPopLPush(from, to, timeout).Bytes()
	if err == redis5.Nil || (err == nil && len(item) == 0) {
		return nil, errNoItem
	}
	if err != nil {
		return nil, pebblerrors.UnavailableErrorf("could not pop from %q: %v", from, err)
	}
	return item, nil
}

func (c *redis5Client) LRem(queue string, item []byte) error {
	if !c.started.Load() {
		return c.notStarted()
	}
	if c.client.LRem(queue, 1, item).Val() <= 0 {
		return pebblerrors.NotFoundErrorf("could not remove item from %q", queue)
	}
	return nil
}

// Endpoint returns the endpoint configured for this client.
func (c *redis5Client) Endpoint() string {
	return c.addr
}

// ConnectionState returns the status of the connection(s).
func (c *redis5Client) ConnectionState() string {
	if !c.started.Load() {
		return "stopped"
	}
	ps := c.client.PoolStats()
	active := ps.TotalConns - ps.FreeConns
	return fmt.Sprintf("%d/%d connection(s)", active, ps.TotalConns)
}
