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

// Package redis connects ranks running in separate processes through
// redis lists.
//
// Every rank owns one list, its mailbox. Senders push frames onto the head
// of the destination's mailbox and the rank moves them, oldest first, into a
// processing list while it hands them to its receiver, so that messages from
// one sender arrive in order.
package redis

import (
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/pebbl/api/transport"
	"go.uber.org/pebbl/internal/backoff"
	"go.uber.org/pebbl/pebblerrors"
	"go.uber.org/pebbl/pkg/lifecycle"
	"go.uber.org/zap"
)

const (
	maxConnectRetries = 100
	_defaultTimeout   = time.Second
)

// InboundOption configures an Inbound.
type InboundOption func(*Inbound)

// Timeout sets how long the inbound blocks on redis before checking
// whether it was stopped.
func Timeout(d time.Duration) InboundOption {
	return func(i *Inbound) { i.timeout = d }
}

// ConnectBackoff sets how long the inbound waits between two attempts to
// connect. Defaults to an exponential backoff capped at a second.
func ConnectBackoff(b backoff.Backoff) InboundOption {
	return func(i *Inbound) { i.backoff = b }
}

// Logger sets the inbound's logger.
func Logger(logger *zap.Logger) InboundOption {
	return func(i *Inbound) { i.logger = logger }
}

// Inbound reads the mailbox of one rank.
type Inbound struct {
	client        Client
	rank          int
	timeout       time.Duration
	backoff       backoff.Backoff
	queueKey      string
	processingKey string
	logger        *zap.Logger

	receiver transport.Receiver

	once *lifecycle.Once
	stop chan struct{}
	wg   sync.WaitGroup
}

var _ transport.Inbound = (*Inbound)(nil)

// NewInbound creates an Inbound for the mailbox of rank under prefix.
func NewInbound(client Client, prefix string, rank int, opts ...InboundOption) *Inbound {
	i := &Inbound{
		client:        client,
		rank:          rank,
		timeout:       _defaultTimeout,
		queueKey:      QueueKey(prefix, rank),
		processingKey: ProcessingKey(prefix, rank),
		logger:        zap.NewNop(),
		once:          lifecycle.NewOnce(),
		stop:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.logger == nil {
		i.logger = zap.NewNop()
	}
	if i.backoff == nil {
		i.backoff, _ = backoff.NewExponential()
	}
	i.logger = i.logger.With(zap.String("queue", i.queueKey))
	return i
}

// SetReceiver configures where messages are delivered.
func (i *Inbound) SetReceiver(r transport.Receiver) {
	i.receiver = r
}

// Start connects to redis and starts reading the mailbox.
func (i *Inbound) Start() error {
	return i.once.Start(i.start)
}

func (i *Inbound) start() error {
	if i.receiver == nil {
		return pebblerrors.InternalErrorf("no receiver configured for redis inbound of rank %d", i.rank)
	}

	var err error
	for attempt := uint(0); attempt < maxConnectRetries; attempt++ {
		err = i.client.Start()
		if err == nil {
			break
		}
		wait := i.backoff.Duration(attempt)
		i.logger.Debug("redis is not reachable yet", zap.Duration("retryIn", wait), zap.Error(err))
		time.Sleep(wait)
	}
	if err != nil {
		return err
	}

	i.wg.Add(1)
	go i.loop()
	i.logger.Info("reading mailbox",
		zap.String("endpoint", i.client.Endpoint()),
		zap.String("connections", i.client.ConnectionState()))
	return nil
}

func (i *Inbound) loop() {
	defer i.wg.Done()
	for {
		select {
		case <-i.stop:
			return
		default:
			if err := i.handle(); err != nil {
				i.logger.Error("failed to handle mailbox item", zap.Error(err))
			}
		}
	}
}

// Stop stops reading and disconnects from redis.
func (i *Inbound) Stop() error {
	return i.once.Stop(i.stopClient)
}

func (i *Inbound) stopClient() error {
	close(i.stop)
	i.wg.Wait()
	return i.client.Stop()
}

// IsRunning returns whether the inbound is reading its mailbox.
func (i *Inbound) IsRunning() bool {
	return i.once.IsRunning()
}

func (i *Inbound) handle() (err error) {
	item, err := i.client.BRPopLPush(i.queueKey, i.processingKey, i.timeout)
	if err == errNoItem {
		return nil
	}
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, i.client.LRem(i.processingKey, item))
	}()

	msg, err := transport.DecodeFrame(item)
	if err != nil {
		return err
	}
	if msg.Dest != i.rank {
		return pebblerrors.DataLossErrorf("message for rank %d found in the mailbox of rank %d", msg.Dest, i.rank)
	}
	i.receiver.Receive(msg)
	return nil
}
