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
	"errors"
	"strconv"
	"time"

	"go.uber.org/pebbl/api/transport"
)

//go:generate mockgen -destination=redistest/client.go -package=redistest go.uber.org/pebbl/transport/redis Client

// errNoItem is returned by BRPopLPush when the queue stayed empty for the
// whole timeout.
var errNoItem = errors.New("no item found in queue")

// Client is a subset of redis commands used to manage rank mailboxes.
type Client interface {
	transport.Lifecycle

	// LPush adds item to the head of queue.
	LPush(queue string, item []byte) error
	// BRPopLPush moves the oldest item of from into to, blocking up to
	// timeout. It MUST return an error if no item arrived in time.
	BRPopLPush(from, to string, timeout time.Duration) ([]byte, error)
	// LRem removes one occurrence of item from queue.
	LRem(queue string, item []byte) error

	// Endpoint returns the endpoint configured for this client.
	Endpoint() string

	// ConnectionState returns the status of the connection(s).
	ConnectionState() string
}

// QueueKey is the list holding the messages addressed to rank.
func QueueKey(prefix string, rank int) string {
	return prefix + "/" + strconv.Itoa(rank)
}

// ProcessingKey is the list holding the messages rank is handling.
func ProcessingKey(prefix string, rank int) string {
	return QueueKey(prefix, rank) + "/processing"
}
