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

// Package load keeps the per-rank accounting used to detect that a
// distributed search has finished.
//
// Every rank counts the messages it sends and receives in four categories.
// A hub sums the reports of its workers; once every category is in balance
// and no subproblems are left anywhere, no message can still be in flight
// and the search is over.
package load

import (
	"time"

	"go.uber.org/pebbl/pkg/packbuf"
)

// MessageCounter counts the messages of one category.
type MessageCounter struct {
	Sent     int
	Received int
}

// InBalance reports whether every message sent has been received.
func (c MessageCounter) InBalance() bool {
	return c.Sent == c.Received
}

// Add folds other into c. There is no overflow checking.
func (c *MessageCounter) Add(other MessageCounter) {
	c.Sent += other.Sent
	c.Received += other.Received
}

func (c MessageCounter) pack(w *packbuf.Writer) {
	w.PutInt(c.Sent)
	w.PutInt(c.Received)
}

func (c *MessageCounter) unpack(r *packbuf.Reader) {
	c.Sent = r.Int()
	c.Received = r.Int()
}

// MessageBlock holds the counters of every message category.
type MessageBlock struct {
	// LocalScatter counts subproblems sent between ranks of one cluster.
	LocalScatter MessageCounter
	// NonLocalScatter counts subproblems sent across clusters.
	NonLocalScatter MessageCounter
	// HubDispatch counts subproblems dispatched by a hub.
	HubDispatch MessageCounter
	// General counts every other counted message.
	General MessageCounter
}

// Add folds other into b elementwise.
func (b *MessageBlock) Add(other MessageBlock) {
	b.LocalScatter.Add(other.LocalScatter)
	b.NonLocalScatter.Add(other.NonLocalScatter)
	b.HubDispatch.Add(other.HubDispatch)
	b.General.Add(other.General)
}

// InBalance reports whether all four counters are in balance.
func (b MessageBlock) InBalance() bool {
	return b.LocalScatter.InBalance() &&
		b.NonLocalScatter.InBalance() &&
		b.HubDispatch.InBalance() &&
		b.General.InBalance()
}

func (b MessageBlock) pack(w *packbuf.Writer) {
	b.LocalScatter.pack(w)
	b.NonLocalScatter.pack(w)
	b.HubDispatch.pack(w)
	b.General.pack(w)
}

func (b *MessageBlock) unpack(r *packbuf.Reader) {
	b.LocalScatter.unpack(r)
	b.NonLocalScatter.unpack(r)
	b.HubDispatch.unpack(r)
	b.General.unpack(r)
}

// TimeTrackBlock is a ratio of accumulated times, such as the share of
// wall time a hub spent handling messages.
type TimeTrackBlock struct {
	Numerator   float64
	Denominator float64
}

// Record adds busy seconds out of elapsed seconds.
func (t *TimeTrackBlock) Record(busy, elapsed time.Duration) {
	t.Numerator += busy.Seconds()
	t.Denominator += elapsed.Seconds()
}

// Ratio returns Numerator/Denominator, or 0 before anything was recorded.
func (t TimeTrackBlock) Ratio() float64 {
	if t.Denominator == 0 {
		return 0
	}
	return t.Numerator / t.Denominator
}

// Add folds other into t.
func (t *TimeTrackBlock) Add(other TimeTrackBlock) {
	t.Numerator += other.Numerator
	t.Denominator += other.Denominator
}

func (t TimeTrackBlock) pack(w *packbuf.Writer) {
	w.PutDouble(t.Numerator)
	w.PutDouble(t.Denominator)
}

func (t *TimeTrackBlock) unpack(r *packbuf.Reader) {
	t.Numerator = r.Double()
	t.Denominator = r.Double()
}
