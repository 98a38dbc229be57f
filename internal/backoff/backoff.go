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

// Package backoff computes how long to wait between attempts to reach a
// service, such as a rank's redis mailbox that is not up yet.
package backoff

import (
	"math/rand"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/pebbl/pebblerrors"
)

// Backoff returns how long to wait after a number of failed attempts.
type Backoff interface {
	Duration(attempts uint) time.Duration
}

// Constant waits the same duration after every attempt.
type Constant time.Duration

// Duration returns c.
func (c Constant) Duration(uint) time.Duration { return time.Duration(c) }

// ExponentialOption customizes an Exponential backoff.
type ExponentialOption func(*exponentialOptions)

type exponentialOptions struct {
	base, min, max time.Duration
	rand           *rand.Rand
}

func (e exponentialOptions) validate() (err error) {
	if e.base <= 0 {
		err = multierr.Append(err, pebblerrors.InvalidArgumentErrorf("backoff base must be positive, got %v", e.base))
	}
	if e.min < 0 {
		err = multierr.Append(err, pebblerrors.InvalidArgumentErrorf("backoff min must not be negative, got %v", e.min))
	}
	if e.max < e.min {
		err = multierr.Append(err, pebblerrors.InvalidArgumentErrorf("backoff max %v is below min %v", e.max, e.min))
	}
	return err
}

// BaseJump sets the wait of the first attempt, doubled on every attempt
// after it.
func BaseJump(t time.Duration) ExponentialOption {
	return func(o *exponentialOptions) {
		o.base = t
	}
}

// MinBackoff sets the shortest wait.
func MinBackoff(t time.Duration) ExponentialOption {
	return func(o *exponentialOptions) {
		o.min = t
	}
}

// MaxBackoff sets the longest wait.
func MaxBackoff(t time.Duration) ExponentialOption {
	return func(o *exponentialOptions) {
		o.max = t
	}
}

func randSource(src rand.Source) ExponentialOption {
	return func(o *exponentialOptions) {
		o.rand = rand.New(src)
	}
}

// Exponential is a "full jitter" exponential backoff: after n attempts it
// waits a random duration in [min, min+base*2^n], capped at max.
type Exponential struct {
	opts exponentialOptions

	// rand.Rand is not safe for concurrent use.
	mu sync.Mutex
}

var _ Backoff = (*Exponential)(nil)

// NewExponential builds an Exponential backoff. It waits between 0 and
// 10ms after the first attempt and never more than a second by default.
func NewExponential(opts ...ExponentialOption) (*Exponential, error) {
	o := exponentialOptions{
		base: 10 * time.Millisecond,
		max:  time.Second,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	if o.rand == nil {
		o.rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Exponential{opts: o}, nil
}

// Duration returns the wait after the given number of attempts.
func (e *Exponential) Duration(attempts uint) time.Duration {
	span := e.opts.max.Nanoseconds() - e.opts.min.Nanoseconds()
	jump := (int64(1) << attempts) * e.opts.base.Nanoseconds()

	// The shift overflowed or went past the cap.
	if attempts >= 63 || jump > span || jump <= 0 {
		jump = span
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.opts.min + time.Duration(e.opts.rand.Int63n(jump+1))
}
