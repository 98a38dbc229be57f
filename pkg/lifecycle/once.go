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

// Package lifecycle runs the start and stop routines of transports and
// ranks at most once each, from any number of goroutines.
package lifecycle

import (
	"context"

	"go.uber.org/atomic"
	"go.uber.org/pebbl/pebblerrors"
)

// State is a stage in the life of a started object. States only move
// forward.
type State int32

const (
	// Idle objects have not been started or stopped.
	Idle State = iota
	// Starting objects are running their start routine.
	Starting
	// Running objects started successfully.
	Running
	// Stopping objects are running their stop routine.
	Stopping
	// Stopped objects stopped successfully, or were stopped before they
	// were ever started.
	Stopped
	// Errored objects failed to start or to stop.
	Errored
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Starting:
		return "starting"
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	case Stopped:
		return "stopped"
	case Errored:
		return "errored"
	default:
		return "unknown"
	}
}

// Once guards an object's start and stop routines.
//
// Start and Stop block until the object has reached at least the Running and
// Stopped states respectively. Stop before Start skips both routines. The
// first error from either routine is returned by every later call.
type Once struct {
	state atomic.Int32
	err   atomic.Error

	started  chan struct{}
	stopping chan struct{}
	stopped  chan struct{}
}

// NewOnce builds a Once in the Idle state.
func NewOnce() *Once {
	return &Once{
		started:  make(chan struct{}),
		stopping: make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

func (o *Once) advance(from, to State) bool {
	return o.state.CAS(int32(from), int32(to))
}

// Start runs f if the object is Idle, otherwise it waits for whoever is
// starting the object and returns their result.
func (o *Once) Start(f func() error) error {
	if !o.advance(Idle, Starting) {
		<-o.started
		return o.err.Load()
	}

	err := call(f)
	if err != nil {
		o.err.Store(err)
		o.state.Store(int32(Errored))
		close(o.stopping)
		close(o.stopped)
	} else {
		o.state.Store(int32(Running))
	}
	close(o.started)
	return err
}

// Stop runs f if the object is Running, otherwise it waits for the object to
// stop and returns the first error seen.
func (o *Once) Stop(f func() error) error {
	if o.advance(Idle, Stopped) {
		close(o.started)
		close(o.stopping)
		close(o.stopped)
		return nil
	}

	<-o.started
	if !o.advance(Running, Stopping) {
		<-o.stopped
		return o.err.Load()
	}
	close(o.stopping)

	err := call(f)
	if err != nil {
		o.err.Store(err)
		o.state.Store(int32(Errored))
	} else {
		o.state.Store(int32(Stopped))
	}
	close(o.stopped)
	return err
}

// WaitUntilRunning blocks until the object is Running. The context must have
// a deadline.
func (o *Once) WaitUntilRunning(ctx context.Context) error {
	if s := o.State(); s == Running {
		return nil
	} else if s > Running {
		return pebblerrors.FailedPreconditionErrorf("could not wait for start: object is %v", s)
	}
	if _, ok := ctx.Deadline(); !ok {
		return pebblerrors.InvalidArgumentErrorf("could not wait for start: context has no deadline")
	}

	select {
	case <-o.started:
		if s := o.State(); s != Running {
			return pebblerrors.FailedPreconditionErrorf("object did not start: it is %v", s)
		}
		return nil
	case <-ctx.Done():
		return pebblerrors.CancelledErrorf("stopped waiting for start: %v", ctx.Err())
	}
}

// Started closes once the object is Running or beyond.
func (o *Once) Started() <-chan struct{} { return o.started }

// Stopping closes once the object is Stopping or beyond.
func (o *Once) Stopping() <-chan struct{} { return o.stopping }

// Stopped closes once the object is Stopped or Errored.
func (o *Once) Stopped() <-chan struct{} { return o.stopped }

// State returns a state the object has at least reached.
func (o *Once) State() State {
	return State(o.state.Load())
}

// IsRunning reports whether the object is Running.
func (o *Once) IsRunning() bool {
	return o.State() == Running
}

func call(f func() error) error {
	if f == nil {
		return nil
	}
	return f()
}
