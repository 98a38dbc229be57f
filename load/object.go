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

package load

import (
	"go.uber.org/pebbl/api/search"
	"go.uber.org/pebbl/pkg/packbuf"
	"go.uber.org/zap/zapcore"
)

// Object is the load of one rank, or the sum of the loads of several.
type Object struct {
	// Sense orients bound comparisons. It is not sent on the wire since
	// every rank searches the same problem.
	Sense search.Sense

	// ServerBound is the last bound received from this rank's hub.
	ServerBound float64
	// IncumbentSource is the rank believed to hold the incumbent.
	IncumbentSource int

	Messages     MessageBlock
	HubTrack     TimeTrackBlock
	LastHubTrack TimeTrackBlock

	// Count is the number of live subproblems.
	Count int
	// AggBound is the best bound over the live subproblems and the server
	// bound.
	AggBound float64
}

// New builds an empty load for a search in the given sense.
func New(sense search.Sense) Object {
	o := Object{Sense: sense}
	o.Reset()
	return o
}

// Reset clears the load at the start of a search.
func (o *Object) Reset() {
	*o = Object{
		Sense:           o.Sense,
		ServerBound:     o.Sense.Worst(),
		IncumbentSource: -1,
		AggBound:        o.Sense.Worst(),
	}
}

// Add merges other into o. Counters and time blocks are summed, subproblem
// counts are summed and the aggregate bound takes the better of the two.
func (o *Object) Add(other Object) {
	o.Messages.Add(other.Messages)
	o.HubTrack.Add(other.HubTrack)
	o.LastHubTrack.Add(other.LastHubTrack)
	o.Count += other.Count
	o.UpdateAggBound(other.AggBound)
}

// UpdateAggBound folds bound into the aggregate bound.
func (o *Object) UpdateAggBound(bound float64) {
	if o.Sense.Better(bound, o.AggBound) {
		o.AggBound = bound
	}
}

// IncorporateServerBound records a bound received from a hub and folds it
// into the aggregate bound.
func (o *Object) IncorporateServerBound(bound float64) {
	o.ServerBound = bound
	o.UpdateAggBound(bound)
}

// CountIncomplete reports whether subproblems are in flight.
func (o *Object) CountIncomplete() bool {
	return !o.Messages.LocalScatter.InBalance() || !o.Messages.NonLocalScatter.InBalance()
}

// SenseBusy reports whether the rank has, or is about to receive,
// subproblems.
func (o *Object) SenseBusy() bool {
	return o.Count > 0 || o.CountIncomplete()
}

// SenseClusterBusy extends SenseBusy with work still being dispatched by the
// hub.
func (o *Object) SenseClusterBusy() bool {
	return o.SenseBusy() || !o.Messages.HubDispatch.InBalance()
}

// ReadyToPoll reports whether a hub may start polling for termination.
func (o *Object) ReadyToPoll() bool {
	return !o.SenseClusterBusy()
}

// SeemsReallyDone reports whether no subproblems are left and no counted
// message is in flight. It is never true while SenseBusy is.
func (o *Object) SeemsReallyDone() bool {
	return o.Count == 0 && o.Messages.InBalance()
}

// Pack writes the load in wire order: serverBound, incumbentSource,
// messages, hubTrack, lastHubTrack, followed by count and aggBound.
func (o *Object) Pack(w *packbuf.Writer) {
	w.PutDouble(o.ServerBound)
	w.PutInt(o.IncumbentSource)
	o.Messages.pack(w)
	o.HubTrack.pack(w)
	o.LastHubTrack.pack(w)
	w.PutInt(o.Count)
	w.PutDouble(o.AggBound)
}

// Unpack reads a load written by Pack. Sense is left untouched.
func (o *Object) Unpack(r *packbuf.Reader) error {
	o.ServerBound = r.Double()
	o.IncumbentSource = r.Int()
	o.Messages.unpack(r)
	o.HubTrack.unpack(r)
	o.LastHubTrack.unpack(r)
	o.Count = r.Int()
	o.AggBound = r.Double()
	return r.Err()
}

// Equal compares every field carried on the wire.
func (o *Object) Equal(other *Object) bool {
	return o.ServerBound == other.ServerBound &&
		o.IncumbentSource == other.IncumbentSource &&
		o.Messages == other.Messages &&
		o.HubTrack == other.HubTrack &&
		o.LastHubTrack == other.LastHubTrack &&
		o.Count == other.Count &&
		o.AggBound == other.AggBound
}

// MarshalLogObject implements zap.ObjectMarshaler.
func (o *Object) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt("count", o.Count)
	enc.AddFloat64("aggBound", o.AggBound)
	enc.AddInt("incumbentSource", o.IncumbentSource)
	enc.AddBool("busy", o.SenseBusy())
	enc.AddBool("balanced", o.Messages.InBalance())
	return nil
}
