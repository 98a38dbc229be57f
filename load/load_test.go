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
	"encoding/binary"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/pebbl/api/search"
	"go.uber.org/pebbl/pebblerrors"
	"go.uber.org/pebbl/pkg/packbuf"
)

func randomObject(r *rand.Rand) Object {
	counter := func() MessageCounter {
		return MessageCounter{Sent: r.Intn(5), Received: r.Intn(5)}
	}
	return Object{
		Sense:           search.Minimize,
		ServerBound:     r.Float64() * 100,
		IncumbentSource: r.Intn(8),
		Messages: MessageBlock{
			LocalScatter:    counter(),
			NonLocalScatter: counter(),
			HubDispatch:     counter(),
			General:         counter(),
		},
		HubTrack:     TimeTrackBlock{Numerator: r.Float64(), Denominator: r.Float64()},
		LastHubTrack: TimeTrackBlock{Numerator: r.Float64(), Denominator: r.Float64()},
		Count:        r.Intn(3),
		AggBound:     r.Float64() * 100,
	}
}

func TestPackRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		give := randomObject(r)

		w := packbuf.NewWriter()
		give.Pack(w)
		b := w.Finish()

		got := New(search.Minimize)
		require.NoError(t, got.Unpack(packbuf.NewReader(b)))
		assert.True(t, give.Equal(&got), "round trip of %+v gave %+v", give, got)
	}
}

func TestPackFieldOrder(t *testing.T) {
	o := New(search.Maximize)
	o.ServerBound = 2.5
	o.IncumbentSource = 7
	o.Messages.LocalScatter = MessageCounter{Sent: 1, Received: 2}
	o.Messages.General = MessageCounter{Sent: 3, Received: 4}
	o.HubTrack = TimeTrackBlock{Numerator: 5, Denominator: 6}
	o.LastHubTrack = TimeTrackBlock{Numerator: 7, Denominator: 8}
	o.Count = 9
	o.AggBound = 10

	w := packbuf.NewWriter()
	o.Pack(w)
	b := w.Finish()
	require.Len(t, b, 8+4+8*4+16+16+4+8)

	double := func(off int) float64 { return math.Float64frombits(binary.BigEndian.Uint64(b[off:])) }
	integer := func(off int) int { return int(int32(binary.BigEndian.Uint32(b[off:]))) }

	assert.Equal(t, 2.5, double(0), "serverBound")
	assert.Equal(t, 7, integer(8), "incumbentSource")
	assert.Equal(t, []int{1, 2, 0, 0, 0, 0, 3, 4}, []int{
		integer(12), integer(16), integer(20), integer(24),
		integer(28), integer(32), integer(36), integer(40),
	}, "messages")
	assert.Equal(t, []float64{5, 6, 7, 8}, []float64{double(44), double(52), double(60), double(68)}, "time tracks")
	assert.Equal(t, 9, integer(76), "count")
	assert.Equal(t, 10.0, double(80), "aggBound")
}

func TestUnpackShortBuffer(t *testing.T) {
	o := New(search.Minimize)
	w := packbuf.NewWriter()
	o.Pack(w)
	b := w.Finish()

	err := o.Unpack(packbuf.NewReader(b[:20]))
	require.Error(t, err)
	assert.Equal(t, pebblerrors.CodeDataLoss, pebblerrors.CodeOf(err))
}

func TestAdd(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for i := 0; i < 20; i++ {
		a, b := randomObject(r), randomObject(r)
		a0 := a
		a.Add(b)

		assert.Equal(t, a0.Messages.LocalScatter.Sent+b.Messages.LocalScatter.Sent, a.Messages.LocalScatter.Sent)
		assert.Equal(t, a0.Messages.LocalScatter.Received+b.Messages.LocalScatter.Received, a.Messages.LocalScatter.Received)
		assert.Equal(t, a0.Messages.General.Sent+b.Messages.General.Sent, a.Messages.General.Sent)
		assert.Equal(t, a0.Messages.HubDispatch.Received+b.Messages.HubDispatch.Received, a.Messages.HubDispatch.Received)
		assert.Equal(t, a0.HubTrack.Numerator+b.HubTrack.Numerator, a.HubTrack.Numerator)
		assert.Equal(t, a0.Count+b.Count, a.Count)
		assert.Equal(t, math.Min(a0.AggBound, b.AggBound), a.AggBound)
		assert.Equal(t, a0.ServerBound, a.ServerBound, "server bound is per rank")
	}
}

func TestBusyImpliesNotDone(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for i := 0; i < 500; i++ {
		o := randomObject(r)
		if o.SenseBusy() {
			assert.False(t, o.SeemsReallyDone(), "busy load seems done: %+v", o)
		}
		if o.SenseClusterBusy() {
			assert.False(t, o.ReadyToPoll())
		}
	}
}

func TestHeuristics(t *testing.T) {
	tests := []struct {
		desc         string
		give         func(*Object)
		wantBusy     bool
		wantCluster  bool
		wantDone     bool
		wantIncomple bool
	}{
		{
			desc:     "fresh",
			give:     func(*Object) {},
			wantDone: true,
		},
		{
			desc:        "live subproblems",
			give:        func(o *Object) { o.Count = 2 },
			wantBusy:    true,
			wantCluster: true,
		},
		{
			desc:         "scatter in flight",
			give:         func(o *Object) { o.Messages.NonLocalScatter.Sent = 1 },
			wantBusy:     true,
			wantCluster:  true,
			wantIncomple: true,
		},
		{
			desc:        "hub dispatch in flight",
			give:        func(o *Object) { o.Messages.HubDispatch.Received = 1 },
			wantCluster: true,
		},
		{
			desc: "general message in flight",
			give: func(o *Object) { o.Messages.General.Sent = 1 },
		},
		{
			desc: "balanced traffic",
			give: func(o *Object) {
				o.Messages.LocalScatter = MessageCounter{Sent: 4, Received: 4}
				o.Messages.General = MessageCounter{Sent: 2, Received: 2}
			},
			wantDone: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			o := New(search.Minimize)
			tt.give(&o)
			assert.Equal(t, tt.wantIncomple, o.CountIncomplete(), "CountIncomplete")
			assert.Equal(t, tt.wantBusy, o.SenseBusy(), "SenseBusy")
			assert.Equal(t, tt.wantCluster, o.SenseClusterBusy(), "SenseClusterBusy")
			assert.Equal(t, !tt.wantCluster, o.ReadyToPoll(), "ReadyToPoll")
			assert.Equal(t, tt.wantDone, o.SeemsReallyDone(), "SeemsReallyDone")
		})
	}
}

func TestServerBound(t *testing.T) {
	o := New(search.Maximize)
	assert.Equal(t, math.Inf(-1), o.AggBound)

	o.IncorporateServerBound(40)
	assert.Equal(t, 40.0, o.ServerBound)
	assert.Equal(t, 40.0, o.AggBound)

	o.UpdateAggBound(30)
	assert.Equal(t, 40.0, o.AggBound, "30 is a weaker bound when maximizing")

	o.IncorporateServerBound(35)
	assert.Equal(t, 35.0, o.ServerBound)
	assert.Equal(t, 40.0, o.AggBound)
}

func TestReset(t *testing.T) {
	o := randomObject(rand.New(rand.NewSource(4)))
	o.Reset()
	fresh := New(search.Minimize)
	assert.True(t, o.Equal(&fresh))
	assert.Equal(t, search.Minimize, o.Sense)
}

func TestTimeTrack(t *testing.T) {
	var tt TimeTrackBlock
	assert.Equal(t, 0.0, tt.Ratio())
	tt.Record(time.Second, 4*time.Second)
	assert.Equal(t, 0.25, tt.Ratio())
}

func TestAggregator(t *testing.T) {
	a := NewAggregator(search.Minimize, []int{1, 2})

	a.Own.Messages.LocalScatter.Sent = 2
	assert.False(t, a.Quiescent(), "no reports yet")

	one := New(search.Minimize)
	one.Messages.LocalScatter.Received = 1
	require.NoError(t, a.Report(1, one))
	assert.False(t, a.Quiescent(), "rank 2 has not reported")

	two := New(search.Minimize)
	two.Count = 1
	two.Messages.LocalScatter.Received = 1
	require.NoError(t, a.Report(2, two))
	assert.False(t, a.Quiescent(), "rank 2 is busy")

	two.Count = 0
	require.NoError(t, a.Report(2, two))
	assert.True(t, a.Quiescent())
	assert.Equal(t, []int{1, 2}, a.Reported())

	total := a.Total()
	assert.Equal(t, MessageCounter{Sent: 2, Received: 2}, total.Messages.LocalScatter)

	err := a.Report(5, one)
	assert.Equal(t, pebblerrors.CodeDataLoss, pebblerrors.CodeOf(err))
}
