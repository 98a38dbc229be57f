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

package earlyoutput

import (
	"go.uber.org/pebbl/api/search"
	"go.uber.org/pebbl/pebblerrors"
	"go.uber.org/pebbl/pkg/packbuf"
)

// Wire values of the signals.
const (
	outputRequestSignal = iota
	outputDeliverSignal
	outputConfirmSignal
)

// Signal is one of RequestSignal, DeliverSignal or ConfirmSignal.
type Signal interface {
	signal() int
}

// RequestSignal asks the incumbent owner to produce early output.
type RequestSignal struct{}

// DeliverSignal pushes the incumbent to the I/O rank for printing.
type DeliverSignal struct {
	Solution search.Solution
}

// ConfirmSignal tells the first hub that output with Value was written.
type ConfirmSignal struct {
	Value float64
}

func (RequestSignal) signal() int { return outputRequestSignal }
func (DeliverSignal) signal() int { return outputDeliverSignal }
func (ConfirmSignal) signal() int { return outputConfirmSignal }

// Encode packs a signal as an int discriminant followed by its payload.
func Encode(sig Signal) []byte {
	w := packbuf.NewWriter()
	w.PutInt(sig.signal())
	switch s := sig.(type) {
	case DeliverSignal:
		s.Solution.Pack(w)
	case ConfirmSignal:
		w.PutDouble(s.Value)
	}
	return w.Finish()
}

// Decode unpacks a signal. Solutions are read with unpack.
func Decode(body []byte, unpack search.SolutionUnpacker) (Signal, error) {
	r := packbuf.NewReader(body)
	kind := r.Int()
	if err := r.Err(); err != nil {
		return nil, err
	}

	switch kind {
	case outputRequestSignal:
		return RequestSignal{}, nil
	case outputDeliverSignal:
		if unpack == nil {
			return nil, pebblerrors.FailedPreconditionErrorf("early output: no solution unpacker configured")
		}
		sol, err := unpack(r)
		if err != nil {
			return nil, err
		}
		return DeliverSignal{Solution: sol}, nil
	case outputConfirmSignal:
		v := r.Double()
		if err := r.Err(); err != nil {
			return nil, err
		}
		return ConfirmSignal{Value: v}, nil
	default:
		return nil, pebblerrors.DataLossErrorf("early output: unknown signal %d", kind)
	}
}
