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

package packbuf

import (
	"encoding/binary"
	"math"

	"go.uber.org/pebbl/pebblerrors"
)

// Reader unpacks values in the order they were packed.
//
// The first failure is sticky: once a read runs past the end of the data,
// every following read returns a zero value and Err reports the failure.
type Reader struct {
	data []byte
	off  int
	err  error
}

// NewReader returns a Reader over b. The Reader does not copy b.
func NewReader(b []byte) *Reader {
	return &Reader{data: b}
}

func (r *Reader) next(n int, what string) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || len(r.data)-r.off < n {
		r.err = pebblerrors.DataLossErrorf(
			"pack buffer: cannot read %s of %d bytes at offset %d, %d bytes left",
			what, n, r.off, len(r.data)-r.off)
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

// Int unpacks a 32-bit integer.
func (r *Reader) Int() int {
	b := r.next(4, "int")
	if b == nil {
		return 0
	}
	return int(int32(binary.BigEndian.Uint32(b)))
}

// Double unpacks a float64.
func (r *Reader) Double() float64 {
	b := r.next(8, "double")
	if b == nil {
		return 0
	}
	return math.Float64frombits(binary.BigEndian.Uint64(b))
}

// Bool unpacks a boolean.
func (r *Reader) Bool() bool {
	b := r.next(1, "bool")
	if b == nil {
		return false
	}
	return b[0] != 0
}

// Bytes unpacks a length-prefixed byte slice. The result is a copy.
func (r *Reader) Bytes() []byte {
	n := r.Int()
	b := r.next(n, "bytes")
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// String unpacks a length-prefixed string.
func (r *Reader) String() string {
	n := r.Int()
	b := r.next(n, "string")
	if b == nil {
		return ""
	}
	return string(b)
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.off
}

// Err returns the first error encountered while reading.
func (r *Reader) Err() error {
	return r.err
}
