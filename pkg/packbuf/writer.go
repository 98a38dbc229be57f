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
	"bytes"
	"encoding/binary"
	"math"
)

// Writer appends packed values to a pooled buffer. A Writer must not be used
// concurrently or after it was released.
type Writer struct {
	pool *Pool

	// version increments on every operation so that overlapping operations
	// are caught.
	version uint

	released bool

	buf     *bytes.Buffer
	scratch [8]byte
}

func newWriter(pool *Pool) *Writer {
	return &Writer{
		pool: pool,
		buf:  &bytes.Buffer{},
	}
}

func (w *Writer) checkUseAfterFree() {
	if w.released || w.buf == nil {
		panic("use-after-free of pooled pack buffer")
	}
}

func (w *Writer) preOp() uint {
	w.checkUseAfterFree()
	w.version++
	return w.version
}

func (w *Writer) postOp(v uint) {
	w.checkUseAfterFree()
	if v != w.version || w.released {
		panic("concurrent use of pooled pack buffer")
	}
	w.version++
}

// PutInt packs v as a 32-bit integer. Values outside of the int32 range are
// truncated.
func (w *Writer) PutInt(v int) {
	version := w.preOp()
	binary.BigEndian.PutUint32(w.scratch[:4], uint32(int32(v)))
	w.buf.Write(w.scratch[:4])
	w.postOp(version)
}

// PutDouble packs v as IEEE-754 bits.
func (w *Writer) PutDouble(v float64) {
	version := w.preOp()
	binary.BigEndian.PutUint64(w.scratch[:8], math.Float64bits(v))
	w.buf.Write(w.scratch[:8])
	w.postOp(version)
}

// PutBool packs v as a single byte.
func (w *Writer) PutBool(v bool) {
	version := w.preOp()
	var b byte
	if v {
		b = 1
	}
	w.buf.WriteByte(b)
	w.postOp(version)
}

// PutBytes packs the length of b followed by its contents.
func (w *Writer) PutBytes(b []byte) {
	w.PutInt(len(b))
	version := w.preOp()
	w.buf.Write(b)
	w.postOp(version)
}

// PutString packs the length of s followed by its contents.
func (w *Writer) PutString(s string) {
	w.PutInt(len(s))
	version := w.preOp()
	w.buf.WriteString(s)
	w.postOp(version)
}

// Len returns the number of packed bytes.
func (w *Writer) Len() int {
	version := w.preOp()
	n := w.buf.Len()
	w.postOp(version)
	return n
}

// Bytes returns the packed bytes. The slice aliases the pooled buffer and is
// only valid until the Writer is released.
func (w *Writer) Bytes() []byte {
	w.checkUseAfterFree()
	return w.buf.Bytes()
}

// Finish returns a copy of the packed bytes and releases the Writer.
func (w *Writer) Finish() []byte {
	version := w.preOp()
	out := make([]byte, w.buf.Len())
	copy(out, w.buf.Bytes())
	w.postOp(version)
	w.Release()
	return out
}

// Release returns the Writer to its pool.
func (w *Writer) Release() {
	// Increment the version so overlapping operations fail.
	w.postOp(w.preOp())

	if w.pool.testDetectUseAfterFree {
		w.releaseDetectUseAfterFree()
		return
	}

	w.buf.Reset()
	w.released = true
	w.pool.release(w)
}

func (w *Writer) reuse() {
	w.released = false
}

func (w *Writer) releaseDetectUseAfterFree() {
	// Scribble over the data so lingering readers of Bytes() see garbage,
	// once synchronously and once from a goroutine for the race detector.
	overwriteData(w.buf.Bytes())
	go overwriteData(w.buf.Bytes())

	w.released = true
	w.buf = nil
}

func overwriteData(bs []byte) {
	for i := range bs {
		bs[i] = byte(i)
	}
}
