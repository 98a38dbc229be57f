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

package transport

import (
	"go.uber.org/pebbl/pkg/packbuf"
)

// EncodeFrame packs a message for byte-oriented transports. The layout is
// source:int, dest:int, tag:string, body:bytes.
func EncodeFrame(msg *Message) []byte {
	w := packbuf.NewWriter()
	w.PutInt(msg.Source)
	w.PutInt(msg.Dest)
	w.PutString(string(msg.Tag))
	w.PutBytes(msg.Body)
	return w.Finish()
}

// DecodeFrame unpacks a frame produced by EncodeFrame and validates the
// result.
func DecodeFrame(b []byte) (*Message, error) {
	r := packbuf.NewReader(b)
	msg := &Message{
		Source: r.Int(),
		Dest:   r.Int(),
		Tag:    Tag(r.String()),
		Body:   r.Bytes(),
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return msg, nil
}
