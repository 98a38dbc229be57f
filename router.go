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

package pebbl

import (
	"sort"

	"go.uber.org/pebbl/api/transport"
	"go.uber.org/pebbl/pebblerrors"
)

var _ transport.Router = (*MapRouter)(nil)

// MapRouter is a Router that maintains a map of the registered handlers.
type MapRouter struct {
	handlers map[transport.Tag]transport.Handler
}

// NewMapRouter builds an empty MapRouter.
func NewMapRouter() *MapRouter {
	return &MapRouter{handlers: make(map[transport.Tag]transport.Handler)}
}

// Register registers the handler for tag. It panics if tag already has a
// handler.
func (m *MapRouter) Register(tag transport.Tag, h transport.Handler) {
	if tag == "" {
		panic("expected tag not to be empty in registration")
	}
	if h == nil {
		panic("expected handler for tag " + string(tag) + " not to be nil")
	}
	if _, ok := m.handlers[tag]; ok {
		panic("a handler for tag " + string(tag) + " is already registered")
	}
	m.handlers[tag] = h
}

// Choose retrieves the handler for the message's tag, or returns an
// Unimplemented error since traffic nobody handles means the ranks disagree
// on the protocol.
func (m *MapRouter) Choose(msg *transport.Message) (transport.Handler, error) {
	if h, ok := m.handlers[msg.Tag]; ok {
		return h, nil
	}
	return nil, pebblerrors.UnimplementedErrorf("no handler for tag %q from rank %d", msg.Tag, msg.Source)
}

// Tags returns the registered tags, sorted.
func (m *MapRouter) Tags() []transport.Tag {
	tags := make([]transport.Tag, 0, len(m.handlers))
	for t := range m.handlers {
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}
