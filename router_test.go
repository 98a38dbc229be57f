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
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/pebbl/api/transport"
	"go.uber.org/pebbl/pebblerrors"
)

func TestMapRouter(t *testing.T) {
	m := NewMapRouter()
	noop := transport.HandlerFunc(func(context.Context, *transport.Message) error { return nil })
	m.Register("load", noop)
	m.Register("incumbent", noop)
	m.Register("earlyOutput", noop)

	assert.Equal(t, []transport.Tag{"earlyOutput", "incumbent", "load"}, m.Tags())

	h, err := m.Choose(&transport.Message{Tag: "load"})
	require.NoError(t, err)
	assert.NotNil(t, h)

	_, err = m.Choose(&transport.Message{Source: 3, Tag: "scatter"})
	require.Error(t, err)
	assert.Equal(t, pebblerrors.CodeUnimplemented, pebblerrors.CodeOf(err))
	assert.Contains(t, err.Error(), `no handler for tag "scatter" from rank 3`)
}

func TestMapRouterRegisterPanics(t *testing.T) {
	m := NewMapRouter()
	assert.Panics(t, func() { m.Register("", transport.HandlerFunc(nil)) })
	assert.Panics(t, func() { m.Register("t", nil) })

	noop := transport.HandlerFunc(func(context.Context, *transport.Message) error { return nil })
	m.Register("load", noop)
	assert.PanicsWithValue(t, "a handler for tag load is already registered", func() {
		m.Register("load", noop)
	})
}

func TestMailbox(t *testing.T) {
	m := newMailbox()
	_, ok := m.pop()
	assert.False(t, ok)

	for i := 0; i < 5; i++ {
		m.push(&transport.Message{Source: i})
	}
	assert.Equal(t, 5, m.len())
	select {
	case <-m.ready:
	default:
		t.Fatal("push did not signal")
	}

	for i := 0; i < 5; i++ {
		msg, ok := m.pop()
		require.True(t, ok)
		assert.Equal(t, i, msg.Source)
	}
	assert.Equal(t, 0, m.len())
}
