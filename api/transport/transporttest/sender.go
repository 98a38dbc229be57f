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

package transporttest

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"go.uber.org/pebbl/api/transport"
	"go.uber.org/pebbl/pebblerrors"
)

// RecordingSender is a transport.Sender that keeps every message it is asked
// to send.
type RecordingSender struct {
	rank int

	mu   sync.Mutex
	sent []*transport.Message
	err  error
}

var _ transport.Sender = (*RecordingSender)(nil)

// NewRecordingSender builds a RecordingSender for the given rank.
func NewRecordingSender(rank int) *RecordingSender {
	return &RecordingSender{rank: rank}
}

// FailWith makes subsequent sends fail with err.
func (s *RecordingSender) FailWith(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// Rank returns the rank the sender was built for.
func (s *RecordingSender) Rank() int { return s.rank }

// Send records a copy of the message.
func (s *RecordingSender) Send(ctx context.Context, dest int, tag transport.Tag, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	msg := (&transport.Message{Source: s.rank, Dest: dest, Tag: tag, Body: body}).Clone()
	if err := msg.Validate(); err != nil {
		return err
	}
	s.sent = append(s.sent, msg)
	return nil
}

// Sent returns the messages recorded so far.
func (s *RecordingSender) Sent() []*transport.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*transport.Message(nil), s.sent...)
}

// Take returns the recorded messages and forgets them.
func (s *RecordingSender) Take() []*transport.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	sent := s.sent
	s.sent = nil
	return sent
}

// MessageMatcher may be used in gomock argument lists to assert that a
// message matches an expected one. A nil Body in the expected message
// matches any body.
type MessageMatcher struct {
	want *transport.Message
}

// NewMessageMatcher builds a MessageMatcher.
func NewMessageMatcher(want *transport.Message) MessageMatcher {
	return MessageMatcher{want: want}
}

// Matches checks if the given object matches the expected message.
func (m MessageMatcher) Matches(got interface{}) bool {
	msg, ok := got.(*transport.Message)
	if !ok {
		return false
	}
	if msg.Source != m.want.Source || msg.Dest != m.want.Dest || msg.Tag != m.want.Tag {
		return false
	}
	return m.want.Body == nil || bytes.Equal(msg.Body, m.want.Body)
}

func (m MessageMatcher) String() string {
	return fmt.Sprintf("message %d -> %d tagged %q", m.want.Source, m.want.Dest, m.want.Tag)
}

// ErrStopped is returned by fakes that have been stopped.
var ErrStopped = pebblerrors.UnavailableErrorf("transporttest: stopped")
