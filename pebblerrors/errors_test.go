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

package pebblerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewfOK(t *testing.T) {
	assert.Nil(t, Newf(CodeOK, "hello"))
}

func TestErrorString(t *testing.T) {
	tests := []struct {
		desc string
		give error
		want string
	}{
		{
			desc: "no arguments",
			give: InternalErrorf("broken"),
			want: "code:internal message:broken",
		},
		{
			desc: "formatted",
			give: DataLossErrorf("unknown signal %d", 7),
			want: "code:data-loss message:unknown signal 7",
		},
		{
			desc: "empty message",
			give: Newf(CodeUnavailable, ""),
			want: "code:unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.give.Error())
		})
	}
}

func TestFromError(t *testing.T) {
	assert.Nil(t, FromError(nil))
	assert.Equal(t, CodeOK, CodeOf(nil))

	st := Newf(CodeNotFound, "no route")
	assert.True(t, st == FromError(st), "expected the same Status back")

	wrapped := fmt.Errorf("dispatch: %w", st)
	assert.True(t, IsStatus(wrapped))
	assert.Equal(t, CodeNotFound, CodeOf(wrapped))

	plain := errors.New("great sadness")
	assert.False(t, IsStatus(plain))
	unknown := FromError(plain)
	require.NotNil(t, unknown)
	assert.Equal(t, CodeUnknown, unknown.Code())
	assert.Equal(t, "great sadness", unknown.Message())
	assert.True(t, errors.Is(unknown, plain))
}

func TestCodeText(t *testing.T) {
	for code, name := range _codeToString {
		text, err := code.MarshalText()
		require.NoError(t, err)
		assert.Equal(t, name, string(text))

		var got Code
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, code, got)
	}

	var c Code
	assert.Error(t, c.UnmarshalText([]byte("sad")))
	_, err := Code(99).MarshalText()
	assert.Error(t, err)
	assert.Equal(t, "99", Code(99).String())
}

func TestIsProtocolViolation(t *testing.T) {
	assert.True(t, CodeDataLoss.IsProtocolViolation())
	assert.True(t, CodeUnimplemented.IsProtocolViolation())
	assert.False(t, CodeUnavailable.IsProtocolViolation())
	assert.False(t, CodeOK.IsProtocolViolation())
}
