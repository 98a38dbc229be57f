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
	"fmt"
	"strconv"
)

// Code categorizes a failure inside a search rank.
type Code int

const (
	// CodeOK means no error.
	CodeOK Code = 0

	// CodeCancelled means the operation was cancelled, typically because the
	// rank was stopped while it was still running.
	CodeCancelled Code = 1

	// CodeUnknown means an error that carries no further classification.
	CodeUnknown Code = 2

	// CodeInvalidArgument means the caller supplied an argument that is
	// problematic regardless of the state of the search, such as a rank that
	// lies outside of the configured topology.
	CodeInvalidArgument Code = 3

	// CodeNotFound means a requested entity, such as a route for a message
	// tag, does not exist.
	CodeNotFound Code = 5

	// CodeFailedPrecondition means the operation was rejected because the
	// component is not in a state that allows it, for example wiping an
	// allocator that still has outstanding objects.
	CodeFailedPrecondition Code = 9

	// CodeUnimplemented means a message asked for behavior the receiving
	// rank does not implement. Ranks in one job run the same binary, so this
	// indicates a programming error.
	CodeUnimplemented Code = 12

	// CodeInternal means an invariant of the search was broken.
	CodeInternal Code = 13

	// CodeUnavailable means a transport cannot currently deliver messages.
	CodeUnavailable Code = 14

	// CodeDataLoss means a message could not be decoded. Like
	// CodeUnimplemented this is treated as a protocol violation.
	CodeDataLoss Code = 15
)

var _codeToString = map[Code]string{
	CodeOK:                 "ok",
	CodeCancelled:          "cancelled",
	CodeUnknown:            "unknown",
	CodeInvalidArgument:    "invalid-argument",
	CodeNotFound:           "not-found",
	CodeFailedPrecondition: "failed-precondition",
	CodeUnimplemented:      "unimplemented",
	CodeInternal:           "internal",
	CodeUnavailable:        "unavailable",
	CodeDataLoss:           "data-loss",
}

var _stringToCode = func() map[string]Code {
	m := make(map[string]Code, len(_codeToString))
	for code, s := range _codeToString {
		m[s] = code
	}
	return m
}()

// String returns the string representation of the Code.
func (c Code) String() string {
	if s, ok := _codeToString[c]; ok {
		return s
	}
	return strconv.Itoa(int(c))
}

// MarshalText implements encoding.TextMarshaler.
func (c Code) MarshalText() ([]byte, error) {
	s, ok := _codeToString[c]
	if !ok {
		return nil, fmt.Errorf("unknown code: %d", int(c))
	}
	return []byte(s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Code) UnmarshalText(text []byte) error {
	code, ok := _stringToCode[string(text)]
	if !ok {
		return fmt.Errorf("unknown code string: %s", string(text))
	}
	*c = code
	return nil
}

// IsProtocolViolation reports whether the code marks traffic that the
// receiving rank cannot interpret. Such errors end the rank.
func (c Code) IsProtocolViolation() bool {
	return c == CodeUnimplemented || c == CodeDataLoss
}
