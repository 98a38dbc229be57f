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
	"strconv"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/uber-go/tally"
	"go.uber.org/pebbl/api/search"
	"go.uber.org/pebbl/api/transport"
	"go.uber.org/zap"
)

const _packageName = "pebbl"

// LoggingConfig describes how logging should be configured.
type LoggingConfig struct {
	// Supplies a logger for the node. By default, no logs are emitted.
	Zap *zap.Logger
}

func (c LoggingConfig) logger(rank int) *zap.Logger {
	if c.Zap == nil {
		return zap.NewNop()
	}
	return c.Zap.Named(_packageName).With(
		// Use a namespace to prevent key collisions with other libraries.
		zap.Namespace(_packageName),
		zap.Int("rank", rank),
	)
}

// MetricsConfig describes how telemetry should be configured.
type MetricsConfig struct {
	// Tally scope metrics are reported to. By default, metrics are
	// dropped.
	Tally tally.Scope
}

func (c MetricsConfig) scope(rank int) tally.Scope {
	if c.Tally == nil {
		return tally.NoopScope
	}
	return c.Tally.SubScope(_packageName).Tagged(map[string]string{
		"rank": strconv.Itoa(rank),
	})
}

// Config specifies the parameters of a new Node.
type Config struct {
	// Rank of this node, in [0, Size).
	Rank int
	// Size is the number of ranks in the job.
	Size int

	// FirstHub is the rank that coordinates the search and collects
	// early output confirmations.
	FirstHub int
	// IORank owns the solution file.
	IORank int
	// SynchronousPrinting sends all early output through IORank.
	SynchronousPrinting bool

	// Sense of the optimization. Defaults to search.Minimize.
	Sense search.Sense

	// Inbound receives the messages addressed to this rank.
	Inbound transport.Inbound
	// Outbound sends messages to other ranks.
	Outbound transport.Outbound

	// Tracer records a span for every message handled. Defaults to
	// opentracing.GlobalTracer().
	Tracer opentracing.Tracer

	// Configures logging.
	Logging LoggingConfig

	// Configures telemetry.
	Metrics MetricsConfig
}
