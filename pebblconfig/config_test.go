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

package pebblconfig

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/pebbl/pebblerrors"
	"go.uber.org/pebbl/transport/redis"
	"go.uber.org/zap/zapcore"
)

func lookupFrom(vars map[string]string) LoadOption {
	return WithLookup(func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	})
}

func TestLoadYAML(t *testing.T) {
	give := `
ranks: 4
ioRank: 2
synchronousPrinting: false
transport:
  redis:
    address: ${REDIS_ADDRESS:127.0.0.1:6379}
    queuePrefix: knapsack
    timeout: 1s
enumeration:
  limit: 5
  relTolerance: 1.1
  absTolerance: .inf
earlyOutput:
  interval: 2s
  path: ${OUT}/solution.txt
logging:
  level: debug
  development: true
`
	cfg, err := LoadYAML(strings.NewReader(give), lookupFrom(map[string]string{"OUT": "/tmp/run"}))
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Ranks)
	assert.Equal(t, 2, cfg.IORank)
	assert.False(t, cfg.SynchronousPrinting)
	assert.Nil(t, cfg.Transport.Local)
	assert.Equal(t, &redis.Config{
		Address:     "127.0.0.1:6379",
		QueuePrefix: "knapsack",
		Timeout:     time.Second,
	}, cfg.Transport.Redis)
	assert.Equal(t, 5, cfg.Enumeration.Limit)
	assert.Equal(t, 1.1, cfg.Enumeration.RelTolerance)
	assert.True(t, math.IsInf(cfg.Enumeration.AbsTolerance, 1))
	assert.Equal(t, 1e-9, cfg.Enumeration.ValueTolerance)
	assert.Equal(t, 2*time.Second, cfg.EarlyOutput.Interval)
	assert.Equal(t, "/tmp/run/solution.txt", cfg.EarlyOutput.Path)
	require.NotNil(t, cfg.Logging.Level)
	assert.Equal(t, zapcore.DebugLevel, zapcore.Level(*cfg.Logging.Level))
	assert.True(t, cfg.Logging.Development)

	assert.Len(t, cfg.SearchOptions(), 2)

	logger, err := cfg.Logging.BuildLogger()
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadYAML(strings.NewReader("transport:\n  local: {}\n"))
	require.NoError(t, err)

	want := Default()
	want.Transport.Local = &LocalConfig{}
	assert.Equal(t, want, cfg)

	logger, err := cfg.Logging.BuildLogger()
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		desc string
		give string
		want string
	}{
		{
			desc: "not yaml",
			give: "ranks: [",
			want: "could not parse configuration",
		},
		{
			desc: "one rank",
			give: "ranks: 1\ntransport: {local: {}}",
			want: "ranks must be at least 2",
		},
		{
			desc: "io rank out of range",
			give: "ranks: 3\nioRank: 3\ntransport: {local: {}}",
			want: "ioRank 3 is not in [0, 3)",
		},
		{
			desc: "no transport",
			give: "ranks: 3",
			want: "a transport must be configured",
		},
		{
			desc: "two transports",
			give: "transport: {local: {}, redis: {address: 'x:1'}}",
			want: "only one of the local and redis transports",
		},
		{
			desc: "redis without address",
			give: "transport: {redis: {queuePrefix: q}}",
			want: "address is required",
		},
		{
			desc: "negative limit",
			give: "transport: {local: {}}\nenumeration: {limit: -1}",
			want: "enumeration limit must not be negative",
		},
		{
			desc: "negative tolerance",
			give: "transport: {local: {}}\nenumeration: {absTolerance: -0.5}",
			want: "tolerances must not be negative",
		},
		{
			desc: "negative interval",
			give: "transport: {local: {}}\nearlyOutput: {interval: -1s}",
			want: "interval must not be negative",
		},
		{
			desc: "interval without path",
			give: "transport: {local: {}}\nearlyOutput: {interval: 1s, path: ''}",
			want: "early output needs a path",
		},
		{
			desc: "bad level",
			give: "transport: {local: {}}\nlogging: {level: loud}",
			want: "could not decode Zap log level",
		},
		{
			desc: "unset variable",
			give: "transport: {redis: {address: '${NOWHERE}'}}",
			want: "NOWHERE",
		},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			_, err := LoadYAML(strings.NewReader(tt.give), lookupFrom(nil))
			require.Error(t, err)
			assert.Equal(t, pebblerrors.CodeInvalidArgument, pebblerrors.CodeOf(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestInterpolate(t *testing.T) {
	vars := map[string]string{"HOST": "redis", "EMPTY": ""}
	lookup := func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	}

	tests := []struct {
		give    string
		want    string
		wantErr bool
	}{
		{give: "plain", want: "plain"},
		{give: "${HOST}:6379", want: "redis:6379"},
		{give: "${PORT:6379}", want: "6379"},
		{give: "${HOST:localhost}", want: "redis"},
		{give: "${EMPTY:fallback}", want: "fallback"},
		{give: "${ADDR:127.0.0.1:6379}", want: "127.0.0.1:6379"},
		{give: "${MISSING}", wantErr: true},
	}
	for _, tt := range tests {
		got, err := interpolate(tt.give, lookup)
		if tt.wantErr {
			assert.Error(t, err, tt.give)
			continue
		}
		require.NoError(t, err, tt.give)
		assert.Equal(t, tt.want, got)
	}
}

func TestLoadNil(t *testing.T) {
	_, err := Load(nil)
	assert.Equal(t, pebblerrors.CodeInvalidArgument, pebblerrors.CodeOf(err), "defaults have no transport")
}
