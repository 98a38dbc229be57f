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

// Package pebblconfig loads the configuration of a search from YAML.
//
//  ranks: 4
//  ioRank: 0
//  synchronousPrinting: true
//  transport:
//    redis:
//      address: ${REDIS_ADDRESS:127.0.0.1:6379}
//  enumeration:
//    limit: 5
//  earlyOutput:
//    interval: 2s
//    path: solution.txt
//  logging:
//    level: debug
//
// Fields tagged for interpolation accept ${NAME} and ${NAME:default}
// references to variables.
package pebblconfig

import (
	"math"
	"time"

	"go.uber.org/pebbl/bnb"
	"go.uber.org/pebbl/incumbent"
	"go.uber.org/pebbl/pebblerrors"
	"go.uber.org/pebbl/transport/redis"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config is the configuration of every rank of a search.
type Config struct {
	// Ranks is the total number of ranks. Rank 0 is the hub.
	Ranks int `config:"ranks"`
	// IORank owns the solution file.
	IORank              int  `config:"ioRank"`
	SynchronousPrinting bool `config:"synchronousPrinting"`

	Transport   TransportConfig   `config:"transport"`
	Enumeration EnumerationConfig `config:"enumeration"`
	EarlyOutput EarlyOutputConfig `config:"earlyOutput"`
	Logging     LoggingConfig     `config:"logging"`
}

// TransportConfig selects exactly one transport.
type TransportConfig struct {
	// Local runs every rank in this process.
	Local *LocalConfig `config:"local"`
	// Redis runs one rank per process, exchanging messages through redis
	// lists.
	Redis *redis.Config `config:"redis"`
}

// LocalConfig configures the in-process transport. It has no options.
type LocalConfig struct{}

// EnumerationConfig configures the solutions each worker keeps.
type EnumerationConfig struct {
	// Limit is the number of solutions kept. Zero searches for a single
	// optimal solution.
	Limit          int     `config:"limit"`
	RelTolerance   float64 `config:"relTolerance"`
	AbsTolerance   float64 `config:"absTolerance"`
	ValueTolerance float64 `config:"valueTolerance"`
}

// EarlyOutputConfig configures periodic output of the incumbent.
type EarlyOutputConfig struct {
	// Interval between two outputs. Zero disables them.
	Interval time.Duration `config:"interval"`
	Path     string        `config:"path,interpolate"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	// Level defaults to info.
	Level       *zapLevel `config:"level"`
	Development bool      `config:"development"`
}

// Default returns the configuration used for every field absent from the
// YAML.
func Default() Config {
	return Config{
		Ranks:               2,
		SynchronousPrinting: true,
		Enumeration: EnumerationConfig{
			RelTolerance:   math.Inf(1),
			AbsTolerance:   math.Inf(1),
			ValueTolerance: 1e-9,
		},
		EarlyOutput: EarlyOutputConfig{Path: "solution.txt"},
	}
}

// Validate checks that the configuration describes a runnable search.
func (c Config) Validate() error {
	if c.Ranks < 2 {
		return pebblerrors.InvalidArgumentErrorf("ranks must be at least 2, got %d", c.Ranks)
	}
	if c.IORank < 0 || c.IORank >= c.Ranks {
		return pebblerrors.InvalidArgumentErrorf("ioRank %d is not in [0, %d)", c.IORank, c.Ranks)
	}

	switch {
	case c.Transport.Local != nil && c.Transport.Redis != nil:
		return pebblerrors.InvalidArgumentErrorf("only one of the local and redis transports may be configured")
	case c.Transport.Local == nil && c.Transport.Redis == nil:
		return pebblerrors.InvalidArgumentErrorf("a transport must be configured")
	case c.Transport.Redis != nil:
		if err := c.Transport.Redis.Validate(); err != nil {
			return err
		}
	}

	e := c.Enumeration
	if e.Limit < 0 {
		return pebblerrors.InvalidArgumentErrorf("enumeration limit must not be negative, got %d", e.Limit)
	}
	if e.RelTolerance < 0 || e.AbsTolerance < 0 || e.ValueTolerance < 0 {
		return pebblerrors.InvalidArgumentErrorf("enumeration tolerances must not be negative")
	}
	if c.EarlyOutput.Interval < 0 {
		return pebblerrors.InvalidArgumentErrorf("early output interval must not be negative")
	}
	if c.EarlyOutput.Interval > 0 && c.EarlyOutput.Path == "" {
		return pebblerrors.InvalidArgumentErrorf("early output needs a path")
	}
	return nil
}

// SearchOptions returns the options of the hub and the workers.
func (c Config) SearchOptions() []bnb.Option {
	e := c.Enumeration
	return []bnb.Option{
		bnb.EarlyOutputInterval(c.EarlyOutput.Interval),
		bnb.Enumerate(e.Limit,
			incumbent.RelTolerance(e.RelTolerance),
			incumbent.AbsTolerance(e.AbsTolerance),
			incumbent.ValueTolerance(e.ValueTolerance)),
	}
}

// BuildLogger builds a production logger, or a development one, at the
// configured level.
func (c LoggingConfig) BuildLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if c.Development {
		cfg = zap.NewDevelopmentConfig()
	}
	if c.Level != nil {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.Level(*c.Level))
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	return cfg.Build()
}
