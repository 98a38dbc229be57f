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

package main

import (
	"time"

	"github.com/uber-go/tally"
	"go.uber.org/zap"
)

// zapReporter logs tally metrics. It is meant for runs too short to be
// worth a metrics pipeline.
type zapReporter struct {
	logger *zap.Logger
}

var _ tally.StatsReporter = (*zapReporter)(nil)

func newZapReporter(logger *zap.Logger) *zapReporter {
	return &zapReporter{logger: logger.Named("metrics")}
}

func (r *zapReporter) Capabilities() tally.Capabilities { return r }
func (r *zapReporter) Reporting() bool                  { return true }
func (r *zapReporter) Tagging() bool                    { return true }
func (r *zapReporter) Flush()                           {}

func (r *zapReporter) ReportCounter(name string, tags map[string]string, value int64) {
	r.logger.Info("counter", zap.String("name", name), zap.Any("tags", tags), zap.Int64("value", value))
}

func (r *zapReporter) ReportGauge(name string, tags map[string]string, value float64) {
	r.logger.Info("gauge", zap.String("name", name), zap.Any("tags", tags), zap.Float64("value", value))
}

func (r *zapReporter) ReportTimer(name string, tags map[string]string, interval time.Duration) {
	r.logger.Info("timer", zap.String("name", name), zap.Any("tags", tags), zap.Duration("value", interval))
}

func (r *zapReporter) ReportHistogramValueSamples(
	name string,
	tags map[string]string,
	_ tally.Buckets,
	bucketLowerBound, bucketUpperBound float64,
	samples int64,
) {
	r.logger.Info("histogram",
		zap.String("name", name),
		zap.Any("tags", tags),
		zap.Float64("lower", bucketLowerBound),
		zap.Float64("upper", bucketUpperBound),
		zap.Int64("samples", samples))
}

func (r *zapReporter) ReportHistogramDurationSamples(
	name string,
	tags map[string]string,
	_ tally.Buckets,
	bucketLowerBound, bucketUpperBound time.Duration,
	samples int64,
) {
	r.logger.Info("histogram",
		zap.String("name", name),
		zap.Any("tags", tags),
		zap.Duration("lower", bucketLowerBound),
		zap.Duration("upper", bucketUpperBound),
		zap.Int64("samples", samples))
}
