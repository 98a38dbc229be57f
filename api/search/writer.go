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

package search

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"go.uber.org/multierr"
	"go.uber.org/pebbl/pebblerrors"
	"go.uber.org/zap"
)

// FileSolutionWriter writes each solution to a file, replacing the previous
// contents, so the file always holds the latest early output.
type FileSolutionWriter struct {
	path   string
	logger *zap.Logger
	create func(string) (io.WriteCloser, error)

	f   io.WriteCloser
	buf *bufio.Writer
}

var _ SolutionWriter = (*FileSolutionWriter)(nil)

// NewFileSolutionWriter builds a SolutionWriter for the file at path. A nil
// logger disables logging.
func NewFileSolutionWriter(path string, logger *zap.Logger) *FileSolutionWriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileSolutionWriter{
		path:   path,
		logger: logger.With(zap.String("path", path)),
		create: func(p string) (io.WriteCloser, error) { return os.Create(p) },
	}
}

// OpenSolutionFile truncates the solution file.
func (w *FileSolutionWriter) OpenSolutionFile() error {
	if w.f != nil {
		return pebblerrors.FailedPreconditionErrorf("solution file %q is already open", w.path)
	}
	f, err := w.create(w.path)
	if err != nil {
		return pebblerrors.UnavailableErrorf("cannot open solution file %q: %v", w.path, err)
	}
	w.f = f
	w.buf = bufio.NewWriter(f)
	return nil
}

// DirectSolutionToFile prints sol into the open solution file.
func (w *FileSolutionWriter) DirectSolutionToFile(sol Solution) error {
	if w.f == nil {
		return pebblerrors.FailedPreconditionErrorf("solution file %q is not open", w.path)
	}
	if _, err := fmt.Fprintf(w.buf, "value: %v\n", sol.Value()); err != nil {
		return err
	}
	if err := sol.Print(w.buf); err != nil {
		return err
	}
	w.logger.Debug("wrote solution", zap.Float64("value", sol.Value()))
	return nil
}

// CloseSolutionFile flushes and closes the solution file.
func (w *FileSolutionWriter) CloseSolutionFile() error {
	if w.f == nil {
		return nil
	}
	err := multierr.Append(w.buf.Flush(), w.f.Close())
	w.f, w.buf = nil, nil
	return err
}
