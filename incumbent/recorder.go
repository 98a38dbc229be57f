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

package incumbent

import (
	"database/sql"
	"fmt"

	"go.uber.org/atomic"
)

// TableIncumbents is the table SQLRecorder writes to.
const TableIncumbents = "incumbents"

// Recorder traces the points admitted to a Repository.
type Recorder interface {
	Record(value float64, pt Point) error
}

// SQLRecorder writes admitted points to a SQL table with the columns seq,
// value and point. Points are stored with fmt's %v verb.
type SQLRecorder struct {
	db  *sql.DB
	seq atomic.Int64
}

var _ Recorder = (*SQLRecorder)(nil)

// NewSQLRecorder creates the incumbents table if it does not exist.
func NewSQLRecorder(db *sql.DB) (*SQLRecorder, error) {
	s := "CREATE TABLE IF NOT EXISTS " + TableIncumbents + " (seq INTEGER, value REAL, point TEXT);"
	if _, err := db.Exec(s); err != nil {
		return nil, err
	}
	return &SQLRecorder{db: db}, nil
}

// Record inserts one row.
func (r *SQLRecorder) Record(value float64, pt Point) error {
	s := "INSERT INTO " + TableIncumbents + " (seq,value,point) VALUES (?,?,?);"
	_, err := r.db.Exec(s, r.seq.Inc(), value, fmt.Sprintf("%v", pt))
	return err
}

// RecordAll inserts every point of repo in one transaction, best first.
func (r *SQLRecorder) RecordAll(repo *Repository) (err error) {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	s := "INSERT INTO " + TableIncumbents + " (seq,value,point) VALUES (?,?,?);"
	for _, b := range repo.Buckets() {
		for _, pt := range b.points {
			if _, err = tx.Exec(s, r.seq.Inc(), b.value, fmt.Sprintf("%v", pt)); err != nil {
				return err
			}
		}
	}
	return nil
}
