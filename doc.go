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

// Package pebbl runs the ranks of a parallel branch-and-bound search.
//
// Each rank is a Node: a single goroutine that takes messages from other
// ranks off an unbounded mailbox and hands them, one at a time, to the
// Handler registered for their Tag. Between messages a Node may run a Task,
// such as exploring subproblems. Handlers never block and never run
// concurrently, so the search state of a rank needs no locking.
//
// Any error returned by a Handler or a Task halts the Node. Protocol
// violations are programming errors, so there is no retry.
//
//	node := pebbl.NewNode(pebbl.Config{
//		Rank:     1,
//		Size:     4,
//		Inbound:  mesh.Inbound(1),
//		Outbound: mesh.Outbound(1),
//	})
//	node.Register(earlyoutput.Tag, earlyoutput.NewHandler(node.Search(), node))
//	if err := node.Start(); err != nil {
//		log.Fatal(err)
//	}
//	defer node.Stop()
//	<-node.Done()
package pebbl
