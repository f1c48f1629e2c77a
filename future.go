// Copyright 2021 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package resilient

import (
	"context"
)

// A Future is the pending result of a resilient call started by Go.
type Future[R, T any] struct {
	done     chan struct{}
	value    T
	resource R
	err      error
}

// Go starts call c on a new goroutine and returns a Future for its
// result. The call follows exactly the same rules as Run: the two share
// one retry loop, and only the goroutine performing it differs.
//
// Go panics, on the calling goroutine, under the same conditions as
// Run.
func Go[R, T any](ctx context.Context, x *Executor[R], c Call[R, T]) *Future[R, T] {
	checkCall(ctx, c)
	e := newExecution(ctx, c.Name, c.Detail, c.Policy)
	f := &Future[R, T]{
		done: make(chan struct{}),
	}
	go func() {
		defer close(f.done)
		f.value, f.resource, f.err = loop(ctx, x, c, e)
	}()
	return f
}

// Done returns a channel that is closed when the call completes.
func (f *Future[R, T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the call completes and returns its results, with
// the same meaning as the results of Run.
func (f *Future[R, T]) Wait() (T, R, error) {
	<-f.done
	return f.value, f.resource, f.err
}
