// Copyright 2021 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package resilient

import (
	"context"
	"time"

	"github.com/gogama/resilient/failure"
	"github.com/gogama/resilient/retry"
)

// An Operation is one attempt of a resilient call, performed against
// resource r. It must honor ctx.
type Operation[R, T any] func(ctx context.Context, r R) (T, error)

// A Call describes a resilient call: the operation to run, the
// resource to run it against, and the policy governing retries.
type Call[R, T any] struct {
	// Name names the operation in diagnostics, for example "Exec" or
	// "Get".
	Name string
	// Detail is optional detail describing the call which verbose
	// sinks may dump, such as a query or request plan.
	Detail any
	// Resource is the resource used by the first attempt.
	Resource R
	// Policy is the retry policy. The zero value never retries.
	Policy retry.Policy
	// Do is the operation. It must not be nil.
	Do Operation[R, T]
}

// An Executor runs resilient calls against resources of type R. Its
// zero value is a valid configuration.
//
// The zero value executor uses failure.Default as the classifier, keeps
// the same resource for every attempt, discards all events, and waits
// using retry.DefaultScheduler.
//
// An Executor is safe for concurrent use by multiple goroutines,
// provided its components are. Concurrent calls share nothing mutable
// except the components themselves.
type Executor[R any] struct {
	// Classifier maps operation errors to failure kinds.
	//
	// If Classifier is nil, failure.Default is used.
	Classifier failure.Classifier
	// Refresher produces the resource for the next attempt after a
	// failed attempt.
	//
	// If Refresher is nil, the resource is never replaced.
	Refresher Refresher[R]
	// Sink receives an event for every attempt.
	//
	// If Sink is nil, events are discarded.
	Sink Sink
	// Scheduler performs the backoff wait between attempts.
	//
	// If Scheduler is nil, retry.DefaultScheduler is used.
	Scheduler *retry.Scheduler
}

// Run executes call c with retries, following the call's retry policy
// and the executor's classifier, refresher, sink, and scheduler. A nil
// executor is equivalent to the zero value.
//
// Run makes at most c.Policy.MaxAttempts+1 attempts. After each failed
// attempt it classifies the error. A NonRetryable error, or a failure
// on the last attempt, ends the call and the error is returned exactly
// as the operation returned it. Otherwise the timeout budget grows if
// the failure was a timeout, the resource is refreshed, and Run waits
// the policy delay before the next attempt. The failure is reported to
// the sink after the refresh, so a refresh error is reported as the
// Final disposition of the attempt.
//
// Run returns the value of the successful attempt, the resource in use
// at the end of the call (which the caller owns and must dispose of),
// and the error, if any. If ctx is done when an attempt fails or during
// a backoff wait, the error is a *CanceledError. A wait cut short by
// ctx is reported to the sink's WaitCanceled method. If the refresher
// fails, the error is a *RefreshError.
//
// Run panics if ctx is nil, if c.Do is nil, or if c.Policy is invalid.
func Run[R, T any](ctx context.Context, x *Executor[R], c Call[R, T]) (T, R, error) {
	checkCall(ctx, c)
	e := newExecution(ctx, c.Name, c.Detail, c.Policy)
	return loop(ctx, x, c, e)
}

func checkCall[R, T any](ctx context.Context, c Call[R, T]) {
	if ctx == nil {
		panic("resilient: nil context")
	}
	if c.Do == nil {
		panic("resilient: nil operation")
	}
	c.Policy.MustValidate()
}

func loop[R, T any](ctx context.Context, x *Executor[R], c Call[R, T], e *Execution) (T, R, error) {
	if x == nil {
		x = &Executor[R]{}
	}
	classifier := x.classifier()
	refresher := x.refresher()
	sink := x.sink()
	scheduler := x.scheduler()
	advise := func(d time.Duration) {
		sink.Waiting(e, d)
	}

	var zero T
	r := c.Resource
	total := c.Policy.Attempts()
	for attempt := 0; attempt < total; attempt++ {
		e.Attempt = attempt
		start := time.Now()
		v, err := c.Do(ctx, r)
		o := Outcome{
			Attempt:  attempt,
			Start:    start,
			Duration: time.Since(start),
			Err:      err,
		}

		if err == nil {
			e.record(o)
			e.end()
			sink.AttemptSucceeded(e, o)
			if e.Failed {
				sink.RetrySucceeded(e)
			}
			return v, r, nil
		}

		o.Kind = classifier.Classify(err)
		if o.Kind == failure.Timeout {
			e.Timeouts++
		}
		ctxErr := ctx.Err()
		final := ctxErr != nil || o.Kind == failure.NonRetryable || attempt == total-1

		var refreshErr error
		if !final {
			var increment time.Duration
			if o.Kind == failure.Timeout {
				e.TimeoutIncrement = grow(e.TimeoutIncrement, c.Policy.AutoTimeoutIncrement)
				increment = e.TimeoutIncrement
			}
			var next R
			next, refreshErr = refresher.Refresh(ctx, r, o.Kind, increment)
			if refreshErr != nil {
				final = true
			} else {
				r = next
			}
		}

		switch {
		case final:
			o.Disposition = Final
		case !e.Failed:
			o.Disposition = Retrying
		default:
			o.Disposition = RetryingAgain
		}
		e.record(o)
		if final {
			e.end()
		}
		sink.AttemptFailed(e, o)
		e.Failed = true

		switch {
		case ctxErr != nil:
			return zero, r, &CanceledError{Err: ctxErr, Cause: err}
		case refreshErr != nil:
			return zero, r, &RefreshError{Err: refreshErr, Cause: err}
		case final:
			return zero, r, err
		}

		e.Wait = c.Policy.Delay(attempt)
		if waitErr := scheduler.Wait(ctx, e.Wait, advise); waitErr != nil {
			e.end()
			sink.WaitCanceled(e, waitErr)
			return zero, r, &CanceledError{Err: waitErr, Cause: err}
		}
		e.Wait = 0
	}

	panic("resilient: unreachable")
}

// grow adds inc to budget, saturating instead of overflowing.
func grow(budget, inc time.Duration) time.Duration {
	sum := budget + inc
	if sum < budget {
		return time.Duration(1<<63 - 1)
	}

	return sum
}

func (x *Executor[R]) classifier() failure.Classifier {
	if x.Classifier == nil {
		return failure.Default
	}

	return x.Classifier
}

func (x *Executor[R]) refresher() Refresher[R] {
	if x.Refresher == nil {
		return keep[R]{}
	}

	return x.Refresher
}

func (x *Executor[R]) sink() Sink {
	if x.Sink == nil {
		return NopSink{}
	}

	return x.Sink
}

func (x *Executor[R]) scheduler() *retry.Scheduler {
	if x.Scheduler == nil {
		return retry.DefaultScheduler
	}

	return x.Scheduler
}
