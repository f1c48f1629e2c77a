// Copyright 2021 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package resilient

import (
	"context"
	"time"

	"github.com/gogama/resilient/failure"
	"github.com/gogama/resilient/retry"
	"github.com/google/uuid"
)

// A Disposition records what the executor decided to do after an
// attempt failed.
type Disposition int

const (
	// None is the disposition of a successful attempt.
	None Disposition = iota
	// Retrying is the disposition of the first failed attempt of a
	// call when the call will be retried.
	Retrying
	// RetryingAgain is the disposition of a failed attempt, other than
	// the first failure of the call, when the call will be retried.
	RetryingAgain
	// Final is the disposition of a failed attempt after which the call
	// gives up, either because the failure is not retryable, because
	// the attempt was the last one allowed, or because the call's
	// context is done.
	Final
)

var dispositionNames = []string{
	"None",
	"Retrying",
	"RetryingAgain",
	"Final",
}

// String returns the name of the disposition.
func (d Disposition) String() string {
	if d < None || d > Final {
		return "Unknown"
	}

	return dispositionNames[d]
}

// An Outcome describes the result of one attempt of a resilient call.
// Outcomes are created once per attempt and never modified.
type Outcome struct {
	// Attempt is the zero-based number of the attempt.
	Attempt int
	// Start is the time the attempt started.
	Start time.Time
	// Duration is the time the operation took.
	Duration time.Duration
	// Err is the error the operation returned, or nil on success.
	Err error
	// Kind is the classification of Err. It is meaningless on success.
	Kind failure.Kind
	// Disposition is what the executor decided after the attempt. It is
	// None on success.
	Disposition Disposition
}

// Success indicates whether the attempt succeeded.
func (o Outcome) Success() bool {
	return o.Err == nil
}

// An Execution represents the state of a single resilient call.
//
// An Execution is created when Run or Go is called and is updated as
// the call progresses. It is passed to the Sink on every event. Sinks
// and event handlers may store and retrieve their own data using the
// SetValue and Value methods, but should treat the exported fields as
// read-only, as the execution state drives the retry loop.
type Execution struct {
	// ID uniquely identifies the call, to correlate the events and log
	// messages it produces.
	ID uuid.UUID

	// Name is the name of the operation, for example "Exec" or "Get".
	Name string

	// Detail is optional caller-supplied detail describing the call,
	// such as the query text or request plan. Verbose sinks may dump it.
	Detail any

	// Policy is the retry policy governing the call.
	Policy retry.Policy

	// Start is the start time of the call.
	Start time.Time

	// End is the end time of the call. It contains the zero value
	// until the call ends.
	End time.Time

	// Attempt is the zero-based number of the current attempt.
	Attempt int

	// TimeoutIncrement is the timeout budget accumulated so far. It is
	// zero until an attempt times out, and never decreases.
	TimeoutIncrement time.Duration

	// Timeouts is the number of attempts which failed with a timeout.
	Timeouts int

	// Failed indicates whether any attempt before the current one
	// failed.
	Failed bool

	// Outcomes contains the outcome of every completed attempt, in
	// order.
	Outcomes []Outcome

	// Wait is the length of the backoff wait in progress, or zero if
	// no wait is in progress.
	Wait time.Duration

	ctx  context.Context
	data context.Context
}

func newExecution(ctx context.Context, name string, detail any, p retry.Policy) *Execution {
	return &Execution{
		ID:       uuid.New(),
		Name:     name,
		Detail:   detail,
		Policy:   p,
		Start:    time.Now(),
		Outcomes: make([]Outcome, 0, p.Attempts()),
		ctx:      ctx,
	}
}

// Context returns the context of the call. It is never nil for an
// execution created by Run or Go.
func (e *Execution) Context() context.Context {
	if e.ctx == nil {
		return context.Background()
	}

	return e.ctx
}

// Last returns the outcome of the most recent completed attempt. If no
// attempt has completed, the zero Outcome is returned.
func (e *Execution) Last() Outcome {
	if len(e.Outcomes) == 0 {
		return Outcome{}
	}

	return e.Outcomes[len(e.Outcomes)-1]
}

// Err returns the error of the most recent completed attempt, or nil.
func (e *Execution) Err() error {
	return e.Last().Err
}

// Timeout indicates whether the most recent completed attempt failed
// with a timeout.
func (e *Execution) Timeout() bool {
	o := e.Last()
	return o.Err != nil && o.Kind == failure.Timeout
}

// Duration returns the duration of the execution.
//
// If the execution has not yet started, the duration is zero. If the
// execution has Ended, the duration returned is equal to End minus
// Start. Otherwise, it is equal to the current time minus Start.
func (e *Execution) Duration() time.Duration {
	if !e.Started() {
		return time.Duration(0)
	} else if !e.Ended() {
		return time.Since(e.Start)
	}

	return e.End.Sub(e.Start)
}

// Started indicates whether the execution has started.
func (e *Execution) Started() bool {
	return e.Start != (time.Time{})
}

// Ended indicates whether the execution has ended.
//
// If the return value is true, End is a non-zero time and there will be
// no further changes to the execution.
func (e *Execution) Ended() bool {
	return e.End != (time.Time{})
}

// SetValue allows sinks and event handlers to store arbitrary data in
// the execution.
//
// The key must follow the same rules as the key parameter in
// context.WithValue: it may not be nil, it must be comparable, and it
// should not be of type string or any other built-in type.
func (e *Execution) SetValue(key, value any) {
	ctx := e.data
	if ctx == nil {
		ctx = context.Background()
	}

	e.data = context.WithValue(ctx, key, value)
}

// Value returns the data value associated with this execution for key,
// or nil if there is no value associated with key.
func (e *Execution) Value(key any) any {
	ctx := e.data
	if ctx == nil {
		return nil
	}

	return ctx.Value(key)
}

func (e *Execution) record(o Outcome) {
	e.Outcomes = append(e.Outcomes, o)
}

func (e *Execution) end() {
	e.Wait = 0
	e.End = time.Now()
}
