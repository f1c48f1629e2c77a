// Copyright 2021 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package resilient

import (
	"time"
)

// A Sink receives a structured notification for every significant
// event in a resilient call. Package sink provides logging, metrics,
// and tracing implementations.
//
// Sink methods are called synchronously from the goroutine running the
// call, so they should return promptly. Implementations must be safe
// for concurrent use by multiple goroutines, since one Sink is
// typically shared by many concurrent calls.
type Sink interface {
	// AttemptSucceeded is called after an attempt returns without
	// error.
	AttemptSucceeded(e *Execution, o Outcome)
	// AttemptFailed is called exactly once for every failed attempt,
	// after the failure is classified.
	AttemptFailed(e *Execution, o Outcome)
	// RetrySucceeded is called after AttemptSucceeded if at least one
	// earlier attempt of the same call failed.
	RetrySucceeded(e *Execution)
	// Waiting is called once before a backoff wait long enough to be
	// worth announcing.
	Waiting(e *Execution, d time.Duration)
	// WaitCanceled is called when the call's context is done during a
	// backoff wait. The call ends without another attempt, and err is
	// the context's error. The execution has ended by the time
	// WaitCanceled is called.
	WaitCanceled(e *Execution, err error)
}

// NopSink is a Sink that ignores every event.
type NopSink struct{}

// AttemptSucceeded does nothing.
func (NopSink) AttemptSucceeded(*Execution, Outcome) {}

// AttemptFailed does nothing.
func (NopSink) AttemptFailed(*Execution, Outcome) {}

// RetrySucceeded does nothing.
func (NopSink) RetrySucceeded(*Execution) {}

// Waiting does nothing.
func (NopSink) Waiting(*Execution, time.Duration) {}

// WaitCanceled does nothing.
func (NopSink) WaitCanceled(*Execution, error) {}

// MultiSink is a Sink that forwards every event to each of its members
// in order.
type MultiSink []Sink

// AttemptSucceeded forwards the event to every member.
func (m MultiSink) AttemptSucceeded(e *Execution, o Outcome) {
	for _, s := range m {
		s.AttemptSucceeded(e, o)
	}
}

// AttemptFailed forwards the event to every member.
func (m MultiSink) AttemptFailed(e *Execution, o Outcome) {
	for _, s := range m {
		s.AttemptFailed(e, o)
	}
}

// RetrySucceeded forwards the event to every member.
func (m MultiSink) RetrySucceeded(e *Execution) {
	for _, s := range m {
		s.RetrySucceeded(e)
	}
}

// Waiting forwards the event to every member.
func (m MultiSink) Waiting(e *Execution, d time.Duration) {
	for _, s := range m {
		s.Waiting(e, d)
	}
}

// WaitCanceled forwards the event to every member.
func (m MultiSink) WaitCanceled(e *Execution, err error) {
	for _, s := range m {
		s.WaitCanceled(e, err)
	}
}
