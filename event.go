// Copyright 2021 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package resilient

// An Event identifies the event type when installing or running a
// Handler. Install event handlers in a HandlerGroup, and the group in
// an Executor, to extend resilient calls with custom functionality.
type Event int

const (
	// AttemptSucceeded identifies the event that occurs after an
	// attempt of the operation returns without error.
	//
	// When the executor fires AttemptSucceeded, the last element of
	// the execution's outcomes is the successful attempt's outcome.
	AttemptSucceeded Event = iota
	// AttemptFailed identifies the event that occurs after an attempt
	// of the operation returns an error and the error has been
	// classified.
	//
	// When the executor fires AttemptFailed, the last element of the
	// execution's outcomes is the failed attempt's outcome, and its
	// disposition records whether the call will be retried. The
	// execution's Failed field still reflects the state before this
	// attempt, so handlers can tell a first failure from a repeated
	// one.
	AttemptFailed
	// RetrySucceeded identifies the event that occurs after a
	// successful attempt which was preceded by at least one failed
	// attempt within the same call. It fires at most once per call,
	// always immediately after AttemptSucceeded.
	RetrySucceeded
	// Waiting identifies the event that occurs when the backoff
	// scheduler is about to perform a long wait between two attempts.
	//
	// When the executor fires Waiting, the execution's Wait field is
	// set to the length of the upcoming wait.
	Waiting
	// WaitCanceled identifies the event that occurs when the call's
	// context is done during a backoff wait.
	//
	// When the executor fires WaitCanceled, the execution has ended and
	// the last element of its outcomes is the failed attempt that led
	// to the wait.
	WaitCanceled
	// eventSentinel provides the total number of events typed as an
	// Event.
	eventSentinel

	// numEvents provides the total number of events types as an int.
	numEvents = int(eventSentinel)
)

var eventNames = []string{
	"AttemptSucceeded",
	"AttemptFailed",
	"RetrySucceeded",
	"Waiting",
	"WaitCanceled",
}

// Events returns a slice containing all events which can occur during
// a resilient call.
func Events() []Event {
	return []Event{
		AttemptSucceeded,
		AttemptFailed,
		RetrySucceeded,
		Waiting,
		WaitCanceled,
	}
}

// Name returns the name of the event.
func (evt Event) Name() string {
	return eventNames[int(evt)]
}

// String returns the name of the event.
func (evt Event) String() string {
	return evt.Name()
}
