// Copyright 2021 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidPolicy is wrapped by the error Policy.Validate returns.
var ErrInvalidPolicy = errors.New("resilient/retry: invalid policy")

// A Policy controls how many times a resilient call is retried, how
// long to wait before each retry, and how much to grow the timeout
// budget after each timeout.
//
// A Policy is an immutable value supplied with each call. The zero
// value is valid: it makes exactly one attempt and never retries.
type Policy struct {
	// MaxAttempts is the number of retries allowed after the initial
	// attempt. A call makes at most MaxAttempts+1 attempts. It must not
	// be negative.
	MaxAttempts int
	// BaseDelay is the time to wait before each retry. It must not be
	// negative. If Waiter is non-nil, BaseDelay is ignored.
	BaseDelay time.Duration
	// AutoTimeoutIncrement is added to the timeout budget each time an
	// attempt fails with a timeout. Zero disables budget growth. It
	// must not be negative.
	AutoTimeoutIncrement time.Duration
	// Waiter optionally computes the wait before each retry, replacing
	// the fixed BaseDelay.
	Waiter Waiter
}

// Never is a policy that never retries.
var Never = Policy{}

// DefaultPolicy is a general-purpose policy suitable for common use
// cases. It retries up to three times, one second apart, and grows the
// timeout budget by 15 seconds after each timeout.
var DefaultPolicy = Policy{
	MaxAttempts:          3,
	BaseDelay:            time.Second,
	AutoTimeoutIncrement: 15 * time.Second,
}

// Attempts returns the maximum total number of attempts: the initial
// attempt plus MaxAttempts retries.
func (p Policy) Attempts() int {
	return p.MaxAttempts + 1
}

// Delay returns how long to wait after the failed attempt with the
// given zero-based index before making the next attempt.
func (p Policy) Delay(attempt int) time.Duration {
	if p.Waiter != nil {
		return p.Waiter.Wait(attempt)
	}

	return p.BaseDelay
}

// Validate returns an error wrapping ErrInvalidPolicy if any field of
// the policy is negative, and nil otherwise.
func (p Policy) Validate() error {
	switch {
	case p.MaxAttempts < 0:
		return fmt.Errorf("%w: negative MaxAttempts %d", ErrInvalidPolicy, p.MaxAttempts)
	case p.BaseDelay < 0:
		return fmt.Errorf("%w: negative BaseDelay %s", ErrInvalidPolicy, p.BaseDelay)
	case p.AutoTimeoutIncrement < 0:
		return fmt.Errorf("%w: negative AutoTimeoutIncrement %s", ErrInvalidPolicy, p.AutoTimeoutIncrement)
	}

	return nil
}

// MustValidate panics if Validate returns an error. Supplying a
// negative policy value is a programming error, so executors call
// MustValidate rather than silently clamping.
func (p Policy) MustValidate() {
	if err := p.Validate(); err != nil {
		panic(err.Error())
	}
}
