// Copyright 2021 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"context"
	"sync/atomic"
	"time"
)

const (
	// DefaultThreshold is the wait length above which a Scheduler
	// gives advice and slices its wait.
	DefaultThreshold = 250 * time.Millisecond
	// DefaultSlice is the length of each slice of a long wait.
	DefaultSlice = 250 * time.Millisecond
)

// DefaultScheduler is the scheduler used when none is specified. It
// uses the default threshold and slice, and no cooperative shutdown
// flag.
var DefaultScheduler = &Scheduler{}

// A Scheduler performs the wait between two attempts of a resilient
// call.
//
// Waits longer than Threshold are announced once, via the advise
// callback, and then performed in slices of length Slice. Before each
// slice the Scheduler consults Running and returns early as soon as it
// reports false, so that a cooperative shutdown is delayed by at most
// one slice regardless of the configured wait. Waits at or below
// Threshold are performed in one step without advice.
//
// The zero value is a valid Scheduler. A Scheduler is safe for
// concurrent use by multiple goroutines, provided Running is.
type Scheduler struct {
	// Threshold is the wait length above which the wait is announced
	// and sliced. If zero, DefaultThreshold is used.
	Threshold time.Duration
	// Slice is the length of each slice of a long wait. If zero,
	// DefaultSlice is used.
	Slice time.Duration
	// Running is the cooperative shutdown flag. If nil, the process is
	// always considered to be running.
	Running func() bool
}

// Wait waits for duration d.
//
// If d exceeds the threshold, advise (if non-nil) is called once with d
// before waiting begins. A long wait requested after the cooperative
// shutdown flag has stopped returns nil at once, without advice.
//
// Wait returns nil when the wait completes, or early when the
// cooperative shutdown flag reports the process is no longer running.
// It returns ctx.Err() if ctx is done before the wait completes.
func (s *Scheduler) Wait(ctx context.Context, d time.Duration, advise func(time.Duration)) error {
	if d <= 0 {
		return ctx.Err()
	}

	if d <= s.threshold() {
		return sleep(ctx, d)
	}

	if !s.running() {
		return nil
	}
	if advise != nil {
		advise(d)
	}

	slice := s.slice()
	deadline := time.Now().Add(d)
	for {
		if !s.running() {
			return nil
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil
		}
		if remaining > slice {
			remaining = slice
		}
		if err := sleep(ctx, remaining); err != nil {
			return err
		}
	}
}

func (s *Scheduler) threshold() time.Duration {
	if s.Threshold > 0 {
		return s.Threshold
	}
	return DefaultThreshold
}

func (s *Scheduler) slice() time.Duration {
	if s.Slice > 0 {
		return s.Slice
	}
	return DefaultSlice
}

func (s *Scheduler) running() bool {
	return s.Running == nil || s.Running()
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// A Flag is a cooperative shutdown flag. Its zero value reports that
// the process is running until Stop is called. Pass its Running method
// to a Scheduler so that in-progress waits end promptly on shutdown.
//
// A Flag is safe for concurrent use by multiple goroutines.
type Flag struct {
	stopped atomic.Bool
}

// Running reports whether Stop has not yet been called.
func (f *Flag) Running() bool {
	return !f.stopped.Load()
}

// Stop marks the process as no longer running. It is idempotent.
func (f *Flag) Stop() {
	f.stopped.Store(true)
}
