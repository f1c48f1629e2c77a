// Copyright 2021 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package retry provides the retry policy for a resilient call, and the
// backoff scheduler which waits between attempts.
//
// A Policy is an immutable value supplied with each call. It states how
// many retries to make after the initial attempt, how long to wait
// between attempts, and how much to grow the timeout budget after each
// timeout:
//
//	p := retry.Policy{
//		MaxAttempts:          3,
//		BaseDelay:            time.Second,
//		AutoTimeoutIncrement: 15 * time.Second,
//	}
//
// For a delay which varies by attempt, set a Waiter:
//
//	p.Waiter = retry.NewExpWaiter(100*time.Millisecond, 5*time.Second, time.Now())
//
// The Scheduler performs the wait. Long waits are sliced so that a
// cooperative shutdown flag, such as a Flag, can cut them short:
//
//	var running retry.Flag
//	s := &retry.Scheduler{Running: running.Running}
//	...
//	running.Stop() // In-progress waits end within one slice.
package retry
