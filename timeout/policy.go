// Copyright 2021 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package timeout

import (
	"time"
)

// A Policy defines how the accumulated timeout increment of a resilient
// call is applied to a resource's timeout when the resource is
// refreshed after a timeout.
//
// Implementations of Policy must be safe for concurrent use by multiple
// goroutines.
type Policy interface {
	// Timeout returns the timeout to set on the resource used by the
	// next attempt.
	//
	// Parameter increment is the total timeout increment accumulated
	// by the call so far. It is zero before the first timeout and never
	// decreases during a call.
	Timeout(increment time.Duration) time.Duration
}

// DefaultPolicy is the default timeout policy. It starts from a 30
// second timeout and adds the accumulated increment to it.
var DefaultPolicy Policy = Additive(30 * time.Second)

// Infinite is a built-in timeout policy which never times out.
var Infinite Policy = Fixed(infinite)

const infinite = time.Duration(1<<63 - 1)

// Fixed constructs a timeout policy that ignores the increment and
// always returns the value d.
//
// Use Fixed when the resource timeout must not grow, for example
// because a load balancer in front of the remote service enforces its
// own ceiling.
func Fixed(d time.Duration) Policy {
	return fixed(d)
}

// Additive constructs a timeout policy that adds the accumulated
// increment to base. The sum saturates rather than overflowing.
//
// Consider a call with AutoTimeoutIncrement of 15 seconds using the
// policy:
//
//	p := Additive(30*time.Second)
//
// The first attempt uses whatever timeout the resource was created
// with. After the first timeout the resource is refreshed with 45
// seconds, after the second with 60 seconds, and so on.
func Additive(base time.Duration) Policy {
	return capped{base: base, max: infinite}
}

// Capped constructs a timeout policy that behaves like Additive but
// never returns more than max. Parameter max must be at least base.
func Capped(base, max time.Duration) Policy {
	if max < base {
		panic("resilient/timeout: max must be at least base")
	}
	return capped{base: base, max: max}
}

type fixed time.Duration

func (p fixed) Timeout(_ time.Duration) time.Duration {
	return time.Duration(p)
}

type capped struct {
	base time.Duration
	max  time.Duration
}

func (p capped) Timeout(increment time.Duration) time.Duration {
	if increment < 0 {
		increment = 0
	}

	t := p.base + increment
	if t < p.base || t > p.max {
		return p.max
	}

	return t
}
