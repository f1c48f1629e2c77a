// Copyright 2021 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package failure

import (
	"errors"
	"strings"
)

// A Predicate reports whether an error matches some condition. Use
// predicates to tell Rules which errors are fatal, which are timeouts,
// and which invalidate the underlying resource.
//
// Every Predicate must be safe for concurrent use by multiple
// goroutines, and must be a pure function of its argument.
//
// Simple predicates can be composed into complex conditions using the
// logical composition methods Predicate.And and Predicate.Or.
type Predicate func(err error) bool

// Never is a predicate that matches no error.
var Never Predicate = func(_ error) bool { return false }

// Match returns true if p matches err. A nil Predicate matches nothing.
func (p Predicate) Match(err error) bool {
	return p != nil && p(err)
}

// And composes two predicates into a new predicate which matches an
// error only if both sub-predicates match.
//
// Short-circuit logic is used, so q will not be evaluated if p returns
// false.
func (p Predicate) And(q Predicate) Predicate {
	return func(err error) bool {
		return p.Match(err) && q.Match(err)
	}
}

// Or composes two predicates into a new predicate which matches an
// error if either sub-predicate matches.
//
// Short-circuit logic is used, so q will not be evaluated if p returns
// true.
func (p Predicate) Or(q Predicate) Predicate {
	return func(err error) bool {
		return p.Match(err) || q.Match(err)
	}
}

// Not returns the negation of p.
func (p Predicate) Not() Predicate {
	return func(err error) bool {
		return !p.Match(err)
	}
}

// Is constructs a predicate matching any error for which errors.Is
// reports a match against one of targets.
func Is(targets ...error) Predicate {
	ts := make([]error, len(targets))
	copy(ts, targets)
	return func(err error) bool {
		for _, t := range ts {
			if errors.Is(err, t) {
				return true
			}
		}
		return false
	}
}

// Contains constructs a predicate matching any non-nil error whose
// message contains one of the given substrings, ignoring case.
//
// Message matching is a last resort for drivers that do not expose
// typed errors.
func Contains(substrs ...string) Predicate {
	lower := make([]string, len(substrs))
	for i := range substrs {
		lower[i] = strings.ToLower(substrs[i])
	}
	return func(err error) bool {
		if err == nil {
			return false
		}
		msg := strings.ToLower(err.Error())
		for _, s := range lower {
			if strings.Contains(msg, s) {
				return true
			}
		}
		return false
	}
}
