// Copyright 2021 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package failure

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"syscall"
)

// A Classifier maps an error raised by a failed operation attempt to a
// Kind.
//
// Implementations must be safe for concurrent use by multiple
// goroutines and must be deterministic: the same error always yields
// the same Kind, regardless of attempt number or elapsed time.
type Classifier interface {
	Classify(err error) Kind
}

// The ClassifierFunc type is an adapter to allow the use of ordinary
// functions as classifiers.
type ClassifierFunc func(err error) Kind

// Classify returns f(err).
func (f ClassifierFunc) Classify(err error) Kind {
	return f(err)
}

// Rules is a Classifier built from predicates. The predicates are
// consulted in the order Fatal, Timeout, Invalidated, and the first
// match wins. If no predicate matches, Fallback classifies the error,
// or Default if Fallback is nil.
//
// A nil error, and any error wrapping context.Canceled, is always
// NonRetryable: there is nothing to retry, or the caller asked to stop.
//
// The zero value of Rules is equivalent to Default.
type Rules struct {
	// Fatal matches known fatal errors, such as constraint violations
	// or authentication failures, which are classified NonRetryable.
	Fatal Predicate
	// Timeout matches errors which are classified Timeout.
	Timeout Predicate
	// Invalidated matches errors which are classified
	// ResourceInvalidated.
	Invalidated Predicate
	// Fallback classifies errors matched by none of the predicates.
	Fallback Classifier
}

// Classify returns the Kind of err according to the rules.
func (r Rules) Classify(err error) Kind {
	if err == nil || errors.Is(err, context.Canceled) {
		return NonRetryable
	}

	switch {
	case r.Fatal.Match(err):
		return NonRetryable
	case r.Timeout.Match(err):
		return Timeout
	case r.Invalidated.Match(err):
		return ResourceInvalidated
	case r.Fallback != nil:
		return r.Fallback.Classify(err)
	default:
		return classify(err)
	}
}

// Default is a general-purpose classifier which understands the
// standard library's timeout and connection errors.
//
// • An error is a Timeout if it, or any of its wrapped causes, has a
// Timeout() function reporting true, or is context.DeadlineExceeded,
// os.ErrDeadlineExceeded, or syscall.ETIMEDOUT.
//
// • An error is ResourceInvalidated if it is not a Timeout, and it or
// any of its wrapped causes is net.ErrClosed, io.ErrUnexpectedEOF,
// syscall.ECONNRESET, syscall.ECONNABORTED, or syscall.EPIPE, or if its
// message reports a closed, reset, or aborted connection.
//
// • A nil error, and an error wrapping context.Canceled, are
// NonRetryable.
//
// • Everything else is Transient. In particular syscall.ECONNREFUSED
// is Transient, because it is typical while the remote service is
// starting or restarting.
var Default Classifier = ClassifierFunc(func(err error) Kind {
	return Rules{}.Classify(err)
})

// IsTimeout is a predicate matching the errors Default classifies as
// Timeout.
var IsTimeout Predicate = isTimeout

// IsInvalidated is a predicate matching the errors Default classifies
// as ResourceInvalidated, provided they are not timeouts.
var IsInvalidated Predicate = isInvalidated

var invalidatedMessages = Contains(
	"use of closed network connection",
	"connection closed",
	"connection was closed",
	"connection is closed",
	"connection reset",
	"connection was aborted",
	"connection aborted",
	"broken pipe",
	"server closed the connection",
)

func classify(err error) Kind {
	if isTimeout(err) {
		return Timeout
	} else if isInvalidated(err) {
		return ResourceInvalidated
	}

	return Transient
}

func isTimeout(err error) bool {
	var hasTimeout hasTimeout
	if errors.As(err, &hasTimeout) && hasTimeout.Timeout() {
		return true
	}

	return errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, os.ErrDeadlineExceeded) ||
		errors.Is(err, syscall.ETIMEDOUT)
}

func isInvalidated(err error) bool {
	if errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ECONNRESET, syscall.ECONNABORTED, syscall.EPIPE:
			return true
		}
	}

	return invalidatedMessages(err)
}

type hasTimeout interface {
	Timeout() bool
}
