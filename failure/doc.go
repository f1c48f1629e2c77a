// Copyright 2021 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package failure classifies errors raised by a fallible operation into
// one of four kinds, Transient, Timeout, ResourceInvalidated, and
// NonRetryable, which tell the resilient executor whether to retry the
// operation and what recovery action to take first.
//
// Classification is a pure function of the error: it never depends on
// the attempt number or the elapsed time, so the same error always
// produces the same Kind.
//
// The Default classifier understands the standard library's timeout and
// connection errors. Resource families (SQL, HTTP, Redis) layer their
// own knowledge on top using Rules:
//
//	c := failure.Rules{
//		Fatal:   failure.Is(sql.ErrNoRows),
//		Timeout: isStatementTimeout,
//	}
//	kind := c.Classify(err)
//
// Package failure depends only on the standard library.
package failure
