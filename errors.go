// Copyright 2021 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package resilient

// A CanceledError is returned when a resilient call stops because its
// context is done, either when an attempt fails or during the backoff
// wait that follows it.
//
// Both the context error and the operation error are reachable via
// errors.Is and errors.As.
type CanceledError struct {
	// Err is the context error.
	Err error
	// Cause is the error returned by the last attempt.
	Cause error
}

func (err *CanceledError) Error() string {
	return "resilient: call canceled: " + err.Err.Error() + " (last error: " + err.Cause.Error() + ")"
}

// Unwrap returns the context error and the last operation error.
func (err *CanceledError) Unwrap() []error {
	return []error{err.Err, err.Cause}
}

// A RefreshError is returned when a resilient call stops because the
// resource could not be refreshed after a failed attempt.
//
// Both the refresh error and the operation error are reachable via
// errors.Is and errors.As.
type RefreshError struct {
	// Err is the error returned by the Refresher.
	Err error
	// Cause is the operation error which prompted the refresh.
	Cause error
}

func (err *RefreshError) Error() string {
	return "resilient: refresh failed: " + err.Err.Error() + " (after: " + err.Cause.Error() + ")"
}

// Unwrap returns the refresh error and the operation error.
func (err *RefreshError) Unwrap() []error {
	return []error{err.Err, err.Cause}
}
