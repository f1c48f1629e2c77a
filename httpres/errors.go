// Copyright 2021 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpres

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gogama/resilient/failure"
)

// A StatusError reports an HTTP response with status code 400 or
// above. The response and its buffered body remain available.
type StatusError struct {
	*Result
}

func (err *StatusError) Error() string {
	return err.Plan.String() + ": " + strconv.Itoa(err.StatusCode()) + " " + http.StatusText(err.StatusCode())
}

// Classifier is the default classifier for HTTP calls.
//
// • A *StatusError is a Timeout if its status code is 408 (Request
// Timeout) or 504 (Gateway Timeout); Transient if it is 429 (Too Many
// Requests), 500 (Internal Server Error), 502 (Bad Gateway), or 503
// (Service Unavailable); and NonRetryable otherwise.
//
// • All other errors are classified by failure.Default.
var Classifier failure.Classifier = failure.ClassifierFunc(classify)

func classify(err error) failure.Kind {
	var se *StatusError
	if !errors.As(err, &se) {
		return failure.Default.Classify(err)
	}

	switch se.StatusCode() {
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return failure.Timeout
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable:
		return failure.Transient
	default:
		return failure.NonRetryable
	}
}
