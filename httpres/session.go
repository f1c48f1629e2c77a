// Copyright 2021 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpres

import (
	"context"
	"net/http"

	"github.com/gogama/resilient/request"
	"github.com/gogama/resilient/retry"
)

// A Session is a sequence of HTTP calls which share one http.Client.
// When a call ends with a replacement http.Client, for example one with
// a longer Timeout after a timeout, later calls in the session use the
// replacement.
//
// A Session is not safe for concurrent use by multiple goroutines.
type Session struct {
	// Client runs the calls. It must not be nil.
	Client *Client

	hc *http.Client
}

// NewSession returns a session using c.
func NewSession(c *Client) *Session {
	if c == nil {
		panic("resilient/httpres: nil client")
	}

	return &Session{Client: c}
}

// Do executes an HTTP request plan in the session. See Client.Do.
func (s *Session) Do(ctx context.Context, p retry.Policy, plan *request.Plan) (*Result, error) {
	res, hc, err := s.Client.do(ctx, p, plan, s.HTTPClient())
	s.hc = hc
	return res, err
}

// HTTPClient returns the http.Client the next call in the session will
// start with.
func (s *Session) HTTPClient() *http.Client {
	if s.hc == nil {
		s.hc = s.Client.httpClient()
	}

	return s.hc
}
