// Copyright 2021 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpres

import (
	"context"
	"net/url"

	"github.com/gogama/resilient/request"
	"github.com/gogama/resilient/retry"
)

// Doer is the interface that wraps the basic Do method.
//
// Do executes an HTTP request plan as a resilient call and returns the
// final result (and error, if any). Client and Session implement the
// Doer interface.
type Doer interface {
	Do(ctx context.Context, p retry.Policy, plan *request.Plan) (*Result, error)
}

// Get uses the specified Doer to issue a GET to the specified URL,
// using the same policies as d.Do.
//
// To make a request plan with custom headers, use request.NewPlan and
// d.Do.
func Get(ctx context.Context, d Doer, p retry.Policy, url string) (*Result, error) {
	plan, err := request.NewPlan("GET", url, nil)
	if err != nil {
		return nil, err
	}
	return d.Do(ctx, p, plan)
}

// Head uses the specified Doer to issue a HEAD to the specified URL,
// using the same policies as d.Do.
//
// To make a request plan with custom headers, use request.NewPlan and
// d.Do.
func Head(ctx context.Context, d Doer, p retry.Policy, url string) (*Result, error) {
	plan, err := request.NewPlan("HEAD", url, nil)
	if err != nil {
		return nil, err
	}
	return d.Do(ctx, p, plan)
}

// Post uses the specified Doer to issue a POST to the specified URL,
// using the same policies as d.Do.
//
// The body parameter may be nil for an empty body, or may be any of the
// types supported by request.NewPlan and request.BodyBytes, namely:
// string; []byte; io.Reader; and io.ReadCloser. A reader is buffered
// once before the first attempt, so every retry sends the full body.
func Post(ctx context.Context, d Doer, p retry.Policy, url, contentType string, body any) (*Result, error) {
	b, err := request.BodyBytes(body)
	if err != nil {
		return nil, err
	}
	plan, err := request.NewPlan("POST", url, b)
	if err != nil {
		return nil, err
	}
	plan.Header.Set("Content-Type", contentType)
	return d.Do(ctx, p, plan)
}

// PostForm uses the specified Doer to issue a POST to the specified URL,
// with data's keys and values URL-encoded as the request body.
//
// The Content-Type header is set to application/x-www-form-urlencoded.
// To set other headers, use request.NewPlan and d.Do.
func PostForm(ctx context.Context, d Doer, p retry.Policy, url string, data url.Values) (*Result, error) {
	return Post(ctx, d, p, url, "application/x-www-form-urlencoded", data.Encode())
}
