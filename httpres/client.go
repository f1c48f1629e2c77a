// Copyright 2021 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpres

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gogama/resilient"
	"github.com/gogama/resilient/failure"
	"github.com/gogama/resilient/request"
	"github.com/gogama/resilient/retry"
	"github.com/gogama/resilient/timeout"
)

// A Result is the outcome of a successful HTTP call: the final
// response, with its body fully read and buffered.
type Result struct {
	// Plan is the request plan which was executed.
	Plan *request.Plan
	// Response is the response received by the final attempt. Its
	// body has been read and closed.
	Response *http.Response
	// Body is the complete response body.
	Body []byte
}

// StatusCode returns the status code of the response, or 0 if there is
// no response.
func (r *Result) StatusCode() int {
	if r == nil || r.Response == nil {
		return 0
	}

	return r.Response.StatusCode
}

// Header returns the response headers, or nil if there is no response.
func (r *Result) Header() http.Header {
	if r == nil || r.Response == nil {
		var nilHeader http.Header
		return nilHeader
	}

	return r.Response.Header
}

// A Client runs HTTP request plans as resilient calls. Its zero value
// is a valid configuration.
//
// The zero value client sends requests with a new http.Client whose
// Timeout is set by timeout.DefaultPolicy, classifies errors with
// Classifier, discards all events, and waits using
// retry.DefaultScheduler.
//
// Client is safe for concurrent use by multiple goroutines.
type Client struct {
	// HTTPClient is the client used by the first attempt of every
	// call. It is never modified: when a timeout requires a longer
	// Timeout, a copy is made.
	//
	// If HTTPClient is nil, a client with the standard transport and
	// a Timeout chosen by TimeoutPolicy is used.
	HTTPClient *http.Client
	// TimeoutPolicy decides the Timeout of the copy of the http.Client
	// used after an attempt times out.
	//
	// If TimeoutPolicy is nil, timeout.DefaultPolicy is used.
	TimeoutPolicy timeout.Policy
	// Classifier maps errors to failure kinds.
	//
	// If Classifier is nil, the package Classifier is used.
	Classifier failure.Classifier
	// Sink receives an event for every attempt.
	Sink resilient.Sink
	// Scheduler performs backoff waits.
	Scheduler *retry.Scheduler
}

// Do executes an HTTP request plan as a resilient call governed by
// retry policy p.
//
// The returned error, if any, is the error from the final attempt. It
// is a *url.Error if the request could not be sent or the response
// body could not be read, a *StatusError if the final response had a
// status code of 400 or above, or one of the executor's
// *resilient.CanceledError or *resilient.RefreshError.
//
// For simple use cases, the Get, Head, Post, and PostForm methods may
// prove easier to use than Do.
func (c *Client) Do(ctx context.Context, p retry.Policy, plan *request.Plan) (*Result, error) {
	res, _, err := c.do(ctx, p, plan, c.httpClient())
	return res, err
}

func (c *Client) do(ctx context.Context, p retry.Policy, plan *request.Plan, hc *http.Client) (*Result, *http.Client, error) {
	if err := plan.Validate(); err != nil {
		return nil, hc, urlErrorWrap(plan, err)
	}

	return resilient.Run(ctx, c.executor(), resilient.Call[*http.Client, *Result]{
		Name:     urlErrorOp(plan.Method),
		Detail:   plan,
		Resource: hc,
		Policy:   p,
		Do:       send(plan),
	})
}

// Get issues a GET to the specified URL, using the same policies
// followed by Do.
func (c *Client) Get(ctx context.Context, p retry.Policy, url string) (*Result, error) {
	return Get(ctx, c, p, url)
}

// Head issues a HEAD to the specified URL, using the same policies
// followed by Do.
func (c *Client) Head(ctx context.Context, p retry.Policy, url string) (*Result, error) {
	return Head(ctx, c, p, url)
}

// Post issues a POST to the specified URL, using the same policies
// followed by Do.
//
// The body parameter may be nil for an empty body, or may be any of the
// types supported by request.NewPlan and request.BodyBytes, namely:
// string; []byte; io.Reader; and io.ReadCloser. A reader is buffered
// once before the first attempt, so every retry sends the full body.
func (c *Client) Post(ctx context.Context, p retry.Policy, url, contentType string, body any) (*Result, error) {
	return Post(ctx, c, p, url, contentType, body)
}

// PostForm issues a POST to the specified URL, with data's keys and
// values URL-encoded as the request body.
func (c *Client) PostForm(ctx context.Context, p retry.Policy, url string, data url.Values) (*Result, error) {
	return PostForm(ctx, c, p, url, data)
}

// Refresh implements resilient.Refresher for http.Client resources.
//
// After a timeout it returns a copy of old whose Timeout is set by the
// timeout policy for the given increment. After the connection was
// invalidated it closes old's idle connections and returns old. In all
// other cases it returns old.
func (c *Client) Refresh(_ context.Context, old *http.Client, kind failure.Kind, increment time.Duration) (*http.Client, error) {
	switch kind {
	case failure.Timeout:
		next := *old
		next.Timeout = c.timeoutPolicy().Timeout(increment)
		return &next, nil
	case failure.ResourceInvalidated:
		old.CloseIdleConnections()
	}

	return old, nil
}

// CloseIdleConnections closes the idle connections of the client's
// HTTPClient, if any.
func (c *Client) CloseIdleConnections() {
	if c.HTTPClient != nil {
		c.HTTPClient.CloseIdleConnections()
	}
}

func (c *Client) executor() *resilient.Executor[*http.Client] {
	return &resilient.Executor[*http.Client]{
		Classifier: c.classifier(),
		Refresher:  c,
		Sink:       c.Sink,
		Scheduler:  c.Scheduler,
	}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient == nil {
		return &http.Client{
			Timeout: c.timeoutPolicy().Timeout(0),
		}
	}

	return c.HTTPClient
}

func (c *Client) timeoutPolicy() timeout.Policy {
	if c.TimeoutPolicy == nil {
		return timeout.DefaultPolicy
	}

	return c.TimeoutPolicy
}

func (c *Client) classifier() failure.Classifier {
	if c.Classifier == nil {
		return Classifier
	}

	return c.Classifier
}

func send(plan *request.Plan) resilient.Operation[*http.Client, *Result] {
	return func(ctx context.Context, hc *http.Client) (*Result, error) {
		resp, err := hc.Do(plan.ToRequest(ctx))
		if err != nil {
			return nil, urlErrorWrap(plan, err)
		}
		res := &Result{
			Plan:     plan,
			Response: resp,
		}
		res.Body, err = readBody(resp)
		if err != nil {
			return nil, urlErrorWrap(plan, err)
		}
		if resp.StatusCode >= 400 {
			return nil, &StatusError{Result: res}
		}
		return res, nil
	}
}

func readBody(resp *http.Response) ([]byte, error) {
	defer func() {
		_ = resp.Body.Close()
	}()
	return io.ReadAll(resp.Body)
}

func urlErrorWrap(p *request.Plan, err error) error {
	if _, ok := err.(*url.Error); ok {
		return err
	}

	var u string
	if p.URL != nil {
		u = p.URL.String()
	}
	return &url.Error{
		Op:  urlErrorOp(p.Method),
		URL: u,
		Err: err,
	}
}

// urlErrorOp is lifted verbatim from net/http/client.go
func urlErrorOp(method string) string {
	if method == "" {
		return "Get"
	}
	return method[:1] + strings.ToLower(method[1:])
}
