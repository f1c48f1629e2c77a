// Copyright 2021 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package httpres runs HTTP requests as resilient calls.

Create a Client to begin making requests:

	client := &httpres.Client{}
	res, err := client.Get(ctx, retry.DefaultPolicy, "https://www.example.com")
	...
	res, err := client.Post(ctx, retry.DefaultPolicy, "https://www.example.com/upload",
		"application/json", &buf)

The Client reads and buffers the whole response body. A response with
status code 400 or above is reported as a *StatusError, which the
package Classifier treats as a timeout (408, 504), a transient failure
(429, 500, 502, 503), or a non-retryable failure (everything else).

When an attempt times out, the next attempt uses a copy of the
http.Client whose Timeout is lengthened according to the Client's
timeout policy; the http.Client in use is never modified. When the
connection is reset or closed, idle connections are closed before the
next attempt. Headers, credentials, and body are kept on the immutable
request.Plan, so nothing is lost when the client is replaced.

Use a Session to carry the lengthened timeout from one call to the next.
*/
package httpres
