// Copyright 2021 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package request contains Plan, an immutable description of an HTTP
request which can be turned into a fresh http.Request for every attempt
of a resilient call.

A Plan looks like a stripped-down http.Request structure with all
server-side fields removed, and the body fields replaced with a simple
[]byte, because Plan requires a pre-buffered request body. Because the
body is buffered and the headers and credentials live on the Plan
rather than on the client, a failed attempt can be retried, even with a
rebuilt client, without losing any of them.

Create a plan:

	p, err := request.NewPlan("GET", "https://example.com", nil)
	...
	p.SetBasicAuth("user", "secret")
	...
	e, err := client.Do(ctx, retry.DefaultPolicy, p)
	...

The context controlling the call is passed to the client, not stored on
the plan, so one plan may be shared by many concurrent calls.
*/
package request
