// Copyright 2021 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package resilient provides a generic executor which runs a fallible
operation against a resource with bounded retries, failure
classification, a growing timeout budget, resource refresh, and
structured diagnostics.

Describe the call and run it:

	v, conn, err := resilient.Run(ctx, &resilient.Executor[*sqlx.Conn]{},
		resilient.Call[*sqlx.Conn, int]{
			Name:     "Scalar",
			Resource: conn,
			Policy:   retry.DefaultPolicy,
			Do: func(ctx context.Context, c *sqlx.Conn) (n int, err error) {
				err = c.GetContext(ctx, &n, "SELECT count(*) FROM jobs")
				return
			},
		})

The resource returned by Run is the one in use when the call ended,
which may differ from the one supplied if it was refreshed. The caller
owns it.

For control over which errors are retried, set a classifier built
from package failure:

	x := &resilient.Executor[*http.Client]{
		Classifier: failure.Rules{Fatal: failure.Is(ErrQuotaExceeded)},
	}

To rebuild the resource between attempts, for example to reconnect
after the connection was closed or to lengthen a timeout after the
previous attempt timed out, set a Refresher. Packages httpres, sqlres,
and redisres provide refreshers and ready-made adapters for their
respective clients.

To observe calls, set a Sink. Package sink provides zap logging,
Prometheus metrics, and OpenTelemetry tracing sinks, which may be
combined with MultiSink. For ad hoc plug-ins, install handlers in a
HandlerGroup:

	handlers := &resilient.HandlerGroup{}
	handlers.PushBack(resilient.AttemptFailed, resilient.HandlerFunc(
		func(_ resilient.Event, e *resilient.Execution) {
			log.Printf("%s attempt %d failed: %v", e.Name, e.Attempt, e.Err())
		}),
	)
	x := &resilient.Executor[*http.Client]{Sink: handlers}

Use Go instead of Run to perform the call on a new goroutine.
*/
package resilient
