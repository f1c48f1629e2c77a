// Copyright 2021 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package sink provides resilient.Sink implementations which log events
with zap, count them with Prometheus, and trace attempts with
OpenTelemetry.

Sinks are combined with resilient.MultiSink:

	s := resilient.MultiSink{
		sink.NewLogger(logger),
		metrics,
		sink.NewTracer(nil),
	}
*/
package sink
