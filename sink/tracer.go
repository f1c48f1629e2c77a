// Copyright 2021 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package sink

import (
	"time"

	"github.com/gogama/resilient"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/gogama/resilient/sink"

// Attribute keys set on attempt spans.
const (
	CallIDKey      = attribute.Key("resilient.call_id")
	AttemptKey     = attribute.Key("resilient.attempt")
	KindKey        = attribute.Key("resilient.kind")
	DispositionKey = attribute.Key("resilient.disposition")
	WaitKey        = attribute.Key("resilient.wait_ms")
)

// A Tracer is a sink which records one span per attempt, as a child of
// the span in the call's context. The span covers the time the attempt
// took.
//
// Waits, canceled waits and retry successes are recorded as events on
// the call's span.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer returns a Tracer using tp. If tp is nil, the global tracer
// provider is used.
func NewTracer(tp trace.TracerProvider) *Tracer {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	return &Tracer{tracer: tp.Tracer(instrumentationName)}
}

// AttemptSucceeded records a span for a successful attempt.
func (t *Tracer) AttemptSucceeded(e *resilient.Execution, o resilient.Outcome) {
	span := t.start(e, o)
	span.SetStatus(codes.Ok, "")
	span.End(trace.WithTimestamp(o.Start.Add(o.Duration)))
}

// AttemptFailed records a span for a failed attempt.
func (t *Tracer) AttemptFailed(e *resilient.Execution, o resilient.Outcome) {
	span := t.start(e, o)
	span.SetAttributes(
		KindKey.String(o.Kind.String()),
		DispositionKey.String(o.Disposition.String()),
	)
	span.RecordError(o.Err, trace.WithTimestamp(o.Start.Add(o.Duration)))
	span.SetStatus(codes.Error, o.Err.Error())
	span.End(trace.WithTimestamp(o.Start.Add(o.Duration)))
}

// RetrySucceeded adds an event to the call's span.
func (t *Tracer) RetrySucceeded(e *resilient.Execution) {
	trace.SpanFromContext(e.Context()).AddEvent("retry succeeded", trace.WithAttributes(
		CallIDKey.String(e.ID.String()),
		AttemptKey.Int(e.Attempt),
	))
}

// Waiting adds an event to the call's span.
func (t *Tracer) Waiting(e *resilient.Execution, d time.Duration) {
	trace.SpanFromContext(e.Context()).AddEvent("waiting", trace.WithAttributes(
		CallIDKey.String(e.ID.String()),
		AttemptKey.Int(e.Attempt),
		WaitKey.Int64(d.Milliseconds()),
	))
}

// WaitCanceled adds an event to the call's span.
func (t *Tracer) WaitCanceled(e *resilient.Execution, err error) {
	trace.SpanFromContext(e.Context()).AddEvent("wait canceled", trace.WithAttributes(
		CallIDKey.String(e.ID.String()),
		AttemptKey.Int(e.Attempt),
		KindKey.String(e.Last().Kind.String()),
		attribute.String("error", err.Error()),
	))
}

func (t *Tracer) start(e *resilient.Execution, o resilient.Outcome) trace.Span {
	_, span := t.tracer.Start(e.Context(), e.Name,
		trace.WithTimestamp(o.Start),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			CallIDKey.String(e.ID.String()),
			AttemptKey.Int(o.Attempt),
		),
	)
	return span
}
