// Copyright 2021 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package resilient

import (
	"time"
)

// A HandlerGroup is a group of event handler chains which can be
// installed in an Executor as its Sink.
//
// A HandlerGroup should be fully built before it is installed. Once in
// use it is safe for concurrent use by multiple goroutines, provided
// its handlers are.
type HandlerGroup struct {
	handlers [][]Handler
}

// PushBack adds an event handler to the back of the event handler chain
// for a specific event type.
func (g *HandlerGroup) PushBack(evt Event, h Handler) {
	if h == nil {
		panic("resilient: nil handler")
	}

	if g.handlers == nil {
		g.handlers = make([][]Handler, numEvents)
	}

	g.handlers[evt] = append(g.handlers[evt], h)
}

// AttemptSucceeded runs the AttemptSucceeded handler chain.
func (g *HandlerGroup) AttemptSucceeded(e *Execution, _ Outcome) {
	g.run(AttemptSucceeded, e)
}

// AttemptFailed runs the AttemptFailed handler chain.
func (g *HandlerGroup) AttemptFailed(e *Execution, _ Outcome) {
	g.run(AttemptFailed, e)
}

// RetrySucceeded runs the RetrySucceeded handler chain.
func (g *HandlerGroup) RetrySucceeded(e *Execution) {
	g.run(RetrySucceeded, e)
}

// Waiting runs the Waiting handler chain.
func (g *HandlerGroup) Waiting(e *Execution, _ time.Duration) {
	g.run(Waiting, e)
}

// WaitCanceled runs the WaitCanceled handler chain.
func (g *HandlerGroup) WaitCanceled(e *Execution, _ error) {
	g.run(WaitCanceled, e)
}

func (g *HandlerGroup) run(evt Event, e *Execution) {
	i := int(evt)
	if i < len(g.handlers) {
		run(g.handlers[i], evt, e)
	}
}

func run(chain []Handler, evt Event, e *Execution) {
	for _, h := range chain {
		h.Handle(evt, e)
	}
}

// A Handler handles the occurrence of an event during a resilient call.
type Handler interface {
	Handle(Event, *Execution)
}

// The HandlerFunc type is an adapter to allow the use of ordinary
// functions as event handlers. If f is a function with appropriate
// signature, then HandlerFunc(f) is a Handler that calls f.
type HandlerFunc func(Event, *Execution)

// Handle calls f(evt, e).
func (f HandlerFunc) Handle(evt Event, e *Execution) {
	f(evt, e)
}
