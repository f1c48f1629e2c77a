// Copyright 2021 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package redisres

import (
	"context"
	"time"

	"github.com/gogama/resilient"
	"github.com/gogama/resilient/failure"
	"github.com/gogama/resilient/retry"
	"github.com/gogama/resilient/timeout"
	"github.com/redis/go-redis/v9"
)

// An Executor holds the settings shared by Redis calls.
//
// The zero value is ready to use, and a nil *Executor is equivalent to
// the zero value.
type Executor struct {
	// TimeoutPolicy sets the client read and write timeouts after a
	// timeout.
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

// Do runs fn against client under retry policy p. The name identifies
// the call to the sink, and is typically the Redis command name.
//
// Clients Do creates to replace a closed client are closed before Do
// returns. The caller's client is never closed or modified.
func Do[T any](ctx context.Context, x *Executor, p retry.Policy, client *redis.Client, name string, fn func(context.Context, *redis.Client) (T, error)) (T, error) {
	if client == nil {
		panic("resilient/redisres: nil client")
	}
	if fn == nil {
		panic("resilient/redisres: nil function")
	}

	r := &refresher{policy: x.timeoutPolicy()}
	defer r.close()
	v, _, err := resilient.Run(ctx, x.executor(r), resilient.Call[*redis.Client, T]{
		Name:     name,
		Detail:   client.Options().Addr,
		Resource: client,
		Policy:   p,
		Do:       fn,
	})
	return v, err
}

func (x *Executor) executor(r *refresher) *resilient.Executor[*redis.Client] {
	if x == nil {
		return &resilient.Executor[*redis.Client]{Classifier: Classifier, Refresher: r}
	}

	return &resilient.Executor[*redis.Client]{
		Classifier: x.classifier(),
		Refresher:  r,
		Sink:       x.Sink,
		Scheduler:  x.Scheduler,
	}
}

func (x *Executor) timeoutPolicy() timeout.Policy {
	if x == nil || x.TimeoutPolicy == nil {
		return timeout.DefaultPolicy
	}

	return x.TimeoutPolicy
}

func (x *Executor) classifier() failure.Classifier {
	if x.Classifier == nil {
		return Classifier
	}

	return x.Classifier
}

// refresher replaces the client of one call. It remembers the clients
// it creates so they can be closed when the call ends.
type refresher struct {
	policy timeout.Policy
	opened []*redis.Client
}

func (r *refresher) Refresh(_ context.Context, old *redis.Client, kind failure.Kind, increment time.Duration) (*redis.Client, error) {
	switch kind {
	case failure.Timeout:
		return old.WithTimeout(r.policy.Timeout(increment)), nil
	case failure.ResourceInvalidated:
		opt := *old.Options()
		c := redis.NewClient(&opt)
		r.opened = append(r.opened, c)
		return c, nil
	default:
		return old, nil
	}
}

func (r *refresher) close() {
	for _, c := range r.opened {
		_ = c.Close()
	}
	r.opened = nil
}
