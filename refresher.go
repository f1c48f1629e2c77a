// Copyright 2021 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package resilient

import (
	"context"
	"time"

	"github.com/gogama/resilient/failure"
)

// A Refresher produces the resource to use for the next attempt of a
// resilient call, given the resource used by the failed attempt.
//
// Refresh must return a new resource rather than mutate old, since old
// may still be referenced by an in-flight operation. Returning old
// unchanged is correct when the failure kind needs no recovery action.
//
// Parameter increment is the call's accumulated timeout budget when
// kind is failure.Timeout, and zero otherwise. A non-nil error stops
// the call with a RefreshError.
type Refresher[R any] interface {
	Refresh(ctx context.Context, old R, kind failure.Kind, increment time.Duration) (R, error)
}

// The RefresherFunc type is an adapter to allow the use of ordinary
// functions as refreshers.
type RefresherFunc[R any] func(ctx context.Context, old R, kind failure.Kind, increment time.Duration) (R, error)

// Refresh calls f(ctx, old, kind, increment).
func (f RefresherFunc[R]) Refresh(ctx context.Context, old R, kind failure.Kind, increment time.Duration) (R, error) {
	return f(ctx, old, kind, increment)
}

// Keep returns a Refresher that always keeps the old resource.
func Keep[R any]() Refresher[R] {
	return keep[R]{}
}

type keep[R any] struct{}

func (keep[R]) Refresh(_ context.Context, old R, _ failure.Kind, _ time.Duration) (R, error) {
	return old, nil
}
