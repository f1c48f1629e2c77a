// Copyright 2021 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package sink

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gogama/resilient"
	"github.com/gogama/resilient/failure"
	"github.com/gogama/resilient/retry"
)

var (
	_ resilient.Sink = (*Logger)(nil)
	_ resilient.Sink = (*Metrics)(nil)
	_ resilient.Sink = (*Tracer)(nil)
)

var (
	errTransient = errors.New("flaky")
	errFatal     = errors.New("fatal")
	errRefresh   = errors.New("no connection")
)

var testClassifier = failure.ClassifierFunc(func(err error) failure.Kind {
	if errors.Is(err, errFatal) {
		return failure.NonRetryable
	}
	return failure.Transient
})

// runScript runs a call named "Lookup" whose attempt i returns errs[i],
// or succeeds once errs is exhausted. Every retry waits 5ms, which is
// long enough to be announced to the sink.
func runScript(t *testing.T, ctx context.Context, s resilient.Sink, maxAttempts int, errs ...error) error {
	t.Helper()
	x := &resilient.Executor[int]{
		Classifier: testClassifier,
		Sink:       s,
		Scheduler:  &retry.Scheduler{Threshold: time.Millisecond, Slice: time.Millisecond},
	}
	_, _, err := resilient.Run(ctx, x, resilient.Call[int, string]{
		Name:   "Lookup",
		Detail: "SELECT 1",
		Policy: retry.Policy{MaxAttempts: maxAttempts, BaseDelay: 5 * time.Millisecond},
		Do: func(_ context.Context, _ int) (string, error) {
			if len(errs) == 0 {
				return "ok", nil
			}
			err := errs[0]
			errs = errs[1:]
			return "", err
		},
	})
	return err
}

// runCanceled runs a call named "Lookup" whose first attempt fails with
// errTransient and whose context expires during the following hour-long
// backoff wait.
func runCanceled(t *testing.T, ctx context.Context, s resilient.Sink) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	x := &resilient.Executor[int]{
		Classifier: testClassifier,
		Sink:       s,
	}
	_, _, err := resilient.Run(ctx, x, resilient.Call[int, string]{
		Name:   "Lookup",
		Policy: retry.Policy{MaxAttempts: 3, BaseDelay: time.Hour},
		Do: func(context.Context, int) (string, error) {
			return "", errTransient
		},
	})
	return err
}

// runRefreshFailure runs a call named "Lookup" whose first attempt fails
// with errTransient and whose resource cannot be refreshed.
func runRefreshFailure(t *testing.T, s resilient.Sink) error {
	t.Helper()
	x := &resilient.Executor[int]{
		Classifier: testClassifier,
		Refresher: resilient.RefresherFunc[int](func(context.Context, int, failure.Kind, time.Duration) (int, error) {
			return 0, errRefresh
		}),
		Sink: s,
	}
	_, _, err := resilient.Run(context.Background(), x, resilient.Call[int, string]{
		Name:   "Lookup",
		Policy: retry.Policy{MaxAttempts: 3, BaseDelay: time.Hour},
		Do: func(context.Context, int) (string, error) {
			return "", errTransient
		},
	})
	return err
}
