// Copyright 2021 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gogama/resilient/retry"
)

var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// withShutdown returns a context canceled by the second shutdown signal
// and a flag stopped by the first. The returned function releases the
// signal handlers and cancels the context.
func withShutdown(parent context.Context) (context.Context, *retry.Flag, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	flag := &retry.Flag{}
	first, stopFirst := signal.NotifyContext(ctx, shutdownSignals...)
	go func() {
		<-first.Done()
		flag.Stop()
		second, stopSecond := signal.NotifyContext(ctx, shutdownSignals...)
		stopFirst()
		<-second.Done()
		stopSecond()
		cancel()
	}()

	return ctx, flag, func() {
		stopFirst()
		cancel()
	}
}
