// Copyright 2021 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Command resilient sends HTTP requests, SQL statements and Redis
// commands through the resilient executor, logging every attempt. It is
// useful for probing a flaky dependency and for trying out retry
// policies before putting them in an application's configuration.
//
// Usage:
//
//	resilient [--config FILE] [--env-file FILE] [--verbose] http URL
//	resilient sql --driver pgx --dsn DSN QUERY
//	resilient redis --addr HOST:PORT COMMAND [ARG...]
//
// The first interrupt stops any backoff wait in progress so the current
// call finishes after at most one more attempt. A second interrupt
// cancels the call.
package main

import (
	"context"
	"os"
)

func main() {
	ctx, flag, stop := withShutdown(context.Background())
	err := newRootCmd(&app{flag: flag}).ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
