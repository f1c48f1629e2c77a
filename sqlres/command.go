// Copyright 2021 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package sqlres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
)

// A Command is the resource of a SQL call: the statement, its
// arguments, the connection to run it on, and its per-attempt timeout.
//
// Commands are values. Refreshing a Command after a failure yields a
// new Command, leaving the one used by the failed attempt untouched.
type Command struct {
	// DB is the pool the statement runs against when Conn is nil, and
	// from which a replacement Conn is opened.
	DB *sqlx.DB
	// Conn is the dedicated connection the statement runs on, if any.
	Conn *sqlx.Conn
	// Query is the statement text.
	Query string
	// Args are the statement arguments.
	Args []any
	// Timeout bounds each attempt. Zero means no per-attempt bound.
	Timeout time.Duration
}

// WithTimeout returns a copy of c with Timeout set to d.
func (c Command) WithTimeout(d time.Duration) Command {
	c.Timeout = d
	return c
}

func (c Command) context(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.Timeout)
}

func (c Command) target() target {
	if c.Conn != nil {
		return c.Conn
	}

	return c.DB
}

// close releases the command's dedicated connection, if any.
func (c Command) close() error {
	if c.Conn == nil {
		return nil
	}

	return c.Conn.Close()
}

// target is the subset of methods shared by sqlx.DB and sqlx.Conn.
type target interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	QueryRowxContext(ctx context.Context, query string, args ...any) *sqlx.Row
}
