// Copyright 2021 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package sqlres

import (
	"context"
	"database/sql"
	"time"

	"github.com/gogama/resilient"
	"github.com/gogama/resilient/failure"
	"github.com/gogama/resilient/retry"
	"github.com/gogama/resilient/timeout"
	"github.com/jmoiron/sqlx"
)

// A DB runs SQL statements as resilient calls against a sqlx database
// handle.
//
// DB is safe for concurrent use by multiple goroutines.
type DB struct {
	*sqlx.DB
	// TimeoutPolicy sets each Command's Timeout, both initially and
	// after a timeout.
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
	// Dedicated runs each call on its own connection, taken from the
	// pool when the call starts and returned when it ends. An
	// invalidated dedicated connection is replaced before the next
	// attempt.
	Dedicated bool
}

// Open opens a database with sqlx.Open and wraps it.
func Open(driverName, dataSourceName string) (*DB, error) {
	db, err := sqlx.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}

	return NewDB(db), nil
}

// NewDB wraps an existing sqlx database handle.
func NewDB(db *sqlx.DB) *DB {
	if db == nil {
		panic("resilient/sqlres: nil db")
	}

	return &DB{DB: db}
}

// Exec runs a statement which returns no rows, retrying under policy p.
func (db *DB) Exec(ctx context.Context, p retry.Policy, query string, args ...any) (sql.Result, error) {
	return run(ctx, db, p, "Exec", query, args, func(ctx context.Context, t target, c Command) (sql.Result, error) {
		return t.ExecContext(ctx, c.Query, c.Args...)
	})
}

// Scalar runs a query which returns a single value, retrying under
// policy p. If the query returns no rows, the error is sql.ErrNoRows,
// which is not retried.
func Scalar[T any](ctx context.Context, db *DB, p retry.Policy, query string, args ...any) (T, error) {
	return run(ctx, db, p, "Scalar", query, args, func(ctx context.Context, t target, c Command) (v T, err error) {
		err = t.QueryRowxContext(ctx, c.Query, c.Args...).Scan(&v)
		return
	})
}

// Get runs a query which returns a single row and scans it into a T
// using sqlx.Get, retrying under policy p.
func Get[T any](ctx context.Context, db *DB, p retry.Policy, query string, args ...any) (T, error) {
	return run(ctx, db, p, "Get", query, args, func(ctx context.Context, t target, c Command) (v T, err error) {
		err = t.GetContext(ctx, &v, c.Query, c.Args...)
		return
	})
}

// Select runs a query and scans every row into a T using sqlx.Select,
// retrying under policy p.
func Select[T any](ctx context.Context, db *DB, p retry.Policy, query string, args ...any) ([]T, error) {
	return run(ctx, db, p, "Select", query, args, func(ctx context.Context, t target, c Command) (v []T, err error) {
		err = t.SelectContext(ctx, &v, c.Query, c.Args...)
		return
	})
}

// Refresh implements resilient.Refresher for Commands.
//
// After a timeout it returns a copy of old with Timeout set by the
// timeout policy for the given increment. After the connection was
// invalidated it closes old's dedicated connection, if any, and
// returns a copy with a freshly opened one. In all other cases it
// returns old.
func (db *DB) Refresh(ctx context.Context, old Command, kind failure.Kind, increment time.Duration) (Command, error) {
	switch kind {
	case failure.Timeout:
		return old.WithTimeout(db.timeoutPolicy().Timeout(increment)), nil
	case failure.ResourceInvalidated:
		if old.Conn == nil {
			return old, nil
		}
		_ = old.close()
		conn, err := old.DB.Connx(ctx)
		if err != nil {
			return old, err
		}
		next := old
		next.Conn = conn
		return next, nil
	default:
		return old, nil
	}
}

// Command returns the Command the first attempt of a call would use.
// If db is Dedicated, the Command holds a new connection which the
// caller must close.
func (db *DB) Command(ctx context.Context, query string, args ...any) (Command, error) {
	c := Command{
		DB:      db.DB,
		Query:   query,
		Args:    args,
		Timeout: db.timeoutPolicy().Timeout(0),
	}
	if db.Dedicated {
		conn, err := db.DB.Connx(ctx)
		if err != nil {
			return c, err
		}
		c.Conn = conn
	}
	return c, nil
}

func run[T any](ctx context.Context, db *DB, p retry.Policy, name, query string, args []any, op func(context.Context, target, Command) (T, error)) (T, error) {
	cmd, err := db.Command(ctx, query, args...)
	if err != nil {
		var zero T
		return zero, err
	}

	v, last, err := resilient.Run(ctx, db.executor(), resilient.Call[Command, T]{
		Name:     name,
		Detail:   query,
		Resource: cmd,
		Policy:   p,
		Do: func(ctx context.Context, c Command) (T, error) {
			ctx, cancel := c.context(ctx)
			defer cancel()
			return op(ctx, c.target(), c)
		},
	})
	_ = last.close()
	return v, err
}

func (db *DB) executor() *resilient.Executor[Command] {
	return &resilient.Executor[Command]{
		Classifier: db.classifier(),
		Refresher:  db,
		Sink:       db.Sink,
		Scheduler:  db.Scheduler,
	}
}

func (db *DB) timeoutPolicy() timeout.Policy {
	if db.TimeoutPolicy == nil {
		return timeout.DefaultPolicy
	}

	return db.TimeoutPolicy
}

func (db *DB) classifier() failure.Classifier {
	if db.Classifier == nil {
		return Classifier
	}

	return db.Classifier
}
