// Copyright 2021 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package sqlres runs SQL statements as resilient calls on top of sqlx.

Wrap a database handle and run statements, giving the retry policy per
call:

	db, err := sqlres.Open("pgx", dsn)
	...
	res, err := db.Exec(ctx, retry.DefaultPolicy, "UPDATE jobs SET state = $1 WHERE id = $2", "done", id)
	n, err := sqlres.Scalar[int](ctx, db, retry.DefaultPolicy, "SELECT count(*) FROM jobs")
	job, err := sqlres.Get[Job](ctx, db, retry.DefaultPolicy, "SELECT * FROM jobs WHERE id = $1", id)
	jobs, err := sqlres.Select[Job](ctx, db, retry.DefaultPolicy, "SELECT * FROM jobs")

Each attempt runs under its own deadline, taken from the Command's
Timeout. When an attempt times out, the next attempt runs with a longer
Timeout chosen by the DB's timeout policy. When the connection is
invalidated and the DB uses dedicated connections, the connection is
closed and a fresh one is opened before the next attempt.

The package Classifier understands SQLSTATE codes reported by both the
pgx (pgconn.PgError) and lib/pq (pq.Error) PostgreSQL drivers.
*/
package sqlres
