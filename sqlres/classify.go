// Copyright 2021 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package sqlres

import (
	"database/sql"
	"database/sql/driver"
	"errors"

	"github.com/gogama/resilient/failure"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// SQLSTATE codes with special handling.
// See: https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	codeQueryCanceled    = "57014"
	codeLockNotAvailable = "55P03"
	codeAdminShutdown    = "57P01"
	codeCrashShutdown    = "57P02"
	codeCannotConnectNow = "57P03"
)

// SQLSTATE classes whose errors will fail the same way however often
// they are retried.
var fatalClasses = map[string]bool{
	"0A": true, // feature not supported
	"22": true, // data exception
	"23": true, // integrity constraint violation
	"28": true, // invalid authorization specification
	"3D": true, // invalid catalog name
	"3F": true, // invalid schema name
	"42": true, // syntax error or access rule violation
	"P0": true, // PL/pgSQL error
}

// Classifier is the default classifier for SQL calls.
//
// • NonRetryable: sql.ErrNoRows, sql.ErrTxDone, and SQLSTATE classes
// 0A, 22, 23, 28, 3D, 3F, 42, and P0.
//
// • Timeout: pgconn timeouts, SQLSTATE 57014 (query canceled) and 55P03
// (lock not available), a server message reporting a canceled
// statement, and anything failure.IsTimeout matches.
//
// • ResourceInvalidated: driver.ErrBadConn, sql.ErrConnDone, SQLSTATE
// class 08 (connection exception), 57P01, 57P02, and 57P03, and
// anything failure.IsInvalidated matches.
//
// • Transient: everything else, notably serialization failures
// (40001), deadlocks (40P01), and insufficient resources (class 53).
var Classifier failure.Classifier = failure.Rules{
	Fatal:       isFatal,
	Timeout:     isTimeout,
	Invalidated: isInvalidated,
	Fallback:    failure.ClassifierFunc(func(error) failure.Kind { return failure.Transient }),
}

var canceledMessages = failure.Contains(
	"canceling statement due to",
	"canceling query due to",
)

// SQLState returns the SQLSTATE code of a PostgreSQL error reported by
// either the pgx or the lib/pq driver, and whether one was found.
func SQLState(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), true
	}

	return "", false
}

func class(code string) string {
	if len(code) < 2 {
		return ""
	}

	return code[:2]
}

func isFatal(err error) bool {
	if errors.Is(err, sql.ErrNoRows) || errors.Is(err, sql.ErrTxDone) {
		return true
	}

	code, ok := SQLState(err)
	return ok && fatalClasses[class(code)]
}

func isTimeout(err error) bool {
	if pgconn.Timeout(err) {
		return true
	}

	if code, ok := SQLState(err); ok {
		return code == codeQueryCanceled || code == codeLockNotAvailable
	}

	return canceledMessages(err) || failure.IsTimeout(err)
}

func isInvalidated(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}

	if code, ok := SQLState(err); ok {
		switch code {
		case codeAdminShutdown, codeCrashShutdown, codeCannotConnectNow:
			return true
		default:
			return class(code) == "08"
		}
	}

	return failure.IsInvalidated(err)
}
