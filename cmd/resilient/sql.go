// Copyright 2021 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/gogama/resilient/sqlres"
	"github.com/spf13/cobra"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	_ "github.com/lib/pq"              // registers the "postgres" driver
)

const envDSN = "RESILIENT_DSN"

func newSQLCmd(a *app) *cobra.Command {
	var (
		driver    string
		dsn       string
		exec      bool
		dedicated bool
	)

	cmd := &cobra.Command{
		Use:   "sql QUERY [ARG...]",
		Short: "Run a SQL statement, retrying failures",
		Long: `Run a SQL statement, retrying failures.

A query prints the first column of the first row. With --exec the
statement is executed and the number of affected rows is printed.`,
		Args: cobra.MinimumNArgs(1),
	}
	cmd.RunE = a.run(func(cmd *cobra.Command, args []string) error {
		if dsn == "" {
			dsn = os.Getenv(envDSN)
		}
		if dsn == "" {
			return errors.New("no data source: set --dsn or " + envDSN)
		}

		db, err := sqlres.Open(driver, dsn)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		db.TimeoutPolicy = a.cfg.TimeoutPolicy()
		db.Sink = a.sink
		db.Scheduler = a.scheduler()
		db.Dedicated = dedicated

		query, params := args[0], toAny(args[1:])
		if exec {
			res, err := db.Exec(cmd.Context(), a.policy("sql"), query, params...)
			if err != nil {
				return err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d rows affected\n", n)
			return nil
		}

		v, err := sqlres.Scalar[any](cmd.Context(), db, a.policy("sql"), query, params...)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), format(v))
		return nil
	})

	flags := cmd.Flags()
	flags.StringVar(&driver, "driver", "pgx", "database/sql driver name (pgx or postgres)")
	flags.StringVar(&dsn, "dsn", "", "data source name (default $"+envDSN+")")
	flags.BoolVar(&exec, "exec", false, "execute a statement which returns no rows")
	flags.BoolVar(&dedicated, "dedicated", false, "run on a dedicated connection, replaced if it breaks")
	return cmd
}

func toAny(args []string) []any {
	out := make([]any, len(args))
	for i, arg := range args {
		out[i] = arg
	}
	return out
}

func format(v any) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}
