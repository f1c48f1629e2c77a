// Copyright 2021 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gogama/resilient/redisres"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

func newRedisCmd(a *app) *cobra.Command {
	var (
		addr string
		url  string
	)

	cmd := &cobra.Command{
		Use:   "redis COMMAND [ARG...]",
		Short: "Send a Redis command, retrying failures",
		Args:  cobra.MinimumNArgs(1),
	}
	cmd.RunE = a.run(func(cmd *cobra.Command, args []string) error {
		opts := &redis.Options{Addr: addr}
		if url != "" {
			var err error
			if opts, err = redis.ParseURL(url); err != nil {
				return err
			}
		}
		client := redis.NewClient(opts)
		defer func() { _ = client.Close() }()

		x := &redisres.Executor{
			TimeoutPolicy: a.cfg.TimeoutPolicy(),
			Sink:          a.sink,
			Scheduler:     a.scheduler(),
		}
		v, err := redisres.Do(cmd.Context(), x, a.policy("redis"), client, strings.ToUpper(args[0]),
			func(ctx context.Context, c *redis.Client) (any, error) {
				return c.Do(ctx, toAny(args)...).Result()
			})
		if errors.Is(err, redis.Nil) {
			fmt.Fprintln(cmd.OutOrStdout(), "(nil)")
			return nil
		} else if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), format(v))
		return nil
	})

	flags := cmd.Flags()
	flags.StringVar(&addr, "addr", "localhost:6379", "Redis server address")
	flags.StringVar(&url, "url", "", "Redis URL, overriding --addr")
	return cmd
}
