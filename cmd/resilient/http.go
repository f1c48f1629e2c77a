// Copyright 2021 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogama/resilient/httpres"
	"github.com/gogama/resilient/request"
	"github.com/spf13/cobra"
)

func newHTTPCmd(a *app) *cobra.Command {
	var (
		method  string
		data    string
		headers []string
	)

	cmd := &cobra.Command{
		Use:   "http URL",
		Short: "Send an HTTP request, retrying failures",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = a.run(func(cmd *cobra.Command, args []string) error {
		var body any
		if data != "" {
			body = data
		}
		plan, err := request.NewPlan(method, args[0], body)
		if err != nil {
			return err
		}
		for _, h := range headers {
			name, value, ok := strings.Cut(h, ":")
			if !ok {
				return fmt.Errorf("header %q: expected NAME: VALUE", h)
			}
			plan.Header.Add(strings.TrimSpace(name), strings.TrimSpace(value))
		}

		c := &httpres.Client{
			TimeoutPolicy: a.cfg.TimeoutPolicy(),
			Sink:          a.sink,
			Scheduler:     a.scheduler(),
		}
		res, err := c.Do(cmd.Context(), a.policy("http"), plan)
		var statusErr *httpres.StatusError
		if res == nil && errors.As(err, &statusErr) {
			res = statusErr.Result
		}
		if res != nil && res.Response != nil {
			fmt.Fprintln(cmd.OutOrStdout(), res.Response.Status)
			if len(res.Body) > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), string(res.Body))
			}
		}
		return err
	})

	flags := cmd.Flags()
	flags.StringVarP(&method, "method", "X", "GET", "HTTP method")
	flags.StringVarP(&data, "data", "d", "", "request body")
	flags.StringArrayVarP(&headers, "header", "H", nil, "request header as NAME: VALUE (repeatable)")
	return cmd
}
