// Copyright 2021 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gogama/resilient"
	"github.com/gogama/resilient/config"
	"github.com/gogama/resilient/retry"
	"github.com/gogama/resilient/sink"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app holds the state shared by the subcommands.
type app struct {
	configPath  string
	envFiles    []string
	policyName  string
	verbose     bool
	development bool
	metricsAddr string

	flag     *retry.Flag
	log      *zap.Logger
	cfg      *config.Config
	registry *prometheus.Registry
	sink     resilient.Sink
	metrics  *http.Server
}

func newRootCmd(a *app) *cobra.Command {
	if a.flag == nil {
		a.flag = &retry.Flag{}
	}

	cmd := &cobra.Command{
		Use:   "resilient",
		Short: "Run calls through the resilient retry executor",
		Long: `resilient sends HTTP requests, SQL statements and Redis commands through
the resilient executor, retrying failures according to a configurable
policy and logging every attempt.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "policy configuration file (YAML)")
	flags.StringSliceVar(&a.envFiles, "env-file", nil, "files to load environment variables from (default .env)")
	flags.StringVar(&a.policyName, "policy", "", "name of the configured call policy to use (default is the subcommand name)")
	flags.BoolVar(&a.verbose, "verbose", false, "log the call detail with every attempt")
	flags.BoolVar(&a.development, "dev", false, "use human-friendly development logging")
	flags.StringVar(&a.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while running")

	cmd.AddCommand(newHTTPCmd(a), newSQLCmd(a), newRedisCmd(a))
	return cmd
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := config.LoadEnv(a.envFiles...); err != nil {
		return err
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if a.log == nil {
		if a.log, err = newLogger(a.development); err != nil {
			return err
		}
	}

	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(collectors.NewGoCollector())
	metrics, err := sink.NewMetrics(a.registry, sink.MetricsConfig{})
	if err != nil {
		return err
	}

	a.sink = resilient.MultiSink{
		&sink.Logger{Log: a.log, Verbose: a.verbose},
		metrics,
		sink.NewTracer(nil),
	}

	if a.metricsAddr != "" {
		return a.serveMetrics(cmd.Context())
	}

	return nil
}

// run wraps a subcommand body so the shared state is torn down however
// the body ends.
func (a *app) run(body func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer a.teardown()
		return body(cmd, args)
	}
}

func (a *app) teardown() {
	if a.metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.metrics.Shutdown(ctx); err != nil {
			a.log.Warn("metrics server shutdown failed", zap.Error(err))
		}
	}

	_ = a.log.Sync()
}

func (a *app) serveMetrics(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.metricsAddr)
	if err != nil {
		return fmt.Errorf("metrics listener: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	a.metrics = &http.Server{
		Handler:     mux,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		if err := a.metrics.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("metrics server failed", zap.Error(err))
		}
	}()

	a.log.Info("serving metrics", zap.String("addr", ln.Addr().String()))
	return nil
}

// policy returns the retry policy configured for the named subcommand,
// or for the --policy name if one was given.
func (a *app) policy(name string) retry.Policy {
	if a.policyName != "" {
		name = a.policyName
	}

	return a.cfg.Policy(name)
}

func (a *app) scheduler() *retry.Scheduler {
	return a.cfg.NewScheduler(a.flag.Running)
}

func newLogger(development bool) (*zap.Logger, error) {
	if development {
		return zap.NewDevelopment()
	}

	return zap.NewProduction()
}
