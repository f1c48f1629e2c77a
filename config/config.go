// Copyright 2021 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package config loads retry, timeout and scheduling policies from a
// YAML file, with overrides from the environment.
//
// A policy file looks like this:
//
//	default:
//	  max_attempts: 3
//	  base_delay: 1s
//	  auto_timeout_increment: 15s
//	calls:
//	  Exec:
//	    max_attempts: 5
//	    backoff:
//	      base: 100ms
//	      max: 5s
//	      jitter: true
//	timeout:
//	  base: 30s
//	  max: 2m
//	scheduler:
//	  threshold: 250ms
//	  slice: 250ms
//
// Environment variables are expanded in the file before it is parsed.
// The RESILIENT_* variables listed in Env then override the default
// policy and the timeout settings.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/gogama/resilient/retry"
	"github.com/gogama/resilient/timeout"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables which override file settings.
const (
	EnvMaxAttempts          = "RESILIENT_MAX_ATTEMPTS"
	EnvBaseDelay            = "RESILIENT_BASE_DELAY"
	EnvAutoTimeoutIncrement = "RESILIENT_AUTO_TIMEOUT_INCREMENT"
	EnvTimeoutBase          = "RESILIENT_TIMEOUT_BASE"
	EnvTimeoutMax           = "RESILIENT_TIMEOUT_MAX"
)

// Env lists the environment variables Load honors.
var Env = []string{
	EnvMaxAttempts,
	EnvBaseDelay,
	EnvAutoTimeoutIncrement,
	EnvTimeoutBase,
	EnvTimeoutMax,
}

// ErrInvalid is wrapped by the errors Load and Parse return when a
// setting is out of range.
var ErrInvalid = errors.New("resilient/config: invalid configuration")

// A Backoff configures exponential backoff, optionally jittered.
type Backoff struct {
	Base   time.Duration `yaml:"base"`
	Max    time.Duration `yaml:"max"`
	Jitter bool          `yaml:"jitter"`
}

// A Policy configures a retry.Policy.
type Policy struct {
	MaxAttempts          int           `yaml:"max_attempts"`
	BaseDelay            time.Duration `yaml:"base_delay"`
	AutoTimeoutIncrement time.Duration `yaml:"auto_timeout_increment"`
	// Backoff, if present, replaces BaseDelay with exponential
	// backoff.
	Backoff *Backoff `yaml:"backoff,omitempty"`
}

// A Timeout configures a timeout.Policy. A zero Max means the timeout
// grows without bound.
type Timeout struct {
	Base time.Duration `yaml:"base"`
	Max  time.Duration `yaml:"max"`
}

// A Scheduler configures a retry.Scheduler.
type Scheduler struct {
	Threshold time.Duration `yaml:"threshold"`
	Slice     time.Duration `yaml:"slice"`
}

// A Config holds the policies of an application.
type Config struct {
	// Default is the policy for calls with no entry in Calls.
	Default Policy `yaml:"default"`
	// Calls holds policies for individual calls, by call name. Each
	// entry is a complete policy: fields it omits are zero, not
	// inherited from Default.
	Calls     map[string]Policy `yaml:"calls,omitempty"`
	Timeout   Timeout           `yaml:"timeout"`
	Scheduler Scheduler         `yaml:"scheduler"`
}

// Default returns the configuration used when no file is given. Its
// values match retry.DefaultPolicy and timeout.DefaultPolicy.
func Default() *Config {
	return &Config{
		Default: Policy{
			MaxAttempts:          retry.DefaultPolicy.MaxAttempts,
			BaseDelay:            retry.DefaultPolicy.BaseDelay,
			AutoTimeoutIncrement: retry.DefaultPolicy.AutoTimeoutIncrement,
		},
		Timeout: Timeout{Base: timeout.DefaultPolicy.Timeout(0)},
	}
}

// LoadEnv loads environment variables from the given .env files, or
// from .env in the working directory if none are given. Variables
// already set are not overwritten. A missing file is not an error.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("resilient/config: loading %s: %w", f, err)
		}
	}

	return nil
}

// Load reads the configuration file at path and applies environment
// overrides. If path is empty, Load starts from Default.
func Load(path string) (*Config, error) {
	if path == "" {
		cfg := Default()
		if err := cfg.applyEnv(os.LookupEnv); err != nil {
			return nil, err
		}
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("resilient/config: failed to read config file: %w", err)
	}

	return Parse(data, os.LookupEnv)
}

// Parse parses a YAML configuration, expanding variables in it and then
// applying overrides using lookup.
func Parse(data []byte, lookup func(string) (string, bool)) (*Config, error) {
	expanded := os.Expand(string(data), func(key string) string {
		v, _ := lookup(key)
		return v
	})

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("resilient/config: failed to parse config file: %w", err)
	}

	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}

	return cfg, cfg.Validate()
}

// Validate checks every policy and the timeout settings.
func (c *Config) Validate() error {
	if err := c.Default.validate("default"); err != nil {
		return err
	}
	for name, p := range c.Calls {
		if err := p.validate(name); err != nil {
			return err
		}
	}

	switch {
	case c.Timeout.Base < 0:
		return fmt.Errorf("%w: negative timeout base %s", ErrInvalid, c.Timeout.Base)
	case c.Timeout.Max != 0 && c.Timeout.Max < c.Timeout.Base:
		return fmt.Errorf("%w: timeout max %s below base %s", ErrInvalid, c.Timeout.Max, c.Timeout.Base)
	case c.Scheduler.Threshold < 0 || c.Scheduler.Slice < 0:
		return fmt.Errorf("%w: negative scheduler setting", ErrInvalid)
	}

	return nil
}

// Policy returns the retry policy for the named call.
func (c *Config) Policy(name string) retry.Policy {
	if p, ok := c.Calls[name]; ok {
		return p.Retry()
	}

	return c.Default.Retry()
}

// TimeoutPolicy returns the configured timeout policy.
func (c *Config) TimeoutPolicy() timeout.Policy {
	if c.Timeout.Max == 0 {
		return timeout.Additive(c.Timeout.Base)
	}

	return timeout.Capped(c.Timeout.Base, c.Timeout.Max)
}

// NewScheduler returns a scheduler with the configured settings which
// stops waiting when running reports false. The running function may be
// nil.
func (c *Config) NewScheduler(running func() bool) *retry.Scheduler {
	return &retry.Scheduler{
		Threshold: c.Scheduler.Threshold,
		Slice:     c.Scheduler.Slice,
		Running:   running,
	}
}

// Retry converts p to a retry.Policy. It panics if p has an invalid
// Backoff; Validate reports those.
func (p Policy) Retry() retry.Policy {
	rp := retry.Policy{
		MaxAttempts:          p.MaxAttempts,
		BaseDelay:            p.BaseDelay,
		AutoTimeoutIncrement: p.AutoTimeoutIncrement,
	}
	if p.Backoff != nil {
		var jitter any
		if p.Backoff.Jitter {
			jitter = time.Now()
		}
		rp.Waiter = retry.NewExpWaiter(p.Backoff.Base, p.Backoff.Max, jitter)
	}

	return rp
}

func (p Policy) validate(name string) error {
	if b := p.Backoff; b != nil && (b.Base <= 0 || b.Max < b.Base) {
		return fmt.Errorf("%w: policy %q: backoff needs 0 < base <= max", ErrInvalid, name)
	}
	if err := p.Retry().Validate(); err != nil {
		return fmt.Errorf("%w: policy %q: %w", ErrInvalid, name, err)
	}

	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvMaxAttempts); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalid, EnvMaxAttempts, err)
		}
		c.Default.MaxAttempts = n
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{EnvBaseDelay, &c.Default.BaseDelay},
		{EnvAutoTimeoutIncrement, &c.Default.AutoTimeoutIncrement},
		{EnvTimeoutBase, &c.Timeout.Base},
		{EnvTimeoutMax, &c.Timeout.Max},
	}
	for _, d := range durations {
		v, ok := lookup(d.key)
		if !ok {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalid, d.key, err)
		}
		*d.dst = parsed
	}

	return nil
}
