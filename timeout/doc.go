// Copyright 2021 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package timeout defines policies that turn the timeout budget grown
// by a resilient call into the concrete timeout set on a resource, such
// as an HTTP client, a SQL command, or a Redis client. A generic
// interface for timeout policies is provided, Policy, along with
// several useful policy generating functions and built-in policies.
package timeout
