// Copyright 2021 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package redisres

import (
	"errors"
	"strings"

	"github.com/gogama/resilient/failure"
	"github.com/redis/go-redis/v9"
)

// Server error prefixes which report a problem with the command itself.
var fatalPrefixes = []string{
	"ERR",
	"WRONGTYPE",
	"NOAUTH",
	"WRONGPASS",
	"NOPERM",
	"NOSCRIPT",
	"EXECABORT",
}

// Classifier is the default classifier for Redis calls.
//
// • NonRetryable: redis.Nil, and server errors beginning ERR,
// WRONGTYPE, NOAUTH, WRONGPASS, NOPERM, NOSCRIPT, or EXECABORT.
//
// • Timeout: anything failure.IsTimeout matches, including read and
// write deadline errors and pool timeouts.
//
// • ResourceInvalidated: redis.ErrClosed, meaning the client itself was
// closed.
//
// • Transient: everything else, notably LOADING, BUSY, TRYAGAIN, and
// READONLY server errors and broken connections, which the client's
// pool replaces on its own.
var Classifier failure.Classifier = failure.Rules{
	Fatal:       isFatal,
	Timeout:     failure.IsTimeout,
	Invalidated: failure.Is(redis.ErrClosed),
	Fallback:    failure.ClassifierFunc(func(error) failure.Kind { return failure.Transient }),
}

func isFatal(err error) bool {
	if errors.Is(err, redis.Nil) {
		return true
	}

	var redisErr redis.Error
	if !errors.As(err, &redisErr) {
		return false
	}

	msg := redisErr.Error()
	for _, prefix := range fatalPrefixes {
		if strings.HasPrefix(msg, prefix+" ") || msg == prefix {
			return true
		}
	}

	return false
}
