// Copyright 2021 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package redisres runs go-redis commands as resilient calls.

Do runs a function against a *redis.Client, retrying it according to a
retry policy. After a timeout the client is replaced by a copy with
longer read and write timeouts; after the client is found closed it is
replaced by a new client built from the same options:

	n, err := redisres.Do(ctx, nil, retry.DefaultPolicy, rdb, "Incr",
		func(ctx context.Context, c *redis.Client) (int64, error) {
			return c.Incr(ctx, "hits").Result()
		})

Classifier maps go-redis errors to failure kinds.
*/
package redisres
