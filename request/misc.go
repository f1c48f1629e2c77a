// Copyright 2021 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"errors"
	"fmt"
	"io"
)

// ErrBodyType is returned, wrapped, by BodyBytes when the body has a
// type it cannot buffer.
var ErrBodyType = errors.New("resilient/request: unsupported body type " +
	"(use nil, string, []byte, io.Reader or io.ReadCloser)")

// BodyBytes buffers a request body so the same bytes can be sent on
// every attempt of a resilient call. A streaming body can only be read
// once, so Post and NewPlan call BodyBytes before the first attempt and
// each retry builds its request from the buffer.
//
// A nil body yields a nil slice. A []byte is returned as is and a string
// is converted. An io.Reader is read to EOF, and closed afterwards if it
// is also an io.Closer, even when reading fails. Any other type yields
// an error wrapping ErrBodyType.
func BodyBytes(body any) ([]byte, error) {
	var r io.Reader
	switch x := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return x, nil
	case string:
		return []byte(x), nil
	case io.Reader:
		r = x
	default:
		return nil, fmt.Errorf("%w: %T", ErrBodyType, body)
	}

	b, err := io.ReadAll(r)
	if c, ok := r.(io.Closer); ok {
		if closeErr := c.Close(); err == nil {
			err = closeErr
		}
	}
	if err != nil {
		return nil, fmt.Errorf("resilient/request: buffering body: %w", err)
	}

	return b, nil
}
