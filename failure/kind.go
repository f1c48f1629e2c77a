// Copyright 2021 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package failure

// A Kind is the classification of an error raised by a failed
// operation attempt, as reported by a Classifier.
type Kind int

const (
	// Transient indicates an error that is plausibly resolved by simply
	// retrying, with no special recovery action.
	Transient Kind = iota
	// Timeout indicates a server-side or transport-level timeout. The
	// executor grows the timeout budget before retrying, so the next
	// attempt gets a longer allowance.
	Timeout
	// ResourceInvalidated indicates the underlying connection or
	// session is no longer usable, for example because it was closed
	// or aborted mid-operation. The resource must be reopened before
	// retrying; a plain retry on the same resource would fail again.
	ResourceInvalidated
	// NonRetryable indicates a known fatal error, such as a constraint
	// violation or an authentication failure. The executor propagates
	// it immediately without retrying.
	NonRetryable
	// kindSentinel provides the total number of kinds.
	kindSentinel

	numKinds = int(kindSentinel)
)

var kindNames = []string{
	"Transient",
	"Timeout",
	"ResourceInvalidated",
	"NonRetryable",
}

// Kinds returns a slice containing every Kind.
func Kinds() []Kind {
	return []Kind{
		Transient,
		Timeout,
		ResourceInvalidated,
		NonRetryable,
	}
}

// Retryable reports whether an error of this kind may be retried.
func (k Kind) Retryable() bool {
	return k != NonRetryable
}

// Name returns the name of the kind.
func (k Kind) Name() string {
	if k < 0 || int(k) >= numKinds {
		return "Unknown"
	}
	return kindNames[int(k)]
}

// String returns the name of the kind.
func (k Kind) String() string {
	return k.Name()
}
