// Copyright 2021 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package failure

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPredicateAnd(t *testing.T) {
	true_ := Predicate(func(_ error) bool { return true })
	false_ := Predicate(func(_ error) bool { return false })
	err := errors.New("foo")
	assert.True(t, true_.And(true_)(err))
	assert.False(t, true_.And(false_)(err))
	assert.False(t, false_.And(true_)(err))
	assert.False(t, false_.And(false_)(err))
}

func TestPredicateOr(t *testing.T) {
	true_ := Predicate(func(_ error) bool { return true })
	false_ := Predicate(func(_ error) bool { return false })
	err := errors.New("foo")
	assert.True(t, true_.Or(true_)(err))
	assert.True(t, true_.Or(false_)(err))
	assert.True(t, false_.Or(true_)(err))
	assert.False(t, false_.Or(false_)(err))
}

func TestPredicateNot(t *testing.T) {
	assert.True(t, Never.Not()(errors.New("foo")))
	var nilPredicate Predicate
	assert.False(t, nilPredicate.Match(errors.New("foo")))
	assert.True(t, nilPredicate.Not()(errors.New("foo")))
}

func TestIs(t *testing.T) {
	a, b := errors.New("a"), errors.New("b")
	empty := Is()
	assert.False(t, empty(a))
	p := Is(a, b)
	assert.True(t, p(a))
	assert.True(t, p(b))
	assert.True(t, p(wrapper{b}))
	assert.False(t, p(errors.New("a")))
	assert.False(t, p(nil))
}

func TestContains(t *testing.T) {
	p := Contains("Deadlock", "lock timeout")
	assert.False(t, p(nil))
	assert.True(t, p(errors.New("transaction chosen as DEADLOCK victim")))
	assert.True(t, p(wrapper{errors.New("lock timeout exceeded")}))
	assert.False(t, p(errors.New("syntax error")))
}
