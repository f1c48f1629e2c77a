// Copyright 2021 The resilient Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpres

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gogama/resilient/request"
	"github.com/gogama/resilient/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	t.Run("bad URL", func(t *testing.T) {
		d := newMockDoer(t)
		r, err := Get(context.Background(), d, retry.Never, ":::")
		assert.Nil(t, r)
		assert.Error(t, err)
		d.AssertNotCalled(t, "Do", mock.Anything, mock.Anything, mock.Anything)
	})
	t.Run("ok", func(t *testing.T) {
		d := newMockDoer(t)
		res := &Result{}
		d.On("Do", mock.Anything, retry.DefaultPolicy, mock.MatchedBy(func(p *request.Plan) bool {
			return p.Method == "GET" && p.URL.String() == "http://x/y"
		})).Return(res, nil).Once()
		r, err := Get(context.Background(), d, retry.DefaultPolicy, "http://x/y")
		assert.NoError(t, err)
		assert.Same(t, res, r)
		d.AssertExpectations(t)
	})
}

func TestHead(t *testing.T) {
	d := newMockDoer(t)
	doErr := errors.New("boom")
	d.On("Do", mock.Anything, retry.Never, mock.MatchedBy(func(p *request.Plan) bool {
		return p.Method == "HEAD"
	})).Return(nil, doErr).Once()
	r, err := Head(context.Background(), d, retry.Never, "http://x")
	assert.Nil(t, r)
	assert.Same(t, doErr, err)
	d.AssertExpectations(t)
}

func TestPost(t *testing.T) {
	t.Run("bad body", func(t *testing.T) {
		d := newMockDoer(t)
		_, err := Post(context.Background(), d, retry.Never, "http://x", "a/b", 123)
		assert.Error(t, err)
	})
	t.Run("ok", func(t *testing.T) {
		d := newMockDoer(t)
		d.On("Do", mock.Anything, retry.Never, mock.MatchedBy(func(p *request.Plan) bool {
			return p.Method == "POST" && p.Header.Get("Content-Type") == "a/b" && string(p.Body) == "body"
		})).Return(&Result{}, nil).Once()
		_, err := Post(context.Background(), d, retry.Never, "http://x", "a/b", "body")
		require.NoError(t, err)
		d.AssertExpectations(t)
	})
}

func TestPost_RetryResendsBody(t *testing.T) {
	var bodies []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(b))
		if len(bodies) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write(b)
	}))
	defer server.Close()

	cl := &Client{HTTPClient: server.Client()}
	body := strings.NewReader("order=42")
	res, err := Post(context.Background(), cl, retry.Policy{MaxAttempts: 2}, server.URL, "text/plain", body)

	require.NoError(t, err)
	assert.Equal(t, 200, res.StatusCode())
	assert.Equal(t, []string{"order=42", "order=42"}, bodies)
	assert.Equal(t, "order=42", string(res.Body))
}

func TestPostForm(t *testing.T) {
	d := newMockDoer(t)
	d.On("Do", mock.Anything, retry.Never, mock.MatchedBy(func(p *request.Plan) bool {
		return p.Header.Get("Content-Type") == "application/x-www-form-urlencoded" &&
			string(p.Body) == "a=1&b=2"
	})).Return(&Result{}, nil).Once()
	_, err := PostForm(context.Background(), d, retry.Never, "http://x", url.Values{"a": {"1"}, "b": {"2"}})
	require.NoError(t, err)
	d.AssertExpectations(t)
}

type mockDoer struct {
	mock.Mock
}

func newMockDoer(t *testing.T) *mockDoer {
	d := &mockDoer{}
	d.Test(t)
	return d
}

func (d *mockDoer) Do(ctx context.Context, p retry.Policy, plan *request.Plan) (*Result, error) {
	args := d.Called(ctx, p, plan)
	res, _ := args.Get(0).(*Result)
	return res, args.Error(1)
}
