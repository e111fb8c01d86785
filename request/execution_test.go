// Copyright 2021 The httpoll Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"syscall"
	"testing"
	"time"

	"github.com/gogama/httpoll/outcome"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExecution(t *testing.T) {
	p := &Plan{Method: "GET"}
	a := NewExecution(p)
	b := NewExecution(p)

	assert.Same(t, p, a.Plan)
	assert.NotEqual(t, a.ID, b.ID)
	_, err := uuid.Parse(a.ID)
	require.NoError(t, err)
	assert.Zero(t, a.Waits)
	assert.Zero(t, a.Sentinels)
	assert.Zero(t, a.Streak)
	assert.Zero(t, a.Idle)
	assert.Equal(t, outcome.Record{}, a.Outcome)
	assert.False(t, a.Started())
}

func TestExecution_StatusCode(t *testing.T) {
	testCases := []struct {
		name    string
		outcome outcome.Record
		want    int
	}{
		{"pending", outcome.Record{}, 0},
		{"transport error", outcome.Classify(7, "refused", 0, ""), 0},
		{"success", outcome.Classify(0, "", 204, ""), 204},
		{"unusual code", outcome.Classify(0, "", 999, ""), 999},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			e := &Execution{Outcome: testCase.outcome}
			assert.Equal(t, testCase.want, e.StatusCode())
		})
	}
}

func TestExecution_Header(t *testing.T) {
	e := &Execution{}
	assert.Empty(t, e.Header())
	assert.Equal(t, "", e.Header().Get("Content-Type"))

	e.ResponseHeaders = []string{
		"HTTP/1.1 201 Created",
		"Location: /jobs/7",
		"Link: <a>",
		"Link: <b>",
	}
	assert.Equal(t, http.Header{
		"Location": []string{"/jobs/7"},
		"Link":     []string{"<a>", "<b>"},
	}, e.Header())
}

func TestExecution_Duration(t *testing.T) {
	base := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("pending", func(t *testing.T) {
		e := &Execution{}
		assert.False(t, e.Started())
		assert.False(t, e.Ended())
		assert.Zero(t, e.Duration())
	})
	t.Run("running", func(t *testing.T) {
		e := &Execution{Start: time.Now().Add(-5 * time.Millisecond)}
		assert.True(t, e.Started())
		assert.False(t, e.Ended())
		assert.GreaterOrEqual(t, e.Duration(), 5*time.Millisecond)
	})
	t.Run("finished", func(t *testing.T) {
		e := &Execution{Start: base, End: base.Add(1500 * time.Millisecond)}
		assert.True(t, e.Started())
		assert.True(t, e.Ended())
		assert.Equal(t, 1500*time.Millisecond, e.Duration())
	})
}

func TestExecution_Timeout(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("boom"), false},
		{"cancelled", &url.Error{Op: "Get", Err: context.Canceled}, false},
		{"deadline", &url.Error{Op: "Get", Err: context.DeadlineExceeded}, true},
		{"syscall", syscall.ETIMEDOUT, true},
		{"wrapped syscall", &url.Error{Op: "Post", Err: syscall.ETIMEDOUT}, true},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			e := &Execution{Err: testCase.err}
			assert.Equal(t, testCase.want, e.Timeout())
		})
	}
}

type spanKey struct{}

type attemptKey struct{}

func TestExecution_Value(t *testing.T) {
	e := &Execution{}
	assert.Nil(t, e.Value(spanKey{}))

	e.SetValue(spanKey{}, "span-1")
	e.SetValue(attemptKey{}, 3)
	assert.Equal(t, "span-1", e.Value(spanKey{}))
	assert.Equal(t, 3, e.Value(attemptKey{}))
	assert.Nil(t, e.Value("span"))

	e.SetValue(spanKey{}, "span-2")
	assert.Equal(t, "span-2", e.Value(spanKey{}))
	assert.Equal(t, 3, e.Value(attemptKey{}))
}
