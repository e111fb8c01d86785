// Copyright 2021 The httpoll Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"net/http"
	"time"

	"github.com/gogama/httpoll/header"
	"github.com/gogama/httpoll/outcome"
	"github.com/gogama/httpoll/transient"
	"github.com/google/uuid"
)

// An Execution represents the state of a single Plan execution.
//
// The client creates an Execution when a plan starts executing, updates
// it as the poll loop progresses, and hands it to retry policies and
// event handlers. Policies and handlers may attach their own data with
// SetValue, but should treat the exported fields as read-only.
type Execution struct {
	// ID uniquely identifies the execution. It is useful for
	// correlating log lines and trace spans.
	ID string

	// Plan specifies the HTTP request plan being executed. It is never
	// nil once the execution has started.
	Plan *Plan

	// Start is the start time of the execution. It is assigned when the
	// execution starts and remains constant thereafter.
	Start time.Time

	// End is the end time of the execution. It contains the zero value
	// until the execution ends.
	End time.Time

	// Waits is the count of readiness waits that returned a real
	// signal, as opposed to the no-socket sentinel.
	Waits int

	// Sentinels is the count of readiness waits that returned the
	// no-socket sentinel and were followed by a backoff sleep. It is
	// the retry budget consumed so far.
	Sentinels int

	// Streak is the number of consecutive no-socket sentinels seen
	// since the last real signal. It drives the backoff sleep length
	// and drops to zero whenever a real signal arrives.
	Streak int

	// Idle is the number of consecutive readiness waits that timed out
	// without any handle making progress. It drops to zero whenever a
	// wait reports progress.
	Idle int

	// Sleep is the length of the most recent backoff sleep.
	Sleep time.Duration

	// Signal is the value returned by the most recent readiness wait.
	Signal int

	// Outcome is the classified result of the execution. It is the
	// zero Record until the execution completes.
	Outcome outcome.Record

	// Body is the complete response body.
	Body []byte

	// RequestHeaders contains the outbound request header lines the
	// transport reported sending, without blank lines.
	RequestHeaders []string

	// ResponseHeaders contains the final response header lines in the
	// order received. Lines from interim 100 Continue responses are
	// not included.
	ResponseHeaders []string

	// EffectiveURL is the last URL the transport used, which differs
	// from the plan URL if redirects were followed.
	EffectiveURL string

	// Err is the error that ended the execution, if any. Transport and
	// HTTP errors are reported in Outcome, not here. Whenever Err is
	// non-nil, it has the type *url.Error.
	Err error

	data context.Context
}

// NewExecution returns a new Execution for p with a fresh ID.
func NewExecution(p *Plan) *Execution {
	return &Execution{
		ID:   uuid.NewString(),
		Plan: p,
	}
}

// StatusCode returns the HTTP status code of the response, or 0 if
// there is none.
func (e *Execution) StatusCode() int {
	return e.Outcome.HTTPStatusCode
}

// Header returns the response header fields parsed from
// ResponseHeaders. The status line is not included.
func (e *Execution) Header() http.Header {
	return header.Fields(e.ResponseHeaders)
}

// Duration returns the duration of the execution.
//
// If the execution has not yet started, the duration is zero. If the
// execution has Ended, the duration returned is equal to End minus
// Start. Otherwise, it is equal to the current time minus Start.
func (e *Execution) Duration() time.Duration {
	if !e.Started() {
		return time.Duration(0)
	} else if !e.Ended() {
		return time.Since(e.Start)
	}

	return e.End.Sub(e.Start)
}

// Started indicates whether the execution has started.
func (e *Execution) Started() bool {
	return e.Start != (time.Time{})
}

// Ended indicates whether the execution has ended.
func (e *Execution) Ended() bool {
	return e.End != (time.Time{})
}

// Timeout indicates whether Err currently contains a non-nil value
// which indicates a timeout.
func (e *Execution) Timeout() bool {
	cat := transient.Categorize(e.Err)
	return cat == transient.Timeout
}

// SetValue allows event handlers to store arbitrary data in the
// execution.
//
// The key must follow the same rules as the key parameter in
// context.WithValue: it may not be nil, it must be comparable, and it
// should not be a built-in type.
func (e *Execution) SetValue(key, value interface{}) {
	ctx := e.data
	if ctx == nil {
		ctx = context.Background()
	}

	e.data = context.WithValue(ctx, key, value)
}

// Value returns the data value associated with this execution for key,
// or nil if there is no value associated with key.
func (e *Execution) Value(key interface{}) interface{} {
	ctx := e.data
	if ctx == nil {
		return nil
	}

	return ctx.Value(key)
}
