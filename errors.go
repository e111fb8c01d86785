// Copyright 2021 The httpoll Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpoll

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gogama/httpoll/request"
)

// ErrClosed is returned by a request method called on a client whose
// handle was already consumed by an earlier request or released by
// Close. Call Reset to obtain a fresh handle.
var ErrClosed = errors.New("httpoll: client handle closed (call Reset before reuse)")

// A TimeoutError reports that an execution gave up waiting for the
// transport. It is always wrapped in a *url.Error.
type TimeoutError struct {
	// Limit is the configured request timeout.
	Limit time.Duration
	// URL is the request URL.
	URL string
	// Reason says which condition ended the execution.
	Reason string
}

func (err *TimeoutError) Error() string {
	return fmt.Sprintf("httpoll: timeout after %s requesting %s: %s", err.Limit, err.URL, err.Reason)
}

// Timeout always returns true.
func (err *TimeoutError) Timeout() bool {
	return true
}

// An InfoError reports that the transport could not describe a
// completed transfer. It is always wrapped in a *url.Error.
type InfoError struct {
	URL string
	Err error
}

func (err *InfoError) Error() string {
	return fmt.Sprintf("httpoll: cannot read request info for %s: %v", err.URL, err.Err)
}

func (err *InfoError) Unwrap() error {
	return err.Err
}

const (
	reasonNoSocket = "no socket to wait on"
	reasonEmpty    = "empty response"
)

func timeoutError(p *request.Plan, limit time.Duration, reason string) error {
	return urlErrorWrap(p, &TimeoutError{
		Limit:  limit,
		URL:    p.URL.String(),
		Reason: reason,
	})
}

func urlErrorWrap(p *request.Plan, err error) error {
	if _, ok := err.(*url.Error); ok {
		return err
	}

	return &url.Error{
		Op:  urlErrorOp(p.Method),
		URL: p.URL.String(),
		Err: err,
	}
}

// urlErrorOp is lifted verbatim from net/http/client.go
func urlErrorOp(method string) string {
	if method == "" {
		return "Get"
	}
	return method[:1] + strings.ToLower(method[1:])
}
