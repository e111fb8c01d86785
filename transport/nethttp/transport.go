// Copyright 2021 The httpoll Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package nethttp

import (
	"errors"
	"net/http"

	"github.com/gogama/httpoll/transport"
	"github.com/rs/zerolog"
)

// An HTTPDoer implements a Do method in the same manner as the Go
// standard library http.Client.
type HTTPDoer interface {
	Do(r *http.Request) (*http.Response, error)
}

// Transport is a transport.Transport backed by an HTTPDoer. Its zero
// value uses http.DefaultClient and logs nothing.
type Transport struct {
	// Doer sends the requests. If nil, http.DefaultClient is used.
	Doer HTTPDoer
	// Logger receives traffic logs of handles with KeyVerbose set. If
	// nil, nothing is logged.
	Logger *zerolog.Logger
	// SentinelOnResolve makes Multi.Wait return transport.NoSocket
	// while all running handles are resolving a host name.
	SentinelOnResolve bool
}

var errForeignHandle = errors.New("httpoll/nethttp: handle was not created by this transport")

var nopLogger = zerolog.Nop()

// NewHandle returns a new idle handle.
func (t *Transport) NewHandle() (transport.Handle, error) {
	return newHandle(t), nil
}

// NewMulti returns a new multi-driver with no handles.
func (t *Transport) NewMulti() (transport.Multi, error) {
	return &multi{
		t:        t,
		progress: make(chan struct{}, 1),
	}, nil
}

func (t *Transport) doer() HTTPDoer {
	if t.Doer == nil {
		return http.DefaultClient
	}
	return t.Doer
}

func (t *Transport) logger() *zerolog.Logger {
	if t.Logger == nil {
		return &nopLogger
	}
	return t.Logger
}
