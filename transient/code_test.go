// Copyright 2021 The httpoll Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transient

import (
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"syscall"
	"testing"

	"github.com/gogama/httpoll/transport"

	"github.com/stretchr/testify/assert"
)

func TestCode(t *testing.T) {
	testCases := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{
			name: "nil",
		},
		{
			name:    "dns",
			err:     &url.Error{Op: "Get", URL: "http://nowhere.invalid", Err: &net.OpError{Op: "dial", Err: &net.DNSError{Err: "no such host", Name: "nowhere.invalid"}}},
			code:    transport.ErrCouldntResolveHost,
			message: "Could not resolve host: nowhere.invalid",
		},
		{
			name:    "timeout",
			err:     &url.Error{Op: "Get", URL: "http://x", Err: timeout{}},
			code:    transport.ErrOperationTimedOut,
			message: "Timeout was reached: timeout",
		},
		{
			name:    "refused",
			err:     &url.Error{Op: "Get", URL: "http://x", Err: &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}},
			code:    transport.ErrCouldntConnect,
			message: "Could not connect to server: dial: " + syscall.ECONNREFUSED.Error(),
		},
		{
			name: "reset",
			err:  wrapper{syscall.ECONNRESET},
			code: transport.ErrRecvError,
		},
		{
			name: "dial other",
			err:  &net.OpError{Op: "dial", Err: errors.New("network is unreachable")},
			code: transport.ErrCouldntConnect,
		},
		{
			name: "tls",
			err:  &url.Error{Op: "Get", URL: "https://x", Err: x509.UnknownAuthorityError{}},
			code: transport.ErrSSLConnect,
		},
		{
			name:    "eof",
			err:     &url.Error{Op: "Get", URL: "http://x", Err: io.EOF},
			code:    transport.ErrGotNothing,
			message: "Server returned nothing (no headers, no data): EOF",
		},
		{
			name: "malformed",
			err:  &url.Error{Op: "parse", URL: ":::", Err: errors.New("missing protocol scheme")},
			code: transport.ErrURLMalformat,
		},
		{
			name: "scheme",
			err:  &url.Error{Op: "Get", URL: "gopher://x", Err: errors.New(`unsupported protocol scheme "gopher"`)},
			code: transport.ErrUnsupportedProtocol,
		},
		{
			name: "redirects",
			err:  &url.Error{Op: "Get", URL: "http://x", Err: errors.New("stopped after 10 redirects")},
			code: transport.ErrTooManyRedirects,
		},
		{
			name:    "anything else",
			err:     errors.New("boom"),
			code:    transport.ErrRecvError,
			message: "Failure when receiving data from the peer: boom",
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			code, message := Code(testCase.err)
			assert.Equal(t, testCase.code, code)
			if testCase.err == nil {
				assert.Empty(t, message)
				return
			}
			assert.NotEmpty(t, message)
			if testCase.message != "" {
				assert.Equal(t, testCase.message, message)
			}
		})
	}
}

type timeout struct{}

func (err timeout) Error() string {
	return "timeout"
}

func (_ timeout) Timeout() bool {
	return true
}

type wrapper struct {
	wrappedError error
}

func (err wrapper) Error() string {
	return fmt.Sprintf("wrapper - wraps %v", err.wrappedError)
}

func (err wrapper) Unwrap() error {
	return err.wrappedError
}
