// Copyright 2021 The httpoll Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package outcome classifies the result of a request execution into
// transport errors, HTTP errors and success.
package outcome

// A Record is the classified result of one request execution.
type Record struct {
	// TransportError reports whether the transport failed to complete
	// the HTTP exchange (DNS, connect, TLS, timeout, ...).
	TransportError bool
	// TransportErrorCode is the transport's error code, zero if none.
	TransportErrorCode int
	// TransportErrorMessage is the transport's error description.
	TransportErrorMessage string

	// HTTPError reports whether the peer answered with a 4xx or 5xx
	// status code.
	HTTPError bool
	// HTTPStatusCode is the final response status code, zero if no
	// response was received.
	HTTPStatusCode int
	// HTTPErrorMessage is the first response header line when Error is
	// true, and empty otherwise.
	HTTPErrorMessage string

	// Error is TransportError || HTTPError.
	Error bool
	// ErrorCode is TransportErrorCode if there was a transport error,
	// else HTTPStatusCode if there was an HTTP error, else zero.
	ErrorCode int
	// ErrorMessage is TransportErrorMessage if there was a transport
	// error, else HTTPErrorMessage.
	ErrorMessage string
}

// Classify derives a Record from the transport error code and message,
// the HTTP status code, and the first line of the response header
// collection. Classify is a pure function.
func Classify(code int, message string, status int, firstHeader string) Record {
	r := Record{
		TransportError:        code != 0,
		TransportErrorCode:    code,
		TransportErrorMessage: message,
		HTTPStatusCode:        status,
	}
	class := status / 100
	r.HTTPError = class == 4 || class == 5
	r.Error = r.TransportError || r.HTTPError

	switch {
	case r.TransportError:
		r.ErrorCode = code
	case r.Error:
		r.ErrorCode = status
	}

	// The first header line stands in for an HTTP error description.
	if r.Error {
		r.HTTPErrorMessage = firstHeader
	}
	if r.TransportError {
		r.ErrorMessage = message
	} else {
		r.ErrorMessage = r.HTTPErrorMessage
	}
	return r
}

// IsInfo reports whether status is 1xx.
func IsInfo(status int) bool { return status >= 100 && status < 200 }

// IsSuccess reports whether status is 2xx.
func IsSuccess(status int) bool { return status >= 200 && status < 300 }

// IsRedirect reports whether status is 3xx.
func IsRedirect(status int) bool { return status >= 300 && status < 400 }

// IsError reports whether status is 4xx or 5xx.
func IsError(status int) bool { return status >= 400 && status < 600 }

// IsClientError reports whether status is 4xx.
func IsClientError(status int) bool { return status >= 400 && status < 500 }

// IsServerError reports whether status is 5xx.
func IsServerError(status int) bool { return status >= 500 && status < 600 }

func (r Record) IsInfo() bool        { return IsInfo(r.HTTPStatusCode) }
func (r Record) IsSuccess() bool     { return IsSuccess(r.HTTPStatusCode) }
func (r Record) IsRedirect() bool    { return IsRedirect(r.HTTPStatusCode) }
func (r Record) IsError() bool       { return IsError(r.HTTPStatusCode) }
func (r Record) IsClientError() bool { return IsClientError(r.HTTPStatusCode) }
func (r Record) IsServerError() bool { return IsServerError(r.HTTPStatusCode) }
