// Copyright 2021 The httpoll Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

// Transport error codes reported in Result.ErrCode. The numbering follows
// libcurl's CURLcode.
const (
	OK                     = 0
	ErrUnsupportedProtocol = 1
	ErrURLMalformat        = 3
	ErrNotBuiltIn          = 4
	ErrCouldntResolveHost  = 6
	ErrCouldntConnect      = 7
	ErrWriteError          = 23
	ErrOperationTimedOut   = 28
	ErrSSLConnect          = 35
	ErrAbortedByCallback   = 42
	ErrTooManyRedirects    = 47
	ErrGotNothing          = 52
	ErrSendError           = 55
	ErrRecvError           = 56
)

var codeMessages = map[int]string{
	OK:                     "No error",
	ErrUnsupportedProtocol: "Unsupported protocol",
	ErrURLMalformat:        "URL using bad/illegal format or missing URL",
	ErrNotBuiltIn:          "A requested feature, protocol or option was not found built-in",
	ErrCouldntResolveHost:  "Could not resolve host name",
	ErrCouldntConnect:      "Could not connect to server",
	ErrWriteError:          "Failed writing received data to disk/application",
	ErrOperationTimedOut:   "Timeout was reached",
	ErrSSLConnect:          "SSL connect error",
	ErrAbortedByCallback:   "Operation was aborted by an application callback",
	ErrTooManyRedirects:    "Number of redirects hit maximum amount",
	ErrGotNothing:          "Server returned nothing (no headers, no data)",
	ErrSendError:           "Failed sending data to the peer",
	ErrRecvError:           "Failure when receiving data from the peer",
}

// CodeText returns the generic description of a transport error code.
func CodeText(code int) string {
	if s, ok := codeMessages[code]; ok {
		return s
	}
	return "Unknown error"
}
