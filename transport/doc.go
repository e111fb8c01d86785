// Copyright 2021 The httpoll Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package transport defines the asynchronous transport primitive that the
httpoll execution engine drives.

A transport hands out two kinds of objects. A Handle represents a single
HTTP request, configured through a closed set of option keys (Key) with
typed values (Value). A Multi is a short-lived driver that advances one or
more registered handles without blocking: Perform does all the work that
is ready right now, and Wait suspends the caller until a handle makes
progress, a timeout budget expires, or there is nothing waitable at all,
in which case Wait returns the NoSocket sentinel.

After a handle's transfer has ended, Result and HeaderOut report what
happened: response body, transport error code and message, HTTP status
code, effective URL, and the text of the request headers actually sent.

Package transport/nethttp provides an implementation on top of the Go
standard HTTP client.
*/
package transport
