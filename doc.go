// Copyright 2021 The httpoll Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package httpoll provides an HTTP client whose request methods are thin
wrappers around a single non-blocking execution engine.

The engine drives a transport handle to completion by alternating a
drive phase (Perform, repeated while the transport has ready work) with
a single suspension point (Wait). When the transport has no socket to
wait on, typically while a host name is still being resolved, the engine
backs off exponentially and gives up with a timeout once the retry
budget is spent. Once the transfer ends, the outcome is classified into
transport error, HTTP error and success.

Create a Client over a transport to begin making requests:

	cfg := config.Default()
	client, err := httpoll.New(&nethttp.Transport{}, cfg)
	...
	code, err := client.Get(ctx, "https://www.example.com/items", url.Values{"page": {"2"}})
	...
	body := client.Response()

The returned code is 0 on success, the transport error code if the
transport failed, and the HTTP status code for 4xx and 5xx responses.
The full classification is available from Outcome. The returned error
is non-nil only for timeouts, cancellation and introspection failures.

Every request consumes the client's handle. Call Reset before issuing
another request on the same client:

	if err := client.Reset(); err != nil {
		...
	}
	code, err = client.Post(ctx, "https://www.example.com/items", request.JSON(item))

To hook into the poll loop, install a handler into the appropriate
handler chain:

	handlers := &httpoll.HandlerGroup{}
	handlers.PushBack(httpoll.BeforeBackoff, httpoll.HandlerFunc(
		func(_ httpoll.Event, e *request.Execution) {
			log.Printf("no socket for %s, sleeping %s", e.Plan.URL, e.Sleep)
		}),
	)
	client.Handlers = handlers

Client.RetryPolicy (package retry) replaces the default backoff budget,
and Client.TimeoutPolicy (package timeout) bounds each readiness wait
differently from the request timeout.

Package tracing provides a handler set that records each execution as an
OpenTelemetry span.

Package httpoll also provides basic interfaces for each request method
(Doer, Getter, Header, Poster, Putter, Patcher and Deleter), a combined
interface (Executor), and functions for working with any Doer (Inflate,
Get, Head, Post, Put, Patch and Delete).
*/
package httpoll
