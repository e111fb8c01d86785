// Copyright 2021 The httpoll Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package request contains the core types Plan (describes an HTTP request)
and Execution (describes the state of executing a Plan).

A Plan holds the method, URL, header fields and pre-buffered body of one
logical request. The client builds a Plan for every verb call, but one
can also be constructed directly:

	p, err := request.NewPlan("POST", "https://example.com/things", request.JSON(thing))

Request data may be given as a string, []byte, io.Reader, url.Values,
map[string]string or a JSON wrapper. Encode turns such a value into a
body and Query turns it into query string values.

An Execution is both the output of a client's exec call and the input
to retry policies and event handlers. It records the poll loop's
progress (Waits, Sentinels, Streak, Sleep), the classified Outcome, the
response body and the request and response header lines.
*/
package request
