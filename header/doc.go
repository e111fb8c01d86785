// Copyright 2021 The httpoll Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package header parses the response header block a transport streams to
its header function one line at a time.

A Parser is created for a single request execution and installed as the
transport's header function:

	p := header.NewParser()
	err := h.SetOpt(transport.KeyHeaderFunction, transport.Func(p.Line))

Lines of an interim "HTTP/1.1 100 Continue" response, including the
status line itself, never reach the collection; only the header block of
the final response is kept.
*/
package header
