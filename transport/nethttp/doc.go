// Copyright 2021 The httpoll Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package nethttp implements transport.Transport on top of the Go
// standard HTTP client.
//
// Each handle runs its request on a goroutine owned by the transport,
// started by the first Multi.Perform after the handle is added. The
// goroutine reports its progress to the multi-driver, which is what
// Multi.Wait blocks on. Response header lines are fed to the handle's
// header function as they would appear on the wire, including any
// interim 1xx responses, and the outbound header block is recorded for
// Handle.HeaderOut through net/http/httptrace.
//
// If SentinelOnResolve is set, Multi.Wait returns transport.NoSocket
// while every running handle is resolving its host name, which lets the
// caller back off instead of blocking.
package nethttp
