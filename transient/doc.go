// Copyright 2021 The httpoll Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package transient classifies errors from HTTP request execution.
//
// Categorize sorts errors into transient and non-transient categories.
// Code goes one step further and maps an error to the numeric transport
// error code and message recorded in an execution's outcome, which is
// how a transport built on the Go standard library reports failures in
// the same terms as any other transport.
package transient
