// Copyright 2021 The httpoll Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"time"

	"github.com/gogama/httpoll/request"
)

// A Decider decides if the engine may absorb another no-socket sentinel
// and keep polling, or must give up with a timeout error.
//
// Implementations of Decider must be safe for concurrent use by
// multiple goroutines.
type Decider interface {
	Decide(e *request.Execution) bool
}

// The DeciderFunc type is an adapter to allow the use of ordinary
// functions as retry deciders. It implements the Decider interface, and
// also provides the logical composition methods And and Or.
type DeciderFunc func(e *request.Execution) bool

// DefaultTimes is the number of sentinels DefaultPolicy absorbs before
// giving up.
const DefaultTimes = 2

// DefaultDecider allows up to DefaultTimes sentinels per execution.
var DefaultDecider = Times(DefaultTimes)

// Decide returns true if polling should continue.
func (f DeciderFunc) Decide(e *request.Execution) bool {
	return f(e)
}

// And composes two retry deciders into a new decider which returns true
// if both sub-deciders return true, and false otherwise.
//
// Short-circuit logic is used, so g will not be evaluated if f returns
// false.
func (f DeciderFunc) And(g DeciderFunc) DeciderFunc {
	return func(e *request.Execution) bool {
		return f(e) && g(e)
	}
}

// Or composes two retry deciders into a new decider which returns
// true if either of the two sub-deciders returns true, but false if
// they both return false.
//
// Short-circuit logic is used, so g will not be evaluated if f returns
// true.
func (f DeciderFunc) Or(g DeciderFunc) DeciderFunc {
	return func(e *request.Execution) bool {
		return f(e) || g(e)
	}
}

// Times constructs a retry decider which allows up to n sentinels. The
// returned decider returns true while e.Sentinels is less than n, and
// false otherwise.
func Times(n int) DeciderFunc {
	return func(e *request.Execution) bool {
		return e.Sentinels < n
	}
}

// Before constructs a retry decider allowing sentinels until a certain
// amount of time has elapsed since the start of the execution.
func Before(d time.Duration) DeciderFunc {
	return func(e *request.Execution) bool {
		return e.Duration() < d
	}
}
