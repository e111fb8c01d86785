// Copyright 2021 The httpoll Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"time"

	"github.com/gogama/httpoll/request"
)

// A Policy decides whether the engine keeps polling after a no-socket
// sentinel and how long it sleeps first.
//
// Implementations of Policy must be safe for concurrent use by multiple
// goroutines.
type Policy interface {
	Decider
	Waiter
}

// DefaultPolicy composes DefaultDecider and DefaultWaiter. It absorbs
// two sentinels, sleeping 10ms and then 20ms.
var DefaultPolicy Policy = policy{DefaultDecider, DefaultWaiter}

// Never is a policy that gives up on the first sentinel.
var Never Policy = policy{Times(0), DefaultWaiter}

type policy struct {
	decider Decider
	waiter  Waiter
}

// NewPolicy composes a Decider and a Waiter into a retry Policy.
func NewPolicy(d Decider, w Waiter) Policy {
	if d == nil {
		panic("httpoll/retry: nil decider")
	}
	if w == nil {
		panic("httpoll/retry: nil waiter")
	}
	return policy{decider: d, waiter: w}
}

func (p policy) Decide(e *request.Execution) bool {
	return p.decider.Decide(e)
}

func (p policy) Wait(e *request.Execution) time.Duration {
	return p.waiter.Wait(e)
}
