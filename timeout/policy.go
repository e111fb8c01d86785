// Copyright 2021 The httpoll Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package timeout

import (
	"time"

	"github.com/gogama/httpoll/request"
)

// A Policy defines a timeout policy which may be plugged into the
// client (httpoll.Client) to direct how long each readiness wait may
// block before the poll loop performs again.
//
// Implementations of Policy must be safe for concurrent use by multiple
// goroutines.
type Policy interface {
	// Timeout returns the timeout for the next readiness wait.
	//
	// Parameter e contains the current state of the execution. Its
	// Idle field counts the consecutive waits which timed out without
	// progress.
	Timeout(e *request.Execution) time.Duration
}

// Infinite is a built-in timeout policy which never times out. The wait
// still ends when the request's context is done.
var Infinite Policy = Fixed(1<<63 - 1)

// Fixed constructs a timeout policy that uses the same value for every
// wait.
func Fixed(d time.Duration) Policy {
	return policy([]time.Duration{d})
}

// Adaptive constructs a timeout policy that varies the next wait
// timeout when the preceding waits timed out without progress.
//
// Parameter usual is the timeout used for the first wait and for any
// wait whose predecessor reported progress.
//
// Parameter after contains the timeouts used after consecutive idle
// waits: after[0] after one idle wait, after[1] after two, and so on.
// The last element of after is used once the idle streak outgrows it.
//
// Consider the following timeout policy:
//
//	p := Adaptive(10*time.Millisecond, 100*time.Millisecond, time.Second)
//
// The policy p polls every 10 milliseconds while the transfer is making
// progress, then waits 100 milliseconds after a quiet wait, and then
// one second at a time while the transfer stays quiet.
func Adaptive(usual time.Duration, after ...time.Duration) Policy {
	p := make([]time.Duration, 1, 1+len(after))
	p[0] = usual
	return policy(append(p, after...))
}

type policy []time.Duration

func (p policy) Timeout(e *request.Execution) time.Duration {
	i := e.Idle
	if i < 0 {
		i = 0
	}
	if i > len(p)-1 {
		i = len(p) - 1
	}

	return p[i]
}
