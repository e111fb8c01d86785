// Copyright 2021 The httpoll Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"math/rand"
	"sync"
	"time"

	"github.com/gogama/httpoll/request"
)

// A Waiter specifies how long the engine sleeps after a no-socket
// sentinel before polling the transport again.
//
// Implementations of Waiter must be safe for concurrent use by multiple
// goroutines.
//
// The engine will not call the Waiter on a retry policy if the policy
// Decider returned false.
type Waiter interface {
	Wait(e *request.Execution) time.Duration
}

// DefaultBase is the sleep DefaultWaiter returns after the first
// sentinel of a streak.
const DefaultBase = 10 * time.Millisecond

// DefaultMax caps the sleep DefaultWaiter returns.
const DefaultMax = 1 * time.Second

// DefaultWaiter doubles the sleep on every consecutive sentinel, without
// jitter: 10ms, 20ms, 40ms, ... capped at one second.
var DefaultWaiter = NewExpWaiter(DefaultBase, DefaultMax, nil)

// NewFixedWaiter constructs a Waiter that always returns the given
// duration.
func NewFixedWaiter(d time.Duration) Waiter {
	return fixedWaiter(d)
}

type fixedWaiter time.Duration

func (w fixedWaiter) Wait(_ *request.Execution) time.Duration {
	return time.Duration(w)
}

// NewExpWaiter constructs a Waiter whose sleep doubles with every
// consecutive no-socket sentinel:
//
//	ceil := min(base * 2**streak, max)
//
// Base must be positive and max must be at least base.
//
// With a nil jitter the Waiter returns ceil itself. Any other jitter
// selects "Full Jitter" backoff, a uniform random sleep in [0, ceil),
// drawn from a generator seeded by a time.Time, int or int64, or from
// the given rand.Source or *rand.Rand.
func NewExpWaiter(base, max time.Duration, jitter interface{}) Waiter {
	if base < 1 {
		panic("httpoll/retry: base must be positive")
	}
	if max < base {
		panic("httpoll/retry: max must be at least base")
	}
	r := jitterToRand(jitter)
	return &jitterExpWaiter{
		base: base,
		max:  max,
		rand: r,
	}
}

type jitterExpWaiter struct {
	base time.Duration
	max  time.Duration
	rand *rand.Rand
	lock sync.Mutex
}

func (w *jitterExpWaiter) Wait(e *request.Execution) time.Duration {
	ceil := w.ceiling(e.Streak)
	if w.rand == nil || ceil <= 0 {
		return ceil
	}

	w.lock.Lock()
	defer w.lock.Unlock()
	return time.Duration(w.rand.Int63n(int64(ceil)))
}

// ceiling returns min(base << streak, max) without overflowing.
func (w *jitterExpWaiter) ceiling(streak int) time.Duration {
	if streak < 0 {
		streak = 0
	}
	if streak >= 62 || w.base > w.max>>uint(streak) {
		return w.max
	}
	return w.base << uint(streak)
}

func jitterToRand(jitter interface{}) *rand.Rand {
	var s rand.Source
	switch j := jitter.(type) {
	case nil:
		return nil
	case time.Time:
		s = rand.NewSource(j.UnixNano())
	case int:
		s = rand.NewSource(int64(j))
	case int64:
		s = rand.NewSource(j)
	case *rand.Rand:
		if j == nil {
			panic("httpoll/retry: jitter may not be a typed nil")
		}
		return j
	case rand.Source:
		s = j
	default:
		panic("httpoll/retry: invalid jitter type")
	}
	return rand.New(s)
}
