// Copyright 2021 The httpoll Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package retry provides the policy the execution engine follows when a
// transport has nothing to wait on (the no-socket sentinel): whether to
// keep polling, and how long to sleep before polling again.
//
// The interface Policy defines a retry Policy. A Policy instance can be
// constructed using NewPolicy by providing a decision-maker, Decider,
// and a sleep time calculator, Waiter:
//
//	decider := retry.Times(5).And(retry.Before(2 * time.Second))
//	waiter := retry.NewExpWaiter(10*time.Millisecond, time.Second, nil)
//	policy := retry.NewPolicy(decider, waiter)
//
// Deciders look at Execution.Sentinels, the number of sentinels already
// absorbed during the execution. Waiters look at Execution.Streak, the
// number of consecutive sentinels since the transport last produced a
// real readiness signal, so the backoff starts over whenever the
// transport makes progress.
package retry
