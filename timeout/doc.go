// Copyright 2021 The httpoll Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package timeout defines policies for choosing how long each readiness
// wait may block during an execution. A generic interface for timeout
// policies is provided, Policy, along with policy generating functions
// and a built-in policy.
//
// The client bounds each wait by its configured request timeout unless
// a Policy is plugged in.
package timeout
