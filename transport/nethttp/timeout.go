// Copyright 2021 The httpoll Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package nethttp

import (
	"context"
	"time"
)

// withTimeout derives a deadline-bound context from ctx whose cancel
// function also releases parent.
func withTimeout(ctx context.Context, parent context.CancelFunc, d time.Duration) (context.Context, context.CancelFunc) {
	child, cancel := context.WithTimeout(ctx, d)
	return child, func() {
		cancel()
		parent()
	}
}
