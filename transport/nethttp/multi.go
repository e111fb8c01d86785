// Copyright 2021 The httpoll Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package nethttp

import (
	"context"
	"time"

	"github.com/gogama/httpoll/transport"
)

type multi struct {
	t        *Transport
	handles  []*handle
	progress chan struct{}
	closed   bool
}

func (m *multi) Add(th transport.Handle) error {
	if m.closed {
		return transport.ErrClosed
	}
	h, ok := th.(*handle)
	if !ok {
		return errForeignHandle
	}
	for _, g := range m.handles {
		if g == h {
			return nil
		}
	}
	h.attach(m.progress)
	m.handles = append(m.handles, h)
	return nil
}

func (m *multi) Remove(th transport.Handle) error {
	h, ok := th.(*handle)
	if !ok {
		return errForeignHandle
	}
	for i, g := range m.handles {
		if g == h {
			h.attach(nil)
			m.handles = append(m.handles[:i], m.handles[i+1:]...)
			break
		}
	}
	return nil
}

// Perform starts the transfer of every idle handle. Transfers proceed on
// their own goroutines so there is never buffered work left for a
// repeated call.
func (m *multi) Perform() (transport.MultiCode, int) {
	if m.closed {
		return transport.MultiBadHandle, 0
	}
	status := transport.MultiOK
	running := 0
	for _, h := range m.handles {
		switch h.start() {
		case stateClosed:
			status = transport.MultiBadHandle
		case stateDone:
		default:
			running++
		}
	}
	return status, running
}

func (m *multi) Wait(ctx context.Context, timeout time.Duration) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	running, resolving := 0, 0
	for _, h := range m.handles {
		switch h.current() {
		case stateRunning:
			running++
		case stateResolving:
			running++
			resolving++
		}
	}
	if running == 0 {
		return 0, nil
	}
	if m.t.SentinelOnResolve && resolving == running {
		return transport.NoSocket, nil
	}

	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case <-m.progress:
		return 1, nil
	case <-expired:
		return 0, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

func (m *multi) Close() error {
	for _, h := range m.handles {
		h.attach(nil)
	}
	m.handles = nil
	m.closed = true
	return nil
}
