// Copyright 2021 The httpoll Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpoll

import (
	"context"
	"time"

	"github.com/gogama/httpoll/transport"
)

// fakeTransport hands out scripted handles and multi-drivers and logs
// the calls made on them in order.
type fakeTransport struct {
	calls   []string
	handles []*fakeHandle
	multis  []*fakeMulti

	// newHandle configures each new handle.
	newHandle func(h *fakeHandle)
	// waits is the script of Wait results for each new multi.
	waits []int
	// performs is the script of Perform statuses for each new multi.
	performs  []transport.MultiCode
	multiErr  error
	handleErr error
	// block makes Wait block until its context is done once the
	// script is exhausted.
	block bool
}

func (t *fakeTransport) NewHandle() (transport.Handle, error) {
	if t.handleErr != nil {
		return nil, t.handleErr
	}
	h := &fakeHandle{
		t:    t,
		opts: make(map[transport.Key]transport.Value),
		result: transport.Result{
			Body:       []byte("ok"),
			StatusCode: 200,
		},
		headerLines: []string{"HTTP/1.1 200 OK\r\n", "Content-Type: text/plain\r\n", "\r\n"},
		headerOut:   "GET / HTTP/1.1\r\nHost: example.com\r\n\r\n",
	}
	if t.newHandle != nil {
		t.newHandle(h)
	}
	t.handles = append(t.handles, h)
	return h, nil
}

func (t *fakeTransport) NewMulti() (transport.Multi, error) {
	if t.multiErr != nil {
		return nil, t.multiErr
	}
	m := &fakeMulti{
		t:        t,
		waits:    append([]int(nil), t.waits...),
		performs: append([]transport.MultiCode(nil), t.performs...),
		block:    t.block,
	}
	t.multis = append(t.multis, m)
	return m, nil
}

func (t *fakeTransport) last() *fakeHandle {
	return t.handles[len(t.handles)-1]
}

func (t *fakeTransport) log(call string) {
	t.calls = append(t.calls, call)
}

type fakeHandle struct {
	t            *fakeTransport
	opts         map[transport.Key]transport.Value
	result       transport.Result
	headerLines  []string
	headerOut    string
	headerOutErr error
	rejects      map[transport.Key]error
	closed       int
}

func (h *fakeHandle) SetOpt(k transport.Key, v transport.Value) error {
	if err := transport.Check(k, v); err != nil {
		return err
	}
	if h.closed > 0 {
		return transport.ErrClosed
	}
	if err := h.rejects[k]; err != nil {
		return err
	}
	h.opts[k] = v
	return nil
}

func (h *fakeHandle) Opt(k transport.Key) (transport.Value, bool) {
	v, ok := h.opts[k]
	return v, ok
}

func (h *fakeHandle) Result() transport.Result {
	h.t.log("result")
	return h.result
}

func (h *fakeHandle) HeaderOut() (string, error) {
	h.t.log("header out")
	return h.headerOut, h.headerOutErr
}

func (h *fakeHandle) Close() error {
	h.t.log("close handle")
	h.closed++
	return nil
}

// feed passes the scripted response header lines to the header
// function, if one is installed.
func (h *fakeHandle) feed() {
	fn := h.opts[transport.KeyHeaderFunction].AsHeaderFunc()
	if fn == nil {
		return
	}
	for _, line := range h.headerLines {
		if fn([]byte(line)) != len(line) {
			panic("short header count")
		}
	}
}

type fakeMulti struct {
	t        *fakeTransport
	h        *fakeHandle
	waits    []int
	performs []transport.MultiCode
	block    bool
	fed      bool
	perform  int
	timeouts []time.Duration
}

func (m *fakeMulti) Add(th transport.Handle) error {
	m.t.log("add")
	m.h = th.(*fakeHandle)
	return nil
}

func (m *fakeMulti) Remove(transport.Handle) error {
	m.t.log("remove")
	return nil
}

func (m *fakeMulti) Perform() (transport.MultiCode, int) {
	m.perform++
	status := transport.MultiOK
	if len(m.performs) > 0 {
		status = m.performs[0]
		m.performs = m.performs[1:]
	}
	if status == transport.CallMultiPerform {
		return status, 1
	}
	if len(m.waits) > 0 || m.block {
		return status, 1
	}
	if !m.fed {
		m.fed = true
		m.h.feed()
	}
	return status, 0
}

func (m *fakeMulti) Wait(ctx context.Context, timeout time.Duration) (int, error) {
	m.timeouts = append(m.timeouts, timeout)
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(m.waits) == 0 {
		<-ctx.Done()
		return 0, ctx.Err()
	}
	n := m.waits[0]
	m.waits = m.waits[1:]
	return n, nil
}

func (m *fakeMulti) Close() error {
	m.t.log("close multi")
	return nil
}

// sentinels returns a wait script of n consecutive NoSocket results.
func sentinels(n int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = transport.NoSocket
	}
	return s
}
