// Copyright 2021 The httpoll Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpoll

import (
	"testing"

	"github.com/gogama/httpoll/request"
	"github.com/stretchr/testify/assert"
)

type call struct {
	tag string
	evt Event
	e   *request.Execution
}

type callLog []call

func (l *callLog) handler(tag string) Handler {
	return HandlerFunc(func(evt Event, e *request.Execution) {
		*l = append(*l, call{tag, evt, e})
	})
}

func TestHandlerGroup_PushBack(t *testing.T) {
	var log callLog
	g := &HandlerGroup{}
	assert.Equal(t, 0, g.Len(BeforeExecStart))
	assert.Equal(t, 0, g.Len(Event(123)))

	assert.PanicsWithValue(t, "httpoll: nil handler", func() { g.PushBack(AfterWait, nil) })
	assert.Panics(t, func() { g.PushBack(Event(-1), log.handler("x")) })
	assert.Panics(t, func() { g.PushBack(Event(numEvents), log.handler("x")) })

	g.PushBack(BeforeExecStart, log.handler("a"))
	g.PushBack(BeforeExecStart, log.handler("b"))
	g.PushBack(BeforeBackoff, log.handler("a"))
	assert.Equal(t, 2, g.Len(BeforeExecStart))
	assert.Equal(t, 1, g.Len(BeforeBackoff))
	assert.Equal(t, 0, g.Len(AfterTimeout))
	assert.Empty(t, log)
}

func TestHandlerGroup_run(t *testing.T) {
	var log callLog
	g := &HandlerGroup{}
	g.PushBack(BeforeExecStart, log.handler("first"))
	g.PushBack(BeforeExecStart, log.handler("second"))
	g.PushBack(AfterWait, log.handler("waiter"))

	e1 := &request.Execution{Waits: 1}
	e2 := &request.Execution{Sentinels: 4}

	g.run(AfterTimeout, e1)
	assert.Empty(t, log)

	g.run(BeforeExecStart, e1)
	g.run(AfterWait, e2)
	g.run(BeforeExecStart, e2)
	assert.Equal(t, callLog{
		{"first", BeforeExecStart, e1},
		{"second", BeforeExecStart, e1},
		{"waiter", AfterWait, e2},
		{"first", BeforeExecStart, e2},
		{"second", BeforeExecStart, e2},
	}, log)

	t.Run("zero group", func(t *testing.T) {
		var empty HandlerGroup
		assert.NotPanics(t, func() { empty.run(AfterExecEnd, e1) })
	})
}

func TestHandlerFunc(t *testing.T) {
	var got Event
	var gotExec *request.Execution
	h := HandlerFunc(func(evt Event, e *request.Execution) {
		got, gotExec = evt, e
	})
	e := &request.Execution{}
	h.Handle(BeforeBackoff, e)
	assert.Equal(t, BeforeBackoff, got)
	assert.Same(t, e, gotExec)
}
