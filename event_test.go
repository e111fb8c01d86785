// Copyright 2021 The httpoll Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpoll

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvents(t *testing.T) {
	assert.Len(t, eventNames, numEvents)
	assert.Len(t, Events(), numEvents)
	events := Events()
	assert.Equal(t, BeforeExecStart, events[BeforeExecStart])
	assert.Equal(t, AfterPerform, events[AfterPerform])
	assert.Equal(t, AfterWait, events[AfterWait])
	assert.Equal(t, BeforeBackoff, events[BeforeBackoff])
	assert.Equal(t, AfterTimeout, events[AfterTimeout])
	assert.Equal(t, AfterExecEnd, events[AfterExecEnd])
}

func TestEvent_Name(t *testing.T) {
	assert.Equal(t, "BeforeExecStart", BeforeExecStart.Name())
	assert.Equal(t, "AfterPerform", AfterPerform.Name())
	assert.Equal(t, "AfterWait", AfterWait.Name())
	assert.Equal(t, "BeforeBackoff", BeforeBackoff.Name())
	assert.Equal(t, "AfterTimeout", AfterTimeout.Name())
	assert.Equal(t, "AfterExecEnd", AfterExecEnd.Name())
	assert.Equal(t, "AfterWait", AfterWait.String())
}
