// Copyright 2021 The httpoll Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpoll

// An Event identifies the event type when installing or running a
// Handler. Install event handlers in a Client to extend it with custom
// functionality.
type Event int

const (
	// BeforeExecStart identifies the event that occurs before the poll
	// loop starts.
	//
	// When Client fires BeforeExecStart, the execution's ID and plan
	// are set and the handle has been fully configured, but the
	// multi-driver has not been created yet.
	BeforeExecStart Event = iota
	// AfterPerform identifies the event that occurs after each drive
	// phase, once the multi-driver no longer asks to be called again
	// immediately.
	AfterPerform
	// AfterWait identifies the event that occurs after each readiness
	// wait. The execution's Signal field holds the wait result, which
	// is transport.NoSocket if the transport had nothing to wait on.
	AfterWait
	// BeforeBackoff identifies the event that occurs before the engine
	// sleeps because the transport had nothing to wait on.
	//
	// When Client fires BeforeBackoff, the execution's Sleep field
	// holds the length of the sleep about to happen, and Streak holds
	// the number of consecutive no-socket signals before this one.
	BeforeBackoff
	// AfterTimeout identifies the event that occurs when the execution
	// fails with a timeout, either because the backoff budget ran out
	// or because the transfer produced no usable response.
	//
	// When Client fires AfterTimeout, the execution's Err field holds
	// the timeout error.
	AfterTimeout
	// AfterExecEnd identifies the event that occurs after the execution
	// ends, whether it succeeded or not. The handle is already closed
	// and End is set.
	AfterExecEnd
	// eventSentinel provides the total number of events typed as an
	// Event.
	eventSentinel

	// numEvents provides the total number of events types as an int.
	numEvents = int(eventSentinel)
)

var eventNames = []string{
	"BeforeExecStart",
	"AfterPerform",
	"AfterWait",
	"BeforeBackoff",
	"AfterTimeout",
	"AfterExecEnd",
}

// Events returns a slice containing all events which can occur in an
// execution, in the order in which they would first occur.
func Events() []Event {
	return []Event{
		BeforeExecStart,
		AfterPerform,
		AfterWait,
		BeforeBackoff,
		AfterTimeout,
		AfterExecEnd,
	}
}

// Name returns the name of the event.
func (evt Event) Name() string {
	return eventNames[int(evt)]
}

// String returns the name of the event.
func (evt Event) String() string {
	return evt.Name()
}
