// Copyright 2021 The httpoll Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"context"
	"errors"
	"time"
)

// NoSocket is the value Multi.Wait returns when none of the registered
// handles currently has anything to wait on, typically because they are
// all still resolving a host name.
const NoSocket = -1

// A MultiCode is the status reported by Multi.Perform.
type MultiCode int

const (
	// CallMultiPerform means the driver has more buffered work ready
	// and Perform should be called again immediately.
	CallMultiPerform MultiCode = -1
	// MultiOK means Perform did all the work it could.
	MultiOK MultiCode = 0
	// MultiBadHandle means a handle registered with the driver is not
	// usable (for example it was closed while registered).
	MultiBadHandle MultiCode = 1
	// MultiInternalError means the driver failed in an unexpected way.
	MultiInternalError MultiCode = 4
)

// ErrClosed is returned when an operation is attempted on a closed
// handle or driver.
var ErrClosed = errors.New("httpoll/transport: use of closed handle")

// ErrInfoUnavailable is returned by Handle.HeaderOut when the handle was
// not configured to record its outbound headers (KeyHeaderOut).
var ErrInfoUnavailable = errors.New("httpoll/transport: header out not recorded")

// A Transport creates handles and multi-drivers. Implementations must be
// safe for concurrent use by multiple goroutines; the objects they return
// need not be.
type Transport interface {
	NewHandle() (Handle, error)
	NewMulti() (Multi, error)
}

// A Handle is one HTTP request as understood by a Transport.
type Handle interface {
	// SetOpt sets an option. It returns ErrOptionKind if the value
	// kind does not suit the key, and ErrClosed after Close.
	SetOpt(k Key, v Value) error
	// Opt returns the current value of an option, and whether it has
	// been set.
	Opt(k Key) (Value, bool)
	// Result reports the outcome of the handle's transfer. It is only
	// meaningful after the transfer ended.
	Result() Result
	// HeaderOut returns the outbound request header block, exactly as
	// sent. It returns ErrInfoUnavailable unless KeyHeaderOut was set.
	HeaderOut() (string, error)
	// Close releases the handle. Closing twice is a no-op.
	Close() error
}

// A Multi drives registered handles to completion without blocking
// except inside Wait.
type Multi interface {
	Add(h Handle) error
	Remove(h Handle) error
	// Perform advances every registered handle as far as possible
	// without blocking. It returns the driver status and the number of
	// handles whose transfers are still running.
	Perform() (MultiCode, int)
	// Wait blocks until a registered handle makes progress, timeout
	// elapses, or ctx is done. It returns the number of handles with
	// progress (0 on timeout), or NoSocket when there is nothing to
	// wait on. It returns a non-nil error only if ctx is done.
	Wait(ctx context.Context, timeout time.Duration) (int, error)
	Close() error
}

// Result is the post-completion introspection data of a Handle.
type Result struct {
	Body         []byte
	ErrCode      int
	ErrMessage   string
	StatusCode   int
	EffectiveURL string
}

// A HeaderFunc receives raw response header lines, including the line
// terminator, in the order the transport reads them. It must return
// len(line); any other value aborts the transfer with ErrWriteError.
type HeaderFunc func(line []byte) int
