// Copyright 2021 The httpoll Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transient

import (
	"errors"
	"net"
	"syscall"
)

// A Category is the transience category of an error, as reported by
// Categorize.
//
// Not means a retry is very unlikely to succeed. Every other category
// means a retry has some prospect of success.
type Category int

const (
	// Not indicates any non-transient error.
	Not Category = iota
	// Timeout indicates a client-side timeout. Categorize returns
	// Timeout if the first error in the chain having a Timeout method
	// reports true.
	Timeout
	// ConnRefused indicates the remote host refused the connection
	// (ECONNREFUSED). A service that is starting or restarting is
	// briefly not listening on its port, so refusal is worth retrying.
	ConnRefused
	// ConnReset indicates the remote host reset a previously active TCP
	// connection (ECONNRESET).
	ConnReset
	// Resolve indicates a temporary name resolution failure, for
	// example a DNS server that could not be reached. A host that does
	// not exist is categorized as Not.
	Resolve
)

var categoryNames = [...]string{
	Not:         "not transient",
	Timeout:     "timeout",
	ConnRefused: "connection refused",
	ConnReset:   "connection reset",
	Resolve:     "resolve",
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "unknown"
	}
	return categoryNames[c]
}

// Categorize returns the transience category of err. A nil error and a
// non-transient error both produce Not.
//
// Categorize looks at the causes wrapped within err, not just err
// itself. It never consults a Temporary method.
func Categorize(err error) Category {
	if err == nil {
		return Not
	}

	var hasTimeout hasTimeout
	if errors.As(err, &hasTimeout) && hasTimeout.Timeout() {
		return Timeout
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ECONNRESET:
			return ConnReset
		case syscall.ECONNREFUSED:
			return ConnRefused
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && dnsErr.IsTemporary && !dnsErr.IsNotFound {
		return Resolve
	}

	return Not
}

type hasTimeout interface {
	Timeout() bool
}
