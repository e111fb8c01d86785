// Copyright 2021 The httpoll Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"errors"
	"fmt"
	"time"
)

// A Key identifies a handle option. The set of keys is closed: a
// Transport need only understand the keys declared here.
type Key int

const (
	// KeyURL is the request URL (KindString).
	KeyURL Key = iota
	// KeyHTTPGet resets the request method to GET (KindBool).
	KeyHTTPGet
	// KeyPost makes the request a POST carrying KeyPostFields
	// (KindBool).
	KeyPost
	// KeyPostFields is the request body (KindBytes).
	KeyPostFields
	// KeyCustomRequest overrides the request method (KindString).
	KeyCustomRequest
	// KeyNoBody asks for the response body to be skipped, turning the
	// request into a HEAD (KindBool).
	KeyNoBody
	// KeyHTTPHeader lists raw "Name: value" request header lines
	// (KindStrings).
	KeyHTTPHeader
	// KeyCookie is the Cookie request header value (KindString).
	KeyCookie
	// KeyTimeout bounds the whole transfer (KindDuration).
	KeyTimeout
	// KeyUserAgent is the User-Agent request header value (KindString).
	KeyUserAgent
	// KeyReferer is the Referer request header value (KindString).
	KeyReferer
	// KeyVerbose enables transport-level traffic logging (KindBool).
	KeyVerbose
	// KeyHTTPAuth selects the authentication scheme (KindInt, holding
	// an AuthMode).
	KeyHTTPAuth
	// KeyUserPwd holds "user:password" credentials (KindString).
	KeyUserPwd
	// KeyHeaderOut enables recording of the outbound header block for
	// Handle.HeaderOut (KindBool).
	KeyHeaderOut
	// KeyHeaderFunction receives response header lines (KindHeaderFunc).
	KeyHeaderFunction
	keySentinel
)

var keyNames = []string{
	"URL",
	"HTTPGet",
	"Post",
	"PostFields",
	"CustomRequest",
	"NoBody",
	"HTTPHeader",
	"Cookie",
	"Timeout",
	"UserAgent",
	"Referer",
	"Verbose",
	"HTTPAuth",
	"UserPwd",
	"HeaderOut",
	"HeaderFunction",
}

var keyKinds = []Kind{
	KindString,
	KindBool,
	KindBool,
	KindBytes,
	KindString,
	KindBool,
	KindStrings,
	KindString,
	KindDuration,
	KindString,
	KindString,
	KindBool,
	KindInt,
	KindString,
	KindBool,
	KindHeaderFunc,
}

// Keys returns every option key, in declaration order.
func Keys() []Key {
	keys := make([]Key, keySentinel)
	for i := range keys {
		keys[i] = Key(i)
	}
	return keys
}

// Valid reports whether k is one of the declared keys.
func (k Key) Valid() bool {
	return k >= 0 && k < keySentinel
}

// Kind returns the value kind the key accepts.
func (k Key) Kind() Kind {
	if !k.Valid() {
		return KindInvalid
	}
	return keyKinds[k]
}

// String returns the name of the key.
func (k Key) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Key(%d)", int(k))
	}
	return keyNames[k]
}

// A Kind is the type tag of a Value.
type Kind int

const (
	KindInvalid Kind = iota
	KindString
	KindBool
	KindInt
	KindDuration
	KindBytes
	KindStrings
	KindHeaderFunc
)

var kindNames = []string{"invalid", "string", "bool", "int", "duration", "bytes", "strings", "header func"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[0]
	}
	return kindNames[k]
}

// ErrOptionKind is returned when an option value has the wrong kind for
// its key, or the key is unknown.
var ErrOptionKind = errors.New("httpoll/transport: option value kind mismatch")

// Check returns nil if v is an acceptable value for k.
func Check(k Key, v Value) error {
	if !k.Valid() {
		return fmt.Errorf("%w: unknown key %s", ErrOptionKind, k)
	}
	if k.Kind() != v.kind {
		return fmt.Errorf("%w: %s wants %s, got %s", ErrOptionKind, k, k.Kind(), v.kind)
	}
	return nil
}

// A Value is a typed option value. The zero Value has KindInvalid and is
// accepted by no key.
type Value struct {
	kind Kind
	s    string
	i    int64
	b    []byte
	ss   []string
	fn   HeaderFunc
}

// String wraps a string option value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Bool wraps a boolean option value.
func Bool(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.i = 1
	}
	return v
}

// Int wraps an integer option value.
func Int(i int) Value { return Value{kind: KindInt, i: int64(i)} }

// Duration wraps a duration option value.
func Duration(d time.Duration) Value { return Value{kind: KindDuration, i: int64(d)} }

// Bytes wraps a byte slice option value. The slice is not copied.
func Bytes(b []byte) Value { return Value{kind: KindBytes, b: b} }

// Strings wraps a string list option value. The slice is copied.
func Strings(ss []string) Value {
	return Value{kind: KindStrings, ss: append([]string(nil), ss...)}
}

// Func wraps a header function option value.
func Func(fn HeaderFunc) Value { return Value{kind: KindHeaderFunc, fn: fn} }

// Kind returns the kind of v.
func (v Value) Kind() Kind { return v.kind }

func (v Value) AsString() string          { return v.s }
func (v Value) AsBool() bool              { return v.kind == KindBool && v.i != 0 }
func (v Value) AsInt() int                { return int(v.i) }
func (v Value) AsDuration() time.Duration { return time.Duration(v.i) }
func (v Value) AsBytes() []byte           { return v.b }
func (v Value) AsStrings() []string       { return v.ss }
func (v Value) AsHeaderFunc() HeaderFunc  { return v.fn }

// An AuthMode selects an HTTP authentication scheme for KeyHTTPAuth.
type AuthMode int

const (
	AuthBasic AuthMode = 1 << iota
	AuthDigest
	AuthGSSNegotiate
	AuthNTLM
)

const (
	// AuthAny lets the transport pick any scheme it supports.
	AuthAny = AuthBasic | AuthDigest | AuthGSSNegotiate | AuthNTLM
	// AuthAnySafe is AuthAny without Basic.
	AuthAnySafe = AuthAny &^ AuthBasic
)

var authNames = map[string]AuthMode{
	"basic":        AuthBasic,
	"digest":       AuthDigest,
	"gssnegotiate": AuthGSSNegotiate,
	"ntlm":         AuthNTLM,
	"any":          AuthAny,
	"anysafe":      AuthAnySafe,
}

// ParseAuthMode converts a lower-case scheme name (basic, digest,
// gssnegotiate, ntlm, any, anysafe) to an AuthMode.
func ParseAuthMode(name string) (AuthMode, error) {
	m, ok := authNames[name]
	if !ok {
		return 0, fmt.Errorf("httpoll/transport: unknown auth mode %q", name)
	}
	return m, nil
}
