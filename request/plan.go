// Copyright 2021 The httpoll Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	urlpkg "net/url"
	"sort"
	"strings"

	"golang.org/x/net/http/httpguts"
)

const (
	nilCtxMsg = "httpoll/request: nil context"
)

// A Plan describes one logical HTTP request to be executed by a client:
// the method, the URL (including any query string), the request header
// fields and a pre-buffered body.
//
// A Plan has a context which controls the whole execution and can be
// used to cancel it at any time.
type Plan struct {
	// Method specifies the HTTP method (GET, POST, PUT, etc.).
	// An empty string means GET.
	Method string

	// URL specifies the URL to access.
	URL *urlpkg.URL

	// Header contains the request header fields sent in addition to the
	// ones the transport generates itself.
	Header http.Header

	// Body is the pre-buffered request body to be sent. A nil or
	// empty body indicates no request body should be sent.
	Body []byte

	// ctx allows the entire Plan exec to be cancelled. It should only
	// be modified by copying the whole Plan using WithContext.
	ctx context.Context
}

// NewPlan wraps NewPlanWithContext using the background context.
func NewPlan(method, url string, body interface{}) (*Plan, error) {
	return NewPlanWithContext(context.Background(), method, url, body)
}

// NewPlanWithContext returns a new Plan given a method, URL, and
// optional body.
//
// Parameter body may be any value accepted by Encode. When the encoded
// body implies a content type, for example a JSON or form body, the
// Content-Type header is set accordingly.
func NewPlanWithContext(ctx context.Context, method, url string, body interface{}) (*Plan, error) {
	if ctx == nil {
		return nil, errors.New(nilCtxMsg)
	}
	if method == "" {
		method = "GET"
	}
	if !validMethod(method) {
		return nil, fmt.Errorf("httpoll/request: invalid method %q", method)
	}
	u, err := urlpkg.Parse(url)
	if err != nil {
		return nil, err
	}
	u.Host = removeEmptyPort(u.Host)
	b, contentType, err := Encode(body)
	if err != nil {
		return nil, err
	}
	h := make(http.Header)
	if contentType != "" && len(b) > 0 {
		h.Set("Content-Type", contentType)
	}
	return &Plan{
		ctx:    ctx,
		Method: method,
		URL:    u,
		Header: h,
		Body:   b,
	}, nil
}

// Context returns the request plan's context. To change the context, use
// WithContext.
//
// The returned context is always non-nil; it defaults to the
// background context.
func (p *Plan) Context() context.Context {
	if p.ctx != nil {
		return p.ctx
	}
	return context.Background()
}

// WithContext returns a shallow copy of p with its context changed to
// ctx, which must be non-nil.
func (p *Plan) WithContext(ctx context.Context) *Plan {
	if ctx == nil {
		panic(nilCtxMsg)
	}
	p2 := new(Plan)
	*p2 = *p
	p2.ctx = ctx
	return p2
}

// AddQuery merges values into the query string of the plan's URL. Keys
// already present keep their existing values and gain the new ones.
func (p *Plan) AddQuery(values urlpkg.Values) {
	if len(values) == 0 {
		return
	}
	q := p.URL.Query()
	for k, vs := range values {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	p.URL.RawQuery = q.Encode()
}

// SetHeader sets a request header field after validating its name and
// value.
func (p *Plan) SetHeader(name, value string) error {
	if err := ValidHeader(name, value); err != nil {
		return err
	}
	if p.Header == nil {
		p.Header = make(http.Header)
	}
	p.Header.Set(name, value)
	return nil
}

// HeaderLines renders the plan's header fields as "Name: value" lines
// ordered by name, which is the form transports accept them in.
func (p *Plan) HeaderLines() []string {
	names := make([]string, 0, len(p.Header))
	for name := range p.Header {
		names = append(names, name)
	}
	sort.Strings(names)
	lines := make([]string, 0, len(names))
	for _, name := range names {
		for _, v := range p.Header[name] {
			lines = append(lines, name+": "+v)
		}
	}
	return lines
}

// ValidHeader reports an error if name is not a valid header field name
// or value is not a valid header field value.
func ValidHeader(name, value string) error {
	if !httpguts.ValidHeaderFieldName(name) {
		return fmt.Errorf("httpoll/request: invalid header name %q", name)
	}
	if !httpguts.ValidHeaderFieldValue(value) {
		return fmt.Errorf("httpoll/request: invalid value for header %q", name)
	}
	return nil
}

func validMethod(method string) bool {
	return len(method) > 0 && strings.IndexFunc(method, isNotToken) == -1
}

func isNotToken(r rune) bool {
	return !httpguts.IsTokenRune(r)
}

// hasPort is lifted verbatim from net/http/http.go
//
// Given a string of the form "host", "host:port", or "[ipv6::address]:port",
// return true if the string includes a port.
func hasPort(s string) bool { return strings.LastIndex(s, ":") > strings.LastIndex(s, "]") }

// removeEmptyPort is lifted verbatim from net/http/http.go
//
// removeEmptyPort strips the empty port in ":port" to ""
// as mandated by RFC 3986 Section 6.2.3.
func removeEmptyPort(host string) string {
	if hasPort(host) {
		return strings.TrimSuffix(host, ":")
	}
	return host
}
