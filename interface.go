// Copyright 2021 The httpoll Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpoll

import (
	"context"

	"github.com/gogama/httpoll/request"
)

// Doer is the interface that wraps the basic Do method.
//
// Do executes an HTTP request plan and returns the effective error code
// of the execution: the transport error code if the transport failed,
// otherwise the HTTP status code if it is 4xx or 5xx, otherwise 0.
// Client implements the Doer interface.
//
// Any Doer can be converted into an Executor via the Inflate function.
type Doer interface {
	Do(p *request.Plan) (int, error)
}

// Getter is the interface that wraps the basic Get method.
//
// Get issues a GET to the specified URL with query appended to its
// query string. Parameter query may be nil, a string, url.Values or a
// map[string]string.
type Getter interface {
	Get(ctx context.Context, url string, query interface{}) (int, error)
}

// Header is the interface that wraps the basic Head method.
//
// Head issues a HEAD to the specified URL with query appended to its
// query string.
type Header interface {
	Head(ctx context.Context, url string, query interface{}) (int, error)
}

// Poster is the interface that wraps the basic Post method.
//
// Post issues a POST to the specified URL with data as the request body.
// Parameter data may be any type accepted by request.Encode.
type Poster interface {
	Post(ctx context.Context, url string, data interface{}) (int, error)
}

// Putter is the interface that wraps the basic Put method.
//
// Put issues a PUT to the specified URL. If usePayload is true, data is
// sent as the request body; otherwise it is appended to the query
// string.
type Putter interface {
	Put(ctx context.Context, url string, data interface{}, usePayload bool) (int, error)
}

// Patcher is the interface that wraps the basic Patch method. Its data
// parameters behave as in Putter.
type Patcher interface {
	Patch(ctx context.Context, url string, data interface{}, usePayload bool) (int, error)
}

// Deleter is the interface that wraps the basic Delete method. Its data
// parameters behave as in Putter.
type Deleter interface {
	Delete(ctx context.Context, url string, data interface{}, usePayload bool) (int, error)
}

// Executor is the interface that groups Do with every verb method.
//
// Any Doer can be converted into an Executor via the Inflate function.
type Executor interface {
	Doer
	Getter
	Header
	Poster
	Putter
	Patcher
	Deleter
}

// Get uses the specified Doer to issue a GET to the specified URL.
func Get(ctx context.Context, d Doer, url string, query interface{}) (int, error) {
	return send(ctx, d, "GET", url, query, false)
}

// Head uses the specified Doer to issue a HEAD to the specified URL.
func Head(ctx context.Context, d Doer, url string, query interface{}) (int, error) {
	return send(ctx, d, "HEAD", url, query, false)
}

// Post uses the specified Doer to issue a POST to the specified URL,
// always sending data as the request body.
func Post(ctx context.Context, d Doer, url string, data interface{}) (int, error) {
	return send(ctx, d, "POST", url, data, true)
}

// Put uses the specified Doer to issue a PUT to the specified URL.
func Put(ctx context.Context, d Doer, url string, data interface{}, usePayload bool) (int, error) {
	return send(ctx, d, "PUT", url, data, usePayload)
}

// Patch uses the specified Doer to issue a PATCH to the specified URL.
func Patch(ctx context.Context, d Doer, url string, data interface{}, usePayload bool) (int, error) {
	return send(ctx, d, "PATCH", url, data, usePayload)
}

// Delete uses the specified Doer to issue a DELETE to the specified
// URL.
func Delete(ctx context.Context, d Doer, url string, data interface{}, usePayload bool) (int, error) {
	return send(ctx, d, "DELETE", url, data, usePayload)
}

func send(ctx context.Context, d Doer, method, url string, data interface{}, usePayload bool) (int, error) {
	p, err := newPlan(ctx, method, url, data, usePayload)
	if err != nil {
		return 0, err
	}
	return d.Do(p)
}

func newPlan(ctx context.Context, method, url string, data interface{}, usePayload bool) (*request.Plan, error) {
	if usePayload {
		return request.NewPlanWithContext(ctx, method, url, data)
	}
	q, err := request.Query(data)
	if err != nil {
		return nil, err
	}
	p, err := request.NewPlanWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	p.AddQuery(q)
	return p, nil
}

// Inflate converts any non-nil Doer into an Executor. This may be
// helpful for interop across library boundaries, i.e. if code that only
// has access to a Doer needs to call a function that requires an
// Executor.
func Inflate(d Doer) Executor {
	if d == nil {
		panic("httpoll: nil doer")
	}

	if e, ok := d.(Executor); ok {
		return e
	}

	return inflated{d}
}

type inflated struct {
	doer Doer
}

func (i inflated) Do(p *request.Plan) (int, error) {
	return i.doer.Do(p)
}

func (i inflated) Get(ctx context.Context, url string, query interface{}) (int, error) {
	return Get(ctx, i.doer, url, query)
}

func (i inflated) Head(ctx context.Context, url string, query interface{}) (int, error) {
	return Head(ctx, i.doer, url, query)
}

func (i inflated) Post(ctx context.Context, url string, data interface{}) (int, error) {
	return Post(ctx, i.doer, url, data)
}

func (i inflated) Put(ctx context.Context, url string, data interface{}, usePayload bool) (int, error) {
	return Put(ctx, i.doer, url, data, usePayload)
}

func (i inflated) Patch(ctx context.Context, url string, data interface{}, usePayload bool) (int, error) {
	return Patch(ctx, i.doer, url, data, usePayload)
}

func (i inflated) Delete(ctx context.Context, url string, data interface{}, usePayload bool) (int, error) {
	return Delete(ctx, i.doer, url, data, usePayload)
}
