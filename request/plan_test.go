// Copyright 2021 The httpoll Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type planCase struct {
	name            string
	method          string
	url             string
	body            func(*testing.T) interface{}
	wantMethod      string
	wantURL         string
	wantBody        []byte
	wantContentType string
	wantErr         string
}

func constBody(v interface{}) func(*testing.T) interface{} {
	return func(*testing.T) interface{} { return v }
}

func failingBody(readErr, closeErr error) func(*testing.T) interface{} {
	return func(t *testing.T) interface{} {
		m := &mockReadCloser{}
		m.Test(t)
		if readErr != nil {
			m.On("Read", mock.AnythingOfType("[]uint8")).Return(0, readErr).Once()
		} else {
			m.On("Read", mock.AnythingOfType("[]uint8")).Return(0, io.EOF).Once()
			m.On("Close").Return(closeErr).Once()
		}
		return m
	}
}

var planCases = []planCase{
	{
		name:       "default method",
		url:        "https://api.example.com/v1/jobs",
		wantMethod: "GET",
		wantURL:    "https://api.example.com/v1/jobs",
	},
	{
		name:       "extension method",
		method:     "PROPFIND",
		url:        "http://dav.example.com/files/",
		wantMethod: "PROPFIND",
		wantURL:    "http://dav.example.com/files/",
	},
	{
		name:       "trailing colon dropped from host",
		method:     "GET",
		url:        "http://poll.example.com:/status",
		wantMethod: "GET",
		wantURL:    "http://poll.example.com/status",
	},
	{
		name:       "text body",
		method:     "POST",
		url:        "http://example.com/notes",
		body:       constBody("remember the milk"),
		wantMethod: "POST",
		wantURL:    "http://example.com/notes",
		wantBody:   []byte("remember the milk"),
	},
	{
		name:       "byte body",
		method:     "PUT",
		url:        "http://example.com/blob",
		body:       constBody([]byte{0xca, 0xfe}),
		wantMethod: "PUT",
		wantURL:    "http://example.com/blob",
		wantBody:   []byte{0xca, 0xfe},
	},
	{
		name:   "reader body",
		method: "POST",
		url:    "http://example.com/upload",
		body: func(*testing.T) interface{} {
			return strings.NewReader("streamed")
		},
		wantMethod: "POST",
		wantURL:    "http://example.com/upload",
		wantBody:   []byte("streamed"),
	},
	{
		name:   "read closer body",
		method: "POST",
		url:    "http://example.com/upload",
		body: func(*testing.T) interface{} {
			return io.NopCloser(strings.NewReader("closed after read"))
		},
		wantMethod: "POST",
		wantURL:    "http://example.com/upload",
		wantBody:   []byte("closed after read"),
	},
	{
		name:            "form body",
		method:          "POST",
		url:             "http://example.com/login",
		body:            constBody(url.Values{"user": []string{"ann"}, "otp": []string{"42"}}),
		wantMethod:      "POST",
		wantURL:         "http://example.com/login",
		wantBody:        []byte("otp=42&user=ann"),
		wantContentType: ContentTypeForm,
	},
	{
		name:            "JSON body",
		method:          "PATCH",
		url:             "http://example.com/jobs/7",
		body:            constBody(JSON(map[string]bool{"paused": true})),
		wantMethod:      "PATCH",
		wantURL:         "http://example.com/jobs/7",
		wantBody:        []byte(`{"paused":true}`),
		wantContentType: ContentTypeJSON,
	},
	{
		name:       "empty form body sets no content type",
		method:     "POST",
		url:        "http://example.com/login",
		body:       constBody(url.Values{}),
		wantMethod: "POST",
		wantURL:    "http://example.com/login",
	},
	{
		name:    "method with space",
		method:  "GET ALL",
		url:     "http://example.com",
		wantErr: `httpoll/request: invalid method "GET ALL"`,
	},
	{
		name:    "method with tab",
		method:  "\tGET",
		url:     "http://example.com",
		body:    constBody("ignored"),
		wantErr: `httpoll/request: invalid method "\tGET"`,
	},
	{
		name:    "unparseable URL",
		method:  "GET",
		url:     "http://[::1",
		wantErr: `parse "http://[::1": missing ']' in host`,
	},
	{
		name:    "unsupported body",
		method:  "POST",
		url:     "http://example.com",
		body:    constBody(42),
		wantErr: badBodyTypeMsg,
	},
	{
		name:    "body read fails",
		method:  "PUT",
		url:     "http://example.com",
		body:    failingBody(errors.New("disk gone"), nil),
		wantErr: "disk gone",
	},
	{
		name:    "body close fails",
		method:  "PUT",
		url:     "http://example.com",
		body:    failingBody(nil, errors.New("handle leaked")),
		wantErr: "handle leaked",
	},
}

func (c planCase) makeBody(t *testing.T) interface{} {
	if c.body == nil {
		return nil
	}
	return c.body(t)
}

func (c planCase) check(t *testing.T, p *Plan, err error) {
	if c.wantErr != "" {
		assert.Nil(t, p)
		assert.EqualError(t, err, c.wantErr)
		return
	}
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, c.wantMethod, p.Method)
	assert.Equal(t, c.wantURL, p.URL.String())
	assert.Equal(t, c.wantBody, p.Body)
	assert.Equal(t, c.wantContentType, p.Header.Get("Content-Type"))
}

func TestNewPlan(t *testing.T) {
	for _, c := range planCases {
		t.Run(c.name, func(t *testing.T) {
			p, err := NewPlan(c.method, c.url, c.makeBody(t))
			c.check(t, p, err)
			if p != nil {
				assert.Same(t, context.Background(), p.Context())
			}
		})
	}
}

type tenantKey struct{}

func TestNewPlanWithContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), tenantKey{}, "acme")
	for _, c := range planCases {
		t.Run(c.name, func(t *testing.T) {
			p, err := NewPlanWithContext(ctx, c.method, c.url, c.makeBody(t))
			c.check(t, p, err)
			if p != nil {
				assert.Same(t, ctx, p.Context())
			}
		})
	}
	t.Run("nil context", func(t *testing.T) {
		var nilCtx context.Context
		p, err := NewPlanWithContext(nilCtx, "GET", "http://example.com", nil)
		assert.Nil(t, p)
		assert.EqualError(t, err, nilCtxMsg)
	})
}

func TestPlan_AddQuery(t *testing.T) {
	p, err := NewPlan("GET", "http://example.com/search?q=go", nil)
	require.NoError(t, err)
	p.AddQuery(nil)
	assert.Equal(t, "q=go", p.URL.RawQuery)
	p.AddQuery(url.Values{"q": []string{"net"}, "page": []string{"2"}})
	assert.Equal(t, "page=2&q=go&q=net", p.URL.RawQuery)
	assert.Equal(t, "http://example.com/search?page=2&q=go&q=net", p.URL.String())
}

func TestPlan_SetHeader(t *testing.T) {
	p := &Plan{}
	require.NoError(t, p.SetHeader("x-trace", "abc"))
	assert.Equal(t, "abc", p.Header.Get("X-Trace"))
	assert.EqualError(t, p.SetHeader("bad name", "v"), `httpoll/request: invalid header name "bad name"`)
	assert.EqualError(t, p.SetHeader("X-Ok", "line\nbreak"), `httpoll/request: invalid value for header "X-Ok"`)
}

func TestPlan_HeaderLines(t *testing.T) {
	p := &Plan{Header: http.Header{
		"X-B":    []string{"2", "3"},
		"Accept": []string{"*/*"},
	}}
	assert.Equal(t, []string{"Accept: */*", "X-B: 2", "X-B: 3"}, p.HeaderLines())
	assert.Empty(t, (&Plan{}).HeaderLines())
}

func TestPlan_Context(t *testing.T) {
	assert.Same(t, context.Background(), (&Plan{}).Context())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p, err := NewPlanWithContext(ctx, "DELETE", "http://example.com/jobs/7", nil)
	require.NoError(t, err)
	assert.Same(t, ctx, p.Context())
}

func TestPlan_WithContext(t *testing.T) {
	p, err := NewPlan("POST", "http://example.com/jobs", JSON([]int{1, 2}))
	require.NoError(t, err)

	t.Run("nil context", func(t *testing.T) {
		var nilCtx context.Context
		assert.PanicsWithValue(t, nilCtxMsg, func() {
			p.WithContext(nilCtx)
		})
	})
	t.Run("shallow copy", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), tenantKey{}, "globex")
		q := p.WithContext(ctx)
		require.NotSame(t, p, q)
		assert.Same(t, context.Background(), p.Context())
		assert.Same(t, ctx, q.Context())
		assert.Equal(t, p.Method, q.Method)
		assert.Same(t, p.URL, q.URL)
		assert.Equal(t, p.Header, q.Header)
		require.NotEmpty(t, q.Body)
		assert.Same(t, &p.Body[0], &q.Body[0])
	})
}
