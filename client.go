// Copyright 2021 The httpoll Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpoll

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/gogama/httpoll/config"
	"github.com/gogama/httpoll/outcome"
	"github.com/gogama/httpoll/request"
	"github.com/gogama/httpoll/retry"
	"github.com/gogama/httpoll/timeout"
	"github.com/gogama/httpoll/transport"
	"github.com/rs/zerolog"
)

var (
	emptyHandlers = HandlerGroup{}
	nopLogger     = zerolog.Nop()
)

// A Client issues HTTP requests by driving a transport handle to
// completion with a non-blocking poll loop.
//
// Each request consumes the client's handle: the handle is closed when
// the request ends, whatever the outcome. Call Reset before the next
// request to obtain a fresh handle and restore the configured defaults.
// A request method called on a spent client returns ErrClosed.
//
// Transport errors (such as a host that cannot be resolved) and HTTP
// errors (4xx and 5xx statuses) are not returned as Go errors. They are
// recorded in the Outcome and summarized by the integer code each
// request method returns. Only timeouts, cancellation and transport
// introspection failures are returned as errors, always wrapped in a
// *url.Error.
//
// A Client is not safe for concurrent use. Use one client per
// goroutine, or synchronize externally.
type Client struct {
	// Handlers allows custom handler chains to be invoked when
	// designated events occur during an execution.
	//
	// If Handlers is nil, no custom handlers will be run.
	Handlers *HandlerGroup
	// RetryPolicy decides whether to keep waiting when the transport
	// has no socket to wait on, and how long to sleep before polling
	// again.
	//
	// If RetryPolicy is nil, a policy built from the configured retry
	// count and backoff bounds is used.
	RetryPolicy retry.Policy
	// TimeoutPolicy chooses how long each readiness wait may block.
	//
	// If TimeoutPolicy is nil, every wait is bounded by the configured
	// request timeout.
	TimeoutPolicy timeout.Policy
	// Logger receives debug logs of the poll loop and a summary of
	// each outcome.
	//
	// If Logger is nil, nothing is logged.
	Logger *zerolog.Logger

	transport transport.Transport
	base      config.Config
	cfg       config.Config
	handle    transport.Handle
	header    http.Header
	cookies   []cookie
	auth      transport.AuthMode
	opts      map[transport.Key]transport.Value
	exec      *request.Execution
	endpoint  string
}

type option struct {
	k transport.Key
	v transport.Value
}

type cookie struct {
	name  string
	value string
}

// New returns a client which executes requests on t using cfg as its
// default configuration. The configuration is validated and a first
// handle is created.
func New(t transport.Transport, cfg config.Config) (*Client, error) {
	if t == nil {
		panic("httpoll: nil transport")
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	c := &Client{
		transport: t,
		base:      cfg.Clone(),
	}
	if err := c.restore(); err != nil {
		return nil, err
	}
	return c, nil
}

// Do executes a request plan on the client's handle. The client's
// configured headers are added to a copy of the plan's own, replacing
// any field of the same name; p itself is not modified.
//
// The returned code is the transport error code if the transport
// failed, otherwise the HTTP status code if it is an error status,
// otherwise 0.
func (c *Client) Do(p *request.Plan) (int, error) {
	if c.handle == nil {
		return 0, ErrClosed
	}
	q := p.WithContext(p.Context())
	q.Header = p.Header.Clone()
	if q.Header == nil {
		q.Header = make(http.Header)
	}
	for name, values := range c.header {
		q.Header[name] = append([]string(nil), values...)
	}
	if err := c.prepare(q); err != nil {
		return 0, err
	}
	return c.run(q)
}

// Get issues a GET to url. Parameter query is appended to the URL's
// query string and may be nil, a string, url.Values or a
// map[string]string.
func (c *Client) Get(ctx context.Context, url string, query interface{}) (int, error) {
	return Get(ctx, c, url, query)
}

// Head issues a HEAD to url. The response body is not read.
func (c *Client) Head(ctx context.Context, url string, query interface{}) (int, error) {
	return Head(ctx, c, url, query)
}

// Post issues a POST to url with data as the request body. See
// request.Encode for the accepted data types.
func (c *Client) Post(ctx context.Context, url string, data interface{}) (int, error) {
	return Post(ctx, c, url, data)
}

// Put issues a PUT to url. If usePayload is true, data is the request
// body; otherwise it is appended to the query string.
func (c *Client) Put(ctx context.Context, url string, data interface{}, usePayload bool) (int, error) {
	return Put(ctx, c, url, data, usePayload)
}

// Patch issues a PATCH to url. Parameters behave as for Put.
func (c *Client) Patch(ctx context.Context, url string, data interface{}, usePayload bool) (int, error) {
	return Patch(ctx, c, url, data, usePayload)
}

// Delete issues a DELETE to url. Parameters behave as for Put.
func (c *Client) Delete(ctx context.Context, url string, data interface{}, usePayload bool) (int, error) {
	return Delete(ctx, c, url, data, usePayload)
}

// SetTimeout sets the request timeout. It bounds both the transfer and
// each readiness wait.
func (c *Client) SetTimeout(d time.Duration) {
	c.cfg.Timeout = d
}

// SetRetryCount sets how many backoff sleeps are allowed while the
// transport has no socket to wait on. It has no effect if RetryPolicy
// is set.
func (c *Client) SetRetryCount(n int) {
	c.cfg.RetryCount = n
}

// SetHeader sets a request header sent with every request until Reset.
func (c *Client) SetHeader(name, value string) error {
	if err := request.ValidHeader(name, value); err != nil {
		return err
	}
	c.header.Set(name, value)
	return nil
}

// SetHeaders sets several request headers. No header is set unless all
// of them are valid.
func (c *Client) SetHeaders(headers map[string]string) error {
	for name, value := range headers {
		if err := request.ValidHeader(name, value); err != nil {
			return err
		}
	}
	for name, value := range headers {
		c.header.Set(name, value)
	}
	return nil
}

// SetCookie adds a cookie sent with every request until Reset. Setting
// a cookie name again replaces its value but keeps its position.
func (c *Client) SetCookie(name, value string) {
	for i := range c.cookies {
		if c.cookies[i].name == name {
			c.cookies[i].value = value
			return
		}
	}
	c.cookies = append(c.cookies, cookie{name: name, value: value})
}

// SetUserAgent sets the User-Agent header.
func (c *Client) SetUserAgent(ua string) {
	c.cfg.UserAgent = ua
}

// SetReferer sets the Referer header.
func (c *Client) SetReferer(referer string) {
	c.cfg.Referer = referer
}

// SetBasicAuthentication enables HTTP Basic authentication.
func (c *Client) SetBasicAuthentication(username, password string) {
	c.SetHTTPAuth(transport.AuthBasic, username, password)
}

// SetHTTPAuth selects the authentication schemes the transport may use
// and the credentials to use with them. A zero mode disables
// authentication.
func (c *Client) SetHTTPAuth(mode transport.AuthMode, username, password string) {
	c.auth = mode
	c.cfg.Auth.Username = username
	c.cfg.Auth.Password = password
}

// Verbose turns transport-level traffic logging on or off.
func (c *Client) Verbose(on bool) {
	c.cfg.Verbose = on
}

// SetOpt sets a raw transport option on the current handle. The option
// is applied after, and so overrides, the options the client derives
// from its own configuration.
func (c *Client) SetOpt(k transport.Key, v transport.Value) error {
	if err := transport.Check(k, v); err != nil {
		return err
	}
	if c.handle == nil {
		return ErrClosed
	}
	if err := c.handle.SetOpt(k, v); err != nil {
		return err
	}
	c.opts[k] = v
	return nil
}

// Opt returns the current value of a transport option on the handle.
// It reports false if the option was never set or the handle is spent.
func (c *Client) Opt(k transport.Key) (transport.Value, bool) {
	if c.handle == nil {
		return transport.Value{}, false
	}
	return c.handle.Opt(k)
}

// Outcome returns the classified result of the last request, or the
// zero Record if there was none since the last Reset.
func (c *Client) Outcome() outcome.Record {
	if c.exec == nil {
		return outcome.Record{}
	}
	return c.exec.Outcome
}

// Execution returns the execution state of the last request, or nil.
func (c *Client) Execution() *request.Execution {
	return c.exec
}

// Response returns the response body of the last request.
func (c *Client) Response() []byte {
	if c.exec == nil {
		return nil
	}
	return c.exec.Body
}

// ResponseHeaders returns the final response header lines of the last
// request, starting with the status line.
func (c *Client) ResponseHeaders() []string {
	if c.exec == nil {
		return nil
	}
	return c.exec.ResponseHeaders
}

// RequestHeaders returns the request header lines the transport sent
// for the last request.
func (c *Client) RequestHeaders() []string {
	if c.exec == nil {
		return nil
	}
	return c.exec.RequestHeaders
}

// Endpoint returns the URL of the last request, including its query
// string.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// The status class predicates evaluate the HTTP status code of the last
// request. They all report false if there was no request or no status.

func (c *Client) IsInfo() bool        { return c.Outcome().IsInfo() }
func (c *Client) IsSuccess() bool     { return c.Outcome().IsSuccess() }
func (c *Client) IsRedirect() bool    { return c.Outcome().IsRedirect() }
func (c *Client) IsError() bool       { return c.Outcome().IsError() }
func (c *Client) IsClientError() bool { return c.Outcome().IsClientError() }
func (c *Client) IsServerError() bool { return c.Outcome().IsServerError() }

// Reset releases the current handle, if any, and creates a fresh one.
// Headers, cookies, options and the last outcome are cleared and the
// configuration given to New is restored.
func (c *Client) Reset() error {
	if c.handle != nil {
		_ = c.handle.Close()
		c.handle = nil
	}
	return c.restore()
}

// Close releases the client's handle without executing a request.
// Request methods return ErrClosed until the next Reset.
func (c *Client) Close() error {
	if c.handle == nil {
		return nil
	}
	h := c.handle
	c.handle = nil
	return h.Close()
}

func (c *Client) restore() error {
	cfg := c.base.Clone()
	auth, err := authMode(cfg.Auth.Mode)
	if err != nil {
		return err
	}
	h, err := c.transport.NewHandle()
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.auth = auth
	c.handle = h
	c.header = make(http.Header, len(cfg.Headers))
	for name, value := range cfg.Headers {
		c.header.Set(name, value)
	}
	c.cookies = c.cookies[:0]
	names := make([]string, 0, len(cfg.Cookies))
	for name := range cfg.Cookies {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c.cookies = append(c.cookies, cookie{name: name, value: cfg.Cookies[name]})
	}
	c.opts = make(map[transport.Key]transport.Value)
	c.exec = nil
	c.endpoint = ""
	return nil
}

// prepare configures the handle for p.
func (c *Client) prepare(p *request.Plan) error {
	c.endpoint = p.URL.String()
	opts := []option{
		{transport.KeyURL, transport.String(c.endpoint)},
		{transport.KeyHTTPHeader, transport.Strings(p.HeaderLines())},
		{transport.KeyTimeout, transport.Duration(c.cfg.Timeout)},
		{transport.KeyUserAgent, transport.String(c.userAgent())},
		{transport.KeyVerbose, transport.Bool(c.cfg.Verbose)},
		{transport.KeyHeaderOut, transport.Bool(true)},
	}
	set := func(k transport.Key, v transport.Value) {
		opts = append(opts, option{k, v})
	}
	switch p.Method {
	case http.MethodGet:
		set(transport.KeyHTTPGet, transport.Bool(true))
	case http.MethodPost:
		set(transport.KeyPost, transport.Bool(true))
		set(transport.KeyPostFields, transport.Bytes(p.Body))
	case http.MethodHead:
		set(transport.KeyNoBody, transport.Bool(true))
	default:
		set(transport.KeyCustomRequest, transport.String(p.Method))
		if len(p.Body) > 0 {
			set(transport.KeyPostFields, transport.Bytes(p.Body))
		}
	}
	if c.cfg.Referer != "" {
		set(transport.KeyReferer, transport.String(c.cfg.Referer))
	}
	if len(c.cookies) > 0 {
		set(transport.KeyCookie, transport.String(c.cookieHeader()))
	}
	if c.auth != 0 {
		set(transport.KeyHTTPAuth, transport.Int(int(c.auth)))
		set(transport.KeyUserPwd, transport.String(c.cfg.Auth.Username+":"+c.cfg.Auth.Password))
	}
	for k, v := range c.opts {
		set(k, v)
	}
	for _, opt := range opts {
		if err := c.handle.SetOpt(opt.k, opt.v); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) userAgent() string {
	if c.cfg.UserAgent == "" {
		return config.DefaultUserAgent
	}
	return c.cfg.UserAgent
}

func (c *Client) cookieHeader() string {
	parts := make([]string, len(c.cookies))
	for i, ck := range c.cookies {
		parts[i] = ck.name + "=" + url.QueryEscape(ck.value)
	}
	return strings.Join(parts, "; ")
}

func (c *Client) retryPolicy() retry.Policy {
	if c.RetryPolicy != nil {
		return c.RetryPolicy
	}
	return retry.NewPolicy(
		retry.Times(c.cfg.RetryCount),
		retry.NewExpWaiter(c.cfg.Backoff.Base, c.cfg.Backoff.Max, nil),
	)
}

func (c *Client) waitTimeout(e *request.Execution) time.Duration {
	if c.TimeoutPolicy != nil {
		return c.TimeoutPolicy.Timeout(e)
	}
	return c.cfg.Timeout
}

func (c *Client) handlers() *HandlerGroup {
	if c.Handlers == nil {
		return &emptyHandlers
	}
	return c.Handlers
}

func (c *Client) logger() *zerolog.Logger {
	if c.Logger == nil {
		return &nopLogger
	}
	return c.Logger
}

func authMode(name string) (transport.AuthMode, error) {
	if name == "" {
		return 0, nil
	}
	return transport.ParseAuthMode(name)
}
