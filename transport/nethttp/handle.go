// Copyright 2021 The httpoll Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package nethttp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptrace"
	"net/textproto"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/gogama/httpoll/transient"
	"github.com/gogama/httpoll/transport"
)

type state int

const (
	stateIdle state = iota
	stateRunning
	stateResolving
	stateDone
	stateClosed
)

type handle struct {
	t    *Transport
	opts map[transport.Key]transport.Value

	mu        sync.Mutex
	state     state
	notify    chan<- struct{}
	cancel    context.CancelFunc
	finished  chan struct{}
	result    transport.Result
	headerOut strings.Builder

	// sent holds the header fields of the most recent request written
	// on the wire. Redirect hops start it over.
	sent    strings.Builder
	writing bool
}

func newHandle(t *Transport) *handle {
	return &handle{
		t:    t,
		opts: make(map[transport.Key]transport.Value),
	}
}

func (h *handle) SetOpt(k transport.Key, v transport.Value) error {
	if err := transport.Check(k, v); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state == stateClosed {
		return transport.ErrClosed
	}
	if h.state != stateIdle {
		return fmt.Errorf("httpoll/nethttp: cannot set %s on a started handle", k)
	}
	h.opts[k] = v
	return nil
}

func (h *handle) Opt(k transport.Key) (transport.Value, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	v, ok := h.opts[k]
	return v, ok
}

func (h *handle) Result() transport.Result {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.result
}

func (h *handle) HeaderOut() (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.opts[transport.KeyHeaderOut].AsBool() {
		return "", transport.ErrInfoUnavailable
	}
	return h.headerOut.String(), nil
}

func (h *handle) Close() error {
	h.mu.Lock()
	if h.state == stateClosed {
		h.mu.Unlock()
		return nil
	}
	prev := h.state
	h.state = stateClosed
	cancel, finished := h.cancel, h.finished
	h.mu.Unlock()

	if prev == stateRunning || prev == stateResolving {
		cancel()
		<-finished
	}
	return nil
}

func (h *handle) attach(notify chan<- struct{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.notify = notify
}

func (h *handle) current() state {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// start launches the transfer if the handle is idle and returns the
// resulting state.
func (h *handle) start() state {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state != stateIdle {
		return h.state
	}
	ctx, cancel := context.WithCancel(context.Background())
	if d := h.opts[transport.KeyTimeout].AsDuration(); d > 0 {
		ctx, cancel = withTimeout(ctx, cancel, d)
	}
	h.cancel = cancel
	h.finished = make(chan struct{})
	h.state = stateRunning
	go h.transfer(ctx)
	return h.state
}

// signal wakes the multi-driver, if any. h.mu must be held.
func (h *handle) signal() {
	if h.notify == nil {
		return
	}
	select {
	case h.notify <- struct{}{}:
	default:
	}
}

func (h *handle) setState(from, to state) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state == from {
		h.state = to
		h.signal()
	}
}

func (h *handle) transfer(ctx context.Context) {
	defer close(h.finished)
	defer h.cancel()

	res := h.exchange(ctx)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.result = res
	if h.state != stateClosed {
		h.state = stateDone
	}
	h.signal()
}

func (h *handle) exchange(ctx context.Context) transport.Result {
	log := h.t.logger()
	verbose := h.opts[transport.KeyVerbose].AsBool()
	hf := h.opts[transport.KeyHeaderFunction].AsHeaderFunc()

	req, err := h.newRequest(ctx)
	if err != nil {
		return failure(err, "")
	}
	if code, msg := h.applyAuth(req); code != transport.OK {
		return transport.Result{ErrCode: code, ErrMessage: msg, EffectiveURL: req.URL.String()}
	}

	aborted := false
	feed := func(line string) bool {
		if hf == nil || aborted {
			return !aborted
		}
		if hf([]byte(line)) != len(line) {
			aborted = true
		}
		return !aborted
	}

	trace := &httptrace.ClientTrace{
		DNSStart: func(httptrace.DNSStartInfo) {
			h.setState(stateRunning, stateResolving)
		},
		DNSDone: func(httptrace.DNSDoneInfo) {
			h.setState(stateResolving, stateRunning)
		},
		WroteHeaderField: func(key string, values []string) {
			h.mu.Lock()
			defer h.mu.Unlock()
			if !h.writing {
				h.sent.Reset()
				h.writing = true
			}
			if strings.HasPrefix(key, ":") {
				return
			}
			for _, v := range values {
				fmt.Fprintf(&h.sent, "%s: %s\r\n", key, v)
			}
		},
		WroteHeaders: func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.writing = false
		},
		Got1xxResponse: func(code int, header textproto.MIMEHeader) error {
			if !feed(fmt.Sprintf("HTTP/1.1 %d %s\r\n", code, http.StatusText(code))) {
				return errHeaderAborted
			}
			for _, line := range headerLines(http.Header(header)) {
				if !feed(line) {
					return errHeaderAborted
				}
			}
			if !feed("\r\n") {
				return errHeaderAborted
			}
			return nil
		},
	}
	req = req.WithContext(httptrace.WithClientTrace(ctx, trace))

	if verbose {
		log.Info().Str("method", req.Method).Str("url", req.URL.String()).Msg("> request")
	}
	resp, err := h.t.doer().Do(req)
	h.recordHeaderOut(lastHop(req, resp, err))
	if err != nil {
		if aborted || errors.Is(err, errHeaderAborted) {
			return headerAborted(req)
		}
		return failure(err, req.URL.String())
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	effective := req.URL.String()
	if resp.Request != nil && resp.Request.URL != nil {
		effective = resp.Request.URL.String()
	}
	if verbose {
		log.Info().Str("status", resp.Status).Str("url", effective).Msg("< response")
	}

	if !feed(fmt.Sprintf("%s %s\r\n", proto(resp), resp.Status)) {
		return headerAborted(req)
	}
	for _, line := range headerLines(resp.Header) {
		if !feed(line) {
			return headerAborted(req)
		}
	}
	if !feed("\r\n") {
		return headerAborted(req)
	}

	res := transport.Result{StatusCode: resp.StatusCode, EffectiveURL: effective}
	if req.Method == http.MethodHead || h.opts[transport.KeyNoBody].AsBool() {
		return res
	}
	body, err := io.ReadAll(resp.Body)
	res.Body = body
	if err != nil {
		res.ErrCode, res.ErrMessage = code(err)
	}
	return res
}

// recordHeaderOut renders the request line and header fields of the
// last request sent.
func (h *handle) recordHeaderOut(method, target, proto string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sent.Len() == 0 {
		return
	}
	h.headerOut.Reset()
	fmt.Fprintf(&h.headerOut, "%s %s %s\r\n", method, target, proto)
	h.headerOut.WriteString(h.sent.String())
	h.headerOut.WriteString("\r\n")
}

// lastHop returns the method, request target and protocol of the final
// request Do sent, which differs from req when redirects were followed.
func lastHop(req *http.Request, resp *http.Response, err error) (string, string, string) {
	method, u, proto := req.Method, req.URL, "HTTP/1.1"
	var urlErr *url.Error
	switch {
	case resp != nil && resp.Request != nil && resp.Request.URL != nil:
		method, u = resp.Request.Method, resp.Request.URL
		if resp.Proto != "" {
			proto = resp.Proto
		}
	case errors.As(err, &urlErr):
		if hop, parseErr := url.Parse(urlErr.URL); parseErr == nil {
			u = hop
		}
	}
	return method, u.RequestURI(), proto
}

func (h *handle) newRequest(ctx context.Context) (*http.Request, error) {
	rawURL := h.opts[transport.KeyURL].AsString()
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}

	method := http.MethodGet
	switch {
	case h.opts[transport.KeyCustomRequest].AsString() != "":
		method = h.opts[transport.KeyCustomRequest].AsString()
	case h.opts[transport.KeyNoBody].AsBool():
		method = http.MethodHead
	case h.opts[transport.KeyPost].AsBool():
		method = http.MethodPost
	}

	var body io.Reader
	fields := h.opts[transport.KeyPostFields].AsBytes()
	if len(fields) > 0 {
		body = bytes.NewReader(fields)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	if len(fields) > 0 && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	for _, line := range h.opts[transport.KeyHTTPHeader].AsStrings() {
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if value == "" {
			req.Header.Del(name)
			continue
		}
		req.Header.Set(name, value)
	}
	if ua := h.opts[transport.KeyUserAgent].AsString(); ua != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", ua)
	}
	if ref := h.opts[transport.KeyReferer].AsString(); ref != "" {
		req.Header.Set("Referer", ref)
	}
	if ck := h.opts[transport.KeyCookie].AsString(); ck != "" {
		req.Header.Set("Cookie", ck)
	}
	return req, nil
}

// applyAuth sets credentials on req. Only the Basic scheme is built in.
func (h *handle) applyAuth(req *http.Request) (int, string) {
	v, ok := h.opts[transport.KeyHTTPAuth]
	if !ok || v.AsInt() == 0 {
		return transport.OK, ""
	}
	mode := transport.AuthMode(v.AsInt())
	if mode&transport.AuthBasic == 0 {
		return transport.ErrNotBuiltIn, transport.CodeText(transport.ErrNotBuiltIn) + ": only basic authentication is supported"
	}
	user, password, _ := strings.Cut(h.opts[transport.KeyUserPwd].AsString(), ":")
	req.SetBasicAuth(user, password)
	return transport.OK, ""
}

var errHeaderAborted = errors.New("httpoll/nethttp: header function aborted")

func headerAborted(req *http.Request) transport.Result {
	return transport.Result{
		ErrCode:      transport.ErrWriteError,
		ErrMessage:   transport.CodeText(transport.ErrWriteError) + ": header function returned a short count",
		EffectiveURL: req.URL.String(),
	}
}

func failure(err error, effective string) transport.Result {
	c, msg := code(err)
	return transport.Result{ErrCode: c, ErrMessage: msg, EffectiveURL: effective}
}

func code(err error) (int, string) {
	if errors.Is(err, context.Canceled) {
		return transport.ErrAbortedByCallback, transport.CodeText(transport.ErrAbortedByCallback)
	}
	return transient.Code(err)
}

func headerLines(header http.Header) []string {
	names := make([]string, 0, len(header))
	for name := range header {
		names = append(names, name)
	}
	sort.Strings(names)
	var lines []string
	for _, name := range names {
		for _, v := range header[name] {
			lines = append(lines, name+": "+v+"\r\n")
		}
	}
	return lines
}

func proto(resp *http.Response) string {
	if resp.Proto != "" {
		return resp.Proto
	}
	return "HTTP/1.1"
}
