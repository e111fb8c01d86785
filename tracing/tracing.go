// Copyright 2021 The httpoll Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package tracing

import (
	"github.com/gogama/httpoll"
	"github.com/gogama/httpoll/request"
	"github.com/gogama/httpoll/transport"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation name used when Install is given a
// nil tracer.
const TracerName = "github.com/gogama/httpoll"

// Attribute keys set on execution spans, besides the standard HTTP
// method, URL and status code keys.
const (
	ExecIDKey     = attribute.Key("httpoll.exec_id")
	ErrorCodeKey  = attribute.Key("httpoll.error_code")
	TransportKey  = attribute.Key("httpoll.transport_error")
	WaitsKey      = attribute.Key("httpoll.waits")
	SentinelsKey  = attribute.Key("httpoll.sentinels")
	SleepKey      = attribute.Key("httpoll.sleep_ms")
	StreakKey     = attribute.Key("httpoll.streak")
	methodKey     = attribute.Key("http.request.method")
	urlKey        = attribute.Key("url.full")
	statusCodeKey = attribute.Key("http.response.status_code")
)

type spanKey struct{}

type handler struct {
	tracer trace.Tracer
}

// Install adds handlers to g which record every execution as a span
// started from tracer. If tracer is nil, the global tracer provider's
// tracer named TracerName is used.
func Install(g *httpoll.HandlerGroup, tracer trace.Tracer) {
	if tracer == nil {
		tracer = otel.Tracer(TracerName)
	}
	h := &handler{tracer: tracer}
	for _, evt := range []httpoll.Event{
		httpoll.BeforeExecStart,
		httpoll.AfterWait,
		httpoll.BeforeBackoff,
		httpoll.AfterTimeout,
		httpoll.AfterExecEnd,
	} {
		g.PushBack(evt, h)
	}
}

// SpanFromExecution returns the span recording e, or nil if e is not
// being traced.
func SpanFromExecution(e *request.Execution) trace.Span {
	span, _ := e.Value(spanKey{}).(trace.Span)
	return span
}

func (h *handler) Handle(evt httpoll.Event, e *request.Execution) {
	if evt == httpoll.BeforeExecStart {
		h.start(e)
		return
	}
	span := SpanFromExecution(e)
	if span == nil {
		return
	}
	switch evt {
	case httpoll.AfterWait:
		if e.Signal == transport.NoSocket {
			span.AddEvent("no socket", trace.WithAttributes(SentinelsKey.Int(e.Sentinels)))
		}
	case httpoll.BeforeBackoff:
		span.AddEvent("backoff", trace.WithAttributes(
			SleepKey.Int64(e.Sleep.Milliseconds()),
			StreakKey.Int(e.Streak),
			SentinelsKey.Int(e.Sentinels),
		))
	case httpoll.AfterTimeout:
		span.AddEvent("timeout")
	case httpoll.AfterExecEnd:
		end(span, e)
	}
}

func (h *handler) start(e *request.Execution) {
	p := e.Plan
	_, span := h.tracer.Start(p.Context(), "HTTP "+p.Method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			methodKey.String(p.Method),
			urlKey.String(p.URL.String()),
			ExecIDKey.String(e.ID),
		),
	)
	e.SetValue(spanKey{}, span)
}

func end(span trace.Span, e *request.Execution) {
	o := e.Outcome
	span.SetAttributes(
		WaitsKey.Int(e.Waits),
		SentinelsKey.Int(e.Sentinels),
	)
	if o.HTTPStatusCode != 0 {
		span.SetAttributes(statusCodeKey.Int(o.HTTPStatusCode))
	}
	switch {
	case e.Err != nil:
		span.RecordError(e.Err)
		span.SetStatus(codes.Error, e.Err.Error())
	case o.Error:
		span.SetAttributes(
			ErrorCodeKey.Int(o.ErrorCode),
			TransportKey.Bool(o.TransportError),
		)
		span.SetStatus(codes.Error, o.ErrorMessage)
	}
	span.End()
}
