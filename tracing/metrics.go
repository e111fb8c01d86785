// Copyright 2021 The httpoll Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package tracing

import (
	"github.com/gogama/httpoll"
	"github.com/gogama/httpoll/request"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric names recorded by InstallMetrics.
const (
	MetricDuration = "httpoll.client.execution.duration"
	MetricBackoffs = "httpoll.client.backoffs"
	MetricTimeouts = "httpoll.client.timeouts"
)

// ResultKey classifies an execution for metrics: "success",
// "http_error", "transport_error" or "error".
const ResultKey = attribute.Key("httpoll.result")

var durationBuckets = []float64{
	0.005, 0.01, 0.025, 0.05, 0.075, 0.1, 0.25, 0.5, 0.75, 1, 2.5, 5, 7.5, 10, 30, 60,
}

type metrics struct {
	duration metric.Float64Histogram
	backoffs metric.Int64Counter
	timeouts metric.Int64Counter
}

// InstallMetrics adds handlers to g which record execution duration,
// backoff sleeps and timeouts with meter. If meter is nil, the global
// meter provider's meter named TracerName is used.
func InstallMetrics(g *httpoll.HandlerGroup, meter metric.Meter) error {
	if meter == nil {
		meter = otel.Meter(TracerName)
	}
	var m metrics
	var err error
	m.duration, err = meter.Float64Histogram(
		MetricDuration,
		metric.WithDescription("Duration of httpoll executions"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...),
	)
	if err != nil {
		return err
	}
	m.backoffs, err = meter.Int64Counter(
		MetricBackoffs,
		metric.WithDescription("Backoff sleeps taken because the transport had no socket to wait on"),
		metric.WithUnit("{sleep}"),
	)
	if err != nil {
		return err
	}
	m.timeouts, err = meter.Int64Counter(
		MetricTimeouts,
		metric.WithDescription("Executions which ended in a timeout"),
		metric.WithUnit("{execution}"),
	)
	if err != nil {
		return err
	}
	g.PushBack(httpoll.BeforeBackoff, &m)
	g.PushBack(httpoll.AfterTimeout, &m)
	g.PushBack(httpoll.AfterExecEnd, &m)
	return nil
}

func (m *metrics) Handle(evt httpoll.Event, e *request.Execution) {
	ctx := e.Plan.Context()
	method := methodKey.String(e.Plan.Method)
	switch evt {
	case httpoll.BeforeBackoff:
		m.backoffs.Add(ctx, 1, metric.WithAttributes(method))
	case httpoll.AfterTimeout:
		m.timeouts.Add(ctx, 1, metric.WithAttributes(method))
	case httpoll.AfterExecEnd:
		attrs := []attribute.KeyValue{method, ResultKey.String(result(e))}
		if code := e.Outcome.HTTPStatusCode; code != 0 {
			attrs = append(attrs, statusCodeKey.Int(code))
		}
		m.duration.Record(ctx, e.Duration().Seconds(), metric.WithAttributes(attrs...))
	}
}

func result(e *request.Execution) string {
	o := e.Outcome
	switch {
	case e.Err != nil:
		return "error"
	case o.TransportError:
		return "transport_error"
	case o.HTTPError:
		return "http_error"
	default:
		return "success"
	}
}
