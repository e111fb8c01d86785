// Copyright 2021 The httpoll Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package tracing records httpoll executions as OpenTelemetry spans and
metrics.

Install adds event handlers to a handler group. Each execution becomes
one client span, opened when the execution starts and ended when it
ends. Backoff sleeps, no-socket waits and timeouts are added as span
events; the outcome is recorded as span attributes and status.

InstallMetrics records execution duration, backoff sleeps and timeouts
as OpenTelemetry metrics.

	g := &httpoll.HandlerGroup{}
	tracing.Install(g, otel.Tracer("my-service"))
	client.Handlers = g
*/
package tracing
