// Copyright 2021 The httpoll Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpoll

import (
	"context"
	"strings"
	"time"

	"github.com/gogama/httpoll/header"
	"github.com/gogama/httpoll/outcome"
	"github.com/gogama/httpoll/request"
	"github.com/gogama/httpoll/transport"
	"github.com/rs/zerolog"
)

// run executes p on the client's handle, consuming it. The handle is
// closed before AfterExecEnd fires.
func (c *Client) run(p *request.Plan) (int, error) {
	h := c.handle
	c.handle = nil

	e := request.NewExecution(p)
	c.exec = e
	handlers := c.handlers()
	log := c.logger().With().
		Str("exec_id", e.ID).
		Str("method", p.Method).
		Str("url", c.endpoint).
		Logger()

	handlers.run(BeforeExecStart, e)
	e.Start = time.Now()
	log.Debug().Msg("exec start")

	parser := header.NewParser()
	var code int
	err := c.installParser(h, parser)
	if err != nil {
		err = urlErrorWrap(p, err)
	} else {
		code, err = c.drive(p.Context(), h, e, parser, handlers, &log)
	}
	_ = h.Close()
	e.Err = err

	e.End = time.Now()
	logOutcome(&log, e, err)
	handlers.run(AfterExecEnd, e)
	return code, err
}

// installParser routes response header lines into parser unless the
// caller set a header function of their own.
func (c *Client) installParser(h transport.Handle, parser *header.Parser) error {
	if _, custom := c.opts[transport.KeyHeaderFunction]; custom {
		return nil
	}
	return h.SetOpt(transport.KeyHeaderFunction, transport.Func(parser.Line))
}

func (c *Client) drive(ctx context.Context, h transport.Handle, e *request.Execution, parser *header.Parser, handlers *HandlerGroup, log *zerolog.Logger) (int, error) {
	p := e.Plan
	m, err := c.transport.NewMulti()
	if err != nil {
		return 0, urlErrorWrap(p, err)
	}
	if err = m.Add(h); err != nil {
		_ = m.Close()
		return 0, urlErrorWrap(p, err)
	}
	detached := false
	detach := func() {
		if !detached {
			detached = true
			_ = m.Remove(h)
			_ = m.Close()
		}
	}
	defer detach()

	if err = c.poll(ctx, m, e, handlers, log); err != nil {
		e.Err = err
		if e.Timeout() {
			handlers.run(AfterTimeout, e)
		}
		return 0, err
	}

	res := h.Result()
	out, infoErr := h.HeaderOut()
	detach()

	e.Body = res.Body
	e.EffectiveURL = res.EffectiveURL
	e.ResponseHeaders = parser.Lines()
	if infoErr != nil {
		return 0, urlErrorWrap(p, &InfoError{URL: p.URL.String(), Err: infoErr})
	}
	e.RequestHeaders = splitLines(out)
	e.Outcome = outcome.Classify(res.ErrCode, res.ErrMessage, res.StatusCode, parser.First())

	if len(e.Body) == 0 && !e.Outcome.TransportError && e.Outcome.HTTPStatusCode == 0 {
		e.Err = timeoutError(p, c.cfg.Timeout, reasonEmpty)
		handlers.run(AfterTimeout, e)
		return 0, e.Err
	}

	return e.Outcome.ErrorCode, nil
}

// poll drives m until no transfer is running, the perform status turns
// bad, or an error ends the execution.
func (c *Client) poll(ctx context.Context, m transport.Multi, e *request.Execution, handlers *HandlerGroup, log *zerolog.Logger) error {
	p := e.Plan
	policy := c.retryPolicy()
	for {
		status, running := perform(m)
		handlers.run(AfterPerform, e)
		if running == 0 {
			return nil
		}

		signal, err := m.Wait(ctx, c.waitTimeout(e))
		if err != nil {
			return urlErrorWrap(p, err)
		}
		e.Signal = signal
		handlers.run(AfterWait, e)

		if signal == transport.NoSocket {
			if !policy.Decide(e) {
				log.Warn().
					Int("sentinels", e.Sentinels).
					Dur("timeout", c.cfg.Timeout).
					Msg("no socket to wait on, giving up")
				e.Err = timeoutError(p, c.cfg.Timeout, reasonNoSocket)
				return e.Err
			}
			e.Sentinels++
			e.Sleep = policy.Wait(e)
			handlers.run(BeforeBackoff, e)
			log.Debug().
				Int("attempt", e.Sentinels).
				Dur("sleep", e.Sleep).
				Msg("no socket to wait on, backing off")
			if err = sleep(ctx, e.Sleep); err != nil {
				return urlErrorWrap(p, err)
			}
			e.Streak++
			continue
		}

		e.Waits++
		e.Streak = 0
		if signal == 0 {
			e.Idle++
		} else {
			e.Idle = 0
		}
		if status != transport.MultiOK {
			log.Debug().Int("status", int(status)).Msg("perform failed")
			return nil
		}
	}
}

func perform(m transport.Multi) (transport.MultiCode, int) {
	for {
		status, running := m.Perform()
		if status != transport.CallMultiPerform {
			return status, running
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func splitLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\r\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func logOutcome(log *zerolog.Logger, e *request.Execution, err error) {
	if err != nil {
		log.Debug().Err(err).Dur("duration", e.Duration()).Msg("exec failed")
		return
	}
	o := e.Outcome
	var evt *zerolog.Event
	if o.Error {
		evt = log.Info()
	} else {
		evt = log.Debug()
	}
	evt.Int("status", o.HTTPStatusCode).
		Int("error_code", o.ErrorCode).
		Bool("transport_error", o.TransportError).
		Int("waits", e.Waits).
		Int("sentinels", e.Sentinels).
		Dur("duration", e.Duration()).
		Msg("exec end")
}
