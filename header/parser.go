// Copyright 2021 The httpoll Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package header

import (
	"bytes"
	"net/http"
	"strings"
)

const continueLine = "HTTP/1.1 100 Continue"

// A Parser accumulates the header lines of one response. The zero value
// is ready to use. A Parser is not safe for concurrent use.
type Parser struct {
	continuing bool
	lines      []string
	seen       map[string]struct{}
}

// NewParser returns an empty Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Line consumes one raw header line, including its line terminator, and
// returns the length of the raw line. Its signature matches
// transport.HeaderFunc.
func (p *Parser) Line(line []byte) int {
	trimmed := string(bytes.TrimRight(line, "\r\n"))
	switch {
	case trimmed == "":
		p.continuing = false
	case strings.EqualFold(trimmed, continueLine):
		p.continuing = true
	case !p.continuing:
		p.add(trimmed)
	}
	return len(line)
}

func (p *Parser) add(line string) {
	if p.seen == nil {
		p.seen = make(map[string]struct{})
	}
	if _, ok := p.seen[line]; ok {
		return
	}
	p.seen[line] = struct{}{}
	p.lines = append(p.lines, line)
}

// Lines returns the collected header lines in arrival order. The first
// line is normally the status line of the final response.
func (p *Parser) Lines() []string {
	return append([]string(nil), p.lines...)
}

// First returns the first collected line, or "" if there is none.
func (p *Parser) First() string {
	if len(p.lines) == 0 {
		return ""
	}
	return p.lines[0]
}

// Len returns the number of collected lines.
func (p *Parser) Len() int {
	return len(p.lines)
}

// Header returns the collected "Name: value" lines as an http.Header.
func (p *Parser) Header() http.Header {
	return Fields(p.lines)
}

// Fields converts header lines to an http.Header. Lines without a colon,
// such as status lines, are skipped.
func Fields(lines []string) http.Header {
	h := make(http.Header)
	for _, line := range lines {
		i := strings.IndexByte(line, ':')
		if i <= 0 {
			continue
		}
		name := strings.TrimSpace(line[:i])
		if name == "" || strings.HasPrefix(name, "HTTP/") {
			continue
		}
		h.Add(name, strings.TrimSpace(line[i+1:]))
	}
	return h
}
