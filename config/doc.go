// Copyright 2021 The httpoll Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package config loads and validates the engine configuration of an
httpoll client.

Configuration is layered, lowest priority first:

 1. built-in defaults (see Default);
 2. a YAML document, from a file (Load) or from memory (LoadBytes);
 3. environment variables prefixed with HTTPOLL_.

Environment variable names are lower-cased after the prefix is removed,
and a double underscore separates nesting levels, so HTTPOLL_RETRY_COUNT
sets retry_count and HTTPOLL_BACKOFF__MAX sets backoff.max.

A minimal YAML document looks like:

	timeout: 30s
	retry_count: 3
	user_agent: inventory-sync/1.2
	headers:
	  Accept: application/json
	auth:
	  mode: basic
	  username: sync
	  password: s3cret
*/
package config
