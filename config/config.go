// Copyright 2021 The httpoll Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix is the prefix of environment variables read by Load and
	// LoadBytes.
	EnvPrefix = "HTTPOLL_"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 60 * time.Second
	// DefaultRetryCount is the default number of backoff sleeps allowed
	// when the transport has no socket to wait on.
	DefaultRetryCount = 2
	// DefaultBackoffBase is the first backoff sleep.
	DefaultBackoffBase = 10 * time.Millisecond
	// DefaultBackoffMax caps the backoff sleep.
	DefaultBackoffMax = time.Second
	// DefaultUserAgent is sent when no user agent is configured.
	DefaultUserAgent = "httpoll/1.0"
)

// Config is the engine configuration of a client.
type Config struct {
	Timeout    time.Duration     `koanf:"timeout" validate:"gt=0"`
	RetryCount int               `koanf:"retry_count" validate:"gte=0"`
	UserAgent  string            `koanf:"user_agent"`
	Referer    string            `koanf:"referer" validate:"omitempty,url"`
	Verbose    bool              `koanf:"verbose"`
	Headers    map[string]string `koanf:"headers"`
	Cookies    map[string]string `koanf:"cookies"`
	Auth       Auth              `koanf:"auth"`
	Backoff    Backoff           `koanf:"backoff"`
}

// Auth selects an HTTP authentication mode and its credentials. An
// empty Mode disables authentication.
type Auth struct {
	Mode     string `koanf:"mode" validate:"omitempty,oneof=basic digest gssnegotiate ntlm any anysafe"`
	Username string `koanf:"username" validate:"required_with=Mode"`
	Password string `koanf:"password"`
}

// Backoff bounds the exponential sleep between consecutive no-socket
// signals.
type Backoff struct {
	Base time.Duration `koanf:"base" validate:"gt=0"`
	Max  time.Duration `koanf:"max" validate:"gtefield=Base"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Timeout:    DefaultTimeout,
		RetryCount: DefaultRetryCount,
		UserAgent:  DefaultUserAgent,
		Backoff: Backoff{
			Base: DefaultBackoffBase,
			Max:  DefaultBackoffMax,
		},
	}
}

// Clone returns a deep copy of c.
func (c Config) Clone() Config {
	c.Headers = cloneMap(c.Headers)
	c.Cookies = cloneMap(c.Cookies)
	return c
}

// Load reads configuration from the YAML file at path, layered over the
// defaults and under environment variables. An empty path skips the
// file. The result is validated.
func Load(path string) (Config, error) {
	k := koanf.New(".")
	if err := loadDefaults(k); err != nil {
		return Config{}, fmt.Errorf("httpoll/config: failed to load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("httpoll/config: failed to load %s: %w", path, err)
		}
	}

	return finish(k)
}

// LoadBytes is like Load but reads the YAML document from b.
func LoadBytes(b []byte) (Config, error) {
	k := koanf.New(".")
	if err := loadDefaults(k); err != nil {
		return Config{}, fmt.Errorf("httpoll/config: failed to load defaults: %w", err)
	}

	if len(b) > 0 {
		if err := k.Load(rawbytes.Provider(b), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("httpoll/config: failed to parse yaml: %w", err)
		}
	}

	return finish(k)
}

func finish(k *koanf.Koanf) (Config, error) {
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: transformEnv,
	}), nil); err != nil {
		return Config{}, fmt.Errorf("httpoll/config: failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("httpoll/config: failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func loadDefaults(k *koanf.Koanf) error {
	d := Default()
	defaults := map[string]any{
		"timeout":      d.Timeout.String(),
		"retry_count":  d.RetryCount,
		"user_agent":   d.UserAgent,
		"verbose":      false,
		"backoff.base": d.Backoff.Base.String(),
		"backoff.max":  d.Backoff.Max.String(),
	}

	return k.Load(confmap.Provider(defaults, "."), nil)
}

func transformEnv(k, v string) (string, any) {
	k = strings.ToLower(strings.TrimPrefix(k, EnvPrefix))
	return strings.ReplaceAll(k, "__", "."), v
}

func cloneMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	n := make(map[string]string, len(m))
	for k, v := range m {
		n[k] = v
	}
	return n
}
