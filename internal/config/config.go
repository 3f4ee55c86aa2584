// Package config reads a project's `.elm-pair/config.json` dotfile, the
// persistent per-project settings a daemon consults on every start (compiler
// path override, compilation-gate timeout). Lookups go through JSONPath via
// github.com/ohler55/ojg, the same library the teacher's generic JSON
// ingest walker uses for selector-driven access into arbitrary JSON, rather
// than a bespoke struct per setting — config.json is meant to grow new keys
// without this package needing a matching new field each time.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ohler55/ojg/jp"
)

// Config is a parsed `.elm-pair/config.json`. A missing file is not an
// error — Load returns a zero-value Config, and every lookup method falls
// back to its documented default.
type Config struct {
	root any
}

// Load reads and parses path, a config.json file. A missing file yields an
// empty Config rather than an error, since having no dotfile at all is the
// common case.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var root any
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &Config{root: root}, nil
}

// lookup runs a JSONPath selector against the parsed document, returning
// its first match.
func (c *Config) lookup(selector string) (any, bool) {
	if c.root == nil {
		return nil, false
	}
	expr, err := jp.ParseString(selector)
	if err != nil {
		return nil, false
	}
	results := expr.Get(c.root)
	if len(results) == 0 {
		return nil, false
	}
	return results[0], true
}

// ElmBinary returns the $.elmBinary override, or fallback if unset or not
// a string.
func (c *Config) ElmBinary(fallback string) string {
	v, ok := c.lookup("$.elmBinary")
	if !ok {
		return fallback
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return fallback
	}
	return s
}

// GateTimeout returns the $.gateTimeoutSeconds override as a duration, or
// fallback if unset or not a positive number.
func (c *Config) GateTimeout(fallback time.Duration) time.Duration {
	v, ok := c.lookup("$.gateTimeoutSeconds")
	if !ok {
		return fallback
	}
	n, ok := v.(float64)
	if !ok || n <= 0 {
		return fallback
	}
	return time.Duration(n * float64(time.Second))
}
