// Package config loads flowlayout settings from a TOML file.
//
// A file has two optional tables. [layout] overrides fields of
// [layout.DefaultOptions]; [server] configures the HTTP service.
//
//	[layout]
//	direction = "left-to-right"
//	alignment = "compact"
//	node_separation = 32
//	margin = { x = 20, y = 20 }
//
//	[server]
//	addr = ":8080"
//	redis_addr = "localhost:6379"
//	cache_ttl = "24h"
//	session_ttl = "30m"
//
// Unknown keys are rejected so that typos do not silently fall back to
// defaults.
package config

import (
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/flowlayout/pkg/errors"
	"github.com/matzehuels/flowlayout/pkg/layout"
)

// DefaultAddr is the listen address used when [server] sets none.
const DefaultAddr = ":8080"

// Config is the decoded configuration file.
type Config struct {
	Layout layout.Options `toml:"layout"`
	Server Server         `toml:"server"`
}

// Server configures the HTTP service.
type Server struct {
	Addr      string `toml:"addr"`
	RedisAddr string `toml:"redis_addr"`
	CacheTTL   string `toml:"cache_ttl"`
	SessionTTL string `toml:"session_ttl"`
}

// TTL parses CacheTTL. An empty value returns zero, meaning the caller's
// default applies.
func (s Server) TTL() (time.Duration, error) {
	return parseDuration("server.cache_ttl", s.CacheTTL)
}

// IdleTTL parses SessionTTL. An empty value returns zero, meaning the
// caller's default applies.
func (s Server) IdleTTL() (time.Duration, error) {
	return parseDuration("server.session_ttl", s.SessionTTL)
}

func parseDuration(key, v string) (time.Duration, error) {
	if v == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidOptions, err, "%s", key)
	}
	if d < 0 {
		return 0, errors.New(errors.ErrCodeInvalidOptions, "%s must not be negative", key)
	}
	return d, nil
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Layout: layout.DefaultOptions(),
		Server: Server{Addr: DefaultAddr},
	}
}

// Load reads and parses the file at path.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes a configuration from r on top of [Default] and validates it.
func Parse(r io.Reader) (Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		slices.Sort(keys)
		return Config{}, errors.New(errors.ErrCodeInvalidOptions, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the layout options and the server durations.
func (c Config) Validate() error {
	if err := c.Layout.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidOptions, err, "layout")
	}
	if _, err := c.Server.TTL(); err != nil {
		return err
	}
	if _, err := c.Server.IdleTTL(); err != nil {
		return err
	}
	return nil
}
