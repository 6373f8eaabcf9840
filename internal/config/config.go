// Package config loads tokenchat settings from the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds startup settings. The backend base URL is the only required
// external input; everything else has a default.
type Config struct {
	APIURL      string        `env:"TOKENCHAT_API_URL" envDefault:"http://localhost:3001"`
	WSURL       string        `env:"TOKENCHAT_WS_URL"`
	HTTPTimeout time.Duration `env:"TOKENCHAT_HTTP_TIMEOUT" envDefault:"10s"`
	DialTimeout time.Duration `env:"TOKENCHAT_DIAL_TIMEOUT" envDefault:"10s"`
	LogFile     string        `env:"TOKENCHAT_LOG_FILE"`
	LogLevel    string        `env:"TOKENCHAT_LOG_LEVEL" envDefault:"info"`
}

// Load parses the process environment and fills in derived values.
func Load() (Config, error) {
	return parse(env.Options{})
}

// LoadFrom parses the given variables instead of the process environment.
func LoadFrom(vars map[string]string) (Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.resolve(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) resolve() error {
	api, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("TOKENCHAT_API_URL: %w", err)
	}
	if api.Scheme != "http" && api.Scheme != "https" {
		return fmt.Errorf("TOKENCHAT_API_URL: scheme must be http or https, got %q", api.Scheme)
	}
	if api.Host == "" {
		return errors.New("TOKENCHAT_API_URL: missing host")
	}
	c.APIURL = strings.TrimRight(c.APIURL, "/")

	if c.WSURL == "" {
		c.WSURL = deriveWSURL(api)
	}
	ws, err := url.Parse(c.WSURL)
	if err != nil {
		return fmt.Errorf("TOKENCHAT_WS_URL: %w", err)
	}
	if ws.Scheme != "ws" && ws.Scheme != "wss" {
		return fmt.Errorf("TOKENCHAT_WS_URL: scheme must be ws or wss, got %q", ws.Scheme)
	}
	return nil
}

// deriveWSURL maps http(s)://host/base to ws(s)://host/base/ws.
func deriveWSURL(api *url.URL) string {
	u := *api
	if u.Scheme == "https" {
		u.Scheme = "wss"
	} else {
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws"
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
