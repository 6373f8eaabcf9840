package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadFromDefaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	if cfg.APIURL != "http://localhost:3001" {
		t.Errorf("APIURL = %q, want %q", cfg.APIURL, "http://localhost:3001")
	}
	if cfg.WSURL != "ws://localhost:3001/ws" {
		t.Errorf("WSURL = %q, want %q", cfg.WSURL, "ws://localhost:3001/ws")
	}
	if cfg.HTTPTimeout != 10*time.Second {
		t.Errorf("HTTPTimeout = %v, want 10s", cfg.HTTPTimeout)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
}

func TestLoadFromDerivesWSURL(t *testing.T) {
	tests := []struct {
		api  string
		want string
	}{
		{"http://chat.local:8080", "ws://chat.local:8080/ws"},
		{"https://chat.example.com/", "wss://chat.example.com/ws"},
		{"https://chat.example.com/backend", "wss://chat.example.com/backend/ws"},
	}
	for _, tt := range tests {
		t.Run(tt.api, func(t *testing.T) {
			cfg, err := LoadFrom(map[string]string{"TOKENCHAT_API_URL": tt.api})
			if err != nil {
				t.Fatalf("LoadFrom() error: %v", err)
			}
			if cfg.WSURL != tt.want {
				t.Errorf("WSURL = %q, want %q", cfg.WSURL, tt.want)
			}
			if strings.HasSuffix(cfg.APIURL, "/") {
				t.Errorf("APIURL = %q, want no trailing slash", cfg.APIURL)
			}
		})
	}
}

func TestLoadFromExplicitWSURL(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"TOKENCHAT_API_URL":      "https://api.example.com",
		"TOKENCHAT_WS_URL":       "wss://rt.example.com/socket",
		"TOKENCHAT_HTTP_TIMEOUT": "3s",
	})
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	if cfg.WSURL != "wss://rt.example.com/socket" {
		t.Errorf("WSURL = %q, want explicit value", cfg.WSURL)
	}
	if cfg.HTTPTimeout != 3*time.Second {
		t.Errorf("HTTPTimeout = %v, want 3s", cfg.HTTPTimeout)
	}
}

func TestLoadFromRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
	}{
		{"ftp api url", map[string]string{"TOKENCHAT_API_URL": "ftp://example.com"}},
		{"missing host", map[string]string{"TOKENCHAT_API_URL": "http://"}},
		{"http ws url", map[string]string{"TOKENCHAT_WS_URL": "http://example.com/ws"}},
		{"bad duration", map[string]string{"TOKENCHAT_HTTP_TIMEOUT": "soon"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadFrom(tt.vars); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
