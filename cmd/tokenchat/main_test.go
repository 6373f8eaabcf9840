package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/naveenspark/tokenchat/internal/config"
)

func TestRunVersion(t *testing.T) {
	for _, arg := range []string{"--version", "version", "-v"} {
		t.Run(arg, func(t *testing.T) {
			var out bytes.Buffer
			if err := run([]string{arg}, &out); err != nil {
				t.Fatalf("run(%q) error: %v", arg, err)
			}
			if got := strings.TrimSpace(out.String()); got != "tokenchat "+version {
				t.Errorf("output = %q, want %q", got, "tokenchat "+version)
			}
		})
	}
}

func TestRunHelp(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"help"}, &out); err != nil {
		t.Fatalf("run(help) error: %v", err)
	}
	for _, want := range []string{"tokenchat --version", "TOKENCHAT_API_URL", "TOKENCHAT_LOG_FILE"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("help output missing %q", want)
		}
	}
}

func TestRunUnknownCommand(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{"login"}, &out)
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
	if !strings.Contains(err.Error(), "login") {
		t.Errorf("error = %v, want it to name the command", err)
	}
}

func TestNewDialerFailureReturnsNilChannel(t *testing.T) {
	cfg, err := config.LoadFrom(map[string]string{
		"TOKENCHAT_API_URL":      "http://127.0.0.1:1",
		"TOKENCHAT_DIAL_TIMEOUT": "1s",
	})
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	ch, err := newDialer(cfg, zerolog.Nop())(ctx)
	if err == nil {
		t.Fatal("expected dial error against a closed port")
	}
	if ch != nil {
		t.Errorf("channel = %#v, want nil interface on failure", ch)
	}
}
