package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWithoutPathIsDisabled(t *testing.T) {
	logger, closer, err := New("", "debug")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer closer.Close() //nolint:errcheck
	logger.Info().Msg("dropped") // must not panic
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokenchat.log")
	logger, closer, err := New(path, "INFO")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	logger.Debug().Msg("below level")
	logger.Info().Str("token", "AB12CD").Msg("room joined")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `"message":"room joined"`) {
		t.Errorf("log = %q, want the info line", out)
	}
	if strings.Contains(out, "below level") {
		t.Errorf("log = %q, want debug line filtered", out)
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokenchat.log")
	if _, _, err := New(path, "loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
