package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/naveenspark/tokenchat/internal/config"
	"github.com/naveenspark/tokenchat/internal/logging"
	"github.com/naveenspark/tokenchat/internal/session"
	"github.com/naveenspark/tokenchat/internal/tui"
	"github.com/naveenspark/tokenchat/pkg/client"
	"github.com/naveenspark/tokenchat/pkg/realtime"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) > 0 {
		switch args[0] {
		case "--version", "version", "-v":
			fmt.Fprintln(out, "tokenchat "+version)
			return nil
		case "help", "--help", "-h":
			printHelp(out)
			return nil
		default:
			return fmt.Errorf("unknown command %q (see: tokenchat help)", args[0])
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, closer, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closer.Close() //nolint:errcheck

	logger.Info().
		Str("version", version).
		Str("api", cfg.APIURL).
		Str("ws", cfg.WSURL).
		Msg("starting")

	machine := session.New(
		client.New(cfg.APIURL, cfg.HTTPTimeout),
		newDialer(cfg, logger),
		session.Options{Logger: logger},
	)
	app := tui.NewApp(machine, version)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	// Release the channel even if the program exited without ctrl+c.
	machine.Shutdown()
	logger.Info().Msg("exited")
	return nil
}

// newDialer opens realtime channels against the configured websocket endpoint.
func newDialer(cfg config.Config, logger zerolog.Logger) session.Dialer {
	return func(ctx context.Context) (session.Channel, error) {
		ch, err := realtime.Open(ctx, cfg.WSURL, realtime.Options{
			DialTimeout: cfg.DialTimeout,
			Logger:      logger,
		})
		if err != nil {
			return nil, err
		}
		return ch, nil
	}
}
