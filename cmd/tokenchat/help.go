package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

func printHelp(out io.Writer) {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#4ade80")).
		Bold(true).
		Render("T O K E N C H A T")

	tagline := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render("Start a room, share the six-character token, talk.")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	commands := []struct{ cmd, desc string }{
		{"tokenchat", "Open the chat client"},
		{"tokenchat --version", "Show version"},
		{"tokenchat help", "You are here"},
	}
	envVars := []struct{ name, desc string }{
		{"TOKENCHAT_API_URL", "Backend base URL (default http://localhost:3001)"},
		{"TOKENCHAT_WS_URL", "Realtime endpoint (default derived from the API URL)"},
		{"TOKENCHAT_HTTP_TIMEOUT", "Token request timeout (default 10s)"},
		{"TOKENCHAT_DIAL_TIMEOUT", "Realtime connect timeout (default 10s)"},
		{"TOKENCHAT_LOG_FILE", "Write JSON logs to this file"},
		{"TOKENCHAT_LOG_LEVEL", "debug, info, warn, error (default info)"},
	}

	fmt.Fprintf(out, "\n  %s\n\n  %s\n\n  Commands:\n", title, tagline)
	for _, c := range commands {
		fmt.Fprintf(out, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-24s", c.cmd)), descStyle.Render(c.desc))
	}
	fmt.Fprintf(out, "\n  Environment:\n")
	for _, e := range envVars {
		fmt.Fprintf(out, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-24s", e.name)), descStyle.Render(e.desc))
	}
	fmt.Fprintln(out)
}
