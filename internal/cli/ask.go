// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - Single message command handler for the folio CLI.
//
// USABILITY: Markdown rendering for better CLI experience
//
// Handles "folio ask", which sends one message to the site's assistant and
// prints the reply. On a terminal the reply is rendered with glamour.
//
// Command: ask <message>
// Short:   Ask the assistant one question
//
// Examples:
//   folio ask "What projects have you shipped?"
//   folio ask --raw "Are you available for contract work?" > reply.md
//
// Flags:
//   --raw    Print the reply without markdown rendering
package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/jeranaias/folio-tui/internal/chat"
	"github.com/jeranaias/folio-tui/internal/logging"
)

func newAskCmd(opts *rootOptions) *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "ask <message>",
		Short: "Ask the assistant a single question",
		Long: `Send one message to the site's assistant and print the reply.

Replies are rendered as markdown when stdout is a terminal.

Example:
  folio ask "Which projects used Go?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd, opts, strings.Join(args, " "), raw)
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print the reply without markdown rendering")
	return cmd
}

func runAsk(cmd *cobra.Command, opts *rootOptions, message string, raw bool) error {
	cfg, _, err := opts.load()
	if err != nil {
		return err
	}
	logger, closeLog, err := logging.Setup(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	a, err := newLineApp(cfg, logger, nil, false)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt)
	defer stop()
	a.Start(ctx)

	if !a.Chat.SendMessage(message) {
		return NewCommandError("ask", "send", "message is empty", nil)
	}
	if err := waitFor(ctx, a.Queue, func() bool { return a.Chat.InFlight() == 0 }); err != nil {
		return NewCommandError("ask", "send", "interrupted", err)
	}

	reply, _ := a.Chat.Log().Last()
	if reply.Failure {
		return NewCommandError("ask", "send", chat.SanitizeTerminal(reply.Text), nil)
	}
	displayResponse(cmd.OutOrStdout(), chat.SanitizeTerminal(reply.Text), raw || !IsStdoutTTY())
	return nil
}

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// renderMarkdown renders content for the terminal, returning it unchanged
// when rendering fails.
func renderMarkdown(content string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}
	out, err := r.Render(content)
	if err != nil {
		return content
	}
	return out
}

// displayResponse prints a reply. Markdown is only rendered for terminals
// so piped output stays clean.
func displayResponse(w io.Writer, response string, plain bool) {
	if plain {
		fmt.Fprintln(w, response)
		return
	}
	fmt.Fprint(w, renderMarkdown(response, GetTerminalWidth()-2))
}
