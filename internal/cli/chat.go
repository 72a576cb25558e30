// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat command handler for the folio CLI.
//
// USABILITY: Line editing and history for better CLI experience
//
// Handles "folio chat", a REPL over the same chat controller the TUI uses.
// Input history is kept in the config directory.
//
// Command: chat
// Short:   Chat with the assistant in the terminal
//
// Slash commands:
//   /help              Show commands
//   /history           Show the turns sent as context
//   /export [format]   Export the transcript (html, markdown, json)
//   /voice             Capture one spoken message
//   /quit              Leave
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/jeranaias/folio-tui/internal/app"
	"github.com/jeranaias/folio-tui/internal/chat"
	"github.com/jeranaias/folio-tui/internal/config"
	"github.com/jeranaias/folio-tui/internal/logging"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI provides input history and line editing for line-mode chat.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a ChatCLI and loads saved history.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	c := &ChatCLI{line: line, historyFile: filepath.Join(dir, "chat_history")}
	c.LoadHistory()
	return c
}

// LoadHistory loads input history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line with the given prompt.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory writes input history with owner-only permissions.
func (c *ChatCLI) SaveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and restores the terminal.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// COMMAND
// =============================================================================

func newChatCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Chat with the assistant line by line",
		Long: `Start a line-mode conversation with the site's assistant.

Commands inside the session:
  /voice           Speak one message (when a recognizer is installed)
  /history         Show the context sent with each message
  /export [format] Save the conversation (html, markdown or json)
  /help            Show this help
  /quit            Leave`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runChat(cmd, opts)
		},
	}
}

// printNotifier writes notifications as dim lines.
type printNotifier struct{ w io.Writer }

func (p printNotifier) Notify(message string, _ time.Duration) {
	fmt.Fprintln(p.w, DimStyle.Render(message))
}

// chatSession is one line-mode conversation.
type chatSession struct {
	app *app.App
	out io.Writer
	ctx context.Context
}

func runChat(cmd *cobra.Command, opts *rootOptions) error {
	if err := RequiresTTY("chat"); err != nil {
		return err
	}
	cfg, _, err := opts.load()
	if err != nil {
		return err
	}
	logger, closeLog, err := logging.Setup(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	a, err := newLineApp(cfg, logger, printNotifier{w: cmd.ErrOrStderr()}, true)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := commandContext(cmd)
	s := &chatSession{app: a, out: cmd.OutOrStdout(), ctx: ctx}
	a.Start(ctx)
	a.Chat.Open()
	a.Chat.Log().OnAppend(s.printMessage)
	s.printWelcome()

	input := NewChatCLI()
	defer input.Close()

	for {
		line, err := input.ReadInput("you> ")
		if err != nil {
			// Ctrl+C, Ctrl+D or a closed stdin all end the session.
			fmt.Fprintln(s.out)
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			if !s.handleSlashCommand(line) {
				return nil
			}
			continue
		}
		s.send(line)
	}
}

// send posts one message and waits for the reply, which printMessage shows.
func (s *chatSession) send(text string) {
	if !s.app.Chat.SendMessage(text) {
		return
	}
	fmt.Fprintln(s.out, DimStyle.Render("Assistant is typing..."))
	s.wait(func() bool { return s.app.Chat.InFlight() == 0 })
}

// wait drives the queue until done. Ctrl+C abandons the wait but not
// the session.
func (s *chatSession) wait(done func() bool) {
	ctx, stop := signal.NotifyContext(s.ctx, os.Interrupt)
	defer stop()
	err := waitFor(ctx, s.app.Queue, done)
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(s.out, WarningStyle.Render("[Cancelled]"))
	default:
		fmt.Fprintln(s.out, WarningStyle.Render(err.Error()))
	}
}

func (s *chatSession) printMessage(m chat.Message) {
	if m.Sender != chat.Assistant {
		return
	}
	text := chat.SanitizeTerminal(m.Text)
	if m.Failure {
		fmt.Fprintln(s.out, ErrorStyle.Render("assistant>"), text)
		return
	}
	fmt.Fprint(s.out, PromptStyle.Render("assistant>")+"\n")
	displayResponse(s.out, text, !IsStdoutTTY())
}

func (s *chatSession) printWelcome() {
	fmt.Fprintln(s.out, TitleStyle.Render("folio chat"))
	fmt.Fprintln(s.out, DimStyle.Render("Connected to "+s.app.Config.Site.BaseURL+". Type /help for commands."))
	if replies := s.app.Chat.QuickReplies(); len(replies) > 0 {
		fmt.Fprintln(s.out, DimStyle.Render("Try: "+strings.Join(replies, " | ")))
	}
	if n := len(s.app.History()); n > 0 {
		fmt.Fprintln(s.out, DimStyle.Render(fmt.Sprintf("Resumed %d earlier exchanges.", n)))
	}
}

// handleSlashCommand runs a /command and reports whether to keep going.
func (s *chatSession) handleSlashCommand(line string) bool {
	fields := strings.Fields(line)
	switch strings.ToLower(fields[0]) {
	case "/quit", "/exit", "/q":
		return false

	case "/help", "/?":
		fmt.Fprintln(s.out, "/voice  /history  /export [html|markdown|json]  /help  /quit")

	case "/history":
		turns := s.app.History()
		if len(turns) == 0 {
			fmt.Fprintln(s.out, DimStyle.Render("No context yet."))
		}
		for i, t := range turns {
			fmt.Fprintf(s.out, "%d. %s %s\n   %s %s\n", i+1,
				LabelStyle.Width(0).Render("you:"), chat.SanitizeTerminal(t.User),
				LabelStyle.Width(0).Render("assistant:"), chat.SanitizeTerminal(t.AI))
		}

	case "/export":
		format := ""
		if len(fields) > 1 {
			format = fields[1]
		}
		path, err := s.app.Export(format)
		if err != nil {
			fmt.Fprintln(s.out, ErrorStyle.Render("export failed:"), err)
			break
		}
		fmt.Fprintln(s.out, SuccessStyle.Render("Exported to "+path))

	case "/voice":
		if !s.app.Voice.Available() {
			fmt.Fprintln(s.out, WarningStyle.Render("Voice input is not available; install a recognizer and set voice.command."))
			break
		}
		s.app.Voice.Toggle()
		fmt.Fprintln(s.out, DimStyle.Render(s.app.Voice.Placeholder()))
		s.wait(func() bool { return !s.app.Voice.Listening() && s.app.Chat.InFlight() == 0 })
		s.app.Voice.Stop()

	default:
		fmt.Fprintln(s.out, WarningStyle.Render("Unknown command "+fields[0]+"; try /help."))
	}
	return true
}
