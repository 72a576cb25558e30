// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// root.go - Root command and TUI launcher.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jeranaias/folio-tui/internal/app"
	"github.com/jeranaias/folio-tui/internal/config"
	"github.com/jeranaias/folio-tui/internal/logging"
	"github.com/jeranaias/folio-tui/internal/loop"
	"github.com/jeranaias/folio-tui/internal/ui/components"
	"github.com/jeranaias/folio-tui/internal/ui/page"
	"github.com/jeranaias/folio-tui/internal/ui/styles"
	"github.com/jeranaias/folio-tui/internal/voice"
)

// Version information (set from main at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// rootOptions are the persistent flags.
type rootOptions struct {
	configPath  string
	debug       bool
	noAltScreen bool
}

// load reads the configuration named by --config, or the default one.
func (o *rootOptions) load() (*config.Config, string, error) {
	var (
		cfg  *config.Config
		path = o.configPath
		err  error
	)
	if path != "" {
		config.LoadDotEnv()
		cfg, err = config.LoadFromPath(path)
	} else {
		path = config.ActivePath()
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, "", &configError{err}
	}
	if o.debug {
		cfg.Log.Level = "debug"
	}
	return cfg, path, nil
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "folio",
		Short: "Portfolio reel, assistant chat and contact form in the terminal",
		Long: `folio - the portfolio site in your terminal.

Watch the project reel, chat with the site's assistant (by keyboard or
voice) and send a message through the contact form.

Configuration is read from ~/.folio/config.toml (or config.json);
FOLIO_HOME moves the directory and FOLIO_* variables override settings.

Examples:
  folio                              Start the interface
  folio ask "What have you built?"   One question, one answer
  folio chat                         Line-mode chat
  folio config init                  Write a starter config`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, opts)
		},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file path")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "debug logging")
	root.Flags().BoolVar(&opts.noAltScreen, "no-alt-screen", false, "render inline instead of the alternate screen")

	root.AddCommand(
		newAskCmd(opts),
		newChatCmd(opts),
		newContactCmd(opts),
		newConfigCmd(opts),
		newVersionCmd(),
	)
	return root
}

// Execute runs the command tree and returns the process exit code.
func Execute() int {
	root := NewRootCmd()
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error:"), err)
		return GetExitCode(err)
	}
	return ExitSuccess
}

// =============================================================================
// TUI
// =============================================================================

func runTUI(cmd *cobra.Command, opts *rootOptions) error {
	if err := RequiresTTY("start the interface"); err != nil {
		return err
	}
	cfg, path, err := opts.load()
	if err != nil {
		return err
	}
	logger, closeLog, err := logging.Setup(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	q := loop.NewQueue()
	toasts := components.NewToastManager(nil)
	a, err := app.New(app.Options{
		Config:   cfg,
		Logger:   logger,
		Queue:    q,
		Notifier: toasts,
	})
	if err != nil {
		return err
	}

	if path != "" {
		w, err := a.WatchConfig(path)
		if err != nil {
			logger.Warn("config watch unavailable", "path", path, "error", err)
		} else {
			defer w.Close()
		}
	}

	programOpts := []tea.ProgramOption{tea.WithReportFocus(), tea.WithMouseCellMotion()}
	if cfg.UI.AltScreen && !opts.noAltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	p := tea.NewProgram(page.New(a, styles.NewTheme(cfg.UI.Theme), toasts), programOpts...)

	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()
	go q.Forward(ctx, func(fn func()) { p.Send(loop.RunMsg{Fn: fn}) })

	logger.Info("tui started", "session", a.SessionID, "base_url", cfg.Site.BaseURL)
	_, runErr := p.Run()
	cancel()

	// The program has stopped; this goroutine owns the components again.
	if err := a.Close(); err != nil {
		logger.Warn("shutdown", "error", err)
	}
	return runErr
}

// =============================================================================
// LINE-MODE HELPERS
// =============================================================================

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// newLineApp builds an App without the reel for the line-mode commands.
// The caller's goroutine is the owner and drives a.Queue with waitFor.
func newLineApp(cfg *config.Config, logger *slog.Logger, notifier app.Notifier, withVoice bool) (*app.App, error) {
	opts := app.Options{Config: cfg, Logger: logger, NoMedia: true, Notifier: notifier}
	if !withVoice {
		off := voice.Unavailable()
		opts.Voice = &off
	}
	return app.New(opts)
}

// waitFor runs queued callbacks until done reports true or ctx ends.
func waitFor(ctx context.Context, q *loop.Queue, done func() bool) error {
	for !done() {
		if err := ctx.Err(); err != nil {
			return err
		}
		q.RunNext(100 * time.Millisecond)
	}
	return nil
}
