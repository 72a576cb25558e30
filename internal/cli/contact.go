// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// contact.go - Contact form command handler for the folio CLI.
//
// Command: contact --name NAME --email EMAIL --subject SUBJECT [--message TEXT]
// Short:   Send a message through the site's contact form
//
// When --message is omitted and stdin is not a terminal, the message body
// is read from stdin:
//   git log -1 --format=%B | folio contact --name Ada --email ada@example.com --subject Hello
package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/jeranaias/folio-tui/internal/contact"
	"github.com/jeranaias/folio-tui/internal/logging"
)

func newContactCmd(opts *rootOptions) *cobra.Command {
	var form contact.Form
	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Send a message through the contact form",
		Long: `Send the site's contact form.

When --message is omitted and stdin is not a terminal, the message is
read from stdin.

Example:
  folio contact --name Ada --email ada@example.com \
    --subject "Project" --message "Are you available in March?"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if form.Message == "" && !IsTTY() {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return NewCommandError("contact", "read", "could not read message from stdin", err)
				}
				form.Message = string(data)
			}
			return runContact(cmd, opts, form)
		},
	}
	cmd.Flags().StringVar(&form.Name, "name", "", "your name")
	cmd.Flags().StringVar(&form.Email, "email", "", "your email address")
	cmd.Flags().StringVar(&form.Subject, "subject", "", "subject line")
	cmd.Flags().StringVar(&form.Message, "message", "", "message body")
	return cmd
}

func runContact(cmd *cobra.Command, opts *rootOptions, form contact.Form) error {
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

	if err := a.Contact.Submit(form); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt)
	defer stop()
	if err := waitFor(ctx, a.Queue, func() bool { return !a.Contact.Submitting() }); err != nil {
		return NewCommandError("contact", "send", "interrupted", err)
	}

	status := a.Contact.Status()
	if status.Kind != contact.StatusSuccess {
		return NewCommandError("contact", "send", status.Text, nil)
	}
	fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render(status.Text))
	return nil
}
