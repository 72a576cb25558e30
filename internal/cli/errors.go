// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Error types and exit codes for folio commands.
//
// ERROR HANDLING: Errors must not be silently ignored
//
// Commands ALWAYS return errors and never print-and-return-nil. Execute
// prints the error once and maps it to an exit code:
//   - 2  invalid contact form fields, or no TTY where one is required
//   - 3  configuration could not be loaded or failed validation
//   - 5  the site could not be reached
//   - 8  the site did not answer in time
//   - 1  anything else
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"

	"github.com/jeranaias/folio-tui/internal/api"
	"github.com/jeranaias/folio-tui/internal/config"
	"github.com/jeranaias/folio-tui/internal/contact"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitUsageError   = 2
	ExitConfigError  = 3
	ExitNetworkError = 5
	ExitTimeoutError = 8
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// CommandError represents a CLI command error with context.
type CommandError struct {
	Command string
	Action  string
	Reason  string
	Err     error
}

func (e *CommandError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s failed: %s: %v", e.Command, e.Action, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %s", e.Command, e.Action, e.Reason)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError creates a new command error.
func NewCommandError(command, action, reason string, err error) error {
	return &CommandError{Command: command, Action: action, Reason: reason, Err: err}
}

// configError marks failures to load or save configuration.
type configError struct{ err error }

func (e *configError) Error() string { return e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

// =============================================================================
// EXIT CODE MAPPING
// =============================================================================

// GetExitCode determines the exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var (
		clientErr *api.ClientError
		cfgErr    *configError
		validate  config.ValidateErrors
		fields    contact.FieldErrors
		tty       *TTYRequiredError
	)
	switch {
	case errors.As(err, &clientErr):
		switch clientErr.Type {
		case api.ErrTypeConnection:
			return ExitNetworkError
		case api.ErrTypeTimeout:
			return ExitTimeoutError
		}
		return ExitGeneralError
	case errors.As(err, &cfgErr), errors.As(err, &validate):
		return ExitConfigError
	case errors.As(err, &fields), errors.As(err, &tty):
		return ExitUsageError
	}
	return ExitGeneralError
}
