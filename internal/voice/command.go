// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package voice

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
)

// exitNoPerm is sysexits EX_NOPERM, used by capture tools to report a
// refused microphone.
const exitNoPerm = 77

// CommandConfig describes an external speech-to-text program. It records
// one utterance and prints the transcript on stdout.
type CommandConfig struct {
	Command  string
	Args     []string
	Language string
}

// CommandRecognizer runs a CommandConfig per capture session.
type CommandRecognizer struct {
	cfg CommandConfig

	mu      sync.Mutex
	cancel  context.CancelFunc
	session uint64
}

// NewCommandRecognizer creates a recognizer for cfg.
func NewCommandRecognizer(cfg CommandConfig) *CommandRecognizer {
	if cfg.Language == "" {
		cfg.Language = "en-US"
	}
	return &CommandRecognizer{cfg: cfg}
}

// Detect resolves the capability for cfg: available when the command is
// configured and found on PATH.
func Detect(cfg CommandConfig) Capability {
	if strings.TrimSpace(cfg.Command) == "" {
		return Unavailable()
	}
	if _, err := exec.LookPath(cfg.Command); err != nil {
		return Unavailable()
	}
	return Available(NewCommandRecognizer(cfg))
}

// Start launches the command. Only one session runs at a time.
func (r *CommandRecognizer) Start(ctx context.Context, h Handlers) error {
	r.mu.Lock()
	if r.cancel != nil {
		r.mu.Unlock()
		return errors.New("voice: capture already running")
	}
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.session++
	session := r.session
	r.mu.Unlock()

	args := make([]string, len(r.cfg.Args))
	for i, a := range r.cfg.Args {
		args[i] = strings.ReplaceAll(a, "{lang}", r.cfg.Language)
	}
	cmd := exec.CommandContext(ctx, r.cfg.Command, args...)
	cmd.Env = append(os.Environ(), "FOLIO_VOICE_LANG="+r.cfg.Language)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		r.clear(session)
		return fmt.Errorf("start %s: %w", r.cfg.Command, err)
	}

	go func() {
		err := cmd.Wait()
		stopped := ctx.Err() != nil
		r.clear(session)

		switch {
		case stopped:
		case err != nil:
			if h.OnError != nil {
				h.OnError(classifyExit(err, stderr.String()))
			}
		default:
			if t := strings.TrimSpace(stdout.String()); t != "" && h.OnResult != nil {
				h.OnResult(t)
			}
		}
		if h.OnEnd != nil {
			h.OnEnd()
		}
	}()
	return nil
}

// Stop kills the running command, if any. A new session may start as soon
// as Stop returns; the old command is reaped in the background.
func (r *CommandRecognizer) Stop() {
	r.mu.Lock()
	cancel := r.cancel
	r.cancel = nil
	r.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// clear releases session's slot unless a newer session already owns it.
func (r *CommandRecognizer) clear(session uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session != session || r.cancel == nil {
		return
	}
	r.cancel()
	r.cancel = nil
}

func classifyExit(err error, stderr string) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == exitNoPerm {
		return ErrPermissionDenied
	}
	low := strings.ToLower(stderr)
	if strings.Contains(low, "not-allowed") || strings.Contains(low, "permission denied") {
		return ErrPermissionDenied
	}
	if msg := strings.TrimSpace(stderr); msg != "" {
		return fmt.Errorf("voice: %w: %s", err, msg)
	}
	return fmt.Errorf("voice: %w", err)
}
