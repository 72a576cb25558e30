// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package voice feeds speech-to-text transcripts into the chat.
//
// Speech recognition is optional. It is resolved once at startup into a
// Capability that is either available (wrapping a Recognizer) or not; the
// Adapter hides itself when it is not. While listening, the first completed
// utterance is submitted as a chat message. A second Toggle while listening
// stops capture instead of starting another session.
package voice

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/jeranaias/folio-tui/internal/loop"
)

// ErrPermissionDenied is reported when the platform refuses microphone
// access.
var ErrPermissionDenied = errors.New("voice: microphone permission denied")

// PermissionDeniedMessage is shown in the chat on ErrPermissionDenied.
const PermissionDeniedMessage = "⚠️ Microphone access denied. Please enable microphone permissions."

// Input placeholders for each visual state.
const (
	PlaceholderListening = "Listening..."
	PlaceholderIdle      = "Type or speak your message..."
	PlaceholderTextOnly  = "Type your message..."
)

// Handlers receive recognizer events. They may be called from any
// goroutine.
type Handlers struct {
	OnResult func(transcript string)
	OnError  func(err error)
	OnEnd    func()
}

// Recognizer is a platform speech-to-text engine.
type Recognizer interface {
	// Start begins one capture session. Events for it arrive through h;
	// OnEnd is always the last one.
	Start(ctx context.Context, h Handlers) error
	// Stop ends the current session early.
	Stop()
}

// =============================================================================
// CAPABILITY
// =============================================================================

// Capability is the startup-resolved voice support.
type Capability struct {
	rec Recognizer
}

// Available wraps a working recognizer.
func Available(r Recognizer) Capability { return Capability{rec: r} }

// Unavailable is the capability of a platform without speech recognition.
func Unavailable() Capability { return Capability{} }

// Available reports whether a recognizer exists.
func (c Capability) Available() bool { return c.rec != nil }

// =============================================================================
// ADAPTER
// =============================================================================

// Submitter is the chat side of the adapter.
type Submitter interface {
	SendMessage(text string) bool
	AddAssistantMessage(text string)
}

// Adapter connects a Capability to the chat. Methods run on the owner
// goroutine; recognizer events are posted there through the dispatcher.
type Adapter struct {
	cap      Capability
	sub      Submitter
	dispatch loop.Dispatcher
	logger   *slog.Logger

	listening bool
	session   int
	cancel    context.CancelFunc
}

// NewAdapter creates an adapter.
func NewAdapter(c Capability, sub Submitter, d loop.Dispatcher, logger *slog.Logger) *Adapter {
	if d == nil {
		d = loop.Inline
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{cap: c, sub: sub, dispatch: d, logger: logger.With("component", "voice")}
}

// Available reports whether the voice control should be shown.
func (a *Adapter) Available() bool { return a.cap.Available() }

// Listening reports whether a capture session is active.
func (a *Adapter) Listening() bool { return a.listening }

// Placeholder returns the input placeholder for the current state.
func (a *Adapter) Placeholder() string {
	switch {
	case !a.cap.Available():
		return PlaceholderTextOnly
	case a.listening:
		return PlaceholderListening
	default:
		return PlaceholderIdle
	}
}

// Toggle starts capture, or stops it if already listening.
// It is a no-op when voice is unavailable.
func (a *Adapter) Toggle() {
	if !a.cap.Available() {
		return
	}
	if a.listening {
		a.Stop()
		return
	}
	a.start()
}

func (a *Adapter) start() {
	a.session++
	session := a.session
	a.listening = true

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	post := func(fn func()) {
		a.dispatch.Post(func() {
			if session == a.session {
				fn()
			}
		})
	}

	err := a.cap.rec.Start(ctx, Handlers{
		OnResult: func(t string) { post(func() { a.handleResult(t) }) },
		OnError:  func(err error) { post(func() { a.handleError(err) }) },
		OnEnd:    func() { post(a.end) },
	})
	if err != nil {
		a.handleError(err)
		return
	}
	a.logger.Debug("voice capture started", "session", session)
}

// Stop ends the active session and reverts the visual state at once.
// Late events from the stopped session are dropped.
func (a *Adapter) Stop() {
	if !a.listening {
		return
	}
	a.cap.rec.Stop()
	a.end()
}

func (a *Adapter) end() {
	if !a.listening {
		return
	}
	a.listening = false
	a.session++
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
}

func (a *Adapter) handleResult(transcript string) {
	text := strings.TrimSpace(norm.NFC.String(transcript))
	if text == "" {
		return
	}
	a.logger.Debug("voice transcript", "chars", len(text))
	a.sub.SendMessage(text)
}

func (a *Adapter) handleError(err error) {
	a.logger.Warn("voice capture error", "error", err)
	a.end()
	if errors.Is(err, ErrPermissionDenied) {
		a.sub.AddAssistantMessage(PermissionDeniedMessage)
	}
}
