// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package telemetry

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/jeranaias/folio-tui/internal/api"
)

// Event names.
const (
	EventPageView       = "page_view"
	EventChatOpened     = "ai_chat_opened"
	EventChatMessage    = "ai_chat_message"
	EventContactSuccess = "contact_form_success"
	EventReelSwitch     = "reel_switch"
)

// Sender delivers one event. *api.Client satisfies it.
type Sender interface {
	Track(ctx context.Context, ev api.Event) error
}

// Config controls delivery.
type Config struct {
	Enabled bool
	// Rate is the sustained events per second.
	Rate float64
	// Burst is the bucket size.
	Burst int
	// Timeout bounds a single delivery.
	Timeout time.Duration
}

// DefaultConfig returns the default delivery settings.
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Rate:    2,
		Burst:   10,
		Timeout: 5 * time.Second,
	}
}

// Stats counts what happened to tracked events.
type Stats struct {
	Sent    int64
	Failed  int64
	Dropped int64
}

// =============================================================================
// TRACKER
// =============================================================================

// Tracker delivers events in the background. A nil *Tracker is valid and
// discards everything.
type Tracker struct {
	sender  Sender
	cfg     Config
	limiter *rate.Limiter
	logger  *slog.Logger
	session string

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// mu orders wg.Add in Track against Flush closing the tracker.
	mu     sync.Mutex
	closed bool

	sent    atomic.Int64
	failed  atomic.Int64
	dropped atomic.Int64
}

// New creates a tracker. A nil sender or a disabled config yields a tracker
// that drops every event.
func New(sender Sender, cfg Config, logger *slog.Logger, sessionID string) *Tracker {
	def := DefaultConfig()
	if cfg.Rate <= 0 {
		cfg.Rate = def.Rate
	}
	if cfg.Burst <= 0 {
		cfg.Burst = def.Burst
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Tracker{
		sender:  sender,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.Rate), cfg.Burst),
		logger:  logger.With("component", "telemetry"),
		session: sessionID,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// SessionID returns the id attached to every event.
func (t *Tracker) SessionID() string {
	if t == nil {
		return ""
	}
	return t.session
}

// Track queues an event for delivery and returns immediately.
func (t *Tracker) Track(event string, data map[string]any) {
	if t == nil || !t.cfg.Enabled || t.sender == nil {
		return
	}
	if !t.limiter.Allow() {
		t.dropped.Add(1)
		t.logger.Debug("analytics event dropped", "event", event)
		return
	}

	payload := make(map[string]any, len(data)+1)
	for k, v := range data {
		payload[k] = v
	}
	if t.session != "" {
		payload["session_id"] = t.session
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.wg.Add(1)
	t.mu.Unlock()

	go func() {
		defer t.wg.Done()
		ctx, cancel := context.WithTimeout(t.ctx, t.cfg.Timeout)
		defer cancel()
		if err := t.sender.Track(ctx, api.Event{Event: event, Data: payload}); err != nil {
			t.failed.Add(1)
			t.logger.Debug("analytics failed", "event", event, "error", err)
			return
		}
		t.sent.Add(1)
	}()
}

// Stats returns delivery counters.
func (t *Tracker) Stats() Stats {
	if t == nil {
		return Stats{}
	}
	return Stats{Sent: t.sent.Load(), Failed: t.failed.Load(), Dropped: t.dropped.Load()}
}

// Flush waits for in-flight deliveries, abandoning them when ctx ends.
// The tracker accepts no events afterwards.
func (t *Tracker) Flush(ctx context.Context) error {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		t.cancel()
		return nil
	case <-ctx.Done():
		t.cancel()
		return ctx.Err()
	}
}
