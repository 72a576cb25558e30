// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package telemetry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/jeranaias/folio-tui/internal/api"
)

type recordingSender struct {
	mu     sync.Mutex
	events []api.Event
	err    error
	block  chan struct{}
}

func (s *recordingSender) Track(ctx context.Context, ev api.Event) error {
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return s.err
}

func (s *recordingSender) snapshot() []api.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]api.Event(nil), s.events...)
}

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func flush(t *testing.T, tr *Tracker) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := tr.Flush(ctx); err != nil {
		t.Fatalf("Flush: %v", err)
	}
}

func TestTracker_DeliversWithSession(t *testing.T) {
	s := &recordingSender{}
	tr := New(s, DefaultConfig(), quiet(), "sess-1")

	tr.Track(EventChatMessage, map[string]any{"success": true})
	flush(t, tr)

	events := s.snapshot()
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	ev := events[0]
	if ev.Event != EventChatMessage {
		t.Errorf("Event = %q", ev.Event)
	}
	if ev.Data["success"] != true || ev.Data["session_id"] != "sess-1" {
		t.Errorf("Data = %v", ev.Data)
	}
	if got := tr.Stats().Sent; got != 1 {
		t.Errorf("Stats().Sent = %d, want 1", got)
	}
}

func TestTracker_DoesNotMutateCallerData(t *testing.T) {
	s := &recordingSender{}
	tr := New(s, DefaultConfig(), quiet(), "sess")
	data := map[string]any{"k": "v"}
	tr.Track("x", data)
	flush(t, tr)
	if _, ok := data["session_id"]; ok {
		t.Error("caller map was modified")
	}
}

func TestTracker_TrackDoesNotBlock(t *testing.T) {
	s := &recordingSender{block: make(chan struct{})}
	tr := New(s, DefaultConfig(), quiet(), "")

	start := time.Now()
	tr.Track("slow", nil)
	if time.Since(start) > 500*time.Millisecond {
		t.Error("Track blocked on delivery")
	}
	close(s.block)
	flush(t, tr)
}

func TestTracker_FailuresAreSwallowed(t *testing.T) {
	s := &recordingSender{err: errors.New("503")}
	tr := New(s, DefaultConfig(), quiet(), "")
	tr.Track("x", nil)
	flush(t, tr)

	if got := tr.Stats().Failed; got != 1 {
		t.Errorf("Stats().Failed = %d, want 1", got)
	}
	if len(s.snapshot()) != 1 {
		t.Error("failed event was retried or not attempted once")
	}
}

func TestTracker_RateLimited(t *testing.T) {
	s := &recordingSender{}
	tr := New(s, Config{Enabled: true, Rate: 0.001, Burst: 2}, quiet(), "")
	for i := 0; i < 5; i++ {
		tr.Track("burst", nil)
	}
	flush(t, tr)

	if got := len(s.snapshot()); got != 2 {
		t.Errorf("delivered = %d, want 2", got)
	}
	if got := tr.Stats().Dropped; got != 3 {
		t.Errorf("Stats().Dropped = %d, want 3", got)
	}
}

func TestTracker_Disabled(t *testing.T) {
	s := &recordingSender{}
	cfg := DefaultConfig()
	cfg.Enabled = false
	tr := New(s, cfg, quiet(), "")
	tr.Track("x", nil)
	flush(t, tr)
	if len(s.snapshot()) != 0 {
		t.Error("disabled tracker delivered")
	}
}

func TestTracker_NilIsSafe(t *testing.T) {
	var tr *Tracker
	tr.Track("x", nil)
	if err := tr.Flush(context.Background()); err != nil {
		t.Errorf("Flush on nil = %v", err)
	}
	if tr.SessionID() != "" {
		t.Error("nil SessionID not empty")
	}
}

func TestTracker_FlushTimeout(t *testing.T) {
	s := &recordingSender{block: make(chan struct{})}
	defer close(s.block)
	tr := New(s, DefaultConfig(), quiet(), "")
	tr.Track("stuck", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := tr.Flush(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Flush = %v, want DeadlineExceeded", err)
	}
	tr.Track("after", nil)
}

func TestTracker_TrackDuringFlush(t *testing.T) {
	s := &recordingSender{block: make(chan struct{})}
	tr := New(s, DefaultConfig(), quiet(), "")
	tr.Track("first", nil)

	flushed := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		flushed <- tr.Flush(ctx)
	}()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.Track("racing", nil)
		}()
	}
	wg.Wait()
	close(s.block)

	if err := <-flushed; err != nil {
		t.Fatalf("Flush: %v", err)
	}
	tr.Track("after", nil)
	for _, ev := range s.snapshot() {
		if ev.Event == "after" {
			t.Error("event tracked after Flush was delivered")
		}
	}
}
