// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package media

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/jeranaias/folio-tui/internal/loop"
)

// stubSource lets a test decide when and how Load returns.
type stubSource struct {
	mu      sync.Mutex
	release chan error
	loads   int
	plays   int
	pauses  int
	playErr error
}

func newStub() *stubSource { return &stubSource{release: make(chan error, 1)} }

func (s *stubSource) Load(ctx context.Context) error {
	s.mu.Lock()
	s.loads++
	s.mu.Unlock()
	select {
	case err := <-s.release:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *stubSource) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plays++
	return s.playErr
}

func (s *stubSource) Pause() {
	s.mu.Lock()
	s.pauses++
	s.mu.Unlock()
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRegistry(t *testing.T, n int) (*Registry, *loop.Queue, []*stubSource) {
	t.Helper()
	q := loop.NewQueue()
	stubs := make([]*stubSource, n)
	entries := make([]Entry, n)
	for i := range stubs {
		stubs[i] = newStub()
		entries[i] = Entry{Item: Item{Title: "clip", Src: "clip.mp4"}, Source: stubs[i]}
	}
	reg := NewRegistry(RegistryConfig{Dispatcher: q, Logger: quietLogger()}, entries...)
	t.Cleanup(func() { reg.Close() })
	return reg, q, stubs
}

func TestRegistry_PreloadTransitions(t *testing.T) {
	reg, q, stubs := newTestRegistry(t, 2)

	if got := reg.State(1); got != NotLoaded {
		t.Fatalf("initial State(1) = %v, want NotLoaded", got)
	}
	reg.Preload(1)
	if got := reg.State(1); got != Loading {
		t.Fatalf("State(1) after Preload = %v, want Loading", got)
	}

	// A second preload while loading does not start another load.
	reg.Preload(1)

	stubs[1].release <- nil
	if !q.RunNext(2 * time.Second) {
		t.Fatal("load completion was not posted")
	}
	if got := reg.State(1); got != Ready {
		t.Errorf("State(1) = %v, want Ready", got)
	}
	if stubs[1].loads != 1 {
		t.Errorf("loads = %d, want 1", stubs[1].loads)
	}
}

func TestRegistry_OnReadyFiresOnce(t *testing.T) {
	reg, q, stubs := newTestRegistry(t, 2)

	fired := 0
	reg.OnReady(0, func() { fired++ })
	reg.Preload(0)
	stubs[0].release <- nil
	q.RunNext(2 * time.Second)

	if fired != 1 {
		t.Errorf("fired = %d, want 1", fired)
	}
	if reg.Listeners(0) != 0 {
		t.Errorf("Listeners(0) = %d, want 0", reg.Listeners(0))
	}
}

func TestRegistry_OnReadyCancel(t *testing.T) {
	reg, q, stubs := newTestRegistry(t, 1)

	fired := false
	cancel := reg.OnReady(0, func() { fired = true })
	cancel()
	cancel()

	reg.Preload(0)
	stubs[0].release <- nil
	q.RunNext(2 * time.Second)

	if fired {
		t.Error("cancelled listener fired")
	}
}

func TestRegistry_OnReadyWhenAlreadyReady(t *testing.T) {
	reg, q, stubs := newTestRegistry(t, 1)
	reg.Preload(0)
	stubs[0].release <- nil
	q.RunNext(2 * time.Second)

	fired := false
	reg.OnReady(0, func() { fired = true })
	if fired {
		t.Fatal("OnReady ran inline")
	}
	q.RunPending()
	if !fired {
		t.Error("OnReady on a Ready item did not fire")
	}
}

func TestRegistry_LoadFailureAllowsRetry(t *testing.T) {
	reg, q, stubs := newTestRegistry(t, 1)
	reg.Preload(0)
	stubs[0].release <- errors.New("404")
	q.RunNext(2 * time.Second)

	if got := reg.State(0); got != NotLoaded {
		t.Errorf("State after failed load = %v, want NotLoaded", got)
	}
	reg.Preload(0)
	stubs[0].release <- nil
	q.RunNext(2 * time.Second)
	if got := reg.State(0); got != Ready {
		t.Errorf("State after retry = %v, want Ready", got)
	}
}

func TestRegistry_ReloadIgnoresStaleLoad(t *testing.T) {
	reg, q, stubs := newTestRegistry(t, 1)
	reg.Preload(0)
	reg.Reload(0)

	stubs[0].release <- nil
	q.RunNext(2 * time.Second)
	if got := reg.State(0); got != NotLoaded {
		t.Errorf("State after stale completion = %v, want NotLoaded", got)
	}
}

func TestRegistry_ActivateSwallowsPlayError(t *testing.T) {
	reg, _, stubs := newTestRegistry(t, 3)
	stubs[2].playErr = ErrNotLoaded

	reg.Activate(2)
	if !reg.IsActive(2) {
		t.Error("item not marked active after refused play")
	}
	reg.Deactivate(2)
	if got := reg.Active(); len(got) != 0 {
		t.Errorf("Active() = %v, want none", got)
	}
	if stubs[2].pauses != 1 {
		t.Errorf("pauses = %d, want 1", stubs[2].pauses)
	}
}

func TestRegistry_ResumeOnlyActive(t *testing.T) {
	reg, _, stubs := newTestRegistry(t, 2)
	reg.Resume(1)
	if stubs[1].plays != 0 {
		t.Error("Resume played an inactive item")
	}
	reg.Activate(1)
	reg.Pause(1)
	reg.Resume(1)
	if stubs[1].plays != 2 {
		t.Errorf("plays = %d, want 2", stubs[1].plays)
	}
	if !reg.IsActive(1) {
		t.Error("Pause cleared the active marker")
	}
}

func TestRegistry_OutOfRange(t *testing.T) {
	reg, _, _ := newTestRegistry(t, 1)
	reg.Preload(5)
	reg.Activate(-1)
	if reg.State(5) != NotLoaded {
		t.Error("State out of range should be NotLoaded")
	}
	if got := reg.Item(7).Index; got != -1 {
		t.Errorf("Item(7).Index = %d, want -1", got)
	}
}

func TestReadyState_String(t *testing.T) {
	if Ready.String() != "ready" || Loading.String() != "loading" || NotLoaded.String() != "not-loaded" {
		t.Error("unexpected ReadyState names")
	}
}
