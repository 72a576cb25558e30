// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package carousel drives the rotating showreel.
//
// The Machine has two phases. In Idle any navigation may start a
// transition; in Transitioning every navigation is ignored until the settle
// delay that follows activation of the new clip has elapsed. Autoplay is a
// single recurring timer that is cancelled and rescheduled on every
// transition, so a manual switch is never followed by a stale tick.
//
// All methods run on the owner goroutine. Timer callbacks arrive there
// through the clock's dispatcher.
package carousel

import (
	"errors"
	"log/slog"
	"time"

	"github.com/jeranaias/folio-tui/internal/clock"
	"github.com/jeranaias/folio-tui/internal/media"
)

// =============================================================================
// TYPES
// =============================================================================

// Phase is the machine's top-level state.
type Phase int

const (
	// Idle accepts navigation.
	Idle Phase = iota
	// Transitioning ignores navigation.
	Transitioning
)

// String returns the phase name.
func (p Phase) String() string {
	if p == Transitioning {
		return "transitioning"
	}
	return "idle"
}

// State is a snapshot of the machine. From and To are only meaningful while
// Phase is Transitioning; Current already points at To by then.
type State struct {
	Phase   Phase
	Current int
	From    int
	To      int
}

// Media is what the machine needs from the media registry.
type Media interface {
	Len() int
	State(i int) media.ReadyState
	Preload(i int)
	OnReady(i int, fn func()) (cancel func())
	Activate(i int)
	Deactivate(i int)
	Pause(i int)
	Resume(i int)
}

// Config holds the machine's timings.
type Config struct {
	AutoplayInterval time.Duration
	SettleDelay      time.Duration
	ReadyTimeout     time.Duration
}

// Default timings.
const (
	DefaultAutoplayInterval = 25 * time.Second
	DefaultSettleDelay      = 1 * time.Second
	DefaultReadyTimeout     = 2 * time.Second
)

// DefaultConfig returns the default timings.
func DefaultConfig() Config {
	return Config{
		AutoplayInterval: DefaultAutoplayInterval,
		SettleDelay:      DefaultSettleDelay,
		ReadyTimeout:     DefaultReadyTimeout,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.AutoplayInterval <= 0 {
		c.AutoplayInterval = d.AutoplayInterval
	}
	if c.SettleDelay < 0 {
		c.SettleDelay = d.SettleDelay
	}
	if c.ReadyTimeout <= 0 {
		c.ReadyTimeout = d.ReadyTimeout
	}
	return c
}

// ErrNoMedia is returned by New for an empty reel.
var ErrNoMedia = errors.New("carousel: no media items")

// =============================================================================
// MACHINE
// =============================================================================

// Machine is the carousel state machine.
type Machine struct {
	media  Media
	clock  clock.Clock
	cfg    Config
	logger *slog.Logger

	phase   Phase
	current int
	from    int
	to      int
	visible bool
	started bool
	closed  bool

	// seq identifies the transition in flight; stale callbacks compare it.
	seq       int
	proceeded bool

	autoplay    clock.Timer
	settle      clock.Timer
	fallback    clock.Timer
	cancelReady func()
}

// New creates a machine in Idle(0). Call Start to begin playback.
func New(m Media, clk clock.Clock, cfg Config, logger *slog.Logger) (*Machine, error) {
	if m == nil || m.Len() == 0 {
		return nil, ErrNoMedia
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Machine{
		media:   m,
		clock:   clk,
		cfg:     cfg.withDefaults(),
		logger:  logger,
		visible: true,
	}, nil
}

// Start activates the first clip, preloads the second and starts autoplay.
// Calling it again is a no-op.
func (m *Machine) Start() {
	if m.started || m.closed {
		return
	}
	m.started = true

	m.media.Preload(0)
	m.media.Activate(0)
	if m.media.State(0) != media.Ready {
		// Play was refused until the clip is buffered.
		m.cancelReady = m.media.OnReady(0, func() {
			m.cancelReady = nil
			if m.current == 0 && m.phase == Idle && m.visible {
				m.media.Resume(0)
			}
		})
	}
	m.media.Preload(m.wrap(1))
	m.resetAutoplay()
}

// State returns a snapshot.
func (m *Machine) State() State {
	return State{Phase: m.phase, Current: m.current, From: m.from, To: m.to}
}

// Current returns the active index.
func (m *Machine) Current() int { return m.current }

// Len returns the number of clips.
func (m *Machine) Len() int { return m.media.Len() }

// Visible reports whether the surface is currently observed.
func (m *Machine) Visible() bool { return m.visible }

// AutoplayActive reports whether the autoplay timer is live.
func (m *Machine) AutoplayActive() bool { return m.autoplay != nil }

// Config returns the active timings.
func (m *Machine) Config() Config { return m.cfg }

// SetConfig replaces the timings. A live autoplay timer is rescheduled at the
// new interval; an in-flight transition keeps its old timings.
func (m *Machine) SetConfig(cfg Config) {
	m.cfg = cfg.withDefaults()
	if m.autoplay != nil {
		m.resetAutoplay()
	}
}

// Next switches to the following clip, wrapping around.
func (m *Machine) Next() bool { return m.SwitchTo(m.wrap(m.current + 1)) }

// Previous switches to the preceding clip, wrapping around.
func (m *Machine) Previous() bool { return m.SwitchTo(m.wrap(m.current - 1)) }

// SwitchTo starts a transition to target. It returns false, changing
// nothing, when target is out of range, already current, or a transition
// is in flight.
func (m *Machine) SwitchTo(target int) bool {
	if m.closed || m.phase == Transitioning {
		return false
	}
	if target < 0 || target >= m.media.Len() || target == m.current {
		return false
	}

	// Set before anything asynchronous is scheduled.
	m.phase = Transitioning
	m.from, m.to = m.current, target
	m.current = target
	m.seq++
	m.proceeded = false
	seq := m.seq

	m.stopReadyWait()
	m.media.Deactivate(m.from)
	m.media.Preload(target)
	m.resetAutoplay()

	m.logger.Debug("carousel transition", "from", m.from, "to", target)

	if m.media.State(target) == media.Ready {
		m.proceed(seq)
		return true
	}
	m.cancelReady = m.media.OnReady(target, func() { m.proceed(seq) })
	m.fallback = m.clock.AfterFunc(m.cfg.ReadyTimeout, func() {
		m.logger.Debug("carousel ready timeout", "index", target)
		m.proceed(seq)
	})
	return true
}

// proceed activates the target once, whichever of readiness or the
// fallback timeout gets here first.
func (m *Machine) proceed(seq int) {
	if m.closed || seq != m.seq || m.phase != Transitioning || m.proceeded {
		return
	}
	m.proceeded = true
	m.stopReadyWait()

	target := m.to
	m.media.Activate(target)
	if !m.visible {
		m.media.Pause(target)
	}
	m.media.Preload(m.wrap(target + 1))

	m.settle = m.clock.AfterFunc(m.cfg.SettleDelay, func() {
		if seq != m.seq || m.closed {
			return
		}
		m.settle = nil
		m.phase = Idle
	})
}

// SetVisible reacts to the surface being hidden or shown. Hiding stops
// autoplay and pauses the active clip; showing resumes both.
func (m *Machine) SetVisible(visible bool) {
	if m.closed || visible == m.visible {
		return
	}
	m.visible = visible
	if !visible {
		m.stopAutoplay()
		m.media.Pause(m.current)
		return
	}
	m.media.Resume(m.current)
	if m.started {
		m.resetAutoplay()
	}
}

// Close stops every timer. The machine ignores all calls afterwards.
func (m *Machine) Close() {
	if m.closed {
		return
	}
	m.closed = true
	m.stopAutoplay()
	m.stopReadyWait()
	if m.settle != nil {
		m.settle.Stop()
		m.settle = nil
	}
}

// resetAutoplay cancels the live autoplay timer before scheduling a new one.
// No timer is scheduled while hidden.
func (m *Machine) resetAutoplay() {
	m.stopAutoplay()
	if !m.visible || m.closed {
		return
	}
	m.autoplay = m.clock.Every(m.cfg.AutoplayInterval, m.tick)
}

func (m *Machine) tick() {
	m.Next()
}

func (m *Machine) stopAutoplay() {
	if m.autoplay != nil {
		m.autoplay.Stop()
		m.autoplay = nil
	}
}

func (m *Machine) stopReadyWait() {
	if m.cancelReady != nil {
		m.cancelReady()
		m.cancelReady = nil
	}
	if m.fallback != nil {
		m.fallback.Stop()
		m.fallback = nil
	}
}

func (m *Machine) wrap(i int) int {
	n := m.media.Len()
	return ((i % n) + n) % n
}
