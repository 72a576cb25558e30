// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package clock provides timers whose callbacks run on the owner goroutine.
//
// Real timers expire on runtime goroutines and post their callback through a
// loop.Dispatcher. Fake timers fire synchronously from Advance, which lets the
// carousel and contact tests step through settle delays and autoplay ticks
// without sleeping.
package clock

import (
	"sync"
	"time"

	"github.com/jeranaias/folio-tui/internal/loop"
)

// Timer is a handle to a pending one-shot or recurring callback.
type Timer interface {
	// Stop cancels the timer. It reports whether the timer was still live.
	Stop() bool
}

// Clock creates timers.
type Clock interface {
	Now() time.Time
	// AfterFunc runs fn once after d.
	AfterFunc(d time.Duration, fn func()) Timer
	// Every runs fn every d until stopped.
	Every(d time.Duration, fn func()) Timer
}

// =============================================================================
// REAL CLOCK
// =============================================================================

// Real is a wall clock that dispatches expiries through a Dispatcher.
type Real struct {
	dispatch loop.Dispatcher
}

// NewReal creates a wall clock. A nil dispatcher runs callbacks on the
// timer goroutine.
func NewReal(d loop.Dispatcher) *Real {
	if d == nil {
		d = loop.Inline
	}
	return &Real{dispatch: d}
}

// Now returns the current wall time.
func (c *Real) Now() time.Time { return time.Now() }

// AfterFunc runs fn once after d.
func (c *Real) AfterFunc(d time.Duration, fn func()) Timer {
	return c.start(d, fn, false)
}

// Every runs fn every d.
func (c *Real) Every(d time.Duration, fn func()) Timer {
	return c.start(d, fn, true)
}

func (c *Real) start(d time.Duration, fn func(), recurring bool) Timer {
	rt := &realTimer{fn: fn, period: d, recurring: recurring, dispatch: c.dispatch}
	rt.mu.Lock()
	rt.t = time.AfterFunc(d, rt.expire)
	rt.mu.Unlock()
	return rt
}

type realTimer struct {
	mu        sync.Mutex
	t         *time.Timer
	fn        func()
	period    time.Duration
	recurring bool
	stopped   bool
	fired     bool
	dispatch  loop.Dispatcher
}

// expire runs on the runtime timer goroutine.
func (rt *realTimer) expire() {
	rt.mu.Lock()
	if rt.stopped {
		rt.mu.Unlock()
		return
	}
	if rt.recurring {
		rt.t.Reset(rt.period)
	} else {
		rt.fired = true
	}
	rt.mu.Unlock()

	rt.dispatch.Post(func() {
		// A Stop between expiry and dispatch wins.
		rt.mu.Lock()
		stopped := rt.stopped
		rt.mu.Unlock()
		if !stopped {
			rt.fn()
		}
	})
}

func (rt *realTimer) Stop() bool {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.stopped {
		return false
	}
	rt.stopped = true
	rt.t.Stop()
	return rt.recurring || !rt.fired
}
