// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package clock

import (
	"sort"
	"sync"
	"time"
)

// Fake is a manually advanced clock for tests.
type Fake struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	timers []*fakeTimer
}

// NewFake creates a fake clock starting at start.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

type fakeTimer struct {
	clock    *Fake
	id       int
	deadline time.Time
	period   time.Duration
	fn       func()
}

// Now returns the fake time.
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// AfterFunc registers a one-shot timer.
func (f *Fake) AfterFunc(d time.Duration, fn func()) Timer {
	return f.add(d, 0, fn)
}

// Every registers a recurring timer.
func (f *Fake) Every(d time.Duration, fn func()) Timer {
	return f.add(d, d, fn)
}

func (f *Fake) add(d, period time.Duration, fn func()) *fakeTimer {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	ft := &fakeTimer{clock: f, id: f.seq, deadline: f.now.Add(d), period: period, fn: fn}
	f.timers = append(f.timers, ft)
	return ft
}

func (ft *fakeTimer) Stop() bool {
	f := ft.clock
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.timers {
		if t == ft {
			f.timers = append(f.timers[:i], f.timers[i+1:]...)
			return true
		}
	}
	return false
}

// Advance moves time forward by d, firing due timers in deadline order on
// the calling goroutine. Timers created by callbacks fire too if they fall
// inside the window.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now.Add(d)
	f.mu.Unlock()

	for {
		f.mu.Lock()
		due := f.nextDue(target)
		if due == nil {
			f.now = target
			f.mu.Unlock()
			return
		}
		f.now = due.deadline
		if due.period > 0 {
			due.deadline = due.deadline.Add(due.period)
		} else {
			f.remove(due)
		}
		fn := due.fn
		f.mu.Unlock()

		fn()
	}
}

func (f *Fake) nextDue(target time.Time) *fakeTimer {
	sort.SliceStable(f.timers, func(i, j int) bool {
		if f.timers[i].deadline.Equal(f.timers[j].deadline) {
			return f.timers[i].id < f.timers[j].id
		}
		return f.timers[i].deadline.Before(f.timers[j].deadline)
	})
	if len(f.timers) == 0 || f.timers[0].deadline.After(target) {
		return nil
	}
	return f.timers[0]
}

func (f *Fake) remove(ft *fakeTimer) {
	for i, t := range f.timers {
		if t == ft {
			f.timers = append(f.timers[:i], f.timers[i+1:]...)
			return
		}
	}
}

// Len returns the number of live timers.
func (f *Fake) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.timers)
}

// Recurring returns the number of live recurring timers.
func (f *Fake) Recurring() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, t := range f.timers {
		if t.period > 0 {
			n++
		}
	}
	return n
}
