// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package loop funnels asynchronous completions back onto a single owner
// goroutine.
//
// Timers, media loads and network replies all finish on their own
// goroutines. None of them touch component state directly; instead they
// Post a callback, and the owner (the Bubble Tea update loop, or a Queue
// driven by a test or the line REPL) runs the callbacks one at a time.
//
//	q := loop.NewQueue()
//	go q.Forward(ctx, func(fn func()) { program.Send(loop.RunMsg{Fn: fn}) })
package loop

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// DISPATCHER
// =============================================================================

// Dispatcher schedules fn to run on the owner goroutine.
type Dispatcher interface {
	Post(fn func())
}

// Func adapts an ordinary function to a Dispatcher.
type Func func(fn func())

// Post calls f(fn).
func (f Func) Post(fn func()) { f(fn) }

// Inline runs every callback immediately on the posting goroutine.
// Only safe when the caller already is the owner.
var Inline Dispatcher = Func(func(fn func()) { fn() })

// RunMsg carries a posted callback through a Bubble Tea program.
// The root model runs Fn when it receives the message.
type RunMsg struct {
	Fn func()
}

// =============================================================================
// QUEUE
// =============================================================================

// Queue is a goroutine-safe FIFO of callbacks.
type Queue struct {
	mu     sync.Mutex
	items  []func()
	notify chan struct{}
	closed bool
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{notify: make(chan struct{}, 1)}
}

// Post enqueues fn. It never runs fn inline and is a no-op once closed.
func (q *Queue) Post(fn func()) {
	if fn == nil {
		return
	}
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.items = append(q.items, fn)
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// Len returns the number of queued callbacks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close drops pending callbacks and rejects new ones.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.items = nil
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
}

func (q *Queue) pop() (func(), bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil, false
	}
	fn := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return fn, true
}

func (q *Queue) isClosed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// RunPending runs every callback currently queued, including ones posted
// by the callbacks themselves, and returns how many ran.
func (q *Queue) RunPending() int {
	n := 0
	for {
		fn, ok := q.pop()
		if !ok {
			return n
		}
		fn()
		n++
	}
}

// RunNext waits up to timeout for one callback and runs it.
// It reports whether a callback ran.
func (q *Queue) RunNext(timeout time.Duration) bool {
	if fn, ok := q.pop(); ok {
		fn()
		return true
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case <-q.notify:
			if fn, ok := q.pop(); ok {
				fn()
				return true
			}
			if q.isClosed() {
				return false
			}
		case <-timer.C:
			return false
		}
	}
}

// Run executes callbacks on the calling goroutine until ctx is done or the
// queue is closed.
func (q *Queue) Run(ctx context.Context) error {
	for {
		q.RunPending()
		if q.isClosed() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-q.notify:
		}
	}
}

// Forward hands every callback to send instead of running it. Use it to
// relay work into an event loop owned by someone else.
func (q *Queue) Forward(ctx context.Context, send func(fn func())) error {
	for {
		for {
			fn, ok := q.pop()
			if !ok {
				break
			}
			send(fn)
		}
		if q.isClosed() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-q.notify:
		}
	}
}
