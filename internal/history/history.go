// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history holds the bounded conversation context sent with each chat
// request.
package history

// MaxHistory is the default number of exchanges kept as request context.
const MaxHistory = 6

// Turn is one completed exchange. The JSON names match the chat service's
// history payload.
type Turn struct {
	User string `json:"user"`
	AI   string `json:"ai"`
}

// Buffer is a FIFO ring of the most recent turns.
// It is owned by a single goroutine and does no locking.
type Buffer struct {
	turns []Turn
	start int
	size  int
}

// New creates a buffer holding at most capacity turns.
// A non-positive capacity falls back to MaxHistory.
func New(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = MaxHistory
	}
	return &Buffer{turns: make([]Turn, capacity)}
}

// Push appends a turn, evicting the oldest once full.
func (b *Buffer) Push(t Turn) {
	c := len(b.turns)
	if b.size < c {
		b.turns[(b.start+b.size)%c] = t
		b.size++
		return
	}
	b.turns[b.start] = t
	b.start = (b.start + 1) % c
}

// Snapshot returns a copy of the buffer, oldest first. Never nil, so it
// encodes as [] rather than null.
func (b *Buffer) Snapshot() []Turn {
	out := make([]Turn, b.size)
	for i := 0; i < b.size; i++ {
		out[i] = b.turns[(b.start+i)%len(b.turns)]
	}
	return out
}

// Len returns the number of turns held.
func (b *Buffer) Len() int { return b.size }

// Cap returns the capacity.
func (b *Buffer) Cap() int { return len(b.turns) }

// Clear drops every turn.
func (b *Buffer) Clear() {
	for i := range b.turns {
		b.turns[i] = Turn{}
	}
	b.start, b.size = 0, 0
}

// Restore replaces the contents with turns, oldest first, keeping only the
// newest Cap() of them.
func (b *Buffer) Restore(turns []Turn) {
	b.Clear()
	if extra := len(turns) - len(b.turns); extra > 0 {
		turns = turns[extra:]
	}
	for _, t := range turns {
		b.Push(t)
	}
}
