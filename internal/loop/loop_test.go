// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package loop

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestQueue_FIFO(t *testing.T) {
	q := NewQueue()
	var got []int
	for i := 0; i < 5; i++ {
		i := i
		q.Post(func() { got = append(got, i) })
	}

	if n := q.RunPending(); n != 5 {
		t.Fatalf("RunPending() = %d, want 5", n)
	}
	for i, v := range got {
		if v != i {
			t.Errorf("got[%d] = %d, want %d", i, v, i)
		}
	}
}

func TestQueue_PostDoesNotRunInline(t *testing.T) {
	q := NewQueue()
	ran := false
	q.Post(func() { ran = true })
	if ran {
		t.Fatal("Post ran the callback inline")
	}
	if q.Len() != 1 {
		t.Errorf("Len() = %d, want 1", q.Len())
	}
}

func TestQueue_RunPendingIncludesNestedPosts(t *testing.T) {
	q := NewQueue()
	count := 0
	q.Post(func() {
		count++
		q.Post(func() { count++ })
	})
	if n := q.RunPending(); n != 2 {
		t.Errorf("RunPending() = %d, want 2", n)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestQueue_ClosedRejects(t *testing.T) {
	q := NewQueue()
	q.Post(func() {})
	q.Close()
	q.Post(func() { t.Error("callback ran after Close") })
	if n := q.RunPending(); n != 0 {
		t.Errorf("RunPending() after Close = %d, want 0", n)
	}
}

func TestQueue_RunNextCrossGoroutine(t *testing.T) {
	q := NewQueue()
	done := make(chan struct{})
	go func() {
		q.Post(func() { close(done) })
	}()

	if !q.RunNext(2 * time.Second) {
		t.Fatal("RunNext() = false, want true")
	}
	select {
	case <-done:
	default:
		t.Error("callback did not run")
	}
}

func TestQueue_RunNextTimeout(t *testing.T) {
	q := NewQueue()
	if q.RunNext(10 * time.Millisecond) {
		t.Error("RunNext() on empty queue = true, want false")
	}
}

func TestQueue_RunStopsOnCancel(t *testing.T) {
	q := NewQueue()
	ctx, cancel := context.WithCancel(context.Background())

	var mu sync.Mutex
	ran := 0
	q.Post(func() {
		mu.Lock()
		ran++
		mu.Unlock()
		cancel()
	})

	if err := q.Run(ctx); err != context.Canceled {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if ran != 1 {
		t.Errorf("ran = %d, want 1", ran)
	}
}

func TestQueue_Forward(t *testing.T) {
	q := NewQueue()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := make(chan func(), 4)
	go q.Forward(ctx, func(fn func()) { out <- fn })

	hit := false
	q.Post(func() { hit = true })

	select {
	case fn := <-out:
		fn()
	case <-time.After(2 * time.Second):
		t.Fatal("Forward did not relay the callback")
	}
	if !hit {
		t.Error("forwarded callback did not run")
	}
}

func TestInline(t *testing.T) {
	ran := false
	Inline.Post(func() { ran = true })
	if !ran {
		t.Error("Inline.Post did not run the callback")
	}
}
