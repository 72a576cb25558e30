// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/jeranaias/folio-tui/internal/loop"
)

// =============================================================================
// TYPES
// =============================================================================

// ReadyState is the buffering state of an item.
type ReadyState int

const (
	// NotLoaded means no load has been requested.
	NotLoaded ReadyState = iota
	// Loading means a load is in flight.
	Loading
	// Ready means the asset can play.
	Ready
)

// String returns the state name.
func (s ReadyState) String() string {
	switch s {
	case NotLoaded:
		return "not-loaded"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// Item is one clip in the reel.
type Item struct {
	Index   int    `yaml:"-" json:"index"`
	Title   string `yaml:"title" json:"title"`
	Caption string `yaml:"caption" json:"caption"`
	Src     string `yaml:"src" json:"src"`
}

// Source is the playable asset behind an Item.
type Source interface {
	// Load buffers the asset. It blocks and is never called on the owner
	// goroutine.
	Load(ctx context.Context) error
	// Play starts playback. Failures are expected and non-fatal.
	Play() error
	// Pause stops playback, keeping position.
	Pause()
}

// Entry pairs an item with its source.
type Entry struct {
	Item   Item
	Source Source
}

// ErrNotLoaded is returned by Play on a source that has not been buffered.
var ErrNotLoaded = errors.New("media: source not loaded")

// RegistryConfig configures a Registry.
type RegistryConfig struct {
	Dispatcher  loop.Dispatcher
	Logger      *slog.Logger
	LoadTimeout time.Duration
}

// DefaultLoadTimeout bounds a single Load call.
const DefaultLoadTimeout = 2 * time.Minute

// =============================================================================
// REGISTRY
// =============================================================================

// Registry owns the items, their sources, ready states and active marker.
// Every method must be called on the owner goroutine.
type Registry struct {
	items   []Item
	sources []Source
	states  []ReadyState
	active  []bool
	gen     []int

	listeners map[int]map[int]func()
	nextID    int

	dispatch loop.Dispatcher
	logger   *slog.Logger
	timeout  time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRegistry creates a registry over entries. Item indexes are reassigned
// by position.
func NewRegistry(cfg RegistryConfig, entries ...Entry) *Registry {
	if cfg.Dispatcher == nil {
		cfg.Dispatcher = loop.Inline
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.LoadTimeout <= 0 {
		cfg.LoadTimeout = DefaultLoadTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &Registry{
		items:     make([]Item, len(entries)),
		sources:   make([]Source, len(entries)),
		states:    make([]ReadyState, len(entries)),
		active:    make([]bool, len(entries)),
		gen:       make([]int, len(entries)),
		listeners: make(map[int]map[int]func()),
		dispatch:  cfg.Dispatcher,
		logger:    cfg.Logger,
		timeout:   cfg.LoadTimeout,
		ctx:       ctx,
		cancel:    cancel,
	}
	for i, e := range entries {
		e.Item.Index = i
		r.items[i] = e.Item
		r.sources[i] = e.Source
	}
	return r
}

// Len returns the number of items.
func (r *Registry) Len() int { return len(r.items) }

// Item returns the item at i.
func (r *Registry) Item(i int) Item {
	if !r.valid(i) {
		return Item{Index: -1}
	}
	return r.items[i]
}

// Items returns a copy of all items.
func (r *Registry) Items() []Item {
	out := make([]Item, len(r.items))
	copy(out, r.items)
	return out
}

// State returns the ready state of item i.
func (r *Registry) State(i int) ReadyState {
	if !r.valid(i) {
		return NotLoaded
	}
	return r.states[i]
}

func (r *Registry) valid(i int) bool { return i >= 0 && i < len(r.items) }

// Preload starts buffering item i if it has not been requested yet.
func (r *Registry) Preload(i int) {
	if !r.valid(i) || r.states[i] != NotLoaded {
		return
	}
	if r.ctx.Err() != nil {
		return
	}
	r.states[i] = Loading
	gen := r.gen[i]
	src := r.sources[i]

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ctx, cancel := context.WithTimeout(r.ctx, r.timeout)
		err := src.Load(ctx)
		cancel()
		r.dispatch.Post(func() { r.loaded(i, gen, err) })
	}()
}

// loaded runs on the owner once a Load returns.
func (r *Registry) loaded(i, gen int, err error) {
	if r.gen[i] != gen || r.ctx.Err() != nil {
		return
	}
	if err != nil {
		// Back to NotLoaded so the next visit retries.
		r.logger.Warn("media load failed", "index", i, "src", r.items[i].Src, "error", err)
		r.states[i] = NotLoaded
		return
	}
	r.states[i] = Ready
	r.logger.Debug("media ready", "index", i, "src", r.items[i].Src)

	ls := r.listeners[i]
	delete(r.listeners, i)
	for _, id := range sortedIDs(ls) {
		ls[id]()
	}
}

// OnReady registers a one-shot callback for item i becoming Ready. If the
// item is already Ready the callback is posted immediately. The returned
// function cancels the registration and is safe to call more than once.
func (r *Registry) OnReady(i int, fn func()) (cancel func()) {
	if !r.valid(i) || fn == nil {
		return func() {}
	}
	r.nextID++
	id := r.nextID

	if r.states[i] == Ready {
		done := false
		r.dispatch.Post(func() {
			if !done {
				done = true
				fn()
			}
		})
		return func() { done = true }
	}

	if r.listeners[i] == nil {
		r.listeners[i] = make(map[int]func())
	}
	r.listeners[i][id] = fn
	return func() {
		if ls := r.listeners[i]; ls != nil {
			delete(ls, id)
		}
	}
}

// Listeners returns the number of pending OnReady callbacks for item i.
func (r *Registry) Listeners(i int) int { return len(r.listeners[i]) }

// Activate marks item i active and starts playback. Play errors are logged
// and swallowed.
func (r *Registry) Activate(i int) {
	if !r.valid(i) {
		return
	}
	r.active[i] = true
	if err := r.sources[i].Play(); err != nil {
		r.logger.Debug("media play refused", "index", i, "error", err)
	}
}

// Deactivate stops item i and clears its active marker.
func (r *Registry) Deactivate(i int) {
	if !r.valid(i) {
		return
	}
	r.sources[i].Pause()
	r.active[i] = false
}

// Pause pauses item i without changing the active marker.
func (r *Registry) Pause(i int) {
	if r.valid(i) {
		r.sources[i].Pause()
	}
}

// Resume restarts playback of item i if it is active.
func (r *Registry) Resume(i int) {
	if !r.valid(i) || !r.active[i] {
		return
	}
	if err := r.sources[i].Play(); err != nil {
		r.logger.Debug("media resume refused", "index", i, "error", err)
	}
}

// IsActive reports whether item i carries the active marker.
func (r *Registry) IsActive(i int) bool { return r.valid(i) && r.active[i] }

// Active returns the indexes carrying the active marker.
func (r *Registry) Active() []int {
	var out []int
	for i, a := range r.active {
		if a {
			out = append(out, i)
		}
	}
	return out
}

// Reload returns item i to NotLoaded. An in-flight load for it is ignored
// when it completes.
func (r *Registry) Reload(i int) {
	if !r.valid(i) {
		return
	}
	r.gen[i]++
	r.states[i] = NotLoaded
}

// Close cancels in-flight loads and waits for them to return.
func (r *Registry) Close() error {
	r.cancel()
	r.wg.Wait()
	var errs []error
	for i, s := range r.sources {
		s.Pause()
		if c, ok := s.(interface{ Close() error }); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close source %d: %w", i, err))
			}
		}
	}
	return errors.Join(errs...)
}

func sortedIDs(m map[int]func()) []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
