// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/jeranaias/folio-tui/internal/api"
	"github.com/jeranaias/folio-tui/internal/history"
	"github.com/jeranaias/folio-tui/internal/loop"
	"github.com/jeranaias/folio-tui/internal/telemetry"
)

// =============================================================================
// COLLABORATORS
// =============================================================================

// Requester performs one chat exchange. *api.Client satisfies it.
type Requester interface {
	Chat(ctx context.Context, req api.ChatRequest) (string, error)
}

// Tracker receives analytics events. *telemetry.Tracker satisfies it.
type Tracker interface {
	Track(event string, data map[string]any)
}

// Notifier shows a transient message. The UI toast manager satisfies it.
type Notifier interface {
	Notify(message string, d time.Duration)
}

// Recorder persists completed exchanges.
type Recorder interface {
	RecordTurn(ctx context.Context, t history.Turn) error
}

// =============================================================================
// CONFIGURATION
// =============================================================================

// Config holds controller settings.
type Config struct {
	// ContactEmail is offered in every failure message.
	ContactEmail string
	// RequestTimeout bounds one chat request.
	RequestTimeout time.Duration
	// MaxHistory is the history buffer capacity.
	MaxHistory int
	// QuickReplies are canned prompts offered to the user.
	QuickReplies []string
	// NotifyDuration is how long the "new reply" toast stays up.
	NotifyDuration time.Duration
}

// DefaultQuickReplies are the prompts offered when none are configured.
var DefaultQuickReplies = []string{
	"What projects have you worked on?",
	"What are your skills?",
	"How can I contact you?",
}

// DefaultConfig returns the default controller settings.
func DefaultConfig() Config {
	return Config{
		ContactEmail:   "hello@folio.dev",
		RequestTimeout: 30 * time.Second,
		MaxHistory:     history.MaxHistory,
		QuickReplies:   DefaultQuickReplies,
		NotifyDuration: 3 * time.Second,
	}
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithTracker sets the analytics tracker.
func WithTracker(t Tracker) ControllerOption {
	return func(c *Controller) { c.tracker = t }
}

// WithNotifier sets the toast surface.
func WithNotifier(n Notifier) ControllerOption {
	return func(c *Controller) { c.notifier = n }
}

// WithRecorder sets the transcript recorder.
func WithRecorder(r Recorder) ControllerOption {
	return func(c *Controller) { c.recorder = r }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) ControllerOption {
	return func(c *Controller) { c.logger = l }
}

// WithNow sets the timestamp source.
func WithNow(now func() time.Time) ControllerOption {
	return func(c *Controller) { c.now = now }
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller runs the chat session. Every exported method must be called on
// the owner goroutine.
type Controller struct {
	cfg       Config
	log       *Log
	buffer    *history.Buffer
	requester Requester
	dispatch  loop.Dispatcher

	tracker  Tracker
	notifier Notifier
	recorder Recorder
	logger   *slog.Logger
	now      func() time.Time

	inflight int
	open     bool
	closed   bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewController creates a controller. Completions are applied through
// dispatch.
func NewController(requester Requester, dispatch loop.Dispatcher, cfg Config, opts ...ControllerOption) *Controller {
	def := DefaultConfig()
	if cfg.ContactEmail == "" {
		cfg.ContactEmail = def.ContactEmail
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = def.RequestTimeout
	}
	if cfg.MaxHistory <= 0 {
		cfg.MaxHistory = def.MaxHistory
	}
	if cfg.QuickReplies == nil {
		cfg.QuickReplies = def.QuickReplies
	}
	if cfg.NotifyDuration <= 0 {
		cfg.NotifyDuration = def.NotifyDuration
	}
	if dispatch == nil {
		dispatch = loop.Inline
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		cfg:       cfg,
		log:       NewLog(),
		buffer:    history.New(cfg.MaxHistory),
		requester: requester,
		dispatch:  dispatch,
		logger:    slog.Default(),
		now:       time.Now,
		ctx:       ctx,
		cancel:    cancel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Log returns the visible message log.
func (c *Controller) Log() *Log { return c.log }

// History returns a snapshot of the conversation buffer.
func (c *Controller) History() []history.Turn { return c.buffer.Snapshot() }

// RestoreHistory seeds the conversation buffer, keeping the newest turns.
func (c *Controller) RestoreHistory(turns []history.Turn) { c.buffer.Restore(turns) }

// InFlight returns the number of outstanding requests.
func (c *Controller) InFlight() int { return c.inflight }

// ContactEmail returns the fallback address.
func (c *Controller) ContactEmail() string { return c.cfg.ContactEmail }

// QuickReplies returns the canned prompts.
func (c *Controller) QuickReplies() []string { return c.cfg.QuickReplies }

// SendQuickReply sends the i-th canned prompt.
func (c *Controller) SendQuickReply(i int) bool {
	if i < 0 || i >= len(c.cfg.QuickReplies) {
		return false
	}
	return c.SendMessage(c.cfg.QuickReplies[i])
}

// SendMessage sends text to the assistant. Blank text is ignored and
// reported as false.
func (c *Controller) SendMessage(text string) bool {
	text = strings.TrimSpace(norm.NFC.String(text))
	if text == "" || c.closed {
		return false
	}

	c.log.Append(User, text, c.now())
	c.log.ShowTyping()
	c.inflight++

	req := api.ChatRequest{Message: text, History: c.buffer.Snapshot()}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ctx, cancel := context.WithTimeout(c.ctx, c.cfg.RequestTimeout)
		reply, err := c.requester.Chat(ctx, req)
		cancel()
		c.dispatch.Post(func() { c.complete(text, reply, err) })
	}()
	return true
}

// complete applies a finished request on the owner goroutine.
func (c *Controller) complete(text, reply string, err error) {
	if c.closed {
		return
	}
	c.inflight--
	if c.inflight <= 0 {
		c.inflight = 0
		c.log.RemoveTyping()
	}

	if err != nil {
		f := Classify(err, c.cfg.ContactEmail)
		c.logger.Warn("chat request failed", "kind", f.Kind, "status", f.Status, "error", err)
		c.log.append(Message{Sender: Assistant, Text: f.Display, Failure: true, At: c.now()})
		c.track(telemetry.EventChatMessage, map[string]any{"success": false, "error": f.Raw})
		return
	}

	c.log.Append(Assistant, reply, c.now())
	turn := history.Turn{User: text, AI: reply}
	c.buffer.Push(turn)
	c.track(telemetry.EventChatMessage, map[string]any{"success": true})

	if !c.open && c.notifier != nil {
		c.notifier.Notify("💬 New reply from the assistant", c.cfg.NotifyDuration)
	}
	if c.recorder != nil {
		c.record(turn)
	}
}

func (c *Controller) record(turn history.Turn) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		// Recording outlives Shutdown's cancel; Shutdown still waits for it.
		ctx, cancel := context.WithTimeout(context.WithoutCancel(c.ctx), 5*time.Second)
		defer cancel()
		if err := c.recorder.RecordTurn(ctx, turn); err != nil {
			c.logger.Warn("transcript record failed", "error", err)
		}
	}()
}

// AddAssistantMessage appends an assistant message that did not come from
// a request, such as a voice permission notice.
func (c *Controller) AddAssistantMessage(text string) {
	if c.closed {
		return
	}
	c.log.Append(Assistant, text, c.now())
}

// =============================================================================
// PANEL
// =============================================================================

// IsOpen reports whether the chat panel is open.
func (c *Controller) IsOpen() bool { return c.open }

// Open opens the panel, tracking the event on the closed-to-open edge.
func (c *Controller) Open() {
	if c.open {
		return
	}
	c.open = true
	c.track(telemetry.EventChatOpened, nil)
}

// ClosePanel closes the panel.
func (c *Controller) ClosePanel() { c.open = false }

// Toggle flips the panel and returns the new state.
func (c *Controller) Toggle() bool {
	if c.open {
		c.ClosePanel()
	} else {
		c.Open()
	}
	return c.open
}

func (c *Controller) track(event string, data map[string]any) {
	if c.tracker != nil {
		c.tracker.Track(event, data)
	}
}

// Shutdown abandons outstanding requests and waits for their goroutines.
func (c *Controller) Shutdown() {
	if c.closed {
		return
	}
	c.closed = true
	c.cancel()
	c.wg.Wait()
}
