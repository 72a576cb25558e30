// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package contact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jeranaias/folio-tui/internal/api"
	"github.com/jeranaias/folio-tui/internal/clock"
	"github.com/jeranaias/folio-tui/internal/loop"
	"github.com/jeranaias/folio-tui/internal/telemetry"
)

// Messages shown by the form.
const (
	DefaultSuccessText = "✅ Message sent successfully! I'll get back to you within 24 hours."
	SuccessToast       = "✅ Message sent successfully!"
	networkErrorText   = "Network error. Please check your connection."
	fallbackErrorText  = "Something went wrong."
	emailSuffixFormat  = " You can also email me directly at %s"
)

// ErrSubmitting is returned by Submit while a submission is in flight.
var ErrSubmitting = errors.New("contact: submission in progress")

// StatusKind is the form status banner variant.
type StatusKind int

const (
	StatusHidden StatusKind = iota
	StatusSuccess
	StatusError
)

// Status is the banner under the form.
type Status struct {
	Kind StatusKind
	Text string
}

// Submitter posts the form. *api.Client satisfies it.
type Submitter interface {
	SubmitContact(ctx context.Context, req api.ContactRequest) (*api.ContactResponse, error)
}

// Tracker receives analytics events.
type Tracker interface {
	Track(event string, data map[string]any)
}

// Notifier shows a toast.
type Notifier interface {
	Notify(message string, d time.Duration)
}

// Config holds form settings.
type Config struct {
	ContactEmail  string
	HideAfter     time.Duration
	Timeout       time.Duration
	ToastDuration time.Duration
}

// DefaultConfig returns the default settings.
func DefaultConfig() Config {
	return Config{
		ContactEmail:  "hello@folio.dev",
		HideAfter:     5 * time.Second,
		Timeout:       30 * time.Second,
		ToastDuration: 3 * time.Second,
	}
}

// Controller runs submissions. Methods run on the owner goroutine.
type Controller struct {
	cfg      Config
	sub      Submitter
	dispatch loop.Dispatcher
	clock    clock.Clock
	tracker  Tracker
	notifier Notifier
	logger   *slog.Logger

	submitting bool
	status     Status
	hide       clock.Timer
	onSuccess  func()

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewController creates a controller. tracker and notifier may be nil.
func NewController(sub Submitter, d loop.Dispatcher, clk clock.Clock, cfg Config, tracker Tracker, notifier Notifier, logger *slog.Logger) *Controller {
	def := DefaultConfig()
	if cfg.ContactEmail == "" {
		cfg.ContactEmail = def.ContactEmail
	}
	if cfg.HideAfter <= 0 {
		cfg.HideAfter = def.HideAfter
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.ToastDuration <= 0 {
		cfg.ToastDuration = def.ToastDuration
	}
	if d == nil {
		d = loop.Inline
	}
	if clk == nil {
		clk = clock.NewReal(d)
	}
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		cfg: cfg, sub: sub, dispatch: d, clock: clk,
		tracker: tracker, notifier: notifier, logger: logger,
		ctx: ctx, cancel: cancel,
	}
}

// OnSuccess registers fn to run after a successful submission, typically
// to reset the form.
func (c *Controller) OnSuccess(fn func()) { c.onSuccess = fn }

// Submitting reports whether a submission is in flight.
func (c *Controller) Submitting() bool { return c.submitting }

// Status returns the current banner.
func (c *Controller) Status() Status { return c.status }

// Submit validates f and posts it in the background. Validation failures
// are returned and also shown in the banner.
func (c *Controller) Submit(f Form) error {
	if c.submitting {
		return ErrSubmitting
	}
	if err := f.Validate(); err != nil {
		c.show(StatusError, "⚠️ "+err.Error())
		return err
	}

	c.submitting = true
	req := f.Request()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ctx, cancel := context.WithTimeout(c.ctx, c.cfg.Timeout)
		resp, err := c.sub.SubmitContact(ctx, req)
		cancel()
		c.dispatch.Post(func() { c.complete(req, resp, err) })
	}()
	return nil
}

func (c *Controller) complete(req api.ContactRequest, resp *api.ContactResponse, err error) {
	c.submitting = false
	if err != nil {
		c.logger.Warn("contact submission failed", "error", err)
		c.show(StatusError, c.failureText(err))
		return
	}

	text := DefaultSuccessText
	if resp != nil && resp.Message != "" {
		text = resp.Message
	}
	c.show(StatusSuccess, text)
	if c.notifier != nil {
		c.notifier.Notify(SuccessToast, c.cfg.ToastDuration)
	}
	if c.tracker != nil {
		c.tracker.Track(telemetry.EventContactSuccess, map[string]any{"email": req.Email})
	}
	if c.onSuccess != nil {
		c.onSuccess()
	}
}

func (c *Controller) failureText(err error) string {
	msg := fallbackErrorText
	var cerr *api.ClientError
	switch {
	case errors.As(err, &cerr) && (cerr.Type == api.ErrTypeConnection || cerr.Type == api.ErrTypeTimeout):
		msg = networkErrorText
	case errors.As(err, &cerr) && cerr.Type == api.ErrTypeServer:
		if cerr.Detail != "" {
			msg = cerr.Detail
		} else {
			msg = fmt.Sprintf("Server error: %d", cerr.Status)
		}
	case err != nil && err.Error() != "":
		msg = err.Error()
	}
	return "⚠️ " + msg + fmt.Sprintf(emailSuffixFormat, c.cfg.ContactEmail)
}

// show sets the banner and (re)arms the single hide timer.
func (c *Controller) show(kind StatusKind, text string) {
	c.status = Status{Kind: kind, Text: text}
	if c.hide != nil {
		c.hide.Stop()
	}
	c.hide = c.clock.AfterFunc(c.cfg.HideAfter, func() {
		c.hide = nil
		c.status = Status{}
	})
}

// Shutdown stops the hide timer and waits for an in-flight submission.
func (c *Controller) Shutdown() {
	if c.hide != nil {
		c.hide.Stop()
		c.hide = nil
	}
	c.cancel()
	c.wg.Wait()
}
