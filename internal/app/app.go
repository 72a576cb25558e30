// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app builds the per-run application context.
//
// One App holds every component of a run. It is created once by the CLI,
// handed to whichever front end drives it (TUI or line REPL), and closed
// once. Components never reach for globals; they get what they need here.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/folio-tui/internal/api"
	"github.com/jeranaias/folio-tui/internal/carousel"
	"github.com/jeranaias/folio-tui/internal/chat"
	"github.com/jeranaias/folio-tui/internal/clock"
	"github.com/jeranaias/folio-tui/internal/config"
	"github.com/jeranaias/folio-tui/internal/contact"
	"github.com/jeranaias/folio-tui/internal/export"
	"github.com/jeranaias/folio-tui/internal/history"
	"github.com/jeranaias/folio-tui/internal/loop"
	"github.com/jeranaias/folio-tui/internal/media"
	"github.com/jeranaias/folio-tui/internal/storage"
	"github.com/jeranaias/folio-tui/internal/telemetry"
	"github.com/jeranaias/folio-tui/internal/voice"
)

// Notifier shows a transient message to the user.
type Notifier interface {
	Notify(message string, d time.Duration)
}

// Options are the run-specific inputs to New.
type Options struct {
	Config *config.Config
	Logger *slog.Logger

	// Queue receives every completion. A new one is created when nil.
	Queue *loop.Queue
	// Clock defaults to a real clock posting through Queue.
	Clock    clock.Clock
	Notifier Notifier

	HTTPClient *http.Client
	// S3 overrides the client built from config.
	S3 media.S3Getter
	// Voice overrides recognizer detection.
	Voice *voice.Capability

	// NoMedia skips the reel, for the headless commands.
	NoMedia bool
}

// App is the application context for one run.
type App struct {
	Config    *config.Config
	Logger    *slog.Logger
	Queue     *loop.Queue
	Clock     clock.Clock
	SessionID string

	API      *api.Client
	Tracker  *telemetry.Tracker
	Media    *media.Registry
	Carousel *carousel.Machine
	Chat     *chat.Controller
	Voice    *voice.Adapter
	Contact  *contact.Controller
	Store    *storage.TranscriptStore

	started bool
	closed  bool
}

// New wires every component. The returned App has not started; call Start
// from the owner goroutine.
func New(opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
		cfg.SetDefaults()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	q := opts.Queue
	if q == nil {
		q = loop.NewQueue()
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.NewReal(q)
	}

	a := &App{
		Config:    cfg,
		Logger:    logger,
		Queue:     q,
		Clock:     clk,
		SessionID: uuid.NewString(),
	}

	apiCfg := api.DefaultConfig()
	apiCfg.BaseURL = cfg.Site.BaseURL
	apiCfg.ChatPath = cfg.Site.ChatPath
	apiCfg.ContactPath = cfg.Site.ContactPath
	apiCfg.AnalyticsPath = cfg.Site.AnalyticsPath
	apiCfg.Timeout = cfg.Site.Timeout.D()
	if opts.HTTPClient != nil {
		apiCfg.HTTPClient = opts.HTTPClient
	}
	a.API = api.NewClientWithConfig(apiCfg)

	a.Tracker = telemetry.New(a.API, telemetry.Config{
		Enabled: cfg.Analytics.Enabled,
		Rate:    cfg.Analytics.Rate,
		Burst:   cfg.Analytics.Burst,
		Timeout: cfg.Analytics.Timeout.D(),
	}, logger, a.SessionID)

	if !opts.NoMedia {
		if err := a.buildReel(opts); err != nil {
			a.Close()
			return nil, err
		}
	}

	if cfg.Chat.Record || cfg.Chat.Resume {
		store, err := storage.Open(cfg.Chat.TranscriptPath)
		if err != nil {
			// Transcripts are optional; the chat works without them.
			logger.Warn("transcript store unavailable", "path", cfg.Chat.TranscriptPath, "error", err)
		} else {
			a.Store = store
		}
	}

	chatOpts := []chat.ControllerOption{
		chat.WithTracker(a.Tracker),
		chat.WithLogger(logger.With("component", "chat")),
		chat.WithNow(clk.Now),
	}
	if opts.Notifier != nil {
		chatOpts = append(chatOpts, chat.WithNotifier(opts.Notifier))
	}
	if a.Store != nil && cfg.Chat.Record {
		chatOpts = append(chatOpts, chat.WithRecorder(a.Store.Session(a.SessionID)))
	}
	a.Chat = chat.NewController(a.API, q, chat.Config{
		ContactEmail:   cfg.Site.ContactEmail,
		RequestTimeout: cfg.Site.Timeout.D(),
		MaxHistory:     cfg.Chat.MaxHistory,
		QuickReplies:   cfg.Chat.QuickReplies,
		NotifyDuration: cfg.Chat.NotifyDuration.D(),
	}, chatOpts...)

	capability := voice.Unavailable()
	switch {
	case opts.Voice != nil:
		capability = *opts.Voice
	case cfg.Voice.Enabled:
		capability = voice.Detect(voice.CommandConfig{
			Command:  cfg.Voice.Command,
			Args:     cfg.Voice.Args,
			Language: cfg.Voice.Language,
		})
	}
	a.Voice = voice.NewAdapter(capability, a.Chat, q, logger)

	var contactNotifier contact.Notifier
	if opts.Notifier != nil {
		contactNotifier = opts.Notifier
	}
	a.Contact = contact.NewController(a.API, q, clk, contact.Config{
		ContactEmail:  cfg.Site.ContactEmail,
		HideAfter:     cfg.UI.StatusHideAfter.D(),
		Timeout:       cfg.Site.Timeout.D(),
		ToastDuration: cfg.UI.ToastDuration.D(),
	}, a.Tracker, contactNotifier, logger.With("component", "contact"))

	return a, nil
}

func (a *App) buildReel(opts Options) error {
	cfg := a.Config
	items, err := reelItems(cfg)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		a.Logger.Info("no reel items configured")
		return nil
	}

	getter := opts.S3
	if getter == nil && anyS3(items) {
		getter = media.NewS3Client(media.S3Options{
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			PathStyle:       cfg.S3.PathStyle,
		})
	}
	entries, err := media.OpenAll(items, media.OpenConfig{
		CacheDir:   cfg.Carousel.CacheDir,
		HTTPClient: opts.HTTPClient,
		S3:         getter,
	})
	if err != nil {
		return fmt.Errorf("open reel: %w", err)
	}

	a.Media = media.NewRegistry(media.RegistryConfig{
		Dispatcher:  a.Queue,
		Logger:      a.Logger,
		LoadTimeout: cfg.Carousel.LoadTimeout.D(),
	}, entries...)

	m, err := carousel.New(a.Media, a.Clock, carouselConfig(cfg), a.Logger.With("component", "carousel"))
	if err != nil {
		return err
	}
	a.Carousel = m
	return nil
}

func reelItems(cfg *config.Config) ([]media.Item, error) {
	if len(cfg.Carousel.Items) > 0 {
		items := make([]media.Item, len(cfg.Carousel.Items))
		for i, it := range cfg.Carousel.Items {
			items[i] = media.Item{Index: i, Title: it.Title, Caption: it.Caption, Src: it.Src}
		}
		return items, nil
	}
	if cfg.Carousel.Manifest != "" {
		return media.LoadManifest(cfg.Carousel.Manifest)
	}
	return nil, nil
}

func anyS3(items []media.Item) bool {
	for _, it := range items {
		if strings.HasPrefix(it.Src, "s3://") {
			return true
		}
	}
	return false
}

func carouselConfig(cfg *config.Config) carousel.Config {
	return carousel.Config{
		AutoplayInterval: cfg.Carousel.AutoplayInterval.D(),
		SettleDelay:      cfg.Carousel.SettleDelay.D(),
		ReadyTimeout:     cfg.Carousel.ReadyTimeout.D(),
	}
}

// Start emits page_view, restores history when configured and starts the
// reel. Owner goroutine only.
func (a *App) Start(ctx context.Context) {
	if a.started || a.closed {
		return
	}
	a.started = true

	a.Tracker.Track(telemetry.EventPageView, map[string]any{"surface": "tui"})

	if a.Store != nil && a.Config.Chat.Resume {
		turns, err := a.Store.Recent(ctx, a.Config.Chat.MaxHistory)
		if err != nil {
			a.Logger.Warn("resume failed", "error", err)
		} else if len(turns) > 0 {
			a.Chat.RestoreHistory(turns)
			a.Logger.Info("conversation resumed", "turns", len(turns))
		}
	}

	if a.Carousel != nil {
		a.Carousel.Start()
	}
}

// ApplyConfig applies the hot-reloadable subset of cfg: reel timings.
// Owner goroutine only.
func (a *App) ApplyConfig(cfg *config.Config) {
	if a.closed || cfg == nil {
		return
	}
	a.Config.Carousel.AutoplayInterval = cfg.Carousel.AutoplayInterval
	a.Config.Carousel.SettleDelay = cfg.Carousel.SettleDelay
	a.Config.Carousel.ReadyTimeout = cfg.Carousel.ReadyTimeout
	a.Config.UI.ToastDuration = cfg.UI.ToastDuration
	if a.Carousel != nil {
		a.Carousel.SetConfig(carouselConfig(a.Config))
	}
	a.Logger.Debug("config applied",
		"autoplay_interval", a.Config.Carousel.AutoplayInterval,
		"settle_delay", a.Config.Carousel.SettleDelay)
}

// WatchConfig reloads path on change and applies it on the owner goroutine.
func (a *App) WatchConfig(path string) (*config.Watcher, error) {
	return config.Watch(path, func(cfg *config.Config) {
		a.Queue.Post(func() { a.ApplyConfig(cfg) })
	}, a.Logger)
}

// Export writes the visible chat log in the configured format.
func (a *App) Export(format string) (string, error) {
	if format == "" {
		format = a.Config.Chat.ExportFormat
	}
	opts := export.DefaultOptions()
	opts.OutputDir = a.Config.Chat.ExportDir
	exp, err := export.ForFormat(format, opts)
	if err != nil {
		return "", err
	}
	return export.ExportToFile(export.FromLog("Chat with the assistant", a.SessionID, a.Chat.Log()), exp, opts)
}

// History returns the current conversation context.
func (a *App) History() []history.Turn {
	return a.Chat.History()
}

// Close stops every component, flushes telemetry and closes the store.
// Owner goroutine only; safe to call more than once.
func (a *App) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true

	var errs []error
	if a.Voice != nil {
		a.Voice.Stop()
	}
	if a.Carousel != nil {
		a.Carousel.Close()
	}
	if a.Chat != nil {
		a.Chat.Shutdown()
	}
	if a.Contact != nil {
		a.Contact.Shutdown()
	}
	if a.Media != nil {
		errs = append(errs, a.Media.Close())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := a.Tracker.Flush(ctx); err != nil {
		a.Logger.Debug("telemetry flush incomplete", "error", err)
	}

	if a.Store != nil {
		errs = append(errs, a.Store.Close())
	}
	a.Queue.Close()
	return errors.Join(errs...)
}
