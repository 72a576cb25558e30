// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jeranaias/folio-tui/internal/api"
	"github.com/jeranaias/folio-tui/internal/chat"
	"github.com/jeranaias/folio-tui/internal/clock"
	"github.com/jeranaias/folio-tui/internal/config"
	"github.com/jeranaias/folio-tui/internal/logging"
	"github.com/jeranaias/folio-tui/internal/loop"
	"github.com/jeranaias/folio-tui/internal/media"
	"github.com/jeranaias/folio-tui/internal/voice"
)

type fakeSite struct {
	*httptest.Server
	mu     sync.Mutex
	events []string
	chats  []api.ChatRequest
}

func newFakeSite(t *testing.T) *fakeSite {
	t.Helper()
	s := &fakeSite{}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/ai-chat", func(w http.ResponseWriter, r *http.Request) {
		var req api.ChatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		s.mu.Lock()
		s.chats = append(s.chats, req)
		s.mu.Unlock()
		json.NewEncoder(w).Encode(api.ChatResponse{Reply: "echo: " + req.Message})
	})
	mux.HandleFunc("/api/analytics", func(w http.ResponseWriter, r *http.Request) {
		var ev api.Event
		_ = json.NewDecoder(r.Body).Decode(&ev)
		s.mu.Lock()
		s.events = append(s.events, ev.Event)
		s.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

func (s *fakeSite) eventNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.events...)
}

func testConfig(t *testing.T, site *fakeSite) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Site.BaseURL = site.URL
	cfg.Chat.TranscriptPath = filepath.Join(dir, "transcripts.db")
	cfg.Chat.ExportDir = dir
	cfg.Carousel.CacheDir = filepath.Join(dir, "cache")
	cfg.Log.Path = ""

	for _, name := range []string{"a.mp4", "b.mp4"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte("clip"), 0644))
		cfg.Carousel.Items = append(cfg.Carousel.Items, config.ItemConfig{Title: name, Src: p})
	}
	cfg.SetDefaults()
	require.NoError(t, cfg.Validate())
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config) (*App, *clock.Fake) {
	t.Helper()
	q := loop.NewQueue()
	clk := clock.NewFake(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	off := voice.Unavailable()
	a, err := New(Options{
		Config: cfg,
		Logger: logging.Discard(),
		Queue:  q,
		Clock:  clk,
		Voice:  &off,
	})
	require.NoError(t, err)
	return a, clk
}

// drain runs queued callbacks until cond holds.
func drain(t *testing.T, q *loop.Queue, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not reached")
		}
		q.RunNext(50 * time.Millisecond)
	}
}

func TestApp_StartAndChat(t *testing.T) {
	site := newFakeSite(t)
	a, _ := newTestApp(t, testConfig(t, site))
	defer a.Close()

	require.NotNil(t, a.Carousel)
	require.Equal(t, 2, a.Media.Len())
	require.NotEmpty(t, a.SessionID)
	require.False(t, a.Voice.Available())

	a.Start(context.Background())
	drain(t, a.Queue, func() bool { return a.Media.State(0) == media.Ready })

	require.True(t, a.Chat.SendMessage("hello"))
	drain(t, a.Queue, func() bool { return a.Chat.Log().Len() == 2 })

	last, _ := a.Chat.Log().Last()
	require.Equal(t, chat.Assistant, last.Sender)
	require.Equal(t, "echo: hello", last.Text)
	require.Len(t, a.History(), 1)

	require.NoError(t, a.Tracker.Flush(context.Background()))
	require.Contains(t, site.eventNames(), "page_view")
	require.Contains(t, site.eventNames(), "ai_chat_message")
}

func TestApp_RecordAndResume(t *testing.T) {
	site := newFakeSite(t)
	cfg := testConfig(t, site)
	cfg.Chat.Record = true

	first, _ := newTestApp(t, cfg)
	first.Start(context.Background())
	first.Chat.SendMessage("remember me")
	drain(t, first.Queue, func() bool { return first.Chat.Log().Len() == 2 })
	require.NoError(t, first.Close())

	cfg2 := cfg.Clone()
	cfg2.Chat.Record = false
	cfg2.Chat.Resume = true
	second, _ := newTestApp(t, cfg2)
	defer second.Close()
	second.Start(context.Background())

	turns := second.History()
	require.Len(t, turns, 1)
	require.Equal(t, "remember me", turns[0].User)

	second.Chat.SendMessage("again")
	drain(t, second.Queue, func() bool { return second.Chat.Log().Len() == 2 })

	site.mu.Lock()
	lastReq := site.chats[len(site.chats)-1]
	site.mu.Unlock()
	require.Len(t, lastReq.History, 1)
}

func TestApp_NoReelItems(t *testing.T) {
	site := newFakeSite(t)
	cfg := testConfig(t, site)
	cfg.Carousel.Items = nil

	a, _ := newTestApp(t, cfg)
	defer a.Close()
	require.Nil(t, a.Carousel)
	require.Nil(t, a.Media)
	a.Start(context.Background())
}

func TestApp_ApplyConfig(t *testing.T) {
	site := newFakeSite(t)
	a, _ := newTestApp(t, testConfig(t, site))
	defer a.Close()

	next := config.Default()
	next.Carousel.AutoplayInterval = config.Duration(40 * time.Second)
	next.Carousel.SettleDelay = config.Duration(500 * time.Millisecond)
	a.ApplyConfig(next)

	require.Equal(t, 40*time.Second, a.Carousel.Config().AutoplayInterval)
	require.Equal(t, 500*time.Millisecond, a.Carousel.Config().SettleDelay)
}

func TestApp_Export(t *testing.T) {
	site := newFakeSite(t)
	a, _ := newTestApp(t, testConfig(t, site))
	defer a.Close()

	_, err := a.Export("html")
	require.Error(t, err, "empty log should not export")

	a.Chat.SendMessage("<b>hi</b>")
	drain(t, a.Queue, func() bool { return a.Chat.Log().Len() == 2 })

	path, err := a.Export("")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(path, ".html"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "&lt;b&gt;hi&lt;/b&gt;")
}
