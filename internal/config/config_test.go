// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// isolate points the config directory at a temp dir and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("FOLIO_HOME", dir)
	for _, k := range []string{
		"FOLIO_BASE_URL", "FOLIO_CONTACT_EMAIL", "FOLIO_MANIFEST", "FOLIO_AUTOPLAY_INTERVAL",
		"FOLIO_VOICE_COMMAND", "FOLIO_VOICE_LANG", "FOLIO_ANALYTICS", "FOLIO_S3_ENDPOINT",
		"FOLIO_S3_REGION", "AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY", "FOLIO_THEME",
		"FOLIO_LOG_LEVEL", "FOLIO_DEBUG",
	} {
		t.Setenv(k, "")
	}
	return dir
}

func TestConfig_Default(t *testing.T) {
	cfg := Default()
	cfg.SetDefaults()
	require.NoError(t, cfg.Validate())

	require.Equal(t, 25*time.Second, cfg.Carousel.AutoplayInterval.D())
	require.Equal(t, time.Second, cfg.Carousel.SettleDelay.D())
	require.Equal(t, 2*time.Second, cfg.Carousel.ReadyTimeout.D())
	require.Equal(t, 6, cfg.Chat.MaxHistory)
	require.Equal(t, "/api/ai-chat", cfg.Site.ChatPath)
}

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	dir := isolate(t)
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "transcripts.db"), cfg.Chat.TranscriptPath)
	require.Equal(t, "", ActivePath())
}

func TestLoad_TOML(t *testing.T) {
	dir := isolate(t)
	content := `
[site]
base_url = "https://folio.example"
contact_email = "me@folio.example"

[carousel]
manifest = "reel.yaml"
settle_delay = "1500ms"
autoplay_interval = 30000

[[carousel.items]]
title = "Robotics"
src = "clips/robotics.mp4"

[chat]
quick_replies = ["Projects?", "Stack?"]
`
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, path, ActivePath())
	require.Equal(t, "https://folio.example", cfg.Site.BaseURL)
	require.Equal(t, 1500*time.Millisecond, cfg.Carousel.SettleDelay.D())
	require.Equal(t, 30*time.Second, cfg.Carousel.AutoplayInterval.D())
	require.Equal(t, filepath.Join(dir, "reel.yaml"), cfg.Carousel.Manifest)
	require.Len(t, cfg.Carousel.Items, 1)
	require.Equal(t, []string{"Projects?", "Stack?"}, cfg.Chat.QuickReplies)
	// untouched keys keep defaults
	require.Equal(t, 2*time.Second, cfg.Carousel.ReadyTimeout.D())
}

func TestLoad_JSONFallback(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"ui": {"theme": "light", "toast_duration": "4s"}}`), 0600))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "light", cfg.UI.Theme)
	require.Equal(t, 4*time.Second, cfg.UI.ToastDuration.D())
}

func TestLoad_DotEnvAndOverrides(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("FOLIO_THEME=dark\n"), 0600))
	os.Unsetenv("FOLIO_THEME")
	t.Cleanup(func() { os.Unsetenv("FOLIO_THEME") })
	t.Setenv("FOLIO_DEBUG", "1")
	t.Setenv("FOLIO_ANALYTICS", "false")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "dark", cfg.UI.Theme)
	require.Equal(t, "debug", cfg.Log.Level)
	require.False(t, cfg.Analytics.Enabled)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad base url", func(c *Config) { c.Site.BaseURL = "ftp://x" }, "site.base_url"},
		{"relative chat path", func(c *Config) { c.Site.ChatPath = "api/chat" }, "site.chat_path"},
		{"short autoplay", func(c *Config) { c.Carousel.AutoplayInterval = Duration(time.Millisecond) }, "carousel.autoplay_interval"},
		{"zero ready timeout", func(c *Config) { c.Carousel.ReadyTimeout = 0 }, "carousel.ready_timeout"},
		{"item without src", func(c *Config) { c.Carousel.Items = []ItemConfig{{Title: "x"}} }, "carousel.items[0].src"},
		{"history too big", func(c *Config) { c.Chat.MaxHistory = 1000 }, "chat.max_history"},
		{"half s3 keys", func(c *Config) { c.S3.AccessKeyID = "AKIA" }, "s3.secret_access_key"},
		{"unknown theme", func(c *Config) { c.UI.Theme = "neon" }, "ui.theme"},
		{"unknown log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)

			var verrs ValidateErrors
			require.True(t, errors.As(err, &verrs))
			found := false
			for _, e := range verrs {
				if e.Field == tt.field {
					found = true
				}
			}
			require.True(t, found, "expected error on %s, got %v", tt.field, err)
		})
	}
}

func TestConfig_GetSet(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Set("carousel.settle_delay", "750ms"))
	v, err := cfg.Get("carousel.settle_delay")
	require.NoError(t, err)
	require.Equal(t, Duration(750*time.Millisecond), v)

	require.NoError(t, cfg.Set("chat.max_history", "4"))
	require.Equal(t, 4, cfg.Chat.MaxHistory)

	require.NoError(t, cfg.Set("chat.quick_replies", "a, b"))
	require.Equal(t, []string{"a", "b"}, cfg.Chat.QuickReplies)

	require.NoError(t, cfg.Set("analytics.enabled", "no"))
	require.False(t, cfg.Analytics.Enabled)

	_, err = cfg.Get("carousel.nope")
	require.Error(t, err)
	require.Error(t, cfg.Set("site.base_url.x", "y"))
}

func TestConfig_StringRedactsSecrets(t *testing.T) {
	cfg := Default()
	cfg.S3.AccessKeyID = "AKIA123"
	cfg.S3.SecretAccessKey = "supersecret"

	out := cfg.String()
	require.NotContains(t, out, "supersecret")
	require.Contains(t, out, "[REDACTED]")
	require.Equal(t, "supersecret", cfg.S3.SecretAccessKey)
}

func TestSaveTOML_RoundTrip(t *testing.T) {
	dir := isolate(t)
	cfg := Default()
	cfg.Carousel.Items = []ItemConfig{{Title: "A", Src: "a.mp4"}}
	cfg.Carousel.SettleDelay = Duration(3 * time.Second)

	path := filepath.Join(dir, "config.toml")
	require.NoError(t, SaveTOML(cfg, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "# folio configuration file"))
	require.Contains(t, string(data), `settle_delay = "3s"`)

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	require.Equal(t, 3*time.Second, loaded.Carousel.SettleDelay.D())
	require.Equal(t, "a.mp4", loaded.Carousel.Items[0].Src)
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, SaveTOML(Default(), path))

	got := make(chan *Config, 4)
	w, err := Watch(path, func(c *Config) { got <- c }, nil)
	require.NoError(t, err)
	defer w.Close()

	cfg := Default()
	cfg.Carousel.AutoplayInterval = Duration(40 * time.Second)
	require.NoError(t, SaveTOML(cfg, path))

	select {
	case c := <-got:
		require.Equal(t, 40*time.Second, c.Carousel.AutoplayInterval.D())
	case <-time.After(5 * time.Second):
		t.Fatal("no reload observed")
	}
}
