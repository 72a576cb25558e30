// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jeranaias/folio-tui/internal/api"
	"github.com/jeranaias/folio-tui/internal/config"
	"github.com/jeranaias/folio-tui/internal/contact"
)

// isolate points the config directory at a temp dir and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("FOLIO_HOME", dir)
	for _, k := range []string{
		"FOLIO_BASE_URL", "FOLIO_CONTACT_EMAIL", "FOLIO_MANIFEST", "FOLIO_AUTOPLAY_INTERVAL",
		"FOLIO_VOICE_COMMAND", "FOLIO_VOICE_LANG", "FOLIO_S3_ENDPOINT", "FOLIO_S3_REGION",
		"AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY", "FOLIO_THEME", "FOLIO_LOG_LEVEL", "FOLIO_DEBUG",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("FOLIO_ANALYTICS", "false")
	return dir
}

// run executes the command tree with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(""))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func newSite(t *testing.T, chat http.HandlerFunc) string {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/ai-chat", chat)
	mux.HandleFunc("/api/contact", func(w http.ResponseWriter, r *http.Request) {
		var req api.ContactRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(api.ContactResponse{Message: "Thanks " + req.Name})
	})
	mux.HandleFunc("/api/analytics", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	t.Setenv("FOLIO_BASE_URL", srv.URL)
	return srv.URL
}

func echoChat(w http.ResponseWriter, r *http.Request) {
	var req api.ChatRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	json.NewEncoder(w).Encode(api.ChatResponse{Reply: "echo: " + req.Message})
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"plain", errors.New("boom"), ExitGeneralError},
		{"connection", &api.ClientError{Type: api.ErrTypeConnection}, ExitNetworkError},
		{"timeout", fmt.Errorf("wrapped: %w", &api.ClientError{Type: api.ErrTypeTimeout}), ExitTimeoutError},
		{"server", &api.ClientError{Type: api.ErrTypeServer, Status: 500}, ExitGeneralError},
		{"config", &configError{errors.New("bad toml")}, ExitConfigError},
		{"validate", config.ValidateErrors{{Field: "x", Message: "y"}}, ExitConfigError},
		{"form", contact.FieldErrors{{Field: "email", Message: "Missing email"}}, ExitUsageError},
		{"tty", &TTYRequiredError{Operation: "chat"}, ExitUsageError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestConfigCommands(t *testing.T) {
	dir := isolate(t)
	want := filepath.Join(dir, "config.toml")

	out, err := run(t, "config", "path")
	require.NoError(t, err)
	require.Contains(t, out, want)
	require.Contains(t, out, "not created yet")

	_, err = run(t, "config", "init")
	require.NoError(t, err)
	require.FileExists(t, want)

	_, err = run(t, "config", "init")
	require.Error(t, err)
	_, err = run(t, "config", "init", "--force")
	require.NoError(t, err)

	_, err = run(t, "config", "set", "carousel.autoplay_interval", "40s")
	require.NoError(t, err)
	out, err = run(t, "config", "get", "carousel.autoplay_interval")
	require.NoError(t, err)
	require.Equal(t, "40s\n", out)

	_, err = run(t, "config", "set", "chat.max_history", "0")
	require.Error(t, err)
	require.Equal(t, ExitConfigError, GetExitCode(err))
	data, err := os.ReadFile(want)
	require.NoError(t, err)
	require.NotContains(t, string(data), "max_history = 0")

	_, err = run(t, "config", "get", "no.such.key")
	require.Error(t, err)

	out, err = run(t, "config", "show")
	require.NoError(t, err)
	require.Contains(t, out, "autoplay_interval = \"40s\"")
}

func TestConfigSet_DoesNotPersistEnvOverrides(t *testing.T) {
	dir := isolate(t)
	t.Setenv("FOLIO_THEME", "light")

	_, err := run(t, "config", "set", "ui.toast_duration", "4s")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	require.NotContains(t, string(data), "light")
	require.Contains(t, string(data), "4s")
}

func TestAsk(t *testing.T) {
	isolate(t)
	newSite(t, echoChat)

	out, err := run(t, "ask", "hello", "there")
	require.NoError(t, err)
	require.Equal(t, "echo: hello there\n", out)
}

func TestAsk_ServiceError(t *testing.T) {
	isolate(t)
	newSite(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "model offline"})
	})

	_, err := run(t, "ask", "hello")
	require.Error(t, err)
	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	require.Equal(t, "ask", cmdErr.Command)
	require.Contains(t, cmdErr.Reason, "hello@folio.dev")
}

func TestChatSession_PrintsOnlyAssistantMessages(t *testing.T) {
	isolate(t)
	newSite(t, echoChat)
	cfg, err := config.Load()
	require.NoError(t, err)

	var out, notices bytes.Buffer
	a, err := newLineApp(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), printNotifier{w: &notices}, false)
	require.NoError(t, err)
	defer a.Close()

	s := &chatSession{app: a, out: &out, ctx: context.Background()}
	a.Start(s.ctx)
	a.Chat.Open()
	a.Chat.Log().OnAppend(s.printMessage)

	s.send("ping")
	require.Contains(t, out.String(), "assistant>")
	require.Contains(t, out.String(), "echo: ping")
	require.Equal(t, 1, strings.Count(out.String(), "ping"), "user message echoed back")
}

func TestContact(t *testing.T) {
	isolate(t)
	newSite(t, echoChat)

	out, err := run(t, "contact",
		"--name", "Ada", "--email", "ada@example.com",
		"--subject", "Hi", "--message", "Are you free?")
	require.NoError(t, err)
	require.Contains(t, out, "Thanks Ada")
}

func TestContact_Validation(t *testing.T) {
	isolate(t)
	newSite(t, echoChat)

	_, err := run(t, "contact", "--name", "Ada", "--email", "not-an-address")
	require.Error(t, err)
	require.Equal(t, ExitUsageError, GetExitCode(err))
	require.Contains(t, err.Error(), "Invalid email address")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "folio "+Version))
	require.Contains(t, out, GitCommit)
}

func TestColorsEnabled_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	colorsEnabledOnce = sync.Once{}
	require.False(t, ColorsEnabled())

	ForceColorsEnabled(true)
	require.True(t, ColorsEnabled())
	ForceColorsEnabled(false)
}
