// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/folio-tui/internal/chat"
)

func sampleLog() *chat.Log {
	log := chat.NewLog()
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	log.Append(chat.User, "<script>alert('x')</script>", at)
	log.Append(chat.Assistant, "Hi & welcome\nline two", at.Add(time.Second))
	return log
}

func TestHTMLExporter_EscapesMessageText(t *testing.T) {
	tr := FromLog("Chat <b>", "sess-1", sampleLog())
	out, err := NewHTMLExporter(nil).Export(tr)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	result := string(out)

	if strings.Contains(result, "<script>alert") {
		t.Error("raw script tag written to HTML")
	}
	if !strings.Contains(result, "&lt;script&gt;alert(&#039;x&#039;)&lt;/script&gt;") {
		t.Error("expected escaped message body")
	}
	if !strings.Contains(result, "Hi &amp; welcome<br>") {
		t.Error("expected newline converted after escaping")
	}
	if !strings.Contains(result, "<title>Chat &lt;b&gt;</title>") {
		t.Error("title not escaped")
	}
}

func TestMarkdownExporter(t *testing.T) {
	tr := FromLog("Notes: day 1", "", sampleLog())
	out, err := NewMarkdownExporter(nil).Export(tr)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	result := string(out)
	if !strings.Contains(result, "title: \"Notes: day 1\"") {
		t.Errorf("expected quoted YAML title, got:\n%s", result)
	}
	if !strings.Contains(result, "### You <sub>10:00:00</sub>") {
		t.Error("missing user heading with timestamp")
	}
	if !strings.Contains(result, "### Assistant") {
		t.Error("missing assistant heading")
	}
}

func TestJSONExporter(t *testing.T) {
	out, err := NewJSONExporter(nil).Export(FromLog("t", "s", sampleLog()))
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	var decoded jsonTranscript
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(decoded.Messages) != 2 || decoded.Messages[1].Sender != "assistant" {
		t.Errorf("unexpected messages: %+v", decoded.Messages)
	}
}

func TestExportEmptyTranscript(t *testing.T) {
	_, err := NewHTMLExporter(nil).Export(FromLog("t", "", chat.NewLog()))
	if !errors.Is(err, ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
}

func TestExportToFile(t *testing.T) {
	dir := t.TempDir()
	opts := DefaultOptions()
	opts.OutputDir = dir

	exp, err := ForFormat("md", opts)
	if err != nil {
		t.Fatal(err)
	}
	path, err := ExportToFile(FromLog("my/chat", "", sampleLog()), exp, opts)
	if err != nil {
		t.Fatalf("ExportToFile failed: %v", err)
	}
	if filepath.Dir(path) != dir || !strings.HasPrefix(filepath.Base(path), "chat_my-chat_") {
		t.Errorf("unexpected path %q", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("file not written: %v", err)
	}

	if _, err := ForFormat("pdf", opts); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"":             "transcript",
		"a b":          "a_b",
		"x:y?z":        "x-y-z",
		"tab\there":    "tab_here",
		"bell\x07ring": "bell-ring",
	}
	for in, want := range tests {
		if got := sanitizeFilename(in); got != want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
