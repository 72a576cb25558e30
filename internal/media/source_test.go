// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package media

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

func TestFileSource_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.mp4")
	if err := os.WriteFile(path, []byte("frames"), 0644); err != nil {
		t.Fatal(err)
	}

	src := NewFileSource(path)
	if err := src.Play(); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("Play before Load = %v, want ErrNotLoaded", err)
	}
	if err := src.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := src.Play(); err != nil {
		t.Errorf("Play after Load = %v", err)
	}
	if !src.Playing() {
		t.Error("Playing() = false after Play")
	}
	src.Pause()
	if src.Playing() {
		t.Error("Playing() = true after Pause")
	}
}

func TestFileSource_Missing(t *testing.T) {
	src := NewFileSource(filepath.Join(t.TempDir(), "nope.mp4"))
	if err := src.Load(context.Background()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load missing = %v, want ErrNotExist", err)
	}
}

func TestHTTPSource_DownloadsOnce(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("video-bytes"))
	}))
	defer server.Close()

	dir := t.TempDir()
	src := NewHTTPSource(server.URL+"/reel/robotics.mp4", dir, server.Client())
	if err := src.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !strings.HasSuffix(src.LocalPath(), ".mp4") {
		t.Errorf("LocalPath() = %q, want .mp4 suffix", src.LocalPath())
	}
	data, _ := os.ReadFile(src.LocalPath())
	if string(data) != "video-bytes" {
		t.Errorf("cached content = %q", data)
	}

	again := NewHTTPSource(server.URL+"/reel/robotics.mp4", dir, server.Client())
	if err := again.Load(context.Background()); err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if hits.Load() != 1 {
		t.Errorf("server hits = %d, want 1 (cache reuse)", hits.Load())
	}
}

func TestHTTPSource_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	src := NewHTTPSource(server.URL+"/missing.mp4", t.TempDir(), server.Client())
	if err := src.Load(context.Background()); err == nil {
		t.Error("Load succeeded on 404")
	}
}

type mockS3 struct {
	objects map[string]string
	calls   int
}

func (m *mockS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	m.calls++
	body, ok := m.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, &smithy.GenericAPIError{Code: "NoSuchKey", Message: "not found"}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestS3Source_Load(t *testing.T) {
	client := &mockS3{objects: map[string]string{"reel/ai.mp4": "s3-bytes"}}
	src := NewS3Source(client, "reel", "ai.mp4", t.TempDir())

	if err := src.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	data, _ := os.ReadFile(src.LocalPath())
	if string(data) != "s3-bytes" {
		t.Errorf("cached content = %q", data)
	}
}

func TestS3Source_NotFound(t *testing.T) {
	src := NewS3Source(&mockS3{objects: map[string]string{}}, "reel", "gone.mp4", t.TempDir())
	if err := src.Load(context.Background()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load = %v, want ErrNotExist", err)
	}
}

func TestOpen_Schemes(t *testing.T) {
	cfg := OpenConfig{CacheDir: t.TempDir(), S3: &mockS3{}}
	tests := []struct {
		src  string
		want string
	}{
		{"videos/robotics.mp4", "*media.FileSource"},
		{"file:///srv/reel/ai.mp4", "*media.FileSource"},
		{"https://cdn.example.com/a.mp4", "*media.HTTPSource"},
		{"s3://reel/b.mp4", "*media.S3Source"},
	}
	for _, tt := range tests {
		src, err := Open(Item{Src: tt.src}, cfg)
		if err != nil {
			t.Errorf("Open(%q) error = %v", tt.src, err)
			continue
		}
		if got := typeName(src); got != tt.want {
			t.Errorf("Open(%q) = %s, want %s", tt.src, got, tt.want)
		}
	}

	if _, err := Open(Item{Src: "ftp://host/x.mp4"}, cfg); err == nil {
		t.Error("Open(ftp) succeeded")
	}
	if _, err := Open(Item{Src: "s3://b/k"}, OpenConfig{}); err == nil {
		t.Error("Open(s3) without client succeeded")
	}
	if _, err := Open(Item{Src: " "}, cfg); err == nil {
		t.Error("Open(empty) succeeded")
	}
}

func typeName(s Source) string {
	switch s.(type) {
	case *FileSource:
		return "*media.FileSource"
	case *HTTPSource:
		return "*media.HTTPSource"
	case *S3Source:
		return "*media.S3Source"
	}
	return "unknown"
}

func TestParseManifest(t *testing.T) {
	items, err := ParseManifest([]byte(`
items:
  - title: Robotics
    caption: Autonomous navigation
    src: videos/robotics.mp4
  - title: Vision
    src: https://cdn.example.com/vision.mp4
`))
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	if items[1].Index != 1 || items[1].Title != "Vision" {
		t.Errorf("items[1] = %+v", items[1])
	}

	if _, err := ParseManifest([]byte("items:\n  - title: x\n")); err == nil {
		t.Error("manifest without src accepted")
	}
}
