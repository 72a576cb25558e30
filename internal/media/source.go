// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package media

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jeranaias/folio-tui/internal/util"
)

// =============================================================================
// PLAYBACK STATE
// =============================================================================

// asset carries the load/play bookkeeping shared by every source.
type asset struct {
	mu      sync.Mutex
	path    string
	loaded  bool
	playing bool
}

func (a *asset) markLoaded(p string) {
	a.mu.Lock()
	a.path = p
	a.loaded = true
	a.mu.Unlock()
}

// Play starts playback of a buffered asset.
func (a *asset) Play() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.loaded {
		return ErrNotLoaded
	}
	a.playing = true
	return nil
}

// Pause stops playback.
func (a *asset) Pause() {
	a.mu.Lock()
	a.playing = false
	a.mu.Unlock()
}

// Playing reports whether the asset is playing.
func (a *asset) Playing() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.playing
}

// LocalPath returns the buffered file, or "" before Load succeeds.
func (a *asset) LocalPath() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.path
}

// =============================================================================
// FILE SOURCE
// =============================================================================

// FileSource is a clip on the local filesystem.
type FileSource struct {
	asset
	Path string
}

// NewFileSource creates a source for a local path.
func NewFileSource(p string) *FileSource {
	return &FileSource{Path: p}
}

// Load checks that the file exists and is a regular file.
func (s *FileSource) Load(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(s.Path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", s.Path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", s.Path)
	}
	s.markLoaded(s.Path)
	return nil
}

// =============================================================================
// HTTP SOURCE
// =============================================================================

// HTTPSource prefetches a clip over HTTP into a cache directory.
type HTTPSource struct {
	asset
	URL      string
	CacheDir string
	Client   *http.Client
}

// NewHTTPSource creates a source for an http(s) URL.
func NewHTTPSource(rawURL, cacheDir string, client *http.Client) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{URL: rawURL, CacheDir: cacheDir, Client: client}
}

// Load downloads the clip unless a cached copy exists.
func (s *HTTPSource) Load(ctx context.Context) error {
	dest := cachePath(s.CacheDir, s.URL)
	if fileExists(dest) {
		s.markLoaded(dest)
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", s.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: status %d", s.URL, resp.StatusCode)
	}
	if err := util.AtomicWriteReader(dest, resp.Body, 0644); err != nil {
		return fmt.Errorf("cache %s: %w", s.URL, err)
	}
	s.markLoaded(dest)
	return nil
}

// =============================================================================
// OPEN
// =============================================================================

// OpenConfig carries what Open needs to build remote sources.
type OpenConfig struct {
	CacheDir   string
	HTTPClient *http.Client
	// S3 is required for s3:// items.
	S3 S3Getter
}

// Open returns the Source for an item based on its Src scheme.
func Open(item Item, cfg OpenConfig) (Source, error) {
	src := strings.TrimSpace(item.Src)
	if src == "" {
		return nil, fmt.Errorf("item %d (%q): empty src", item.Index, item.Title)
	}

	u, err := url.Parse(src)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// Bare paths, including Windows drive letters.
		return NewFileSource(src), nil
	}

	switch u.Scheme {
	case "file":
		return NewFileSource(u.Path), nil
	case "http", "https":
		return NewHTTPSource(src, cfg.CacheDir, cfg.HTTPClient), nil
	case "s3":
		if cfg.S3 == nil {
			return nil, fmt.Errorf("item %d: s3 source %s but no s3 client configured", item.Index, src)
		}
		return NewS3Source(cfg.S3, u.Host, strings.TrimPrefix(u.Path, "/"), cfg.CacheDir), nil
	default:
		return nil, fmt.Errorf("item %d: unsupported scheme %q", item.Index, u.Scheme)
	}
}

// OpenAll opens every item in order.
func OpenAll(items []Item, cfg OpenConfig) ([]Entry, error) {
	entries := make([]Entry, 0, len(items))
	for i, it := range items {
		it.Index = i
		src, err := Open(it, cfg)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Item: it, Source: src})
	}
	return entries, nil
}

// cachePath maps a remote reference to a stable file in dir.
func cachePath(dir, ref string) string {
	sum := sha256.Sum256([]byte(ref))
	name := hex.EncodeToString(sum[:12])
	if u, err := url.Parse(ref); err == nil {
		if ext := path.Ext(u.Path); ext != "" && len(ext) <= 6 {
			name += ext
		}
	}
	return filepath.Join(dir, name)
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular() && info.Size() > 0
}

