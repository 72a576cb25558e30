// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package media provides the ordered set of reel clips and their readiness.
//
// Each Item is backed by a Source that can be buffered (Load), started
// (Play) and paused. The Registry tracks a ReadyState per item, starts loads
// off the owner goroutine and posts completions back through a
// loop.Dispatcher, so every state change happens on the owner.
//
// # Sources
//
//   - FileSource: a local file, checked on load
//   - HTTPSource: an http(s) URL prefetched into a cache directory
//   - S3Source: an s3://bucket/key object prefetched into a cache directory
//
// Open picks the source from the item's Src. Items can be listed inline in
// the config file or in a YAML manifest (LoadManifest).
//
// # Usage
//
//	reg := media.NewRegistry(media.RegistryConfig{Dispatcher: q, Logger: log}, entries...)
//	reg.Preload(1)
//	cancel := reg.OnReady(1, func() { reg.Activate(1) })
package media
