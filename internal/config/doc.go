// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for folio.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// .env files, environment variable overrides, validation, and hot reload.
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (FOLIO_*), including those set by .env
//   - ~/.folio/config.toml
//   - ~/.folio/config.json
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	interval := cfg.Carousel.AutoplayInterval.D()
//
// Watch for edits:
//
//	w, err := config.Watch(path, func(cfg *config.Config) { ... }, logger)
//	defer w.Close()
package config
