// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package page is the root Bubble Tea model: the reel, the chat panel and
// the contact form on one screen.
//
// The model owns the application's event loop. Every completion the
// components post arrives as a loop.RunMsg and runs inside Update, so
// the components are only ever touched from one goroutine.
package page
