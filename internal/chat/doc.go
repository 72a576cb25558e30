// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the assistant chat session.
//
// The Controller owns the visible message Log, the typing indicator and the
// conversation history buffer. SendMessage appends the user's message at
// once, shows the typing indicator and issues the request on a background
// goroutine; the reply (or failure) is posted back through a
// loop.Dispatcher and applied on the owner goroutine.
//
// Failures never escape the controller. They are classified (Classify) into
// connectivity, server, malformed-reply and unclassified kinds and shown to
// the user as an assistant message that always ends with a way to reach
// the site owner directly.
//
// Concurrent sends are not deduplicated. Each request runs to completion;
// replies land in completion order and the typing indicator stays up until
// the last outstanding request finishes.
package chat
