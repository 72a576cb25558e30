// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package telemetry sends usage events to the site's analytics endpoint.
//
// Events are fire-and-forget: Track never blocks the caller, never retries
// and never reports an error. Failures end up in the log and nowhere else.
// A token bucket caps the event rate so a stuck key or a runaway autoplay
// cannot flood the endpoint.
//
// # Events
//
//   - page_view: once per run
//   - ai_chat_opened: chat panel opened
//   - ai_chat_message: {success, error?} per chat request
//   - contact_form_success: {email}
//
// Every event carries the run's session_id.
//
// # Usage
//
//	tracker := telemetry.New(client, telemetry.DefaultConfig(), logger, sessionID)
//	tracker.Track("page_view", nil)
//	defer tracker.Flush(ctx)
package telemetry
