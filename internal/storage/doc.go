// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage keeps a local transcript of chat exchanges.
//
// Transcripts live in a SQLite database (pure Go driver) at
// ~/.folio/transcripts.db by default. Each run records under its own
// session id; the newest turns can be read back to seed the next run's
// conversation history.
//
// # Usage
//
//	store, err := storage.Open(path)
//	rec := store.Session(sessionID)
//	err = rec.RecordTurn(ctx, history.Turn{User: "hi", AI: "hello"})
//	turns, err := store.Recent(ctx, 6)
package storage
