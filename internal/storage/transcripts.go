// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides transcript persistence for folio.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/folio-tui/internal/history"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrClosed      = errors.New("transcript store closed")
	ErrEmptySession = errors.New("session id required")
)

const schema = `
CREATE TABLE IF NOT EXISTS ai_chats (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id   TEXT NOT NULL,
	user_message TEXT NOT NULL,
	ai_reply     TEXT NOT NULL,
	created_at   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_ai_chats_session ON ai_chats(session_id, id);
`

// =============================================================================
// TRANSCRIPT STORE
// =============================================================================

// Entry is one stored exchange.
type Entry struct {
	ID        int64
	SessionID string
	Turn      history.Turn
	CreatedAt time.Time
}

// SessionInfo summarizes one recorded session.
type SessionInfo struct {
	ID    string
	Turns int
	First time.Time
	Last  time.Time
}

// TranscriptStore persists exchanges. Safe for concurrent use.
type TranscriptStore struct {
	db  *sql.DB
	now func() time.Time
}

// DefaultPath returns ~/.folio/transcripts.db.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".folio", "transcripts.db"), nil
}

// Open opens (creating if needed) the database at path. ":memory:" is
// accepted for tests.
func Open(path string) (*TranscriptStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows one writer; a single connection also keeps :memory:
	// databases alive across calls.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA synchronous=NORMAL"} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &TranscriptStore{db: db, now: time.Now}, nil
}

// Record stores one exchange.
func (s *TranscriptStore) Record(ctx context.Context, sessionID string, t history.Turn) error {
	if s == nil || s.db == nil {
		return ErrClosed
	}
	if sessionID == "" {
		return ErrEmptySession
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO ai_chats (session_id, user_message, ai_reply, created_at) VALUES (?, ?, ?, ?)`,
		sessionID, t.User, t.AI, s.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("record turn: %w", err)
	}
	return nil
}

// Recent returns up to limit of the newest turns across all sessions,
// oldest first.
func (s *TranscriptStore) Recent(ctx context.Context, limit int) ([]history.Turn, error) {
	entries, err := s.query(ctx,
		`SELECT id, session_id, user_message, ai_reply, created_at FROM ai_chats ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	turns := make([]history.Turn, len(entries))
	for i, e := range entries {
		turns[len(entries)-1-i] = e.Turn
	}
	return turns, nil
}

// SessionEntries returns every exchange of one session, oldest first.
func (s *TranscriptStore) SessionEntries(ctx context.Context, sessionID string) ([]Entry, error) {
	return s.query(ctx,
		`SELECT id, session_id, user_message, ai_reply, created_at FROM ai_chats WHERE session_id = ? ORDER BY id`, sessionID)
}

// Sessions lists recorded sessions, newest first.
func (s *TranscriptStore) Sessions(ctx context.Context) ([]SessionInfo, error) {
	if s == nil || s.db == nil {
		return nil, ErrClosed
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, COUNT(*), MIN(created_at), MAX(created_at)
		FROM ai_chats GROUP BY session_id ORDER BY MAX(id) DESC`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionInfo
	for rows.Next() {
		var info SessionInfo
		var first, last int64
		if err := rows.Scan(&info.ID, &info.Turns, &first, &last); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		info.First = time.UnixMilli(first)
		info.Last = time.UnixMilli(last)
		out = append(out, info)
	}
	return out, rows.Err()
}

func (s *TranscriptStore) query(ctx context.Context, q string, args ...any) ([]Entry, error) {
	if s == nil || s.db == nil {
		return nil, ErrClosed
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query transcripts: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var created int64
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Turn.User, &e.Turn.AI, &created); err != nil {
			return nil, fmt.Errorf("scan transcript: %w", err)
		}
		e.CreatedAt = time.UnixMilli(created)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close closes the database.
func (s *TranscriptStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// =============================================================================
// SESSION RECORDER
// =============================================================================

// SessionRecorder records turns under a fixed session id.
type SessionRecorder struct {
	store     *TranscriptStore
	sessionID string
}

// Session binds the store to sessionID.
func (s *TranscriptStore) Session(sessionID string) *SessionRecorder {
	return &SessionRecorder{store: s, sessionID: sessionID}
}

// RecordTurn stores t under the bound session.
func (r *SessionRecorder) RecordTurn(ctx context.Context, t history.Turn) error {
	return r.store.Record(ctx, r.sessionID, t)
}
