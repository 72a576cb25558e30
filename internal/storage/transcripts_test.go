// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jeranaias/folio-tui/internal/history"
)

func openTestStore(t *testing.T) *TranscriptStore {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "transcripts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestTranscriptStore_RecordAndRecent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rec := store.Session("s1")
	for i := 0; i < 8; i++ {
		require.NoError(t, rec.RecordTurn(ctx, history.Turn{User: fmt.Sprintf("q%d", i), AI: fmt.Sprintf("a%d", i)}))
	}

	turns, err := store.Recent(ctx, history.MaxHistory)
	require.NoError(t, err)
	require.Len(t, turns, history.MaxHistory)
	require.Equal(t, "q2", turns[0].User)
	require.Equal(t, "q7", turns[5].User)
}

func TestTranscriptStore_Sessions(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, "old", history.Turn{User: "a", AI: "b"}))
	require.NoError(t, store.Record(ctx, "new", history.Turn{User: "c", AI: "d"}))
	require.NoError(t, store.Record(ctx, "new", history.Turn{User: "e", AI: "f"}))

	sessions, err := store.Sessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	require.Equal(t, "new", sessions[0].ID)
	require.Equal(t, 2, sessions[0].Turns)

	entries, err := store.SessionEntries(ctx, "new")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "c", entries[0].Turn.User)
}

func TestTranscriptStore_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.db")
	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Record(context.Background(), "s", history.Turn{User: "keep", AI: "me"}))
	require.NoError(t, store.Close())

	again, err := Open(path)
	require.NoError(t, err)
	defer again.Close()
	turns, err := again.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Equal(t, []history.Turn{{User: "keep", AI: "me"}}, turns)
}

func TestTranscriptStore_Errors(t *testing.T) {
	store := openTestStore(t)
	err := store.Record(context.Background(), "", history.Turn{})
	require.True(t, errors.Is(err, ErrEmptySession))

	require.NoError(t, store.Close())
	require.ErrorIs(t, store.Record(context.Background(), "s", history.Turn{}), ErrClosed)
	_, err = store.Recent(context.Background(), 1)
	require.ErrorIs(t, err, ErrClosed)
}
