package trace

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "trace.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_AppliesPragmas(t *testing.T) {
	s := openTestStore(t)

	assert.NoError(t, s.verifyPragma("journal_mode", "wal"))
	assert.NoError(t, s.verifyPragma("foreign_keys", "1"))
	assert.NoError(t, s.verifyPragma("busy_timeout", "5000"))
}

func TestOpen_SchemaVersion(t *testing.T) {
	s := openTestStore(t)

	var version int
	err := s.DB().QueryRow(`PRAGMA user_version`).Scan(&version)
	require.NoError(t, err)
	assert.Equal(t, currentSchemaVersion, version)
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.db")
	s, err := Open(path)
	require.NoError(t, err)

	id, err := s.BeginSession(context.Background(), "demo")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Migrations are idempotent across reopens and data survives.
	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	sess, err := s.ReadSession(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "demo", sess.Scene)
}

func TestWritePass_Roundtrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.BeginSession(ctx, "demo")
	require.NoError(t, err)

	want := []Pass{
		{SessionID: id, Seq: 1, View: "panel", ActiveIDs: []string{"item-1"}, Changed: true},
		{SessionID: id, Seq: 2, View: "panel", ActiveIDs: []string{"item-2"}, Changed: true, Animated: true},
		{SessionID: id, Seq: 3, View: "panel", ActiveIDs: nil, Changed: false},
	}
	for _, p := range want {
		require.NoError(t, s.WritePass(ctx, p))
	}

	got, err := s.ReadPasses(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestWritePass_ActivationOrderPreserved(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.BeginSession(ctx, "demo")
	require.NoError(t, err)

	ids := []string{"item-3", "item-1", "item-2"}
	require.NoError(t, s.WritePass(ctx, Pass{
		SessionID: id, Seq: 1, View: "root", ActiveIDs: ids, Changed: true,
	}))

	got, err := s.ReadPasses(ctx, id)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, ids, got[0].ActiveIDs, "activations read back in recorded order")
}

func TestWritePass_UnknownSessionRejected(t *testing.T) {
	s := openTestStore(t)

	err := s.WritePass(context.Background(), Pass{
		SessionID: "nope", Seq: 1, View: "root",
	})
	assert.Error(t, err, "the sessions foreign key must hold")
}

func TestReadSession_Unknown(t *testing.T) {
	s := openTestStore(t)

	_, err := s.ReadSession(context.Background(), "nope")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestListSessions(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.BeginSession(ctx, "alpha")
	require.NoError(t, err)
	second, err := s.BeginSession(ctx, "beta")
	require.NoError(t, err)

	sessions, err := s.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	// Newest first; UUIDv7 ids are time-ordered so the id tiebreak holds
	// even within one timestamp second.
	assert.Equal(t, second, sessions[0].ID)
	assert.Equal(t, first, sessions[1].ID)
}

func TestLatestSession(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.BeginSession(ctx, "alpha")
	require.NoError(t, err)
	newest, err := s.BeginSession(ctx, "alpha")
	require.NoError(t, err)
	_, err = s.BeginSession(ctx, "beta")
	require.NoError(t, err)

	sess, err := s.LatestSession(ctx, "alpha")
	require.NoError(t, err)
	assert.Equal(t, newest, sess.ID)

	_, err = s.LatestSession(ctx, "gamma")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestReadStats(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.BeginSession(ctx, "demo")
	require.NoError(t, err)

	require.NoError(t, s.WritePass(ctx, Pass{SessionID: id, Seq: 1, View: "a", Changed: true}))
	require.NoError(t, s.WritePass(ctx, Pass{SessionID: id, Seq: 2, View: "a", Changed: true, Animated: true}))
	require.NoError(t, s.WritePass(ctx, Pass{SessionID: id, Seq: 3, View: "a"}))

	stats, err := s.ReadStats(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, SessionStats{TotalPasses: 3, ChangedPasses: 2, AnimatedPasses: 1}, stats)

	empty, err := s.ReadStats(ctx, "unknown")
	require.NoError(t, err)
	assert.Zero(t, empty.TotalPasses)
}
