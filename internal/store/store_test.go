package store

import (
	"context"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/inertial_tracker/internal/motion"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSaveSession_RoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	records := []motion.Record{
		{TimestampMicros: 100},
		{
			DurationMicros:  10_000,
			TimestampMicros: 10_100,
			Acceleration:    motion.Vector{X: 0.05, Y: -0.01, Z: 0.3},
			AngularRate:     motion.Vector{X: 1, Y: 2, Z: 3},
			Velocity:        motion.Vector{X: 0.0005},
			Position:        motion.Vector{Z: -4},
			Distance:        4,
		},
	}
	bias := motion.Vector{X: 0.1, Y: 0.2, Z: 9.7}
	at := time.UnixMicro(1_723_600_000_000_000)

	s, err := db.SaveSession(ctx, at, bias, slices.Values(records))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, s.ID)
	assert.Equal(t, 2, s.Rows)

	got, err := db.SessionRecords(ctx, s.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(records, got); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}

	sessions, err := db.Sessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, s.ID, sessions[0].ID)
	assert.Equal(t, bias, sessions[0].Bias)
	assert.True(t, at.Equal(sessions[0].ExportedAt))
}

func TestSessions_NewestFirst(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	older, err := db.SaveSession(ctx, time.UnixMicro(1_000), motion.Vector{}, slices.Values([]motion.Record(nil)))
	require.NoError(t, err)
	newer, err := db.SaveSession(ctx, time.UnixMicro(2_000), motion.Vector{}, slices.Values([]motion.Record{{}}))
	require.NoError(t, err)

	sessions, err := db.Sessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, newer.ID, sessions[0].ID)
	assert.Equal(t, older.ID, sessions[1].ID)
	assert.Equal(t, 0, sessions[1].Rows)
}

func TestSessionRecords_UnknownSession(t *testing.T) {
	db := openTestDB(t)

	got, err := db.SessionRecords(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, got)
}
