package collections

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE collections (
  key        TEXT PRIMARY KEY,
  value      BLOB NOT NULL,
  updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`)
	require.NoError(t, err)
	return db
}

func TestSetGet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	v, err := r.Get(ctx, KeyJobs)
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, r.Set(ctx, KeyJobs, []byte(`[{"local_id":"a"}]`)))
	require.NoError(t, r.Set(ctx, KeyJobs, []byte(`[]`)))

	v, err = r.Get(ctx, KeyJobs)
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), v)
}

func TestDeleteAndClear(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, KeyJobs, []byte(`[]`)))
	require.NoError(t, r.Set(ctx, KeyNotes, []byte(`[]`)))
	require.NoError(t, r.Set(ctx, KeyPendingVideos, []byte(`[]`)))

	require.NoError(t, r.Delete(ctx, KeyJobs))
	v, err := r.Get(ctx, KeyJobs)
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, r.Clear(ctx))
	v, err = r.Get(ctx, KeyNotes)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestErrorsAreWrapped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	require.NoError(t, db.Close())

	_, err := r.Get(ctx, KeyJobs)
	assert.ErrorContains(t, err, "failed to read collection jobs")
	assert.ErrorContains(t, r.Set(ctx, KeyJobs, []byte(`[]`)), "failed to write collection jobs")
	assert.ErrorContains(t, r.Delete(ctx, KeyJobs), "failed to delete collection jobs")
	assert.ErrorContains(t, r.Clear(ctx), "failed to clear collections")
}
