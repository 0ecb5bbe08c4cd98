// Package store is the durable local store of the client. Jobs, notes and
// pending video uploads live as three JSON collections in SQLite; the session
// lives in the metadata table. All writes run under one mutex and inside one
// SQL transaction, so every operation observes and produces a consistent view
// of the three collections.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/jobkeeper/internal/client/migrations"
	"github.com/dmitrijs2005/jobkeeper/internal/client/models"
	"github.com/dmitrijs2005/jobkeeper/internal/client/repositories/collections"
	"github.com/dmitrijs2005/jobkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/jobkeeper/internal/common"
	"github.com/dmitrijs2005/jobkeeper/internal/dbx"
	"github.com/dmitrijs2005/jobkeeper/internal/logging"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

type Store struct {
	mu  sync.Mutex
	db  *sql.DB
	log logging.Logger
}

// RunMigrations applies the embedded schema migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, ".")
}

// Open opens (creating if needed) the SQLite database at dsn and migrates it.
func Open(ctx context.Context, dsn string, log logging.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open local database: %w", err)
	}
	// SQLite allows a single writer; one connection also keeps :memory: alive.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate local database: %w", err)
	}
	return New(db, log), nil
}

// New wraps an already migrated database.
func New(db *sql.DB, log logging.Logger) *Store {
	if log == nil {
		log = logging.Nop()
	}
	return &Store{db: db, log: log.With("component", "store")}
}

func (s *Store) Close() error {
	return s.db.Close()
}

// state is the decoded content of the three collections for the duration of
// one operation.
type state struct {
	jobs   []models.Job
	notes  []models.Note
	videos []models.PendingVideo

	jobsDirty   bool
	notesDirty  bool
	videosDirty bool
}

func (s *Store) load(ctx context.Context, repo collections.Repository) (*state, error) {
	st := &state{}
	var err error
	if st.jobs, err = readCollection[models.Job](ctx, s.log, repo, collections.KeyJobs); err != nil {
		return nil, err
	}
	if st.notes, err = readCollection[models.Note](ctx, s.log, repo, collections.KeyNotes); err != nil {
		return nil, err
	}
	if st.videos, err = readCollection[models.PendingVideo](ctx, s.log, repo, collections.KeyPendingVideos); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *Store) save(ctx context.Context, repo collections.Repository, st *state) error {
	if st.jobsDirty {
		if err := writeCollection(ctx, repo, collections.KeyJobs, st.jobs); err != nil {
			return err
		}
	}
	if st.notesDirty {
		if err := writeCollection(ctx, repo, collections.KeyNotes, st.notes); err != nil {
			return err
		}
	}
	if st.videosDirty {
		if err := writeCollection(ctx, repo, collections.KeyPendingVideos, st.videos); err != nil {
			return err
		}
	}
	return nil
}

// view runs fn against a read-only snapshot.
func (s *Store) view(ctx context.Context, fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load(ctx, collections.NewSQLiteRepository(s.db))
	if err != nil {
		return err
	}
	return fn(st)
}

// update runs fn against the current state and persists the collections fn
// marked dirty. An error from fn discards every change.
func (s *Store) update(ctx context.Context, fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := collections.NewSQLiteRepository(tx)
		st, err := s.load(ctx, repo)
		if err != nil {
			return err
		}
		if err := fn(st); err != nil {
			return err
		}
		return s.save(ctx, repo, st)
	})
}

func readCollection[T any](ctx context.Context, log logging.Logger, repo collections.Repository, key string) ([]T, error) {
	raw, err := repo.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		log.Error(ctx, "collection unreadable, treating as empty",
			"collection", key, "error", fmt.Errorf("%w: %v", common.ErrLocalReadCorrupt, err))
		return nil, nil
	}
	return items, nil
}

func writeCollection[T any](ctx context.Context, repo collections.Repository, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode collection %s: %w", key, err)
	}
	return repo.Set(ctx, key, raw)
}

// ClearAll wipes jobs, notes and pending videos. The session is kept.
func (s *Store) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return collections.NewSQLiteRepository(s.db).Clear(ctx)
}

// Counts summarizes what the next sync pass has to do.
type Counts struct {
	PendingJobs   int
	FailedJobs    int
	PendingNotes  int
	FailedNotes   int
	PendingVideos int
}

// Unsynced is the number of records still waiting for the remote authority.
func (c Counts) Unsynced() int {
	return c.PendingJobs + c.FailedJobs + c.PendingNotes + c.FailedNotes + c.PendingVideos
}

func (s *Store) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	err := s.view(ctx, func(st *state) error {
		for _, j := range st.jobs {
			switch j.SyncStatus {
			case models.SyncPending:
				c.PendingJobs++
			case models.SyncFailed:
				c.FailedJobs++
			}
		}
		for _, n := range st.notes {
			switch n.SyncStatus {
			case models.SyncPending:
				c.PendingNotes++
			case models.SyncFailed:
				c.FailedNotes++
			}
		}
		c.PendingVideos = len(st.videos)
		return nil
	})
	return c, err
}

func (s *Store) metadata() metadata.Repository {
	return metadata.NewSQLiteRepository(s.db)
}
