package syncer

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/dmitrijs2005/jobkeeper/internal/client/client"
	"github.com/dmitrijs2005/jobkeeper/internal/client/models"
	"github.com/dmitrijs2005/jobkeeper/internal/client/store"
	"github.com/dmitrijs2005/jobkeeper/internal/logging"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// fakeRemote is an in-memory backend.
type fakeRemote struct {
	mu     sync.Mutex
	nextID int
	jobs   map[string]models.Job
	notes  map[string][]models.Note
	videos map[string][][]byte

	calls map[string]int

	// Hooks, all optional. A non-nil error from a fail hook is returned
	// instead of performing the call.
	failJob    func(op string, p models.JobPayload) error
	failNote   func(op string, p models.NotePayload) error
	failUpload func(jobServerID string) error
	failList   error
	// duringCreateJob runs after the remote record exists and before the
	// response is returned.
	duringCreateJob func()
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		jobs:   make(map[string]models.Job),
		notes:  make(map[string][]models.Note),
		videos: make(map[string][][]byte),
		calls:  make(map[string]int),
	}
}

func (f *fakeRemote) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeRemote) record(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
}

func (f *fakeRemote) id(prefix string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	return fmt.Sprintf("%s%d", prefix, f.nextID)
}

func serverJob(id string, p models.JobPayload) models.Job {
	j := models.Job{ServerID: id}
	j.ApplyServer(models.Job{
		Title: p.Title, Description: p.Description, ClientName: p.ClientName,
		City: p.City, Budget: p.Budget, StartDate: p.StartDate, Status: p.Status,
	})
	return j
}

func (f *fakeRemote) seedJob(j models.Job) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs[j.ServerID] = j
}

func (f *fakeRemote) CreateJob(ctx context.Context, p models.JobPayload) (models.Job, error) {
	f.record("CreateJob")
	if f.failJob != nil {
		if err := f.failJob("create", p); err != nil {
			return models.Job{}, err
		}
	}
	j := serverJob(f.id("S"), p)
	f.seedJob(j)
	if f.duringCreateJob != nil {
		f.duringCreateJob()
	}
	return j, nil
}

func (f *fakeRemote) UpdateJob(ctx context.Context, serverID string, p models.JobPayload) (models.Job, error) {
	f.record("UpdateJob")
	if f.failJob != nil {
		if err := f.failJob("update", p); err != nil {
			return models.Job{}, err
		}
	}
	j := serverJob(serverID, p)
	f.seedJob(j)
	return j, nil
}

func (f *fakeRemote) ListJobs(ctx context.Context) ([]models.Job, error) {
	f.record("ListJobs")
	if f.failList != nil {
		return nil, f.failList
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Job, 0, len(f.jobs))
	for _, j := range f.jobs {
		out = append(out, j)
	}
	return out, nil
}

func (f *fakeRemote) CreateNote(ctx context.Context, jobServerID string, p models.NotePayload) (models.Note, error) {
	f.record("CreateNote")
	if f.failNote != nil {
		if err := f.failNote("create", p); err != nil {
			return models.Note{}, err
		}
	}
	n := models.Note{ServerID: f.id("N"), JobID: jobServerID, Content: p.Content}
	f.mu.Lock()
	f.notes[jobServerID] = append(f.notes[jobServerID], n)
	f.mu.Unlock()
	return n, nil
}

func (f *fakeRemote) UpdateNote(ctx context.Context, jobServerID, noteServerID string, p models.NotePayload) (models.Note, error) {
	f.record("UpdateNote")
	if f.failNote != nil {
		if err := f.failNote("update", p); err != nil {
			return models.Note{}, err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, n := range f.notes[jobServerID] {
		if n.ServerID == noteServerID {
			f.notes[jobServerID][i].Content = p.Content
			return f.notes[jobServerID][i], nil
		}
	}
	return models.Note{}, &client.Error{Op: "update note", StatusCode: http.StatusNotFound, Class: client.ClassOther}
}

func (f *fakeRemote) ListNotes(ctx context.Context, jobServerID string) ([]models.Note, error) {
	f.record("ListNotes")
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Note(nil), f.notes[jobServerID]...), nil
}

func (f *fakeRemote) UploadVideo(ctx context.Context, jobServerID string, data []byte) error {
	f.record("UploadVideo")
	if f.failUpload != nil {
		if err := f.failUpload(jobServerID); err != nil {
			return err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.videos[jobServerID] = append(f.videos[jobServerID], data)
	return nil
}

type staticAvailability bool

func (a staticAvailability) IsOnline() bool { return bool(a) }

func serverError() error {
	return &client.Error{Op: "test", StatusCode: http.StatusInternalServerError, Class: client.ClassServerError}
}

func unauthorized() error {
	return &client.Error{Op: "test", StatusCode: http.StatusUnauthorized, Class: client.ClassUnauthorized}
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(context.Background(), ":memory:", logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newTestEngine(t *testing.T, remote Remote, opts Options) (*Engine, *store.Store) {
	t.Helper()
	s := newTestStore(t)
	return New(s, remote, staticAvailability(true), logging.Nop(), opts), s
}

func payload(title string) models.JobPayload {
	return models.JobPayload{
		Title:      title,
		ClientName: "Acme",
		City:       "Riga",
		Budget:     decimal.NewFromInt(500),
		Status:     models.JobStatusPending,
	}
}

func addJob(t *testing.T, s *store.Store, title string) models.Job {
	t.Helper()
	job, err := s.UpsertJob(context.Background(), models.NewJob(payload(title)))
	require.NoError(t, err)
	return job
}

func reload(t *testing.T, s *store.Store, localID string) models.Job {
	t.Helper()
	job, err := s.GetJobByLocalID(context.Background(), localID)
	require.NoError(t, err)
	return job
}
