package models

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrInvalidJob = errors.New("invalid job")

// Job is a unit of contractor work. LocalID is minted once on creation and
// never changes; ServerID is empty until the first successful remote create
// and immutable afterwards.
type Job struct {
	ServerID    string          `json:"server_id,omitempty"`
	LocalID     string          `json:"local_id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	ClientName  string          `json:"client_name"`
	City        string          `json:"city"`
	Budget      decimal.Decimal `json:"budget"`
	StartDate   string          `json:"start_date,omitempty"`
	Status      JobStatus       `json:"status"`
	SyncStatus  SyncStatus      `json:"sync_status"`
}

// JobPayload carries the user-editable fields of a job. It is also the
// request body for remote create and update.
type JobPayload struct {
	Title       string
	Description string
	ClientName  string
	City        string
	Budget      decimal.Decimal
	StartDate   string
	Status      JobStatus
}

// Validate checks the fields the remote API requires.
func (p JobPayload) Validate() error {
	switch {
	case strings.TrimSpace(p.Title) == "":
		return errors.Join(ErrInvalidJob, errors.New("title is required"))
	case strings.TrimSpace(p.ClientName) == "":
		return errors.Join(ErrInvalidJob, errors.New("client name is required"))
	case strings.TrimSpace(p.City) == "":
		return errors.Join(ErrInvalidJob, errors.New("city is required"))
	case p.Budget.IsNegative():
		return errors.Join(ErrInvalidJob, errors.New("budget must not be negative"))
	case !p.Status.Valid():
		return errors.Join(ErrInvalidJob, errors.New("unknown status "+string(p.Status)))
	}
	return nil
}

// NewJob creates a local-only job awaiting its first push.
func NewJob(p JobPayload) Job {
	j := Job{LocalID: uuid.NewString(), SyncStatus: SyncPending}
	j.setContent(p)
	return j
}

// HasServerID reports whether the remote authority has acknowledged the job.
func (j Job) HasServerID() bool { return j.ServerID != "" }

// Payload extracts the user-editable fields.
func (j Job) Payload() JobPayload {
	return JobPayload{
		Title:       j.Title,
		Description: j.Description,
		ClientName:  j.ClientName,
		City:        j.City,
		Budget:      j.Budget,
		StartDate:   j.StartDate,
		Status:      j.Status,
	}
}

// Edit replaces the content fields and re-enters the pending state.
func (j *Job) Edit(p JobPayload) {
	j.setContent(p)
	j.SyncStatus = SyncPending
}

// ApplyServer copies the content fields of a server copy into j, leaving
// identifiers and sync status alone.
func (j *Job) ApplyServer(server Job) {
	j.setContent(server.Payload())
}

// ContentEqual reports whether j and o carry the same user-editable fields.
func (j Job) ContentEqual(o Job) bool {
	return j.Title == o.Title &&
		j.Description == o.Description &&
		j.ClientName == o.ClientName &&
		j.City == o.City &&
		j.Budget.Equal(o.Budget) &&
		j.StartDate == o.StartDate &&
		j.Status == o.Status
}

func (j *Job) setContent(p JobPayload) {
	j.Title = p.Title
	j.Description = p.Description
	j.ClientName = p.ClientName
	j.City = p.City
	j.Budget = p.Budget
	j.StartDate = p.StartDate
	j.Status = p.Status
}
