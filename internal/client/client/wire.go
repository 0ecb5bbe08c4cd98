package client

import (
	"encoding/json"
	"time"

	"github.com/dmitrijs2005/jobkeeper/internal/client/models"
	"github.com/shopspring/decimal"
)

type jobRequest struct {
	Title       string      `json:"title"`
	Description *string     `json:"description,omitempty"`
	ClientName  string      `json:"client_name"`
	City        string      `json:"city"`
	Budget      json.Number `json:"budget"`
	StartDate   *string     `json:"start_date,omitempty"`
	Status      string      `json:"status"`
}

func newJobRequest(p models.JobPayload) jobRequest {
	return jobRequest{
		Title:       p.Title,
		Description: optional(p.Description),
		ClientName:  p.ClientName,
		City:        p.City,
		Budget:      json.Number(p.Budget.String()),
		StartDate:   optional(p.StartDate),
		Status:      string(p.Status),
	}
}

type jobResponse struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description *string         `json:"description"`
	ClientName  string          `json:"client_name"`
	City        string          `json:"city"`
	Budget      decimal.Decimal `json:"budget"`
	StartDate   *string         `json:"start_date"`
	Status      string          `json:"status"`
}

func (r jobResponse) model() models.Job {
	status, _ := models.ParseJobStatus(r.Status)
	return models.Job{
		ServerID:    r.ID,
		Title:       r.Title,
		Description: deref(r.Description),
		ClientName:  r.ClientName,
		City:        r.City,
		Budget:      r.Budget,
		StartDate:   deref(r.StartDate),
		Status:      status,
	}
}

type noteRequest struct {
	Content string `json:"content"`
}

type noteResponse struct {
	ID        string  `json:"id"`
	JobID     string  `json:"job_id"`
	Content   string  `json:"content"`
	CreatedAt *string `json:"created_at"`
	UpdatedAt *string `json:"updated_at"`
}

func (r noteResponse) model() models.Note {
	return models.Note{
		ServerID:  r.ID,
		JobID:     r.JobID,
		Content:   r.Content,
		CreatedAt: parseTime(r.CreatedAt),
		UpdatedAt: parseTime(r.UpdatedAt),
	}
}

type authRequest struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authEnvelope struct {
	Success bool   `json:"success"`
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    struct {
		ID    string `json:"_id"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Token string `json:"token"`
	} `json:"data"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// parseTime accepts RFC 3339 timestamps; anything else is dropped.
func parseTime(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, *s)
	if err != nil {
		return nil
	}
	return &t
}
