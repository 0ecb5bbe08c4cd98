package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/jobkeeper/internal/client/models"
	"github.com/dmitrijs2005/jobkeeper/internal/logging"
	"github.com/dmitrijs2005/jobkeeper/internal/netx"
)

const maxErrorBody = 4 << 10

// HTTPClient implements Client over the backend's REST API.
type HTTPClient struct {
	baseURL string
	hc      *http.Client
	tokens  TokenSource
	log     logging.Logger
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient returns a client for the API at baseURL. timeout bounds each
// request; zero means no limit beyond the caller's context.
func NewHTTPClient(baseURL string, timeout time.Duration, tokens TokenSource, log logging.Logger) *HTTPClient {
	if log == nil {
		log = logging.Nop()
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: timeout},
		tokens:  tokens,
		log:     log.With("component", "remote"),
	}
}

type request struct {
	op          string
	method      string
	path        string
	body        io.Reader
	contentType string
	anonymous   bool
	accept      []int
}

func (c *HTTPClient) do(ctx context.Context, r request, out any) error {
	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, r.body)
	if err != nil {
		return &Error{Op: r.op, Class: ClassOther, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}

	if !r.anonymous {
		token, err := c.token(ctx)
		if err != nil {
			return &Error{Op: r.op, StatusCode: http.StatusUnauthorized, Class: ClassUnauthorized, Message: "no session", Err: err}
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		c.log.Debug(ctx, "request failed", "op", r.op, "error", err)
		return transportError(r.op, err)
	}
	c.log.Debug(ctx, "request done", "op", r.op, "status", resp.StatusCode, "took", time.Since(start))

	accept := r.accept
	if accept == nil {
		accept = []int{http.StatusOK}
	}
	if !slices.Contains(accept, resp.StatusCode) {
		msg := strings.TrimSpace(string(netx.ReadBody(resp, maxErrorBody)))
		class := ClassOf(resp.StatusCode)
		if class == ClassOK {
			class = ClassOther
		}
		return &Error{Op: r.op, StatusCode: resp.StatusCode, Class: class, Message: msg}
	}

	defer resp.Body.Close()
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Op: r.op, StatusCode: resp.StatusCode, Class: ClassOther, Message: "malformed response", Err: err}
	}
	return nil
}

func (c *HTTPClient) token(ctx context.Context) (string, error) {
	if c.tokens == nil {
		return "", errors.New("no token source")
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", errors.New("empty token")
	}
	return token, nil
}

func jsonBody(v any) (io.Reader, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(b), nil
}

func (c *HTTPClient) sendJob(ctx context.Context, op, method, path string, accept []int, p models.JobPayload) (models.Job, error) {
	body, err := jsonBody(newJobRequest(p))
	if err != nil {
		return models.Job{}, &Error{Op: op, Class: ClassOther, Err: err}
	}
	var resp jobResponse
	err = c.do(ctx, request{op: op, method: method, path: path, body: body, contentType: "application/json", accept: accept}, &resp)
	if err != nil {
		return models.Job{}, err
	}
	return resp.model(), nil
}

func (c *HTTPClient) CreateJob(ctx context.Context, p models.JobPayload) (models.Job, error) {
	return c.sendJob(ctx, "create job", http.MethodPost, "/api/v1/jobs", []int{http.StatusOK, http.StatusCreated}, p)
}

func (c *HTTPClient) UpdateJob(ctx context.Context, serverID string, p models.JobPayload) (models.Job, error) {
	return c.sendJob(ctx, "update job", http.MethodPut, "/api/v1/jobs/"+url.PathEscape(serverID), nil, p)
}

func (c *HTTPClient) GetJob(ctx context.Context, serverID string) (models.Job, error) {
	var resp jobResponse
	if err := c.do(ctx, request{op: "get job", method: http.MethodGet, path: "/api/v1/jobs/" + url.PathEscape(serverID)}, &resp); err != nil {
		return models.Job{}, err
	}
	return resp.model(), nil
}

func (c *HTTPClient) ListJobs(ctx context.Context) ([]models.Job, error) {
	var resp []jobResponse
	if err := c.do(ctx, request{op: "list jobs", method: http.MethodGet, path: "/api/v1/jobs"}, &resp); err != nil {
		return nil, err
	}
	jobs := make([]models.Job, 0, len(resp))
	for _, r := range resp {
		jobs = append(jobs, r.model())
	}
	return jobs, nil
}

func notesPath(jobServerID string) string {
	return "/api/v1/jobs/" + url.PathEscape(jobServerID) + "/notes"
}

func (c *HTTPClient) sendNote(ctx context.Context, op, method, path string, accept []int, p models.NotePayload) (models.Note, error) {
	body, err := jsonBody(noteRequest{Content: p.Content})
	if err != nil {
		return models.Note{}, &Error{Op: op, Class: ClassOther, Err: err}
	}
	var resp noteResponse
	err = c.do(ctx, request{op: op, method: method, path: path, body: body, contentType: "application/json", accept: accept}, &resp)
	if err != nil {
		return models.Note{}, err
	}
	return resp.model(), nil
}

func (c *HTTPClient) CreateNote(ctx context.Context, jobServerID string, p models.NotePayload) (models.Note, error) {
	return c.sendNote(ctx, "create note", http.MethodPost, notesPath(jobServerID), []int{http.StatusOK, http.StatusCreated}, p)
}

func (c *HTTPClient) UpdateNote(ctx context.Context, jobServerID, noteServerID string, p models.NotePayload) (models.Note, error) {
	return c.sendNote(ctx, "update note", http.MethodPut, notesPath(jobServerID)+"/"+url.PathEscape(noteServerID), nil, p)
}

func (c *HTTPClient) ListNotes(ctx context.Context, jobServerID string) ([]models.Note, error) {
	var resp []noteResponse
	if err := c.do(ctx, request{op: "list notes", method: http.MethodGet, path: notesPath(jobServerID)}, &resp); err != nil {
		return nil, err
	}
	notes := make([]models.Note, 0, len(resp))
	for _, r := range resp {
		notes = append(notes, r.model())
	}
	return notes, nil
}

func (c *HTTPClient) UploadVideo(ctx context.Context, jobServerID string, data []byte) error {
	return c.do(ctx, request{
		op:          "upload video",
		method:      http.MethodPost,
		path:        "/api/v1/jobs/" + url.PathEscape(jobServerID) + "/video",
		body:        bytes.NewReader(data),
		contentType: "video/mp4",
		accept:      []int{http.StatusOK, http.StatusCreated},
	}, nil)
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (models.Session, error) {
	body, err := jsonBody(authRequest{Email: email, Password: password})
	if err != nil {
		return models.Session{}, &Error{Op: "login", Class: ClassOther, Err: err}
	}
	var resp authEnvelope
	err = c.do(ctx, request{op: "login", method: http.MethodPost, path: "/api/v1/auth/login", body: body, contentType: "application/json", anonymous: true}, &resp)
	if err != nil {
		return models.Session{}, err
	}
	if resp.Data.Token == "" {
		return models.Session{}, &Error{Op: "login", StatusCode: http.StatusOK, Class: ClassOther, Message: "response carries no token"}
	}
	return models.Session{
		UserID: resp.Data.ID,
		Name:   resp.Data.Name,
		Email:  resp.Data.Email,
		Token:  resp.Data.Token,
	}, nil
}

func (c *HTTPClient) Register(ctx context.Context, name, email, password string) error {
	body, err := jsonBody(authRequest{Name: name, Email: email, Password: password})
	if err != nil {
		return &Error{Op: "register", Class: ClassOther, Err: err}
	}
	return c.do(ctx, request{
		op:          "register",
		method:      http.MethodPost,
		path:        "/api/v1/auth/register",
		body:        body,
		contentType: "application/json",
		anonymous:   true,
		accept:      []int{http.StatusOK, http.StatusCreated},
	}, nil)
}

// Ping checks that the backend answers at all.
func (c *HTTPClient) Ping(ctx context.Context) error {
	if err := netx.Reachable(ctx, c.hc, c.baseURL); err != nil {
		return transportError("ping", err)
	}
	return nil
}
