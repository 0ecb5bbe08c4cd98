package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/jobkeeper/internal/client/models"
	"github.com/dmitrijs2005/jobkeeper/internal/client/services"
	"github.com/dmitrijs2005/jobkeeper/internal/client/syncer"
	"github.com/dmitrijs2005/jobkeeper/internal/logging"
)

// SyncRunner is the part of the sync engine the user can drive directly.
type SyncRunner interface {
	Trigger(ctx context.Context)
	SyncNow(ctx context.Context) (syncer.Result, error)
	Pull(ctx context.Context) (int, error)
	RefreshNotes(ctx context.Context, jobLocalID string) (int, error)
}

// Availability reports the last known connectivity state.
type Availability interface {
	IsOnline() bool
}

type App struct {
	jobs   services.JobService
	auth   services.AuthService
	sync   SyncRunner
	avail  Availability
	reader *bufio.Reader
	out    io.Writer
	log    logging.Logger
}

func NewApp(jobs services.JobService, auth services.AuthService, sync SyncRunner, avail Availability, in io.Reader, out io.Writer, log logging.Logger) *App {
	if log == nil {
		log = logging.Nop()
	}
	return &App{
		jobs:   jobs,
		auth:   auth,
		sync:   sync,
		avail:  avail,
		reader: bufio.NewReader(in),
		out:    out,
		log:    log.With("component", "cli"),
	}
}

// Run blocks in the REPL until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "jobkeeper (type 'help' for commands)")
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Not logged in. Use 'login' or 'register'.")
	}
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) session() (models.Session, bool) {
	sess, err := a.auth.Session(context.Background())
	if err != nil {
		return models.Session{}, false
	}
	return sess, true
}

func (a *App) isLoggedIn() bool {
	_, ok := a.session()
	return ok
}

// getStatus renders the prompt decoration: account, connectivity and the
// number of local changes not yet on the server.
func (a *App) getStatus() string {
	s := "guest"
	if sess, ok := a.session(); ok {
		s = sess.Email
		if sess.Token == "" {
			s += " expired"
		}
	}

	if a.avail != nil {
		if a.avail.IsOnline() {
			s += " online"
		} else {
			s += " offline"
		}
	}

	if c, err := a.jobs.Status(context.Background()); err == nil && c.Unsynced() > 0 {
		s += fmt.Sprintf(" %d unsynced", c.Unsynced())
	}
	return fmt.Sprintf("(%s)", s)
}
