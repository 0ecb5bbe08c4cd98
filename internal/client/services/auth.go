package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/jobkeeper/internal/client/models"
	"github.com/dmitrijs2005/jobkeeper/internal/common"
	"github.com/dmitrijs2005/jobkeeper/internal/logging"
)

// AuthRemote is the authentication part of the backend API.
type AuthRemote interface {
	Login(ctx context.Context, email, password string) (models.Session, error)
	Register(ctx context.Context, name, email, password string) error
	Ping(ctx context.Context) error
}

// SessionStore persists the session and can wipe the local collections.
type SessionStore interface {
	SaveSession(ctx context.Context, sess models.Session) error
	LoadSession(ctx context.Context) (models.Session, error)
	ClearSession(ctx context.Context) error
	ClearAll(ctx context.Context) error
}

// AuthService manages the account the client acts for.
//
// Contract:
//   - Login: authenticate and persist the session. Local data is wiped when
//     the account differs from the one that produced it.
//   - Register: create an account on the backend.
//   - Logout: forget the session and wipe local data.
//   - Invalidate: drop the token after the backend rejected it, keeping the
//     account so that a re-login keeps unsynced work.
//   - Token: bearer token for the remote client.
type AuthService interface {
	Login(ctx context.Context, email, password string) (models.Session, error)
	Register(ctx context.Context, name, email, password string) error
	Logout(ctx context.Context) error
	Invalidate(ctx context.Context) error
	Session(ctx context.Context) (models.Session, error)
	Token(ctx context.Context) (string, error)
	Ping(ctx context.Context) error
}

type authService struct {
	remote AuthRemote
	store  SessionStore
	log    logging.Logger
}

func NewAuthService(remote AuthRemote, st SessionStore, log logging.Logger) AuthService {
	if log == nil {
		log = logging.Nop()
	}
	return &authService{remote: remote, store: st, log: log.With("component", "auth")}
}

func (a *authService) Login(ctx context.Context, email, password string) (models.Session, error) {
	sess, err := a.remote.Login(ctx, email, password)
	if err != nil {
		return models.Session{}, err
	}

	prev, err := a.store.LoadSession(ctx)
	switch {
	case errors.Is(err, common.ErrNotFound):
		if err := a.store.ClearAll(ctx); err != nil {
			return models.Session{}, fmt.Errorf("clearing local data: %w", err)
		}
	case err != nil:
		return models.Session{}, err
	case prev.UserID != sess.UserID:
		a.log.Info(ctx, "account switched, clearing local data")
		if err := a.store.ClearAll(ctx); err != nil {
			return models.Session{}, fmt.Errorf("clearing local data: %w", err)
		}
	}

	if err := a.store.SaveSession(ctx, sess); err != nil {
		return models.Session{}, fmt.Errorf("saving session: %w", err)
	}
	return sess, nil
}

func (a *authService) Register(ctx context.Context, name, email, password string) error {
	return a.remote.Register(ctx, name, email, password)
}

func (a *authService) Logout(ctx context.Context) error {
	if err := a.store.ClearSession(ctx); err != nil {
		return err
	}
	return a.store.ClearAll(ctx)
}

func (a *authService) Invalidate(ctx context.Context) error {
	sess, err := a.store.LoadSession(ctx)
	if errors.Is(err, common.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	sess.Token = ""
	return a.store.SaveSession(ctx, sess)
}

func (a *authService) Session(ctx context.Context) (models.Session, error) {
	return a.store.LoadSession(ctx)
}

// Token returns the stored bearer token or common.ErrUnauthorized.
func (a *authService) Token(ctx context.Context) (string, error) {
	sess, err := a.store.LoadSession(ctx)
	if errors.Is(err, common.ErrNotFound) || (err == nil && sess.Token == "") {
		return "", common.ErrUnauthorized
	}
	if err != nil {
		return "", err
	}
	return sess.Token, nil
}

func (a *authService) Ping(ctx context.Context) error {
	return a.remote.Ping(ctx)
}
