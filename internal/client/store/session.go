package store

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/jobkeeper/internal/client/models"
	"github.com/dmitrijs2005/jobkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/jobkeeper/internal/common"
	"github.com/dmitrijs2005/jobkeeper/internal/dbx"
)

const (
	keyUserID = "session.user_id"
	keyName   = "session.name"
	keyEmail  = "session.email"
	keyToken  = "session.token"
)

// SaveSession stores the authenticated session, replacing the previous one.
func (s *Store) SaveSession(ctx context.Context, sess models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		return metadata.NewSQLiteRepository(tx).SetMany(ctx, map[string][]byte{
			keyUserID: []byte(sess.UserID),
			keyName:   []byte(sess.Name),
			keyEmail:  []byte(sess.Email),
			keyToken:  []byte(sess.Token),
		})
	})
}

// LoadSession returns the stored session or common.ErrNotFound. A session
// whose token was revoked is still returned, with an empty Token.
func (s *Store) LoadSession(ctx context.Context) (models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.metadata().List(ctx)
	if err != nil {
		return models.Session{}, err
	}
	sess := models.Session{
		UserID: string(all[keyUserID]),
		Name:   string(all[keyName]),
		Email:  string(all[keyEmail]),
		Token:  string(all[keyToken]),
	}
	if sess.UserID == "" && sess.Token == "" {
		return models.Session{}, fmt.Errorf("session: %w", common.ErrNotFound)
	}
	return sess, nil
}

func (s *Store) ClearSession(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.metadata().Delete(ctx, keyUserID, keyName, keyEmail, keyToken)
}
