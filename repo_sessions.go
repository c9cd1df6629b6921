package admin

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Sessions is the Bun-backed SessionStore plus the raw repository
// surface. Deletes are idempotent at the SQL level: a miss affects zero
// rows and returns no error.
type Sessions interface {
	repository.Repository[*Session]

	List(ctx context.Context, userID string) ([]*Session, error)
	ListTx(ctx context.Context, tx bun.IDB, userID string) ([]*Session, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteByTokenTx(ctx context.Context, tx bun.IDB, token string) error
	DeleteForUser(ctx context.Context, userID string) error
	DeleteForUserTx(ctx context.Context, tx bun.IDB, userID string) error
}

type sessions struct {
	repository.Repository[*Session]
	db *bun.DB
}

var (
	_ Sessions     = (*sessions)(nil)
	_ SessionStore = (*sessions)(nil)
)

func NewSessionsRepository(db *bun.DB) Sessions {
	repo := repository.NewRepository[*Session](db, repository.ModelHandlers[*Session]{
		NewRecord: func() *Session { return &Session{} },
		GetID: func(s *Session) uuid.UUID {
			if s == nil {
				return uuid.Nil
			}
			return s.ID
		},
		SetID: func(s *Session, id uuid.UUID) {
			if s != nil {
				s.ID = id
			}
		},
		GetIdentifier: func() string {
			return "token"
		},
	})

	return &sessions{
		Repository: repo,
		db:         db,
	}
}

func (s *sessions) List(ctx context.Context, userID string) ([]*Session, error) {
	return s.ListTx(ctx, s.db, userID)
}

func (s *sessions) ListTx(ctx context.Context, tx bun.IDB, userID string) ([]*Session, error) {
	records := []*Session{}
	err := tx.NewSelect().
		Model(&records).
		Where("?TableAlias.user_id = ?", userID).
		Order("created_at ASC").
		Scan(ctx)

	if err != nil {
		return nil, err
	}

	return records, nil
}

func (s *sessions) DeleteByToken(ctx context.Context, token string) error {
	return s.DeleteByTokenTx(ctx, s.db, token)
}

func (s *sessions) DeleteByTokenTx(ctx context.Context, tx bun.IDB, token string) error {
	_, err := tx.NewDelete().
		Model((*Session)(nil)).
		Where("?TableAlias.token = ?", token).
		Exec(ctx)

	return err
}

func (s *sessions) DeleteForUser(ctx context.Context, userID string) error {
	return s.DeleteForUserTx(ctx, s.db, userID)
}

func (s *sessions) DeleteForUserTx(ctx context.Context, tx bun.IDB, userID string) error {
	_, err := tx.NewDelete().
		Model((*Session)(nil)).
		Where("?TableAlias.user_id = ?", userID).
		Exec(ctx)

	return err
}
