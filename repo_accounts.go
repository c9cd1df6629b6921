package admin

import (
	"context"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var updateBanStateSQL = `UPDATE "users" AS "usr"
SET
	"banned" = ?,
	"ban_reason" = ?,
	"ban_expires" = ?,
	"updated_at" = ?
WHERE
	"usr"."deleted_at" IS NULL
AND (
	"usr"."id" = ?
) RETURNING *;`

var setPasswordHashSQL = `UPDATE "users" AS "usr"
SET
	"password_hash" = ?,
	"updated_at" = ?
WHERE
	"usr"."deleted_at" IS NULL
AND (
	"usr"."id" = ?
) RETURNING *;`

// BanUpdateOption mutates the account patch persisted by UpdateBanState.
type BanUpdateOption func(*Account)

// WithBanStateReason sets (or clears, with nil) the stored ban reason.
func WithBanStateReason(reason *string) BanUpdateOption {
	return func(a *Account) {
		a.BanReason = reason
	}
}

// WithBanStateExpires sets (or clears, with nil) the stored ban expiry.
func WithBanStateExpires(at *time.Time) BanUpdateOption {
	return func(a *Account) {
		a.BanExpires = at
	}
}

// Accounts is the Bun-backed AccountStore plus the raw repository surface.
type Accounts interface {
	repository.Repository[*Account]

	FindByID(ctx context.Context, id string) (*Account, error)
	FindByIDTx(ctx context.Context, tx bun.IDB, id string) (*Account, error)
	UpdateBanState(ctx context.Context, id string, banned bool, opts ...BanUpdateOption) (*Account, error)
	UpdateBanStateTx(ctx context.Context, tx bun.IDB, id string, banned bool, opts ...BanUpdateOption) (*Account, error)
	SetPasswordHash(ctx context.Context, id string, passwordHash string) error
	SetPasswordHashTx(ctx context.Context, tx bun.IDB, id string, passwordHash string) error
}

type accounts struct {
	repository.Repository[*Account]
	db *bun.DB
}

var (
	_ Accounts     = (*accounts)(nil)
	_ AccountStore = (*accounts)(nil)
)

func NewAccountsRepository(db *bun.DB) Accounts {
	repo := repository.NewRepository[*Account](db, repository.ModelHandlers[*Account]{
		NewRecord: func() *Account { return &Account{} },
		GetID: func(a *Account) uuid.UUID {
			if a == nil {
				return uuid.Nil
			}
			return a.ID
		},
		SetID: func(a *Account, id uuid.UUID) {
			if a != nil {
				a.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &accounts{
		Repository: repo,
		db:         db,
	}
}

func (a *accounts) FindByID(ctx context.Context, id string) (*Account, error) {
	return a.FindByIDTx(ctx, a.db, id)
}

func (a *accounts) FindByIDTx(ctx context.Context, tx bun.IDB, id string) (*Account, error) {
	record := &Account{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"id": id,
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *accounts) UpdateBanState(ctx context.Context, id string, banned bool, opts ...BanUpdateOption) (*Account, error) {
	return a.UpdateBanStateTx(ctx, a.db, id, banned, opts...)
}

func (a *accounts) UpdateBanStateTx(ctx context.Context, tx bun.IDB, id string, banned bool, opts ...BanUpdateOption) (*Account, error) {
	record := &Account{
		Banned: banned,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(record)
		}
	}

	res, err := a.Repository.RawTx(ctx, tx, updateBanStateSQL,
		record.Banned,
		record.BanReason,
		record.BanExpires,
		time.Now(),
		id,
	)
	if err != nil {
		return nil, err
	}

	if len(res) == 0 {
		return nil, repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"id": id,
			})
	}

	return res[0], nil
}

func (a *accounts) SetPasswordHash(ctx context.Context, id string, passwordHash string) error {
	return a.SetPasswordHashTx(ctx, a.db, id, passwordHash)
}

func (a *accounts) SetPasswordHashTx(ctx context.Context, tx bun.IDB, id string, passwordHash string) error {
	res, err := a.Repository.RawTx(ctx, tx, setPasswordHashSQL, passwordHash, time.Now(), id)
	if err != nil {
		return err
	}

	if len(res) == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"id": id,
			})
	}

	return nil
}
