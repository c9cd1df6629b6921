package admin

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
)

// SessionGuard is the pre-commit check the host authentication flow runs
// before persisting a new session. It is the single enforcement point
// that makes bans effective: admin ban/unban calls never inspect
// in-flight logins, they rely on this guard being consulted on every
// session creation.
type SessionGuard struct {
	accounts AccountStore
	machine  BanStateMachine
	logger   Logger
}

// SessionGuardOption customizes guard construction.
type SessionGuardOption func(*SessionGuard)

// WithSessionGuardLogger overrides the guard logger.
func WithSessionGuardLogger(logger Logger) SessionGuardOption {
	return func(g *SessionGuard) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewSessionGuard wires the guard to the account store and the ban
// state machine that performs lazy expiry.
func NewSessionGuard(accounts AccountStore, machine BanStateMachine, opts ...SessionGuardOption) *SessionGuard {
	g := &SessionGuard{
		accounts: accounts,
		machine:  machine,
		logger:   defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}

	return g
}

// CheckEstablish decides whether a session may be created for userID.
// Unknown accounts pass through untouched (the host surfaces its own
// unknown-user errors). A ban whose expiry is strictly in the past is
// cleared as a side effect and the login proceeds; any other active ban
// aborts establishment with ErrUserBanned.
func (g *SessionGuard) CheckEstablish(ctx context.Context, userID string) error {
	account, err := g.accounts.FindByID(ctx, userID)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load account for session check").
			WithMetadata(map[string]any{
				"user_id": userID,
			})
	}

	if account == nil || !account.Banned {
		return nil
	}

	cleared, err := g.machine.ClearLapsedBan(ctx, account)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to clear lapsed ban").
			WithMetadata(map[string]any{
				"user_id": userID,
			})
	}

	if cleared {
		g.logger.Debug("lapsed ban cleared during session establishment: user_id=%s", userID)
		return nil
	}

	return ErrUserBanned.WithMetadata(map[string]any{
		"user_id": userID,
	})
}
