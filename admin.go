package admin

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
)

const (
	// MinPasswordLength is the fixed floor for forced passwords.
	MinPasswordLength = 8
	// MaxPasswordLength bounds forced passwords; bcrypt truncates past 72
	// bytes so anything near that is a caller mistake.
	MaxPasswordLength = 128
)

// Admin composes the permission gate, the ban state machine, and the
// session stores into the six admin operations. Every operation
// consults the gate first; a denial is a no-op with respect to all
// state.
type Admin struct {
	gate         PermissionChecker
	machine      BanStateMachine
	accounts     AccountStore
	sessions     SessionStore
	hasher       PasswordHasher
	logger       Logger
	activitySink ActivitySink
	now          func() time.Time
}

// AdminOption customizes the admin surface.
type AdminOption func(*Admin)

// WithAdminHasher overrides the default bcrypt hasher.
func WithAdminHasher(h PasswordHasher) AdminOption {
	return func(a *Admin) {
		if h != nil {
			a.hasher = h
		}
	}
}

// WithAdminLogger overrides the logger.
func WithAdminLogger(l Logger) AdminOption {
	return func(a *Admin) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithAdminActivitySink sets the audit sink for revocation and password events.
func WithAdminActivitySink(sink ActivitySink) AdminOption {
	return func(a *Admin) {
		a.activitySink = normalizeActivitySink(sink)
	}
}

// WithAdminClock injects a custom clock (useful for tests).
func WithAdminClock(clock func() time.Time) AdminOption {
	return func(a *Admin) {
		if clock != nil {
			a.now = clock
		}
	}
}

// NewAdmin builds the admin surface. The permission gate, stores, and
// state machine are required; everything else has defaults.
func NewAdmin(gate PermissionChecker, machine BanStateMachine, accounts AccountStore, sessions SessionStore, opts ...AdminOption) *Admin {
	if gate == nil {
		panic("Missing PermissionChecker in admin surface...")
	}

	if machine == nil {
		panic("Missing BanStateMachine in admin surface...")
	}

	a := &Admin{
		gate:         gate,
		machine:      machine,
		accounts:     accounts,
		sessions:     sessions,
		hasher:       BcryptHasher{},
		logger:       defLogger{},
		activitySink: noopActivitySink{},
		now:          time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}

	return a
}

// SetUserPassword validates and hashes a replacement password for the
// account. It is independent of ban state and never touches sessions.
func (a *Admin) SetUserPassword(ctx context.Context, userID, newPassword string) error {
	if err := a.authorize(ctx, ActionSetUserPassword); err != nil {
		return err
	}

	if err := validatePasswordLength(newPassword); err != nil {
		return err
	}

	hash, err := a.hasher.HashPassword(newPassword)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	if err := a.accounts.SetPasswordHash(ctx, userID, hash); err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrAccountNotFound.WithMetadata(map[string]any{
				"user_id": userID,
			})
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update user password").
			WithMetadata(map[string]any{
				"user_id": userID,
			})
	}

	a.recordActivity(ctx, ActivityEvent{
		EventType: ActivityEventPasswordSet,
		UserID:    userID,
	})

	return nil
}

// BanUser applies a ban. The acting admin is taken from the context;
// banning your own account is rejected before any mutation. A
// successful ban leaves the account with zero sessions.
func (a *Admin) BanUser(ctx context.Context, userID string, opts ...BanOption) (*Account, error) {
	if err := a.authorize(ctx, ActionBanUser); err != nil {
		return nil, err
	}

	actor, _ := ActorFromContext(ctx)
	return a.machine.Ban(ctx, actor, userID, opts...)
}

// UnbanUser lifts a ban. Idempotent; already-live sessions are not touched.
func (a *Admin) UnbanUser(ctx context.Context, userID string) (*Account, error) {
	if err := a.authorize(ctx, ActionUnbanUser); err != nil {
		return nil, err
	}

	actor, _ := ActorFromContext(ctx)
	return a.machine.Unban(ctx, actor, userID)
}

// ListUserSessions returns the account's active sessions, oldest first.
func (a *Admin) ListUserSessions(ctx context.Context, userID string) ([]*Session, error) {
	if err := a.authorize(ctx, ActionListUserSessions); err != nil {
		return nil, err
	}

	sessions, err := a.sessions.List(ctx, userID)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to list user sessions").
			WithMetadata(map[string]any{
				"user_id": userID,
			})
	}

	return sessions, nil
}

// RevokeUserSession deletes one session by token. Unknown tokens are
// not an error.
func (a *Admin) RevokeUserSession(ctx context.Context, sessionToken string) error {
	if err := a.authorize(ctx, ActionRevokeUserSession); err != nil {
		return err
	}

	if err := a.sessions.DeleteByToken(ctx, sessionToken); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to revoke session")
	}

	a.recordActivity(ctx, ActivityEvent{
		EventType: ActivityEventSessionRevoked,
		Metadata: map[string]any{
			"session_token": sessionToken,
		},
	})

	return nil
}

// RevokeUserSessions deletes every session the account holds. Also used
// by the ban cascade; safe to retry.
func (a *Admin) RevokeUserSessions(ctx context.Context, userID string) error {
	if err := a.authorize(ctx, ActionRevokeUserSessions); err != nil {
		return err
	}

	if err := a.sessions.DeleteForUser(ctx, userID); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to revoke user sessions").
			WithMetadata(map[string]any{
				"user_id": userID,
			})
	}

	a.recordActivity(ctx, ActivityEvent{
		EventType: ActivityEventSessionsRevoked,
		UserID:    userID,
	})

	return nil
}

// authorize consults the permission gate. Errors from the gate carry
// custom permission responses and propagate unchanged.
func (a *Admin) authorize(ctx context.Context, action Action) error {
	allowed, err := a.gate.Allowed(ctx, action)
	if err != nil {
		return err
	}

	if !allowed {
		return ErrForbiddenAction.WithMetadata(map[string]any{
			"action": string(action),
		})
	}

	return nil
}

func (a *Admin) recordActivity(ctx context.Context, event ActivityEvent) {
	if event.Actor == (ActorRef{}) {
		if actor, ok := ActorFromContext(ctx); ok {
			event.Actor = actor
		} else {
			event.Actor = ActorRef{Type: "system"}
		}
	}

	if event.OccurredAt.IsZero() {
		event.OccurredAt = a.now()
	}

	sink := normalizeActivitySink(a.activitySink)
	if err := sink.Record(ctx, event); err != nil {
		a.logger.Warn("admin activity sink error: %v", err)
	}
}

func validatePasswordLength(password string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > MaxPasswordLength {
		return ErrPasswordTooLong
	}
	return nil
}
