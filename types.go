package admin

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Action identifies one of the admin operations when consulting the
// permission gate.
type Action string

const (
	ActionSetUserPassword    Action = "set-user-password"
	ActionBanUser            Action = "ban-user"
	ActionUnbanUser          Action = "unban-user"
	ActionListUserSessions   Action = "list-user-sessions"
	ActionRevokeUserSession  Action = "revoke-user-session"
	ActionRevokeUserSessions Action = "revoke-user-sessions"
)

// PermissionChecker decides whether the calling actor may execute an
// admin operation. The decision logic is supplied by the embedding
// system and stays opaque to this package: return false to deny, or an
// error to surface a custom response unchanged.
type PermissionChecker interface {
	Allowed(ctx context.Context, action Action) (bool, error)
}

// PermissionCheckerFunc adapts a function to the PermissionChecker interface.
type PermissionCheckerFunc func(ctx context.Context, action Action) (bool, error)

// Allowed implements PermissionChecker.
func (f PermissionCheckerFunc) Allowed(ctx context.Context, action Action) (bool, error) {
	if f == nil {
		return false, nil
	}
	return f(ctx, action)
}

// AccountStore is the persistence collaborator for accounts. Ban
// mutations go through UpdateBanState so reason and expiry can be set
// and cleared atomically with the banned flag.
type AccountStore interface {
	FindByID(ctx context.Context, id string) (*Account, error)
	UpdateBanState(ctx context.Context, id string, banned bool, opts ...BanUpdateOption) (*Account, error)
	SetPasswordHash(ctx context.Context, id string, passwordHash string) error
}

// SessionStore is the persistence collaborator for sessions. Deletes
// are idempotent: removing a token or user that holds no sessions is
// not an error.
type SessionStore interface {
	List(ctx context.Context, userID string) ([]*Session, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteForUser(ctx context.Context, userID string) error
}

// PasswordHasher derives and verifies credential hashes
type PasswordHasher interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

// Config holds admin options
type Config interface {
	GetDefaultBanReason() string
	GetDefaultBanExpiresIn() time.Duration
}

// AdminConfig is a plain Config implementation. Zero values mean "no
// default": bans fall back to the fixed reason literal and never expire
// unless the caller supplies a duration.
type AdminConfig struct {
	DefaultBanReason    string
	DefaultBanExpiresIn time.Duration
}

func (c AdminConfig) GetDefaultBanReason() string {
	return c.DefaultBanReason
}

func (c AdminConfig) GetDefaultBanExpiresIn() time.Duration {
	return c.DefaultBanExpiresIn
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] ADMIN "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] ADMIN "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] ADMIN "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] ADMIN "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
