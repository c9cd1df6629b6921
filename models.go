package admin

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Account is the user model as this module sees it. The banned,
// ban_reason, and ban_expires columns are the schema extension this
// package contributes to the host's users table; everything else is
// owned by the host identity system.
type Account struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Username      string     `bun:"username,notnull,unique" json:"username,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string     `bun:"password_hash" json:"-"`
	Banned        bool       `bun:"banned" json:"banned"`
	BanReason     *string    `bun:"ban_reason,nullzero" json:"ban_reason,omitempty"`
	BanExpires    *time.Time `bun:"ban_expires,nullzero" json:"ban_expires,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// BanActive reports whether the account is under a ban that is still in
// force at the given instant. An absent expiry means the ban is
// indefinite.
func (a *Account) BanActive(now time.Time) bool {
	if a == nil || !a.Banned {
		return false
	}
	if a.BanExpires == nil {
		return true
	}
	return !a.BanExpires.Before(now)
}

// BanLapsed reports whether the account carries a ban whose expiry is
// strictly in the past. Lapsed bans are cleared lazily by the session
// guard, never by a background process.
func (a *Account) BanLapsed(now time.Time) bool {
	if a == nil || !a.Banned {
		return false
	}
	return a.BanExpires != nil && a.BanExpires.Before(now)
}

// Session is one authenticated login instance for an Account. Sessions
// are created by the host identity system; this module only enumerates
// and deletes them.
type Session struct {
	bun.BaseModel `bun:"table:sessions,alias:ses"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Token         string     `bun:"token,notnull,unique" json:"token,omitempty"`
	UserID        uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	IPAddress     string     `bun:"ip_address" json:"ip_address,omitempty"`
	UserAgent     string     `bun:"user_agent" json:"user_agent,omitempty"`
	ExpiresAt     *time.Time `bun:"expires_at,nullzero" json:"expires_at,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}
