package admin

import (
	"context"
	"time"
)

// ActivityEventType enumerates supported activity categories.
type ActivityEventType string

const (
	ActivityEventUserBanned      ActivityEventType = "admin.user.banned"
	ActivityEventUserUnbanned    ActivityEventType = "admin.user.unbanned"
	ActivityEventBanExpired      ActivityEventType = "admin.ban.expired"
	ActivityEventPasswordSet     ActivityEventType = "admin.password.set"
	ActivityEventSessionRevoked  ActivityEventType = "admin.session.revoked"
	ActivityEventSessionsRevoked ActivityEventType = "admin.sessions.revoked"
)

// ActivityEvent captures audit-friendly information about an admin action.
type ActivityEvent struct {
	EventType  ActivityEventType
	Actor      ActorRef
	UserID     string
	Metadata   map[string]any
	OccurredAt time.Time
}

// ActivitySink consumes activity events for auditing/telemetry purposes.
type ActivitySink interface {
	Record(ctx context.Context, event ActivityEvent) error
}

// ActivitySinkFunc adapts a function to the ActivitySink interface.
type ActivitySinkFunc func(ctx context.Context, event ActivityEvent) error

// Record implements ActivitySink.
func (f ActivitySinkFunc) Record(ctx context.Context, event ActivityEvent) error {
	if f == nil {
		return nil
	}
	return f(ctx, event)
}

type noopActivitySink struct{}

func (noopActivitySink) Record(context.Context, ActivityEvent) error {
	return nil
}

func normalizeActivitySink(s ActivitySink) ActivitySink {
	if s == nil {
		return noopActivitySink{}
	}
	return s
}
