package admin

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// fallbackBanReason is recorded when neither the caller nor the config
// supplies a reason.
const fallbackBanReason = "No reason"

// ActorRef identifies who/what triggered an admin action.
type ActorRef struct {
	ID   string
	Type string
}

// BanContext is passed into hooks for additional processing.
type BanContext struct {
	Actor   ActorRef
	UserID  string
	Reason  string
	Expires *time.Time
}

// BanHook is executed before or after a ban is applied.
type BanHook func(ctx context.Context, bc BanContext) error

// BanOption customizes a single Ban invocation.
type BanOption func(*banOptions)

// BanStateMachine owns the semantics of banning, unbanning, and lazy
// ban expiry. It never runs on a timer: ClearLapsedBan is invoked by the
// session guard as a side effect of session establishment.
type BanStateMachine interface {
	Ban(ctx context.Context, actor ActorRef, userID string, opts ...BanOption) (*Account, error)
	Unban(ctx context.Context, actor ActorRef, userID string) (*Account, error)
	ClearLapsedBan(ctx context.Context, account *Account) (bool, error)
}

// StateMachineOption customizes state machine construction.
type StateMachineOption func(*banStateMachine)

// WithStateMachineClock injects a custom clock (useful for tests).
func WithStateMachineClock(clock func() time.Time) StateMachineOption {
	return func(sm *banStateMachine) {
		if clock != nil {
			sm.now = clock
		}
	}
}

// WithStateMachineActivitySink sets the ActivitySink used to publish ban events.
func WithStateMachineActivitySink(sink ActivitySink) StateMachineOption {
	return func(sm *banStateMachine) {
		sm.activitySink = normalizeActivitySink(sink)
	}
}

// WithStateMachineLogger overrides the logger used for sink failures.
func WithStateMachineLogger(logger Logger) StateMachineOption {
	return func(sm *banStateMachine) {
		if logger != nil {
			sm.logger = logger
		}
	}
}

// WithBanReason sets the caller-supplied reason. It takes precedence
// over the configured default and the fixed fallback literal.
func WithBanReason(reason string) BanOption {
	return func(opts *banOptions) {
		opts.reason = reason
	}
}

// WithBanDuration bounds the ban; it expires duration from now. Takes
// precedence over the configured default. Without either the ban is
// indefinite.
func WithBanDuration(d time.Duration) BanOption {
	return func(opts *banOptions) {
		if d > 0 {
			opts.duration = d
		}
	}
}

// WithBeforeBanHook adds a hook executed before the account mutation.
func WithBeforeBanHook(h BanHook) BanOption {
	return func(opts *banOptions) {
		if h != nil {
			opts.beforeHooks = append(opts.beforeHooks, h)
		}
	}
}

// WithAfterBanHook adds a hook executed after the session cascade succeeds.
func WithAfterBanHook(h BanHook) BanOption {
	return func(opts *banOptions) {
		if h != nil {
			opts.afterHooks = append(opts.afterHooks, h)
		}
	}
}

// NewBanStateMachine returns the default implementation backed by the
// provided stores. Config may be nil, in which case only the fixed
// fallbacks apply.
func NewBanStateMachine(accounts AccountStore, sessions SessionStore, cfg Config, opts ...StateMachineOption) BanStateMachine {
	sm := &banStateMachine{
		accounts:     accounts,
		sessions:     sessions,
		cfg:          cfg,
		now:          time.Now,
		activitySink: noopActivitySink{},
		logger:       defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(sm)
		}
	}

	return sm
}

type banStateMachine struct {
	accounts     AccountStore
	sessions     SessionStore
	cfg          Config
	now          func() time.Time
	activitySink ActivitySink
	logger       Logger
}

type banOptions struct {
	reason      string
	duration    time.Duration
	beforeHooks []BanHook
	afterHooks  []BanHook
}

// Ban moves the account into the banned state and revokes every session
// it holds. The account mutation is committed before the cascade so a
// racing session check can observe "banned, sessions pending" but never
// the reverse. A cascade failure after the mutation is surfaced, not
// swallowed; retrying Ban (or RevokeUserSessions) converges.
func (sm *banStateMachine) Ban(ctx context.Context, actor ActorRef, userID string, opts ...BanOption) (*Account, error) {
	if userID == "" {
		return nil, goerrors.New("user id is required", goerrors.CategoryBadInput)
	}

	if actor.ID != "" && actor.ID == userID {
		return nil, ErrCannotBanSelf.WithMetadata(map[string]any{
			"user_id": userID,
		})
	}

	options := sm.buildBanOptions(opts...)

	now := sm.now()
	reason := resolveBanReason(options.reason, sm.cfg)
	expires := resolveBanExpiry(now, options.duration, sm.cfg)

	bc := BanContext{
		Actor:   actor,
		UserID:  userID,
		Reason:  reason,
		Expires: expires,
	}

	if err := runBanHooks(ctx, options.beforeHooks, bc); err != nil {
		return nil, err
	}

	account, err := sm.accounts.UpdateBanState(ctx, userID, true,
		WithBanStateReason(&reason),
		WithBanStateExpires(expires),
	)
	if err != nil {
		return nil, err
	}

	if err := sm.sessions.DeleteForUser(ctx, userID); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "ban applied but session revocation failed").
			WithMetadata(map[string]any{
				"user_id": userID,
			})
	}

	if err := runBanHooks(ctx, options.afterHooks, bc); err != nil {
		return nil, err
	}

	sm.recordActivity(ctx, ActivityEvent{
		EventType: ActivityEventUserBanned,
		Actor:     actor,
		UserID:    userID,
		Metadata:  banMetadata(reason, expires),
	})

	return account, nil
}

// Unban moves the account back to the active state, clearing reason and
// expiry. It is idempotent and never touches live sessions.
func (sm *banStateMachine) Unban(ctx context.Context, actor ActorRef, userID string) (*Account, error) {
	if userID == "" {
		return nil, goerrors.New("user id is required", goerrors.CategoryBadInput)
	}

	account, err := sm.accounts.UpdateBanState(ctx, userID, false,
		WithBanStateReason(nil),
		WithBanStateExpires(nil),
	)
	if err != nil {
		return nil, err
	}

	sm.recordActivity(ctx, ActivityEvent{
		EventType: ActivityEventUserUnbanned,
		Actor:     actor,
		UserID:    userID,
	})

	return account, nil
}

// ClearLapsedBan clears the ban if its expiry is strictly in the past,
// mutating the passed account to match the persisted state. It reports
// whether a clear happened. Indefinite bans never lapse.
func (sm *banStateMachine) ClearLapsedBan(ctx context.Context, account *Account) (bool, error) {
	if account == nil || !account.BanLapsed(sm.now()) {
		return false, nil
	}

	updated, err := sm.accounts.UpdateBanState(ctx, account.ID.String(), false,
		WithBanStateReason(nil),
		WithBanStateExpires(nil),
	)
	if err != nil {
		return false, err
	}

	account.Banned = false
	account.BanReason = nil
	account.BanExpires = nil
	if updated != nil && updated.UpdatedAt != nil {
		account.UpdatedAt = updated.UpdatedAt
	}

	sm.recordActivity(ctx, ActivityEvent{
		EventType: ActivityEventBanExpired,
		Actor:     ActorRef{Type: "system"},
		UserID:    account.ID.String(),
	})

	return true, nil
}

func (sm *banStateMachine) buildBanOptions(opts ...BanOption) *banOptions {
	options := &banOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(options)
		}
	}
	return options
}

func runBanHooks(ctx context.Context, hooks []BanHook, data BanContext) error {
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		if err := hook(ctx, data); err != nil {
			return err
		}
	}
	return nil
}

func (sm *banStateMachine) recordActivity(ctx context.Context, event ActivityEvent) {
	if event.Actor == (ActorRef{}) {
		event.Actor = ActorRef{Type: "system"}
	}

	if event.OccurredAt.IsZero() {
		event.OccurredAt = sm.now()
	}

	sink := normalizeActivitySink(sm.activitySink)
	if err := sink.Record(ctx, event); err != nil {
		sm.logger.Warn("ban state machine activity sink error: %v", err)
	}
}

func banMetadata(reason string, expires *time.Time) map[string]any {
	meta := map[string]any{
		"reason": reason,
	}
	if expires != nil {
		meta["expires"] = expires.UTC()
	}
	return meta
}

// resolveBanReason applies the reason precedence rule: caller value,
// then configured default, then the fixed fallback literal.
func resolveBanReason(reason string, cfg Config) string {
	if reason != "" {
		return reason
	}
	if cfg != nil && cfg.GetDefaultBanReason() != "" {
		return cfg.GetDefaultBanReason()
	}
	return fallbackBanReason
}

// resolveBanExpiry applies the expiry precedence rule: caller duration,
// then configured default, then nil (indefinite).
func resolveBanExpiry(now time.Time, d time.Duration, cfg Config) *time.Time {
	if d > 0 {
		at := now.Add(d)
		return &at
	}
	if cfg != nil {
		if dd := cfg.GetDefaultBanExpiresIn(); dd > 0 {
			at := now.Add(dd)
			return &at
		}
	}
	return nil
}
