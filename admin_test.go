package admin_test

import (
	"context"
	"errors"
	"testing"
	"time"

	admin "github.com/goliatone/go-auth-admin"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPermissionDenialShortCircuitsEveryOperation(t *testing.T) {
	userID := uuid.New().String()

	tests := []struct {
		name   string
		action admin.Action
		call   func(a *admin.Admin) error
	}{
		{
			name:   "set user password",
			action: admin.ActionSetUserPassword,
			call: func(a *admin.Admin) error {
				return a.SetUserPassword(context.Background(), userID, "correct-horse-battery")
			},
		},
		{
			name:   "ban user",
			action: admin.ActionBanUser,
			call: func(a *admin.Admin) error {
				_, err := a.BanUser(context.Background(), userID)
				return err
			},
		},
		{
			name:   "unban user",
			action: admin.ActionUnbanUser,
			call: func(a *admin.Admin) error {
				_, err := a.UnbanUser(context.Background(), userID)
				return err
			},
		},
		{
			name:   "list user sessions",
			action: admin.ActionListUserSessions,
			call: func(a *admin.Admin) error {
				_, err := a.ListUserSessions(context.Background(), userID)
				return err
			},
		},
		{
			name:   "revoke user session",
			action: admin.ActionRevokeUserSession,
			call: func(a *admin.Admin) error {
				return a.RevokeUserSession(context.Background(), "some-token")
			},
		},
		{
			name:   "revoke user sessions",
			action: admin.ActionRevokeUserSessions,
			call: func(a *admin.Admin) error {
				return a.RevokeUserSessions(context.Background(), userID)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := &MockPermissionChecker{}
			machine := &MockBanStateMachine{}
			accounts := &MockAccountStore{}
			sessions := &MockSessionStore{}
			hasher := &MockPasswordHasher{}

			gate.On("Allowed", mock.Anything, tt.action).Return(false, nil).Once()

			a := admin.NewAdmin(gate, machine, accounts, sessions,
				admin.WithAdminHasher(hasher),
			)

			err := tt.call(a)
			require.Error(t, err)
			assert.ErrorIs(t, err, admin.ErrForbiddenAction)

			gate.AssertExpectations(t)
			machine.AssertNotCalled(t, "Ban", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			machine.AssertNotCalled(t, "Unban", mock.Anything, mock.Anything, mock.Anything)
			accounts.AssertNotCalled(t, "SetPasswordHash", mock.Anything, mock.Anything, mock.Anything)
			accounts.AssertNotCalled(t, "UpdateBanState", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			sessions.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
			sessions.AssertNotCalled(t, "DeleteByToken", mock.Anything, mock.Anything)
			sessions.AssertNotCalled(t, "DeleteForUser", mock.Anything, mock.Anything)
			hasher.AssertNotCalled(t, "HashPassword", mock.Anything)
		})
	}
}

func TestPermissionCheckerErrorPropagatesUnchanged(t *testing.T) {
	gate := &MockPermissionChecker{}
	machine := &MockBanStateMachine{}
	customErr := errors.New("rate limited, try later")

	gate.On("Allowed", mock.Anything, admin.ActionBanUser).Return(false, customErr).Once()

	a := admin.NewAdmin(gate, machine, &MockAccountStore{}, &MockSessionStore{})

	_, err := a.BanUser(context.Background(), uuid.New().String())
	require.Error(t, err)
	assert.Equal(t, customErr, err)
}

func TestSetUserPasswordShortPasswordFailsBeforeHasher(t *testing.T) {
	gate := allowAll()
	accounts := &MockAccountStore{}
	hasher := &MockPasswordHasher{}

	a := admin.NewAdmin(gate, &MockBanStateMachine{}, accounts, &MockSessionStore{},
		admin.WithAdminHasher(hasher),
	)

	err := a.SetUserPassword(context.Background(), uuid.New().String(), "short77")
	require.Error(t, err)
	assert.ErrorIs(t, err, admin.ErrPasswordTooShort)

	hasher.AssertNotCalled(t, "HashPassword", mock.Anything)
	accounts.AssertNotCalled(t, "SetPasswordHash", mock.Anything, mock.Anything, mock.Anything)
}

func TestSetUserPasswordRejectsOverlongPassword(t *testing.T) {
	gate := allowAll()
	hasher := &MockPasswordHasher{}

	a := admin.NewAdmin(gate, &MockBanStateMachine{}, &MockAccountStore{}, &MockSessionStore{},
		admin.WithAdminHasher(hasher),
	)

	long := make([]byte, admin.MaxPasswordLength+1)
	for i := range long {
		long[i] = 'a'
	}

	err := a.SetUserPassword(context.Background(), uuid.New().String(), string(long))
	require.Error(t, err)
	assert.ErrorIs(t, err, admin.ErrPasswordTooLong)
	hasher.AssertNotCalled(t, "HashPassword", mock.Anything)
}

func TestSetUserPasswordPersistsHash(t *testing.T) {
	gate := allowAll()
	accounts := &MockAccountStore{}
	hasher := &MockPasswordHasher{}
	userID := uuid.New().String()

	hasher.On("HashPassword", "correct-horse-battery").Return("$2a$14$hash", nil).Once()
	accounts.On("SetPasswordHash", mock.Anything, userID, "$2a$14$hash").Return(nil).Once()

	a := admin.NewAdmin(gate, &MockBanStateMachine{}, accounts, &MockSessionStore{},
		admin.WithAdminHasher(hasher),
	)

	err := a.SetUserPassword(context.Background(), userID, "correct-horse-battery")
	require.NoError(t, err)

	hasher.AssertExpectations(t)
	accounts.AssertExpectations(t)
}

func TestSetUserPasswordUnknownAccount(t *testing.T) {
	gate := allowAll()
	accounts := &MockAccountStore{}
	hasher := &MockPasswordHasher{}
	userID := uuid.New().String()

	hasher.On("HashPassword", mock.Anything).Return("$2a$14$hash", nil).Once()
	accounts.On("SetPasswordHash", mock.Anything, userID, mock.Anything).
		Return(repository.NewRecordNotFound()).Once()

	a := admin.NewAdmin(gate, &MockBanStateMachine{}, accounts, &MockSessionStore{},
		admin.WithAdminHasher(hasher),
	)

	err := a.SetUserPassword(context.Background(), userID, "correct-horse-battery")
	require.Error(t, err)
	assert.ErrorIs(t, err, admin.ErrAccountNotFound)
}

func TestBanUserPassesActorFromContext(t *testing.T) {
	gate := allowAll()
	machine := &MockBanStateMachine{}
	userID := uuid.New().String()
	actor := admin.ActorRef{ID: uuid.New().String(), Type: "admin"}

	machine.On("Ban", mock.Anything, actor, userID, mock.Anything).
		Return(&admin.Account{Banned: true}, nil).Once()

	a := admin.NewAdmin(gate, machine, &MockAccountStore{}, &MockSessionStore{})

	ctx := admin.WithActor(context.Background(), actor)
	account, err := a.BanUser(ctx, userID, admin.WithBanReason("abuse"))
	require.NoError(t, err)
	assert.True(t, account.Banned)
	machine.AssertExpectations(t)
}

func TestListUserSessionsReturnsStoreOrder(t *testing.T) {
	gate := allowAll()
	sessions := &MockSessionStore{}
	userID := uuid.New()

	records := []*admin.Session{
		{ID: uuid.New(), Token: "tok-1", UserID: userID},
		{ID: uuid.New(), Token: "tok-2", UserID: userID},
	}

	sessions.On("List", mock.Anything, userID.String()).Return(records, nil).Once()

	a := admin.NewAdmin(gate, &MockBanStateMachine{}, &MockAccountStore{}, sessions)

	got, err := a.ListUserSessions(context.Background(), userID.String())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "tok-1", got[0].Token)
	assert.Equal(t, "tok-2", got[1].Token)
}

func TestRevokeUserSessionUnknownTokenSucceeds(t *testing.T) {
	gate := allowAll()
	sessions := &MockSessionStore{}

	sessions.On("DeleteByToken", mock.Anything, "no-such-token").Return(nil).Once()

	a := admin.NewAdmin(gate, &MockBanStateMachine{}, &MockAccountStore{}, sessions)

	err := a.RevokeUserSession(context.Background(), "no-such-token")
	require.NoError(t, err)
	sessions.AssertExpectations(t)
}

func TestRevokeUserSessionsEmitsActivity(t *testing.T) {
	gate := allowAll()
	sessions := &MockSessionStore{}
	sink := &MockActivitySink{}
	userID := uuid.New().String()
	now := time.Date(2024, 6, 2, 9, 0, 0, 0, time.UTC)

	sessions.On("DeleteForUser", mock.Anything, userID).Return(nil).Once()
	sink.On("Record", mock.Anything, mock.MatchedBy(func(evt admin.ActivityEvent) bool {
		return evt.EventType == admin.ActivityEventSessionsRevoked &&
			evt.UserID == userID &&
			evt.OccurredAt.Equal(now)
	})).Return(nil).Once()

	a := admin.NewAdmin(gate, &MockBanStateMachine{}, &MockAccountStore{}, sessions,
		admin.WithAdminActivitySink(sink),
		admin.WithAdminClock(func() time.Time { return now }),
	)

	err := a.RevokeUserSessions(context.Background(), userID)
	require.NoError(t, err)
	sink.AssertExpectations(t)
}
