package admin_test

import (
	"context"

	admin "github.com/goliatone/go-auth-admin"
	"github.com/stretchr/testify/mock"
)

// MockPermissionChecker implements admin.PermissionChecker
type MockPermissionChecker struct {
	mock.Mock
}

func (m *MockPermissionChecker) Allowed(ctx context.Context, action admin.Action) (bool, error) {
	args := m.Called(ctx, action)
	return args.Bool(0), args.Error(1)
}

// MockAccountStore implements admin.AccountStore
type MockAccountStore struct {
	mock.Mock
}

func (m *MockAccountStore) FindByID(ctx context.Context, id string) (*admin.Account, error) {
	args := m.Called(ctx, id)
	var account *admin.Account
	if v := args.Get(0); v != nil {
		account = v.(*admin.Account)
	}
	return account, args.Error(1)
}

func (m *MockAccountStore) UpdateBanState(ctx context.Context, id string, banned bool, opts ...admin.BanUpdateOption) (*admin.Account, error) {
	args := m.Called(ctx, id, banned, opts)
	var account *admin.Account
	if v := args.Get(0); v != nil {
		account = v.(*admin.Account)
	}
	return account, args.Error(1)
}

func (m *MockAccountStore) SetPasswordHash(ctx context.Context, id string, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

// MockSessionStore implements admin.SessionStore
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) List(ctx context.Context, userID string) ([]*admin.Session, error) {
	args := m.Called(ctx, userID)
	var records []*admin.Session
	if v := args.Get(0); v != nil {
		records = v.([]*admin.Session)
	}
	return records, args.Error(1)
}

func (m *MockSessionStore) DeleteByToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockSessionStore) DeleteForUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockPasswordHasher implements admin.PasswordHasher
type MockPasswordHasher struct {
	mock.Mock
}

func (m *MockPasswordHasher) HashPassword(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) ComparePasswordAndHash(password, hash string) error {
	args := m.Called(password, hash)
	return args.Error(0)
}

// MockActivitySink implements admin.ActivitySink
type MockActivitySink struct {
	mock.Mock
}

func (m *MockActivitySink) Record(ctx context.Context, event admin.ActivityEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockBanStateMachine implements admin.BanStateMachine
type MockBanStateMachine struct {
	mock.Mock
}

func (m *MockBanStateMachine) Ban(ctx context.Context, actor admin.ActorRef, userID string, opts ...admin.BanOption) (*admin.Account, error) {
	args := m.Called(ctx, actor, userID, opts)
	var account *admin.Account
	if v := args.Get(0); v != nil {
		account = v.(*admin.Account)
	}
	return account, args.Error(1)
}

func (m *MockBanStateMachine) Unban(ctx context.Context, actor admin.ActorRef, userID string) (*admin.Account, error) {
	args := m.Called(ctx, actor, userID)
	var account *admin.Account
	if v := args.Get(0); v != nil {
		account = v.(*admin.Account)
	}
	return account, args.Error(1)
}

func (m *MockBanStateMachine) ClearLapsedBan(ctx context.Context, account *admin.Account) (bool, error) {
	args := m.Called(ctx, account)
	return args.Bool(0), args.Error(1)
}

func allowAll() *MockPermissionChecker {
	gate := &MockPermissionChecker{}
	gate.On("Allowed", mock.Anything, mock.Anything).Return(true, nil)
	return gate
}
