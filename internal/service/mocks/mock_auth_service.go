package mocks

import (
	"context"

	"eventflow/internal/auth/oauth"
	"eventflow/internal/model"
	"eventflow/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, email, name, password string) (*model.User, *model.VerificationToken, error) {
	args := m.Called(ctx, email, name, password)
	var user *model.User
	if args.Get(0) != nil {
		user = args.Get(0).(*model.User)
	}
	var vt *model.VerificationToken
	if args.Get(1) != nil {
		vt = args.Get(1).(*model.VerificationToken)
	}
	return user, vt, args.Error(2)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) VerifyEmail(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockAuthService) CompleteOAuth(ctx context.Context, provider string, usr oauth.User, intent oauth.Intent) (string, error) {
	args := m.Called(ctx, provider, usr, intent)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) Me(ctx context.Context, userID string) (*service.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Profile), args.Error(1)
}

func (m *MockAuthService) UnlinkAccount(ctx context.Context, userID, provider string) error {
	args := m.Called(ctx, userID, provider)
	return args.Error(0)
}
