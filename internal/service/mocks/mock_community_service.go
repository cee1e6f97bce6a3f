package mocks

import (
	"context"
	"io"

	"eventflow/internal/model"
	"eventflow/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockCommunityService struct {
	mock.Mock
}

func (m *MockCommunityService) Create(ctx context.Context, userID string, in service.CreateCommunityInput) (*model.Community, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Community), args.Error(1)
}

func (m *MockCommunityService) Get(ctx context.Context, id string) (*service.CommunityDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CommunityDetail), args.Error(1)
}

func (m *MockCommunityService) List(ctx context.Context, limit, offset int, parentID *string) (*service.CommunityListResult, error) {
	args := m.Called(ctx, limit, offset, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CommunityListResult), args.Error(1)
}

func (m *MockCommunityService) Update(ctx context.Context, id, userID string, in service.UpdateCommunityInput) (*model.Community, error) {
	args := m.Called(ctx, id, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Community), args.Error(1)
}

func (m *MockCommunityService) Delete(ctx context.Context, id, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockCommunityService) Join(ctx context.Context, id, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockCommunityService) Leave(ctx context.Context, id, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockCommunityService) Members(ctx context.Context, id string, limit, offset int) (*service.MemberListResult, error) {
	args := m.Called(ctx, id, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.MemberListResult), args.Error(1)
}

func (m *MockCommunityService) SetAdminRole(ctx context.Context, id, actorID, targetID string, role model.AdminRole) error {
	args := m.Called(ctx, id, actorID, targetID, role)
	return args.Error(0)
}

func (m *MockCommunityService) RemoveAdmin(ctx context.Context, id, actorID, targetID string) error {
	args := m.Called(ctx, id, actorID, targetID)
	return args.Error(0)
}

func (m *MockCommunityService) UploadCover(ctx context.Context, id, userID string, r io.Reader, filename, contentType string, size int64) (string, error) {
	args := m.Called(ctx, id, userID, r, filename, contentType, size)
	return args.String(0), args.Error(1)
}

func (m *MockCommunityService) CoverURL(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}
