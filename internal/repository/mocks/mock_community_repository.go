package mocks

import (
	"context"

	"eventflow/internal/model"
	"eventflow/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockCommunityRepository struct {
	mock.Mock
}

func (m *MockCommunityRepository) Create(ctx context.Context, c *model.Community) (*model.Community, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Community), args.Error(1)
}

func (m *MockCommunityRepository) FindByID(ctx context.Context, id string) (*model.Community, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Community), args.Error(1)
}

func (m *MockCommunityRepository) FindBySlug(ctx context.Context, slug string) (*model.Community, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Community), args.Error(1)
}

func (m *MockCommunityRepository) List(ctx context.Context, f repository.CommunityFilter) (*repository.PageResult[model.Community], error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Community]), args.Error(1)
}

func (m *MockCommunityRepository) Update(ctx context.Context, c *model.Community) (*model.Community, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Community), args.Error(1)
}

func (m *MockCommunityRepository) SetCoverPath(ctx context.Context, id, path string) error {
	args := m.Called(ctx, id, path)
	return args.Error(0)
}

func (m *MockCommunityRepository) CountChildren(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *MockCommunityRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCommunityAdminRepository struct {
	mock.Mock
}

func (m *MockCommunityAdminRepository) Upsert(ctx context.Context, a *model.CommunityAdmin) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockCommunityAdminRepository) Find(ctx context.Context, communityID, userID string) (*model.CommunityAdmin, error) {
	args := m.Called(ctx, communityID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CommunityAdmin), args.Error(1)
}

func (m *MockCommunityAdminRepository) ListByCommunity(ctx context.Context, communityID string) ([]model.CommunityAdmin, error) {
	args := m.Called(ctx, communityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CommunityAdmin), args.Error(1)
}

func (m *MockCommunityAdminRepository) CountByRole(ctx context.Context, communityID string, role model.AdminRole) (int, error) {
	args := m.Called(ctx, communityID, role)
	return args.Int(0), args.Error(1)
}

func (m *MockCommunityAdminRepository) Delete(ctx context.Context, communityID, userID string) error {
	args := m.Called(ctx, communityID, userID)
	return args.Error(0)
}

type MockCommunityMemberRepository struct {
	mock.Mock
}

func (m *MockCommunityMemberRepository) Add(ctx context.Context, mem *model.CommunityMember) error {
	args := m.Called(ctx, mem)
	return args.Error(0)
}

func (m *MockCommunityMemberRepository) Find(ctx context.Context, communityID, userID string) (*model.CommunityMember, error) {
	args := m.Called(ctx, communityID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CommunityMember), args.Error(1)
}

func (m *MockCommunityMemberRepository) List(ctx context.Context, communityID string, pq repository.PageQuery) (*repository.PageResult[model.CommunityMember], error) {
	args := m.Called(ctx, communityID, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.CommunityMember]), args.Error(1)
}

func (m *MockCommunityMemberRepository) Remove(ctx context.Context, communityID, userID string) error {
	args := m.Called(ctx, communityID, userID)
	return args.Error(0)
}
