package mocks

import (
	"context"
	"io"
	"time"

	"eventflow/internal/model"
	"eventflow/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) Create(ctx context.Context, communityID, userID string, in service.CreateEventInput) (*model.Event, error) {
	args := m.Called(ctx, communityID, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *MockEventService) Get(ctx context.Context, id string) (*model.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *MockEventService) List(ctx context.Context, communityID string, limit, offset int, from *time.Time) (*service.EventListResult, error) {
	args := m.Called(ctx, communityID, limit, offset, from)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.EventListResult), args.Error(1)
}

func (m *MockEventService) Update(ctx context.Context, id, userID string, in service.UpdateEventInput) (*model.Event, error) {
	args := m.Called(ctx, id, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *MockEventService) Delete(ctx context.Context, id, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockEventService) UploadCover(ctx context.Context, id, userID string, r io.Reader, filename, contentType string, size int64) (string, error) {
	args := m.Called(ctx, id, userID, r, filename, contentType, size)
	return args.String(0), args.Error(1)
}

func (m *MockEventService) CoverURL(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}
