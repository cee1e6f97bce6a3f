package mocks

import (
	"context"

	"eventflow/internal/model"
	"eventflow/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockSubscriptionService struct {
	mock.Mock
}

func (m *MockSubscriptionService) Current(ctx context.Context, userID string) (*model.Subscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Subscription), args.Error(1)
}

func (m *MockSubscriptionService) Checkout(ctx context.Context, userID string, in service.CheckoutInput) (*service.CheckoutResult, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CheckoutResult), args.Error(1)
}

func (m *MockSubscriptionService) Cancel(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockSubscriptionService) Payments(ctx context.Context, userID string, limit, offset int) (*service.PaymentListResult, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PaymentListResult), args.Error(1)
}

func (m *MockSubscriptionService) RequestComplimentary(ctx context.Context, userID, reason string) (*model.SubscriptionRequest, error) {
	args := m.Called(ctx, userID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SubscriptionRequest), args.Error(1)
}

func (m *MockSubscriptionService) ListRequests(ctx context.Context, actorID string, limit, offset int, status *model.RequestStatus) (*service.RequestListResult, error) {
	args := m.Called(ctx, actorID, limit, offset, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RequestListResult), args.Error(1)
}

func (m *MockSubscriptionService) Approve(ctx context.Context, actorID, requestID string) (*model.Subscription, error) {
	args := m.Called(ctx, actorID, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Subscription), args.Error(1)
}

func (m *MockSubscriptionService) Reject(ctx context.Context, actorID, requestID string) error {
	args := m.Called(ctx, actorID, requestID)
	return args.Error(0)
}
