package mocks

import (
	"context"
	"time"

	"eventflow/internal/model"
	"eventflow/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) Create(ctx context.Context, s *model.Subscription) (*model.Subscription, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) FindCurrentByUser(ctx context.Context, userID string) (*model.Subscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) SetStatus(ctx context.Context, id string, status model.SubscriptionStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) SetExpiresAt(ctx context.Context, id string, expiresAt time.Time) error {
	args := m.Called(ctx, id, expiresAt)
	return args.Error(0)
}

type MockSubscriptionRequestRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRequestRepository) Create(ctx context.Context, r *model.SubscriptionRequest) (*model.SubscriptionRequest, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SubscriptionRequest), args.Error(1)
}

func (m *MockSubscriptionRequestRepository) FindByID(ctx context.Context, id string) (*model.SubscriptionRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SubscriptionRequest), args.Error(1)
}

func (m *MockSubscriptionRequestRepository) FindPendingByUser(ctx context.Context, userID string) (*model.SubscriptionRequest, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SubscriptionRequest), args.Error(1)
}

func (m *MockSubscriptionRequestRepository) List(ctx context.Context, f repository.RequestFilter) (*repository.PageResult[model.SubscriptionRequest], error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.SubscriptionRequest]), args.Error(1)
}

func (m *MockSubscriptionRequestRepository) SetReview(ctx context.Context, id string, status model.RequestStatus, reviewedBy string, reviewedAt time.Time) error {
	args := m.Called(ctx, id, status, reviewedBy, reviewedAt)
	return args.Error(0)
}

type MockPaymentTransactionRepository struct {
	mock.Mock
}

func (m *MockPaymentTransactionRepository) Create(ctx context.Context, t *model.PaymentTransaction) (*model.PaymentTransaction, error) {
	args := m.Called(ctx, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentTransaction), args.Error(1)
}

func (m *MockPaymentTransactionRepository) ListByUser(ctx context.Context, userID string, pq repository.PageQuery) (*repository.PageResult[model.PaymentTransaction], error) {
	args := m.Called(ctx, userID, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.PaymentTransaction]), args.Error(1)
}
