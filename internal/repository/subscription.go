package repository

import (
	"context"
	"time"

	"eventflow/internal/model"
)

// SubscriptionRepository defines data access for subscriptions.
type SubscriptionRepository interface {
	Create(ctx context.Context, s *model.Subscription) (*model.Subscription, error)

	// FindCurrentByUser returns the user's newest subscription by expiry.
	FindCurrentByUser(ctx context.Context, userID string) (*model.Subscription, error)

	SetStatus(ctx context.Context, id string, status model.SubscriptionStatus) error
	SetExpiresAt(ctx context.Context, id string, expiresAt time.Time) error
}

// RequestFilter narrows subscription request listings.
type RequestFilter struct {
	Page   PageQuery
	Status *model.RequestStatus
}

// SubscriptionRequestRepository defines data access for complimentary
// subscription requests.
type SubscriptionRequestRepository interface {
	Create(ctx context.Context, r *model.SubscriptionRequest) (*model.SubscriptionRequest, error)
	FindByID(ctx context.Context, id string) (*model.SubscriptionRequest, error)

	// FindPendingByUser returns the user's pending request, if any.
	FindPendingByUser(ctx context.Context, userID string) (*model.SubscriptionRequest, error)

	List(ctx context.Context, f RequestFilter) (*PageResult[model.SubscriptionRequest], error)

	// SetReview stamps the review outcome on a request.
	SetReview(ctx context.Context, id string, status model.RequestStatus, reviewedBy string, reviewedAt time.Time) error
}

// PaymentTransactionRepository defines data access for payment records.
type PaymentTransactionRepository interface {
	Create(ctx context.Context, t *model.PaymentTransaction) (*model.PaymentTransaction, error)
	ListByUser(ctx context.Context, userID string, pq PageQuery) (*PageResult[model.PaymentTransaction], error)
}
