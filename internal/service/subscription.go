package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"eventflow/internal/model"
	"eventflow/internal/repository"
)

// subscriptionTerm is how long a checkout or an approved request extends
// access for.
const subscriptionTerm = 365 * 24 * time.Hour

// CheckoutInput carries the payment fields for a paid subscription.
type CheckoutInput struct {
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	Reference   string `json:"reference"`
}

// CheckoutResult bundles the subscription with the transaction that
// funded it.
type CheckoutResult struct {
	Subscription model.Subscription       `json:"subscription"`
	Transaction  model.PaymentTransaction `json:"transaction"`
}

// PaymentListResult is the service-level DTO for paginated payment
// records.
type PaymentListResult struct {
	Items []model.PaymentTransaction `json:"data"`
	Total int                        `json:"total"`
}

// RequestListResult is the service-level DTO for paginated requests.
type RequestListResult struct {
	Items []model.SubscriptionRequest `json:"data"`
	Total int                         `json:"total"`
}

// SubscriptionService defines the use cases for paid subscriptions and the
// complimentary request/approval workflow.
type SubscriptionService interface {
	// Current returns the user's latest subscription.
	Current(ctx context.Context, userID string) (*model.Subscription, error)

	// Checkout records a payment and grants or extends a paid subscription
	// by one term.
	Checkout(ctx context.Context, userID string, in CheckoutInput) (*CheckoutResult, error)

	// Cancel marks the user's active subscription canceled. Access ends
	// immediately.
	Cancel(ctx context.Context, userID string) error

	// Payments returns the user's payment history.
	Payments(ctx context.Context, userID string, limit, offset int) (*PaymentListResult, error)

	// RequestComplimentary files a complimentary-subscription request. The
	// user must have a linked mediawiki account and no pending request.
	RequestComplimentary(ctx context.Context, userID, reason string) (*model.SubscriptionRequest, error)

	// ListRequests returns requests for review. Caller must be a platform
	// admin.
	ListRequests(ctx context.Context, actorID string, limit, offset int, status *model.RequestStatus) (*RequestListResult, error)

	// Approve grants the requester a complimentary subscription. Caller
	// must be a platform admin; only pending requests can be approved.
	Approve(ctx context.Context, actorID, requestID string) (*model.Subscription, error)

	// Reject declines a pending request. Caller must be a platform admin.
	Reject(ctx context.Context, actorID, requestID string) error
}

// subscriptionService is a concrete implementation of SubscriptionService.
type subscriptionService struct {
	subs     repository.SubscriptionRepository
	requests repository.SubscriptionRequestRepository
	payments repository.PaymentTransactionRepository
	users    repository.UserRepository
	accounts repository.AccountRepository
}

// NewSubscriptionService constructs a new SubscriptionService.
func NewSubscriptionService(
	subs repository.SubscriptionRepository,
	requests repository.SubscriptionRequestRepository,
	payments repository.PaymentTransactionRepository,
	users repository.UserRepository,
	accounts repository.AccountRepository,
) SubscriptionService {
	return &subscriptionService{
		subs:     subs,
		requests: requests,
		payments: payments,
		users:    users,
		accounts: accounts,
	}
}

// requirePlatformAdmin returns ErrForbidden unless the actor holds the
// platform admin role.
func (s *subscriptionService) requirePlatformAdmin(ctx context.Context, actorID string) error {
	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: user", ErrNotFound)
		}
		return err
	}
	if actor.Role != model.RoleAdmin {
		return fmt.Errorf("%w: platform admin role required", ErrForbidden)
	}
	return nil
}

func (s *subscriptionService) Current(ctx context.Context, userID string) (*model.Subscription, error) {
	sub, err := s.subs.FindCurrentByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: subscription", ErrNotFound)
		}
		return nil, err
	}
	return sub, nil
}

func (s *subscriptionService) Checkout(ctx context.Context, userID string, in CheckoutInput) (*CheckoutResult, error) {
	if in.AmountCents <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if len(currency) != 3 {
		return nil, fmt.Errorf("%w: currency must be a 3-letter code", ErrValidation)
	}

	now := time.Now().UTC()

	// A live paid subscription is extended; anything else gets a fresh term.
	var sub *model.Subscription
	current, err := s.subs.FindCurrentByUser(ctx, userID)
	switch {
	case err == nil && current.ActiveAt(now) && current.Kind == model.SubscriptionKindPaid:
		expires := current.ExpiresAt.Add(subscriptionTerm)
		if err := s.subs.SetExpiresAt(ctx, current.ID, expires); err != nil {
			return nil, fmt.Errorf("extend subscription: %w", err)
		}
		current.ExpiresAt = expires
		sub = current
	case err == nil, errors.Is(err, sql.ErrNoRows):
		sub, err = s.subs.Create(ctx, &model.Subscription{
			ID:        uuid.New().String(),
			UserID:    userID,
			Kind:      model.SubscriptionKindPaid,
			Status:    model.SubscriptionStatusActive,
			StartsAt:  now,
			ExpiresAt: now.Add(subscriptionTerm),
			CreatedAt: now,
		})
		if err != nil {
			return nil, fmt.Errorf("create subscription: %w", err)
		}
	default:
		return nil, err
	}

	tx, err := s.payments.Create(ctx, &model.PaymentTransaction{
		ID:             uuid.New().String(),
		UserID:         userID,
		SubscriptionID: &sub.ID,
		AmountCents:    in.AmountCents,
		Currency:       currency,
		Status:         "completed",
		Reference:      in.Reference,
		CreatedAt:      now,
	})
	if err != nil {
		return nil, fmt.Errorf("record payment: %w", err)
	}

	return &CheckoutResult{Subscription: *sub, Transaction: *tx}, nil
}

func (s *subscriptionService) Cancel(ctx context.Context, userID string) error {
	sub, err := s.subs.FindCurrentByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNoActiveSubscription
		}
		return err
	}
	if !sub.ActiveAt(time.Now()) {
		return ErrNoActiveSubscription
	}

	return s.subs.SetStatus(ctx, sub.ID, model.SubscriptionStatusCanceled)
}

func (s *subscriptionService) Payments(ctx context.Context, userID string, limit, offset int) (*PaymentListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.payments.ListByUser(ctx, userID, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &PaymentListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *subscriptionService) RequestComplimentary(ctx context.Context, userID, reason string) (*model.SubscriptionRequest, error) {
	if _, err := s.accounts.FindByUserProvider(ctx, userID, "mediawiki"); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotEligible
		}
		return nil, err
	}

	if _, err := s.requests.FindPendingByUser(ctx, userID); err == nil {
		return nil, ErrRequestPending
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	req, err := s.requests.Create(ctx, &model.SubscriptionRequest{
		ID:        uuid.New().String(),
		UserID:    userID,
		Status:    model.RequestStatusPending,
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return req, nil
}

func (s *subscriptionService) ListRequests(ctx context.Context, actorID string, limit, offset int, status *model.RequestStatus) (*RequestListResult, error) {
	if err := s.requirePlatformAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.requests.List(ctx, repository.RequestFilter{
		Page:   repository.PageQuery{Limit: limit, Offset: offset},
		Status: status,
	})
	if err != nil {
		return nil, err
	}
	return &RequestListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *subscriptionService) Approve(ctx context.Context, actorID, requestID string) (*model.Subscription, error) {
	if err := s.requirePlatformAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	req, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: request", ErrNotFound)
		}
		return nil, err
	}
	if req.Status != model.RequestStatusPending {
		return nil, ErrAlreadyReviewed
	}

	now := time.Now().UTC()
	if err := s.requests.SetReview(ctx, requestID, model.RequestStatusApproved, actorID, now); err != nil {
		return nil, fmt.Errorf("review request: %w", err)
	}

	sub, err := s.subs.Create(ctx, &model.Subscription{
		ID:        uuid.New().String(),
		UserID:    req.UserID,
		Kind:      model.SubscriptionKindComplimentary,
		Status:    model.SubscriptionStatusActive,
		StartsAt:  now,
		ExpiresAt: now.Add(subscriptionTerm),
		CreatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("grant subscription: %w", err)
	}
	return sub, nil
}

func (s *subscriptionService) Reject(ctx context.Context, actorID, requestID string) error {
	if err := s.requirePlatformAdmin(ctx, actorID); err != nil {
		return err
	}

	req, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: request", ErrNotFound)
		}
		return err
	}
	if req.Status != model.RequestStatusPending {
		return ErrAlreadyReviewed
	}

	return s.requests.SetReview(ctx, requestID, model.RequestStatusRejected, actorID, time.Now().UTC())
}
