package model

import "time"

// SubscriptionKind distinguishes paid subscriptions from complimentary
// grants issued through the request/approval workflow.
type SubscriptionKind string

const (
	SubscriptionKindPaid          SubscriptionKind = "paid"
	SubscriptionKindComplimentary SubscriptionKind = "complimentary"
)

type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
	SubscriptionStatusExpired  SubscriptionStatus = "expired"
)

// Subscription is a premium-access grant required to create communities
// and events.
type Subscription struct {
	ID        string             `json:"id"`
	UserID    string             `json:"user_id"`
	Kind      SubscriptionKind   `json:"kind"`
	Status    SubscriptionStatus `json:"status"`
	StartsAt  time.Time          `json:"starts_at"`
	ExpiresAt time.Time          `json:"expires_at"`
	CreatedAt time.Time          `json:"created_at"`
}

// ActiveAt reports whether the subscription grants access at the given time.
// A row past its expiry is inactive even if its status was never flipped.
func (s *Subscription) ActiveAt(t time.Time) bool {
	return s.Status == SubscriptionStatusActive && s.ExpiresAt.After(t)
}

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

// SubscriptionRequest is a user's application for a complimentary
// subscription, reviewed by a platform admin.
type SubscriptionRequest struct {
	ID         string        `json:"id"`
	UserID     string        `json:"user_id"`
	Status     RequestStatus `json:"status"`
	Reason     string        `json:"reason"`
	ReviewedBy *string       `json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time    `json:"reviewed_at,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
}

// PaymentTransaction records a checkout that funded a paid subscription.
type PaymentTransaction struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	SubscriptionID *string   `json:"subscription_id,omitempty"`
	AmountCents    int64     `json:"amount_cents"`
	Currency       string    `json:"currency"`
	Status         string    `json:"status"`
	Reference      string    `json:"reference,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
