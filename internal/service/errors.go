package service

import (
	"errors"
	"fmt"
)

// Category errors map one-to-one onto HTTP status codes in the handler
// layer. Specific failures below wrap a category so callers can test for
// either.
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

var (
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)

	ErrEmailTaken     = fmt.Errorf("%w: email already registered", ErrConflict)
	ErrAccountLinked  = fmt.Errorf("%w: account already linked to another user", ErrConflict)
	ErrLastAuthMethod = fmt.Errorf("%w: cannot remove the last sign-in method", ErrConflict)

	ErrSlugTaken     = fmt.Errorf("%w: community slug already in use", ErrConflict)
	ErrHasChildren   = fmt.Errorf("%w: community has child communities", ErrConflict)
	ErrLastOrganizer = fmt.Errorf("%w: community must keep at least one organizer", ErrConflict)
	ErrNotMember     = fmt.Errorf("%w: user is not a member of the community", ErrConflict)

	ErrSubscriptionRequired = fmt.Errorf("%w: active subscription required", ErrForbidden)
	ErrNotEligible          = fmt.Errorf("%w: complimentary subscriptions require a linked mediawiki account", ErrForbidden)
	ErrRequestPending       = fmt.Errorf("%w: a pending request already exists", ErrConflict)
	ErrAlreadyReviewed      = fmt.Errorf("%w: request already reviewed", ErrConflict)
	ErrNoActiveSubscription = fmt.Errorf("%w: no active subscription", ErrNotFound)
)
