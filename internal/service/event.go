package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"eventflow/internal/model"
	"eventflow/internal/repository"
	"eventflow/internal/storage"
)

// CreateEventInput carries the caller-supplied fields for a new event.
type CreateEventInput struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Type        model.EventType   `json:"event_type"`
	Metadata    map[string]string `json:"metadata"`
	StartsAt    time.Time         `json:"starts_at"`
	EndsAt      time.Time         `json:"ends_at"`
}

// UpdateEventInput carries the editable fields of an event. Zero values
// leave the stored field untouched, except Metadata which replaces the
// stored map when non-nil.
type UpdateEventInput struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Type        model.EventType   `json:"event_type"`
	Metadata    map[string]string `json:"metadata"`
	StartsAt    *time.Time        `json:"starts_at"`
	EndsAt      *time.Time        `json:"ends_at"`
}

// EventListResult is the service-level DTO for paginated events.
type EventListResult struct {
	Items []model.Event `json:"data"`
	Total int           `json:"total"`
}

// EventService defines the use cases for events within a community.
type EventService interface {
	// Create makes a new event in a community. The caller must be a
	// community admin and hold an active subscription.
	Create(ctx context.Context, communityID, userID string, in CreateEventInput) (*model.Event, error)

	// Get returns a single event.
	Get(ctx context.Context, id string) (*model.Event, error)

	// List returns a community's events, optionally only those starting at
	// or after the given time.
	List(ctx context.Context, communityID string, limit, offset int, from *time.Time) (*EventListResult, error)

	// Update edits an event. Caller must be an admin of the event's
	// community.
	Update(ctx context.Context, id, userID string, in UpdateEventInput) (*model.Event, error)

	// Delete removes an event. Caller must be an admin of the event's
	// community.
	Delete(ctx context.Context, id, userID string) error

	// UploadCover stores a new cover image and returns its object key.
	UploadCover(ctx context.Context, id, userID string, r io.Reader, filename, contentType string, size int64) (string, error)

	// CoverURL returns a presigned download URL for the cover image.
	CoverURL(ctx context.Context, id string) (string, error)
}

// eventService is a concrete implementation of EventService.
type eventService struct {
	events      repository.EventRepository
	communities repository.CommunityRepository
	admins      repository.CommunityAdminRepository
	subs        repository.SubscriptionRepository
	store       storage.Storage
}

// NewEventService constructs a new EventService.
func NewEventService(
	events repository.EventRepository,
	communities repository.CommunityRepository,
	admins repository.CommunityAdminRepository,
	subs repository.SubscriptionRepository,
	store storage.Storage,
) EventService {
	return &eventService{
		events:      events,
		communities: communities,
		admins:      admins,
		subs:        subs,
		store:       store,
	}
}

// validateEvent checks the type-dependent invariants shared by create and
// update.
func validateEvent(e *model.Event) error {
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if !e.Type.Valid() {
		return fmt.Errorf("%w: unknown event type %q", ErrValidation, e.Type)
	}
	if e.StartsAt.IsZero() || e.EndsAt.IsZero() {
		return fmt.Errorf("%w: starts_at and ends_at are required", ErrValidation)
	}
	if e.EndsAt.Before(e.StartsAt) {
		return fmt.Errorf("%w: ends_at must not be before starts_at", ErrValidation)
	}
	if e.Type.RequiresVenue() && strings.TrimSpace(e.Metadata["venue"]) == "" {
		return fmt.Errorf("%w: %s events require a venue in metadata", ErrValidation, e.Type)
	}
	if e.Type.RequiresURL() && strings.TrimSpace(e.Metadata["url"]) == "" {
		return fmt.Errorf("%w: %s events require a url in metadata", ErrValidation, e.Type)
	}
	return nil
}

// requireAdmin returns ErrForbidden unless the caller administers the
// community.
func (s *eventService) requireAdmin(ctx context.Context, communityID, userID string) error {
	if _, err := s.admins.Find(ctx, communityID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: community admin role required", ErrForbidden)
		}
		return err
	}
	return nil
}

func (s *eventService) Create(ctx context.Context, communityID, userID string, in CreateEventInput) (*model.Event, error) {
	if _, err := s.communities.FindByID(ctx, communityID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: community", ErrNotFound)
		}
		return nil, err
	}

	if err := s.requireAdmin(ctx, communityID, userID); err != nil {
		return nil, err
	}
	if err := requireActiveSubscription(ctx, s.subs, userID); err != nil {
		return nil, err
	}

	event := &model.Event{
		ID:          uuid.New().String(),
		CommunityID: communityID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Type:        in.Type,
		Metadata:    in.Metadata,
		StartsAt:    in.StartsAt,
		EndsAt:      in.EndsAt,
		CreatedBy:   userID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := validateEvent(event); err != nil {
		return nil, err
	}

	stored, err := s.events.Create(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return stored, nil
}

func (s *eventService) Get(ctx context.Context, id string) (*model.Event, error) {
	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: event", ErrNotFound)
		}
		return nil, err
	}
	return event, nil
}

func (s *eventService) List(ctx context.Context, communityID string, limit, offset int, from *time.Time) (*EventListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	if _, err := s.communities.FindByID(ctx, communityID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: community", ErrNotFound)
		}
		return nil, err
	}

	res, err := s.events.ListByCommunity(ctx, communityID, repository.EventFilter{
		Page: repository.PageQuery{Limit: limit, Offset: offset},
		From: from,
	})
	if err != nil {
		return nil, err
	}
	return &EventListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *eventService) Update(ctx context.Context, id, userID string, in UpdateEventInput) (*model.Event, error) {
	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: event", ErrNotFound)
		}
		return nil, err
	}

	if err := s.requireAdmin(ctx, event.CommunityID, userID); err != nil {
		return nil, err
	}

	if title := strings.TrimSpace(in.Title); title != "" {
		event.Title = title
	}
	if in.Description != "" {
		event.Description = in.Description
	}
	if in.Type != "" {
		event.Type = in.Type
	}
	if in.Metadata != nil {
		event.Metadata = in.Metadata
	}
	if in.StartsAt != nil {
		event.StartsAt = *in.StartsAt
	}
	if in.EndsAt != nil {
		event.EndsAt = *in.EndsAt
	}

	if err := validateEvent(event); err != nil {
		return nil, err
	}

	return s.events.Update(ctx, event)
}

func (s *eventService) Delete(ctx context.Context, id, userID string) error {
	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: event", ErrNotFound)
		}
		return err
	}

	if err := s.requireAdmin(ctx, event.CommunityID, userID); err != nil {
		return err
	}

	if event.CoverPath != "" {
		_ = s.store.Delete(ctx, event.CoverPath)
	}

	return s.events.Delete(ctx, id)
}

func (s *eventService) UploadCover(ctx context.Context, id, userID string, r io.Reader, filename, contentType string, size int64) (string, error) {
	if r == nil {
		return "", fmt.Errorf("%w: file is required", ErrValidation)
	}

	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: event", ErrNotFound)
		}
		return "", err
	}

	if err := s.requireAdmin(ctx, event.CommunityID, userID); err != nil {
		return "", err
	}

	key, err := uploadCover(ctx, s.store, "events", r, filename, contentType, size)
	if err != nil {
		return "", err
	}

	if err := s.events.SetCoverPath(ctx, id, key); err != nil {
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return "", fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return "", fmt.Errorf("db save failed: %w", err)
	}

	if event.CoverPath != "" && event.CoverPath != key {
		_ = s.store.Delete(ctx, event.CoverPath)
	}

	return key, nil
}

func (s *eventService) CoverURL(ctx context.Context, id string) (string, error) {
	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: event", ErrNotFound)
		}
		return "", err
	}
	if event.CoverPath == "" {
		return "", fmt.Errorf("%w: cover image", ErrNotFound)
	}
	return s.store.PresignGet(ctx, event.CoverPath, coverURLExpiry)
}
