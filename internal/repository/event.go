package repository

import (
	"context"
	"time"

	"eventflow/internal/model"
)

// EventFilter narrows event listings within a community.
type EventFilter struct {
	Page PageQuery
	From *time.Time
}

// EventRepository defines data access for events.
type EventRepository interface {
	Create(ctx context.Context, e *model.Event) (*model.Event, error)
	FindByID(ctx context.Context, id string) (*model.Event, error)
	ListByCommunity(ctx context.Context, communityID string, f EventFilter) (*PageResult[model.Event], error)

	// Update persists title, description, type, metadata and schedule changes.
	Update(ctx context.Context, e *model.Event) (*model.Event, error)

	// SetCoverPath updates the stored cover object key.
	SetCoverPath(ctx context.Context, id, path string) error

	Delete(ctx context.Context, id string) error
}
