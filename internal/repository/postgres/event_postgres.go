package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"eventflow/internal/model"
	"eventflow/internal/repository"
)

// EventPostgres is a PostgreSQL implementation of repository.EventRepository.
// Event metadata is stored as JSONB.
type EventPostgres struct {
	db *sql.DB
}

// NewEventPostgres creates a new EventPostgres repository.
func NewEventPostgres(db *sql.DB) *EventPostgres {
	return &EventPostgres{db: db}
}

var _ repository.EventRepository = (*EventPostgres)(nil)

const eventColumns = `id, community_id, title, description, event_type, metadata, starts_at, ends_at, cover_path, created_by, created_at`

func scanEvent(row interface{ Scan(...any) error }) (*model.Event, error) {
	var (
		e   model.Event
		raw []byte
	)
	if err := row.Scan(
		&e.ID,
		&e.CommunityID,
		&e.Title,
		&e.Description,
		&e.Type,
		&raw,
		&e.StartsAt,
		&e.EndsAt,
		&e.CoverPath,
		&e.CreatedBy,
		&e.CreatedAt,
	); err != nil {
		return nil, err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &e.Metadata); err != nil {
			return nil, fmt.Errorf("decode event metadata: %w", err)
		}
	}
	return &e, nil
}

func encodeMetadata(m map[string]string) ([]byte, error) {
	if m == nil {
		m = map[string]string{}
	}
	return json.Marshal(m)
}

// Create inserts a new event row and returns the stored record.
func (r *EventPostgres) Create(ctx context.Context, e *model.Event) (*model.Event, error) {
	raw, err := encodeMetadata(e.Metadata)
	if err != nil {
		return nil, err
	}

	const q = `
		INSERT INTO events (id, community_id, title, description, event_type, metadata, starts_at, ends_at, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + eventColumns
	row := r.db.QueryRowContext(ctx, q,
		e.ID,
		e.CommunityID,
		e.Title,
		e.Description,
		e.Type,
		raw,
		e.StartsAt,
		e.EndsAt,
		e.CreatedBy,
		e.CreatedAt,
	)
	return scanEvent(row)
}

// FindByID fetches a single event by its ID.
func (r *EventPostgres) FindByID(ctx context.Context, id string) (*model.Event, error) {
	const q = `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	return scanEvent(r.db.QueryRowContext(ctx, q, id))
}

// ListByCommunity returns events using LIMIT/OFFSET pagination and a total
// count. The optional From filter drops events starting before it.
func (r *EventPostgres) ListByCommunity(ctx context.Context, communityID string, f repository.EventFilter) (*repository.PageResult[model.Event], error) {
	var total int
	if f.From != nil {
		const qCount = `SELECT COUNT(*) FROM events WHERE community_id = $1 AND starts_at >= $2`
		if err := r.db.QueryRowContext(ctx, qCount, communityID, *f.From).Scan(&total); err != nil {
			return nil, err
		}
	} else {
		const qCount = `SELECT COUNT(*) FROM events WHERE community_id = $1`
		if err := r.db.QueryRowContext(ctx, qCount, communityID).Scan(&total); err != nil {
			return nil, err
		}
	}

	var (
		rows *sql.Rows
		err  error
	)
	if f.From != nil {
		const qList = `
			SELECT ` + eventColumns + `
			FROM events
			WHERE community_id = $1 AND starts_at >= $2
			ORDER BY starts_at, id
			LIMIT $3 OFFSET $4
		`
		rows, err = r.db.QueryContext(ctx, qList, communityID, *f.From, f.Page.Limit, f.Page.Offset)
	} else {
		const qList = `
			SELECT ` + eventColumns + `
			FROM events
			WHERE community_id = $1
			ORDER BY starts_at, id
			LIMIT $2 OFFSET $3
		`
		rows, err = r.db.QueryContext(ctx, qList, communityID, f.Page.Limit, f.Page.Offset)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Event]{
		Items: items,
		Total: total,
	}, nil
}

// Update persists title, description, type, metadata and schedule changes.
func (r *EventPostgres) Update(ctx context.Context, e *model.Event) (*model.Event, error) {
	raw, err := encodeMetadata(e.Metadata)
	if err != nil {
		return nil, err
	}

	const q = `
		UPDATE events
		SET title = $2, description = $3, event_type = $4, metadata = $5, starts_at = $6, ends_at = $7
		WHERE id = $1
		RETURNING ` + eventColumns
	row := r.db.QueryRowContext(ctx, q, e.ID, e.Title, e.Description, e.Type, raw, e.StartsAt, e.EndsAt)
	return scanEvent(row)
}

// SetCoverPath updates the stored cover object key.
func (r *EventPostgres) SetCoverPath(ctx context.Context, id, path string) error {
	const q = `UPDATE events SET cover_path = $2 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, path)
	return err
}

// Delete removes an event by ID. Missing rows are not an error.
func (r *EventPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM events WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}
