package model

import "time"

// EventType determines which metadata an event must carry.
type EventType string

const (
	EventTypeInPerson EventType = "in_person"
	EventTypeOnline   EventType = "online"
	EventTypeHybrid   EventType = "hybrid"
)

// Valid reports whether the type is a known event type.
func (t EventType) Valid() bool {
	switch t {
	case EventTypeInPerson, EventTypeOnline, EventTypeHybrid:
		return true
	}
	return false
}

// RequiresVenue reports whether events of this type need a physical venue.
func (t EventType) RequiresVenue() bool {
	return t == EventTypeInPerson || t == EventTypeHybrid
}

// RequiresURL reports whether events of this type need a join URL.
func (t EventType) RequiresURL() bool {
	return t == EventTypeOnline || t == EventTypeHybrid
}

// Event belongs to a community. Metadata holds per-type fields
// (venue for in-person, url for online; hybrid needs both).
type Event struct {
	ID          string            `json:"id"`
	CommunityID string            `json:"community_id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Type        EventType         `json:"event_type"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	StartsAt    time.Time         `json:"starts_at"`
	EndsAt      time.Time         `json:"ends_at"`
	CoverPath   string            `json:"-"`
	CreatedBy   string            `json:"created_by"`
	CreatedAt   time.Time         `json:"created_at"`
}
