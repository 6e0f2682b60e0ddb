package domain

import (
	"context"
	"time"
)

// Event is an activity a registrant can sign up for.
// swagger:model Event
type Event struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// EventRepository defines read access to the event catalog.
type EventRepository interface {
	List(ctx context.Context) ([]*Event, error)
	ListByIDs(ctx context.Context, ids []string) ([]*Event, error)
}

// EventNames returns the names of events in the order they appear.
func EventNames(events []*Event) []string {
	names := make([]string, 0, len(events))
	for _, e := range events {
		names = append(names, e.Name)
	}
	return names
}
