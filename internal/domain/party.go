package domain

import (
	"context"
	"regexp"
	"strings"
	"time"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Party is an organizer that owns a registration form, addressed by its slug.
// swagger:model Party
type Party struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Slug        string        `json:"slug"`
	EventLimits []*EventLimit `json:"event_limits"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// EventLimit is the per-party quota recorded for an event when the party is created.
// swagger:model EventLimit
type EventLimit struct {
	PartyID   string `json:"party_id"`
	EventID   string `json:"event_id"`
	EventName string `json:"event_name"`
	Limit     int    `json:"limit"`
}

// NewParty returns a Party whose slug is derived from name. ID is set by the repository on create.
func NewParty(name string, createdAt, updatedAt time.Time) *Party {
	return &Party{
		Name:      name,
		Slug:      SlugFromName(name),
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// SlugFromName lowercases name and replaces every whitespace run with a hyphen.
func SlugFromName(name string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(name), "-")
}

// PartyRepository defines the interface for party storage.
type PartyRepository interface {
	Create(ctx context.Context, party *Party) error
	GetBySlug(ctx context.Context, slug string) (*Party, error)
	// List returns all parties ordered by name, each with its event limits.
	List(ctx context.Context) ([]*Party, error)
	CreateEventLimits(ctx context.Context, limits []*EventLimit) error
}
