package domain

import (
	"context"
	"time"
)

// Registration is one person's sign-up for one event through a party's form.
// swagger:model Registration
type Registration struct {
	ID           string    `json:"id"`
	ICNumber     string    `json:"ic_number"`
	PhoneNumber  string    `json:"phone_number"`
	PartyID      string    `json:"party_id"`
	EventID      string    `json:"event_id"`
	RedeemTicket bool      `json:"redeem_ticket"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewRegistration creates a new Registration. ID is set by the repository on create.
func NewRegistration(icNumber, phoneNumber, partyID, eventID string, createdAt, updatedAt time.Time) *Registration {
	return &Registration{
		ICNumber:    icNumber,
		PhoneNumber: phoneNumber,
		PartyID:     partyID,
		EventID:     eventID,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// RegistrationDetail is a registration joined with its party and event names.
// swagger:model RegistrationDetail
type RegistrationDetail struct {
	Registration
	PartyName string `json:"party_name"`
	EventName string `json:"event_name"`
}

// Submission is a candidate registration entered on a party's public form.
type Submission struct {
	ICNumber    string
	PhoneNumber string
	EventIDs    []string
	Party       *Party
}

// RegistrationResult is returned for an accepted submission.
// swagger:model RegistrationResult
type RegistrationResult struct {
	Message       string          `json:"message"`
	Registrations []*Registration `json:"registrations"`
}

// RegistrationRepository defines storage operations for registrations.
type RegistrationRepository interface {
	// CreateBatch inserts all rows in one transaction; either every row is written or none.
	CreateBatch(ctx context.Context, regs []*Registration) error
	ListEventIDsByIC(ctx context.Context, icNumber string) ([]string, error)
	// ListPage returns rows ordered by id ascending, starting at offset.
	ListPage(ctx context.Context, offset, limit int) ([]*RegistrationDetail, error)
	UpdateContact(ctx context.Context, id, icNumber, phoneNumber string) (*Registration, error)
	SetRedeemTicket(ctx context.Context, id string, redeemed bool) (*Registration, error)
	Delete(ctx context.Context, id string) error
}

// RegistrationFilter narrows the dashboard's registration list.
type RegistrationFilter struct {
	// Term matches a substring of the IC or phone number.
	Term string
	// PartyName matches the party name exactly; "" or "All" disables the filter.
	PartyName string
}

// RegistrationService handles submissions from the public registration form.
type RegistrationService interface {
	GetForm(ctx context.Context, slug string) (*RegistrationForm, error)
	RegisterBySlug(ctx context.Context, slug string, sub Submission) (*RegistrationResult, error)
}

// RegistrationForm is what the public form needs to render.
// swagger:model RegistrationForm
type RegistrationForm struct {
	Party  *Party   `json:"party"`
	Events []*Event `json:"events"`
}

// DashboardOverview summarizes the dashboard in one response.
// swagger:model DashboardOverview
type DashboardOverview struct {
	Parties            []*Party       `json:"parties"`
	Events             []*Event       `json:"events"`
	TotalRegistrations int            `json:"total_registrations"`
	EventCounts        map[string]int `json:"event_counts"`
}

// DashboardService backs the authenticated admin dashboard.
type DashboardService interface {
	ListParties(ctx context.Context) ([]*Party, error)
	CreateParty(ctx context.Context, name string, limits map[string]int) (*Party, error)
	ListEvents(ctx context.Context) ([]*Event, error)
	ListRegistrations(ctx context.Context) ([]*RegistrationDetail, error)
	SearchRegistrations(ctx context.Context, filter RegistrationFilter) ([]*RegistrationDetail, error)
	EventCounts(ctx context.Context) (map[string]int, error)
	UpdateRegistration(ctx context.Context, id, icNumber, phoneNumber string) (*Registration, error)
	SetRedeemTicket(ctx context.Context, id string, redeemed bool) (*Registration, error)
	DeleteRegistration(ctx context.Context, id string) error
	Overview(ctx context.Context) (*DashboardOverview, error)
	// OnRegistrationsChanged drops the cached registration view and reloads it.
	OnRegistrationsChanged(ctx context.Context)
}

// ChangeSubscriber delivers change notifications for a table's channel.
// Subscribe blocks until ctx is done.
type ChangeSubscriber interface {
	Subscribe(ctx context.Context, channel string, onChange func()) error
}
