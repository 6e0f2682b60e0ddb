package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"partyreg/internal/domain"
)

const (
	registrationsCacheKey = "registrations"
	allPartiesFilter      = "All"
)

type dashboardService struct {
	partyRepo        domain.PartyRepository
	eventRepo        domain.EventRepository
	registrationRepo domain.RegistrationRepository
	cache            domain.Cache[[]*domain.RegistrationDetail]
	metrics          domain.Metrics
	logger           *slog.Logger
	fetchPageSize    int
	fetchMaxRows     int
	contextTimeout   time.Duration
}

// NewDashboardService creates the admin dashboard service. Registration
// listings are aggregated fetchPageSize rows at a time up to fetchMaxRows and
// kept in cache until a mutation or a change notification drops them.
func NewDashboardService(
	partyRepo domain.PartyRepository,
	eventRepo domain.EventRepository,
	registrationRepo domain.RegistrationRepository,
	cache domain.Cache[[]*domain.RegistrationDetail],
	metrics domain.Metrics,
	logger *slog.Logger,
	fetchPageSize, fetchMaxRows int,
	timeout time.Duration,
) domain.DashboardService {
	if fetchPageSize <= 0 {
		fetchPageSize = DefaultFetchPageSize
	}
	if fetchMaxRows <= 0 {
		fetchMaxRows = DefaultFetchMaxRows
	}
	return &dashboardService{
		partyRepo:        partyRepo,
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		cache:            cache,
		metrics:          metrics,
		logger:           logger,
		fetchPageSize:    fetchPageSize,
		fetchMaxRows:     fetchMaxRows,
		contextTimeout:   timeout,
	}
}

func (s *dashboardService) ListParties(ctx context.Context) ([]*domain.Party, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	parties, err := s.partyRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list parties: %w", err)
	}
	return parties, nil
}

// CreateParty stores a party under the slug derived from name and records the
// per-event limits whose names match known events. Unknown event names are skipped.
func (s *dashboardService) CreateParty(ctx context.Context, name string, limits map[string]int) (*domain.Party, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: party name is required", domain.ErrInvalidInput)
	}
	for eventName, limit := range limits {
		if limit < 0 {
			return nil, fmt.Errorf("%w: limit for %q must not be negative", domain.ErrInvalidInput, eventName)
		}
	}

	now := time.Now()
	party := domain.NewParty(name, now, now)
	if err := s.partyRepo.Create(ctx, party); err != nil {
		return nil, &domain.StoreError{Err: err}
	}
	party.EventLimits = []*domain.EventLimit{}
	if len(limits) == 0 {
		return party, nil
	}

	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	for _, e := range events {
		limit, ok := limits[e.Name]
		if !ok {
			continue
		}
		party.EventLimits = append(party.EventLimits, &domain.EventLimit{
			PartyID:   party.ID,
			EventID:   e.ID,
			EventName: e.Name,
			Limit:     limit,
		})
	}
	if err := s.partyRepo.CreateEventLimits(ctx, party.EventLimits); err != nil {
		return nil, &domain.StoreError{Err: err}
	}
	return party, nil
}

func (s *dashboardService) ListEvents(ctx context.Context) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// ListRegistrations returns every registration up to the aggregation cap,
// ordered by id. The result is shared with the cache and must not be mutated.
func (s *dashboardService) ListRegistrations(ctx context.Context) ([]*domain.RegistrationDetail, error) {
	if rows, ok := s.cache.Get(ctx, registrationsCacheKey); ok {
		return rows, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	rows, err := FetchAll(ctx, s.fetchPageSize, s.fetchMaxRows, s.registrationRepo.ListPage)
	if err != nil {
		s.logger.ErrorContext(ctx, "fetch registrations failed", "fetched", len(rows), "err", err)
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	s.cache.Set(ctx, registrationsCacheKey, rows)
	return rows, nil
}

func (s *dashboardService) SearchRegistrations(ctx context.Context, filter domain.RegistrationFilter) ([]*domain.RegistrationDetail, error) {
	rows, err := s.ListRegistrations(ctx)
	if err != nil {
		return nil, err
	}
	term := strings.TrimSpace(filter.Term)
	partyName := strings.TrimSpace(filter.PartyName)
	if partyName == allPartiesFilter {
		partyName = ""
	}
	if term == "" && partyName == "" {
		return rows, nil
	}

	filtered := make([]*domain.RegistrationDetail, 0)
	for _, r := range rows {
		if term != "" && !strings.Contains(r.ICNumber, term) && !strings.Contains(r.PhoneNumber, term) {
			continue
		}
		if partyName != "" && r.PartyName != partyName {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered, nil
}

func (s *dashboardService) EventCounts(ctx context.Context) (map[string]int, error) {
	rows, err := s.ListRegistrations(ctx)
	if err != nil {
		return nil, err
	}
	return countByEvent(rows), nil
}

func (s *dashboardService) UpdateRegistration(ctx context.Context, id, icNumber, phoneNumber string) (*domain.Registration, error) {
	ic, err := domain.ValidateICNumber(icNumber)
	if err != nil {
		return nil, err
	}
	phone := domain.NormalizePhone(strings.TrimSpace(phoneNumber))
	if phone == "" {
		return nil, fmt.Errorf("%w: phone number is required", domain.ErrInvalidInput)
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	reg, err := s.registrationRepo.UpdateContact(ctx, id, ic, phone)
	if err != nil {
		return nil, storeErr(err)
	}
	s.invalidate(ctx)
	return reg, nil
}

func (s *dashboardService) SetRedeemTicket(ctx context.Context, id string, redeemed bool) (*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	reg, err := s.registrationRepo.SetRedeemTicket(ctx, id, redeemed)
	if err != nil {
		return nil, storeErr(err)
	}
	s.invalidate(ctx)
	return reg, nil
}

func (s *dashboardService) DeleteRegistration(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.registrationRepo.Delete(ctx, id); err != nil {
		return storeErr(err)
	}
	s.invalidate(ctx)
	return nil
}

// Overview loads parties, events and registrations concurrently.
func (s *dashboardService) Overview(ctx context.Context) (*domain.DashboardOverview, error) {
	var (
		parties []*domain.Party
		events  []*domain.Event
		regs    []*domain.RegistrationDetail
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		parties, err = s.ListParties(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		events, err = s.ListEvents(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		regs, err = s.ListRegistrations(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &domain.DashboardOverview{
		Parties:            parties,
		Events:             events,
		TotalRegistrations: len(regs),
		EventCounts:        countByEvent(regs),
	}, nil
}

func (s *dashboardService) OnRegistrationsChanged(ctx context.Context) {
	s.metrics.IncRealtimeRefresh()
	s.invalidate(ctx)
	if _, err := s.ListRegistrations(ctx); err != nil {
		s.logger.WarnContext(ctx, "reload registrations after change failed", "err", err)
	}
}

func (s *dashboardService) invalidate(ctx context.Context) {
	s.cache.Delete(ctx, registrationsCacheKey)
}

func countByEvent(rows []*domain.RegistrationDetail) map[string]int {
	counts := make(map[string]int)
	for _, r := range rows {
		if r.EventName != "" {
			counts[r.EventName]++
		}
	}
	return counts
}

// storeErr passes ErrNotFound through and marks anything else as a store failure.
func storeErr(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrNotFound
	}
	return &domain.StoreError{Err: err}
}
