package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"partyreg/internal/domain"
)

const registrationSuccessMessage = "Registration Successful!"

type registrationService struct {
	partyRepo        domain.PartyRepository
	eventRepo        domain.EventRepository
	registrationRepo domain.RegistrationRepository
	metrics          domain.Metrics
	contextTimeout   time.Duration
}

// NewRegistrationService creates a RegistrationService with the given repositories.
func NewRegistrationService(
	partyRepo domain.PartyRepository,
	eventRepo domain.EventRepository,
	registrationRepo domain.RegistrationRepository,
	metrics domain.Metrics,
	timeout time.Duration,
) domain.RegistrationService {
	return &registrationService{
		partyRepo:        partyRepo,
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		metrics:          metrics,
		contextTimeout:   timeout,
	}
}

func (s *registrationService) GetForm(ctx context.Context, slug string) (*domain.RegistrationForm, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	party, err := s.partyRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get party: %w", err)
	}
	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return &domain.RegistrationForm{Party: party, Events: events}, nil
}

// RegisterBySlug validates a submission for the party's form and, when it
// passes, inserts one row per selected event as a single batch.
//
// The existing-registrations read and the insert are separate round trips.
// Two concurrent submissions for the same IC can both pass the 2-event cap;
// the unique (ic_number, event_id) index only rejects the duplicate-event case.
func (s *registrationService) RegisterBySlug(ctx context.Context, slug string, sub domain.Submission) (*domain.RegistrationResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	party, err := s.partyRepo.GetBySlug(ctx, slug)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get party: %w", err)
	}
	sub.Party = party

	sub, err = domain.CheckSubmission(sub)
	if err != nil {
		s.metrics.ObserveSubmission(domain.OutcomeRejected)
		return nil, err
	}

	existing, err := s.registrationRepo.ListEventIDsByIC(ctx, sub.ICNumber)
	if err != nil {
		return nil, fmt.Errorf("list registrations by IC: %w", err)
	}

	dupes, err := domain.CheckEventQuota(sub.EventIDs, existing)
	if errors.Is(err, domain.ErrAlreadyRegistered) {
		names, nerr := s.eventNames(ctx, dupes)
		if nerr != nil {
			return nil, nerr
		}
		s.metrics.ObserveSubmission(domain.OutcomeRejected)
		return nil, domain.NewAlreadyRegisteredError(dupes, names)
	}
	if err != nil {
		s.metrics.ObserveSubmission(domain.OutcomeRejected)
		return nil, err
	}

	regs := domain.BuildRegistrations(sub, time.Now())
	if err := s.registrationRepo.CreateBatch(ctx, regs); err != nil {
		s.metrics.ObserveSubmission(domain.OutcomeStoreError)
		return nil, &domain.StoreError{Err: err}
	}
	s.metrics.ObserveSubmission(domain.OutcomeAccepted)
	s.metrics.AddRegistrationsCreated(len(regs))

	return &domain.RegistrationResult{
		Message:       registrationSuccessMessage,
		Registrations: regs,
	}, nil
}

// eventNames resolves ids to names, keeping the order of ids.
func (s *registrationService) eventNames(ctx context.Context, ids []string) ([]string, error) {
	events, err := s.eventRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve event names: %w", err)
	}
	byID := make(map[string]string, len(events))
	for _, e := range events {
		byID[e.ID] = e.Name
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := byID[id]; ok {
			names = append(names, name)
		}
	}
	return names, nil
}
