package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"partyreg/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistrationService() (domain.RegistrationService, *fakeRegistrationRepo, *fakeMetrics) {
	parties := newFakePartyRepo(&domain.Party{ID: "P1", Name: "Party One", Slug: "party-one"})
	events := &fakeEventRepo{events: []*domain.Event{
		{ID: "E1", Name: "TheStage7.0"},
		{ID: "E2", Name: "Blast Your Stage"},
		{ID: "E3", Name: "Encore"},
	}}
	regs := &fakeRegistrationRepo{}
	metrics := &fakeMetrics{}
	return NewRegistrationService(parties, events, regs, metrics, 5*time.Second), regs, metrics
}

func TestRegistrationService_RegisterBySlug_endToEnd(t *testing.T) {
	svc, regs, metrics := newTestRegistrationService()
	ctx := context.Background()

	res, err := svc.RegisterBySlug(ctx, "party-one", domain.Submission{
		ICNumber:    "987654321098",
		PhoneNumber: "0123456789",
		EventIDs:    []string{"E1", "E2"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Registration Successful!", res.Message)
	require.Len(t, regs.rows, 2)
	for i, eventID := range []string{"E1", "E2"} {
		assert.Equal(t, "987654321098", regs.rows[i].ICNumber)
		assert.Equal(t, "0123456789", regs.rows[i].PhoneNumber)
		assert.Equal(t, "P1", regs.rows[i].PartyID)
		assert.Equal(t, eventID, regs.rows[i].EventID)
	}
	assert.Equal(t, 2, metrics.created)

	_, err = svc.RegisterBySlug(ctx, "party-one", domain.Submission{
		ICNumber:    "987654321098",
		PhoneNumber: "0123456789",
		EventIDs:    []string{"E1"},
	})
	require.ErrorIs(t, err, domain.ErrAlreadyRegistered)
	assert.Equal(t, "IC has already registered for: TheStage7.0", err.Error())
	assert.Len(t, regs.rows, 2)
	assert.Equal(t, 1, regs.batches)
	assert.Equal(t, []string{domain.OutcomeAccepted, domain.OutcomeRejected}, metrics.outcomes)
}

func TestRegistrationService_RegisterBySlug_oneExisting(t *testing.T) {
	tests := []struct {
		name    string
		events  []string
		wantErr error
		wantMsg string
	}{
		{"same event again", []string{"E1"}, domain.ErrAlreadyRegistered, "IC has already registered for: TheStage7.0"},
		{"other event", []string{"E2"}, nil, ""},
		{"both reports the duplicate", []string{"E1", "E2"}, domain.ErrAlreadyRegistered, "IC has already registered for: TheStage7.0"},
		{"two new exceeds cap", []string{"E2", "E3"}, domain.ErrEventQuotaExceeded, "IC can only register for up to 2 events in total"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, regs, _ := newTestRegistrationService()
			ctx := context.Background()
			_, err := svc.RegisterBySlug(ctx, "party-one", domain.Submission{
				ICNumber: "123456789012", PhoneNumber: "011", EventIDs: []string{"E1"},
			})
			require.NoError(t, err)

			_, err = svc.RegisterBySlug(ctx, "party-one", domain.Submission{
				ICNumber: "123456-78-9012", PhoneNumber: "011", EventIDs: tt.events,
			})
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Len(t, regs.rows, 2)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantMsg, err.Error())
			assert.Len(t, regs.rows, 1)
		})
	}
}

func TestRegistrationService_RegisterBySlug_twoExisting(t *testing.T) {
	svc, regs, _ := newTestRegistrationService()
	ctx := context.Background()
	_, err := svc.RegisterBySlug(ctx, "party-one", domain.Submission{
		ICNumber: "123456789012", PhoneNumber: "011", EventIDs: []string{"E1", "E2"},
	})
	require.NoError(t, err)

	_, err = svc.RegisterBySlug(ctx, "party-one", domain.Submission{
		ICNumber: "123456789012", PhoneNumber: "011", EventIDs: []string{"E3"},
	})
	require.ErrorIs(t, err, domain.ErrEventQuotaExceeded)
	assert.Len(t, regs.rows, 2)
}

func TestRegistrationService_RegisterBySlug_inputErrorsSkipStore(t *testing.T) {
	tests := []struct {
		name    string
		slug    string
		sub     domain.Submission
		wantErr error
	}{
		{"letters", "party-one", domain.Submission{ICNumber: "12345678901a", PhoneNumber: "011", EventIDs: []string{"E1"}}, domain.ErrICContainsLetters},
		{"short", "party-one", domain.Submission{ICNumber: "1234", PhoneNumber: "011", EventIDs: []string{"E1"}}, domain.ErrICNotTwelveDigits},
		{"no phone", "party-one", domain.Submission{ICNumber: "123456789012", EventIDs: []string{"E1"}}, domain.ErrIncompleteFields},
		{"no events", "party-one", domain.Submission{ICNumber: "123456789012", PhoneNumber: "011"}, domain.ErrIncompleteFields},
		{"unknown party", "nobody", domain.Submission{ICNumber: "123456789012", PhoneNumber: "011", EventIDs: []string{"E1"}}, domain.ErrIncompleteFields},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, regs, metrics := newTestRegistrationService()
			regs.listErr = errors.New("store must not be read")

			_, err := svc.RegisterBySlug(context.Background(), tt.slug, tt.sub)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 0, regs.batches)
			assert.Equal(t, []string{domain.OutcomeRejected}, metrics.outcomes)
		})
	}
}

func TestRegistrationService_RegisterBySlug_storeErrorVerbatim(t *testing.T) {
	svc, regs, metrics := newTestRegistrationService()
	regs.createErr = errors.New(`duplicate key value violates unique constraint "registrations_ic_event_key"`)

	_, err := svc.RegisterBySlug(context.Background(), "party-one", domain.Submission{
		ICNumber: "123456789012", PhoneNumber: "011", EventIDs: []string{"E1"},
	})
	var storeErr *domain.StoreError
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, `duplicate key value violates unique constraint "registrations_ic_event_key"`, err.Error())
	assert.Equal(t, []string{domain.OutcomeStoreError}, metrics.outcomes)
	assert.Equal(t, 0, metrics.created)
}

func TestRegistrationService_RegisterBySlug_lookupFailure(t *testing.T) {
	svc, regs, _ := newTestRegistrationService()
	regs.listErr = errors.New("connection reset")

	_, err := svc.RegisterBySlug(context.Background(), "party-one", domain.Submission{
		ICNumber: "123456789012", PhoneNumber: "011", EventIDs: []string{"E1"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Equal(t, 0, regs.batches)
}

func TestRegistrationService_GetForm(t *testing.T) {
	svc, _, _ := newTestRegistrationService()

	form, err := svc.GetForm(context.Background(), "party-one")
	require.NoError(t, err)
	assert.Equal(t, "P1", form.Party.ID)
	assert.Len(t, form.Events, 3)

	_, err = svc.GetForm(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
