package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"partyreg/internal/delivery/http/helpers"
	"partyreg/internal/domain"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, data any) *helpers.APIError {
	t.Helper()
	var env struct {
		Data  json.RawMessage   `json:"data"`
		Error *helpers.APIError `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	if data != nil && env.Error == nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env.Error
}

// fakeRegistrationService implements domain.RegistrationService for handler tests.
type fakeRegistrationService struct {
	form       *domain.RegistrationForm
	result     *domain.RegistrationResult
	err        error
	lastSlug   string
	lastSubmit domain.Submission
}

func (f *fakeRegistrationService) GetForm(ctx context.Context, slug string) (*domain.RegistrationForm, error) {
	f.lastSlug = slug
	return f.form, f.err
}

func (f *fakeRegistrationService) RegisterBySlug(ctx context.Context, slug string, sub domain.Submission) (*domain.RegistrationResult, error) {
	f.lastSlug = slug
	f.lastSubmit = sub
	return f.result, f.err
}

// fakeDashboardService implements domain.DashboardService for handler tests.
type fakeDashboardService struct {
	parties     []*domain.Party
	events      []*domain.Event
	rows        []*domain.RegistrationDetail
	counts      map[string]int
	overview    *domain.DashboardOverview
	party       *domain.Party
	reg         *domain.Registration
	err         error
	lastFilter  domain.RegistrationFilter
	lastID      string
	lastIC      string
	lastPhone   string
	lastRedeem  bool
	lastName    string
	lastLimits  map[string]int
	deleteCalls int
}

func (f *fakeDashboardService) ListParties(ctx context.Context) ([]*domain.Party, error) {
	return f.parties, f.err
}

func (f *fakeDashboardService) CreateParty(ctx context.Context, name string, limits map[string]int) (*domain.Party, error) {
	f.lastName, f.lastLimits = name, limits
	return f.party, f.err
}

func (f *fakeDashboardService) ListEvents(ctx context.Context) ([]*domain.Event, error) {
	return f.events, f.err
}

func (f *fakeDashboardService) ListRegistrations(ctx context.Context) ([]*domain.RegistrationDetail, error) {
	return f.rows, f.err
}

func (f *fakeDashboardService) SearchRegistrations(ctx context.Context, filter domain.RegistrationFilter) ([]*domain.RegistrationDetail, error) {
	f.lastFilter = filter
	return f.rows, f.err
}

func (f *fakeDashboardService) EventCounts(ctx context.Context) (map[string]int, error) {
	return f.counts, f.err
}

func (f *fakeDashboardService) UpdateRegistration(ctx context.Context, id, ic, phone string) (*domain.Registration, error) {
	f.lastID, f.lastIC, f.lastPhone = id, ic, phone
	return f.reg, f.err
}

func (f *fakeDashboardService) SetRedeemTicket(ctx context.Context, id string, redeemed bool) (*domain.Registration, error) {
	f.lastID, f.lastRedeem = id, redeemed
	return f.reg, f.err
}

func (f *fakeDashboardService) DeleteRegistration(ctx context.Context, id string) error {
	f.lastID = id
	f.deleteCalls++
	return f.err
}

func (f *fakeDashboardService) Overview(ctx context.Context) (*domain.DashboardOverview, error) {
	return f.overview, f.err
}

func (f *fakeDashboardService) OnRegistrationsChanged(ctx context.Context) {}

// fakeAuthService implements domain.AuthService for handler tests.
type fakeAuthService struct {
	token     string
	admin     *domain.AdminUser
	err       error
	lastEmail string
	lastCode  string
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (string, error) {
	f.lastEmail = email
	return f.token, f.err
}

func (f *fakeAuthService) RequestLoginCode(ctx context.Context, email string) error {
	f.lastEmail = email
	return f.err
}

func (f *fakeAuthService) VerifyLoginCode(ctx context.Context, email, code string) (string, error) {
	f.lastEmail, f.lastCode = email, code
	return f.token, f.err
}

func (f *fakeAuthService) CreateAdmin(ctx context.Context, email, name, password string) (*domain.AdminUser, error) {
	return f.admin, f.err
}

func (f *fakeAuthService) GetAdmin(ctx context.Context, id string) (*domain.AdminUser, error) {
	return f.admin, f.err
}
