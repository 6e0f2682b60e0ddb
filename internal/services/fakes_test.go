package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"partyreg/internal/domain"
)

// fakePartyRepo implements domain.PartyRepository for tests.
type fakePartyRepo struct {
	bySlug    map[string]*domain.Party
	created   []*domain.Party
	limits    []*domain.EventLimit
	getErr    error
	createErr error
	listErr   error
}

func newFakePartyRepo(parties ...*domain.Party) *fakePartyRepo {
	f := &fakePartyRepo{bySlug: make(map[string]*domain.Party)}
	for _, p := range parties {
		f.bySlug[p.Slug] = p
	}
	return f
}

func (f *fakePartyRepo) Create(ctx context.Context, p *domain.Party) error {
	if f.createErr != nil {
		return f.createErr
	}
	p.ID = fmt.Sprintf("party-%d", len(f.created)+1)
	f.created = append(f.created, p)
	f.bySlug[p.Slug] = p
	return nil
}

func (f *fakePartyRepo) GetBySlug(ctx context.Context, slug string) (*domain.Party, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if p, ok := f.bySlug[slug]; ok {
		return p, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakePartyRepo) List(ctx context.Context) ([]*domain.Party, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*domain.Party, 0, len(f.bySlug))
	for _, p := range f.bySlug {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b *domain.Party) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})
	return out, nil
}

func (f *fakePartyRepo) CreateEventLimits(ctx context.Context, limits []*domain.EventLimit) error {
	f.limits = append(f.limits, limits...)
	return nil
}

// fakeEventRepo implements domain.EventRepository for tests.
type fakeEventRepo struct {
	events  []*domain.Event
	listErr error
}

func (f *fakeEventRepo) List(ctx context.Context) ([]*domain.Event, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.events, nil
}

func (f *fakeEventRepo) ListByIDs(ctx context.Context, ids []string) ([]*domain.Event, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*domain.Event
	for _, e := range f.events {
		if slices.Contains(ids, e.ID) {
			out = append(out, e)
		}
	}
	return out, nil
}

// fakeRegistrationRepo is an in-memory domain.RegistrationRepository.
type fakeRegistrationRepo struct {
	mu        sync.Mutex
	rows      []*domain.RegistrationDetail
	nextID    int
	createErr error
	listErr   error
	pageCalls int
	batches   int
}

func (f *fakeRegistrationRepo) CreateBatch(ctx context.Context, regs []*domain.Registration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches++
	if f.createErr != nil {
		return f.createErr
	}
	for _, r := range regs {
		f.nextID++
		r.ID = fmt.Sprintf("reg-%03d", f.nextID)
		f.rows = append(f.rows, &domain.RegistrationDetail{Registration: *r})
	}
	return nil
}

func (f *fakeRegistrationRepo) ListEventIDsByIC(ctx context.Context, ic string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var ids []string
	for _, r := range f.rows {
		if r.ICNumber == ic {
			ids = append(ids, r.EventID)
		}
	}
	return ids, nil
}

func (f *fakeRegistrationRepo) ListPage(ctx context.Context, offset, limit int) ([]*domain.RegistrationDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pageCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	if offset >= len(f.rows) {
		return nil, nil
	}
	end := min(offset+limit, len(f.rows))
	return slices.Clone(f.rows[offset:end]), nil
}

func (f *fakeRegistrationRepo) find(id string) *domain.RegistrationDetail {
	for _, r := range f.rows {
		if r.ID == id {
			return r
		}
	}
	return nil
}

func (f *fakeRegistrationRepo) UpdateContact(ctx context.Context, id, ic, phone string) (*domain.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := f.find(id)
	if r == nil {
		return nil, domain.ErrNotFound
	}
	r.ICNumber, r.PhoneNumber = ic, phone
	reg := r.Registration
	return &reg, nil
}

func (f *fakeRegistrationRepo) SetRedeemTicket(ctx context.Context, id string, redeemed bool) (*domain.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := f.find(id)
	if r == nil {
		return nil, domain.ErrNotFound
	}
	r.RedeemTicket = redeemed
	reg := r.Registration
	return &reg, nil
}

func (f *fakeRegistrationRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.rows {
		if r.ID == id {
			f.rows = slices.Delete(f.rows, i, i+1)
			return nil
		}
	}
	return domain.ErrNotFound
}

// fakeMetrics records calls to domain.Metrics.
type fakeMetrics struct {
	mu        sync.Mutex
	outcomes  []string
	created   int
	refreshes int
}

func (f *fakeMetrics) ObserveSubmission(outcome string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outcomes = append(f.outcomes, outcome)
}

func (f *fakeMetrics) AddRegistrationsCreated(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created += n
}

func (f *fakeMetrics) IncRealtimeRefresh() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshes++
}

// mapCache is a map-backed domain.Cache.
type mapCache[V any] struct {
	mu sync.Mutex
	m  map[string]V
}

func newMapCache[V any]() *mapCache[V] {
	return &mapCache[V]{m: make(map[string]V)}
}

func (c *mapCache[V]) Get(ctx context.Context, key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.m[key]
	return v, ok
}

func (c *mapCache[V]) Set(ctx context.Context, key string, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = v
}

func (c *mapCache[V]) Delete(ctx context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, key)
}

// fakePasswordHasher implements domain.PasswordHasher for tests.
type fakePasswordHasher struct {
	salt string
}

func (f *fakePasswordHasher) GenerateSalt() (string, error) { return f.salt, nil }
func (f *fakePasswordHasher) Hash(salt, password string) (string, error) {
	return "hash-" + salt + "-" + password, nil
}
func (f *fakePasswordHasher) Compare(hash, salt, password string) error {
	if hash != "hash-"+salt+"-"+password {
		return errors.New("mismatch")
	}
	return nil
}

// fakeTokenIssuer implements domain.TokenIssuer for tests.
type fakeTokenIssuer struct {
	err    error
	expiry time.Duration
}

func (f *fakeTokenIssuer) Issue(adminID, email string, expiry time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.expiry = expiry
	return "token-" + adminID, nil
}

// fakeAdminRepo implements domain.AdminUserRepository for tests.
type fakeAdminRepo struct {
	byEmail map[string]*domain.AdminUser
	getErr  error
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{byEmail: make(map[string]*domain.AdminUser)}
}

func (f *fakeAdminRepo) Create(ctx context.Context, a *domain.AdminUser) error {
	if _, ok := f.byEmail[a.Email]; ok {
		return domain.ErrAlreadyExists
	}
	a.ID = fmt.Sprintf("admin-%d", len(f.byEmail)+1)
	f.byEmail[a.Email] = a
	return nil
}

func (f *fakeAdminRepo) GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if a, ok := f.byEmail[email]; ok {
		return a, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeAdminRepo) GetByID(ctx context.Context, id string) (*domain.AdminUser, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, a := range f.byEmail {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, domain.ErrNotFound
}

// fakeLoginCodeRepo implements domain.LoginCodeRepository for tests.
type fakeLoginCodeRepo struct {
	codes map[string]string
	exp   map[string]time.Time
}

func newFakeLoginCodeRepo() *fakeLoginCodeRepo {
	return &fakeLoginCodeRepo{codes: make(map[string]string), exp: make(map[string]time.Time)}
}

func (f *fakeLoginCodeRepo) Create(ctx context.Context, email, codeHash string, expiresAt time.Time) error {
	f.codes[email] = codeHash
	f.exp[email] = expiresAt
	return nil
}

func (f *fakeLoginCodeRepo) Consume(ctx context.Context, email, codeHash string) (bool, error) {
	if f.codes[email] != codeHash || time.Now().After(f.exp[email]) {
		return false, nil
	}
	delete(f.codes, email)
	return true, nil
}

// fakeEmailService captures login code emails.
type fakeEmailService struct {
	sent []*domain.LoginCodeEmailData
	err  error
}

func (f *fakeEmailService) SendLoginCode(ctx context.Context, data *domain.LoginCodeEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, data)
	return nil
}
