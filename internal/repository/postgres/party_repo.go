package postgres

import (
	"context"
	"database/sql"
	"errors"

	"partyreg/internal/domain"
)

type partyRepository struct {
	DB *sql.DB
}

func NewPartyRepository(db *sql.DB) domain.PartyRepository {
	return &partyRepository{
		DB: db,
	}
}

func (r *partyRepository) Create(ctx context.Context, p *domain.Party) error {
	query := `
		INSERT INTO parties (name, slug, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, p.Name, p.Slug, p.CreatedAt, p.UpdatedAt).Scan(&p.ID)
}

func (r *partyRepository) GetBySlug(ctx context.Context, slug string) (*domain.Party, error) {
	query := `
		SELECT id, name, slug, created_at, updated_at
		FROM parties
		WHERE slug = $1
	`
	p := &domain.Party{EventLimits: []*domain.EventLimit{}}
	err := r.DB.QueryRowContext(ctx, query, slug).Scan(&p.ID, &p.Name, &p.Slug, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *partyRepository) List(ctx context.Context) ([]*domain.Party, error) {
	query := `
		SELECT id, name, slug, created_at, updated_at
		FROM parties
		ORDER BY name
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	parties := make([]*domain.Party, 0)
	byID := make(map[string]*domain.Party)
	for rows.Next() {
		p := &domain.Party{EventLimits: []*domain.EventLimit{}}
		if err := rows.Scan(&p.ID, &p.Name, &p.Slug, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		parties = append(parties, p)
		byID[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(parties) == 0 {
		return parties, nil
	}

	limitsQuery := `
		SELECT l.party_id, l.event_id, e.name, l.limits
		FROM event_limits l
		JOIN events e ON e.id = l.event_id
		ORDER BY e.name
	`
	limitRows, err := r.DB.QueryContext(ctx, limitsQuery)
	if err != nil {
		return nil, err
	}
	defer limitRows.Close()
	for limitRows.Next() {
		l := &domain.EventLimit{}
		if err := limitRows.Scan(&l.PartyID, &l.EventID, &l.EventName, &l.Limit); err != nil {
			return nil, err
		}
		if p, ok := byID[l.PartyID]; ok {
			p.EventLimits = append(p.EventLimits, l)
		}
	}
	return parties, limitRows.Err()
}

func (r *partyRepository) CreateEventLimits(ctx context.Context, limits []*domain.EventLimit) error {
	if len(limits) == 0 {
		return nil
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO event_limits (party_id, event_id, limits)
		VALUES ($1, $2, $3)
	`
	for _, l := range limits {
		if _, err := tx.ExecContext(ctx, query, l.PartyID, l.EventID, l.Limit); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}
