package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"partyreg/internal/domain"
)

const registrationColumns = `id, ic_number, phone_number, party_id, event_id, redeem_ticket, created_at, updated_at`

type registrationRepository struct {
	DB *sql.DB
}

func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{
		DB: db,
	}
}

func (r *registrationRepository) CreateBatch(ctx context.Context, regs []*domain.Registration) error {
	if len(regs) == 0 {
		return nil
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO registrations (ic_number, phone_number, party_id, event_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	ids := make([]string, len(regs))
	for i, reg := range regs {
		err := tx.QueryRowContext(ctx, query, reg.ICNumber, reg.PhoneNumber, reg.PartyID, reg.EventID, reg.CreatedAt, reg.UpdatedAt).
			Scan(&ids[i])
		if err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	for i, reg := range regs {
		reg.ID = ids[i]
	}
	return nil
}

func (r *registrationRepository) ListEventIDsByIC(ctx context.Context, icNumber string) ([]string, error) {
	query := `SELECT event_id FROM registrations WHERE ic_number = $1`
	rows, err := r.DB.QueryContext(ctx, query, icNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *registrationRepository) ListPage(ctx context.Context, offset, limit int) ([]*domain.RegistrationDetail, error) {
	query := `
		SELECT r.id, r.ic_number, r.phone_number, r.party_id, r.event_id, r.redeem_ticket, r.created_at, r.updated_at,
			COALESCE(p.name, ''), COALESCE(e.name, '')
		FROM registrations r
		LEFT JOIN parties p ON p.id = r.party_id
		LEFT JOIN events e ON e.id = r.event_id
		ORDER BY r.id ASC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]*domain.RegistrationDetail, 0)
	for rows.Next() {
		d := &domain.RegistrationDetail{}
		if err := rows.Scan(&d.ID, &d.ICNumber, &d.PhoneNumber, &d.PartyID, &d.EventID, &d.RedeemTicket,
			&d.CreatedAt, &d.UpdatedAt, &d.PartyName, &d.EventName); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

func (r *registrationRepository) UpdateContact(ctx context.Context, id, icNumber, phoneNumber string) (*domain.Registration, error) {
	query := fmt.Sprintf(`
		UPDATE registrations SET ic_number = $1, phone_number = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING %s
	`, registrationColumns)
	return r.scanOne(r.DB.QueryRowContext(ctx, query, icNumber, phoneNumber, id))
}

func (r *registrationRepository) SetRedeemTicket(ctx context.Context, id string, redeemed bool) (*domain.Registration, error) {
	query := fmt.Sprintf(`
		UPDATE registrations SET redeem_ticket = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING %s
	`, registrationColumns)
	return r.scanOne(r.DB.QueryRowContext(ctx, query, redeemed, id))
}

func (r *registrationRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM registrations WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *registrationRepository) scanOne(row *sql.Row) (*domain.Registration, error) {
	reg := &domain.Registration{}
	err := row.Scan(&reg.ID, &reg.ICNumber, &reg.PhoneNumber, &reg.PartyID, &reg.EventID, &reg.RedeemTicket, &reg.CreatedAt, &reg.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}
