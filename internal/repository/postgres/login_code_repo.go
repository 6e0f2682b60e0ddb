package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"partyreg/internal/domain"
)

type loginCodeRepository struct {
	DB *sql.DB
}

// NewLoginCodeRepository returns a domain.LoginCodeRepository implemented with Postgres.
func NewLoginCodeRepository(db *sql.DB) domain.LoginCodeRepository {
	return &loginCodeRepository{DB: db}
}

// Create stores a code hash for email and drops that address's expired codes.
func (r *loginCodeRepository) Create(ctx context.Context, email, codeHash string, expiresAt time.Time) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM login_codes WHERE email = $1 AND expires_at <= NOW()`, email); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("purge expired login codes: %w", err)
	}
	query := `
		INSERT INTO login_codes (email, code_hash, expires_at)
		VALUES ($1, $2, $3)
	`
	if _, err := tx.ExecContext(ctx, query, email, codeHash, expiresAt); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Consume deletes one live code matching email and codeHash. Concurrent
// verifies of the same code see at most one success.
func (r *loginCodeRepository) Consume(ctx context.Context, email, codeHash string) (bool, error) {
	query := `
		DELETE FROM login_codes
		WHERE id = (
			SELECT id FROM login_codes
			WHERE email = $1 AND code_hash = $2 AND expires_at > NOW()
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id
	`
	var id string
	if err := r.DB.QueryRowContext(ctx, query, email, codeHash).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
