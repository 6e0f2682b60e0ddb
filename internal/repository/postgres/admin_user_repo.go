package postgres

import (
	"context"
	"database/sql"
	"errors"

	"partyreg/internal/domain"
)

type adminUserRepository struct {
	DB *sql.DB
}

func NewAdminUserRepository(db *sql.DB) domain.AdminUserRepository {
	return &adminUserRepository{DB: db}
}

func (r *adminUserRepository) Create(ctx context.Context, u *domain.AdminUser) error {
	query := `
		INSERT INTO admin_users (email, password_hash, salt, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, u.Email, u.PasswordHash, u.Salt, u.Name, u.CreatedAt, u.UpdatedAt).Scan(&u.ID)
	if isUniqueViolation(err) {
		return domain.ErrAlreadyExists
	}
	return err
}

func (r *adminUserRepository) GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	query := `
		SELECT id, email, password_hash, salt, name, created_at, updated_at
		FROM admin_users
		WHERE email = $1
	`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, email))
}

func (r *adminUserRepository) GetByID(ctx context.Context, id string) (*domain.AdminUser, error) {
	query := `
		SELECT id, email, password_hash, salt, name, created_at, updated_at
		FROM admin_users
		WHERE id = $1
	`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

func (r *adminUserRepository) scanOne(row *sql.Row) (*domain.AdminUser, error) {
	u := &domain.AdminUser{}
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Salt, &u.Name, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}
