package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"partyreg/internal/domain"
)

func TestAdminUserRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantID  string
		wantErr bool
		errIs   error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO admin_users \(email, password_hash, salt, name, created_at, updated_at\)`).
					WithArgs("alice@example.com", "hash", "salt", "Alice", now, now).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("admin-1"))
			},
			wantID: "admin-1",
		},
		{
			name: "unique violation",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO admin_users`).
					WillReturnError(&pq.Error{Code: "23505"})
			},
			wantErr: true,
			errIs:   domain.ErrAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			u := domain.NewAdminUser("alice@example.com", "Alice", "hash", "salt", now, now)
			err = NewAdminUserRepository(db).Create(ctx, u)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errIs != nil {
					require.ErrorIs(t, err, tt.errIs)
				}
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, u.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAdminUserRepository_GetByEmail(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)
	cols := []string{"id", "email", "password_hash", "salt", "name", "created_at", "updated_at"}

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		want    *domain.AdminUser
		errIs   error
		wantErr bool
	}{
		{
			name: "found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM admin_users(.|\n)*WHERE email = \$1`).
					WithArgs("alice@example.com").
					WillReturnRows(sqlmock.NewRows(cols).AddRow("admin-1", "alice@example.com", "hash", "salt", "Alice", now, now))
			},
			want: &domain.AdminUser{ID: "admin-1", Email: "alice@example.com", PasswordHash: "hash", Salt: "salt", Name: "Alice", CreatedAt: now, UpdatedAt: now},
		},
		{
			name: "not found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM admin_users`).
					WillReturnError(sql.ErrNoRows)
			},
			errIs:   domain.ErrNotFound,
			wantErr: true,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM admin_users`).
					WillReturnError(sql.ErrConnDone)
			},
			errIs:   sql.ErrConnDone,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			got, err := NewAdminUserRepository(db).GetByEmail(ctx, "alice@example.com")
			if tt.wantErr {
				require.ErrorIs(t, err, tt.errIs)
				require.Nil(t, got)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
