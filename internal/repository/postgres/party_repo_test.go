package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partyreg/internal/domain"
)

func TestPartyRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantID  string
		wantErr bool
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO parties \(name, slug, created_at, updated_at\)`).
					WithArgs("The Stage Sibu", "the-stage-sibu", now, now).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("p1"))
			},
			wantID: "p1",
		},
		{
			name: "duplicate slug",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO parties`).
					WillReturnError(&pq.Error{Code: "23505", Message: `duplicate key value violates unique constraint "parties_slug_key"`})
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			p := domain.NewParty("The Stage Sibu", now, now)
			err = NewPartyRepository(db).Create(ctx, p)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, p.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPartyRepository_GetBySlug(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		want    *domain.Party
		errIs   error
		wantErr bool
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, name, slug, created_at, updated_at(.|\n)*WHERE slug = \$1`).
					WithArgs("alpha").
					WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "created_at", "updated_at"}).
						AddRow("p1", "Alpha", "alpha", now, now))
			},
			want: &domain.Party{ID: "p1", Name: "Alpha", Slug: "alpha", EventLimits: []*domain.EventLimit{}, CreatedAt: now, UpdatedAt: now},
		},
		{
			name: "not found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, name, slug`).
					WithArgs("alpha").
					WillReturnError(sql.ErrNoRows)
			},
			errIs:   domain.ErrNotFound,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			got, err := NewPartyRepository(db).GetBySlug(ctx, "alpha")
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

func TestPartyRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT id, name, slug, created_at, updated_at(.|\n)*ORDER BY name`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "created_at", "updated_at"}).
			AddRow("p1", "Alpha", "alpha", now, now).
			AddRow("p2", "Beta", "beta", now, now))
	mock.ExpectQuery(`SELECT l.party_id, l.event_id, e.name, l.limits`).
		WillReturnRows(sqlmock.NewRows([]string{"party_id", "event_id", "name", "limits"}).
			AddRow("p1", "e2", "Blast Your Stage", 50).
			AddRow("p1", "e1", "TheStage7.0", 100).
			AddRow("p9", "e1", "TheStage7.0", 5))

	got, err := NewPartyRepository(db).List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Alpha", got[0].Name)
	require.Len(t, got[0].EventLimits, 2)
	assert.Equal(t, &domain.EventLimit{PartyID: "p1", EventID: "e2", EventName: "Blast Your Stage", Limit: 50}, got[0].EventLimits[0])
	assert.Empty(t, got[1].EventLimits)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPartyRepository_CreateEventLimits(t *testing.T) {
	ctx := context.Background()
	limits := []*domain.EventLimit{
		{PartyID: "p1", EventID: "e1", Limit: 100},
		{PartyID: "p1", EventID: "e2", Limit: 50},
	}

	t.Run("inserts in one transaction", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO event_limits \(party_id, event_id, limits\)`).
			WithArgs("p1", "e1", 100).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO event_limits`).
			WithArgs("p1", "e2", 50).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, NewPartyRepository(db).CreateEventLimits(ctx, limits))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure rolls back", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO event_limits`).
			WillReturnError(sql.ErrConnDone)
		mock.ExpectRollback()

		require.Error(t, NewPartyRepository(db).CreateEventLimits(ctx, limits))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
