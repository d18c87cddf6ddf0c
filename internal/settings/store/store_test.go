package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peoplehub/internal/settings/models"
	id "peoplehub/pkg/domain"
	"peoplehub/pkg/platform/sentinel"
)

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := New()

	_, err := store.Get(ctx)
	require.ErrorIs(t, err, sentinel.ErrNotFound)

	saved := models.Defaults()
	saved.CompanyName = "Acme"
	require.NoError(t, store.Put(ctx, saved))
	saved.CompanyName = "mutated after put"

	got, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.CompanyName)
}

func TestPostgresGet(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	store := NewPostgres(db)
	ctx := context.Background()

	query := regexp.QuoteMeta("FROM settings WHERE id = 1")
	mock.ExpectQuery(query).WillReturnRows(sqlmock.NewRows(
		[]string{"company_name", "timezone", "workday_start", "workday_end", "updated_by", "updated_at"}))
	_, err = store.Get(ctx)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	actor := id.NewAccountID()
	now := time.Now()
	mock.ExpectQuery(query).WillReturnRows(sqlmock.NewRows(
		[]string{"company_name", "timezone", "workday_start", "workday_end", "updated_by", "updated_at"}).
		AddRow("Acme", "UTC", "08:30", "16:30", actor.String(), now))
	got, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "08:30", got.WorkdayStart)
	require.NotNil(t, got.UpdatedBy)
	assert.Equal(t, actor, *got.UpdatedBy)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPut(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	store := NewPostgres(db)

	s := models.Defaults()
	s.UpdatedAt = time.Now()
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (id) DO UPDATE SET")).
		WithArgs("PeopleHub", "UTC", "09:00", "17:00", nil, s.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Put(context.Background(), s))
	require.NoError(t, mock.ExpectationsWereMet())
}
