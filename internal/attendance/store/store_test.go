package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peoplehub/internal/attendance/models"
	id "peoplehub/pkg/domain"
	"peoplehub/pkg/platform/sentinel"
)

func newRecord(account id.AccountID, date string, status models.Status) *models.Record {
	now := time.Now()
	return &models.Record{
		ID:        id.NewAttendanceID(),
		AccountID: account,
		WorkDate:  date,
		CheckIn:   now,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := New()
	jane := id.NewAccountID()
	sam := id.NewAccountID()

	first := newRecord(jane, "2026-03-02", models.StatusPresent)
	require.NoError(t, store.Create(ctx, first))
	assert.ErrorIs(t, store.Create(ctx, newRecord(jane, "2026-03-02", models.StatusLate)), sentinel.ErrConflict)
	require.NoError(t, store.Create(ctx, newRecord(sam, "2026-03-02", models.StatusLate)))
	require.NoError(t, store.Create(ctx, newRecord(jane, "2026-03-03", models.StatusRemote)))
	require.NoError(t, store.Create(ctx, newRecord(id.NewAccountID(), "2026-03-02", models.StatusAbsent)))

	present, late, err := store.CountForDate(ctx, "2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, 2, present)
	assert.Equal(t, 1, late)

	list, err := store.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, "2026-03-03", list[0].WorkDate)

	janes, err := store.ListByAccount(ctx, jane, 10)
	require.NoError(t, err)
	require.Len(t, janes, 2)
	assert.Equal(t, "2026-03-03", janes[0].WorkDate)
	assert.Equal(t, "2026-03-02", janes[1].WorkDate)

	janes, err = store.ListByAccount(ctx, jane, 1)
	require.NoError(t, err)
	assert.Len(t, janes, 1)

	out := time.Now()
	updated, err := store.Update(ctx, first.ID, models.Patch{CheckOut: &out}, out)
	require.NoError(t, err)
	require.NotNil(t, updated.CheckOut)
	assert.Equal(t, models.StatusPresent, updated.Status)

	_, err = store.FindByID(ctx, id.NewAttendanceID())
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestPostgresCreateConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	record := newRecord(id.NewAccountID(), "2026-03-02", models.StatusPresent)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO attendance")).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err = NewPostgres(db).Create(context.Background(), record)
	assert.ErrorIs(t, err, sentinel.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateAndCount(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	store := NewPostgres(db)
	ctx := context.Background()

	recordID := id.NewAttendanceID()
	account := id.NewAccountID()
	now := time.Now()
	status := models.StatusLate

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE attendance SET status = $1, updated_at = $2 WHERE id = $3 RETURNING")).
		WithArgs("late", now, recordID.String()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "account_id", "work_date", "check_in", "check_out", "status", "note", "created_at", "updated_at"}).
			AddRow(recordID.String(), account.String(), time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), now, nil, "late", "", now, now))

	got, err := store.Update(ctx, recordID, models.Patch{Status: &status}, now)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-02", got.WorkDate)
	assert.Equal(t, models.StatusLate, got.Status)
	assert.Nil(t, got.CheckOut)

	mock.ExpectQuery(regexp.QuoteMeta("FROM attendance WHERE work_date = $1")).
		WithArgs("2026-03-02").
		WillReturnRows(sqlmock.NewRows([]string{"present", "late"}).AddRow(5, 2))
	present, late, err := store.CountForDate(ctx, "2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, 5, present)
	assert.Equal(t, 2, late)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListByAccount(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	account := id.NewAccountID()
	recordID := id.NewAttendanceID()
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM attendance WHERE account_id = $1 ORDER BY work_date DESC, check_in DESC LIMIT $2")).
		WithArgs(account.String(), 500).
		WillReturnRows(sqlmock.NewRows([]string{"id", "account_id", "work_date", "check_in", "check_out", "status", "note", "created_at", "updated_at"}).
			AddRow(recordID.String(), account.String(), time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), now, nil, "present", "", now, now))

	got, err := NewPostgres(db).ListByAccount(context.Background(), account, 500)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, recordID, got[0].ID)
	assert.Equal(t, account, got[0].AccountID)
	require.NoError(t, mock.ExpectationsWereMet())
}
