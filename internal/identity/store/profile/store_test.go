package profile

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peoplehub/internal/identity/models"
	id "peoplehub/pkg/domain"
	"peoplehub/pkg/platform/sentinel"
)

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := New()
	owner := id.NewAccountID()

	_, err := store.FindByOwner(ctx, owner)
	require.ErrorIs(t, err, sentinel.ErrNotFound)

	now := time.Now()
	p := &models.Profile{ID: id.NewProfileID(), OwnerID: owner, EmployeeCode: "EMP-1", FullName: "Jane", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, store.Create(ctx, p))

	got, err := store.FindByOwner(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	dept := "Finance"
	updated, err := store.Update(ctx, owner, models.ProfilePatch{Department: &dept}, now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, "Finance", updated.Department)
	assert.Equal(t, "Jane", updated.FullName)
	assert.Equal(t, 1, store.CountByOwner(owner))

	_, err = store.Update(ctx, id.NewAccountID(), models.ProfilePatch{}, now)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

var columns = []string{"id", "owner_id", "employee_code", "full_name", "email", "phone", "department", "position", "joined_at", "created_at", "updated_at"}

func TestPostgresFindByOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	store := NewPostgres(db)

	owner := id.NewAccountID()
	profileID := id.NewProfileID()
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM profiles WHERE owner_id = $1 ORDER BY created_at LIMIT 1")).
		WithArgs(owner.String()).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(
			profileID.String(), owner.String(), "EMP-01J", "Jane Doe", "jane@example.com", "", "", "", nil, now, now))

	got, err := store.FindByOwner(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, profileID, got.ID)
	assert.Equal(t, owner, got.OwnerID)
	assert.Nil(t, got.JoinedAt)

	mock.ExpectQuery(regexp.QuoteMeta("FROM profiles WHERE owner_id = $1")).
		WithArgs(owner.String()).
		WillReturnRows(sqlmock.NewRows(columns))
	_, err = store.FindByOwner(context.Background(), owner)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	store := NewPostgres(db)

	owner := id.NewAccountID()
	now := time.Now()
	position := "Analyst"

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE profiles SET position = $1, updated_at = $2 WHERE id = (")).
		WithArgs(position, now, owner.String()).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(
			id.NewProfileID().String(), owner.String(), "EMP-01J", "Jane Doe", "jane@example.com", "", "", position, nil, now, now))

	got, err := store.Update(context.Background(), owner, models.ProfilePatch{Position: &position}, now)
	require.NoError(t, err)
	assert.Equal(t, position, got.Position)
	require.NoError(t, mock.ExpectationsWereMet())
}
