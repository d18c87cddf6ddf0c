//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"peoplehub/internal/attendance/models"
	identitymodels "peoplehub/internal/identity/models"
	accountstore "peoplehub/internal/identity/store/account"
	"peoplehub/internal/platform/postgres"
	id "peoplehub/pkg/domain"
	"peoplehub/pkg/platform/sentinel"
	"peoplehub/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	pg      *containers.PostgresContainer
	store   *PostgresStore
	account id.AccountID
}

func TestPostgresStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.Require().NoError(postgres.Migrate(context.Background(), s.pg.DB))
	s.store = NewPostgres(s.pg.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	_, err := s.pg.DB.ExecContext(ctx, `TRUNCATE attendance, profiles, accounts CASCADE`)
	s.Require().NoError(err)

	now := time.Now().UTC()
	s.account = id.NewAccountID()
	s.Require().NoError(accountstore.NewPostgres(s.pg.DB).Create(ctx, &identitymodels.Account{
		ID: s.account, Email: "jane@example.test", Role: identitymodels.RoleEmployee, CreatedAt: now, UpdatedAt: now,
	}))
}

func (s *PostgresStoreSuite) newRecord(date string, status models.Status) *models.Record {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &models.Record{
		ID: id.NewAttendanceID(), AccountID: s.account, WorkDate: date,
		CheckIn: now, Status: status, CreatedAt: now, UpdatedAt: now,
	}
}

func (s *PostgresStoreSuite) TestOneRecordPerAccountAndDay() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, s.newRecord("2026-03-02", models.StatusPresent)))
	s.ErrorIs(s.store.Create(ctx, s.newRecord("2026-03-02", models.StatusLate)), sentinel.ErrConflict)
	s.Require().NoError(s.store.Create(ctx, s.newRecord("2026-03-03", models.StatusLate)))

	present, late, err := s.store.CountForDate(ctx, "2026-03-03")
	s.Require().NoError(err)
	s.Equal(1, present)
	s.Equal(1, late)
}

func (s *PostgresStoreSuite) TestUpdateAndFind() {
	ctx := context.Background()
	record := s.newRecord("2026-03-02", models.StatusPresent)
	s.Require().NoError(s.store.Create(ctx, record))

	out := time.Now().UTC().Truncate(time.Microsecond)
	note := "left early"
	_, err := s.store.Update(ctx, record.ID, models.Patch{CheckOut: &out, Note: &note}, out)
	s.Require().NoError(err)

	got, err := s.store.FindByID(ctx, record.ID)
	s.Require().NoError(err)
	s.Equal("2026-03-02", got.WorkDate)
	s.Require().NotNil(got.CheckOut)
	s.True(out.Equal(*got.CheckOut))
	s.Equal(note, got.Note)

	_, err = s.store.FindByID(ctx, id.NewAttendanceID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}
