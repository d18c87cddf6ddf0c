package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"peoplehub/internal/attendance/models"
	"peoplehub/internal/platform/postgres"
	id "peoplehub/pkg/domain"
	"peoplehub/pkg/platform/sentinel"
)

const recordColumns = `id, account_id, work_date, check_in, check_out, status, note, created_at, updated_at`

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, r *models.Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO attendance (`+recordColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		uuid.UUID(r.ID), uuid.UUID(r.AccountID), r.WorkDate, r.CheckIn, nullTime(r.CheckOut),
		string(r.Status), r.Note, r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert attendance: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, recordID id.AttendanceID) (*models.Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM attendance WHERE id = $1`, uuid.UUID(recordID))
	return scanRecord(row)
}

func (s *PostgresStore) List(ctx context.Context, limit int) ([]models.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM attendance ORDER BY work_date DESC, check_in DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("select attendance: %w", err)
	}
	return scanRecords(rows)
}

func (s *PostgresStore) ListByAccount(ctx context.Context, accountID id.AccountID, limit int) ([]models.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM attendance WHERE account_id = $1 ORDER BY work_date DESC, check_in DESC LIMIT $2`,
		uuid.UUID(accountID), limit)
	if err != nil {
		return nil, fmt.Errorf("select attendance by account: %w", err)
	}
	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]models.Record, error) {
	defer rows.Close()

	var out []models.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Update(ctx context.Context, recordID id.AttendanceID, patch models.Patch, now time.Time) (*models.Record, error) {
	sets := []string{}
	args := []any{}
	add := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.CheckOut != nil {
		add("check_out", *patch.CheckOut)
	}
	if patch.Status != nil {
		add("status", string(*patch.Status))
	}
	if patch.Note != nil {
		add("note", *patch.Note)
	}
	add("updated_at", now)
	args = append(args, uuid.UUID(recordID))

	query := fmt.Sprintf(`UPDATE attendance SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), recordColumns)
	return scanRecord(s.db.QueryRowContext(ctx, query, args...))
}

func (s *PostgresStore) CountForDate(ctx context.Context, workDate string) (present, late int, err error) {
	err = s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE status <> 'absent'),
			COUNT(*) FILTER (WHERE status = 'late')
		FROM attendance WHERE work_date = $1`, workDate).Scan(&present, &late)
	if err != nil {
		return 0, 0, fmt.Errorf("count attendance: %w", err)
	}
	return present, late, nil
}

func scanRecord(row interface{ Scan(dest ...any) error }) (*models.Record, error) {
	var (
		r          models.Record
		rawID      uuid.UUID
		rawAccount uuid.UUID
		workDate   time.Time
		checkOut   sql.NullTime
		status     string
	)
	err := row.Scan(&rawID, &rawAccount, &workDate, &r.CheckIn, &checkOut, &status, &r.Note, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan attendance: %w", err)
	}
	r.ID = id.AttendanceID(rawID)
	r.AccountID = id.AccountID(rawAccount)
	r.WorkDate = workDate.Format(time.DateOnly)
	r.Status = models.Status(status)
	if checkOut.Valid {
		r.CheckOut = &checkOut.Time
	}
	return &r, nil
}

func nullTime(value *time.Time) sql.NullTime {
	if value == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *value, Valid: true}
}
