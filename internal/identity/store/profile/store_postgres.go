package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"peoplehub/internal/identity/models"
	id "peoplehub/pkg/domain"
	"peoplehub/pkg/platform/sentinel"
)

const profileColumns = `id, owner_id, employee_code, full_name, email, phone, department, position, joined_at, created_at, updated_at`

// PostgresStore persists profiles in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, p *models.Profile) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO profiles (`+profileColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		uuid.UUID(p.ID), uuid.UUID(p.OwnerID), p.EmployeeCode, p.FullName, p.Email, p.Phone,
		p.Department, p.Position, nullTime(p.JoinedAt), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByOwner(ctx context.Context, owner id.AccountID) (*models.Profile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE owner_id = $1 ORDER BY created_at LIMIT 1`, uuid.UUID(owner))
	return scanProfile(row)
}

// Update patches the owner's earliest profile.
func (s *PostgresStore) Update(ctx context.Context, owner id.AccountID, patch models.ProfilePatch, now time.Time) (*models.Profile, error) {
	sets := []string{}
	args := []any{}
	add := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.FullName != nil {
		add("full_name", *patch.FullName)
	}
	if patch.Phone != nil {
		add("phone", *patch.Phone)
	}
	if patch.Department != nil {
		add("department", *patch.Department)
	}
	if patch.Position != nil {
		add("position", *patch.Position)
	}
	if patch.JoinedAt != nil {
		add("joined_at", *patch.JoinedAt)
	}
	add("updated_at", now)
	args = append(args, uuid.UUID(owner))

	query := fmt.Sprintf(`UPDATE profiles SET %s WHERE id = (
		SELECT id FROM profiles WHERE owner_id = $%d ORDER BY created_at LIMIT 1
	) RETURNING %s`, strings.Join(sets, ", "), len(args), profileColumns)
	return scanProfile(s.db.QueryRowContext(ctx, query, args...))
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count profiles: %w", err)
	}
	return n, nil
}

func scanProfile(row interface{ Scan(dest ...any) error }) (*models.Profile, error) {
	var (
		p        models.Profile
		rawID    uuid.UUID
		rawOwner uuid.UUID
		joined   sql.NullTime
	)
	err := row.Scan(&rawID, &rawOwner, &p.EmployeeCode, &p.FullName, &p.Email, &p.Phone,
		&p.Department, &p.Position, &joined, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan profile: %w", err)
	}
	p.ID = id.ProfileID(rawID)
	p.OwnerID = id.AccountID(rawOwner)
	if joined.Valid {
		p.JoinedAt = &joined.Time
	}
	return &p, nil
}

func nullTime(value *time.Time) sql.NullTime {
	if value == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *value, Valid: true}
}
