package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"peoplehub/internal/identity/models"
	"peoplehub/internal/platform/postgres"
	id "peoplehub/pkg/domain"
	"peoplehub/pkg/platform/sentinel"
)

const accountColumns = `id, email, name, role, password_hash, oauth_subject, phone, avatar_url, created_at, updated_at`

// PostgresStore persists accounts in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, a *models.Account) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (`+accountColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		uuid.UUID(a.ID), a.Email, a.Name, string(a.Role), a.PasswordHash, a.OAuthSubject, a.Phone, a.AvatarURL,
		a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, accountID id.AccountID) (*models.Account, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, uuid.UUID(accountID))
	return scanAccount(row)
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email)
	return scanAccount(row)
}

// FindByPhone returns the oldest account bound to phone.
func (s *PostgresStore) FindByPhone(ctx context.Context, phone string) (*models.Account, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE phone = $1 ORDER BY created_at LIMIT 1`, phone)
	return scanAccount(row)
}

// Update applies only the non-nil patch fields and returns the stored row.
func (s *PostgresStore) Update(ctx context.Context, accountID id.AccountID, patch models.AccountPatch, now time.Time) (*models.Account, error) {
	sets := []string{}
	args := []any{}
	add := func(column string, v *string) {
		if v != nil {
			args = append(args, *v)
			sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
		}
	}
	add("name", patch.Name)
	add("password_hash", patch.PasswordHash)
	add("oauth_subject", patch.OAuthSubject)
	add("avatar_url", patch.AvatarURL)
	add("phone", patch.Phone)

	args = append(args, now)
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)))
	args = append(args, uuid.UUID(accountID))

	query := fmt.Sprintf(`UPDATE accounts SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), accountColumns)
	return scanAccount(s.db.QueryRowContext(ctx, query, args...))
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Account, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var out []*models.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count accounts: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*models.Account, error) {
	var (
		a     models.Account
		rawID uuid.UUID
		role  string
	)
	err := row.Scan(&rawID, &a.Email, &a.Name, &role, &a.PasswordHash, &a.OAuthSubject, &a.Phone, &a.AvatarURL,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}
	a.ID = id.AccountID(rawID)
	a.Role = models.Role(role)
	return &a, nil
}
