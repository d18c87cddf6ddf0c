package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"peoplehub/internal/settings/models"
	id "peoplehub/pkg/domain"
	"peoplehub/pkg/platform/sentinel"
)

// PostgresStore keeps settings in a single-row table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context) (*models.Settings, error) {
	var (
		out       models.Settings
		updatedBy uuid.NullUUID
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT company_name, timezone, workday_start, workday_end, updated_by, updated_at FROM settings WHERE id = 1`,
	).Scan(&out.CompanyName, &out.Timezone, &out.WorkdayStart, &out.WorkdayEnd, &updatedBy, &out.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("select settings: %w", err)
	}
	if updatedBy.Valid {
		actor := id.AccountID(updatedBy.UUID)
		out.UpdatedBy = &actor
	}
	return &out, nil
}

func (s *PostgresStore) Put(ctx context.Context, settings *models.Settings) error {
	var updatedBy uuid.NullUUID
	if settings.UpdatedBy != nil {
		updatedBy = uuid.NullUUID{UUID: uuid.UUID(*settings.UpdatedBy), Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (id, company_name, timezone, workday_start, workday_end, updated_by, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			company_name = EXCLUDED.company_name,
			timezone = EXCLUDED.timezone,
			workday_start = EXCLUDED.workday_start,
			workday_end = EXCLUDED.workday_end,
			updated_by = EXCLUDED.updated_by,
			updated_at = EXCLUDED.updated_at`,
		settings.CompanyName, settings.Timezone, settings.WorkdayStart, settings.WorkdayEnd, updatedBy, settings.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}
