package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"peoplehub/internal/dashboard/models"
	id "peoplehub/pkg/domain"
)

type PostgresActivityStore struct {
	db *sql.DB
}

func NewPostgresActivities(db *sql.DB) *PostgresActivityStore {
	return &PostgresActivityStore{db: db}
}

func (s *PostgresActivityStore) Append(ctx context.Context, a *models.Activity) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO activities (id, kind, account_id, summary, created_at) VALUES ($1, $2, $3, $4, $5)`,
		uuid.UUID(a.ID), string(a.Kind), uuid.UUID(a.AccountID), a.Summary, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

func (s *PostgresActivityStore) ListRecent(ctx context.Context, kinds []models.ActivityKind, limit int) ([]models.Activity, error) {
	filter := make([]string, 0, len(kinds))
	for _, k := range kinds {
		filter = append(filter, string(k))
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, account_id, summary, created_at FROM activities
		WHERE cardinality($1::text[]) = 0 OR kind = ANY($1)
		ORDER BY created_at DESC
		LIMIT $2`, pq.Array(filter), limit)
	if err != nil {
		return nil, fmt.Errorf("select activities: %w", err)
	}
	defer rows.Close()

	var out []models.Activity
	for rows.Next() {
		var (
			a          models.Activity
			kind       string
			rawID      uuid.UUID
			rawAccount uuid.UUID
		)
		if err := rows.Scan(&rawID, &kind, &rawAccount, &a.Summary, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		a.ID = id.ActivityID(rawID)
		a.Kind = models.ActivityKind(kind)
		a.AccountID = id.AccountID(rawAccount)
		out = append(out, a)
	}
	return out, rows.Err()
}
