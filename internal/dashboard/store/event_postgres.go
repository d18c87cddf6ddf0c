package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"peoplehub/internal/dashboard/models"
	id "peoplehub/pkg/domain"
)

type PostgresEventStore struct {
	db *sql.DB
}

func NewPostgresEvents(db *sql.DB) *PostgresEventStore {
	return &PostgresEventStore{db: db}
}

func (s *PostgresEventStore) Create(ctx context.Context, e *models.Event) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO dashboard_events (id, title, description, starts_at, created_by, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.UUID(e.ID), e.Title, e.Description, e.StartsAt, uuid.UUID(e.CreatedBy), e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert dashboard event: %w", err)
	}
	return nil
}

func (s *PostgresEventStore) ListUpcoming(ctx context.Context, from time.Time, limit int) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, starts_at, created_by, created_at FROM dashboard_events
		WHERE starts_at >= $1
		ORDER BY starts_at
		LIMIT $2`, from, limit)
	if err != nil {
		return nil, fmt.Errorf("select dashboard events: %w", err)
	}
	defer rows.Close()

	var out []models.Event
	for rows.Next() {
		var (
			e         models.Event
			rawID     uuid.UUID
			rawAuthor uuid.UUID
		)
		if err := rows.Scan(&rawID, &e.Title, &e.Description, &e.StartsAt, &rawAuthor, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan dashboard event: %w", err)
		}
		e.ID = id.EventID(rawID)
		e.CreatedBy = id.AccountID(rawAuthor)
		out = append(out, e)
	}
	return out, rows.Err()
}
