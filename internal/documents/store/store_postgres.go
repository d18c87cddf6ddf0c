package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"peoplehub/internal/documents/models"
	id "peoplehub/pkg/domain"
)

const documentColumns = `id, owner_id, category, title, url, created_at`

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, doc *models.Document) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (`+documentColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.UUID(doc.ID), uuid.UUID(doc.OwnerID), string(doc.Category), doc.Title, doc.URL, doc.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByOwnerCategory(ctx context.Context, owner id.AccountID, category models.Category) ([]models.Document, error) {
	return s.query(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE owner_id = $1 AND category = $2 ORDER BY created_at DESC`,
		uuid.UUID(owner), string(category))
}

func (s *PostgresStore) ListByCategory(ctx context.Context, category models.Category) ([]models.Document, error) {
	return s.query(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE category = $1 ORDER BY created_at DESC`,
		string(category))
}

func (s *PostgresStore) ListAll(ctx context.Context) ([]models.Document, error) {
	return s.query(ctx, `SELECT `+documentColumns+` FROM documents ORDER BY created_at DESC`)
}

func (s *PostgresStore) query(ctx context.Context, query string, args ...any) ([]models.Document, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select documents: %w", err)
	}
	defer rows.Close()

	out := make([]models.Document, 0)
	for rows.Next() {
		var (
			d        models.Document
			rawID    uuid.UUID
			rawOwner uuid.UUID
			category string
		)
		if err := rows.Scan(&rawID, &rawOwner, &category, &d.Title, &d.URL, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		d.ID = id.DocumentID(rawID)
		d.OwnerID = id.AccountID(rawOwner)
		d.Category = models.Category(category)
		out = append(out, d)
	}
	return out, rows.Err()
}
