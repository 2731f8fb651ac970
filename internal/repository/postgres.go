package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/platform-api/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxQuerier is the subset of *pgxpool.Pool the Postgres repository uses.
// Keeping it narrow lets tests substitute pgxmock.
type PgxQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
}

// PostgresRepository stores every collection in the single `documents`
// table (see database/migrations), one JSONB object per row.
//
// The database assigns identifiers (gen_random_uuid) and timestamps
// (now()), so both come from the store as they would with Firestore.
type PostgresRepository struct {
	db PgxQuerier
}

func NewPostgresRepository(db PgxQuerier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// serverTimestampSQL renders now() as a fixed-width UTC RFC 3339 string:
// it parses as a Go time and sorts correctly as JSONB text.
const serverTimestampSQL = `to_char(now() AT TIME ZONE 'UTC', 'YYYY-MM-DD"T"HH24:MI:SS.US"Z"')`

const (
	createDocumentSQL = `
		INSERT INTO documents (collection, data)
		VALUES ($1, $2::jsonb || jsonb_build_object($3::text, ` + serverTimestampSQL + `))
		RETURNING id, data`

	// %s is the sort direction, taken from model.SortOrder and never from input.
	listDocumentsSQL = `
		SELECT id, data
		FROM documents
		WHERE collection = $1 AND data ? $2
		ORDER BY data -> $2 %[1]s, id %[1]s`

	updateDocumentSQL = `
		UPDATE documents
		SET data = data || $3::jsonb
		WHERE collection = $1 AND id = $2`

	deleteDocumentSQL = `
		DELETE FROM documents
		WHERE collection = $1 AND id = $2`
)

func (r *PostgresRepository) List(ctx context.Context, c model.Collection) ([]model.Document, error) {
	direction := "ASC"
	if c.Order == model.Descending {
		direction = "DESC"
	}

	rows, err := r.db.Query(ctx, fmt.Sprintf(listDocumentsSQL, direction), c.Name, c.SortField)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", c.Name, err)
	}
	defer rows.Close()

	docs := make([]model.Document, 0)
	for rows.Next() {
		var id string
		var data map[string]any
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", c.Name, err)
		}
		docs = append(docs, model.Document{ID: id, Fields: model.Fields(data)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s rows: %w", c.Name, err)
	}

	return docs, nil
}

func (r *PostgresRepository) Create(ctx context.Context, c model.Collection, fields model.Fields) (model.Document, error) {
	var id string
	var data map[string]any

	err := r.db.QueryRow(ctx, createDocumentSQL, c.Name, fields.Clone(), c.SortField).Scan(&id, &data)
	if err != nil {
		return model.Document{}, fmt.Errorf("failed to create %s document: %w", c.Name, err)
	}

	return model.Document{ID: id, Fields: model.Fields(data)}, nil
}

func (r *PostgresRepository) Update(ctx context.Context, c model.Collection, id string, fields model.Fields) error {
	if len(fields) == 0 {
		return documentError(c, id, ErrEmptyUpdate)
	}

	tag, err := r.db.Exec(ctx, updateDocumentSQL, c.Name, id, fields.Clone())
	if err != nil {
		return documentError(c, id, err)
	}
	if tag.RowsAffected() == 0 {
		return documentError(c, id, ErrNotFound)
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, c model.Collection, id string) error {
	if _, err := r.db.Exec(ctx, deleteDocumentSQL, c.Name, id); err != nil {
		return documentError(c, id, err)
	}
	return nil
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
