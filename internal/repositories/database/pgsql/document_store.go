package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/cash_flow_app/internal/apperrors"
	portsrepo "github.com/SscSPs/cash_flow_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxDocumentStore keeps snapshot documents as JSONB rows of the snapshot_documents table.
type PgxDocumentStore struct {
	BaseRepository
}

// NewDocumentStore creates a document store on top of the pool.
func NewDocumentStore(pool *pgxpool.Pool) portsrepo.DocumentStoreWithTx {
	return &PgxDocumentStore{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.DocumentStoreWithTx = (*PgxDocumentStore)(nil)

// Load reads the document body.
func (r *PgxDocumentStore) Load(ctx context.Context, name string) ([]byte, error) {
	query := `
		SELECT body
		FROM snapshot_documents
		WHERE name = $1;
	`
	var body []byte
	err := r.Pool.QueryRow(ctx, query, name).Scan(&body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("document %s: %w", name, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load document %s: %w", name, err)
	}
	return body, nil
}

// Save upserts the document inside a transaction; the row is locked for the duration so two
// writers of the same document serialize.
func (r *PgxDocumentStore) Save(ctx context.Context, name string, data []byte) (err error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = r.Rollback(ctx, tx)
		}
	}()

	if _, err = tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1));`, name); err != nil {
		return fmt.Errorf("failed to lock document %s: %w", name, err)
	}

	query := `
		INSERT INTO snapshot_documents (name, body, updated_at)
		VALUES ($1, $2::jsonb, NOW())
		ON CONFLICT (name) DO UPDATE SET
			body = EXCLUDED.body,
			updated_at = EXCLUDED.updated_at;
	`
	if _, err = tx.Exec(ctx, query, name, string(data)); err != nil {
		return fmt.Errorf("failed to save document %s: %w", name, err)
	}

	return r.Commit(ctx, tx)
}
