package pgsql

import (
	portsrepo "github.com/SscSPs/cash_flow_app/internal/core/ports/repositories"
	"github.com/SscSPs/cash_flow_app/internal/repositories/snapshot"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider stores the named snapshot in PostgreSQL.
func NewRepositoryProvider(dbPool *pgxpool.Pool, snapshotName string) portsrepo.RepositoryProvider {
	return snapshot.NewRepositoryProvider(NewDocumentStore(dbPool), snapshotName)
}
