package pgsql

import (
	portsrepo "github.com/openledgerhq/bankledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every pgsql repository onto one shared pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		EventRepo:      newPgxEventRepository(dbPool),
		SnapshotRepo:   newPgxSnapshotRepository(dbPool),
		ProjectionRepo: newPgxProjectionRepository(dbPool),
	}
}
