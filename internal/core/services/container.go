package services

import (
	portsrepo "github.com/openledgerhq/bankledger/internal/core/ports/repositories"
	portssvc "github.com/openledgerhq/bankledger/internal/core/ports/services"
)

// NewContainer creates a new service container with properly initialized
// dependencies.
func NewContainer(repos *portsrepo.RepositoryProvider, snapshotInterval int64) *portssvc.ServiceContainer {
	loader := NewAggregateLoader(repos.EventRepo, repos.SnapshotRepo)
	projection := NewProjectionService(repos.ProjectionRepo, repos.EventRepo)

	return &portssvc.ServiceContainer{
		Command:    NewAccountCommandService(loader, repos.EventRepo, repos.SnapshotRepo, projection, snapshotInterval),
		Query:      NewAccountQueryService(repos.ProjectionRepo, repos.EventRepo),
		Projection: projection,
	}
}
