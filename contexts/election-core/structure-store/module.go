package structurestore

import (
	"log/slog"

	httpadapter "chainvotes/contexts/election-core/structure-store/adapters/http"
	"chainvotes/contexts/election-core/structure-store/adapters/memory"
	"chainvotes/contexts/election-core/structure-store/application/commands"
	"chainvotes/contexts/election-core/structure-store/application/queries"
	"chainvotes/contexts/election-core/structure-store/ports"
)

type Module struct {
	Commands commands.StructureUseCase
	Queries  queries.StructureQueries
	Handler  httpadapter.Handler
	Store    *memory.Store
}

type Dependencies struct {
	Structure ports.StructureRepository
	Admins    ports.AdminRegistry
	Outbox    ports.OutboxWriter
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	useCase := commands.StructureUseCase{
		Structure: deps.Structure,
		Admins:    deps.Admins,
		Outbox:    deps.Outbox,
		Clock:     deps.Clock,
		IDGen:     deps.IDGen,
		Logger:    deps.Logger,
	}
	structureQueries := queries.StructureQueries{
		Structure: deps.Structure,
	}
	return Module{
		Commands: useCase,
		Queries:  structureQueries,
		Handler: httpadapter.Handler{
			Commands: useCase,
			Queries:  structureQueries,
			Logger:   deps.Logger,
		},
	}
}

// NewInMemoryModule wires the module against the memory store. The admin
// registry is owned by access-registry and must still be supplied.
func NewInMemoryModule(admins ports.AdminRegistry, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Structure: store,
		Admins:    admins,
		Outbox:    store,
		Clock:     store,
		IDGen:     store,
		Logger:    logger,
	})
	module.Store = store
	return module
}
