package electionfacade

import (
	"log/slog"
	"time"

	accessregistry "chainvotes/contexts/election-core/access-registry"
	accessmemory "chainvotes/contexts/election-core/access-registry/adapters/memory"
	httpadapter "chainvotes/contexts/election-core/election-facade/adapters/http"
	"chainvotes/contexts/election-core/election-facade/application"
	structurestore "chainvotes/contexts/election-core/structure-store"
	structurememory "chainvotes/contexts/election-core/structure-store/adapters/memory"
	voteledger "chainvotes/contexts/election-core/vote-ledger"
	ledgermemory "chainvotes/contexts/election-core/vote-ledger/adapters/memory"
	structureadapter "chainvotes/contexts/election-core/vote-ledger/adapters/structure"
)

// Clock lets callers drive every module from one time source.
type Clock interface {
	Now() time.Time
}

type Module struct {
	Service application.Service
	Handler httpadapter.Handler

	Access    accessregistry.Module
	Structure structurestore.Module
	Ledger    voteledger.Module
}

// NewInMemoryModule wires the full election surface against memory stores.
// A nil clock leaves each store on the system clock; tests pass a fixed one.
func NewInMemoryModule(owner string, clock Clock, logger *slog.Logger) Module {
	accessStore := accessmemory.NewStore(owner)
	access := accessregistry.NewModule(accessregistry.Dependencies{
		Admins: accessStore,
		Outbox: accessStore,
		Clock:  resolveClock(clock, accessStore),
		IDGen:  accessStore,
		Logger: logger,
	})
	access.Store = accessStore

	structureStore := structurememory.NewStore()
	structure := structurestore.NewModule(structurestore.Dependencies{
		Structure: structureStore,
		Admins:    access.Service,
		Outbox:    structureStore,
		Clock:     resolveClock(clock, structureStore),
		IDGen:     structureStore,
		Logger:    logger,
	})
	structure.Store = structureStore

	ledgerStore := ledgermemory.NewStore(structureStore)
	ledger := voteledger.NewModule(voteledger.Dependencies{
		Ballots:   ledgerStore,
		Structure: structureadapter.Reader{Queries: structure.Queries},
		Outbox:    ledgerStore,
		Clock:     resolveClock(clock, ledgerStore),
		IDGen:     ledgerStore,
		Logger:    logger,
	})
	ledger.Store = ledgerStore

	service := application.Service{
		Admins:    access.Service,
		Structure: structure.Commands,
		Queries:   structure.Queries,
		Ledger:    ledger.Commands,
		Ballots:   ledger.Queries,
		Logger:    logger,
	}
	return Module{
		Service: service,
		Handler: httpadapter.Handler{
			Election: service,
			Logger:   logger,
		},
		Access:    access,
		Structure: structure,
		Ledger:    ledger,
	}
}

// NewModule composes a facade over already-built sub-modules, used by the
// postgres bootstrap where each module carries its own repository wiring.
func NewModule(
	access accessregistry.Module,
	structure structurestore.Module,
	ledger voteledger.Module,
	logger *slog.Logger,
) Module {
	service := application.Service{
		Admins:    access.Service,
		Structure: structure.Commands,
		Queries:   structure.Queries,
		Ledger:    ledger.Commands,
		Ballots:   ledger.Queries,
		Logger:    logger,
	}
	return Module{
		Service: service,
		Handler: httpadapter.Handler{
			Election: service,
			Logger:   logger,
		},
		Access:    access,
		Structure: structure,
		Ledger:    ledger,
	}
}

func resolveClock(clock Clock, fallback Clock) Clock {
	if clock != nil {
		return clock
	}
	return fallback
}
