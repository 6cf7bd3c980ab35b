package voteledger

import (
	"log/slog"

	httpadapter "chainvotes/contexts/election-core/vote-ledger/adapters/http"
	"chainvotes/contexts/election-core/vote-ledger/adapters/memory"
	"chainvotes/contexts/election-core/vote-ledger/application/commands"
	"chainvotes/contexts/election-core/vote-ledger/application/queries"
	"chainvotes/contexts/election-core/vote-ledger/application/workers"
	"chainvotes/contexts/election-core/vote-ledger/ports"
)

type Module struct {
	Commands commands.VoteUseCase
	Queries  queries.LedgerQueries
	Handler  httpadapter.Handler
	Store    *memory.Store
}

type Dependencies struct {
	Ballots   ports.BallotRepository
	Structure ports.StructureReader
	Outbox    ports.OutboxWriter
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	useCase := commands.VoteUseCase{
		Ballots:   deps.Ballots,
		Structure: deps.Structure,
		Outbox:    deps.Outbox,
		Clock:     deps.Clock,
		IDGen:     deps.IDGen,
		Logger:    deps.Logger,
	}
	ledgerQueries := queries.LedgerQueries{
		Ballots: deps.Ballots,
	}
	return Module{
		Commands: useCase,
		Queries:  ledgerQueries,
		Handler: httpadapter.Handler{
			Commands: useCase,
			Queries:  ledgerQueries,
			Logger:   deps.Logger,
		},
	}
}

// NewInMemoryModule wires the ledger against the memory store. The structure
// reader and tally mutator come from the structure-store module so ballots
// and tallies share one source of truth.
func NewInMemoryModule(
	structure ports.StructureReader,
	tally ports.TallyMutator,
	logger *slog.Logger,
) Module {
	store := memory.NewStore(tally)
	module := NewModule(Dependencies{
		Ballots:   store,
		Structure: structure,
		Outbox:    store,
		Clock:     store,
		IDGen:     store,
		Logger:    logger,
	})
	module.Store = store
	return module
}

// NewOutboxRelay builds the worker that drains this module's outbox.
func NewOutboxRelay(
	outbox ports.OutboxRepository,
	publisher ports.EventPublisher,
	clock ports.Clock,
	batchSize int,
	logger *slog.Logger,
) workers.OutboxRelay {
	return workers.OutboxRelay{
		Outbox:    outbox,
		Publisher: publisher,
		Clock:     clock,
		BatchSize: batchSize,
		Logger:    logger,
	}
}
