package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	accessregistry "chainvotes/contexts/election-core/access-registry"
	accesspostgres "chainvotes/contexts/election-core/access-registry/adapters/postgres"
	accessworkers "chainvotes/contexts/election-core/access-registry/application/workers"
	electionfacade "chainvotes/contexts/election-core/election-facade"
	structurestore "chainvotes/contexts/election-core/structure-store"
	structurepostgres "chainvotes/contexts/election-core/structure-store/adapters/postgres"
	structureworkers "chainvotes/contexts/election-core/structure-store/application/workers"
	voteledger "chainvotes/contexts/election-core/vote-ledger"
	ledgerpostgres "chainvotes/contexts/election-core/vote-ledger/adapters/postgres"
	structureadapter "chainvotes/contexts/election-core/vote-ledger/adapters/structure"
	ledgerworkers "chainvotes/contexts/election-core/vote-ledger/application/workers"
	"chainvotes/internal/platform/config"
	"chainvotes/internal/platform/db"
	"chainvotes/internal/platform/httpserver"
	"chainvotes/internal/platform/messaging"
	"chainvotes/internal/shared/events"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

// electionEventTypes lists every event the election services emit; the
// event-log subscriber attaches to each of them.
var electionEventTypes = []string{
	"admin.added",
	"admin.removed",
	"campaign.created",
	"campaign.status_changed",
	"position.created",
	"candidate.created",
	"vote.cast",
}

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres       *db.Postgres
	kafka          *messaging.Kafka
	accessRelay    accessworkers.OutboxRelay
	structureRelay structureworkers.OutboxRelay
	ledgerRelay    ledgerworkers.OutboxRelay
	subscribeLog   bool
	relayEnabled   bool
	pollInterval   time.Duration
	logger         *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	election, err := buildElection(pg, cfg, logger)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}

	server := httpserver.New(election, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}

	accessRepo := accesspostgres.NewRepository(pg.DB, logger)
	structureRepo := structurepostgres.NewRepository(pg.DB, logger)
	ledgerRepo := ledgerpostgres.NewRepository(pg.DB, logger)

	return &WorkerApp{
		postgres: pg,
		kafka:    kafka,
		accessRelay: accessworkers.OutboxRelay{
			Outbox:    accessRepo,
			Publisher: accessPublisher{bus: kafka},
			Clock:     accesspostgres.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		structureRelay: structureworkers.OutboxRelay{
			Outbox:    structureRepo,
			Publisher: structurePublisher{bus: kafka},
			Clock:     structurepostgres.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		ledgerRelay: ledgerworkers.OutboxRelay{
			Outbox:    ledgerRepo,
			Publisher: ledgerPublisher{bus: kafka},
			Clock:     ledgerpostgres.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		subscribeLog: cfg.EnableEventLogSubscriber,
		relayEnabled: cfg.EnableOutboxRelay,
		pollInterval: 2 * time.Second,
		logger:       logger,
	}, nil
}

// buildElection wires the three election modules against postgres and seeds
// the owner admin so the owner-in-admin-set invariant holds from first boot.
func buildElection(pg *db.Postgres, cfg config.Config, logger *slog.Logger) (electionfacade.Module, error) {
	accessRepo := accesspostgres.NewRepository(pg.DB, logger)
	seedCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := accessRepo.SeedOwner(seedCtx, cfg.OwnerIdentity, time.Now().UTC()); err != nil {
		return electionfacade.Module{}, err
	}

	access := accessregistry.NewModule(accessregistry.Dependencies{
		Admins: accessRepo,
		Outbox: accessRepo,
		Clock:  accesspostgres.SystemClock{},
		IDGen:  accesspostgres.UUIDGenerator{},
		Logger: logger,
	})

	structureRepo := structurepostgres.NewRepository(pg.DB, logger)
	structure := structurestore.NewModule(structurestore.Dependencies{
		Structure: structureRepo,
		Admins:    access.Service,
		Outbox:    structureRepo,
		Clock:     structurepostgres.SystemClock{},
		IDGen:     structurepostgres.UUIDGenerator{},
		Logger:    logger,
	})

	ledgerRepo := ledgerpostgres.NewRepository(pg.DB, logger)
	ledger := voteledger.NewModule(voteledger.Dependencies{
		Ballots:   ledgerRepo,
		Structure: structureadapter.Reader{Queries: structure.Queries},
		Outbox:    ledgerRepo,
		Clock:     ledgerpostgres.SystemClock{},
		IDGen:     ledgerpostgres.UUIDGenerator{},
		Logger:    logger,
	})

	return electionfacade.NewModule(access, structure, ledger, logger), nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if w.subscribeLog {
		if err := w.startEventLog(ctx); err != nil {
			return err
		}
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
		"relay_enabled", w.relayEnabled,
	)

	for {
		if w.relayEnabled {
			if err := w.accessRelay.RunOnce(ctx); err != nil {
				return err
			}
			if err := w.structureRelay.RunOnce(ctx); err != nil {
				return err
			}
			if err := w.ledgerRelay.RunOnce(ctx); err != nil {
				return err
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// startEventLog attaches a logging consumer to every election event type so
// operators can tail the full ordered event stream.
func (w *WorkerApp) startEventLog(ctx context.Context) error {
	for _, eventType := range electionEventTypes {
		if err := w.kafka.Subscribe(ctx, eventType, "election-event-log-cg",
			func(_ context.Context, event events.Envelope) error {
				w.logger.Info("election event observed",
					"event", "event_log_observed",
					"module", "internal/app/bootstrap",
					"layer", "worker",
					"event_id", event.EventID,
					"event_type", event.EventType,
					"partition_key", event.PartitionKey,
					"source_service", event.SourceService,
				)
				return nil
			},
		); err != nil {
			return err
		}
	}
	return nil
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
