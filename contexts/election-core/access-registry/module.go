package accessregistry

import (
	"log/slog"

	httpadapter "chainvotes/contexts/election-core/access-registry/adapters/http"
	"chainvotes/contexts/election-core/access-registry/adapters/memory"
	"chainvotes/contexts/election-core/access-registry/application"
	"chainvotes/contexts/election-core/access-registry/ports"
)

type Module struct {
	Service application.Service
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Admins ports.AdminRepository
	Outbox ports.OutboxWriter
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Admins: deps.Admins,
		Outbox: deps.Outbox,
		Clock:  deps.Clock,
		IDGen:  deps.IDGen,
		Logger: deps.Logger,
	}
	return Module{
		Service: service,
		Handler: httpadapter.Handler{
			Admins: service,
			Logger: deps.Logger,
		},
	}
}

func NewInMemoryModule(owner string, logger *slog.Logger) Module {
	store := memory.NewStore(owner)
	module := NewModule(Dependencies{
		Admins: store,
		Outbox: store,
		Clock:  store,
		IDGen:  store,
		Logger: logger,
	})
	module.Store = store
	return module
}
