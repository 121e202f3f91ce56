package tokenledger

import (
	"log/slog"

	httpadapter "decentralfund/contexts/fund-core/token-ledger/adapters/http"
	"decentralfund/contexts/fund-core/token-ledger/adapters/memory"
	"decentralfund/contexts/fund-core/token-ledger/application"
	"decentralfund/contexts/fund-core/token-ledger/domain/entities"
	"decentralfund/contexts/fund-core/token-ledger/ports"
)

type Module struct {
	Service *application.Service
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Repo   ports.Repository
	Outbox ports.OutboxWriter
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Owner  string
	Logger *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := &application.Service{
		Repo:   deps.Repo,
		Outbox: deps.Outbox,
		Clock:  deps.Clock,
		IDGen:  deps.IDGen,
		Owner:  deps.Owner,
		Logger: deps.Logger,
	}
	return Module{
		Service: service,
		Handler: httpadapter.Handler{
			Ledger: service,
			Logger: deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.Account, owner string, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Repo:   store,
		Outbox: store,
		Clock:  store,
		IDGen:  store,
		Owner:  owner,
		Logger: logger,
	})
	module.Store = store
	return module
}
