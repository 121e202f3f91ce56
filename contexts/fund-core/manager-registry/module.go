package managerregistry

import (
	"log/slog"
	"time"

	httpadapter "decentralfund/contexts/fund-core/manager-registry/adapters/http"
	"decentralfund/contexts/fund-core/manager-registry/adapters/memory"
	"decentralfund/contexts/fund-core/manager-registry/application"
	"decentralfund/contexts/fund-core/manager-registry/ports"
)

type Module struct {
	Service *application.Service
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Managers     ports.ManagerRepository
	Ledger       ports.StakeVerifier
	Elections    ports.ElectionReader
	Outbox       ports.OutboxWriter
	Clock        ports.Clock
	IDGen        ports.IDGenerator
	MinStake     int64
	MaxManagers  int
	TermDuration time.Duration
	Logger       *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := &application.Service{
		Managers:     deps.Managers,
		Ledger:       deps.Ledger,
		Elections:    deps.Elections,
		Outbox:       deps.Outbox,
		Clock:        deps.Clock,
		IDGen:        deps.IDGen,
		MinStake:     deps.MinStake,
		MaxManagers:  deps.MaxManagers,
		TermDuration: deps.TermDuration,
		Logger:       deps.Logger,
	}
	return Module{
		Service: service,
		Handler: httpadapter.Handler{
			Registry: service,
			Logger:   deps.Logger,
		},
	}
}

func NewInMemoryModule(ledger ports.StakeVerifier, elections ports.ElectionReader, minStake int64, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Managers:     store,
		Ledger:       ledger,
		Elections:    elections,
		Outbox:       store,
		Clock:        store,
		IDGen:        store,
		MinStake:     minStake,
		MaxManagers:  7,
		TermDuration: 90 * 24 * time.Hour,
		Logger:       logger,
	})
	module.Store = store
	return module
}
