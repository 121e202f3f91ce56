package installmentengine

import (
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	httpadapter "decentralfund/contexts/fund-core/installment-engine/adapters/http"
	"decentralfund/contexts/fund-core/installment-engine/adapters/memory"
	"decentralfund/contexts/fund-core/installment-engine/application"
	"decentralfund/contexts/fund-core/installment-engine/application/queries"
	"decentralfund/contexts/fund-core/installment-engine/application/workers"
	"decentralfund/contexts/fund-core/installment-engine/ports"
)

type Module struct {
	Service     *application.Service
	Projections queries.ProjectionUseCase
	Runner      workers.DuePlanRunner
	Handler     httpadapter.Handler
	Store       *memory.Store
}

type Dependencies struct {
	Plans            ports.PlanRepository
	Minter           ports.TokenMinter
	Fees             ports.FeeSink
	Outbox           ports.OutboxWriter
	Clock            ports.Clock
	IDGen            ports.IDGenerator
	MinInstallment   int64
	MinFrequency     time.Duration
	FeeBps           int64
	FeeRecipient     string
	AnnualReturnRate decimal.Decimal
	Logger           *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := &application.Service{
		Plans:          deps.Plans,
		Minter:         deps.Minter,
		Fees:           deps.Fees,
		Outbox:         deps.Outbox,
		Clock:          deps.Clock,
		IDGen:          deps.IDGen,
		MinInstallment: deps.MinInstallment,
		MinFrequency:   deps.MinFrequency,
		FeeBps:         deps.FeeBps,
		FeeRecipient:   deps.FeeRecipient,
		Logger:         deps.Logger,
	}
	projections := queries.ProjectionUseCase{
		Plans:            deps.Plans,
		AnnualReturnRate: deps.AnnualReturnRate,
	}
	return Module{
		Service:     service,
		Projections: projections,
		Runner: workers.DuePlanRunner{
			Plans:   deps.Plans,
			Service: service,
			Clock:   deps.Clock,
			Logger:  deps.Logger,
		},
		Handler: httpadapter.Handler{
			Plans:       service,
			Projections: projections,
			Logger:      deps.Logger,
		},
	}
}

func NewInMemoryModule(minter ports.TokenMinter, fees ports.FeeSink, deps Dependencies) Module {
	store := memory.NewStore()
	deps.Plans = store
	deps.Minter = minter
	deps.Fees = fees
	deps.Outbox = store
	if deps.Clock == nil {
		deps.Clock = store
	}
	deps.IDGen = store
	module := NewModule(deps)
	module.Store = store
	return module
}
