package proposalengine

import (
	"log/slog"
	"time"

	httpadapter "decentralfund/contexts/fund-core/proposal-engine/adapters/http"
	"decentralfund/contexts/fund-core/proposal-engine/adapters/memory"
	"decentralfund/contexts/fund-core/proposal-engine/application/commands"
	"decentralfund/contexts/fund-core/proposal-engine/application/queries"
	"decentralfund/contexts/fund-core/proposal-engine/application/workers"
	"decentralfund/contexts/fund-core/proposal-engine/ports"
)

type Module struct {
	Commands  *commands.ProposalUseCase
	Queries   queries.ResultsUseCase
	Finalizer workers.DeadlineFinalizer
	Handler   httpadapter.Handler
	Store     *memory.Store
}

type Dependencies struct {
	Proposals        ports.ProposalRepository
	Ledger           ports.LedgerReader
	Outbox           ports.OutboxWriter
	Clock            ports.Clock
	IDGen            ports.IDGenerator
	VotingDuration   time.Duration
	MinimumQuorum    int64
	MinProposalStake int64
	Logger           *slog.Logger
}

func NewModule(deps Dependencies) Module {
	proposalUseCase := &commands.ProposalUseCase{
		Proposals:        deps.Proposals,
		Ledger:           deps.Ledger,
		Outbox:           deps.Outbox,
		Clock:            deps.Clock,
		IDGen:            deps.IDGen,
		VotingDuration:   deps.VotingDuration,
		MinimumQuorum:    deps.MinimumQuorum,
		MinProposalStake: deps.MinProposalStake,
		Logger:           deps.Logger,
	}
	resultsUseCase := queries.ResultsUseCase{
		Proposals: deps.Proposals,
	}
	return Module{
		Commands: proposalUseCase,
		Queries:  resultsUseCase,
		Finalizer: workers.DeadlineFinalizer{
			Proposals: deps.Proposals,
			UseCase:   proposalUseCase,
			Clock:     deps.Clock,
			Logger:    deps.Logger,
		},
		Handler: httpadapter.Handler{
			Commands: proposalUseCase,
			Queries:  resultsUseCase,
			Logger:   deps.Logger,
		},
	}
}

func NewInMemoryModule(ledger ports.LedgerReader, votingDuration time.Duration, quorum, stake int64, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Proposals:        store,
		Ledger:           ledger,
		Outbox:           store,
		Clock:            store,
		IDGen:            store,
		VotingDuration:   votingDuration,
		MinimumQuorum:    quorum,
		MinProposalStake: stake,
		Logger:           logger,
	})
	module.Store = store
	return module
}
