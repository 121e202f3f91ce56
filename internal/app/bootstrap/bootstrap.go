package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"

	installmentengine "decentralfund/contexts/fund-core/installment-engine"
	installmentpostgres "decentralfund/contexts/fund-core/installment-engine/adapters/postgres"
	managerregistry "decentralfund/contexts/fund-core/manager-registry"
	registrypostgres "decentralfund/contexts/fund-core/manager-registry/adapters/postgres"
	registryerrors "decentralfund/contexts/fund-core/manager-registry/domain/errors"
	registryports "decentralfund/contexts/fund-core/manager-registry/ports"
	proposalengine "decentralfund/contexts/fund-core/proposal-engine"
	proposalpostgres "decentralfund/contexts/fund-core/proposal-engine/adapters/postgres"
	"decentralfund/contexts/fund-core/proposal-engine/application/queries"
	proposalentities "decentralfund/contexts/fund-core/proposal-engine/domain/entities"
	proposalerrors "decentralfund/contexts/fund-core/proposal-engine/domain/errors"
	tokenledger "decentralfund/contexts/fund-core/token-ledger"
	ledgerpostgres "decentralfund/contexts/fund-core/token-ledger/adapters/postgres"
	ledgerapp "decentralfund/contexts/fund-core/token-ledger/application"
	"decentralfund/internal/platform/config"
	"decentralfund/internal/platform/db"
	"decentralfund/internal/platform/eventstore"
	"decentralfund/internal/platform/httpserver"
	"decentralfund/internal/platform/messaging"
	"decentralfund/internal/shared/outbox"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres  *db.Postgres
	scheduler *cron.Cron
	bus       *messaging.Bus
	archive   *eventstore.Archive
	logger    *slog.Logger
}

// fundCore holds the wired modules plus the postgres repositories the worker
// process needs as outbox relay sources.
type fundCore struct {
	ledger     tokenledger.Module
	governance proposalengine.Module
	sip        installmentengine.Module
	registry   managerregistry.Module

	ledgerRepo     *ledgerpostgres.Repository
	governanceRepo *proposalpostgres.Repository
	sipRepo        *installmentpostgres.Repository
	registryRepo   *registrypostgres.Repository
}

// ledgerFeeSink routes deducted installment fees by minting them to the
// configured fee recipient on the token ledger, so total supply reflects the
// full gross amount of every processed installment.
type ledgerFeeSink struct {
	ledger *ledgerapp.Service
}

func (s ledgerFeeSink) Route(ctx context.Context, amount int64, recipient string) error {
	return s.ledger.Mint(ctx, recipient, amount)
}

// governanceElections exposes finalized proposal tallies to the manager
// registry so elections can be executed against a passed ballot.
type governanceElections struct {
	queries queries.ResultsUseCase
}

func (g governanceElections) ElectionTally(ctx context.Context, proposalID int64) (registryports.ElectionTally, error) {
	proposal, err := g.queries.GetProposal(ctx, proposalID)
	if err != nil {
		if errors.Is(err, proposalerrors.ErrProposalNotFound) {
			return registryports.ElectionTally{}, registryerrors.ErrElectionNotFound
		}
		return registryports.ElectionTally{}, err
	}
	return registryports.ElectionTally{
		ProposalID: proposal.ID,
		Passed:     proposal.Status == proposalentities.ProposalStatusPassed,
		Options:    proposal.Options,
		Power:      proposal.OptionVotes,
	}, nil
}

func buildFundCore(pg *db.Postgres, cfg config.Config, logger *slog.Logger) (fundCore, error) {
	models := ledgerpostgres.Models()
	models = append(models, proposalpostgres.Models()...)
	models = append(models, installmentpostgres.Models()...)
	models = append(models, registrypostgres.Models()...)
	models = append(models, eventstore.Models()...)
	if err := pg.Migrate(models...); err != nil {
		return fundCore{}, err
	}

	annualRate, err := decimal.NewFromString(cfg.Params.AnnualReturnRate)
	if err != nil {
		return fundCore{}, errors.New("annual_return_rate is not a valid decimal")
	}

	ledgerRepo := ledgerpostgres.NewRepository(pg.DB, logger)
	ledger := tokenledger.NewModule(tokenledger.Dependencies{
		Repo:   ledgerRepo,
		Outbox: ledgerRepo,
		Clock:  ledgerpostgres.SystemClock{},
		IDGen:  ledgerpostgres.UUIDGenerator{},
		Owner:  cfg.Params.LedgerOwner,
		Logger: logger,
	})

	governanceRepo := proposalpostgres.NewRepository(pg.DB, logger)
	governance := proposalengine.NewModule(proposalengine.Dependencies{
		Proposals:        governanceRepo,
		Ledger:           ledger.Service,
		Outbox:           governanceRepo,
		Clock:            proposalpostgres.SystemClock{},
		IDGen:            proposalpostgres.UUIDGenerator{},
		VotingDuration:   cfg.Params.VotingDuration,
		MinimumQuorum:    cfg.Params.MinimumQuorum,
		MinProposalStake: cfg.Params.MinProposalStake,
		Logger:           logger,
	})

	sipRepo := installmentpostgres.NewRepository(pg.DB, logger)
	sip := installmentengine.NewModule(installmentengine.Dependencies{
		Plans:            sipRepo,
		Minter:           ledger.Service,
		Fees:             ledgerFeeSink{ledger: ledger.Service},
		Outbox:           sipRepo,
		Clock:            installmentpostgres.SystemClock{},
		IDGen:            installmentpostgres.UUIDGenerator{},
		MinInstallment:   cfg.Params.MinInstallmentAmount,
		MinFrequency:     cfg.Params.MinFrequency,
		FeeBps:           cfg.Params.FeeBps,
		FeeRecipient:     cfg.Params.FeeRecipient,
		AnnualReturnRate: annualRate,
		Logger:           logger,
	})

	registryRepo := registrypostgres.NewRepository(pg.DB, logger)
	registry := managerregistry.NewModule(managerregistry.Dependencies{
		Managers:     registryRepo,
		Ledger:       ledger.Service,
		Elections:    governanceElections{queries: governance.Queries},
		Outbox:       registryRepo,
		Clock:        registrypostgres.SystemClock{},
		IDGen:        registrypostgres.UUIDGenerator{},
		MinStake:     cfg.Params.MinManagerStake,
		MaxManagers:  cfg.Params.MaxFundManagers,
		TermDuration: cfg.Params.ManagerTermDuration,
		Logger:       logger,
	})

	return fundCore{
		ledger:     ledger,
		governance: governance,
		sip:        sip,
		registry:   registry,

		ledgerRepo:     ledgerRepo,
		governanceRepo: governanceRepo,
		sipRepo:        sipRepo,
		registryRepo:   registryRepo,
	}, nil
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

	core, err := buildFundCore(pg, cfg, logger)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}

	server := httpserver.New(
		core.ledger,
		core.governance,
		core.sip,
		core.registry,
		logger,
		normalizeAddr(cfg.HTTPPort),
	)
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

	core, err := buildFundCore(pg, cfg, logger)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}

	bus := messaging.NewBus(logger)
	relays := []outbox.Relay{
		{Name: "token-ledger", Source: core.ledgerRepo, Publisher: bus, BatchSize: 100, Logger: logger},
		{Name: "proposal-engine", Source: core.governanceRepo, Publisher: bus, BatchSize: 100, Logger: logger},
		{Name: "installment-engine", Source: core.sipRepo, Publisher: bus, BatchSize: 100, Logger: logger},
		{Name: "manager-registry", Source: core.registryRepo, Publisher: bus, BatchSize: 100, Logger: logger},
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.InstallmentCron, runJob(logger, "due_plan_runner", core.sip.Runner.RunOnce)); err != nil {
		_ = pg.Close()
		return nil, err
	}
	if _, err := scheduler.AddFunc(cfg.FinalizerCron, runJob(logger, "deadline_finalizer", core.governance.Finalizer.RunOnce)); err != nil {
		_ = pg.Close()
		return nil, err
	}
	for _, relay := range relays {
		if _, err := scheduler.AddFunc(cfg.OutboxCron, runJob(logger, "outbox_relay_"+relay.Name, relay.RunOnce)); err != nil {
			_ = pg.Close()
			return nil, err
		}
	}

	return &WorkerApp{
		postgres:  pg,
		scheduler: scheduler,
		bus:       bus,
		archive:   eventstore.NewArchive(pg.DB, logger),
		logger:    logger,
	}, nil
}

// runJob adapts a RunOnce worker method into a cron job that never panics the
// scheduler: failures are logged and retried on the next tick.
func runJob(logger *slog.Logger, name string, run func(ctx context.Context) error) func() {
	return func() {
		if err := run(context.Background()); err != nil {
			logger.Error("scheduled job failed",
				"event", "bootstrap_job_failed",
				"module", "internal/app/bootstrap",
				"layer", "worker",
				"job", name,
				"error", err.Error(),
			)
		}
	}
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
	if err := w.bus.SubscribeAll(ctx, "event-archive", w.archive.HandleEvent); err != nil {
		return err
	}
	w.scheduler.Start()
	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)

	<-ctx.Done()
	stopped := w.scheduler.Stop()
	<-stopped.Done()
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
