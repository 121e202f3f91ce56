package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	installmentengine "decentralfund/contexts/fund-core/installment-engine"
	managerregistry "decentralfund/contexts/fund-core/manager-registry"
	proposalengine "decentralfund/contexts/fund-core/proposal-engine"
	tokenledger "decentralfund/contexts/fund-core/token-ledger"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "decentralfund/internal/platform/httpserver/docs"
)

type Server struct {
	mux        *http.ServeMux
	logger     *slog.Logger
	addr       string
	ledger     tokenledger.Module
	governance proposalengine.Module
	sip        installmentengine.Module
	registry   managerregistry.Module
}

func New(
	ledger tokenledger.Module,
	governance proposalengine.Module,
	sip installmentengine.Module,
	registry managerregistry.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:        http.NewServeMux(),
		logger:     logger,
		addr:       addr,
		ledger:     ledger,
		governance: governance,
		sip:        sip,
		registry:   registry,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /api/ledger/v1/mint", s.handleLedgerMint)
	s.mux.HandleFunc("POST /api/ledger/v1/transfer", s.handleLedgerTransfer)
	s.mux.HandleFunc("GET /api/ledger/v1/accounts/{address}", s.handleLedgerAccount)
	s.mux.HandleFunc("GET /api/ledger/v1/supply", s.handleLedgerSupply)
	s.mux.HandleFunc("POST /api/ledger/v1/pause", s.handleLedgerPause)
	s.mux.HandleFunc("POST /api/ledger/v1/unpause", s.handleLedgerUnpause)

	s.mux.HandleFunc("POST /api/governance/v1/proposals", s.handleCreateProposal)
	s.mux.HandleFunc("GET /api/governance/v1/proposals", s.handleListProposals)
	s.mux.HandleFunc("GET /api/governance/v1/proposals/{proposal_id}", s.handleGetProposal)
	s.mux.HandleFunc("POST /api/governance/v1/proposals/{proposal_id}/votes", s.handleVote)
	s.mux.HandleFunc("POST /api/governance/v1/proposals/{proposal_id}/finalize", s.handleFinalize)
	s.mux.HandleFunc("GET /api/governance/v1/proposals/{proposal_id}/results", s.handleResults)

	s.mux.HandleFunc("POST /api/sip/v1/plans", s.handleCreatePlan)
	s.mux.HandleFunc("GET /api/sip/v1/plans", s.handleListPlans)
	s.mux.HandleFunc("GET /api/sip/v1/plans/{plan_id}", s.handleGetPlan)
	s.mux.HandleFunc("POST /api/sip/v1/plans/{plan_id}/payments", s.handleProcessInstallment)
	s.mux.HandleFunc("GET /api/sip/v1/plans/{plan_id}/payments", s.handleListPayments)
	s.mux.HandleFunc("POST /api/sip/v1/plans/{plan_id}/pause", s.handlePausePlan)
	s.mux.HandleFunc("POST /api/sip/v1/plans/{plan_id}/resume", s.handleResumePlan)
	s.mux.HandleFunc("POST /api/sip/v1/plans/{plan_id}/cancel", s.handleCancelPlan)
	s.mux.HandleFunc("GET /api/sip/v1/plans/{plan_id}/projection", s.handleProjection)
	s.mux.HandleFunc("GET /api/sip/v1/statistics", s.handleStatistics)

	s.mux.HandleFunc("POST /api/managers/v1/register", s.handleRegisterManager)
	s.mux.HandleFunc("GET /api/managers/v1/managers", s.handleListManagers)
	s.mux.HandleFunc("GET /api/managers/v1/managers/{address}", s.handleGetManager)
	s.mux.HandleFunc("POST /api/managers/v1/managers/{address}/performance", s.handleRecordPerformance)
	s.mux.HandleFunc("POST /api/managers/v1/elections/{proposal_id}/execute", s.handleExecuteElection)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
