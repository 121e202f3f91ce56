package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	installmentengine "decentralfund/contexts/fund-core/installment-engine"
	managerregistry "decentralfund/contexts/fund-core/manager-registry"
	registryerrors "decentralfund/contexts/fund-core/manager-registry/domain/errors"
	registryports "decentralfund/contexts/fund-core/manager-registry/ports"
	proposalengine "decentralfund/contexts/fund-core/proposal-engine"
	"decentralfund/contexts/fund-core/proposal-engine/application/queries"
	proposalentities "decentralfund/contexts/fund-core/proposal-engine/domain/entities"
	proposalerrors "decentralfund/contexts/fund-core/proposal-engine/domain/errors"
	tokenledger "decentralfund/contexts/fund-core/token-ledger"
	ledgerapp "decentralfund/contexts/fund-core/token-ledger/application"
	ledgerhttp "decentralfund/contexts/fund-core/token-ledger/transport/http"
)

// treasurySink routes installment fees back onto the token ledger, mirroring
// the production composition root.
type treasurySink struct {
	ledger *ledgerapp.Service
}

func (s treasurySink) Route(ctx context.Context, amount int64, recipient string) error {
	return s.ledger.Mint(ctx, recipient, amount)
}

// ballotTallies feeds finalized governance tallies into the registry the same
// way the composition root does.
type ballotTallies struct {
	queries queries.ResultsUseCase
}

func (b ballotTallies) ElectionTally(ctx context.Context, proposalID int64) (registryports.ElectionTally, error) {
	proposal, err := b.queries.GetProposal(ctx, proposalID)
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

func newTestServer() *Server {
	logger := slog.Default()
	ledger := tokenledger.NewInMemoryModule(nil, "fund-treasury", logger)
	governance := proposalengine.NewInMemoryModule(ledger.Service, 7*24*time.Hour, 1000, 100, logger)
	sip := installmentengine.NewInMemoryModule(ledger.Service, treasurySink{ledger: ledger.Service}, installmentengine.Dependencies{
		MinInstallment: 10,
		MinFrequency:   24 * time.Hour,
		FeeBps:         100,
		FeeRecipient:   "fund-treasury",
		Logger:         logger,
	})
	registry := managerregistry.NewInMemoryModule(ledger.Service, ballotTallies{queries: governance.Queries}, 1000, logger)
	return New(ledger, governance, sip, registry, logger, ":0")
}

func doJSON(t *testing.T, server *Server, method string, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	return rr
}

func decodeInto(t *testing.T, rr *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), target); err != nil {
		t.Fatalf("decode response %s: %v", rr.Body.String(), err)
	}
}

func TestLedgerMintAndAccountLookup(t *testing.T) {
	server := newTestServer()

	rr := doJSON(t, server, http.MethodPost, "/api/ledger/v1/mint", map[string]any{"account": "alice", "amount": 10000})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodGet, "/api/ledger/v1/accounts/alice", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var account ledgerhttp.AccountResponse
	decodeInto(t, rr, &account)
	if account.Balance != 10000 || account.VotingPower != 100 {
		t.Fatalf("unexpected account state: %+v", account)
	}
}

func TestLedgerTransferInsufficientBalanceConflicts(t *testing.T) {
	server := newTestServer()
	doJSON(t, server, http.MethodPost, "/api/ledger/v1/mint", map[string]any{"account": "alice", "amount": 50})

	rr := doJSON(t, server, http.MethodPost, "/api/ledger/v1/transfer", map[string]any{"from": "alice", "to": "bob", "amount": 100})
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d body=%s", rr.Code, rr.Body.String())
	}
	var failure ledgerhttp.ErrorResponse
	decodeInto(t, rr, &failure)
	if failure.Code != "insufficient_balance" {
		t.Fatalf("unexpected error code %q", failure.Code)
	}
}

func TestLedgerPauseRequiresOwner(t *testing.T) {
	server := newTestServer()

	rr := doJSON(t, server, http.MethodPost, "/api/ledger/v1/pause", map[string]any{"actor": "mallory"})
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodPost, "/api/ledger/v1/pause", map[string]any{"actor": "fund-treasury"})
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestGovernanceProposalLifecycleOverHTTP(t *testing.T) {
	server := newTestServer()
	doJSON(t, server, http.MethodPost, "/api/ledger/v1/mint", map[string]any{"account": "alice", "amount": 10000})

	rr := doJSON(t, server, http.MethodPost, "/api/governance/v1/proposals", map[string]any{
		"creator":     "alice",
		"title":       "Quarterly rebalance",
		"description": "Shift 10% into stablecoins",
		"options":     []string{"approve", "reject"},
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodPost, "/api/governance/v1/proposals/1/votes", map[string]any{
		"account": "alice", "option": 0, "power": 100,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodPost, "/api/governance/v1/proposals/1/finalize", nil)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 while voting is open, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodGet, "/api/governance/v1/proposals/1/results", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestGovernanceVoteOnUnknownProposalNotFound(t *testing.T) {
	server := newTestServer()
	rr := doJSON(t, server, http.MethodPost, "/api/governance/v1/proposals/42/votes", map[string]any{
		"account": "alice", "option": 0, "power": 1,
	})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestGovernanceProposalIDMustBeNumeric(t *testing.T) {
	server := newTestServer()
	rr := doJSON(t, server, http.MethodGet, "/api/governance/v1/proposals/not-a-number", nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestSIPPlanCreateAndStatistics(t *testing.T) {
	server := newTestServer()

	rr := doJSON(t, server, http.MethodPost, "/api/sip/v1/plans", map[string]any{
		"investor":               "alice",
		"amount_per_installment": 1000,
		"frequency_seconds":      30 * 24 * 60 * 60,
		"first_payment":          1000,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}
	var plan struct {
		ID                  string `json:"id"`
		TotalInvested       int64  `json:"total_invested"`
		TotalTokensReceived int64  `json:"total_tokens_received"`
		TotalFeesDeducted   int64  `json:"total_fees_deducted"`
	}
	decodeInto(t, rr, &plan)
	if plan.TotalInvested != 1000 || plan.TotalTokensReceived != 990 || plan.TotalFeesDeducted != 10 {
		t.Fatalf("unexpected plan accumulators: %+v", plan)
	}

	rr = doJSON(t, server, http.MethodGet, "/api/ledger/v1/accounts/fund-treasury", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var treasury ledgerhttp.AccountResponse
	decodeInto(t, rr, &treasury)
	if treasury.Balance != 10 {
		t.Fatalf("expected routed fee of 10 in treasury, got %d", treasury.Balance)
	}

	rr = doJSON(t, server, http.MethodGet, "/api/sip/v1/statistics", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestSIPPlanBelowMinimumRejected(t *testing.T) {
	server := newTestServer()
	rr := doJSON(t, server, http.MethodPost, "/api/sip/v1/plans", map[string]any{
		"investor":               "alice",
		"amount_per_installment": 5,
		"frequency_seconds":      30 * 24 * 60 * 60,
		"first_payment":          5,
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestManagerRegistrationStakeGateOverHTTP(t *testing.T) {
	server := newTestServer()
	doJSON(t, server, http.MethodPost, "/api/ledger/v1/mint", map[string]any{"account": "whale", "amount": 5000})

	rr := doJSON(t, server, http.MethodPost, "/api/managers/v1/register", map[string]any{
		"address": "minnow", "name": "Minnow Capital", "credentials": "CFA", "experience_years": 3,
	})
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for understaked manager, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodPost, "/api/managers/v1/register", map[string]any{
		"address": "whale", "name": "Whale Capital", "credentials": "CFA", "experience_years": 8,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodGet, "/api/managers/v1/managers/whale", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestManagerElectionEndpointGating(t *testing.T) {
	server := newTestServer()
	doJSON(t, server, http.MethodPost, "/api/ledger/v1/mint", map[string]any{"account": "whale", "amount": 10000})
	doJSON(t, server, http.MethodPost, "/api/managers/v1/register", map[string]any{
		"address": "whale", "name": "Whale Capital", "credentials": "CFA", "experience_years": 8,
	})
	doJSON(t, server, http.MethodPost, "/api/governance/v1/proposals", map[string]any{
		"creator":     "whale",
		"title":       "Elect fund managers",
		"description": "Seasonal manager election",
		"options":     []string{"whale", "Abstain"},
	})

	rr := doJSON(t, server, http.MethodPost, "/api/managers/v1/elections/99/execute", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown proposal, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodPost, "/api/managers/v1/elections/not-a-number/execute", nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed id, got %d body=%s", rr.Code, rr.Body.String())
	}

	// Voting is still open, so the ballot has not passed yet.
	rr = doJSON(t, server, http.MethodPost, "/api/managers/v1/elections/1/execute", nil)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 for unfinalized ballot, got %d body=%s", rr.Code, rr.Body.String())
	}
}
