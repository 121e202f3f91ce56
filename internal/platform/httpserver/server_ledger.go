package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	ledgererrors "decentralfund/contexts/fund-core/token-ledger/domain/errors"
	ledgerhttp "decentralfund/contexts/fund-core/token-ledger/transport/http"
)

func (s *Server) handleLedgerMint(w http.ResponseWriter, r *http.Request) {
	var req ledgerhttp.MintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	resp, err := s.ledger.Handler.MintHandler(r.Context(), req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLedgerTransfer(w http.ResponseWriter, r *http.Request) {
	var req ledgerhttp.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	resp, err := s.ledger.Handler.TransferHandler(r.Context(), req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLedgerAccount(w http.ResponseWriter, r *http.Request) {
	resp, err := s.ledger.Handler.AccountHandler(r.Context(), r.PathValue("address"))
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLedgerSupply(w http.ResponseWriter, r *http.Request) {
	resp, err := s.ledger.Handler.SupplyHandler(r.Context())
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLedgerPause(w http.ResponseWriter, r *http.Request) {
	var req ledgerhttp.PauseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	if err := s.ledger.Handler.PauseHandler(r.Context(), req); err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLedgerUnpause(w http.ResponseWriter, r *http.Request) {
	var req ledgerhttp.PauseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	if err := s.ledger.Handler.UnpauseHandler(r.Context(), req); err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeLedgerDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledgererrors.ErrInvalidAmount):
		writeLedgerError(w, http.StatusBadRequest, "invalid_amount", err.Error())
	case errors.Is(err, ledgererrors.ErrInvalidAccount):
		writeLedgerError(w, http.StatusBadRequest, "invalid_account", err.Error())
	case errors.Is(err, ledgererrors.ErrInvalidRecipient):
		writeLedgerError(w, http.StatusBadRequest, "invalid_recipient", err.Error())
	case errors.Is(err, ledgererrors.ErrInsufficientBalance):
		writeLedgerError(w, http.StatusConflict, "insufficient_balance", err.Error())
	case errors.Is(err, ledgererrors.ErrLedgerPaused):
		writeLedgerError(w, http.StatusConflict, "ledger_paused", err.Error())
	case errors.Is(err, ledgererrors.ErrNotOwner):
		writeLedgerError(w, http.StatusForbidden, "not_owner", err.Error())
	case errors.Is(err, ledgererrors.ErrAccountNotFound):
		writeLedgerError(w, http.StatusNotFound, "account_not_found", err.Error())
	default:
		writeLedgerError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeLedgerError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, ledgerhttp.ErrorResponse{Code: code, Message: message})
}
