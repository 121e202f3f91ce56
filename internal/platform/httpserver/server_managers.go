package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	registryerrors "decentralfund/contexts/fund-core/manager-registry/domain/errors"
	registryhttp "decentralfund/contexts/fund-core/manager-registry/transport/http"
)

func (s *Server) handleRegisterManager(w http.ResponseWriter, r *http.Request) {
	var req registryhttp.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRegistryError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	resp, err := s.registry.Handler.RegisterHandler(r.Context(), req)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListManagers(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	resp, err := s.registry.Handler.ListManagersHandler(r.Context(), activeOnly)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetManager(w http.ResponseWriter, r *http.Request) {
	resp, err := s.registry.Handler.ManagerHandler(r.Context(), r.PathValue("address"))
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRecordPerformance(w http.ResponseWriter, r *http.Request) {
	var req registryhttp.PerformanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRegistryError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	resp, err := s.registry.Handler.PerformanceHandler(r.Context(), r.PathValue("address"), req)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleExecuteElection(w http.ResponseWriter, r *http.Request) {
	proposalID, err := strconv.ParseInt(r.PathValue("proposal_id"), 10, 64)
	if err != nil {
		writeRegistryError(w, http.StatusBadRequest, "invalid_proposal_id", "proposal id must be an integer")
		return
	}
	resp, err := s.registry.Handler.ElectionHandler(r.Context(), proposalID)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeRegistryDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, registryerrors.ErrManagerNotFound):
		writeRegistryError(w, http.StatusNotFound, "manager_not_found", err.Error())
	case errors.Is(err, registryerrors.ErrInvalidAddress):
		writeRegistryError(w, http.StatusBadRequest, "invalid_address", err.Error())
	case errors.Is(err, registryerrors.ErrEmptyName):
		writeRegistryError(w, http.StatusBadRequest, "empty_name", err.Error())
	case errors.Is(err, registryerrors.ErrNoExperience):
		writeRegistryError(w, http.StatusBadRequest, "no_experience", err.Error())
	case errors.Is(err, registryerrors.ErrNotEligible):
		writeRegistryError(w, http.StatusForbidden, "not_eligible", err.Error())
	case errors.Is(err, registryerrors.ErrElectionNotFound):
		writeRegistryError(w, http.StatusNotFound, "election_not_found", err.Error())
	case errors.Is(err, registryerrors.ErrElectionNotPassed):
		writeRegistryError(w, http.StatusConflict, "election_not_passed", err.Error())
	case errors.Is(err, registryerrors.ErrNoCandidates):
		writeRegistryError(w, http.StatusConflict, "no_candidates", err.Error())
	default:
		writeRegistryError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeRegistryError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, registryhttp.ErrorResponse{Code: code, Message: message})
}
