package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	siperrors "decentralfund/contexts/fund-core/installment-engine/domain/errors"
	siphttp "decentralfund/contexts/fund-core/installment-engine/transport/http"
)

const defaultProjectionHorizon = 365 * 24 * time.Hour

func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var req siphttp.CreatePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSIPError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	resp, err := s.sip.Handler.CreatePlanHandler(r.Context(), req)
	if err != nil {
		writeSIPDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	resp, err := s.sip.Handler.ListPlansHandler(r.Context(), r.URL.Query().Get("investor"))
	if err != nil {
		writeSIPDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	resp, err := s.sip.Handler.PlanHandler(r.Context(), r.PathValue("plan_id"))
	if err != nil {
		writeSIPDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleProcessInstallment(w http.ResponseWriter, r *http.Request) {
	var req siphttp.ProcessInstallmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSIPError(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	resp, err := s.sip.Handler.ProcessInstallmentHandler(r.Context(), r.PathValue("plan_id"), req)
	if err != nil {
		writeSIPDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListPayments(w http.ResponseWriter, r *http.Request) {
	resp, err := s.sip.Handler.PaymentsHandler(r.Context(), r.PathValue("plan_id"))
	if err != nil {
		writeSIPDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePausePlan(w http.ResponseWriter, r *http.Request) {
	resp, err := s.sip.Handler.PauseHandler(r.Context(), r.PathValue("plan_id"))
	if err != nil {
		writeSIPDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResumePlan(w http.ResponseWriter, r *http.Request) {
	resp, err := s.sip.Handler.ResumeHandler(r.Context(), r.PathValue("plan_id"))
	if err != nil {
		writeSIPDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCancelPlan(w http.ResponseWriter, r *http.Request) {
	resp, err := s.sip.Handler.CancelHandler(r.Context(), r.PathValue("plan_id"))
	if err != nil {
		writeSIPDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleProjection(w http.ResponseWriter, r *http.Request) {
	horizon := defaultProjectionHorizon
	if raw := r.URL.Query().Get("horizon_days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days <= 0 {
			writeSIPError(w, http.StatusBadRequest, "invalid_horizon", "horizon_days must be a positive integer")
			return
		}
		horizon = time.Duration(days) * 24 * time.Hour
	}
	resp, err := s.sip.Handler.ProjectionHandler(r.Context(), r.PathValue("plan_id"), horizon)
	if err != nil {
		writeSIPDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	resp, err := s.sip.Handler.StatisticsHandler(r.Context())
	if err != nil {
		writeSIPDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeSIPDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, siperrors.ErrPlanNotFound):
		writeSIPError(w, http.StatusNotFound, "plan_not_found", err.Error())
	case errors.Is(err, siperrors.ErrInvalidInvestor):
		writeSIPError(w, http.StatusBadRequest, "invalid_investor", err.Error())
	case errors.Is(err, siperrors.ErrInvalidAmount):
		writeSIPError(w, http.StatusBadRequest, "invalid_amount", err.Error())
	case errors.Is(err, siperrors.ErrBelowMinimumInstallment):
		writeSIPError(w, http.StatusBadRequest, "below_minimum_installment", err.Error())
	case errors.Is(err, siperrors.ErrBelowMinimumFrequency):
		writeSIPError(w, http.StatusBadRequest, "below_minimum_frequency", err.Error())
	case errors.Is(err, siperrors.ErrInsufficientFirstPayment):
		writeSIPError(w, http.StatusBadRequest, "insufficient_first_payment", err.Error())
	case errors.Is(err, siperrors.ErrPlanNotActive):
		writeSIPError(w, http.StatusConflict, "plan_not_active", err.Error())
	case errors.Is(err, siperrors.ErrInvalidTransition):
		writeSIPError(w, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, siperrors.ErrAlreadyTerminal):
		writeSIPError(w, http.StatusConflict, "already_terminal", err.Error())
	default:
		writeSIPError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeSIPError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, siphttp.ErrorResponse{Code: code, Message: message})
}
