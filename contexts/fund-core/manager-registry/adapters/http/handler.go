package httpadapter

import (
	"context"
	"log/slog"

	"decentralfund/contexts/fund-core/manager-registry/application"
	"decentralfund/contexts/fund-core/manager-registry/domain/entities"
	httptransport "decentralfund/contexts/fund-core/manager-registry/transport/http"
)

type Handler struct {
	Registry *application.Service
	Logger   *slog.Logger
}

func (h Handler) RegisterHandler(ctx context.Context, req httptransport.RegisterRequest) (httptransport.ManagerResponse, error) {
	manager, err := h.Registry.Register(ctx, application.RegisterInput{
		Address:         req.Address,
		Name:            req.Name,
		Credentials:     req.Credentials,
		ExperienceYears: req.ExperienceYears,
	})
	if err != nil {
		return httptransport.ManagerResponse{}, err
	}
	return managerResponse(manager), nil
}

func (h Handler) PerformanceHandler(ctx context.Context, address string, req httptransport.PerformanceRequest) (httptransport.ManagerResponse, error) {
	manager, err := h.Registry.RecordPerformance(ctx, address, req.Score, req.AUM)
	if err != nil {
		return httptransport.ManagerResponse{}, err
	}
	return managerResponse(manager), nil
}

func (h Handler) ManagerHandler(ctx context.Context, address string) (httptransport.ManagerResponse, error) {
	manager, err := h.Registry.GetManager(ctx, address)
	if err != nil {
		return httptransport.ManagerResponse{}, err
	}
	return managerResponse(manager), nil
}

func (h Handler) ElectionHandler(ctx context.Context, proposalID int64) ([]httptransport.ManagerResponse, error) {
	elected, err := h.Registry.ExecuteElection(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	items := make([]httptransport.ManagerResponse, 0, len(elected))
	for _, manager := range elected {
		items = append(items, managerResponse(manager))
	}
	return items, nil
}

func (h Handler) ListManagersHandler(ctx context.Context, activeOnly bool) ([]httptransport.ManagerResponse, error) {
	var (
		managers []entities.FundManager
		err      error
	)
	if activeOnly {
		managers, err = h.Registry.ListActiveManagers(ctx)
	} else {
		managers, err = h.Registry.ListManagers(ctx)
	}
	if err != nil {
		return nil, err
	}
	items := make([]httptransport.ManagerResponse, 0, len(managers))
	for _, manager := range managers {
		items = append(items, managerResponse(manager))
	}
	return items, nil
}

func managerResponse(manager entities.FundManager) httptransport.ManagerResponse {
	return httptransport.ManagerResponse{
		Address:               manager.Address,
		Name:                  manager.Name,
		Credentials:           manager.Credentials,
		ExperienceYears:       manager.ExperienceYears,
		VotesReceived:         manager.VotesReceived,
		TermStart:             manager.TermStart,
		TermEnd:               manager.TermEnd,
		IsActive:              manager.IsActive,
		AssetsUnderManagement: manager.AssetsUnderManagement,
		PerformanceScore:      manager.PerformanceScore,
		RegisteredAt:          manager.RegisteredAt,
	}
}
