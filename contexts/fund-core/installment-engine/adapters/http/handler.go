package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"decentralfund/contexts/fund-core/installment-engine/application"
	"decentralfund/contexts/fund-core/installment-engine/application/queries"
	"decentralfund/contexts/fund-core/installment-engine/domain/entities"
	httptransport "decentralfund/contexts/fund-core/installment-engine/transport/http"
)

type Handler struct {
	Plans       *application.Service
	Projections queries.ProjectionUseCase
	Logger      *slog.Logger
}

func (h Handler) CreatePlanHandler(ctx context.Context, req httptransport.CreatePlanRequest) (httptransport.PlanResponse, error) {
	plan, err := h.Plans.CreatePlan(ctx, application.CreatePlanInput{
		Investor:             req.Investor,
		AmountPerInstallment: req.AmountPerInstallment,
		Frequency:            time.Duration(req.FrequencySeconds) * time.Second,
		Duration:             time.Duration(req.DurationSeconds) * time.Second,
		AutoCompound:         req.AutoCompound,
		FirstPayment:         req.FirstPayment,
	})
	if err != nil {
		return httptransport.PlanResponse{}, err
	}
	return planResponse(plan), nil
}

func (h Handler) ProcessInstallmentHandler(ctx context.Context, planID string, req httptransport.ProcessInstallmentRequest) (httptransport.PlanResponse, error) {
	plan, err := h.Plans.ProcessInstallment(ctx, planID, req.Gross)
	if err != nil {
		return httptransport.PlanResponse{}, err
	}
	return planResponse(plan), nil
}

func (h Handler) PauseHandler(ctx context.Context, planID string) (httptransport.PlanResponse, error) {
	plan, err := h.Plans.Pause(ctx, planID)
	if err != nil {
		return httptransport.PlanResponse{}, err
	}
	return planResponse(plan), nil
}

func (h Handler) ResumeHandler(ctx context.Context, planID string) (httptransport.PlanResponse, error) {
	plan, err := h.Plans.Resume(ctx, planID)
	if err != nil {
		return httptransport.PlanResponse{}, err
	}
	return planResponse(plan), nil
}

func (h Handler) CancelHandler(ctx context.Context, planID string) (httptransport.PlanResponse, error) {
	plan, err := h.Plans.Cancel(ctx, planID)
	if err != nil {
		return httptransport.PlanResponse{}, err
	}
	return planResponse(plan), nil
}

func (h Handler) PlanHandler(ctx context.Context, planID string) (httptransport.PlanResponse, error) {
	plan, err := h.Plans.GetPlan(ctx, planID)
	if err != nil {
		return httptransport.PlanResponse{}, err
	}
	return planResponse(plan), nil
}

func (h Handler) ListPlansHandler(ctx context.Context, investor string) ([]httptransport.PlanResponse, error) {
	var (
		plans []entities.InstallmentPlan
		err   error
	)
	if investor != "" {
		plans, err = h.Plans.ListPlansByInvestor(ctx, investor)
	} else {
		plans, err = h.Plans.ListPlans(ctx)
	}
	if err != nil {
		return nil, err
	}
	items := make([]httptransport.PlanResponse, 0, len(plans))
	for _, plan := range plans {
		items = append(items, planResponse(plan))
	}
	return items, nil
}

func (h Handler) PaymentsHandler(ctx context.Context, planID string) ([]httptransport.PaymentResponse, error) {
	payments, err := h.Plans.ListPayments(ctx, planID)
	if err != nil {
		return nil, err
	}
	items := make([]httptransport.PaymentResponse, 0, len(payments))
	for _, payment := range payments {
		items = append(items, httptransport.PaymentResponse{
			PlanID:      payment.PlanID,
			Sequence:    payment.Sequence,
			Gross:       payment.Gross,
			Fee:         payment.Fee,
			Net:         payment.Net,
			FeeRouted:   payment.FeeRouted,
			ProcessedAt: payment.ProcessedAt,
		})
	}
	return items, nil
}

func (h Handler) ProjectionHandler(ctx context.Context, planID string, horizon time.Duration) (httptransport.ProjectionResponse, error) {
	projection, err := h.Projections.Project(ctx, planID, horizon)
	if err != nil {
		return httptransport.ProjectionResponse{}, err
	}
	return httptransport.ProjectionResponse{
		PlanID:            projection.PlanID,
		Installments:      projection.Installments,
		TotalContribution: projection.TotalContribution.String(),
		ProjectedValue:    projection.ProjectedValue.String(),
		ProjectedGain:     projection.ProjectedGain.String(),
	}, nil
}

func (h Handler) StatisticsHandler(ctx context.Context) (httptransport.StatisticsResponse, error) {
	stats, err := h.Projections.PlatformStatistics(ctx)
	if err != nil {
		return httptransport.StatisticsResponse{}, err
	}
	return httptransport.StatisticsResponse{
		TotalPlans:          stats.TotalPlans,
		ActivePlans:         stats.ActivePlans,
		PausedPlans:         stats.PausedPlans,
		CompletedPlans:      stats.CompletedPlans,
		CancelledPlans:      stats.CancelledPlans,
		TotalInvested:       stats.TotalInvested,
		TotalTokensReceived: stats.TotalTokensReceived,
		TotalFeesDeducted:   stats.TotalFeesDeducted,
	}, nil
}

func planResponse(plan entities.InstallmentPlan) httptransport.PlanResponse {
	return httptransport.PlanResponse{
		ID:                       plan.ID,
		Investor:                 plan.Investor,
		AmountPerInstallment:     plan.AmountPerInstallment,
		FrequencySeconds:         int64(plan.Frequency / time.Second),
		StartAt:                  plan.StartAt,
		EndAt:                    plan.EndAt,
		NextPaymentAt:            plan.NextPaymentAt,
		TotalInvested:            plan.TotalInvested,
		TotalTokensReceived:      plan.TotalTokensReceived,
		TotalFeesDeducted:        plan.TotalFeesDeducted,
		InstallmentsPaid:         plan.InstallmentsPaid,
		AutoCompound:             plan.AutoCompound,
		PendingFeeReconciliation: plan.PendingFeeReconciliation,
		Status:                   string(plan.Status),
	}
}
