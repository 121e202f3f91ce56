package queries

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"decentralfund/contexts/fund-core/installment-engine/domain/entities"
	"decentralfund/contexts/fund-core/installment-engine/ports"
)

// Projection estimates a plan's position after running for the given
// horizon, assuming the configured annual return rate compounds once per
// installment period.
type Projection struct {
	PlanID            string
	Installments      int64
	TotalContribution decimal.Decimal
	ProjectedValue    decimal.Decimal
	ProjectedGain     decimal.Decimal
}

// Statistics aggregates platform-wide plan counters.
type Statistics struct {
	TotalPlans          int64
	ActivePlans         int64
	PausedPlans         int64
	CompletedPlans      int64
	CancelledPlans      int64
	TotalInvested       int64
	TotalTokensReceived int64
	TotalFeesDeducted   int64
}

type ProjectionUseCase struct {
	Plans            ports.PlanRepository
	AnnualReturnRate decimal.Decimal
}

// Project computes the future value of the plan's installment stream over
// the horizon with the annuity-due formula fv = a*(((1+r)^n - 1)/r)*(1+r),
// where r is the per-period rate. A zero rate degenerates to a*n.
func (uc ProjectionUseCase) Project(ctx context.Context, planID string, horizon time.Duration) (Projection, error) {
	plan, err := uc.Plans.GetPlan(ctx, strings.TrimSpace(planID))
	if err != nil {
		return Projection{}, err
	}

	span := horizon
	if plan.EndAt != nil {
		if remaining := plan.EndAt.Sub(plan.StartAt); remaining < span {
			span = remaining
		}
	}
	if span <= 0 || plan.Frequency <= 0 {
		return Projection{PlanID: plan.ID}, nil
	}
	installments := int64(span / plan.Frequency)
	if installments <= 0 {
		return Projection{PlanID: plan.ID}, nil
	}

	amount := decimal.NewFromInt(plan.AmountPerInstallment)
	contribution := amount.Mul(decimal.NewFromInt(installments))

	periodsPerYear := decimal.NewFromFloat(float64(365*24*time.Hour) / float64(plan.Frequency))
	periodRate := decimal.Zero
	if periodsPerYear.IsPositive() {
		periodRate = uc.AnnualReturnRate.Div(periodsPerYear)
	}

	var value decimal.Decimal
	if periodRate.IsZero() {
		value = contribution
	} else {
		growth := decimal.NewFromInt(1).Add(periodRate)
		factor := growth.Pow(decimal.NewFromInt(installments)).
			Sub(decimal.NewFromInt(1)).
			Div(periodRate).
			Mul(growth)
		value = amount.Mul(factor)
	}

	return Projection{
		PlanID:            plan.ID,
		Installments:      installments,
		TotalContribution: contribution,
		ProjectedValue:    value.Round(2),
		ProjectedGain:     value.Sub(contribution).Round(2),
	}, nil
}

// PlatformStatistics folds every plan into platform-wide counters.
func (uc ProjectionUseCase) PlatformStatistics(ctx context.Context) (Statistics, error) {
	plans, err := uc.Plans.ListPlans(ctx)
	if err != nil {
		return Statistics{}, err
	}
	var stats Statistics
	for _, plan := range plans {
		stats.TotalPlans++
		switch plan.Status {
		case entities.PlanStatusActive:
			stats.ActivePlans++
		case entities.PlanStatusPaused:
			stats.PausedPlans++
		case entities.PlanStatusCompleted:
			stats.CompletedPlans++
		case entities.PlanStatusCancelled:
			stats.CancelledPlans++
		}
		stats.TotalInvested += plan.TotalInvested
		stats.TotalTokensReceived += plan.TotalTokensReceived
		stats.TotalFeesDeducted += plan.TotalFeesDeducted
	}
	return stats, nil
}
