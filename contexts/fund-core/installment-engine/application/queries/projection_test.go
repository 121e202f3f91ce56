package queries_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"decentralfund/contexts/fund-core/installment-engine/adapters/memory"
	"decentralfund/contexts/fund-core/installment-engine/application/queries"
	"decentralfund/contexts/fund-core/installment-engine/domain/entities"
)

func seedPlan(t *testing.T, store *memory.Store, plan entities.InstallmentPlan) {
	t.Helper()
	if err := store.SavePlan(context.Background(), plan); err != nil {
		t.Fatalf("seed plan failed: %v", err)
	}
}

func TestProjectGrowsWithPositiveRate(t *testing.T) {
	store := memory.NewStore()
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	seedPlan(t, store, entities.InstallmentPlan{
		ID:                   "plan-1",
		Investor:             "ivan",
		AmountPerInstallment: 1000,
		Frequency:            30 * 24 * time.Hour,
		StartAt:              start,
		NextPaymentAt:        start.Add(30 * 24 * time.Hour),
		Status:               entities.PlanStatusActive,
	})

	uc := queries.ProjectionUseCase{
		Plans:            store,
		AnnualReturnRate: decimal.RequireFromString("0.12"),
	}
	projection, err := uc.Project(context.Background(), "plan-1", 360*24*time.Hour)
	if err != nil {
		t.Fatalf("project failed: %v", err)
	}
	if projection.Installments != 12 {
		t.Fatalf("installments = %d, want 12", projection.Installments)
	}
	wantContribution := decimal.NewFromInt(12000)
	if !projection.TotalContribution.Equal(wantContribution) {
		t.Fatalf("contribution = %s, want %s", projection.TotalContribution, wantContribution)
	}
	if !projection.ProjectedValue.GreaterThan(wantContribution) {
		t.Fatalf("projected value %s not above contribution %s",
			projection.ProjectedValue, wantContribution)
	}
	if !projection.ProjectedGain.Equal(projection.ProjectedValue.Sub(wantContribution)) {
		t.Fatalf("gain %s does not reconcile with value %s",
			projection.ProjectedGain, projection.ProjectedValue)
	}
}

func TestProjectZeroRateIsContribution(t *testing.T) {
	store := memory.NewStore()
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	seedPlan(t, store, entities.InstallmentPlan{
		ID:                   "plan-2",
		Investor:             "ivan",
		AmountPerInstallment: 500,
		Frequency:            30 * 24 * time.Hour,
		StartAt:              start,
		NextPaymentAt:        start.Add(30 * 24 * time.Hour),
		Status:               entities.PlanStatusActive,
	})

	uc := queries.ProjectionUseCase{Plans: store, AnnualReturnRate: decimal.Zero}
	projection, err := uc.Project(context.Background(), "plan-2", 90*24*time.Hour)
	if err != nil {
		t.Fatalf("project failed: %v", err)
	}
	if !projection.ProjectedValue.Equal(decimal.NewFromInt(1500)) {
		t.Fatalf("projected value = %s, want 1500", projection.ProjectedValue)
	}
	if !projection.ProjectedGain.IsZero() {
		t.Fatalf("projected gain = %s, want 0", projection.ProjectedGain)
	}
}

func TestPlatformStatistics(t *testing.T) {
	store := memory.NewStore()
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	seedPlan(t, store, entities.InstallmentPlan{
		ID: "a", Investor: "ivan", Status: entities.PlanStatusActive,
		StartAt: start, TotalInvested: 1000, TotalTokensReceived: 990, TotalFeesDeducted: 10,
	})
	seedPlan(t, store, entities.InstallmentPlan{
		ID: "b", Investor: "judy", Status: entities.PlanStatusPaused,
		StartAt: start, TotalInvested: 500, TotalTokensReceived: 495, TotalFeesDeducted: 5,
	})
	seedPlan(t, store, entities.InstallmentPlan{
		ID: "c", Investor: "ivan", Status: entities.PlanStatusCancelled,
		StartAt: start,
	})

	uc := queries.ProjectionUseCase{Plans: store, AnnualReturnRate: decimal.Zero}
	stats, err := uc.PlatformStatistics(context.Background())
	if err != nil {
		t.Fatalf("statistics failed: %v", err)
	}
	if stats.TotalPlans != 3 || stats.ActivePlans != 1 || stats.PausedPlans != 1 || stats.CancelledPlans != 1 {
		t.Fatalf("unexpected counters: %+v", stats)
	}
	if stats.TotalInvested != 1500 || stats.TotalTokensReceived != 1485 || stats.TotalFeesDeducted != 15 {
		t.Fatalf("unexpected totals: %+v", stats)
	}
}
