package workers_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	installmentengine "decentralfund/contexts/fund-core/installment-engine"
	"decentralfund/contexts/fund-core/installment-engine/application"
	"decentralfund/contexts/fund-core/installment-engine/domain/entities"
)

type countingMinter struct {
	total int64
}

func (m *countingMinter) Mint(_ context.Context, _ string, amount int64) error {
	m.total += amount
	return nil
}

type discardSink struct{}

func (discardSink) Route(_ context.Context, _ int64, _ string) error {
	return nil
}

type movableClock struct {
	now time.Time
}

func (c *movableClock) Now() time.Time {
	return c.now
}

func TestDuePlanRunnerProcessesOnlyDuePlans(t *testing.T) {
	ctx := context.Background()
	clock := &movableClock{now: time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)}
	minter := &countingMinter{}
	module := installmentengine.NewInMemoryModule(minter, discardSink{}, installmentengine.Dependencies{
		Clock:            clock,
		MinInstallment:   10,
		MinFrequency:     24 * time.Hour,
		FeeBps:           100,
		FeeRecipient:     "fund-treasury",
		AnnualReturnRate: decimal.Zero,
	})

	due, err := module.Service.CreatePlan(ctx, application.CreatePlanInput{
		Investor:             "ivan",
		AmountPerInstallment: 1000,
		Frequency:            24 * time.Hour,
		FirstPayment:         1000,
	})
	if err != nil {
		t.Fatalf("create due plan failed: %v", err)
	}
	notDue, err := module.Service.CreatePlan(ctx, application.CreatePlanInput{
		Investor:             "judy",
		AmountPerInstallment: 500,
		Frequency:            7 * 24 * time.Hour,
		FirstPayment:         500,
	})
	if err != nil {
		t.Fatalf("create weekly plan failed: %v", err)
	}
	mintedAtStart := minter.total

	// Two days later only the daily plan has a due payment.
	clock.now = clock.now.Add(48 * time.Hour)
	if err := module.Runner.RunOnce(ctx); err != nil {
		t.Fatalf("run once failed: %v", err)
	}

	daily, err := module.Service.GetPlan(ctx, due.ID)
	if err != nil {
		t.Fatalf("get daily plan failed: %v", err)
	}
	if daily.InstallmentsPaid != 2 {
		t.Fatalf("daily installments paid = %d, want 2", daily.InstallmentsPaid)
	}
	weekly, err := module.Service.GetPlan(ctx, notDue.ID)
	if err != nil {
		t.Fatalf("get weekly plan failed: %v", err)
	}
	if weekly.InstallmentsPaid != 1 {
		t.Fatalf("weekly installments paid = %d, want 1", weekly.InstallmentsPaid)
	}
	if minted := minter.total - mintedAtStart; minted != 990 {
		t.Fatalf("minted in sweep = %d, want 990", minted)
	}
	if daily.Status != entities.PlanStatusActive {
		t.Fatalf("daily status = %s, want active", daily.Status)
	}
}
