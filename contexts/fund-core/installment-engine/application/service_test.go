package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	installmentengine "decentralfund/contexts/fund-core/installment-engine"
	"decentralfund/contexts/fund-core/installment-engine/application"
	"decentralfund/contexts/fund-core/installment-engine/domain/entities"
	domainerrors "decentralfund/contexts/fund-core/installment-engine/domain/errors"
)

type recordingMinter struct {
	mints map[string]int64
}

func (m *recordingMinter) Mint(_ context.Context, account string, amount int64) error {
	if m.mints == nil {
		m.mints = make(map[string]int64)
	}
	m.mints[account] += amount
	return nil
}

type recordingSink struct {
	routed map[string]int64
	fail   bool
}

func (s *recordingSink) Route(_ context.Context, amount int64, recipient string) error {
	if s.fail {
		return errors.New("sink unavailable")
	}
	if s.routed == nil {
		s.routed = make(map[string]int64)
	}
	s.routed[recipient] += amount
	return nil
}

type stubClock struct {
	now time.Time
}

func (c *stubClock) Now() time.Time {
	return c.now
}

func newFixture(feeBps int64) (installmentengine.Module, *recordingMinter, *recordingSink, *stubClock) {
	minter := &recordingMinter{}
	sink := &recordingSink{}
	clock := &stubClock{now: time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)}
	module := installmentengine.NewInMemoryModule(minter, sink, installmentengine.Dependencies{
		Clock:            clock,
		MinInstallment:   10,
		MinFrequency:     24 * time.Hour,
		FeeBps:           feeBps,
		FeeRecipient:     "fund-treasury",
		AnnualReturnRate: decimal.RequireFromString("0.12"),
	})
	return module, minter, sink, clock
}

func monthlyPlan(t *testing.T, module installmentengine.Module, duration time.Duration) entities.InstallmentPlan {
	t.Helper()
	plan, err := module.Service.CreatePlan(context.Background(), application.CreatePlanInput{
		Investor:             "ivan",
		AmountPerInstallment: 1000,
		Frequency:            30 * 24 * time.Hour,
		Duration:             duration,
		FirstPayment:         1000,
	})
	if err != nil {
		t.Fatalf("create plan failed: %v", err)
	}
	return plan
}

func TestCreatePlanValidation(t *testing.T) {
	module, _, _, _ := newFixture(100)
	ctx := context.Background()

	cases := []struct {
		name  string
		input application.CreatePlanInput
		want  error
	}{
		{
			name:  "blank investor",
			input: application.CreatePlanInput{Investor: " ", AmountPerInstallment: 100, Frequency: 48 * time.Hour, FirstPayment: 100},
			want:  domainerrors.ErrInvalidInvestor,
		},
		{
			name:  "amount below minimum",
			input: application.CreatePlanInput{Investor: "ivan", AmountPerInstallment: 5, Frequency: 48 * time.Hour, FirstPayment: 5},
			want:  domainerrors.ErrBelowMinimumInstallment,
		},
		{
			name:  "frequency below minimum",
			input: application.CreatePlanInput{Investor: "ivan", AmountPerInstallment: 100, Frequency: time.Hour, FirstPayment: 100},
			want:  domainerrors.ErrBelowMinimumFrequency,
		},
		{
			name:  "first payment short",
			input: application.CreatePlanInput{Investor: "ivan", AmountPerInstallment: 100, Frequency: 48 * time.Hour, FirstPayment: 99},
			want:  domainerrors.ErrInsufficientFirstPayment,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := module.Service.CreatePlan(ctx, tc.input); !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestCreatePlanProcessesFirstPaymentWithFee(t *testing.T) {
	module, minter, sink, clock := newFixture(100)
	plan := monthlyPlan(t, module, 0)

	if plan.Status != entities.PlanStatusActive {
		t.Fatalf("status = %s, want active", plan.Status)
	}
	if plan.InstallmentsPaid != 1 {
		t.Fatalf("installments paid = %d, want 1", plan.InstallmentsPaid)
	}
	if plan.TotalInvested != 1000 || plan.TotalTokensReceived != 990 || plan.TotalFeesDeducted != 10 {
		t.Fatalf("accumulators = (%d, %d, %d), want (1000, 990, 10)",
			plan.TotalInvested, plan.TotalTokensReceived, plan.TotalFeesDeducted)
	}
	if got := minter.mints["ivan"]; got != 990 {
		t.Fatalf("minted = %d, want 990", got)
	}
	if got := sink.routed["fund-treasury"]; got != 10 {
		t.Fatalf("fee routed = %d, want 10", got)
	}
	// The creation payment covers the first period; the next installment
	// falls due exactly one frequency after the start.
	wantNext := clock.now.Add(30 * 24 * time.Hour)
	if !plan.NextPaymentAt.Equal(wantNext) {
		t.Fatalf("next payment at = %v, want %v", plan.NextPaymentAt, wantNext)
	}
	if plan.EndAt != nil {
		t.Fatal("unbounded plan carries an end date")
	}
}

func TestFeeConservation(t *testing.T) {
	module, minter, sink, _ := newFixture(250)
	plan := monthlyPlan(t, module, 0)

	for _, gross := range []int64{1000, 1, 9999, 37} {
		processed, err := module.Service.ProcessInstallment(context.Background(), plan.ID, gross)
		if err != nil {
			t.Fatalf("process %d failed: %v", gross, err)
		}
		plan = processed
	}

	if plan.TotalTokensReceived+plan.TotalFeesDeducted != plan.TotalInvested {
		t.Fatalf("conservation broken: %d + %d != %d",
			plan.TotalTokensReceived, plan.TotalFeesDeducted, plan.TotalInvested)
	}
	if minter.mints["ivan"] != plan.TotalTokensReceived {
		t.Fatalf("minted %d, accumulator says %d", minter.mints["ivan"], plan.TotalTokensReceived)
	}
	if sink.routed["fund-treasury"] != plan.TotalFeesDeducted {
		t.Fatalf("routed %d, accumulator says %d", sink.routed["fund-treasury"], plan.TotalFeesDeducted)
	}
}

func TestProcessOnPausedPlanLeavesAccumulatorsUnchanged(t *testing.T) {
	module, minter, _, _ := newFixture(100)
	ctx := context.Background()
	plan := monthlyPlan(t, module, 0)

	if _, err := module.Service.Pause(ctx, plan.ID); err != nil {
		t.Fatalf("pause failed: %v", err)
	}
	if _, err := module.Service.ProcessInstallment(ctx, plan.ID, 1000); !errors.Is(err, domainerrors.ErrPlanNotActive) {
		t.Fatalf("got %v, want ErrPlanNotActive", err)
	}

	after, err := module.Service.GetPlan(ctx, plan.ID)
	if err != nil {
		t.Fatalf("get plan failed: %v", err)
	}
	if after.TotalInvested != 1000 || after.InstallmentsPaid != 1 {
		t.Fatalf("paused plan mutated: invested %d, paid %d", after.TotalInvested, after.InstallmentsPaid)
	}
	if minter.mints["ivan"] != 990 {
		t.Fatalf("mint leaked on paused plan: %d", minter.mints["ivan"])
	}
}

func TestStatusTransitions(t *testing.T) {
	module, _, _, _ := newFixture(100)
	ctx := context.Background()
	plan := monthlyPlan(t, module, 0)

	if _, err := module.Service.Resume(ctx, plan.ID); !errors.Is(err, domainerrors.ErrInvalidTransition) {
		t.Fatalf("resume active: got %v, want ErrInvalidTransition", err)
	}
	if _, err := module.Service.Pause(ctx, plan.ID); err != nil {
		t.Fatalf("pause failed: %v", err)
	}
	if _, err := module.Service.Pause(ctx, plan.ID); !errors.Is(err, domainerrors.ErrInvalidTransition) {
		t.Fatalf("pause paused: got %v, want ErrInvalidTransition", err)
	}
	if _, err := module.Service.Resume(ctx, plan.ID); err != nil {
		t.Fatalf("resume failed: %v", err)
	}
	if _, err := module.Service.Cancel(ctx, plan.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if _, err := module.Service.Cancel(ctx, plan.ID); !errors.Is(err, domainerrors.ErrAlreadyTerminal) {
		t.Fatalf("cancel cancelled: got %v, want ErrAlreadyTerminal", err)
	}
	if _, err := module.Service.Pause(ctx, plan.ID); !errors.Is(err, domainerrors.ErrInvalidTransition) {
		t.Fatalf("pause cancelled: got %v, want ErrInvalidTransition", err)
	}
}

func TestBoundedPlanCompletes(t *testing.T) {
	module, _, _, _ := newFixture(100)
	ctx := context.Background()
	// With a 45-day window the schedule holds two payments: the first at
	// creation (advancing next to day 30) and one more (advancing to day 60,
	// past the end date).
	plan := monthlyPlan(t, module, 45*24*time.Hour)

	if plan.Status != entities.PlanStatusActive {
		t.Fatalf("status after first payment = %s, want active", plan.Status)
	}
	processed, err := module.Service.ProcessInstallment(ctx, plan.ID, 1000)
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if processed.Status != entities.PlanStatusCompleted {
		t.Fatalf("status = %s, want completed", processed.Status)
	}
	if _, err := module.Service.ProcessInstallment(ctx, plan.ID, 1000); !errors.Is(err, domainerrors.ErrPlanNotActive) {
		t.Fatalf("process completed plan: got %v, want ErrPlanNotActive", err)
	}
}

func TestSinkFailureKeepsMintAndQueuesReconciliation(t *testing.T) {
	module, minter, sink, _ := newFixture(100)
	ctx := context.Background()
	plan := monthlyPlan(t, module, 0)

	sink.fail = true
	processed, err := module.Service.ProcessInstallment(ctx, plan.ID, 1000)
	if err != nil {
		t.Fatalf("process with failing sink: %v", err)
	}
	if minter.mints["ivan"] != 1980 {
		t.Fatalf("minted = %d, want 1980", minter.mints["ivan"])
	}
	if processed.PendingFeeReconciliation != 10 {
		t.Fatalf("pending reconciliation = %d, want 10", processed.PendingFeeReconciliation)
	}
	if processed.TotalFeesDeducted != 20 {
		t.Fatalf("fees deducted = %d, want 20", processed.TotalFeesDeducted)
	}

	pending, err := module.Store.ListPendingOutbox(ctx, 20)
	if err != nil {
		t.Fatalf("list outbox failed: %v", err)
	}
	found := false
	for _, row := range pending {
		if row.EventType == "sip.fee_reconciliation_required" {
			found = true
		}
	}
	if !found {
		t.Fatal("missing sip.fee_reconciliation_required outbox event")
	}
}

func TestZeroFeeMintsFullGross(t *testing.T) {
	module, minter, sink, _ := newFixture(0)
	plan := monthlyPlan(t, module, 0)

	if plan.TotalTokensReceived != 1000 || plan.TotalFeesDeducted != 0 {
		t.Fatalf("accumulators = (%d, %d), want (1000, 0)",
			plan.TotalTokensReceived, plan.TotalFeesDeducted)
	}
	if minter.mints["ivan"] != 1000 {
		t.Fatalf("minted = %d, want 1000", minter.mints["ivan"])
	}
	if len(sink.routed) != 0 {
		t.Fatalf("fee routed on zero-bps plan: %v", sink.routed)
	}
}
