package application

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"decentralfund/contexts/fund-core/installment-engine/domain/entities"
	domainerrors "decentralfund/contexts/fund-core/installment-engine/domain/errors"
	"decentralfund/contexts/fund-core/installment-engine/ports"
)

// CreatePlanInput is the write-model input for plan creation. Duration of
// zero means an unbounded plan.
type CreatePlanInput struct {
	Investor             string
	AmountPerInstallment int64
	Frequency            time.Duration
	Duration             time.Duration
	AutoCompound         bool
	FirstPayment         int64
}

// Service orchestrates the installment-plan lifecycle. Mutating calls hold
// mu for their full read-modify-write span so plan accumulators and the
// mint they pair with are never observed half-applied.
type Service struct {
	mu sync.Mutex

	Plans  ports.PlanRepository
	Minter ports.TokenMinter
	Fees   ports.FeeSink
	Outbox ports.OutboxWriter
	Clock  ports.Clock
	IDGen  ports.IDGenerator

	MinInstallment int64
	MinFrequency   time.Duration
	FeeBps         int64
	FeeRecipient   string
	Logger         *slog.Logger
}

// CreatePlan validates, persists, and immediately processes the first
// payment before returning the new plan.
func (s *Service) CreatePlan(ctx context.Context, input CreatePlanInput) (entities.InstallmentPlan, error) {
	investor := strings.TrimSpace(input.Investor)
	if investor == "" {
		return entities.InstallmentPlan{}, domainerrors.ErrInvalidInvestor
	}
	if input.AmountPerInstallment < s.MinInstallment {
		return entities.InstallmentPlan{}, domainerrors.ErrBelowMinimumInstallment
	}
	if input.Frequency < s.MinFrequency {
		return entities.InstallmentPlan{}, domainerrors.ErrBelowMinimumFrequency
	}
	if input.FirstPayment < input.AmountPerInstallment {
		return entities.InstallmentPlan{}, domainerrors.ErrInsufficientFirstPayment
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	planID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.InstallmentPlan{}, err
	}
	now := s.now()
	plan := entities.InstallmentPlan{
		ID:                   planID,
		Investor:             investor,
		AmountPerInstallment: input.AmountPerInstallment,
		Frequency:            input.Frequency,
		StartAt:              now,
		NextPaymentAt:        now, // first payment below advances this to start+frequency
		AutoCompound:         input.AutoCompound,
		Status:               entities.PlanStatusActive,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if input.Duration > 0 {
		endAt := now.Add(input.Duration)
		plan.EndAt = &endAt
	}
	if err := s.Plans.SavePlan(ctx, plan); err != nil {
		return entities.InstallmentPlan{}, err
	}
	if err := s.appendPlanEvent(ctx, "sip.plan_created", plan, now, map[string]any{
		"plan_id":       plan.ID,
		"investor":      investor,
		"amount":        plan.AmountPerInstallment,
		"frequency":     plan.Frequency.String(),
		"auto_compound": plan.AutoCompound,
	}); err != nil {
		return entities.InstallmentPlan{}, err
	}

	plan, err = s.processLocked(ctx, plan, input.FirstPayment)
	if err != nil {
		return entities.InstallmentPlan{}, err
	}

	ResolveLogger(s.Logger).Info("installment plan created",
		"event", "sip_plan_created",
		"module", "fund-core/installment-engine",
		"layer", "application",
		"plan_id", plan.ID,
		"investor", investor,
		"amount", plan.AmountPerInstallment,
		"frequency", plan.Frequency.String(),
	)
	return plan, nil
}

// ProcessInstallment converts a gross payment into ledger credits net of the
// platform fee. Callers include the due-plan runner; the call fails without
// retry when the plan is not Active.
func (s *Service) ProcessInstallment(ctx context.Context, planID string, gross int64) (entities.InstallmentPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	plan, err := s.Plans.GetPlan(ctx, strings.TrimSpace(planID))
	if err != nil {
		return entities.InstallmentPlan{}, err
	}
	return s.processLocked(ctx, plan, gross)
}

// processLocked applies one installment to a loaded plan. The fee is
// truncated, never rounded, so net+fee always reconstructs gross exactly.
// Minting happens before fee routing; a sink failure marks the fee for
// out-of-band reconciliation and never unwinds the mint.
func (s *Service) processLocked(ctx context.Context, plan entities.InstallmentPlan, gross int64) (entities.InstallmentPlan, error) {
	logger := ResolveLogger(s.Logger)
	if plan.Status != entities.PlanStatusActive {
		return entities.InstallmentPlan{}, domainerrors.ErrPlanNotActive
	}
	if gross <= 0 {
		return entities.InstallmentPlan{}, domainerrors.ErrInvalidAmount
	}

	fee := gross * s.FeeBps / 10000
	net := gross - fee

	if err := s.Minter.Mint(ctx, plan.Investor, net); err != nil {
		return entities.InstallmentPlan{}, err
	}

	now := s.now()
	feeRouted := true
	if fee > 0 {
		if err := s.Fees.Route(ctx, fee, s.FeeRecipient); err != nil {
			feeRouted = false
			plan.PendingFeeReconciliation += fee
			logger.Warn("fee routing failed, queued for reconciliation",
				"event", "sip_fee_reconciliation_required",
				"module", "fund-core/installment-engine",
				"layer", "application",
				"plan_id", plan.ID,
				"fee", fee,
				"recipient", s.FeeRecipient,
				"error", err.Error(),
			)
			if err := s.appendPlanEvent(ctx, "sip.fee_reconciliation_required", plan, now, map[string]any{
				"plan_id":   plan.ID,
				"fee":       fee,
				"recipient": s.FeeRecipient,
			}); err != nil {
				return entities.InstallmentPlan{}, err
			}
		}
	}

	plan.TotalInvested += gross
	plan.TotalTokensReceived += net
	plan.TotalFeesDeducted += fee
	plan.InstallmentsPaid++
	plan.NextPaymentAt = plan.NextPaymentAt.Add(plan.Frequency)
	plan.UpdatedAt = now

	oldStatus := plan.Status
	if plan.EndAt != nil && plan.NextPaymentAt.After(*plan.EndAt) {
		plan.Status = entities.PlanStatusCompleted
	}

	if err := s.Plans.SavePlan(ctx, plan); err != nil {
		return entities.InstallmentPlan{}, err
	}
	payment := entities.InstallmentPayment{
		PlanID:      plan.ID,
		Sequence:    plan.InstallmentsPaid,
		Gross:       gross,
		Fee:         fee,
		Net:         net,
		FeeRouted:   feeRouted,
		ProcessedAt: now,
	}
	if err := s.Plans.SavePayment(ctx, payment); err != nil {
		return entities.InstallmentPlan{}, err
	}

	if err := s.appendPlanEvent(ctx, "sip.installment_processed", plan, now, map[string]any{
		"plan_id":  plan.ID,
		"investor": plan.Investor,
		"gross":    gross,
		"net":      net,
		"fee":      fee,
	}); err != nil {
		return entities.InstallmentPlan{}, err
	}
	if plan.Status != oldStatus {
		if err := s.appendStatusEvent(ctx, plan, oldStatus, now); err != nil {
			return entities.InstallmentPlan{}, err
		}
	}

	logger.Info("installment processed",
		"event", "sip_installment_processed",
		"module", "fund-core/installment-engine",
		"layer", "application",
		"plan_id", plan.ID,
		"investor", plan.Investor,
		"gross", gross,
		"net", net,
		"fee", fee,
		"installments_paid", plan.InstallmentsPaid,
		"status", string(plan.Status),
	)
	return plan, nil
}

// Pause suspends an Active plan.
func (s *Service) Pause(ctx context.Context, planID string) (entities.InstallmentPlan, error) {
	return s.transition(ctx, planID, entities.PlanStatusActive, entities.PlanStatusPaused)
}

// Resume reactivates a Paused plan.
func (s *Service) Resume(ctx context.Context, planID string) (entities.InstallmentPlan, error) {
	return s.transition(ctx, planID, entities.PlanStatusPaused, entities.PlanStatusActive)
}

// Cancel terminates a plan from Active or Paused.
func (s *Service) Cancel(ctx context.Context, planID string) (entities.InstallmentPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	plan, err := s.Plans.GetPlan(ctx, strings.TrimSpace(planID))
	if err != nil {
		return entities.InstallmentPlan{}, err
	}
	if plan.Terminal() {
		return entities.InstallmentPlan{}, domainerrors.ErrAlreadyTerminal
	}
	return s.applyStatus(ctx, plan, entities.PlanStatusCancelled)
}

func (s *Service) transition(ctx context.Context, planID string, from, to entities.PlanStatus) (entities.InstallmentPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	plan, err := s.Plans.GetPlan(ctx, strings.TrimSpace(planID))
	if err != nil {
		return entities.InstallmentPlan{}, err
	}
	if plan.Status != from {
		return entities.InstallmentPlan{}, domainerrors.ErrInvalidTransition
	}
	return s.applyStatus(ctx, plan, to)
}

func (s *Service) applyStatus(ctx context.Context, plan entities.InstallmentPlan, to entities.PlanStatus) (entities.InstallmentPlan, error) {
	now := s.now()
	oldStatus := plan.Status
	plan.Status = to
	plan.UpdatedAt = now
	if err := s.Plans.SavePlan(ctx, plan); err != nil {
		return entities.InstallmentPlan{}, err
	}
	if err := s.appendStatusEvent(ctx, plan, oldStatus, now); err != nil {
		return entities.InstallmentPlan{}, err
	}
	ResolveLogger(s.Logger).Info("plan status changed",
		"event", "sip_plan_status_changed",
		"module", "fund-core/installment-engine",
		"layer", "application",
		"plan_id", plan.ID,
		"old_status", string(oldStatus),
		"new_status", string(to),
	)
	return plan, nil
}

func (s *Service) GetPlan(ctx context.Context, planID string) (entities.InstallmentPlan, error) {
	return s.Plans.GetPlan(ctx, strings.TrimSpace(planID))
}

func (s *Service) ListPlans(ctx context.Context) ([]entities.InstallmentPlan, error) {
	return s.Plans.ListPlans(ctx)
}

func (s *Service) ListPlansByInvestor(ctx context.Context, investor string) ([]entities.InstallmentPlan, error) {
	return s.Plans.ListPlansByInvestor(ctx, strings.TrimSpace(investor))
}

func (s *Service) ListPayments(ctx context.Context, planID string) ([]entities.InstallmentPayment, error) {
	if _, err := s.Plans.GetPlan(ctx, strings.TrimSpace(planID)); err != nil {
		return nil, err
	}
	return s.Plans.ListPaymentsByPlan(ctx, strings.TrimSpace(planID))
}

func (s *Service) now() time.Time {
	now := time.Now().UTC()
	if s.Clock != nil {
		now = s.Clock.Now().UTC()
	}
	return now
}
