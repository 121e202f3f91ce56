package entities

import "time"

type PlanStatus string

const (
	PlanStatusActive    PlanStatus = "active"
	PlanStatusPaused    PlanStatus = "paused"
	PlanStatusCancelled PlanStatus = "cancelled"
	PlanStatusCompleted PlanStatus = "completed"
)

// InstallmentPlan is a recurring investment schedule. The accumulators hold
// the conservation identity total_tokens_received == total_invested - fees
// under the fee rate applied at each processing time.
type InstallmentPlan struct {
	ID                   string
	Investor             string
	AmountPerInstallment int64
	Frequency            time.Duration
	StartAt              time.Time
	EndAt                *time.Time
	NextPaymentAt        time.Time
	TotalInvested        int64
	TotalTokensReceived  int64
	TotalFeesDeducted    int64
	InstallmentsPaid     int64
	AutoCompound         bool
	// PendingFeeReconciliation accumulates fees the sink failed to accept;
	// they are settled out of band, never by unwinding the mint.
	PendingFeeReconciliation int64
	Status                   PlanStatus
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

// Terminal reports whether the plan can no longer process installments.
func (p InstallmentPlan) Terminal() bool {
	return p.Status == PlanStatusCancelled || p.Status == PlanStatusCompleted
}

// Due reports whether an installment should be processed at the given time.
func (p InstallmentPlan) Due(now time.Time) bool {
	return p.Status == PlanStatusActive && !now.Before(p.NextPaymentAt)
}

// InstallmentPayment is the immutable record of one processed installment.
type InstallmentPayment struct {
	PlanID      string
	Sequence    int64
	Gross       int64
	Fee         int64
	Net         int64
	FeeRouted   bool
	ProcessedAt time.Time
}
