package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreatePlanRequest struct {
	Investor             string `json:"investor"`
	AmountPerInstallment int64  `json:"amount_per_installment"`
	FrequencySeconds     int64  `json:"frequency_seconds"`
	DurationSeconds      int64  `json:"duration_seconds"`
	AutoCompound         bool   `json:"auto_compound"`
	FirstPayment         int64  `json:"first_payment"`
}

type ProcessInstallmentRequest struct {
	Gross int64 `json:"gross"`
}

type PlanResponse struct {
	ID                       string     `json:"id"`
	Investor                 string     `json:"investor"`
	AmountPerInstallment     int64      `json:"amount_per_installment"`
	FrequencySeconds         int64      `json:"frequency_seconds"`
	StartAt                  time.Time  `json:"start_at"`
	EndAt                    *time.Time `json:"end_at,omitempty"`
	NextPaymentAt            time.Time  `json:"next_payment_at"`
	TotalInvested            int64      `json:"total_invested"`
	TotalTokensReceived      int64      `json:"total_tokens_received"`
	TotalFeesDeducted        int64      `json:"total_fees_deducted"`
	InstallmentsPaid         int64      `json:"installments_paid"`
	AutoCompound             bool       `json:"auto_compound"`
	PendingFeeReconciliation int64      `json:"pending_fee_reconciliation"`
	Status                   string     `json:"status"`
}

type PaymentResponse struct {
	PlanID      string    `json:"plan_id"`
	Sequence    int64     `json:"sequence"`
	Gross       int64     `json:"gross"`
	Fee         int64     `json:"fee"`
	Net         int64     `json:"net"`
	FeeRouted   bool      `json:"fee_routed"`
	ProcessedAt time.Time `json:"processed_at"`
}

type ProjectionResponse struct {
	PlanID            string `json:"plan_id"`
	Installments      int64  `json:"installments"`
	TotalContribution string `json:"total_contribution"`
	ProjectedValue    string `json:"projected_value"`
	ProjectedGain     string `json:"projected_gain"`
}

type StatisticsResponse struct {
	TotalPlans          int64 `json:"total_plans"`
	ActivePlans         int64 `json:"active_plans"`
	PausedPlans         int64 `json:"paused_plans"`
	CompletedPlans      int64 `json:"completed_plans"`
	CancelledPlans      int64 `json:"cancelled_plans"`
	TotalInvested       int64 `json:"total_invested"`
	TotalTokensReceived int64 `json:"total_tokens_received"`
	TotalFeesDeducted   int64 `json:"total_fees_deducted"`
}
