package postgresadapter

import (
	"encoding/json"
	"time"

	"decentralfund/contexts/fund-core/installment-engine/domain/entities"
	"decentralfund/contexts/fund-core/installment-engine/ports"
	"decentralfund/internal/shared/outbox"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

type planModel struct {
	ID                       string     `gorm:"column:id;primaryKey"`
	Investor                 string     `gorm:"column:investor"`
	AmountPerInstallment     int64      `gorm:"column:amount_per_installment"`
	FrequencySeconds         int64      `gorm:"column:frequency_seconds"`
	StartAt                  time.Time  `gorm:"column:start_at"`
	EndAt                    *time.Time `gorm:"column:end_at"`
	NextPaymentAt            time.Time  `gorm:"column:next_payment_at"`
	TotalInvested            int64      `gorm:"column:total_invested"`
	TotalTokensReceived      int64      `gorm:"column:total_tokens_received"`
	TotalFeesDeducted        int64      `gorm:"column:total_fees_deducted"`
	InstallmentsPaid         int64      `gorm:"column:installments_paid"`
	AutoCompound             bool       `gorm:"column:auto_compound"`
	PendingFeeReconciliation int64      `gorm:"column:pending_fee_reconciliation"`
	Status                   string     `gorm:"column:status"`
	CreatedAt                time.Time  `gorm:"column:created_at"`
	UpdatedAt                time.Time  `gorm:"column:updated_at"`
}

func (planModel) TableName() string {
	return "sip_plans"
}

func planModelFromEntity(plan entities.InstallmentPlan) planModel {
	return planModel{
		ID:                       plan.ID,
		Investor:                 plan.Investor,
		AmountPerInstallment:     plan.AmountPerInstallment,
		FrequencySeconds:         int64(plan.Frequency / time.Second),
		StartAt:                  plan.StartAt.UTC(),
		EndAt:                    plan.EndAt,
		NextPaymentAt:            plan.NextPaymentAt.UTC(),
		TotalInvested:            plan.TotalInvested,
		TotalTokensReceived:      plan.TotalTokensReceived,
		TotalFeesDeducted:        plan.TotalFeesDeducted,
		InstallmentsPaid:         plan.InstallmentsPaid,
		AutoCompound:             plan.AutoCompound,
		PendingFeeReconciliation: plan.PendingFeeReconciliation,
		Status:                   string(plan.Status),
		CreatedAt:                plan.CreatedAt.UTC(),
		UpdatedAt:                plan.UpdatedAt.UTC(),
	}
}

func (m planModel) toEntity() entities.InstallmentPlan {
	return entities.InstallmentPlan{
		ID:                       m.ID,
		Investor:                 m.Investor,
		AmountPerInstallment:     m.AmountPerInstallment,
		Frequency:                time.Duration(m.FrequencySeconds) * time.Second,
		StartAt:                  m.StartAt,
		EndAt:                    m.EndAt,
		NextPaymentAt:            m.NextPaymentAt,
		TotalInvested:            m.TotalInvested,
		TotalTokensReceived:      m.TotalTokensReceived,
		TotalFeesDeducted:        m.TotalFeesDeducted,
		InstallmentsPaid:         m.InstallmentsPaid,
		AutoCompound:             m.AutoCompound,
		PendingFeeReconciliation: m.PendingFeeReconciliation,
		Status:                   entities.PlanStatus(m.Status),
		CreatedAt:                m.CreatedAt,
		UpdatedAt:                m.UpdatedAt,
	}
}

type paymentModel struct {
	PlanID      string    `gorm:"column:plan_id;primaryKey"`
	Sequence    int64     `gorm:"column:sequence;primaryKey"`
	Gross       int64     `gorm:"column:gross"`
	Fee         int64     `gorm:"column:fee"`
	Net         int64     `gorm:"column:net"`
	FeeRouted   bool      `gorm:"column:fee_routed"`
	ProcessedAt time.Time `gorm:"column:processed_at"`
}

func (paymentModel) TableName() string {
	return "sip_payments"
}

func paymentModelFromEntity(payment entities.InstallmentPayment) paymentModel {
	return paymentModel{
		PlanID:      payment.PlanID,
		Sequence:    payment.Sequence,
		Gross:       payment.Gross,
		Fee:         payment.Fee,
		Net:         payment.Net,
		FeeRouted:   payment.FeeRouted,
		ProcessedAt: payment.ProcessedAt.UTC(),
	}
}

func (m paymentModel) toEntity() entities.InstallmentPayment {
	return entities.InstallmentPayment{
		PlanID:      m.PlanID,
		Sequence:    m.Sequence,
		Gross:       m.Gross,
		Fee:         m.Fee,
		Net:         m.Net,
		FeeRouted:   m.FeeRouted,
		ProcessedAt: m.ProcessedAt,
	}
}

type outboxModel struct {
	ID           string     `gorm:"column:id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "sip_outbox"
}

func outboxModelFromEnvelope(envelope ports.EventEnvelope) (outboxModel, error) {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return outboxModel{}, err
	}
	createdAt := envelope.OccurredAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return outboxModel{
		ID:           envelope.EventID,
		EventType:    envelope.EventType,
		PartitionKey: envelope.PartitionKey,
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    createdAt,
	}, nil
}

func (m outboxModel) toMessage() outbox.Message {
	return outbox.Message{
		OutboxID:     m.ID,
		EventType:    m.EventType,
		PartitionKey: m.PartitionKey,
		Payload:      m.Payload,
		CreatedAt:    m.CreatedAt,
	}
}
