package ports

import (
	"context"
	"time"

	"decentralfund/contexts/fund-core/installment-engine/domain/entities"
	"decentralfund/internal/shared/events"
	"decentralfund/internal/shared/outbox"
)

type PlanRepository interface {
	SavePlan(ctx context.Context, plan entities.InstallmentPlan) error
	GetPlan(ctx context.Context, planID string) (entities.InstallmentPlan, error)
	ListPlans(ctx context.Context) ([]entities.InstallmentPlan, error)
	ListPlansByInvestor(ctx context.Context, investor string) ([]entities.InstallmentPlan, error)
	ListDuePlans(ctx context.Context, now time.Time, limit int) ([]entities.InstallmentPlan, error)

	SavePayment(ctx context.Context, payment entities.InstallmentPayment) error
	ListPaymentsByPlan(ctx context.Context, planID string) ([]entities.InstallmentPayment, error)
}

// TokenMinter credits net installment amounts to the investor's ledger
// account. The ledger application service satisfies it directly.
type TokenMinter interface {
	Mint(ctx context.Context, account string, amount int64) error
}

// FeeSink accepts the deducted platform fee on behalf of the fee recipient.
type FeeSink interface {
	Route(ctx context.Context, amount int64, recipient string) error
}

type EventEnvelope = events.Envelope

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]outbox.Message, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
