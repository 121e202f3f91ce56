package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"decentralfund/contexts/fund-core/installment-engine/domain/entities"
	domainerrors "decentralfund/contexts/fund-core/installment-engine/domain/errors"
	"decentralfund/contexts/fund-core/installment-engine/ports"
	"decentralfund/internal/shared/outbox"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Models returns the prototypes for gorm auto-migration.
func Models() []any {
	return []any{&planModel{}, &paymentModel{}, &outboxModel{}}
}

func (r *Repository) SavePlan(ctx context.Context, plan entities.InstallmentPlan) error {
	row := planModelFromEntity(plan)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"next_payment_at":            row.NextPaymentAt,
			"total_invested":             row.TotalInvested,
			"total_tokens_received":      row.TotalTokensReceived,
			"total_fees_deducted":        row.TotalFeesDeducted,
			"installments_paid":          row.InstallmentsPaid,
			"pending_fee_reconciliation": row.PendingFeeReconciliation,
			"status":                     row.Status,
			"updated_at":                 row.UpdatedAt,
		}),
	}).Create(&row)
	if create.Error != nil {
		return r.logError("sip_repo_save_plan_failed", create.Error, "plan_id", plan.ID)
	}
	return nil
}

func (r *Repository) GetPlan(ctx context.Context, planID string) (entities.InstallmentPlan, error) {
	var row planModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(planID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.InstallmentPlan{}, domainerrors.ErrPlanNotFound
		}
		return entities.InstallmentPlan{}, r.logError("sip_repo_get_plan_failed", err, "plan_id", planID)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListPlans(ctx context.Context) ([]entities.InstallmentPlan, error) {
	var rows []planModel
	if err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("sip_repo_list_plans_failed", err)
	}
	return plansFromRows(rows), nil
}

func (r *Repository) ListPlansByInvestor(ctx context.Context, investor string) ([]entities.InstallmentPlan, error) {
	var rows []planModel
	if err := r.db.WithContext(ctx).
		Where("investor = ?", strings.TrimSpace(investor)).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("sip_repo_list_by_investor_failed", err, "investor", investor)
	}
	return plansFromRows(rows), nil
}

func (r *Repository) ListDuePlans(ctx context.Context, now time.Time, limit int) ([]entities.InstallmentPlan, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []planModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND next_payment_at <= ?", string(entities.PlanStatusActive), now.UTC()).
		Order("next_payment_at ASC, id ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("sip_repo_list_due_failed", err)
	}
	return plansFromRows(rows), nil
}

func (r *Repository) SavePayment(ctx context.Context, payment entities.InstallmentPayment) error {
	row := paymentModelFromEntity(payment)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrConflict
		}
		return r.logError("sip_repo_save_payment_failed", err,
			"plan_id", payment.PlanID,
			"sequence", payment.Sequence,
		)
	}
	return nil
}

func (r *Repository) ListPaymentsByPlan(ctx context.Context, planID string) ([]entities.InstallmentPayment, error) {
	var rows []paymentModel
	if err := r.db.WithContext(ctx).
		Where("plan_id = ?", strings.TrimSpace(planID)).
		Order("sequence ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("sip_repo_list_payments_failed", err, "plan_id", planID)
	}
	items := make([]entities.InstallmentPayment, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	row, err := outboxModelFromEnvelope(envelope)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return r.logError("sip_repo_append_outbox_failed", err, "event_id", envelope.EventID)
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]outbox.Message, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("sip_repo_list_outbox_failed", err)
	}
	items := make([]outbox.Message, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toMessage())
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	update := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if update.Error != nil {
		return r.logError("sip_repo_mark_outbox_failed", update.Error, "outbox_id", outboxID)
	}
	if update.RowsAffected == 0 {
		return domainerrors.ErrConflict
	}
	return nil
}

func plansFromRows(rows []planModel) []entities.InstallmentPlan {
	items := make([]entities.InstallmentPlan, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "fund-core/installment-engine",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("installment repository failure", fields...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// SystemClock satisfies ports.Clock for production wiring.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// UUIDGenerator satisfies ports.IDGenerator for production wiring.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
