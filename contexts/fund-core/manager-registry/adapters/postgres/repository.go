package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"decentralfund/contexts/fund-core/manager-registry/domain/entities"
	domainerrors "decentralfund/contexts/fund-core/manager-registry/domain/errors"
	"decentralfund/contexts/fund-core/manager-registry/ports"
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
	return []any{&managerModel{}, &outboxModel{}}
}

func (r *Repository) SaveManager(ctx context.Context, manager entities.FundManager) error {
	row := managerModelFromEntity(manager)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "address"}},
		DoUpdates: clause.Assignments(map[string]any{
			"name":                    row.Name,
			"credentials":             row.Credentials,
			"experience_years":        row.ExperienceYears,
			"votes_received":          row.VotesReceived,
			"term_start":              row.TermStart,
			"term_end":                row.TermEnd,
			"is_active":               row.IsActive,
			"assets_under_management": row.AssetsUnderManagement,
			"performance_score":       row.PerformanceScore,
			"updated_at":              row.UpdatedAt,
		}),
	}).Create(&row)
	if create.Error != nil {
		return r.logError("registry_repo_save_manager_failed", create.Error,
			"address", strings.TrimSpace(manager.Address),
		)
	}
	return nil
}

func (r *Repository) GetManager(ctx context.Context, address string) (entities.FundManager, error) {
	var row managerModel
	err := r.db.WithContext(ctx).
		Where("address = ?", strings.TrimSpace(address)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.FundManager{}, domainerrors.ErrManagerNotFound
		}
		return entities.FundManager{}, r.logError("registry_repo_get_manager_failed", err,
			"address", strings.TrimSpace(address),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListManagers(ctx context.Context) ([]entities.FundManager, error) {
	var rows []managerModel
	if err := r.db.WithContext(ctx).
		Order("address ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("registry_repo_list_managers_failed", err)
	}
	return managersFromRows(rows), nil
}

func (r *Repository) ListActiveManagers(ctx context.Context) ([]entities.FundManager, error) {
	var rows []managerModel
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("address ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("registry_repo_list_active_failed", err)
	}
	return managersFromRows(rows), nil
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
		return r.logError("registry_repo_append_outbox_failed", err, "event_id", envelope.EventID)
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
		return nil, r.logError("registry_repo_list_outbox_failed", err)
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
		return r.logError("registry_repo_mark_outbox_failed", update.Error, "outbox_id", outboxID)
	}
	if update.RowsAffected == 0 {
		return domainerrors.ErrConflict
	}
	return nil
}

func managersFromRows(rows []managerModel) []entities.FundManager {
	items := make([]entities.FundManager, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "fund-core/manager-registry",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("manager registry repository failure", fields...)
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
