package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"decentralfund/contexts/fund-core/token-ledger/domain/entities"
	domainerrors "decentralfund/contexts/fund-core/token-ledger/domain/errors"
	"decentralfund/contexts/fund-core/token-ledger/ports"
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
	return []any{&accountModel{}, &ledgerStateModel{}, &outboxModel{}}
}

func (r *Repository) SaveAccount(ctx context.Context, account entities.Account) error {
	row := accountModelFromEntity(account)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "address"}},
		DoUpdates: clause.Assignments(map[string]any{
			"balance":      row.Balance,
			"voting_power": row.VotingPower,
			"updated_at":   row.UpdatedAt,
		}),
	}).Create(&row)
	if create.Error != nil {
		return r.logError("ledger_repo_save_account_failed", create.Error,
			"address", strings.TrimSpace(account.Address),
		)
	}
	return nil
}

func (r *Repository) SaveAccounts(ctx context.Context, accounts ...entities.Account) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, account := range accounts {
			row := accountModelFromEntity(account)
			create := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "address"}},
				DoUpdates: clause.Assignments(map[string]any{
					"balance":      row.Balance,
					"voting_power": row.VotingPower,
					"updated_at":   row.UpdatedAt,
				}),
			}).Create(&row)
			if create.Error != nil {
				return create.Error
			}
		}
		return nil
	})
	if err != nil {
		return r.logError("ledger_repo_save_accounts_failed", err,
			"accounts", len(accounts),
		)
	}
	return nil
}

func (r *Repository) GetAccount(ctx context.Context, address string) (entities.Account, error) {
	var row accountModel
	err := r.db.WithContext(ctx).
		Where("address = ?", strings.TrimSpace(address)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Account{}, domainerrors.ErrAccountNotFound
		}
		return entities.Account{}, r.logError("ledger_repo_get_account_failed", err,
			"address", strings.TrimSpace(address),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListAccounts(ctx context.Context) ([]entities.Account, error) {
	var rows []accountModel
	if err := r.db.WithContext(ctx).
		Order("address ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("ledger_repo_list_accounts_failed", err)
	}
	items := make([]entities.Account, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) TotalSupply(ctx context.Context) (int64, error) {
	var supply int64
	err := r.db.WithContext(ctx).
		Model(&accountModel{}).
		Select("COALESCE(SUM(balance), 0)").
		Scan(&supply).Error
	if err != nil {
		return 0, r.logError("ledger_repo_total_supply_failed", err)
	}
	return supply, nil
}

func (r *Repository) IsPaused(ctx context.Context) (bool, error) {
	var row ledgerStateModel
	err := r.db.WithContext(ctx).
		Where("id = ?", ledgerStateRowID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, r.logError("ledger_repo_is_paused_failed", err)
	}
	return row.Paused, nil
}

func (r *Repository) SetPaused(ctx context.Context, paused bool, at time.Time) error {
	row := ledgerStateModel{
		ID:        ledgerStateRowID,
		Paused:    paused,
		UpdatedAt: at.UTC(),
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"paused":     row.Paused,
			"updated_at": row.UpdatedAt,
		}),
	}).Create(&row)
	if create.Error != nil {
		return r.logError("ledger_repo_set_paused_failed", create.Error, "paused", paused)
	}
	return nil
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
		return r.logError("ledger_repo_append_outbox_failed", err, "event_id", envelope.EventID)
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
		return nil, r.logError("ledger_repo_list_outbox_failed", err)
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
		return r.logError("ledger_repo_mark_outbox_failed", update.Error, "outbox_id", outboxID)
	}
	if update.RowsAffected == 0 {
		return domainerrors.ErrConflict
	}
	return nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "fund-core/token-ledger",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("token ledger repository failure", fields...)
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
