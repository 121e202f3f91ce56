package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"decentralfund/contexts/fund-core/proposal-engine/domain/entities"
	domainerrors "decentralfund/contexts/fund-core/proposal-engine/domain/errors"
	"decentralfund/contexts/fund-core/proposal-engine/ports"
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
	return []any{&proposalModel{}, &voteModel{}, &proposalSequenceModel{}, &outboxModel{}}
}

func (r *Repository) NextProposalID(ctx context.Context) (int64, error) {
	var next int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row proposalSequenceModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", proposalSequenceRowID).
			First(&row).
			Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			row = proposalSequenceModel{ID: proposalSequenceRowID, NextID: 1}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			next = row.NextID
			return nil
		}
		if err != nil {
			return err
		}
		row.NextID++
		if err := tx.Save(&row).Error; err != nil {
			return err
		}
		next = row.NextID
		return nil
	})
	if err != nil {
		return 0, r.logError("governance_repo_next_id_failed", err)
	}
	return next, nil
}

func (r *Repository) SaveProposal(ctx context.Context, proposal entities.Proposal) error {
	row, err := proposalModelFromEntity(proposal)
	if err != nil {
		return err
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"option_votes":       row.OptionVotes,
			"total_votes":        row.TotalVotes,
			"total_voting_power": row.TotalVotingPower,
			"status":             row.Status,
			"winning_option":     row.WinningOption,
			"finalized_at":       row.FinalizedAt,
		}),
	}).Create(&row)
	if create.Error != nil {
		return r.logError("governance_repo_save_proposal_failed", create.Error,
			"proposal_id", proposal.ID,
		)
	}
	return nil
}

func (r *Repository) GetProposal(ctx context.Context, proposalID int64) (entities.Proposal, error) {
	var row proposalModel
	err := r.db.WithContext(ctx).
		Where("id = ?", proposalID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Proposal{}, domainerrors.ErrProposalNotFound
		}
		return entities.Proposal{}, r.logError("governance_repo_get_proposal_failed", err,
			"proposal_id", proposalID,
		)
	}
	return row.toEntity()
}

func (r *Repository) ListProposals(ctx context.Context) ([]entities.Proposal, error) {
	var rows []proposalModel
	if err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("governance_repo_list_proposals_failed", err)
	}
	items := make([]entities.Proposal, 0, len(rows))
	for _, row := range rows {
		proposal, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		items = append(items, proposal)
	}
	return items, nil
}

func (r *Repository) ListActiveDueBefore(ctx context.Context, deadline time.Time, limit int) ([]entities.Proposal, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []proposalModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND voting_end_at < ?", string(entities.ProposalStatusActive), deadline.UTC()).
		Order("id ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("governance_repo_list_due_failed", err)
	}
	items := make([]entities.Proposal, 0, len(rows))
	for _, row := range rows {
		proposal, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		items = append(items, proposal)
	}
	return items, nil
}

func (r *Repository) SaveBallot(ctx context.Context, vote entities.Vote, proposal entities.Proposal) error {
	proposalRow, err := proposalModelFromEntity(proposal)
	if err != nil {
		return err
	}
	voteRow := voteModelFromEntity(vote)
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&voteRow).Error; err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"option_votes":       proposalRow.OptionVotes,
				"total_votes":        proposalRow.TotalVotes,
				"total_voting_power": proposalRow.TotalVotingPower,
				"status":             proposalRow.Status,
				"winning_option":     proposalRow.WinningOption,
				"finalized_at":       proposalRow.FinalizedAt,
			}),
		}).Create(&proposalRow).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrAlreadyVoted
		}
		return r.logError("governance_repo_save_ballot_failed", err,
			"proposal_id", vote.ProposalID,
			"account", strings.TrimSpace(vote.Account),
		)
	}
	return nil
}

func (r *Repository) GetVote(ctx context.Context, proposalID int64, account string) (entities.Vote, bool, error) {
	var row voteModel
	err := r.db.WithContext(ctx).
		Where("proposal_id = ? AND account = ?", proposalID, strings.TrimSpace(account)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Vote{}, false, nil
		}
		return entities.Vote{}, false, r.logError("governance_repo_get_vote_failed", err,
			"proposal_id", proposalID,
			"account", strings.TrimSpace(account),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) ListVotesByProposal(ctx context.Context, proposalID int64) ([]entities.Vote, error) {
	var rows []voteModel
	if err := r.db.WithContext(ctx).
		Where("proposal_id = ?", proposalID).
		Order("cast_at ASC, account ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("governance_repo_list_votes_failed", err, "proposal_id", proposalID)
	}
	items := make([]entities.Vote, 0, len(rows))
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
		return r.logError("governance_repo_append_outbox_failed", err, "event_id", envelope.EventID)
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
		return nil, r.logError("governance_repo_list_outbox_failed", err)
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
		return r.logError("governance_repo_mark_outbox_failed", update.Error, "outbox_id", outboxID)
	}
	if update.RowsAffected == 0 {
		return domainerrors.ErrConflict
	}
	return nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "fund-core/proposal-engine",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("proposal repository failure", fields...)
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
