package workers

import (
	"context"
	"log/slog"
	"time"

	application "decentralfund/contexts/fund-core/proposal-engine/application"
	"decentralfund/contexts/fund-core/proposal-engine/application/commands"
	"decentralfund/contexts/fund-core/proposal-engine/ports"
)

// DeadlineFinalizer sweeps Active proposals whose voting window has elapsed
// and finalizes each one. Proposals that fail to finalize are logged and left
// for the next cycle.
type DeadlineFinalizer struct {
	Proposals ports.ProposalRepository
	UseCase   *commands.ProposalUseCase
	Clock     ports.Clock
	BatchSize int
	Logger    *slog.Logger
}

func (w DeadlineFinalizer) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(w.Logger)
	limit := w.BatchSize
	if limit <= 0 {
		limit = 100
	}
	now := time.Now().UTC()
	if w.Clock != nil {
		now = w.Clock.Now().UTC()
	}

	due, err := w.Proposals.ListActiveDueBefore(ctx, now, limit)
	if err != nil {
		logger.Error("deadline sweep list failed",
			"event", "governance_deadline_sweep_failed",
			"module", "fund-core/proposal-engine",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}
	if len(due) == 0 {
		logger.Debug("deadline sweep found no due proposals",
			"event", "governance_deadline_sweep_noop",
			"module", "fund-core/proposal-engine",
			"layer", "worker",
		)
		return nil
	}

	finalized := 0
	for _, proposal := range due {
		if _, err := w.UseCase.Finalize(ctx, proposal.ID); err != nil {
			logger.Error("deadline sweep finalize failed",
				"event", "governance_deadline_finalize_failed",
				"module", "fund-core/proposal-engine",
				"layer", "worker",
				"proposal_id", proposal.ID,
				"error", err.Error(),
			)
			continue
		}
		finalized++
	}

	logger.Info("deadline sweep completed",
		"event", "governance_deadline_sweep_completed",
		"module", "fund-core/proposal-engine",
		"layer", "worker",
		"due", len(due),
		"finalized", finalized,
	)
	return nil
}
