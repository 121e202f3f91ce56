package workers

import (
	"context"
	"log/slog"
	"time"

	"decentralfund/contexts/fund-core/installment-engine/application"
	"decentralfund/contexts/fund-core/installment-engine/ports"
)

// DuePlanRunner processes Active plans whose next payment date has arrived,
// charging each one its configured installment amount. Failures are logged
// and surfaced through the cycle result; the runner never retries a plan
// within a cycle.
type DuePlanRunner struct {
	Plans     ports.PlanRepository
	Service   *application.Service
	Clock     ports.Clock
	BatchSize int
	Logger    *slog.Logger
}

func (w DuePlanRunner) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(w.Logger)
	limit := w.BatchSize
	if limit <= 0 {
		limit = 100
	}
	now := time.Now().UTC()
	if w.Clock != nil {
		now = w.Clock.Now().UTC()
	}

	due, err := w.Plans.ListDuePlans(ctx, now, limit)
	if err != nil {
		logger.Error("due plan sweep list failed",
			"event", "sip_due_sweep_failed",
			"module", "fund-core/installment-engine",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}
	if len(due) == 0 {
		logger.Debug("due plan sweep found nothing to process",
			"event", "sip_due_sweep_noop",
			"module", "fund-core/installment-engine",
			"layer", "worker",
		)
		return nil
	}

	processed := 0
	for _, plan := range due {
		if _, err := w.Service.ProcessInstallment(ctx, plan.ID, plan.AmountPerInstallment); err != nil {
			logger.Error("due plan processing failed",
				"event", "sip_due_process_failed",
				"module", "fund-core/installment-engine",
				"layer", "worker",
				"plan_id", plan.ID,
				"error", err.Error(),
			)
			continue
		}
		processed++
	}

	logger.Info("due plan sweep completed",
		"event", "sip_due_sweep_completed",
		"module", "fund-core/installment-engine",
		"layer", "worker",
		"due", len(due),
		"processed", processed,
	)
	return nil
}
