package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"decentralfund/contexts/fund-core/token-ledger/domain/entities"
	domainerrors "decentralfund/contexts/fund-core/token-ledger/domain/errors"
	"decentralfund/contexts/fund-core/token-ledger/ports"
)

// Service orchestrates all balance mutations. It is the single serialization
// point for the shared ledger: every mutating call holds mu for its full
// read-modify-write span, so no reader ever observes a balance whose voting
// power has not been recomputed, and concurrent mints/debits of one account
// cannot race the insufficient-balance check.
type Service struct {
	mu sync.Mutex

	Repo   ports.Repository
	Outbox ports.OutboxWriter
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Owner  string
	Logger *slog.Logger
}

// Mint credits amount to account, creating the account on first credit, and
// recomputes voting power before returning.
func (s *Service) Mint(ctx context.Context, account string, amount int64) error {
	account = strings.TrimSpace(account)
	if account == "" {
		return domainerrors.ErrInvalidAccount
	}
	if amount <= 0 {
		return domainerrors.ErrInvalidAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureUnpaused(ctx); err != nil {
		return err
	}

	now := s.now()
	target, err := s.loadOrCreate(ctx, account, now)
	if err != nil {
		return err
	}
	oldPower := target.VotingPower
	target.Balance += amount
	target.Recompute()
	target.UpdatedAt = now
	if err := s.Repo.SaveAccount(ctx, target); err != nil {
		return err
	}

	if err := s.appendEvent(ctx, "ledger.minted", account, now, map[string]any{
		"account": account,
		"amount":  amount,
	}); err != nil {
		return err
	}
	if err := s.appendPowerEvent(ctx, account, oldPower, target.VotingPower, now); err != nil {
		return err
	}

	ResolveLogger(s.Logger).Info("tokens minted",
		"event", "ledger_minted",
		"module", "fund-core/token-ledger",
		"layer", "application",
		"account", account,
		"amount", amount,
		"balance", target.Balance,
		"voting_power", target.VotingPower,
	)
	return nil
}

// Transfer moves amount between accounts, recomputing voting power on both
// sides. Balance sum across the pair is conserved.
func (s *Service) Transfer(ctx context.Context, from string, to string, amount int64) error {
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)
	if from == "" {
		return domainerrors.ErrInvalidAccount
	}
	if to == "" {
		return domainerrors.ErrInvalidRecipient
	}
	if amount <= 0 {
		return domainerrors.ErrInvalidAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureUnpaused(ctx); err != nil {
		return err
	}

	now := s.now()
	sender, err := s.Repo.GetAccount(ctx, from)
	if err != nil {
		if errors.Is(err, domainerrors.ErrAccountNotFound) {
			return domainerrors.ErrInsufficientBalance
		}
		return err
	}
	if sender.Balance < amount {
		return domainerrors.ErrInsufficientBalance
	}
	if from == to {
		// Self-transfer conserves the balance; writing debit and credit
		// copies separately would double-count, so no record changes.
		if err := s.appendEvent(ctx, "ledger.transferred", from, now, map[string]any{
			"from":   from,
			"to":     to,
			"amount": amount,
		}); err != nil {
			return err
		}
		ResolveLogger(s.Logger).Info("tokens transferred",
			"event", "ledger_transferred",
			"module", "fund-core/token-ledger",
			"layer", "application",
			"from", from,
			"to", to,
			"amount", amount,
		)
		return nil
	}
	recipient, err := s.loadOrCreate(ctx, to, now)
	if err != nil {
		return err
	}

	oldSenderPower := sender.VotingPower
	oldRecipientPower := recipient.VotingPower

	sender.Balance -= amount
	sender.Recompute()
	sender.UpdatedAt = now
	recipient.Balance += amount
	recipient.Recompute()
	recipient.UpdatedAt = now

	if err := s.Repo.SaveAccounts(ctx, sender, recipient); err != nil {
		return err
	}

	if err := s.appendEvent(ctx, "ledger.transferred", from, now, map[string]any{
		"from":   from,
		"to":     to,
		"amount": amount,
	}); err != nil {
		return err
	}
	if err := s.appendPowerEvent(ctx, from, oldSenderPower, sender.VotingPower, now); err != nil {
		return err
	}
	if err := s.appendPowerEvent(ctx, to, oldRecipientPower, recipient.VotingPower, now); err != nil {
		return err
	}

	ResolveLogger(s.Logger).Info("tokens transferred",
		"event", "ledger_transferred",
		"module", "fund-core/token-ledger",
		"layer", "application",
		"from", from,
		"to", to,
		"amount", amount,
	)
	return nil
}

// Pause halts mutations; reads stay available. Owner only.
func (s *Service) Pause(ctx context.Context, actor string) error {
	return s.setPaused(ctx, actor, true)
}

// Unpause resumes mutations. Owner only.
func (s *Service) Unpause(ctx context.Context, actor string) error {
	return s.setPaused(ctx, actor, false)
}

func (s *Service) setPaused(ctx context.Context, actor string, paused bool) error {
	if !strings.EqualFold(strings.TrimSpace(actor), strings.TrimSpace(s.Owner)) {
		return domainerrors.ErrNotOwner
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if err := s.Repo.SetPaused(ctx, paused, now); err != nil {
		return err
	}
	ResolveLogger(s.Logger).Info("ledger pause state changed",
		"event", "ledger_pause_changed",
		"module", "fund-core/token-ledger",
		"layer", "application",
		"paused", paused,
		"actor", strings.TrimSpace(actor),
	)
	return nil
}

// BalanceOf returns the account balance, 0 for unknown accounts.
func (s *Service) BalanceOf(ctx context.Context, account string) (int64, error) {
	record, err := s.Repo.GetAccount(ctx, strings.TrimSpace(account))
	if err != nil {
		if errors.Is(err, domainerrors.ErrAccountNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return record.Balance, nil
}

// VotingPowerOf returns isqrt(balance), 0 for unknown accounts.
func (s *Service) VotingPowerOf(ctx context.Context, account string) (int64, error) {
	record, err := s.Repo.GetAccount(ctx, strings.TrimSpace(account))
	if err != nil {
		if errors.Is(err, domainerrors.ErrAccountNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return record.VotingPower, nil
}

func (s *Service) GetAccount(ctx context.Context, address string) (entities.Account, error) {
	return s.Repo.GetAccount(ctx, strings.TrimSpace(address))
}

func (s *Service) TotalSupply(ctx context.Context) (int64, error) {
	return s.Repo.TotalSupply(ctx)
}

func (s *Service) IsPaused(ctx context.Context) (bool, error) {
	return s.Repo.IsPaused(ctx)
}

func (s *Service) ensureUnpaused(ctx context.Context) error {
	paused, err := s.Repo.IsPaused(ctx)
	if err != nil {
		return err
	}
	if paused {
		return domainerrors.ErrLedgerPaused
	}
	return nil
}

func (s *Service) loadOrCreate(ctx context.Context, address string, now time.Time) (entities.Account, error) {
	record, err := s.Repo.GetAccount(ctx, address)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, domainerrors.ErrAccountNotFound) {
		return entities.Account{}, err
	}
	return entities.Account{
		Address:   address,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *Service) now() time.Time {
	now := time.Now().UTC()
	if s.Clock != nil {
		now = s.Clock.Now().UTC()
	}
	return now
}

func (s *Service) appendPowerEvent(
	ctx context.Context,
	account string,
	oldPower int64,
	newPower int64,
	occurredAt time.Time,
) error {
	if oldPower == newPower {
		return nil
	}
	return s.appendEvent(ctx, "ledger.voting_power_updated", account, occurredAt, map[string]any{
		"account": account,
		"old":     oldPower,
		"new":     newPower,
	})
}

func (s *Service) appendEvent(
	ctx context.Context,
	eventType string,
	account string,
	occurredAt time.Time,
	payload map[string]any,
) error {
	// Outbox is optional for pure read/test wiring, so nil is treated as no-op.
	if s.Outbox == nil {
		return nil
	}
	eventID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	envelope, err := newLedgerEnvelope(eventID, eventType, account, occurredAt, payload)
	if err != nil {
		return err
	}
	return s.Outbox.AppendOutbox(ctx, envelope)
}
