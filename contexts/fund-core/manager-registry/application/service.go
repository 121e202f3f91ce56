package application

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"decentralfund/contexts/fund-core/manager-registry/domain/entities"
	domainerrors "decentralfund/contexts/fund-core/manager-registry/domain/errors"
	"decentralfund/contexts/fund-core/manager-registry/ports"
)

// RegisterInput is the write-model input for manager registration.
type RegisterInput struct {
	Address         string
	Name            string
	Credentials     string
	ExperienceYears int
}

// Service maintains the fund-manager roster. Registration is gated on the
// ledger stake and idempotent: re-registering an address overwrites its
// profile fields without duplicating the record or resetting governance
// state.
type Service struct {
	mu sync.Mutex

	Managers     ports.ManagerRepository
	Ledger       ports.StakeVerifier
	Elections    ports.ElectionReader
	Outbox       ports.OutboxWriter
	Clock        ports.Clock
	IDGen        ports.IDGenerator
	MinStake     int64
	MaxManagers  int
	TermDuration time.Duration
	Logger       *slog.Logger
}

func (s *Service) Register(ctx context.Context, input RegisterInput) (entities.FundManager, error) {
	address := strings.TrimSpace(input.Address)
	name := strings.TrimSpace(input.Name)
	if address == "" {
		return entities.FundManager{}, domainerrors.ErrInvalidAddress
	}
	if name == "" {
		return entities.FundManager{}, domainerrors.ErrEmptyName
	}
	if input.ExperienceYears <= 0 {
		return entities.FundManager{}, domainerrors.ErrNoExperience
	}

	balance, err := s.Ledger.BalanceOf(ctx, address)
	if err != nil {
		return entities.FundManager{}, err
	}
	if balance < s.MinStake {
		return entities.FundManager{}, domainerrors.ErrNotEligible
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	manager, err := s.Managers.GetManager(ctx, address)
	if err != nil {
		if !errors.Is(err, domainerrors.ErrManagerNotFound) {
			return entities.FundManager{}, err
		}
		manager = entities.FundManager{
			Address:      address,
			RegisteredAt: now,
		}
	}
	manager.Name = name
	manager.Credentials = strings.TrimSpace(input.Credentials)
	manager.ExperienceYears = input.ExperienceYears
	manager.UpdatedAt = now

	if err := s.Managers.SaveManager(ctx, manager); err != nil {
		return entities.FundManager{}, err
	}
	if err := s.appendManagerEvent(ctx, "registry.manager_registered", manager, now, map[string]any{
		"address":          address,
		"name":             name,
		"experience_years": input.ExperienceYears,
	}); err != nil {
		return entities.FundManager{}, err
	}

	ResolveLogger(s.Logger).Info("fund manager registered",
		"event", "registry_manager_registered",
		"module", "fund-core/manager-registry",
		"layer", "application",
		"address", address,
		"name", name,
		"experience_years", input.ExperienceYears,
	)
	return manager, nil
}

// RecordPerformance updates the signed performance score and assets under
// management for a registered manager.
func (s *Service) RecordPerformance(ctx context.Context, address string, score int64, aum int64) (entities.FundManager, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return entities.FundManager{}, domainerrors.ErrInvalidAddress
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	manager, err := s.Managers.GetManager(ctx, address)
	if err != nil {
		return entities.FundManager{}, err
	}
	now := s.now()
	manager.PerformanceScore = score
	manager.AssetsUnderManagement = aum
	manager.UpdatedAt = now

	if err := s.Managers.SaveManager(ctx, manager); err != nil {
		return entities.FundManager{}, err
	}
	if err := s.appendManagerEvent(ctx, "registry.performance_recorded", manager, now, map[string]any{
		"address": address,
		"score":   score,
		"aum":     aum,
	}); err != nil {
		return entities.FundManager{}, err
	}

	ResolveLogger(s.Logger).Info("manager performance recorded",
		"event", "registry_performance_recorded",
		"module", "fund-core/manager-registry",
		"layer", "application",
		"address", address,
		"score", score,
		"aum", aum,
	)
	return manager, nil
}

// ExecuteElection consumes a passed governance proposal whose ballot options
// are candidate addresses. The candidates with the most accumulated power win
// seats up to MaxManagers, become the active roster with a fresh term window,
// and any previously active manager who lost their seat is deactivated.
// Ballot options that match no registered manager (for example an abstain
// option) are skipped.
func (s *Service) ExecuteElection(ctx context.Context, proposalID int64) ([]entities.FundManager, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tally, err := s.Elections.ElectionTally(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if !tally.Passed {
		return nil, domainerrors.ErrElectionNotPassed
	}

	type candidate struct {
		manager entities.FundManager
		power   int64
	}
	candidates := make([]candidate, 0, len(tally.Options))
	for i, option := range tally.Options {
		address := strings.TrimSpace(option)
		if address == "" || i >= len(tally.Power) || tally.Power[i] <= 0 {
			continue
		}
		manager, err := s.Managers.GetManager(ctx, address)
		if err != nil {
			if errors.Is(err, domainerrors.ErrManagerNotFound) {
				continue
			}
			return nil, err
		}
		candidates = append(candidates, candidate{manager: manager, power: tally.Power[i]})
	}
	if len(candidates) == 0 {
		return nil, domainerrors.ErrNoCandidates
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].power != candidates[j].power {
			return candidates[i].power > candidates[j].power
		}
		return candidates[i].manager.Address < candidates[j].manager.Address
	})
	seats := s.MaxManagers
	if seats <= 0 || seats > len(candidates) {
		seats = len(candidates)
	}
	candidates = candidates[:seats]

	now := s.now()
	termEnd := now.Add(s.TermDuration)
	electedAddresses := make(map[string]struct{}, len(candidates))
	elected := make([]entities.FundManager, 0, len(candidates))
	for _, c := range candidates {
		manager := c.manager
		termStart := now
		manager.IsActive = true
		manager.VotesReceived = c.power
		manager.TermStart = &termStart
		manager.TermEnd = &termEnd
		manager.UpdatedAt = now
		if err := s.Managers.SaveManager(ctx, manager); err != nil {
			return nil, err
		}
		if err := s.appendManagerEvent(ctx, "registry.manager_elected", manager, now, map[string]any{
			"address":        manager.Address,
			"proposal_id":    tally.ProposalID,
			"votes_received": c.power,
			"term_end":       termEnd,
		}); err != nil {
			return nil, err
		}
		electedAddresses[manager.Address] = struct{}{}
		elected = append(elected, manager)
	}

	incumbents, err := s.Managers.ListActiveManagers(ctx)
	if err != nil {
		return nil, err
	}
	for _, manager := range incumbents {
		if _, kept := electedAddresses[manager.Address]; kept {
			continue
		}
		manager.IsActive = false
		manager.UpdatedAt = now
		if err := s.Managers.SaveManager(ctx, manager); err != nil {
			return nil, err
		}
	}

	ResolveLogger(s.Logger).Info("fund manager election executed",
		"event", "registry_election_executed",
		"module", "fund-core/manager-registry",
		"layer", "application",
		"proposal_id", tally.ProposalID,
		"elected", len(elected),
	)
	return elected, nil
}

func (s *Service) GetManager(ctx context.Context, address string) (entities.FundManager, error) {
	return s.Managers.GetManager(ctx, strings.TrimSpace(address))
}

func (s *Service) ListManagers(ctx context.Context) ([]entities.FundManager, error) {
	return s.Managers.ListManagers(ctx)
}

// ListActiveManagers returns the active roster ordered by address.
func (s *Service) ListActiveManagers(ctx context.Context) ([]entities.FundManager, error) {
	return s.Managers.ListActiveManagers(ctx)
}

func (s *Service) now() time.Time {
	now := time.Now().UTC()
	if s.Clock != nil {
		now = s.Clock.Now().UTC()
	}
	return now
}
