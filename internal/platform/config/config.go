package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is centralized process configuration.
// Governance parameters are tunable, never compiled-in: env first, with an
// optional YAML file (CONFIG_FILE) taking precedence for the Params block.
type Config struct {
	ServiceName string
	HTTPPort    string
	PostgresDSN string

	Params Params

	// Worker cadence.
	InstallmentCron string
	FinalizerCron   string
	OutboxCron      string
}

// Params carries the adjustable governance constants. Amounts are in the
// smallest token unit; fee is in basis points (1/100 of a percent).
type Params struct {
	LedgerOwner          string        `yaml:"ledger_owner"`
	VotingDuration       time.Duration `yaml:"voting_duration"`
	MinimumQuorum        int64         `yaml:"minimum_quorum"`
	MinProposalStake     int64         `yaml:"min_proposal_stake"`
	MinManagerStake      int64         `yaml:"min_manager_stake"`
	MaxFundManagers      int           `yaml:"max_fund_managers"`
	ManagerTermDuration  time.Duration `yaml:"manager_term_duration"`
	FeeBps               int64         `yaml:"fee_bps"`
	FeeRecipient         string        `yaml:"fee_recipient"`
	MinInstallmentAmount int64         `yaml:"min_installment_amount"`
	MinFrequency         time.Duration `yaml:"min_frequency"`
	AnnualReturnRate     string        `yaml:"annual_return_rate"`
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "decentralfund"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	cfg := Config{
		ServiceName: service,
		HTTPPort:    port,
		PostgresDSN: os.Getenv("POSTGRES_DSN"),

		Params: Params{
			LedgerOwner:          envString("LEDGER_OWNER", "fund-treasury"),
			VotingDuration:       envDuration("VOTING_DURATION", 7*24*time.Hour),
			MinimumQuorum:        envInt64("MINIMUM_QUORUM", 1000),
			MinProposalStake:     envInt64("MIN_PROPOSAL_STAKE", 100),
			MinManagerStake:      envInt64("MIN_MANAGER_STAKE", 1000),
			MaxFundManagers:      int(envInt64("MAX_FUND_MANAGERS", 7)),
			ManagerTermDuration:  envDuration("MANAGER_TERM_DURATION", 90*24*time.Hour),
			FeeBps:               envInt64("FEE_BPS", 100),
			FeeRecipient:         envString("FEE_RECIPIENT", "fund-treasury"),
			MinInstallmentAmount: envInt64("MIN_INSTALLMENT_AMOUNT", 10),
			MinFrequency:         envDuration("MIN_FREQUENCY", 24*time.Hour),
			AnnualReturnRate:     envString("ANNUAL_RETURN_RATE", "0.12"),
		},

		InstallmentCron: envString("INSTALLMENT_CRON", "@every 1m"),
		FinalizerCron:   envString("FINALIZER_CRON", "@every 1m"),
		OutboxCron:      envString("OUTBOX_CRON", "@every 5s"),
	}

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := loadParamsFile(path, &cfg.Params); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.Params.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadParamsFile(path string, params *Params) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, params); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (p Params) validate() error {
	if p.FeeBps < 0 || p.FeeBps > 10000 {
		return fmt.Errorf("fee_bps must be within [0, 10000], got %d", p.FeeBps)
	}
	if p.VotingDuration <= 0 {
		return fmt.Errorf("voting_duration must be positive, got %s", p.VotingDuration)
	}
	if p.MinFrequency <= 0 {
		return fmt.Errorf("min_frequency must be positive, got %s", p.MinFrequency)
	}
	if p.MinimumQuorum < 0 || p.MinProposalStake < 0 || p.MinManagerStake < 0 || p.MinInstallmentAmount < 0 {
		return fmt.Errorf("governance thresholds must be non-negative")
	}
	if p.MaxFundManagers <= 0 {
		return fmt.Errorf("max_fund_managers must be positive, got %d", p.MaxFundManagers)
	}
	if p.ManagerTermDuration <= 0 {
		return fmt.Errorf("manager_term_duration must be positive, got %s", p.ManagerTermDuration)
	}
	return nil
}

func envString(name string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback
	}
	return value
}

func envInt64(name string, fallback int64) int64 {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fallback
	}
	return value
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return value
}
