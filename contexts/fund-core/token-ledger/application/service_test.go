package application_test

import (
	"context"
	"errors"
	"testing"

	tokenledger "decentralfund/contexts/fund-core/token-ledger"
	domainerrors "decentralfund/contexts/fund-core/token-ledger/domain/errors"
)

func TestMintCreatesAccountAndRecomputesPower(t *testing.T) {
	module := tokenledger.NewInMemoryModule(nil, "owner", nil)
	ctx := context.Background()

	if err := module.Service.Mint(ctx, "alice", 10000); err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	power, err := module.Service.VotingPowerOf(ctx, "alice")
	if err != nil {
		t.Fatalf("voting power read failed: %v", err)
	}
	if power != 100 {
		t.Fatalf("voting power = %d, want 100", power)
	}
	supply, err := module.Service.TotalSupply(ctx)
	if err != nil {
		t.Fatalf("total supply read failed: %v", err)
	}
	if supply != 10000 {
		t.Fatalf("total supply = %d, want 10000", supply)
	}
}

func TestMintValidation(t *testing.T) {
	module := tokenledger.NewInMemoryModule(nil, "owner", nil)
	ctx := context.Background()

	if err := module.Service.Mint(ctx, "alice", 0); !errors.Is(err, domainerrors.ErrInvalidAmount) {
		t.Fatalf("zero amount: got %v, want ErrInvalidAmount", err)
	}
	if err := module.Service.Mint(ctx, "alice", -5); !errors.Is(err, domainerrors.ErrInvalidAmount) {
		t.Fatalf("negative amount: got %v, want ErrInvalidAmount", err)
	}
	if err := module.Service.Mint(ctx, "  ", 10); !errors.Is(err, domainerrors.ErrInvalidAccount) {
		t.Fatalf("blank account: got %v, want ErrInvalidAccount", err)
	}
}

func TestTransferConservesBalances(t *testing.T) {
	module := tokenledger.NewInMemoryModule(nil, "owner", nil)
	ctx := context.Background()

	if err := module.Service.Mint(ctx, "alice", 5000); err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	if err := module.Service.Transfer(ctx, "alice", "bob", 1500); err != nil {
		t.Fatalf("transfer failed: %v", err)
	}

	aliceBalance, _ := module.Service.BalanceOf(ctx, "alice")
	bobBalance, _ := module.Service.BalanceOf(ctx, "bob")
	if aliceBalance != 3500 || bobBalance != 1500 {
		t.Fatalf("balances = %d/%d, want 3500/1500", aliceBalance, bobBalance)
	}
	if aliceBalance+bobBalance != 5000 {
		t.Fatalf("conservation violated: sum = %d", aliceBalance+bobBalance)
	}

	alicePower, _ := module.Service.VotingPowerOf(ctx, "alice")
	bobPower, _ := module.Service.VotingPowerOf(ctx, "bob")
	if alicePower != 59 || bobPower != 38 {
		t.Fatalf("powers = %d/%d, want 59/38", alicePower, bobPower)
	}
}

func TestSelfTransferLeavesBalanceAndSupplyUnchanged(t *testing.T) {
	module := tokenledger.NewInMemoryModule(nil, "owner", nil)
	ctx := context.Background()

	if err := module.Service.Mint(ctx, "alice", 500); err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	if err := module.Service.Transfer(ctx, "alice", "alice", 100); err != nil {
		t.Fatalf("self-transfer failed: %v", err)
	}

	balance, _ := module.Service.BalanceOf(ctx, "alice")
	if balance != 500 {
		t.Fatalf("balance = %d, want 500", balance)
	}
	supply, _ := module.Service.TotalSupply(ctx)
	if supply != 500 {
		t.Fatalf("total supply = %d, want 500", supply)
	}

	// Amounts exceeding the balance still fail even against the same account.
	if err := module.Service.Transfer(ctx, "alice", "alice", 600); !errors.Is(err, domainerrors.ErrInsufficientBalance) {
		t.Fatalf("overdrawn self-transfer: got %v, want ErrInsufficientBalance", err)
	}
}

func TestTransferRejections(t *testing.T) {
	module := tokenledger.NewInMemoryModule(nil, "owner", nil)
	ctx := context.Background()

	if err := module.Service.Mint(ctx, "alice", 100); err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	if err := module.Service.Transfer(ctx, "alice", "bob", 200); !errors.Is(err, domainerrors.ErrInsufficientBalance) {
		t.Fatalf("overdraw: got %v, want ErrInsufficientBalance", err)
	}
	if err := module.Service.Transfer(ctx, "alice", "", 10); !errors.Is(err, domainerrors.ErrInvalidRecipient) {
		t.Fatalf("empty recipient: got %v, want ErrInvalidRecipient", err)
	}
	if err := module.Service.Transfer(ctx, "ghost", "bob", 10); !errors.Is(err, domainerrors.ErrInsufficientBalance) {
		t.Fatalf("unknown sender: got %v, want ErrInsufficientBalance", err)
	}

	balance, _ := module.Service.BalanceOf(ctx, "alice")
	if balance != 100 {
		t.Fatalf("failed transfers mutated balance: %d", balance)
	}
}

func TestPauseBlocksMutationsButNotReads(t *testing.T) {
	module := tokenledger.NewInMemoryModule(nil, "owner", nil)
	ctx := context.Background()

	if err := module.Service.Mint(ctx, "alice", 400); err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	if err := module.Service.Pause(ctx, "mallory"); !errors.Is(err, domainerrors.ErrNotOwner) {
		t.Fatalf("non-owner pause: got %v, want ErrNotOwner", err)
	}
	if err := module.Service.Pause(ctx, "owner"); err != nil {
		t.Fatalf("pause failed: %v", err)
	}

	if err := module.Service.Mint(ctx, "alice", 100); !errors.Is(err, domainerrors.ErrLedgerPaused) {
		t.Fatalf("mint while paused: got %v, want ErrLedgerPaused", err)
	}
	if err := module.Service.Transfer(ctx, "alice", "bob", 10); !errors.Is(err, domainerrors.ErrLedgerPaused) {
		t.Fatalf("transfer while paused: got %v, want ErrLedgerPaused", err)
	}
	power, err := module.Service.VotingPowerOf(ctx, "alice")
	if err != nil || power != 20 {
		t.Fatalf("read while paused = %d/%v, want 20/nil", power, err)
	}

	if err := module.Service.Unpause(ctx, "owner"); err != nil {
		t.Fatalf("unpause failed: %v", err)
	}
	if err := module.Service.Mint(ctx, "alice", 100); err != nil {
		t.Fatalf("mint after unpause failed: %v", err)
	}
}

func TestUnknownAccountReadsAsZero(t *testing.T) {
	module := tokenledger.NewInMemoryModule(nil, "owner", nil)
	ctx := context.Background()

	power, err := module.Service.VotingPowerOf(ctx, "nobody")
	if err != nil || power != 0 {
		t.Fatalf("unknown power = %d/%v, want 0/nil", power, err)
	}
	balance, err := module.Service.BalanceOf(ctx, "nobody")
	if err != nil || balance != 0 {
		t.Fatalf("unknown balance = %d/%v, want 0/nil", balance, err)
	}
}

func TestMintAppendsOutboxEvents(t *testing.T) {
	module := tokenledger.NewInMemoryModule(nil, "owner", nil)
	ctx := context.Background()

	if err := module.Service.Mint(ctx, "alice", 9); err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	pending, err := module.Store.ListPendingOutbox(ctx, 10)
	if err != nil {
		t.Fatalf("list outbox failed: %v", err)
	}
	// One minted event plus one voting-power update (0 -> 3).
	if len(pending) != 2 {
		t.Fatalf("pending outbox = %d rows, want 2", len(pending))
	}
}

func TestDrainedAccountPersists(t *testing.T) {
	module := tokenledger.NewInMemoryModule(nil, "owner", nil)
	ctx := context.Background()

	if err := module.Service.Mint(ctx, "alice", 50); err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	if err := module.Service.Transfer(ctx, "alice", "bob", 50); err != nil {
		t.Fatalf("transfer failed: %v", err)
	}
	account, err := module.Service.GetAccount(ctx, "alice")
	if err != nil {
		t.Fatalf("drained account should persist: %v", err)
	}
	if account.Balance != 0 || account.VotingPower != 0 {
		t.Fatalf("drained account = %d/%d, want 0/0", account.Balance, account.VotingPower)
	}
}
