package commands_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	proposalengine "decentralfund/contexts/fund-core/proposal-engine"
	"decentralfund/contexts/fund-core/proposal-engine/adapters/memory"
	"decentralfund/contexts/fund-core/proposal-engine/application/commands"
	"decentralfund/contexts/fund-core/proposal-engine/domain/entities"
	domainerrors "decentralfund/contexts/fund-core/proposal-engine/domain/errors"
)

type stubClock struct {
	now time.Time
}

func (c *stubClock) Now() time.Time {
	return c.now
}

func (c *stubClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
}

type stubLedger struct {
	balances map[string]int64
	powers   map[string]int64
}

func (l stubLedger) BalanceOf(_ context.Context, account string) (int64, error) {
	return l.balances[account], nil
}

func (l stubLedger) VotingPowerOf(_ context.Context, account string) (int64, error) {
	return l.powers[account], nil
}

func newFixture(quorum int64) (proposalengine.Module, *stubClock, *memory.Store) {
	clock := &stubClock{now: time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)}
	ledger := stubLedger{
		balances: map[string]int64{
			"alice": 10000,
			"bob":   22500,
			"carol": 400,
		},
		powers: map[string]int64{
			"alice": 100,
			"bob":   150,
			"carol": 20,
		},
	}
	store := memory.NewStore()
	module := proposalengine.NewModule(proposalengine.Dependencies{
		Proposals:        store,
		Ledger:           ledger,
		Outbox:           store,
		Clock:            clock,
		IDGen:            store,
		VotingDuration:   7 * 24 * time.Hour,
		MinimumQuorum:    quorum,
		MinProposalStake: 100,
		Logger:           nil,
	})
	module.Store = store
	return module, clock, store
}

func createProposal(t *testing.T, module proposalengine.Module, creator string) entities.Proposal {
	t.Helper()
	proposal, err := module.Commands.CreateProposal(context.Background(), commands.CreateProposalCommand{
		Creator:     creator,
		Title:       "Rebalance treasury",
		Description: "Shift 10% of reserves into the index pool",
		Options:     []string{"approve", "reject", "defer"},
	})
	if err != nil {
		t.Fatalf("create proposal failed: %v", err)
	}
	return proposal
}

func TestCreateProposalValidation(t *testing.T) {
	module, _, _ := newFixture(200)
	ctx := context.Background()

	cases := []struct {
		name string
		cmd  commands.CreateProposalCommand
		want error
	}{
		{
			name: "empty title",
			cmd:  commands.CreateProposalCommand{Creator: "alice", Title: "  ", Options: []string{"a", "b"}},
			want: domainerrors.ErrEmptyTitle,
		},
		{
			name: "single option",
			cmd:  commands.CreateProposalCommand{Creator: "alice", Title: "t", Options: []string{"a"}},
			want: domainerrors.ErrInsufficientOptions,
		},
		{
			name: "duplicate options",
			cmd:  commands.CreateProposalCommand{Creator: "alice", Title: "t", Options: []string{"a", "a"}},
			want: domainerrors.ErrDuplicateOptions,
		},
		{
			name: "creator below stake",
			cmd:  commands.CreateProposalCommand{Creator: "carol", Title: "t", Options: []string{"a", "b"}},
			want: domainerrors.ErrNotEligible,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := module.Commands.CreateProposal(ctx, tc.cmd); !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestCreateProposalSnapshotsParameters(t *testing.T) {
	module, clock, _ := newFixture(200)
	proposal := createProposal(t, module, "alice")

	if proposal.ID != 1 {
		t.Fatalf("proposal id = %d, want 1", proposal.ID)
	}
	if proposal.Status != entities.ProposalStatusActive {
		t.Fatalf("status = %s, want active", proposal.Status)
	}
	if proposal.MinimumQuorum != 200 {
		t.Fatalf("minimum quorum = %d, want 200", proposal.MinimumQuorum)
	}
	wantEnd := clock.now.Add(7 * 24 * time.Hour)
	if !proposal.VotingEndAt.Equal(wantEnd) {
		t.Fatalf("voting end = %v, want %v", proposal.VotingEndAt, wantEnd)
	}
	if len(proposal.OptionVotes) != 3 {
		t.Fatalf("option votes len = %d, want 3", len(proposal.OptionVotes))
	}
}

func TestVoteFinalizeFullLifecycle(t *testing.T) {
	module, clock, _ := newFixture(200)
	ctx := context.Background()
	proposal := createProposal(t, module, "alice")

	if _, err := module.Commands.Vote(ctx, commands.VoteCommand{
		ProposalID: proposal.ID, Account: "alice", Option: 0, Power: 100,
	}); err != nil {
		t.Fatalf("alice vote failed: %v", err)
	}
	if _, err := module.Commands.Vote(ctx, commands.VoteCommand{
		ProposalID: proposal.ID, Account: "bob", Option: 1, Power: 150,
	}); err != nil {
		t.Fatalf("bob vote failed: %v", err)
	}

	clock.advance(7*24*time.Hour + time.Minute)
	finalized, err := module.Commands.Finalize(ctx, proposal.ID)
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if finalized.Status != entities.ProposalStatusPassed {
		t.Fatalf("status = %s, want passed", finalized.Status)
	}
	if finalized.WinningOption != 1 {
		t.Fatalf("winning option = %d, want 1", finalized.WinningOption)
	}
	if finalized.TotalVotingPower != 250 || finalized.TotalVotes != 2 {
		t.Fatalf("accumulators = (%d power, %d votes), want (250, 2)",
			finalized.TotalVotingPower, finalized.TotalVotes)
	}
	if finalized.FinalizedAt == nil {
		t.Fatal("finalized_at not set")
	}
}

func TestVoteRejections(t *testing.T) {
	module, _, _ := newFixture(200)
	ctx := context.Background()
	proposal := createProposal(t, module, "alice")

	if _, err := module.Commands.Vote(ctx, commands.VoteCommand{
		ProposalID: proposal.ID, Account: "alice", Option: 0, Power: 50,
	}); err != nil {
		t.Fatalf("first vote failed: %v", err)
	}
	if _, err := module.Commands.Vote(ctx, commands.VoteCommand{
		ProposalID: proposal.ID, Account: "alice", Option: 1, Power: 10,
	}); !errors.Is(err, domainerrors.ErrAlreadyVoted) {
		t.Fatalf("second vote: got %v, want ErrAlreadyVoted", err)
	}
	if _, err := module.Commands.Vote(ctx, commands.VoteCommand{
		ProposalID: proposal.ID, Account: "bob", Option: 9, Power: 10,
	}); !errors.Is(err, domainerrors.ErrInvalidOption) {
		t.Fatalf("bad option: got %v, want ErrInvalidOption", err)
	}
	if _, err := module.Commands.Vote(ctx, commands.VoteCommand{
		ProposalID: proposal.ID, Account: "bob", Option: 0, Power: 0,
	}); !errors.Is(err, domainerrors.ErrZeroPower) {
		t.Fatalf("zero power: got %v, want ErrZeroPower", err)
	}
	if _, err := module.Commands.Vote(ctx, commands.VoteCommand{
		ProposalID: proposal.ID, Account: "bob", Option: 0, Power: 151,
	}); !errors.Is(err, domainerrors.ErrInsufficientVotingPower) {
		t.Fatalf("over power: got %v, want ErrInsufficientVotingPower", err)
	}
	if _, err := module.Commands.Vote(ctx, commands.VoteCommand{
		ProposalID: 99, Account: "bob", Option: 0, Power: 10,
	}); !errors.Is(err, domainerrors.ErrProposalNotFound) {
		t.Fatalf("missing proposal: got %v, want ErrProposalNotFound", err)
	}
}

func TestLateVoteFinalizesAndRejectsBallot(t *testing.T) {
	module, clock, _ := newFixture(200)
	ctx := context.Background()
	proposal := createProposal(t, module, "alice")

	if _, err := module.Commands.Vote(ctx, commands.VoteCommand{
		ProposalID: proposal.ID, Account: "alice", Option: 0, Power: 100,
	}); err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	if _, err := module.Commands.Vote(ctx, commands.VoteCommand{
		ProposalID: proposal.ID, Account: "bob", Option: 1, Power: 150,
	}); err != nil {
		t.Fatalf("vote failed: %v", err)
	}

	clock.advance(7*24*time.Hour + time.Minute)
	if _, err := module.Commands.Vote(ctx, commands.VoteCommand{
		ProposalID: proposal.ID, Account: "carol", Option: 2, Power: 20,
	}); !errors.Is(err, domainerrors.ErrVotingClosed) {
		t.Fatalf("late vote: got %v, want ErrVotingClosed", err)
	}

	after, err := module.Queries.GetProposal(ctx, proposal.ID)
	if err != nil {
		t.Fatalf("get proposal failed: %v", err)
	}
	if after.Status != entities.ProposalStatusPassed {
		t.Fatalf("status after late vote = %s, want passed", after.Status)
	}
	if after.TotalVotes != 2 || after.TotalVotingPower != 250 {
		t.Fatalf("late ballot leaked into accumulators: (%d votes, %d power)",
			after.TotalVotes, after.TotalVotingPower)
	}
	if _, voted, err := module.Store.GetVote(ctx, proposal.ID, "carol"); err != nil || voted {
		t.Fatalf("late ballot recorded: voted=%v err=%v", voted, err)
	}
}

func TestFinalizeBelowQuorumRejects(t *testing.T) {
	module, clock, _ := newFixture(1000)
	ctx := context.Background()
	proposal := createProposal(t, module, "alice")

	if _, err := module.Commands.Vote(ctx, commands.VoteCommand{
		ProposalID: proposal.ID, Account: "bob", Option: 1, Power: 150,
	}); err != nil {
		t.Fatalf("vote failed: %v", err)
	}

	clock.advance(8 * 24 * time.Hour)
	finalized, err := module.Commands.Finalize(ctx, proposal.ID)
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if finalized.Status != entities.ProposalStatusRejected {
		t.Fatalf("status = %s, want rejected", finalized.Status)
	}
	if finalized.WinningOption != -1 {
		t.Fatalf("winning option = %d, want -1", finalized.WinningOption)
	}
}

func TestFinalizeTieBreaksToLowestIndex(t *testing.T) {
	module, clock, _ := newFixture(200)
	ctx := context.Background()
	proposal := createProposal(t, module, "alice")

	if _, err := module.Commands.Vote(ctx, commands.VoteCommand{
		ProposalID: proposal.ID, Account: "alice", Option: 2, Power: 100,
	}); err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	if _, err := module.Commands.Vote(ctx, commands.VoteCommand{
		ProposalID: proposal.ID, Account: "bob", Option: 1, Power: 100,
	}); err != nil {
		t.Fatalf("vote failed: %v", err)
	}

	clock.advance(8 * 24 * time.Hour)
	finalized, err := module.Commands.Finalize(ctx, proposal.ID)
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if finalized.WinningOption != 1 {
		t.Fatalf("tie resolved to %d, want 1", finalized.WinningOption)
	}
}

func TestFinalizeGuards(t *testing.T) {
	module, clock, _ := newFixture(100)
	ctx := context.Background()
	proposal := createProposal(t, module, "alice")

	if _, err := module.Commands.Finalize(ctx, proposal.ID); !errors.Is(err, domainerrors.ErrVotingStillOpen) {
		t.Fatalf("early finalize: got %v, want ErrVotingStillOpen", err)
	}

	if _, err := module.Commands.Vote(ctx, commands.VoteCommand{
		ProposalID: proposal.ID, Account: "bob", Option: 0, Power: 150,
	}); err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	clock.advance(8 * 24 * time.Hour)
	if _, err := module.Commands.Finalize(ctx, proposal.ID); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if _, err := module.Commands.Finalize(ctx, proposal.ID); !errors.Is(err, domainerrors.ErrAlreadyFinalized) {
		t.Fatalf("repeat finalize: got %v, want ErrAlreadyFinalized", err)
	}
}

func TestLifecycleAppendsOutboxEvents(t *testing.T) {
	module, clock, store := newFixture(100)
	ctx := context.Background()
	proposal := createProposal(t, module, "alice")

	if _, err := module.Commands.Vote(ctx, commands.VoteCommand{
		ProposalID: proposal.ID, Account: "bob", Option: 0, Power: 150,
	}); err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	clock.advance(8 * 24 * time.Hour)
	if _, err := module.Commands.Finalize(ctx, proposal.ID); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	pending, err := store.ListPendingOutbox(ctx, 10)
	if err != nil {
		t.Fatalf("list outbox failed: %v", err)
	}
	if len(pending) != 3 {
		t.Fatalf("outbox rows = %d, want 3", len(pending))
	}
	types := map[string]bool{}
	for _, row := range pending {
		types[row.EventType] = true
	}
	for _, want := range []string{
		"governance.proposal_created",
		"governance.vote_cast",
		"governance.proposal_finalized",
	} {
		if !types[want] {
			t.Fatalf("missing outbox event %s", want)
		}
	}
}

type openLedger struct{}

func (openLedger) BalanceOf(_ context.Context, _ string) (int64, error) {
	return 10000, nil
}

func (openLedger) VotingPowerOf(_ context.Context, _ string) (int64, error) {
	return 100, nil
}

func TestConcurrentVotesAllCounted(t *testing.T) {
	clock := &stubClock{now: time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)}
	store := memory.NewStore()
	module := proposalengine.NewModule(proposalengine.Dependencies{
		Proposals:        store,
		Ledger:           openLedger{},
		Outbox:           store,
		Clock:            clock,
		IDGen:            store,
		VotingDuration:   7 * 24 * time.Hour,
		MinimumQuorum:    200,
		MinProposalStake: 100,
	})
	ctx := context.Background()

	proposal, err := module.Commands.CreateProposal(ctx, commands.CreateProposalCommand{
		Creator: "alice",
		Title:   "adjust custody provider",
		Options: []string{"keep", "switch"},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	const voters = 8
	var wg sync.WaitGroup
	errs := make([]error, voters)
	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = module.Commands.Vote(ctx, commands.VoteCommand{
				ProposalID: proposal.ID,
				Account:    fmt.Sprintf("voter-%d", i),
				Option:     i % 2,
				Power:      100,
			})
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			t.Fatalf("vote %d failed: %v", i, err)
		}
	}

	tallied, err := store.GetProposal(ctx, proposal.ID)
	if err != nil {
		t.Fatalf("get proposal: %v", err)
	}
	if tallied.TotalVotes != voters || tallied.TotalVotingPower != voters*100 {
		t.Fatalf("tally = %d votes / %d power, want %d/%d",
			tallied.TotalVotes, tallied.TotalVotingPower, voters, voters*100)
	}
	if tallied.OptionVotes[0]+tallied.OptionVotes[1] != voters*100 {
		t.Fatalf("option votes %v do not sum to total power", tallied.OptionVotes)
	}
}

func TestDuplicateBallotLeavesTallyUnchanged(t *testing.T) {
	module, _, store := newFixture(200)
	ctx := context.Background()

	proposal, err := module.Commands.CreateProposal(ctx, commands.CreateProposalCommand{
		Creator: "alice",
		Title:   "rotate auditors",
		Options: []string{"yes", "no"},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := module.Commands.Vote(ctx, commands.VoteCommand{
		ProposalID: proposal.ID, Account: "alice", Option: 0, Power: 100,
	}); err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	if _, err := module.Commands.Vote(ctx, commands.VoteCommand{
		ProposalID: proposal.ID, Account: "alice", Option: 1, Power: 50,
	}); !errors.Is(err, domainerrors.ErrAlreadyVoted) {
		t.Fatalf("repeat vote: got %v, want ErrAlreadyVoted", err)
	}

	tallied, err := store.GetProposal(ctx, proposal.ID)
	if err != nil {
		t.Fatalf("get proposal: %v", err)
	}
	if tallied.TotalVotes != 1 || tallied.TotalVotingPower != 100 {
		t.Fatalf("tally = %d votes / %d power, want 1/100", tallied.TotalVotes, tallied.TotalVotingPower)
	}
	if tallied.OptionVotes[1] != 0 {
		t.Fatalf("rejected ballot leaked into tally: %v", tallied.OptionVotes)
	}
}
