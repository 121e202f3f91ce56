package entities

import "time"

// Account is a ledger account in the smallest token unit. Accounts are
// created implicitly on first credit and never deleted; a drained account
// keeps its record so prior vote eligibility stays auditable.
type Account struct {
	Address     string
	Balance     int64
	VotingPower int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Recompute refreshes the quadratic voting power from the current balance.
// It must run before an account mutation becomes visible to readers.
func (a *Account) Recompute() {
	a.VotingPower = Isqrt(a.Balance)
}

// Isqrt returns floor(sqrt(x)) for x >= 0 using Newton iteration on uint64,
// so the floor property holds for every representable balance. Negative
// inputs map to 0; balances are non-negative by construction.
func Isqrt(x int64) int64 {
	if x <= 0 {
		return 0
	}
	n := uint64(x)
	guess := n
	next := (guess + 1) / 2
	for next < guess {
		guess = next
		next = (guess + n/guess) / 2
	}
	return int64(guess)
}
