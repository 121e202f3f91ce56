package entities

import "testing"

func TestIsqrtFloorBounds(t *testing.T) {
	for x := int64(0); x <= 10000; x++ {
		root := Isqrt(x)
		if root*root > x {
			t.Fatalf("isqrt(%d) = %d overshoots: %d > %d", x, root, root*root, x)
		}
		if (root+1)*(root+1) <= x {
			t.Fatalf("isqrt(%d) = %d undershoots: %d <= %d", x, root, (root+1)*(root+1), x)
		}
	}
}

func TestIsqrtKnownValues(t *testing.T) {
	cases := []struct {
		in   int64
		want int64
	}{
		{0, 0},
		{1, 1},
		{2, 1},
		{3, 1},
		{4, 2},
		{99, 9},
		{100, 10},
		{10000, 100},
		{22500, 150},
		{1 << 62, 1 << 31},
	}
	for _, tc := range cases {
		if got := Isqrt(tc.in); got != tc.want {
			t.Fatalf("isqrt(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestIsqrtMonotonic(t *testing.T) {
	prev := int64(-1)
	for x := int64(0); x <= 5000; x++ {
		root := Isqrt(x)
		if root < prev {
			t.Fatalf("isqrt not monotonic at %d: %d < %d", x, root, prev)
		}
		prev = root
	}
}

func TestIsqrtNegativeIsZero(t *testing.T) {
	if got := Isqrt(-7); got != 0 {
		t.Fatalf("isqrt(-7) = %d, want 0", got)
	}
}

func TestRecomputeTracksBalance(t *testing.T) {
	account := Account{Address: "alice", Balance: 10000}
	account.Recompute()
	if account.VotingPower != 100 {
		t.Fatalf("voting power = %d, want 100", account.VotingPower)
	}
	account.Balance = 0
	account.Recompute()
	if account.VotingPower != 0 {
		t.Fatalf("voting power after drain = %d, want 0", account.VotingPower)
	}
}
