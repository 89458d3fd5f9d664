package repositories

import "testing"

func TestTopNonPositiveLimit(t *testing.T) {
	// Must return before touching the Redis client: a stop index of n-1
	// would otherwise ask for the entire sorted set.
	repo := &LeaderboardRepositoryRedis{}
	for _, n := range []int{0, -1} {
		scores, err := repo.Top(n)
		if err != nil {
			t.Errorf("Top(%d) err = %v", n, err)
		}
		if len(scores) != 0 {
			t.Errorf("Top(%d) = %d scores, want 0", n, len(scores))
		}
	}
}

func TestMember(t *testing.T) {
	if got := member(42); got != "42" {
		t.Errorf("member(42) = %q, want \"42\"", got)
	}
}
