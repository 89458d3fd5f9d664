package repositories

import (
	"context"
	"strconv"

	"github.com/redis/rueidis"

	"github.com/civicissues/user-management/entities"
)

const leaderboardKey = "leaderboard:total_points"

// LeaderboardRepository is a Redis ZSET mirror of users.total_points.
// Postgres stays the source of truth; the ZSET is rebuilt lazily when empty.
type LeaderboardRepository interface {
	SetScore(userID uint, totalPoints int) error
	Top(n int) ([]*entities.LeaderboardScore, error)
	Remove(userID uint) error
	Purge() error
}

type LeaderboardRepositoryRedis struct {
	c rueidis.Client
}

func NewLeaderboardRepository(c rueidis.Client) LeaderboardRepository {
	return &LeaderboardRepositoryRedis{c: c}
}

func member(userID uint) string {
	return strconv.FormatUint(uint64(userID), 10)
}

func (l *LeaderboardRepositoryRedis) SetScore(userID uint, totalPoints int) error {
	cmd := l.c.B().Zadd().Key(leaderboardKey).ScoreMember().
		ScoreMember(float64(totalPoints), member(userID)).Build()
	return l.c.Do(context.Background(), cmd).Error()
}

func (l *LeaderboardRepositoryRedis) Top(n int) ([]*entities.LeaderboardScore, error) {
	// ZRANGE 0 -1 means the whole set, not an empty range.
	if n < 1 {
		return nil, nil
	}
	cmd := l.c.B().Zrange().Key(leaderboardKey).
		Min("0").Max(strconv.Itoa(n - 1)).Rev().Withscores().Build()
	zscores, err := l.c.Do(context.Background(), cmd).AsZScores()
	if err != nil {
		return nil, err
	}
	scores := make([]*entities.LeaderboardScore, 0, len(zscores))
	for _, z := range zscores {
		userID, err := strconv.ParseUint(z.Member, 10, 64)
		if err != nil {
			continue
		}
		scores = append(scores, &entities.LeaderboardScore{
			UserID: uint(userID),
			Score:  int(z.Score),
		})
	}
	return scores, nil
}

func (l *LeaderboardRepositoryRedis) Remove(userID uint) error {
	cmd := l.c.B().Zrem().Key(leaderboardKey).Member(member(userID)).Build()
	return l.c.Do(context.Background(), cmd).Error()
}

func (l *LeaderboardRepositoryRedis) Purge() error {
	cmd := l.c.B().Del().Key(leaderboardKey).Build()
	return l.c.Do(context.Background(), cmd).Error()
}
