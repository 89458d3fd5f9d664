package services

import (
	"log/slog"

	"github.com/civicissues/user-management/entities"
	"github.com/civicissues/user-management/repositories"
)

type LeaderboardService struct {
	leaderboard repositories.LeaderboardRepository
	users       repositories.UserRepository
}

func NewLeaderboardService(leaderboard repositories.LeaderboardRepository, users repositories.UserRepository) *LeaderboardService {
	return &LeaderboardService{
		leaderboard: leaderboard,
		users:       users,
	}
}

// Top returns the n best-ranked users, reading the Redis ZSET first and
// falling back to Postgres when the cache is cold.
func (l *LeaderboardService) Top(n int) ([]*entities.LeaderboardEntry, error) {
	scores, err := l.leaderboard.Top(n)
	if err != nil {
		slog.With("err", err).Warn("Leaderboard cache read failed, falling back to database")
		scores = nil
	}
	if len(scores) == 0 {
		return l.topFromDatabase(n)
	}

	userIds := make([]uint, 0, len(scores))
	for _, score := range scores {
		userIds = append(userIds, score.UserID)
	}
	users, err := l.users.GetManyByIDs(userIds)
	if err != nil {
		return nil, err
	}
	userIdToUser := make(map[uint]*entities.User, len(users))
	for _, user := range users {
		userIdToUser[user.UserID] = user
	}

	entries := make([]*entities.LeaderboardEntry, 0, len(scores))
	for _, score := range scores {
		user, exists := userIdToUser[score.UserID]
		if !exists {
			// Stale cache member, drop it from the ranking.
			if err := l.leaderboard.Remove(score.UserID); err != nil {
				slog.With("err", err).With("user_id", score.UserID).Warn("Failed to evict stale leaderboard member")
			}
			continue
		}
		entries = append(entries, &entities.LeaderboardEntry{
			Rank:        len(entries) + 1,
			Name:        user.Name,
			TotalPoints: score.Score,
		})
	}
	return entries, nil
}

func (l *LeaderboardService) topFromDatabase(n int) ([]*entities.LeaderboardEntry, error) {
	users, err := l.users.TopByPoints(n)
	if err != nil {
		return nil, err
	}
	entries := make([]*entities.LeaderboardEntry, 0, len(users))
	for i, user := range users {
		entries = append(entries, &entities.LeaderboardEntry{
			Rank:        i + 1,
			Name:        user.Name,
			TotalPoints: user.TotalPoints,
		})
		if err := l.leaderboard.SetScore(user.UserID, user.TotalPoints); err != nil {
			slog.With("err", err).With("user_id", user.UserID).Warn("Failed to backfill leaderboard score")
		}
	}
	return entries, nil
}
