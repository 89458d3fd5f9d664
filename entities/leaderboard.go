package entities

// LeaderboardScore is a single member of the Redis ranking, points only.
type LeaderboardScore struct {
	UserID uint `json:"user_id"`
	Score  int  `json:"score"`
}

type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	Name        string `json:"name"`
	TotalPoints int    `json:"total_points"`
}

type LeaderboardResponse struct {
	Leaderboard []*LeaderboardEntry `json:"leaderboard"`
}
