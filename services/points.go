package services

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/civicissues/user-management/entities"
	"github.com/civicissues/user-management/points_config"
	"github.com/civicissues/user-management/repositories"
)

var (
	ErrUnknownEventType = errors.New("unknown event type")
	ErrUserNotFound     = errors.New("user not found")
)

type PointsService struct {
	pc          *points_config.PointsConfig
	users       repositories.UserRepository
	leaderboard repositories.LeaderboardRepository
	audit       AuditPublisher
}

func NewPointsService(pc *points_config.PointsConfig, users repositories.UserRepository, leaderboard repositories.LeaderboardRepository, audit AuditPublisher) *PointsService {
	return &PointsService{
		pc:          pc,
		users:       users,
		leaderboard: leaderboard,
		audit:       audit,
	}
}

// HandleEvent awards points for a civic event and mirrors the new total into
// the Redis ranking. The Postgres update is the commit point; cache and audit
// failures are logged and absorbed.
func (p *PointsService) HandleEvent(event *entities.PointsEvent) (*entities.PointsEventResult, error) {
	points, ok := p.pc.EventPoints[event.EventType]
	if !ok {
		return nil, ErrUnknownEventType
	}

	user, err := p.users.AddPoints(event.UserID, points)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := p.leaderboard.SetScore(user.UserID, user.TotalPoints); err != nil {
		slog.With("err", err).With("user_id", user.UserID).Warn("Failed to update leaderboard score")
	}

	eventID := event.EventID
	if eventID == "" {
		eventID = uuid.NewString()
	}
	record := &entities.PointsAuditRecord{
		EventID:     eventID,
		UserID:      user.UserID,
		EventType:   event.EventType,
		PointsAdded: points,
		NewTotal:    user.TotalPoints,
		ProcessedAt: time.Now().UnixMilli(),
	}
	if err := p.audit.Publish(record); err != nil {
		slog.With("err", err).With("event_id", eventID).Warn("Failed to publish audit record")
	}

	return &entities.PointsEventResult{
		Message:     "Event processed successfully",
		UserID:      user.UserID,
		PointsAdded: points,
		NewTotal:    user.TotalPoints,
	}, nil
}
