package consumers

import (
	"sync"
	"testing"

	"github.com/civicissues/user-management/app_config"
	"github.com/civicissues/user-management/entities"
	"github.com/civicissues/user-management/points_config"
	"github.com/civicissues/user-management/repositories"
	"github.com/civicissues/user-management/services"
)

type stubUserRepo struct {
	mu    sync.Mutex
	users map[uint]*entities.User
}

func (s *stubUserRepo) Create(user *entities.User) error { return nil }
func (s *stubUserRepo) GetByEmail(email string) (*entities.User, error) {
	return nil, nil
}
func (s *stubUserRepo) GetByID(userID uint) (*entities.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return nil, nil
	}
	clone := *user
	return &clone, nil
}
func (s *stubUserRepo) GetManyByIDs(userIDs []uint) ([]*entities.User, error) {
	return nil, nil
}
func (s *stubUserRepo) TopByPoints(limit int) ([]*entities.User, error) {
	return nil, nil
}
func (s *stubUserRepo) AddPoints(userID uint, points int) (*entities.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	user.TotalPoints += points
	user.SpendablePoints += points
	clone := *user
	return &clone, nil
}
func (s *stubUserRepo) Ping() error { return nil }

func (s *stubUserRepo) ListTables() ([]string, error) { return nil, nil }

type stubLeaderboardRepo struct{}

func (stubLeaderboardRepo) SetScore(userID uint, totalPoints int) error { return nil }
func (stubLeaderboardRepo) Top(n int) ([]*entities.LeaderboardScore, error) {
	return nil, nil
}
func (stubLeaderboardRepo) Remove(userID uint) error { return nil }
func (stubLeaderboardRepo) Purge() error             { return nil }

type stubAuditPublisher struct{}

func (stubAuditPublisher) Publish(record *entities.PointsAuditRecord) error { return nil }

func TestConsumerAppliesEventsConcurrently(t *testing.T) {
	users := &stubUserRepo{users: map[uint]*entities.User{
		1: {UserID: 1, Name: "alice"},
		2: {UserID: 2, Name: "bob"},
		3: {UserID: 3, Name: "carol"},
	}}
	points := services.NewPointsService(points_config.NewPointsConfig(), users, stubLeaderboardRepo{}, stubAuditPublisher{})

	ac := &app_config.AppConfig{KafkaEventsConsumerConcurrency: 4}
	consumer := NewPointsEventsConsumer(ac, points)

	for i := 0; i < 30; i++ {
		consumer.Dispatch(&entities.PointsEvent{
			UserID:    uint(i%3 + 1),
			EventType: entities.EventNewReport,
		})
	}
	consumer.Close()

	for userID := uint(1); userID <= 3; userID++ {
		user, _ := users.GetByID(userID)
		if user.TotalPoints != 100 {
			t.Errorf("user %d total = %d, want 100", userID, user.TotalPoints)
		}
	}
}

func TestConsumerDropsUnprocessableEvents(t *testing.T) {
	users := &stubUserRepo{users: map[uint]*entities.User{
		1: {UserID: 1, Name: "alice"},
	}}
	points := services.NewPointsService(points_config.NewPointsConfig(), users, stubLeaderboardRepo{}, stubAuditPublisher{})

	ac := &app_config.AppConfig{KafkaEventsConsumerConcurrency: 2}
	consumer := NewPointsEventsConsumer(ac, points)

	consumer.Dispatch(&entities.PointsEvent{UserID: 999, EventType: entities.EventNewReport})
	consumer.Dispatch(&entities.PointsEvent{UserID: 1, EventType: "unknown"})
	consumer.Dispatch(&entities.PointsEvent{UserID: 1, EventType: entities.EventConfirmIssue})
	consumer.Close()

	user, _ := users.GetByID(1)
	if user.TotalPoints != 5 {
		t.Errorf("total = %d, want 5", user.TotalPoints)
	}
}
