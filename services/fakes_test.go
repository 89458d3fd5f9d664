package services

import (
	"errors"
	"sort"
	"sync"

	"github.com/civicissues/user-management/entities"
	"github.com/civicissues/user-management/repositories"
)

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]*entities.User

	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*entities.User)}
}

func (f *fakeUserRepo) Create(user *entities.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	user.UserID = f.nextID
	clone := *user
	f.users[user.UserID] = &clone
	return nil
}

func (f *fakeUserRepo) GetByEmail(email string) (*entities.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByID(userID uint) (*entities.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return nil, nil
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserRepo) GetManyByIDs(userIDs []uint) ([]*entities.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var found []*entities.User
	for _, id := range userIDs {
		if user, ok := f.users[id]; ok {
			clone := *user
			found = append(found, &clone)
		}
	}
	return found, nil
}

func (f *fakeUserRepo) TopByPoints(limit int) ([]*entities.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := make([]*entities.User, 0, len(f.users))
	for _, user := range f.users {
		clone := *user
		all = append(all, &clone)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].TotalPoints > all[j].TotalPoints
	})
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (f *fakeUserRepo) AddPoints(userID uint, points int) (*entities.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	user.TotalPoints += points
	user.SpendablePoints += points
	clone := *user
	return &clone, nil
}

func (f *fakeUserRepo) Ping() error {
	return nil
}

func (f *fakeUserRepo) ListTables() ([]string, error) {
	return []string{"users"}, nil
}

func (f *fakeUserRepo) delete(userID uint) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, userID)
}

type fakeLeaderboardRepo struct {
	mu      sync.Mutex
	scores  map[uint]int
	removed []uint

	topErr error
}

func newFakeLeaderboardRepo() *fakeLeaderboardRepo {
	return &fakeLeaderboardRepo{scores: make(map[uint]int)}
}

func (f *fakeLeaderboardRepo) SetScore(userID uint, totalPoints int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scores[userID] = totalPoints
	return nil
}

func (f *fakeLeaderboardRepo) Top(n int) ([]*entities.LeaderboardScore, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.topErr != nil {
		return nil, f.topErr
	}
	scores := make([]*entities.LeaderboardScore, 0, len(f.scores))
	for userID, score := range f.scores {
		scores = append(scores, &entities.LeaderboardScore{UserID: userID, Score: score})
	}
	sort.Slice(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})
	if len(scores) > n {
		scores = scores[:n]
	}
	return scores, nil
}

func (f *fakeLeaderboardRepo) Remove(userID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.scores, userID)
	f.removed = append(f.removed, userID)
	return nil
}

func (f *fakeLeaderboardRepo) Purge() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scores = make(map[uint]int)
	return nil
}

func (f *fakeLeaderboardRepo) score(userID uint) (int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	score, ok := f.scores[userID]
	return score, ok
}

type fakeAuditPublisher struct {
	mu      sync.Mutex
	records []*entities.PointsAuditRecord
	err     error
}

func (f *fakeAuditPublisher) Publish(record *entities.PointsAuditRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, record)
	return nil
}

var errFakeUnavailable = errors.New("backend unavailable")
