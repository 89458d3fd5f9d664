package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/civicissues/user-management/entities"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

type UserRepository interface {
	Create(user *entities.User) error
	GetByEmail(email string) (*entities.User, error)
	GetByID(userID uint) (*entities.User, error)
	GetManyByIDs(userIDs []uint) ([]*entities.User, error)
	TopByPoints(limit int) ([]*entities.User, error)
	AddPoints(userID uint, points int) (*entities.User, error)
	Ping() error
	ListTables() ([]string, error)
}

type UserRepositoryPostgres struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryPostgres{db: db}
}

func (u *UserRepositoryPostgres) Create(user *entities.User) error {
	err := u.db.Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateEmail
	}
	return err
}

func (u *UserRepositoryPostgres) GetByEmail(email string) (*entities.User, error) {
	user := &entities.User{}
	err := u.db.Where("email = ?", email).First(user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (u *UserRepositoryPostgres) GetByID(userID uint) (*entities.User, error) {
	user := &entities.User{}
	err := u.db.Where("user_id = ?", userID).First(user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (u *UserRepositoryPostgres) GetManyByIDs(userIDs []uint) ([]*entities.User, error) {
	var users []*entities.User
	if err := u.db.Where("user_id IN ?", userIDs).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (u *UserRepositoryPostgres) TopByPoints(limit int) ([]*entities.User, error) {
	var users []*entities.User
	err := u.db.Order("total_points DESC").Limit(limit).Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// AddPoints bumps both point columns in one UPDATE so concurrent events
// from different platform services never lose increments.
func (u *UserRepositoryPostgres) AddPoints(userID uint, points int) (*entities.User, error) {
	res := u.db.Model(&entities.User{}).Where("user_id = ?", userID).Updates(map[string]interface{}{
		"total_points":     gorm.Expr("total_points + ?", points),
		"spendable_points": gorm.Expr("spendable_points + ?", points),
	})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return u.GetByID(userID)
}

func (u *UserRepositoryPostgres) Ping() error {
	return u.db.Exec("SELECT 1").Error
}

func (u *UserRepositoryPostgres) ListTables() ([]string, error) {
	var tables []string
	err := u.db.Raw(`
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public'
		ORDER BY table_name`).Scan(&tables).Error
	if err != nil {
		return nil, err
	}
	return tables, nil
}
