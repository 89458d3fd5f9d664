package services

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/civicissues/user-management/app_config"
	"github.com/civicissues/user-management/entities"
	"github.com/civicissues/user-management/repositories"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenUserNotFound  = errors.New("token user not found")
)

type AccessClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService struct {
	users       repositories.UserRepository
	leaderboard repositories.LeaderboardRepository

	jwtSecret []byte
	jwtTtl    time.Duration
}

func NewAuthService(ac *app_config.AppConfig, users repositories.UserRepository, leaderboard repositories.LeaderboardRepository) *AuthService {
	return &AuthService{
		users:       users,
		leaderboard: leaderboard,
		jwtSecret:   []byte(ac.JwtSecret),
		jwtTtl:      ac.JwtTtl,
	}
}

func (a *AuthService) Register(req *entities.RegisterRequest) (*entities.AuthResponse, error) {
	existing, err := a.users.GetByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = entities.DefaultRole
	}

	user := &entities.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
	}
	// The pre-read above can lose to a concurrent registration; the unique
	// index is the authority.
	if err := a.users.Create(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	// New users enter the ranking at zero so the leaderboard shows them
	// before their first event lands.
	if err := a.leaderboard.SetScore(user.UserID, 0); err != nil {
		slog.With("err", err).Warn("Failed to seed leaderboard entry")
	}

	return a.authResponse(user)
}

func (a *AuthService) Login(req *entities.LoginRequest) (*entities.AuthResponse, error) {
	user, err := a.users.GetByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return a.authResponse(user)
}

// Authenticate verifies a bearer token and loads the user it names.
func (a *AuthService) Authenticate(tokenString string) (*entities.User, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return a.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	user, err := a.users.GetByID(claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrTokenUserNotFound
	}
	return user, nil
}

func (a *AuthService) authResponse(user *entities.User) (*entities.AuthResponse, error) {
	token, err := a.issueToken(user)
	if err != nil {
		return nil, err
	}
	return &entities.AuthResponse{
		UserID: user.UserID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   user.Role,
		Token:  token,
	}, nil
}

func (a *AuthService) issueToken(user *entities.User) (string, error) {
	now := time.Now()
	claims := &AccessClaims{
		UserID: user.UserID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.jwtTtl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.jwtSecret)
}
