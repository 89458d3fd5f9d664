package entities

import "time"

const DefaultRole = "Citizen"

type User struct {
	UserID          uint      `gorm:"column:user_id;primaryKey" json:"user_id"`
	Name            string    `gorm:"size:100;not null" json:"name"`
	Email           string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash    string    `gorm:"size:255;not null" json:"-"`
	Role            string    `gorm:"size:50;default:Citizen" json:"role"`
	TotalPoints     int       `gorm:"default:0" json:"total_points"`
	SpendablePoints int       `gorm:"default:0" json:"spendable_points"`
	CreatedAt       time.Time `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is the body of both successful register and login calls.
type AuthResponse struct {
	UserID uint   `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Token  string `json:"token"`
}

type ProfileResponse struct {
	UserID          uint   `json:"user_id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	TotalPoints     int    `json:"total_points"`
	SpendablePoints int    `json:"spendable_points"`
}
