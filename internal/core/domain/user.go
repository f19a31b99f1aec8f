package domain

import "time"

// UserRole is the application-wide role carried in access tokens.
type UserRole string

const (
	RoleHRAdmin UserRole = "HR Admin"
	RoleAdmin   UserRole = "admin"
	RoleUser    UserRole = "user"
)

// User represents an operator of the payroll portal.
type User struct {
	UserID       string    `json:"userID"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
