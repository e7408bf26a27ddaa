// ABOUTME: Auth and user profile models exchanged with the backend
// ABOUTME: LoginRequest is validated before it reaches the network

package model

import "time"

// User roles
const (
	RoleAdmin  = "admin"
	RolePlayer = "player"
)

// User account statuses
const (
	UserActive    = "active"
	UserSuspended = "suspended"
	UserWithdrawn = "withdrawn"
)

// User is a profile as returned by GET /me and the users endpoints.
type User struct {
	ID        string    `json:"id"`
	LoginID   string    `json:"login_id"`
	Nickname  string    `json:"nickname"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role"`
	Status    string    `json:"status,omitempty"`
	Points    int       `json:"points"`
	CreatedAt time.Time `json:"created_at"`
}

// DisplayName prefers the nickname and falls back to the login ID.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Nickname != "" {
		return u.Nickname
	}
	return u.LoginID
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	LoginID  string `json:"login_id" validate:"required,max=50"`
	Password string `json:"password" validate:"required,min=4,max=128"`
}

// LoginResponse carries the new credential and the profile it belongs to.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
	User        *User  `json:"user"`
}
