package dto

import (
	"strings"
	"time"

	"github.com/spec-kit/campus-issues/internal/domain"
)

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Name     string      `json:"name"`
	Username string      `json:"username"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

// Trim strips surrounding whitespace from every field.
func (r *RegisterRequest) Trim() {
	r.Name = strings.TrimSpace(r.Name)
	r.Username = strings.TrimSpace(r.Username)
	r.Password = strings.TrimSpace(r.Password)
	r.Role = domain.Role(strings.TrimSpace(string(r.Role)))
}

// LoginRequest payload for login. Role is ignored for the administrator.
type LoginRequest struct {
	Username string      `json:"username"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

// Trim strips surrounding whitespace from every field.
func (r *LoginRequest) Trim() {
	r.Username = strings.TrimSpace(r.Username)
	r.Password = strings.TrimSpace(r.Password)
	r.Role = domain.Role(strings.TrimSpace(string(r.Role)))
}

// UserResponse is a user without the password.
type UserResponse struct {
	ID        string      `json:"id"`
	Username  string      `json:"username"`
	Name      string      `json:"name"`
	Role      domain.Role `json:"role"`
	RoleLabel string      `json:"roleLabel"`
}

// NewUserResponse converts a domain user.
func NewUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Name:      u.Name,
		Role:      u.Role,
		RoleLabel: u.Role.Label(),
	}
}

// SessionHeader describes the logged-in user for the dashboard header.
type SessionHeader struct {
	Name      string      `json:"name"`
	Username  string      `json:"username"`
	Role      domain.Role `json:"role"`
	RoleLabel string      `json:"roleLabel"`
	IsAdmin   bool        `json:"isAdmin"`
	CanSubmit bool        `json:"canSubmit"`
}

// NewSessionHeader builds the header for u.
func NewSessionHeader(u domain.User) SessionHeader {
	return SessionHeader{
		Name:      u.Name,
		Username:  u.Username,
		Role:      u.Role,
		RoleLabel: u.Role.Label(),
		IsAdmin:   u.IsAdmin(),
		CanSubmit: !u.IsAdmin(),
	}
}

// AuthResponse carries the session token.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
