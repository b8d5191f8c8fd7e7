package dto

import (
	"time"

	"github.com/opsdesk/ticket-admin/internal/domain"
)

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CreateUserRequest is the add-user form.
type CreateUserRequest struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Role     domain.Role `json:"role"`
	Password string      `json:"password"`
}

// CreateUserResponse returns the new user and the plaintext password once.
type CreateUserResponse struct {
	User     UserResponse `json:"user"`
	Password string       `json:"password"`
	Message  string       `json:"message"`
}

// UserResponse is a user without credentials.
type UserResponse struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Role      domain.Role       `json:"role"`
	RoleLabel string            `json:"roleLabel"`
	RoleBadge string            `json:"roleBadge"`
	Auth      domain.AuthMethod `json:"auth"`
	CreatedAt string            `json:"createdAt"`
	UpdatedAt string            `json:"updatedAt"`
}

// BulkRoleRequest changes the role of several users.
type BulkRoleRequest struct {
	IDs  []string    `json:"ids"`
	Role domain.Role `json:"role"`
}

// BulkDeleteRequest deletes several users and re-renders the current page.
type BulkDeleteRequest struct {
	IDs       []string `json:"ids"`
	Query     string   `json:"q"`
	Page      int      `json:"page"`
	PageSize  int      `json:"pageSize"`
	FilterKey string   `json:"filterKey"`
}

// ResetPasswordResponse returns the new password once.
type ResetPasswordResponse struct {
	User     UserResponse `json:"user"`
	Password string       `json:"password"`
	Message  string       `json:"message"`
}
